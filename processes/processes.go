// Copyright (c) 2024, The NEFGo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package processes provides deterministic signal sources that drive
nodes: time-varying stimulus functions used as model inputs.

WhiteSignal is the standard experimental stimulus: a seeded, band-limited
pseudo-random signal, synthesized by sampling Gaussian random Fourier
coefficients below a cutoff frequency and inverse-transforming, then
normalizing to a target RMS amplitude.  Because it is precomputed over
one period it repeats exactly and is fully reproducible from its seed.

Piecewise, Sine and Constant cover scheduled steps (e.g. switching an
inhibitory gate on at a fixed time) and basic test inputs.
*/
package processes

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Process is a deterministic signal source.  Init is called once at
// network build time with the simulation time step and signal dimension;
// Value returns the signal at a given simulation time, valid until the
// next call.
type Process interface {
	Init(dt float32, dim int) error
	Value(t float32) []float32
}

//////////////////////////////////////////////////////////////////////
//  WhiteSignal

// WhiteSignal is a band-limited pseudo-random signal, periodic over
// Period seconds, containing only frequencies at or below High Hz,
// normalized to the given RMS amplitude.  Each dimension is sampled
// independently.  The same Seed always produces the same signal.
type WhiteSignal struct {

	// period of the signal, in seconds: it repeats after this long.
	Period float32 `min:"0"`

	// cutoff frequency in Hz: no energy above this.
	High float32 `min:"0"`

	// root-mean-square amplitude of each dimension.
	RMS float32 `def:"0.5" min:"0"`

	// random seed: the signal is a pure function of this.
	Seed int64

	// precomputed samples, [dim][step]
	Samples [][]float32 `display:"-"`

	// time step the samples were computed for
	StepDt float32 `edit:"-" display:"-"`

	cur []float32
}

func (ws *WhiteSignal) Defaults() {
	ws.Period = 10
	ws.High = 5
	ws.RMS = 0.5
}

// Init precomputes one period of the signal at resolution dt.
func (ws *WhiteSignal) Init(dt float32, dim int) error {
	if ws.Period <= 0 || ws.High <= 0 {
		return fmt.Errorf("processes.WhiteSignal: Period and High must be > 0")
	}
	n := int(math.Round(float64(ws.Period) / float64(dt)))
	if n < 2 {
		return fmt.Errorf("processes.WhiteSignal: period %v too short for dt %v", ws.Period, dt)
	}
	nfreq := int(float64(ws.High) * float64(ws.Period))
	if nfreq < 1 {
		return fmt.Errorf("processes.WhiteSignal: cutoff %v Hz below fundamental 1/%v Hz", ws.High, ws.Period)
	}
	if nfreq > n/2 {
		nfreq = n / 2
	}

	rnd := rand.New(rand.NewSource(ws.Seed))
	fft := fourier.NewFFT(n)
	coeff := make([]complex128, n/2+1)
	seq := make([]float64, n)

	ws.StepDt = dt
	ws.Samples = make([][]float32, dim)
	ws.cur = make([]float32, dim)
	for di := 0; di < dim; di++ {
		for k := range coeff {
			if k >= 1 && k <= nfreq {
				coeff[k] = complex(rnd.NormFloat64(), rnd.NormFloat64())
			} else {
				coeff[k] = 0
			}
		}
		seq = fft.Sequence(seq, coeff)
		ms := 0.0
		for _, v := range seq {
			ms += v * v
		}
		scale := float64(ws.RMS) / math.Sqrt(ms/float64(n))
		smp := make([]float32, n)
		for i, v := range seq {
			smp[i] = float32(v * scale)
		}
		ws.Samples[di] = smp
	}
	return nil
}

// Value returns the signal at time t, wrapping around the period.
func (ws *WhiteSignal) Value(t float32) []float32 {
	n := len(ws.Samples[0])
	idx := int(t/ws.StepDt+0.5) % n
	if idx < 0 {
		idx += n
	}
	for di := range ws.cur {
		ws.cur[di] = ws.Samples[di][idx]
	}
	return ws.cur
}

//////////////////////////////////////////////////////////////////////
//  Piecewise

// Piecewise is a step-function schedule: it outputs Values[i] from
// Times[i] until Times[i+1], and zero before Times[0].
// Times must be sorted ascending.  All values must have the same
// dimension, which must match the node size.
type Piecewise struct {

	// switch times, in seconds, ascending.
	Times []float32

	// output from the corresponding time onward.
	Values [][]float32

	zero []float32
}

func (pw *Piecewise) Init(dt float32, dim int) error {
	if len(pw.Times) != len(pw.Values) {
		return fmt.Errorf("processes.Piecewise: %d times != %d values", len(pw.Times), len(pw.Values))
	}
	for i, v := range pw.Values {
		if len(v) != dim {
			return fmt.Errorf("processes.Piecewise: value %d has dim %d != %d", i, len(v), dim)
		}
		if i > 0 && pw.Times[i] < pw.Times[i-1] {
			return fmt.Errorf("processes.Piecewise: times not ascending at %d", i)
		}
	}
	pw.zero = make([]float32, dim)
	return nil
}

func (pw *Piecewise) Value(t float32) []float32 {
	out := pw.zero
	for i, tm := range pw.Times {
		if t < tm {
			break
		}
		out = pw.Values[i]
	}
	return out
}

//////////////////////////////////////////////////////////////////////
//  Sine

// Sine is Amp * sin(2π Freq t + Phase) on every dimension.
type Sine struct {

	// frequency in Hz
	Freq float32 `def:"1"`

	// amplitude
	Amp float32 `def:"1"`

	// phase offset in radians
	Phase float32

	cur []float32
}

func (sn *Sine) Defaults() {
	sn.Freq = 1
	sn.Amp = 1
}

func (sn *Sine) Init(dt float32, dim int) error {
	sn.cur = make([]float32, dim)
	return nil
}

func (sn *Sine) Value(t float32) []float32 {
	v := sn.Amp * float32(math.Sin(2*math.Pi*float64(sn.Freq)*float64(t)+float64(sn.Phase)))
	for i := range sn.cur {
		sn.cur[i] = v
	}
	return sn.cur
}

//////////////////////////////////////////////////////////////////////
//  Constant

// Constant outputs a fixed vector.
type Constant struct {

	// the fixed output value
	Val []float32
}

func (ct *Constant) Init(dt float32, dim int) error {
	if len(ct.Val) != dim {
		return fmt.Errorf("processes.Constant: value dim %d != %d", len(ct.Val), dim)
	}
	return nil
}

func (ct *Constant) Value(t float32) []float32 {
	return ct.Val
}
