// Copyright (c) 2024, The NEFGo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package filters provides the synaptic filters that temporally smooth
spike trains and other signals flowing through connections and probes.

Raw spike trains are sequences of scaled impulses (1/dt on spike steps),
so every connection applies a filter to convert them into the smooth
currents that downstream populations and learning rules operate on.
The first-order Lowpass filter is the standard synapse model; the
second-order Alpha filter gives smoother output at the cost of more lag,
and is mostly useful on probes.
*/
package filters

import "cogentcore.org/core/math32"

// Filter is the interface shared by the filter orders, for components
// such as probes that can take either.  Init must be called with the
// simulation time step before Step; Reset clears any internal state.
type Filter interface {
	Init(dt float32)
	Step(out []float32, in []float32)
	Reset()
}

// Lowpass is a first-order exponential synapse filter with time
// constant Tau.  A Tau of 0 passes the signal through unfiltered.
type Lowpass struct {

	// filter time constant, in seconds.  0 = no filtering.
	Tau float32 `def:"0.005,0.01,0.05" min:"0"`

	// per-step decay factor = exp(-dt/Tau), computed by Init
	Decay float32 `edit:"-" display:"-" json:"-" xml:"-"`
}

func (lp *Lowpass) Defaults() {
	lp.Tau = 0.005
}

// Init computes the per-step decay coefficient for given time step,
// and must be called before Step.
func (lp *Lowpass) Init(dt float32) {
	if lp.Tau <= 0 {
		lp.Decay = 0
		return
	}
	lp.Decay = math32.Exp(-dt / lp.Tau)
}

// Step advances filter state out by one time step with new input in.
// The filter is normalized to preserve the steady-state value of its
// input: a constant input passes through unchanged once settled.
func (lp *Lowpass) Step(out []float32, in []float32) {
	if lp.Decay == 0 {
		copy(out, in)
		return
	}
	for i, v := range in {
		out[i] = lp.Decay*out[i] + (1-lp.Decay)*v
	}
}

// Reset does nothing: Lowpass state lives in the caller's output slice.
func (lp *Lowpass) Reset() {
}

// StepVal is the scalar version of Step.
func (lp *Lowpass) StepVal(out *float32, in float32) {
	if lp.Decay == 0 {
		*out = in
		return
	}
	*out = lp.Decay**out + (1-lp.Decay)*in
}

// Alpha is a second-order critically-damped synapse filter:
// two cascaded lowpass stages with the same time constant.
// Its impulse response rises smoothly from zero, unlike Lowpass
// which jumps discontinuously, so probed signals look less jagged.
type Alpha struct {

	// filter time constant of each stage, in seconds.  0 = no filtering.
	Tau float32 `def:"0.01" min:"0"`

	// first-stage state
	Stage []float32 `display:"-"`

	// per-step decay factor = exp(-dt/Tau), computed by Init
	Decay float32 `edit:"-" display:"-" json:"-" xml:"-"`
}

func (ap *Alpha) Defaults() {
	ap.Tau = 0.01
}

// Init computes the decay coefficient for the given time step.
// The stage state is sized to the signal on first Step.
func (ap *Alpha) Init(dt float32) {
	if ap.Tau <= 0 {
		ap.Decay = 0
		return
	}
	ap.Decay = math32.Exp(-dt / ap.Tau)
}

// Reset clears the first-stage state.
func (ap *Alpha) Reset() {
	for i := range ap.Stage {
		ap.Stage[i] = 0
	}
}

// Step advances filter state out by one time step with new input in.
func (ap *Alpha) Step(out []float32, in []float32) {
	if ap.Decay == 0 {
		copy(out, in)
		return
	}
	if len(ap.Stage) != len(in) {
		ap.Stage = make([]float32, len(in))
	}
	for i, v := range in {
		ap.Stage[i] = ap.Decay*ap.Stage[i] + (1-ap.Decay)*v
		out[i] = ap.Decay*out[i] + (1-ap.Decay)*ap.Stage[i]
	}
}
