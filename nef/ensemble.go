// Copyright (c) 2024, The NEFGo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"fmt"
	"math/rand"

	"cogentcore.org/core/base/randx"
	"cogentcore.org/core/math32"
	"github.com/nefgo/nef/filters"
	"github.com/nefgo/nef/lif"
)

// nef.Ensemble is a population of neurons collectively representing a
// Dims-dimensional vector.  Each neuron responds to the projection of
// the represented value onto its encoder, scaled by its gain and offset
// by its bias, both solved at build time so the neuron's tuning curve
// reaches its sampled maximum rate at the edge of the represented range
// and goes silent below its sampled intercept.
type Ensemble struct {
	EnsembleBase

	// neuron model parameters
	LIF lif.Params `display:"add-fields"`

	// distribution of maximum firing rates across neurons, in Hz,
	// at the point where the represented value projects fully onto
	// the neuron's encoder at the radius
	MaxRates randx.RandParams `display:"add-fields"`

	// distribution of tuning-curve intercepts across neurons: the
	// projection value, as a proportion of the radius, below which
	// the neuron is silent
	Intercepts randx.RandParams `display:"add-fields"`

	// filter producing the firing-rate estimate Act from spikes
	ActFilt filters.Lowpass `display:"add-fields"`

	// slow filter producing AvgAct from Act: the sliding modification
	// threshold used by BCM learning on inbound connections
	AvgFilt filters.Lowpass `display:"add-fields"`
}

func (en *Ensemble) Defaults() {
	en.Radius = 1
	en.LIF.Defaults()
	en.MaxRates.Dist = randx.Uniform
	en.MaxRates.Mean = 300
	en.MaxRates.Var = 100
	en.Intercepts.Dist = randx.Uniform
	en.Intercepts.Mean = 0
	en.Intercepts.Var = 1
	en.ActFilt.Tau = 0.005
	en.AvgFilt.Tau = 1
	en.Update()
}

// Update must be called after changing parameters.
func (en *Ensemble) Update() {
	en.LIF.Update()
}

// Build allocates neuron state and solves the per-neuron structural
// parameters: random unit encoders, then gain and bias from sampled
// maximum rates and intercepts.
func (en *Ensemble) Build(ctx *Context) error {
	if en.Dims <= 0 {
		return fmt.Errorf("Build Ensemble %v: Dims must be > 0", en.Nm)
	}
	en.In = make([]float32, en.Dims)
	en.Out = make([]float32, en.Dims)
	if en.Mode == DirectMode {
		en.NNeurons = 0
		return nil
	}
	if en.NNeurons <= 0 {
		return fmt.Errorf("Build Ensemble %v: NNeurons must be > 0", en.Nm)
	}
	if en.Radius <= 0 {
		return fmt.Errorf("Build Ensemble %v: Radius must be > 0", en.Nm)
	}
	en.Shape.SetShape([]int{en.NNeurons}, "Neurons")
	en.Neurons = make([]Neuron, en.NNeurons)
	en.Encoders = make([]float32, en.NNeurons*en.Dims)
	en.Gains = make([]float32, en.NNeurons)
	en.Biases = make([]float32, en.NNeurons)
	for ni := 0; ni < en.NNeurons; ni++ {
		en.initEncoder(ni)
		maxRate := float32(en.MaxRates.Gen())
		itc := float32(en.Intercepts.Gen())
		if itc > 0.999 { // gain diverges as the intercept approaches the radius
			itc = 0.999
		}
		if maxRate <= 0 {
			return fmt.Errorf("Build Ensemble %v: sampled max rate %v must be > 0", en.Nm, maxRate)
		}
		en.Gains[ni], en.Biases[ni] = en.LIF.GainBias(maxRate, itc)
	}
	en.ActFilt.Init(ctx.Dt)
	en.AvgFilt.Init(ctx.Dt)
	return nil
}

// initEncoder sets neuron ni's encoder to a random unit vector,
// uniform on the hypersphere (gaussian sample, normalized).
func (en *Ensemble) initEncoder(ni int) {
	enc := en.Encoders[ni*en.Dims : (ni+1)*en.Dims]
	for {
		nrm := float32(0)
		for k := range enc {
			enc[k] = float32(rand.NormFloat64())
			nrm += enc[k] * enc[k]
		}
		if nrm > 1.0e-8 {
			nrm = math32.Sqrt(nrm)
			for k := range enc {
				enc[k] /= nrm
			}
			return
		}
	}
}

// InitState resets all dynamic neuron state.  Structural parameters
// (encoders, gains, biases) are not changed.
func (en *Ensemble) InitState() {
	for ni := range en.Neurons {
		en.Neurons[ni].InitState()
	}
	for k := range en.In {
		en.In[k] = 0
		en.Out[k] = 0
	}
}

// InitInputs clears the per-step input accumulators, called at the
// start of each step before connections deliver.
func (en *Ensemble) InitInputs(ctx *Context) {
	for k := range en.In {
		en.In[k] = 0
	}
	for ni := range en.Neurons {
		en.Neurons[ni].Ext = 0
	}
}

// CurrentAt returns the input current to neuron ni when the ensemble
// represents value x: gain * (encoder . x) / radius + bias.
func (en *Ensemble) CurrentAt(ni int, x []float32) float32 {
	return en.Gains[ni]*en.EncDot(ni, x)/en.Radius + en.Biases[ni]
}

// RateAt returns the steady-state firing rate of neuron ni when the
// ensemble represents value x: the neuron's tuning curve.
func (en *Ensemble) RateAt(ni int, x []float32) float32 {
	return en.LIF.Rate(en.CurrentAt(ni, x))
}

// Step advances the ensemble one time step: each neuron integrates the
// accumulated encoded input plus any direct current, and spikes are
// filtered into rate estimates.  DirectMode ensembles just pass the
// input through as the represented value.
func (en *Ensemble) Step(ctx *Context) {
	if en.Off {
		return
	}
	if en.Mode == DirectMode {
		copy(en.Out, en.In)
		return
	}
	for ni := range en.Neurons {
		nrn := &en.Neurons[ni]
		nrn.J = en.CurrentAt(ni, en.In) + nrn.Ext
		nrn.Spike = en.LIF.Step(&nrn.Vm, &nrn.Ref, nrn.J, ctx.Dt)
		en.ActFilt.StepVal(&nrn.Act, nrn.Spike/ctx.Dt)
		en.AvgFilt.StepVal(&nrn.AvgAct, nrn.Act)
	}
}
