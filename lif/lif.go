// Copyright (c) 2024, The NEFGo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package lif provides the leaky integrate-and-fire (LIF) neuron model used
for spiking ensembles, along with its analytic rate response function.

The membrane potential integrates input current with an RC time constant,
fires when it crosses threshold, and is held at zero for an absolute
refractory period.  The analytic Rate function gives the steady-state
firing rate for a constant input current, which is what the decoder
solvers sample to build tuning curves -- the discrete Step function
converges on the same rates over time, using sub-dt spike time
interpolation to stay accurate at coarse time steps.
*/
package lif

import "cogentcore.org/core/math32"

// Params are the leaky integrate-and-fire neuron model parameters.
// The normalized threshold convention is used: input currents are
// dimensionless, with 1 = firing threshold.
type Params struct {

	// membrane RC time constant, in seconds: how quickly the membrane
	// potential approaches its input current.
	TauRC float32 `def:"0.02" min:"0"`

	// absolute refractory period, in seconds: the membrane is held at 0
	// for this long after each spike.
	TauRef float32 `def:"0.002" min:"0"`

	// normalized firing threshold for the membrane potential.
	Thr float32 `def:"1"`

	// lower bound on membrane potential: strong inhibitory currents
	// cannot drive the voltage below this.
	MinVm float32 `def:"0"`
}

func (lp *Params) Defaults() {
	lp.TauRC = 0.02
	lp.TauRef = 0.002
	lp.Thr = 1
	lp.MinVm = 0
	lp.Update()
}

// Update must be called after any changes to parameters
func (lp *Params) Update() {
}

// Rate returns the analytic steady-state firing rate in Hz
// for a constant input current j.  Zero at or below threshold.
func (lp *Params) Rate(j float32) float32 {
	if j <= lp.Thr {
		return 0
	}
	return 1 / (lp.TauRef + lp.TauRC*math32.Log1p(lp.Thr/(j-lp.Thr)))
}

// GainBias solves for the gain and bias current producing the given
// maximum firing rate at the top of the represented range (x = 1) and
// rate-threshold crossing at the given intercept (x = intercept).
// This inverts the Rate function, so Rate(gain + bias) = maxRate and
// Rate(gain*intercept + bias) = 0 exactly at threshold.
func (lp *Params) GainBias(maxRate, intercept float32) (gain, bias float32) {
	jmax := lp.Thr / (1 - math32.Exp((lp.TauRef-1/maxRate)/lp.TauRC))
	gain = (lp.Thr - jmax) / (intercept - 1)
	bias = lp.Thr - gain*intercept
	return
}

// Step advances the membrane state by one time step of duration dt
// given input current j, returning 1 if the neuron spiked else 0.
// vm is the membrane potential and ref the remaining refractory time.
// Spike times are interpolated within the step: the refractory period
// starts at the estimated threshold-crossing time rather than the step
// boundary, which keeps discrete firing rates close to Rate(j) even
// at dt = 1 msec.
func (lp *Params) Step(vm, ref *float32, j, dt float32) float32 {
	*ref -= dt
	delta := dt - *ref
	if delta < 0 {
		delta = 0
	} else if delta > dt {
		delta = dt
	}
	nwVm := *vm + (j-*vm)*(1-math32.FastExp(-delta/lp.TauRC))
	if nwVm < lp.MinVm {
		nwVm = lp.MinVm
	}
	if *ref < 0 {
		*ref = 0
	}
	if nwVm < lp.Thr {
		*vm = nwVm
		return 0
	}
	// interpolate the time remaining after threshold crossing within
	// this step -- exact for exponential membrane dynamics
	tspk := dt + lp.TauRC*math32.Log1p(-(nwVm-lp.Thr)/(j-lp.Thr))
	*ref = lp.TauRef + tspk
	*vm = 0
	return 1
}
