// Copyright (c) 2024, The NEFGo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lif

import (
	"testing"

	"cogentcore.org/core/math32"
)

// difTol is the numerical difference tolerance for comparing expected values
const difTol = float32(1.0e-4)

func TestRate(t *testing.T) {
	lp := Params{}
	lp.Defaults()

	// at and below threshold the rate is zero
	tests := []float32{-1, 0, 0.5, 1}
	for _, j := range tests {
		if r := lp.Rate(j); r != 0 {
			t.Errorf("Rate(%v) = %v, expected 0", j, r)
		}
	}

	// analytic value: 1 / (0.002 + 0.02 * ln(2)) for j = 2
	r := lp.Rate(2)
	trg := float32(63.039875)
	if math32.Abs(r-trg) > 1.0e-2 {
		t.Errorf("Rate(2) = %v, expected %v", r, trg)
	}

	// rate is monotonic in the input current
	last := float32(0)
	for j := float32(1.01); j < 10; j += 0.5 {
		r := lp.Rate(j)
		if r <= last {
			t.Errorf("Rate not monotonic at j=%v: %v <= %v", j, r, last)
		}
		last = r
	}
}

func TestGainBias(t *testing.T) {
	lp := Params{}
	lp.Defaults()

	maxRates := []float32{20, 100, 200}
	intercepts := []float32{-0.8, 0, 0.5}

	for _, mr := range maxRates {
		for _, in := range intercepts {
			gain, bias := lp.GainBias(mr, in)
			// at the top of the range, the rate is the max rate
			r := lp.Rate(gain + bias)
			if math32.Abs(r-mr) > mr*1.0e-3 {
				t.Errorf("maxRate %v intercept %v: Rate at x=1 = %v", mr, in, r)
			}
			// at the intercept, the current is exactly at threshold
			j := gain*in + bias
			if math32.Abs(j-lp.Thr) > difTol {
				t.Errorf("maxRate %v intercept %v: current at intercept = %v", mr, in, j)
			}
			// just below the intercept the neuron is silent
			if r := lp.Rate(gain*(in-0.01) + bias); r != 0 {
				t.Errorf("maxRate %v intercept %v: rate below intercept = %v", mr, in, r)
			}
		}
	}
}

func TestStepMatchesRate(t *testing.T) {
	lp := Params{}
	lp.Defaults()

	dt := float32(0.001)
	secs := float32(2)
	nsteps := int(secs / dt)

	for _, j := range []float32{1.2, 2, 5} {
		var vm, ref float32
		nspk := float32(0)
		for i := 0; i < nsteps; i++ {
			nspk += lp.Step(&vm, &ref, j, dt)
		}
		rate := nspk / secs
		trg := lp.Rate(j)
		if math32.Abs(rate-trg) > 2 {
			t.Errorf("j=%v: spiking rate %v vs analytic %v", j, rate, trg)
		}
	}
}

func TestStepSubThreshold(t *testing.T) {
	lp := Params{}
	lp.Defaults()

	var vm, ref float32
	for i := 0; i < 1000; i++ {
		if spk := lp.Step(&vm, &ref, 0.9, 0.001); spk != 0 {
			t.Errorf("spiked at sub-threshold current, step %d", i)
		}
	}
	// membrane settles at the input current
	if math32.Abs(vm-0.9) > 0.01 {
		t.Errorf("sub-threshold vm = %v, expected ~0.9", vm)
	}

	// inhibitory current cannot drive vm below MinVm
	for i := 0; i < 1000; i++ {
		lp.Step(&vm, &ref, -10, 0.001)
	}
	if vm < lp.MinVm {
		t.Errorf("vm %v below MinVm %v", vm, lp.MinVm)
	}
}
