// Copyright (c) 2024, The NEFGo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filters

import (
	"testing"

	"cogentcore.org/core/math32"
)

func TestLowpassStepResponse(t *testing.T) {
	lp := Lowpass{Tau: 0.01}
	lp.Init(0.001)

	out := []float32{0}
	in := []float32{1}

	// after one time constant (10 steps) a unit step reaches 1 - 1/e
	for i := 0; i < 10; i++ {
		lp.Step(out, in)
	}
	trg := 1 - math32.Exp(-1)
	if math32.Abs(out[0]-trg) > 1.0e-3 {
		t.Errorf("step response after tau = %v, expected %v", out[0], trg)
	}

	// settles at the input value
	for i := 0; i < 1000; i++ {
		lp.Step(out, in)
	}
	if math32.Abs(out[0]-1) > 1.0e-4 {
		t.Errorf("settled value = %v, expected 1", out[0])
	}
}

func TestLowpassPassthrough(t *testing.T) {
	lp := Lowpass{Tau: 0}
	lp.Init(0.001)
	out := []float32{0.5}
	lp.Step(out, []float32{-2})
	if out[0] != -2 {
		t.Errorf("Tau=0 should pass through, got %v", out[0])
	}
}

func TestAlphaSmooth(t *testing.T) {
	ap := Alpha{Tau: 0.01}
	ap.Init(0.001)

	out := []float32{0}
	in := []float32{1}

	// alpha response starts slower than lowpass but still settles at 1
	ap.Step(out, in)
	first := out[0]
	lp := Lowpass{Tau: 0.01}
	lp.Init(0.001)
	lout := []float32{0}
	lp.Step(lout, in)
	if first >= lout[0] {
		t.Errorf("alpha first step %v should be below lowpass %v", first, lout[0])
	}
	for i := 0; i < 10000; i++ {
		ap.Step(out, in)
	}
	if math32.Abs(out[0]-1) > 1.0e-3 {
		t.Errorf("alpha settled value = %v, expected 1", out[0])
	}
}
