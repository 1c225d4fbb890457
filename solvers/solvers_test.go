// Copyright (c) 2024, The NEFGo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solvers

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestLstsqL2Identity(t *testing.T) {
	// with identity activities, regularized decoders shrink the targets
	// by exactly 1 / (1 + m*reg^2): directly checkable by hand.
	ls := LstsqL2{}
	ls.Defaults()

	m := 3
	acts := mat.NewDense(m, m, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
	targets := mat.NewDense(m, 1, []float64{1, -2, 0.5})

	dec, err := ls.Solve(acts, targets)
	if err != nil {
		t.Fatal(err)
	}
	shrink := 1 / (1 + float64(m)*ls.Reg*ls.Reg)
	for i := 0; i < m; i++ {
		trg := targets.At(i, 0) * shrink
		if got := dec.At(i, 0); math.Abs(got-trg) > 1.0e-10 {
			t.Errorf("decoder %d = %v, expected %v", i, got, trg)
		}
	}
}

func TestLstsqL2Residual(t *testing.T) {
	// an overdetermined consistent system with low regularization should
	// reconstruct the targets nearly exactly.
	ls := LstsqL2{Reg: 1.0e-6}

	// activities of 4 "neurons" at 8 eval points, full column rank
	m, n := 8, 4
	acts := mat.NewDense(m, n, nil)
	for i := 0; i < m; i++ {
		x := -1 + 2*float64(i)/float64(m-1)
		acts.Set(i, 0, math.Max(0, 50*(x+0.9)))
		acts.Set(i, 1, math.Max(0, 40*(0.8-x)))
		acts.Set(i, 2, math.Max(0, 30*(x+0.2)))
		acts.Set(i, 3, math.Max(0, 60*(0.1-x)))
	}
	// target is a linear combination of the tuning curves: exactly solvable
	trueDec := []float64{0.01, -0.02, 0.005, 0.015}
	targets := mat.NewDense(m, 1, nil)
	for i := 0; i < m; i++ {
		v := 0.0
		for j := 0; j < n; j++ {
			v += acts.At(i, j) * trueDec[j]
		}
		targets.Set(i, 0, v)
	}

	dec, err := ls.Solve(acts, targets)
	if err != nil {
		t.Fatal(err)
	}
	var recon mat.Dense
	recon.Mul(acts, dec)
	for i := 0; i < m; i++ {
		if diff := math.Abs(recon.At(i, 0) - targets.At(i, 0)); diff > 1.0e-6 {
			t.Errorf("residual at row %d = %v", i, diff)
		}
	}
}

func TestLstsqL2Mismatch(t *testing.T) {
	ls := LstsqL2{}
	ls.Defaults()
	acts := mat.NewDense(4, 2, nil)
	targets := mat.NewDense(3, 1, nil)
	if _, err := ls.Solve(acts, targets); err == nil {
		t.Error("expected row mismatch error")
	}
}
