// Copyright (c) 2024, The NEFGo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package solvers computes linear decoders: the weights mapping neural
activities back to the values a population represents.

Given tuning-curve activities A (one row per evaluation point, one
column per neuron) and target values Y (one row per evaluation point,
one column per output dimension), a solver finds decoders D minimizing
||A D - Y||.  LstsqL2 is the standard choice: L2-regularized least
squares solved via the normal equations with a Cholesky factorization.

Solvers work in float64 for numerical stability and convert at the
boundary; the rest of the engine is float32.
*/
package solvers

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Solver computes decoders from sampled activities and target values.
// acts is m x n (eval points x neurons), targets is m x d
// (eval points x output dimensions); the result is n x d.
type Solver interface {
	Solve(acts, targets *mat.Dense) (*mat.Dense, error)
}

// LstsqL2 is an L2-regularized least-squares decoder solver.
// The effective regularization scales with the largest activity so that
// Reg is expressed as a fraction of the maximum firing rate.
type LstsqL2 struct {

	// regularization as a fraction of the maximum activity value.
	Reg float64 `def:"0.1" min:"0"`
}

func (ls *LstsqL2) Defaults() {
	ls.Reg = 0.1
}

// Solve computes decoders for the given activities and targets by
// solving the normal equations (AᵀA + m σ² I) D = AᵀY with
// σ = Reg * max|A|.  Returns an error if the system is singular,
// which only happens with zero regularization and degenerate tuning.
func (ls *LstsqL2) Solve(acts, targets *mat.Dense) (*mat.Dense, error) {
	m, n := acts.Dims()
	tm, d := targets.Dims()
	if tm != m {
		return nil, fmt.Errorf("solvers.LstsqL2: %d activity rows != %d target rows", m, tm)
	}

	amax := 0.0
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			if v := math.Abs(acts.At(i, j)); v > amax {
				amax = v
			}
		}
	}
	sigma := ls.Reg * amax

	var gram mat.SymDense
	gram.SymOuterK(1, acts.T())
	for i := 0; i < n; i++ {
		gram.SetSym(i, i, gram.At(i, i)+float64(m)*sigma*sigma)
	}

	var aty mat.Dense
	aty.Mul(acts.T(), targets)

	dec := mat.NewDense(n, d, nil)
	var chol mat.Cholesky
	if chol.Factorize(&gram) {
		if err := chol.SolveTo(dec, &aty); err != nil {
			return nil, fmt.Errorf("solvers.LstsqL2: %w", err)
		}
		return dec, nil
	}
	// not positive definite: fall back on a general dense solve
	if err := dec.Solve(&gram, &aty); err != nil {
		return nil, fmt.Errorf("solvers.LstsqL2: singular activity matrix: %w", err)
	}
	return dec, nil
}
