// Copyright (c) 2024, The NEFGo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"math/rand"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/nefgo/nef/filters"
	"github.com/nefgo/nef/processes"
)

func TestProbeAlphaFilter(t *testing.T) {
	rand.Seed(10)
	nt := NewNetwork("AlphaProbe")
	in := nt.AddNode("in", 1)
	in.Proc = &processes.Constant{Val: []float32{1}}
	pb := nt.AddProbeNode(in, 0)
	pb.Filt = &filters.Alpha{Tau: 0.01}
	ctx := NewContext()
	if err := nt.Build(ctx); err != nil {
		t.Fatal(err)
	}
	nt.Run(ctx, 0.5)

	// second-order response to a unit step rises smoothly from zero:
	// first sample = (1 - decay)^2 with decay = exp(-dt/tau)
	first := pb.Row(0)[0]
	if first <= 0 || first > 0.01 {
		t.Errorf("first sample = %v, expected small positive", first)
	}
	if pb.Row(10)[0] <= first {
		t.Error("filtered response should be rising")
	}
	final := pb.Row(pb.NumRows() - 1)[0]
	if math32.Abs(final-1) > 1.0e-3 {
		t.Errorf("settled value = %v, expected 1", final)
	}
}

func TestProbeUnitsFiltered(t *testing.T) {
	rand.Seed(10)
	nt := NewNetwork("UnitProbe")
	sig := nt.AddNode("sig", 1)
	sig.Proc = &processes.Constant{Val: []float32{0.5}}
	ens := nt.AddEnsemble("ens", 10, 1)
	nt.ConnectNode(sig, ens)
	raw := nt.AddProbeUnits(ens, "Spike", 0)
	sm := nt.AddProbeUnits(ens, "Spike", 0.02)
	ctx := NewContext()
	if err := nt.Build(ctx); err != nil {
		t.Fatal(err)
	}
	nt.Run(ctx, 0.2)

	// the raw probe records 0/1 impulses; the filtered one must
	// actually smooth them, staying strictly inside (0, 1) for any
	// neuron that spiked at least once
	n := raw.NumRows()
	for ni := 0; ni < ens.NNeurons; ni++ {
		spiked := false
		for r := 0; r < n; r++ {
			if raw.Row(r)[ni] == 1 {
				spiked = true
				break
			}
		}
		if !spiked {
			continue
		}
		last := sm.Row(n - 1)[ni]
		if last <= 0 || last >= 1 {
			t.Errorf("neuron %d: filtered spike trace = %v, expected in (0, 1)", ni, last)
		}
	}
}
