// Copyright (c) 2024, The NEFGo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"math/rand"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/nefgo/nef/processes"
)

// tolerance for comparing known exact values
const difTol = float32(1.0e-5)

func CmprFloats(got, trg []float32, msg string, t *testing.T) {
	t.Helper()
	for i := range got {
		dif := math32.Abs(got[i] - trg[i])
		if dif > difTol { // allow for small numerical diffs
			t.Errorf("%v err: got: %v, trg: %v, dif: %v\n", msg, got[i], trg[i], dif)
		}
	}
}

func TestBuildEncoders(t *testing.T) {
	rand.Seed(10)
	nt := NewNetwork("BldTest")
	en := nt.AddEnsemble("ens", 40, 2)
	ctx := NewContext()
	if err := nt.Build(ctx); err != nil {
		t.Fatal(err)
	}
	for ni := 0; ni < en.NNeurons; ni++ {
		nrm := float32(0)
		for k := 0; k < en.Dims; k++ {
			e := en.Encoders[ni*en.Dims+k]
			nrm += e * e
		}
		if math32.Abs(nrm-1) > 1.0e-5 {
			t.Errorf("encoder %d norm^2 = %v, expected 1", ni, nrm)
		}
		if en.Gains[ni] <= 0 {
			t.Errorf("gain %d = %v, expected > 0", ni, en.Gains[ni])
		}
	}
}

func TestBuildErrors(t *testing.T) {
	rand.Seed(10)
	nt := NewNetwork("ErrTest")
	a := nt.AddEnsemble("a", 20, 1)
	b := nt.AddEnsemble("b", 20, 2) // dims mismatch
	nt.ConnectDecoded(a, b)
	ctx := NewContext()
	if err := nt.Build(ctx); err == nil {
		t.Error("expected dimension mismatch error")
	}
}

func TestDirectChannel(t *testing.T) {
	rand.Seed(10)
	nt := NewNetwork("DirTest")
	in := nt.AddNode("in", 2)
	in.Proc = &processes.Constant{Val: []float32{0.25, -0.75}}
	dir := nt.AddDirect("dir", 2)
	ct := nt.ConnectNode(in, dir)
	ct.Syn.Tau = 0 // unfiltered
	ctx := NewContext()
	if err := nt.Build(ctx); err != nil {
		t.Fatal(err)
	}
	nt.Step(ctx)
	CmprFloats(dir.Out, []float32{0.25, -0.75}, "direct channel", t)
}

func TestDirectTransform(t *testing.T) {
	rand.Seed(10)
	nt := NewNetwork("TrTest")
	in := nt.AddNode("in", 2)
	in.Proc = &processes.Constant{Val: []float32{1, 2}}
	dir := nt.AddDirect("dir", 1)
	ct := nt.ConnectNode(in, dir)
	ct.Syn.Tau = 0
	ct.Transform = [][]float32{{3, -1}}
	ct.Scale = 2
	ctx := NewContext()
	if err := nt.Build(ctx); err != nil {
		t.Fatal(err)
	}
	nt.Step(ctx)
	// 2 * (3*1 + -1*2) = 2
	CmprFloats(dir.Out, []float32{2}, "transform+scale", t)
}

func TestWeightsMatchDecoded(t *testing.T) {
	rand.Seed(10)
	nt := NewNetwork("WtTest")
	pre := nt.AddEnsemble("pre", 30, 1)
	post := nt.AddEnsemble("post", 25, 1)
	ct := nt.ConnectWeights(pre, post)
	ctx := NewContext()
	if err := nt.Build(ctx); err != nil {
		t.Fatal(err)
	}
	// initial weights must reproduce the encoded decoded value exactly:
	// for any activity vector a, sum_i w_ij a_i == gain_j * enc_j . (D^T a) / radius
	acts := make([]float32, pre.NNeurons)
	for i := range acts {
		acts[i] = float32(i%7) * 13.5
	}
	d := ct.OutDims
	val := make([]float32, d)
	for i, a := range acts {
		for k := 0; k < d; k++ {
			val[k] += a * ct.Decoders[i*d+k]
		}
	}
	for ri := range post.Neurons {
		nc := int(ct.RConN[ri])
		st := int(ct.RConIndexSt[ri])
		wsum := float32(0)
		for ci := 0; ci < nc; ci++ {
			wsum += ct.Syns[st+ci].Wt * acts[ct.RConIndex[st+ci]]
		}
		trg := post.Gains[ri] * post.EncDot(ri, val) / post.Radius
		if math32.Abs(wsum-trg) > 1.0e-2*math32.Max(1, math32.Abs(trg)) {
			t.Errorf("neuron %d: weight current %v != encoded decoded %v", ri, wsum, trg)
		}
	}
}

func TestDecodedAccuracy(t *testing.T) {
	rand.Seed(10)
	nt := NewNetwork("AccTest")
	in := nt.AddNode("in", 1)
	in.Proc = &processes.Constant{Val: []float32{0.5}}
	ens := nt.AddEnsemble("ens", 60, 1)
	nt.ConnectNode(in, ens)
	pb := nt.AddProbeState(ens, 0.01)
	ctx := NewContext()
	if err := nt.Build(ctx); err != nil {
		t.Fatal(err)
	}
	nt.Run(ctx, 0.3)
	// average the decoded estimate over the last 100 ms, after the
	// filters have settled
	n := pb.NumRows()
	avg := float32(0)
	cnt := 0
	for r := n - 100; r < n; r++ {
		avg += pb.Row(r)[0]
		cnt++
	}
	avg /= float32(cnt)
	if math32.Abs(avg-0.5) > 0.15 {
		t.Errorf("decoded estimate = %v, expected near 0.5", avg)
	}
}

func TestNeuronsInhibition(t *testing.T) {
	rand.Seed(10)
	nt := NewNetwork("InhTest")
	sig := nt.AddNode("sig", 1)
	sig.Proc = &processes.Constant{Val: []float32{0.8}}
	ens := nt.AddEnsemble("ens", 100, 1)
	nt.ConnectNode(sig, ens)
	gate := nt.AddNode("gate", 1)
	gate.Proc = &processes.Piecewise{Times: []float32{0.1}, Values: [][]float32{{1}}}
	inh := nt.ConnectNeurons(gate, ens)
	// gain scaling makes -2.5 drive every neuron below its intercept,
	// whatever its bias current
	inh.Scale = -2.5
	ctx := NewContext()
	if err := nt.Build(ctx); err != nil {
		t.Fatal(err)
	}
	spikesBefore := 0
	for ctx.Time < 0.1 {
		nt.Step(ctx)
		for ni := range ens.Neurons {
			spikesBefore += int(ens.Neurons[ni].Spike)
		}
	}
	if spikesBefore == 0 {
		t.Error("expected spiking before inhibition")
	}
	// let the inhibitory synapse settle, then expect total silence
	for ctx.Time < 0.15 {
		nt.Step(ctx)
	}
	spikesAfter := 0
	for ctx.Time < 0.25 {
		nt.Step(ctx)
		for ni := range ens.Neurons {
			spikesAfter += int(ens.Neurons[ni].Spike)
		}
	}
	if spikesAfter != 0 {
		t.Errorf("expected silence under inhibition, got %d spikes", spikesAfter)
	}
}

func TestDupNames(t *testing.T) {
	rand.Seed(10)
	nt := NewNetwork("DupTest")
	a := nt.AddEnsemble("a", 10, 1)
	b := nt.AddEnsemble("b", 10, 1)
	c1 := nt.ConnectDecoded(a, b)
	c2 := nt.ConnectDecoded(a, b) // same pair again, e.g. a second function
	if c1.Nm != "aTob" || c2.Nm != "aTob2" {
		t.Errorf("expected unique auto names, got %v and %v", c1.Nm, c2.Nm)
	}
	p1 := nt.AddProbeState(a, 0.01)
	p2 := nt.AddProbeState(a, 0.01)
	if p1.Nm == p2.Nm {
		t.Errorf("duplicate probe names: %v", p1.Nm)
	}
	ctx := NewContext()
	if err := nt.Build(ctx); err != nil {
		t.Fatal(err)
	}
	c2.Nm = c1.Nm // forcing a collision is a build error
	if err := nt.Build(ctx); err == nil {
		t.Error("expected duplicate connection name error")
	}
}

func TestErrRouting(t *testing.T) {
	rand.Seed(10)
	nt := NewNetwork("ErrRoute")
	pre := nt.AddEnsemble("pre", 20, 1)
	post := nt.AddEnsemble("post", 20, 1)
	conn := nt.ConnectWeights(pre, post)
	conn.Learn.PES.On = true

	errv := nt.AddNode("errv", 1)
	errv.Proc = &processes.Constant{Val: []float32{0.3}}
	errdir := nt.AddDirect("errdir", 1)
	ec := nt.ConnectNode(errv, errdir)
	ec.Syn.Tau = 0
	esig := nt.ConnectError(errdir, conn)
	esig.Syn.Tau = 0

	ctx := NewContext()
	if err := nt.Build(ctx); err != nil {
		t.Fatal(err)
	}
	nt.Step(ctx) // errdir.Out set at end of this step
	nt.Step(ctx) // error connection reads it and delivers
	CmprFloats(conn.Learn.Err, []float32{0.3}, "routed error", t)
}
