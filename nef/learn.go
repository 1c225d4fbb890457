// Copyright (c) 2024, The NEFGo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

// PESParams are the parameters for the PES (prescribed error
// sensitivity) learning rule: supervised, error-driven descent that
// adjusts decoders (or their weight-matrix expansion) to reduce the
// delivered error signal.
type PESParams struct {

	// enable the rule on this connection
	On bool

	// learning rate
	Lrate float32 `def:"0.0001"`
}

func (ps *PESParams) Update() {
}

func (ps *PESParams) Defaults() {
	ps.Lrate = 1.0e-4
}

// BCMParams are the parameters for the BCM (Bienenstock-Cooper-Munro)
// learning rule: unsupervised, correlation-driven.  Synapses where pre
// and post activity coincide are strengthened when the postsynaptic
// neuron fires above its sliding threshold (the slow average AvgAct)
// and weakened below it.  Only valid on Weights connections.
type BCMParams struct {

	// enable the rule on this connection
	On bool

	// learning rate.  Typically orders of magnitude below the PES rate
	// when combined with it: the rates multiply Hz-scale activities.
	Lrate float32 `def:"1e-09"`
}

func (bp *BCMParams) Update() {
}

func (bp *BCMParams) Defaults() {
	bp.Lrate = 1.0e-9
}

// LearnConnParams holds a connection's learning rules and the error
// signal delivered to them.
type LearnConnParams struct {

	// master switch: when false, no weight or decoder changes happen,
	// freezing whatever has been learned
	Learn bool

	// error-driven PES rule
	PES PESParams `display:"add-fields"`

	// correlation-driven BCM rule
	BCM BCMParams `display:"add-fields"`

	// current error signal in the output space of the connection,
	// accumulated from error connections each step
	Err []float32 `display:"-"`
}

func (ls *LearnConnParams) Update() {
	ls.PES.Update()
	ls.BCM.Update()
}

func (ls *LearnConnParams) Defaults() {
	ls.Learn = true
	ls.PES.Defaults()
	ls.BCM.Defaults()
}

// InitErr clears the error signal, called at the start of each step
// before error connections deliver.
func (ls *LearnConnParams) InitErr() {
	for k := range ls.Err {
		ls.Err[k] = 0
	}
}

// AddErr accumulates an error-signal contribution.
func (ls *LearnConnParams) AddErr(v []float32) {
	for k := range ls.Err {
		ls.Err[k] += v[k]
	}
}

// DWt computes weight or decoder changes from the active learning
// rules.  Decoded connections apply PES directly to the decoders;
// Weights connections accumulate into Synapse.DWt, applied by
// WtFromDWt.
func (ct *Connection) DWt(ctx *Context) {
	if ct.Off || !ct.Learn.Learn {
		return
	}
	switch ct.Typ {
	case Decoded:
		ct.dwtDecodersPES(ctx)
	case Weights:
		if ct.Learn.PES.On {
			ct.dwtSynsPES(ctx)
		}
		if ct.Learn.BCM.On {
			ct.dwtSynsBCM(ctx)
		}
	}
}

// dwtDecodersPES applies the PES rule directly to the decoders:
// each decoder moves against the error in proportion to its neuron's
// activity, scaled down by the population size.
func (ct *Connection) dwtDecodersPES(ctx *Context) {
	if !ct.Learn.PES.On || len(ct.Decoders) == 0 {
		return
	}
	n := len(ct.Acts)
	kappa := ct.Learn.PES.Lrate * ctx.Dt / float32(n)
	d := ct.OutDims
	err := ct.Learn.Err
	for i, a := range ct.Acts {
		if a == 0 {
			continue
		}
		dec := ct.Decoders[i*d : (i+1)*d]
		for k := range dec {
			dec[k] -= kappa * err[k] * a
		}
	}
}

// dwtSynsPES is the weight-matrix expansion of the PES rule: the
// decoder update projected through each receiving neuron's encoder
// and gain.
func (ct *Connection) dwtSynsPES(ctx *Context) {
	rn := ct.Recv
	kappa := ct.Learn.PES.Lrate * ctx.Dt / float32(len(ct.Acts))
	err := ct.Learn.Err
	for ri := range rn.Neurons {
		ejerr := rn.EncDot(ri, err) / rn.Radius
		f := -kappa * rn.Gains[ri] * ejerr
		if f == 0 {
			continue
		}
		nc := int(ct.RConN[ri])
		st := int(ct.RConIndexSt[ri])
		for ci := 0; ci < nc; ci++ {
			ct.Syns[st+ci].DWt += f * ct.Acts[ct.RConIndex[st+ci]]
		}
	}
}

// dwtSynsBCM applies the BCM rule: hebbian when the receiving neuron
// fires above its sliding threshold, anti-hebbian below it.
func (ct *Connection) dwtSynsBCM(ctx *Context) {
	rn := ct.Recv
	lr := ct.Learn.BCM.Lrate * ctx.Dt
	for ri := range rn.Neurons {
		nrn := &rn.Neurons[ri]
		f := lr * nrn.Act * (nrn.Act - nrn.AvgAct)
		if f == 0 {
			continue
		}
		nc := int(ct.RConN[ri])
		st := int(ct.RConIndexSt[ri])
		for ci := 0; ci < nc; ci++ {
			ct.Syns[st+ci].DWt += f * ct.Acts[ct.RConIndex[st+ci]]
		}
	}
}

// WtFromDWt adds the accumulated weight changes into the weights and
// clears them.
func (ct *Connection) WtFromDWt(ctx *Context) {
	if ct.Off || !ct.Learn.Learn {
		return
	}
	for si := range ct.Syns {
		sy := &ct.Syns[si]
		sy.Wt += sy.DWt
		sy.DWt = 0
	}
}
