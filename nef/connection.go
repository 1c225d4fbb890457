// Copyright (c) 2024, The NEFGo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// SolveDecoders samples the sending ensemble's tuning curves at random
// points in the represented range, evaluates the connection's target
// function (plus transform and scale) at the same points, and solves
// for decoders mapping filtered firing rates to output values.
func (ct *Connection) SolveDecoders(ctx *Context) error {
	en := ct.Send
	m := ct.EvalPoints
	if m <= 0 {
		m = 500
	}
	n := en.NNeurons
	d := ct.OutDims

	acts := mat.NewDense(m, n, nil)
	targets := mat.NewDense(m, d, nil)
	x := make([]float32, en.Dims)
	for i := 0; i < m; i++ {
		evalPoint(x, en.Radius)
		for j := 0; j < n; j++ {
			acts.Set(i, j, float64(en.RateAt(j, x)))
		}
		y := ct.apply(x)
		for k := 0; k < d; k++ {
			targets.Set(i, k, float64(y[k]))
		}
	}

	sv := ct.Solver
	if sv == nil {
		sv = ct.Nw.DefSolver
	}
	dec, err := sv.Solve(acts, targets)
	if err != nil {
		return fmt.Errorf("Connection %v: %w", ct.String(), err)
	}
	ct.Decoders = make([]float32, n*d)
	for j := 0; j < n; j++ {
		for k := 0; k < d; k++ {
			ct.Decoders[j*d+k] = float32(dec.At(j, k))
		}
	}
	return nil
}

// evalPoint samples x uniformly from the ball of given radius.
func evalPoint(x []float32, radius float32) {
	d := len(x)
	for {
		nrm := 0.0
		for k := range x {
			v := rand.NormFloat64()
			x[k] = float32(v)
			nrm += v * v
		}
		if nrm > 1.0e-8 {
			scale := radius * float32(math.Pow(rand.Float64(), 1/float64(d))/math.Sqrt(nrm))
			for k := range x {
				x[k] *= scale
			}
			return
		}
	}
}

// InitWts sets the synaptic weights from the solved decoders and the
// receiving ensemble's encoders and gains, so that before any learning
// the connection computes exactly what the decoded version would.
func (ct *Connection) InitWts() {
	rn := ct.Recv
	d := ct.OutDims
	for ri := range rn.Neurons {
		nc := int(ct.RConN[ri])
		st := int(ct.RConIndexSt[ri])
		g := rn.Gains[ri] / rn.Radius
		for ci := 0; ci < nc; ci++ {
			si := int(ct.RConIndex[st+ci])
			sy := &ct.Syns[st+ci]
			sy.Wt = g * ct.EncDotDec(ri, si, d)
			sy.DWt = 0
		}
	}
}

// EncDotDec returns the dot product of recv neuron ri's encoder with
// send neuron si's decoder.
func (ct *Connection) EncDotDec(ri, si, d int) float32 {
	dec := ct.Decoders[si*d : (si+1)*d]
	return ct.Recv.EncDot(ri, dec)
}

// InitState resets the dynamic state: filtered activities, output, and
// error signal.  Decoders and weights are preserved.
func (ct *Connection) InitState() {
	for i := range ct.Acts {
		ct.Acts[i] = 0
	}
	for k := range ct.Out {
		ct.Out[k] = 0
	}
	ct.Learn.InitErr()
	for si := range ct.Syns {
		ct.Syns[si].DWt = 0
	}
}

// apply assembles the output value from a sent value: function, then
// transform, then scale, into the connection's scratch buffer.
func (ct *Connection) apply(x []float32) []float32 {
	v := x
	if ct.Function != nil {
		v = ct.Function(x)
	}
	switch {
	case ct.Transform != nil:
		for r, row := range ct.Transform {
			s := float32(0)
			for c, w := range row {
				s += w * v[c]
			}
			ct.val[r] = ct.Scale * s
		}
	case ct.Typ == Neurons:
		// broadcast the scalar sender onto every receiving neuron
		for r := range ct.val {
			ct.val[r] = ct.Scale * v[0]
		}
	default:
		for k := range ct.val {
			ct.val[k] = ct.Scale * v[k]
		}
	}
	return ct.val
}

// stepActs advances the filtered firing-rate estimates of the sending
// neurons from their current spikes.
func (ct *Connection) stepActs(ctx *Context) {
	for i := range ct.Send.Neurons {
		ct.spk[i] = ct.Send.Neurons[i].Spike / ctx.Dt
	}
	ct.Syn.Step(ct.Acts, ct.spk)
}

// decode computes the decoded output from the filtered activities.
func (ct *Connection) decode() {
	d := ct.OutDims
	for k := range ct.Out {
		ct.Out[k] = 0
	}
	for i, a := range ct.Acts {
		if a == 0 {
			continue
		}
		dec := ct.Decoders[i*d : (i+1)*d]
		for k, dv := range dec {
			ct.Out[k] += a * dv
		}
	}
}

// Step advances the connection one time step: read the sender, update
// the synaptic filter, compute the output, and deliver it to the sink.
// Spikes read here are from the previous ensemble step, giving one
// synaptic delay per hop.
func (ct *Connection) Step(ctx *Context) {
	if ct.Off {
		return
	}
	switch ct.Typ {
	case Direct:
		ct.Syn.Step(ct.Out, ct.apply(ct.SendNode.Out))
		ct.deliver()
	case Neurons:
		ct.Syn.Step(ct.Out, ct.apply(ct.SendNode.Out))
		rn := ct.Recv
		for ri := range rn.Neurons {
			// gain scaling puts the drive in represented-value units,
			// so the same signal shifts every neuron's tuning equally
			rn.Neurons[ri].Ext += rn.Gains[ri] * ct.Out[ri]
		}
	case Decoded:
		if ct.Send.Mode == DirectMode {
			ct.Syn.Step(ct.Out, ct.apply(ct.Send.Out))
		} else {
			ct.stepActs(ctx)
			ct.decode()
		}
		ct.deliver()
	case Weights:
		ct.stepActs(ctx)
		rn := ct.Recv
		for ri := range rn.Neurons {
			nc := int(ct.RConN[ri])
			st := int(ct.RConIndexSt[ri])
			sum := float32(0)
			for ci := 0; ci < nc; ci++ {
				sum += ct.Syns[st+ci].Wt * ct.Acts[ct.RConIndex[st+ci]]
			}
			rn.Neurons[ri].Ext += sum
		}
		ct.decode() // decoded readout of the original function, for probing
	}
}

// deliver adds the output into the receiving ensemble's represented
// input, or into the learning target's error signal.
func (ct *Connection) deliver() {
	switch {
	case ct.Recv != nil:
		for k, v := range ct.Out {
			ct.Recv.In[k] += v
		}
	case ct.LearnTarget != nil:
		ct.LearnTarget.Learn.AddErr(ct.Out)
	}
}
