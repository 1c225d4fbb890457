// Copyright (c) 2024, The NEFGo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"errors"
	"fmt"
	"log"

	"cogentcore.org/core/math32"
	"cogentcore.org/core/math32/minmax"
	"cogentcore.org/core/tensor"
	"github.com/emer/emergent/v2/paths"
	"github.com/nefgo/nef/filters"
	"github.com/nefgo/nef/solvers"
)

// ConnTypes is the type of a connection, determining what it reads
// from its sender and how it delivers to its receiver.
type ConnTypes int32

const (
	// Decoded reads out a function of the sending ensemble's
	// represented value through solved decoders.
	Decoded ConnTypes = iota

	// Weights expands the decoded computation into a full
	// neuron-to-neuron synaptic weight matrix (encoders x decoders at
	// initialization), injecting current directly into the receiving
	// neurons.  Required for weight-level learning rules such as BCM.
	Weights

	// Direct feeds a node's output into the receiving ensemble's
	// represented space, to be encoded by its neurons.
	Direct

	// Neurons injects a node's output as current onto the receiving
	// ensemble's individual neurons, bypassing the encoders.  The
	// current is scaled by each neuron's gain, so it acts in
	// represented-value units: a drive more negative than the
	// represented range silences every neuron regardless of tuning.
	Neurons

	ConnTypesN
)

var connTypeNames = []string{"Decoded", "Weights", "Direct", "Neurons", "ConnTypesN"}

func (ct ConnTypes) String() string {
	if ct < 0 || ct >= ConnTypesN {
		return fmt.Sprintf("ConnTypes(%d)", ct)
	}
	return connTypeNames[ct]
}

// nef.Connection is a directed edge carrying a signal between network
// objects.  The sender is an Ensemble or a Node; the sink is an
// Ensemble, another connection's learning rule (the error signal for
// PES), or nothing (probe-only).  Signals pass through an optional
// function, linear transform and scale, and a synaptic lowpass filter.
type Connection struct {

	// our parent network
	Nw *Network `display:"-"`

	// name of the connection, which must be unique within the network
	Nm string

	// class is for applying parameter styles, can be space separated multple tags
	Cls string

	// inactivate this connection: skipped in stepping and learning
	Off bool

	// type of the connection
	Typ ConnTypes

	// sending ensemble; nil if SendNode is set
	Send *Ensemble `display:"-"`

	// sending node; nil if Send is set
	SendNode *Node `display:"-"`

	// receiving ensemble; nil if LearnTarget is set or probe-only
	Recv *Ensemble `display:"-"`

	// if set, the output is delivered as the error signal to this
	// connection's learning rule instead of to an ensemble
	LearnTarget *Connection `display:"-"`

	// function computed on the sent value.  For Decoded and Weights
	// connections from spiking ensembles it is folded into the solved
	// decoders; otherwise it is applied directly each step.
	// FuncDims must give its output dimension.
	Function func(x []float32) []float32 `display:"-"`

	// output dimension of Function; required when Function is set
	FuncDims int

	// linear transform applied after Function: rows x value dims.
	// nil = identity.
	Transform [][]float32 `display:"-"`

	// scalar gain on the output, applied after Transform
	Scale float32 `def:"1"`

	// synaptic filter smoothing the signal (spike trains for ensemble
	// senders, raw values for node senders)
	Syn filters.Lowpass `display:"add-fields"`

	// decoder solver; nil = the network default (regularized least squares)
	Solver solvers.Solver `display:"-"`

	// number of represented-space points to sample when solving decoders
	EvalPoints int `def:"500"`

	// connectivity pattern for Weights connections; nil = full
	Pat paths.Pattern `display:"-"`

	// learning rules and error-signal state
	Learn LearnConnParams `display:"add-fields"`

	// output dimension after function and transform, set at build
	OutDims int `edit:"-"`

	// solved decoders, flat [send neurons][OutDims]
	Decoders []float32 `display:"-"`

	// filtered firing rates of the sending neurons, in Hz
	Acts []float32 `display:"-"`

	// current output value this step: OutDims for value-carrying
	// connections, recv neurons for Neurons connections
	Out []float32 `display:"-"`

	// synapse state for Weights connections, recv-major ordering
	Syns []Synapse `display:"-"`

	// number of synapses for each recv neuron
	RConN []int32 `display:"-"`

	// average and maximum synapses per recv neuron
	RConNAvgMax minmax.AvgMax32 `edit:"-" display:"inline"`

	// starting index into Syns and RConIndex for each recv neuron
	RConIndexSt []int32 `display:"-"`

	// send neuron index for each synapse, recv-major
	RConIndex []int32 `display:"-"`

	// scratch: raw spike impulses of sending neurons
	spk []float32

	// scratch: output assembly buffer
	val []float32
}

// params.Styler interface

func (ct *Connection) Name() string     { return ct.Nm }
func (ct *Connection) Label() string    { return ct.Nm }
func (ct *Connection) Class() string    { return ct.Cls }
func (ct *Connection) TypeName() string { return "Connection" }

func (ct *Connection) SetClass(cls string) { ct.Cls = cls }

func (ct *Connection) Defaults() {
	ct.Scale = 1
	ct.EvalPoints = 500
	ct.Syn.Defaults()
	ct.Learn.Defaults()
}

// SendName returns the name of the sending object.
func (ct *Connection) SendName() string {
	switch {
	case ct.Send != nil:
		return ct.Send.Nm
	case ct.SendNode != nil:
		return ct.SendNode.Nm
	}
	return "?"
}

// RecvName returns the name of the receiving object.
func (ct *Connection) RecvName() string {
	switch {
	case ct.Recv != nil:
		return ct.Recv.Nm
	case ct.LearnTarget != nil:
		return "learn:" + ct.LearnTarget.Nm
	}
	return "probe"
}

func (ct *Connection) String() string {
	return ct.SendName() + " -> " + ct.RecvName() + " (" + ct.Typ.String() + ")"
}

// SendDims returns the dimension of the raw sent value.
func (ct *Connection) SendDims() int {
	switch {
	case ct.Send != nil:
		return ct.Send.Dims
	case ct.SendNode != nil:
		return ct.SendNode.Size
	}
	return 0
}

// Validate checks the sender, sink and type combination, logging and
// returning an error if invalid.
func (ct *Connection) Validate(logmsg bool) error {
	emsg := ""
	if (ct.Send == nil) == (ct.SendNode == nil) {
		emsg += "exactly one of Send and SendNode must be set; "
	}
	if ct.Recv != nil && ct.LearnTarget != nil {
		emsg += "only one of Recv and LearnTarget can be set; "
	}
	switch ct.Typ {
	case Decoded:
		if ct.Send == nil {
			emsg += "Decoded requires an ensemble sender; "
		}
	case Weights:
		if ct.Send == nil || ct.Send.Mode != Spiking {
			emsg += "Weights requires a spiking ensemble sender; "
		}
		if ct.Recv == nil || ct.Recv.Mode != Spiking {
			emsg += "Weights requires a spiking ensemble receiver; "
		}
	case Direct:
		if ct.SendNode == nil {
			emsg += "Direct requires a node sender; "
		}
	case Neurons:
		if ct.SendNode == nil {
			emsg += "Neurons requires a node sender; "
		}
		if ct.Recv == nil || ct.Recv.Mode != Spiking {
			emsg += "Neurons requires a spiking ensemble receiver; "
		}
	default:
		emsg += "unknown connection type; "
	}
	if ct.Function != nil && ct.FuncDims <= 0 {
		emsg += "FuncDims must be set when Function is set; "
	}
	if ct.Learn.BCM.On && ct.Typ != Weights {
		emsg += "BCM requires a Weights connection; "
	}
	if emsg != "" {
		err := errors.New("Connection " + ct.String() + ": " + emsg)
		if logmsg {
			log.Println(err)
		}
		return err
	}
	return nil
}

// SetDims computes and validates the output dimension against the
// sink, without building any state.  Called for all connections before
// Build so that error-signal connections can check their targets.
func (ct *Connection) SetDims() error {
	if err := ct.Validate(true); err != nil {
		return err
	}
	vdims := ct.SendDims()
	if ct.Function != nil {
		vdims = ct.FuncDims
	}
	odims := vdims
	if ct.Transform != nil {
		odims = len(ct.Transform)
		for r, row := range ct.Transform {
			if len(row) != vdims {
				return fmt.Errorf("Connection %v: Transform row %d has %d cols, expected %d", ct.String(), r, len(row), vdims)
			}
		}
	}
	switch ct.Typ {
	case Decoded, Direct, Weights:
		if ct.Recv != nil && ct.Recv.Dims != odims {
			return fmt.Errorf("Connection %v: output dims %d != recv dims %d", ct.String(), odims, ct.Recv.Dims)
		}
		if ct.Typ == Weights && ct.Recv == nil {
			return fmt.Errorf("Connection %v: Weights requires a receiver", ct.String())
		}
	case Neurons:
		if ct.Transform != nil {
			if odims != ct.Recv.NNeurons {
				return fmt.Errorf("Connection %v: Transform rows %d != recv neurons %d", ct.String(), odims, ct.Recv.NNeurons)
			}
		} else if vdims != 1 {
			return fmt.Errorf("Connection %v: Neurons without Transform requires a 1-dimensional sender", ct.String())
		}
		odims = ct.Recv.NNeurons
	}
	ct.OutDims = odims
	return nil
}

// CheckErrDims validates this error-signal connection's output against
// its learning target, after all connections have dims set.
func (ct *Connection) CheckErrDims() error {
	if ct.LearnTarget == nil {
		return nil
	}
	if ct.LearnTarget.Typ != Decoded && ct.LearnTarget.Typ != Weights {
		return fmt.Errorf("Connection %v: learning target must be Decoded or Weights", ct.String())
	}
	if ct.OutDims != ct.LearnTarget.OutDims {
		return fmt.Errorf("Connection %v: error dims %d != target dims %d", ct.String(), ct.OutDims, ct.LearnTarget.OutDims)
	}
	return nil
}

// Build allocates runtime state, solves decoders for ensemble senders,
// and for Weights connections constructs the synapses from the
// connectivity pattern and initializes their weights.
// SetDims must have been called on all connections first.
func (ct *Connection) Build(ctx *Context) error {
	if ct.Off {
		return nil
	}
	ct.Out = make([]float32, ct.OutDims)
	ct.val = make([]float32, ct.OutDims)
	ct.Syn.Init(ctx.Dt)
	if ct.Typ == Decoded || ct.Typ == Weights {
		ct.Learn.Err = make([]float32, ct.OutDims)
		if ct.Send.Mode == Spiking {
			ct.Acts = make([]float32, ct.Send.NNeurons)
			ct.spk = make([]float32, ct.Send.NNeurons)
			if err := ct.SolveDecoders(ctx); err != nil {
				return err
			}
		}
	}
	if ct.Typ == Weights {
		if err := ct.BuildSyns(); err != nil {
			return err
		}
		ct.InitWts()
	}
	return nil
}

// BuildSyns constructs the synapses from the connectivity pattern,
// with recv-major indexing: for each recv neuron, its synapses are
// contiguous in Syns, and RConIndex gives the sending neuron of each.
func (ct *Connection) BuildSyns() error {
	if ct.Pat == nil {
		ct.Pat = paths.NewFull()
	}
	ssh := &ct.Send.Shape
	rsh := &ct.Recv.Shape
	_, recvn, cons := ct.Pat.Connect(ssh, rsh, ct.Recv == ct.Send)
	slen := ssh.Len()
	rlen := rsh.Len()
	tconr := ct.SetNIndexSt(&ct.RConN, &ct.RConNAvgMax, &ct.RConIndexSt, recvn)
	ct.RConIndex = make([]int32, tconr)
	cbits := cons.Values
	for ri := 0; ri < rlen; ri++ {
		rbi := ri * slen
		rtcn := ct.RConN[ri]
		rst := ct.RConIndexSt[ri]
		rci := int32(0)
		for si := 0; si < slen; si++ {
			if !cbits.Index(rbi + si) {
				continue
			}
			if rci >= rtcn {
				log.Printf("%v programmer error: recv target total con number: %v exceeded at recv idx: %v, send idx: %v\n", ct.String(), rtcn, ri, si)
				break
			}
			ct.RConIndex[rst+rci] = int32(si)
			rci++
		}
	}
	ct.Syns = make([]Synapse, tconr)
	return nil
}

// SetNIndexSt sets the RConN and RConIndexSt values given the per-unit
// connection count tensor from the pattern.  Returns the total number
// of connections.
func (ct *Connection) SetNIndexSt(n *[]int32, avgmax *minmax.AvgMax32, idxst *[]int32, tn *tensor.Int32) int32 {
	ln := tn.Len()
	tnv := tn.Values
	*n = make([]int32, ln)
	*idxst = make([]int32, ln)
	idx := int32(0)
	avgmax.Init()
	for i := 0; i < ln; i++ {
		nv := tnv[i]
		(*n)[i] = nv
		(*idxst)[i] = idx
		idx += nv
		avgmax.UpdateValue(float32(nv), int32(i))
	}
	avgmax.CalcAvg()
	return idx
}

// SynIndex returns the index of the synapse between sending neuron si
// and receiving neuron ri in Syns, or -1 if not connected.
func (ct *Connection) SynIndex(si, ri int) int {
	if ri < 0 || ri >= len(ct.RConN) {
		return -1
	}
	nc := int(ct.RConN[ri])
	st := int(ct.RConIndexSt[ri])
	for ci := 0; ci < nc; ci++ {
		if int(ct.RConIndex[st+ci]) == si {
			return st + ci
		}
	}
	return -1
}

// SynValue returns the value of the given synapse variable for the
// synapse between sending neuron si and receiving neuron ri.
// Returns NaN if the synapse or variable does not exist.
func (ct *Connection) SynValue(varNm string, si, ri int) float32 {
	idx := ct.SynIndex(si, ri)
	if idx < 0 {
		return math32.NaN()
	}
	val, err := ct.Syns[idx].VarByName(varNm)
	if err != nil {
		return math32.NaN()
	}
	return val
}
