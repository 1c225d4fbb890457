// Copyright (c) 2024, The NEFGo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"fmt"

	"cogentcore.org/core/tensor/table"
	"github.com/nefgo/nef/filters"
)

// ProbeTargets is the kind of signal a probe records.
type ProbeTargets int32

const (
	// ProbeNode records a node's output vector.
	ProbeNode ProbeTargets = iota

	// ProbeConn records a connection's output: for decoded probes of
	// an ensemble, the network creates a probe-only decoded connection.
	ProbeConn

	// ProbeUnits records one neuron variable across an ensemble.
	ProbeUnits

	ProbeTargetsN
)

var probeTargetNames = []string{"Node", "Conn", "Units", "ProbeTargetsN"}

func (pt ProbeTargets) String() string {
	if pt < 0 || pt >= ProbeTargetsN {
		return fmt.Sprintf("ProbeTargets(%d)", pt)
	}
	return probeTargetNames[pt]
}

// nef.Probe records a signal every time step for later analysis.
// An optional lowpass filter smooths the recorded values; spiking
// sources are usually already filtered by the connection feeding them.
type Probe struct {

	// our parent network
	Nw *Network `display:"-"`

	// name of the probe, which must be unique within the network
	Nm string

	// kind of signal recorded
	Typ ProbeTargets

	// source node, for ProbeNode
	Node *Node `display:"-"`

	// source connection, for ProbeConn
	Conn *Connection `display:"-"`

	// source ensemble, for ProbeUnits
	Ens *Ensemble `display:"-"`

	// neuron variable name, for ProbeUnits
	UnitVar string

	// optional extra smoothing of the recorded signal; nil = none.
	// The AddProbe methods install a Lowpass; assign a filters.Alpha
	// before Build for smoother second-order filtering.
	Filt filters.Filter `display:"-"`

	// record every this many steps; 1 = every step
	Every int `def:"1" min:"1"`

	// dimension of each recorded sample, set at build
	Dims int `edit:"-"`

	// sample times, in seconds
	Times []float32 `display:"-"`

	// recorded samples, flat [rows][Dims]
	Data []float32 `display:"-"`

	buf []float32
	raw []float32
}

func (pb *Probe) Name() string { return pb.Nm }

func (pb *Probe) Build(ctx *Context) error {
	if pb.Every <= 0 {
		pb.Every = 1
	}
	switch pb.Typ {
	case ProbeNode:
		if pb.Node == nil {
			return fmt.Errorf("Build Probe %v: Node not set", pb.Nm)
		}
		pb.Dims = pb.Node.Size
	case ProbeConn:
		if pb.Conn == nil {
			return fmt.Errorf("Build Probe %v: Conn not set", pb.Nm)
		}
		pb.Dims = pb.Conn.OutDims
	case ProbeUnits:
		if pb.Ens == nil {
			return fmt.Errorf("Build Probe %v: Ens not set", pb.Nm)
		}
		if _, err := NeuronVarIndexByName(pb.UnitVar); err != nil {
			return fmt.Errorf("Build Probe %v: %w", pb.Nm, err)
		}
		pb.Dims = pb.Ens.NNeurons
	default:
		return fmt.Errorf("Build Probe %v: unknown probe type", pb.Nm)
	}
	pb.buf = make([]float32, pb.Dims)
	if pb.Typ == ProbeUnits {
		pb.raw = make([]float32, pb.Dims)
	}
	if pb.Filt != nil {
		pb.Filt.Init(ctx.Dt)
	}
	return nil
}

func (pb *Probe) InitState() {
	pb.Times = pb.Times[:0]
	pb.Data = pb.Data[:0]
	for k := range pb.buf {
		pb.buf[k] = 0
	}
	if pb.Filt != nil {
		pb.Filt.Reset()
	}
}

// source writes the current source values into the scratch buffer.
func (pb *Probe) source() []float32 {
	switch pb.Typ {
	case ProbeNode:
		return pb.Node.Out
	case ProbeConn:
		return pb.Conn.Out
	case ProbeUnits:
		vidx, _ := NeuronVarIndexByName(pb.UnitVar)
		for ni := range pb.Ens.Neurons {
			pb.raw[ni] = pb.Ens.Neurons[ni].VarByIndex(vidx)
		}
		return pb.raw
	}
	return nil
}

// Step filters the source signal and records a sample if due.
func (pb *Probe) Step(ctx *Context) {
	src := pb.source()
	if pb.Filt != nil {
		pb.Filt.Step(pb.buf, src)
		src = pb.buf
	}
	if ctx.Step%pb.Every != 0 {
		return
	}
	pb.Times = append(pb.Times, ctx.Time)
	pb.Data = append(pb.Data, src...)
}

// NumRows returns the number of recorded samples.
func (pb *Probe) NumRows() int {
	return len(pb.Times)
}

// Row returns the recorded sample at the given row.
func (pb *Probe) Row(row int) []float32 {
	return pb.Data[row*pb.Dims : (row+1)*pb.Dims]
}

// Table returns the recorded data as a table with a Time column and a
// Value tensor column, ready for analysis or plotting.
func (pb *Probe) Table() *table.Table {
	dt := table.NewTable(pb.Nm)
	dt.AddFloat64Column("Time")
	dt.AddFloat32TensorColumn("Value", []int{pb.Dims}, "Dim")
	n := pb.NumRows()
	dt.SetNumRows(n)
	for r := 0; r < n; r++ {
		dt.SetFloat("Time", r, float64(pb.Times[r]))
		row := pb.Row(r)
		for k, v := range row {
			dt.SetTensorFloat1D("Value", r, k, float64(v))
		}
	}
	return dt
}
