// Copyright (c) 2024, The NEFGo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/c2h5oh/datasize"
)

// nef.Network owns the model objects and advances them in time.
type Network struct {
	NetworkBase
}

// NewNetwork returns a new network with the given name.
func NewNetwork(name string) *Network {
	nt := &Network{}
	nt.Nm = name
	return nt
}

// Defaults sets default parameters on all objects.
func (nt *Network) Defaults() {
	for _, en := range nt.Ensembles {
		en.Defaults()
	}
	for _, ct := range nt.Conns {
		ct.Defaults()
	}
}

// InitState resets all dynamic state: neuron variables, filtered
// activities, probe buffers, and the clock.  Learned weights and
// decoders are preserved; call Build again to re-randomize structure.
func (nt *Network) InitState(ctx *Context) {
	ctx.Reset()
	for _, nd := range nt.Nodes {
		nd.InitState()
	}
	for _, en := range nt.Ensembles {
		en.InitState()
	}
	for _, ct := range nt.Conns {
		ct.InitState()
	}
	for _, pb := range nt.Probes {
		pb.InitState()
	}
}

// Step advances the network one time step, in a fixed phase order:
// clear input accumulators and error signals, update nodes, step
// connections (which read the previous step's spikes), step ensembles,
// apply learning, record probes, advance the clock.
func (nt *Network) Step(ctx *Context) {
	for _, en := range nt.Ensembles {
		if en.Off {
			continue
		}
		en.InitInputs(ctx)
	}
	for _, ct := range nt.Conns {
		ct.Learn.InitErr()
	}
	for _, nd := range nt.Nodes {
		nd.Step(ctx)
	}
	for _, ct := range nt.Conns {
		ct.Step(ctx)
	}
	for _, en := range nt.Ensembles {
		en.Step(ctx)
	}
	for _, ct := range nt.Conns {
		ct.DWt(ctx)
	}
	for _, ct := range nt.Conns {
		ct.WtFromDWt(ctx)
	}
	for _, pb := range nt.Probes {
		pb.Step(ctx)
	}
	ctx.StepAdvance()
}

// Run steps the network until the given simulation time is reached.
func (nt *Network) Run(ctx *Context, dur float32) {
	for ctx.Time < dur {
		nt.Step(ctx)
	}
}

// SizeReport returns a string reporting the size of the network in
// terms of neurons and synapses and the memory they use.
func (nt *Network) SizeReport() string {
	var b strings.Builder
	neur := 0
	neurMem := 0
	syn := 0
	synMem := 0
	for _, en := range nt.Ensembles {
		nn := len(en.Neurons)
		nmem := nn * int(unsafe.Sizeof(Neuron{}))
		neur += nn
		neurMem += nmem
		fmt.Fprintf(&b, "%14s:\t Neurons: %d\t NeurMem: %v \t Sends To:\n", en.Nm, nn, (datasize.ByteSize)(nmem).HumanReadable())
		for _, ct := range en.SendConns {
			ns := len(ct.Syns)
			smem := ns * int(unsafe.Sizeof(Synapse{}))
			syn += ns
			synMem += smem
			fmt.Fprintf(&b, "\t%14s:\t Syns: %d\t SynMem: %v\n", ct.RecvName(), ns, (datasize.ByteSize)(smem).HumanReadable())
		}
	}
	fmt.Fprintf(&b, "\n\n%14s:\t Neurons: %d\t NeurMem: %v \t Syns: %d \t SynMem: %v\n", nt.Nm, neur, (datasize.ByteSize)(neurMem).HumanReadable(), syn, (datasize.ByteSize)(synMem).HumanReadable())
	return b.String()
}
