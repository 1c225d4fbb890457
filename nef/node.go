// Copyright (c) 2024, The NEFGo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"fmt"

	"github.com/nefgo/nef/processes"
)

// nef.Node is a non-neural signal source: its output vector is set
// every step from either a Process or a function of simulation time.
// Nodes drive ensembles through Direct connections (into the
// represented space) or Neurons connections (current injection).
type Node struct {

	// our parent network
	Nw *Network `display:"-"`

	// name of the node, which must be unique within the network
	Nm string

	// class is for applying parameter styles, can be space separated multple tags
	Cls string

	// inactivate this node: skipped in stepping, output stays at zero
	Off bool

	// dimensionality of the output
	Size int

	// signal process generating the output.  Exclusive with Fn.
	Proc processes.Process `display:"-"`

	// function of simulation time generating the output, returning a
	// vector of len Size.  Exclusive with Proc.
	Fn func(t float32) []float32 `display:"-"`

	// current output vector, len = Size
	Out []float32 `display:"-"`

	// outbound connections
	SendConns []*Connection `display:"-"`
}

// params.Styler interface

func (nd *Node) Name() string     { return nd.Nm }
func (nd *Node) Label() string    { return nd.Nm }
func (nd *Node) Class() string    { return nd.Cls }
func (nd *Node) TypeName() string { return "Node" }

func (nd *Node) Build(ctx *Context) error {
	if nd.Size <= 0 {
		return fmt.Errorf("Build Node %v: Size must be > 0", nd.Nm)
	}
	if nd.Proc != nil && nd.Fn != nil {
		return fmt.Errorf("Build Node %v: only one of Proc and Fn can be set", nd.Nm)
	}
	nd.Out = make([]float32, nd.Size)
	if nd.Proc != nil {
		if err := nd.Proc.Init(ctx.Dt, nd.Size); err != nil {
			return fmt.Errorf("Build Node %v: %w", nd.Nm, err)
		}
	}
	return nil
}

func (nd *Node) InitState() {
	for k := range nd.Out {
		nd.Out[k] = 0
	}
}

// Step updates the output from the process or function at the current
// simulation time.
func (nd *Node) Step(ctx *Context) {
	if nd.Off {
		return
	}
	switch {
	case nd.Proc != nil:
		copy(nd.Out, nd.Proc.Value(ctx.Time))
	case nd.Fn != nil:
		copy(nd.Out, nd.Fn(ctx.Time))
	}
}
