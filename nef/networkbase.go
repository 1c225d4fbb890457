// Copyright (c) 2024, The NEFGo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"errors"
	"fmt"
	"log"

	"github.com/emer/emergent/v2/params"
	"github.com/nefgo/nef/filters"
	"github.com/nefgo/nef/solvers"
)

// NetworkBase contains the model-construction and bookkeeping side of
// a Network: adding objects, connecting them, building, and applying
// parameter styles.  The stepping algorithm is on Network.
type NetworkBase struct {

	// name of the network
	Nm string

	// ensembles in added order
	Ensembles []*Ensemble

	// nodes in added order
	Nodes []*Node

	// connections in added order.  Stepped in this order, so error
	// connections compute their signal before learning runs.
	Conns []*Connection

	// probes in added order
	Probes []*Probe

	// default decoder solver for connections that do not set their own
	DefSolver solvers.Solver `display:"-"`

	// whether Build has been run
	Built bool `edit:"-"`
}

func (nt *NetworkBase) Name() string     { return nt.Nm }
func (nt *NetworkBase) Label() string    { return nt.Nm }
func (nt *NetworkBase) NumEnsembles() int { return len(nt.Ensembles) }
func (nt *NetworkBase) NumNodes() int    { return len(nt.Nodes) }
func (nt *NetworkBase) NumConns() int    { return len(nt.Conns) }

// EnsembleByName returns the ensemble with the given name, or error.
func (nt *NetworkBase) EnsembleByName(name string) (*Ensemble, error) {
	for _, en := range nt.Ensembles {
		if en.Nm == name {
			return en, nil
		}
	}
	return nil, fmt.Errorf("Network %v: ensemble named: %v not found", nt.Nm, name)
}

// NodeByName returns the node with the given name, or error.
func (nt *NetworkBase) NodeByName(name string) (*Node, error) {
	for _, nd := range nt.Nodes {
		if nd.Nm == name {
			return nd, nil
		}
	}
	return nil, fmt.Errorf("Network %v: node named: %v not found", nt.Nm, name)
}

// ConnByName returns the connection with the given name, or error.
func (nt *NetworkBase) ConnByName(name string) (*Connection, error) {
	for _, ct := range nt.Conns {
		if ct.Nm == name {
			return ct, nil
		}
	}
	return nil, fmt.Errorf("Network %v: connection named: %v not found", nt.Nm, name)
}

// ProbeByName returns the probe with the given name, or error.
func (nt *NetworkBase) ProbeByName(name string) (*Probe, error) {
	for _, pb := range nt.Probes {
		if pb.Nm == name {
			return pb, nil
		}
	}
	return nil, fmt.Errorf("Network %v: probe named: %v not found", nt.Nm, name)
}

// ApplyParams applies the given parameter style Sheet to the
// ensembles, connections and nodes of this network.
// Returns true if any were applied, and error for any errors.
func (nt *NetworkBase) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	applied := false
	var rerr error
	for _, en := range nt.Ensembles {
		app, err := pars.Apply(en, setMsg)
		if app {
			applied = true
			en.Update()
		}
		if err != nil {
			rerr = err
		}
	}
	for _, ct := range nt.Conns {
		app, err := pars.Apply(ct, setMsg)
		if app {
			applied = true
		}
		if err != nil {
			rerr = err
		}
	}
	for _, nd := range nt.Nodes {
		app, err := pars.Apply(nd, setMsg)
		if app {
			applied = true
		}
		if err != nil {
			rerr = err
		}
	}
	return applied, rerr
}

//////////////////////////////////////////////////////////////////////
//  Model construction

// AddEnsemble adds a new spiking ensemble with the given number of
// neurons representing a dims-dimensional value.
func (nt *Network) AddEnsemble(name string, neurons, dims int) *Ensemble {
	en := &Ensemble{}
	en.Nw = nt
	en.Nm = name
	en.NNeurons = neurons
	en.Dims = dims
	en.Mode = Spiking
	en.Defaults()
	nt.Ensembles = append(nt.Ensembles, en)
	return en
}

// AddDirect adds a new direct-mode (non-spiking, noiseless) ensemble,
// useful as an ideal reference for comparison with spiking computation.
func (nt *Network) AddDirect(name string, dims int) *Ensemble {
	en := &Ensemble{}
	en.Nw = nt
	en.Nm = name
	en.Dims = dims
	en.Mode = DirectMode
	en.Defaults()
	nt.Ensembles = append(nt.Ensembles, en)
	return en
}

// AddNode adds a new node with the given output size.  Set its Proc or
// Fn before building.
func (nt *Network) AddNode(name string, size int) *Node {
	nd := &Node{}
	nd.Nw = nt
	nd.Nm = name
	nd.Size = size
	nt.Nodes = append(nt.Nodes, nd)
	return nd
}

func (nt *Network) addConn(ct *Connection) *Connection {
	ct.Nw = nt
	ct.Defaults()
	ct.Nm = nt.uniqueConnName(ct.SendName() + "To" + ct.RecvName())
	nt.Conns = append(nt.Conns, ct)
	if ct.Send != nil {
		ct.Send.SendConns = append(ct.Send.SendConns, ct)
	}
	if ct.SendNode != nil {
		ct.SendNode.SendConns = append(ct.SendNode.SendConns, ct)
	}
	if ct.Recv != nil {
		ct.Recv.RecvConns = append(ct.Recv.RecvConns, ct)
	}
	return ct
}

// ConnectDecoded connects an ensemble's decoded output into another
// ensemble's represented space.
func (nt *Network) ConnectDecoded(send, recv *Ensemble) *Connection {
	return nt.addConn(&Connection{Typ: Decoded, Send: send, Recv: recv})
}

// ConnectWeights connects two spiking ensembles with a full
// neuron-to-neuron weight matrix, initialized to compute the same
// thing as the decoded version, and modifiable by learning rules.
func (nt *Network) ConnectWeights(send, recv *Ensemble) *Connection {
	return nt.addConn(&Connection{Typ: Weights, Send: send, Recv: recv})
}

// ConnectNode connects a node's output into an ensemble's represented
// space.
func (nt *Network) ConnectNode(send *Node, recv *Ensemble) *Connection {
	return nt.addConn(&Connection{Typ: Direct, Send: nil, SendNode: send, Recv: recv})
}

// ConnectNeurons connects a node's output as direct current injection
// onto an ensemble's neurons, bypassing the encoders.  A scalar node
// is broadcast onto every neuron, scaled by the connection Scale and
// the neuron's gain, so a Scale well below the represented range
// (e.g. -2.5 at radius 1) silences the whole population.
func (nt *Network) ConnectNeurons(send *Node, recv *Ensemble) *Connection {
	return nt.addConn(&Connection{Typ: Neurons, SendNode: send, Recv: recv})
}

// ConnectError connects an ensemble's decoded output as the error
// signal for the given connection's learning rule.
func (nt *Network) ConnectError(send *Ensemble, target *Connection) *Connection {
	return nt.addConn(&Connection{Typ: Decoded, Send: send, LearnTarget: target})
}

//////////////////////////////////////////////////////////////////////
//  Probes

func (nt *Network) addProbe(pb *Probe) *Probe {
	pb.Nw = nt
	pb.Every = 1
	pb.Nm = nt.uniqueProbeName(pb.Nm)
	nt.Probes = append(nt.Probes, pb)
	return pb
}

// uniqueConnName suffixes the given name with a number if a connection
// with it already exists, so connecting the same pair twice works.
func (nt *NetworkBase) uniqueConnName(name string) string {
	if _, err := nt.ConnByName(name); err != nil {
		return name
	}
	for i := 2; ; i++ {
		nm := fmt.Sprintf("%s%d", name, i)
		if _, err := nt.ConnByName(nm); err != nil {
			return nm
		}
	}
}

// uniqueProbeName suffixes the given name with a number if a probe
// with it already exists.
func (nt *NetworkBase) uniqueProbeName(name string) string {
	if _, err := nt.ProbeByName(name); err != nil {
		return name
	}
	for i := 2; ; i++ {
		nm := fmt.Sprintf("%s%d", name, i)
		if _, err := nt.ProbeByName(nm); err != nil {
			return nm
		}
	}
}

// AddProbeNode records a node's output, optionally smoothed with the
// given filter time constant (0 = raw).
func (nt *Network) AddProbeNode(nd *Node, tau float32) *Probe {
	pb := nt.addProbe(&Probe{Typ: ProbeNode, Node: nd, Nm: nd.Nm})
	if tau > 0 {
		pb.Filt = &filters.Lowpass{Tau: tau}
	}
	return pb
}

// AddProbeState records an ensemble's decoded represented value, via a
// probe-only decoded connection with the given synaptic filter time
// constant.
func (nt *Network) AddProbeState(en *Ensemble, tau float32) *Probe {
	ct := nt.addConn(&Connection{Typ: Decoded, Send: en})
	ct.Nm = nt.uniqueConnName(en.Nm + "ToProbe")
	ct.Syn.Tau = tau
	return nt.addProbe(&Probe{Typ: ProbeConn, Conn: ct, Nm: en.Nm})
}

// AddProbeConn records a connection's output.
func (nt *Network) AddProbeConn(ct *Connection, tau float32) *Probe {
	pb := nt.addProbe(&Probe{Typ: ProbeConn, Conn: ct, Nm: ct.Nm})
	if tau > 0 {
		pb.Filt = &filters.Lowpass{Tau: tau}
	}
	return pb
}

// AddProbeUnits records one neuron variable across an ensemble,
// optionally smoothed.
func (nt *Network) AddProbeUnits(en *Ensemble, varNm string, tau float32) *Probe {
	pb := nt.addProbe(&Probe{Typ: ProbeUnits, Ens: en, UnitVar: varNm, Nm: en.Nm + "." + varNm})
	if tau > 0 {
		pb.Filt = &filters.Lowpass{Tau: tau}
	}
	return pb
}

//////////////////////////////////////////////////////////////////////
//  Build

// Build constructs the network: ensembles first (encoders, gains,
// biases), then connections (dimension checks, decoder solving, weight
// initialization), then probes.  Any errors are logged and returned.
func (nt *Network) Build(ctx *Context) error {
	if nt.DefSolver == nil {
		ls := &solvers.LstsqL2{}
		ls.Defaults()
		nt.DefSolver = ls
	}
	var errs []error
	emsg := func(err error) {
		if err != nil {
			log.Println(err)
			errs = append(errs, err)
		}
	}
	if err := nt.checkNames(); err != nil {
		emsg(err)
	}
	for _, nd := range nt.Nodes {
		emsg(nd.Build(ctx))
	}
	for _, en := range nt.Ensembles {
		if en.Off {
			continue
		}
		emsg(en.Build(ctx))
	}
	for _, ct := range nt.Conns {
		if ct.Off {
			continue
		}
		emsg(ct.SetDims())
	}
	for _, ct := range nt.Conns {
		if ct.Off {
			continue
		}
		emsg(ct.CheckErrDims())
	}
	if len(errs) > 0 { // structural errors make building moot
		return errors.Join(errs...)
	}
	for _, ct := range nt.Conns {
		emsg(ct.Build(ctx))
	}
	for _, pb := range nt.Probes {
		emsg(pb.Build(ctx))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	nt.Built = true
	return nil
}

func (nt *NetworkBase) checkNames() error {
	seen := map[string]bool{}
	for _, en := range nt.Ensembles {
		if seen[en.Nm] {
			return fmt.Errorf("Network %v: duplicate ensemble name: %v", nt.Nm, en.Nm)
		}
		seen[en.Nm] = true
	}
	seen = map[string]bool{}
	for _, nd := range nt.Nodes {
		if seen[nd.Nm] {
			return fmt.Errorf("Network %v: duplicate node name: %v", nt.Nm, nd.Nm)
		}
		seen[nd.Nm] = true
	}
	seen = map[string]bool{}
	for _, ct := range nt.Conns {
		if seen[ct.Nm] {
			return fmt.Errorf("Network %v: duplicate connection name: %v", nt.Nm, ct.Nm)
		}
		seen[ct.Nm] = true
	}
	seen = map[string]bool{}
	for _, pb := range nt.Probes {
		if seen[pb.Nm] {
			return fmt.Errorf("Network %v: duplicate probe name: %v", nt.Nm, pb.Nm)
		}
		seen[pb.Nm] = true
	}
	return nil
}
