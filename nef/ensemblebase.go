// Copyright (c) 2024, The NEFGo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"fmt"

	"cogentcore.org/core/tensor"
)

// EnsembleModes are the neuron response modes for an ensemble.
type EnsembleModes int32

const (
	// Spiking uses leaky integrate-and-fire neurons.
	Spiking EnsembleModes = iota

	// DirectMode bypasses neurons entirely: the represented value is
	// the input, noiselessly.  Used for ideal reference signals.
	DirectMode

	EnsembleModesN
)

var ensembleModeNames = []string{"Spiking", "Direct", "EnsembleModesN"}

func (em EnsembleModes) String() string {
	if em < 0 || em >= EnsembleModesN {
		return fmt.Sprintf("EnsembleModes(%d)", em)
	}
	return ensembleModeNames[em]
}

// EnsembleBase contains the structural fields of an Ensemble: identity,
// size, per-neuron structural parameters, and connectivity bookkeeping.
// The algorithm methods are on Ensemble.
type EnsembleBase struct {

	// our parent network, in case we need to use it to find
	// other objects, such as during Build
	Nw *Network `display:"-"`

	// name of the ensemble, which must be unique within the network
	Nm string

	// class is for applying parameter styles, can be space separated multple tags
	Cls string

	// inactivate this ensemble: skipped in stepping
	Off bool

	// number of neurons
	NNeurons int

	// dimensionality of the represented value
	Dims int

	// neuron response mode
	Mode EnsembleModes

	// radius of the represented range: the ensemble accurately
	// represents vectors up to this magnitude
	Radius float32 `def:"1" min:"0"`

	// shape of the neuron array, for connectivity patterns
	Shape tensor.Shape `display:"-"`

	// slice of neurons, as a flat list of len = NNeurons.
	// Must iterate over index and use pointer to modify values.
	Neurons []Neuron

	// per-neuron encoder unit vectors, flat [NNeurons][Dims]
	Encoders []float32 `display:"-"`

	// per-neuron current gain, solved from the max rate and intercept
	Gains []float32 `display:"-"`

	// per-neuron bias current, solved from the max rate and intercept
	Biases []float32 `display:"-"`

	// represented-space input accumulated from inbound connections
	// this step, len = Dims.  Cleared every step.
	In []float32 `display:"-"`

	// for DirectMode, the current represented value, len = Dims
	Out []float32 `display:"-"`

	// inbound connections
	RecvConns []*Connection `display:"-"`

	// outbound connections
	SendConns []*Connection `display:"-"`
}

// params.Styler interface

func (eb *EnsembleBase) Name() string     { return eb.Nm }
func (eb *EnsembleBase) Label() string    { return eb.Nm }
func (eb *EnsembleBase) Class() string    { return eb.Cls }
func (eb *EnsembleBase) TypeName() string { return "Ensemble" }

func (eb *EnsembleBase) SetClass(cls string) { eb.Cls = cls }

// EncDot returns the dot product of neuron ni's encoder with x.
func (eb *EnsembleBase) EncDot(ni int, x []float32) float32 {
	enc := eb.Encoders[ni*eb.Dims : (ni+1)*eb.Dims]
	dot := float32(0)
	for k, e := range enc {
		dot += e * x[k]
	}
	return dot
}

// UnitValue returns the value of the given neuron variable for the
// given neuron index, by name.  Returns 0 and error if not found.
func (eb *EnsembleBase) UnitValue(varNm string, idx int) (float32, error) {
	if idx < 0 || idx >= len(eb.Neurons) {
		return 0, fmt.Errorf("Ensemble %s: unit index %d out of range", eb.Nm, idx)
	}
	return eb.Neurons[idx].VarByName(varNm)
}

// UnitValues fills vals with the values of the given neuron variable
// across all neurons.
func (eb *EnsembleBase) UnitValues(vals *[]float32, varNm string) error {
	nn := len(eb.Neurons)
	if *vals == nil || cap(*vals) < nn {
		*vals = make([]float32, nn)
	}
	*vals = (*vals)[:nn]
	vidx, err := NeuronVarIndexByName(varNm)
	if err != nil {
		return err
	}
	for i := range eb.Neurons {
		(*vals)[i] = eb.Neurons[i].VarByIndex(vidx)
	}
	return nil
}
