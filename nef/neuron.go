// Copyright (c) 2024, The NEFGo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"fmt"
	"unsafe"
)

// nef.Neuron holds the per-neuron dynamic state variables.
// Structural per-neuron parameters (encoders, gain, bias) live in
// slices on the Ensemble.  All variables must be float32 and in
// contiguous order, so they are accessible by index via the Unit
// variable interface.
type Neuron struct {

	// total input current driving the neuron this step, in dimensionless
	// current units where 1 = threshold: gain * encoded input + bias + Ext
	J float32

	// gain-scaled current injected by Neurons-type connections,
	// bypassing the encoders.  Cleared every step.
	Ext float32

	// membrane potential, normalized so 0 = rest and 1 = spike threshold
	Vm float32

	// whether the neuron spiked this step (0 or 1)
	Spike float32

	// remaining refractory time, in seconds.  Includes the sub-step
	// spike-time correction, so it can briefly exceed the refractory period.
	Ref float32

	// filtered firing rate, in Hz: lowpass filter of Spike / Dt
	Act float32

	// long-run average of Act, in Hz: the modification threshold
	// for BCM learning
	AvgAct float32
}

func (nrn *Neuron) InitState() {
	nrn.J = 0
	nrn.Ext = 0
	nrn.Vm = 0
	nrn.Spike = 0
	nrn.Ref = 0
	nrn.Act = 0
	nrn.AvgAct = 0
}

var NeuronVars = []string{"J", "Ext", "Vm", "Spike", "Ref", "Act", "AvgAct"}

var NeuronVarsMap map[string]int

var NeuronVarProps = map[string]string{
	"Vm":    `min:"0" max:"1"`,
	"Spike": `min:"0" max:"1"`,
	"Act":   `auto-scale:"+"`,
}

func init() {
	NeuronVarsMap = make(map[string]int, len(NeuronVars))
	for i, v := range NeuronVars {
		NeuronVarsMap[v] = i
	}
}

func (nrn *Neuron) VarNames() []string {
	return NeuronVars
}

// NeuronVarIndexByName returns the index of the variable in the Neuron, or error
func NeuronVarIndexByName(varNm string) (int, error) {
	i, ok := NeuronVarsMap[varNm]
	if !ok {
		return -1, fmt.Errorf("Neuron VarByName: variable name: %v not valid", varNm)
	}
	return i, nil
}

// VarByIndex returns variable using index (0 = first variable in NeuronVars list)
func (nrn *Neuron) VarByIndex(idx int) float32 {
	fv := (*float32)(unsafe.Pointer(uintptr(unsafe.Pointer(nrn)) + uintptr(4*idx)))
	return *fv
}

// VarByName returns variable by name, or error
func (nrn *Neuron) VarByName(varNm string) (float32, error) {
	i, err := NeuronVarIndexByName(varNm)
	if err != nil {
		return 0, err
	}
	return nrn.VarByIndex(i), nil
}
