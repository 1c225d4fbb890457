// Copyright (c) 2024, The NEFGo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"fmt"
	"unsafe"
)

// nef.Synapse holds the state of one neuron-to-neuron synapse in a
// Weights-type connection.  All variables must be float32 and in
// contiguous order for access by index.
type Synapse struct {

	// synaptic weight: the current injected into the receiving neuron
	// per Hz of filtered sending activity.  Signed; encoder gain is
	// folded in at initialization.
	Wt float32

	// accumulated weight change from the learning rules this step,
	// added into Wt by WtFromDWt
	DWt float32
}

var SynapseVars = []string{"Wt", "DWt"}

var SynapseVarsMap map[string]int

func init() {
	SynapseVarsMap = make(map[string]int, len(SynapseVars))
	for i, v := range SynapseVars {
		SynapseVarsMap[v] = i
	}
}

func (sy *Synapse) VarNames() []string {
	return SynapseVars
}

// SynapseVarIndexByName returns the index of the variable in the Synapse, or error
func SynapseVarIndexByName(varNm string) (int, error) {
	i, ok := SynapseVarsMap[varNm]
	if !ok {
		return -1, fmt.Errorf("Synapse VarByName: variable name: %v not valid", varNm)
	}
	return i, nil
}

// VarByIndex returns variable using index (0 = first variable in SynapseVars list)
func (sy *Synapse) VarByIndex(idx int) float32 {
	fv := (*float32)(unsafe.Pointer(uintptr(unsafe.Pointer(sy)) + uintptr(4*idx)))
	return *fv
}

// VarByName returns variable by name, or error
func (sy *Synapse) VarByName(varNm string) (float32, error) {
	i, err := SynapseVarIndexByName(varNm)
	if err != nil {
		return 0, err
	}
	return sy.VarByIndex(i), nil
}
