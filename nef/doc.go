// Copyright (c) 2024, The NEFGo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package nef implements a compact Neural Engineering Framework engine:
spiking neural networks that represent and transform vector values in
the distributed activity of neuron populations.

The main objects are:

  - Ensemble: a population of leaky integrate-and-fire neurons
    collectively representing a low-dimensional vector.  Each neuron
    has an encoder (its preferred direction), and a gain and bias
    solved so its tuning curve hits a sampled maximum rate at the
    edge of the represented range and goes silent below a sampled
    intercept.

  - Node: a non-neural signal source, driven by a function of time or
    a processes.Process such as band-limited white noise.

  - Connection: a directed edge carrying a signal between objects.
    Decoded connections read out a (possibly nonlinear) function of an
    ensemble's represented value through least-squares-solved decoders;
    Weights connections expand the same computation into a full
    neuron-to-neuron synaptic weight matrix so that weight-level
    learning rules can modify it; Direct connections feed node output
    into an ensemble's represented space; Neurons connections inject
    gain-scaled current directly onto individual neurons, bypassing
    encoders.

  - Learning: connections can carry an error-driven PES rule, a
    correlation-driven BCM rule, or both at once, applied online every
    time step.  The error signal for PES is itself delivered by a
    connection, so it is computed by neurons and subject to the same
    noise and delays as everything else.

  - Probe: records a filtered signal every step for later analysis.

A Network owns the objects and advances them with Step under a Context
clock, in a fixed order per time step: nodes, connections, ensembles,
learning, probes.  Connections read the spikes of the previous step,
giving one synaptic delay per hop.
*/
package nef
