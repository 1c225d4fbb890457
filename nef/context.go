// Copyright (c) 2024, The NEFGo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import "github.com/emer/emergent/v2/etime"

// Context contains the simulation clock: the fixed integration time
// step, the current step counter, and the accumulated simulation time.
// It is passed to all stepping methods.
type Context struct {

	// length of one integration time step, in seconds
	Dt float32 `def:"0.001"`

	// number of steps taken since Reset
	Step int `edit:"-"`

	// current simulation time, in seconds = Step * Dt
	Time float32 `edit:"-"`

	// evaluation mode, for logging scopes
	Mode etime.Modes
}

// NewContext returns a new Context with default values.
func NewContext() *Context {
	ctx := &Context{}
	ctx.Defaults()
	return ctx
}

func (ctx *Context) Defaults() {
	ctx.Dt = 0.001
	ctx.Mode = etime.Test
}

// Reset restarts the clock at time 0, keeping Dt.
func (ctx *Context) Reset() {
	if ctx.Dt == 0 {
		ctx.Dt = 0.001
	}
	ctx.Step = 0
	ctx.Time = 0
}

// StepAdvance advances the clock by one time step.
// Time is recomputed from the step count so it does not drift.
func (ctx *Context) StepAdvance() {
	ctx.Step++
	ctx.Time = float32(ctx.Step) * ctx.Dt
}
