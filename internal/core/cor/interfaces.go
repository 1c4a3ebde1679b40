// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cor (Chain of Responsibility) provides the building blocks for
// workflows expressed as an ordered list of commands sharing one Context.
// This file declares the interfaces; base_*.go hold the default
// implementations that concrete commands embed.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the keys a BaseChain pipes between commands: after each
// command runs, the value it stored under CtxOut becomes the next command's CtxIn.
const (
	CtxIn  = "__IN__"
	CtxOut = "__OUT__"
)

// Context is the property bag carried through one workflow execution. It holds
// the request's context.Context, arbitrary values and the errors raised by
// commands, keyed by command name.
type Context interface {
	SetContext(ctx context.Context)
	GetContext() context.Context

	// Add stores value under key and returns the Context for chaining.
	Add(key string, value any) Context
	Get(key string) any
	Remove(key string)

	// AddError records err against key, normally the command name.
	AddError(key string, err error)
	GetErrors() map[string]error
	HasErrors() bool
	// Err joins every recorded error, ordered by key, or returns nil.
	Err() error
}

// Executable runs against a Context.
type Executable interface {
	Execute(context Context)
}

// Command is one step of a workflow.
type Command interface {
	Executable

	GetName() string
	// GetInputParam is the key the command reads its primary input from.
	GetInputParam() string
	// GetOutputParam is the key the command writes its primary output to.
	GetOutputParam() string
	// IsExecutable is checked by the chain before Execute.
	IsExecutable(context Context) bool

	GetTracer() trace.Tracer
	GetMeter() metric.Meter
	GetSuccessCounter() metric.Int64Counter
	GetErrorCounter() metric.Int64Counter
}

// Chain is a Command made of other commands, so chains nest.
type Chain interface {
	Command

	// ContinueOnFailure keeps running later commands after one records an error.
	ContinueOnFailure(bool) Chain
	AddCommand(command Command) Chain
}
