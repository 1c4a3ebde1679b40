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

// This file, `pub_sub_listener.go`, defines the PubSubListener, which runs a
// cor.Command for every message received on a subscription.
//
// Logic Flow:
//  1. Listen starts a goroutine that calls Subscription.Receive until the
//     context is cancelled.
//  2. Each message gets its own span and a fresh cor.Context whose CtxIn is
//     the message payload.
//  3. The command runs. A clean context acks the message; any recorded error
//     nacks it so Pub/Sub redelivers it (or dead-letters it, if the
//     subscription is configured that way).
package cloud

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/pubsub"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/cor"
)

type PubSubListener struct {
	subscription *pubsub.Subscription // The subscription messages are pulled from.
	command      cor.Command          // Runs once per message.
	timeout      time.Duration        // Per-message budget, zero for none.
}

// NewPubSubListener binds a subscription to a command. The command may be
// set later with SetCommand, before Listen is called.
func NewPubSubListener(pubsubClient *pubsub.Client, subscriptionID string, command cor.Command) *PubSubListener {
	return &PubSubListener{
		subscription: pubsubClient.Subscription(subscriptionID),
		command:      command,
	}
}

// SetCommand sets the command if none was given to the constructor.
func (m *PubSubListener) SetCommand(command cor.Command) {
	if m.command == nil {
		m.command = command
	}
}

// SetTimeout bounds the processing of a single message.
func (m *PubSubListener) SetTimeout(timeout time.Duration) {
	m.timeout = timeout
}

// Listen receives messages in the background until ctx is done.
func (m *PubSubListener) Listen(ctx context.Context) {
	slog.InfoContext(ctx, "listening", "subscription", m.subscription.ID())

	go func() {
		err := m.subscription.Receive(ctx, func(msgCtx context.Context, msg *pubsub.Message) {
			m.Handle(msgCtx, msg.ID, msg.Data, msg.Ack, msg.Nack)
		})
		if err != nil {
			slog.ErrorContext(ctx, "error receiving messages", "subscription", m.subscription.ID(), "error", err)
		}
	}()
}

// Handle runs the command for one payload and settles it with ack or nack.
func (m *PubSubListener) Handle(ctx context.Context, id string, data []byte, ack, nack func()) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	tracer := otel.Tracer("message-listener")
	spanCtx, span := tracer.Start(ctx, "receive-message")
	defer span.End()
	span.SetAttributes(attribute.String("message.id", id))

	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(spanCtx)
	chainCtx.Add(cor.CtxIn, string(data))

	m.command.Execute(chainCtx)

	if err := chainCtx.Err(); err != nil {
		span.SetStatus(codes.Error, "failed")
		slog.ErrorContext(spanCtx, "error executing chain", "message_id", id, "error", err)
		nack()
		return
	}
	span.SetStatus(codes.Ok, "success")
	ack()
}
