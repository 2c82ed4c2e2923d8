// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package coap

import (
	"context"
	"time"
)

// Transport performs the network exchange of a single request.
type Transport interface {
	// Do sends req and returns the response of the remote endpoint. Response
	// codes never cause an error, only failures to exchange messages do.
	Do(ctx context.Context, req Request) (Response, error)
}

// Binder binds a listening endpoint that dispatches inbound requests to h.
type Binder interface {
	Bind(ctx context.Context, port int, secure bool, h Handler) (Listener, error)
}

// Listener is a bound endpoint.
type Listener interface {
	Close() error
}

// Handler answers inbound requests.
type Handler interface {
	Handle(ctx context.Context, in Inbound) Outbound
}

// Inbound is a request received by a bound endpoint.
type Inbound struct {
	Method      string
	Path        string
	ContentType ContentType
	Payload     []byte
}

// Code is a CoAP response code in its 3-bit class, 5-bit detail encoding.
type Code uint8

const (
	Changed             Code = 0x44 // 2.04
	Content             Code = 0x45 // 2.05
	BadRequest          Code = 0x80 // 4.00
	NotFound            Code = 0x84 // 4.04
	MethodNotAllowed    Code = 0x85 // 4.05
	InternalServerError Code = 0xa0 // 5.00
)

// Outbound is the answer to an Inbound request.
type Outbound struct {
	Code        Code
	ContentType ContentType
	Payload     []byte
}

// Scheduler calls callbacks periodically on numbered slots.
type Scheduler interface {
	// Arm calls fn every period on slot until the slot is cancelled.
	Arm(slot int, period time.Duration, fn func()) error

	// Cancel stops future calls on slot.
	Cancel(slot int)
}

// DataSource produces readings on demand.
type DataSource interface {
	Read(ctx context.Context) (Reading, error)
}

// Encoder serializes readings into payloads of a fixed content type.
type Encoder interface {
	Encode(r Reading) ([]byte, error)
	ContentType() ContentType
}

// Requester issues validated client requests.
type Requester interface {
	// Request sends payload to uri with method, or with the configured method
	// when method is empty.
	Request(ctx context.Context, uri, method string, payload []byte) (Response, error)
}

// VariablePublisher updates a published variable.
type VariablePublisher interface {
	Publish(ctx context.Context, payload []byte) error
}
