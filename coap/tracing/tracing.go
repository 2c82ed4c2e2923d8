// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"context"

	"github.com/absmach/coapnode/coap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	_ coap.Requester         = (*requesterTracing)(nil)
	_ coap.VariablePublisher = (*publisherTracing)(nil)
)

type requesterTracing struct {
	tracer trace.Tracer
	svc    coap.Requester
}

// NewRequester returns a client requester with tracing capabilities.
func NewRequester(svc coap.Requester, tracer trace.Tracer) coap.Requester {
	return &requesterTracing{tracer, svc}
}

// Request traces the "Request" operation of the wrapped requester.
func (tm *requesterTracing) Request(ctx context.Context, uri, method string, payload []byte) (coap.Response, error) {
	ctx, span := tm.tracer.Start(ctx, "client_request", trace.WithAttributes(
		attribute.String("uri", uri),
		attribute.String("method", method),
		attribute.Int("payload_size", len(payload)),
	))
	defer span.End()

	res, err := tm.svc.Request(ctx, uri, method, payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return res, err
	}
	span.SetAttributes(attribute.String("status", res.Status))

	return res, nil
}

type publisherTracing struct {
	tracer trace.Tracer
	name   string
	svc    coap.VariablePublisher
}

// NewPublisher returns a variable publisher with tracing capabilities.
func NewPublisher(svc coap.VariablePublisher, name string, tracer trace.Tracer) coap.VariablePublisher {
	return &publisherTracing{tracer, name, svc}
}

// Publish traces the "Publish" operation of the wrapped publisher.
func (tm *publisherTracing) Publish(ctx context.Context, payload []byte) error {
	ctx, span := tm.tracer.Start(ctx, "svc_publish", trace.WithAttributes(
		attribute.String("variable", tm.name),
		attribute.Int("payload_size", len(payload)),
	))
	defer span.End()

	return tm.svc.Publish(ctx, payload)
}
