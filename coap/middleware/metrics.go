// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/absmach/coapnode/coap"
	"github.com/go-kit/kit/metrics"
)

var (
	_ coap.Requester         = (*requesterMetrics)(nil)
	_ coap.VariablePublisher = (*publisherMetrics)(nil)
)

type requesterMetrics struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     coap.Requester
}

// RequesterMetrics instruments client requests by tracking request count and
// latency per method.
func RequesterMetrics(svc coap.Requester, counter metrics.Counter, latency metrics.Histogram) coap.Requester {
	return &requesterMetrics{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *requesterMetrics) Request(ctx context.Context, uri, method string, payload []byte) (coap.Response, error) {
	defer func(begin time.Time) {
		m := "request"
		if method != "" {
			m = "request_" + strings.ToLower(method)
		}
		mm.counter.With("method", m).Add(1)
		mm.latency.With("method", m).Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Request(ctx, uri, method, payload)
}

type publisherMetrics struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     coap.VariablePublisher
}

// PublisherMetrics instruments variable publishing by tracking publish count
// and latency.
func PublisherMetrics(svc coap.VariablePublisher, counter metrics.Counter, latency metrics.Histogram) coap.VariablePublisher {
	return &publisherMetrics{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *publisherMetrics) Publish(ctx context.Context, payload []byte) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "publish").Add(1)
		mm.latency.With("method", "publish").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Publish(ctx, payload)
}
