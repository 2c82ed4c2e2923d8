// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/absmach/coapnode/coap"
)

var (
	_ coap.Requester         = (*requesterLogging)(nil)
	_ coap.VariablePublisher = (*publisherLogging)(nil)
)

type requesterLogging struct {
	logger *slog.Logger
	svc    coap.Requester
}

// RequesterLogging adds logging facilities to client requests.
func RequesterLogging(svc coap.Requester, logger *slog.Logger) coap.Requester {
	return &requesterLogging{
		logger: logger,
		svc:    svc,
	}
}

func (lm *requesterLogging) Request(ctx context.Context, uri, method string, payload []byte) (res coap.Response, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("request",
				slog.String("uri", uri),
				slog.String("method", method),
				slog.Int("payload_size", len(payload)),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Client request failed", args...)
			return
		}
		args = append(args, slog.String("status", res.Status))
		lm.logger.Info("Client request completed successfully", args...)
	}(time.Now())

	return lm.svc.Request(ctx, uri, method, payload)
}

type publisherLogging struct {
	logger *slog.Logger
	name   string
	svc    coap.VariablePublisher
}

// PublisherLogging adds logging facilities to variable publishing.
func PublisherLogging(svc coap.VariablePublisher, name string, logger *slog.Logger) coap.VariablePublisher {
	return &publisherLogging{
		logger: logger,
		name:   name,
		svc:    svc,
	}
}

func (lm *publisherLogging) Publish(ctx context.Context, payload []byte) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("variable", lm.name),
			slog.Int("payload_size", len(payload)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Publish variable failed", args...)
			return
		}
		lm.logger.Info("Publish variable completed successfully", args...)
	}(time.Now())

	return lm.svc.Publish(ctx, payload)
}
