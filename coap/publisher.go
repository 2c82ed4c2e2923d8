// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package coap

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/absmach/coapnode/pkg/errors"
)

// PeriodicPublisher reads a data source on a schedule, encodes the reading
// and publishes it. It is either idle or armed on a single scheduler slot.
type PeriodicPublisher struct {
	scheduler Scheduler
	encoder   Encoder
	logger    *slog.Logger
	debug     bool

	mu     sync.Mutex
	armed  bool
	slot   int
	source DataSource
	target VariablePublisher
}

// NewPeriodicPublisher returns an idle publisher. With debug set every
// published payload is logged at debug level.
func NewPeriodicPublisher(scheduler Scheduler, encoder Encoder, logger *slog.Logger, debug bool) *PeriodicPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &PeriodicPublisher{
		scheduler: scheduler,
		encoder:   encoder,
		logger:    logger,
		debug:     debug,
	}
}

// Start arms slot to run a publish cycle every period.
func (pp *PeriodicPublisher) Start(slot int, period time.Duration, source DataSource, target VariablePublisher) error {
	if pp.scheduler == nil || pp.encoder == nil || source == nil || target == nil {
		return ErrMissingCollaborator
	}
	if period <= 0 {
		return errors.Wrap(ErrInvalidPeriod, fmt.Errorf("period %s must be positive", period))
	}

	pp.mu.Lock()
	defer pp.mu.Unlock()
	if pp.armed {
		return errors.Wrap(ErrPublisherArmed, fmt.Errorf("armed on slot %d", pp.slot))
	}

	pp.source, pp.target = source, target
	if err := pp.scheduler.Arm(slot, period, func() {
		_ = pp.Cycle(context.Background())
	}); err != nil {
		return err
	}
	pp.armed, pp.slot = true, slot

	return nil
}

// Stop cancels future cycles. A running cycle completes. Stopping an idle
// publisher does nothing.
func (pp *PeriodicPublisher) Stop() error {
	pp.mu.Lock()
	defer pp.mu.Unlock()
	if !pp.armed {
		return nil
	}
	pp.scheduler.Cancel(pp.slot)
	pp.armed = false

	return nil
}

// Armed reports whether the publisher is running.
func (pp *PeriodicPublisher) Armed() bool {
	pp.mu.Lock()
	defer pp.mu.Unlock()

	return pp.armed
}

// Cycle reads, encodes and publishes one reading. Failures are logged and
// returned, they never disarm the publisher.
func (pp *PeriodicPublisher) Cycle(ctx context.Context) error {
	pp.mu.Lock()
	source, target := pp.source, pp.target
	pp.mu.Unlock()
	if source == nil || target == nil {
		return ErrMissingCollaborator
	}

	reading, payload, err := pp.sample(ctx, source)
	if err != nil {
		pp.logger.Warn("Publish cycle skipped", slog.String("meaning", reading.Meaning), slog.Any("error", err))
		return err
	}

	if err := target.Publish(ctx, payload); err != nil {
		pp.logger.Warn("Publish cycle failed", slog.String("meaning", reading.Meaning), slog.Any("error", err))
		return err
	}

	if pp.debug {
		pp.logger.Debug("Published reading", slog.String("meaning", reading.Meaning), slog.String("payload", string(payload)))
	}

	return nil
}

// sample reads and encodes one reading. A panicking data source or encoder is
// reported as a data source error so the schedule keeps running.
func (pp *PeriodicPublisher) sample(ctx context.Context, source DataSource) (reading Reading, payload []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrap(ErrDataSource, fmt.Errorf("%v", r))
		}
	}()

	reading, err = source.Read(ctx)
	if err != nil {
		return Reading{}, nil, errors.Wrap(ErrDataSource, err)
	}
	payload, err = pp.encoder.Encode(reading)
	if err != nil {
		return reading, nil, errors.Wrap(ErrEncoding, err)
	}

	return reading, payload, nil
}
