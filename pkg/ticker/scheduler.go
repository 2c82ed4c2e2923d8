// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package ticker

import (
	"fmt"
	"sync"
	"time"

	"github.com/absmach/coapnode/pkg/errors"
)

// Slots is the number of timer slots a Scheduler manages.
const Slots = 7

var (
	// ErrInvalidSlot indicates a slot outside of [0, Slots).
	ErrInvalidSlot = errors.New("invalid timer slot")

	// ErrSlotArmed indicates that the slot already runs a callback.
	ErrSlotArmed = errors.New("timer slot already armed")

	// ErrInvalidPeriod indicates a non-positive period.
	ErrInvalidPeriod = errors.New("invalid timer period")
)

// Factory creates the Ticker driving an armed slot.
type Factory func(period time.Duration) Ticker

type slot struct {
	ticker Ticker
	done   chan struct{}
}

// Scheduler runs callbacks periodically on a fixed set of slots. Every slot
// runs its callback on its own goroutine, one invocation at a time.
type Scheduler struct {
	mu        sync.Mutex
	newTicker Factory
	slots     [Slots]*slot
}

// NewScheduler returns a Scheduler whose slots are driven by tickers created
// with factory. A nil factory defaults to NewTicker.
func NewScheduler(factory Factory) *Scheduler {
	if factory == nil {
		factory = NewTicker
	}
	return &Scheduler{newTicker: factory}
}

// Arm starts calling fn every period on the given slot until the slot is
// cancelled.
func (s *Scheduler) Arm(id int, period time.Duration, fn func()) error {
	if id < 0 || id >= Slots {
		return errors.Wrap(ErrInvalidSlot, fmt.Errorf("slot %d not in [0, %d]", id, Slots-1))
	}
	if period <= 0 {
		return errors.Wrap(ErrInvalidPeriod, fmt.Errorf("period %s must be positive", period))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slots[id] != nil {
		return errors.Wrap(ErrSlotArmed, fmt.Errorf("slot %d", id))
	}

	sl := &slot{
		ticker: s.newTicker(period),
		done:   make(chan struct{}),
	}
	s.slots[id] = sl
	go sl.run(fn)

	return nil
}

// Cancel stops future calls on the slot. A running call completes. Cancelling
// an idle or invalid slot is a no-op.
func (s *Scheduler) Cancel(id int) {
	if id < 0 || id >= Slots {
		return
	}

	s.mu.Lock()
	sl := s.slots[id]
	s.slots[id] = nil
	s.mu.Unlock()

	if sl != nil {
		sl.stop()
	}
}

// Armed reports whether the slot currently runs a callback.
func (s *Scheduler) Armed(id int) bool {
	if id < 0 || id >= Slots {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.slots[id] != nil
}

// Close cancels all slots.
func (s *Scheduler) Close() {
	for id := 0; id < Slots; id++ {
		s.Cancel(id)
	}
}

func (sl *slot) run(fn func()) {
	for {
		select {
		case <-sl.done:
			return
		case <-sl.ticker.Tick():
			select {
			case <-sl.done:
				return
			default:
			}
			invoke(fn)
		}
	}
}

// invoke runs fn and swallows a panic so the slot keeps firing.
func invoke(fn func()) {
	defer func() {
		_ = recover()
	}()
	fn()
}

func (sl *slot) stop() {
	close(sl.done)
	sl.ticker.Stop()
}
