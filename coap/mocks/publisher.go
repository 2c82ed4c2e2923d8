// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/absmach/coapnode/coap"
	"github.com/stretchr/testify/mock"
)

var (
	_ coap.Scheduler         = (*Scheduler)(nil)
	_ coap.DataSource        = (*DataSource)(nil)
	_ coap.VariablePublisher = (*VariablePublisher)(nil)
)

// Scheduler keeps armed callbacks so tests fire them by hand.
type Scheduler struct {
	mock.Mock

	mu    sync.Mutex
	slots map[int]func()
}

func (m *Scheduler) Arm(slot int, period time.Duration, fn func()) error {
	ret := m.Called(slot, period)
	if err := ret.Error(0); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slots == nil {
		m.slots = make(map[int]func())
	}
	m.slots[slot] = fn

	return nil
}

func (m *Scheduler) Cancel(slot int) {
	m.Called(slot)

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, slot)
}

// Fire runs the callback armed on slot and reports whether there was one.
func (m *Scheduler) Fire(slot int) bool {
	m.mu.Lock()
	fn, ok := m.slots[slot]
	m.mu.Unlock()
	if ok {
		fn()
	}

	return ok
}

type DataSource struct {
	mock.Mock
}

func (m *DataSource) Read(ctx context.Context) (coap.Reading, error) {
	ret := m.Called(ctx)

	return ret.Get(0).(coap.Reading), ret.Error(1)
}

type VariablePublisher struct {
	mock.Mock
}

func (m *VariablePublisher) Publish(ctx context.Context, payload []byte) error {
	ret := m.Called(ctx, payload)

	return ret.Error(0)
}
