// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"sync"

	"github.com/absmach/coapnode/coap"
	"github.com/stretchr/testify/mock"
)

var (
	_ coap.Transport = (*Transport)(nil)
	_ coap.Binder    = (*Binder)(nil)
	_ coap.Listener  = (*Listener)(nil)
)

type Transport struct {
	mock.Mock
}

func (m *Transport) Do(ctx context.Context, req coap.Request) (coap.Response, error) {
	ret := m.Called(ctx, req)

	return ret.Get(0).(coap.Response), ret.Error(1)
}

// Binder records the handler of the last successful bind so tests can act
// as a remote peer.
type Binder struct {
	mock.Mock

	mu      sync.Mutex
	handler coap.Handler
}

func (m *Binder) Bind(ctx context.Context, port int, secure bool, h coap.Handler) (coap.Listener, error) {
	ret := m.Called(ctx, port, secure, h)

	if err := ret.Error(1); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.handler = h
	m.mu.Unlock()

	return ret.Get(0).(coap.Listener), nil
}

// Handler returns the handler of the last successful bind.
func (m *Binder) Handler() coap.Handler {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.handler
}

type Listener struct {
	mock.Mock
}

func (m *Listener) Close() error {
	ret := m.Called()

	return ret.Error(0)
}
