// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package coap_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"

	"github.com/absmach/coapnode/coap"
	"github.com/absmach/coapnode/coap/mocks"
	"github.com/absmach/coapnode/codec"
	"github.com/absmach/coapnode/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, cfg coap.ServerConfig, opts ...coap.ServerOption) (*coap.Server, *mocks.Binder, *mocks.Listener) {
	binder := new(mocks.Binder)
	listener := new(mocks.Listener)
	binder.On("Bind", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(listener, nil)
	listener.On("Close").Return(nil)

	s, err := coap.NewServer(context.Background(), binder, cfg, opts...)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	return s, binder, listener
}

func TestNewServer(t *testing.T) {
	bindErr := stderrors.New("listen udp :5683: bind: address already in use")

	cases := []struct {
		desc    string
		cfg     coap.ServerConfig
		opts    []coap.ServerOption
		port    int
		secure  bool
		ct      coap.ContentType
		bindErr error
		err     error
	}{
		{desc: "default config", cfg: coap.DefaultServerConfig(), port: 5683, ct: coap.JSON},
		{desc: "zero config", cfg: coap.ServerConfig{}, port: 5683, ct: coap.JSON},
		{desc: "secure default port", cfg: coap.ServerConfig{Secure: true, ContentType: coap.JSON}, port: 5684, secure: true, ct: coap.JSON},
		{desc: "explicit port", cfg: coap.ServerConfig{Port: 6000, ContentType: coap.SenMLJSON, Name: "temperature"}, port: 6000, ct: coap.SenMLJSON},
		{desc: "text content type", cfg: coap.ServerConfig{}, opts: []coap.ServerOption{coap.WithServerContentType(coap.Text)}, port: 5683, ct: coap.Text},
		{desc: "invalid port", cfg: coap.ServerConfig{Port: 65536, ContentType: coap.JSON}, err: coap.ErrInvalidPort},
		{desc: "invalid content type", cfg: coap.ServerConfig{ContentType: coap.ContentType(9999)}, err: coap.ErrInvalidContentType},
		{desc: "invalid content type option", opts: []coap.ServerOption{coap.WithServerContentType(coap.ContentType(9999))}, err: coap.ErrInvalidContentType},
		{desc: "invalid name", cfg: coap.ServerConfig{ContentType: coap.JSON, Name: "a/b"}, err: coap.ErrInvalidPath},
		{desc: "bind failure", cfg: coap.DefaultServerConfig(), port: 5683, bindErr: bindErr, err: coap.ErrBind},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			binder := new(mocks.Binder)
			listener := new(mocks.Listener)
			binder.On("Bind", mock.Anything, tc.port, tc.secure, mock.Anything).Return(listener, tc.bindErr)

			s, err := coap.NewServer(context.Background(), binder, tc.cfg, tc.opts...)
			assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %s got %s", tc.desc, tc.err, err))
			if tc.err != nil {
				assert.Nil(t, s)
				if tc.bindErr != nil {
					assert.True(t, errors.Contains(err, tc.bindErr), "bind error should be preserved")
				}
				return
			}
			binder.AssertNumberOfCalls(t, "Bind", 1)
			assert.Equal(t, tc.port, s.Config().Port)
			assert.Equal(t, tc.ct, s.Config().ContentType)
			assert.Equal(t, tc.ct, s.Variable().ContentType)
			assert.Equal(t, s, binder.Handler())
		})
	}
}

func TestNewServerMissingBinder(t *testing.T) {
	s, err := coap.NewServer(context.Background(), nil, coap.DefaultServerConfig())
	assert.Nil(t, s)
	assert.True(t, errors.Contains(err, coap.ErrMissingTransport), fmt.Sprintf("expected %s got %s", coap.ErrMissingTransport, err))
}

func TestPublishIdempotence(t *testing.T) {
	s, _, _ := newServer(t, coap.DefaultServerConfig())
	payload := []byte(`{"meaning":"temperature","value":21.5}`)

	require.Nil(t, s.Publish(context.Background(), payload))
	once := s.Variable()
	require.Nil(t, s.Publish(context.Background(), payload))
	twice := s.Variable()

	assert.Equal(t, once.Name, twice.Name)
	assert.Equal(t, once.ContentType, twice.ContentType)
	assert.Equal(t, payload, twice.Value)
	assert.Equal(t, once.Value, twice.Value)
}

func TestPublishCopiesPayload(t *testing.T) {
	s, _, _ := newServer(t, coap.DefaultServerConfig())
	payload := []byte("21.5")

	require.Nil(t, s.Publish(context.Background(), payload))
	payload[0] = '9'
	assert.Equal(t, []byte("21.5"), s.Variable().Value)
}

func TestRoundTrip(t *testing.T) {
	s, binder, _ := newServer(t, coap.DefaultServerConfig())
	reading := coap.Reading{Meaning: "temperature", Value: 21.5}

	payload, err := codec.NewJSON().Encode(reading)
	require.Nil(t, err)
	require.Nil(t, s.Publish(context.Background(), payload))

	out := binder.Handler().Handle(context.Background(), coap.Inbound{Method: "GET", Path: coap.VariablePrefix + coap.DefaultVariable})
	assert.Equal(t, coap.Content, out.Code)
	assert.Equal(t, coap.JSON, out.ContentType)

	got, err := codec.DecodeJSON(out.Payload)
	require.Nil(t, err)
	assert.Equal(t, reading.Meaning, got.Meaning)
	assert.Equal(t, reading.Value, got.Value)
}

func TestHandle(t *testing.T) {
	s, _, _ := newServer(t, coap.ServerConfig{Name: "temperature"}, coap.WithServerContentType(coap.Text))
	require.Nil(t, s.Publish(context.Background(), []byte("temperature=21.5")))
	require.Nil(t, s.HandleFunc("reset", func(_ context.Context, payload []byte) ([]byte, error) {
		return append([]byte("reset:"), payload...), nil
	}))
	require.Nil(t, s.HandleFunc("fail", func(context.Context, []byte) ([]byte, error) {
		return nil, stderrors.New("sensor offline")
	}))

	cases := []struct {
		desc string
		in   coap.Inbound
		out  coap.Outbound
	}{
		{
			desc: "get variable",
			in:   coap.Inbound{Method: "GET", Path: "/v1/v/temperature"},
			out:  coap.Outbound{Code: coap.Content, ContentType: coap.Text, Payload: []byte("temperature=21.5")},
		},
		{
			desc: "get variable with lower case method",
			in:   coap.Inbound{Method: "get", Path: "/v1/v/temperature"},
			out:  coap.Outbound{Code: coap.Content, ContentType: coap.Text, Payload: []byte("temperature=21.5")},
		},
		{
			desc: "get unknown variable",
			in:   coap.Inbound{Method: "GET", Path: "/v1/v/humidity"},
			out:  coap.Outbound{Code: coap.NotFound, ContentType: coap.Text, Payload: []byte{}},
		},
		{
			desc: "post variable",
			in:   coap.Inbound{Method: "POST", Path: "/v1/v/temperature"},
			out:  coap.Outbound{Code: coap.MethodNotAllowed, ContentType: coap.Text, Payload: []byte{}},
		},
		{
			desc: "post function",
			in:   coap.Inbound{Method: "POST", Path: "/v1/f/reset", Payload: []byte("now")},
			out:  coap.Outbound{Code: coap.Changed, ContentType: coap.Text, Payload: []byte("reset:now")},
		},
		{
			desc: "post failing function",
			in:   coap.Inbound{Method: "POST", Path: "/v1/f/fail"},
			out:  coap.Outbound{Code: coap.InternalServerError, ContentType: coap.Text, Payload: []byte("sensor offline")},
		},
		{
			desc: "get function",
			in:   coap.Inbound{Method: "GET", Path: "/v1/f/reset"},
			out:  coap.Outbound{Code: coap.MethodNotAllowed, ContentType: coap.Text, Payload: []byte{}},
		},
		{
			desc: "post unknown function",
			in:   coap.Inbound{Method: "POST", Path: "/v1/f/reboot"},
			out:  coap.Outbound{Code: coap.NotFound, ContentType: coap.Text, Payload: []byte{}},
		},
		{
			desc: "discovery",
			in:   coap.Inbound{Method: "GET", Path: "/.well-known/core"},
			out:  coap.Outbound{Code: coap.Content, ContentType: coap.LinkFormat, Payload: []byte(`</v1/v/temperature>;rt="var";ct=0,</v1/f/fail>;rt="func",</v1/f/reset>;rt="func"`)},
		},
		{
			desc: "unknown path",
			in:   coap.Inbound{Method: "GET", Path: "/sensors"},
			out:  coap.Outbound{Code: coap.NotFound, ContentType: coap.Text, Payload: []byte{}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			out := s.Handle(context.Background(), tc.in)
			assert.Equal(t, tc.out, out, fmt.Sprintf("%s: expected %v got %v", tc.desc, tc.out, out))
		})
	}
}

func TestHandleRejectsServerMethods(t *testing.T) {
	s, _, _ := newServer(t, coap.DefaultServerConfig())

	for _, method := range []string{"PUT", "DELETE", "PATCH"} {
		out := s.Handle(context.Background(), coap.Inbound{Method: method, Path: coap.VariablePrefix + coap.DefaultVariable})
		assert.Equal(t, coap.MethodNotAllowed, out.Code, fmt.Sprintf("%s should not be allowed", method))
	}
}

func TestHandleFunc(t *testing.T) {
	s, _, _ := newServer(t, coap.DefaultServerConfig())
	fn := func(context.Context, []byte) ([]byte, error) { return nil, nil }

	cases := []struct {
		desc string
		name string
		fn   coap.Func
		err  error
	}{
		{desc: "valid function", name: "reset", fn: fn},
		{desc: "empty name", name: "", fn: fn, err: coap.ErrInvalidPath},
		{desc: "nested name", name: "a/b", fn: fn, err: coap.ErrInvalidPath},
		{desc: "nil function", name: "noop", err: coap.ErrMissingCollaborator},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			err := s.HandleFunc(tc.name, tc.fn)
			assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %s got %s", tc.desc, tc.err, err))
		})
	}
}

func TestClose(t *testing.T) {
	s, _, listener := newServer(t, coap.DefaultServerConfig())

	require.Nil(t, s.Close())
	require.Nil(t, s.Close())
	listener.AssertNumberOfCalls(t, "Close", 1)

	err := s.Publish(context.Background(), []byte("1"))
	assert.True(t, errors.Contains(err, coap.ErrServerClosed), fmt.Sprintf("expected %s got %s", coap.ErrServerClosed, err))
}

func TestConcurrentPublishAndGet(t *testing.T) {
	s, binder, _ := newServer(t, coap.DefaultServerConfig())
	h := binder.Handler()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			assert.Nil(t, s.Publish(context.Background(), []byte(fmt.Sprintf(`{"meaning":"t","value":%d}`, i))))
		}(i)
		go func() {
			defer wg.Done()
			out := h.Handle(context.Background(), coap.Inbound{Method: "GET", Path: coap.VariablePrefix + coap.DefaultVariable})
			assert.Equal(t, coap.Content, out.Code)
		}()
	}
	wg.Wait()
}
