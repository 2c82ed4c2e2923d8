// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package coap_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/absmach/coapnode/coap"
	"github.com/absmach/coapnode/coap/mocks"
	"github.com/absmach/coapnode/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var okResponse = coap.Response{StatusCode: 69, Status: "2.05", ContentType: coap.JSON, Payload: []byte(`{"value":1}`)}

func TestNewClient(t *testing.T) {
	cases := []struct {
		desc      string
		transport coap.Transport
		cfg       coap.ClientConfig
		opts      []coap.ClientOption
		resolved  coap.ClientConfig
		err       error
	}{
		{
			desc:      "defaults",
			transport: new(mocks.Transport),
			cfg:       coap.ClientConfig{},
			resolved:  coap.ClientConfig{Address: "127.0.0.1", Port: 5683, RequestType: coap.Confirmable, Method: "GET", ContentType: coap.JSON},
		},
		{
			desc:      "secure defaults",
			transport: new(mocks.Transport),
			cfg:       coap.ClientConfig{Secure: true},
			resolved:  coap.ClientConfig{Address: "127.0.0.1", Port: 5684, RequestType: coap.Confirmable, Secure: true, Method: "GET", ContentType: coap.JSON},
		},
		{
			desc:      "secure through option",
			transport: new(mocks.Transport),
			cfg:       coap.ClientConfig{},
			opts:      []coap.ClientOption{coap.WithSecure(true)},
			resolved:  coap.ClientConfig{Address: "127.0.0.1", Port: 5684, RequestType: coap.Confirmable, Secure: true, Method: "GET", ContentType: coap.JSON},
		},
		{
			desc:      "config overrides",
			transport: new(mocks.Transport),
			cfg:       coap.ClientConfig{Address: "192.168.1.10", Port: 6000, RequestType: coap.NonConfirmable, Method: "post", ContentType: coap.SenMLJSON},
			resolved:  coap.ClientConfig{Address: "192.168.1.10", Port: 6000, RequestType: coap.NonConfirmable, Method: "post", ContentType: coap.SenMLJSON},
		},
		{
			desc:      "option overrides",
			transport: new(mocks.Transport),
			cfg:       coap.ClientConfig{Address: "192.168.1.10"},
			opts: []coap.ClientOption{
				coap.WithAddress("node.local"),
				coap.WithPort(7000),
				coap.WithRequestType(coap.NonConfirmable),
				coap.WithMethod("PUT"),
				coap.WithContentType(coap.Text),
			},
			resolved: coap.ClientConfig{Address: "node.local", Port: 7000, RequestType: coap.NonConfirmable, Method: "PUT", ContentType: coap.Text},
		},
		{
			desc:      "port option out of range",
			transport: new(mocks.Transport),
			opts:      []coap.ClientOption{coap.WithPort(65536)},
			err:       coap.ErrInvalidPort,
		},
		{
			desc:      "zero port option",
			transport: new(mocks.Transport),
			opts:      []coap.ClientOption{coap.WithPort(0)},
			err:       coap.ErrInvalidPort,
		},
		{
			desc: "missing transport",
			err:  coap.ErrMissingTransport,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			c, err := coap.NewClient(tc.transport, tc.cfg, tc.opts...)
			assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %s got %s", tc.desc, tc.err, err))
			if tc.err != nil {
				assert.Nil(t, c)
				return
			}
			assert.Equal(t, tc.resolved, c.Config())
		})
	}
}

func TestRequestScenario(t *testing.T) {
	transport := new(mocks.Transport)
	c, err := coap.NewClient(transport, coap.ClientConfig{Address: "192.168.1.10", Port: 5683})
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	expected := coap.Request{
		Method:      "GET",
		URL:         "coap://192.168.1.10:5683/sensors/t",
		Type:        coap.Confirmable,
		ContentType: coap.JSON,
	}
	transport.On("Do", mock.Anything, expected).Return(okResponse, nil).Once()

	res, err := c.Request(context.Background(), "/sensors/t", "GET", nil)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Equal(t, okResponse, res)
	transport.AssertNumberOfCalls(t, "Do", 1)
	transport.AssertExpectations(t)
}

func TestRequest(t *testing.T) {
	providerErr := stderrors.New("dial udp 192.168.1.10:5683: connect: network is unreachable")

	cases := []struct {
		desc     string
		cfg      coap.ClientConfig
		uri      string
		method   string
		payload  []byte
		request  coap.Request
		response coap.Response
		tErr     error
		calls    int
		err      error
	}{
		{
			desc:     "default method",
			cfg:      coap.ClientConfig{Address: "10.0.0.5"},
			uri:      "/t",
			request:  coap.Request{Method: "GET", URL: "coap://10.0.0.5:5683/t", Type: coap.Confirmable, ContentType: coap.JSON},
			response: okResponse,
			calls:    1,
		},
		{
			desc:     "lower case method with payload",
			cfg:      coap.ClientConfig{Address: "10.0.0.5", Secure: true},
			uri:      "/actuators/led",
			method:   "put",
			payload:  []byte(`{"on":true}`),
			request:  coap.Request{Method: "PUT", URL: "coaps://10.0.0.5:5684/actuators/led", Type: coap.Confirmable, ContentType: coap.JSON, Payload: []byte(`{"on":true}`)},
			response: coap.Response{StatusCode: 68, Status: "2.04"},
			calls:    1,
		},
		{
			desc:     "payload forwarded with GET",
			cfg:      coap.ClientConfig{Address: "10.0.0.5", RequestType: coap.NonConfirmable},
			uri:      "",
			method:   "GET",
			payload:  []byte("ignored"),
			request:  coap.Request{Method: "GET", URL: "coap://10.0.0.5:5683/", Type: coap.NonConfirmable, ContentType: coap.JSON, Payload: []byte("ignored")},
			response: okResponse,
			calls:    1,
		},
		{
			desc:     "error response returned as is",
			cfg:      coap.ClientConfig{Address: "10.0.0.5"},
			uri:      "/missing",
			method:   "DELETE",
			request:  coap.Request{Method: "DELETE", URL: "coap://10.0.0.5:5683/missing", Type: coap.Confirmable, ContentType: coap.JSON},
			response: coap.Response{StatusCode: 132, Status: "4.04"},
			calls:    1,
		},
		{
			desc:   "invalid method",
			cfg:    coap.ClientConfig{Address: "10.0.0.5"},
			uri:    "/t",
			method: "PATCH",
			err:    coap.ErrInvalidMethod,
		},
		{
			desc:   "invalid default method",
			cfg:    coap.ClientConfig{Address: "10.0.0.5", Method: "FETCH"},
			uri:    "/t",
			err:    coap.ErrInvalidMethod,
		},
		{
			desc: "invalid request type",
			cfg:  coap.ClientConfig{Address: "10.0.0.5", RequestType: "RESET"},
			uri:  "/t",
			err:  coap.ErrInvalidRequestType,
		},
		{
			desc: "invalid address",
			cfg:  coap.ClientConfig{Address: "10.0.0.5:5683"},
			uri:  "/t",
			err:  coap.ErrInvalidAddress,
		},
		{
			desc: "invalid port",
			cfg:  coap.ClientConfig{Address: "10.0.0.5", Port: 70000},
			uri:  "/t",
			err:  coap.ErrInvalidPort,
		},
		{
			desc: "path without leading slash",
			cfg:  coap.ClientConfig{Address: "10.0.0.5"},
			uri:  "t",
			err:  coap.ErrInvalidPath,
		},
		{
			desc:    "transport failure",
			cfg:     coap.ClientConfig{Address: "192.168.1.10"},
			uri:     "/t",
			request: coap.Request{Method: "GET", URL: "coap://192.168.1.10:5683/t", Type: coap.Confirmable, ContentType: coap.JSON},
			tErr:    providerErr,
			calls:   1,
			err:     coap.ErrTransport,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			transport := new(mocks.Transport)
			c, err := coap.NewClient(transport, tc.cfg)
			require.Nil(t, err, fmt.Sprintf("%s: unexpected error %s", tc.desc, err))

			transport.On("Do", mock.Anything, tc.request).Return(tc.response, tc.tErr)
			res, err := c.Request(context.Background(), tc.uri, tc.method, tc.payload)
			assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %s got %s", tc.desc, tc.err, err))
			transport.AssertNumberOfCalls(t, "Do", tc.calls)
			if tc.err == nil {
				assert.Equal(t, tc.response, res)
			}
			if tc.tErr != nil {
				assert.True(t, strings.Contains(err.Error(), tc.tErr.Error()), "provider message should be preserved")
				assert.True(t, errors.Contains(err, tc.tErr))
			}
		})
	}
}

func TestRequestDoesNotMutateConfig(t *testing.T) {
	transport := new(mocks.Transport)
	transport.On("Do", mock.Anything, mock.Anything).Return(okResponse, nil)

	c, err := coap.NewClient(transport, coap.ClientConfig{Address: "10.0.0.5"})
	require.Nil(t, err)
	before := c.Config()

	_, err = c.Request(context.Background(), "/t", "POST", []byte("payload"))
	require.Nil(t, err)
	assert.Equal(t, before, c.Config())
}
