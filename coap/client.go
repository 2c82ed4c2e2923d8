// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package coap

import (
	"context"

	"github.com/absmach/coapnode/pkg/errors"
)

var _ Requester = (*Client)(nil)

// ClientOption overrides a single field of the client configuration.
type ClientOption func(*ClientConfig) error

// WithAddress sets the remote address.
func WithAddress(address string) ClientOption {
	return func(cfg *ClientConfig) error {
		cfg.Address = address
		return nil
	}
}

// WithPort sets the remote port. Ports outside of [1, 65535] are rejected
// immediately.
func WithPort(port int) ClientOption {
	return func(cfg *ClientConfig) error {
		if err := ValidatePort(port); err != nil {
			return err
		}
		cfg.Port = port
		return nil
	}
}

// WithRequestType sets the request type of every request.
func WithRequestType(t RequestType) ClientOption {
	return func(cfg *ClientConfig) error {
		cfg.RequestType = t
		return nil
	}
}

// WithSecure selects coaps.
func WithSecure(secure bool) ClientOption {
	return func(cfg *ClientConfig) error {
		cfg.Secure = secure
		return nil
	}
}

// WithMethod sets the method used when a request names none.
func WithMethod(method string) ClientOption {
	return func(cfg *ClientConfig) error {
		cfg.Method = method
		return nil
	}
}

// WithContentType sets the content format of request payloads.
func WithContentType(ct ContentType) ClientOption {
	return func(cfg *ClientConfig) error {
		cfg.ContentType = ct
		return nil
	}
}

// Client issues validated requests through a Transport. Its configuration is
// resolved once and never changes.
type Client struct {
	transport Transport
	cfg       ClientConfig
}

// NewClient merges cfg and opts over the client defaults. Only the transport
// and explicit port overrides are checked here, everything else is validated
// per request.
func NewClient(t Transport, cfg ClientConfig, opts ...ClientOption) (*Client, error) {
	if t == nil {
		return nil, ErrMissingTransport
	}

	resolved := DefaultClientConfig()
	if cfg.Address != "" {
		resolved.Address = cfg.Address
	}
	if cfg.RequestType != "" {
		resolved.RequestType = cfg.RequestType
	}
	if cfg.Method != "" {
		resolved.Method = cfg.Method
	}
	if cfg.ContentType != 0 {
		resolved.ContentType = cfg.ContentType
	}
	resolved.Port = cfg.Port
	resolved.Secure = cfg.Secure

	for _, opt := range opts {
		if err := opt(&resolved); err != nil {
			return nil, err
		}
	}
	resolved.Port = ResolvePort(resolved.Port, resolved.Secure)

	return &Client{
		transport: t,
		cfg:       resolved,
	}, nil
}

// Config returns the resolved configuration.
func (c *Client) Config() ClientConfig {
	return c.cfg
}

// Request validates the request, builds its URL and makes exactly one
// transport call. The response is returned as is.
func (c *Client) Request(ctx context.Context, uri, method string, payload []byte) (Response, error) {
	if method == "" {
		method = c.cfg.Method
	}
	method, err := ValidateMethod(method, RoleClient)
	if err != nil {
		return Response{}, err
	}
	if err := ValidateRequestType(c.cfg.RequestType); err != nil {
		return Response{}, err
	}
	if err := ValidateAddress(c.cfg.Address); err != nil {
		return Response{}, err
	}
	if err := ValidatePort(c.cfg.Port); err != nil {
		return Response{}, err
	}
	if err := ValidatePath(uri); err != nil {
		return Response{}, err
	}

	req := Request{
		Method:      method,
		URL:         BuildURL(c.cfg.Address, c.cfg.Port, uri, c.cfg.Secure),
		Type:        c.cfg.RequestType,
		ContentType: c.cfg.ContentType,
		Payload:     payload,
	}

	res, err := c.transport.Do(ctx, req)
	if err != nil {
		return Response{}, errors.Wrap(ErrTransport, err)
	}

	return res, nil
}
