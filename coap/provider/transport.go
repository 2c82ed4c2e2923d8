// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package provider implements the CoAP network exchange on top of go-coap.
package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/absmach/coapnode/coap"
	"github.com/absmach/coapnode/pkg/errors"
	"github.com/plgd-dev/go-coap/v2/dtls"
	"github.com/plgd-dev/go-coap/v2/message"
	"github.com/plgd-dev/go-coap/v2/udp"
	"github.com/plgd-dev/go-coap/v2/udp/client"
	udpMessage "github.com/plgd-dev/go-coap/v2/udp/message"
	"github.com/plgd-dev/go-coap/v2/udp/message/pool"
)

var (
	errUnsupportedScheme = errors.New("unsupported URL scheme")
	errUnsupportedMethod = errors.New("unsupported method")
)

var (
	_ coap.Transport = (*transport)(nil)
	_ requestFactory = (*client.ClientConn)(nil)
)

// requestFactory builds requests from the message pool of a connection.
type requestFactory interface {
	NewGetRequest(ctx context.Context, path string, opts ...message.Option) (*pool.Message, error)
	NewDeleteRequest(ctx context.Context, path string, opts ...message.Option) (*pool.Message, error)
	NewPostRequest(ctx context.Context, path string, contentFormat message.MediaType, payload io.ReadSeeker, opts ...message.Option) (*pool.Message, error)
	NewPutRequest(ctx context.Context, path string, contentFormat message.MediaType, payload io.ReadSeeker, opts ...message.Option) (*pool.Message, error)
	ReleaseMessage(m *pool.Message)
}

type transport struct {
	psk PSK
}

// NewTransport returns a Transport dialing a new connection per request.
// The PSK is used for coaps URLs only.
func NewTransport(psk PSK) coap.Transport {
	return &transport{psk: psk}
}

func (t *transport) Do(ctx context.Context, req coap.Request) (coap.Response, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return coap.Response{}, err
	}

	cc, err := t.dial(u)
	if err != nil {
		return coap.Response{}, err
	}
	defer cc.Close()

	msg, err := newRequest(ctx, cc, req, u)
	if err != nil {
		return coap.Response{}, err
	}
	defer cc.ReleaseMessage(msg)

	resp, err := cc.Do(msg)
	if err != nil {
		return coap.Response{}, err
	}
	defer cc.ReleaseMessage(resp)

	return decodeResponse(resp)
}

func (t *transport) dial(u *url.URL) (*client.ClientConn, error) {
	switch u.Scheme {
	case "coap":
		return udp.Dial(u.Host)
	case "coaps":
		if err := t.psk.validate(); err != nil {
			return nil, err
		}
		return dtls.Dial(u.Host, clientConfig(t.psk))
	default:
		return nil, errors.Wrap(errUnsupportedScheme, fmt.Errorf("scheme %q", u.Scheme))
	}
}

func newRequest(ctx context.Context, rf requestFactory, req coap.Request, u *url.URL) (*pool.Message, error) {
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	opts := queryOptions(u.RawQuery)

	var (
		msg *pool.Message
		err error
	)
	switch req.Method {
	case "GET":
		msg, err = rf.NewGetRequest(ctx, path, opts...)
	case "DELETE":
		msg, err = rf.NewDeleteRequest(ctx, path, opts...)
	case "POST":
		msg, err = rf.NewPostRequest(ctx, path, message.MediaType(req.ContentType), body(req.Payload), opts...)
	case "PUT":
		msg, err = rf.NewPutRequest(ctx, path, message.MediaType(req.ContentType), body(req.Payload), opts...)
	default:
		return nil, errors.Wrap(errUnsupportedMethod, fmt.Errorf("method %q", req.Method))
	}
	if err != nil {
		return nil, err
	}

	if req.Type == coap.NonConfirmable {
		msg.SetType(udpMessage.NonConfirmable)
	}

	return msg, nil
}

func decodeResponse(resp *pool.Message) (coap.Response, error) {
	payload, err := resp.ReadBody()
	if err != nil {
		return coap.Response{}, err
	}

	ct := coap.Text
	if mt, err := resp.ContentFormat(); err == nil {
		ct = coap.ContentType(mt)
	}

	return newResponse(int(resp.Code()), ct, payload), nil
}

func newResponse(code int, ct coap.ContentType, payload []byte) coap.Response {
	return coap.Response{
		StatusCode:  code,
		Status:      errors.StatusText(code),
		ContentType: ct,
		Payload:     payload,
	}
}

// queryOptions splits a raw query into URI-Query options.
func queryOptions(raw string) message.Options {
	var opts message.Options
	for _, q := range strings.Split(raw, "&") {
		if q == "" {
			continue
		}
		opts = append(opts, message.Option{ID: message.URIQuery, Value: []byte(q)})
	}

	return opts
}

// body returns nil for empty payloads so no content format is sent.
func body(payload []byte) io.ReadSeeker {
	if len(payload) == 0 {
		return nil
	}

	return bytes.NewReader(payload)
}
