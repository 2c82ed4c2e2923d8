// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package coap contains the CoAP node: validated client requests, a server
// exposing a single published variable and the periodic publisher feeding it
// from a data source. Network exchange, timers, sensors and encoding are
// consumed through the interfaces declared in this package.
package coap

import (
	"fmt"
	"strings"
	"time"

	"github.com/absmach/coapnode/pkg/errors"
)

const (
	// DefaultPort is the CoAP port.
	DefaultPort = 5683

	// DefaultSecurePort is the CoAPS port.
	DefaultSecurePort = 5684

	// DefaultAddress is the address requests go to when none is configured.
	DefaultAddress = "127.0.0.1"

	// DefaultVariable is the name of the published variable.
	DefaultVariable = "reading"

	schemeCoAP  = "coap"
	schemeCoAPS = "coaps"
)

// RequestType is the reliability class of a CoAP request.
type RequestType string

const (
	Confirmable    RequestType = "CONFIRMABLE"
	NonConfirmable RequestType = "NON_CONFIRMABLE"
)

// ParseRequestType parses text configuration of a request type. The short
// forms CON and NON are accepted.
func ParseRequestType(s string) (RequestType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(Confirmable), "CON":
		return Confirmable, nil
	case string(NonConfirmable), "NON":
		return NonConfirmable, nil
	default:
		return "", errors.Wrap(ErrInvalidRequestType, fmt.Errorf("request type %q not in [%s %s]", s, Confirmable, NonConfirmable))
	}
}

// Role selects the method whitelist a method is checked against.
type Role uint8

const (
	RoleClient Role = iota
	RoleServer
)

func (r Role) String() string {
	switch r {
	case RoleClient:
		return "client"
	case RoleServer:
		return "server"
	default:
		return "unknown"
	}
}

// ContentType is a CoAP content format number.
type ContentType uint16

const (
	Text       ContentType = 0
	LinkFormat ContentType = 40
	Octets     ContentType = 42
	JSON       ContentType = 50
	CBOR       ContentType = 60
	SenMLJSON  ContentType = 110
	SenMLCBOR  ContentType = 112
)

var contentTypes = map[ContentType]string{
	Text:       "text/plain",
	LinkFormat: "application/link-format",
	Octets:     "application/octet-stream",
	JSON:       "application/json",
	CBOR:       "application/cbor",
	SenMLJSON:  "application/senml+json",
	SenMLCBOR:  "application/senml+cbor",
}

func (ct ContentType) String() string {
	if s, ok := contentTypes[ct]; ok {
		return s
	}
	return fmt.Sprintf("content-format(%d)", uint16(ct))
}

// ParseContentType parses a media type or one of the short names text, json,
// cbor, octets, senml+json and senml+cbor.
func ParseContentType(s string) (ContentType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for ct, media := range contentTypes {
		if name == media || "application/"+name == media || (ct == Text && name == "text") {
			return ct, nil
		}
	}
	if name == "octets" {
		return Octets, nil
	}
	return 0, errors.Wrap(ErrInvalidContentType, fmt.Errorf("content type %q is not supported", s))
}

// ClientConfig holds the defaults of a Client. Zero fields are filled from
// DefaultClientConfig when the Client is created, so Text is chosen with
// WithContentType.
type ClientConfig struct {
	Address     string      `toml:"address"`
	Port        int         `toml:"port"`
	RequestType RequestType `toml:"request_type"`
	Secure      bool        `toml:"secure"`
	Method      string      `toml:"method"`
	ContentType ContentType `toml:"content_type"`
}

// DefaultClientConfig returns the client defaults. Port is left to be resolved
// from the security flag.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Address:     DefaultAddress,
		RequestType: Confirmable,
		Method:      "GET",
		ContentType: JSON,
	}
}

// ServerConfig holds the configuration of a Server. A zero ContentType is
// JSON, Text is chosen with WithServerContentType.
type ServerConfig struct {
	Port        int         `toml:"port"`
	Secure      bool        `toml:"secure"`
	ContentType ContentType `toml:"content_type"`
	Name        string      `toml:"name"`
}

// DefaultServerConfig returns the server defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		ContentType: JSON,
		Name:        DefaultVariable,
	}
}

// ResolvePort returns port, or the default port of the scheme when port is 0.
func ResolvePort(port int, secure bool) int {
	switch {
	case port != 0:
		return port
	case secure:
		return DefaultSecurePort
	default:
		return DefaultPort
	}
}

// Request is a single outgoing CoAP request.
type Request struct {
	Method      string
	URL         string
	Type        RequestType
	ContentType ContentType
	Payload     []byte
}

// Response is the answer of a remote endpoint, returned to callers as is.
type Response struct {
	StatusCode  int         `json:"status_code"`
	Status      string      `json:"status"`
	ContentType ContentType `json:"content_type"`
	Payload     []byte      `json:"payload,omitempty"`
}

// Reading is a single sample of a data source.
type Reading struct {
	Meaning string    `json:"meaning"`
	Value   float64   `json:"value"`
	Unit    string    `json:"unit,omitempty"`
	Time    time.Time `json:"time"`
}

// Variable is the value a Server exposes.
type Variable struct {
	Name        string      `json:"name"`
	ContentType ContentType `json:"content_type"`
	Value       []byte      `json:"value"`
	Updated     time.Time   `json:"updated"`
}
