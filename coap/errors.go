// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package coap

import "github.com/absmach/coapnode/pkg/errors"

var (
	// ErrInvalidAddress indicates an address that is neither a dotted quad nor a hostname.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidPort indicates a port outside of [1, 65535] or a non-numeric port.
	ErrInvalidPort = errors.New("invalid port")

	// ErrInvalidMethod indicates a method not allowed for the role.
	ErrInvalidMethod = errors.New("invalid method")

	// ErrInvalidRequestType indicates a request type other than confirmable or non-confirmable.
	ErrInvalidRequestType = errors.New("invalid request type")

	// ErrInvalidPath indicates a resource path without a leading slash.
	ErrInvalidPath = errors.New("invalid resource path")

	// ErrInvalidContentType indicates an unsupported content format.
	ErrInvalidContentType = errors.New("invalid content type")

	// ErrBind indicates that the server listener could not be bound.
	ErrBind = errors.New("failed to bind server")

	// ErrTransport indicates a failure reported by the transport provider.
	ErrTransport = errors.New("transport error")

	// ErrDataSource indicates a failed data source read.
	ErrDataSource = errors.New("failed to read data source")

	// ErrMissingTransport indicates that no transport provider was supplied.
	ErrMissingTransport = errors.New("missing transport provider")

	// ErrMissingCollaborator indicates that a scheduler, encoder, data source or publish target was not supplied.
	ErrMissingCollaborator = errors.New("missing collaborator")

	// ErrServerClosed indicates a publish on a server that is not live.
	ErrServerClosed = errors.New("server closed")

	// ErrPublisherArmed indicates a start of an already running publisher.
	ErrPublisherArmed = errors.New("publisher already armed")

	// ErrInvalidPeriod indicates a non-positive publish period.
	ErrInvalidPeriod = errors.New("invalid publish period")

	// ErrEncoding indicates a reading that could not be serialized.
	ErrEncoding = errors.New("failed to encode reading")

	// ErrUplink indicates a remote endpoint that rejected an uplinked payload.
	ErrUplink = errors.New("uplink rejected")
)
