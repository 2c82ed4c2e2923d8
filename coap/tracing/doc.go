// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package tracing provides tracing instrumentation for the CoAP node.
//
// Client requests and variable publishing are wrapped in OpenTelemetry spans
// carrying the request method, URI and payload size.
package tracing
