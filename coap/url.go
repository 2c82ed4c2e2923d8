// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package coap

import "fmt"

// BuildURL composes a request URL from already validated parts. An empty
// path addresses the root resource.
func BuildURL(address string, port int, path string, secure bool) string {
	scheme := schemeCoAP
	if secure {
		scheme = schemeCoAPS
	}
	if path == "" {
		path = "/"
	}

	return fmt.Sprintf("%s://%s:%d%s", scheme, address, port, path)
}
