// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import "github.com/absmach/coapnode/coap"

// Keep transport handle in global var
var transport coap.Transport

// SetTransport sets the transport requests are sent with.
func SetTransport(t coap.Transport) {
	transport = t
}
