// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package coap

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/absmach/coapnode/pkg/errors"
)

const (
	minPort = 1
	maxPort = 65535
)

var (
	// Shape only, octets above 255 pass.
	dottedQuad = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}$`)
	hostname   = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

	clientMethods = []string{"GET", "POST", "PUT", "DELETE"}
	serverMethods = []string{"GET", "POST"}
)

// ValidateRequestType checks that t is Confirmable or NonConfirmable.
func ValidateRequestType(t RequestType) error {
	switch t {
	case Confirmable, NonConfirmable:
		return nil
	default:
		return errors.Wrap(ErrInvalidRequestType, fmt.Errorf("request type %q not in [%s %s]", t, Confirmable, NonConfirmable))
	}
}

// ValidateMethod checks method against the whitelist of role and returns its
// upper case form.
func ValidateMethod(method string, role Role) (string, error) {
	allowed := clientMethods
	if role == RoleServer {
		allowed = serverMethods
	}

	m := strings.ToUpper(method)
	for _, a := range allowed {
		if m == a {
			return m, nil
		}
	}

	return "", errors.Wrap(ErrInvalidMethod, fmt.Errorf("method %q not in %v for %s", method, allowed, role))
}

// ValidateAddress accepts a dotted quad or a hostname. Octet ranges are not
// checked and nothing is resolved.
func ValidateAddress(address string) error {
	if dottedQuad.MatchString(address) || hostname.MatchString(address) {
		return nil
	}

	return errors.Wrap(ErrInvalidAddress, fmt.Errorf("address %q is neither a dotted quad nor a hostname of [A-Za-z0-9._-]", address))
}

// ValidatePort checks that port is in [1, 65535].
func ValidatePort(port int) error {
	if port < minPort || port > maxPort {
		return errors.Wrap(ErrInvalidPort, fmt.Errorf("port %d not in [%d, %d]", port, minPort, maxPort))
	}

	return nil
}

// ParsePort parses and validates port text.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Wrap(ErrInvalidPort, fmt.Errorf("port %q is not a number in [%d, %d]", s, minPort, maxPort))
	}
	if err := ValidatePort(port); err != nil {
		return 0, err
	}

	return port, nil
}

// ValidatePath checks that a resource path is empty or starts with a slash.
func ValidatePath(path string) error {
	if path == "" || strings.HasPrefix(path, "/") {
		return nil
	}

	return errors.Wrap(ErrInvalidPath, fmt.Errorf("path %q must start with /", path))
}

// ValidateContentType checks that ct is a known content format.
func ValidateContentType(ct ContentType) error {
	if _, ok := contentTypes[ct]; ok {
		return nil
	}

	return errors.Wrap(ErrInvalidContentType, fmt.Errorf("content format %d is not supported", uint16(ct)))
}
