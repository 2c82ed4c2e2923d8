// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Success class of CoAP response codes (2.xx).
const successClass = 2

// StatusError is an error carrying the CoAP response code of a remote endpoint.
type StatusError interface {
	Error
	StatusCode() int
}

var _ StatusError = (*statusError)(nil)

type statusError struct {
	*customError
	statusCode int
}

func (se *statusError) Error() string {
	if se == nil {
		return ""
	}
	if se.customError == nil || se.customError.msg == "" {
		return fmt.Sprintf("Status: %s", StatusText(se.statusCode))
	}
	return fmt.Sprintf("Status: %s: %s", StatusText(se.statusCode), se.customError.Error())
}

func (se *statusError) StatusCode() int {
	return se.statusCode
}

// NewStatusError returns a StatusError for the given CoAP response code.
func NewStatusError(err error, statusCode int) StatusError {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &statusError{
		statusCode: statusCode,
		customError: &customError{
			msg: msg,
			err: nil,
		},
	}
}

// CheckStatus matches a CoAP response code with the expected codes. When no
// expected codes are passed any 2.xx code is accepted. A printable payload of
// a failed response becomes the error message.
func CheckStatus(statusCode int, payload []byte, expectedStatusCodes ...int) StatusError {
	if len(expectedStatusCodes) == 0 && statusCode>>5 == successClass {
		return nil
	}
	for _, expected := range expectedStatusCodes {
		if statusCode == expected {
			return nil
		}
	}

	msg := ""
	if utf8.Valid(payload) {
		msg = strings.TrimSpace(string(payload))
	}

	return NewStatusError(New(msg), statusCode)
}

// StatusText formats a CoAP response code in its dotted "c.dd" form.
func StatusText(statusCode int) string {
	return fmt.Sprintf("%d.%02d", statusCode>>5, statusCode&0x1f)
}
