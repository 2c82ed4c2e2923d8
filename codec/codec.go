// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package codec serializes readings into the payloads published by the node.
package codec

import (
	"fmt"

	"github.com/absmach/coapnode/coap"
	"github.com/absmach/coapnode/pkg/errors"
)

var (
	// ErrEncode indicates a reading that could not be serialized.
	ErrEncode = errors.New("failed to encode reading")

	// ErrDecode indicates a payload that does not hold a reading.
	ErrDecode = errors.New("failed to decode reading")
)

// New returns the encoder producing payloads of content type ct. The base
// name prefixes record names of SenML payloads and is ignored otherwise.
func New(ct coap.ContentType, baseName string) (coap.Encoder, error) {
	switch ct {
	case coap.JSON:
		return NewJSON(), nil
	case coap.Text:
		return NewText(), nil
	case coap.SenMLJSON, coap.SenMLCBOR:
		return NewSenML(ct, baseName)
	default:
		return nil, errors.Wrap(coap.ErrInvalidContentType, fmt.Errorf("no encoder for %s", ct))
	}
}

// Decode parses a payload of content type ct back into a reading.
func Decode(ct coap.ContentType, payload []byte) (coap.Reading, error) {
	switch ct {
	case coap.JSON:
		return DecodeJSON(payload)
	case coap.Text:
		return DecodeText(payload)
	case coap.SenMLJSON, coap.SenMLCBOR:
		return DecodeSenML(ct, payload)
	default:
		return coap.Reading{}, errors.Wrap(coap.ErrInvalidContentType, fmt.Errorf("no decoder for %s", ct))
	}
}
