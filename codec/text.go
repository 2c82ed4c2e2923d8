// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/absmach/coapnode/coap"
	"github.com/absmach/coapnode/pkg/errors"
)

var _ coap.Encoder = (*textEncoder)(nil)

var errMalformedText = errors.New("expected meaning=value [unit]")

type textEncoder struct{}

// NewText returns an encoder producing "meaning=value [unit]" lines.
func NewText() coap.Encoder {
	return textEncoder{}
}

func (textEncoder) Encode(r coap.Reading) ([]byte, error) {
	if r.Meaning == "" || strings.ContainsAny(r.Meaning, "= \n") {
		return nil, errors.Wrap(ErrEncode, fmt.Errorf("meaning %q is not a single word", r.Meaning))
	}

	s := r.Meaning + "=" + strconv.FormatFloat(r.Value, 'g', -1, 64)
	if r.Unit != "" {
		s += " " + r.Unit
	}

	return []byte(s), nil
}

func (textEncoder) ContentType() coap.ContentType {
	return coap.Text
}

// DecodeText parses a payload produced by the text encoder.
func DecodeText(payload []byte) (coap.Reading, error) {
	meaning, rest, ok := strings.Cut(strings.TrimSpace(string(payload)), "=")
	if !ok || meaning == "" {
		return coap.Reading{}, errors.Wrap(ErrDecode, errMalformedText)
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 || len(fields) > 2 {
		return coap.Reading{}, errors.Wrap(ErrDecode, errMalformedText)
	}
	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return coap.Reading{}, errors.Wrap(ErrDecode, err)
	}

	r := coap.Reading{Meaning: meaning, Value: value}
	if len(fields) == 2 {
		r.Unit = fields[1]
	}

	return r, nil
}
