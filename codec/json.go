// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"encoding/json"
	"time"

	"github.com/absmach/coapnode/coap"
	"github.com/absmach/coapnode/pkg/errors"
)

var _ coap.Encoder = (*jsonEncoder)(nil)

type jsonReading struct {
	Meaning string     `json:"meaning"`
	Value   float64    `json:"value"`
	Unit    string     `json:"unit,omitempty"`
	Time    *time.Time `json:"time,omitempty"`
}

type jsonEncoder struct{}

// NewJSON returns an encoder producing {"meaning": ..., "value": ...} objects.
func NewJSON() coap.Encoder {
	return jsonEncoder{}
}

func (jsonEncoder) Encode(r coap.Reading) ([]byte, error) {
	jr := jsonReading{
		Meaning: r.Meaning,
		Value:   r.Value,
		Unit:    r.Unit,
	}
	if !r.Time.IsZero() {
		t := r.Time.UTC()
		jr.Time = &t
	}

	b, err := json.Marshal(jr)
	if err != nil {
		return nil, errors.Wrap(ErrEncode, err)
	}

	return b, nil
}

func (jsonEncoder) ContentType() coap.ContentType {
	return coap.JSON
}

// DecodeJSON parses a payload produced by the JSON encoder.
func DecodeJSON(payload []byte) (coap.Reading, error) {
	var jr jsonReading
	if err := json.Unmarshal(payload, &jr); err != nil {
		return coap.Reading{}, errors.Wrap(ErrDecode, err)
	}

	r := coap.Reading{
		Meaning: jr.Meaning,
		Value:   jr.Value,
		Unit:    jr.Unit,
	}
	if jr.Time != nil {
		r.Time = jr.Time.UTC()
	}

	return r, nil
}
