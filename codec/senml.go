// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"math"
	"time"

	"github.com/absmach/coapnode/coap"
	"github.com/absmach/coapnode/pkg/errors"
	"github.com/mainflux/senml"
)

var (
	_ coap.Encoder = (*senmlEncoder)(nil)

	errNoRecords = errors.New("pack holds no numeric record")
)

var formats = map[coap.ContentType]senml.Format{
	coap.SenMLJSON: senml.JSON,
	coap.SenMLCBOR: senml.CBOR,
}

type senmlEncoder struct {
	ct       coap.ContentType
	format   senml.Format
	baseName string
}

// NewSenML returns an encoder producing single record SenML packs in JSON or
// CBOR form.
func NewSenML(ct coap.ContentType, baseName string) (coap.Encoder, error) {
	format, ok := formats[ct]
	if !ok {
		return nil, errors.Wrap(coap.ErrInvalidContentType, fmt.Errorf("%s is not a SenML content type", ct))
	}

	return senmlEncoder{
		ct:       ct,
		format:   format,
		baseName: baseName,
	}, nil
}

func (se senmlEncoder) Encode(r coap.Reading) ([]byte, error) {
	value := r.Value
	rec := senml.Record{
		BaseName: se.baseName,
		Name:     r.Meaning,
		Unit:     r.Unit,
		Value:    &value,
	}
	if !r.Time.IsZero() {
		rec.Time = float64(r.Time.UnixNano()) / float64(time.Second)
	}

	b, err := senml.Encode(senml.Pack{Records: []senml.Record{rec}}, se.format)
	if err != nil {
		return nil, errors.Wrap(ErrEncode, err)
	}

	return b, nil
}

func (se senmlEncoder) ContentType() coap.ContentType {
	return se.ct
}

// DecodeSenML returns the first numeric record of a SenML pack. The base name
// of the pack is stripped from the record name.
func DecodeSenML(ct coap.ContentType, payload []byte) (coap.Reading, error) {
	format, ok := formats[ct]
	if !ok {
		return coap.Reading{}, errors.Wrap(coap.ErrInvalidContentType, fmt.Errorf("%s is not a SenML content type", ct))
	}

	pack, err := senml.Decode(payload, format)
	if err != nil {
		return coap.Reading{}, errors.Wrap(ErrDecode, err)
	}

	for _, rec := range pack.Records {
		if rec.Value == nil {
			continue
		}
		r := coap.Reading{
			Meaning: rec.Name,
			Value:   *rec.Value,
			Unit:    rec.Unit,
		}
		if rec.Time != 0 {
			sec, frac := math.Modf(rec.Time)
			r.Time = time.Unix(int64(sec), int64(math.Round(frac*1e9))).UTC()
		}
		return r, nil
	}

	return coap.Reading{}, errors.Wrap(ErrDecode, errNoRecords)
}
