// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package sensor

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/absmach/coapnode/coap"
)

var _ coap.DataSource = (*Simulated)(nil)

// Simulated produces a sine wave around Base, one sample per read. The same
// sequence of reads always yields the same values.
type Simulated struct {
	meaning   string
	unit      string
	base      float64
	amplitude float64
	samples   int

	mu  sync.Mutex
	n   int
	now func() time.Time
}

// NewSimulated returns a source completing one wave period every samples
// reads. Non-positive samples produce a constant Base.
func NewSimulated(meaning, unit string, base, amplitude float64, samples int) *Simulated {
	return &Simulated{
		meaning:   meaning,
		unit:      unit,
		base:      base,
		amplitude: amplitude,
		samples:   samples,
		now:       time.Now,
	}
}

func (s *Simulated) Read(ctx context.Context) (coap.Reading, error) {
	if err := ctx.Err(); err != nil {
		return coap.Reading{}, err
	}

	s.mu.Lock()
	n := s.n
	s.n++
	s.mu.Unlock()

	value := s.base
	if s.samples > 0 {
		phase := 2 * math.Pi * float64(n%s.samples) / float64(s.samples)
		value += s.amplitude * math.Sin(phase)
	}

	return coap.Reading{
		Meaning: s.meaning,
		Value:   math.Round(value*1000) / 1000,
		Unit:    s.unit,
		Time:    s.now(),
	}, nil
}
