// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package sensor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/absmach/coapnode/coap"
	"github.com/absmach/coapnode/pkg/errors"
)

const (
	w1SlaveFile = "w1_slave"
	tempPrefix  = "t="
)

var (
	// ErrCRC indicates a sample the bus master rejected.
	ErrCRC = errors.New("sensor CRC check failed")

	// ErrMalformedSample indicates an unreadable sensor sample.
	ErrMalformedSample = errors.New("malformed sensor sample")
)

var _ coap.DataSource = (*W1Therm)(nil)

// W1Therm reads a DS18B20 thermometer through the Linux w1_therm driver.
type W1Therm struct {
	path string
	now  func() time.Time
}

// NewW1Therm returns a reader of device id under the w1 devices directory.
func NewW1Therm(baseDir, id string) *W1Therm {
	return &W1Therm{
		path: filepath.Join(baseDir, id, w1SlaveFile),
		now:  time.Now,
	}
}

func (w *W1Therm) Read(ctx context.Context) (coap.Reading, error) {
	if err := ctx.Err(); err != nil {
		return coap.Reading{}, err
	}

	data, err := os.ReadFile(w.path)
	if err != nil {
		return coap.Reading{}, err
	}

	value, err := parseW1Slave(string(data))
	if err != nil {
		return coap.Reading{}, err
	}

	return coap.Reading{
		Meaning: "temperature",
		Value:   value,
		Unit:    "Cel",
		Time:    w.now(),
	}, nil
}

// parseW1Slave returns the temperature in degrees Celsius from the two line
// driver output, the first ending with the CRC verdict and the second with
// the temperature in millidegrees.
func parseW1Slave(data string) (float64, error) {
	lines := strings.Split(strings.TrimSpace(data), "\n")
	if len(lines) < 2 {
		return 0, errors.Wrap(ErrMalformedSample, fmt.Errorf("expected 2 lines, got %d", len(lines)))
	}
	if !strings.HasSuffix(strings.TrimSpace(lines[0]), "YES") {
		return 0, ErrCRC
	}

	i := strings.LastIndex(lines[1], tempPrefix)
	if i < 0 {
		return 0, errors.Wrap(ErrMalformedSample, fmt.Errorf("no %q field", tempPrefix))
	}
	milli, err := strconv.Atoi(strings.TrimSpace(lines[1][i+len(tempPrefix):]))
	if err != nil {
		return 0, errors.Wrap(ErrMalformedSample, err)
	}

	return float64(milli) / 1000, nil
}
