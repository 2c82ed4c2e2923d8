// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package sensor contains the data sources a node publishes readings from.
package sensor

import (
	"fmt"

	"github.com/absmach/coapnode/coap"
	"github.com/absmach/coapnode/pkg/errors"
)

const (
	// KindSimulated selects the Simulated source.
	KindSimulated = "simulated"

	// KindW1Therm selects the W1Therm source.
	KindW1Therm = "w1therm"
)

var (
	// ErrUnknownKind indicates an unsupported sensor kind.
	ErrUnknownKind = errors.New("unknown sensor kind")

	// ErrMissingDevice indicates a hardware sensor configured without a device id.
	ErrMissingDevice = errors.New("missing sensor device id")
)

// Config selects and configures a data source.
type Config struct {
	Kind      string  `env:"KIND"      envDefault:"simulated"           toml:"kind"`
	DeviceID  string  `env:"DEVICE_ID" envDefault:""                    toml:"device_id"`
	BaseDir   string  `env:"BASE_DIR"  envDefault:"/sys/bus/w1/devices" toml:"base_dir"`
	Meaning   string  `env:"MEANING"   envDefault:"temperature"         toml:"meaning"`
	Unit      string  `env:"UNIT"      envDefault:"Cel"                 toml:"unit"`
	Base      float64 `env:"BASE"      envDefault:"20"                  toml:"base"`
	Amplitude float64 `env:"AMPLITUDE" envDefault:"5"                   toml:"amplitude"`
	Samples   int     `env:"SAMPLES"   envDefault:"60"                  toml:"samples"`
}

// New returns the data source selected by cfg.Kind.
func New(cfg Config) (coap.DataSource, error) {
	switch cfg.Kind {
	case KindSimulated:
		return NewSimulated(cfg.Meaning, cfg.Unit, cfg.Base, cfg.Amplitude, cfg.Samples), nil
	case KindW1Therm:
		if cfg.DeviceID == "" {
			return nil, ErrMissingDevice
		}
		return NewW1Therm(cfg.BaseDir, cfg.DeviceID), nil
	default:
		return nil, errors.Wrap(ErrUnknownKind, fmt.Errorf("kind %q not in [%s %s]", cfg.Kind, KindSimulated, KindW1Therm))
	}
}
