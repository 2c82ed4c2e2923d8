// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package sensor_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/absmach/coapnode/pkg/errors"
	"github.com/absmach/coapnode/sensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const deviceID = "28-00000a1b2c3d"

func writeSample(t *testing.T, data string) string {
	dir := t.TempDir()
	require.Nil(t, os.MkdirAll(filepath.Join(dir, deviceID), 0o755))
	require.Nil(t, os.WriteFile(filepath.Join(dir, deviceID, "w1_slave"), []byte(data), 0o644))

	return dir
}

func TestNew(t *testing.T) {
	cases := []struct {
		desc string
		cfg  sensor.Config
		err  error
	}{
		{desc: "simulated", cfg: sensor.Config{Kind: sensor.KindSimulated, Samples: 4}},
		{desc: "w1therm", cfg: sensor.Config{Kind: sensor.KindW1Therm, DeviceID: deviceID, BaseDir: "/sys/bus/w1/devices"}},
		{desc: "w1therm without device", cfg: sensor.Config{Kind: sensor.KindW1Therm}, err: sensor.ErrMissingDevice},
		{desc: "unknown kind", cfg: sensor.Config{Kind: "dht22"}, err: sensor.ErrUnknownKind},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			src, err := sensor.New(tc.cfg)
			assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("expected error %s, got %s", tc.err, err))
			if tc.err == nil {
				assert.NotNil(t, src)
			}
		})
	}
}

func TestSimulated(t *testing.T) {
	src := sensor.NewSimulated("temperature", "Cel", 20, 5, 4)
	expected := []float64{20, 25, 20, 15, 20, 25}

	for i, want := range expected {
		r, err := src.Read(context.Background())
		require.Nil(t, err, fmt.Sprintf("read %d: unexpected error: %s", i, err))
		assert.Equal(t, want, r.Value, fmt.Sprintf("read %d", i))
		assert.Equal(t, "temperature", r.Meaning)
		assert.Equal(t, "Cel", r.Unit)
		assert.False(t, r.Time.IsZero())
	}
}

func TestSimulatedConstant(t *testing.T) {
	src := sensor.NewSimulated("humidity", "%RH", 40, 10, 0)
	for i := 0; i < 3; i++ {
		r, err := src.Read(context.Background())
		require.Nil(t, err)
		assert.Equal(t, float64(40), r.Value)
	}
}

func TestSimulatedCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sensor.NewSimulated("temperature", "Cel", 20, 5, 4).Read(ctx)
	assert.Equal(t, context.Canceled, err)
}

func TestW1Therm(t *testing.T) {
	cases := []struct {
		desc  string
		data  string
		value float64
		err   error
	}{
		{
			desc:  "valid sample",
			data:  "72 01 4b 46 7f ff 0e 10 57 : crc=57 YES\n72 01 4b 46 7f ff 0e 10 57 t=23125\n",
			value: 23.125,
		},
		{
			desc:  "negative temperature",
			data:  "5e ff 4b 46 7f ff 0c 10 1c : crc=1c YES\n5e ff 4b 46 7f ff 0c 10 1c t=-10125\n",
			value: -10.125,
		},
		{
			desc: "failed CRC",
			data: "72 01 4b 46 7f ff 0e 10 57 : crc=00 NO\n72 01 4b 46 7f ff 0e 10 57 t=23125\n",
			err:  sensor.ErrCRC,
		},
		{
			desc: "single line",
			data: "72 01 4b 46 7f ff 0e 10 57 : crc=57 YES\n",
			err:  sensor.ErrMalformedSample,
		},
		{
			desc: "missing temperature",
			data: "72 01 4b 46 7f ff 0e 10 57 : crc=57 YES\n72 01 4b 46 7f ff 0e 10 57\n",
			err:  sensor.ErrMalformedSample,
		},
		{
			desc: "non-numeric temperature",
			data: "72 01 4b 46 7f ff 0e 10 57 : crc=57 YES\n72 01 4b 46 7f ff 0e 10 57 t=abc\n",
			err:  sensor.ErrMalformedSample,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			src := sensor.NewW1Therm(writeSample(t, tc.data), deviceID)
			r, err := src.Read(context.Background())
			assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("expected error %s, got %s", tc.err, err))
			if tc.err != nil {
				return
			}
			assert.Equal(t, tc.value, r.Value)
			assert.Equal(t, "temperature", r.Meaning)
			assert.Equal(t, "Cel", r.Unit)
		})
	}
}

func TestW1ThermMissingDevice(t *testing.T) {
	src := sensor.NewW1Therm(t.TempDir(), deviceID)
	_, err := src.Read(context.Background())
	assert.True(t, os.IsNotExist(err), fmt.Sprintf("expected not exist error, got %s", err))
}
