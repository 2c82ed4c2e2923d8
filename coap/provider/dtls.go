// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package provider

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/absmach/coapnode/pkg/errors"
	piondtls "github.com/pion/dtls/v2"
)

const handshakeTimeout = 5 * time.Second

var (
	// ErrMissingPSK indicates a secure endpoint configured without a pre-shared key.
	ErrMissingPSK = errors.New("missing pre-shared key")

	errUnknownIdentity = errors.New("unknown PSK identity")
)

var cipherSuites = []piondtls.CipherSuiteID{
	piondtls.TLS_PSK_WITH_AES_128_CCM_8,
	piondtls.TLS_PSK_WITH_AES_128_GCM_SHA256,
}

// PSK is the pre-shared key credential of CoAPS endpoints.
type PSK struct {
	Identity string `env:"IDENTITY" envDefault:"coap-node" toml:"identity"`
	Key      string `env:"KEY"      envDefault:""          toml:"key"`
}

func (p PSK) validate() error {
	if p.Key == "" {
		return ErrMissingPSK
	}

	return nil
}

// clientConfig presents the identity and answers with the key.
func clientConfig(p PSK) *piondtls.Config {
	key := []byte(p.Key)
	return &piondtls.Config{
		PSK: func([]byte) ([]byte, error) {
			return key, nil
		},
		PSKIdentityHint:     []byte(p.Identity),
		CipherSuites:        cipherSuites,
		ConnectContextMaker: connectContext,
	}
}

// serverConfig accepts only peers presenting the configured identity.
func serverConfig(p PSK) *piondtls.Config {
	identity, key := []byte(p.Identity), []byte(p.Key)
	return &piondtls.Config{
		PSK: func(hint []byte) ([]byte, error) {
			if subtle.ConstantTimeCompare(hint, identity) != 1 {
				return nil, errUnknownIdentity
			}
			return key, nil
		},
		PSKIdentityHint:     identity,
		CipherSuites:        cipherSuites,
		ConnectContextMaker: connectContext,
	}
}

func connectContext() (context.Context, func()) {
	return context.WithTimeout(context.Background(), handshakeTimeout)
}
