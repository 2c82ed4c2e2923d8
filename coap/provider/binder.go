// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/absmach/coapnode/coap"
	"github.com/absmach/coapnode/coap/api"
	"github.com/plgd-dev/go-coap/v2/dtls"
	"github.com/plgd-dev/go-coap/v2/mux"
	coapnet "github.com/plgd-dev/go-coap/v2/net"
	"github.com/plgd-dev/go-coap/v2/udp"
)

const network = "udp"

var _ coap.Binder = (*binder)(nil)

type binder struct {
	psk    PSK
	logger *slog.Logger
}

// NewBinder returns a Binder serving CoAP over UDP, or CoAPS over DTLS with
// the given PSK.
func NewBinder(psk PSK, logger *slog.Logger) coap.Binder {
	return &binder{psk: psk, logger: logger}
}

func (b *binder) Bind(_ context.Context, port int, secure bool, h coap.Handler) (coap.Listener, error) {
	addr := fmt.Sprintf(":%d", port)
	router := mux.NewRouter()
	router.DefaultHandle(api.MakeCoAPHandler(h, b.logger))
	logErr := func(err error) {
		b.logger.Warn(fmt.Sprintf("CoAP server error: %s", err))
	}

	if secure {
		if err := b.psk.validate(); err != nil {
			return nil, err
		}
		l, err := coapnet.NewDTLSListener(network, addr, serverConfig(b.psk))
		if err != nil {
			return nil, err
		}
		s := dtls.NewServer(dtls.WithMux(router), dtls.WithErrors(logErr))
		return b.serve(addr, "CoAPS", func() error { return s.Serve(l) }, s.Stop, l.Close), nil
	}

	l, err := coapnet.NewListenUDP(network, addr)
	if err != nil {
		return nil, err
	}
	s := udp.NewServer(udp.WithMux(router), udp.WithErrors(logErr))
	return b.serve(addr, "CoAP", func() error { return s.Serve(l) }, s.Stop, l.Close), nil
}

func (b *binder) serve(addr, proto string, serve func() error, stop func(), closeConn func() error) *listener {
	l := &listener{stop: stop, closeConn: closeConn, done: make(chan struct{})}
	b.logger.Info(fmt.Sprintf("%s server listening at %s", proto, addr))
	go func() {
		defer close(l.done)
		if err := serve(); err != nil && !l.closing() {
			b.logger.Error(fmt.Sprintf("%s server at %s terminated: %s", proto, addr, err))
		}
	}()

	return l
}

type listener struct {
	mu        sync.Mutex
	closed    bool
	stop      func()
	closeConn func() error
	done      chan struct{}
}

func (l *listener) closing() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// Close stops the server and waits for its serve loop to return.
func (l *listener) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	l.stop()
	err := l.closeConn()
	<-l.done

	return err
}
