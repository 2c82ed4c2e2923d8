// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package main contains coap-node main function to start the CoAP node.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/absmach/coapnode/coap"
	"github.com/absmach/coapnode/coap/api"
	"github.com/absmach/coapnode/coap/middleware"
	"github.com/absmach/coapnode/coap/provider"
	"github.com/absmach/coapnode/coap/tracing"
	"github.com/absmach/coapnode/codec"
	"github.com/absmach/coapnode/config"
	jaegerclient "github.com/absmach/coapnode/internal/clients/jaeger"
	"github.com/absmach/coapnode/internal/env"
	"github.com/absmach/coapnode/internal/server"
	httpserver "github.com/absmach/coapnode/internal/server/http"
	mglog "github.com/absmach/coapnode/logger"
	"github.com/absmach/coapnode/pkg/prometheus"
	"github.com/absmach/coapnode/pkg/ticker"
	"github.com/absmach/coapnode/pkg/uuid"
	"github.com/absmach/coapnode/sensor"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	svcName        = "coap-node"
	metricsNS      = "coap_node"
	envPrefixHTTP  = "NODE_HTTP_"
	defSvcHTTPPort = "9050"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load %s configuration : %s", svcName, err)
	}

	logger, err := mglog.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %s", err)
	}

	var exitCode int
	defer mglog.ExitWithError(&exitCode)

	if cfg.InstanceID == "" {
		if cfg.InstanceID, err = uuid.New().ID(); err != nil {
			logger.Error(fmt.Sprintf("failed to generate instanceID: %s", err))
			exitCode = 1
			return
		}
	}

	httpServerConfig := server.Config{Port: defSvcHTTPPort}
	if err := env.Parse(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err))
		exitCode = 1
		return
	}

	tp, err := jaegerclient.NewProvider(ctx, svcName, cfg.JaegerURL, cfg.InstanceID, cfg.TraceRatio)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to init Jaeger: %s", err))
		exitCode = 1
		return
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Error(fmt.Sprintf("error shutting down tracer provider: %s", err))
		}
	}()
	tracer := tp.Tracer(svcName)

	serverCfg, err := cfg.CoAPServer()
	if err != nil {
		logger.Error(fmt.Sprintf("invalid %s server configuration: %s", svcName, err))
		exitCode = 1
		return
	}
	srv, err := coap.NewServer(ctx, provider.NewBinder(cfg.PSK, logger), serverCfg, coap.WithServerContentType(serverCfg.ContentType))
	if err != nil {
		logger.Error(fmt.Sprintf("failed to start CoAP server: %s", err))
		exitCode = 1
		return
	}
	defer func() {
		if err := srv.Close(); err != nil {
			logger.Error(fmt.Sprintf("error closing CoAP server: %s", err))
		}
	}()

	encoder, err := codec.New(serverCfg.ContentType, cfg.Publisher.BaseName)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to create encoder: %s", err))
		exitCode = 1
		return
	}

	source, err := sensor.New(cfg.Sensor)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to create data source: %s", err))
		exitCode = 1
		return
	}

	target, err := newTarget(srv, cfg, encoder.ContentType(), logger, tracer)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to create publish target: %s", err))
		exitCode = 1
		return
	}

	scheduler := ticker.NewScheduler(nil)
	defer scheduler.Close()

	publisher := coap.NewPeriodicPublisher(scheduler, encoder, logger, cfg.Debug)
	if err := publisher.Start(cfg.Publisher.Slot, cfg.Publisher.Period, source, target); err != nil {
		logger.Error(fmt.Sprintf("failed to start periodic publisher: %s", err))
		exitCode = 1
		return
	}
	defer func() {
		if err := publisher.Stop(); err != nil {
			logger.Error(fmt.Sprintf("error stopping periodic publisher: %s", err))
		}
	}()
	logger.Info(fmt.Sprintf("Publishing %s every %s on slot %d", srv.Config().Name, cfg.Publisher.Period, cfg.Publisher.Slot))

	hs := httpserver.NewServer(ctx, cancel, svcName, httpServerConfig, api.MakeHTTPHandler(svcName, cfg.InstanceID, srv), logger)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service terminated: %s", svcName, err))
	}
}

// newTarget decorates the server and, when an uplink path is configured,
// fans publishes out to the remote endpoint too.
func newTarget(srv *coap.Server, cfg config.Config, ct coap.ContentType, logger *slog.Logger, tracer trace.Tracer) (coap.VariablePublisher, error) {
	name := srv.Config().Name

	var target coap.VariablePublisher = srv
	target = middleware.PublisherLogging(target, name, logger)
	counter, latency := prometheus.MakeMetrics(metricsNS, "publisher")
	target = middleware.PublisherMetrics(target, counter, latency)
	target = tracing.NewPublisher(target, name, tracer)

	if cfg.Client.UplinkPath == "" {
		return target, nil
	}

	clientCfg, err := cfg.CoAPClient()
	if err != nil {
		return nil, err
	}
	client, err := coap.NewClient(provider.NewTransport(cfg.PSK), clientCfg, coap.WithContentType(ct))
	if err != nil {
		return nil, err
	}

	var requester coap.Requester = client
	requester = middleware.RequesterLogging(requester, logger)
	counter, latency = prometheus.MakeMetrics(metricsNS, "uplink")
	requester = middleware.RequesterMetrics(requester, counter, latency)
	requester = tracing.NewRequester(requester, tracer)

	uplink, err := coap.NewUplink(requester, cfg.Client.UplinkPath)
	if err != nil {
		return nil, err
	}
	logger.Info(fmt.Sprintf("Uplinking readings to %s", coap.BuildURL(clientCfg.Address, client.Config().Port, cfg.Client.UplinkPath, clientCfg.Secure)))

	return coap.Fanout(target, uplink), nil
}
