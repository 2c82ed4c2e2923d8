// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package config loads the node configuration from the environment and an
// optional TOML file.
package config

import (
	"net/url"
	"os"
	"time"

	"github.com/absmach/coapnode/coap"
	"github.com/absmach/coapnode/coap/provider"
	"github.com/absmach/coapnode/internal/env"
	"github.com/absmach/coapnode/pkg/errors"
	"github.com/absmach/coapnode/sensor"
	"github.com/pelletier/go-toml"
)

var (
	errFailedToReadConfig  = errors.New("failed to read config file")
	errFailedToWriteConfig = errors.New("failed to write config file")
	errFailedToParseEnv    = errors.New("failed to load configuration from environment")
)

// ClientConf configures the node's outgoing requests. Uplink payloads carry
// the content format of the server's encoder.
type ClientConf struct {
	Address     string `toml:"address"      env:"ADDRESS"      envDefault:"127.0.0.1"`
	Port        int    `toml:"port"         env:"PORT"         envDefault:"0"`
	RequestType string `toml:"request_type" env:"REQUEST_TYPE" envDefault:"CONFIRMABLE"`
	Secure      bool   `toml:"secure"       env:"SECURE"       envDefault:"false"`
	Method      string `toml:"method"       env:"METHOD"       envDefault:"GET"`
	UplinkPath  string `toml:"uplink_path"  env:"UPLINK_PATH"  envDefault:""`
}

// ServerConf configures the published variable endpoint.
type ServerConf struct {
	Port        int    `toml:"port"         env:"PORT"         envDefault:"0"`
	Secure      bool   `toml:"secure"       env:"SECURE"       envDefault:"false"`
	ContentType string `toml:"content_type" env:"CONTENT_TYPE" envDefault:"json"`
	Name        string `toml:"name"         env:"NAME"         envDefault:"reading"`
}

// PublisherConf configures the periodic publisher.
type PublisherConf struct {
	Period   time.Duration `toml:"period"    env:"PERIOD"    envDefault:"10s"`
	Slot     int           `toml:"slot"      env:"SLOT"      envDefault:"0"`
	BaseName string        `toml:"base_name" env:"BASE_NAME" envDefault:""`
}

// Config is the coap-node configuration.
type Config struct {
	LogLevel   string  `toml:"log_level"   env:"NODE_LOG_LEVEL"          envDefault:"info"`
	Debug      bool    `toml:"debug"       env:"NODE_DEBUG"              envDefault:"false"`
	File       string  `toml:"-"           env:"NODE_CONFIG_FILE"        envDefault:""`
	InstanceID string  `toml:"instance_id" env:"NODE_INSTANCE_ID"        envDefault:""`
	JaegerURL  url.URL `toml:"-"           env:"NODE_JAEGER_URL"         envDefault:"http://localhost:4318/v1/traces"`
	TraceRatio float64 `toml:"trace_ratio" env:"NODE_JAEGER_TRACE_RATIO" envDefault:"1.0"`

	Client    ClientConf    `toml:"client"    envPrefix:"NODE_CLIENT_"`
	Server    ServerConf    `toml:"server"    envPrefix:"NODE_SERVER_"`
	Publisher PublisherConf `toml:"publisher" envPrefix:"NODE_PUBLISHER_"`
	Sensor    sensor.Config `toml:"sensor"    envPrefix:"NODE_SENSOR_"`
	PSK       provider.PSK  `toml:"psk"       envPrefix:"NODE_PSK_"`
}

// Load parses the environment, then overrides it with the values present in
// the file named by NODE_CONFIG_FILE, if any.
func Load(opts ...env.Options) (Config, error) {
	var c Config
	if err := env.Parse(&c, opts...); err != nil {
		return Config{}, errors.Wrap(errFailedToParseEnv, err)
	}
	if c.File == "" {
		return c, nil
	}

	if err := readInto(c.File, &c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Save - store config in a file.
func Save(c Config, file string) error {
	if file == "" {
		return errors.ErrEmptyPath
	}

	b, err := toml.Marshal(c)
	if err != nil {
		return errors.Wrap(errFailedToWriteConfig, err)
	}
	if err := os.WriteFile(file, b, 0o644); err != nil {
		return errors.Wrap(errFailedToWriteConfig, err)
	}

	return nil
}

// Read - retrieve config from a file.
func Read(file string) (Config, error) {
	var c Config
	if err := readInto(file, &c); err != nil {
		return Config{}, err
	}

	return c, nil
}

func readInto(file string, c *Config) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return errors.Wrap(errFailedToReadConfig, err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return errors.Wrap(errFailedToReadConfig, err)
	}

	return nil
}

// CoAPClient converts the client section.
func (c Config) CoAPClient() (coap.ClientConfig, error) {
	rt, err := coap.ParseRequestType(c.Client.RequestType)
	if err != nil {
		return coap.ClientConfig{}, err
	}

	return coap.ClientConfig{
		Address:     c.Client.Address,
		Port:        c.Client.Port,
		RequestType: rt,
		Secure:      c.Client.Secure,
		Method:      c.Client.Method,
	}, nil
}

// CoAPServer converts the server section.
func (c Config) CoAPServer() (coap.ServerConfig, error) {
	ct, err := coap.ParseContentType(c.Server.ContentType)
	if err != nil {
		return coap.ServerConfig{}, err
	}

	return coap.ServerConfig{
		Port:        c.Server.Port,
		Secure:      c.Server.Secure,
		ContentType: ct,
		Name:        c.Server.Name,
	}, nil
}
