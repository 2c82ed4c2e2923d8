// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package coap

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/absmach/coapnode/pkg/errors"
)

const (
	// VariablePrefix is the path prefix of published variables.
	VariablePrefix = "/v1/v/"

	// FunctionPrefix is the path prefix of POST-invokable functions.
	FunctionPrefix = "/v1/f/"

	// WellKnownCore is the resource discovery path.
	WellKnownCore = "/.well-known/core"
)

var _ VariablePublisher = (*Server)(nil)

// Func is a function remote clients invoke with POST.
type Func func(ctx context.Context, payload []byte) ([]byte, error)

// Server exposes a single published variable and a set of functions through
// a bound listener. Inbound requests are served concurrently with publishes.
type Server struct {
	cfg      ServerConfig
	listener Listener

	mu       sync.RWMutex
	variable Variable
	funcs    map[string]Func
	closed   bool
}

// ServerOption overrides a field of the server configuration.
type ServerOption func(cfg *ServerConfig)

// WithServerContentType sets the content format of the published variable.
// Text can only be selected this way since it is the zero content format.
func WithServerContentType(ct ContentType) ServerOption {
	return func(cfg *ServerConfig) {
		cfg.ContentType = ct
	}
}

// NewServer binds a listener for the server. A zero content type is JSON. The
// server is not returned when binding fails.
func NewServer(ctx context.Context, b Binder, cfg ServerConfig, opts ...ServerOption) (*Server, error) {
	if b == nil {
		return nil, ErrMissingTransport
	}

	if cfg.ContentType == 0 {
		cfg.ContentType = DefaultServerConfig().ContentType
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.Port = ResolvePort(cfg.Port, cfg.Secure)
	if err := ValidatePort(cfg.Port); err != nil {
		return nil, err
	}
	if err := ValidateContentType(cfg.ContentType); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = DefaultVariable
	}
	if err := validateName(cfg.Name); err != nil {
		return nil, err
	}

	s := &Server{
		cfg: cfg,
		variable: Variable{
			Name:        cfg.Name,
			ContentType: cfg.ContentType,
		},
		funcs: make(map[string]Func),
	}

	l, err := b.Bind(ctx, cfg.Port, cfg.Secure, s)
	if err != nil {
		return nil, errors.Wrap(ErrBind, err)
	}
	s.listener = l

	return s, nil
}

// Config returns the resolved configuration.
func (s *Server) Config() ServerConfig {
	return s.cfg
}

// Publish replaces the value of the published variable.
func (s *Server) Publish(_ context.Context, payload []byte) error {
	value := make([]byte, len(payload))
	copy(value, payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrServerClosed
	}
	s.variable.Value = value
	s.variable.Updated = time.Now()

	return nil
}

// Variable returns a snapshot of the published variable.
func (s *Server) Variable() Variable {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := s.variable
	v.Value = append([]byte(nil), s.variable.Value...)

	return v
}

// HandleFunc registers fn under FunctionPrefix+name.
func (s *Server) HandleFunc(name string, fn Func) error {
	if err := validateName(name); err != nil {
		return err
	}
	if fn == nil {
		return ErrMissingCollaborator
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.funcs[name] = fn

	return nil
}

// Handle answers an inbound request.
func (s *Server) Handle(ctx context.Context, in Inbound) Outbound {
	method, err := ValidateMethod(in.Method, RoleServer)
	if err != nil {
		return textOutbound(MethodNotAllowed, err.Error())
	}

	switch path := in.Path; {
	case path == WellKnownCore:
		if method != "GET" {
			return textOutbound(MethodNotAllowed, "")
		}
		return Outbound{Code: Content, ContentType: LinkFormat, Payload: []byte(s.links())}

	case strings.HasPrefix(path, VariablePrefix):
		v := s.Variable()
		if strings.TrimPrefix(path, VariablePrefix) != v.Name {
			return textOutbound(NotFound, "")
		}
		if method != "GET" {
			return textOutbound(MethodNotAllowed, "")
		}
		return Outbound{Code: Content, ContentType: v.ContentType, Payload: v.Value}

	case strings.HasPrefix(path, FunctionPrefix):
		s.mu.RLock()
		fn, ok := s.funcs[strings.TrimPrefix(path, FunctionPrefix)]
		s.mu.RUnlock()
		if !ok {
			return textOutbound(NotFound, "")
		}
		if method != "POST" {
			return textOutbound(MethodNotAllowed, "")
		}
		res, err := fn(ctx, in.Payload)
		if err != nil {
			return textOutbound(InternalServerError, err.Error())
		}
		return Outbound{Code: Changed, ContentType: Text, Payload: res}

	default:
		return textOutbound(NotFound, "")
	}
}

// Close closes the listener. Publishing on a closed server fails.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	return s.listener.Close()
}

// links lists the server resources in CoRE link format.
func (s *Server) links() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	links := []string{fmt.Sprintf(`<%s%s>;rt="var";ct=%d`, VariablePrefix, s.variable.Name, uint16(s.variable.ContentType))}
	names := make([]string, 0, len(s.funcs))
	for name := range s.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		links = append(links, fmt.Sprintf(`<%s%s>;rt="func"`, FunctionPrefix, name))
	}

	return strings.Join(links, ",")
}

func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, "/?#") {
		return errors.Wrap(ErrInvalidPath, fmt.Errorf("name %q must be a single non-empty path segment", name))
	}

	return nil
}

func textOutbound(code Code, msg string) Outbound {
	return Outbound{Code: code, ContentType: Text, Payload: []byte(msg)}
}
