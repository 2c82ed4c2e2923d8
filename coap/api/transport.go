// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/absmach/coapnode"
	"github.com/absmach/coapnode/coap"
	"github.com/go-chi/chi/v5"
	"github.com/plgd-dev/go-coap/v2/message"
	"github.com/plgd-dev/go-coap/v2/message/codes"
	"github.com/plgd-dev/go-coap/v2/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// VariableReader returns the current published variable.
type VariableReader interface {
	Variable() coap.Variable
}

// MakeHTTPHandler returns a HTTP handler for the health, metrics and
// variable endpoints.
func MakeHTTPHandler(svcName, instanceID string, vr VariableReader) http.Handler {
	mux := chi.NewRouter()
	mux.Get("/health", coapnode.Health(svcName, instanceID))
	mux.Handle("/metrics", promhttp.Handler())
	mux.Get("/variable", variableHandler(vr))

	return mux
}

func variableHandler(vr VariableReader) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		v := vr.Variable()
		if v.Updated.IsZero() {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", v.ContentType.String())
		w.Header().Set("Last-Modified", v.Updated.UTC().Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(v.Value)
	}
}

// MakeCoAPHandler creates handler for CoAP messages.
func MakeCoAPHandler(h coap.Handler, logger *slog.Logger) mux.HandlerFunc {
	return func(w mux.ResponseWriter, m *mux.Message) {
		resp := coap.Outbound{Code: coap.Content, ContentType: coap.Text}
		defer sendResp(w, &resp, logger)
		if m.Options == nil {
			logger.Warn("Nil options")
			resp.Code = coap.BadRequest
			return
		}
		in, err := decodeMessage(m)
		if err != nil {
			logger.Warn(fmt.Sprintf("Error decoding message: %s", err))
			resp.Code = coap.BadRequest
			return
		}

		ctx := m.Context
		if ctx == nil {
			ctx = context.Background()
		}
		resp = h.Handle(ctx, in)
	}
}

func sendResp(w mux.ResponseWriter, resp *coap.Outbound, logger *slog.Logger) {
	var body io.ReadSeeker
	if len(resp.Payload) > 0 {
		body = bytes.NewReader(resp.Payload)
	}
	if err := w.SetResponse(codes.Code(resp.Code), message.MediaType(resp.ContentType), body); err != nil {
		logger.Warn(fmt.Sprintf("Can't set response: %s", err))
	}
}

func decodeMessage(m *mux.Message) (coap.Inbound, error) {
	path, err := m.Options.Path()
	if err != nil && !stderrors.Is(err, message.ErrOptionNotFound) {
		return coap.Inbound{}, err
	}
	if path == "" || path[0] != '/' {
		path = "/" + path
	}

	in := coap.Inbound{
		Method:      methodName(m.Code),
		Path:        path,
		ContentType: coap.Text,
		Payload:     []byte{},
	}
	if ct, err := m.Options.ContentFormat(); err == nil {
		in.ContentType = coap.ContentType(ct)
	}

	if m.Body != nil {
		buff, err := io.ReadAll(m.Body)
		if err != nil {
			return in, err
		}
		in.Payload = buff
	}

	return in, nil
}

func methodName(c codes.Code) string {
	switch c {
	case codes.GET:
		return "GET"
	case codes.POST:
		return "POST"
	case codes.PUT:
		return "PUT"
	case codes.DELETE:
		return "DELETE"
	default:
		return c.String()
	}
}
