// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package logger creates the structured loggers used by the node services.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// New returns a JSON slog logger writing to w at the given level.
func New(w io.Writer, levelText string) (*slog.Logger, error) {
	var level Level
	if err := level.UnmarshalText(levelText); err != nil {
		return nil, fmt.Errorf(`{"level":"error","message":"%s: %s","ts":"%s"}`, err, levelText, time.Now().Format(time.RFC3339Nano))
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level.Slog()})

	return slog.New(handler), nil
}

// ExitWithError exits the process with the code pointed to by code. It is
// meant to be deferred at the top of main so deferred cleanups run first.
func ExitWithError(code *int) {
	if *code != 0 {
		os.Exit(*code)
	}
}
