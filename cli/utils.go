// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/absmach/coapnode/coap"
	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
)

var (
	// Address of the remote endpoint.
	Address string = coap.DefaultAddress
	// Port of the remote endpoint, 0 selects the scheme default.
	Port int = 0
	// Secure selects coaps.
	Secure bool = false
	// RequestType is CONFIRMABLE or NON_CONFIRMABLE.
	RequestType string = string(coap.Confirmable)
	// ContentType of request payloads.
	ContentType string = "json"
	// Retries of GET and DELETE requests failing in transport.
	Retries uint64 = 0
	// RetryInterval is the initial wait between retries.
	RetryInterval time.Duration = 500 * time.Millisecond
	// RawOutput raw output mode.
	RawOutput bool = false
)

type responseView struct {
	Status      string `json:"status"`
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Payload     any    `json:"payload,omitempty"`
}

func logJSONCmd(cmd cobra.Command, iList ...interface{}) {
	for _, i := range iList {
		m, err := json.Marshal(i)
		if err != nil {
			logErrorCmd(cmd, err)
			return
		}

		pj, err := prettyjson.Format(m)
		if err != nil {
			logErrorCmd(cmd, err)
			return
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n\n", string(pj))
	}
}

func logResponseCmd(cmd cobra.Command, resp coap.Response) {
	if RawOutput {
		fmt.Fprintln(cmd.OutOrStdout(), string(resp.Payload))
		return
	}

	v := responseView{
		Status:      resp.Status,
		StatusCode:  resp.StatusCode,
		ContentType: resp.ContentType.String(),
	}
	switch {
	case len(resp.Payload) == 0:
	case json.Valid(resp.Payload):
		v.Payload = json.RawMessage(resp.Payload)
	case utf8.Valid(resp.Payload):
		v.Payload = string(resp.Payload)
	default:
		v.Payload = resp.Payload
	}

	logJSONCmd(cmd, v)
}

func logUsageCmd(cmd cobra.Command, u string) {
	fmt.Fprintf(cmd.OutOrStdout(), color.YellowString("\nusage: %s\n\n"), u)
}

func logErrorCmd(cmd cobra.Command, err error) {
	boldRed := color.New(color.FgRed, color.Bold)
	boldRed.Fprintf(cmd.ErrOrStderr(), "\nerror: ")

	fmt.Fprintf(cmd.ErrOrStderr(), "%s\n\n", color.RedString(err.Error()))
}
