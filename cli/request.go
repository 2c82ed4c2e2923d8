// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"

	"github.com/absmach/coapnode/coap"
	"github.com/absmach/coapnode/pkg/errors"
	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/cobra"
)

type requestCmd struct {
	method  string
	use     string
	short   string
	payload bool
	// retry marks methods whose transport failures are safe to resend.
	retry bool
}

var requestCmds = []requestCmd{
	{method: "GET", use: "get <path>", short: "Get resource", retry: true},
	{method: "POST", use: "post <path> <payload>", short: "Post payload to resource", payload: true},
	{method: "PUT", use: "put <path> <payload>", short: "Put payload to resource", payload: true},
	{method: "DELETE", use: "delete <path>", short: "Delete resource", retry: true},
}

// NewRequestCmds returns a command per client method.
func NewRequestCmds() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(requestCmds))
	for _, rc := range requestCmds {
		cmds = append(cmds, newRequestCmd(rc))
	}

	return cmds
}

func newRequestCmd(rc requestCmd) *cobra.Command {
	nargs := 1
	if rc.payload {
		nargs = 2
	}

	return &cobra.Command{
		Use:   rc.use,
		Short: rc.short,
		Long: fmt.Sprintf("Sends a %s request to the resource path\n", rc.method) +
			"usage:\n" +
			"\tcoap-cli " + rc.use,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != nargs {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			var payload []byte
			if rc.payload {
				payload = []byte(args[1])
			}

			var retries uint64
			if rc.retry {
				retries = Retries
			}
			resp, err := request(cmd.Context(), args[0], rc.method, payload, retries)
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			if err := errors.CheckStatus(resp.StatusCode, resp.Payload); err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			logResponseCmd(*cmd, resp)
		},
	}
}

func clientConfig() (coap.ClientConfig, error) {
	rt, err := coap.ParseRequestType(RequestType)
	if err != nil {
		return coap.ClientConfig{}, err
	}
	ct, err := coap.ParseContentType(ContentType)
	if err != nil {
		return coap.ClientConfig{}, err
	}

	return coap.ClientConfig{
		Address:     Address,
		Port:        Port,
		RequestType: rt,
		Secure:      Secure,
		ContentType: ct,
	}, nil
}

// request retries transport failures only, at most retries times.
func request(ctx context.Context, path, method string, payload []byte, retries uint64) (coap.Response, error) {
	cfg, err := clientConfig()
	if err != nil {
		return coap.Response{}, err
	}
	// Text is the zero content type, so it is applied as an option.
	c, err := coap.NewClient(transport, cfg, coap.WithContentType(cfg.ContentType))
	if err != nil {
		return coap.Response{}, err
	}

	var resp coap.Response
	op := func() error {
		r, err := c.Request(ctx, path, method, payload)
		if err != nil {
			if errors.Contains(err, coap.ErrTransport) {
				return err
			}
			return backoff.Permanent(err)
		}
		resp = r
		return nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = RetryInterval
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(eb, retries), ctx)); err != nil {
		return coap.Response{}, err
	}

	return resp, nil
}
