// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package coap

import (
	"context"

	"github.com/absmach/coapnode/pkg/errors"
)

var (
	_ VariablePublisher = (*uplink)(nil)
	_ VariablePublisher = fanout(nil)
)

type uplink struct {
	requester Requester
	path      string
}

// NewUplink returns a VariablePublisher that POSTs every payload to path on
// the remote endpoint of r. Any response code other than 2.xx is an error.
func NewUplink(r Requester, path string) (VariablePublisher, error) {
	if r == nil {
		return nil, ErrMissingCollaborator
	}
	if err := ValidatePath(path); err != nil {
		return nil, err
	}

	return &uplink{requester: r, path: path}, nil
}

func (u *uplink) Publish(ctx context.Context, payload []byte) error {
	res, err := u.requester.Request(ctx, u.path, "POST", payload)
	if err != nil {
		return err
	}
	if se := errors.CheckStatus(res.StatusCode, res.Payload); se != nil {
		return errors.Wrap(ErrUplink, se)
	}

	return nil
}

type fanout []VariablePublisher

// Fanout publishes to every target in order. All targets are tried and the
// first failure is returned.
func Fanout(targets ...VariablePublisher) VariablePublisher {
	if len(targets) == 1 {
		return targets[0]
	}

	return fanout(targets)
}

func (f fanout) Publish(ctx context.Context, payload []byte) error {
	var first error
	for _, t := range f {
		if err := t.Publish(ctx, payload); err != nil && first == nil {
			first = err
		}
	}

	return first
}
