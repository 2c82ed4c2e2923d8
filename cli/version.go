// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/absmach/coapnode"
	"github.com/spf13/cobra"
)

// NewVersionCmd returns version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "coap-cli version",
		Long:  `Prints the version of coap-cli`,
		Run: func(cmd *cobra.Command, args []string) {
			logJSONCmd(*cmd, map[string]string{"version": coapnode.Version})
		},
	}
}
