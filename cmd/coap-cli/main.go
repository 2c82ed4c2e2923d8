// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package main contains coap-cli main function.
package main

import (
	"log"

	"github.com/absmach/coapnode/cli"
	"github.com/absmach/coapnode/coap/provider"
	"github.com/spf13/cobra"
)

func main() {
	psk := provider.PSK{Identity: "coap-node"}

	// Root
	rootCmd := &cobra.Command{
		Use: "coap-cli",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cli.SetTransport(provider.NewTransport(psk))
		},
	}

	// Root Commands
	rootCmd.AddCommand(cli.NewRequestCmds()...)
	rootCmd.AddCommand(cli.NewVersionCmd())

	// Root Flags
	rootCmd.PersistentFlags().StringVarP(&cli.Address, "address", "a", cli.Address, "Remote address")
	rootCmd.PersistentFlags().IntVarP(&cli.Port, "port", "p", cli.Port, "Remote port, 0 selects 5683 or 5684")
	rootCmd.PersistentFlags().BoolVarP(&cli.Secure, "secure", "s", cli.Secure, "Use coaps")
	rootCmd.PersistentFlags().StringVarP(&cli.RequestType, "type", "t", cli.RequestType, "Request type: CONFIRMABLE or NON_CONFIRMABLE")
	rootCmd.PersistentFlags().StringVarP(&cli.ContentType, "content-type", "c", cli.ContentType, "Payload content type")
	rootCmd.PersistentFlags().Uint64VarP(&cli.Retries, "retries", "R", cli.Retries, "Retries of GET and DELETE on transport failure")
	rootCmd.PersistentFlags().DurationVarP(&cli.RetryInterval, "retry-interval", "i", cli.RetryInterval, "Initial wait between retries")
	rootCmd.PersistentFlags().BoolVarP(&cli.RawOutput, "raw", "r", cli.RawOutput, "Enables raw output mode for easier parsing of output")
	rootCmd.PersistentFlags().StringVarP(&psk.Identity, "psk-identity", "I", psk.Identity, "CoAPS pre-shared key identity")
	rootCmd.PersistentFlags().StringVarP(&psk.Key, "psk-key", "K", psk.Key, "CoAPS pre-shared key")

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
