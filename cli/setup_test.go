// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/absmach/coapnode/cli"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

type outputLog uint8

const (
	usageLog outputLog = iota
	errLog
	entityLog
	rawLog
)

func executeCommand(t *testing.T, root *cobra.Command, args ...string) string {
	buffer := new(bytes.Buffer)
	root.SetOut(buffer)
	root.SetErr(buffer)
	root.SetArgs(args)
	err := root.Execute()
	assert.NoError(t, err, "Error executing command")
	return buffer.String()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{Use: "coap-cli"}
	rootCmd.AddCommand(cli.NewRequestCmds()...)
	rootCmd.AddCommand(cli.NewVersionCmd())

	return setFlags(rootCmd)
}

func setFlags(rootCmd *cobra.Command) *cobra.Command {
	cli.RetryInterval = time.Millisecond

	rootCmd.PersistentFlags().StringVarP(&cli.Address, "address", "a", "127.0.0.1", "Remote address")
	rootCmd.PersistentFlags().IntVarP(&cli.Port, "port", "p", 0, "Remote port")
	rootCmd.PersistentFlags().BoolVarP(&cli.Secure, "secure", "s", false, "Use coaps")
	rootCmd.PersistentFlags().StringVarP(&cli.RequestType, "type", "t", "CONFIRMABLE", "Request type")
	rootCmd.PersistentFlags().StringVarP(&cli.ContentType, "content-type", "c", "json", "Payload content type")
	rootCmd.PersistentFlags().Uint64VarP(&cli.Retries, "retries", "R", 0, "Retries on transport failure")
	rootCmd.PersistentFlags().BoolVarP(&cli.RawOutput, "raw", "r", false, "Enables raw output mode for easier parsing of output")

	return rootCmd
}
