// Package cmd implements the wallet command-line tool: a thin client that
// speaks the node's wire protocol directly rather than going through an
// HTTP API.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var nodeAddr string

func init() {
	rootCmd.PersistentFlags().StringVarP(&nodeAddr, "node", "n", "127.0.0.1:9000", "host:port of the node to talk to.")
}

var rootCmd = &cobra.Command{
	Use:   "walletcli",
	Short: "Query balances and submit transactions against a running node.",
}

// Execute runs the wallet CLI, exiting the process on any command error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
