// Command walletcli is a thin client for querying balances and submitting
// transactions against a running node over its wire protocol.
package main

import "github.com/meshchain/node/app/tooling/walletcli/cmd"

func main() {
	cmd.Execute()
}
