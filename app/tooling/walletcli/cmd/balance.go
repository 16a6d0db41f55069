package cmd

import (
	"fmt"
	"log"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/meshchain/node/foundation/blockchain/block"
	"github.com/meshchain/node/foundation/blockchain/protocol"
	"github.com/meshchain/node/foundation/blockchain/transaction"
)

const requestTimeout = 5 * time.Second

var balanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Print an address's balance as seen by the node's current chain.",
	Args:  cobra.ExactArgs(1),
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) {
	address := args[0]

	chain, err := fetchChain(nodeAddr)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(computeBalance(chain, address))
}

// fetchChain performs a REQUEST_CHAIN round trip against addr and returns
// the chain it was handed back.
func fetchChain(addr string) ([]block.Block, error) {
	conn, err := net.DialTimeout("tcp", addr, requestTimeout)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(requestTimeout))

	// The envelope's sender field must be a valid host:port, same as any
	// peer's. A wallet has no listener of its own, so it reports the local
	// address of this very connection rather than a made-up name.
	if err := protocol.WriteFrame(conn, protocol.RequestChain, conn.LocalAddr().String(), struct{}{}); err != nil {
		return nil, fmt.Errorf("send REQUEST_CHAIN: %w", err)
	}

	env, err := protocol.ReadFrame(conn)
	if err != nil {
		return nil, fmt.Errorf("read RESPONSE_CHAIN: %w", err)
	}

	var payload protocol.ResponseChainPayload
	if err := protocol.DecodePayload(env, &payload); err != nil {
		return nil, fmt.Errorf("decode RESPONSE_CHAIN: %w", err)
	}

	return payload.Blockchain.Chain, nil
}

// computeBalance mirrors database.Database.GetBalance: the sum of every
// value an address received minus every value it sent, across the given
// chain. It is reimplemented here rather than imported because a wallet
// only has a chain snapshot, never a live Database.
func computeBalance(chain []block.Block, address string) float64 {
	var balance float64
	for _, b := range chain {
		for _, tx := range b.Transactions {
			if tx.Destino == address {
				balance += tx.Valor
			}
			if tx.Origem == address && address != transaction.Coinbase {
				balance -= tx.Valor
			}
		}
	}
	return balance
}
