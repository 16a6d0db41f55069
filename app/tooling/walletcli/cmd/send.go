package cmd

import (
	"fmt"
	"log"
	"net"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/meshchain/node/foundation/blockchain/protocol"
	"github.com/meshchain/node/foundation/blockchain/transaction"
)

var sendCmd = &cobra.Command{
	Use:   "send [from] [to] [value]",
	Short: "Submit a transaction to the node and let it gossip from there.",
	Args:  cobra.ExactArgs(3),
	Run:   sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
}

func sendRun(cmd *cobra.Command, args []string) {
	valor, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		log.Fatalf("invalid value %q: %s", args[2], err)
	}

	tx := transaction.New(args[0], args[1], valor, float64(time.Now().Unix()))

	conn, err := net.DialTimeout("tcp", nodeAddr, requestTimeout)
	if err != nil {
		log.Fatalf("dial %s: %s", nodeAddr, err)
	}
	defer conn.Close()

	// The envelope's sender field must be a valid host:port, same as any
	// peer's. A wallet has no listener of its own, so it reports the local
	// address of this very connection rather than a made-up name.
	payload := protocol.TransactionPayload{Transaction: tx}
	if err := protocol.WriteFrame(conn, protocol.NewTransaction, conn.LocalAddr().String(), payload); err != nil {
		log.Fatalf("send transaction: %s", err)
	}

	fmt.Println("submitted transaction", tx.ID)
}
