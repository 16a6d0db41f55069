package node

import (
	"net"
	"time"

	"github.com/meshchain/node/foundation/blockchain/nodeerrors"
	"github.com/meshchain/node/foundation/blockchain/protocol"
	"github.com/meshchain/node/foundation/blockchain/transaction"
)

// Broadcast fans a one-shot message out to every broadcastable peer except
// exclude (typically the peer that sent it to us, to avoid an immediate
// echo). Each peer gets its own short-lived connection; a failure against
// one peer never blocks delivery to the rest. The fan-out order is
// shuffled so no single peer is consistently first or last in line.
func (n *Node) Broadcast(msgType protocol.Type, payload any, exclude string) {
	addrs := n.peers.Broadcastable()
	n.shuffle(addrs)

	for _, addr := range addrs {
		if addr == exclude {
			continue
		}
		go n.sendOneShot(addr, msgType, payload)
	}
}

func (n *Node) sendOneShot(addr string, msgType protocol.Type, payload any) {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		n.tolerate("broadcast to "+addr, nodeerrors.New(nodeerrors.PeerUnreachable, err))
		n.peers.MarkFailure(addr)
		return
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(syncTimeout))

	if err := protocol.WriteFrame(conn, msgType, n.self, payload); err != nil {
		n.tolerate("broadcast to "+addr, err)
		n.peers.MarkFailure(addr)
		return
	}

	n.peers.MarkSuccess(addr)
}

// ShareTransaction validates and records tx locally, then broadcasts it to
// every peer. It is the entry point for submitting a transaction from
// inside the node's own process; the wallet CLI instead sends a
// NEW_TRANSACTION frame over the wire.
func (n *Node) ShareTransaction(tx transaction.Transaction) bool {
	if !n.db.AddTransaction(tx) {
		return false
	}
	go n.Broadcast(protocol.NewTransaction, protocol.TransactionPayload{Transaction: tx}, n.self)
	return true
}
