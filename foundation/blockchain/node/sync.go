package node

import (
	"time"

	"github.com/meshchain/node/foundation/blockchain/protocol"
)

// chainCandidate pairs a peer's chain snapshot with the address it came
// from, purely for logging; the selection itself only cares about length
// and validity.
type chainCandidate struct {
	source   string
	snapshot protocol.ChainSnapshot
}

// SyncBlockchain fans REQUEST_CHAIN out to every known peer, waits up to
// syncTimeout for replies, and adopts the longest valid chain strictly
// longer than the Node's own. This is the "longest valid chain wins" rule;
// a tie, or nothing longer, leaves the local chain untouched. It returns
// the number of blocks gained by the adoption, zero if none occurred.
func (n *Node) SyncBlockchain() int {
	n.syncMu.Lock()
	if n.syncActive {
		n.syncMu.Unlock()
		return 0
	}
	n.syncActive = true
	n.syncMu.Unlock()

	defer func() {
		n.syncMu.Lock()
		n.syncActive = false
		n.syncMu.Unlock()
	}()

	addrs := n.peers.Broadcastable()
	if len(addrs) == 0 {
		return 0
	}

	direct := make(chan chainCandidate, len(addrs))
	for _, addr := range addrs {
		go func(addr string) {
			env, err := n.request(addr, protocol.RequestChain, struct{}{})
			if err != nil {
				n.tolerate("request chain from "+addr, err)
				n.peers.MarkFailure(addr)
				return
			}

			var payload protocol.ResponseChainPayload
			if err := protocol.DecodePayload(env, &payload); err != nil {
				n.tolerate("decode RESPONSE_CHAIN from "+addr, err)
				return
			}

			n.peers.MarkSuccess(addr)
			direct <- chainCandidate{source: addr, snapshot: payload.Blockchain}
		}(addr)
	}

	deadline := time.After(syncTimeout)
	candidates := make([]chainCandidate, 0, len(addrs))

collect:
	for i := 0; i < len(addrs); i++ {
		select {
		case c := <-direct:
			candidates = append(candidates, c)
		case c := <-n.syncResults:
			candidates = append(candidates, c)
		case <-deadline:
			break collect
		}
	}

	return n.adoptBest(candidates)
}

// adoptBest picks the longest valid candidate chain and replaces the local
// chain if it is strictly longer. It also merges every candidate's pending
// transactions into the local mempool, since a chain sync is also a
// convenient moment to pick up transactions this node has not seen yet. It
// returns the number of blocks gained, zero if nothing was adopted.
func (n *Node) adoptBest(candidates []chainCandidate) int {
	var best chainCandidate
	bestLen := -1

	for _, c := range candidates {
		for _, tx := range c.snapshot.PendingTransactions {
			n.db.AddTransaction(tx)
		}

		if len(c.snapshot.Chain) > bestLen && n.db.IsChainValid(c.snapshot.Chain) {
			best = c
			bestLen = len(c.snapshot.Chain)
		}
	}

	previousLen := n.db.Height()
	if bestLen <= previousLen {
		return 0
	}

	if !n.db.ReplaceChain(best.snapshot.Chain) {
		return 0
	}

	n.ev("node: adopted chain of length %d from %s", bestLen, best.source)
	return bestLen - previousLen
}
