package node

import (
	"time"

	"github.com/meshchain/node/foundation/blockchain/block"
	"github.com/meshchain/node/foundation/blockchain/miner"
	"github.com/meshchain/node/foundation/blockchain/protocol"
	"github.com/meshchain/node/foundation/blockchain/transaction"
)

const coinbaseReward = 50.0

// StartMining launches a mining attempt over the mempool's best pending
// transactions plus a coinbase reward to this node's wallet address, unless
// a mining run is already active. It returns immediately; the search and
// its eventual broadcast happen on a background goroutine. Grounded on the
// teacher's signalStartMining/runMiningOperation split: the signal only ever
// starts one operation at a time, and the operation itself runs detached
// from whatever triggered it.
func (n *Node) StartMining() bool {
	n.miningMu.Lock()
	if n.miningActive {
		n.miningMu.Unlock()
		return false
	}
	stop := &miner.Stop{}
	n.miningStop = stop
	n.miningActive = true
	n.miningMu.Unlock()

	go n.runMiningOperation(stop)
	return true
}

// CancelMining signals the active mining run, if any, to stop. It does not
// block waiting for the worker pool to unwind.
func (n *Node) CancelMining() {
	n.miningMu.Lock()
	stop := n.miningStop
	n.miningMu.Unlock()

	if stop != nil {
		stop.Signal()
	}
}

func (n *Node) runMiningOperation(stop *miner.Stop) {
	defer func() {
		n.miningMu.Lock()
		n.miningActive = false
		n.miningStop = nil
		n.miningMu.Unlock()
	}()

	latest := n.db.LatestBlock()
	coinbase := transaction.NewCoinbase(n.wallet, coinbaseReward, nowSeconds())
	txs := append([]transaction.Transaction{coinbase}, n.db.PickBest(-1)...)

	n.ev("node: mining: started on top of block %d with %d transactions", latest.Index, len(txs))

	result := miner.Mine(latest.Index+1, latest.Hash, txs, nowSeconds(), block.Difficulty, stop)
	if result.Cancelled {
		n.ev("node: mining: cancelled")
		return
	}

	if !n.db.AddBlock(result.Block) {
		n.ev("node: mining: found a solution but the chain moved under us, discarding")
		return
	}

	n.ev("node: mining: found block %d with nonce %d", result.Block.Index, result.Block.Nonce)
	n.Broadcast(protocol.NewBlock, protocol.BlockPayload{Block: result.Block}, n.self)
}

func nowSeconds() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}
