// Package database owns the adopted chain and the mempool sitting in front
// of it, and enforces every validation and chain-replacement rule this
// domain defines. There is no on-disk persistence and no fork storage: only
// the currently adopted chain is ever retained.
package database

import (
	"sync"

	"github.com/meshchain/node/foundation/blockchain/block"
	"github.com/meshchain/node/foundation/blockchain/genesis"
	"github.com/meshchain/node/foundation/blockchain/mempool"
	"github.com/meshchain/node/foundation/blockchain/transaction"
)

// Database owns the chain and mempool as one consistent unit, guarded by a
// single lock so validation and append/remove stay atomic with respect to
// each other. Mirrors the teacher's Database type, minus the on-disk
// serializer and the per-account balance cache: balances here are derived
// on demand from the chain (see GetBalance) rather than maintained
// incrementally, since this domain has no accounts, only addresses.
type Database struct {
	mu      sync.RWMutex
	chain   []block.Block
	mempool *mempool.Mempool
}

// New constructs a Database seeded with the fixed genesis block.
func New() *Database {
	return &Database{
		chain:   []block.Block{genesis.Block()},
		mempool: mempool.New(),
	}
}

// Height returns the current chain length.
func (db *Database) Height() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return len(db.chain)
}

// LatestBlock returns the most recently accepted block.
func (db *Database) LatestBlock() block.Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.chain[len(db.chain)-1]
}

// CopyChain returns a snapshot of the currently adopted chain.
func (db *Database) CopyChain() []block.Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	cp := make([]block.Block, len(db.chain))
	copy(cp, db.chain)
	return cp
}

// PendingTransactions returns a snapshot of the mempool.
func (db *Database) PendingTransactions() []transaction.Transaction {
	return db.mempool.Copy()
}

// MempoolLength reports how many transactions are currently pending.
func (db *Database) MempoolLength() int {
	return db.mempool.Count()
}

// PickBest returns up to howMany pending transactions using the mempool's
// value-descending selection strategy. Pass -1 for all of them.
func (db *Database) PickBest(howMany int) []transaction.Transaction {
	return db.mempool.PickBest(howMany)
}

// AddTransaction validates and inserts a transaction into the mempool. It
// rejects (returning false, never erroring) a transaction whose id is
// already pending or whose value is non-positive. It is idempotent with
// respect to duplicate ids.
func (db *Database) AddTransaction(tx transaction.Transaction) bool {
	if tx.Valor <= 0 {
		return false
	}
	return db.mempool.Upsert(tx)
}

// AddBlock accepts a block into the chain if it links correctly onto the
// current tip and carries a valid proof of work. On acceptance every
// mempool transaction included in the block is removed. It never panics on
// malformed input; malformed blocks are simply rejected.
func (db *Database) AddBlock(b block.Block) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	tip := db.chain[len(db.chain)-1]
	if !db.linksLocked(b, tip) {
		return false
	}

	db.chain = append(db.chain, b)

	ids := make(map[string]struct{}, len(b.Transactions))
	for _, tx := range b.Transactions {
		ids[tx.ID] = struct{}{}
	}
	db.mempool.DeleteIncluded(ids)

	return true
}

// linksLocked validates a candidate next block against the given parent.
// Callers must hold db.mu.
func (db *Database) linksLocked(b, parent block.Block) bool {
	if b.Index != parent.Index+1 {
		return false
	}
	if b.PreviousHash != parent.Hash {
		return false
	}
	if !b.IsValidProof(block.Difficulty) {
		return false
	}
	return true
}

// IsChainValid validates a foreign chain end to end: the first block must
// be byte-identical to the local genesis, and every subsequent block must
// satisfy the link and proof invariants against its predecessor.
func (db *Database) IsChainValid(chain []block.Block) bool {
	if len(chain) == 0 {
		return false
	}

	local := genesis.Block()
	first := chain[0]
	if first.Index != local.Index || first.PreviousHash != local.PreviousHash || first.Hash != local.Hash {
		return false
	}
	if first.Nonce != local.Nonce || first.Timestamp != local.Timestamp || len(first.Transactions) != len(local.Transactions) {
		return false
	}

	for i := 1; i < len(chain); i++ {
		if !db.linksLocked(chain[i], chain[i-1]) {
			return false
		}
	}

	return true
}

// ReplaceChain adopts newChain if it is strictly longer than the current
// chain and passes IsChainValid. On adoption, mempool transactions already
// present in the new chain are dropped; everything else is retained so it
// can still be mined later.
func (db *Database) ReplaceChain(newChain []block.Block) bool {
	if !db.IsChainValid(newChain) {
		return false
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if len(newChain) <= len(db.chain) {
		return false
	}

	included := make(map[string]struct{})
	for _, b := range newChain {
		for _, tx := range b.Transactions {
			included[tx.ID] = struct{}{}
		}
	}

	db.chain = make([]block.Block, len(newChain))
	copy(db.chain, newChain)
	db.mempool.DeleteIncluded(included)

	return true
}

// GetBalance computes the net balance of an address: the sum of every
// value it received minus the sum of every value it sent, across all
// accepted blocks. The mempool is ignored. The coinbase address is a
// synthetic source and is never debited.
func (db *Database) GetBalance(address string) float64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var balance float64
	for _, b := range db.chain {
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
