// Package mempool maintains the set of transactions this node has seen but
// not yet mined into a block.
package mempool

import (
	"sync"

	"github.com/meshchain/node/foundation/blockchain/transaction"
)

// Mempool represents a cache of pending transactions keyed by id for O(1)
// duplicate detection, alongside insertion order so selection can break
// value ties by first-seen.
type Mempool struct {
	mu    sync.RWMutex
	pool  map[string]transaction.Transaction
	order []string
}

// New constructs an empty mempool.
func New() *Mempool {
	return &Mempool{
		pool: make(map[string]transaction.Transaction),
	}
}

// Has reports whether a transaction with this id is already pending.
func (mp *Mempool) Has(id string) bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	_, exists := mp.pool[id]
	return exists
}

// Upsert adds a transaction to the pool if its id is unseen. It reports
// whether the transaction was newly added.
func (mp *Mempool) Upsert(tx transaction.Transaction) bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if _, exists := mp.pool[tx.ID]; exists {
		return false
	}

	mp.pool[tx.ID] = tx
	mp.order = append(mp.order, tx.ID)
	return true
}

// Delete removes a transaction from the pool by id. It is a no-op if the id
// is not present.
func (mp *Mempool) Delete(id string) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.deleteLocked(id)
}

// DeleteIncluded removes every pending transaction whose id appears in the
// given set of block ids.
func (mp *Mempool) DeleteIncluded(ids map[string]struct{}) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	for id := range ids {
		mp.deleteLocked(id)
	}
}

func (mp *Mempool) deleteLocked(id string) {
	if _, exists := mp.pool[id]; !exists {
		return
	}
	delete(mp.pool, id)
	for i, oid := range mp.order {
		if oid == id {
			mp.order = append(mp.order[:i], mp.order[i+1:]...)
			break
		}
	}
}

// Count returns the number of pending transactions.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Copy returns a snapshot slice of every pending transaction in
// first-seen order.
func (mp *Mempool) Copy() []transaction.Transaction {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	txs := make([]transaction.Transaction, 0, len(mp.order))
	for _, id := range mp.order {
		txs = append(txs, mp.pool[id])
	}
	return txs
}

// PickBest returns the pending transactions ordered by the configured
// selection strategy. Pass -1 for every pending transaction.
func (mp *Mempool) PickBest(howMany int) []transaction.Transaction {
	txs := mp.Copy()
	best := ByValueDesc(txs)

	if howMany < 0 || howMany > len(best) {
		return best
	}
	return best[:howMany]
}
