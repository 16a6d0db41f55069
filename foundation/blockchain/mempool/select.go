package mempool

import (
	"sort"

	"github.com/meshchain/node/foundation/blockchain/transaction"
)

// SelectStrategy picks and orders the transactions a miner should include in
// its next block out of the full pending set.
type SelectStrategy func(txs []transaction.Transaction) []transaction.Transaction

// ByValueDesc is the only selection strategy this domain supports: there is
// no fee market beyond value, so the teacher's per-account nonce grouping
// (mempool/selector's Tip strategy) has no equivalent here — this collapses
// it to a single stable sort by valor descending. Sort is stable so that
// transactions of equal value keep their first-seen (insertion) order.
var ByValueDesc SelectStrategy = func(txs []transaction.Transaction) []transaction.Transaction {
	sorted := make([]transaction.Transaction, len(txs))
	copy(sorted, txs)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Valor > sorted[j].Valor
	})

	return sorted
}
