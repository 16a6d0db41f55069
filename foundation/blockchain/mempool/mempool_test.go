package mempool_test

import (
	"testing"

	"github.com/meshchain/node/foundation/blockchain/mempool"
	"github.com/meshchain/node/foundation/blockchain/transaction"
)

const (
	success = "✓"
	failed  = "✗"
)

func TestUpsertIdempotent(t *testing.T) {
	t.Log("Given the need to reject duplicate transaction ids.")
	{
		mp := mempool.New()
		tx := transaction.Reconstruct("dup", "x", "y", 1, 1)

		if !mp.Upsert(tx) {
			t.Fatalf("\t%s\tShould accept the first transaction with a new id.", failed)
		}
		t.Logf("\t%s\tShould accept the first transaction with a new id.", success)

		if mp.Upsert(tx) {
			t.Fatalf("\t%s\tShould reject a second transaction with the same id.", failed)
		}
		t.Logf("\t%s\tShould reject a second transaction with the same id.", success)

		if mp.Count() != 1 {
			t.Fatalf("\t%s\tShould leave the mempool with exactly one entry, got %d.", failed, mp.Count())
		}
		t.Logf("\t%s\tShould leave the mempool with exactly one entry.", success)
	}
}

func TestPickBestValueDescending(t *testing.T) {
	t.Log("Given the need to order transactions by descending value for mining.")
	{
		mp := mempool.New()
		mp.Upsert(transaction.Reconstruct("a", "x", "y", 3, 1))
		mp.Upsert(transaction.Reconstruct("b", "x", "y", 1, 2))
		mp.Upsert(transaction.Reconstruct("c", "x", "y", 2, 3))

		best := mp.PickBest(-1)
		want := []float64{3, 2, 1}
		for i, w := range want {
			if best[i].Valor != w {
				t.Fatalf("\t%s\tShould select transactions in order %v, got %v.", failed, want, valores(best))
			}
		}
		t.Logf("\t%s\tShould select transactions ordered %v.", success, want)
	}
}

func valores(txs []transaction.Transaction) []float64 {
	out := make([]float64, len(txs))
	for i, tx := range txs {
		out[i] = tx.Valor
	}
	return out
}

func TestDeleteIncluded(t *testing.T) {
	t.Log("Given the need to remove mined transactions from the mempool.")
	{
		mp := mempool.New()
		mp.Upsert(transaction.Reconstruct("a", "x", "y", 1, 1))
		mp.Upsert(transaction.Reconstruct("b", "x", "y", 2, 2))

		mp.DeleteIncluded(map[string]struct{}{"a": {}})

		if mp.Has("a") {
			t.Fatalf("\t%s\tShould remove the included transaction from the mempool.", failed)
		}
		t.Logf("\t%s\tShould remove the included transaction from the mempool.", success)

		if !mp.Has("b") {
			t.Fatalf("\t%s\tShould retain the untouched transaction in the mempool.", failed)
		}
		t.Logf("\t%s\tShould retain the untouched transaction in the mempool.", success)
	}
}
