package transaction_test

import (
	"testing"

	"github.com/meshchain/node/foundation/blockchain/transaction"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestDuplicateIdentity(t *testing.T) {
	t.Log("Given the need to identify duplicate transactions by id alone.")
	{
		t1 := transaction.Reconstruct("dup", "x", "y", 1, 1)
		t2 := transaction.Reconstruct("dup", "a", "b", 99, 2)

		if t1.ID != t2.ID {
			t.Fatalf("\t%s\tShould treat transactions with the same id as duplicates.", failed)
		}
		t.Logf("\t%s\tShould treat transactions with the same id as duplicates.", success)
	}
}

func TestCoinbase(t *testing.T) {
	t.Log("Given the need to construct a mining reward transaction.")
	{
		tx := transaction.NewCoinbase("miner-1", 50.0, 100)

		if !tx.IsCoinbase() {
			t.Fatalf("\t%s\tShould mark the transaction as a coinbase.", failed)
		}
		t.Logf("\t%s\tShould mark the transaction as a coinbase.", success)

		if tx.Destino != "miner-1" || tx.Valor != 50.0 {
			t.Fatalf("\t%s\tShould credit the configured miner address the reward value.", failed)
		}
		t.Logf("\t%s\tShould credit the configured miner address the reward value.", success)
	}
}

func TestCanonicalKeys(t *testing.T) {
	t.Log("Given the need for a canonical mapping of a transaction.")
	{
		tx := transaction.Reconstruct("t1", "x", "y", 1.5, 42)
		m := tx.Canonical()

		want := []string{"id", "origem", "destino", "valor", "timestamp"}
		for _, key := range want {
			if _, ok := m[key]; !ok {
				t.Fatalf("\t%s\tShould include key %q in the canonical mapping.", failed, key)
			}
		}
		t.Logf("\t%s\tShould include every required key in the canonical mapping.", success)
	}
}
