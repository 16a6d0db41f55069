package block_test

import (
	"testing"

	"github.com/meshchain/node/foundation/blockchain/block"
	"github.com/meshchain/node/foundation/blockchain/transaction"
)

const (
	success = "✓"
	failed  = "✗"
)

func TestComputeHashDeterministic(t *testing.T) {
	t.Log("Given the need for deterministic block hashing.")
	{
		txs := []transaction.Transaction{
			transaction.Reconstruct("t1", "x", "y", 1, 1),
		}

		b1 := block.New(1, block.ZeroHash, txs, 7, 100)
		b2 := block.New(1, block.ZeroHash, txs, 7, 100)

		if b1.Hash != b2.Hash {
			t.Fatalf("\t%s\tShould produce the same hash for two independent canonical encodings.", failed)
		}
		t.Logf("\t%s\tShould produce the same hash for two independent canonical encodings.", success)
	}
}

func TestIsValidProof(t *testing.T) {
	t.Log("Given the need to validate a block's proof of work.")
	{
		var nonce uint64
		txs := []transaction.Transaction{}

		var b block.Block
		for {
			b = block.New(1, block.ZeroHash, txs, nonce, 100)
			if b.IsValidProof(block.Difficulty) {
				break
			}
			nonce++
		}

		if !b.IsValidProof(block.Difficulty) {
			t.Fatalf("\t%s\tShould accept a block whose hash satisfies the difficulty.", failed)
		}
		t.Logf("\t%s\tShould accept a block whose hash satisfies the difficulty.", success)

		tampered := b
		tampered.Nonce++
		if tampered.IsValidProof(block.Difficulty) {
			t.Fatalf("\t%s\tShould reject a block whose stored hash no longer matches recomputation.", failed)
		}
		t.Logf("\t%s\tShould reject a block whose stored hash no longer matches recomputation.", success)
	}
}
