package database_test

import (
	"testing"

	"github.com/meshchain/node/foundation/blockchain/block"
	"github.com/meshchain/node/foundation/blockchain/database"
	"github.com/meshchain/node/foundation/blockchain/genesis"
	"github.com/meshchain/node/foundation/blockchain/transaction"
)

const (
	success = "✓"
	failed  = "✗"
)

func mine(db *database.Database, minerAddr string) block.Block {
	tip := db.LatestBlock()
	txs := append([]transaction.Transaction{transaction.NewCoinbase(minerAddr, 50, 1)}, db.PickBest(-1)...)

	var nonce uint64
	var b block.Block
	for {
		b = block.New(tip.Index+1, tip.Hash, txs, nonce, 1)
		if b.IsValidProof(block.Difficulty) {
			break
		}
		nonce++
	}
	db.AddBlock(b)
	return b
}

func TestGenesisByteIdentity(t *testing.T) {
	t.Log("Given the need for every node to start from the same genesis block.")
	{
		db := database.New()
		chain := db.CopyChain()

		g := genesis.Block()
		if chain[0].Hash != g.Hash || chain[0].Index != g.Index {
			t.Fatalf("\t%s\tShould seed the chain with the fixed genesis block.", failed)
		}
		t.Logf("\t%s\tShould seed the chain with the fixed genesis block.", success)
	}
}

func TestAddTransactionRejectsDuplicateAndNonPositive(t *testing.T) {
	t.Log("Given the need to police the mempool on entry.")
	{
		db := database.New()

		if !db.AddTransaction(transaction.Reconstruct("t1", "x", "y", 1, 1)) {
			t.Fatalf("\t%s\tShould accept a fresh, positive-value transaction.", failed)
		}
		t.Logf("\t%s\tShould accept a fresh, positive-value transaction.", success)

		if db.AddTransaction(transaction.Reconstruct("t1", "x", "y", 1, 1)) {
			t.Fatalf("\t%s\tShould reject a transaction with a duplicate id.", failed)
		}
		t.Logf("\t%s\tShould reject a transaction with a duplicate id.", success)

		if db.AddTransaction(transaction.Reconstruct("t2", "x", "y", 0, 1)) {
			t.Fatalf("\t%s\tShould reject a transaction with a non-positive value.", failed)
		}
		t.Logf("\t%s\tShould reject a transaction with a non-positive value.", success)
	}
}

func TestMineThenBalances(t *testing.T) {
	t.Log("Given the need to mine a block and settle balances.")
	{
		db := database.New()
		db.AddTransaction(transaction.Reconstruct("t1", "x", "y", 1, 1))

		mine(db, "m")

		if db.Height() != 2 {
			t.Fatalf("\t%s\tShould have a chain of height 2 after mining once, got %d.", failed, db.Height())
		}
		t.Logf("\t%s\tShould have a chain of height 2 after mining once.", success)

		if got := db.GetBalance("m"); got != 50.0 {
			t.Fatalf("\t%s\tShould credit the miner with the coinbase reward, got %v.", failed, got)
		}
		t.Logf("\t%s\tShould credit the miner with the coinbase reward.", success)

		if got := db.GetBalance("x"); got != -1.0 {
			t.Fatalf("\t%s\tShould debit the sender, got %v.", failed, got)
		}
		t.Logf("\t%s\tShould debit the sender.", success)

		if got := db.GetBalance("y"); got != 1.0 {
			t.Fatalf("\t%s\tShould credit the recipient, got %v.", failed, got)
		}
		t.Logf("\t%s\tShould credit the recipient.", success)
	}
}

func TestAddBlockRejectsBadLink(t *testing.T) {
	t.Log("Given the need to reject a block that does not link onto the tip.")
	{
		db := database.New()
		bad := block.New(5, "not-the-tip-hash", nil, 0, 1)

		if db.AddBlock(bad) {
			t.Fatalf("\t%s\tShould reject a block with the wrong index/link.", failed)
		}
		t.Logf("\t%s\tShould reject a block with the wrong index/link.", success)
	}
}

func TestReplaceChainRequiresStrictlyLonger(t *testing.T) {
	t.Log("Given the need to only adopt strictly longer valid chains.")
	{
		db := database.New()
		mine(db, "m")

		same := db.CopyChain()
		if db.ReplaceChain(same) {
			t.Fatalf("\t%s\tShould reject a same-length candidate chain.", failed)
		}
		t.Logf("\t%s\tShould reject a same-length candidate chain.", success)

		longer := db.CopyChain()
		tip := longer[len(longer)-1]
		var nonce uint64
		var next block.Block
		for {
			next = block.New(tip.Index+1, tip.Hash, nil, nonce, 2)
			if next.IsValidProof(block.Difficulty) {
				break
			}
			nonce++
		}
		longer = append(longer, next)

		if !db.ReplaceChain(longer) {
			t.Fatalf("\t%s\tShould adopt a strictly longer valid candidate chain.", failed)
		}
		t.Logf("\t%s\tShould adopt a strictly longer valid candidate chain.", success)

		if db.Height() != 3 {
			t.Fatalf("\t%s\tShould reflect the adopted chain's height, got %d.", failed, db.Height())
		}
		t.Logf("\t%s\tShould reflect the adopted chain's height.", success)
	}
}
