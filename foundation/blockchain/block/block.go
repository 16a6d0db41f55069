// Package block implements the header+body value object that makes up the
// chain, its canonical hashing rule, and the proof-of-work predicate.
package block

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/meshchain/node/foundation/blockchain/transaction"
)

// Difficulty is the fixed hex-prefix a valid block hash must begin with.
// This domain runs no difficulty adjustment: it is a hard-coded constant.
const Difficulty = "000"

// ZeroHash is the 64 zero-character previous-hash used by the genesis block.
const ZeroHash = "0000000000000000000000000000000000000000000000000000000000000000"

// Block represents one entry in the chain: a header of chain-linking and
// mining metadata plus the ordered list of transactions it settles.
type Block struct {
	Index        uint64                    `json:"index"`
	PreviousHash string                    `json:"previous_hash"`
	Transactions []transaction.Transaction `json:"transactions"`
	Nonce        uint64                    `json:"nonce"`
	Timestamp    float64                   `json:"timestamp"`
	Hash         string                    `json:"hash"`
}

// New constructs a block and computes its hash from the given fields. It is
// used for freshly mined blocks; data that already carries a claimed hash
// goes through Reconstruct instead.
func New(index uint64, previousHash string, transactions []transaction.Transaction, nonce uint64, timestamp float64) Block {
	b := Block{
		Index:        index,
		PreviousHash: previousHash,
		Transactions: transactions,
		Nonce:        nonce,
		Timestamp:    timestamp,
	}
	b.Hash = b.ComputeHash()
	return b
}

// Reconstruct builds a block from wire/storage data that already carries a
// claimed hash, without recomputing it. Callers must validate the hash
// separately (see IsValidProof) before trusting the block.
func Reconstruct(index uint64, previousHash string, transactions []transaction.Transaction, nonce uint64, timestamp float64, hash string) Block {
	return Block{
		Index:        index,
		PreviousHash: previousHash,
		Transactions: transactions,
		Nonce:        nonce,
		Timestamp:    timestamp,
		Hash:         hash,
	}
}

// canonicalBody returns the map that is hashed to produce the block's hash:
// every header field except the hash itself, plus each transaction rendered
// through its own canonical mapping. encoding/json sorts map string keys
// lexicographically, at every nesting level, which is what the wire format's
// "recursively sorted keys" hashing rule requires.
func (b Block) canonicalBody() map[string]any {
	trans := make([]map[string]any, len(b.Transactions))
	for i, tx := range b.Transactions {
		trans[i] = tx.Canonical()
	}

	return map[string]any{
		"index":         b.Index,
		"previous_hash": b.PreviousHash,
		"transactions":  trans,
		"nonce":         b.Nonce,
		"timestamp":     b.Timestamp,
	}
}

// ComputeHash returns the hex digest of SHA-256 applied to the canonical
// JSON encoding of the block body (everything except the hash field).
func (b Block) ComputeHash() string {
	data, err := json.Marshal(b.canonicalBody())
	if err != nil {
		// canonicalBody is built entirely from JSON-marshalable primitives;
		// a marshal failure here would be a programmer error, not a runtime
		// condition callers can meaningfully recover from.
		panic("block: canonical body failed to marshal: " + err.Error())
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// IsValidProof reports whether the block's stored hash satisfies the
// difficulty prefix and matches a fresh recomputation.
func (b Block) IsValidProof(difficulty string) bool {
	if len(b.Hash) < len(difficulty) {
		return false
	}
	if b.Hash[:len(difficulty)] != difficulty {
		return false
	}
	return b.Hash == b.ComputeHash()
}
