// Package transaction represents the value object exchanged between wallets
// on the ledger. Transactions carry no cryptographic identity: origin and
// destination are opaque strings, and uniqueness is entirely a function of
// the id field.
package transaction

import (
	"github.com/google/uuid"
)

// Coinbase is the reserved origin address used for mining reward payouts.
const Coinbase = "coinbase"

// Transaction represents a single transfer of value from one address to
// another. Two transactions with the same ID are duplicates of each other
// regardless of any other field.
type Transaction struct {
	ID        string  `json:"id" validate:"required"`
	Origem    string  `json:"origem" validate:"required"`
	Destino   string  `json:"destino" validate:"required"`
	Valor     float64 `json:"valor" validate:"gte=0"`
	Timestamp float64 `json:"timestamp"`
}

// New constructs a transaction with a freshly generated id.
func New(origem, destino string, valor, timestamp float64) Transaction {
	return Transaction{
		ID:        uuid.New().String(),
		Origem:    origem,
		Destino:   destino,
		Valor:     valor,
		Timestamp: timestamp,
	}
}

// Reconstruct builds a transaction from wire/storage data that already
// carries its own id, such as one received from a peer.
func Reconstruct(id, origem, destino string, valor, timestamp float64) Transaction {
	return Transaction{
		ID:        id,
		Origem:    origem,
		Destino:   destino,
		Valor:     valor,
		Timestamp: timestamp,
	}
}

// NewCoinbase constructs the mining-reward transaction that must be the
// first transaction of any non-genesis block.
func NewCoinbase(minerAddress string, reward, timestamp float64) Transaction {
	return New(Coinbase, minerAddress, reward, timestamp)
}

// IsCoinbase reports whether this transaction is a mining reward payout.
func (tx Transaction) IsCoinbase() bool {
	return tx.Origem == Coinbase
}

// Canonical returns the transaction as a map with sorted keys, suitable for
// embedding inside a block's canonical hash body. encoding/json marshals
// map[string]any values with their keys sorted lexicographically, which is
// exactly what the wire hashing rule requires.
func (tx Transaction) Canonical() map[string]any {
	return map[string]any{
		"id":        tx.ID,
		"origem":    tx.Origem,
		"destino":   tx.Destino,
		"valor":     tx.Valor,
		"timestamp": tx.Timestamp,
	}
}
