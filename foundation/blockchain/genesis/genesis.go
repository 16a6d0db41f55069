// Package genesis provides the single, network-wide fixed starting block
// every conforming peer must agree on byte-for-byte. Unlike the teacher's
// genesis package, nothing here is loaded from a file: the genesis block is
// a hard-coded wire constant, not a per-deployment configuration artifact.
package genesis

import (
	"github.com/meshchain/node/foundation/blockchain/block"
	"github.com/meshchain/node/foundation/blockchain/transaction"
)

// Hash is the mandatory, byte-for-byte genesis block hash. Every
// implementation of this protocol must produce this exact value; it is not
// computed at runtime.
const Hash = "816534932c2b7154836da6afc367695e6337db8a921823784c14378abed4f7d7"

// Block returns the fixed genesis block. No hashing computation is
// performed: the hash is the published wire constant.
func Block() block.Block {
	return block.Reconstruct(0, block.ZeroHash, []transaction.Transaction{}, 0, 0, Hash)
}
