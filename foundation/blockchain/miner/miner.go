// Package miner implements the parallel proof-of-work search. Unlike the
// teacher's single-goroutine performPOW, this domain's spec calls for a
// fixed pool of interleaved workers sharing one atomic cancellation flag
// and a single-slot result handoff, so the search here is spread across
// Workers goroutines instead of one.
package miner

import (
	"sync"
	"sync/atomic"

	"github.com/meshchain/node/foundation/blockchain/block"
	"github.com/meshchain/node/foundation/blockchain/transaction"
)

// Workers is the fixed number of interleaved nonce-search goroutines. This
// domain runs no dynamic worker scaling.
const Workers = 4

// Result is what Mine returns: either a finalized block, or Cancelled set
// to true if an external stop request won the race before any worker found
// a solution.
type Result struct {
	Block     block.Block
	Cancelled bool
}

// Stop is the cooperative cancellation flag shared between the Node and the
// mining workers. It is monotone: once set, a mining run never resumes.
// The zero value is ready to use.
type Stop struct {
	flag atomic.Bool
}

// Signal requests cancellation of any mining run sharing this flag.
func (s *Stop) Signal() {
	s.flag.Store(true)
}

// Requested reports whether cancellation has been signaled.
func (s *Stop) Requested() bool {
	return s.flag.Load()
}

// Mine searches for a nonce that satisfies the difficulty prefix for a
// block built from the given skeleton, using Workers goroutines each
// testing a disjoint, interleaved slice of the nonce space: worker i tests
// nonces i, i+Workers, i+2*Workers, and so on. The first worker to find a
// solution wins; every other worker observes stop and exits without ever
// taking a lock on the hot path.
func Mine(index uint64, previousHash string, transactions []transaction.Transaction, timestamp float64, difficulty string, stop *Stop) Result {
	type found struct {
		block block.Block
	}

	winner := make(chan found, 1)
	var wg sync.WaitGroup
	wg.Add(Workers)

	for worker := 0; worker < Workers; worker++ {
		go func(start uint64) {
			defer wg.Done()

			for nonce := start; ; nonce += Workers {
				if stop.Requested() {
					return
				}

				b := block.New(index, previousHash, transactions, nonce, timestamp)
				if b.IsValidProof(difficulty) {
					stop.Signal()
					select {
					case winner <- found{block: b}:
					default:
					}
					return
				}
			}
		}(uint64(worker))
	}

	wg.Wait()

	select {
	case w := <-winner:
		return Result{Block: w.block}
	default:
		return Result{Cancelled: true}
	}
}
