// Package peer maintains the set of known peers and their health, including
// the quarantine state machine used to skip broadcast to unreachable peers
// without forgetting about them. Grounded on the teacher's peer.PeerSet, but
// widened from a bare set into a table of health-tracking entries since this
// domain requires consecutive-failure accounting the teacher's peer package
// does not.
package peer

import (
	"sync"
	"time"
)

// MaxPeers bounds the size of the peer table. New peers are refused once
// this many are already known.
const MaxPeers = 20

// QuarantineThreshold is the number of consecutive failures after which a
// peer is skipped by broadcast, without being forgotten.
const QuarantineThreshold = 3

// Entry represents everything this node tracks about one remote peer.
type Entry struct {
	Address           string
	LastSeen          time.Time
	ConsecutiveErrors int
}

// Quarantined reports whether this entry should be skipped by broadcast.
func (e Entry) Quarantined() bool {
	return e.ConsecutiveErrors >= QuarantineThreshold
}

// Table is the concurrency-safe collection of known peers, keyed by
// "host:port". The local node's own address is never admitted.
type Table struct {
	mu   sync.RWMutex
	self string
	set  map[string]Entry
}

// NewTable constructs an empty table that refuses to ever add self.
func NewTable(self string) *Table {
	return &Table{
		self: self,
		set:  make(map[string]Entry),
	}
}

// Add admits a new peer address if there is room and it isn't this node's
// own address. It reports whether the peer was added or already known.
// If the table is full, the quarantined entry with the most failures is
// evicted first to make room; if none are quarantined, the new peer is
// refused.
func (t *Table) Add(address string) bool {
	if address == "" || address == t.self {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.set[address]; exists {
		return true
	}

	if len(t.set) >= MaxPeers {
		if !t.evictWorstQuarantinedLocked() {
			return false
		}
	}

	t.set[address] = Entry{Address: address, LastSeen: time.Now()}
	return true
}

// evictWorstQuarantinedLocked removes the quarantined peer with the most
// consecutive failures. Callers must hold t.mu. Reports whether a peer was
// evicted.
func (t *Table) evictWorstQuarantinedLocked() bool {
	var worst string
	var worstErrors = -1

	for addr, entry := range t.set {
		if !entry.Quarantined() {
			continue
		}
		if entry.ConsecutiveErrors > worstErrors {
			worst = addr
			worstErrors = entry.ConsecutiveErrors
		}
	}

	if worstErrors < 0 {
		return false
	}

	delete(t.set, worst)
	return true
}

// MarkSuccess resets a peer's failure count and refreshes its last-seen
// time, moving it (if quarantined) back to active.
func (t *Table) MarkSuccess(address string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, exists := t.set[address]
	if !exists {
		return
	}
	entry.ConsecutiveErrors = 0
	entry.LastSeen = time.Now()
	t.set[address] = entry
}

// MarkFailure increments a peer's consecutive failure count, quarantining
// it once the threshold is reached.
func (t *Table) MarkFailure(address string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, exists := t.set[address]
	if !exists {
		return
	}
	entry.ConsecutiveErrors++
	t.set[address] = entry
}

// Has reports whether an address is already known.
func (t *Table) Has(address string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, exists := t.set[address]
	return exists
}

// Len returns the number of known peers.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.set)
}

// All returns a snapshot of every known peer address, active or
// quarantined.
func (t *Table) All() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	addrs := make([]string, 0, len(t.set))
	for addr := range t.set {
		addrs = append(addrs, addr)
	}
	return addrs
}

// Broadcastable returns a snapshot of every known peer address that is not
// currently quarantined. Taken under the lock; the lock is released before
// any caller performs network I/O against the results.
func (t *Table) Broadcastable() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	addrs := make([]string, 0, len(t.set))
	for addr, entry := range t.set {
		if !entry.Quarantined() {
			addrs = append(addrs, addr)
		}
	}
	return addrs
}
