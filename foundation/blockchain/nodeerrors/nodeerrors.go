// Package nodeerrors provides the behavioral error-kind taxonomy for the
// peer-to-peer node. It is the wire/consensus analogue of the teacher's
// business/web/errs.Trusted: a typed wrapper that lets a caller ask "how
// should I react to this?" without string-matching an error message.
package nodeerrors

import "errors"

// Kind classifies an error by the policy that should be applied to it, not
// by its exact cause.
type Kind int

const (
	// InvalidFrame covers short length prefixes, bad UTF-8, and malformed
	// JSON at the framing layer.
	InvalidFrame Kind = iota
	// InvalidPayload covers a well-formed envelope with a missing field,
	// wrong shape, or an unknown type discriminator.
	InvalidPayload
	// RejectedTransaction covers a duplicate id or a non-positive value.
	RejectedTransaction
	// RejectedBlock covers a bad index, bad link, bad proof, or hash
	// mismatch.
	RejectedBlock
	// PeerUnreachable covers a dial, connect, or write failure.
	PeerUnreachable
	// SyncTimeout covers a sync aggregation window closing with no (or an
	// incomplete) response from a peer.
	SyncTimeout
	// Internal covers a programmer error that should not have happened.
	Internal
)

func (k Kind) String() string {
	switch k {
	case InvalidFrame:
		return "InvalidFrame"
	case InvalidPayload:
		return "InvalidPayload"
	case RejectedTransaction:
		return "RejectedTransaction"
	case RejectedBlock:
		return "RejectedBlock"
	case PeerUnreachable:
		return "PeerUnreachable"
	case SyncTimeout:
		return "SyncTimeout"
	case Internal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Kinded wraps an error with the Kind that determines how it should be
// handled: every kind but Internal is tolerated and only logged.
type Kinded struct {
	Kind Kind
	Err  error
}

// New wraps err with the given kind.
func New(kind Kind, err error) error {
	return &Kinded{Kind: kind, Err: err}
}

// Error implements the error interface: the kind's name followed by the
// wrapped error's message.
func (k *Kinded) Error() string {
	return k.Kind.String() + ": " + k.Err.Error()
}

// Unwrap supports errors.Is / errors.As against the wrapped cause.
func (k *Kinded) Unwrap() error {
	return k.Err
}

// KindOf extracts the Kind from err, defaulting to Internal if err was not
// produced by this package.
func KindOf(err error) Kind {
	var k *Kinded
	if errors.As(err, &k) {
		return k.Kind
	}
	return Internal
}

// Tolerable reports whether the node should simply log and continue rather
// than treat the error as a programmer bug.
func Tolerable(err error) bool {
	return KindOf(err) != Internal
}
