// Package protocol implements the wire framing and message envelope shared
// by every peer on the overlay: a 4-byte big-endian length prefix followed
// by a UTF-8 JSON envelope. The framing shape is grounded on the length-
// prefixed TCP socket found in the wider example corpus (a signed socket
// using a byte-count header before the payload); this domain drops the
// signature suffix since transactions and frames carry no cryptographic
// identity.
package protocol

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/meshchain/node/foundation/blockchain/block"
	"github.com/meshchain/node/foundation/blockchain/nodeerrors"
	"github.com/meshchain/node/foundation/blockchain/transaction"
	"github.com/meshchain/node/foundation/validate"
)

// MaxMessageSize bounds a single frame's payload to guard against resource
// exhaustion from a misbehaving or hostile peer.
const MaxMessageSize = 16 * 1024 * 1024 // 16 MiB

// Type is the message taxonomy discriminator carried in every envelope.
type Type string

// The full message taxonomy this protocol understands.
const (
	NewTransaction Type = "NEW_TRANSACTION"
	NewBlock       Type = "NEW_BLOCK"
	RequestChain   Type = "REQUEST_CHAIN"
	ResponseChain  Type = "RESPONSE_CHAIN"
	Ping           Type = "PING"
	Pong           Type = "PONG"
	DiscoverPeers  Type = "DISCOVER_PEERS"
	PeersList      Type = "PEERS_LIST"
)

var knownTypes = map[Type]bool{
	NewTransaction: true,
	NewBlock:       true,
	RequestChain:   true,
	ResponseChain:  true,
	Ping:           true,
	Pong:           true,
	DiscoverPeers:  true,
	PeersList:      true,
}

// Envelope is the outermost message shape every frame carries.
type Envelope struct {
	Type    Type            `json:"type" validate:"required"`
	Payload json.RawMessage `json:"payload"`
	Sender  string          `json:"sender" validate:"required,hostname_port"`
}

// =============================================================================
// Payload shapes.

// TransactionPayload carries a single transaction for NEW_TRANSACTION.
type TransactionPayload struct {
	Transaction transaction.Transaction `json:"transaction" validate:"required"`
}

// BlockPayload carries a single block for NEW_BLOCK.
type BlockPayload struct {
	Block block.Block `json:"block" validate:"required"`
}

// ChainSnapshot is what RESPONSE_CHAIN carries: a full candidate chain plus
// the sender's pending transactions (gossip hint only; the receiver is not
// required to merge them).
type ChainSnapshot struct {
	Chain               []block.Block             `json:"chain"`
	PendingTransactions []transaction.Transaction `json:"pending_transactions"`
}

// ResponseChainPayload wraps a ChainSnapshot under the "blockchain" key.
type ResponseChainPayload struct {
	Blockchain ChainSnapshot `json:"blockchain"`
}

// PeersListPayload carries known peer addresses for PEERS_LIST.
type PeersListPayload struct {
	Peers []string `json:"peers"`
}

// =============================================================================

// Encode builds a length-prefixed frame for the given envelope.
func Encode(msgType Type, sender string, payload any) ([]byte, error) {
	rawPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, nodeerrors.New(nodeerrors.Internal, fmt.Errorf("marshal payload: %w", err))
	}

	env := Envelope{Type: msgType, Payload: rawPayload, Sender: sender}
	body, err := json.Marshal(env)
	if err != nil {
		return nil, nodeerrors.New(nodeerrors.Internal, fmt.Errorf("marshal envelope: %w", err))
	}

	if len(body) > MaxMessageSize {
		return nil, nodeerrors.New(nodeerrors.Internal, errors.New("protocol: message exceeds max size"))
	}

	frame := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(frame[:4], uint32(len(body)))
	copy(frame[4:], body)

	return frame, nil
}

// WriteFrame writes one length-prefixed envelope to w.
func WriteFrame(w io.Writer, msgType Type, sender string, payload any) error {
	frame, err := Encode(msgType, sender, payload)
	if err != nil {
		return err
	}
	_, err = w.Write(frame)
	if err != nil {
		return nodeerrors.New(nodeerrors.PeerUnreachable, err)
	}
	return nil
}

// ReadFrame reads and decodes one length-prefixed envelope from r. It
// enforces MaxMessageSize and validates the envelope shape, but does not
// validate the payload sub-shape; callers do that once they know the type.
func ReadFrame(r io.Reader) (Envelope, error) {
	var lengthBuf [4]byte
	if _, err := io.ReadFull(r, lengthBuf[:]); err != nil {
		return Envelope{}, nodeerrors.New(nodeerrors.InvalidFrame, fmt.Errorf("read length prefix: %w", err))
	}

	length := binary.BigEndian.Uint32(lengthBuf[:])
	if length > MaxMessageSize {
		return Envelope{}, nodeerrors.New(nodeerrors.InvalidFrame, errors.New("protocol: frame exceeds max size"))
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return Envelope{}, nodeerrors.New(nodeerrors.InvalidFrame, fmt.Errorf("read frame body: %w", err))
	}

	if !utf8.Valid(body) {
		return Envelope{}, nodeerrors.New(nodeerrors.InvalidFrame, errors.New("protocol: frame is not valid UTF-8"))
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, nodeerrors.New(nodeerrors.InvalidFrame, fmt.Errorf("unmarshal envelope: %w", err))
	}

	if !knownTypes[env.Type] {
		return Envelope{}, nodeerrors.New(nodeerrors.InvalidPayload, fmt.Errorf("protocol: unknown message type %q", env.Type))
	}

	if err := validate.Check(env); err != nil {
		return Envelope{}, nodeerrors.New(nodeerrors.InvalidPayload, err)
	}

	return env, nil
}

// DecodePayload unmarshals and validates env.Payload into dst, which must
// be a pointer to one of the Payload types above.
func DecodePayload(env Envelope, dst any) error {
	if err := json.Unmarshal(env.Payload, dst); err != nil {
		return nodeerrors.New(nodeerrors.InvalidPayload, fmt.Errorf("unmarshal payload: %w", err))
	}
	if err := validate.Check(dst); err != nil {
		return nodeerrors.New(nodeerrors.InvalidPayload, err)
	}
	return nil
}
