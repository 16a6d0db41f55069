package protocol_test

import (
	"bytes"
	"testing"

	"github.com/meshchain/node/foundation/blockchain/protocol"
	"github.com/meshchain/node/foundation/blockchain/transaction"
)

const (
	success = "✓"
	failed  = "✗"
)

func TestRoundTripTransactionFrame(t *testing.T) {
	t.Log("Given the need to frame and unframe a NEW_TRANSACTION message.")
	{
		tx := transaction.Reconstruct("t1", "x", "y", 1, 1)
		var buf bytes.Buffer

		err := protocol.WriteFrame(&buf, protocol.NewTransaction, "127.0.0.1:9000", protocol.TransactionPayload{Transaction: tx})
		if err != nil {
			t.Fatalf("\t%s\tShould encode the frame without error: %s", failed, err)
		}
		t.Logf("\t%s\tShould encode the frame without error.", success)

		env, err := protocol.ReadFrame(&buf)
		if err != nil {
			t.Fatalf("\t%s\tShould decode the frame without error: %s", failed, err)
		}
		t.Logf("\t%s\tShould decode the frame without error.", success)

		if env.Type != protocol.NewTransaction || env.Sender != "127.0.0.1:9000" {
			t.Fatalf("\t%s\tShould preserve type and sender across the wire.", failed)
		}
		t.Logf("\t%s\tShould preserve type and sender across the wire.", success)

		var payload protocol.TransactionPayload
		if err := protocol.DecodePayload(env, &payload); err != nil {
			t.Fatalf("\t%s\tShould decode the payload without error: %s", failed, err)
		}
		t.Logf("\t%s\tShould decode the payload without error.", success)

		if payload.Transaction.ID != "t1" {
			t.Fatalf("\t%s\tShould preserve the transaction id across the wire.", failed)
		}
		t.Logf("\t%s\tShould preserve the transaction id across the wire.", success)
	}
}

func TestUnknownTypeRejected(t *testing.T) {
	t.Log("Given the need to close a connection on an unknown message type.")
	{
		raw := []byte(`{"type":"BOGUS","payload":{},"sender":"127.0.0.1:9000"}`)
		frame := make([]byte, 4+len(raw))
		frame[3] = byte(len(raw))
		copy(frame[4:], raw)

		_, err := protocol.ReadFrame(bytes.NewReader(frame))
		if err == nil {
			t.Fatalf("\t%s\tShould reject a frame carrying an unknown message type.", failed)
		}
		t.Logf("\t%s\tShould reject a frame carrying an unknown message type.", success)
	}
}

func TestTruncatedLengthPrefixRejected(t *testing.T) {
	t.Log("Given the need to reject a truncated length prefix.")
	{
		_, err := protocol.ReadFrame(bytes.NewReader([]byte{0, 0}))
		if err == nil {
			t.Fatalf("\t%s\tShould reject a truncated length prefix.", failed)
		}
		t.Logf("\t%s\tShould reject a truncated length prefix.", success)
	}
}
