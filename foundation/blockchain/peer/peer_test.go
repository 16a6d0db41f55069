package peer_test

import (
	"testing"

	"github.com/meshchain/node/foundation/blockchain/peer"
)

const (
	success = "✓"
	failed  = "✗"
)

func TestSelfNeverAdmitted(t *testing.T) {
	t.Log("Given the need to never track a node's own address as a peer.")
	{
		table := peer.NewTable("me:9000")

		if table.Add("me:9000") {
			t.Fatalf("\t%s\tShould refuse to add the local node's own address.", failed)
		}
		t.Logf("\t%s\tShould refuse to add the local node's own address.", success)
	}
}

func TestQuarantineLifecycle(t *testing.T) {
	t.Log("Given the need to quarantine and recover an unreliable peer.")
	{
		table := peer.NewTable("me:9000")
		table.Add("peer:9001")

		for i := 0; i < peer.QuarantineThreshold; i++ {
			table.MarkFailure("peer:9001")
		}

		broadcastable := table.Broadcastable()
		for _, addr := range broadcastable {
			if addr == "peer:9001" {
				t.Fatalf("\t%s\tShould exclude a quarantined peer from broadcast.", failed)
			}
		}
		t.Logf("\t%s\tShould exclude a quarantined peer from broadcast.", success)

		if !table.Has("peer:9001") {
			t.Fatalf("\t%s\tShould retain a quarantined peer in the table.", failed)
		}
		t.Logf("\t%s\tShould retain a quarantined peer in the table.", success)

		table.MarkSuccess("peer:9001")

		found := false
		for _, addr := range table.Broadcastable() {
			if addr == "peer:9001" {
				found = true
			}
		}
		if !found {
			t.Fatalf("\t%s\tShould restore a recovered peer to broadcast.", failed)
		}
		t.Logf("\t%s\tShould restore a recovered peer to broadcast.", success)
	}
}

func TestMaxPeersBound(t *testing.T) {
	t.Log("Given the need to bound the peer table size.")
	{
		table := peer.NewTable("me:9000")
		for i := 0; i < peer.MaxPeers; i++ {
			table.Add(addrN(i))
		}

		if table.Add("overflow:1") {
			t.Fatalf("\t%s\tShould refuse a new peer when the table is full and nothing is quarantined.", failed)
		}
		t.Logf("\t%s\tShould refuse a new peer when the table is full and nothing is quarantined.", success)

		if table.Len() != peer.MaxPeers {
			t.Fatalf("\t%s\tShould never exceed MaxPeers entries, got %d.", failed, table.Len())
		}
		t.Logf("\t%s\tShould never exceed MaxPeers entries.", success)
	}
}

func addrN(i int) string {
	return "peer" + string(rune('a'+i)) + ":9000"
}
