package discovery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTableUpsertOverwritesLastSeenWins(t *testing.T) {
	table := NewTable(0)

	table.Upsert(Peer{Host: "a", IP: "10.0.0.1", Port: 7777})
	table.Upsert(Peer{Host: "a-renamed", IP: "10.0.0.1", Port: 7777})

	snap := table.Snapshot()
	assert.Len(t, snap, 1)
	assert.Equal(t, "a-renamed", snap["10.0.0.1:7777"].Host)
}

func TestTableKeyInvariant(t *testing.T) {
	table := NewTable(0)
	table.Upsert(Peer{Host: "a", IP: "10.0.0.1", Port: 7777})
	table.Upsert(Peer{Host: "b", IP: "10.0.0.2", Port: 8888})

	for key, peer := range table.Snapshot() {
		assert.Equal(t, key, peer.Key())
	}
	assert.Equal(t, 2, table.Len())
}

func TestTableEvictsAfterTTL(t *testing.T) {
	table := NewTable(20 * time.Millisecond)
	table.Upsert(Peer{Host: "a", IP: "10.0.0.1", Port: 7777})
	assert.Equal(t, 1, table.Len())

	time.Sleep(40 * time.Millisecond)

	_, found := table.Snapshot()["10.0.0.1:7777"]
	assert.False(t, found)
}
