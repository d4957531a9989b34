package discovery

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Table is the shared Peer Table: written by the Listener, read by
// the Indexer. spec.md §3 states no explicit TTL is enforced on the
// table itself; SPEC_FULL.md §4.9 adds an optional last-seen eviction
// on top of that, backed by github.com/patrickmn/go-cache, off by
// default (ttl == 0) so the documented default behavior — peers never
// expire from the table on their own — is unchanged.
type Table struct {
	c *gocache.Cache
}

// NewTable builds a Peer Table. ttl <= 0 disables eviction entirely,
// matching spec.md §3's default invariant; ttl > 0 evicts a peer that
// hasn't re-announced within that window.
func NewTable(ttl time.Duration) *Table {
	expiration := gocache.NoExpiration
	cleanup := 5 * time.Minute
	if ttl > 0 {
		expiration = ttl
		cleanup = ttl / 2
		if cleanup <= 0 {
			cleanup = time.Second
		}
	}
	return &Table{c: gocache.New(expiration, cleanup)}
}

// Upsert inserts or overwrites a peer, keyed by its own Key() — this
// is how the table's documented invariant (every key matches its
// value's ip:port) is maintained by construction.
func (t *Table) Upsert(p Peer) {
	t.c.SetDefault(p.Key(), p)
}

// Snapshot returns a point-in-time copy of the table, safe for the
// Indexer to iterate without holding any lock shared with the
// Listener.
func (t *Table) Snapshot() map[string]Peer {
	items := t.c.Items()
	out := make(map[string]Peer, len(items))
	for key, item := range items {
		out[key] = item.Object.(Peer)
	}
	return out
}

// Len reports the current table size. The crbl_peer_table_size metric
// is fed from the indexer's snapshot size instead.
func (t *Table) Len() int {
	return t.c.ItemCount()
}
