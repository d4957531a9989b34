// Package discovery implements the multicast peer-discovery layer:
// the Announcer that makes this node discoverable, the Listener that
// builds the Peer Table from received announcements, and the Peer
// Table itself.
package discovery

import (
	"net"
	"strconv"
)

// Peer is one node's announced identity. Key() is its identity key,
// and the Peer Table invariant (spec.md §8) is that every table entry
// is stored under exactly this key.
type Peer struct {
	Host string `json:"host"`
	IP   string `json:"ip"`
	Port int    `json:"port"`
}

// Key returns the "ip:port" identity key for this peer.
func (p Peer) Key() string {
	return net.JoinHostPort(p.IP, strconv.Itoa(p.Port))
}
