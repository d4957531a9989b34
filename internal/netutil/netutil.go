// Package netutil provides the node's self-identification utility:
// its hostname and primary IPv4, determined the same way
// original_source/log.py's get_self_ip does — opening a UDP socket
// "connected" to a well-known public address and reading back the
// local endpoint the kernel picked, without ever sending a packet.
package netutil

import (
	"fmt"
	"net"
	"os"
)

// Identity is a node's (hostname, primary IPv4) pair.
type Identity struct {
	Host string
	IP   string
}

// Self resolves this node's identity once. Callers cache the result
// for the process lifetime (SPEC_FULL.md §4.14): the primary interface
// address cannot change without a restart in this deployment model, so
// unlike the Python original there is no need to re-resolve it on
// every announcement tick or every /ls response.
func Self() (Identity, error) {
	conn, err := net.Dial("udp4", "1.1.1.1:1")
	if err != nil {
		return Identity{}, fmt.Errorf("determine primary ipv4: %w", err)
	}
	defer conn.Close()

	udpAddr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return Identity{}, fmt.Errorf("determine primary ipv4: unexpected local address type %T", conn.LocalAddr())
	}

	host, err := os.Hostname()
	if err != nil {
		return Identity{}, fmt.Errorf("determine hostname: %w", err)
	}

	return Identity{Host: host, IP: udpAddr.IP.String()}, nil
}
