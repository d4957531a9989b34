package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net"

	"golang.org/x/net/ipv4"

	"github.com/zoro-99/crbl-logger/internal/logging"
)

// recvBufferSize is raised from the Python original's 64 bytes to
// 1500 per spec.md §9's explicit recommendation: a 64-byte receive
// buffer truncates any hostname long enough to push the JSON payload
// past it, and the truncated payload then fails to parse.
const recvBufferSize = 1500

// ListenerConfig configures the Listener.
type ListenerConfig struct {
	Group string
	Port  int
}

// Listener joins the multicast group and folds every well-formed
// announcement into the Peer Table, per spec.md §4.2.
type Listener struct {
	cfg   ListenerConfig
	table *Table
	log   *logging.Logger
}

// NewListener builds a Listener writing into table.
func NewListener(cfg ListenerConfig, table *Table, log *logging.Logger) *Listener {
	return &Listener{cfg: cfg, table: table, log: log}
}

// Run joins the multicast group on every multicast-capable interface
// and reads datagrams until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: l.cfg.Port})
	if err != nil {
		return fmt.Errorf("bind multicast listen socket on port %d: %w", l.cfg.Port, err)
	}
	defer conn.Close()

	groupIP := net.ParseIP(l.cfg.Group)
	if groupIP == nil {
		return fmt.Errorf("invalid multicast group %q", l.cfg.Group)
	}

	pc := ipv4.NewPacketConn(conn)
	if err := joinAllInterfaces(pc, groupIP); err != nil {
		return fmt.Errorf("join multicast group %s: %w", l.cfg.Group, err)
	}

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	l.log.Infof("listener", "listening for announcements on group %s port %d", l.cfg.Group, l.cfg.Port)

	buf := make([]byte, recvBufferSize)
	for {
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				l.log.Infof("listener", "shutting down")
				return nil
			}
			l.log.Errorf("listener", "read failed, continuing: %v", err)
			continue
		}

		var p Peer
		if err := json.Unmarshal(buf[:n], &p); err != nil {
			// Malformed payload: drop silently, per spec.md §4.2 and §7.
			continue
		}
		l.table.Upsert(p)
	}
}

// joinAllInterfaces joins the multicast group on every interface that
// supports multicast, since which interface carries the group's
// traffic is deployment-specific and the Python original relied on
// INADDR_ANY to let the kernel pick for it.
func joinAllInterfaces(pc *ipv4.PacketConn, group net.IP) error {
	ifaces, err := net.Interfaces()
	if err != nil {
		return fmt.Errorf("enumerate interfaces: %w", err)
	}

	joined := 0
	for i := range ifaces {
		iface := ifaces[i]
		if iface.Flags&net.FlagMulticast == 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}
		if err := pc.JoinGroup(&iface, &net.UDPAddr{IP: group}); err == nil {
			joined++
		}
	}
	if joined == 0 {
		return fmt.Errorf("no multicast-capable interface joined the group")
	}
	return nil
}
