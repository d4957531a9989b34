package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"time"

	"golang.org/x/net/ipv4"

	"github.com/zoro-99/crbl-logger/internal/logging"
	"github.com/zoro-99/crbl-logger/internal/netutil"
)

// multicastTTL matches the Python original's socket.IP_MULTICAST_TTL
// setting (spec.md §4.1: "multicast TTL >= 32").
const multicastTTL = 32

// AnnouncerConfig configures the Announcer.
type AnnouncerConfig struct {
	Group    string
	Port     int
	HTTPPort int
	Interval time.Duration
}

// Announcer periodically broadcasts this node's identity to the
// multicast group, per spec.md §4.1.
type Announcer struct {
	cfg  AnnouncerConfig
	self netutil.Identity
	log  *logging.Logger
}

// NewAnnouncer builds an Announcer for the given self-identity.
func NewAnnouncer(cfg AnnouncerConfig, self netutil.Identity, log *logging.Logger) *Announcer {
	return &Announcer{cfg: cfg, self: self, log: log}
}

// Run sends one announcement per tick until ctx is cancelled. Send
// errors are logged and retried on the next tick with no backoff,
// exactly as spec.md §4.1 specifies.
func (a *Announcer) Run(ctx context.Context) error {
	groupAddr := net.JoinHostPort(a.cfg.Group, strconv.Itoa(a.cfg.Port))
	raddr, err := net.ResolveUDPAddr("udp4", groupAddr)
	if err != nil {
		return fmt.Errorf("resolve multicast group %s: %w", groupAddr, err)
	}

	conn, err := net.DialUDP("udp4", nil, raddr)
	if err != nil {
		return fmt.Errorf("open multicast send socket: %w", err)
	}
	defer conn.Close()

	pc := ipv4.NewPacketConn(conn)
	if err := pc.SetMulticastTTL(multicastTTL); err != nil {
		return fmt.Errorf("set multicast TTL: %w", err)
	}

	payload, err := json.Marshal(Peer{Host: a.self.Host, IP: a.self.IP, Port: a.cfg.HTTPPort})
	if err != nil {
		return fmt.Errorf("marshal announcement: %w", err)
	}

	a.log.Infof("announcer", "announcing %s every %s to %s", payload, a.cfg.Interval, groupAddr)

	ticker := time.NewTicker(a.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.log.Infof("announcer", "shutting down")
			return nil
		case <-ticker.C:
			if _, err := conn.Write(payload); err != nil {
				a.log.Errorf("announcer", "send failed, will retry next tick: %v", err)
			}
		}
	}
}
