// Package appcmd wires the daemon's four concurrent subsystems
// together under one cobra root command, in the style of the
// teacher's command-tree convention (backend/torrent/cmd/backend.go).
package appcmd

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zoro-99/crbl-logger/internal/config"
	"github.com/zoro-99/crbl-logger/internal/discovery"
	"github.com/zoro-99/crbl-logger/internal/httpapi"
	"github.com/zoro-99/crbl-logger/internal/indexer"
	"github.com/zoro-99/crbl-logger/internal/logging"
	"github.com/zoro-99/crbl-logger/internal/metrics"
	"github.com/zoro-99/crbl-logger/internal/netutil"
)

// Root builds the "crbl-logger" root command.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crbl-logger",
		Short: "Federated log-tail daemon",
		Long: `crbl-logger runs one node of a federated log-tail cluster: it
announces itself over IP multicast, discovers its peers, indexes their
log files, and serves /log (tail + filter, with cluster-wide routing)
and /ls (local or cluster-wide listing) over HTTP.`,
	}

	cfg := config.Register(cmd.Flags())

	cmd.RunE = func(*cobra.Command, []string) error {
		return run(cmd.Context(), cfg)
	}

	return cmd
}

// run wires and starts the four subsystems, blocking until ctx is
// cancelled (SIGINT/SIGTERM) or one of them returns a fatal error.
func run(ctx context.Context, cfg *config.Config) error {
	cfg.Normalize()

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log := logging.New(level)

	self, err := netutil.Self()
	if err != nil {
		return fmt.Errorf("self-identify: %w", err)
	}
	selfPeer := discovery.Peer{Host: self.Host, IP: self.IP, Port: cfg.Port}
	log.Infof("main", "starting as %s (%s) on port %d, log root %s", self.Host, self.IP, cfg.Port, cfg.LogPath)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	table := discovery.NewTable(cfg.PeerTTL)

	var m *metrics.Metrics
	if cfg.MetricsAddr != "" {
		m = metrics.New()
	}

	announcer := discovery.NewAnnouncer(discovery.AnnouncerConfig{
		Group:    cfg.MulticastGroup,
		Port:     cfg.MulticastPort,
		HTTPPort: cfg.Port,
		Interval: cfg.AnnounceInterval,
	}, self, log)

	listener := discovery.NewListener(discovery.ListenerConfig{
		Group: cfg.MulticastGroup,
		Port:  cfg.MulticastPort,
	}, table, log)

	ix := indexer.New(table, cfg.PollInterval, cfg.PeerTimeout, log, m)

	apiServer := httpapi.New(cfg.LogPath, selfPeer, ix, cfg.StrictStatus, m, log)

	httpServer := &http.Server{
		Addr:    net.JoinHostPort("", strconv.Itoa(cfg.Port)),
		Handler: apiServer.Router(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return announcer.Run(gctx) })
	g.Go(func() error { return listener.Run(gctx) })
	g.Go(func() error { return ix.Run(gctx) })

	g.Go(func() error {
		log.Infof("http", "listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if m != nil {
		metricsServer := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsMux(m)}
		g.Go(func() error {
			log.Infof("metrics", "listening on %s", cfg.MetricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return metricsServer.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

func metricsMux(m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return mux
}
