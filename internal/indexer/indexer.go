// Package indexer implements the peer-polling indexer (spec.md §4.3):
// on a fixed cadence it snapshots the Peer Table, scrapes each peer's
// /ls listing, and republishes the File Index and Peer Files maps.
// Replacement is atomic per cycle (publish-then-swap, per spec.md §5)
// using atomic.Pointer, matching spec.md §9's "shared mutable maps"
// disposition note.
package indexer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/zoro-99/crbl-logger/internal/discovery"
	"github.com/zoro-99/crbl-logger/internal/logging"
)

// FileIndex maps a flat filename to the peer serving it. Last writer
// wins within a cycle, per spec.md §3 — no conflict resolution is
// attempted when two peers serve the same filename.
type FileIndex map[string]discovery.Peer

// PeerFiles maps a peer's "ip:port" key to the filenames its last
// successful /ls reported, used for cluster-wide listings.
type PeerFiles map[string][]string

// CycleObserver receives per-cycle metrics; implementations must
// tolerate a nil receiver (see internal/metrics.Metrics).
type CycleObserver interface {
	ObserveIndexerCycle(duration time.Duration, peerCount, fileCount, droppedCount int)
}

// Indexer holds the currently published File Index and Peer Files,
// refreshed once per PollInterval.
type Indexer struct {
	table    *discovery.Table
	client   *http.Client
	interval time.Duration
	log      *logging.Logger
	observer CycleObserver

	fileIndex atomic.Pointer[FileIndex]
	peerFiles atomic.Pointer[PeerFiles]
}

// New builds an Indexer against table, polling each peer with the
// given per-peer timeout.
func New(table *discovery.Table, interval, peerTimeout time.Duration, log *logging.Logger, observer CycleObserver) *Indexer {
	ix := &Indexer{
		table:    table,
		client:   &http.Client{Timeout: peerTimeout},
		interval: interval,
		log:      log,
		observer: observer,
	}
	emptyFI := FileIndex{}
	emptyPF := PeerFiles{}
	ix.fileIndex.Store(&emptyFI)
	ix.peerFiles.Store(&emptyPF)
	return ix
}

// Run polls every interval until ctx is cancelled, per spec.md §4.3.
func (ix *Indexer) Run(ctx context.Context) error {
	ticker := time.NewTicker(ix.interval)
	defer ticker.Stop()

	ix.log.Infof("indexer", "polling peers every %s", ix.interval)

	for {
		select {
		case <-ctx.Done():
			ix.log.Infof("indexer", "shutting down")
			return nil
		case <-ticker.C:
			ix.cycle(ctx)
		}
	}
}

// cycle runs one full poll-and-publish round.
func (ix *Indexer) cycle(ctx context.Context) {
	started := time.Now()
	snapshot := ix.table.Snapshot()

	newFileIndex := make(FileIndex, len(snapshot))
	newPeerFiles := make(PeerFiles, len(snapshot))

	var errs *multierror.Error
	dropped := 0

	for key, peer := range snapshot {
		files, err := ix.pollPeer(ctx, peer)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("peer %s: %w", key, err))
			dropped++
			continue
		}
		newPeerFiles[key] = files
		for _, file := range files {
			newFileIndex[file] = peer
		}
	}

	ix.fileIndex.Store(&newFileIndex)
	ix.peerFiles.Store(&newPeerFiles)

	if errs.ErrorOrNil() != nil {
		ix.log.Debugf("indexer", "cycle dropped %d peer(s): %v", dropped, errs)
	}

	if ix.observer != nil {
		ix.observer.ObserveIndexerCycle(time.Since(started), len(snapshot), len(newFileIndex), dropped)
	}
}

// pollPeer issues GET /ls against peer with a text/plain Accept
// header and parses the whitespace-separated file list, per
// spec.md §4.3.
func (ix *Indexer) pollPeer(ctx context.Context, peer discovery.Peer) ([]string, error) {
	url := fmt.Sprintf("http://%s/ls", peer.Key())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := ix.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return strings.Fields(string(body)), nil
}

// Lookup returns the peer currently indexed as serving filename, if any.
func (ix *Indexer) Lookup(filename string) (discovery.Peer, bool) {
	fi := *ix.fileIndex.Load()
	peer, ok := fi[filename]
	return peer, ok
}

// PeerFilesSnapshot returns the currently published Peer Files map,
// used to serve cluster-wide /ls requests.
func (ix *Indexer) PeerFilesSnapshot() PeerFiles {
	return *ix.peerFiles.Load()
}
