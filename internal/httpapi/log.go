package httpapi

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zoro-99/crbl-logger/internal/filter"
	"github.com/zoro-99/crbl-logger/internal/metrics"
	"github.com/zoro-99/crbl-logger/internal/tail"
)

// handleLog serves GET /log, per spec.md §4.4 "GET /log".
func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	fn := q.Get("fn")
	if fn == "" {
		s.writeClientError(w, http.StatusBadRequest, "a filename is required\n")
		s.metrics.ObserveLogRequest(metrics.OutcomeBadRequest)
		return
	}
	if strings.ContainsAny(fn, "/\\") {
		s.writeClientError(w, http.StatusBadRequest, fn+" must be a flat filename\n")
		s.metrics.ObserveLogRequest(metrics.OutcomeBadRequest)
		return
	}

	n := tail.All
	if raw := q.Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.writeClientError(w, http.StatusBadRequest, "n must be an integer\n")
			s.metrics.ObserveLogRequest(metrics.OutcomeBadRequest)
			return
		}
		n = parsed
	}

	rawFtr := q["ftr"]
	clauses := filter.Parse(rawFtr)

	if parseBool(q.Get("r")) {
		if peer, ok := s.idx.Lookup(fn); ok && peer.Key() != s.self.Key() {
			w.Header().Set("Location", redirectLocation(peer.Key(), fn, n, rawFtr))
			w.WriteHeader(http.StatusMovedPermanently)
			s.metrics.ObserveLogRequest(metrics.OutcomeRedirected)
			return
		}
		// Known-local or unknown: fall through and serve locally,
		// per spec.md §4.4's "r" semantics.
	}

	path := filepath.Join(s.logRoot, fn)
	if _, err := os.Stat(path); err != nil {
		s.writeClientError(w, http.StatusNotFound, s.logRoot+fn+" was not found\n")
		s.metrics.ObserveLogRequest(metrics.OutcomeNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Transfer-Encoding", "chunked")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	var flush func()
	if flusher != nil {
		flush = flusher.Flush
	}

	if err := tail.Stream(r.Context(), path, tail.Options{N: n, Clauses: clauses}, w, flush); err != nil {
		s.log.Errorf("http", "stream %s: %v", fn, err)
	}
	s.metrics.ObserveLogRequest(metrics.OutcomeServed)
}

// redirectLocation builds the 301 Location header value, per
// spec.md §6: spaces in filter clauses are replaced with '+'.
func redirectLocation(peerKey, fn string, n int, rawFtr []string) string {
	loc := fmt.Sprintf("http://%s/log?fn=%s&n=%d", peerKey, fn, n)
	for _, clause := range rawFtr {
		loc += "&ftr=" + strings.ReplaceAll(clause, " ", "+")
	}
	return loc
}
