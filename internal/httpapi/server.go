// Package httpapi implements the HTTP front end (spec.md §4.4): /log
// (tail + filter, optionally redirected via the File Index) and /ls
// (local or cluster-wide listing).
package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/zoro-99/crbl-logger/internal/discovery"
	"github.com/zoro-99/crbl-logger/internal/indexer"
	"github.com/zoro-99/crbl-logger/internal/logging"
	"github.com/zoro-99/crbl-logger/internal/metrics"
)

// RoutingIndex is the subset of *indexer.Indexer the HTTP front end
// needs: the routing map for /log redirects and the cluster listing
// for /ls. Kept as an interface so handler tests can stub it without
// spinning up a real polling cycle.
type RoutingIndex interface {
	Lookup(filename string) (discovery.Peer, bool)
	PeerFilesSnapshot() indexer.PeerFiles
}

// Server serves /log and /ls and routes between peers using the
// currently published File Index.
type Server struct {
	logRoot      string
	self         discovery.Peer
	idx          RoutingIndex
	strictStatus bool
	metrics      *metrics.Metrics
	log          *logging.Logger
}

// New builds a Server. logRoot must already carry its trailing slash
// (see config.Config.Normalize).
func New(logRoot string, self discovery.Peer, idx RoutingIndex, strictStatus bool, m *metrics.Metrics, log *logging.Logger) *Server {
	return &Server{
		logRoot:      logRoot,
		self:         self,
		idx:          idx,
		strictStatus: strictStatus,
		metrics:      m,
		log:          log,
	}
}

// Router builds the gorilla/mux router for this server. Unknown paths
// and unsupported methods both fall through to the spec.md §6 wire
// message, at 200 regardless of --strict-status — that message is a
// generic catch-all, not one of the §7 error kinds --strict-status
// redesigns.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware)
	r.HandleFunc("/log", s.handleLog).Methods(http.MethodGet)
	r.HandleFunc("/ls", s.handleLs).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(s.handleUnmatched)
	r.MethodNotAllowedHandler = http.HandlerFunc(s.handleUnmatched)
	return r
}

func (s *Server) handleUnmatched(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(r.URL.Path + " method not allowed for the requested URL.\n"))
}

// writeClientError writes a plain-text error body. The status code is
// 200 unless --strict-status is set, in which case strictCode is used
// (spec.md §9's flagged redesign).
func (s *Server) writeClientError(w http.ResponseWriter, strictCode int, msg string) {
	code := http.StatusOK
	if s.strictStatus {
		code = strictCode
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(msg))
}

// loggingMiddleware tags each request with a request id and logs its
// method, path, and latency at debug level — an ambient addition
// (SPEC_FULL.md §4.13), not part of the wire protocol.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		started := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debugf("http", "[%s] %s %s (%s)", id, r.Method, r.URL.Path, time.Since(started))
	})
}

// parseBool matches the Python original's `.lower() in {"t", "true"}`
// case-insensitive check, so query values like "tRue" parse the same
// as "true" instead of silently reading false.
func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "t", "true":
		return true
	default:
		return false
	}
}
