package httpapi

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// handleLs serves GET /ls, per spec.md §4.4 "GET /ls".
func (s *Server) handleLs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	accept := acceptOrDefault(r.Header.Get("Accept"))

	if parseBool(q.Get("g")) {
		s.serveClusterLs(w, accept)
		return
	}
	s.serveLocalLs(w, accept, q.Get("fn"))
}

// acceptOrDefault maps a missing header or "*/*" to the text/plain
// default spec.md §4.4 specifies.
func acceptOrDefault(accept string) string {
	if accept == "" || accept == "*/*" {
		return "text/plain"
	}
	return accept
}

type localLsPayload struct {
	Host  string   `json:"host"`
	IP    string   `json:"ip"`
	Port  int      `json:"port"`
	Files []string `json:"files"`
}

func (s *Server) serveLocalLs(w http.ResponseWriter, accept, fn string) {
	dir := filepath.Join(s.logRoot, fn)
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.writeClientError(w, http.StatusNotFound, dir+" was not found\n")
		return
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	switch accept {
	case "application/json":
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(localLsPayload{
			Host: s.self.Host, IP: s.self.IP, Port: s.self.Port, Files: names,
		})
	case "text/plain":
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("Transfer-Encoding", "chunked")
		w.WriteHeader(http.StatusOK)
		flusher, _ := w.(http.Flusher)
		for _, name := range names {
			_, _ = io.WriteString(w, name+" ")
			if flusher != nil {
				flusher.Flush()
			}
		}
	default:
		// Unsupported Accept: log and produce no useful body, per spec.md §7.
		s.log.Errorf("http", "unsupported Accept %q for /ls", accept)
	}
}

type clusterLsEntry struct {
	IP    string   `json:"ip"`
	Port  int      `json:"port"`
	Files []string `json:"files"`
}

func (s *Server) serveClusterLs(w http.ResponseWriter, accept string) {
	peerFiles := s.idx.PeerFilesSnapshot()

	switch accept {
	case "application/json":
		out := make([]clusterLsEntry, 0, len(peerFiles))
		for key, files := range peerFiles {
			ip, portStr, err := net.SplitHostPort(key)
			if err != nil {
				continue
			}
			port, err := strconv.Atoi(portStr)
			if err != nil {
				continue
			}
			out = append(out, clusterLsEntry{IP: ip, Port: port, Files: files})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	case "text/plain":
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("Transfer-Encoding", "chunked")
		w.WriteHeader(http.StatusOK)
		flusher, _ := w.(http.Flusher)
		for key, files := range peerFiles {
			_, _ = io.WriteString(w, key+":\n")
			for _, f := range files {
				_, _ = io.WriteString(w, f+"\n")
			}
			_, _ = io.WriteString(w, "\n")
			if flusher != nil {
				flusher.Flush()
			}
		}
	default:
		s.log.Errorf("http", "unsupported Accept %q for cluster /ls", accept)
	}
}
