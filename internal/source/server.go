package source

import (
	"bytes"
	"log"
	"net/http"
	"strconv"
	"strings"

	"topowatch/internal/codec"
	"topowatch/internal/metrics"
)

// DefaultPath is the path the snapshot is served at
const DefaultPath = "/data"

// Server answers GET requests for the data path with the repository's
// current snapshot encoded in one wire format. Every other path is a 404.
type Server struct {
	repo    Repository
	codec   codec.Codec
	path    string
	metrics *metrics.Registry
}

// NewServer creates a data endpoint server
func NewServer(repo Repository, format codec.Format, path string, m *metrics.Registry) (*Server, error) {
	if format == codec.FormatAuto || format == "" {
		format = codec.FormatDelta
	}
	c, err := codec.ForFormat(format)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = metrics.DefaultRegistry()
	}
	if path == "" {
		path = DefaultPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return &Server{repo: repo, codec: c, path: path, metrics: m}, nil
}

// Format returns the served wire format
func (s *Server) Format() codec.Format {
	return s.codec.Format()
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	format := string(s.codec.Format())

	if r.URL.Path != s.path {
		s.metrics.RecordSourceRequest(format, strconv.Itoa(http.StatusNotFound))
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		s.metrics.RecordSourceRequest(format, strconv.Itoa(http.StatusMethodNotAllowed))
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap, err := s.repo.Snapshot(r.Context())
	if err != nil {
		log.Printf("Failed to load snapshot: %v", err)
		s.metrics.RecordSourceRequest(format, strconv.Itoa(http.StatusInternalServerError))
		http.Error(w, "Failed to load snapshot", http.StatusInternalServerError)
		return
	}

	// Encode fully before writing so a failure can still become a 500
	var buf bytes.Buffer
	if err := s.codec.Encode(snap, &buf); err != nil {
		log.Printf("Failed to encode snapshot: %v", err)
		s.metrics.RecordSourceRequest(format, strconv.Itoa(http.StatusInternalServerError))
		http.Error(w, "Failed to encode snapshot", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", s.codec.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		if _, err := w.Write(buf.Bytes()); err != nil {
			log.Printf("Failed to write snapshot: %v", err)
		}
	}
	s.metrics.RecordSourceRequest(format, strconv.Itoa(http.StatusOK))
}
