// Package web serves the moodlog JSON API over HTTP on a local address.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/corey/moodlog/internal/domain/analyzer"
	"github.com/corey/moodlog/internal/domain/keyword"
	"github.com/corey/moodlog/internal/domain/series"
	"github.com/corey/moodlog/internal/ports"
)

const (
	maxBodyBytes   = 1 << 20
	maxImportBytes = 32 << 20
)

// Journal is the application service the handlers call.
type Journal interface {
	Analyzer() *analyzer.Analyzer
	Analyze(text string) analyzer.Analysis
	Highlight(text string, keywords []string) []keyword.Segment
	Write(ctx context.Context, text, day string) (*ports.Entry, error)
	Edit(ctx context.Context, id, text string) (*ports.Entry, error)
	Entry(id string) (*ports.Entry, error)
	History(day string) ([]*ports.Entry, error)
	Delete(id string) error
	Calendar() (map[string]ports.Label, error)
	Stats(days int) (series.RangeStats, error)
	SentimentSeries(days int) (series.TimeSeries, error)
	WordSeries(days int) (series.WordSeries, error)
	Export() (*ports.Snapshot, error)
	Import(snap *ports.Snapshot) error
}

// Server serves the JSON API over HTTP.
type Server struct {
	journal  Journal
	log      logrus.FieldLogger
	listener net.Listener
	httpSrv  *http.Server
	port     int
	started  time.Time
	stopOnce sync.Once

	portFilePath string // ~/.moodlog/run/http.port
}

// NewServer creates an HTTP server for the API.
// The portFilePath is where the bound port is written for discovery.
func NewServer(journal Journal, log logrus.FieldLogger, portFilePath string) *Server {
	return &Server{
		journal:      journal,
		log:          log,
		portFilePath: portFilePath,
		started:      time.Now(),
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/highlight", s.handleHighlight)
	mux.HandleFunc("GET /api/entries", s.handleListEntries)
	mux.HandleFunc("POST /api/entries", s.handleCreateEntry)
	mux.HandleFunc("GET /api/entries/{id}", s.handleGetEntry)
	mux.HandleFunc("PATCH /api/entries/{id}", s.handleEditEntry)
	mux.HandleFunc("DELETE /api/entries/{id}", s.handleDeleteEntry)
	mux.HandleFunc("GET /api/moods", s.handleMoods)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/series/sentiment", s.handleSentimentSeries)
	mux.HandleFunc("GET /api/series/words", s.handleWordSeries)
	mux.HandleFunc("GET /api/export", s.handleExport)
	mux.HandleFunc("POST /api/import", s.handleImport)
	return s.logRequests(mux)
}

// Start begins listening on addr:port (port 0 picks a free one) and writes
// the bound port to the port file.
func (s *Server) Start(addr string, port int) error {
	hostPort := net.JoinHostPort(addr, strconv.Itoa(port))
	ln, err := net.Listen("tcp", hostPort)
	if err != nil {
		return fmt.Errorf("listen %s: %w", hostPort, err)
	}
	s.listener = ln
	s.port = ln.Addr().(*net.TCPAddr).Port
	s.started = time.Now()

	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Write port file for discovery
	if s.portFilePath != "" {
		if err := os.WriteFile(s.portFilePath, []byte(strconv.Itoa(s.port)), 0644); err != nil {
			s.log.WithError(err).Warn("write port file")
		}
	}

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("http server stopped")
		}
	}()
	s.log.WithField("url", s.URL()).Info("http server listening")
	return nil
}

// Stop gracefully shuts down the HTTP server. Idempotent.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.httpSrv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.httpSrv.Shutdown(ctx)
		}
		if s.portFilePath != "" {
			os.Remove(s.portFilePath)
		}
	})
}

// Port returns the bound port number.
func (s *Server) Port() int {
	return s.port
}

// URL returns the API base URL.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.port)
}

// statusRecorder captures the response code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).Round(time.Microsecond).String(),
		}).Debug("request")
	})
}
