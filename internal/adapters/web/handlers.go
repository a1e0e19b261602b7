package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/corey/moodlog/internal/domain/keyword"
	"github.com/corey/moodlog/internal/domain/series"
	"github.com/corey/moodlog/internal/ports"
)

// HealthResult is the body of GET /api/health.
type HealthResult struct {
	Status     string `json:"status"`
	Uptime     string `json:"uptime"`
	Dictionary string `json:"dictionary"`
	Keys       int    `json:"keys"`
	Synonyms   int    `json:"synonyms"`
	Indexed    bool   `json:"indexed"`
}

// TextRequest is the body of POST /api/analyze and PATCH /api/entries/{id}.
type TextRequest struct {
	Text string `json:"text"`
}

// HighlightRequest is the body of POST /api/highlight. Keywords are
// extracted from Text when omitted.
type HighlightRequest struct {
	Text     string   `json:"text"`
	Keywords []string `json:"keywords"`
}

// HighlightResult is the body returned by POST /api/highlight.
type HighlightResult struct {
	Segments []keyword.Segment `json:"segments"`
}

// EntryRequest is the body of POST /api/entries. Date is YYYY-MM-DD; empty
// means today.
type EntryRequest struct {
	Text string `json:"text"`
	Date string `json:"date"`
}

// EntriesResult is the body of GET /api/entries.
type EntriesResult struct {
	Entries []*ports.Entry `json:"entries"`
	Count   int            `json:"count"`
}

// MoodsResult is the body of GET /api/moods.
type MoodsResult struct {
	MoodColors map[string]ports.Label `json:"moodColors"`
}

// ImportResult is the body returned by POST /api/import.
type ImportResult struct {
	Entries    int `json:"entries"`
	MoodColors int `json:"moodColors"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code: 404 for unknown ids, 400 for bad
// input, 500 otherwise.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ports.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ports.ErrInvalid):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ports.ErrInvalid}, args...)...)
}

func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("decode body: %v", err)
	}
	return nil
}

// daysParam reads ?days=N. Missing means 0, which selects the default window.
func daysParam(r *http.Request) (int, error) {
	v := r.URL.Query().Get("days")
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, badRequest("days must be a non-negative integer, got %q", v)
	}
	if n > series.MaxDays {
		return 0, badRequest("days must be at most %d, got %d", series.MaxDays, n)
	}
	return n, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	a := s.journal.Analyzer()
	stats := a.Dictionary().Stats()
	writeJSON(w, http.StatusOK, HealthResult{
		Status:     "ok",
		Uptime:     time.Since(s.started).Round(time.Second).String(),
		Dictionary: a.Source(),
		Keys:       stats.Keys,
		Synonyms:   stats.Synonyms,
		Indexed:    a.Indexed(),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := decodeBody(w, r, maxBodyBytes, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.journal.Analyze(req.Text))
}

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	var req HighlightRequest
	if err := decodeBody(w, r, maxBodyBytes, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, HighlightResult{Segments: s.journal.Highlight(req.Text, req.Keywords)})
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.journal.History(r.URL.Query().Get("date"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []*ports.Entry{}
	}
	writeJSON(w, http.StatusOK, EntriesResult{Entries: entries, Count: len(entries)})
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req EntryRequest
	if err := decodeBody(w, r, maxBodyBytes, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := s.journal.Write(r.Context(), req.Text, req.Date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	e, err := s.journal.Entry(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleEditEntry(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := decodeBody(w, r, maxBodyBytes, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := s.journal.Edit(r.Context(), r.PathValue("id"), req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.journal.Delete(r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoods(w http.ResponseWriter, r *http.Request) {
	moods, err := s.journal.Calendar()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MoodsResult{MoodColors: moods})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	days, err := daysParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	stats, err := s.journal.Stats(days)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleSentimentSeries(w http.ResponseWriter, r *http.Request) {
	days, err := daysParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ts, err := s.journal.SentimentSeries(days)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func (s *Server) handleWordSeries(w http.ResponseWriter, r *http.Request) {
	days, err := daysParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ws, err := s.journal.WordSeries(days)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	snap, err := s.journal.Export()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	name := fmt.Sprintf("moodlog-%s.json", snap.ExportDate.Format(ports.DayLayout))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var snap ports.Snapshot
	if err := decodeBody(w, r, maxImportBytes, &snap); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.journal.Import(&snap); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ImportResult{Entries: len(snap.Entries), MoodColors: len(snap.MoodColors)})
}
