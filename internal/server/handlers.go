package server

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"sweepscan/internal/model"
	"sweepscan/internal/report"
	"sweepscan/internal/watchlist"
)

type errorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"json_encoding_failed"}`, http.StatusInternalServerError)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.writeJSON(w, status, errorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		RequestID: requestID(r),
		Timestamp: time.Now().UTC(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"time":           time.Now().UTC(),
		"uptime_seconds": int(time.Since(s.started).Seconds()),
	})
}

func (s *Server) handleListWatchlist(w http.ResponseWriter, r *http.Request) {
	rows := s.store.Rows(time.Now())
	if rows == nil {
		rows = []watchlist.Row{}
	}
	s.writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleUpsertWatchlist(w http.ResponseWriter, r *http.Request) {
	var e watchlist.Entry
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid watchlist entry: "+err.Error())
		return
	}
	if err := s.store.Upsert(e); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	stored, _ := s.store.Get(e.Symbol)
	s.writeJSON(w, http.StatusOK, watchlist.Compute(stored, time.Now()))
}

func (s *Server) handleDeleteWatchlist(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	ok, err := s.store.Delete(symbol)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		s.writeError(w, r, http.StatusNotFound, "symbol not on the watchlist")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"deleted": symbol})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="watchlist.csv"`)

	cw := csv.NewWriter(w)
	cw.Write(watchlist.CSVHeader)
	for _, row := range s.store.Rows(time.Now()) {
		cw.Write(watchlist.CSVRecord(row))
	}
	cw.Flush()
}

// handleScanSummary serves the summary file of the most recent scan run.
// No file yet means an empty list, not an error.
func (s *Server) handleScanSummary(w http.ResponseWriter, r *http.Request) {
	rows, err := report.ReadSummaryJSON(s.summaryPath)
	if err != nil {
		if os.IsNotExist(err) {
			s.writeJSON(w, http.StatusOK, []model.SignalRow{})
			return
		}
		s.writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	if rows == nil {
		rows = []model.SignalRow{}
	}
	s.writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, http.StatusNotFound, "no such endpoint")
}
