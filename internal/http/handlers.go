package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"log/slog"

	"logbook/internal/core"
	"logbook/internal/csvio"
	"logbook/internal/records"
)

const (
	monthsCacheKey      = "months"
	specialtiesCacheKey = "specialties"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusForError maps repository failures onto HTTP statuses.
func statusForError(err error) int {
	if records.IsStorageUnavailable(err) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) invalidateSummaries() {
	s.summaryCache.Purge()
}

// handleCases serves the collection: GET lists, POST creates, DELETE wipes.
func (s *Server) handleCases(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.repo.LoadAll(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Load cases failed", "error", err)
			writeError(w, statusForError(err), "could not load cases")
			return
		}
		writeJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var fields core.Record
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			writeError(w, http.StatusBadRequest, "invalid case payload")
			return
		}
		if err := fields.ValidateDate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		rec, err := s.repo.Create(r.Context(), fields)
		if err != nil {
			slog.ErrorContext(r.Context(), "Create case failed", "error", err)
			writeError(w, statusForError(err), "could not save case")
			return
		}
		s.invalidateSummaries()
		writeJSON(w, http.StatusCreated, rec)

	case http.MethodDelete:
		if err := s.repo.ClearAll(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "Clear cases failed", "error", err)
			writeError(w, statusForError(err), "could not clear cases")
			return
		}
		s.invalidateSummaries()
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleCaseByID serves a single record: PUT replaces, DELETE removes.
func (s *Server) handleCaseByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/cases/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "unknown case path")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var rec core.Record
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			writeError(w, http.StatusBadRequest, "invalid case payload")
			return
		}
		rec.ID = id
		if err := rec.ValidateDate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err := s.repo.Update(r.Context(), rec); err != nil {
			slog.ErrorContext(r.Context(), "Update case failed", "id", id, "error", err)
			writeError(w, statusForError(err), "could not update case")
			return
		}
		s.invalidateSummaries()
		writeJSON(w, http.StatusOK, rec)

	case http.MethodDelete:
		if err := s.repo.Delete(r.Context(), id); err != nil {
			slog.ErrorContext(r.Context(), "Delete case failed", "id", id, "error", err)
			writeError(w, statusForError(err), "could not delete case")
			return
		}
		s.invalidateSummaries()
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Allow", "PUT, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleImport merges a CSV batch posted as the request body. Partial
// success is the normal case and is reported, not failed.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	items, err := csvio.Decode(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid csv: "+err.Error())
		return
	}

	report, err := s.repo.ImportBatch(r.Context(), items)
	if err != nil {
		slog.ErrorContext(r.Context(), "Import failed", "error", err)
		writeError(w, statusForError(err), "could not import cases")
		return
	}
	s.invalidateSummaries()

	resp := struct {
		Added  int      `json:"added"`
		Failed int      `json:"failed"`
		Errors []string `json:"errors,omitempty"`
	}{Added: report.Added, Failed: report.Failed}
	for _, ie := range report.Errors {
		resp.Errors = append(resp.Errors, ie.Error())
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleExport streams the full collection as CSV in the stable column order.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	list, err := s.repo.LoadAll(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Export failed", "error", err)
		writeError(w, statusForError(err), "could not export cases")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="logbook.csv"`)
	if err := csvio.Encode(w, list); err != nil {
		slog.ErrorContext(r.Context(), "CSV encode failed", "error", err)
	}
}

func (s *Server) handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	s.handleSummary(w, r, monthsCacheKey, core.CountsByMonth)
}

func (s *Server) handleSpecialtySummary(w http.ResponseWriter, r *http.Request) {
	s.handleSummary(w, r, specialtiesCacheKey, core.CountsBySpecialty)
}

// handleSummary serves a grouped-count mapping plus its display order.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request, key string, group func([]core.Record) map[string]int) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	counts, found := s.summaryCache.Get(key)
	if !found {
		list, err := s.repo.LoadAll(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Summary load failed", "summary", key, "error", err)
			writeError(w, statusForError(err), "could not compute summary")
			return
		}
		counts = group(list)
		s.summaryCache.Set(key, counts)
		slog.DebugContext(r.Context(), "Summary cached", "summary", key, "buckets", len(counts))
	}

	writeJSON(w, http.StatusOK, struct {
		Counts  map[string]int `json:"counts"`
		Buckets []string       `json:"buckets"`
	}{Counts: counts, Buckets: core.SortedBuckets(counts)})
}

// handleTaxonomy serves the suggested vocabularies for form pickers.
func (s *Server) handleTaxonomy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Specialties []string `json:"specialties"`
		Regionals   []string `json:"regionals"`
	}{Specialties: core.DefaultSpecialties, Regionals: core.DefaultRegionals})
}
