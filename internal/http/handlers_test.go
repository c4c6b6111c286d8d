package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"logbook/internal/core"
	"logbook/internal/records"
	"logbook/internal/store"
)

func newTestServer() *Server {
	return NewServer(":0", records.New(store.NewMemory()))
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer()
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(t, srv, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestCaseLifecycle(t *testing.T) {
	srv := newTestServer()

	// Create
	rr := do(t, srv, http.MethodPost, "/cases", `{"date":"2024-01-05","specialty":"ENT"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}
	var created core.Record
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("create did not assign an id")
	}

	// List
	rr = do(t, srv, http.MethodGet, "/cases", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list status=%d", rr.Code)
	}
	var list []core.Record
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("unexpected list %v", list)
	}

	// Update
	rr = do(t, srv, http.MethodPut, "/cases/"+created.ID, `{"date":"2024-01-05","specialty":"Urology"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("update status=%d body=%s", rr.Code, rr.Body.String())
	}

	// Delete (twice; idempotent)
	for i := 0; i < 2; i++ {
		rr = do(t, srv, http.MethodDelete, "/cases/"+created.ID, "")
		if rr.Code != http.StatusNoContent {
			t.Fatalf("delete %d status=%d", i, rr.Code)
		}
	}

	rr = do(t, srv, http.MethodGet, "/cases", "")
	if body := strings.TrimSpace(rr.Body.String()); body != "[]" {
		t.Fatalf("expected empty list after delete, got %s", body)
	}
}

func TestCreateRejectsBadPayload(t *testing.T) {
	srv := newTestServer()

	rr := do(t, srv, http.MethodPost, "/cases", `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad json, got %d", rr.Code)
	}

	rr = do(t, srv, http.MethodPost, "/cases", `{"date":"05/01/2024"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for bad date, got %d", rr.Code)
	}
}

func TestClearAll(t *testing.T) {
	srv := newTestServer()

	do(t, srv, http.MethodPost, "/cases", `{"date":"2024-01-05"}`)
	do(t, srv, http.MethodPost, "/cases", `{"date":"2024-02-05"}`)

	rr := do(t, srv, http.MethodDelete, "/cases", "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("clear status=%d", rr.Code)
	}

	rr = do(t, srv, http.MethodGet, "/cases", "")
	if body := strings.TrimSpace(rr.Body.String()); body != "[]" {
		t.Fatalf("expected empty list after clear, got %s", body)
	}
}

func TestImportAndExport(t *testing.T) {
	srv := newTestServer()

	csv := "date,specialty\n2024-01-05,ENT\n2024-01-05,General Surgery\n"
	rr := do(t, srv, http.MethodPost, "/import", csv)
	if rr.Code != http.StatusOK {
		t.Fatalf("import status=%d body=%s", rr.Code, rr.Body.String())
	}
	var report struct {
		Added  int `json:"added"`
		Failed int `json:"failed"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Added != 2 || report.Failed != 0 {
		t.Fatalf("unexpected report %+v", report)
	}

	rr = do(t, srv, http.MethodGet, "/export.csv", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("export status=%d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("export content type = %q", ct)
	}
	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	if len(lines) != 3 { // header + 2 rows
		t.Fatalf("expected 3 csv lines, got %d: %v", len(lines), lines)
	}
}

func TestSummariesReflectMutations(t *testing.T) {
	srv := newTestServer()

	do(t, srv, http.MethodPost, "/cases", `{"date":"2024-01-05","specialty":"ENT"}`)

	rr := do(t, srv, http.MethodGet, "/summary/months", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("summary status=%d", rr.Code)
	}
	var summary struct {
		Counts  map[string]int `json:"counts"`
		Buckets []string       `json:"buckets"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Counts["2024-01"] != 1 {
		t.Fatalf("unexpected months summary %+v", summary)
	}

	// A second write must show up even though the first response was cached.
	do(t, srv, http.MethodPost, "/cases", `{"date":"2024-01-20","specialty":"ENT"}`)

	rr = do(t, srv, http.MethodGet, "/summary/months", "")
	if err := json.Unmarshal(rr.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Counts["2024-01"] != 2 {
		t.Fatalf("summary cache not invalidated on create: %+v", summary)
	}

	rr = do(t, srv, http.MethodGet, "/summary/specialties", "")
	if err := json.Unmarshal(rr.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Counts["ENT"] != 2 {
		t.Fatalf("unexpected specialties summary %+v", summary)
	}
}

func TestTaxonomy(t *testing.T) {
	srv := newTestServer()

	rr := do(t, srv, http.MethodGet, "/taxonomy", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("taxonomy status=%d", rr.Code)
	}
	var tax struct {
		Specialties []string `json:"specialties"`
		Regionals   []string `json:"regionals"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &tax); err != nil {
		t.Fatalf("decode taxonomy: %v", err)
	}
	if len(tax.Specialties) == 0 || len(tax.Regionals) == 0 {
		t.Fatalf("taxonomy should not be empty: %+v", tax)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer()

	cases := []struct{ method, path string }{
		{http.MethodPut, "/cases"},
		{http.MethodPost, "/export.csv"},
		{http.MethodGet, "/import"},
		{http.MethodPost, "/summary/months"},
	}
	for _, tc := range cases {
		rr := do(t, srv, tc.method, tc.path, "x")
		if rr.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s expected 405, got %d", tc.method, tc.path, rr.Code)
		}
	}
}
