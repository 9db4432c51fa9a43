package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// fakePostgREST emulates the subset of the /rest/v1 API the repository uses.
// Ids are bigints, as in a default Supabase table.
type fakePostgREST struct {
	key string

	mu     sync.Mutex
	nextID int
	rows   map[string]map[string]any
	failOn string
}

func newFakePostgREST(key string) *fakePostgREST {
	return &fakePostgREST{key: key, nextID: 1, rows: make(map[string]map[string]any)}
}

func (f *fakePostgREST) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("apikey") != f.key || r.Header.Get("Authorization") != "Bearer "+f.key {
		writePgrstError(w, http.StatusUnauthorized, "PGRST301", "JWT invalid")
		return
	}
	if r.URL.Path != "/rest/v1/"+SubmissionTable {
		writePgrstError(w, http.StatusNotFound, "42P01", "relation does not exist")
		return
	}
	if r.Method == f.failOn {
		writePgrstError(w, http.StatusInternalServerError, "XX000", "internal failure")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	id := strings.TrimPrefix(r.URL.Query().Get("id"), "eq.")
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodPost:
		if r.Header.Get("Prefer") != "return=representation" {
			w.WriteHeader(http.StatusCreated)
			return
		}
		var row map[string]any
		if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
			writePgrstError(w, http.StatusBadRequest, "PGRST102", "invalid body")
			return
		}
		if _, ok := row["id"]; ok {
			writePgrstError(w, http.StatusBadRequest, "428C9", "cannot insert into id")
			return
		}
		n := f.nextID
		f.nextID++
		row["id"] = n
		f.rows[strconv.Itoa(n)] = row
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": n})
	case http.MethodGet:
		out := []map[string]any{}
		if id == "" {
			for _, row := range f.rows {
				out = append(out, row)
				break
			}
		} else if row, ok := f.rows[id]; ok {
			out = append(out, row)
		}
		_ = json.NewEncoder(w).Encode(out)
	case http.MethodDelete:
		out := []map[string]any{}
		if row, ok := f.rows[id]; ok {
			out = append(out, map[string]any{"id": row["id"]})
			delete(f.rows, id)
		}
		_ = json.NewEncoder(w).Encode(out)
	default:
		writePgrstError(w, http.StatusMethodNotAllowed, "PGRST000", "method")
	}
}

func writePgrstError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"code": code, "message": msg})
}

func TestRestSubmissionRepository(t *testing.T) {
	fake := newFakePostgREST("service-key")
	srv := httptest.NewServer(fake)
	defer srv.Close()

	repo := NewRestSubmissionRepository(srv.URL+"/", "service-key", "")
	defer repo.Close()

	testSubmissionRepository(t, repo)
}

func TestRestSubmissionRepository_InsertStoresSnakeCaseColumns(t *testing.T) {
	fake := newFakePostgREST("service-key")
	srv := httptest.NewServer(fake)
	defer srv.Close()

	repo := NewRestSubmissionRepository(srv.URL, "service-key", SubmissionTable)
	sub := newSubmission()
	if err := repo.Insert(context.Background(), sub); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if sub.ID != "1" {
		t.Errorf("expected numeric id rendered as \"1\", got %q", sub.ID)
	}

	row := fake.rows["1"]
	for _, col := range []string{"name", "email", "subject", "message", "ip_address", "user_agent", "submitted_at"} {
		if _, ok := row[col]; !ok {
			t.Errorf("expected column %q in inserted row, got %v", col, row)
		}
	}
	if row["submitted_at"] != "2026-03-14T09:26:53.589Z" {
		t.Errorf("expected ISO-8601 submitted_at, got %v", row["submitted_at"])
	}
}

func TestRestSubmissionRepository_WrongKey(t *testing.T) {
	srv := httptest.NewServer(newFakePostgREST("service-key"))
	defer srv.Close()

	repo := NewRestSubmissionRepository(srv.URL, "anon-key", SubmissionTable)
	sub := newSubmission()
	err := repo.Insert(context.Background(), sub)
	if err == nil {
		t.Fatal("expected error for rejected key")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("expected status in error, got %v", err)
	}
	if sub.ID != "" {
		t.Errorf("expected ID to stay empty on failure, got %q", sub.ID)
	}
	if err := repo.Ping(context.Background()); err == nil {
		t.Error("expected Ping to fail for rejected key")
	}
}

func TestRestSubmissionRepository_ServerError(t *testing.T) {
	fake := newFakePostgREST("service-key")
	fake.failOn = http.MethodPost
	srv := httptest.NewServer(fake)
	defer srv.Close()

	repo := NewRestSubmissionRepository(srv.URL, "service-key", SubmissionTable)
	if err := repo.Insert(context.Background(), newSubmission()); err == nil {
		t.Fatal("expected error on 500 response")
	}
}
