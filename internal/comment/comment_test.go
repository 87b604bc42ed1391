package comment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

type ghComment struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
}

// fakeGitHub is a double for the slice of the GitHub issues API the client
// touches: list, create, and edit comments on grove/shop PR #7.
type fakeGitHub struct {
	listing [][]ghComment // one element per page
	created []ghComment
	edited  []ghComment
}

func (f *fakeGitHub) server(t *testing.T) *httptest.Server {
	t.Helper()
	var srvURL string

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/grove/shop/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			page, _ = strconv.Atoi(p)
		}
		if page < len(f.listing) {
			next := fmt.Sprintf("<%s/repos/grove/shop/issues/7/comments?page=%d>; rel=\"next\"", srvURL, page+1)
			w.Header().Set("Link", next)
		}
		pageComments := []ghComment{}
		if page-1 < len(f.listing) {
			pageComments = f.listing[page-1]
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(pageComments)
	})
	mux.HandleFunc("POST /repos/grove/shop/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		var c ghComment
		_ = json.NewDecoder(r.Body).Decode(&c)
		c.ID = int64(1000 + len(f.created))
		f.created = append(f.created, c)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(c)
	})
	mux.HandleFunc("PATCH /repos/grove/shop/issues/comments/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var c ghComment
		_ = json.NewDecoder(r.Body).Decode(&c)
		c.ID = id
		f.edited = append(f.edited, c)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(c)
	})

	srv := httptest.NewServer(mux)
	srvURL = srv.URL
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server, marker string) *Client {
	t.Helper()
	c, err := New("grove", "shop", "", srv.URL, marker)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestUpsertCreatesWhenMissing(t *testing.T) {
	fake := &fakeGitHub{}
	c := newTestClient(t, fake.server(t), "")

	updated, err := c.Upsert(context.Background(), 7, "## 📊 App Graph Diff\n\nreport body\n")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if updated {
		t.Error("updated = true, want false for a fresh PR")
	}
	if len(fake.created) != 1 {
		t.Fatalf("created %d comments, want 1", len(fake.created))
	}
	body := fake.created[0].Body
	if !strings.HasPrefix(body, DefaultMarker+"\n") {
		t.Errorf("created body does not start with marker: %q", body)
	}
	if !strings.Contains(body, "report body") {
		t.Errorf("created body lost the report: %q", body)
	}
	if len(fake.edited) != 0 {
		t.Errorf("edited %d comments, want 0", len(fake.edited))
	}
}

func TestUpsertEditsExisting(t *testing.T) {
	fake := &fakeGitHub{
		listing: [][]ghComment{{
			{ID: 3, Body: "unrelated human comment"},
			{ID: 42, Body: DefaultMarker + "\nstale report"},
		}},
	}
	c := newTestClient(t, fake.server(t), "")

	updated, err := c.Upsert(context.Background(), 7, "fresh report")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !updated {
		t.Error("updated = false, want true when the marker comment exists")
	}
	if len(fake.created) != 0 {
		t.Errorf("created %d comments, want 0", len(fake.created))
	}
	if len(fake.edited) != 1 {
		t.Fatalf("edited %d comments, want 1", len(fake.edited))
	}
	if fake.edited[0].ID != 42 {
		t.Errorf("edited ID = %d, want 42", fake.edited[0].ID)
	}
	if !strings.Contains(fake.edited[0].Body, "fresh report") {
		t.Errorf("edited body = %q", fake.edited[0].Body)
	}
}

func TestUpsertFindsMarkerAcrossPages(t *testing.T) {
	fake := &fakeGitHub{
		listing: [][]ghComment{
			{{ID: 1, Body: "page one"}, {ID: 2, Body: "more chatter"}},
			{{ID: 77, Body: DefaultMarker + "\nold"}},
		},
	}
	c := newTestClient(t, fake.server(t), "")

	updated, err := c.Upsert(context.Background(), 7, "new")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !updated {
		t.Fatal("updated = false, want true")
	}
	if len(fake.edited) != 1 || fake.edited[0].ID != 77 {
		t.Errorf("edited = %+v, want ID 77", fake.edited)
	}
}

func TestUpsertDoesNotDuplicateMarker(t *testing.T) {
	fake := &fakeGitHub{}
	c := newTestClient(t, fake.server(t), "")

	body := DefaultMarker + "\nalready tagged"
	if _, err := c.Upsert(context.Background(), 7, body); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if len(fake.created) != 1 {
		t.Fatalf("created %d comments, want 1", len(fake.created))
	}
	if got := strings.Count(fake.created[0].Body, DefaultMarker); got != 1 {
		t.Errorf("marker appears %d times, want 1", got)
	}
}

func TestUpsertCustomMarker(t *testing.T) {
	fake := &fakeGitHub{
		listing: [][]ghComment{{
			{ID: 9, Body: DefaultMarker + "\ndifferent bot"},
		}},
	}
	c := newTestClient(t, fake.server(t), "<!-- graph-bot -->")

	updated, err := c.Upsert(context.Background(), 7, "body")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if updated {
		t.Error("updated = true, want false: default marker must not match custom")
	}
	if len(fake.created) != 1 {
		t.Fatalf("created %d comments, want 1", len(fake.created))
	}
	if !strings.Contains(fake.created[0].Body, "<!-- graph-bot -->") {
		t.Errorf("created body missing custom marker: %q", fake.created[0].Body)
	}
}

func TestUpsertListError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "")
	if _, err := c.Upsert(context.Background(), 7, "body"); err == nil {
		t.Fatal("expected error when listing fails")
	}
}

func TestNewRejectsBadURL(t *testing.T) {
	if _, err := New("grove", "shop", "", "://not-a-url", ""); err == nil {
		t.Fatal("expected error for malformed API URL")
	}
}
