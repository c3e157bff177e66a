package visittrack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func newTestReporter(endpoint string, store Store, now time.Time) *Reporter {
	r := NewReporter(endpoint, store)
	r.now = func() time.Time { return now }
	return r
}

func TestReporter_ReportRecordsAndSetsMarker(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	var gotVisitorID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotVisitorID = body["visitorId"]
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"recorded": true})
	}))
	defer server.Close()

	store := NewMemStore()
	reporter := newTestReporter(server.URL, store, now)

	if !reporter.Report(context.Background()) {
		t.Fatal("expected the visit to be recorded")
	}
	if gotVisitorID == "" {
		t.Fatal("expected a visitorId in the request body")
	}

	marker, ok := store.Get(lastVisitKey)
	if !ok {
		t.Fatal("expected the last-visit marker to be set")
	}
	millis, err := strconv.ParseInt(marker, 10, 64)
	if err != nil {
		t.Fatalf("marker is not epoch millis: %q", marker)
	}
	if !time.UnixMilli(millis).Equal(now) {
		t.Fatalf("expected marker %v, got %v", now, time.UnixMilli(millis))
	}
}

func TestReporter_SkipsInsideWindow(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"recorded": true})
	}))
	defer server.Close()

	store := NewMemStore()
	reporter := newTestReporter(server.URL, store, now)

	if !reporter.Report(context.Background()) {
		t.Fatal("first report should record")
	}
	if reporter.Report(context.Background()) {
		t.Fatal("second report inside the window should be skipped locally")
	}
	if requests != 1 {
		t.Fatalf("expected exactly 1 request, got %d", requests)
	}
}

func TestReporter_SuppressedByServerLeavesMarkerUnset(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"recorded": false})
	}))
	defer server.Close()

	store := NewMemStore()
	reporter := newTestReporter(server.URL, store, now)

	if reporter.Report(context.Background()) {
		t.Fatal("server suppression must report false")
	}
	if _, ok := store.Get(lastVisitKey); ok {
		t.Fatal("suppressed report must not advance the marker")
	}
}

func TestReporter_SwallowsNetworkFailure(t *testing.T) {
	store := NewMemStore()
	reporter := newTestReporter("http://127.0.0.1:1", store, time.Now())

	if reporter.Report(context.Background()) {
		t.Fatal("network failure must report false")
	}
	if _, ok := store.Get(lastVisitKey); ok {
		t.Fatal("failed report must not advance the marker")
	}
}

func TestReporter_SwallowsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	store := NewMemStore()
	reporter := newTestReporter(server.URL, store, time.Now())

	if reporter.Report(context.Background()) {
		t.Fatal("server error must report false")
	}
	if _, ok := store.Get(lastVisitKey); ok {
		t.Fatal("failed report must not advance the marker")
	}
}
