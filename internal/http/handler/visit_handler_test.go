package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/julienvb/portfolio-api/internal/app/model"
	"github.com/julienvb/portfolio-api/internal/app/service"
)

type mockVisitService struct {
	recordFn func(ctx context.Context, input service.RecordVisitInput) (*service.RecordVisitResult, error)
	listFn   func(ctx context.Context, input service.ListVisitsInput) ([]model.Visit, int64, error)
	statsFn  func(ctx context.Context) (*service.VisitStats, error)
}

func (m *mockVisitService) Record(ctx context.Context, input service.RecordVisitInput) (*service.RecordVisitResult, error) {
	if m.recordFn != nil {
		return m.recordFn(ctx, input)
	}
	return &service.RecordVisitResult{Recorded: false}, nil
}

func (m *mockVisitService) List(ctx context.Context, input service.ListVisitsInput) ([]model.Visit, int64, error) {
	if m.listFn != nil {
		return m.listFn(ctx, input)
	}
	return nil, 0, nil
}

func (m *mockVisitService) Stats(ctx context.Context) (*service.VisitStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return &service.VisitStats{}, nil
}

// allowAll stands in for the session gate in handler tests.
func allowAll(c *fiber.Ctx) error {
	return c.Next()
}

func newVisitApp(svc service.VisitService) *fiber.App {
	app := fiber.New()
	NewVisitHandler(VisitDeps{Visits: svc}).Register(app, allowAll)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (int, map[string]any) {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	decoded := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode response %q: %v", raw, err)
		}
	}
	return resp.StatusCode, decoded
}

func TestVisitHandler_Record_MalformedVisitorID(t *testing.T) {
	recordCalled := false
	app := newVisitApp(&mockVisitService{
		recordFn: func(ctx context.Context, input service.RecordVisitInput) (*service.RecordVisitResult, error) {
			recordCalled = true
			return nil, nil
		},
	})

	for _, visitorID := range []string{"", "not-a-uuid", "1234"} {
		status, _ := postJSON(t, app, "/api/visits", map[string]string{"visitorId": visitorID})
		if status != fiber.StatusBadRequest {
			t.Fatalf("visitorId %q: expected 400, got %d", visitorID, status)
		}
	}
	if recordCalled {
		t.Fatal("malformed input must not reach the service")
	}
}

func TestVisitHandler_Record_Suppressed(t *testing.T) {
	app := newVisitApp(&mockVisitService{
		recordFn: func(ctx context.Context, input service.RecordVisitInput) (*service.RecordVisitResult, error) {
			return &service.RecordVisitResult{Recorded: false}, nil
		},
	})

	status, body := postJSON(t, app, "/api/visits", map[string]string{
		"visitorId": "a2f1c380-0000-4000-8000-000000000001",
	})
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if body["recorded"] != false {
		t.Fatalf("expected recorded=false, got %v", body["recorded"])
	}
	if body["message"] != "Within 30-minute window" {
		t.Fatalf("unexpected message %v", body["message"])
	}
}

func TestVisitHandler_Record_Created(t *testing.T) {
	created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	app := newVisitApp(&mockVisitService{
		recordFn: func(ctx context.Context, input service.RecordVisitInput) (*service.RecordVisitResult, error) {
			return &service.RecordVisitResult{
				Recorded: true,
				Visit: &model.Visit{
					ID:        "v1",
					VisitorID: input.VisitorID,
					CreatedAt: created,
				},
			}, nil
		},
	})

	status, body := postJSON(t, app, "/api/visits", map[string]string{
		"visitorId": "a2f1c380-0000-4000-8000-000000000001",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	if body["recorded"] != true {
		t.Fatalf("expected recorded=true, got %v", body["recorded"])
	}
	visit, ok := body["visit"].(map[string]any)
	if !ok {
		t.Fatalf("expected visit object, got %v", body["visit"])
	}
	if visit["id"] != "v1" {
		t.Fatalf("expected visit id v1, got %v", visit["id"])
	}
	if visit["createdAt"] == nil {
		t.Fatal("expected visit createdAt to be set")
	}
}

func TestVisitHandler_List_RejectsBadTimestamps(t *testing.T) {
	app := newVisitApp(&mockVisitService{})

	for _, query := range []string{"from=yesterday", "to=2026-13-99"} {
		req := httptest.NewRequest("GET", "/api/visits?"+query, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Fatalf("query %q: expected 400, got %d", query, resp.StatusCode)
		}
	}
}

func TestVisitHandler_List_PassesFilters(t *testing.T) {
	var captured service.ListVisitsInput
	app := newVisitApp(&mockVisitService{
		listFn: func(ctx context.Context, input service.ListVisitsInput) ([]model.Visit, int64, error) {
			captured = input
			return []model.Visit{{ID: "v1"}}, 1, nil
		},
	})

	req := httptest.NewRequest("GET", "/api/visits?country=fr&city=par&from=2026-05-01T00:00:00Z&limit=10&offset=5", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if captured.Country != "fr" || captured.City != "par" {
		t.Fatalf("unexpected filters: %+v", captured)
	}
	if captured.From == nil || !captured.From.Equal(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected from: %v", captured.From)
	}
	if captured.Limit != 10 || captured.Offset != 5 {
		t.Fatalf("unexpected pagination: %+v", captured)
	}

	var body struct {
		Visits []model.Visit `json:"visits"`
		Total  int64         `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Total != 1 || len(body.Visits) != 1 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestVisitHandler_Stats(t *testing.T) {
	app := newVisitApp(&mockVisitService{
		statsFn: func(ctx context.Context) (*service.VisitStats, error) {
			return &service.VisitStats{
				Total:           5,
				UniqueCountries: 2,
				Countries: []service.CountryStat{
					{Country: "FR", Count: 4},
					{Country: "Unknown", Count: 1},
				},
				Cities: []service.CityStat{
					{City: "Paris", Country: "FR", Count: 3},
				},
			}, nil
		},
	})

	req := httptest.NewRequest("GET", "/api/visits/stats", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var stats service.VisitStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if stats.Total != 5 || stats.UniqueCountries != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if len(stats.Countries) != 2 || stats.Countries[0].Country != "FR" {
		t.Fatalf("unexpected countries: %+v", stats.Countries)
	}
}
