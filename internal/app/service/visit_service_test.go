package service

import (
	"context"
	"testing"
	"time"

	"github.com/julienvb/portfolio-api/internal/app/model"
	"github.com/julienvb/portfolio-api/internal/app/repository"
)

type mockVisitRepository struct {
	createFn             func(ctx context.Context, visit *model.Visit) error
	latestFn             func(ctx context.Context, visitorID string) (*model.Visit, error)
	listFn               func(ctx context.Context, filter repository.VisitFilter) ([]model.Visit, int64, error)
	countAllFn           func(ctx context.Context) (int64, error)
	countByCountryFn     func(ctx context.Context) ([]repository.CountryCount, error)
	countByCityCountryFn func(ctx context.Context, limit int) ([]repository.CityCount, error)
}

func (m *mockVisitRepository) Create(ctx context.Context, visit *model.Visit) error {
	if m.createFn != nil {
		return m.createFn(ctx, visit)
	}
	return nil
}

func (m *mockVisitRepository) LatestByVisitor(ctx context.Context, visitorID string) (*model.Visit, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx, visitorID)
	}
	return nil, repository.ErrVisitNotFound
}

func (m *mockVisitRepository) List(ctx context.Context, filter repository.VisitFilter) ([]model.Visit, int64, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockVisitRepository) CountAll(ctx context.Context) (int64, error) {
	if m.countAllFn != nil {
		return m.countAllFn(ctx)
	}
	return 0, nil
}

func (m *mockVisitRepository) CountByCountry(ctx context.Context) ([]repository.CountryCount, error) {
	if m.countByCountryFn != nil {
		return m.countByCountryFn(ctx)
	}
	return nil, nil
}

func (m *mockVisitRepository) CountByCityCountry(ctx context.Context, limit int) ([]repository.CityCount, error) {
	if m.countByCityCountryFn != nil {
		return m.countByCityCountryFn(ctx, limit)
	}
	return nil, nil
}

type mockGeoResolver struct {
	lookupFn func(ip string) (string, string, bool)
}

func (m *mockGeoResolver) Lookup(ip string) (string, string, bool) {
	if m.lookupFn != nil {
		return m.lookupFn(ip)
	}
	return "", "", false
}

func newTestVisitService(repo repository.VisitRepository, geo GeoResolver, now time.Time) *visitService {
	svc := NewVisitService(repo, geo).(*visitService)
	svc.now = func() time.Time { return now }
	return svc
}

func strPtr(s string) *string { return &s }

func TestVisitService_Record_CreatesRow(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	var created *model.Visit
	repo := &mockVisitRepository{
		createFn: func(ctx context.Context, visit *model.Visit) error {
			created = visit
			return nil
		},
	}
	geo := &mockGeoResolver{
		lookupFn: func(ip string) (string, string, bool) {
			return "FR", "Paris", true
		},
	}

	svc := newTestVisitService(repo, geo, now)
	result, err := svc.Record(context.Background(), RecordVisitInput{
		VisitorID: "A2F1C380-0000-4000-8000-000000000001",
		IP:        "203.0.113.7",
		UserAgent: "Mozilla/5.0",
	})
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if !result.Recorded {
		t.Fatal("expected visit to be recorded")
	}
	if created == nil {
		t.Fatal("expected a row to be created")
	}
	if created.VisitorID != "a2f1c380-0000-4000-8000-000000000001" {
		t.Fatalf("expected lowercased visitor id, got %s", created.VisitorID)
	}
	if created.Country == nil || *created.Country != "FR" {
		t.Fatalf("expected country FR, got %v", created.Country)
	}
	if created.City == nil || *created.City != "Paris" {
		t.Fatalf("expected city Paris, got %v", created.City)
	}
	if !created.CreatedAt.Equal(now) {
		t.Fatalf("expected createdAt %v, got %v", now, created.CreatedAt)
	}
}

func TestVisitService_Record_SuppressedWithinWindow(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := &mockVisitRepository{
		latestFn: func(ctx context.Context, visitorID string) (*model.Visit, error) {
			return &model.Visit{
				VisitorID: visitorID,
				CreatedAt: now.Add(-29 * time.Minute),
			}, nil
		},
		createFn: func(ctx context.Context, visit *model.Visit) error {
			t.Fatal("no row should be created inside the window")
			return nil
		},
	}

	svc := newTestVisitService(repo, nil, now)
	result, err := svc.Record(context.Background(), RecordVisitInput{
		VisitorID: "a2f1c380-0000-4000-8000-000000000001",
	})
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if result.Recorded {
		t.Fatal("expected suppression inside the window")
	}
	if result.Visit != nil {
		t.Fatal("suppressed result must not carry a visit")
	}
}

func TestVisitService_Record_AfterWindowElapsed(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	createCalled := false
	repo := &mockVisitRepository{
		latestFn: func(ctx context.Context, visitorID string) (*model.Visit, error) {
			return &model.Visit{
				VisitorID: visitorID,
				CreatedAt: now.Add(-VisitWindow),
			}, nil
		},
		createFn: func(ctx context.Context, visit *model.Visit) error {
			createCalled = true
			return nil
		},
	}

	svc := newTestVisitService(repo, nil, now)
	result, err := svc.Record(context.Background(), RecordVisitInput{
		VisitorID: "a2f1c380-0000-4000-8000-000000000001",
	})
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if !result.Recorded {
		t.Fatal("expected a new visit exactly at the window boundary")
	}
	if !createCalled {
		t.Fatal("expected a row to be created")
	}
}

func TestVisitService_Record_IndependentVisitors(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	latest := map[string]*model.Visit{}
	var rows []*model.Visit
	repo := &mockVisitRepository{
		latestFn: func(ctx context.Context, visitorID string) (*model.Visit, error) {
			if v, ok := latest[visitorID]; ok {
				return v, nil
			}
			return nil, repository.ErrVisitNotFound
		},
		createFn: func(ctx context.Context, visit *model.Visit) error {
			latest[visit.VisitorID] = visit
			rows = append(rows, visit)
			return nil
		},
	}

	svc := newTestVisitService(repo, nil, now)
	for _, id := range []string{
		"a2f1c380-0000-4000-8000-000000000001",
		"a2f1c380-0000-4000-8000-000000000002",
	} {
		result, err := svc.Record(context.Background(), RecordVisitInput{VisitorID: id})
		if err != nil {
			t.Fatalf("Record(%s) returned error: %v", id, err)
		}
		if !result.Recorded {
			t.Fatalf("expected visitor %s to be recorded", id)
		}
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}

func TestVisitService_Record_GeoMissIsNonFatal(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	var created *model.Visit
	repo := &mockVisitRepository{
		createFn: func(ctx context.Context, visit *model.Visit) error {
			created = visit
			return nil
		},
	}
	geo := &mockGeoResolver{
		lookupFn: func(ip string) (string, string, bool) {
			return "", "", false
		},
	}

	svc := newTestVisitService(repo, geo, now)
	result, err := svc.Record(context.Background(), RecordVisitInput{
		VisitorID: "a2f1c380-0000-4000-8000-000000000001",
		IP:        "10.0.0.1",
	})
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if !result.Recorded {
		t.Fatal("expected the visit to be recorded despite the geo miss")
	}
	if created.Country != nil || created.City != nil {
		t.Fatalf("expected null geography, got country=%v city=%v", created.Country, created.City)
	}
}

func TestVisitService_List_ClampsPagination(t *testing.T) {
	var captured repository.VisitFilter
	repo := &mockVisitRepository{
		listFn: func(ctx context.Context, filter repository.VisitFilter) ([]model.Visit, int64, error) {
			captured = filter
			return nil, 0, nil
		},
	}
	svc := newTestVisitService(repo, nil, time.Now())

	cases := []struct {
		name          string
		limit, offset int
		wantLimit     int
		wantOffset    int
	}{
		{"defaults", 0, 0, 100, 0},
		{"negative", -5, -3, 100, 0},
		{"above max", 9999, 10, 500, 10},
		{"in range", 25, 50, 25, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := svc.List(context.Background(), ListVisitsInput{Limit: tc.limit, Offset: tc.offset}); err != nil {
				t.Fatalf("List returned error: %v", err)
			}
			if captured.Limit != tc.wantLimit {
				t.Fatalf("expected limit %d, got %d", tc.wantLimit, captured.Limit)
			}
			if captured.Offset != tc.wantOffset {
				t.Fatalf("expected offset %d, got %d", tc.wantOffset, captured.Offset)
			}
		})
	}
}

func TestVisitService_Stats_MergesUnknownAndSorts(t *testing.T) {
	repo := &mockVisitRepository{
		countAllFn: func(ctx context.Context) (int64, error) {
			return 5, nil
		},
		countByCountryFn: func(ctx context.Context) ([]repository.CountryCount, error) {
			return []repository.CountryCount{
				{Country: strPtr("FR"), Count: 4},
				{Country: nil, Count: 1},
			}, nil
		},
		countByCityCountryFn: func(ctx context.Context, limit int) ([]repository.CityCount, error) {
			// A pre-folded "Unknown" row and a raw NULL row must land in the
			// same bucket.
			return []repository.CityCount{
				{City: strPtr("Paris"), Country: strPtr("FR"), Count: 3},
				{City: strPtr("Lyon"), Country: strPtr("FR"), Count: 1},
				{City: strPtr("Unknown"), Country: strPtr("Unknown"), Count: 1},
				{City: nil, Country: nil, Count: 1},
			}, nil
		},
	}
	svc := newTestVisitService(repo, nil, time.Now())

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.Total != 5 {
		t.Fatalf("expected total 5, got %d", stats.Total)
	}
	if stats.UniqueCountries != 2 {
		t.Fatalf("expected 2 unique countries, got %d", stats.UniqueCountries)
	}
	if len(stats.Countries) != 2 {
		t.Fatalf("expected 2 country buckets, got %d", len(stats.Countries))
	}
	if stats.Countries[0].Country != "FR" || stats.Countries[0].Count != 4 {
		t.Fatalf("expected FR first with count 4, got %+v", stats.Countries[0])
	}
	if stats.Countries[1].Country != "Unknown" || stats.Countries[1].Count != 1 {
		t.Fatalf("expected Unknown second with count 1, got %+v", stats.Countries[1])
	}
	if stats.Cities[0].City != "Paris" || stats.Cities[0].Count != 3 {
		t.Fatalf("expected Paris first, got %+v", stats.Cities[0])
	}
	if stats.Cities[1].City != "Unknown" || stats.Cities[1].Country != "Unknown" || stats.Cities[1].Count != 2 {
		t.Fatalf("expected a single Unknown bucket with count 2, got %+v", stats.Cities[1])
	}
	if stats.Cities[2].City != "Lyon" {
		t.Fatalf("expected Lyon last, got %+v", stats.Cities[2])
	}
	if len(stats.Cities) != 3 {
		t.Fatalf("expected 3 city buckets, got %d", len(stats.Cities))
	}
}

func TestVisitService_Stats_CapsCityBuckets(t *testing.T) {
	rows := make([]repository.CityCount, 0, cityStatsCap+10)
	for i := 0; i < cityStatsCap+10; i++ {
		city := string(rune('A'+i%26)) + string(rune('a'+i/26))
		rows = append(rows, repository.CityCount{
			City:    strPtr(city),
			Country: strPtr("FR"),
			Count:   int64(i + 1),
		})
	}
	repo := &mockVisitRepository{
		countByCityCountryFn: func(ctx context.Context, limit int) ([]repository.CityCount, error) {
			return rows, nil
		},
	}
	svc := newTestVisitService(repo, nil, time.Now())

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if len(stats.Cities) != cityStatsCap {
		t.Fatalf("expected %d city buckets, got %d", cityStatsCap, len(stats.Cities))
	}
	for i := 1; i < len(stats.Cities); i++ {
		if stats.Cities[i].Count > stats.Cities[i-1].Count {
			t.Fatalf("cities not sorted by count at index %d", i)
		}
	}
}
