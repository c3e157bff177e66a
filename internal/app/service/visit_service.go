package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/julienvb/portfolio-api/internal/app/model"
	"github.com/julienvb/portfolio-api/internal/app/repository"
	metrics "github.com/julienvb/portfolio-api/internal/infra/prometheus"
)

// VisitWindow is the dedup interval: repeated reports from the same visitor
// inside this window are suppressed.
const VisitWindow = 30 * time.Minute

// cityStatsCap bounds the per-city breakdown returned by Stats.
const cityStatsCap = 50

// unknownBucket labels rows whose geography could not be resolved.
const unknownBucket = "Unknown"

// GeoResolver resolves a network address to coarse geography. A miss is
// ok=false, never an error.
type GeoResolver interface {
	Lookup(ip string) (country, city string, ok bool)
}

// RecordVisitInput carries one visit report plus request metadata extracted
// by the transport layer.
type RecordVisitInput struct {
	VisitorID string
	IP        string
	UserAgent string
}

// RecordVisitResult tells the caller whether a row was created. Visit is nil
// when the report was suppressed by the window.
type RecordVisitResult struct {
	Recorded bool
	Visit    *model.Visit
}

// ListVisitsInput filters the admin visit listing. Limit is clamped to
// 1..500 (default 100), Offset to >= 0.
type ListVisitsInput struct {
	Country string
	City    string
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

// CountryStat is one per-country aggregation bucket.
type CountryStat struct {
	Country string `json:"country"`
	Count   int64  `json:"count"`
}

// CityStat is one aggregation bucket keyed by (city, country), so the same
// city name in two countries is tracked separately.
type CityStat struct {
	City    string `json:"city"`
	Country string `json:"country"`
	Count   int64  `json:"count"`
}

// VisitStats is the summary returned by Stats.
type VisitStats struct {
	Total           int64         `json:"total"`
	UniqueCountries int           `json:"uniqueCountries"`
	Countries       []CountryStat `json:"countries"`
	Cities          []CityStat    `json:"cities"`
}

// VisitService owns dedup, geo enrichment and aggregation of visit records.
type VisitService interface {
	Record(ctx context.Context, input RecordVisitInput) (*RecordVisitResult, error)
	List(ctx context.Context, input ListVisitsInput) ([]model.Visit, int64, error)
	Stats(ctx context.Context) (*VisitStats, error)
}

type visitService struct {
	repo repository.VisitRepository
	geo  GeoResolver
	now  func() time.Time

	// Approximate set of visitor ids seen since process start. Feeds a
	// metrics counter only; the authoritative dedup is the row lookup.
	mu   sync.Mutex
	seen *bloom.BloomFilter
}

// NewVisitService returns a service backed by the given repository. geo may
// be nil when no geolocation database is configured.
func NewVisitService(repo repository.VisitRepository, geo GeoResolver) VisitService {
	return &visitService{
		repo: repo,
		geo:  geo,
		now:  time.Now,
		seen: bloom.NewWithEstimates(1_000_000, 0.01),
	}
}

func (s *visitService) Record(ctx context.Context, input RecordVisitInput) (*RecordVisitResult, error) {
	visitorID := strings.ToLower(input.VisitorID)

	last, err := s.repo.LatestByVisitor(ctx, visitorID)
	if err != nil && !errors.Is(err, repository.ErrVisitNotFound) {
		return nil, fmt.Errorf("load latest visit: %w", err)
	}

	now := s.now()
	if last != nil && now.Sub(last.CreatedAt) < VisitWindow {
		// Two near-simultaneous reports can both reach this point and both
		// insert. Accepted: the window is an analytics control, not a
		// correctness constraint.
		metrics.VisitsSuppressed.Inc()
		return &RecordVisitResult{Recorded: false}, nil
	}

	visit := &model.Visit{
		VisitorID: visitorID,
		CreatedAt: now,
	}
	if input.IP != "" {
		ip := input.IP
		visit.IP = &ip
	}
	if input.UserAgent != "" {
		ua := input.UserAgent
		visit.UserAgent = &ua
	}
	if s.geo != nil {
		if country, city, ok := s.geo.Lookup(input.IP); ok {
			if country != "" {
				visit.Country = &country
			}
			if city != "" {
				visit.City = &city
			}
		}
	}

	if err := s.repo.Create(ctx, visit); err != nil {
		return nil, fmt.Errorf("record visit: %w", err)
	}

	metrics.VisitsRecorded.Inc()
	s.trackDistinct(visitorID)

	return &RecordVisitResult{Recorded: true, Visit: visit}, nil
}

func (s *visitService) trackDistinct(visitorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.seen.TestAndAdd([]byte(visitorID)) {
		metrics.DistinctVisitors.Inc()
	}
}

func (s *visitService) List(ctx context.Context, input ListVisitsInput) ([]model.Visit, int64, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	visits, total, err := s.repo.List(ctx, repository.VisitFilter{
		Country: input.Country,
		City:    input.City,
		From:    input.From,
		To:      input.To,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list visits: %w", err)
	}
	return visits, total, nil
}

func (s *visitService) Stats(ctx context.Context) (*VisitStats, error) {
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count visits: %w", err)
	}

	countryRows, err := s.repo.CountByCountry(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregate countries: %w", err)
	}

	cityRows, err := s.repo.CountByCityCountry(ctx, cityStatsCap)
	if err != nil {
		return nil, fmt.Errorf("aggregate cities: %w", err)
	}

	// Merge the NULL and empty-string buckets into "Unknown" before sorting.
	// The country scan groups them separately; city rows arrive pre-folded
	// and pass through the same merge unchanged.
	countryCounts := make(map[string]int64, len(countryRows))
	for _, row := range countryRows {
		countryCounts[bucketLabel(row.Country)] += row.Count
	}
	countries := make([]CountryStat, 0, len(countryCounts))
	for country, count := range countryCounts {
		countries = append(countries, CountryStat{Country: country, Count: count})
	}
	sort.Slice(countries, func(i, j int) bool {
		if countries[i].Count != countries[j].Count {
			return countries[i].Count > countries[j].Count
		}
		return countries[i].Country < countries[j].Country
	})

	type cityKey struct{ city, country string }
	cityCounts := make(map[cityKey]int64, len(cityRows))
	for _, row := range cityRows {
		cityCounts[cityKey{bucketLabel(row.City), bucketLabel(row.Country)}] += row.Count
	}
	cities := make([]CityStat, 0, len(cityCounts))
	for key, count := range cityCounts {
		cities = append(cities, CityStat{City: key.city, Country: key.country, Count: count})
	}
	sort.Slice(cities, func(i, j int) bool {
		if cities[i].Count != cities[j].Count {
			return cities[i].Count > cities[j].Count
		}
		if cities[i].City != cities[j].City {
			return cities[i].City < cities[j].City
		}
		return cities[i].Country < cities[j].Country
	})
	if len(cities) > cityStatsCap {
		cities = cities[:cityStatsCap]
	}

	return &VisitStats{
		Total:           total,
		UniqueCountries: len(countries),
		Countries:       countries,
		Cities:          cities,
	}, nil
}

func bucketLabel(v *string) string {
	if v == nil || *v == "" {
		return unknownBucket
	}
	return *v
}
