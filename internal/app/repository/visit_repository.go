package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/julienvb/portfolio-api/internal/app/model"
	"gorm.io/gorm"
)

var (
	// ErrVisitNotFound signals that no visit row matched the lookup.
	ErrVisitNotFound = errors.New("visit not found")
)

// VisitFilter narrows List results. Zero values mean "no constraint";
// Limit/Offset are expected to be clamped by the caller.
type VisitFilter struct {
	Country string
	City    string
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

// CountryCount is one aggregation bucket of visits per country. Country is
// nil for rows whose address could not be resolved.
type CountryCount struct {
	Country *string
	Count   int64
}

// CityCount is one aggregation bucket keyed by (city, country). Unresolved
// values arrive pre-folded into the Unknown bucket, so neither field is nil
// in practice; the pointer types match the scan targets.
type CityCount struct {
	City    *string
	Country *string
	Count   int64
}

// VisitRepository defines the data access contract for visit records.
// Writes only ever insert; the aggregate scans run over the pgx pool so the
// GROUP BY happens in Postgres rather than application memory.
type VisitRepository interface {
	Create(ctx context.Context, visit *model.Visit) error
	LatestByVisitor(ctx context.Context, visitorID string) (*model.Visit, error)
	List(ctx context.Context, filter VisitFilter) ([]model.Visit, int64, error)
	CountAll(ctx context.Context) (int64, error)
	CountByCountry(ctx context.Context) ([]CountryCount, error)
	CountByCityCountry(ctx context.Context, limit int) ([]CityCount, error)
}

type visitRepository struct {
	db   *gorm.DB
	pool *pgxpool.Pool
}

// NewVisitRepository returns a Postgres-backed VisitRepository.
func NewVisitRepository(db *gorm.DB, pool *pgxpool.Pool) VisitRepository {
	return &visitRepository{db: db, pool: pool}
}

func (r *visitRepository) Create(ctx context.Context, visit *model.Visit) error {
	return r.db.WithContext(ctx).Create(visit).Error
}

func (r *visitRepository) LatestByVisitor(ctx context.Context, visitorID string) (*model.Visit, error) {
	var visit model.Visit
	err := r.db.WithContext(ctx).
		Where("visitor_id = ?", visitorID).
		Order("created_at DESC").
		First(&visit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitNotFound
		}
		return nil, err
	}
	return &visit, nil
}

func (r *visitRepository) List(ctx context.Context, filter VisitFilter) ([]model.Visit, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var visits []model.Visit
	err := r.filtered(ctx, filter).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&visits).Error
	if err != nil {
		return nil, 0, err
	}

	return visits, total, nil
}

func (r *visitRepository) filtered(ctx context.Context, filter VisitFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Visit{})
	if filter.Country != "" {
		q = q.Where("country ILIKE ?", "%"+filter.Country+"%")
	}
	if filter.City != "" {
		q = q.Where("city ILIKE ?", "%"+filter.City+"%")
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}
	return q
}

func (r *visitRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM visits`).Scan(&total)
	return total, err
}

func (r *visitRepository) CountByCountry(ctx context.Context) ([]CountryCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT country, COUNT(*) AS n
		FROM visits
		GROUP BY country
		ORDER BY n DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CountryCount
	for rows.Next() {
		var c CountryCount
		if err := rows.Scan(&c.Country, &c.Count); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *visitRepository) CountByCityCountry(ctx context.Context, limit int) ([]CityCount, error) {
	// NULL and empty values fold into 'Unknown' before the limit applies, so
	// a literal "Unknown" group past the cutoff cannot split the bucket.
	rows, err := r.pool.Query(ctx, `
		SELECT COALESCE(NULLIF(city, ''), 'Unknown') AS city,
		       COALESCE(NULLIF(country, ''), 'Unknown') AS country,
		       COUNT(*) AS n
		FROM visits
		GROUP BY 1, 2
		ORDER BY n DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CityCount
	for rows.Next() {
		var c CityCount
		if err := rows.Scan(&c.City, &c.Country, &c.Count); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
