// Package repository loads the donor pool snapshot for discovery.
package repository

import (
	"context"

	"bloodconnect_backend/internal/discovery/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads donor-eligible users from Postgres. The pool is the
// only shared mutable resource in discovery; this repository owns it and
// everything else reads snapshots.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a discovery repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const fetchAllQuery = `
	SELECT id, name, email, blood_type, lat, lng, address, phone
	FROM users
	WHERE blood_type IS NOT NULL
	  AND lat IS NOT NULL
	  AND lng IS NOT NULL
	  AND email <> $1
	ORDER BY created_at`

// FetchAll returns the full donor pool snapshot, excluding the calling
// user's own record and any record missing a blood type or a valid
// coordinate. Results are ordered by registration time so repeated
// fetches are stable. Transport failures surface as *domain.RepositoryError.
func (r *Repository) FetchAll(ctx context.Context, excludeEmail string) (domain.DonorPool, error) {
	rows, err := r.pool.Query(ctx, fetchAllQuery, excludeEmail)
	if err != nil {
		return nil, &domain.RepositoryError{Err: err}
	}
	defer rows.Close()

	pool := make(domain.DonorPool, 0)
	for rows.Next() {
		var (
			id, name, email string
			bloodType       string
			lat, lng        float64
			address, phone  *string
		)
		if err := rows.Scan(&id, &name, &email, &bloodType, &lat, &lng, &address, &phone); err != nil {
			return nil, &domain.RepositoryError{Err: err}
		}

		record, ok := donorFromRow(id, name, email, bloodType, lat, lng, address, phone)
		if !ok {
			continue
		}
		pool = append(pool, record)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.RepositoryError{Err: err}
	}

	return pool, nil
}

// donorFromRow maps one users row to a donor record. Rows carrying an
// unrecognized blood group or an out-of-range coordinate are legacy data
// that cannot be placed on the map; they are skipped, not surfaced as
// errors.
func donorFromRow(id, name, email, bloodType string, lat, lng float64, address, phone *string) (domain.DonorRecord, bool) {
	bt, err := domain.ParseBloodType(bloodType)
	if err != nil {
		return domain.DonorRecord{}, false
	}
	coord, err := domain.NewCoordinate(lat, lng)
	if err != nil {
		return domain.DonorRecord{}, false
	}

	record := domain.DonorRecord{
		ID:        id,
		Name:      name,
		Email:     email,
		BloodType: bt,
		Location:  coord,
	}
	if address != nil {
		record.Address = *address
	}
	if phone != nil {
		record.Contact = *phone
	}
	return record, true
}
