package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("user not found")

const profileColumns = `
	id, email, name, COALESCE(phone, ''), COALESCE(blood_type, ''),
	COALESCE(address, ''), lat, lng, total_donations, last_donation_date,
	created_at, updated_at`

// Repository persists user profiles.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a users repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns every profile ordered by registration time.
func (r *Repository) List(ctx context.Context) ([]Profile, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+profileColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// GetByEmail returns one profile.
func (r *Repository) GetByEmail(ctx context.Context, email string) (Profile, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM users WHERE email = $1`, email)
	p, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	return p, err
}

// Update applies profile fields to an existing user. Blood type and
// coordinates are cleared when empty, matching the upsert semantics of
// the profile edit form.
func (r *Repository) Update(ctx context.Context, email string, req UpdateProfileRequest) (Profile, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users SET
			name = COALESCE(NULLIF($2, ''), name),
			phone = NULLIF($3, ''),
			blood_type = NULLIF($4, ''),
			address = NULLIF($5, ''),
			lat = $6,
			lng = $7,
			updated_at = now()
		WHERE email = $1
		RETURNING `+profileColumns,
		email, req.Name, req.Phone, req.BloodType, req.Address, req.Lat, req.Lng)

	p, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	return p, err
}

// RecordDonation bumps the donation counters after a completed donation.
func (r *Repository) RecordDonation(ctx context.Context, email string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET
			total_donations = total_donations + 1,
			last_donation_date = now(),
			updated_at = now()
		WHERE email = $1
	`, email)
	return err
}

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.Name,
		&p.Phone,
		&p.BloodType,
		&p.Address,
		&p.Lat,
		&p.Lng,
		&p.TotalDonations,
		&p.LastDonationDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
