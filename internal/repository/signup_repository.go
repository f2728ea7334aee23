package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookadzone/launch-api/internal/domain"
)

// ErrDuplicateEmail indicates the unique index on email rejected an insert.
// The pre-insert existence check is advisory only; two concurrent submissions
// can both pass it, so the index is what actually enforces uniqueness.
var ErrDuplicateEmail = errors.New("email already registered")

const pgUniqueViolation = "23505"

// SignupRepository defines persistence access for launch-notification signups.
type SignupRepository interface {
	Create(ctx context.Context, signup *domain.Signup) error
	GetByEmail(ctx context.Context, email string) (*domain.Signup, error)
	CountByProfileType(ctx context.Context) (map[domain.ProfileType]int64, error)
}

type signupRepository struct {
	pool *pgxpool.Pool
}

// NewSignupRepository returns a Postgres-backed implementation.
func NewSignupRepository(pool *pgxpool.Pool) SignupRepository {
	return &signupRepository{pool: pool}
}

func (r *signupRepository) Create(ctx context.Context, signup *domain.Signup) error {
	const query = `
        INSERT INTO signups
            (full_name, company_name, position, email, profile_type,
             city, region, country, isp, lat, lon,
             ip_address, status, is_deleted)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        RETURNING id, signup_date, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		signup.FullName,
		signup.CompanyName,
		signup.Position,
		signup.Email,
		signup.ProfileType,
		signup.Location.City,
		signup.Location.Region,
		signup.Location.Country,
		signup.Location.ISP,
		signup.Location.Lat,
		signup.Location.Lon,
		signup.IPAddress,
		signup.Status,
		signup.IsDeleted,
	).Scan(&signup.ID, &signup.SignupDate, &signup.CreatedAt, &signup.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *signupRepository) GetByEmail(ctx context.Context, email string) (*domain.Signup, error) {
	const query = `
        SELECT id, full_name, company_name, position, email, profile_type,
               city, region, country, isp, lat, lon,
               ip_address, status, is_deleted, signup_date, created_at, updated_at
        FROM signups WHERE email=$1`

	var signup domain.Signup
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&signup.ID,
		&signup.FullName,
		&signup.CompanyName,
		&signup.Position,
		&signup.Email,
		&signup.ProfileType,
		&signup.Location.City,
		&signup.Location.Region,
		&signup.Location.Country,
		&signup.Location.ISP,
		&signup.Location.Lat,
		&signup.Location.Lon,
		&signup.IPAddress,
		&signup.Status,
		&signup.IsDeleted,
		&signup.SignupDate,
		&signup.CreatedAt,
		&signup.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &signup, nil
}

func (r *signupRepository) CountByProfileType(ctx context.Context) (map[domain.ProfileType]int64, error) {
	const query = `
        SELECT profile_type, COUNT(*)
        FROM signups
        WHERE is_deleted = FALSE
        GROUP BY profile_type`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.ProfileType]int64)
	for rows.Next() {
		var profileType domain.ProfileType
		var count int64
		if err := rows.Scan(&profileType, &count); err != nil {
			return nil, err
		}
		counts[profileType] = count
	}
	return counts, rows.Err()
}
