package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookadzone/launch-api/internal/domain"
)

// SubscriberRepository defines persistence access for newsletter subscribers.
type SubscriberRepository interface {
	Create(ctx context.Context, subscriber *domain.Subscriber) error
	GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error)
}

type subscriberRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriberRepository returns a Postgres-backed implementation.
func NewSubscriberRepository(pool *pgxpool.Pool) SubscriberRepository {
	return &subscriberRepository{pool: pool}
}

func (r *subscriberRepository) Create(ctx context.Context, subscriber *domain.Subscriber) error {
	const query = `
        INSERT INTO subscribers (email)
        VALUES ($1)
        RETURNING id, subscription_date, created_at`

	err := r.pool.QueryRow(ctx, query, subscriber.Email).
		Scan(&subscriber.ID, &subscriber.SubscriptionDate, &subscriber.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *subscriberRepository) GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	const query = `
        SELECT id, email, subscription_date, created_at
        FROM subscribers WHERE email=$1`

	var subscriber domain.Subscriber
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&subscriber.ID,
		&subscriber.Email,
		&subscriber.SubscriptionDate,
		&subscriber.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &subscriber, nil
}
