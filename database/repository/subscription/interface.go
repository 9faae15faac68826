package subscriptionRepo

import (
	"context"

	"mediremind/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SubscriptionRepository stores registered push endpoints. One live row per
// (user_id, endpoint); a user may register several devices.
type SubscriptionRepository interface {
	Upsert(ctx context.Context, sub models.PushSubscription) (*models.PushSubscription, error)
	ListByUser(ctx context.Context, userID string) ([]models.PushSubscription, error)
	DeleteByEndpoint(ctx context.Context, userID, endpoint string) error
}

// Querier is the subset of pgxpool.Pool the repository needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgSubscriptionRepo struct {
	pool Querier
}

// NewPgSubscriptionRepo returns a SubscriptionRepository backed by Postgres.
func NewPgSubscriptionRepo(pool Querier) SubscriptionRepository {
	return &pgSubscriptionRepo{pool: pool}
}
