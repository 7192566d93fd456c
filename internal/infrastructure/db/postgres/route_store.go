package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/panelbunker/tracking-api/internal/core/domain"
)

// RouteStore reads the shipping_routes table seeded by initSchema.
type RouteStore struct {
	pool *pgxpool.Pool
}

func NewRouteStore(pool *pgxpool.Pool) *RouteStore {
	return &RouteStore{pool: pool}
}

func (s *RouteStore) Get(ctx context.Context, origin, destination string) (*domain.ShippingRoute, error) {
	var r domain.ShippingRoute
	err := s.pool.QueryRow(ctx, `
SELECT origin_country, destination_country, estimated_days
FROM shipping_routes
WHERE lower(origin_country) = lower($1) AND lower(destination_country) = lower($2)
`, origin, destination).Scan(&r.OriginCountry, &r.DestinationCountry, &r.EstimatedDays)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRouteNotFound
		}
		return nil, fmt.Errorf("select route: %w", err)
	}
	return &r, nil
}
