package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`
CREATE TABLE IF NOT EXISTS trackings (
  tracking_id VARCHAR(50) PRIMARY KEY,
  recipient_name VARCHAR(255) NOT NULL DEFAULT '',
  delivery_address TEXT NOT NULL DEFAULT '',
  country_postal VARCHAR(255) NOT NULL DEFAULT '',
  sender_name VARCHAR(255) NOT NULL DEFAULT '',
  sender_address TEXT NOT NULL DEFAULT '',
  sender_country VARCHAR(255) NOT NULL DEFAULT '',
  sender_state VARCHAR(255) NOT NULL DEFAULT '',
  package_weight VARCHAR(100) NOT NULL DEFAULT '',
  product_name VARCHAR(255) NOT NULL DEFAULT '',
  product_price VARCHAR(100) NOT NULL DEFAULT '',
  status VARCHAR(50) NOT NULL DEFAULT 'RETENIDO',
  estimated_delivery_date VARCHAR(255) NOT NULL DEFAULT '',
  actual_delay_days INTEGER NOT NULL DEFAULT 0,
  created_at TIMESTAMPTZ NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL,
  user_telegram_id BIGINT NOT NULL DEFAULT 0,
  username VARCHAR(255) NOT NULL DEFAULT '',
  created_by_admin_id BIGINT NOT NULL DEFAULT 0
)`,
		`CREATE INDEX IF NOT EXISTS idx_trackings_created_at ON trackings(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_trackings_status ON trackings(status)`,
		`
CREATE TABLE IF NOT EXISTS status_history (
  id BIGSERIAL PRIMARY KEY,
  tracking_id VARCHAR(50) NOT NULL REFERENCES trackings(tracking_id),
  old_status VARCHAR(50) NULL,
  new_status VARCHAR(50) NOT NULL,
  changed_at TIMESTAMPTZ NOT NULL,
  notes TEXT NOT NULL DEFAULT ''
)`,
		`CREATE INDEX IF NOT EXISTS idx_status_history_tracking_id ON status_history(tracking_id, changed_at, id)`,
		`
CREATE TABLE IF NOT EXISTS shipping_routes (
  id SERIAL PRIMARY KEY,
  origin_country VARCHAR(255) NOT NULL,
  destination_country VARCHAR(255) NOT NULL,
  estimated_days INTEGER NOT NULL,
  UNIQUE (origin_country, destination_country)
)`,
		`
INSERT INTO shipping_routes (origin_country, destination_country, estimated_days) VALUES
('España', 'España', 2),
('España', 'Colombia', 10),
('España', 'México', 8),
('España', 'Argentina', 12),
('España', 'Chile', 11),
('España', 'Perú', 9),
('España', 'Ecuador', 8),
('España', 'Francia', 3),
('España', 'Italia', 4),
('España', 'Alemania', 3),
('España', 'Portugal', 2),
('España', 'Reino Unido', 4),
('España', 'Estados Unidos', 7),
('España', 'Canadá', 8)
ON CONFLICT (origin_country, destination_country) DO NOTHING`,
	}

	for _, q := range stmts {
		if _, err := pool.Exec(ctx, q); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
