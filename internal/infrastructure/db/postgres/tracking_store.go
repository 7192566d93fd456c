package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/panelbunker/tracking-api/internal/core/domain"
	"github.com/panelbunker/tracking-api/internal/core/ports"
)

const trackingColumns = `
  tracking_id, recipient_name, delivery_address, country_postal,
  sender_name, sender_address, sender_country, sender_state,
  package_weight, product_name, product_price,
  status, estimated_delivery_date, actual_delay_days,
  created_at, updated_at, user_telegram_id, username, created_by_admin_id`

// TrackingStore implements ports.TrackingStore on PostgreSQL.
type TrackingStore struct {
	pool *pgxpool.Pool
}

func NewTrackingStore(pool *pgxpool.Pool) *TrackingStore {
	return &TrackingStore{pool: pool}
}

// Create inserts the tracking row and its creation history entry in one
// transaction.
func (s *TrackingStore) Create(ctx context.Context, t *domain.Tracking) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
INSERT INTO trackings (`+trackingColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
`,
		t.TrackingID, t.RecipientName, t.DeliveryAddress, t.CountryPostal,
		t.SenderName, t.SenderAddress, t.SenderCountry, t.SenderState,
		t.PackageWeight, t.ProductName, t.ProductPrice,
		string(t.Status), t.EstimatedDeliveryDate, t.ActualDelayDays,
		t.CreatedAt.UTC(), t.UpdatedAt.UTC(), t.UserTelegramID, t.Username, t.CreatedByAdminID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDuplicateTracking
		}
		return fmt.Errorf("insert tracking: %w", err)
	}

	_, err = tx.Exec(ctx, `
INSERT INTO status_history (tracking_id, old_status, new_status, changed_at, notes)
VALUES ($1, NULL, $2, $3, '')
`, t.TrackingID, string(t.Status), t.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert creation history: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *TrackingStore) Get(ctx context.Context, trackingID string) (*domain.Tracking, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+trackingColumns+` FROM trackings WHERE tracking_id = $1`, trackingID)
	return scanTracking(row)
}

func (s *TrackingStore) List(ctx context.Context, filter ports.ListTrackingsFilter) ([]*domain.Tracking, error) {
	query := `SELECT ` + trackingColumns + ` FROM trackings`
	var (
		conds []string
		args  []any
	)
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		p := fmt.Sprintf("$%d", len(args))
		conds = append(conds, `(tracking_id ILIKE `+p+` OR recipient_name ILIKE `+p+` OR product_name ILIKE `+p+`)`)
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY created_at, tracking_id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list trackings: %w", err)
	}
	defer rows.Close()

	var out []*domain.Tracking
	for rows.Next() {
		t, err := scanTracking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("list trackings: %w", rows.Err())
	}
	return out, nil
}

func (s *TrackingStore) History(ctx context.Context, trackingID string) ([]domain.StatusHistoryEntry, error) {
	rows, err := s.pool.Query(ctx, `
SELECT tracking_id, old_status, new_status, changed_at, notes
FROM status_history
WHERE tracking_id = $1
ORDER BY changed_at, id
`, trackingID)
	if err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	defer rows.Close()

	var out []domain.StatusHistoryEntry
	for rows.Next() {
		var (
			e   domain.StatusHistoryEntry
			old *string
		)
		if err := rows.Scan(&e.TrackingID, &old, &e.NewStatus, &e.ChangedAt, &e.Notes); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		if old != nil {
			st := domain.TrackingStatus(*old)
			e.OldStatus = &st
		}
		out = append(out, e)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("select history: %w", rows.Err())
	}
	return out, nil
}

// UpdateStatus reads the current status with FOR UPDATE, writes the new
// status and appends the history entry inside one transaction, so
// concurrent updates on the same id serialise and no entry is lost.
func (s *TrackingStore) UpdateStatus(ctx context.Context, trackingID string, newStatus domain.TrackingStatus, now time.Time, notes string) (*domain.Tracking, *domain.StatusHistoryEntry, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var oldStatus string
	err = tx.QueryRow(ctx, `SELECT status FROM trackings WHERE tracking_id = $1 FOR UPDATE`, trackingID).Scan(&oldStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, domain.ErrTrackingNotFound
		}
		return nil, nil, fmt.Errorf("lock tracking: %w", err)
	}

	_, err = tx.Exec(ctx, `UPDATE trackings SET status = $2, updated_at = $3 WHERE tracking_id = $1`,
		trackingID, string(newStatus), now.UTC())
	if err != nil {
		return nil, nil, fmt.Errorf("update status: %w", err)
	}

	_, err = tx.Exec(ctx, `
INSERT INTO status_history (tracking_id, old_status, new_status, changed_at, notes)
VALUES ($1, $2, $3, $4, $5)
`, trackingID, oldStatus, string(newStatus), now.UTC(), notes)
	if err != nil {
		return nil, nil, fmt.Errorf("insert history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}

	updated, err := s.Get(ctx, trackingID)
	if err != nil {
		return nil, nil, err
	}

	old := domain.TrackingStatus(oldStatus)
	entry := &domain.StatusHistoryEntry{
		TrackingID: trackingID,
		OldStatus:  &old,
		NewStatus:  newStatus,
		ChangedAt:  now.UTC(),
		Notes:      notes,
	}
	return updated, entry, nil
}

func (s *TrackingStore) AddDelay(ctx context.Context, trackingID string, days int, estimatedDate, note string, now time.Time) (*domain.Tracking, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status string
	err = tx.QueryRow(ctx, `SELECT status FROM trackings WHERE tracking_id = $1 FOR UPDATE`, trackingID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTrackingNotFound
		}
		return nil, fmt.Errorf("lock tracking: %w", err)
	}

	_, err = tx.Exec(ctx, `
UPDATE trackings
SET actual_delay_days = actual_delay_days + $2,
    estimated_delivery_date = $3,
    updated_at = $4
WHERE tracking_id = $1
`, trackingID, days, estimatedDate, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("update delay: %w", err)
	}

	_, err = tx.Exec(ctx, `
INSERT INTO status_history (tracking_id, old_status, new_status, changed_at, notes)
VALUES ($1, $2, $2, $3, $4)
`, trackingID, status, now.UTC(), note)
	if err != nil {
		return nil, fmt.Errorf("insert delay history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return s.Get(ctx, trackingID)
}

// escapeLike escapes the ILIKE metacharacters so a search term matches as
// a literal substring: without it "ES_1" would match "ESX1".
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTracking(row rowScanner) (*domain.Tracking, error) {
	var (
		t      domain.Tracking
		status string
	)
	err := row.Scan(
		&t.TrackingID, &t.RecipientName, &t.DeliveryAddress, &t.CountryPostal,
		&t.SenderName, &t.SenderAddress, &t.SenderCountry, &t.SenderState,
		&t.PackageWeight, &t.ProductName, &t.ProductPrice,
		&status, &t.EstimatedDeliveryDate, &t.ActualDelayDays,
		&t.CreatedAt, &t.UpdatedAt, &t.UserTelegramID, &t.Username, &t.CreatedByAdminID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTrackingNotFound
		}
		return nil, fmt.Errorf("scan tracking: %w", err)
	}
	t.Status = domain.TrackingStatus(status)
	return &t, nil
}
