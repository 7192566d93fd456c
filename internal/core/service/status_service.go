package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/panelbunker/tracking-api/internal/api/metrics"
	"github.com/panelbunker/tracking-api/internal/core/domain"
	"github.com/panelbunker/tracking-api/internal/core/ports"
)

// StatusService applies admin-driven mutations: status transitions and
// delay adjustments. Every successful mutation produces exactly one history
// entry, written atomically with the tracking update by the store.
type StatusService struct {
	store     ports.TrackingStore
	estimator *DeliveryEstimator
	publisher ports.ChangePublisher
	logger    zerolog.Logger
	now       func() time.Time
}

func NewStatusService(store ports.TrackingStore, estimator *DeliveryEstimator, publisher ports.ChangePublisher, logger zerolog.Logger) *StatusService {
	return &StatusService{store: store, estimator: estimator, publisher: publisher, logger: logger, now: time.Now}
}

// UpdateStatus validates and applies a status change. The enum check runs
// before any store access; on failure no history entry exists anywhere.
// Any recognised status may follow any other, including itself — the state
// machine is deliberately permissive so admins can correct mistakes.
func (s *StatusService) UpdateStatus(ctx context.Context, trackingID string, newStatus string, notes string) (*domain.Tracking, error) {
	status := domain.TrackingStatus(newStatus)
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, newStatus)
	}

	updated, entry, err := s.store.UpdateStatus(ctx, trackingID, status, s.now().UTC(), notes)
	if err != nil {
		return nil, err
	}

	oldStatus := domain.TrackingStatus("")
	if entry.OldStatus != nil {
		oldStatus = *entry.OldStatus
	}
	metrics.StatusTransitionsTotal.WithLabelValues(string(oldStatus), string(status)).Inc()

	s.logger.Info().
		Str("tracking_id", trackingID).
		Str("old_status", string(oldStatus)).
		Str("new_status", string(status)).
		Msg("tracking status updated")

	if s.publisher != nil {
		s.publisher.Publish(ports.StatusChange{
			TrackingID:     trackingID,
			OldStatus:      oldStatus,
			NewStatus:      status,
			ChangedAt:      entry.ChangedAt,
			Notes:          notes,
			UserTelegramID: updated.UserTelegramID,
		})
	}

	return updated, nil
}

// AddDelay pushes the estimated delivery date by days business days and
// increments the accumulated delay counter. The audit entry keeps
// old_status == new_status so the history invariant holds.
func (s *StatusService) AddDelay(ctx context.Context, trackingID string, days int, reason string) (*domain.Tracking, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: delay days must be positive", domain.ErrInvalidStatus)
	}

	current, err := s.store.Get(ctx, trackingID)
	if err != nil {
		return nil, err
	}

	destination := CountryFromPostal(current.CountryPostal)
	est, err := s.estimator.Estimate(ctx, current.SenderCountry, destination, current.ActualDelayDays+days)
	if err != nil {
		return nil, err
	}

	note := fmt.Sprintf("Retraso de %d días: %s", days, reason)
	updated, err := s.store.AddDelay(ctx, trackingID, days, est.DeliveryDate, note, s.now().UTC())
	if err != nil {
		return nil, err
	}

	metrics.DelaysAddedTotal.Inc()
	s.logger.Info().Str("tracking_id", trackingID).Int("delay_days", days).
		Str("estimated_delivery", updated.EstimatedDeliveryDate).Msg("delay added to tracking")

	return updated, nil
}
