package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/panelbunker/tracking-api/internal/api/metrics"
	"github.com/panelbunker/tracking-api/internal/core/domain"
	"github.com/panelbunker/tracking-api/internal/core/ports"
)

// TrackingService implements creation and the read-side use cases.
type TrackingService struct {
	store     ports.TrackingStore
	estimator *DeliveryEstimator
	logger    zerolog.Logger
	now       func() time.Time
}

func NewTrackingService(store ports.TrackingStore, estimator *DeliveryEstimator, logger zerolog.Logger) *TrackingService {
	return &TrackingService{store: store, estimator: estimator, logger: logger, now: time.Now}
}

// Create registers a new tracking. Status always starts at RETENIDO and the
// creation history entry is written by the store in the same operation.
// When the caller omits an estimated delivery date it is computed from the
// shipping route table.
func (s *TrackingService) Create(ctx context.Context, input ports.CreateTrackingInput) (*domain.Tracking, error) {
	now := s.now().UTC()

	estimated := input.EstimatedDeliveryDate
	if estimated == "" {
		destination := CountryFromPostal(input.CountryPostal)
		est, err := s.estimator.Estimate(ctx, input.SenderCountry, destination, 0)
		if err != nil {
			s.logger.Warn().Err(err).Str("tracking_id", input.TrackingID).
				Msg("delivery estimation failed, leaving date empty")
		} else {
			estimated = est.DeliveryDate
		}
	}

	tracking := &domain.Tracking{
		TrackingID:            input.TrackingID,
		RecipientName:         input.RecipientName,
		DeliveryAddress:       input.DeliveryAddress,
		CountryPostal:         input.CountryPostal,
		SenderName:            input.SenderName,
		SenderAddress:         input.SenderAddress,
		SenderCountry:         input.SenderCountry,
		SenderState:           input.SenderState,
		PackageWeight:         input.PackageWeight,
		ProductName:           input.ProductName,
		ProductPrice:          input.ProductPrice,
		Status:                domain.StatusRetenido,
		EstimatedDeliveryDate: estimated,
		CreatedAt:             now,
		UpdatedAt:             now,
		UserTelegramID:        input.UserTelegramID,
		Username:              input.Username,
		CreatedByAdminID:      input.CreatedByAdminID,
	}

	if err := s.store.Create(ctx, tracking); err != nil {
		return nil, err
	}

	metrics.TrackingsCreatedTotal.Inc()
	s.logger.Info().Str("tracking_id", tracking.TrackingID).
		Str("recipient", tracking.RecipientName).Msg("tracking created")

	return tracking, nil
}

// Lookup serves the public tracking page: the record plus its full ordered
// history. An unknown id yields Found=false, never an error.
func (s *TrackingService) Lookup(ctx context.Context, trackingID string) (*ports.LookupResult, error) {
	tracking, err := s.store.Get(ctx, trackingID)
	if err != nil {
		if err == domain.ErrTrackingNotFound {
			metrics.LookupsTotal.WithLabelValues("miss").Inc()
			return &ports.LookupResult{Found: false}, nil
		}
		return nil, err
	}

	history, err := s.store.History(ctx, trackingID)
	if err != nil {
		return nil, err
	}

	metrics.LookupsTotal.WithLabelValues("found").Inc()
	return &ports.LookupResult{Tracking: tracking, History: history, Found: true}, nil
}

// List returns all trackings matching filter with the per-status breakdown
// of the matched set.
func (s *TrackingService) List(ctx context.Context, filter ports.ListTrackingsFilter) (*ports.ListResult, error) {
	trackings, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[domain.TrackingStatus]int)
	for _, t := range trackings {
		byStatus[t.Status]++
	}

	return &ports.ListResult{
		Trackings: trackings,
		Total:     len(trackings),
		ByStatus:  byStatus,
	}, nil
}

// Stats aggregates the current store state at call time; no caching.
func (s *TrackingService) Stats(ctx context.Context) (*ports.StatsResult, error) {
	trackings, err := s.store.List(ctx, ports.ListTrackingsFilter{})
	if err != nil {
		return nil, err
	}

	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats := &ports.StatsResult{ByStatus: make(map[domain.TrackingStatus]int)}
	for _, t := range trackings {
		stats.Total++
		stats.ByStatus[t.Status]++
		if !t.CreatedAt.Before(midnight) {
			stats.Today++
		}
	}
	return stats, nil
}

// EstimateRoute exposes the delivery estimator for the quote endpoint.
func (s *TrackingService) EstimateRoute(ctx context.Context, origin, destination string) (*ports.RouteEstimate, error) {
	return s.estimator.Estimate(ctx, origin, destination, 0)
}
