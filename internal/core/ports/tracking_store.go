package ports

import (
	"context"
	"time"

	"github.com/panelbunker/tracking-api/internal/core/domain"
)

// ListTrackingsFilter carries the query parameters for listing trackings.
type ListTrackingsFilter struct {
	// Search is a case-insensitive substring matched against tracking_id,
	// recipient_name and product_name. Empty means no filter.
	Search string
	// Status restricts results to a single status value. Empty means all.
	Status string
}

// TrackingStore defines persistence operations for trackings and their
// status history. Implementations must keep the status field and the
// history log consistent: a reader may never observe a tracking whose
// status differs from the new_status of its latest history entry.
type TrackingStore interface {
	// Create inserts a new tracking together with its creation history
	// entry (old_status = nil). Returns domain.ErrDuplicateTracking when
	// the tracking id is already taken; the existing record is untouched.
	Create(ctx context.Context, t *domain.Tracking) error

	// Get retrieves a tracking by id. Returns domain.ErrTrackingNotFound
	// when absent.
	Get(ctx context.Context, trackingID string) (*domain.Tracking, error)

	// List returns all trackings matching filter, in creation order.
	List(ctx context.Context, filter ListTrackingsFilter) ([]*domain.Tracking, error)

	// History returns the status history for a tracking, ordered by
	// changed_at ascending. An empty slice (not an error) when the
	// tracking has no entries.
	History(ctx context.Context, trackingID string) ([]domain.StatusHistoryEntry, error)

	// UpdateStatus atomically sets the new status, refreshes updated_at
	// and appends one history entry. Both writes succeed or neither does.
	// Returns the updated tracking and the appended entry, or
	// domain.ErrTrackingNotFound.
	UpdateStatus(ctx context.Context, trackingID string, newStatus domain.TrackingStatus, now time.Time, notes string) (*domain.Tracking, *domain.StatusHistoryEntry, error)

	// AddDelay atomically increments actual_delay_days, replaces the
	// estimated delivery date and appends a same-status history entry
	// carrying the delay note. Returns the updated tracking.
	AddDelay(ctx context.Context, trackingID string, days int, estimatedDate, note string, now time.Time) (*domain.Tracking, error)
}

// RouteStore provides read-only access to the shipping route table.
type RouteStore interface {
	// Get returns the route for an origin/destination country pair, or
	// domain.ErrRouteNotFound.
	Get(ctx context.Context, origin, destination string) (*domain.ShippingRoute, error)
}
