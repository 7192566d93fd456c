package ports

import (
	"context"
	"time"

	"github.com/panelbunker/tracking-api/internal/core/domain"
)

// CreateTrackingInput carries all data needed to register a new tracking.
// Status and timestamps are never supplied by the caller.
type CreateTrackingInput struct {
	TrackingID      string
	RecipientName   string
	DeliveryAddress string
	CountryPostal   string
	SenderName      string
	SenderAddress   string
	SenderCountry   string
	SenderState     string

	PackageWeight string
	ProductName   string
	ProductPrice  string

	// EstimatedDeliveryDate is optional; when empty the service computes
	// it from the shipping route table.
	EstimatedDeliveryDate string

	UserTelegramID   int64
	Username         string
	CreatedByAdminID int64
}

// LookupResult is the public tracking-page view: the record plus its full
// ordered history. Found is false (with a nil tracking) when the id is
// unknown — absence is an expected outcome, not an error.
type LookupResult struct {
	Tracking *domain.Tracking
	History  []domain.StatusHistoryEntry
	Found    bool
}

// ListResult is returned by List.
type ListResult struct {
	Trackings []*domain.Tracking
	Total     int
	ByStatus  map[domain.TrackingStatus]int
}

// StatsResult aggregates live store state: Today counts trackings created
// since local midnight.
type StatsResult struct {
	Total    int
	Today    int
	ByStatus map[domain.TrackingStatus]int
}

// RouteEstimate is the outcome of a delivery estimation.
type RouteEstimate struct {
	OriginCountry      string
	DestinationCountry string
	EstimatedDays      int
	DeliveryDate       string // dd/mm/yyyy
	// RouteFound is false when the pair is not in the route table and the
	// domestic/international fallback was applied.
	RouteFound bool
}

// TrackingService defines the read-side and creation use cases.
type TrackingService interface {
	Create(ctx context.Context, input CreateTrackingInput) (*domain.Tracking, error)
	Lookup(ctx context.Context, trackingID string) (*LookupResult, error)
	List(ctx context.Context, filter ListTrackingsFilter) (*ListResult, error)
	Stats(ctx context.Context) (*StatsResult, error)
	EstimateRoute(ctx context.Context, origin, destination string) (*RouteEstimate, error)
}

// StatusService applies admin-driven mutations to an existing tracking.
type StatusService interface {
	// UpdateStatus validates newStatus, atomically applies it together
	// with exactly one history entry, and returns the updated record.
	UpdateStatus(ctx context.Context, trackingID string, newStatus string, notes string) (*domain.Tracking, error)

	// AddDelay pushes the estimated delivery date by days business days
	// and records the reason in the history log.
	AddDelay(ctx context.Context, trackingID string, days int, reason string) (*domain.Tracking, error)
}

// StatusChange is the notification payload published after a successful
// status update.
type StatusChange struct {
	TrackingID     string
	OldStatus      domain.TrackingStatus
	NewStatus      domain.TrackingStatus
	ChangedAt      time.Time
	Notes          string
	UserTelegramID int64
}

// ChangePublisher delivers status-change notifications. Implementations
// must not block the caller; delivery is best effort.
type ChangePublisher interface {
	Publish(change StatusChange)
}
