// Package memory provides in-memory implementations of the persistence
// ports. The tracking store is the default backing for development and the
// reference implementation for tests; a single mutex spans every
// read-modify-write so the status field and the history log never diverge.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/panelbunker/tracking-api/internal/core/domain"
	"github.com/panelbunker/tracking-api/internal/core/ports"
)

// TrackingStore keeps trackings and their history in process memory.
type TrackingStore struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Tracking
	order   []string // tracking ids in creation order
	history map[string][]domain.StatusHistoryEntry
}

func NewTrackingStore() *TrackingStore {
	return &TrackingStore{
		byID:    make(map[string]*domain.Tracking),
		history: make(map[string][]domain.StatusHistoryEntry),
	}
}

// Create inserts the tracking and its creation history entry as one unit.
func (s *TrackingStore) Create(_ context.Context, t *domain.Tracking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[t.TrackingID]; exists {
		return domain.ErrDuplicateTracking
	}

	clone := *t
	s.byID[t.TrackingID] = &clone
	s.order = append(s.order, t.TrackingID)
	s.history[t.TrackingID] = []domain.StatusHistoryEntry{{
		TrackingID: t.TrackingID,
		OldStatus:  nil,
		NewStatus:  t.Status,
		ChangedAt:  t.CreatedAt,
	}}
	return nil
}

func (s *TrackingStore) Get(_ context.Context, trackingID string) (*domain.Tracking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.byID[trackingID]
	if !ok {
		return nil, domain.ErrTrackingNotFound
	}
	clone := *t
	return &clone, nil
}

func (s *TrackingStore) List(_ context.Context, filter ports.ListTrackingsFilter) ([]*domain.Tracking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Tracking, 0, len(s.order))
	search := strings.ToLower(filter.Search)
	for _, id := range s.order {
		t := s.byID[id]
		if filter.Status != "" && string(t.Status) != filter.Status {
			continue
		}
		if search != "" && !matchesSearch(t, search) {
			continue
		}
		clone := *t
		out = append(out, &clone)
	}
	return out, nil
}

func matchesSearch(t *domain.Tracking, search string) bool {
	return strings.Contains(strings.ToLower(t.TrackingID), search) ||
		strings.Contains(strings.ToLower(t.RecipientName), search) ||
		strings.Contains(strings.ToLower(t.ProductName), search)
}

func (s *TrackingStore) History(_ context.Context, trackingID string) ([]domain.StatusHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.history[trackingID]
	out := make([]domain.StatusHistoryEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// UpdateStatus serialises concurrent updates on the same id behind the
// store mutex: the status write and the history append are one critical
// section, so no entry is ever lost or duplicated.
func (s *TrackingStore) UpdateStatus(_ context.Context, trackingID string, newStatus domain.TrackingStatus, now time.Time, notes string) (*domain.Tracking, *domain.StatusHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byID[trackingID]
	if !ok {
		return nil, nil, domain.ErrTrackingNotFound
	}

	oldStatus := t.Status
	t.Status = newStatus
	t.UpdatedAt = now

	entry := domain.StatusHistoryEntry{
		TrackingID: trackingID,
		OldStatus:  &oldStatus,
		NewStatus:  newStatus,
		ChangedAt:  now,
		Notes:      notes,
	}
	s.history[trackingID] = append(s.history[trackingID], entry)

	clone := *t
	return &clone, &entry, nil
}

func (s *TrackingStore) AddDelay(_ context.Context, trackingID string, days int, estimatedDate, note string, now time.Time) (*domain.Tracking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byID[trackingID]
	if !ok {
		return nil, domain.ErrTrackingNotFound
	}

	t.ActualDelayDays += days
	t.EstimatedDeliveryDate = estimatedDate
	t.UpdatedAt = now

	status := t.Status
	s.history[trackingID] = append(s.history[trackingID], domain.StatusHistoryEntry{
		TrackingID: trackingID,
		OldStatus:  &status,
		NewStatus:  status,
		ChangedAt:  now,
		Notes:      note,
	})

	clone := *t
	return &clone, nil
}
