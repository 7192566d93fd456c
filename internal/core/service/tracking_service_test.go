package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/panelbunker/tracking-api/internal/core/domain"
	"github.com/panelbunker/tracking-api/internal/core/ports"
	"github.com/panelbunker/tracking-api/internal/infrastructure/db/memory"
)

func newTestTrackingService() (*TrackingService, *memory.TrackingStore) {
	store := memory.NewTrackingStore()
	estimator := newTestEstimator()
	svc := NewTrackingService(store, estimator, zerolog.Nop())
	svc.now = fixedNow
	return svc, store
}

func sampleInput(id string) ports.CreateTrackingInput {
	return ports.CreateTrackingInput{
		TrackingID:      id,
		RecipientName:   "Carmen Ruiz",
		DeliveryAddress: "Calle Mayor 12, Madrid",
		CountryPostal:   "Francia, 75001",
		SenderName:      "Luis Ortega",
		SenderAddress:   "Gran Vía 4, Madrid",
		SenderCountry:   "España",
		PackageWeight:   "2.5kg",
		ProductName:     "Cámara fotográfica",
		ProductPrice:    "349.99",
		UserTelegramID:  12345,
		Username:        "carmenr",
	}
}

func TestTrackingService_Create_Defaults(t *testing.T) {
	svc, store := newTestTrackingService()

	created, err := svc.Create(context.Background(), sampleInput("ES-001"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Status != domain.StatusRetenido {
		t.Fatalf("expected new tracking to start RETENIDO, got %s", created.Status)
	}
	if created.EstimatedDeliveryDate == "" {
		t.Fatalf("expected estimated delivery date to be computed")
	}
	// España → Francia is 3 days in the stub route table; Monday + 3
	// business days is Thursday.
	if created.EstimatedDeliveryDate != "07/03/2024" {
		t.Fatalf("unexpected estimated date: %s", created.EstimatedDeliveryDate)
	}

	history, err := store.History(context.Background(), "ES-001")
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected exactly one creation entry, got %d", len(history))
	}
	if history[0].OldStatus != nil {
		t.Fatalf("creation entry must have nil old status, got %s", *history[0].OldStatus)
	}
	if history[0].NewStatus != domain.StatusRetenido {
		t.Fatalf("creation entry new status = %s", history[0].NewStatus)
	}
}

func TestTrackingService_Create_ExplicitDateKept(t *testing.T) {
	svc, _ := newTestTrackingService()

	input := sampleInput("ES-002")
	input.EstimatedDeliveryDate = "25/12/2024"

	created, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.EstimatedDeliveryDate != "25/12/2024" {
		t.Fatalf("caller-supplied date was overwritten: %s", created.EstimatedDeliveryDate)
	}
}

func TestTrackingService_Create_Duplicate(t *testing.T) {
	svc, store := newTestTrackingService()

	if _, err := svc.Create(context.Background(), sampleInput("ES-003")); err != nil {
		t.Fatalf("first Create returned error: %v", err)
	}

	dup := sampleInput("ES-003")
	dup.RecipientName = "Impostor"
	if _, err := svc.Create(context.Background(), dup); err != domain.ErrDuplicateTracking {
		t.Fatalf("expected ErrDuplicateTracking, got %v", err)
	}

	existing, err := store.Get(context.Background(), "ES-003")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if existing.RecipientName != "Carmen Ruiz" {
		t.Fatalf("duplicate create modified the existing record: %s", existing.RecipientName)
	}
}

func TestTrackingService_Lookup_Found(t *testing.T) {
	svc, _ := newTestTrackingService()

	if _, err := svc.Create(context.Background(), sampleInput("ES-004")); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	result, err := svc.Lookup(context.Background(), "ES-004")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if !result.Found {
		t.Fatalf("expected Found=true")
	}
	if result.Tracking.TrackingID != "ES-004" {
		t.Fatalf("unexpected tracking: %s", result.Tracking.TrackingID)
	}
	if len(result.History) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(result.History))
	}
}

func TestTrackingService_Lookup_UnknownIsNotAnError(t *testing.T) {
	svc, _ := newTestTrackingService()

	result, err := svc.Lookup(context.Background(), "NOPE-404")
	if err != nil {
		t.Fatalf("Lookup of unknown id must not error, got %v", err)
	}
	if result.Found {
		t.Fatalf("expected Found=false")
	}
	if result.Tracking != nil {
		t.Fatalf("expected nil tracking for unknown id")
	}
}

func TestTrackingService_List_FilterByStatus(t *testing.T) {
	svc, store := newTestTrackingService()
	ctx := context.Background()

	for _, id := range []string{"ES-010", "ES-011", "ES-012"} {
		if _, err := svc.Create(ctx, sampleInput(id)); err != nil {
			t.Fatalf("Create(%s) returned error: %v", id, err)
		}
	}
	if _, _, err := store.UpdateStatus(ctx, "ES-011", domain.StatusEnTransito, fixedNow(), ""); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}

	result, err := svc.List(ctx, ports.ListTrackingsFilter{Status: string(domain.StatusRetenido)})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected 2 RETENIDO trackings, got %d", result.Total)
	}
	if result.ByStatus[domain.StatusRetenido] != 2 {
		t.Fatalf("unexpected breakdown: %v", result.ByStatus)
	}
}

func TestTrackingService_List_Search(t *testing.T) {
	svc, _ := newTestTrackingService()
	ctx := context.Background()

	first := sampleInput("ES-020")
	second := sampleInput("ES-021")
	second.RecipientName = "Pedro Gómez"
	for _, in := range []ports.CreateTrackingInput{first, second} {
		if _, err := svc.Create(ctx, in); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	result, err := svc.List(ctx, ports.ListTrackingsFilter{Search: "carmen"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if result.Total != 1 || result.Trackings[0].TrackingID != "ES-020" {
		t.Fatalf("search did not match the expected record: %+v", result)
	}
}

func TestTrackingService_Stats(t *testing.T) {
	svc, store := newTestTrackingService()
	ctx := context.Background()

	for _, id := range []string{"ES-030", "ES-031", "ES-032"} {
		if _, err := svc.Create(ctx, sampleInput(id)); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}
	if _, _, err := store.UpdateStatus(ctx, "ES-030", domain.StatusEntregado, fixedNow(), ""); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.Total != 3 {
		t.Fatalf("expected total 3, got %d", stats.Total)
	}
	// All three were created "now", which is after midnight of the same day.
	if stats.Today != 3 {
		t.Fatalf("expected 3 created today, got %d", stats.Today)
	}

	sum := 0
	for _, n := range stats.ByStatus {
		sum += n
	}
	if sum != stats.Total {
		t.Fatalf("ByStatus sums to %d, want %d", sum, stats.Total)
	}
	if stats.ByStatus[domain.StatusEntregado] != 1 {
		t.Fatalf("unexpected breakdown: %v", stats.ByStatus)
	}
}

var _ ports.TrackingService = (*TrackingService)(nil)
