package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/panelbunker/tracking-api/internal/core/domain"
	"github.com/panelbunker/tracking-api/internal/core/ports"
)

type stubTrackingService struct {
	created      *domain.Tracking
	createErr    error
	lookupResult *ports.LookupResult

	lastInput ports.CreateTrackingInput
}

func (s *stubTrackingService) Create(_ context.Context, input ports.CreateTrackingInput) (*domain.Tracking, error) {
	s.lastInput = input
	return s.created, s.createErr
}

func (s *stubTrackingService) Lookup(context.Context, string) (*ports.LookupResult, error) {
	return s.lookupResult, nil
}

func (s *stubTrackingService) List(context.Context, ports.ListTrackingsFilter) (*ports.ListResult, error) {
	return &ports.ListResult{ByStatus: map[domain.TrackingStatus]int{}}, nil
}

func (s *stubTrackingService) Stats(context.Context) (*ports.StatsResult, error) {
	return &ports.StatsResult{ByStatus: map[domain.TrackingStatus]int{}}, nil
}

func (s *stubTrackingService) EstimateRoute(_ context.Context, origin, destination string) (*ports.RouteEstimate, error) {
	return &ports.RouteEstimate{
		OriginCountry:      origin,
		DestinationCountry: destination,
		EstimatedDays:      3,
		DeliveryDate:       "07/03/2024",
		RouteFound:         true,
	}, nil
}

type stubStatusService struct {
	updated   *domain.Tracking
	updateErr error

	lastStatus string
	lastNotes  string
}

func (s *stubStatusService) UpdateStatus(_ context.Context, _ string, newStatus string, notes string) (*domain.Tracking, error) {
	s.lastStatus = newStatus
	s.lastNotes = notes
	return s.updated, s.updateErr
}

func (s *stubStatusService) AddDelay(context.Context, string, int, string) (*domain.Tracking, error) {
	return s.updated, s.updateErr
}

func sampleTracking() *domain.Tracking {
	now := time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)
	return &domain.Tracking{
		TrackingID:    "ES-001",
		RecipientName: "Carmen Ruiz",
		Status:        domain.StatusRetenido,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func newContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

const validCreateBody = `{
	"trackingId": "ES-001",
	"recipientName": "Carmen Ruiz",
	"deliveryAddress": "Calle Mayor 12, Madrid",
	"countryPostal": "Francia, 75001",
	"senderName": "Luis Ortega",
	"senderAddress": "Gran Vía 4, Madrid",
	"senderCountry": "España",
	"packageWeight": "2.5kg",
	"productName": "Cámara fotográfica",
	"productPrice": "349.99"
}`

func TestTrackingHandler_Create(t *testing.T) {
	trackings := &stubTrackingService{created: sampleTracking()}
	h := NewTrackingHandler(trackings, &stubStatusService{})

	c, rec := newContext(t, http.MethodPost, "/api/trackings", validCreateBody)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if trackings.lastInput.TrackingID != "ES-001" {
		t.Fatalf("input not forwarded: %+v", trackings.lastInput)
	}

	var resp trackingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "RETENIDO" {
		t.Fatalf("unexpected status: %s", resp.Status)
	}
	if resp.StatusDisplay != "🔴 RETENIDO" {
		t.Fatalf("unexpected status display: %s", resp.StatusDisplay)
	}
}

func TestTrackingHandler_Create_MissingFields(t *testing.T) {
	h := NewTrackingHandler(&stubTrackingService{}, &stubStatusService{})

	c, _ := newContext(t, http.MethodPost, "/api/trackings", `{"trackingId": "ES-001"}`)
	err := h.Create(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %v", err)
	}
}

func TestTrackingHandler_Create_Duplicate(t *testing.T) {
	trackings := &stubTrackingService{createErr: domain.ErrDuplicateTracking}
	h := NewTrackingHandler(trackings, &stubStatusService{})

	c, _ := newContext(t, http.MethodPost, "/api/trackings", validCreateBody)
	if err := h.Create(c); err != domain.ErrDuplicateTracking {
		t.Fatalf("expected the domain error to propagate, got %v", err)
	}
}

func TestTrackingHandler_Lookup_Found(t *testing.T) {
	old := domain.StatusRetenido
	trackings := &stubTrackingService{lookupResult: &ports.LookupResult{
		Tracking: sampleTracking(),
		History: []domain.StatusHistoryEntry{
			{TrackingID: "ES-001", NewStatus: domain.StatusRetenido},
			{TrackingID: "ES-001", OldStatus: &old, NewStatus: domain.StatusEnTransito},
		},
		Found: true,
	}}
	h := NewTrackingHandler(trackings, &stubStatusService{})

	c, rec := newContext(t, http.MethodGet, "/api/track/ES-001", "")
	c.SetParamNames("trackingId")
	c.SetParamValues("ES-001")

	if err := h.Lookup(c); err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp lookupResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Found || resp.Tracking == nil {
		t.Fatalf("expected found tracking: %+v", resp)
	}
	if len(resp.History) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(resp.History))
	}
	if resp.History[0].OldStatus != nil {
		t.Fatalf("creation entry must serialise a null old status")
	}
	if resp.History[1].OldStatus == nil || *resp.History[1].OldStatus != "RETENIDO" {
		t.Fatalf("unexpected old status: %+v", resp.History[1])
	}
}

func TestTrackingHandler_Lookup_Unknown(t *testing.T) {
	trackings := &stubTrackingService{lookupResult: &ports.LookupResult{Found: false}}
	h := NewTrackingHandler(trackings, &stubStatusService{})

	c, rec := newContext(t, http.MethodGet, "/api/track/NOPE", "")
	c.SetParamNames("trackingId")
	c.SetParamValues("NOPE")

	if err := h.Lookup(c); err != nil {
		t.Fatalf("unknown id must not be an error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp lookupResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Found || resp.Tracking != nil {
		t.Fatalf("expected found=false with null tracking: %+v", resp)
	}
}

func TestTrackingHandler_UpdateStatus(t *testing.T) {
	updated := sampleTracking()
	updated.Status = domain.StatusEnTransito
	status := &stubStatusService{updated: updated}
	h := NewTrackingHandler(&stubTrackingService{}, status)

	c, rec := newContext(t, http.MethodPatch, "/api/trackings/ES-001/status",
		`{"newStatus": "EN_TRANSITO", "notes": "dispatched"}`)
	c.SetParamNames("trackingId")
	c.SetParamValues("ES-001")

	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if status.lastStatus != "EN_TRANSITO" || status.lastNotes != "dispatched" {
		t.Fatalf("request not forwarded: %q %q", status.lastStatus, status.lastNotes)
	}
}

func TestTrackingHandler_UpdateStatus_MissingStatus(t *testing.T) {
	h := NewTrackingHandler(&stubTrackingService{}, &stubStatusService{})

	c, _ := newContext(t, http.MethodPatch, "/api/trackings/ES-001/status", `{"notes": "x"}`)
	c.SetParamNames("trackingId")
	c.SetParamValues("ES-001")

	err := h.UpdateStatus(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestTrackingHandler_AddDelay_Validation(t *testing.T) {
	h := NewTrackingHandler(&stubTrackingService{}, &stubStatusService{updated: sampleTracking()})

	for _, body := range []string{
		`{"days": 0, "reason": "aduana"}`,
		`{"days": -1, "reason": "aduana"}`,
		`{"days": 3}`,
	} {
		c, _ := newContext(t, http.MethodPost, "/api/trackings/ES-001/delay", body)
		c.SetParamNames("trackingId")
		c.SetParamValues("ES-001")

		err := h.AddDelay(c)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %v", body, err)
		}
	}
}

func TestTrackingHandler_EstimateRoute_RequiresBothCountries(t *testing.T) {
	h := NewTrackingHandler(&stubTrackingService{}, &stubStatusService{})

	c, _ := newContext(t, http.MethodGet, "/api/routes/estimate?origin=España", "")
	err := h.EstimateRoute(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

var _ ports.TrackingService = (*stubTrackingService)(nil)
var _ ports.StatusService = (*stubStatusService)(nil)
