package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/panelbunker/tracking-api/internal/core/domain"
	"github.com/panelbunker/tracking-api/internal/core/ports"
)

func TestTelegramNotifier_SendsMessage(t *testing.T) {
	var got sendMessageRequest
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("bot-token", zerolog.Nop())
	n.baseURL = srv.URL

	err := n.Notify(context.Background(), ports.StatusChange{
		TrackingID:     "ES-001",
		NewStatus:      domain.StatusEnTransito,
		Notes:          "dispatched",
		UserTelegramID: 12345,
	})
	if err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}

	if path != "/botbot-token/sendMessage" {
		t.Fatalf("unexpected path: %s", path)
	}
	if got.ChatID != 12345 {
		t.Fatalf("unexpected chat id: %d", got.ChatID)
	}
	if !strings.Contains(got.Text, "ES-001") {
		t.Fatalf("message misses the tracking id: %q", got.Text)
	}
	if !strings.Contains(got.Text, "🔵 EN TRÁNSITO") {
		t.Fatalf("message misses the status label: %q", got.Text)
	}
	if !strings.Contains(got.Text, "dispatched") {
		t.Fatalf("message misses the notes: %q", got.Text)
	}
}

func TestTelegramNotifier_SkipsWithoutChatID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Errorf("no request expected for a tracking without a telegram id")
	}))
	defer srv.Close()

	n := NewTelegramNotifier("bot-token", zerolog.Nop())
	n.baseURL = srv.URL

	err := n.Notify(context.Background(), ports.StatusChange{
		TrackingID: "ES-001",
		NewStatus:  domain.StatusEntregado,
	})
	if err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}
}

func TestTelegramNotifier_ReportsAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("bot-token", zerolog.Nop())
	n.baseURL = srv.URL

	err := n.Notify(context.Background(), ports.StatusChange{
		TrackingID:     "ES-001",
		NewStatus:      domain.StatusEntregado,
		UserTelegramID: 12345,
	})
	if err == nil {
		t.Fatalf("expected an error for a non-200 response")
	}
}
