package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/panelbunker/tracking-api/internal/api/metrics"
	"github.com/panelbunker/tracking-api/internal/core/ports"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramNotifier sends a Telegram message to the package owner when the
// status of their tracking changes. Trackings without a telegram id are
// skipped silently.
type TelegramNotifier struct {
	botToken string
	client   *http.Client
	baseURL  string
	log      zerolog.Logger
}

func NewTelegramNotifier(botToken string, log zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		botToken: botToken,
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  telegramAPIBase,
		log:      log,
	}
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

func (n *TelegramNotifier) Notify(ctx context.Context, change ports.StatusChange) error {
	if change.UserTelegramID == 0 {
		metrics.NotificationsTotal.WithLabelValues("skipped").Inc()
		return nil
	}

	text := fmt.Sprintf("📦 Tu envío %s cambió de estado: %s",
		change.TrackingID, change.NewStatus.DisplayLabel())
	if change.Notes != "" {
		text += "\n" + change.Notes
	}

	body, err := json.Marshal(sendMessageRequest{ChatID: change.UserTelegramID, Text: text})
	if err != nil {
		return fmt.Errorf("telegram notify: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram notify: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram notify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram notify: unexpected status %d", resp.StatusCode)
	}

	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
	n.log.Debug().Str("tracking_id", change.TrackingID).
		Int64("chat_id", change.UserTelegramID).Msg("telegram notification sent")
	return nil
}

// NopNotifier discards every notification. Wired when no bot token is
// configured.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, ports.StatusChange) error {
	metrics.NotificationsTotal.WithLabelValues("skipped").Inc()
	return nil
}
