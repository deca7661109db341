package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/chathaven/warden/guardmod/progression"
	"github.com/chathaven/warden/guardmod/strikes"
)

// WebhookNotifier POSTs engine decisions as JSON to a single webhook URL, the
// integration point for third-party automation. Outbound requests are
// rate-limited so a violation storm can't flood the receiver.
type WebhookNotifier struct {
	URL     string
	Client  *http.Client
	Limiter *rate.Limiter
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		URL: url,
		Client: &http.Client{
			Timeout: 15 * time.Second,
		},
		Limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

type webhookBody struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

func (n *WebhookNotifier) SendAction(ctx context.Context, action strikes.ModerationAction) error {
	return n.send(ctx, webhookBody{Event: "moderation_action", Payload: action})
}

func (n *WebhookNotifier) SendLevelUp(ctx context.Context, chatID int64, lu progression.LevelUp) error {
	return n.send(ctx, webhookBody{Event: "level_up", Payload: struct {
		ChatID int64 `json:"chat_id"`
		progression.LevelUp
	}{chatID, lu}})
}

func (n *WebhookNotifier) SendRaid(ctx context.Context, sig RaidSignal) error {
	return n.send(ctx, webhookBody{Event: "raid_detected", Payload: sig})
}

func (n *WebhookNotifier) send(ctx context.Context, body webhookBody) error {
	if err := n.Limiter.Wait(ctx); err != nil {
		return err
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewBuffer(raw))
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/json")

	resp, err := n.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("failed webhook POST request. status=%d", resp.StatusCode)
	}
	return nil
}
