package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Provider delivers a rendered notification to one recipient over one
// channel. The consumer fans lifecycle events out through a provider; errors
// are logged and retried by the broker offset, never surfaced to the user
// whose transition produced the event.
type Provider interface {
	Send(ctx context.Context, recipient, message string) error
}

// NewProviderFromEnv selects the provider for a channel:
//
//	NOTIF_<CHANNEL>_PROVIDER = log | noop | webhook
//
// The webhook provider reads NOTIF_<CHANNEL>_WEBHOOK_URL and falls back to
// logging when the URL is missing.
func NewProviderFromEnv(channel string) Provider {
	upper := strings.ToUpper(channel)
	kind := os.Getenv("NOTIF_" + upper + "_PROVIDER")

	switch kind {
	case "", "log":
		return logNotifier{channel: channel}
	case "noop":
		return noopNotifier{}
	case "webhook":
		url := os.Getenv("NOTIF_" + upper + "_WEBHOOK_URL")
		token := os.Getenv("NOTIF_" + upper + "_WEBHOOK_TOKEN")
		if url == "" {
			return logNotifier{channel: channel}
		}
		return webhookNotifier{channel: channel, url: url, token: token}
	default:
		return logNotifier{channel: channel}
	}
}

type logNotifier struct {
	channel string
}

func (p logNotifier) Send(_ context.Context, recipient, message string) error {
	zap.L().Named("notification").Info("notify",
		zap.String("channel", p.channel),
		zap.String("recipient", recipient),
		zap.String("message", message),
	)
	return nil
}

type noopNotifier struct{}

func (noopNotifier) Send(context.Context, string, string) error {
	return nil
}

type webhookNotifier struct {
	channel string
	url     string
	token   string
}

func (p webhookNotifier) Send(ctx context.Context, recipient, message string) error {
	body, err := json.Marshal(map[string]string{
		"channel":   p.channel,
		"recipient": recipient,
		"message":   message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return errors.New("notification provider rejected request")
	}
	return nil
}
