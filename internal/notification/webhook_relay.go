package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ApprovalLink carries everything the out-of-band approver needs: request
// context plus action URLs embedding the single-use token.
type ApprovalLink struct {
	RequestID      uint      `json:"request_id"`
	RequesterName  string    `json:"requester_name"`
	RequesterEmail string    `json:"requester_email"`
	Department     string    `json:"department"`
	LeaveType      string    `json:"leave_type"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	DurationDays   float64   `json:"duration_days"`
	Reason         string    `json:"reason"`
	ApproveURL     string    `json:"approve_url"`
	RejectURL      string    `json:"reject_url"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// RevocationLink asks the approver to confirm pulling an approved request
// back into the approval pipeline.
type RevocationLink struct {
	RequestID      uint      `json:"request_id"`
	RequesterName  string    `json:"requester_name"`
	RequesterEmail string    `json:"requester_email"`
	Department     string    `json:"department"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	ConfirmURL     string    `json:"confirm_url"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// WebhookRelay pushes action links to a human through an outside automation
// channel. Callers treat delivery as best-effort: a relay failure never rolls
// back the transition that triggered it.
//
type WebhookRelay interface {
	SendApprovalRequest(ctx context.Context, link ApprovalLink) error
	SendRevocationRequest(ctx context.Context, link RevocationLink) error
}

type httpRelay struct {
	url    string
	token  string
	client *http.Client
	logger *zap.Logger
}

// NewHTTPRelay posts JSON payloads to the configured automation URL with a
// bounded timeout.
func NewHTTPRelay(url, token string, logger ...*zap.Logger) WebhookRelay {
	l := zap.L().Named("notification.webhook")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.webhook")
	}
	return &httpRelay{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: 5 * time.Second},
		logger: l,
	}
}

func (r *httpRelay) SendApprovalRequest(ctx context.Context, link ApprovalLink) error {
	return r.post(ctx, "leave_request.approval_requested", link)
}

func (r *httpRelay) SendRevocationRequest(ctx context.Context, link RevocationLink) error {
	return r.post(ctx, "leave_request.revocation_requested", link)
}

func (r *httpRelay) post(ctx context.Context, kind string, payload any) error {
	body, err := json.Marshal(map[string]any{
		"kind":    kind,
		"payload": payload,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook relay rejected request: %s", resp.Status)
	}

	r.logger.Debug("webhook relayed", zap.String("kind", kind))
	return nil
}

type logRelay struct {
	logger *zap.Logger
}

// NewLogRelay is the fallback when no webhook URL is configured: links are
// only logged.
func NewLogRelay(logger ...*zap.Logger) WebhookRelay {
	l := zap.L().Named("notification.webhook")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.webhook")
	}
	return &logRelay{logger: l}
}

func (r *logRelay) SendApprovalRequest(_ context.Context, link ApprovalLink) error {
	r.logger.Info("approval link (no webhook configured)",
		zap.Uint("request_id", link.RequestID),
		zap.String("approve_url", link.ApproveURL),
		zap.String("reject_url", link.RejectURL),
	)
	return nil
}

func (r *logRelay) SendRevocationRequest(_ context.Context, link RevocationLink) error {
	r.logger.Info("revocation link (no webhook configured)",
		zap.Uint("request_id", link.RequestID),
		zap.String("confirm_url", link.ConfirmURL),
	)
	return nil
}

// NewRelayFromEnv picks the HTTP relay when url is set, the log relay
// otherwise.
func NewRelayFromEnv(url, token string) WebhookRelay {
	if url == "" {
		return NewLogRelay()
	}
	return NewHTTPRelay(url, token)
}
