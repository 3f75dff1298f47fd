package notification_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"leaveflow/internal/notification"
)

func TestHTTPRelay_SendApprovalRequest(t *testing.T) {
	t.Run("success posts kind and payload with bearer token", func(t *testing.T) {
		var gotAuth string
		var gotBody []byte
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			gotBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		relay := notification.NewHTTPRelay(srv.URL, "secret-token")
		err := relay.SendApprovalRequest(context.Background(), notification.ApprovalLink{
			RequestID:  42,
			ApproveURL: "http://localhost:8080/api/v1/public/leave-approvals/tok/approve",
			RejectURL:  "http://localhost:8080/api/v1/public/leave-approvals/tok/reject",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Bearer secret-token", gotAuth)

		var envelope struct {
			Kind    string `json:"kind"`
			Payload struct {
				RequestID  uint   `json:"request_id"`
				ApproveURL string `json:"approve_url"`
			} `json:"payload"`
		}
		assert.NoError(t, json.Unmarshal(gotBody, &envelope))
		assert.Equal(t, "leave_request.approval_requested", envelope.Kind)
		assert.Equal(t, uint(42), envelope.Payload.RequestID)
		assert.Contains(t, envelope.Payload.ApproveURL, "/approve")
	})

	t.Run("negative non-2xx response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		relay := notification.NewHTTPRelay(srv.URL, "")
		err := relay.SendApprovalRequest(context.Background(), notification.ApprovalLink{RequestID: 1})

		assert.Error(t, err)
	})

	t.Run("negative unreachable endpoint", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		relay := notification.NewHTTPRelay(srv.URL, "")
		err := relay.SendApprovalRequest(context.Background(), notification.ApprovalLink{RequestID: 1})

		assert.Error(t, err)
	})
}

func TestHTTPRelay_SendRevocationRequest(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotBody []byte
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusAccepted)
		}))
		defer srv.Close()

		relay := notification.NewHTTPRelay(srv.URL, "")
		err := relay.SendRevocationRequest(context.Background(), notification.RevocationLink{
			RequestID:  7,
			ConfirmURL: "http://localhost:8080/api/v1/public/leave-revocations/rev",
		})

		assert.NoError(t, err)

		var envelope struct {
			Kind string `json:"kind"`
		}
		assert.NoError(t, json.Unmarshal(gotBody, &envelope))
		assert.Equal(t, "leave_request.revocation_requested", envelope.Kind)
	})

	t.Run("no auth header without token", func(t *testing.T) {
		var gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
		}))
		defer srv.Close()

		relay := notification.NewHTTPRelay(srv.URL, "")
		err := relay.SendRevocationRequest(context.Background(), notification.RevocationLink{RequestID: 7})

		assert.NoError(t, err)
		assert.Empty(t, gotAuth)
	})
}

func TestNewRelayFromEnv(t *testing.T) {
	t.Run("falls back to log relay without url", func(t *testing.T) {
		relay := notification.NewRelayFromEnv("", "")
		assert.NoError(t, relay.SendApprovalRequest(context.Background(), notification.ApprovalLink{RequestID: 1}))
		assert.NoError(t, relay.SendRevocationRequest(context.Background(), notification.RevocationLink{RequestID: 1}))
	})
}
