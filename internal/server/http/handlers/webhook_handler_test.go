package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/meridianshop/paygate/internal/domain/errors"
	"github.com/meridianshop/paygate/internal/domain/model"
	"github.com/meridianshop/paygate/internal/test"
)

func newWebhookRouter(facade *test.ReconcilerFacadeStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/webhooks/:provider", NewWebhookHandler(facade).Handle)
	return r
}

func postWebhook(t *testing.T, r *gin.Engine, provider, signature, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/"+provider, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Signature", signature)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookHandler_Accepted(t *testing.T) {
	facade := &test.ReconcilerFacadeStub{}
	w := postWebhook(t, newWebhookRouter(facade), "payanchor", "sig", `{"event":"charge.success"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	var ack struct {
		Received bool `json:"received"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &ack); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !ack.Received {
		t.Fatal("expected received acknowledgement")
	}
	if facade.HandledCalls != 1 {
		t.Fatalf("unexpected facade calls: %d", facade.HandledCalls)
	}
	if string(facade.HandledBody) != `{"event":"charge.success"}` {
		t.Fatalf("unexpected body: %s", facade.HandledBody)
	}
}

func TestWebhookHandler_DuplicateGetsSameAck(t *testing.T) {
	facade := &test.ReconcilerFacadeStub{
		HandleWebhookFn: func(context.Context, string, []byte, string) (model.GateOutcome, error) {
			return model.GateAlreadyProcessed, nil
		},
	}
	w := postWebhook(t, newWebhookRouter(facade), "payanchor", "sig", `{}`)

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	if w.Body.String() != `{"received":true}` {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestWebhookHandler_UnknownProvider(t *testing.T) {
	facade := &test.ReconcilerFacadeStub{
		SignatureHeaderFn: func(string) (string, error) {
			return "", domainErrors.ErrUnknownProvider
		},
	}
	w := postWebhook(t, newWebhookRouter(facade), "stripe", "", `{}`)

	if w.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	if facade.HandledCalls != 0 {
		t.Fatal("facade must not process unknown providers")
	}
}

func TestWebhookHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"unsupported event acked", domainErrors.ErrUnsupportedEvent, http.StatusOK},
		{"missing secret", domainErrors.ErrMissingSecret, http.StatusUnauthorized},
		{"invalid signature", domainErrors.ErrInvalidSignature, http.StatusUnauthorized},
		{"malformed payload", domainErrors.ErrMalformedPayload, http.StatusBadRequest},
		{"order not found", domainErrors.ErrNotFound, http.StatusNotFound},
		{"storage failure", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			facade := &test.ReconcilerFacadeStub{
				HandleWebhookFn: func(context.Context, string, []byte, string) (model.GateOutcome, error) {
					return "", tc.err
				},
			}
			w := postWebhook(t, newWebhookRouter(facade), "payanchor", "sig", `{}`)
			if w.Code != tc.status {
				t.Fatalf("unexpected status: %d", w.Code)
			}
		})
	}
}

func TestWebhookHandler_PassesSignatureHeader(t *testing.T) {
	var gotSignature string
	facade := &test.ReconcilerFacadeStub{
		SignatureHeaderFn: func(string) (string, error) { return "Payanchor-Signature", nil },
		HandleWebhookFn: func(_ context.Context, _ string, _ []byte, signature string) (model.GateOutcome, error) {
			gotSignature = signature
			return model.GateWon, nil
		},
	}
	r := newWebhookRouter(facade)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/payanchor", bytes.NewBufferString(`{}`))
	req.Header.Set("Payanchor-Signature", "abc123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	if gotSignature != "abc123" {
		t.Fatalf("unexpected signature: %q", gotSignature)
	}
}
