package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/meridianshop/paygate/internal/domain/model"
)

// PaymentConfirmation is the customer-facing confirmation email request.
type PaymentConfirmation struct {
	Recipient   string  `json:"recipient"`
	Name        string  `json:"name,omitempty"`
	OrderNumber string  `json:"order_number"`
	Total       float64 `json:"total"`
}

// OrderNotification is the operations-facing order email request.
type OrderNotification struct {
	Recipient     string  `json:"recipient"`
	OrderNumber   string  `json:"order_number"`
	Total         float64 `json:"total"`
	CustomerEmail string  `json:"customer_email"`
}

// SMSConfirmation is the customer-facing confirmation SMS request.
type SMSConfirmation struct {
	Phone       string `json:"phone"`
	OrderNumber string `json:"order_number"`
}

// Client exposes the notification sender service. Every method reports a
// structured result; callers persist failures to the ledger instead of
// propagating them.
type Client interface {
	SendPaymentConfirmation(ctx context.Context, req PaymentConfirmation) (*model.SendResult, error)
	SendOrderNotification(ctx context.Context, req OrderNotification) (*model.SendResult, error)
	SendConfirmationSMS(ctx context.Context, req SMSConfirmation) (*model.SendResult, error)
}

// HTTPClient implements Client via HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type sendResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// NewHTTPClient creates HTTP notification client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse notify url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("notify url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

func (c *HTTPClient) SendPaymentConfirmation(ctx context.Context, req PaymentConfirmation) (*model.SendResult, error) {
	return c.send(ctx, "/api/notify/payment-confirmation", req)
}

func (c *HTTPClient) SendOrderNotification(ctx context.Context, req OrderNotification) (*model.SendResult, error) {
	return c.send(ctx, "/api/notify/order-notification", req)
}

func (c *HTTPClient) SendConfirmationSMS(ctx context.Context, req SMSConfirmation) (*model.SendResult, error) {
	return c.send(ctx, "/api/notify/sms-confirmation", req)
}

func (c *HTTPClient) send(ctx context.Context, endpoint string, payload any) (*model.SendResult, error) {
	target := *c.baseURL
	target.Path = path.Join(target.Path, endpoint)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("notification request failed",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(raw)))
		return nil, fmt.Errorf("notify error: %s", resp.Status)
	}

	var data sendResponse
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &model.SendResult{Success: data.Success, Error: data.Error}, nil
}
