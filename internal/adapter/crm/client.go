package crm

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

// Client exposes best-effort sync operations against the CRM/loyalty-ledger
// systems. Callers absorb errors; a sync failure never affects order state.
type Client interface {
	SyncNewCustomer(ctx context.Context, profile model.CustomerProfile) (*model.CustomerSyncResult, error)
	SyncOrderCompletion(ctx context.Context, order model.Order) (*model.OrderSyncResult, error)
}

// HTTPClient implements Client via HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type contactRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Name  string `json:"name,omitempty"`
}

type contactResponse struct {
	CRMContactID     string `json:"crm_contact_id"`
	LedgerCustomerID string `json:"ledger_customer_id"`
}

type orderRequest struct {
	OrderNumber   string  `json:"order_number"`
	CustomerEmail string  `json:"customer_email"`
	Total         float64 `json:"total"`
	PaymentRef    string  `json:"payment_reference"`
}

type orderResponse struct {
	PointsEarned *float64 `json:"points_earned,omitempty"`
	CRMDealID    string   `json:"crm_deal_id"`
}

// NewHTTPClient creates HTTP sync client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse crm url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("crm url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// SyncNewCustomer registers the profile in the CRM and loyalty ledger and
// returns the external identifiers assigned to it.
func (c *HTTPClient) SyncNewCustomer(ctx context.Context, profile model.CustomerProfile) (*model.CustomerSyncResult, error) {
	var resp contactResponse
	err := c.post(ctx, "/api/crm/contacts", contactRequest{
		Email: profile.Email,
		Phone: profile.Phone,
		Name:  profile.Name,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &model.CustomerSyncResult{
		CRMContactID:     resp.CRMContactID,
		LedgerCustomerID: resp.LedgerCustomerID,
	}, nil
}

// SyncOrderCompletion pushes a paid order to the CRM pipeline.
func (c *HTTPClient) SyncOrderCompletion(ctx context.Context, order model.Order) (*model.OrderSyncResult, error) {
	var resp orderResponse
	err := c.post(ctx, "/api/crm/orders", orderRequest{
		OrderNumber:   order.Number,
		CustomerEmail: order.CustomerEmail,
		Total:         order.Total,
		PaymentRef:    order.PaymentReference,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &model.OrderSyncResult{PointsEarned: resp.PointsEarned, CRMDealID: resp.CRMDealID}, nil
}

func (c *HTTPClient) post(ctx context.Context, endpoint string, payload, out any) error {
	target := *c.baseURL
	target.Path = path.Join(target.Path, endpoint)

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		c.logger.Error("crm request failed",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(raw)))
		return fmt.Errorf("crm error: %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
