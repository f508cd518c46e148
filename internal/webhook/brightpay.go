package webhook

import (
	"encoding/json"
	"strings"

	domainErrors "github.com/meridianshop/paygate/internal/domain/errors"
	"github.com/meridianshop/paygate/internal/domain/model"
)

// ProviderBrightpay identifies the Brightpay gateway.
const ProviderBrightpay = "brightpay"

type brightpayPayload struct {
	Type        string `json:"type"`
	Transaction struct {
		ID        string      `json:"id"`
		OrderID   json.Number `json:"order_id"`
		Reference string      `json:"reference"`
		Amount    float64     `json:"amount"`
	} `json:"transaction"`
}

// BrightpayParser classifies Brightpay payment events.
type BrightpayParser struct{}

func (BrightpayParser) Provider() string {
	return ProviderBrightpay
}

func (BrightpayParser) Parse(body []byte) (*model.PaymentEvent, error) {
	var payload brightpayPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, domainErrors.ErrMalformedPayload
	}

	var kind model.EventKind
	switch payload.Type {
	case "payment.captured":
		kind = model.EventPaymentSucceeded
	case "payment.failed":
		kind = model.EventPaymentFailed
	case "payment.voided":
		kind = model.EventPaymentCancelled
	default:
		return nil, domainErrors.ErrUnsupportedEvent
	}

	if payload.Transaction.ID == "" {
		return nil, domainErrors.ErrMalformedPayload
	}

	orderID, _ := payload.Transaction.OrderID.Int64()
	reference := strings.TrimSpace(payload.Transaction.Reference)
	if orderID == 0 && reference == "" {
		return nil, domainErrors.ErrMalformedPayload
	}

	return &model.PaymentEvent{
		Kind:          kind,
		Provider:      ProviderBrightpay,
		TransactionID: payload.Transaction.ID,
		OrderID:       orderID,
		Reference:     reference,
		Amount:        payload.Transaction.Amount,
	}, nil
}
