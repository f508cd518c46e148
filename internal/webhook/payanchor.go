package webhook

import (
	"encoding/json"
	"strings"

	domainErrors "github.com/meridianshop/paygate/internal/domain/errors"
	"github.com/meridianshop/paygate/internal/domain/model"
)

// ProviderPayanchor identifies the Payanchor gateway.
const ProviderPayanchor = "payanchor"

// payanchorPayload mirrors Payanchor's webhook envelope. Identifiers arrive
// as either numbers or strings depending on API version, hence json.Number.
type payanchorPayload struct {
	Event     string `json:"event"`
	Reference string `json:"reference"`
	Data      struct {
		ID        json.Number `json:"id"`
		Reference string      `json:"reference"`
		Amount    float64     `json:"amount"`
		Metadata  struct {
			OrderID json.Number `json:"order_id"`
		} `json:"metadata"`
	} `json:"data"`
}

// PayanchorParser classifies Payanchor charge events.
type PayanchorParser struct{}

func (PayanchorParser) Provider() string {
	return ProviderPayanchor
}

func (PayanchorParser) Parse(body []byte) (*model.PaymentEvent, error) {
	var payload payanchorPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, domainErrors.ErrMalformedPayload
	}

	var kind model.EventKind
	switch payload.Event {
	case "charge.success":
		kind = model.EventPaymentSucceeded
	case "charge.failed":
		kind = model.EventPaymentFailed
	case "charge.cancelled", "charge.reversed":
		kind = model.EventPaymentCancelled
	default:
		return nil, domainErrors.ErrUnsupportedEvent
	}

	transactionID := payload.Data.ID.String()
	if transactionID == "" {
		return nil, domainErrors.ErrMalformedPayload
	}

	reference := payload.Data.Reference
	if reference == "" {
		reference = payload.Reference
	}

	orderID, _ := payload.Data.Metadata.OrderID.Int64()
	if orderID == 0 && strings.TrimSpace(reference) == "" {
		return nil, domainErrors.ErrMalformedPayload
	}

	return &model.PaymentEvent{
		Kind:          kind,
		Provider:      ProviderPayanchor,
		TransactionID: transactionID,
		OrderID:       orderID,
		Reference:     strings.TrimSpace(reference),
		Amount:        payload.Data.Amount,
	}, nil
}
