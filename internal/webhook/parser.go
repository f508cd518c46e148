package webhook

import (
	"github.com/meridianshop/paygate/internal/domain/model"
	"github.com/meridianshop/paygate/internal/pkg/signature"
)

// Parser decodes one provider's payload into a normalized payment event.
type Parser interface {
	Provider() string
	Parse(body []byte) (*model.PaymentEvent, error)
}

// Endpoint bundles everything needed to accept one provider's webhooks.
type Endpoint struct {
	Parser          Parser
	Verifier        *signature.Verifier
	SignatureHeader string
}
