package webhook

import (
	"crypto/sha256"
	"crypto/sha512"

	domainErrors "github.com/meridianshop/paygate/internal/domain/errors"
	"github.com/meridianshop/paygate/internal/pkg/signature"
)

// Registry resolves provider names from the request path to their endpoints.
type Registry struct {
	endpoints map[string]Endpoint
}

// NewRegistry wires the supported payment providers. Payanchor signs the raw
// body with HMAC-SHA512 (hex or base64, plus the legacy field-concatenation
// scheme still emitted by old accounts); Brightpay uses HMAC-SHA256.
func NewRegistry(payanchorSecret, brightpaySecret string) *Registry {
	return &Registry{
		endpoints: map[string]Endpoint{
			ProviderPayanchor: {
				Parser: PayanchorParser{},
				Verifier: signature.NewVerifier(payanchorSecret,
					signature.NewHexStrategy(sha512.New),
					signature.NewBase64Strategy(sha512.New),
					signature.NewLegacyConcatStrategy(sha512.New, "event", "reference"),
				),
				SignatureHeader: "Payanchor-Signature",
			},
			ProviderBrightpay: {
				Parser: BrightpayParser{},
				Verifier: signature.NewVerifier(brightpaySecret,
					signature.NewHexStrategy(sha256.New),
					signature.NewBase64Strategy(sha256.New),
				),
				SignatureHeader: "Brightpay-Signature",
			},
		},
	}
}

// Endpoint returns the endpoint for a provider name.
func (r *Registry) Endpoint(provider string) (Endpoint, error) {
	ep, ok := r.endpoints[provider]
	if !ok {
		return Endpoint{}, domainErrors.ErrUnknownProvider
	}
	return ep, nil
}

// Providers lists registered provider names.
func (r *Registry) Providers() []string {
	names := make([]string, 0, len(r.endpoints))
	for name := range r.endpoints {
		names = append(names, name)
	}
	return names
}
