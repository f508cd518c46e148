package signature

import (
	"crypto/subtle"
	"strings"

	domainErrors "github.com/meridianshop/paygate/internal/domain/errors"
)

// Verifier checks webhook authenticity against an ordered list of signing
// strategies. Any single strategy match accepts the request; every comparison
// runs in constant time and the accept/reject decision never reveals which
// strategy matched.
type Verifier struct {
	secret     []byte
	strategies []Strategy
}

// NewVerifier builds Verifier with the shared secret and candidate strategies.
func NewVerifier(secret string, strategies ...Strategy) *Verifier {
	return &Verifier{secret: []byte(secret), strategies: strategies}
}

// Verify validates the provided signature over the raw request body. A
// missing secret rejects every request: unsigned input is never accepted.
func (v *Verifier) Verify(body []byte, provided string) error {
	if len(v.secret) == 0 {
		return domainErrors.ErrMissingSecret
	}

	provided = strings.TrimSpace(provided)
	if provided == "" {
		return domainErrors.ErrInvalidSignature
	}

	supplied := []byte(provided)
	matched := 0
	for _, strategy := range v.strategies {
		expected, ok := strategy.Expected(v.secret, body)
		if !ok {
			continue
		}
		matched |= subtle.ConstantTimeCompare(expected, supplied)
	}

	if matched != 1 {
		return domainErrors.ErrInvalidSignature
	}
	return nil
}
