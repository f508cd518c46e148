package signature

import (
	"crypto/hmac"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"hash"
	"strings"
)

// Strategy produces the expected signature for a request body under one
// provider encoding. Strategies only compute; acceptance is decided by the
// Verifier so that no caller learns which encoding matched.
type Strategy interface {
	Name() string
	Expected(secret, body []byte) ([]byte, bool)
}

// HexStrategy signs the raw body and encodes the MAC as lowercase hex.
type HexStrategy struct {
	newHash func() hash.Hash
}

// NewHexStrategy builds HexStrategy over the provided hash constructor.
func NewHexStrategy(newHash func() hash.Hash) *HexStrategy {
	return &HexStrategy{newHash: newHash}
}

func (s *HexStrategy) Name() string {
	return "hex"
}

func (s *HexStrategy) Expected(secret, body []byte) ([]byte, bool) {
	return []byte(hex.EncodeToString(sum(s.newHash, secret, body))), true
}

// Base64Strategy signs the raw body and encodes the MAC as standard base64.
type Base64Strategy struct {
	newHash func() hash.Hash
}

// NewBase64Strategy builds Base64Strategy over the provided hash constructor.
func NewBase64Strategy(newHash func() hash.Hash) *Base64Strategy {
	return &Base64Strategy{newHash: newHash}
}

func (s *Base64Strategy) Name() string {
	return "base64"
}

func (s *Base64Strategy) Expected(secret, body []byte) ([]byte, bool) {
	return []byte(base64.StdEncoding.EncodeToString(sum(s.newHash, secret, body))), true
}

// LegacyConcatStrategy reproduces the historic scheme where providers signed
// a concatenation of selected top-level payload fields instead of the raw
// body. The MAC is hex encoded.
type LegacyConcatStrategy struct {
	newHash func() hash.Hash
	fields  []string
}

// NewLegacyConcatStrategy builds LegacyConcatStrategy joining the named
// top-level JSON fields in order.
func NewLegacyConcatStrategy(newHash func() hash.Hash, fields ...string) *LegacyConcatStrategy {
	return &LegacyConcatStrategy{newHash: newHash, fields: fields}
}

func (s *LegacyConcatStrategy) Name() string {
	return "legacy-concat"
}

func (s *LegacyConcatStrategy) Expected(secret, body []byte) ([]byte, bool) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, false
	}

	parts := make([]string, 0, len(s.fields))
	for _, field := range s.fields {
		raw, ok := payload[field]
		if !ok {
			return nil, false
		}
		var str string
		if err := json.Unmarshal(raw, &str); err == nil {
			parts = append(parts, str)
			continue
		}
		var num json.Number
		if err := json.Unmarshal(raw, &num); err != nil {
			return nil, false
		}
		parts = append(parts, num.String())
	}

	signed := strings.Join(parts, "")
	return []byte(hex.EncodeToString(sum(s.newHash, secret, []byte(signed)))), true
}

func sum(newHash func() hash.Hash, secret, payload []byte) []byte {
	mac := hmac.New(newHash, secret)
	mac.Write(payload)
	return mac.Sum(nil)
}
