package model

// PromoCode is a discount code with a bounded usage counter. The counter is
// incremented once per order that completes reward processing.
type PromoCode struct {
	ID        int64
	Code      string
	UsedCount int
	MaxUses   *int
}
