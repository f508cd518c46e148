package model

import "time"

// CustomerProfile represents a customer known to the store, possibly created
// lazily from a guest checkout on first successful payment.
type CustomerProfile struct {
	ID               int64
	Email            string
	Phone            string
	Name             string
	CRMContactID     string
	LedgerCustomerID string
	CreatedAt        time.Time
}
