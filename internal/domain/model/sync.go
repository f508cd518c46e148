package model

// CustomerSyncResult carries external-system identifiers assigned to a
// customer profile during CRM/ledger sync.
type CustomerSyncResult struct {
	CRMContactID     string
	LedgerCustomerID string
}

// OrderSyncResult reports the outcome of pushing a completed order to the
// external CRM/loyalty systems.
type OrderSyncResult struct {
	PointsEarned *float64
	CRMDealID    string
}
