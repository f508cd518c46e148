package repository

import (
	"context"

	"github.com/meridianshop/paygate/internal/domain/model"
)

// CustomerRepository describes persistence operations on customer profiles.
type CustomerRepository interface {
	GetByID(ctx context.Context, id int64) (*model.CustomerProfile, error)
	GetByEmail(ctx context.Context, email string) (*model.CustomerProfile, error)
	// Create inserts a profile for a guest checkout email. Returns the
	// existing profile when the email is already registered.
	Create(ctx context.Context, profile model.CustomerProfile) (*model.CustomerProfile, error)
	UpdateExternalIDs(ctx context.Context, id int64, crmContactID, ledgerCustomerID string) error
}
