package user

import "context"

// Repository defines the user record operations used by this service.
// Update methods write only the columns they name so that concurrent writers
// of other fields are not clobbered.
type Repository interface {
	// GetByID returns nil, nil when the user does not exist.
	GetByID(ctx context.Context, id uint) (*User, error)

	// GetByExternalID returns nil, nil when no user has the external ID.
	GetByExternalID(ctx context.Context, externalID int64) (*User, error)

	// UpdateEntitlement writes the three entitlement fields of user id.
	UpdateEntitlement(ctx context.Context, id uint, e PaymentEntitlement) error

	// UpdateSettings replaces the settings document of user id.
	UpdateSettings(ctx context.Context, id uint, s Settings) error
}
