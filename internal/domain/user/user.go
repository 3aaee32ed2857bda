// Package user holds the user record fields the quota and billing flows
// read and write: the external identity, the payment entitlement and the
// free-form settings document.
package user

import (
	"fmt"
	"time"
)

// User is the owning record of a PaymentEntitlement and of the settings
// document. Only the fields this service touches are modelled.
type User struct {
	id          uint
	externalID  int64
	username    string
	name        string
	entitlement PaymentEntitlement
	settings    Settings
	createdAt   time.Time
	updatedAt   time.Time
}

// ReconstructUser rebuilds a User from persisted state.
func ReconstructUser(
	id uint,
	externalID int64,
	username, name string,
	entitlement PaymentEntitlement,
	settings Settings,
	createdAt, updatedAt time.Time,
) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if settings == nil {
		settings = Settings{}
	}
	return &User{
		id:          id,
		externalID:  externalID,
		username:    username,
		name:        name,
		entitlement: entitlement,
		settings:    settings,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (u *User) ID() uint                        { return u.id }
func (u *User) ExternalID() int64               { return u.externalID }
func (u *User) Username() string                { return u.username }
func (u *User) Name() string                    { return u.name }
func (u *User) Entitlement() PaymentEntitlement { return u.entitlement }
func (u *User) Plan() Plan                      { return u.entitlement.EffectivePlan() }
func (u *User) Settings() Settings              { return u.settings.Clone() }
func (u *User) CreatedAt() time.Time            { return u.createdAt }
func (u *User) UpdatedAt() time.Time            { return u.updatedAt }

// ApplyEntitlement moves the user into the Entitled state. Inactive
// entitlements are refused: a missing or free answer is never a downgrade.
// A billing reference the authority did not report keeps its stored value.
func (u *User) ApplyEntitlement(e PaymentEntitlement) error {
	if !e.IsActive() {
		return fmt.Errorf("cannot apply inactive entitlement with plan %q", e.Plan)
	}
	if e.SubscriptionID == nil {
		e.SubscriptionID = u.entitlement.SubscriptionID
	}
	if e.PaymentProcessorID == nil {
		e.PaymentProcessorID = u.entitlement.PaymentProcessorID
	}
	u.entitlement = e
	return nil
}

// MergeSettings overlays patch on top of the stored settings and returns
// the merged document.
func (u *User) MergeSettings(patch Settings) Settings {
	u.settings = u.settings.Merge(patch)
	return u.settings.Clone()
}
