package user

// Plan is a billing plan name.
type Plan string

const (
	// PlanFree is the sentinel for "no paid entitlement".
	PlanFree         Plan = "free"
	PlanPremium      Plan = "premium"
	PlanProfessional Plan = "professional"
)

// PaymentEntitlement is the billing state embedded in a user record.
type PaymentEntitlement struct {
	SubscriptionID     *string
	PaymentProcessorID *string
	Plan               Plan
}

// IsActive reports whether the entitlement grants a non-free plan.
func (e PaymentEntitlement) IsActive() bool {
	return e.Plan != "" && e.Plan != PlanFree
}

// EffectivePlan returns the plan, treating an unset plan as free.
func (e PaymentEntitlement) EffectivePlan() Plan {
	if e.Plan == "" {
		return PlanFree
	}
	return e.Plan
}
