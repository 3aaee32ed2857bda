package dto

import "github.com/quotakeeper/quotakeeper/internal/domain/user"

// PaymentDTO is the entitlement wire shape shared with the other regions.
type PaymentDTO struct {
	SubscriptionID *string `json:"subscription_id"`
	MidtransID     *string `json:"midtrans_id"`
	Plan           *string `json:"plan"`
}

// SyncAcceptedResponse is returned by the sync endpoint whatever the outcome
// of the authority chain.
type SyncAcceptedResponse struct {
	Accepted bool `json:"accepted"`
}

// ToPaymentDTO maps an entitlement. An unset plan is rendered as null.
func ToPaymentDTO(e user.PaymentEntitlement) *PaymentDTO {
	out := &PaymentDTO{
		SubscriptionID: e.SubscriptionID,
		MidtransID:     e.PaymentProcessorID,
	}
	if e.Plan != "" {
		plan := string(e.Plan)
		out.Plan = &plan
	}
	return out
}
