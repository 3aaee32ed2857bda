package dto

import (
	"time"

	"github.com/quotakeeper/quotakeeper/internal/domain/usage"
)

// UsageResponse is the wire shape of a usage window.
type UsageResponse struct {
	Key       string    `json:"key"`
	Usage     int64     `json:"usage"`
	Expire    time.Time `json:"expire"`
	Limit     int64     `json:"limit"`
	Remaining int64     `json:"remaining"`
}

// RecordUsageRequest is the body of a usage consumption call.
type RecordUsageRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// ToUsageResponse maps a usage window; a non-positive limit is reported as
// 0 with remaining -1.
func ToUsageResponse(u *usage.Usage, limit int64) *UsageResponse {
	if limit < 0 {
		limit = 0
	}
	return &UsageResponse{
		Key:       u.Key(),
		Usage:     u.Count(),
		Expire:    u.ExpiresAt(),
		Limit:     limit,
		Remaining: u.Remaining(limit),
	}
}
