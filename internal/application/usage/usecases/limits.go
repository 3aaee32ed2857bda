package usecases

import (
	"github.com/quotakeeper/quotakeeper/internal/domain/user"
	"github.com/quotakeeper/quotakeeper/internal/shared/config"
)

// LimitFor picks the per-window cap for a caller. Anonymous callers use the
// anonymous tier; unknown paid plans get the premium cap.
func LimitFor(limits config.UsageLimits, authenticated bool, plan user.Plan) int64 {
	if !authenticated {
		return limits.Anonymous
	}
	switch plan {
	case "", user.PlanFree:
		return limits.Free
	case user.PlanProfessional:
		return limits.Professional
	default:
		return limits.Premium
	}
}
