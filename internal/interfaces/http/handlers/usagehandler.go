package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quotakeeper/quotakeeper/internal/application/usage/dto"
	"github.com/quotakeeper/quotakeeper/internal/application/usage/usecases"
	"github.com/quotakeeper/quotakeeper/internal/domain/usage"
	"github.com/quotakeeper/quotakeeper/internal/domain/user"
	"github.com/quotakeeper/quotakeeper/internal/shared/config"
	"github.com/quotakeeper/quotakeeper/internal/shared/logger"
	"github.com/quotakeeper/quotakeeper/internal/shared/utils"
)

type UsageHandler struct {
	getUsageUC    getUsageUseCase
	recordUsageUC recordUsageUseCase
	limits        config.UsageLimits
	logger        logger.Interface
}

func NewUsageHandler(
	getUsageUC getUsageUseCase,
	recordUsageUC recordUsageUseCase,
	limits config.UsageLimits,
	logger logger.Interface,
) *UsageHandler {
	return &UsageHandler{
		getUsageUC:    getUsageUC,
		recordUsageUC: recordUsageUC,
		limits:        limits,
		logger:        logger,
	}
}

type usageEnvelope struct {
	Usage *dto.UsageResponse `json:"usage"`
}

// GetUsage returns the caller's current usage window. Authenticated callers
// are keyed by user ID and anonymous callers by client address.
func (h *UsageHandler) GetUsage(c *gin.Context) {
	key, limit := h.caller(c)

	result, err := h.getUsageUC.Execute(c.Request.Context(), usecases.GetUsageQuery{
		Key:   key,
		Limit: limit,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", usageEnvelope{Usage: result})
}

func (h *UsageHandler) RecordUsage(c *gin.Context) {
	var req dto.RecordUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for record usage", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	key, limit := h.caller(c)

	result, err := h.recordUsageUC.Execute(c.Request.Context(), usecases.RecordUsageCommand{
		Key:    key,
		Amount: req.Amount,
		Limit:  limit,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "usage recorded", usageEnvelope{Usage: result})
}

func (h *UsageHandler) caller(c *gin.Context) (string, int64) {
	if userID, ok := utils.GetUserID(c); ok {
		plan := user.Plan(utils.GetUserPlan(c))
		return usage.KeyForUser(userID), usecases.LimitFor(h.limits, true, plan)
	}
	return usage.KeyForAddress(utils.ClientAddress(c)), usecases.LimitFor(h.limits, false, "")
}
