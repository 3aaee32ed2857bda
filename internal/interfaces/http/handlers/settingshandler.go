package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quotakeeper/quotakeeper/internal/application/user/dto"
	"github.com/quotakeeper/quotakeeper/internal/application/user/usecases"
	"github.com/quotakeeper/quotakeeper/internal/shared/logger"
	"github.com/quotakeeper/quotakeeper/internal/shared/utils"
)

type SettingsHandler struct {
	updateSettingsUC updateSettingsUseCase
	logger           logger.Interface
}

func NewSettingsHandler(updateSettingsUC updateSettingsUseCase, logger logger.Interface) *SettingsHandler {
	return &SettingsHandler{
		updateSettingsUC: updateSettingsUC,
		logger:           logger,
	}
}

func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	userID, ok := utils.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update settings", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.updateSettingsUC.Execute(c.Request.Context(), usecases.UpdateSettingsCommand{
		UserID:   userID,
		AuthKey:  utils.GetAuthKey(c),
		Settings: req.Settings,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "settings updated", result)
}
