package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quotakeeper/quotakeeper/internal/application/payment/dto"
	"github.com/quotakeeper/quotakeeper/internal/application/payment/usecases"
	"github.com/quotakeeper/quotakeeper/internal/shared/errors"
	"github.com/quotakeeper/quotakeeper/internal/shared/logger"
	"github.com/quotakeeper/quotakeeper/internal/shared/utils"
)

type PaymentHandler struct {
	syncPaymentUC syncPaymentUseCase
	getPaymentUC  getPaymentUseCase
	logger        logger.Interface
}

func NewPaymentHandler(
	syncPaymentUC syncPaymentUseCase,
	getPaymentUC getPaymentUseCase,
	logger logger.Interface,
) *PaymentHandler {
	return &PaymentHandler{
		syncPaymentUC: syncPaymentUC,
		getPaymentUC:  getPaymentUC,
		logger:        logger,
	}
}

// SyncPayment reconciles the caller's entitlement with the payment
// authorities. The request is accepted whether or not an authority reported
// a paid plan; only invalid input and store failures are surfaced.
func (h *PaymentHandler) SyncPayment(c *gin.Context) {
	userID, ok := utils.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	entitlement, err := h.syncPaymentUC.Execute(c.Request.Context(), usecases.SyncPaymentCommand{
		UserID:         userID,
		ExternalUserID: utils.GetExternalID(c),
		AuthKey:        utils.GetAuthKey(c),
	})
	if err != nil {
		if errors.IsValidationError(err) || errors.IsStoreUnavailableError(err) {
			utils.ErrorResponseWithError(c, err)
			return
		}
		h.logger.Warnw("payment sync failed", "user_id", userID, "error", err)
	} else if entitlement != nil {
		h.logger.Infow("payment entitlement synced",
			"user_id", userID,
			"plan", entitlement.EffectivePlan())
	}

	utils.AcceptedResponse(c, dto.SyncAcceptedResponse{Accepted: true})
}

type paymentEnvelope struct {
	Payment *dto.PaymentDTO `json:"payment"`
}

// GetPayment returns the stored entitlement of a user by external ID. The
// body is the bare {"payment":{...}} object other regions consume as a
// payment authority, so it is not wrapped in the API envelope.
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	externalID, err := utils.ParseInt64Param(c, "externalId", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getPaymentUC.Execute(c.Request.Context(), externalID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, paymentEnvelope{Payment: result})
}
