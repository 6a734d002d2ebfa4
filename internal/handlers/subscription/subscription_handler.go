// internal/handlers/subscription/subscription_handler.go
package subscription

import (
	"errors"
	"net/http"

	subdomain "slate-service/internal/domain/subscription"
	"slate-service/internal/middleware"
	xerrors "slate-service/internal/pkg/errors"
	"slate-service/internal/pkg/response"
	subUsecase "slate-service/internal/service/subscription"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SubscriptionHandler struct {
	subscriptionService *subUsecase.SubscriptionService
	logger              *zap.Logger
}

func NewSubscriptionHandler(subscriptionService *subUsecase.SubscriptionService, logger *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		logger:              logger,
	}
}

// ListTiers returns the tier catalog (public endpoint)
func (h *SubscriptionHandler) ListTiers(c *gin.Context) {
	response.Success(c, http.StatusOK, "subscription tiers", gin.H{"tiers": h.subscriptionService.ListTiers()})
}

// GetCurrent returns the user's subscription, provisioning free on first use
func (h *SubscriptionHandler) GetCurrent(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	sub, err := h.subscriptionService.GetCurrent(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to load subscription", zap.String("user_id", userID), zap.Error(err))
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, "subscription", sub)
}

// UpgradeTier switches the user's tier
func (h *SubscriptionHandler) UpgradeTier(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	var req subdomain.UpgradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	sub, err := h.subscriptionService.UpgradeTier(c.Request.Context(), userID, req.Tier)
	if err != nil {
		if errors.Is(err, xerrors.ErrInvalidInput) {
			response.ValidationError(c, "unknown tier", nil)
			return
		}
		h.logger.Error("failed to change tier",
			zap.String("user_id", userID),
			zap.String("tier", string(req.Tier)),
			zap.Error(err),
		)
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, "subscription updated", sub)
}
