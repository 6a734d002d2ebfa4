// internal/handlers/user/user_handler.go
package user

import (
	"errors"
	"net/http"

	userdomain "slate-service/internal/domain/user"
	"slate-service/internal/middleware"
	xerrors "slate-service/internal/pkg/errors"
	"slate-service/internal/pkg/response"
	authUsecase "slate-service/internal/service/auth"
	userUsecase "slate-service/internal/service/user"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService *userUsecase.UserService
	authService *authUsecase.AuthService
	logger      *zap.Logger
}

func NewUserHandler(userService *userUsecase.UserService, authService *authUsecase.AuthService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
		logger:      logger,
	}
}

// ========== Profile ==========

// GetMyProfile returns the authenticated user's own profile
func (h *UserHandler) GetMyProfile(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	profile, err := h.userService.GetMyProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		h.logger.Error("failed to load profile", zap.String("user_id", userID), zap.Error(err))
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, "profile", profile)
}

// GetPublicProfile returns another user's public profile
func (h *UserHandler) GetPublicProfile(c *gin.Context) {
	targetID := c.Param("user_id")
	if _, err := uuid.Parse(targetID); err != nil {
		response.ValidationError(c, "invalid user id", nil)
		return
	}

	requesterID := middleware.MustGetUserID(c)

	profile, err := h.userService.GetPublicProfile(c.Request.Context(), requesterID, targetID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		h.logger.Error("failed to load public profile", zap.String("target_id", targetID), zap.Error(err))
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, "profile", profile)
}

// UpdateMyProfile applies a partial update to the user's profile
func (h *UserHandler) UpdateMyProfile(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	var req userdomain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), userID, &req, requestMetadata(c))
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		h.logger.Error("failed to update profile", zap.String("user_id", userID), zap.Error(err))
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, "profile updated", profile)
}

// ========== Settings ==========

func (h *UserHandler) GetMySettings(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	settings, err := h.userService.GetSettings(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to load settings", zap.String("user_id", userID), zap.Error(err))
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, "settings", settings)
}

func (h *UserHandler) UpdateMySettings(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	var req userdomain.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	settings, err := h.userService.UpdateSettings(c.Request.Context(), userID, &req, requestMetadata(c))
	if err != nil {
		h.logger.Error("failed to update settings", zap.String("user_id", userID), zap.Error(err))
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, "settings updated", settings)
}

// ========== Account ==========

// DeleteMyAccount soft-deletes the account and revokes all sessions
func (h *UserHandler) DeleteMyAccount(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	deleted, err := h.userService.DeleteAccount(c.Request.Context(), userID, requestMetadata(c))
	if err != nil {
		h.logger.Error("failed to delete account", zap.String("user_id", userID), zap.Error(err))
		response.Internal(c)
		return
	}
	if !deleted {
		response.NotFound(c, "user not found")
		return
	}

	response.Success(c, http.StatusOK, "account deleted", nil)
}

// ========== Sessions ==========

// ListMySessions lists the user's live sessions, marking the current one
func (h *UserHandler) ListMySessions(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	jti := middleware.MustGetJTI(c)

	sessions, err := h.userService.GetActiveSessions(c.Request.Context(), userID, jti)
	if err != nil {
		h.logger.Error("failed to list sessions", zap.String("user_id", userID), zap.Error(err))
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, "active sessions", gin.H{"sessions": sessions})
}

// RevokeSession deletes one of the user's sessions by id. A session that is
// missing or owned by someone else reads as not found.
func (h *UserHandler) RevokeSession(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	sessionID := c.Param("session_id")
	if _, err := uuid.Parse(sessionID); err != nil {
		response.ValidationError(c, "invalid session id", nil)
		return
	}

	deleted, err := h.authService.LogoutSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		h.logger.Error("failed to revoke session",
			zap.String("user_id", userID),
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		response.Internal(c)
		return
	}
	if !deleted {
		response.NotFound(c, "session not found")
		return
	}

	response.Success(c, http.StatusOK, "session revoked", nil)
}

// RevokeAllSessions deletes every session for the user. With
// ?keep_current=true the session behind the current token survives.
func (h *UserHandler) RevokeAllSessions(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	exceptJTI := ""
	if c.Query("keep_current") == "true" {
		exceptJTI = middleware.MustGetJTI(c)
	}

	count, err := h.authService.LogoutAll(c.Request.Context(), userID, exceptJTI)
	if err != nil {
		h.logger.Error("failed to revoke sessions", zap.String("user_id", userID), zap.Error(err))
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, "sessions revoked", gin.H{"revoked_count": count})
}

func requestMetadata(c *gin.Context) userdomain.RequestMetadata {
	return userdomain.RequestMetadata{
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
}
