// internal/handlers/auth/auth_handler.go
package auth

import (
	"errors"
	"net/http"

	sessiondomain "slate-service/internal/domain/session"
	"slate-service/internal/domain/user"
	"slate-service/internal/middleware"
	"slate-service/internal/pkg/device"
	xerrors "slate-service/internal/pkg/errors"
	"slate-service/internal/pkg/response"
	authUsecase "slate-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *authUsecase.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *authUsecase.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// ========== Registration ==========

// Register handles user registration (public endpoint)
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	meta := requestMetadata(c)

	authResp, err := h.authService.Register(c.Request.Context(), &req, meta)
	if err != nil {
		if errors.Is(err, xerrors.ErrEmailInUse) {
			response.Error(c, http.StatusConflict, "email already registered", nil)
			return
		}
		h.logger.Error("registration failed",
			zap.String("email", req.Email),
			zap.Error(err),
		)
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusCreated, "registration successful", authResp)
}

// ========== Login ==========

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	// Set device, IP and User-Agent
	req.IPAddress = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")
	req.DeviceInfo = device.Describe(req.UserAgent)

	authResp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "invalid email or password", nil)
		case errors.Is(err, xerrors.ErrRateLimited):
			response.Error(c, http.StatusTooManyRequests, "too many login attempts, try again later", nil)
		default:
			h.logger.Error("login failed",
				zap.String("email", req.Email),
				zap.String("ip", req.IPAddress),
				zap.Error(err),
			)
			response.Internal(c)
		}
		return
	}

	h.logger.Info("user logged in",
		zap.String("user_id", authResp.UserID),
		zap.String("email", req.Email),
	)

	response.Success(c, http.StatusOK, "login successful", authResp)
}

// ========== Logout ==========

// Logout revokes the current session (requires auth)
func (h *AuthHandler) Logout(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	jti := middleware.MustGetJTI(c)

	if err := h.authService.Logout(c.Request.Context(), userID, jti); err != nil {
		h.logger.Error("logout failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, "logout successful", nil)
}

// LogoutAll revokes every session for the user. With ?keep_current=true the
// session backing the current token survives.
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	exceptJTI := ""
	if c.Query("keep_current") == "true" {
		exceptJTI = middleware.MustGetJTI(c)
	}

	count, err := h.authService.LogoutAll(c.Request.Context(), userID, exceptJTI)
	if err != nil {
		h.logger.Error("logout all failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, "sessions revoked", gin.H{"revoked_count": count})
}

func requestMetadata(c *gin.Context) sessiondomain.Metadata {
	ua := c.GetHeader("User-Agent")
	return sessiondomain.Metadata{
		DeviceInfo: device.Describe(ua),
		IPAddress:  c.ClientIP(),
		UserAgent:  ua,
	}
}
