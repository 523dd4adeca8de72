package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kova-store/internal/domain"
	"kova-store/internal/service"
)

// UserHandler mantiene dependencias para los endpoints de login y perfil.
type UserHandler struct {
	logger   *zap.Logger
	authServ *service.AuthService
	userServ *service.UserService
}

// NewUserHandler crea una instancia de UserHandler con dependencias necesarias.
func NewUserHandler(logger *zap.Logger, authServ *service.AuthService, userServ *service.UserService) *UserHandler {
	return &UserHandler{
		logger:   logger,
		authServ: authServ,
		userServ: userServ,
	}
}

type sendOTPRequest struct {
	Email string `json:"email" form:"email"`
}

type verifyOTPRequest struct {
	Email string `json:"email" form:"email"`
	OTP   string `json:"otp" form:"otp"`
}

// RequestOTP maneja POST /auth/send-otp.
func (h *UserHandler) RequestOTP(c *gin.Context) {
	var req sendOTPRequest
	if err := bindBodyOrQuery(c, &req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := h.authServ.RequestPasscode(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
		case errors.Is(err, service.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		case errors.Is(err, service.ErrDeliveryFailed):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "email delivery unavailable"})
		default:
			h.logger.Error("request otp failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not request otp"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent to email"})
}

// VerifyOTP maneja POST /auth/verify-otp.
func (h *UserHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := bindBodyOrQuery(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired OTP"})
		return
	}

	result, err := h.authServ.VerifyPasscode(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrExpired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired OTP"})
			return
		}
		h.logger.Error("verify otp failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not verify otp"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": result.AccessToken,
		"token_type":   "bearer",
		"role":         result.Role,
		"is_admin":     result.Role == domain.RoleAdministrator,
		"expires_at":   result.ExpiresAt.Format(time.RFC3339),
	})
}

// Me maneja GET /users/me.
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	c.JSON(http.StatusOK, meResponse(user))
}

// UpdateProfile maneja PUT /users/profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	var req domain.Profile
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid profile request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if _, err := h.userServ.UpdateProfile(c.Request.Context(), user, req); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidProfile):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		default:
			h.logger.Error("update profile failed", zap.Error(err), zap.Int64("user_id", user.ID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

func meResponse(user domain.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"phone":      user.Phone,
		"role":       user.Role,
		"is_admin":   user.IsAdmin(),
		"created_at": user.CreatedAt,
	}
}

// bindBodyOrQuery acepta los campos por query string y, si hay body JSON, este tiene prioridad.
func bindBodyOrQuery(c *gin.Context, dst any) error {
	if err := c.ShouldBindQuery(dst); err != nil {
		return err
	}
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(dst)
}
