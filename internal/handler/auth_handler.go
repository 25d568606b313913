package handler

import (
	"errors"
	"net/http"

	"member_directory/internal/logging"
	"member_directory/internal/middleware"
	"member_directory/internal/model"
	"member_directory/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	forgotPasswordMessage = "If the email is registered, an OTP has been sent."
	otpVerifiedMessage    = "A temporary password has been sent to your email."
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service  service.AuthService
	reset    service.PasswordResetService
	profiles middleware.ProfileChecker
	log      logging.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, reset service.PasswordResetService, profiles middleware.ProfileChecker, log logging.Logger) *AuthHandler {
	return &AuthHandler{service: s, reset: reset, profiles: profiles, log: log}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	account, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserAlreadyExists), errors.Is(err, service.ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.log.Error(c.Request.Context(), "registration failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User registered successfully", "user": account.Public()})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidCredentials.Error()})
		case errors.Is(err, service.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
		default:
			h.log.Error(c.Request.Context(), "login failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	err := h.service.ChangePassword(c.Request.Context(), id.AccountID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCurrentPasswordIncorrect):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
		case errors.Is(err, service.ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			h.log.Error(c.Request.Context(), "change password failed", "account_id", id.AccountID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// ForgotPasswordRequest always answers with the same body so the response
// does not reveal whether the email is registered.
func (h *AuthHandler) ForgotPasswordRequest(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.reset.RequestOTP(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrRateLimited) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
			return
		}
		h.log.Error(c.Request.Context(), "otp request failed", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": forgotPasswordMessage})
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req model.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.reset.VerifyOTP(c.Request.Context(), req.Email, req.OTP); err != nil {
		switch {
		case errors.Is(err, service.ErrOTPExpired), errors.Is(err, service.ErrInvalidOTP):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
		default:
			h.log.Error(c.Request.Context(), "otp verification failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": otpVerifiedMessage})
}

// Me returns the caller's account and whether the profile is complete
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.service.GetAccount(c.Request.Context(), id.AccountID)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.Error(c.Request.Context(), "get account failed", "account_id", id.AccountID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve account"})
		return
	}

	hasProfile, err := h.profiles.Exists(c.Request.Context(), account.ID)
	if err != nil {
		h.log.Error(c.Request.Context(), "profile check failed", "account_id", account.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":           account.Public(),
		"isTempPassword": account.IsTempPassword,
		"hasProfile":     hasProfile,
	})
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/forgot-password-request", h.ForgotPasswordRequest)
		authGroup.POST("/forgot-password/verify", h.VerifyOTP)

		authGroup.POST("/change-password", authMW, h.ChangePassword)
		authGroup.GET("/me", authMW, h.Me)
	}
}
