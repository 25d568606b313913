package handler

import (
	"errors"
	"net/http"

	"member_directory/internal/logging"
	"member_directory/internal/model"
	"member_directory/internal/service"

	"github.com/gin-gonic/gin"
)

// LegacyHandler serves the shared-secret routes
type LegacyHandler struct {
	service service.LegacyService
	log     logging.Logger
}

func NewLegacyHandler(s service.LegacyService, log logging.Logger) *LegacyHandler {
	return &LegacyHandler{service: s, log: log}
}

func (h *LegacyHandler) Encrypt(c *gin.Context) {
	var req model.EncryptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	out, err := h.service.Encrypt(c.Request.Context(), req.DecryptedText)
	if err != nil {
		h.log.Error(c.Request.Context(), "encrypt failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encrypt"})
		return
	}

	c.JSON(http.StatusOK, model.CipherResponse{StatusCode: http.StatusOK, Message: out})
}

func (h *LegacyHandler) Decrypt(c *gin.Context) {
	var req model.DecryptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	out, err := h.service.Decrypt(c.Request.Context(), req.EncryptedText)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCiphertext) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error(c.Request.Context(), "decrypt failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decrypt"})
		return
	}

	c.JSON(http.StatusOK, model.CipherResponse{StatusCode: http.StatusOK, Message: out})
}

func (h *LegacyHandler) UpdatePassword(c *gin.Context) {
	var req model.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.service.UpdatePassword(c.Request.Context(), req.Email, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.log.Error(c.Request.Context(), "legacy password update failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Updated"})
}

// RegisterLegacyRoutes mounts the shared-secret routes behind apiKeyMW
func (h *LegacyHandler) RegisterLegacyRoutes(rg *gin.RouterGroup, apiKeyMW gin.HandlerFunc) {
	legacyGroup := rg.Group("/auth", apiKeyMW)
	{
		legacyGroup.POST("/encrypt", h.Encrypt)
		legacyGroup.POST("/decrypt", h.Decrypt)
		legacyGroup.POST("/update-password", h.UpdatePassword)
	}
}
