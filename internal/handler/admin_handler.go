package handler

import (
	"errors"
	"net/http"

	"member_directory/internal/logging"
	"member_directory/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler serves account lookups for administrators
type AdminHandler struct {
	service service.AuthService
	log     logging.Logger
}

func NewAdminHandler(s service.AuthService, log logging.Logger) *AdminHandler {
	return &AdminHandler{service: s, log: log}
}

func (h *AdminHandler) GetAccount(c *gin.Context) {
	accountID := c.Param("id")
	if _, err := uuid.Parse(accountID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID"})
		return
	}

	account, err := h.service.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.Error(c.Request.Context(), "admin account lookup failed", "account_id", accountID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve account"})
		return
	}

	c.JSON(http.StatusOK, account.Public())
}

// RegisterAdminRoutes registers admin routes. guard runs after authMW.
func (h *AdminHandler) RegisterAdminRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, guard gin.HandlerFunc) {
	adminGroup := rg.Group("/admin", authMW, guard)
	{
		adminGroup.GET("/accounts/:id", h.GetAccount)
	}
}
