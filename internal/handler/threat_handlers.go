package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sentinel-server/internal/middleware"
	"sentinel-server/internal/models"
)

func (h *Handler) listThreats(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.APIError{Message: models.ErrUnauthorized.Error()})
		return
	}

	threats, err := h.threats.Feed(c.Request.Context(), userID, c.Query("location"))
	if err != nil {
		h.logger.Error("Error listing threats", zap.Stringer("userID", userID), zap.Error(err))
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"threats": threats})
}

func (h *Handler) markThreatRead(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.APIError{Message: models.ErrUnauthorized.Error()})
		return
	}

	threatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.APIError{Message: "Invalid threat ID format"})
		return
	}

	if err := h.threats.MarkRead(c.Request.Context(), userID, threatID); err != nil {
		if !isExpectedError(err) {
			h.logger.Error("Error marking threat read", zap.Stringer("threatID", threatID), zap.Error(err))
		}
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
