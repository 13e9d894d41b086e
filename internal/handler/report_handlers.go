package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sentinel-server/internal/middleware"
	"sentinel-server/internal/models"
)

func (h *Handler) submitReport(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.APIError{Message: models.ErrUnauthorized.Error()})
		return
	}

	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.APIError{Message: "Invalid request body: " + err.Error()})
		return
	}

	report, err := h.reports.Submit(c.Request.Context(), userID, req.Category, req.Description, req.Anonymous)
	if err != nil {
		if !isExpectedError(err) {
			h.logger.Error("Error submitting report", zap.Stringer("userID", userID), zap.Error(err))
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

func (h *Handler) listReports(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.APIError{Message: models.ErrUnauthorized.Error()})
		return
	}

	reports, err := h.reports.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Error listing reports", zap.Stringer("userID", userID), zap.Error(err))
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}
