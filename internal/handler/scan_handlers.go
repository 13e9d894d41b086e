package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sentinel-server/internal/middleware"
	"sentinel-server/internal/models"
)

func (h *Handler) scanContent(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.APIError{Message: models.ErrUnauthorized.Error()})
		return
	}

	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.APIError{Message: "Invalid request body: " + err.Error()})
		return
	}

	analysis, err := h.scanner.AnalyzeContent(c.Request.Context(), req.Text)
	if err != nil {
		if !isExpectedError(err) {
			h.logger.Error("Error analyzing content", zap.Stringer("userID", userID), zap.Error(err))
		}
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (h *Handler) dailyTip(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.APIError{Message: models.ErrUnauthorized.Error()})
		return
	}

	tip, err := h.tips.DailyTip(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Error fetching daily tip", zap.Stringer("userID", userID), zap.Error(err))
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tip)
}
