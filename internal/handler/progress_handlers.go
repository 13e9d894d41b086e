package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sentinel-server/internal/middleware"
	"sentinel-server/internal/models"
)

func (h *Handler) getProgress(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.APIError{Message: models.ErrUnauthorized.Error()})
		return
	}

	progress, err := h.progress.Get(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Error fetching progress", zap.Stringer("userID", userID), zap.Error(err))
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progressResponse{Progress: progress, Level: progress.Level()})
}

func (h *Handler) markCardGenerated(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.APIError{Message: models.ErrUnauthorized.Error()})
		return
	}

	badge := c.Param("badge")
	if badge == "" {
		c.JSON(http.StatusBadRequest, models.APIError{Message: "Badge is required"})
		return
	}

	progress, err := h.progress.MarkCardGenerated(c.Request.Context(), userID, badge)
	if err != nil {
		h.logger.Error("Error marking card generated",
			zap.Stringer("userID", userID),
			zap.String("badge", badge),
			zap.Error(err))
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progressResponse{Progress: progress, Level: progress.Level()})
}
