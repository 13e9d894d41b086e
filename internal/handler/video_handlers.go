package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sentinel-server/internal/models"
)

func (h *Handler) listVideos(c *gin.Context) {
	videos, err := h.videos.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Error listing videos", zap.Error(err))
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": videos})
}

func (h *Handler) getVideo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.APIError{Message: "Invalid video ID format"})
		return
	}

	video, err := h.videos.Get(c.Request.Context(), id)
	if err != nil {
		if !isExpectedError(err) {
			h.logger.Error("Error fetching video", zap.Stringer("videoID", id), zap.Error(err))
		}
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *Handler) generateVideo(c *gin.Context) {
	var req generateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.APIError{Message: "Invalid request body: " + err.Error()})
		return
	}

	video, err := h.videos.Generate(c.Request.Context(), req.Topic)
	if err != nil {
		if !isExpectedError(err) {
			h.logger.Error("Error generating video", zap.String("topic", req.Topic), zap.Error(err))
		}
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, video)
}
