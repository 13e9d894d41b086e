package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sentinel-server/internal/middleware"
	"sentinel-server/internal/models"
	"sentinel-server/internal/service"
)

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.APIError{Message: "Invalid request body: " + err.Error()})
		return
	}

	user, token, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		Country:   req.Country,
		AgeRange:  req.AgeRange,
		Interests: req.Interests,
	})
	if err != nil {
		if !isExpectedError(err) {
			h.logger.Error("Error registering user", zap.Error(err))
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse{Token: token, User: user})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.APIError{Message: "Invalid request body: " + err.Error()})
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if !isExpectedError(err) {
			h.logger.Error("Error logging in", zap.Error(err))
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

func (h *Handler) me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.APIError{Message: models.ErrUnauthorized.Error()})
		return
	}

	user, err := h.auth.Me(c.Request.Context(), userID)
	if err != nil {
		if !isExpectedError(err) {
			h.logger.Error("Error fetching profile", zap.Stringer("userID", userID), zap.Error(err))
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
