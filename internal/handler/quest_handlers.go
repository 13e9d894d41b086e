package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sentinel-server/internal/middleware"
	"sentinel-server/internal/models"
)

func (h *Handler) listQuests(c *gin.Context) {
	track := models.QuestTrack(c.Query("track"))

	quests := h.quests.ListQuests(c.Request.Context(), track)
	summaries := make([]questSummary, len(quests))
	for i, q := range quests {
		summaries[i] = toQuestSummary(q)
	}

	c.JSON(http.StatusOK, gin.H{"quests": summaries})
}

func (h *Handler) getQuest(c *gin.Context) {
	quest, err := h.quests.GetQuest(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quest)
}

func (h *Handler) startSession(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.APIError{Message: models.ErrUnauthorized.Error()})
		return
	}

	session, intro, err := h.quests.StartSession(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if !isExpectedError(err) {
			h.logger.Error("Error starting session", zap.Stringer("userID", userID), zap.Error(err))
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sessionResponse{
		SessionID: session.ID.String(),
		QuestID:   session.Quest.ID,
		Scene:     intro,
		Completed: false,
	})
}

func (h *Handler) sessionScene(c *gin.Context) {
	userID, sessionID, ok := h.sessionParams(c)
	if !ok {
		return
	}

	scene, err := h.quests.Scene(c.Request.Context(), userID, sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, scene)
}

func (h *Handler) sessionChoice(c *gin.Context) {
	userID, sessionID, ok := h.sessionParams(c)
	if !ok {
		return
	}

	var req choiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.APIError{Message: "Invalid request body: " + err.Error()})
		return
	}

	scene, completed, err := h.quests.Choose(c.Request.Context(), userID, sessionID, req.Next)
	if err != nil {
		if !isExpectedError(err) {
			h.logger.Error("Error processing choice",
				zap.Stringer("sessionID", sessionID),
				zap.String("next", req.Next),
				zap.Error(err))
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionResponse{
		SessionID: sessionID.String(),
		Scene:     scene,
		Completed: completed,
	})
}

func (h *Handler) sessionComplete(c *gin.Context) {
	userID, sessionID, ok := h.sessionParams(c)
	if !ok {
		return
	}

	progress, newBadge, err := h.quests.Complete(c.Request.Context(), userID, sessionID)
	if err != nil {
		if !isExpectedError(err) {
			h.logger.Error("Error completing session", zap.Stringer("sessionID", sessionID), zap.Error(err))
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, completeResponse{Progress: progress, NewBadge: newBadge})
}

func (h *Handler) sessionAbandon(c *gin.Context) {
	userID, sessionID, ok := h.sessionParams(c)
	if !ok {
		return
	}

	h.quests.AbandonSession(c.Request.Context(), userID, sessionID)
	c.Status(http.StatusNoContent)
}

// sessionParams pulls the authenticated user and the session id path
// parameter, writing the error response itself on failure.
func (h *Handler) sessionParams(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.APIError{Message: models.ErrUnauthorized.Error()})
		return uuid.Nil, uuid.Nil, false
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.APIError{Message: "Invalid session ID format"})
		return uuid.Nil, uuid.Nil, false
	}
	return userID, sessionID, true
}
