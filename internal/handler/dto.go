package handler

import (
	"sentinel-server/internal/models"
)

type registerRequest struct {
	Username  string   `json:"username" binding:"required"`
	Password  string   `json:"password" binding:"required"`
	Country   string   `json:"country"`
	AgeRange  string   `json:"ageRange"`
	Interests []string `json:"interests"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// questSummary is the catalog listing entry; scenes are omitted to keep the
// list light.
type questSummary struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Track       models.QuestTrack  `json:"track"`
	Country     string             `json:"country"`
	Description string             `json:"description"`
	XP          int                `json:"xp"`
	Badge       string             `json:"badge,omitempty"`
	SceneCount  int                `json:"sceneCount"`
}

func toQuestSummary(q models.Quest) questSummary {
	return questSummary{
		ID:          q.ID,
		Title:       q.Title,
		Track:       q.Track,
		Country:     q.Country,
		Description: q.Description,
		XP:          q.XP,
		Badge:       q.Badge,
		SceneCount:  len(q.Scenes),
	}
}

type sessionResponse struct {
	SessionID string        `json:"sessionId"`
	QuestID   string        `json:"questId"`
	Scene     *models.Scene `json:"scene"`
	Completed bool          `json:"completed"`
}

type choiceRequest struct {
	Next string `json:"next" binding:"required"`
}

type completeResponse struct {
	Progress *models.Progress `json:"progress"`
	NewBadge bool             `json:"newBadge"`
}

type progressResponse struct {
	*models.Progress
	Level int `json:"level"`
}

type reportRequest struct {
	Category    string `json:"category" binding:"required"`
	Description string `json:"description" binding:"required"`
	Anonymous   bool   `json:"anonymous"`
}

type scanRequest struct {
	Text string `json:"text" binding:"required"`
}

type generateVideoRequest struct {
	Topic string `json:"topic" binding:"required"`
}
