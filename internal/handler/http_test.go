package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sentinel-server/internal/authutils"
	"sentinel-server/internal/handler"
	"sentinel-server/internal/messaging"
	"sentinel-server/internal/models"
	"sentinel-server/internal/quest"
	"sentinel-server/internal/repository"
	"sentinel-server/internal/service"
)

const testJWTSecret = "handler-test-secret"

// fakeAI returns a fixed well-formed scam analysis answer.
type fakeAI struct{}

func (fakeAI) GenerateText(context.Context, string, string) (string, service.UsageInfo, error) {
	return "Risk level: high\nExplanation: Classic advance-fee pattern.\nAdvice: Do not reply.", service.UsageInfo{}, nil
}

func fixtureQuest() models.Quest {
	return models.Quest{
		ID:           "momo-api",
		Title:        "MoMo Reversal",
		Track:        models.TrackSurvivor,
		Country:      "GH",
		Description:  "desc",
		IntroSceneID: "intro",
		XP:           50,
		Badge:        "api-badge",
		Scenes: map[string]models.Scene{
			"intro": {
				ID:   "intro",
				Text: "start",
				Choices: []models.Choice{
					{Text: "block", Next: "end", Type: models.ChoiceConstructive},
				},
			},
			"end": {ID: "end", Text: "done", IsEnd: true},
		},
	}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	raw, err := json.Marshal([]models.Quest{fixtureQuest()})
	require.NoError(t, err)
	catalog, err := quest.LoadCatalog(raw, logger)
	require.NoError(t, err)

	userRepo := repository.NewMemoryUserRepository()
	progressRepo := repository.NewMemoryProgressRepository()

	progressService := service.NewProgressService(progressRepo, logger)
	questService := service.NewQuestService(catalog, quest.NewSessionStore(), progressService, messaging.NopPublisher{}, logger)
	authService := service.NewAuthService(userRepo, testJWTSecret, time.Hour, logger)
	scannerService := service.NewScannerService(fakeAI{}, logger)

	verifier, err := authutils.NewJWTVerifier(testJWTSecret, logger)
	require.NoError(t, err)

	h := handler.NewHandler(handler.Deps{
		Auth:     authService,
		Quests:   questService,
		Progress: progressService,
		Scanner:  scannerService,
		Verifier: verifier,
	}, logger)

	router := gin.New()
	h.RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func registerUser(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", gin.H{
		"username": username,
		"password": "long-enough-password",
		"country":  "GH",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestAuthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	t.Run("register and login", func(t *testing.T) {
		registerUser(t, router, "amara")

		rec := doJSON(t, router, http.MethodPost, "/auth/login", "", gin.H{
			"username": "amara",
			"password": "long-enough-password",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		registerUser(t, router, "taken")
		rec := doJSON(t, router, http.MethodPost, "/auth/register", "", gin.H{
			"username": "taken",
			"password": "long-enough-password",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("bad credentials", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/auth/login", "", gin.H{
			"username": "amara",
			"password": "wrong-password-here",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("me requires a token", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("me returns the profile without the hash", func(t *testing.T) {
		token := registerUser(t, router, "profiled")
		rec := doJSON(t, router, http.MethodGet, "/api/me", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"username":"profiled"`)
		assert.NotContains(t, rec.Body.String(), "PasswordHash")
	})
}

func TestQuestEndpoints(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "player")

	t.Run("catalog is public", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/quests", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Quests []struct {
				ID         string `json:"id"`
				SceneCount int    `json:"sceneCount"`
			} `json:"quests"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Quests, 1)
		assert.Equal(t, "momo-api", resp.Quests[0].ID)
		assert.Equal(t, 2, resp.Quests[0].SceneCount)
	})

	t.Run("unknown quest", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/quests/nope", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("starting a session requires a token", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/quests/momo-api/session", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("full play-through", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/quests/momo-api/session", token, nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var started struct {
			SessionID string        `json:"sessionId"`
			Scene     *models.Scene `json:"scene"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
		require.NotEmpty(t, started.SessionID)
		assert.Equal(t, "intro", started.Scene.ID)

		// Completing before the end conflicts.
		rec = doJSON(t, router, http.MethodPost, "/sessions/"+started.SessionID+"/complete", token, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)

		// A transition the scene does not offer is rejected.
		rec = doJSON(t, router, http.MethodPost, "/sessions/"+started.SessionID+"/choice", token, gin.H{"next": "intro"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = doJSON(t, router, http.MethodPost, "/sessions/"+started.SessionID+"/choice", token, gin.H{"next": "end"})
		require.Equal(t, http.StatusOK, rec.Code)

		var chose struct {
			Completed bool `json:"completed"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chose))
		assert.True(t, chose.Completed)

		rec = doJSON(t, router, http.MethodPost, "/sessions/"+started.SessionID+"/complete", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var completed struct {
			NewBadge bool `json:"newBadge"`
			Progress struct {
				XP     int      `json:"xp"`
				Badges []string `json:"badges"`
			} `json:"progress"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &completed))
		assert.True(t, completed.NewBadge)
		assert.Equal(t, 50, completed.Progress.XP)
		assert.Equal(t, []string{"api-badge"}, completed.Progress.Badges)

		// The session is gone once committed.
		rec = doJSON(t, router, http.MethodGet, "/sessions/"+started.SessionID+"/scene", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("another user cannot touch the session", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/quests/momo-api/session", token, nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		var started struct {
			SessionID string `json:"sessionId"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))

		stranger := registerUser(t, router, "stranger")
		rec = doJSON(t, router, http.MethodGet, "/sessions/"+started.SessionID+"/scene", stranger, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad session id format", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/sessions/not-a-uuid/scene", token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestProgressEndpoints(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "progressor")

	t.Run("fresh user ledger", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/progress", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			XP    int `json:"xp"`
			Level int `json:"level"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Zero(t, resp.XP)
		assert.Equal(t, 1, resp.Level)
	})
}

func TestScanEndpoint(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "scanner")

	t.Run("analyzes submitted text", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/scan", token, gin.H{"text": "send fee to claim prize"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp models.ScamAnalysis
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, models.RiskHigh, resp.Risk)
		assert.Equal(t, "Classic advance-fee pattern.", resp.Explanation)
	})

	t.Run("missing text is a binding error", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/scan", token, gin.H{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
