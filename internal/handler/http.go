package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"sentinel-server/internal/authutils"
	"sentinel-server/internal/middleware"
	"sentinel-server/internal/models"
	"sentinel-server/internal/service"
)

// RateLimitConfig holds the per-action fixed-window limits.
type RateLimitConfig struct {
	ScanLimit    int
	ScanWindow   time.Duration
	ReportLimit  int
	ReportWindow time.Duration
}

// Handler wires the HTTP surface to the services.
type Handler struct {
	auth      service.AuthService
	quests    service.QuestService
	progress  service.ProgressService
	threats   service.ThreatService
	reports   service.ReportService
	videos    service.VideoService
	scanner   service.ScannerService
	tips      service.TipService
	verifier  *authutils.JWTVerifier
	redis     *redis.Client
	rateLimit RateLimitConfig
	logger    *zap.Logger
}

// Deps bundles the handler's dependencies.
type Deps struct {
	Auth      service.AuthService
	Quests    service.QuestService
	Progress  service.ProgressService
	Threats   service.ThreatService
	Reports   service.ReportService
	Videos    service.VideoService
	Scanner   service.ScannerService
	Tips      service.TipService
	Verifier  *authutils.JWTVerifier
	Redis     *redis.Client
	RateLimit RateLimitConfig
}

// NewHandler creates a Handler.
func NewHandler(deps Deps, logger *zap.Logger) *Handler {
	return &Handler{
		auth:      deps.Auth,
		quests:    deps.Quests,
		progress:  deps.Progress,
		threats:   deps.Threats,
		reports:   deps.Reports,
		videos:    deps.Videos,
		scanner:   deps.Scanner,
		tips:      deps.Tips,
		verifier:  deps.Verifier,
		redis:     deps.Redis,
		rateLimit: deps.RateLimit,
		logger:    logger.Named("Handler"),
	}
}

// RegisterRoutes registers all application routes on the engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	authMW := middleware.Auth(h.verifier.VerifyToken, h.logger)

	r.POST("/auth/register", h.register)
	r.POST("/auth/login", h.login)

	// Quest catalog is public; playing requires an account.
	r.GET("/quests", h.listQuests)
	r.GET("/quests/:id", h.getQuest)

	sessions := r.Group("/sessions", authMW)
	{
		sessions.GET("/:id/scene", h.sessionScene)
		sessions.POST("/:id/choice", h.sessionChoice)
		sessions.POST("/:id/complete", h.sessionComplete)
		sessions.DELETE("/:id", h.sessionAbandon)
	}
	r.POST("/quests/:id/session", authMW, h.startSession)

	api := r.Group("/api", authMW)
	{
		api.GET("/me", h.me)
		api.GET("/progress", h.getProgress)
		api.POST("/progress/cards/:badge", h.markCardGenerated)

		api.GET("/threats", h.listThreats)
		api.POST("/threats/:id/read", h.markThreatRead)

		api.GET("/reports", h.listReports)
		api.GET("/videos", h.listVideos)
		api.GET("/videos/:id", h.getVideo)
		api.POST("/videos", h.generateVideo)

		api.GET("/tips/daily", h.dailyTip)

		if h.redis != nil {
			api.POST("/scan",
				middleware.RateLimit(h.redis, "scan", h.rateLimit.ScanLimit, h.rateLimit.ScanWindow, h.logger),
				h.scanContent)
			api.POST("/reports",
				middleware.RateLimit(h.redis, "report", h.rateLimit.ReportLimit, h.rateLimit.ReportWindow, h.logger),
				h.submitReport)
		} else {
			api.POST("/scan", h.scanContent)
			api.POST("/reports", h.submitReport)
		}
	}
}

// handleServiceError maps service errors onto HTTP responses.
func (h *Handler) handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var apiErr models.APIError

	switch {
	case errors.Is(err, models.ErrQuestNotFound),
		errors.Is(err, models.ErrSceneNotFound),
		errors.Is(err, models.ErrSessionNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrNotFound):
		statusCode = http.StatusNotFound
		apiErr = models.APIError{Message: err.Error()}
	case errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, service.ErrPromptTooLarge):
		statusCode = http.StatusBadRequest
		apiErr = models.APIError{Message: err.Error()}
	case errors.Is(err, models.ErrSessionCompleted),
		errors.Is(err, service.ErrSessionActive),
		errors.Is(err, models.ErrUserAlreadyExists):
		statusCode = http.StatusConflict
		apiErr = models.APIError{Message: err.Error()}
	case errors.Is(err, models.ErrInvalidCredentials),
		errors.Is(err, models.ErrUnauthorized),
		errors.Is(err, models.ErrTokenInvalid),
		errors.Is(err, models.ErrTokenExpired),
		errors.Is(err, models.ErrTokenMalformed):
		statusCode = http.StatusUnauthorized
		apiErr = models.APIError{Message: err.Error()}
	case errors.Is(err, models.ErrForbidden):
		statusCode = http.StatusForbidden
		apiErr = models.APIError{Message: err.Error()}
	case errors.Is(err, models.ErrRateLimited):
		statusCode = http.StatusTooManyRequests
		apiErr = models.APIError{Message: err.Error()}
	default:
		statusCode = http.StatusInternalServerError
		apiErr = models.APIError{Message: "Internal server error"}
	}

	c.JSON(statusCode, apiErr)
}

// isExpectedError reports whether the error is a routine client-facing error
// that does not warrant an Error log.
func isExpectedError(err error) bool {
	return errors.Is(err, models.ErrNotFound) ||
		errors.Is(err, models.ErrQuestNotFound) ||
		errors.Is(err, models.ErrSceneNotFound) ||
		errors.Is(err, models.ErrSessionNotFound) ||
		errors.Is(err, models.ErrSessionCompleted) ||
		errors.Is(err, models.ErrInvalidTransition) ||
		errors.Is(err, models.ErrInvalidInput) ||
		errors.Is(err, models.ErrUserNotFound) ||
		errors.Is(err, models.ErrUserAlreadyExists) ||
		errors.Is(err, models.ErrInvalidCredentials) ||
		errors.Is(err, service.ErrSessionActive) ||
		errors.Is(err, service.ErrPromptTooLarge)
}
