package models

import "errors"

// Application-wide standard errors
var (
	// Common resource errors
	ErrNotFound        = errors.New("resource not found")
	ErrQuestNotFound   = errors.New("quest not found")
	ErrSceneNotFound   = errors.New("scene not found")
	ErrSessionNotFound = errors.New("quest session not found")

	// Quest session errors
	ErrSessionCompleted  = errors.New("quest session already completed")
	ErrInvalidTransition = errors.New("requested scene is not reachable from the current scene")

	// User & authentication errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user with this username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")

	// Token errors
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")

	// General request/server errors
	ErrInvalidInput   = errors.New("invalid input data")
	ErrRateLimited    = errors.New("too many requests")
	ErrInternalServer = errors.New("internal server error")
)
