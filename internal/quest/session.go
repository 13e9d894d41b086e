package quest

import (
	"sync"

	"github.com/google/uuid"

	"sentinel-server/internal/models"
)

// Session drives a single play-through of one quest. It is either active at
// some scene or completed; entering a terminal scene completes it in the same
// Choose call. Committing rewards is a separate, explicit operation handled by
// the progress service, so the session itself never touches the ledger.
type Session struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Quest          *models.Quest
	currentSceneID string
	completed      bool
}

// NewSession starts a play-through at the quest's intro scene. The intro is
// re-checked here even though load-time validation guarantees it, because
// quest data may come from an external source at runtime.
func NewSession(q *models.Quest, userID uuid.UUID) (*Session, error) {
	if _, ok := q.Scenes[q.IntroSceneID]; !ok {
		return nil, models.ErrSceneNotFound
	}
	return &Session{
		ID:             uuid.New(),
		UserID:         userID,
		Quest:          q,
		currentSceneID: q.IntroSceneID,
	}, nil
}

// Completed reports whether a terminal scene has been reached.
func (s *Session) Completed() bool {
	return s.completed
}

// CurrentSceneID returns the identifier of the scene the session sits at.
func (s *Session) CurrentSceneID() string {
	return s.currentSceneID
}

// CurrentScene returns the scene the session is active at. Once the session is
// completed there is no current scene anymore; the terminal scene was already
// handed out by the Choose call that completed it.
func (s *Session) CurrentScene() (*models.Scene, error) {
	if s.completed {
		return nil, models.ErrSessionCompleted
	}
	scene, ok := s.Quest.Scenes[s.currentSceneID]
	if !ok {
		return nil, models.ErrSceneNotFound
	}
	return &scene, nil
}

// Choose advances the session to the requested scene. The target must be
// offered by one of the current scene's choices, or equal the scene's
// auto-advance target when it has no choices. A rejected transition leaves
// the session unchanged. The matched choice (nil on auto-advance) is returned
// so the caller can tag analytics; when two authored choices share a target,
// the first one in authored order supplies the metadata and the transition is
// identical either way.
func (s *Session) Choose(next string) (*models.Scene, *models.Choice, error) {
	if s.completed {
		return nil, nil, models.ErrSessionCompleted
	}

	current, ok := s.Quest.Scenes[s.currentSceneID]
	if !ok {
		return nil, nil, models.ErrSceneNotFound
	}

	var matched *models.Choice
	allowed := false
	for i := range current.Choices {
		if current.Choices[i].Next == next {
			matched = &current.Choices[i]
			allowed = true
			break
		}
	}
	if !allowed && len(current.Choices) == 0 && current.Next != "" && current.Next == next {
		allowed = true
	}
	if !allowed {
		return nil, nil, models.ErrInvalidTransition
	}

	target, ok := s.Quest.Scenes[next]
	if !ok {
		// Excluded by load-time validation; re-checked so a bad definition can
		// never move the session onto a scene that does not exist.
		return nil, nil, models.ErrSceneNotFound
	}

	s.currentSceneID = next
	if target.IsEnd {
		s.completed = true
	}
	return &target, matched, nil
}

// SessionStore holds the in-memory active sessions. Abandoning a session is a
// silent no-op: nothing is persisted until the completion commit, so dropping
// an entry has no side effect. Guarded by a mutex because HTTP handlers run
// on concurrent goroutines even though the product scope is one local user.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewSessionStore returns an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[uuid.UUID]*Session)}
}

// Put registers a session under its id.
func (st *SessionStore) Put(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
}

// Get returns the session for the id, or ErrSessionNotFound.
func (st *SessionStore) Get(id uuid.UUID) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	return s, nil
}

// Delete drops a session. Deleting an absent id is a no-op.
func (st *SessionStore) Delete(id uuid.UUID) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}
