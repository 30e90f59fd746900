package session

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"pairpad/internal/models"
	"pairpad/internal/snippets"
)

// idLength keeps session ids short enough to share verbally or in a URL.
const idLength = 8

// Registry owns the set of live sessions. Id generation and insertion happen
// under one lock, so two concurrent creates can never mint the same id.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create stores a fresh session with the catalog starter for language (empty
// for unrecognized languages) and no participants yet.
func (r *Registry) Create(language models.Language) *Session {
	if language == "" {
		language = models.DefaultLanguage
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var id string
	for {
		id = newSessionID()
		if _, taken := r.sessions[id]; !taken {
			break
		}
	}

	s := newSession(id, language, snippets.Default(language))
	r.sessions[id] = s
	return s
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Delete is idempotent.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func newSessionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:idLength]
}
