package session

import (
	"strings"
	"sync"
	"time"

	"pairpad/internal/models"
)

// Session holds the authoritative buffer, language and participant set for one
// pairing room. Every mutation and its fan-out run under a single mutex, so
// events against the same session never interleave partially; two sessions
// share nothing and proceed in parallel.
type Session struct {
	ID string

	mu           sync.Mutex
	language     models.Language
	code         string
	participants map[*Client]string
	createdAt    time.Time
	closed       bool
}

func newSession(id string, language models.Language, code string) *Session {
	return &Session{
		ID:           id,
		language:     language,
		code:         code,
		participants: make(map[*Client]string),
		createdAt:    time.Now(),
	}
}

func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Snapshot returns the current language and buffer.
func (s *Session) Snapshot() (models.Language, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language, s.code
}

func (s *Session) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usersLocked()
}

func (s *Session) ParticipantCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.participants)
}

func (s *Session) usersLocked() []models.User {
	users := make([]models.User, 0, len(s.participants))
	for c, name := range s.participants {
		users = append(users, models.User{ID: c.ID, Name: name})
	}
	return users
}

// AddParticipant admits c under name and fires the three join effects in
// order: full snapshot to the joiner, participant-joined to everyone else,
// refreshed roster to the whole session. It reports false once the session
// has closed (last participant already departed), so a join resolved against
// a stale registry lookup admits nobody.
func (s *Session) AddParticipant(c *Client, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	s.participants[c] = name

	c.Send(models.WSFrame{Type: "joined", Data: models.JoinedPayload{
		SessionID: s.ID,
		Language:  s.language,
		Code:      s.code,
		Users:     s.usersLocked(),
	}})
	s.broadcastLocked(c, models.WSFrame{Type: "participant-joined", Data: models.User{ID: c.ID, Name: name}})
	s.broadcastLocked(nil, models.WSFrame{Type: "participants", Data: s.usersLocked()})
	return true
}

// RemoveParticipant drops c, notifies the remaining participants of the
// departure and the refreshed roster, and reports how many remain. The last
// departure closes the session in the same critical section, so the
// empty-check and the membership change are one atomic step. Removing a
// client that never joined is a no-op.
func (s *Session) RemoveParticipant(c *Client) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.participants[c]; !ok {
		return len(s.participants)
	}
	delete(s.participants, c)

	s.broadcastLocked(nil, models.WSFrame{Type: "participant-left", Data: c.ID})
	s.broadcastLocked(nil, models.WSFrame{Type: "participants", Data: s.usersLocked()})

	if len(s.participants) == 0 {
		s.closed = true
	}
	return len(s.participants)
}

// ApplyCode overwrites the buffer (last-writer-wins, no merge) and relays the
// new value to every participant except the sender.
func (s *Session) ApplyCode(sender *Client, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.code = code
	s.broadcastLocked(sender, models.WSFrame{Type: "code-update", Data: code})
}

// ApplyLanguage switches the session language. A blank buffer is replaced by
// starter; work in progress is never clobbered. The resulting pair goes to
// every participant, sender included, so all editors switch modes.
func (s *Session) ApplyLanguage(language models.Language, starter string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.language = language
	if strings.TrimSpace(s.code) == "" {
		s.code = starter
	}
	s.broadcastLocked(nil, models.WSFrame{Type: "language-update", Data: models.LanguageUpdate{
		Language: s.language,
		Code:     s.code,
	}})
}

// broadcastLocked delivers frame to every participant except sender; a nil
// sender reaches everyone. Callers must hold s.mu.
func (s *Session) broadcastLocked(sender *Client, frame models.WSFrame) {
	for c := range s.participants {
		if c == sender {
			continue
		}
		c.Send(frame)
	}
}
