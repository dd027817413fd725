package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/othello/internal/model"
)

// Session is a bearer token bound to one player
type Session struct {
	Token     string
	PlayerID  model.PlayerID
	Player    model.Player
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s *Session) expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// sessionStore keeps sessions in process memory. Restarting the server logs
// everyone out; players and lobbies survive in storage
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*Session)}
}

func (st *sessionStore) put(s *Session) {
	st.mu.Lock()
	st.sessions[s.Token] = s
	st.mu.Unlock()
}

func (st *sessionStore) get(token string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[token]
	return s, ok
}

func (st *sessionStore) delete(token string) {
	st.mu.Lock()
	delete(st.sessions, token)
	st.mu.Unlock()
}

func (st *sessionStore) len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// sweep drops every session expired at now
func (st *sessionStore) sweep(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for token, s := range st.sessions {
		if s.expired(now) {
			delete(st.sessions, token)
			removed++
		}
	}
	return removed
}

// newToken returns prefix followed by 128 random bits, base64url encoded
func newToken(prefix string) string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return prefix + base64.RawURLEncoding.EncodeToString(b)
}

func (s *Service) createSession(player *model.Player) *Session {
	now := s.clock.Now()
	session := &Session{
		Token:     newToken("sess_"),
		PlayerID:  player.ID,
		Player:    *player,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}
	s.sessions.put(session)
	return session
}

// ValidateSession returns the live session for token. Expired sessions are
// removed on sight
func (s *Service) ValidateSession(token string) (*Session, error) {
	session, ok := s.sessions.get(token)
	if !ok {
		return nil, ErrInvalidSession
	}
	if session.expired(s.clock.Now()) {
		s.sessions.delete(token)
		return nil, ErrInvalidSession
	}
	return session, nil
}

// InvalidateSession logs a token out. Unknown tokens are ignored
func (s *Service) InvalidateSession(token string) {
	s.sessions.delete(token)
}

// GetPlayer returns the player behind a session token
func (s *Service) GetPlayer(token string) (*model.Player, error) {
	session, err := s.ValidateSession(token)
	if err != nil {
		return nil, err
	}
	return &session.Player, nil
}

// CleanExpiredSessions removes expired sessions and returns how many were dropped
func (s *Service) CleanExpiredSessions() int {
	return s.sessions.sweep(s.clock.Now())
}

// RunJanitor cleans expired sessions every interval until ctx is done
func (s *Service) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.CleanExpiredSessions(); n > 0 {
				s.logger.Debug("expired sessions removed", slog.Int("count", n))
			}
		}
	}
}
