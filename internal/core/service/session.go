package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
	"github.com/taskbuddy/taskbuddy-go/internal/core/ports"
)

// SessionService is the process-wide session store. It owns the only four
// mutations of the shared auth state (probe, login, logout, identity
// update); everything else reads it. Lifecycle is loading → ready: route
// guards must not decide anything until the startup probe has resolved.
type SessionService struct {
	api   ports.AuthAPI
	store ports.CredentialStore
	log   zerolog.Logger

	// onSessionEnd is the logout counterpart of the transport's
	// unauthorized hook: the CLI analog of the SPA's hard redirect.
	onSessionEnd func()

	mu        sync.RWMutex
	loading   bool
	session   *domain.Session
	probeOnce sync.Once
}

// SessionOption configures a SessionService.
type SessionOption func(*SessionService)

// WithSessionEndHook sets the callback fired by Logout after state is
// cleared.
func WithSessionEndHook(fn func()) SessionOption {
	return func(s *SessionService) { s.onSessionEnd = fn }
}

// WithSessionLogger sets the structured logger.
func WithSessionLogger(log zerolog.Logger) SessionOption {
	return func(s *SessionService) { s.log = log }
}

// NewSessionService builds a session store in the loading state.
func NewSessionService(api ports.AuthAPI, store ports.CredentialStore, opts ...SessionOption) *SessionService {
	s := &SessionService{
		api:          api,
		store:        store,
		log:          zerolog.Nop(),
		onSessionEnd: func() {},
		loading:      true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Probe resolves the startup state exactly once per process. With no
// persisted credential it completes immediately and issues no network
// call. With one, it validates it against /auth/me; any failure clears
// the persisted credential and identity together.
func (s *SessionService) Probe(ctx context.Context) {
	s.probeOnce.Do(func() {
		defer s.setLoading(false)

		token := s.store.Get(ports.KeyToken)
		if token == "" {
			return
		}

		session, err := s.api.Me(ctx)
		if err != nil {
			s.log.Debug().Err(err).Msg("session probe rejected, clearing persisted auth state")
			if clearErr := s.store.ClearAuth(); clearErr != nil {
				s.log.Error().Err(clearErr).Msg("failed to clear persisted auth state")
			}
			return
		}

		s.mu.Lock()
		s.session = session
		s.mu.Unlock()
	})
}

// Login authenticates and, on success, persists the credential and the
// identity mirror before populating the in-memory session. On any failure
// stale persisted state is cleared and the error is returned for display.
// Concurrent logins are not deduplicated; that discipline is the caller's.
func (s *SessionService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	result, err := s.api.Login(ctx, username, password)
	if err != nil {
		s.clearState()
		return nil, err
	}
	// Role is mandatory: a missing role is a backend contract violation,
	// never silently defaulted.
	if result.Role == "" {
		s.clearState()
		return nil, domain.ErrMissingRole
	}

	session := &domain.Session{
		ID:       result.UserID,
		Username: result.Username,
		Email:    result.Email,
		Role:     result.Role,
	}

	if err := s.store.Set(ports.KeyToken, result.Token); err != nil {
		s.clearState()
		return nil, err
	}
	if err := s.persistIdentity(session); err != nil {
		s.clearState()
		return nil, err
	}

	s.mu.Lock()
	s.session = session
	s.loading = false
	s.mu.Unlock()

	return session, nil
}

// Logout clears persisted and in-memory state and fires the session-end
// hook. Idempotent: logging out with no active session is a no-op beyond
// the hook.
func (s *SessionService) Logout() {
	s.clearState()
	s.onSessionEnd()
}

// UpdateIdentity replaces the session wholesale, in memory and in the
// persisted mirror. The credential is untouched.
func (s *SessionService) UpdateIdentity(identity domain.Session) error {
	if err := s.persistIdentity(&identity); err != nil {
		return err
	}
	s.mu.Lock()
	s.session = &identity
	s.mu.Unlock()
	return nil
}

// Authenticated is true only when an in-memory session exists AND the
// credential is still persisted. A session alone (stale memory after
// storage tampering) is not sufficient.
func (s *SessionService) Authenticated() bool {
	s.mu.RLock()
	hasSession := s.session != nil
	s.mu.RUnlock()
	return hasSession && s.store.Get(ports.KeyToken) != ""
}

// Loading reports whether the startup probe is still unresolved.
func (s *SessionService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Current returns a copy of the session, or nil when signed out.
func (s *SessionService) Current() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	copy := *s.session
	return &copy
}

func (s *SessionService) persistIdentity(session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.store.Set(ports.KeyIdentity, string(data))
}

func (s *SessionService) clearState() {
	if err := s.store.ClearAuth(); err != nil {
		s.log.Error().Err(err).Msg("failed to clear persisted auth state")
	}
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
}

func (s *SessionService) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
