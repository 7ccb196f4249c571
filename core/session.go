package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
)

// Session is the live authenticated identity plus credential token.
// Invariant: Authenticated == (Token != ""), and ActorType is never set
// without a token. Exactly one Session is live per store.
type Session struct {
	Authenticated bool
	ActorType     ActorType
	Token         string
	Info          map[string]interface{}
}

// persistedSession is the durable record written under StorageKeySession.
type persistedSession struct {
	Type  ActorType              `json:"type"`
	Token string                 `json:"token"`
	Info  map[string]interface{} `json:"info"`
}

// SessionStore is the single source of truth for "who is acting and with
// what credential", and the only component allowed to write the session's
// durable record. In-memory state is always written before the durable
// mirror, under one lock, so a reader never observes one updated and the
// other stale.
type SessionStore struct {
	mu            sync.Mutex
	session       Session
	generation    uint64
	storage       Storage
	logger        Logger
	defaultLocale string
	clearHooks    []func()
}

// NewSessionStore creates a session store over the given durable storage.
func NewSessionStore(storage Storage, logger Logger) *SessionStore {
	if logger == nil {
		logger = &NoOpLogger{}
	}
	return &SessionStore{
		storage:       storage,
		logger:        logger,
		defaultLocale: "zh-CN",
	}
}

// SetDefaultLocale sets the locale reported when none is persisted.
func (s *SessionStore) SetDefaultLocale(locale string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if locale != "" {
		s.defaultLocale = locale
	}
}

// Login establishes the authenticated session and persists it. A token
// is required; an actor type is never recorded without one.
func (s *SessionStore) Login(ctx context.Context, actorType ActorType, info map[string]interface{}, token string) error {
	if token == "" {
		return &ClientError{
			Op:      "session.Login",
			Kind:    "validation",
			Message: "token is required",
			Err:     ErrValidation,
		}
	}
	if actorType != ActorUser && actorType != ActorMerchant {
		return &ClientError{
			Op:      "session.Login",
			Kind:    "validation",
			Message: fmt.Sprintf("unknown actor type %q", actorType),
			Err:     ErrValidation,
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = Session{
		Authenticated: true,
		ActorType:     actorType,
		Token:         token,
		Info:          copyInfo(info),
	}
	s.generation++

	record, err := json.Marshal(persistedSession{
		Type:  actorType,
		Token: token,
		Info:  s.session.Info,
	})
	if err != nil {
		return fmt.Errorf("session.Login: encoding record: %w", err)
	}
	if err := s.storage.Set(ctx, StorageKeySession, string(record), 0); err != nil {
		// The in-memory session is already live; the caller learns the
		// mirror is behind and can retry a re-login.
		s.logger.Error("Failed to persist session", map[string]interface{}{
			"operation":  "session_login",
			"actor_type": string(actorType),
			"error":      err.Error(),
		})
		return fmt.Errorf("session.Login: persisting record: %w", err)
	}

	s.logger.Info("Session established", map[string]interface{}{
		"operation":  "session_login",
		"actor_type": string(actorType),
		"generation": s.generation,
	})
	return nil
}

// OnClear registers a hook invoked after every session clear (logout or
// invalidation), outside the store's lock. Dependent state such as the
// discovery conversation hangs off these hooks.
func (s *SessionStore) OnClear(hook func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearHooks = append(s.clearHooks, hook)
}

// Logout clears the session and its durable record. Calling it without a
// live session is a no-op, not an error.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	if !s.session.Authenticated {
		s.mu.Unlock()
		return nil
	}

	s.clearLocked(ctx, "session_logout")
	hooks := s.clearHooks
	s.mu.Unlock()

	for _, hook := range hooks {
		hook()
	}
	return nil
}

// Invalidate clears the session only if the given generation is still
// current. A 401 handler snapshots the generation when its request is
// issued; if a login or logout completed in the meantime the stale
// invalidation is dropped. Reports whether the session was cleared.
func (s *SessionStore) Invalidate(ctx context.Context, generation uint64) bool {
	s.mu.Lock()

	if generation != s.generation || !s.session.Authenticated {
		s.logger.Debug("Stale session invalidation dropped", map[string]interface{}{
			"operation":           "session_invalidate",
			"observed_generation": generation,
			"current_generation":  s.generation,
		})
		s.mu.Unlock()
		return false
	}

	s.clearLocked(ctx, "session_invalidate")
	hooks := s.clearHooks
	s.mu.Unlock()

	for _, hook := range hooks {
		hook()
	}
	return true
}

func (s *SessionStore) clearLocked(ctx context.Context, operation string) {
	s.session = Session{}
	s.generation++

	if err := s.storage.Delete(ctx, StorageKeySession); err != nil {
		s.logger.Error("Failed to clear persisted session", map[string]interface{}{
			"operation": operation,
			"error":     err.Error(),
		})
	}

	s.logger.Info("Session cleared", map[string]interface{}{
		"operation":  operation,
		"generation": s.generation,
	})
}

// Restore re-establishes the session from the durable record, once at
// process start. A missing or malformed record fails open to "not
// authenticated" and is never surfaced as an error.
func (s *SessionStore) Restore(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.storage.Get(ctx, StorageKeySession)
	if err != nil {
		s.logger.Warn("Session restore skipped, storage unreadable", map[string]interface{}{
			"operation": "session_restore",
			"error":     err.Error(),
		})
		return
	}
	if raw == "" {
		return
	}

	var record persistedSession
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		s.logger.Warn("Discarding malformed session record", map[string]interface{}{
			"operation": "session_restore",
			"error":     err.Error(),
		})
		return
	}
	if record.Token == "" || (record.Type != ActorUser && record.Type != ActorMerchant) {
		s.logger.Warn("Discarding incomplete session record", map[string]interface{}{
			"operation":  "session_restore",
			"actor_type": string(record.Type),
			"has_token":  record.Token != "",
		})
		return
	}

	s.session = Session{
		Authenticated: true,
		ActorType:     record.Type,
		Token:         record.Token,
		Info:          record.Info,
	}
	s.generation++

	s.logger.Info("Session restored", map[string]interface{}{
		"operation":  "session_restore",
		"actor_type": string(record.Type),
	})
}

// Current returns a snapshot of the live session.
func (s *SessionStore) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.session
	snapshot.Info = copyInfo(s.session.Info)
	return snapshot
}

// Token returns the credential token, empty when unauthenticated.
func (s *SessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Token
}

// Generation returns the session generation counter. It advances on
// every login, logout, restore, and invalidation.
func (s *SessionStore) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// actorIDCandidates is the ordered extraction chain for the actor
// identifier. The backend has shipped payloads with the ID under "id",
// under the legacy "userId", and occasionally under neither; the three
// candidates below must stay in this order.
var actorIDCandidates = []func(info map[string]interface{}) (string, bool){
	infoField("id"),
	infoField("userId"),
	func(map[string]interface{}) (string, bool) { return DefaultActorID, true },
}

// CurrentActorID resolves the best-effort actor identifier through the
// candidate chain. It never fails; an unauthenticated session resolves
// to the default identifier.
func (s *SessionStore) CurrentActorID() string {
	s.mu.Lock()
	info := s.session.Info
	s.mu.Unlock()

	for _, candidate := range actorIDCandidates {
		if id, ok := candidate(info); ok {
			return id
		}
	}
	return DefaultActorID
}

func infoField(name string) func(map[string]interface{}) (string, bool) {
	return func(info map[string]interface{}) (string, bool) {
		if info == nil {
			return "", false
		}
		v, ok := info[name]
		if !ok || v == nil {
			return "", false
		}
		switch t := v.(type) {
		case string:
			if t == "" {
				return "", false
			}
			return t, true
		case json.Number:
			return t.String(), true
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64), true
		case int:
			return strconv.Itoa(t), true
		case int64:
			return strconv.FormatInt(t, 10), true
		default:
			return "", false
		}
	}
}

// Locale returns the persisted locale preference, or the default when
// absent. Storage trouble also falls back to the default.
func (s *SessionStore) Locale(ctx context.Context) string {
	s.mu.Lock()
	fallback := s.defaultLocale
	s.mu.Unlock()

	locale, err := s.storage.Get(ctx, StorageKeyLocale)
	if err != nil || locale == "" {
		return fallback
	}
	return locale
}

// SetLocale persists the locale preference.
func (s *SessionStore) SetLocale(ctx context.Context, locale string) error {
	if locale == "" {
		return s.storage.Delete(ctx, StorageKeyLocale)
	}
	return s.storage.Set(ctx, StorageKeyLocale, locale, 0)
}

func copyInfo(info map[string]interface{}) map[string]interface{} {
	if info == nil {
		return nil
	}
	out := make(map[string]interface{}, len(info))
	for k, v := range info {
		out[k] = v
	}
	return out
}
