package dashboard

import (
	"github.com/rs/zerolog/log"

	"cardiodash/internal/session"
)

// Sessions binds SessionState to the session store.
type Sessions struct {
	store *session.Store
}

// NewSessions wraps a store.
func NewSessions(store *session.Store) *Sessions {
	return &Sessions{store: store}
}

// Load returns the state for id. Unknown, expired or corrupted entries give
// the default state.
func (s *Sessions) Load(id string) SessionState {
	data, ok := s.store.Load(id)
	if !ok {
		return DefaultState()
	}
	state, clean := DecodeState(data)
	if !clean {
		log.Warn().Str("session", id).Msg("[Dashboard] corrupted session state reset to default")
	}
	return state
}

// Save persists state for id.
func (s *Sessions) Save(id string, state SessionState) error {
	data, err := EncodeState(state)
	if err != nil {
		return err
	}
	return s.store.Save(id, data)
}
