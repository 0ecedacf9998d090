// Package session keeps per-browser dashboard state in an in-process,
// size-bounded cache keyed by an opaque cookie id.
package session

import (
	"time"

	"github.com/coocood/freecache"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Store holds encoded session state. Entries expire after the TTL unless
// they are read or written again.
type Store struct {
	cache     *freecache.Cache
	ttlSecond int
}

// NewStore creates a store bounded to sizeInBytes of encoded state.
func NewStore(sizeInBytes int, ttl time.Duration) *Store {
	seconds := int(ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return &Store{
		cache:     freecache.NewCache(sizeInBytes),
		ttlSecond: seconds,
	}
}

// NewID issues a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id could have been issued by NewID. Anything else
// in a cookie is ignored and replaced.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Load returns the stored bytes for id and refreshes its expiry.
func (s *Store) Load(id string) ([]byte, bool) {
	value, err := s.cache.Get([]byte(id))
	if err != nil {
		if err != freecache.ErrNotFound {
			log.Warn().Err(err).Str("session", id).Msg("[Session] lookup failed")
		}
		return nil, false
	}
	if err := s.cache.Touch([]byte(id), s.ttlSecond); err != nil {
		log.Debug().Err(err).Str("session", id).Msg("[Session] touch failed")
	}
	return value, true
}

// Save stores data under id with a fresh expiry.
func (s *Store) Save(id string, data []byte) error {
	return s.cache.Set([]byte(id), data, s.ttlSecond)
}

// Delete drops a session.
func (s *Store) Delete(id string) bool {
	return s.cache.Del([]byte(id))
}

// Len is the number of live entries.
func (s *Store) Len() int64 {
	return s.cache.EntryCount()
}
