// Package session holds the process-wide key-value store carrying the
// authenticated user's identity. Controllers read it; they never write it.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// UserKey is the key under which the current user's identity is stored.
const UserKey = "user"

var ErrNoUser = errors.New("no user in session")

// Store is the read surface the controllers depend on.
type Store interface {
	Get(key string) (string, bool)
}

// User is the identity object stored under UserKey, JSON-encoded.
type User struct {
	Type  string `json:"type"`
	Email string `json:"email"`
}

// CurrentUser reads and decodes the user identity from the store.
func CurrentUser(s Store) (User, error) {
	raw, ok := s.Get(UserKey)
	if !ok {
		return User{}, ErrNoUser
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return User{}, fmt.Errorf("decode session user: %w", err)
	}
	return u, nil
}

// Memory is an in-process Store implementation.
type Memory struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string]string)}
}

func (s *Memory) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *Memory) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
}

// SetUser JSON-encodes and stores a user identity under UserKey.
func (s *Memory) SetUser(u User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	s.Set(UserKey, string(raw))
	return nil
}
