// Package store persists the tokens an authentication flow completes into,
// keyed by application. It ships an in-memory implementation for tests and
// short-lived processes and a JSON-file implementation so CLI callers
// survive restarts. Flow state itself is never persisted.
package store

import (
	"sync"

	"golang.org/x/oauth2"
)

// Store is a pluggable persistence layer for completed-flow tokens.
type Store interface {
	AddToken(application string, token *oauth2.Token) error
	LookupToken(application string) (*oauth2.Token, bool)
}

// MemoryStoreOption customises a memory store.
type MemoryStoreOption func(*memoryStore)

// WithToken seeds the store with a token.
func WithToken(application string, token *oauth2.Token) MemoryStoreOption {
	return func(m *memoryStore) {
		m.tokens[application] = token
	}
}

type memoryStore struct {
	mu     sync.RWMutex
	tokens map[string]*oauth2.Token
}

// NewMemoryStore creates an in-memory Store.
func NewMemoryStore(options ...MemoryStoreOption) Store {
	ret := &memoryStore{tokens: map[string]*oauth2.Token{}}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

func (m *memoryStore) AddToken(application string, token *oauth2.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[application] = token
	return nil
}

func (m *memoryStore) LookupToken(application string) (*oauth2.Token, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if token, ok := m.tokens[application]; ok {
		return token, true
	}
	return nil, false
}
