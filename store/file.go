package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

// FileStore persists tokens to a JSON file. It is a lightweight way for CLI
// or single-host callers to survive process restarts.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	tokens map[string]*oauth2.Token
}

// NewFileStore creates a Store that persists tokens at the given path.
func NewFileStore(path string) *FileStore {
	ret := &FileStore{
		path:   path,
		tokens: map[string]*oauth2.Token{},
	}
	_ = ret.load()
	return ret
}

func (f *FileStore) AddToken(application string, token *oauth2.Token) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[application] = token
	return f.save()
}

func (f *FileStore) LookupToken(application string) (*oauth2.Token, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if token, ok := f.tokens[application]; ok {
		return token, true
	}
	return nil, false
}

type fileSnapshot struct {
	Tokens map[string]*oauth2.Token `json:"tokens"`
}

func (f *FileStore) save() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(fileSnapshot{Tokens: f.tokens}, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *FileStore) load() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var snap fileSnapshot
	if err = json.Unmarshal(data, &snap); err != nil {
		return err
	}
	if snap.Tokens != nil {
		f.tokens = snap.Tokens
	}
	return nil
}
