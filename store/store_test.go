package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(WithToken("seeded", &oauth2.Token{AccessToken: "t0"}))

	token, ok := s.LookupToken("seeded")
	require.True(t, ok)
	assert.Equal(t, "t0", token.AccessToken)

	_, ok = s.LookupToken("other")
	assert.False(t, ok)

	require.NoError(t, s.AddToken("other", &oauth2.Token{AccessToken: "t1"}))
	token, ok = s.LookupToken("other")
	require.True(t, ok)
	assert.Equal(t, "t1", token.AccessToken)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")

	first := NewFileStore(path)
	require.NoError(t, first.AddToken("app-1", &oauth2.Token{
		AccessToken: "t1",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour).Round(time.Second),
	}))

	second := NewFileStore(path)
	token, ok := second.LookupToken("app-1")
	require.True(t, ok)
	assert.Equal(t, "t1", token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
}

func TestFileStoreMissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))
	_, ok := s.LookupToken("app-1")
	assert.False(t, ok)
}
