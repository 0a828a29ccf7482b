package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStorePut(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, "http://localhost:3333/")
	require.NoError(t, err)

	url, err := s.Put(context.Background(), "abc123.png", strings.NewReader("png-bytes"), 9, "image/png")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:3333/uploads/abc123.png", url)

	b, err := os.ReadFile(filepath.Join(dir, "abc123.png"))
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(b))
}

func TestLocalStorePutStripsPathComponents(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, "http://localhost:3333")
	require.NoError(t, err)

	url, err := s.Put(context.Background(), "../escape.png", strings.NewReader("x"), 1, "image/png")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:3333/uploads/escape.png", url)

	_, err = os.Stat(filepath.Join(dir, "escape.png"))
	require.NoError(t, err)
}
