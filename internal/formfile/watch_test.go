package formfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_FiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "form.yaml")
	other := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(watched, []byte("fields: []\n"), 0o600))

	w, err := NewWatcher(watched)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() { changed <- struct{}{} })
	}()
	defer func() {
		cancel()
		require.NoError(t, <-done)
		require.NoError(t, w.Close())
	}()

	// Unwatched siblings in the same directory are ignored.
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o600))
	select {
	case <-changed:
		t.Fatal("change reported for unwatched file")
	case <-time.After(4 * debounceInterval):
	}

	require.NoError(t, os.WriteFile(watched, []byte("fields: [{id: a}]\n"), 0o600))
	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported after write")
	}
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "absent", "form.yaml"))
	require.Error(t, err)
}
