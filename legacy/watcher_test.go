package legacy

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWatchNotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "LaunchHK.ini")
	require.NoError(t, os.WriteFile(path, []byte("[A]\nFunc=Run\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := Watch(ctx, path, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("[A]\nFunc=Run\nParms=x\n"), 0644))

	select {
	case _, ok := <-changes:
		require.True(t, ok)
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification")
	}
}

func TestWatchStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "LaunchHK.ini")
	require.NoError(t, os.WriteFile(path, []byte("[A]\nFunc=Run\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	changes, err := Watch(ctx, path, zap.NewNop())
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-changes:
		require.False(t, ok, "channel should close, not deliver")
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not shut down")
	}
}

func TestWatchIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "LaunchHK.ini")
	require.NoError(t, os.WriteFile(path, []byte("[A]\nFunc=Run\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := Watch(ctx, path, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))

	select {
	case <-changes:
		t.Fatal("sibling write should not notify")
	case <-time.After(300 * time.Millisecond):
	}
}
