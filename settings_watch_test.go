package lumen

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchSettings_Reloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.toml")
	require.NoError(t, os.WriteFile(path, []byte("deferred = false\n"), 0o644))

	c := NewControls(DefaultSettings(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- WatchSettings(ctx, path, c, nil) }()

	// The watcher may not be registered yet, so keep writing until a reload lands.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("deferred = true\n[ssao]\nenabled = true\n"), 0o644)
		s, _ := c.Snapshot()
		return s.Deferred && s.SSAO.Enabled
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchSettings_KeepsSettingsOnBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hdr:\n  enabled: true\n"), 0o644))
	initial, err := LoadSettings(path)
	require.NoError(t, err)

	c := NewControls(initial, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = WatchSettings(ctx, path, c, nil) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("hdr: [unclosed\n"), 0o644))
	time.Sleep(200 * time.Millisecond)

	s, _ := c.Snapshot()
	assert.Equal(t, initial, s)
}
