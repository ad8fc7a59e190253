package configwatcher

import (
	"context"
	"edu_quiz_backend/internal/config"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, level string) string {
	t.Helper()
	content := "server:\n  mode: release\n" +
		"log:\n  level: " + level + "\n" +
		"database:\n  driver: sqlite\n  dbname: quiz\n" +
		"jwt:\n  secret: 0123456789abcdef0123456789abcdef\n" +
		"storage:\n  type: local\n  local_path: " + filepath.Join(dir, "uploads") + "\n"
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "info")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(cfg *config.Config) {
			select {
			case reloaded <- cfg:
			default:
			}
		})
	}()

	// Give the watcher time to register before touching the file.
	time.Sleep(200 * time.Millisecond)
	writeConfig(t, dir, "warn")

	select {
	case cfg := <-reloaded:
		require.Equal(t, "warn", cfg.Log.Level)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	require.NoError(t, <-done)
}
