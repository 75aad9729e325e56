package watch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

func TestWatch_debouncesBurstsIntoOneRegeneration(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	schema := filepath.Join(dir, "schema.graphql")
	require.NoError(t, os.WriteFile(schema, []byte("type Query { ok: Boolean }\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var regenerations atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []string{schema}, func() error {
			regenerations.Add(1)

			return nil
		}, log.New(io.Discard))
	}()

	// give the watcher a moment to register, then save twice in a burst
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(schema, []byte("type Query { ok: Boolean! }\n"), 0o644))
	require.NoError(t, os.WriteFile(schema, []byte("type Query { ok: Boolean }\n"), 0o644))

	require.Eventually(t, func() bool {
		return regenerations.Load() == 1
	}, 2*time.Second, 50*time.Millisecond)

	// still one after the debounce window has long passed
	time.Sleep(2 * debounce)
	require.EqualValues(t, 1, regenerations.Load())

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
