package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/packer/internal/adapters/fs"
	"go.trai.ch/packer/internal/adapters/watcher"
	"go.trai.ch/packer/internal/core/domain"
	"go.trai.ch/packer/internal/core/ports"
	"go.trai.ch/packer/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newWatcher(t *testing.T) *watcher.Watcher {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	w, err := watcher.NewWatcher(fs.NewWalker(), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })
	return w
}

// nextEvent waits for an event on path.
func nextEvent(t *testing.T, events <-chan ports.WatchEvent, path string) ports.WatchEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "event stream closed")
			if ev.Path == path {
				return ev
			}
		case <-timeout:
			t.Fatalf("no event for %s", path)
		}
	}
}

func stream(w *watcher.Watcher) <-chan ports.WatchEvent {
	ch := make(chan ports.WatchEvent)
	go func() {
		defer close(ch)
		for ev := range w.Events() {
			ch <- ev
		}
	}()
	return ch
}

func TestWatcher_ReportsChangesInNestedDirectories(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "css", "vendor")
	require.NoError(t, os.MkdirAll(nested, domain.DirPerm))

	w := newWatcher(t)
	require.NoError(t, w.Start(t.Context(), []string{root}))
	events := stream(w)

	path := filepath.Join(nested, "reset.css")
	//nolint:gosec // Test files are not sensitive.
	require.NoError(t, os.WriteFile(path, []byte("a{}"), domain.FilePerm))

	ev := nextEvent(t, events, path)
	assert.Contains(t, []ports.WatchOp{ports.OpCreate, ports.OpWrite}, ev.Operation)
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()

	w := newWatcher(t)
	require.NoError(t, w.Start(t.Context(), []string{root}))
	events := stream(w)

	dir := filepath.Join(root, "js")
	require.NoError(t, os.Mkdir(dir, domain.DirPerm))
	nextEvent(t, events, dir)

	path := filepath.Join(dir, "app.js")
	require.Eventually(t, func() bool {
		//nolint:gosec // Test files are not sensitive.
		return os.WriteFile(path, []byte("x()"), domain.FilePerm) == nil
	}, time.Second, 10*time.Millisecond)

	nextEvent(t, events, path)
}

func TestWatcher_SkipsMissingRoots(t *testing.T) {
	root := t.TempDir()

	w := newWatcher(t)
	require.NoError(t, w.Start(t.Context(), []string{filepath.Join(root, "missing"), root}))
}

func TestWatcher_FailsWithoutRoots(t *testing.T) {
	w := newWatcher(t)
	err := w.Start(t.Context(), []string{filepath.Join(t.TempDir(), "missing")})
	require.ErrorIs(t, err, domain.ErrWatchFailed)
}

func TestWatcher_EventsEndWithContext(t *testing.T) {
	w := newWatcher(t)
	ctx, cancel := context.WithCancel(t.Context())
	require.NoError(t, w.Start(ctx, []string{t.TempDir()}))

	events := stream(w)
	cancel()

	select {
	case _, ok := <-events:
		for ok {
			_, ok = <-events
		}
	case <-time.After(5 * time.Second):
		t.Fatal("event stream did not end")
	}
}
