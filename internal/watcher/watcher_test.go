package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/coursechat/internal/core/domain"
	"github.com/custodia-labs/coursechat/internal/core/ports/driving"
)

// recordingIngest records IngestFile calls made by the watcher.
type recordingIngest struct {
	mu    sync.Mutex
	paths []string
}

var _ driving.IngestService = (*recordingIngest)(nil)

func (r *recordingIngest) IngestFile(_ context.Context, path string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	return true, nil
}

func (r *recordingIngest) IngestDocument(_ context.Context, _ *domain.CourseDocument) (bool, error) {
	return false, nil
}

func (r *recordingIngest) IngestDirectory(_ context.Context, _ string) (int, int, error) {
	return 0, 0, nil
}

func (r *recordingIngest) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func TestWatcher_IngestsNewTxtFile(t *testing.T) {
	dir := t.TempDir()
	ingest := &recordingIngest{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		New(ingest, dir).Run(ctx)
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "course.txt")
	require.NoError(t, os.WriteFile(path, []byte("Course Title: Watched\n"), 0644))

	assert.Eventually(t, func() bool {
		calls := ingest.calls()
		return len(calls) == 1 && calls[0] == path
	}, 3*time.Second, 50*time.Millisecond)

	cancel()
	<-done
}

func TestWatcher_IgnoresNonTxtFiles(t *testing.T) {
	dir := t.TempDir()
	ingest := &recordingIngest{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		New(ingest, dir).Run(ctx)
	}()

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignored"), 0644))

	// Longer than the debounce window; the file must never be ingested.
	time.Sleep(debounceDelay + 300*time.Millisecond)
	assert.Empty(t, ingest.calls())

	cancel()
	<-done
}

func TestWatcher_DebouncesRepeatedWrites(t *testing.T) {
	dir := t.TempDir()
	ingest := &recordingIngest{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		New(ingest, dir).Run(ctx)
	}()

	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "course.txt")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("Course Title: Watched\n"), 0644))
		time.Sleep(50 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return len(ingest.calls()) >= 1
	}, 3*time.Second, 50*time.Millisecond)

	// No further ingestions should trickle in after the burst settles.
	time.Sleep(debounceDelay + 300*time.Millisecond)
	assert.Len(t, ingest.calls(), 1, "a write burst must collapse into one ingestion")

	cancel()
	<-done
}

func TestWatcher_MissingDirectory(t *testing.T) {
	ingest := &recordingIngest{}

	err := New(ingest, filepath.Join(t.TempDir(), "missing")).Run(context.Background())

	assert.Error(t, err)
}
