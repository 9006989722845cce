package server

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leapstack-labs/leapdocs/internal/artifact"
	"github.com/leapstack-labs/leapdocs/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestIsArtifactFile(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{name: "/target/manifest.json", expected: true},
		{name: "/target/catalog.json", expected: true},
		{name: "/target/run_results.json", expected: true},
		{name: "/target/graph.gpickle", expected: false},
		{name: "/target/manifest.json.tmp", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isArtifactFile(tt.name))
		})
	}
}

func TestReload_NoSource(t *testing.T) {
	s := New(Config{})
	assert.Error(t, s.Reload(context.Background()))
}

func TestReload_FailureKeepsProject(t *testing.T) {
	dir := testutil.WriteTarget(t, true)
	s := New(Config{Source: artifact.DirSource{Dir: dir}})
	require.NoError(t, s.Reload(context.Background()))
	before := s.store.Current()

	require.NoError(t, os.WriteFile(filepath.Join(dir, artifact.ManifestFile), []byte("{"), 0600))
	require.Error(t, s.Reload(context.Background()))
	assert.Same(t, before, s.store.Current())
}

func TestWatchArtifacts_RecompilesOnChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := testutil.WriteTarget(t, false)
	s := New(Config{
		Source:   artifact.DirSource{Dir: dir},
		Watch:    true,
		Debounce: 10 * time.Millisecond,
		Logger:   testutil.NewTestLogger(t),
	})
	require.NoError(t, s.Reload(context.Background()))
	first := s.store.Current()
	assert.Equal(t, 0, first.Stats().WithSQL)

	events := s.Notifier().Subscribe()
	defer s.Notifier().Unsubscribe(events)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.watchArtifacts(ctx) }()

	// the watcher may not be registered yet, so keep writing until it reacts
	runResults := filepath.Join(dir, artifact.RunResultsFile)
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

wait:
	for {
		select {
		case ev := <-events:
			if ev.ProjectID != first.ID {
				break wait
			}
		case <-tick.C:
			require.NoError(t, os.WriteFile(runResults, []byte(testutil.RunResultsJSON), 0600))
		case <-deadline:
			cancel()
			t.Fatal("watcher did not recompile")
		}
	}

	assert.NotSame(t, first, s.store.Current())
	assert.Equal(t, 2, s.store.Current().Stats().WithSQL)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchArtifacts_RemoteSource(t *testing.T) {
	s := New(Config{Source: artifact.NewSource("https://docs.example.com/target", artifact.HTTPOptions{})})
	assert.NoError(t, s.watchArtifacts(context.Background()))
}

// slowSource delays manifest reads and records how many loads overlap.
type slowSource struct {
	artifact.DirSource
	active  atomic.Int32
	maxSeen atomic.Int32
}

func (s *slowSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if name == artifact.ManifestFile {
		n := s.active.Add(1)
		for {
			prev := s.maxSeen.Load()
			if n <= prev || s.maxSeen.CompareAndSwap(prev, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		s.active.Add(-1)
	}
	return s.DirSource.Open(ctx, name)
}

func TestReload_Serialised(t *testing.T) {
	src := &slowSource{DirSource: artifact.DirSource{Dir: testutil.WriteTarget(t, false)}}
	s := New(Config{Source: src, Logger: testutil.NewTestLogger(t)})

	var wg sync.WaitGroup
	for range 6 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Reload(context.Background()))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), src.maxSeen.Load(), "loads must not overlap")
	assert.NotNil(t, s.store.Current())
}
