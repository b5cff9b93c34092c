package services

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/commitintent/internal/config"
	"github.com/thomas-vilte/commitintent/internal/models"
)

func listenerConfig(enabled bool, delayMs int) config.Provider {
	cfg := *config.Default()
	cfg.Enabled = enabled
	cfg.DebounceDelayMs = delayMs
	return config.NewStaticProvider(cfg)
}

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	return path
}

func TestSaveListener(t *testing.T) {
	t.Run("should run once for the last path of a burst", func(t *testing.T) {
		// Arrange
		dir := t.TempDir()
		a, b, c := writeFile(t, dir, "a.go"), writeFile(t, dir, "b.go"), writeFile(t, dir, "c.go")
		source := NewFakeSource()
		runner := new(MockRunner)
		done := make(chan struct{}, 4)
		runner.On("Run", mock.Anything, c).Return(nil).Run(func(mock.Arguments) { done <- struct{}{} }).Once()
		listener := NewSaveListener(context.Background(), source, runner, listenerConfig(true, 50))
		defer listener.Close()

		// Act
		for _, p := range []string{a, b, c} {
			source.Emit(models.SaveEvent{Path: p, Timestamp: time.Now()})
		}

		// Assert
		assert.Equal(t, c, listener.PendingPath())
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("pipeline never ran")
		}
		time.Sleep(100 * time.Millisecond)
		runner.AssertNumberOfCalls(t, "Run", 1)
		assert.Empty(t, listener.PendingPath())
	})

	ignored := []struct {
		name string
		path func(t *testing.T, dir string) string
		cfg  config.Provider
	}{
		{
			name: "disabled",
			path: func(t *testing.T, dir string) string { return writeFile(t, dir, "a.go") },
			cfg:  listenerConfig(false, 1),
		},
		{
			name: "blank path",
			path: func(t *testing.T, dir string) string { return "  " },
			cfg:  listenerConfig(true, 1),
		},
		{
			name: "missing file",
			path: func(t *testing.T, dir string) string { return filepath.Join(dir, "gone.go") },
			cfg:  listenerConfig(true, 1),
		},
		{
			name: "binary file",
			path: func(t *testing.T, dir string) string { return writeFile(t, dir, "logo.png") },
			cfg:  listenerConfig(true, 1),
		},
		{
			name: "ignored directory",
			path: func(t *testing.T, dir string) string { return writeFile(t, dir, "node_modules/x/index.js") },
			cfg:  listenerConfig(true, 1),
		},
	}
	for _, tt := range ignored {
		t.Run("should ignore "+tt.name, func(t *testing.T) {
			source := NewFakeSource()
			runner := new(MockRunner)
			listener := NewSaveListener(context.Background(), source, runner, tt.cfg)
			defer listener.Close()

			source.Emit(models.SaveEvent{Path: tt.path(t, t.TempDir())})
			time.Sleep(30 * time.Millisecond)

			assert.Empty(t, listener.PendingPath())
			runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
		})
	}

	t.Run("should not start a second run while one is in flight", func(t *testing.T) {
		// Arrange
		dir := t.TempDir()
		a, b := writeFile(t, dir, "a.go"), writeFile(t, dir, "b.go")
		source := NewFakeSource()
		runner := new(MockRunner)
		release := make(chan struct{})
		var mu sync.Mutex
		var started []string
		active, maxActive := 0, 0
		runner.On("Run", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
			mu.Lock()
			started = append(started, args.String(1))
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()
			<-release
			mu.Lock()
			active--
			mu.Unlock()
		})
		listener := NewSaveListener(context.Background(), source, runner, listenerConfig(true, 10))
		startedCount := func() int { mu.Lock(); defer mu.Unlock(); return len(started) }

		// Act
		source.Emit(models.SaveEvent{Path: a})
		require.Eventually(t, func() bool { return startedCount() == 1 }, 2*time.Second, 5*time.Millisecond)
		source.Emit(models.SaveEvent{Path: b})
		time.Sleep(80 * time.Millisecond)

		// Assert
		assert.Equal(t, 1, startedCount())
		assert.Equal(t, b, listener.PendingPath())

		close(release)
		require.Eventually(t, func() bool { return startedCount() == 2 }, 2*time.Second, 5*time.Millisecond)
		listener.Close()

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []string{a, b}, started)
		assert.Equal(t, 1, maxActive)
	})

	t.Run("should run the path bound when its timer fired", func(t *testing.T) {
		// Arrange
		dir := t.TempDir()
		a, b := writeFile(t, dir, "a.go"), writeFile(t, dir, "b.go")
		source := NewFakeSource()
		runner := new(MockRunner)
		var mu sync.Mutex
		var calls []string
		runner.On("Run", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
			mu.Lock()
			calls = append(calls, args.String(1))
			mu.Unlock()
		})
		listener := NewSaveListener(context.Background(), source, runner, listenerConfig(true, 20))
		defer listener.Close()

		// Act: the timer for a fires while a save of b is being recorded
		source.Emit(models.SaveEvent{Path: a})
		listener.mu.Lock()
		require.Eventually(t, func() bool { return !listener.debouncer.Pending() }, 2*time.Second, time.Millisecond)
		time.Sleep(20 * time.Millisecond)
		listener.pending = b
		listener.debouncer.Schedule(20*time.Millisecond, func() { listener.fire(b) })
		listener.mu.Unlock()

		// Assert
		require.Eventually(t, func() bool { mu.Lock(); defer mu.Unlock(); return len(calls) == 2 }, 2*time.Second, 5*time.Millisecond)
		time.Sleep(100 * time.Millisecond)
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []string{a, b}, calls)
	})

	t.Run("should cancel the pending run and unsubscribe on close", func(t *testing.T) {
		dir := t.TempDir()
		a := writeFile(t, dir, "a.go")
		source := NewFakeSource()
		runner := new(MockRunner)
		listener := NewSaveListener(context.Background(), source, runner, listenerConfig(true, 30))
		require.Equal(t, 1, source.Subscribers())

		source.Emit(models.SaveEvent{Path: a})
		listener.Close()
		time.Sleep(80 * time.Millisecond)
		source.Emit(models.SaveEvent{Path: a})

		assert.Equal(t, 0, source.Subscribers())
		runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
	})

	t.Run("should wait for in-flight runs on close", func(t *testing.T) {
		dir := t.TempDir()
		a := writeFile(t, dir, "a.go")
		source := NewFakeSource()
		runner := new(MockRunner)
		started := make(chan struct{})
		var finished bool
		runner.On("Run", mock.Anything, a).Return(nil).Run(func(mock.Arguments) {
			close(started)
			time.Sleep(50 * time.Millisecond)
			finished = true
		})
		listener := NewSaveListener(context.Background(), source, runner, listenerConfig(true, 1))

		source.Emit(models.SaveEvent{Path: a})
		<-started
		listener.Close()

		assert.True(t, finished)
	})
}
