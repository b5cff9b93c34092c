package services

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/thomas-vilte/commitintent/internal/config"
	"github.com/thomas-vilte/commitintent/internal/debounce"
	"github.com/thomas-vilte/commitintent/internal/filter"
	"github.com/thomas-vilte/commitintent/internal/logger"
	"github.com/thomas-vilte/commitintent/internal/models"
	"github.com/thomas-vilte/commitintent/internal/ports"
)

// Runner executes the pipeline for one path.
type Runner interface {
	Run(ctx context.Context, path string) error
}

// SaveListener coalesces save events and launches one pipeline run for the
// most recently saved eligible file once the debounce delay has passed. At most
// one run is in flight; a timer that fires during a run queues its path, and
// the queued path is debounced again once the run returns.
type SaveListener struct {
	ctx         context.Context
	runner      Runner
	config      config.Provider
	debouncer   *debounce.Debouncer
	unsubscribe func()

	mu      sync.Mutex
	pending string
	queued  string
	running bool
	closed  bool
	runs    sync.WaitGroup
}

// NewSaveListener subscribes to source. ctx is the parent of every pipeline run.
func NewSaveListener(ctx context.Context, source ports.SaveEventSource, runner Runner, cfg config.Provider) *SaveListener {
	l := &SaveListener{
		ctx:       ctx,
		runner:    runner,
		config:    cfg,
		debouncer: debounce.New(),
	}
	l.unsubscribe = source.Subscribe(l.OnAfterSave)
	return l
}

func (l *SaveListener) OnAfterSave(evt models.SaveEvent) {
	cfg := l.config.Snapshot()
	if !cfg.Enabled {
		return
	}
	if strings.TrimSpace(evt.Path) == "" {
		return
	}
	if _, err := os.Stat(evt.Path); err != nil {
		return
	}
	if !filter.ShouldProcess(evt.Path) {
		logger.Debug(l.ctx, "file skipped by filter", "path", evt.Path)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	path := evt.Path
	l.pending = path

	logger.Debug(l.ctx, "save event scheduled", "path", path, "delay_ms", cfg.DebounceDelayMs)
	l.debouncer.Schedule(cfg.DebounceDelay(), func() { l.fire(path) })
}

// PendingPath returns the path waiting for the debounce timer, if any.
func (l *SaveListener) PendingPath() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.queued != "" {
		return l.queued
	}
	if !l.debouncer.Pending() {
		return ""
	}
	return l.pending
}

func (l *SaveListener) fire(path string) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	if l.running {
		l.queued = path
		l.mu.Unlock()
		logger.Debug(l.ctx, "run in flight, queueing save", "path", path)
		return
	}
	l.running = true
	l.runs.Add(1)
	l.mu.Unlock()

	go l.execute(path)
}

func (l *SaveListener) execute(path string) {
	defer l.runs.Done()
	defer l.finish()
	defer func() {
		if r := recover(); r != nil {
			logger.Warn(l.ctx, "pipeline run panicked", "path", path, "error", r)
		}
	}()
	if err := l.runner.Run(l.ctx, path); err != nil {
		logger.Debug(l.ctx, "pipeline run ended with error", "path", path, "error", err)
	}
}

// finish clears the in-flight flag and re-arms the debouncer for a path that
// fired during the run. A timer armed by a newer save supersedes the queue.
func (l *SaveListener) finish() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.running = false
	next := l.queued
	l.queued = ""
	if l.closed || next == "" || l.debouncer.Pending() {
		return
	}

	l.pending = next
	l.debouncer.Schedule(l.config.Snapshot().DebounceDelay(), func() { l.fire(next) })
}

// Close cancels the pending timer, unsubscribes from the source and waits for
// in-flight runs to finish.
func (l *SaveListener) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()

	l.debouncer.Cancel()
	if l.unsubscribe != nil {
		l.unsubscribe()
	}
	l.runs.Wait()
}
