package config

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/thomas-vilte/commitintent/internal/logger"
)

// Provider hands out read-only configuration snapshots. Each pipeline run
// takes one snapshot and never sees later edits.
type Provider interface {
	Snapshot() Config
}

// StaticProvider always returns the same configuration.
type StaticProvider struct {
	cfg Config
}

func NewStaticProvider(cfg Config) *StaticProvider {
	return &StaticProvider{cfg: cfg}
}

func (p *StaticProvider) Snapshot() Config {
	return p.cfg
}

// FileProvider re-reads the configuration file whenever its modification time
// changes, so `config set` from another terminal reaches a running watch session.
// A file that fails to load or validate keeps the last good snapshot.
type FileProvider struct {
	ctx     context.Context
	mu      sync.Mutex
	path    string
	current Config
	modTime time.Time
}

// NewFileProvider logs reloads through the logger carried by ctx.
func NewFileProvider(ctx context.Context, initial *Config) *FileProvider {
	p := &FileProvider{
		ctx:     ctx,
		path:    initial.PathFile,
		current: *initial,
	}
	if info, err := os.Stat(p.path); err == nil {
		p.modTime = info.ModTime()
	}
	return p
}

func (p *FileProvider) Snapshot() Config {
	p.mu.Lock()
	defer p.mu.Unlock()

	info, err := os.Stat(p.path)
	if err != nil || !info.ModTime().After(p.modTime) {
		return p.current
	}

	cfg, err := LoadConfig(p.path)
	if err != nil {
		logger.Warn(p.ctx, "keeping previous configuration", "path", p.path, "error", err)
		p.modTime = info.ModTime()
		return p.current
	}

	logger.Info(p.ctx, "configuration reloaded", "path", p.path)
	p.current = *cfg
	p.modTime = info.ModTime()
	return p.current
}
