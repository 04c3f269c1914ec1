// Package tokenwatch keeps a resolution context in sync with token and
// dimension files on disk.
//
// A Provider holds an immutable *shape.Context snapshot. Reloads build a new
// context and swap the pointer; callers holding the old snapshot keep
// resolving against it. A reload that fails leaves the current snapshot in
// place.
//
// **Usage:**
//
//	p, err := tokenwatch.New(tokenwatch.Options{TokensPath: "tokens.json"})
//	if err != nil {
//	    return err
//	}
//	if err := p.Start(); err != nil {
//	    return err
//	}
//	defer p.Stop()
//
//	c, gen := p.Snapshot()
//	token, err := c.Resolve(req)
package tokenwatch

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/shapespec/pkg/semantic"
	"github.com/gnana997/shapespec/pkg/shape"
	"github.com/gnana997/shapespec/pkg/util"
)

// DefaultDebounce groups the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Options configures a Provider.
type Options struct {
	// TokensPath is the token export to watch. Required.
	TokensPath string

	// DimensionsPath is an optional YAML dimension table, also watched.
	DimensionsPath string

	// Semantic is the map to resolve with. Nil uses semantic.Standard().
	Semantic *semantic.Map

	// Debounce delays a reload after the last event. 0 uses DefaultDebounce.
	Debounce time.Duration

	// OnReload, if set, runs after every reload attempt triggered by a file
	// event, with the generation in effect afterwards.
	OnReload func(generation uint64, err error)

	Logger *slog.Logger
}

// Provider serves the latest successfully loaded context.
type Provider struct {
	opts    Options
	logger  *slog.Logger
	watched map[string]bool

	snap     atomic.Pointer[snapshot]
	reloadMu sync.Mutex

	watcher *fsnotify.Watcher
	timer   *time.Timer
	timerMu sync.Mutex

	stopChan chan struct{}
	done     chan struct{}
	started  bool
	stopped  bool
	mu       sync.Mutex
}

// New loads the files once and returns a Provider at generation 1.
// It does not watch until Start is called.
func New(opts Options) (*Provider, error) {
	if opts.TokensPath == "" {
		return nil, errors.New("tokenwatch: tokens path is required")
	}
	if opts.Semantic == nil {
		opts.Semantic = semantic.Standard()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = util.NopLogger()
	}

	p := &Provider{
		opts:     opts,
		logger:   logger,
		watched:  make(map[string]bool),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, path := range []string{opts.TokensPath, opts.DimensionsPath} {
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("tokenwatch: %w", err)
		}
		p.watched[abs] = true
	}

	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// snapshot pairs a context with the generation that loaded it. It is
// published as one pointer so readers never see a context from one load
// with the generation of another.
type snapshot struct {
	ctx *shape.Context
	gen uint64
}

// Snapshot returns the latest context together with its generation.
// The context is never nil after New succeeds.
func (p *Provider) Snapshot() (*shape.Context, uint64) {
	s := p.snap.Load()
	if s == nil {
		return nil, 0
	}
	return s.ctx, s.gen
}

// Generation counts successful loads, starting at 1.
func (p *Provider) Generation() uint64 {
	_, gen := p.Snapshot()
	return gen
}

// Reload rebuilds the context from disk. On failure the previous snapshot
// stays current and the error is returned.
func (p *Provider) Reload() error {
	p.reloadMu.Lock()
	defer p.reloadMu.Unlock()

	ctx, err := shape.LoadContext(p.opts.TokensPath, p.opts.DimensionsPath, p.opts.Semantic)
	if err != nil {
		p.logger.Error("token reload failed, keeping previous tables",
			"tokens", p.opts.TokensPath,
			"generation", p.Generation(),
			"error", err)
		return err
	}

	gen := p.Generation() + 1
	p.snap.Store(&snapshot{ctx: ctx, gen: gen})
	p.logger.Info("token tables loaded",
		"tokens", ctx.Tokens().Source(),
		"count", ctx.Tokens().Len(),
		"generation", gen)
	return nil
}

// Start watches the directories holding the watched files. Directories are
// watched rather than the files so that editors which save by rename are
// picked up.
func (p *Provider) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return errors.New("tokenwatch: provider already stopped")
	}
	if p.started {
		return errors.New("tokenwatch: provider already started")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	dirs := make(map[string]bool)
	for path := range p.watched {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	p.watcher = watcher
	p.started = true
	go p.eventLoop()

	p.logger.Info("token watcher started", "files", len(p.watched))
	return nil
}

// Stop stops watching. Safe to call multiple times, and before Start.
func (p *Provider) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return nil
	}
	p.stopped = true
	close(p.stopChan)

	p.timerMu.Lock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.timerMu.Unlock()

	if !p.started {
		return nil
	}
	err := p.watcher.Close()
	<-p.done
	p.logger.Info("token watcher stopped")
	return err
}

func (p *Provider) eventLoop() {
	defer close(p.done)
	for {
		select {
		case <-p.stopChan:
			return

		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			p.handleEvent(event)

		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("token watcher error", "error", err)
		}
	}
}

func (p *Provider) handleEvent(event fsnotify.Event) {
	abs, err := filepath.Abs(event.Name)
	if err != nil || !p.watched[abs] {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	p.logger.Debug("token file event", "op", event.Op.String(), "file", abs)
	p.scheduleReload()
}

// scheduleReload restarts the debounce timer; only the last event in a
// burst triggers a reload.
func (p *Provider) scheduleReload() {
	p.timerMu.Lock()
	defer p.timerMu.Unlock()

	select {
	case <-p.stopChan:
		return
	default:
	}

	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.opts.Debounce, func() {
		err := p.Reload()
		if p.opts.OnReload != nil {
			p.opts.OnReload(p.Generation(), err)
		}
	})
}
