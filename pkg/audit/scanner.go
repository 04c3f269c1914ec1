package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gnana997/shapespec/pkg/semantic"
	"github.com/gnana997/shapespec/pkg/tokenstore"
	"github.com/gnana997/shapespec/pkg/util"
)

// FileReport is the audit of one export file. Err is set when the file
// could not be read or parsed; Report is then zero.
type FileReport struct {
	Path   string `json:"path"`
	Report Report `json:"report"`
	Err    error  `json:"-"`
}

// OK reports whether the file loaded and passed the audit.
func (f FileReport) OK() bool { return f.Err == nil && f.Report.OK() }

// ScannerConfig configures a Scanner.
type ScannerConfig struct {
	// Workers bounds concurrent file audits. 0 uses util.GetOptimalPoolSize().
	Workers int
	Logger  *slog.Logger
}

// Scanner audits export files against one semantic map.
type Scanner struct {
	semantic *semantic.Map
	files    util.FileCache
	workers  int
	logger   *slog.Logger
}

// NewScanner creates a Scanner reading through files.
func NewScanner(sem *semantic.Map, files util.FileCache, cfg ScannerConfig) *Scanner {
	logger := cfg.Logger
	if logger == nil {
		logger = util.NopLogger()
	}
	return &Scanner{
		semantic: sem,
		files:    files,
		workers:  util.GetOptimalPoolSizeWithOverride(cfg.Workers),
		logger:   logger,
	}
}

// ScanFiles audits every path. The result has one entry per path, in input
// order. Paths not started before ctx is cancelled carry ctx.Err().
func (s *Scanner) ScanFiles(ctx context.Context, paths []string) []FileReport {
	start := time.Now()
	reports := make([]FileReport, len(paths))

	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup
	for i, path := range paths {
		reports[i].Path = path
		if err := ctx.Err(); err != nil {
			reports[i].Err = err
			continue
		}

		select {
		case <-ctx.Done():
			reports[i].Err = ctx.Err()
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()
			reports[i] = s.scanFile(path)
		}(i, path)
	}
	wg.Wait()

	failed := 0
	for _, r := range reports {
		if !r.OK() {
			failed++
		}
	}
	s.logger.Info("audit scan complete",
		"files", len(paths),
		"failed", failed,
		"duration", time.Since(start))
	stats := s.files.Stats()
	s.logger.Debug("audit file cache",
		"files_loaded", stats.FilesLoaded,
		"files_cached", stats.FilesCached,
		"mmap_failures", stats.MmapFailures)

	return reports
}

func (s *Scanner) scanFile(path string) FileReport {
	data, err := s.files.Bytes(path)
	if err != nil {
		s.logger.Warn("failed to read token export", "path", path, "error", err)
		return FileReport{Path: path, Err: err}
	}
	// Each export is read once per scan; release the mapping so large
	// trees stay under the cache's file limit.
	if err := s.files.Invalidate(path); err != nil {
		s.logger.Warn("failed to release token export", "path", path, "error", err)
	}
	store, err := tokenstore.LoadFromBytes(data)
	if err != nil {
		s.logger.Warn("failed to parse token export", "path", path, "error", err)
		return FileReport{Path: path, Err: err}
	}

	report := Run(store, s.semantic)
	report.Source = path
	s.logger.Debug("audited token export", "path", path, "tokens", report.TokenCount, "ok", report.OK())
	return FileReport{Path: path, Report: report}
}
