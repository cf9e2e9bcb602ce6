package filesystem

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/couchcryptid/xmrg-etl/internal/domain"
)

// Scanner hands out XMRG files from a directory one at a time, oldest name
// first. It implements pipeline.Extractor.
//
// Committed files are moved to doneDir when set. Without a doneDir they stay
// in place and are remembered for the life of the process.
type Scanner struct {
	dir     string
	pattern string
	doneDir string
	logger  *slog.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewScanner creates a Scanner over dir/pattern.
func NewScanner(dir, pattern, doneDir string, logger *slog.Logger) (*Scanner, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("input pattern %q: %w", pattern, err)
	}
	if doneDir != "" {
		if err := os.MkdirAll(doneDir, 0o755); err != nil {
			return nil, fmt.Errorf("create done dir: %w", err)
		}
	}
	return &Scanner{
		dir:     dir,
		pattern: pattern,
		doneDir: doneDir,
		logger:  logger,
		seen:    make(map[string]struct{}),
	}, nil
}

// Extract returns the next unprocessed file, or nil when the directory has
// nothing new.
func (s *Scanner) Extract(ctx context.Context) (*domain.SourceFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matches, err := filepath.Glob(filepath.Join(s.dir, s.pattern))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.dir, err)
	}
	sort.Strings(matches)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, path := range matches {
		if _, ok := s.seen[path]; ok {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			// Raced with a rename or delete; pick it up next scan if it returns.
			s.logger.Debug("stat failed, skipping", "path", path, "error", err)
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		return &domain.SourceFile{
			Path:    path,
			Name:    info.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Commit:  s.commitFunc(path),
		}, nil
	}
	return nil, nil
}

func (s *Scanner) commitFunc(path string) func(ctx context.Context) error {
	return func(_ context.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.doneDir != "" {
			dest := filepath.Join(s.doneDir, filepath.Base(path))
			if err := os.Rename(path, dest); err != nil {
				// Remember it anyway so a read-only input dir does not loop.
				s.seen[path] = struct{}{}
				return fmt.Errorf("move %s to done dir: %w", path, err)
			}
			return nil
		}
		s.seen[path] = struct{}{}
		return nil
	}
}
