// Package security scans a repository tree for symbolic links whose
// targets escape the repository root.
//
// The walk uses an explicit stack and never follows symlinked directories.
// Each link's hop chain is resolved by hand with a visited set and a hop
// bound, so cyclic links terminate with a warning instead of hanging.
// Only link metadata is read; file contents are never opened.
package security

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"syscall"

	apperrors "github.com/conneroisu/aletheia/internal/errors"
	"github.com/conneroisu/aletheia/internal/logging"
	"github.com/conneroisu/aletheia/internal/pathresolve"
	"github.com/conneroisu/aletheia/internal/report"
)

// Options bounds the scan.
type Options struct {
	// MaxDepth is the deepest directory level descended into; the root is
	// depth 0.
	MaxDepth int
	// MaxLinkHops bounds how many links a single chain may traverse.
	MaxLinkHops int
	// Exclude lists directory names that are not descended into.
	Exclude []string
}

// DefaultOptions returns the standard scan bounds.
func DefaultOptions() Options {
	return Options{
		MaxDepth:    64,
		MaxLinkHops: 40,
		Exclude:     []string{".git"},
	}
}

// Scanner walks a tree looking for escaping symlinks.
type Scanner struct {
	opts    Options
	exclude map[string]struct{}
	logger  logging.Logger
}

// NewScanner creates a scanner. Zero bounds fall back to the defaults.
func NewScanner(opts Options, logger logging.Logger) *Scanner {
	defaults := DefaultOptions()
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaults.MaxDepth
	}
	if opts.MaxLinkHops <= 0 {
		opts.MaxLinkHops = defaults.MaxLinkHops
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	exclude := make(map[string]struct{}, len(opts.Exclude))
	for _, name := range opts.Exclude {
		exclude[name] = struct{}{}
	}

	return &Scanner{
		opts:    opts,
		exclude: exclude,
		logger:  logger.WithComponent("security"),
	}
}

type frame struct {
	path  string
	depth int
}

// Scan walks root and returns one warning per symlink found, plus warnings
// for directories that could not be read. The result is sorted by path.
func (s *Scanner) Scan(ctx context.Context, root pathresolve.Root) []report.SecurityWarning {
	var warnings []report.SecurityWarning
	visited := make(map[string]struct{})
	stack := []frame{{path: root.Path, depth: 0}}
	links := 0

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		key, err := filepath.EvalSymlinks(f.path)
		if err != nil {
			key = f.path
		}
		if _, seen := visited[key]; seen {
			continue
		}
		visited[key] = struct{}{}

		entries, err := os.ReadDir(f.path)
		if err != nil {
			s.logger.Debug(ctx, "directory unreadable, skipping", "path", f.path, "error", err.Error())
			warnings = append(warnings, report.SecurityWarning{
				Severity: report.SeverityWarning,
				Message:  fmt.Sprintf("Directory '%s' could not be read; its contents were not scanned", rel(root, f.path)),
				Path:     f.path,
			})
			continue
		}

		for _, entry := range entries {
			path := filepath.Join(f.path, entry.Name())
			switch {
			case entry.Type()&fs.ModeSymlink != 0:
				links++
				warnings = append(warnings, s.inspectLink(ctx, root, path))
			case entry.IsDir():
				if _, skip := s.exclude[entry.Name()]; skip {
					continue
				}
				if f.depth+1 > s.opts.MaxDepth {
					warnings = append(warnings, report.SecurityWarning{
						Severity: report.SeverityWarning,
						Message: fmt.Sprintf("Directory '%s' exceeds the scan depth limit of %d; its contents were not scanned",
							rel(root, path), s.opts.MaxDepth),
						Path: path,
					})
					continue
				}
				stack = append(stack, frame{path: path, depth: f.depth + 1})
			}
		}
	}

	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Path == warnings[j].Path {
			return warnings[i].Severity > warnings[j].Severity
		}
		return warnings[i].Path < warnings[j].Path
	})

	s.logger.Debug(ctx, "symlink scan finished",
		"root", root.Path,
		"directories", len(visited),
		"symlinks", links,
		"warnings", len(warnings))

	return warnings
}

// inspectLink classifies a single symlink.
func (s *Scanner) inspectLink(ctx context.Context, root pathresolve.Root, link string) report.SecurityWarning {
	name := rel(root, link)
	seen := make(map[string]struct{})
	current := link
	var final string

	for hop := 0; final == ""; hop++ {
		if hop >= s.opts.MaxLinkHops {
			return s.unresolved(ctx, link, fmt.Sprintf("Symlink '%s' exceeds %d hops and was not resolved", name, s.opts.MaxLinkHops), nil)
		}
		if _, ok := seen[current]; ok {
			return s.unresolved(ctx, link, fmt.Sprintf("Symlink '%s' is part of a cycle", name), nil)
		}
		seen[current] = struct{}{}

		target, err := os.Readlink(current)
		if err != nil {
			return s.unresolved(ctx, link, fmt.Sprintf("Symlink '%s' could not be read", name), err)
		}
		next := target
		if !filepath.IsAbs(next) {
			next = filepath.Join(filepath.Dir(current), next)
		}
		next = filepath.Clean(next)

		info, err := os.Lstat(next)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
				return s.dangling(ctx, root, link, name, next)
			}
			return s.unresolved(ctx, link, fmt.Sprintf("Symlink '%s' target could not be inspected", name), err)
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			current = next
			continue
		}
		final = next
	}

	canonical, err := filepath.EvalSymlinks(final)
	if err != nil {
		return s.unresolved(ctx, link, fmt.Sprintf("Symlink '%s' target could not be canonicalized", name), err)
	}

	if !root.Contains(canonical) {
		s.logger.Debug(ctx, "symlink escapes repository root",
			"link", link,
			"target", canonical)
		return report.SecurityWarning{
			Severity: report.SeverityCritical,
			Message:  fmt.Sprintf("Symlink '%s' points outside repository to '%s'", name, canonical),
			Path:     link,
			Target:   canonical,
		}
	}

	return report.SecurityWarning{
		Severity: report.SeverityInfo,
		Message:  fmt.Sprintf("'%s' is a symlink (within repository bounds)", name),
		Path:     link,
		Target:   canonical,
	}
}

// dangling handles a link whose target does not exist. Containment is
// judged on the best canonical form available for the missing path.
func (s *Scanner) dangling(ctx context.Context, root pathresolve.Root, link, name, target string) report.SecurityWarning {
	guess := target
	if dir, err := filepath.EvalSymlinks(filepath.Dir(target)); err == nil {
		guess = filepath.Join(dir, filepath.Base(target))
	}

	if !root.Contains(guess) {
		s.logger.Debug(ctx, "dangling symlink points outside repository root",
			"link", link,
			"target", guess)
		return report.SecurityWarning{
			Severity: report.SeverityCritical,
			Message:  fmt.Sprintf("Symlink '%s' points outside repository to '%s' (target missing)", name, guess),
			Path:     link,
			Target:   guess,
		}
	}

	return report.SecurityWarning{
		Severity: report.SeverityWarning,
		Message:  fmt.Sprintf("Symlink '%s' is dangling; target '%s' does not exist", name, guess),
		Path:     link,
		Target:   guess,
	}
}

func (s *Scanner) unresolved(ctx context.Context, link, message string, cause error) report.SecurityWarning {
	err := apperrors.NewSymlinkResolutionError(link, message, cause).WithComponent("security")
	s.logger.Debug(ctx, "symlink could not be resolved", "link", link, "error", err.Error())
	return report.SecurityWarning{
		Severity: report.SeverityWarning,
		Message:  message,
		Path:     link,
	}
}

// rel renders path relative to the root with forward slashes.
func rel(root pathresolve.Root, path string) string {
	r, err := filepath.Rel(root.Path, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(r)
}
