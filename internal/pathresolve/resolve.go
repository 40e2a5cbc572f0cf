// Package pathresolve validates the verification target and canonicalizes it.
// The canonical root is the containment boundary for the symlink scanner.
package pathresolve

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	apperrors "github.com/conneroisu/aletheia/internal/errors"
)

// Root is a validated, canonical repository directory.
type Root struct {
	// Raw is the path as the user supplied it.
	Raw string
	// Path is absolute with every symlink resolved.
	Path string
}

// Join returns a path below the root.
func (r Root) Join(elem ...string) string {
	return filepath.Join(append([]string{r.Path}, elem...)...)
}

// Contains reports whether path lies at or below the root. path must
// already be canonical.
func (r Root) Contains(path string) bool {
	return Within(path, r.Path)
}

// Within reports whether path is root itself or a descendant of it. Both
// arguments must be cleaned absolute paths.
func Within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !startsWithParent(rel) && !filepath.IsAbs(rel)
}

func startsWithParent(rel string) bool {
	return len(rel) >= 3 && rel[:2] == ".." && os.IsPathSeparator(rel[2])
}

// Resolve validates raw and returns its canonical form. An empty raw path
// means the current working directory.
func Resolve(raw string) (Root, error) {
	if raw == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Root{}, apperrors.NewPathNotFoundError(".", err)
		}
		raw = wd
	}

	info, err := os.Stat(raw)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Root{}, apperrors.NewPathNotFoundError(raw, nil)
		}
		return Root{}, apperrors.NewPathNotFoundError(raw, err)
	}
	if !info.IsDir() {
		return Root{}, apperrors.NewPathNotDirectoryError(raw)
	}

	abs, err := filepath.Abs(raw)
	if err != nil {
		return Root{}, apperrors.NewPathNotFoundError(raw, err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return Root{}, apperrors.NewPathNotFoundError(raw, err)
	}

	return Root{Raw: raw, Path: filepath.Clean(canonical)}, nil
}
