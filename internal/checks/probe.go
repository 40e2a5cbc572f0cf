package checks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	apperrors "github.com/conneroisu/aletheia/internal/errors"
	"github.com/conneroisu/aletheia/internal/logging"
	"github.com/conneroisu/aletheia/internal/pathresolve"
)

type artifactKind int

const (
	kindFile artifactKind = iota
	kindDir
)

func (k artifactKind) String() string {
	if k == kindDir {
		return "directory"
	}
	return "regular file"
}

// artifact is one required item. Any of names satisfies it; names are
// slash-separated and relative to the repository root.
type artifact struct {
	item  string
	kind  artifactKind
	names []string
}

// outcome is the result of probing a single artifact.
type outcome struct {
	passed bool
	detail string
}

// Probe answers existence questions about a resolved root using file
// metadata only. It never opens files.
type Probe struct {
	ctx    context.Context
	root   pathresolve.Root
	logger logging.Logger
}

// NewProbe creates a probe for root. A nil logger discards output.
func NewProbe(ctx context.Context, root pathresolve.Root, logger logging.Logger) *Probe {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Probe{ctx: ctx, root: root, logger: logger.WithComponent("checks")}
}

// check evaluates an artifact, trying each accepted name in order.
func (p *Probe) check(a artifact) outcome {
	var problems []string
	for _, name := range a.names {
		present, note, err := p.stat(name, a.kind)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", name, errors.Unwrap(err)))
			continue
		}
		if present {
			if len(a.names) > 1 {
				return outcome{passed: true, detail: "matched " + name}
			}
			return outcome{passed: true}
		}
		if note != "" {
			problems = append(problems, note)
		}
	}

	if len(problems) == 0 {
		return outcome{}
	}
	return outcome{detail: strings.Join(problems, "; ")}
}

// stat reports whether name exists with the wanted kind. Absence is not an
// error; any other metadata failure is returned so the caller can degrade
// the check instead of aborting.
func (p *Probe) stat(name string, kind artifactKind) (bool, string, error) {
	path := p.root.Join(filepath.FromSlash(name))
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return false, "", nil
		}
		readErr := apperrors.NewMetadataReadError(path, err).WithComponent("checks")
		p.logger.Debug(p.ctx, "artifact metadata unreadable, marking check failed", "path", path, "error", readErr.Error())
		return false, "", readErr
	}

	switch kind {
	case kindDir:
		if info.IsDir() {
			return true, "", nil
		}
	default:
		if info.Mode().IsRegular() {
			return true, "", nil
		}
	}
	return false, fmt.Sprintf("%s exists but is not a %s", name, kind), nil
}
