package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// BronzeFiles lists every regular file a fully compliant repository needs,
// relative to its root.
var BronzeFiles = []string{
	"README.md",
	"LICENSE.txt",
	"SECURITY.md",
	"CONTRIBUTING.md",
	"CODE_OF_CONDUCT.md",
	"MAINTAINERS.md",
	"CHANGELOG.md",
	".well-known/security.txt",
	".well-known/ai.txt",
	".well-known/humans.txt",
	"justfile",
	"flake.nix",
	".gitlab-ci.yml",
}

// BronzeDirs lists the directories a fully compliant repository needs.
var BronzeDirs = []string{
	".well-known",
	"src",
	"tests",
}

// CreateTempRepo creates an empty repository root and returns its
// canonical path.
func CreateTempRepo(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

// CreateCompliantRepo creates a repository containing every Bronze artifact.
func CreateCompliantRepo(t *testing.T) string {
	t.Helper()
	root := CreateTempRepo(t)
	for _, d := range BronzeDirs {
		CreateDir(t, root, d)
	}
	for _, f := range BronzeFiles {
		CreateFile(t, root, f)
	}
	return root
}

// CreateFile writes a small placeholder file, creating parent directories.
func CreateFile(t *testing.T, root, rel string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("placeholder\n"), 0o644))
	return path
}

// CreateDir creates a directory (and parents) under root.
func CreateDir(t *testing.T, root, rel string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(path, 0o755))
	return path
}

// CreateSymlink creates a link at root/rel pointing at target verbatim.
// Tests that need symlinks are skipped where the platform refuses them.
func CreateSymlink(t *testing.T, root, rel, target string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	if err := os.Symlink(target, path); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	return path
}

// Chdir switches the working directory for the duration of the test.
func Chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(old)
	})
}
