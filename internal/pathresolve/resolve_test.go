package pathresolve

import (
	"path/filepath"
	"testing"

	apperrors "github.com/conneroisu/aletheia/internal/errors"
	"github.com/conneroisu/aletheia/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDirectory(t *testing.T) {
	root := testutils.CreateTempRepo(t)

	resolved, err := Resolve(root)
	require.NoError(t, err)
	assert.Equal(t, root, resolved.Path)
	assert.Equal(t, root, resolved.Raw)
}

func TestResolveRelativePath(t *testing.T) {
	root := testutils.CreateTempRepo(t)
	testutils.CreateDir(t, root, "repo")
	testutils.Chdir(t, root)

	resolved, err := Resolve("repo")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "repo"), resolved.Path)
}

func TestResolveEmptyUsesWorkingDirectory(t *testing.T) {
	root := testutils.CreateTempRepo(t)
	testutils.Chdir(t, root)

	resolved, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, root, resolved.Path)
}

func TestResolveFollowsSymlinkedRoot(t *testing.T) {
	base := testutils.CreateTempRepo(t)
	realDir := testutils.CreateDir(t, base, "real")
	link := testutils.CreateSymlink(t, base, "alias", "real")

	resolved, err := Resolve(link)
	require.NoError(t, err)
	assert.Equal(t, realDir, resolved.Path)
	assert.Equal(t, link, resolved.Raw)
}

func TestResolveErrors(t *testing.T) {
	root := testutils.CreateTempRepo(t)
	file := testutils.CreateFile(t, root, "file.txt")

	t.Run("not found", func(t *testing.T) {
		_, err := Resolve(filepath.Join(root, "nonexistent", "path"))
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrPathNotFound)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("not a directory", func(t *testing.T) {
		_, err := Resolve(file)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrPathNotDirectory)
		assert.True(t, apperrors.IsPathError(err))
	})
}

func TestWithin(t *testing.T) {
	sep := string(filepath.Separator)
	root := sep + filepath.Join("repo", "root")

	testCases := []struct {
		path     string
		expected bool
	}{
		{root, true},
		{filepath.Join(root, "src"), true},
		{filepath.Join(root, "..", "root", "x"), true},
		{filepath.Join(root, "..dotdot"), true},
		{sep + filepath.Join("repo", "rootsibling"), false},
		{sep + "repo", false},
		{sep + filepath.Join("etc", "passwd"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.expected, Within(filepath.Clean(tc.path), root))
		})
	}
}

func TestRootJoinAndContains(t *testing.T) {
	r := Root{Path: filepath.FromSlash("/repo")}
	assert.Equal(t, filepath.FromSlash("/repo/.well-known/ai.txt"), r.Join(".well-known", "ai.txt"))
	assert.True(t, r.Contains(filepath.FromSlash("/repo/src")))
	assert.False(t, r.Contains(filepath.FromSlash("/other")))
}
