package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCompliantRepo(t *testing.T) {
	root := CreateCompliantRepo(t)

	for _, dir := range BronzeDirs {
		assert.DirExists(t, filepath.Join(root, dir))
	}
	for _, file := range BronzeFiles {
		assert.FileExists(t, filepath.Join(root, file))
	}
}

func TestCreateTempRepoIsCanonical(t *testing.T) {
	root := CreateTempRepo(t)

	resolved, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, root, resolved)
	assert.True(t, filepath.IsAbs(root))
}

func TestCreateSymlink(t *testing.T) {
	root := CreateTempRepo(t)
	CreateFile(t, root, "target.txt")

	link := CreateSymlink(t, root, "nested/link.txt", "../target.txt")

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)
	assert.FileExists(t, link)
}
