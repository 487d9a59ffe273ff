package pkgbuild

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestEmptyDir(t *testing.T) {
	t.Run("removes contents and keeps directory", func(t *testing.T) {
		dir := t.TempDir()
		writeTestFile(t, filepath.Join(dir, "a.js"), "a")
		writeTestFile(t, filepath.Join(dir, "nested", "b.js"), "b")

		require.NoError(t, EmptyDir(dir))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "dist", "deep")

		require.NoError(t, EmptyDir(dir))

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}

func TestCopyDir(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	writeTestFile(t, filepath.Join(src, "mk.js"), "sdk")
	writeTestFile(t, filepath.Join(src, "lib", "react.js"), "react")
	require.NoError(t, os.Chmod(filepath.Join(src, "mk.js"), 0o600))
	require.NoError(t, os.Symlink("react.js", filepath.Join(src, "lib", "link.js")))
	writeTestFile(t, filepath.Join(dst, "keep.txt"), "existing")
	writeTestFile(t, filepath.Join(dst, "mk.js"), "old")

	require.NoError(t, CopyDir(src, dst))

	data, err := os.ReadFile(filepath.Join(dst, "mk.js"))
	require.NoError(t, err)
	assert.Equal(t, "sdk", string(data), "existing files are overwritten")

	data, err = os.ReadFile(filepath.Join(dst, "lib", "react.js"))
	require.NoError(t, err)
	assert.Equal(t, "react", string(data))

	_, err = os.Stat(filepath.Join(dst, "keep.txt"))
	assert.NoError(t, err, "destination contents are merged, not replaced")

	target, err := os.Readlink(filepath.Join(dst, "lib", "link.js"))
	require.NoError(t, err)
	assert.Equal(t, "react.js", target)
}

// TestCopyDir_SymlinkedSource verifies a source directory reached through
// a link is copied into dstDir and never replaces it.
func TestCopyDir_SymlinkedSource(t *testing.T) {
	base := t.TempDir()
	sdk := filepath.Join(base, "sdk-1.2.0")
	writeTestFile(t, filepath.Join(sdk, "mk.min.js"), "sdk")
	link := filepath.Join(base, "release")
	require.NoError(t, os.Symlink(sdk, link))

	dst := t.TempDir()
	writeTestFile(t, filepath.Join(dst, "app.bundle.js"), "bundle")

	require.NoError(t, CopyDir(link, dst))

	info, err := os.Lstat(dst)
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "destination stays a directory")

	data, err := os.ReadFile(filepath.Join(dst, "app.bundle.js"))
	require.NoError(t, err)
	assert.Equal(t, "bundle", string(data), "existing output survives")

	data, err = os.ReadFile(filepath.Join(dst, "mk.min.js"))
	require.NoError(t, err)
	assert.Equal(t, "sdk", string(data))
}

func TestCopyDir_SourceErrors(t *testing.T) {
	t.Run("missing source", func(t *testing.T) {
		err := CopyDir(filepath.Join(t.TempDir(), "nope"), t.TempDir())
		assert.Error(t, err)
	})

	t.Run("source is a file", func(t *testing.T) {
		f := filepath.Join(t.TempDir(), "file")
		writeTestFile(t, f, "x")
		err := CopyDir(f, t.TempDir())
		assert.ErrorContains(t, err, "not a directory")
	})
}

func TestWriteFile_CreatesParents(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist", "index.html")

	require.NoError(t, WriteFile(out, []byte("<html></html>")))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))
}
