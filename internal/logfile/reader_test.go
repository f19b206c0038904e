package logfile

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "access_log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readAll(t *testing.T, r *Reader) []string {
	t.Helper()
	var lines []string
	for {
		line, err := r.Next()
		if err == io.EOF {
			return lines
		}
		require.NoError(t, err)
		lines = append(lines, line)
	}
}

func TestNext_ReturnsLinesWithNewline(t *testing.T) {
	r := New(writeFile(t, "first\nsecond\n"))
	defer r.Close()

	assert.Equal(t, []string{"first\n", "second\n"}, readAll(t, r))
}

func TestNext_UnterminatedLastLine(t *testing.T) {
	r := New(writeFile(t, "first\nsecond"))
	defer r.Close()

	assert.Equal(t, []string{"first\n", "second"}, readAll(t, r))
}

func TestNext_EmptyFile(t *testing.T) {
	r := New(writeFile(t, ""))
	defer r.Close()

	_, err := r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestNext_EOFIsSticky(t *testing.T) {
	r := New(writeFile(t, "only\n"))
	defer r.Close()

	readAll(t, r)
	for i := 0; i < 3; i++ {
		_, err := r.Next()
		assert.Equal(t, io.EOF, err)
	}
}

func TestNext_OpensLazily(t *testing.T) {
	r := New(writeFile(t, "line\n"))
	defer r.Close()

	assert.Nil(t, r.file)
	line, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "line\n", line)
	assert.NotNil(t, r.file)
}

func TestOpen_Idempotent(t *testing.T) {
	r := New(writeFile(t, "a\nb\n"))
	defer r.Close()

	require.NoError(t, r.Open())
	first := r.file
	line, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "a\n", line)

	// A second Open must not reset the position.
	require.NoError(t, r.Open())
	assert.Same(t, first, r.file)
	line, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "b\n", line)
}

func TestOpen_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.log")
	r := New(path)

	err := r.Open()
	require.Error(t, err)
	assert.True(t, IsOpenError(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), path)

	_, err = r.Next()
	assert.True(t, IsOpenError(err))
}

func TestClose_NeverOpened(t *testing.T) {
	r := New("unused")
	assert.NoError(t, r.Close())
}

func TestClose_MultipleCalls(t *testing.T) {
	r := New(writeFile(t, "line\n"))
	require.NoError(t, r.Open())

	assert.NoError(t, r.Close())
	assert.NoError(t, r.Close())

	_, err := r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestPath(t *testing.T) {
	assert.Equal(t, "/var/log/httpd/access_log", New("/var/log/httpd/access_log").Path())
}

func TestIsOpenError_Other(t *testing.T) {
	assert.False(t, IsOpenError(io.EOF))
	assert.False(t, IsOpenError(nil))
}
