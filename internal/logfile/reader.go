// Package logfile reads an access log one raw line at a time.
package logfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// OpenError reports that the log file could not be opened. It is fatal to an
// ingest run.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open log file %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// IsOpenError reports whether err (or anything it wraps) is an OpenError.
func IsOpenError(err error) bool {
	var oe *OpenError
	return errors.As(err, &oe)
}

// Reader yields the lines of a single file in order. It is forward-only:
// once reading has begun there is no rewind.
type Reader struct {
	path string
	file *os.File
	buf  *bufio.Reader
	done bool
}

// New returns a Reader for path. The file is not opened until Open or the
// first Next.
func New(path string) *Reader {
	return &Reader{path: path}
}

// Path returns the file path the reader was created with.
func (r *Reader) Path() string {
	return r.path
}

// Open opens the underlying file. Calls after the first successful Open are
// no-ops.
func (r *Reader) Open() error {
	if r.file != nil {
		return nil
	}
	f, err := os.Open(r.path)
	if err != nil {
		return &OpenError{Path: r.path, Err: err}
	}
	r.file = f
	r.buf = bufio.NewReader(f)
	return nil
}

// Next returns the next line including its trailing newline, or io.EOF once
// the file is exhausted. A last line without a newline is still returned.
func (r *Reader) Next() (string, error) {
	if r.done {
		return "", io.EOF
	}
	if err := r.Open(); err != nil {
		return "", err
	}

	line, err := r.buf.ReadString('\n')
	if err == io.EOF {
		r.done = true
		if line == "" {
			return "", io.EOF
		}
		return line, nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", r.path, err)
	}
	return line, nil
}

// Close releases the file. It is safe to call more than once and on a
// reader that was never opened.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	r.buf = nil
	r.done = true
	return err
}
