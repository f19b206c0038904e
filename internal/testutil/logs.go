package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Sample access-log lines. The first three are valid; the rest each fail a
// different parser check.
const (
	LineRobots = `66.249.67.3 - - [15/Jul/2014:05:44:40 -0700] "GET /robots.txt HTTP/1.1" 200 60 "-" "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"`
	LineIndex  = `192.168.0.10 - - [15/Jul/2014:05:45:01 -0700] "GET /index.html HTTP/1.1" 200 5120 "http://example.com/" "Mozilla/5.0 (X11; Linux x86_64)"`
	LineHead   = `10.0.0.7 - - [15/Jul/2014:05:46:12 -0700] "HEAD / HTTP/1.0" 304 - "-" "curl/7.35.0"`

	LineBadIP     = `999.1.1.1 - - [15/Jul/2014:05:44:40 -0700] "GET / HTTP/1.1" 200 60 "-" "x"`
	LineBadMethod = `66.249.67.3 - - [15/Jul/2014:05:44:40 -0700] "\x16\x03\x01" 400 226 "-" "-"`
	LineBadStatus = `66.249.67.3 - - [15/Jul/2014:05:44:40 -0700] "GET / HTTP/1.1" abc 60 "-" "x"`
)

// ValidLines returns the valid sample lines in file order.
func ValidLines() []string {
	return []string{LineRobots, LineIndex, LineHead}
}

// WriteLogFile writes lines, each newline-terminated, to a file in a temp dir
// and returns its path.
func WriteLogFile(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "access.log")
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write log file: %v", err)
	}
	return path
}
