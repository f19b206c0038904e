package store

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/ipl2sql/internal/iplog"
)

// createTestStore opens a sqlite-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(sqliteConfig(filepath.Join(t.TempDir(), "test.db")), nil)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sqliteConfig(path string) Config {
	return Config{Driver: DriverSQLite, Database: path, Table: "access_log"}
}

// bufferLogger returns a logger that writes text records into buf.
func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// createTestRecord builds a stored record with minimal variation.
func createTestRecord(ip, agent string) iplog.StoredRecord {
	return iplog.NewStoredRecord(iplog.Record{
		IPAddress:   ip,
		LogDateTime: "15/Jul/2014:05:44:40 -0700",
		MethodURI:   "GET /robots.txt HTTP/1.1",
		Status:      200,
		PageSize:    60,
		Referer:     "-",
		Agent:       agent,
	}, "www.example.com", time.Date(2014, time.September, 11, 22, 0, 0, 0, time.UTC))
}
