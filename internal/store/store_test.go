package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_DoesNotConnect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(sqliteConfig(path), nil)
	require.NoError(t, err)
	defer s.Close()

	assert.False(t, s.connected)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "database file must not exist before first use")
}

func TestOpen_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"unknown driver", Config{Driver: "oracle", Database: "x", Table: "t"}, "unsupported driver"},
		{"empty table", Config{Driver: DriverSQLite, Database: "x"}, "invalid table name"},
		{"injection in table", Config{Driver: DriverSQLite, Database: "x", Table: "t; DROP TABLE t"}, "invalid table name"},
		{"quoted table", Config{Driver: DriverMySQL, Database: "x", Table: "`t`"}, "invalid table name"},
		{"missing database", Config{Driver: DriverSQLite, Table: "t"}, "database is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.cfg, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidTableName(t *testing.T) {
	for _, name := range []string{"access_log", "IPlog2014", "_t", "a"} {
		assert.True(t, ValidTableName(name), name)
	}
	for _, name := range []string{"", "1log", "access-log", "a.b", "a b", `t"`} {
		assert.False(t, ValidTableName(name), name)
	}
}

func TestEnsureSchema_CreatesTable(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.EnsureSchema(ctx))

	var name string
	err := s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?", "access_log",
	).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "access_log", name)
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		s, err := Open(sqliteConfig(path), nil)
		require.NoError(t, err)
		require.NoError(t, s.EnsureSchema(ctx), "iteration %d", i)
		require.NoError(t, s.Close())
	}
}

func TestEnsureSchema_ExistingCompatibleTable(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// A table created elsewhere without AUTOINCREMENT still works.
	_, err := s.db.Exec(`CREATE TABLE access_log (
		IPEventNumber INTEGER PRIMARY KEY, IPaddress TEXT, DateTime TEXT, MethodURI TEXT,
		Status INTEGER, PageSize INTEGER, Referer TEXT, Agent TEXT, ThisHost TEXT, InsertionTime TEXT)`)
	require.NoError(t, err)

	rec := createTestRecord("10.0.0.1", "curl")
	require.NoError(t, s.Append(ctx, &rec))
	assert.Equal(t, int64(1), rec.ID)
}

func TestEnsureSchema_CreateFailureIsLoggedNotFatal(t *testing.T) {
	var logs bytes.Buffer
	s, err := Open(sqliteConfig(filepath.Join(t.TempDir(), "test.db")), bufferLogger(&logs))
	require.NoError(t, err)
	defer s.Close()

	// An index with the table's name makes CREATE TABLE fail.
	_, err = s.db.Exec(`CREATE TABLE other (x TEXT)`)
	require.NoError(t, err)
	_, err = s.db.Exec(`CREATE INDEX access_log ON other(x)`)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.EnsureSchema(ctx))
	assert.Contains(t, logs.String(), "create table failed")

	// With no table, per-record operations fail without being connect errors.
	_, err = s.Probe(ctx, createTestRecord("10.0.0.1", "curl"))
	require.Error(t, err)
	assert.True(t, IsProbeError(err))
	assert.False(t, IsConnectError(err))
	assert.Contains(t, err.Error(), "no such table")
}

func TestConnect_FailureIsConnectError(t *testing.T) {
	s, err := Open(sqliteConfig("/nonexistent/dir/test.db"), nil)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Probe(context.Background(), createTestRecord("10.0.0.1", "curl"))
	require.Error(t, err)
	assert.True(t, IsConnectError(err))

	rec := createTestRecord("10.0.0.1", "curl")
	err = s.Append(context.Background(), &rec)
	assert.True(t, IsConnectError(err))
}

func TestConnect_LogsOnce(t *testing.T) {
	var logs bytes.Buffer
	s, err := Open(sqliteConfig(filepath.Join(t.TempDir(), "test.db")), bufferLogger(&logs))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := s.Probe(ctx, createTestRecord("10.0.0.1", "curl"))
		require.NoError(t, err)
	}
	assert.Equal(t, 1, bytes.Count(logs.Bytes(), []byte("connected to store")))
	assert.Equal(t, 1, bytes.Count(logs.Bytes(), []byte("table ready")))
}

func TestClose_NeverConnected(t *testing.T) {
	s, err := Open(sqliteConfig(filepath.Join(t.TempDir(), "test.db")), nil)
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestClose_MultipleCalls(t *testing.T) {
	s := createTestStore(t)
	require.NoError(t, s.EnsureSchema(context.Background()))

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())

	_, err := s.Probe(context.Background(), createTestRecord("10.0.0.1", "curl"))
	assert.True(t, IsConnectError(err))
}

func TestDSN_MySQL(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		wantNet  string
		wantAddr string
	}{
		{"bare host", "db.example.com", "tcp", "db.example.com:3306"},
		{"host with port", "db.example.com:3307", "tcp", "db.example.com:3307"},
		{"ipv6", "::1", "tcp", "[::1]:3306"},
		{"unix socket", "/var/run/mysqld/mysqld.sock", "unix", "/var/run/mysqld/mysqld.sock"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				Driver:   DriverMySQL,
				Host:     tt.host,
				User:     "ipl",
				Password: "p@ss:word/with\"quotes",
				Database: "weblogs",
				Table:    "access_log",
			}

			parsed, err := mysql.ParseDSN(cfg.dsn())
			require.NoError(t, err)
			assert.Equal(t, "ipl", parsed.User)
			assert.Equal(t, cfg.Password, parsed.Passwd)
			assert.Equal(t, tt.wantNet, parsed.Net)
			assert.Equal(t, tt.wantAddr, parsed.Addr)
			assert.Equal(t, "weblogs", parsed.DBName)
		})
	}
}

func TestDSN_SQLite(t *testing.T) {
	cfg := sqliteConfig("/tmp/weblogs.db")
	assert.Equal(t, "/tmp/weblogs.db", cfg.dsn())
}

func TestDialect_SQL(t *testing.T) {
	lite, err := dialectFor(DriverSQLite)
	require.NoError(t, err)
	my, err := dialectFor(DriverMySQL)
	require.NoError(t, err)

	assert.Equal(t,
		`SELECT 1 FROM "access_log" WHERE "IPaddress" = ? AND "DateTime" = ? AND "MethodURI" = ? AND "Status" = ? AND "PageSize" = ? AND "Referer" = ? AND "Agent" = ? AND "ThisHost" = ? LIMIT 1`,
		lite.probeSQL("access_log"))
	assert.Equal(t,
		"SELECT 1 FROM `access_log` WHERE `IPaddress` = BINARY ? AND `DateTime` = BINARY ? AND `MethodURI` = BINARY ? AND `Status` = ? AND `PageSize` = ? AND `Referer` = BINARY ? AND `Agent` = BINARY ? AND `ThisHost` = BINARY ? LIMIT 1",
		my.probeSQL("access_log"))

	assert.Equal(t,
		"INSERT INTO `access_log` (`IPEventNumber`, `IPaddress`, `DateTime`, `MethodURI`, `Status`, `PageSize`, `Referer`, `Agent`, `ThisHost`, `InsertionTime`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		my.insertSQL("access_log"))

	assert.Contains(t, my.createTableSQL("access_log"), "CREATE TABLE IF NOT EXISTS `access_log`")
	assert.Contains(t, my.createTableSQL("access_log"), "AUTO_INCREMENT")
	assert.Contains(t, lite.createTableSQL("access_log"), `CREATE TABLE IF NOT EXISTS "access_log"`)
	assert.NotContains(t, lite.createTableSQL("access_log"), "{{table}}")
}
