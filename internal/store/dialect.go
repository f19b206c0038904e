package store

import (
	_ "embed"
	"fmt"
	"net"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

//go:embed schema_mysql.sql
var mysqlSchema string

// Driver names a supported database/sql driver.
type Driver string

const (
	DriverSQLite Driver = "sqlite3"
	DriverMySQL  Driver = "mysql"
)

// Drivers lists the supported drivers.
var Drivers = []Driver{DriverMySQL, DriverSQLite}

const defaultMySQLPort = "3306"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// ValidTableName reports whether name can be used as a table identifier.
func ValidTableName(name string) bool {
	return identifierPattern.MatchString(name)
}

// column is one stored field. text columns are compared byte-for-byte.
type column struct {
	name string
	text bool
}

const idColumn = "IPEventNumber"

// keyColumns are the uniqueness key, in bind order.
var keyColumns = []column{
	{"IPaddress", true},
	{"DateTime", true},
	{"MethodURI", true},
	{"Status", false},
	{"PageSize", false},
	{"Referer", true},
	{"Agent", true},
	{"ThisHost", true},
}

const insertionTimeColumn = "InsertionTime"

type dialect struct {
	driver Driver
	schema string
	quote  func(string) string
	// equals renders "col = ?" with exact comparison semantics.
	equals func(c column) string
}

func dialectFor(d Driver) (dialect, error) {
	switch d {
	case DriverSQLite:
		quote := func(s string) string { return `"` + s + `"` }
		return dialect{
			driver: d,
			schema: sqliteSchema,
			quote:  quote,
			equals: func(c column) string { return quote(c.name) + " = ?" },
		}, nil
	case DriverMySQL:
		quote := func(s string) string { return "`" + s + "`" }
		return dialect{
			driver: d,
			schema: mysqlSchema,
			quote:  quote,
			equals: func(c column) string {
				if c.text {
					// Default collations are case- and pad-insensitive.
					return quote(c.name) + " = BINARY ?"
				}
				return quote(c.name) + " = ?"
			},
		}, nil
	default:
		return dialect{}, fmt.Errorf("unsupported driver %q: must be one of %v", d, Drivers)
	}
}

func (d dialect) createTableSQL(table string) string {
	return strings.ReplaceAll(d.schema, "{{table}}", d.quote(table))
}

func (d dialect) probeSQL(table string) string {
	conds := make([]string, len(keyColumns))
	for i, c := range keyColumns {
		conds[i] = d.equals(c)
	}
	return fmt.Sprintf("SELECT 1 FROM %s WHERE %s LIMIT 1",
		d.quote(table), strings.Join(conds, " AND "))
}

func (d dialect) insertSQL(table string) string {
	cols := make([]string, 0, len(keyColumns)+2)
	cols = append(cols, d.quote(idColumn))
	for _, c := range keyColumns {
		cols = append(cols, d.quote(c.name))
	}
	cols = append(cols, d.quote(insertionTimeColumn))

	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.quote(table), strings.Join(cols, ", "), marks)
}

func (d dialect) countSQL(table string) string {
	return "SELECT COUNT(*) FROM " + d.quote(table)
}

// dsn builds the driver-specific data source name.
func (c Config) dsn() string {
	if c.Driver == DriverSQLite {
		return c.Database
	}

	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.DBName = c.Database
	if strings.HasPrefix(c.Host, "/") {
		mc.Net = "unix"
		mc.Addr = c.Host
	} else {
		mc.Net = "tcp"
		mc.Addr = withDefaultPort(c.Host, defaultMySQLPort)
	}
	return mc.FormatDSN()
}

func withDefaultPort(host, port string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, port)
}
