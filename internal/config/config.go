// Package config loads ingest settings.
//
// Settings are layered, later layers winning:
//
//  1. Default()
//  2. a YAML file
//  3. a .env file and IPL2SQL_* environment variables
//  4. command-line flags (applied by the caller)
//
// Validate checks the result against an embedded CUE schema.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ipl2sql/internal/ingest"
	"github.com/roach88/ipl2sql/internal/store"
)

// Config is the full set of ingest settings.
type Config struct {
	File       string `yaml:"file" json:"file"`
	Driver     string `yaml:"driver" json:"driver"`
	Host       string `yaml:"host" json:"host"`
	User       string `yaml:"user" json:"user"`
	Password   string `yaml:"password" json:"password"`
	Database   string `yaml:"database" json:"database"`
	Table      string `yaml:"table" json:"table"`
	OriginHost string `yaml:"origin_host" json:"origin_host"`

	Insert        bool  `yaml:"insert" json:"insert"`
	MaxLines      int64 `yaml:"max_lines" json:"max_lines"`
	MaxDuplicates int64 `yaml:"max_duplicates" json:"max_duplicates"`
	NewestFirst   bool  `yaml:"newest_first" json:"newest_first"`
	ParseBreak    bool  `yaml:"parse_break" json:"parse_break"`
	InsertBreak   bool  `yaml:"insert_break" json:"insert_break"`

	Verbosity       string `yaml:"vmode" json:"vmode"`
	ItemsOfInterest bool   `yaml:"ioi" json:"ioi"`
}

// Default returns a dry-run sqlite configuration with no limits.
func Default() Config {
	return Config{
		Driver:        string(store.DriverSQLite),
		MaxLines:      ingest.Unbounded,
		MaxDuplicates: ingest.Unbounded,
		Verbosity:     "gen",
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// empty), the .env file at envFile (skipped when empty or missing) and the
// process environment.
func Load(path, envFile string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := ApplyEnv(&cfg, envFile); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile decodes the YAML file at path over cfg. Unknown keys are errors.
func LoadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// StoreConfig returns the store connection parameters.
func (c Config) StoreConfig() store.Config {
	return store.Config{
		Driver:   store.Driver(c.Driver),
		Host:     c.Host,
		User:     c.User,
		Password: c.Password,
		Database: c.Database,
		Table:    c.Table,
	}
}

// IngestOptions returns the runner options. Clock, run id and event hooks
// are left for the caller.
func (c Config) IngestOptions() (ingest.Options, error) {
	v, err := ingest.ParseVerbosity(c.Verbosity)
	if err != nil {
		return ingest.Options{}, err
	}
	return ingest.Options{
		OriginHost:          c.OriginHost,
		Insert:              c.Insert,
		MaxLines:            c.MaxLines,
		MaxDuplicates:       c.MaxDuplicates,
		NewestFirst:         c.NewestFirst,
		StopOnParseFailure:  c.ParseBreak,
		StopOnInsertFailure: c.InsertBreak,
		ItemsOfInterest:     c.ItemsOfInterest && v > ingest.VerbositySilent,
	}, nil
}

// LogValue renders the settings for logging with the password hidden.
func (c Config) LogValue() slog.Value {
	password := "(none)"
	if c.Password != "" {
		password = "(hidden)"
	}
	return slog.GroupValue(
		slog.String("file", c.File),
		slog.String("driver", c.Driver),
		slog.String("host", c.Host),
		slog.String("user", c.User),
		slog.String("password", password),
		slog.String("database", c.Database),
		slog.String("table", c.Table),
		slog.String("origin_host", c.OriginHost),
		slog.Bool("insert", c.Insert),
		slog.Int64("max_lines", c.MaxLines),
		slog.Int64("max_duplicates", c.MaxDuplicates),
		slog.Bool("newest_first", c.NewestFirst),
		slog.Bool("parse_break", c.ParseBreak),
		slog.Bool("insert_break", c.InsertBreak),
		slog.String("vmode", c.Verbosity),
		slog.Bool("ioi", c.ItemsOfInterest),
	)
}
