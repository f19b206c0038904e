package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "IPL2SQL_"

// ApplyEnv overlays IPL2SQL_* variables on cfg. Variables from envFile are
// used when the process environment does not set them; the process
// environment itself is never modified. A missing envFile is not an error.
func ApplyEnv(cfg *Config, envFile string) error {
	dotenv := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return fmt.Errorf("reading env file %s: %w", envFile, err)
		default:
			dotenv = m
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			return v, true
		}
		v, ok := dotenv[EnvPrefix+key]
		return v, ok
	}
	coalesce := func(key string, value any) any {
		if v, ok := lookup(key); ok {
			return v
		}
		return value
	}

	var errs []error
	asString := func(key string, dst *string) {
		*dst = cast.ToString(coalesce(key, *dst))
	}
	asBool := func(key string, dst *bool) {
		v, err := cast.ToBoolE(coalesce(key, *dst))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
			return
		}
		*dst = v
	}
	asInt := func(key string, dst *int64) {
		v, err := cast.ToInt64E(coalesce(key, *dst))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
			return
		}
		*dst = v
	}

	asString("FILE", &cfg.File)
	asString("DRIVER", &cfg.Driver)
	asString("DB_HOST", &cfg.Host)
	asString("DB_USER", &cfg.User)
	asString("DB_PASSWORD", &cfg.Password)
	asString("DB_NAME", &cfg.Database)
	asString("TABLE", &cfg.Table)
	asString("ORIGIN_HOST", &cfg.OriginHost)
	asBool("INSERT", &cfg.Insert)
	asInt("MAX_LINES", &cfg.MaxLines)
	asInt("MAX_DUPLICATES", &cfg.MaxDuplicates)
	asBool("NEWEST_FIRST", &cfg.NewestFirst)
	asBool("PARSE_BREAK", &cfg.ParseBreak)
	asBool("INSERT_BREAK", &cfg.InsertBreak)
	asString("VMODE", &cfg.Verbosity)
	asBool("IOI", &cfg.ItemsOfInterest)

	return errors.Join(errs...)
}
