package ingest

import (
	"fmt"
	"io"
	"log/slog"
)

// Verbosity selects how much a run reports. Higher values report more.
type Verbosity int

const (
	// VerbositySilent reports nothing.
	VerbositySilent Verbosity = iota
	// VerbosityLog reports failures and the summary.
	VerbosityLog
	// VerbosityGeneral adds settings, connection events and per-line rejections.
	VerbosityGeneral
	// VerbosityAll traces every line.
	VerbosityAll
)

var verbosityNames = map[Verbosity]string{
	VerbositySilent:  "silent",
	VerbosityLog:     "log",
	VerbosityGeneral: "gen",
	VerbosityAll:     "all",
}

// ValidVerbosities lists the accepted names, most verbose first.
var ValidVerbosities = []string{"all", "gen", "log", "silent"}

// ParseVerbosity maps a name to a Verbosity. "general" is accepted as an
// alias for "gen".
func ParseVerbosity(name string) (Verbosity, error) {
	switch name {
	case "all":
		return VerbosityAll, nil
	case "gen", "general":
		return VerbosityGeneral, nil
	case "log":
		return VerbosityLog, nil
	case "silent":
		return VerbositySilent, nil
	}
	return VerbosityGeneral, fmt.Errorf("invalid verbosity %q: must be one of %v", name, ValidVerbosities)
}

func (v Verbosity) String() string {
	if name, ok := verbosityNames[v]; ok {
		return name
	}
	return fmt.Sprintf("Verbosity(%d)", int(v))
}

// Level is the minimum slog level shown at this verbosity.
func (v Verbosity) Level() slog.Level {
	switch v {
	case VerbosityAll:
		return slog.LevelDebug
	case VerbosityGeneral:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// Handler returns a text handler writing to w at this verbosity's level, or a
// discarding handler when silent.
func (v Verbosity) Handler(w io.Writer) slog.Handler {
	if v <= VerbositySilent {
		return slog.DiscardHandler
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: v.Level()})
}

// ShowsSummary reports whether a final summary is printed.
func (v Verbosity) ShowsSummary() bool {
	return v > VerbositySilent
}
