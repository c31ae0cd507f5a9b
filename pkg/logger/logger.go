package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// LogMode selects how log lines are rendered.
type LogMode string

const (
	LogModeDebug  LogMode = "debug"
	LogModePretty LogMode = "pretty"
	LogModeInfo   LogMode = "info"
	LogModeProd   LogMode = "prod"
	LogModeTest   LogMode = "test"
)

var (
	log = zerolog.Nop()

	// settings of the last Init, replayed by SetNoColor
	current struct {
		mode        LogMode
		out         io.Writer
		noColor     bool
		initialized bool
	}
)

// ParseMode maps a flag value to a LogMode, falling back to pretty.
func ParseMode(s string) LogMode {
	switch LogMode(s) {
	case LogModeDebug, LogModePretty, LogModeInfo, LogModeProd, LogModeTest:
		return LogMode(s)
	default:
		return LogModePretty
	}
}

// Init configures the package logger writing to stderr.
func Init(mode LogMode) {
	InitWithWriter(mode, os.Stderr)
}

// InitWithWriter configures the package logger writing to out.
// Prompts go to stdout, so callers normally pass stderr here.
func InitWithWriter(mode LogMode, out io.Writer) {
	current.mode = mode
	current.out = out
	current.initialized = true
	apply()
}

// SetNoColor switches ANSI colors in console log output off or on and
// rebuilds the logger. It does nothing before Init.
func SetNoColor(noColor bool) {
	current.noColor = noColor
	if current.initialized {
		apply()
	}
}

func apply() {
	zerolog.TimeFieldFormat = time.RFC3339
	out := current.out

	switch current.mode {
	case LogModeTest:
		zerolog.SetGlobalLevel(zerolog.Disabled)
		log = zerolog.New(io.Discard)
		return
	case LogModeProd:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log = zerolog.New(out).With().Timestamp().Logger()
	case LogModeDebug:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log = zerolog.New(consoleWriter(out, current.noColor)).With().Timestamp().Caller().Logger()
	case LogModeInfo:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log = zerolog.New(consoleWriter(out, current.noColor)).With().Timestamp().Logger()
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
		log = zerolog.New(consoleWriter(out, current.noColor)).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &log
}

func consoleWriter(out io.Writer, noColor bool) zerolog.ConsoleWriter {
	paint := colorize
	if noColor {
		paint = func(s, _ string) string { return s }
	}

	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i interface{}) string {
			s, _ := i.(string)
			return paint(levelLabel(s), levelColor(s))
		},
		FormatMessage: func(i interface{}) string {
			s, _ := i.(string)
			return paint(s, cyan)
		},
		FormatFieldName: func(i interface{}) string {
			return paint(fmt.Sprint(i)+":", gray)
		},
		FormatFieldValue: func(i interface{}) string {
			switch v := i.(type) {
			case string:
				return paint(v, blue)
			case json.Number:
				return paint(v.String(), blue)
			default:
				return paint(fmt.Sprint(v), blue)
			}
		},
	}
}

// ANSI color codes
const (
	gray  = "\x1b[37m"
	blue  = "\x1b[34m"
	cyan  = "\x1b[36m"
	red   = "\x1b[31m"
	reset = "\x1b[0m"
)

func colorize(s, color string) string {
	return color + s + reset
}

func levelLabel(level string) string {
	switch level {
	case "debug":
		return "DBG"
	case "info":
		return "INF"
	case "warn":
		return "WRN"
	case "error":
		return "ERR"
	default:
		return level
	}
}

func levelColor(level string) string {
	switch level {
	case "debug":
		return gray
	case "warn":
		return cyan
	case "error":
		return red
	default:
		return blue
	}
}

// WithComponent returns a child logger tagged with the component name.
func WithComponent(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
