package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger with the name of the owning component tree.
type Logger struct {
	logger zerolog.Logger
	name   string
}

// New creates a logger from cfg. An unparsable level falls back to info.
func New(cfg *Config, name string) *Logger {
	return newLogger(cfg, name, outputWriter(cfg.Output))
}

func newLogger(cfg *Config, name string, out io.Writer) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, NoColor: cfg.NoColor, TimeFormat: "15:04:05"}
	}

	zc := zerolog.New(out).Level(level).With()
	if name != "" {
		zc = zc.Str(FieldService, name)
	}
	if cfg.Timestamp {
		zc = zc.Timestamp()
	}
	if cfg.Caller {
		zc = zc.Caller()
	}
	return &Logger{logger: zc.Logger(), name: name}
}

// NewDefault creates a JSON logger at info level writing to stderr.
func NewDefault(name string) *Logger {
	cfg := Config{}
	cfg.ApplyDefaults()
	return New(&cfg, name)
}

// NewFromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT and LOG_NO_COLOR.
func NewFromEnv(name string) *Logger {
	cfg := Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		Output:  os.Getenv("LOG_OUTPUT"),
		NoColor: os.Getenv("LOG_NO_COLOR") == "true",
	}
	cfg.ApplyDefaults()
	return New(&cfg, name)
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

// WithComponent returns a logger tagged with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{logger: l.logger.With().Str(FieldComponent, name).Logger(), name: l.name}
}

// WithFields returns a logger carrying the given fields on every entry.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	return &Logger{logger: l.logger.With().Fields(fields).Logger(), name: l.name}
}

// WithError returns a logger with an error field.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{logger: l.logger.With().Err(err).Logger(), name: l.name}
}

// Zerolog returns the underlying zerolog.Logger.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.logger
}

func (l *Logger) Debug(msg string, fields ...map[string]any) { emit(l.logger.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields ...map[string]any)  { emit(l.logger.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields ...map[string]any)  { emit(l.logger.Warn(), msg, fields) }
func (l *Logger) Error(msg string, fields ...map[string]any) { emit(l.logger.Error(), msg, fields) }

// --- Global logger ---

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// Init replaces the global logger with one built from cfg.
func Init(cfg Config) {
	cfg.ApplyDefaults()
	SetGlobalLogger(New(&cfg, ""))
}

// SetGlobalLogger sets the global logger instance.
func SetGlobalLogger(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// GetGlobalLogger returns the global logger, creating a default one if needed.
func GetGlobalLogger() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = NewDefault("")
	}
	return globalLogger
}

func Debug(msg string, fields ...map[string]any) { GetGlobalLogger().Debug(msg, fields...) }
func Info(msg string, fields ...map[string]any)  { GetGlobalLogger().Info(msg, fields...) }
func Warn(msg string, fields ...map[string]any)  { GetGlobalLogger().Warn(msg, fields...) }
func Error(msg string, fields ...map[string]any) { GetGlobalLogger().Error(msg, fields...) }

// WithComponent returns a component-tagged logger from the global logger.
func WithComponent(name string) *Logger {
	return GetGlobalLogger().WithComponent(name)
}

func emit(event *zerolog.Event, msg string, fields []map[string]any) {
	for _, fm := range fields {
		event.Fields(fm)
	}
	event.Msg(msg)
}

func outputWriter(output string) io.Writer {
	if strings.EqualFold(output, "stdout") {
		return os.Stdout
	}
	return os.Stderr
}
