package logging

import (
	"context"
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// ParseFormat accepts "console"; anything else means JSON.
func ParseFormat(v string) Format {
	if Format(v) == FormatConsole {
		return FormatConsole
	}
	return FormatJSON
}

// Logger is a key/value facade over zap. A nil *Logger writes to Default.
type Logger struct {
	base     *zap.Logger
	syncOnce *sync.Once
}

var fallback atomic.Pointer[Logger]

func init() {
	fallback.Store(NewNop())
}

func Default() *Logger {
	return fallback.Load()
}

func SetDefault(logger *Logger) {
	if logger == nil {
		logger = NewNop()
	}
	fallback.Store(logger)
}

// New writes to stdout. Error records carry a stack trace.
func New(format Format, level Level) *Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	cfg.EncodeDuration = zapcore.MillisDurationEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var enc zapcore.Encoder
	switch format {
	case FormatConsole:
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	default:
		enc = zapcore.NewJSONEncoder(cfg)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(os.Stdout), level)
	return FromZap(zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(2),
		zap.AddStacktrace(zapcore.ErrorLevel),
	))
}

func NewNop() *Logger {
	return FromZap(nil)
}

func FromZap(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{base: z, syncOnce: &sync.Once{}}
}

func (l *Logger) core() *zap.Logger {
	if l == nil || l.base == nil {
		return Default().base
	}
	return l.base
}

// Sync flushes buffered entries. Loggers derived through With or Named share
// one flush.
func (l *Logger) Sync() (err error) {
	if l == nil || l.base == nil {
		return nil
	}
	l.syncOnce.Do(func() { err = l.base.Sync() })
	return err
}

func (l *Logger) derive(z *zap.Logger) *Logger {
	out := &Logger{base: z, syncOnce: &sync.Once{}}
	if l != nil && l.syncOnce != nil {
		out.syncOnce = l.syncOnce
	}
	return out
}

func (l *Logger) With(args ...any) *Logger {
	return l.derive(l.core().With(zapFields(args)...))
}

// Named scopes the logger to a component, e.g. "stats_refresh".
func (l *Logger) Named(name string) *Logger {
	return l.derive(l.core().Named(name))
}

func (l *Logger) Debug(msg string, args ...any) { l.write(context.Background(), LevelDebug, msg, args) }
func (l *Logger) Info(msg string, args ...any) { l.write(context.Background(), LevelInfo, msg, args) }
func (l *Logger) Warn(msg string, args ...any) { l.write(context.Background(), LevelWarn, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.write(context.Background(), LevelError, msg, args) }

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelDebug, msg, args)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelInfo, msg, args)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelWarn, msg, args)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelError, msg, args)
}

func (l *Logger) write(ctx context.Context, level Level, msg string, args []any) {
	ce := l.core().Check(level, msg)
	if ce == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ce.Write(append(zapFields(args), traceFields(ctx)...)...)
	emitMirror(ctx, level, msg, args)
}
