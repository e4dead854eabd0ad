// Package logger wraps zap behind a small interface so the rest of the
// service never imports zap directly.
package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Fatal(msg string, fields ...zap.Field)

	Debugf(template string, args ...any)
	Infof(template string, args ...any)
	Warnf(template string, args ...any)
	Errorf(template string, args ...any)
	Fatalf(template string, args ...any)

	// With returns a child carrying fields on every entry.
	With(fields ...zap.Field) Logger
	Sync() error
}

// Options selects the encoder and the baseline fields.
type Options struct {
	Level   string // debug, info, warn, error; anything else keeps info
	Pretty  bool   // colour console instead of JSON
	Service string
	Version string
}

type zapLogger struct {
	base *zap.Logger
}

func wrap(base *zap.Logger) Logger { return &zapLogger{base: base} }

func New(opts Options) Logger {
	cfg := zap.NewProductionConfig()
	if opts.Pretty {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(opts.Level))

	base, err := cfg.Build(zap.AddStacktrace(zapcore.FatalLevel))
	if err != nil {
		panic(err)
	}

	var fields []zap.Field
	if opts.Service != "" {
		fields = append(fields, zap.String("service", opts.Service))
	}
	if opts.Version != "" {
		fields = append(fields, zap.String("version", opts.Version))
	}
	return wrap(base.With(fields...))
}

// Nop discards everything.
func Nop() Logger { return wrap(zap.NewNop()) }

// Observed records entries at level and above in memory, for tests that
// assert on what was logged.
func Observed(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return wrap(zap.New(core)), logs
}

// Named returns a child logger tagged with a component name.
func Named(l Logger, name string) Logger {
	if z, ok := l.(*zapLogger); ok {
		return wrap(z.base.Named(name))
	}
	return l
}

func parseLevel(lvl string) zapcore.Level {
	parsed, err := zapcore.ParseLevel(lvl)
	if err != nil || lvl == "" || parsed < zapcore.DebugLevel || parsed > zapcore.ErrorLevel {
		return zapcore.InfoLevel
	}
	return parsed
}

func (l *zapLogger) Debug(msg string, fields ...zap.Field) { l.base.Debug(msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...zap.Field)  { l.base.Info(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...zap.Field)  { l.base.Warn(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...zap.Field) { l.base.Error(msg, fields...) }
func (l *zapLogger) Fatal(msg string, fields ...zap.Field) { l.base.Fatal(msg, fields...) }

func (l *zapLogger) Debugf(t string, args ...any) { l.base.Sugar().Debugf(t, args...) }
func (l *zapLogger) Infof(t string, args ...any)  { l.base.Sugar().Infof(t, args...) }
func (l *zapLogger) Warnf(t string, args ...any)  { l.base.Sugar().Warnf(t, args...) }
func (l *zapLogger) Errorf(t string, args ...any) { l.base.Sugar().Errorf(t, args...) }
func (l *zapLogger) Fatalf(t string, args ...any) { l.base.Sugar().Fatalf(t, args...) }

func (l *zapLogger) With(fields ...zap.Field) Logger { return wrap(l.base.With(fields...)) }

func (l *zapLogger) Sync() error { return l.base.Sync() }

// Field constructors, so callers can log structured fields without zap.
func String(key, val string) zap.Field                 { return zap.String(key, val) }
func Int(key string, val int) zap.Field                { return zap.Int(key, val) }
func Int64(key string, val int64) zap.Field            { return zap.Int64(key, val) }
func Bool(key string, val bool) zap.Field              { return zap.Bool(key, val) }
func Strings(key string, val []string) zap.Field       { return zap.Strings(key, val) }
func Duration(key string, val time.Duration) zap.Field { return zap.Duration(key, val) }
func Error(err error) zap.Field                        { return zap.Error(err) }
