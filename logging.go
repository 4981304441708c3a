package duvc

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel mirrors spec.md's four-level diagnostic taxonomy plus Critical,
// mapped onto zapcore.Level in NewLogger's default core.
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarning
	LogError
	LogCritical
)

func (l LogLevel) String() string {
	switch l {
	case LogDebug:
		return "Debug"
	case LogInfo:
		return "Info"
	case LogWarning:
		return "Warning"
	case LogError:
		return "Error"
	case LogCritical:
		return "Critical"
	default:
		return fmt.Sprintf("LogLevel(%d)", int(l))
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LogDebug:
		return zapcore.DebugLevel
	case LogInfo:
		return zapcore.InfoLevel
	case LogWarning:
		return zapcore.WarnLevel
	case LogError:
		return zapcore.ErrorLevel
	default:
		// Critical is deliberately routed through DPanic rather than Panic:
		// zap's Panic/Fatal levels call panic()/os.Exit after logging, which
		// would terminate a library caller's process on a condition this
		// package only wants to report, not enforce.
		return zapcore.DPanicLevel
	}
}

// levelFromZap is zapLevel's inverse, used to decode a zapcore.Entry back
// into a LogLevel for SetLogCallback's plain fn(LogLevel, string) signature.
func levelFromZap(l zapcore.Level) LogLevel {
	switch {
	case l <= zapcore.DebugLevel:
		return LogDebug
	case l <= zapcore.InfoLevel:
		return LogInfo
	case l <= zapcore.WarnLevel:
		return LogWarning
	case l <= zapcore.ErrorLevel:
		return LogError
	default:
		return LogCritical
	}
}

// Logger is the structured sink every component (Connection, Camera,
// Enumerator's hot-plug watcher) reports diagnostics through. The zero value
// is not usable; use NewLogger or WrapZap.
type Logger struct {
	z *zap.Logger
}

// NewLogger builds the default Logger: Debug/Info/Warning to stdout,
// Error/Critical to stderr, both ISO-8601 millisecond timestamps, tee'd
// through zapcore.NewTee exactly as two independently-leveled cores.
func NewLogger() *Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(enc)

	lowCore := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l < zapcore.ErrorLevel
	}))
	highCore := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.ErrorLevel
	}))
	core := zapcore.NewTee(lowCore, highCore)
	return &Logger{z: zap.New(core)}
}

// WrapZap adapts a caller-supplied *zap.Logger, for embedding duvc's
// diagnostics into a larger application's existing logging pipeline.
func WrapZap(z *zap.Logger) *Logger {
	return &Logger{z: z}
}

func (l *Logger) log(level LogLevel, msg string) {
	if l == nil || l.z == nil {
		return
	}
	// A caller-supplied core (WrapZap, SetLogCallback) runs arbitrary code on
	// Write; a panic there must not propagate into whatever call site
	// (Connection, Camera, the hot-plug watcher) triggered the log line.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "[%s] duvc: log sink panicked: %v (message was: %s)\n", level, r, msg)
		}
	}()
	if ce := l.z.Check(level.zapLevel(), msg); ce != nil {
		ce.Write()
	}
}

// callbackCore adapts a plain fn(LogLevel, string) into a zapcore.Core, the
// shape SetLogCallback needs to install as a Logger's sink.
type callbackCore struct {
	mu sync.Mutex
	cb func(LogLevel, string)
}

func (c *callbackCore) Enabled(zapcore.Level) bool { return true }

func (c *callbackCore) With([]zapcore.Field) zapcore.Core { return c }

func (c *callbackCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	return ce.AddCore(ent, c)
}

func (c *callbackCore) Write(ent zapcore.Entry, _ []zapcore.Field) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cb(levelFromZap(ent.Level), ent.Message)
	return nil
}

func (c *callbackCore) Sync() error { return nil }

// SetLogCallback installs fn as the package-wide default logging sink,
// replacing whatever default Logger was active. Passing nil reverts to the
// default NewLogger sink (stdout/stderr split by level).
func SetLogCallback(fn func(LogLevel, string)) {
	if fn == nil {
		SetDefaultLogger(NewLogger())
		return
	}
	SetDefaultLogger(WrapZap(zap.New(&callbackCore{cb: fn})))
}

func (l *Logger) Debugf(format string, args ...any)    { l.log(LogDebug, fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...any)     { l.log(LogInfo, fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...any)     { l.log(LogWarning, fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...any)    { l.log(LogError, fmt.Sprintf(format, args...)) }
func (l *Logger) Criticalf(format string, args ...any) { l.log(LogCritical, fmt.Sprintf(format, args...)) }

// defaultLogger is lazily built so packages that never configure logging
// don't pay zap's construction cost.
var (
	defaultLoggerOnce sync.Once
	defaultLoggerVal  *Logger
	defaultLoggerMu   sync.RWMutex
)

// DefaultLogger returns the package-wide default Logger, building it on
// first use.
func DefaultLogger() *Logger {
	defaultLoggerOnce.Do(func() {
		defaultLoggerMu.Lock()
		defer defaultLoggerMu.Unlock()
		if defaultLoggerVal == nil {
			defaultLoggerVal = NewLogger()
		}
	})
	defaultLoggerMu.RLock()
	defer defaultLoggerMu.RUnlock()
	return defaultLoggerVal
}

// SetDefaultLogger replaces the package-wide default Logger used by
// components constructed without an explicit logger option.
func SetDefaultLogger(l *Logger) {
	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	defaultLoggerVal = l
}
