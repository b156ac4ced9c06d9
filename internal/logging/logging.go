// Package logging wires the process-global zap logger. The server and
// the CLI both initialize it from the config file; everything else logs
// through the package-level helpers.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global logger. It is never nil after package init.
var Logger *zap.Logger

// Config selects level, encoding and destination.
type Config struct {
	// Level is the minimum level to emit (debug, info, warn, error)
	Level string `json:"level"`

	// Format is "json" or "console"
	Format string `json:"format"`

	// Output is "stdout", "stderr", or a file path
	Output string `json:"output"`
}

// DefaultConfig logs info and above as console lines on stderr, which
// suits the CLI; the server config file switches to json.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
		Output: "stderr",
	}
}

// Initialize replaces the global logger. An unparseable level falls
// back to info rather than failing startup.
func Initialize(cfg Config) error {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if cfg.Format == "console" {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	var sink zapcore.WriteSyncer
	switch cfg.Output {
	case "stdout":
		sink = zapcore.AddSync(os.Stdout)
	case "stderr", "":
		sink = zapcore.AddSync(os.Stderr)
	default:
		f, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		sink = zapcore.AddSync(f)
	}

	Logger = zap.New(zapcore.NewCore(enc, sink, level), zap.AddCaller())
	return nil
}

// Sync flushes buffered entries. Called on shutdown.
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

func Debug(msg string, fields ...zap.Field) { Logger.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { Logger.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { Logger.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { Logger.Error(msg, fields...) }

// Fatal logs and exits the process.
func Fatal(msg string, fields ...zap.Field) { Logger.Fatal(msg, fields...) }

func init() {
	_ = Initialize(DefaultConfig())
}
