// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines the interface for logging operations.
// Command output goes through it so the same commands can print for humans
// or emit one JSON object per line.
type Logger interface {
	// Printf formats and prints a log message.
	Printf(format string, v ...any)
	// Println prints a log message with a newline.
	Println(v ...any)
	// SetOutput sets the output destination for the logger.
	SetOutput(w io.Writer)
}

// CLILogger implements Logger using the standard log package.
// It's designed for command-line interface output with human-readable formatting.
type CLILogger struct{ logger *log.Logger }

// NewCLILogger creates a new CLI logger with timestamps disabled.
func NewCLILogger() *CLILogger {
	return &CLILogger{logger: log.New(os.Stdout, "", 0)}
}

// Printf formats and prints a log message using fmt.Printf semantics.
func (c *CLILogger) Printf(format string, v ...any) { c.logger.Printf(format, v...) }

// Println prints a log message with a newline.
func (c *CLILogger) Println(v ...any) { c.logger.Println(v...) }

// SetOutput sets the output destination for the CLI logger.
func (c *CLILogger) SetOutput(w io.Writer) { c.logger.SetOutput(w) }

// JSONLogger implements Logger with structured JSON lines written by zap.
// A silent logger drops every message.
//
// JSONLogger is safe for concurrent use by multiple goroutines.
type JSONLogger struct {
	mu     sync.Mutex
	zl     *zap.Logger
	silent bool
}

// NewJSONLogger creates a JSON logger writing to writer (nil discards).
func NewJSONLogger(writer io.Writer, silent bool) *JSONLogger {
	j := &JSONLogger{silent: silent}
	j.SetOutput(writer)
	return j
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = ""
	cfg.MessageKey = "message"
	cfg.LevelKey = "level"
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	return cfg
}

func (j *JSONLogger) log(msg string) {
	if j.silent {
		return
	}
	j.mu.Lock()
	zl := j.zl
	j.mu.Unlock()
	zl.Info(msg)
}

// Printf formats and logs a structured message.
func (j *JSONLogger) Printf(format string, v ...any) { j.log(fmt.Sprintf(format, v...)) }

// Println logs a structured message.
func (j *JSONLogger) Println(v ...any) { j.log(fmt.Sprint(v...)) }

// SetOutput sets the output destination for the JSON logger.
func (j *JSONLogger) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.Lock(zapcore.AddSync(w)), zapcore.InfoLevel)

	j.mu.Lock()
	defer j.mu.Unlock()
	j.zl = zap.New(core)
}

// NewZap builds the *zap.Logger handed to the host and bridge packages.
// format selects the "json" or console encoder; debug lowers the level from
// warn to debug.
func NewZap(format string, w io.Writer, debug bool) *zap.Logger {
	if w == nil {
		w = io.Discard
	}

	level := zapcore.WarnLevel
	if debug {
		level = zapcore.DebugLevel
	}

	cfg := encoderConfig()
	enc := zapcore.NewConsoleEncoder(cfg)
	if format == "json" {
		enc = zapcore.NewJSONEncoder(cfg)
	}
	return zap.New(zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), level))
}
