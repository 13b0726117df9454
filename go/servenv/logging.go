// Copyright 2026 The CarWashing-System Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package servenv holds the process-level plumbing shared by commands:
// structured logging configured from flags.
package servenv

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// LoggingConfig collects the logging flags for one process.
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// RegisterFlags registers logging-related command line flags.
func (lc *LoggingConfig) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&lc.Level, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.StringVar(&lc.Format, "log-format", "json", "Log format (json, text)")
	fs.StringVar(&lc.Output, "log-output", "stderr", "Log output (stdout, stderr, or file path)")
}

// NewLogger builds a slog.Logger from the configured flags and installs
// it as the process default. Call after flags are parsed.
func (lc *LoggingConfig) NewLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(lc.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var output io.Writer
	switch strings.ToLower(lc.Output) {
	case "stdout":
		output = os.Stdout
	case "stderr", "":
		output = os.Stderr
	default:
		// Treat as file path
		file, err := os.OpenFile(lc.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			output = os.Stderr
		} else {
			output = file
		}
	}

	var handler slog.Handler
	if strings.ToLower(lc.Format) == "text" {
		handler = slog.NewTextHandler(output, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
