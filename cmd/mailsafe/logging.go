package main

import (
	"fmt"
	"io"
	"log/slog"
)

// logFormat is the output format of the verbose log.
type logFormat string

const (
	logFormatText logFormat = "text"
	logFormatJSON logFormat = "json"
)

// parseLogFormat accepts "text" or "json". Empty means text.
func parseLogFormat(s string) (logFormat, error) {
	switch logFormat(s) {
	case "", logFormatText:
		return logFormatText, nil
	case logFormatJSON:
		return logFormatJSON, nil
	}
	return "", fmt.Errorf("invalid log format %q: must be %q or %q", s, logFormatJSON, logFormatText)
}

type loggerConfig struct {
	level  slog.Level
	format logFormat
	output io.Writer
	attrs  []slog.Attr
}

type loggerOption func(*loggerConfig)

func withLevel(l slog.Level) loggerOption {
	return func(c *loggerConfig) { c.level = l }
}

func withFormat(f logFormat) loggerOption {
	return func(c *loggerConfig) { c.format = f }
}

// withOutput ignores nil writers.
func withOutput(w io.Writer) loggerOption {
	return func(c *loggerConfig) {
		if w != nil {
			c.output = w
		}
	}
}

func withAttr(attrs ...slog.Attr) loggerOption {
	return func(c *loggerConfig) { c.attrs = append(c.attrs, attrs...) }
}

// newLogger builds a slog.Logger. Without an output it discards everything.
func newLogger(opts ...loggerOption) *slog.Logger {
	cfg := &loggerConfig{level: slog.LevelInfo, format: logFormatText}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.output == nil {
		return slog.New(slog.DiscardHandler)
	}

	handlerOpts := &slog.HandlerOptions{Level: cfg.level}
	var h slog.Handler
	if cfg.format == logFormatJSON {
		h = slog.NewJSONHandler(cfg.output, handlerOpts)
	} else {
		h = slog.NewTextHandler(cfg.output, handlerOpts)
	}
	if len(cfg.attrs) > 0 {
		h = h.WithAttrs(cfg.attrs)
	}
	return slog.New(h)
}

// commandLogger returns the logger for one command run: debug output on
// stderr when --verbose is set, silent otherwise.
func commandLogger(f commonFlags, env *Environment, command string) (*slog.Logger, error) {
	if !f.verbose {
		return newLogger(), nil
	}
	format, err := parseLogFormat(f.logFormat)
	if err != nil {
		return nil, err
	}
	return newLogger(
		withOutput(env.Stderr),
		withLevel(slog.LevelDebug),
		withFormat(format),
		withAttr(slog.String("command", command)),
	), nil
}
