// Copyright 2025 The Nanobox GCE Adapter Authors
//
//	Licensed under the Apache License, Version 2.0 (the "License"); you may
//	not use this file except in compliance with the License. You may obtain
//	a copy of the License at
//
//	     http://www.apache.org/licenses/LICENSE-2.0
//
//	Unless required by applicable law or agreed to in writing, software
//	distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
//	WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
//	License for the specific language governing permissions and limitations
//	under the License.

package util

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"

	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/nanobox-io/gce-adapter/config"
)

type slogContextKey string

const (
	slogCtxFields slogContextKey = "slog_ctx_fields"
)

type ContextHandler struct {
	slog.Handler
}

func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs, ok := ctx.Value(slogCtxFields).([]slog.Attr)
	if ok {
		for _, v := range attrs {
			r.AddAttrs(v)
		}
	}
	return h.Handler.Handle(ctx, r)
}

// WithSlogContext returns a context carrying attrs. Attributes already
// stored in ctx are kept.
func WithSlogContext(ctx context.Context, attrs ...slog.Attr) context.Context {
	existing, _ := ctx.Value(slogCtxFields).([]slog.Attr)
	merged := make([]slog.Attr, 0, len(existing)+len(attrs))
	merged = append(merged, existing...)
	merged = append(merged, attrs...)
	return context.WithValue(ctx, slogCtxFields, merged)
}

// GetLoggingWriter returns a new io.Writer suitable for logging.
func GetLoggingWriter(logFile string) (io.Writer, error) {
	var writer io.Writer = os.Stdout
	if logFile != "" {
		dirname := path.Dir(logFile)
		if _, err := os.Stat(dirname); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to create log folder")
			}
			if err := os.MkdirAll(dirname, 0o711); err != nil {
				return nil, fmt.Errorf("failed to create log folder")
			}
		}
		writer = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    500, // megabytes
			MaxBackups: 3,
			MaxAge:     28,   // days
			Compress:   true, // disabled by default
		}
	}
	return writer, nil
}

// NewLogger builds the process wide logger from the logging config.
func NewLogger(cfg config.Logging, writer io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: cfg.IncludeSource,
		Level:     cfg.SlogLevel(),
	}

	var handler slog.Handler
	switch cfg.LogFormat {
	case config.FormatJSON:
		handler = slog.NewJSONHandler(writer, opts)
	default:
		handler = slog.NewTextHandler(writer, opts)
	}

	return slog.New(ContextHandler{Handler: handler})
}
