// Package log configures the structured logger shared by the parser,
// typer, interpreter and CLI: a slog.Handler that always passes Warn+
// records through, and otherwise only passes records whose "section"
// attribute is in the enabled list. This keeps --trace's Debug-level
// internals from flooding a run that only cares about one stage.
package log

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strings"
)

var enabledSections = []string{
	"parser",
	"typer",
	"interp",
	"cmd",
}

// SetEnabledSections replaces the set of "section" prefixes allowed through
// at below-Warn levels.
func SetEnabledSections(sections []string) {
	enabledSections = sections
}

func loggerOpts(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "time" {
				return slog.Attr{}
			}
			return a
		},
	}
}

// New builds a logger writing text-formatted records to os.Stderr at level,
// filtered to enabledSections below Warn.
func New(level slog.Level) *slog.Logger {
	return slog.New(&filteringHandler{underlying: slog.NewTextHandler(os.Stderr, loggerOpts(level))})
}

var _ slog.Handler = &filteringHandler{}

type filteringHandler struct {
	underlying slog.Handler
	// section is the "section" attribute bound through WithAttrs, if any.
	section string
}

func (f *filteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return f.underlying.Enabled(ctx, level)
}

func (f *filteringHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= slog.LevelWarn {
		return f.underlying.Handle(ctx, record)
	}
	enabled := func(value string) bool {
		return slices.ContainsFunc(enabledSections, func(section string) bool {
			return strings.HasPrefix(value, section)
		})
	}
	wantSection := f.section != "" && enabled(f.section)
	record.Attrs(func(attr slog.Attr) bool {
		wantSection = wantSection || attr.Key == "section" && enabled(attr.Value.String())
		return !wantSection
	})
	if !wantSection {
		return nil
	}
	return f.underlying.Handle(ctx, record)
}

func (f *filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	section := f.section
	for _, attr := range attrs {
		if attr.Key == "section" {
			section = attr.Value.String()
		}
	}
	return &filteringHandler{underlying: f.underlying.WithAttrs(attrs), section: section}
}

func (f *filteringHandler) WithGroup(name string) slog.Handler {
	return &filteringHandler{underlying: f.underlying.WithGroup(name), section: f.section}
}
