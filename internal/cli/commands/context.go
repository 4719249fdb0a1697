package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Options carries global flags from the root command.
type Options struct {
	ConfigFile string
	Target     string
}

type optionsKey struct{}

// WithOptions stores global options in ctx.
func WithOptions(ctx context.Context, opts *Options) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

// GetOptions retrieves the global options from ctx.
func GetOptions(ctx context.Context) *Options {
	if o, ok := ctx.Value(optionsKey{}).(*Options); ok {
		return o
	}
	return &Options{}
}

// NewLogger builds the text logger written to stderr. verbose forces debug.
func NewLogger(w io.Writer, level string, verbose bool) (*slog.Logger, error) {
	var lvl slog.Level
	if verbose {
		lvl = slog.LevelDebug
	} else if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
