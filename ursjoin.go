package ursjoin

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/ursjoin/internal/platform"
	"github.com/aretw0/ursjoin/pkg/adapters/fs"
	"github.com/aretw0/ursjoin/pkg/core"
)

// --- Types ---

// Annotation is one row of the Rfam annotation table.
type Annotation = core.Annotation

// Result groups matching annotations by identifier.
type Result = core.Result

// Config holds the settings of a join run.
type Config = platform.Config

// Format names an output encoding.
type Format = fs.Format

const (
	FormatJSON = fs.FormatJSON
	FormatYAML = fs.FormatYAML
	FormatXLSX = fs.FormatXLSX
)

// --- Configuration ---

// Option defines a functional option for configuring a run.
type Option = platform.Option

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithSource allows injecting a custom input adapter.
func WithSource(src core.Source) Option {
	return platform.WithSource(src)
}

// WithFormat forces the output format instead of inferring it from the path.
func WithFormat(f Format) Option {
	return platform.WithFormat(f)
}

// WithIndent pretty-prints JSON output.
func WithIndent(indent bool) Option {
	return platform.WithIndent(indent)
}

// WithLock controls the advisory lock taken on the output file.
func WithLock(enabled bool) Option {
	return platform.WithLock(enabled)
}

// WithDebounce sets the watch mode delay after the last input change.
func WithDebounce(d time.Duration) Option {
	return platform.WithDebounce(d)
}

// WithErrorHandler registers a callback for failed runs in watch mode.
func WithErrorHandler(fn func(error)) Option {
	return platform.WithErrorHandler(fn)
}

// --- Factory ---

// New creates a join service.
func New(opts ...Option) (*core.Service, error) {
	return platform.New(opts...)
}

// --- Operations ---

// Join loads the identifiers and returns the matching annotations grouped by
// identifier, without writing anything.
func Join(ctx context.Context, identifiersPath, annotationsPath string, opts ...Option) (*Result, error) {
	svc, err := platform.New(opts...)
	if err != nil {
		return nil, err
	}
	return svc.Join(ctx, identifiersPath, annotationsPath)
}

// Run joins the inputs named in cfg and writes the result to cfg.OutputFile.
func Run(ctx context.Context, cfg Config, opts ...Option) (*Result, error) {
	return platform.Run(ctx, cfg, opts...)
}

// Watch runs fn once and again whenever an input named in cfg changes,
// until ctx is cancelled.
func Watch(ctx context.Context, cfg Config, fn func(ctx context.Context) error, opts ...Option) error {
	return platform.Watch(ctx, cfg, fn, opts...)
}
