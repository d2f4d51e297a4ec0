package platform

import (
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/ursjoin/pkg/adapters/fs"
	"github.com/aretw0/ursjoin/pkg/core"
)

// options holds the internal configuration for a join run.
type options struct {
	source      core.Source
	logger      *slog.Logger
	format      fs.Format
	indent      bool
	lock        bool
	stdin       io.Reader
	stdout      io.Writer
	serializers map[fs.Format]fs.Serializer

	debounce     time.Duration
	errorHandler func(error)
}

// Option defines a functional option for configuring a run.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		lock:        true,
		serializers: make(map[fs.Format]fs.Serializer),
	}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// WithLogger sets the logger for the service and the writers.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSource allows injecting a custom input adapter (e.g. a mock).
// If provided, the default TSV adapter is skipped.
func WithSource(src core.Source) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithFormat forces the output format. Empty means "infer from the output path".
func WithFormat(f fs.Format) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithIndent pretty-prints JSON output.
func WithIndent(indent bool) Option {
	return func(o *options) {
		o.indent = indent
	}
}

// WithLock controls the advisory lock taken on the output file.
// Enabled by default.
func WithLock(enabled bool) Option {
	return func(o *options) {
		o.lock = enabled
	}
}

// WithStdio replaces the streams used for "-" paths.
func WithStdio(stdin io.Reader, stdout io.Writer) Option {
	return func(o *options) {
		o.stdin = stdin
		o.stdout = stdout
	}
}

// WithSerializer registers a custom serializer for a format, overriding the default.
func WithSerializer(f fs.Format, s fs.Serializer) Option {
	return func(o *options) {
		o.serializers[f] = s
	}
}

// WithDebounce sets how long watch mode waits after the last change.
// Zero means DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithErrorHandler registers a callback for failed runs in watch mode.
// Without it, failures are logged.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
