package platform

import (
	"fmt"

	"github.com/aretw0/ursjoin/pkg/adapters/fs"
	"github.com/aretw0/ursjoin/pkg/adapters/tsv"
	"github.com/aretw0/ursjoin/pkg/core"
)

// New creates the join service.
//
//	svc, err := ursjoin.New(ursjoin.WithLogger(logger))
func New(opts ...Option) (*core.Service, error) {
	o := buildOptions(opts)
	return core.NewService(newSource(o), o.logger), nil
}

func newSource(o *options) core.Source {
	if o.source != nil {
		return o.source
	}
	src := tsv.NewSource(o.logger)
	src.Stdin = o.stdin
	return src
}

// NewWriter creates the output writer. The output is JSON unless a format is
// configured; the output path extension is never consulted.
func NewWriter(opts ...Option) (*fs.Writer, error) {
	return newWriter(buildOptions(opts))
}

func newWriter(o *options) (*fs.Writer, error) {
	format := o.format
	if format == "" {
		format = fs.FormatJSON
	}

	s, ok := o.serializers[format]
	if !ok {
		s, ok = fs.DefaultSerializers(o.indent)[format]
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", fs.ErrUnknownFormat, format)
	}

	w := fs.NewWriter(s, o.logger)
	w.Lock = o.lock
	w.Stdout = o.stdout
	return w, nil
}
