package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/ursjoin/pkg/core"
)

// Run performs one complete pass: load identifiers, filter the annotations,
// and write the grouped result to cfg.OutputFile. The output is written only
// after the whole result has been built, so a failed run leaves no output.
func Run(ctx context.Context, cfg Config, opts ...Option) (*core.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	// Resolve the writer first so a bad format fails before any input is read.
	w, err := newWriter(o)
	if err != nil {
		return nil, err
	}

	svc := core.NewService(newSource(o), o.logger)
	result, err := svc.Join(ctx, cfg.IdentifierFile, cfg.AnnotationsFile)
	o.logger.Debug("service state", "state", svc.State())
	if err != nil {
		return nil, err
	}

	if err := w.Write(cfg.OutputFile, result); err != nil {
		return nil, fmt.Errorf("writing output: %w", err)
	}
	o.logger.Debug("writer state", "state", w.State())
	return result, nil
}
