package tsv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/introspection"

	"github.com/aretw0/ursjoin/pkg/core"
)

// ctxCheckEvery is how many rows are read between cancellation checks.
const ctxCheckEvery = 4096

// Source implements core.Source for tab-separated files.
type Source struct {
	// Stdin is read when a path is "-". Nil means os.Stdin.
	Stdin  io.Reader
	Logger *slog.Logger
}

// NewSource creates a Source. A nil logger discards log output.
func NewSource(logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Source{Logger: logger}
}

func newReader(r io.Reader, fields int) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	cr.FieldsPerRecord = fields
	return cr
}

// Identifiers reads the identifier table at path. The first row is a header and
// is discarded; every later row contributes its first field. Rows must all have
// the header's field count.
func (s *Source) Identifiers(ctx context.Context, path string) (core.IdentifierSet, error) {
	rc, err := openInput(path, s.Stdin)
	if err != nil {
		return nil, fmt.Errorf("opening identifier file: %w", err)
	}
	defer rc.Close()

	r := newReader(rc, 0)
	ids := make(core.IdentifierSet)

	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			s.logger().Debug("identifier file is empty", "path", path)
			return ids, nil
		}
		return nil, readError(path, err)
	}

	for n := 1; ; n++ {
		if n%ctxCheckEvery == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, readError(path, err)
		}
		ids.Add(rec[0])
	}
	return ids, nil
}

// Annotations reads every annotation file path expands to (see Expand) and
// calls fn for each parsed row, in order. Files have no header and exactly
// core.NumColumns fields per row.
func (s *Source) Annotations(ctx context.Context, path string, fn func(core.Annotation) error) error {
	paths, err := Expand(path)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := s.annotationsFile(ctx, p, fn); err != nil {
			return err
		}
	}
	return nil
}

func (s *Source) annotationsFile(ctx context.Context, path string, fn func(core.Annotation) error) error {
	rc, err := openInput(path, s.Stdin)
	if err != nil {
		return fmt.Errorf("opening annotation file: %w", err)
	}
	defer rc.Close()

	s.logger().Debug("reading annotations", "path", path)

	r := newReader(rc, core.NumColumns)
	for n := 1; ; n++ {
		if n%ctxCheckEvery == 0 && ctx.Err() != nil {
			return ctx.Err()
		}
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return readError(path, err)
		}

		a, err := core.ParseAnnotation(rec)
		if err != nil {
			var pe *core.ParseError
			if errors.As(err, &pe) {
				pe.Path = path
				pe.Line, _ = r.FieldPos(0)
			}
			return err
		}
		if err := fn(a); err != nil {
			return err
		}
	}
}

func (s *Source) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

// readError converts encoding/csv failures into core.ParseError and leaves
// I/O failures (including corrupt gzip streams) wrapped with the path.
func readError(path string, err error) error {
	var ce *csv.ParseError
	if !errors.As(err, &ce) {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	inner := ce.Err
	if errors.Is(inner, csv.ErrFieldCount) {
		inner = core.ErrFieldCount
	}
	return &core.ParseError{Path: path, Line: ce.Line, Err: inner}
}

// ComponentType implements introspection.Component.
func (s *Source) ComponentType() string {
	return "tsv-source"
}

var _ core.Source = (*Source)(nil)
var _ introspection.Component = (*Source)(nil)
