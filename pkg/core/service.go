package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Stage is a step of the join pipeline.
type Stage string

const (
	StageIdle                 Stage = "idle"
	StageLoadingIdentifiers   Stage = "loading-identifiers"
	StageFilteringAnnotations Stage = "filtering-annotations"
	StageDone                 Stage = "done"
	StageFailed               Stage = "failed"
)

// Service runs the identifier filter-join over a Source.
type Service struct {
	src    Source
	logger *slog.Logger

	mu          sync.RWMutex
	stage       Stage
	identifiers int
	scanned     int
	matched     int
	groups      int
	lastErr     error
}

// NewService creates a new Service. A nil logger discards log output.
func NewService(src Source, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{src: src, logger: logger, stage: StageIdle}
}

// LoadIdentifiers reads the identifier set from path.
func (s *Service) LoadIdentifiers(ctx context.Context, path string) (IdentifierSet, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: identifier file", ErrMissingOption)
	}
	return s.src.Identifiers(ctx, path)
}

// Filter streams the annotations at path and keeps those whose identifier is
// in ids, grouped by identifier. The whole input is consumed before returning;
// on error no partial Result is returned.
func (s *Service) Filter(ctx context.Context, ids IdentifierSet, path string) (*Result, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: annotation file", ErrMissingOption)
	}

	result := NewResult()
	err := s.src.Annotations(ctx, path, func(a Annotation) error {
		s.mu.Lock()
		s.scanned++
		s.mu.Unlock()

		if !ids.Contains(a.Identifier) {
			return nil
		}
		result.Append(a)

		s.mu.Lock()
		s.matched++
		s.mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Join loads the identifier set and filters the annotations against it.
func (s *Service) Join(ctx context.Context, identifiersPath, annotationsPath string) (*Result, error) {
	s.reset()

	s.setStage(StageLoadingIdentifiers)
	ids, err := s.LoadIdentifiers(ctx, identifiersPath)
	if err != nil {
		return nil, s.fail(fmt.Errorf("loading identifiers: %w", err))
	}
	s.mu.Lock()
	s.identifiers = ids.Len()
	s.mu.Unlock()
	s.logger.Debug("identifiers loaded", "path", identifiersPath, "count", ids.Len())

	s.setStage(StageFilteringAnnotations)
	result, err := s.Filter(ctx, ids, annotationsPath)
	if err != nil {
		return nil, s.fail(fmt.Errorf("filtering annotations: %w", err))
	}

	s.mu.Lock()
	s.groups = result.Len()
	scanned, matched := s.scanned, s.matched
	s.mu.Unlock()
	s.setStage(StageDone)

	s.logger.Info("join complete",
		"identifiers", ids.Len(),
		"rows_scanned", scanned,
		"rows_matched", matched,
		"groups", result.Len(),
	)
	return result, nil
}

func (s *Service) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stage = StageIdle
	s.identifiers, s.scanned, s.matched, s.groups = 0, 0, 0, 0
	s.lastErr = nil
}

func (s *Service) setStage(st Stage) {
	s.mu.Lock()
	s.stage = st
	s.mu.Unlock()
	s.logger.Debug("stage", "stage", string(st))
}

func (s *Service) fail(err error) error {
	s.mu.Lock()
	s.stage = StageFailed
	s.lastErr = err
	s.mu.Unlock()

	attrs := []any{"error", err}
	var pe *ParseError
	if errors.As(err, &pe) {
		attrs = append(attrs, "path", pe.Path, "line", pe.Line)
	}
	s.logger.Debug("join failed", attrs...)
	return err
}
