package platform

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/ursjoin/pkg/adapters/tsv"
)

// DefaultDebounce is how long watch mode waits after the last input change
// before running again.
const DefaultDebounce = 200 * time.Millisecond

// ErrWatchStdin is returned when watch mode is asked to follow standard input.
var ErrWatchStdin = errors.New("watch mode needs file inputs, not stdin")

// RunFunc performs one pass over the inputs.
type RunFunc func(ctx context.Context) error

// inputMatcher decides whether a filesystem event concerns one of the inputs.
type inputMatcher struct {
	files   map[string]bool
	pattern string
}

func (m *inputMatcher) match(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	if m.files[abs] {
		return true
	}
	if m.pattern == "" {
		return false
	}
	ok, _ := doublestar.Match(m.pattern, filepath.ToSlash(abs))
	return ok
}

// watchTargets returns the directories to watch and the matcher for events.
func watchTargets(cfg Config) ([]string, *inputMatcher, error) {
	m := &inputMatcher{files: make(map[string]bool)}
	dirs := make(map[string]bool)

	for _, p := range []string{cfg.IdentifierFile, cfg.AnnotationsFile} {
		if p == tsv.StdinPath {
			return nil, nil, ErrWatchStdin
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, nil, err
		}

		if p == cfg.AnnotationsFile && tsv.IsPattern(p) {
			m.pattern = filepath.ToSlash(abs)
			base, _ := doublestar.SplitPattern(m.pattern)
			if err := addTree(filepath.FromSlash(base), dirs); err != nil {
				return nil, nil, err
			}
			continue
		}
		m.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	out := make([]string, 0, len(dirs))
	for d := range dirs {
		out = append(out, d)
	}
	return out, m, nil
}

// addTree collects root and every directory below it.
func addTree(root string, dirs map[string]bool) error {
	return filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs[path] = true
		}
		return nil
	})
}

// Watch calls run once, then again each time one of the inputs in cfg
// changes, until ctx is cancelled. Failed runs are reported to the error
// handler (or logged) and do not stop watching. Runs never overlap.
func Watch(ctx context.Context, cfg Config, run RunFunc, opts ...Option) error {
	o := buildOptions(opts)

	dirs, matcher, err := watchTargets(cfg)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	for _, d := range dirs {
		if err := watcher.Add(d); err != nil {
			_ = watcher.Close()
			return fmt.Errorf("watching %s: %w", d, err)
		}
	}

	report := func(err error) {
		if o.errorHandler != nil {
			o.errorHandler(err)
			return
		}
		o.logger.Error("run failed", "error", err)
	}

	debounce := o.debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	done := make(chan struct{})
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(done)
		defer watcher.Close()

		if err := run(ctx); err != nil {
			report(err)
		}
		o.logger.Info("watching inputs", "dirs", len(dirs))

		trigger := make(chan struct{}, 1)
		fire := func() {
			select {
			case trigger <- struct{}{}:
			default:
			}
		}
		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if !matcher.match(event.Name) {
					continue
				}
				o.logger.Debug("input changed", "path", event.Name, "op", event.Op.String())
				if timer == nil {
					timer = time.AfterFunc(debounce, fire)
				} else {
					timer.Reset(debounce)
				}

			case wErr, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				o.logger.Error("fsnotify error", "error", wErr)

			case <-trigger:
				if err := run(ctx); err != nil {
					report(err)
					continue
				}
				o.logger.Info("inputs re-processed")
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		o.logger.Error("watch loop panic", "error", err)
	}))

	// Give the loop a bounded time to release the watcher after cancellation.
	select {
	case <-done:
	case <-ctx.Done():
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			return errors.New("watch loop did not stop in time")
		}
	}
	return nil
}
