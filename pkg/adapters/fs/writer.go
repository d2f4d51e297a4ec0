package fs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/aretw0/ursjoin/pkg/core"
)

// ErrOutputLocked is returned when another process holds the output lock.
var ErrOutputLocked = errors.New("output file is locked by another process")

const (
	// LockSuffix is appended to the output path to name its lock file.
	// The lock file only exists while a write is in progress.
	LockSuffix = ".lock"
	// TempSuffix marks the temporary file the output is staged in.
	TempSuffix = ".ursjoin-tmp-"
	// StdoutPath writes the output to standard output.
	StdoutPath = "-"
)

// Writer persists a Result. The whole encoding is produced in memory first, so
// a serialization failure never touches the destination, and the file itself
// is replaced atomically.
type Writer struct {
	Serializer Serializer
	// Lock guards the destination with an advisory lock on path+LockSuffix.
	Lock   bool
	Perm   os.FileMode
	Stdout io.Writer
	Logger *slog.Logger

	mu        sync.Mutex
	writes    int
	lastPath  string
	lastBytes int
	lastWrite *time.Time
}

// NewWriter creates a Writer for the given serializer with locking enabled.
func NewWriter(s Serializer, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Writer{Serializer: s, Lock: true, Perm: 0o644, Logger: logger}
}

// Write encodes r and stores it at path ("-" for stdout).
func (w *Writer) Write(path string, r *core.Result) error {
	var buf bytes.Buffer
	if err := w.Serializer.Serialize(&buf, r); err != nil {
		return fmt.Errorf("serializing result: %w", err)
	}

	if path == StdoutPath {
		out := w.Stdout
		if out == nil {
			out = os.Stdout
		}
		if _, err := out.Write(buf.Bytes()); err != nil {
			return err
		}
		w.recordWrite(path, buf.Len())
		return nil
	}

	if w.Lock {
		lk := flock.New(path + LockSuffix)
		ok, err := lk.TryLock()
		if err != nil {
			return fmt.Errorf("locking output: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrOutputLocked, lk.Path())
		}
		defer func() {
			_ = lk.Unlock()
			_ = os.Remove(lk.Path())
		}()
	}

	if err := w.replace(path, buf.Bytes()); err != nil {
		return err
	}
	w.recordWrite(path, buf.Len())
	if w.Logger != nil {
		w.Logger.Debug("output written", "path", path, "bytes", buf.Len())
	}
	return nil
}

// replace stages data in a temporary file beside path, syncs it and renames it
// over path, so readers see either the previous output or the complete new one.
func (w *Writer) replace(path string, data []byte) error {
	perm := w.Perm
	if perm == 0 {
		perm = 0o644
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+TempSuffix+"*")
	if err != nil {
		return fmt.Errorf("staging output: %w", err)
	}
	staged := tmp.Name()
	defer os.Remove(staged) // no-op once renamed

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(staged, perm)
	}
	if err != nil {
		return fmt.Errorf("staging output %s: %w", staged, err)
	}

	if err := os.Rename(staged, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
