package tsv

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"
)

// StdinPath selects standard input instead of a file.
const StdinPath = "-"

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// openInput opens path for reading, decompressing gzip transparently.
// Gzip is detected by the magic number (1F 8B) or a .gz suffix, so it also
// works on stdin where seeking is not possible.
func openInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	var (
		raw    io.Reader
		closer io.Closer
	)
	if path == StdinPath {
		if stdin == nil {
			stdin = os.Stdin
		}
		raw = stdin
	} else {
		fh, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		raw, closer = fh, fh
	}

	br := bufio.NewReaderSize(raw, 64*1024)
	sig, _ := br.Peek(2)
	isGzip := len(sig) == 2 && sig[0] == 0x1f && sig[1] == 0x8b
	if !isGzip && !strings.HasSuffix(path, ".gz") {
		return &multiReadCloser{Reader: br, closers: closers(closer)}, nil
	}

	gr, err := gzip.NewReader(br)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}
	return &multiReadCloser{Reader: gr, closers: append([]io.Closer{gr}, closers(closer)...)}, nil
}

func closers(c io.Closer) []io.Closer {
	if c == nil {
		return nil
	}
	return []io.Closer{c}
}
