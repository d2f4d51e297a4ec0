package tsv

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/ursjoin/pkg/core"
)

// IsPattern reports whether path contains glob metacharacters.
func IsPattern(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

// Expand resolves an annotation path into the list of files to read.
// Literal paths (including ones that merely look like patterns but exist on
// disk) are returned untouched. Patterns are matched with doublestar syntax
// and the matches are returned in lexical order.
func Expand(path string) ([]string, error) {
	if path == StdinPath || !IsPattern(path) {
		return []string{path}, nil
	}
	if _, err := os.Stat(path); err == nil {
		return []string{path}, nil
	}

	if !doublestar.ValidatePattern(path) {
		return nil, fmt.Errorf("invalid pattern %q: %w", path, doublestar.ErrBadPattern)
	}
	matches, err := doublestar.FilepathGlob(path, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expanding %q: %w", path, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", core.ErrNoInput, path)
	}
	sort.Strings(matches)
	return matches, nil
}
