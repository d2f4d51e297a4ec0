package core

import "context"

// Source defines the contract for reading the two join inputs.
// Adhering to this interface keeps the join independent of the file format
// and of where the bytes come from (plain files, gzip, stdin).
type Source interface {
	// Identifiers reads the identifier table at path and returns the set of
	// values found in its first column. The header row is not part of the set.
	Identifiers(ctx context.Context, path string) (IdentifierSet, error)

	// Annotations reads the annotation table at path and calls fn for every
	// parsed row, in file order. Reading stops at the first error, whether it
	// comes from parsing or from fn.
	Annotations(ctx context.Context, path string, fn func(Annotation) error) error
}
