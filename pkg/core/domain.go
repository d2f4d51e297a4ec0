// Annotation is the central entity of the domain.
package core

import (
	"fmt"
	"strconv"
)

// Columns lists the annotation table columns in file order, using the names
// the records carry once serialized.
var Columns = [...]string{
	"URS-Id",
	"Rfam-Model-Id",
	"Score",
	"E-value",
	"Sequence-Start",
	"Sequence-Stop",
	"Model-Start",
	"Model-Stop",
	"Rfam-Model-Description",
}

// NumColumns is the exact field count of an annotation row.
const NumColumns = len(Columns)

// Annotation is one row of the Rfam annotation table: a match between an
// RNAcentral sequence and an Rfam model. Coordinates are kept as found in the
// source file.
type Annotation struct {
	Identifier       string  `json:"URS-Id" yaml:"URS-Id"`
	ModelID          string  `json:"Rfam-Model-Id" yaml:"Rfam-Model-Id"`
	Score            float64 `json:"Score" yaml:"Score"`
	EValue           float64 `json:"E-value" yaml:"E-value"`
	SequenceStart    uint32  `json:"Sequence-Start" yaml:"Sequence-Start"`
	SequenceStop     uint32  `json:"Sequence-Stop" yaml:"Sequence-Stop"`
	ModelStart       uint32  `json:"Model-Start" yaml:"Model-Start"`
	ModelStop        uint32  `json:"Model-Stop" yaml:"Model-Stop"`
	ModelDescription string  `json:"Rfam-Model-Description" yaml:"Rfam-Model-Description"`
}

// ParseAnnotation builds an Annotation from one row of fields in column order.
// The returned error is a *ParseError without Path or Line; readers fill those in.
func ParseAnnotation(fields []string) (Annotation, error) {
	if len(fields) != NumColumns {
		return Annotation{}, &ParseError{
			Err: fmt.Errorf("%w: expected %d, got %d", ErrFieldCount, NumColumns, len(fields)),
		}
	}

	a := Annotation{
		Identifier:       fields[0],
		ModelID:          fields[1],
		ModelDescription: fields[8],
	}

	var err error
	if a.Score, err = parseFloat(fields, 2); err != nil {
		return Annotation{}, err
	}
	if a.EValue, err = parseFloat(fields, 3); err != nil {
		return Annotation{}, err
	}
	coords := []*uint32{&a.SequenceStart, &a.SequenceStop, &a.ModelStart, &a.ModelStop}
	for i, dst := range coords {
		if *dst, err = parseUint(fields, 4+i); err != nil {
			return Annotation{}, err
		}
	}
	return a, nil
}

func parseFloat(fields []string, idx int) (float64, error) {
	v, err := strconv.ParseFloat(fields[idx], 64)
	if err != nil {
		return 0, columnError(idx, err)
	}
	return v, nil
}

func parseUint(fields []string, idx int) (uint32, error) {
	v, err := strconv.ParseUint(fields[idx], 10, 32)
	if err != nil {
		return 0, columnError(idx, err)
	}
	return uint32(v), nil
}

func columnError(idx int, err error) error {
	// strconv errors repeat the input; keep only the reason.
	if ne, ok := err.(*strconv.NumError); ok {
		err = fmt.Errorf("invalid value %q: %w", ne.Num, ne.Err)
	}
	return &ParseError{Column: idx + 1, Field: Columns[idx], Err: err}
}

// IdentifierSet is the set of sequence identifiers used as the join key.
type IdentifierSet map[string]struct{}

// NewIdentifierSet returns a set holding ids.
func NewIdentifierSet(ids ...string) IdentifierSet {
	s := make(IdentifierSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id; duplicates are ignored.
func (s IdentifierSet) Add(id string) { s[id] = struct{}{} }

// Contains reports whether id is in the set.
func (s IdentifierSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of unique identifiers.
func (s IdentifierSet) Len() int { return len(s) }
