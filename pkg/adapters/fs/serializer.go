package fs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/ursjoin/pkg/core"
)

// ErrUnknownFormat is returned for an output format with no serializer.
var ErrUnknownFormat = errors.New("unknown output format")

// Format names an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// Serializer defines how a Result is written in a specific file format.
type Serializer interface {
	Serialize(w io.Writer, r *core.Result) error
}

// DefaultSerializers returns the standard set of serializers.
// indent only affects JSON.
func DefaultSerializers(indent bool) map[Format]Serializer {
	return map[Format]Serializer{
		FormatJSON: NewJSONSerializer(indent),
		FormatYAML: NewYAMLSerializer(),
		FormatXLSX: NewXLSXSerializer(),
	}
}

// ParseFormat validates a user supplied format name. Empty means "infer".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatJSON, FormatYAML, FormatXLSX:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// --- JSON Serializer ---

// JSONSerializer writes the Result as one JSON object.
type JSONSerializer struct {
	// Indent pretty-prints the output. The default is compact.
	Indent bool
}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer(indent bool) *JSONSerializer {
	return &JSONSerializer{Indent: indent}
}

func (s *JSONSerializer) Serialize(w io.Writer, r *core.Result) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if s.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(r)
}

// --- YAML Serializer ---

// YAMLSerializer writes the Result as a YAML mapping, keys in Result order.
type YAMLSerializer struct{}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer() *YAMLSerializer {
	return &YAMLSerializer{}
}

func (s *YAMLSerializer) Serialize(w io.Writer, r *core.Result) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	err := r.Each(func(id string, group []core.Annotation) error {
		var val yaml.Node
		if err := val.Encode(group); err != nil {
			return err
		}
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: id}
		root.Content = append(root.Content, key, &val)
		return nil
	})
	if err != nil {
		return err
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(root); err != nil {
		return err
	}
	return encoder.Close()
}

// --- XLSX Serializer ---

// SheetName is the worksheet the XLSX serializer writes to.
const SheetName = "annotations"

// XLSXSerializer writes one spreadsheet row per annotation, grouped in Result
// order, under a header row of column names.
type XLSXSerializer struct{}

// NewXLSXSerializer creates a new XLSX serializer.
func NewXLSXSerializer() *XLSXSerializer {
	return &XLSXSerializer{}
}

func (s *XLSXSerializer) Serialize(w io.Writer, r *core.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return err
	}

	header := make([]interface{}, len(core.Columns))
	for i, c := range core.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}

	row := 2
	err := r.Each(func(_ string, group []core.Annotation) error {
		for _, a := range group {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			values := []interface{}{
				a.Identifier, a.ModelID, a.Score, a.EValue,
				a.SequenceStart, a.SequenceStop, a.ModelStart, a.ModelStop,
				a.ModelDescription,
			}
			if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
				return err
			}
			row++
		}
		return nil
	})
	if err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}
