package fs

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/ursjoin/pkg/core"
)

func testResult() *core.Result {
	r := core.NewResult()
	r.Append(core.Annotation{
		Identifier: "URS000003EB75", ModelID: "RF00005", Score: 54.3, EValue: 2.1e-10,
		SequenceStart: 1, SequenceStop: 71, ModelStart: 1, ModelStop: 71, ModelDescription: "tRNA",
	})
	r.Append(core.Annotation{
		Identifier: "URS00000A1B2C", ModelID: "RF00001", Score: 80.2, EValue: 1.1e-16,
		SequenceStart: 1, SequenceStop: 119, ModelStart: 1, ModelStop: 119, ModelDescription: "5S ribosomal RNA",
	})
	r.Append(core.Annotation{
		Identifier: "URS000003EB75", ModelID: "RF01852", Score: 21, EValue: 0.0042,
		SequenceStart: 3, SequenceStop: 70, ModelStart: 2, ModelStop: 69, ModelDescription: "Selenocysteine transfer RNA",
	})
	return r
}

func TestJSONSerializer(t *testing.T) {
	t.Run("Compact", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewJSONSerializer(false).Serialize(&buf, testResult()))

		out := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
		assert.NotContains(t, string(out), "\n")

		var decoded map[string][]core.Annotation
		require.NoError(t, json.Unmarshal(out, &decoded))
		assert.Equal(t, testResult().Map(), decoded)
	})

	t.Run("Indented", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewJSONSerializer(true).Serialize(&buf, testResult()))
		assert.Contains(t, buf.String(), "\n  \"URS000003EB75\": [")
	})

	t.Run("Keeps Special Characters Literal", func(t *testing.T) {
		r := core.NewResult()
		r.Append(core.Annotation{Identifier: "URS1", ModelDescription: "RNase P <A&B>"})

		var buf bytes.Buffer
		require.NoError(t, NewJSONSerializer(false).Serialize(&buf, r))
		assert.Contains(t, buf.String(), `"RNase P <A&B>"`)
	})
}

func TestYAMLSerializer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLSerializer().Serialize(&buf, testResult()))

	var node yaml.Node
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &node))
	mapping := node.Content[0]
	require.Equal(t, yaml.MappingNode, mapping.Kind)
	assert.Equal(t, "URS000003EB75", mapping.Content[0].Value, "keys keep first-occurrence order")
	assert.Equal(t, "URS00000A1B2C", mapping.Content[2].Value)

	var decoded map[string][]core.Annotation
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, testResult().Map(), decoded)
}

func TestYAMLSerializer_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLSerializer().Serialize(&buf, core.NewResult()))
	assert.Equal(t, "{}\n", buf.String())
}

func TestXLSXSerializer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXSerializer().Serialize(&buf, testResult()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, core.Columns[:], rows[0])
	// Rows are grouped: both URS000003EB75 matches precede URS00000A1B2C.
	assert.Equal(t, []string{"URS000003EB75", "RF00005"}, rows[1][:2])
	assert.Equal(t, []string{"URS000003EB75", "RF01852"}, rows[2][:2])
	assert.Equal(t, "URS00000A1B2C", rows[3][0])
	assert.Equal(t, "119", rows[3][5])
}

func TestFormats(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, Format(""), f)

	_, err = ParseFormat("sqlite")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	for _, name := range []Format{FormatJSON, FormatYAML, FormatXLSX} {
		assert.Contains(t, DefaultSerializers(false), name)
	}
}
