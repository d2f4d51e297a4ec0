package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/ursjoin/pkg/core"
)

// MockSource implements core.Source in memory.
type MockSource struct {
	ids     map[string]core.IdentifierSet
	rows    map[string][]core.Annotation
	failAt  int
	failErr error
}

func NewMockSource() *MockSource {
	return &MockSource{
		ids:  make(map[string]core.IdentifierSet),
		rows: make(map[string][]core.Annotation),
	}
}

func (m *MockSource) Identifiers(ctx context.Context, path string) (core.IdentifierSet, error) {
	ids, ok := m.ids[path]
	if !ok {
		return nil, errors.New("not found")
	}
	return ids, nil
}

func (m *MockSource) Annotations(ctx context.Context, path string, fn func(core.Annotation) error) error {
	rows, ok := m.rows[path]
	if !ok {
		return errors.New("not found")
	}
	for i, a := range rows {
		if m.failErr != nil && i == m.failAt {
			return m.failErr
		}
		if err := fn(a); err != nil {
			return err
		}
	}
	return nil
}

func ann(id, model string) core.Annotation {
	return core.Annotation{Identifier: id, ModelID: model}
}

func TestService_Join(t *testing.T) {
	src := NewMockSource()
	src.ids["ids"] = core.NewIdentifierSet("URS000003EB75", "URS0000000002")
	src.rows["rfam"] = []core.Annotation{
		ann("URS0000000002", "RF00001"),
		ann("URS000003EB75", "RF00005"),
		ann("URS9999999999", "RF00010"),
		ann("URS0000000002", "RF00002"),
		ann("URS0000000002", "RF00003"),
	}

	svc := core.NewService(src, nil)
	res, err := svc.Join(context.Background(), "ids", "rfam")
	require.NoError(t, err)

	assert.Equal(t, []string{"URS0000000002", "URS000003EB75"}, res.Keys())
	assert.Equal(t, 4, res.Count())

	group, ok := res.Get("URS0000000002")
	require.True(t, ok)
	models := make([]string, 0, len(group))
	for _, a := range group {
		models = append(models, a.ModelID)
	}
	assert.Equal(t, []string{"RF00001", "RF00002", "RF00003"}, models, "file order must be kept")

	_, ok = res.Get("URS9999999999")
	assert.False(t, ok, "unknown identifiers must be dropped")

	state := svc.State().(core.ServiceState)
	assert.Equal(t, core.StageDone, state.Stage)
	assert.Equal(t, 2, state.Identifiers)
	assert.Equal(t, 5, state.RowsScanned)
	assert.Equal(t, 4, state.RowsMatched)
	assert.Equal(t, 2, state.Groups)
}

func TestService_Join_MembershipIsExact(t *testing.T) {
	src := NewMockSource()
	ids := core.NewIdentifierSet("A", "C", "E")
	src.ids["ids"] = ids
	for _, id := range []string{"A", "B", "C", "D", "E", "A", "B"} {
		src.rows["rfam"] = append(src.rows["rfam"], ann(id, "m"))
	}

	res, err := core.NewService(src, nil).Join(context.Background(), "ids", "rfam")
	require.NoError(t, err)

	kept := 0
	for _, a := range src.rows["rfam"] {
		_, present := res.Get(a.Identifier)
		assert.Equal(t, ids.Contains(a.Identifier), present, a.Identifier)
		if ids.Contains(a.Identifier) {
			kept++
		}
	}
	assert.Equal(t, kept, res.Count())
}

func TestService_Join_EmptyIdentifierSet(t *testing.T) {
	src := NewMockSource()
	src.ids["ids"] = core.NewIdentifierSet()
	src.rows["rfam"] = []core.Annotation{ann("A", "m"), ann("B", "m")}

	res, err := core.NewService(src, nil).Join(context.Background(), "ids", "rfam")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Len())

	data, err := res.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestService_Join_Idempotent(t *testing.T) {
	src := NewMockSource()
	src.ids["ids"] = core.NewIdentifierSet("A", "B")
	src.rows["rfam"] = []core.Annotation{ann("B", "1"), ann("A", "2"), ann("B", "3")}

	svc := core.NewService(src, nil)
	first, err := svc.Join(context.Background(), "ids", "rfam")
	require.NoError(t, err)
	second, err := svc.Join(context.Background(), "ids", "rfam")
	require.NoError(t, err)

	assert.Equal(t, first.Keys(), second.Keys())
	assert.Equal(t, first.Map(), second.Map())

	state := svc.State().(core.ServiceState)
	assert.Equal(t, 3, state.RowsScanned, "counters reset between runs")
}

func TestService_Join_Failures(t *testing.T) {
	parseErr := &core.ParseError{Path: "rfam", Line: 2, Column: 3, Field: "Score", Err: errors.New("bad")}

	tests := []struct {
		name      string
		idsPath   string
		failErr   error
		wantParse bool
	}{
		{name: "missing identifier file", idsPath: "nope"},
		{name: "parse error mid-stream", idsPath: "ids", failErr: parseErr, wantParse: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := NewMockSource()
			src.ids["ids"] = core.NewIdentifierSet("A")
			src.rows["rfam"] = []core.Annotation{ann("A", "1"), ann("A", "2")}
			src.failAt = 1
			src.failErr = tc.failErr

			svc := core.NewService(src, nil)
			res, err := svc.Join(context.Background(), tc.idsPath, "rfam")
			require.Error(t, err)
			assert.Nil(t, res, "no partial result on failure")
			assert.Equal(t, tc.wantParse, errors.Is(err, core.ErrParse))

			state := svc.State().(core.ServiceState)
			assert.Equal(t, core.StageFailed, state.Stage)
			assert.NotEmpty(t, state.LastError)
		})
	}
}

func TestService_Join_MissingPaths(t *testing.T) {
	svc := core.NewService(NewMockSource(), nil)

	_, err := svc.Join(context.Background(), "", "rfam")
	assert.ErrorIs(t, err, core.ErrMissingOption)

	_, err = svc.Filter(context.Background(), core.NewIdentifierSet(), "")
	assert.ErrorIs(t, err, core.ErrMissingOption)
}

func TestService_ComponentType(t *testing.T) {
	svc := core.NewService(NewMockSource(), nil)
	assert.Equal(t, "join-service", svc.ComponentType())
	assert.Equal(t, "source", svc.State().(core.ServiceState).SourceType)
}
