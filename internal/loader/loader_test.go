package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-stdlog/stdlog"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexhholmes/layoutdecl/internal/field"
	"github.com/alexhholmes/layoutdecl/internal/layout"
)

const exported = `{"header":[` +
	`{"id":"a1","type":"Number","label":"Age","offsetsExpression":{"type":"StaticOffsets","start":0,"end":3}},` +
	`{"id":"b2","type":"String","label":"Name","offsetsExpression":{"type":"StaticOffsets","start":4,"end":39},"constraints":{"description":"Full name"}}` +
	`],"body":{"a1":"42"}}`

const exportedYAML = `
header:
  - id: a1
    type: Number
    label: Age
    offsetsExpression:
      type: StaticOffsets
      start: 0
      end: 3
  - id: b2
    type: String
    label: Name
    offsetsExpression: {type: StaticOffsets, start: 4, end: 39}
    constraints:
      description: Full name
body:
  a1: "42"
`

func wantSnapshot() layout.Snapshot {
	return layout.Snapshot{
		Header: []field.Field{
			{ID: "a1", Kind: field.Number, Name: "Age", Offsets: field.Offsets{Type: field.StaticOffsets, Start: 0, End: 3}},
			{
				ID: "b2", Kind: field.String, Name: "Name",
				Offsets:     field.Offsets{Type: field.StaticOffsets, Start: 4, End: 39},
				Constraints: map[string]string{"description": "Full name"},
			},
		},
		Body: map[string]string{"a1": "42"},
	}
}

func TestParse(t *testing.T) {
	l := New(nil, nil)

	tests := []struct {
		name string
		path string
		data string
	}{
		{"json", "data.json", exported},
		{"yaml", "data.yaml", exportedYAML},
		{"yml", "data.YML", exportedYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.Parse([]byte(tt.data), tt.path)
			require.NoError(t, err)
			if diff := cmp.Diff(wantSnapshot(), got); diff != "" {
				t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	l := New(nil, nil)

	_, err := l.Parse([]byte(`{"header":[],"body":{},"extra":1}`), "data.json")
	assert.Error(t, err)

	_, err = l.Parse([]byte("header: []\nfooter: []\n"), "data.yaml")
	assert.Error(t, err)

	s, err := l.Parse([]byte(`{"header":[]}`), "data.json")
	require.NoError(t, err)
	assert.NotNil(t, s.Body)
}

func TestLoadFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(src, []byte(exported), 0o644))

	m := layout.NewModel()
	l := New(field.NewValidator(), stdlog.Discard)
	require.NoError(t, l.LoadFile(src, m))

	if diff := cmp.Diff(wantSnapshot(), m.Snapshot()); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}

	data, err := m.Export()
	require.NoError(t, err)
	assert.JSONEq(t, exported, string(data))
}

func TestRestoreRejectsInvalidFields(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "reversed range",
			doc:  `{"header":[{"id":"a","type":"Number","label":"Age","offsetsExpression":{"type":"StaticOffsets","start":5,"end":2}}],"body":{}}`,
		},
		{
			name: "unknown kind",
			doc:  `{"header":[{"id":"a","type":"Blob","label":"Age","offsetsExpression":{"type":"StaticOffsets","start":0,"end":2}}],"body":{}}`,
		},
		{
			name: "duplicate id",
			doc: `{"header":[` +
				`{"id":"a","type":"Number","label":"A","offsetsExpression":{"type":"StaticOffsets","start":0,"end":2}},` +
				`{"id":"a","type":"Number","label":"B","offsetsExpression":{"type":"StaticOffsets","start":3,"end":5}}` +
				`],"body":{}}`,
		},
		{
			name: "missing id",
			doc:  `{"header":[{"type":"Number","label":"Age","offsetsExpression":{"type":"StaticOffsets","start":0,"end":2}}],"body":{}}`,
		},
		{
			name: "other offsets type",
			doc:  `{"header":[{"id":"a","type":"Number","label":"Age","offsetsExpression":{"type":"DynamicOffsets","start":0,"end":2}}],"body":{}}`,
		},
	}

	l := New(nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := l.Parse([]byte(tt.doc), "doc.json")
			require.NoError(t, err)

			err = l.Restore(s, layout.NewModel())
			assert.Error(t, err)
		})
	}
}

func TestRestoreLeavesModelOnFailure(t *testing.T) {
	m := layout.NewModel()
	kept := field.Field{ID: "k", Kind: field.Number, Name: "Kept", Offsets: field.Offsets{Type: field.StaticOffsets, Start: 0, End: 1}}
	require.NoError(t, m.Insert(kept))
	before := m.Snapshot()

	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "duplicate of existing id after a good field",
			doc: `{"header":[` +
				`{"id":"a","type":"Number","label":"A","offsetsExpression":{"type":"StaticOffsets","start":2,"end":3}},` +
				`{"id":"k","type":"Number","label":"B","offsetsExpression":{"type":"StaticOffsets","start":4,"end":5}}` +
				`],"body":{"a":"1"}}`,
		},
		{
			name: "invalid range after a good field",
			doc: `{"header":[` +
				`{"id":"a","type":"Number","label":"A","offsetsExpression":{"type":"StaticOffsets","start":2,"end":3}},` +
				`{"id":"b","type":"Number","label":"B","offsetsExpression":{"type":"StaticOffsets","start":9,"end":4}}` +
				`],"body":{"a":"1"}}`,
		},
	}

	l := New(nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := l.Parse([]byte(tt.doc), "doc.json")
			require.NoError(t, err)

			require.Error(t, l.Restore(s, m))
			if diff := cmp.Diff(before, m.Snapshot()); diff != "" {
				t.Fatalf("model changed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRestoreWithCustomKinds(t *testing.T) {
	doc := `{"header":[{"id":"a","type":"Date","label":"Born","offsetsExpression":{"type":"StaticOffsets","start":0,"end":7}}],"body":{}}`

	strict := New(nil, nil)
	s, err := strict.Parse([]byte(doc), "doc.json")
	require.NoError(t, err)
	assert.ErrorIs(t, strict.Restore(s, layout.NewModel()), field.ErrInvalid)

	custom := New(field.NewValidator(field.WithKinds("Date")), nil)
	m := layout.NewModel()
	require.NoError(t, custom.Restore(s, m))
	assert.Equal(t, 1, m.Len())
}

func TestLoadFileMissing(t *testing.T) {
	err := New(nil, nil).LoadFile(filepath.Join(t.TempDir(), "nope.json"), layout.NewModel())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
