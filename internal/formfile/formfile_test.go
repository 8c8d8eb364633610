package formfile

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solatis/formlogic/internal/rules"
	"github.com/solatis/formlogic/internal/types"
)

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "form.json", want: FormatJSON},
		{path: "form.YAML", want: FormatYAML},
		{path: "dir/form.yml", want: FormatYAML},
		{path: "form.toml", wantErr: true},
		{path: "form", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFor(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadDefinition_JSONAndYAMLAgree(t *testing.T) {
	fromJSON, err := LoadDefinition("testdata/permit.json")
	require.NoError(t, err)
	fromYAML, err := LoadDefinition("testdata/permit.yaml")
	require.NoError(t, err)

	if diff := cmp.Diff(fromJSON, fromYAML); diff != "" {
		t.Errorf("JSON and YAML definitions differ (-json +yaml):\n%s", diff)
	}

	require.Len(t, fromJSON.Fields, 4)
	notes := fromJSON.Fields[3]
	require.NotNil(t, notes.Logic)
	assert.Equal(t, types.ActionRequire, notes.Logic.Action)
	require.Len(t, notes.Logic.ConditionGroup.Rules, 2)
	assert.True(t, notes.Logic.ConditionGroup.Rules[0].IsCondition())
	assert.Equal(t, "10", notes.Logic.ConditionGroup.Rules[0].Condition.Value)
	assert.NotNil(t, notes.Logic.ConditionGroup.Rules[1].Group)
}

func TestDecodeDefinition_BareFieldList(t *testing.T) {
	def, err := DecodeDefinition([]byte(`[{"id":"a","name":"a","type":"text","logic":null}]`), FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, def.Sections)
	require.Len(t, def.Fields, 1)
	assert.Equal(t, "a", def.Fields[0].ID)
}

func TestDecodeDefinition_Errors(t *testing.T) {
	_, err := DecodeDefinition([]byte(`{"fields": [`), FormatJSON)
	assert.Error(t, err)

	_, err = DecodeDefinition([]byte("fields: [\n"), FormatYAML)
	assert.Error(t, err)
}

func TestLoadValues(t *testing.T) {
	values, err := LoadValues("testdata/values.yaml")
	require.NoError(t, err)
	assert.Equal(t, types.KindString, values.Get("hot_work").Kind())
	assert.Equal(t, types.KindNumber, values.Get("crew").Kind())
	assert.Equal(t, types.KindAbsent, values.Get("notes").Kind())

	values, err = LoadValues("testdata/values.json")
	require.NoError(t, err)
	assert.Equal(t, types.KindRows, values.Get("items").Kind())
	assert.Equal(t, types.KindNull, values.Get("notes").Kind())
}

func TestDecodeValues_Empty(t *testing.T) {
	values, err := DecodeValues(nil, FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, values)

	values, err = DecodeValues([]byte("null"), FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestWriteDefinition_RoundTrip(t *testing.T) {
	def, err := LoadDefinition("testdata/permit.json")
	require.NoError(t, err)

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteDefinition(&buf, def, format))

			again, err := DecodeDefinition(buf.Bytes(), format)
			require.NoError(t, err)
			if diff := cmp.Diff(def, again); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// fieldMembers decodes a written definition generically and indexes its
// fields by id.
func fieldMembers(t *testing.T, data []byte, format Format) map[string]map[string]any {
	t.Helper()
	data, err := toJSON(data, format)
	require.NoError(t, err)
	var doc struct {
		Fields []map[string]any `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	out := make(map[string]map[string]any, len(doc.Fields))
	for _, f := range doc.Fields {
		out[f["id"].(string)] = f
	}
	return out
}

func TestWriteDefinition_KeepsBuilderMembersThroughPurge(t *testing.T) {
	raw, err := os.ReadFile("testdata/builder.json")
	require.NoError(t, err)
	before := fieldMembers(t, raw, FormatJSON)

	def, err := DecodeDefinition(raw, FormatJSON)
	require.NoError(t, err)
	require.Len(t, def.Fields, 3)
	assert.Equal(t, []types.Option{{Value: "yard", Label: "Yard"}, {Value: "shop", Label: "Shop"}}, def.Fields[0].Options)

	def.Fields = rules.RemoveFields(def.Fields, "fld_old")

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteDefinition(&buf, def, format))
			after := fieldMembers(t, buf.Bytes(), format)

			require.Len(t, after, 2)
			assert.NotContains(t, after, "fld_old")

			// Only the purged rule differs on the surviving fields.
			for _, id := range []string{"fld_area", "fld_items"} {
				want, got := before[id], after[id]
				delete(want, "logic")
				delete(got, "logic")
				// Null options and a zero order are not written back.
				if want["options"] == nil {
					delete(want, "options")
				}
				if want["order"] == float64(0) {
					delete(want, "order")
				}
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("%s members changed (-want +got):\n%s", id, diff)
				}
			}

			again, err := DecodeDefinition(buf.Bytes(), format)
			require.NoError(t, err)
			items := again.Fields[1]
			require.NotNil(t, items.Logic)
			require.Len(t, items.Logic.ConditionGroup.Rules, 1)
			assert.Equal(t, "fld_area", items.Logic.ConditionGroup.Rules[0].Condition.FieldID)
			assert.Equal(t, "Add a row", items.Extra["placeholder"])
		})
	}
}

func TestSaveDefinition(t *testing.T) {
	def, err := LoadDefinition("testdata/permit.yaml")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.yml")
	require.NoError(t, SaveDefinition(path, def))

	again, err := LoadDefinition(path)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(def, again))

	dir := t.TempDir()
	assert.ErrorIs(t, SaveDefinition(filepath.Join(dir, "out.txt"), def), types.ErrUnsupportedFormat)

	_, err = os.Stat(filepath.Join(dir, "out.txt"))
	assert.True(t, os.IsNotExist(err))
}
