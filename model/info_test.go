package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_BuildInfoPanel_CommonGroup(t *testing.T) {
	h := testHierarchy(t)
	seg, err := h.FindSegment("overview-rowgroups")
	require.NoError(t, err)

	groups := BuildInfoPanel(seg)
	require.NotEmpty(t, groups)
	require.Equal(t, seg.Name, groups[0].Title)

	keys := make([]string, len(groups[0].Entries))
	for i, e := range groups[0].Entries {
		keys[i] = e.Key
	}
	require.Equal(t, []string{"Description", "Offset", "Size"}, keys)
	require.Equal(t, "0x4 (4)", groups[0].Entries[1].Value)
}

func Test_BuildInfoPanel_RowGroup(t *testing.T) {
	h := testHierarchy(t)
	seg, err := h.FindSegment("rowgroup-0")
	require.NoError(t, err)

	groups := BuildInfoPanel(seg)
	require.Len(t, groups, 2)
	require.Equal(t, "Row Group", groups[1].Title)
	require.Equal(t, "Rows", groups[1].Entries[0].Key)
	require.Equal(t, "100", groups[1].Entries[0].Value)
}

func Test_BuildInfoPanel_ColumnChunk(t *testing.T) {
	h := testHierarchy(t)
	seg, err := h.FindSegment("chunk-0-0")
	require.NoError(t, err)

	groups := BuildInfoPanel(seg)
	require.Len(t, groups, 3)
	require.Equal(t, "Physical", groups[1].Title)
	require.Equal(t, "Logical", groups[2].Title)

	logical := map[string]string{}
	for _, e := range groups[2].Entries {
		logical[e.Key] = e.Value
	}
	require.Equal(t, "2.00x", logical["Ratio"])
	require.Equal(t, "PLAIN, RLE", logical["Encodings"])
}

func Test_BuildInfoPanel_ColumnChunk_PhysicalOnly(t *testing.T) {
	// A chunk whose path matches no footer record degrades to physical-only
	seg := &Segment{
		Name:       "orphan",
		Kind:       KindColumnChunk,
		ColumnPath: "orphan",
		Physical:   &ColumnChunkData{PathInSchema: "orphan", NumValues: 5},
	}
	groups := BuildInfoPanel(seg)
	require.Len(t, groups, 2)
	require.Equal(t, "Physical", groups[1].Title)
}

func Test_BuildInfoPanel_Page(t *testing.T) {
	h := testHierarchy(t)
	seg, err := h.FindSegment("page-0-0-0")
	require.NoError(t, err)

	groups := BuildInfoPanel(seg)
	require.Len(t, groups, 2)
	require.Equal(t, "Page", groups[1].Title)
	require.Equal(t, "DICTIONARY_PAGE", groups[1].Entries[0].Value)
}

func Test_BuildInfoPanel_SchemaElement(t *testing.T) {
	h := testHierarchy(t)
	seg, err := h.FindSegment("schema-a")
	require.NoError(t, err)

	groups := BuildInfoPanel(seg)
	require.Len(t, groups, 2)
	require.Equal(t, "Schema Column", groups[1].Title)
	require.Equal(t, "INT32", groups[1].Entries[0].Value)
}

func Test_BuildInfoPanel_IndexElement(t *testing.T) {
	h := testHierarchy(t)
	seg, err := h.FindSegment("index-0-0-offset")
	require.NoError(t, err)

	groups := BuildInfoPanel(seg)
	require.Len(t, groups, 2)
	found := false
	for _, e := range groups[1].Entries {
		if strings.Contains(e.Value, "estimated") {
			found = true
		}
	}
	require.True(t, found, "offset index panel should note the size is estimated")
}

func Test_BuildInfoPanel_KeyValue_JSONTree(t *testing.T) {
	h := testHierarchy(t)

	// The pandas entry holds a JSON document: rendered as an indented tree
	seg, err := h.FindSegment("kv-1")
	require.NoError(t, err)
	groups := BuildInfoPanel(seg)
	require.Len(t, groups, 2)
	value := groups[1].Entries[1].Value
	require.Contains(t, value, "columns:")
	require.Contains(t, value, "\n")
	require.Contains(t, value, `name: "a"`)

	// The plain-text entry renders escaped, not as a tree
	seg, err = h.FindSegment("kv-0")
	require.NoError(t, err)
	groups = BuildInfoPanel(seg)
	require.Equal(t, `"example"`, groups[1].Entries[1].Value)
}

func Test_RenderKeyValue(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{"Plain text", "hello world", `"hello world"`},
		{"Scalar JSON number", "42", "42"},
		{"Flat object", `{"b":2,"a":1}`, "a: 1\nb: 2"},
		{"Nested object", `{"outer":{"inner":true}}`, "outer:\n  inner: true"},
		{"Array", `[1,"x"]`, "[0]: 1\n[1]: \"x\""},
		{"Null value", `{"k":null}`, "k: null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, RenderKeyValue(tt.value))
		})
	}
}
