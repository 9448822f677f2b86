package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// InfoEntry is one key/value line of the detail panel.
type InfoEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// InfoGroup is one titled block of detail-panel lines.
type InfoGroup struct {
	Title   string      `json:"title"`
	Entries []InfoEntry `json:"entries"`
}

// BuildInfoPanel derives the detail panel for a selected segment. The set
// of fields per kind is the contract; exact number formatting is display
// convenience.
func BuildInfoPanel(seg *Segment) []InfoGroup {
	groups := []InfoGroup{{
		Title: seg.Name,
		Entries: []InfoEntry{
			{Key: "Description", Value: seg.Description()},
			{Key: "Offset", Value: fmt.Sprintf("0x%X (%s)", seg.Start, FormatCount(seg.Start))},
			{Key: "Size", Value: FormatBytes(seg.Size())},
		},
	}}

	switch seg.Kind {
	case KindRowGroup:
		if rg := seg.RowGroup; rg != nil {
			groups = append(groups, InfoGroup{
				Title: "Row Group",
				Entries: []InfoEntry{
					{Key: "Rows", Value: FormatCount(rg.RowCount)},
					{Key: "Columns", Value: strconv.Itoa(len(rg.ColumnChunks))},
				},
			})
		}
	case KindColumnChunk:
		groups = append(groups, columnChunkGroups(seg)...)
	case KindPage:
		if p := seg.Page; p != nil {
			entries := []InfoEntry{
				{Key: "Page Type", Value: PageTypeName(p.PageType)},
				{Key: "Encoding", Value: EncodingName(p.Encoding)},
				{Key: "Header Size", Value: FormatBytes(p.HeaderSize)},
				{Key: "Compressed", Value: FormatBytes(p.CompressedPageSize)},
				{Key: "Uncompressed", Value: FormatBytes(p.UncompressedPageSize)},
			}
			if p.NumValues > 0 {
				entries = append(entries, InfoEntry{Key: "Values", Value: FormatCount(p.NumValues)})
			}
			if p.NumRows > 0 {
				entries = append(entries, InfoEntry{Key: "Rows", Value: FormatCount(p.NumRows)})
			}
			groups = append(groups, InfoGroup{Title: "Page", Entries: entries})
		}
	case KindSchemaElement:
		if n := seg.SchemaNode; n != nil {
			if n.IsGroup() {
				groups = append(groups, InfoGroup{
					Title: "Schema Group",
					Entries: []InfoEntry{
						{Key: "Children", Value: strconv.Itoa(len(n.Children))},
						{Key: "Repetition", Value: RepetitionName(n.Repetition)},
					},
				})
			} else {
				groups = append(groups, InfoGroup{
					Title: "Schema Column",
					Entries: []InfoEntry{
						{Key: "Physical Type", Value: PhysicalTypeName(n.Type)},
						{Key: "Logical Type", Value: LogicalTypeName(n.LogicalType)},
						{Key: "Converted Type", Value: LogicalTypeName(n.ConvertedType)},
						{Key: "Repetition", Value: RepetitionName(n.Repetition)},
						{Key: "Field ID", Value: strconv.Itoa(int(n.FieldID))},
					},
				})
			}
		}
	case KindKeyValueEntry:
		if kv := seg.KeyValue; kv != nil {
			groups = append(groups, InfoGroup{
				Title: "Key/Value Entry",
				Entries: []InfoEntry{
					{Key: "Key", Value: kv.Key},
					{Key: "Value", Value: RenderKeyValue(kv.Value)},
				},
			})
		}
	case KindIndexElement:
		groups = append(groups, InfoGroup{
			Title: "Index",
			Entries: []InfoEntry{
				{Key: "Column", Value: seg.ColumnPath},
				{Key: "Note", Value: "offset-index size is estimated, not read from the file"},
			},
		})
	case KindColumnChunkMetaElement:
		if cm := seg.Logical; cm != nil {
			groups = append(groups, InfoGroup{
				Title: "Column Metadata",
				Entries: []InfoEntry{
					{Key: "Column", Value: seg.ColumnPath},
					{Key: "Codec", Value: CodecName(cm.Codec)},
					{Key: "Values", Value: FormatCount(cm.NumValues)},
				},
			})
		}
	}
	return groups
}

// columnChunkGroups pairs the physical chunk record with the logical footer
// record; a chunk whose path matches no footer record degrades to
// physical-only display.
func columnChunkGroups(seg *Segment) []InfoGroup {
	var groups []InfoGroup
	if cc := seg.Physical; cc != nil {
		groups = append(groups, InfoGroup{
			Title: "Physical",
			Entries: []InfoEntry{
				{Key: "Column", Value: cc.PathInSchema},
				{Key: "Codec", Value: CodecName(cc.Codec)},
				{Key: "Values", Value: FormatCount(cc.NumValues)},
				{Key: "Pages", Value: strconv.Itoa(pageCount(cc))},
			},
		})
	}
	if cm := seg.Logical; cm != nil {
		entries := []InfoEntry{
			{Key: "Compressed", Value: FormatBytes(cm.TotalCompressedSize)},
			{Key: "Uncompressed", Value: FormatBytes(cm.TotalUncompressedSize)},
		}
		if cm.TotalCompressedSize > 0 {
			ratio := float64(cm.TotalUncompressedSize) / float64(cm.TotalCompressedSize)
			entries = append(entries, InfoEntry{Key: "Ratio", Value: FormatRatio(ratio)})
		}
		if len(cm.Encodings) > 0 {
			names := make([]string, len(cm.Encodings))
			for i, enc := range cm.Encodings {
				names[i] = EncodingName(enc)
			}
			entries = append(entries, InfoEntry{Key: "Encodings", Value: strings.Join(names, ", ")})
		}
		groups = append(groups, InfoGroup{Title: "Logical", Entries: entries})
	}
	return groups
}

func pageCount(cc *ColumnChunkData) int {
	n := len(cc.DataPages) + len(cc.IndexPages)
	if cc.DictionaryPage != nil {
		n++
	}
	return n
}

// RenderKeyValue renders a key/value metadata value. Values that parse as
// JSON render as an indented tree; anything else renders as escaped plain
// text.
func RenderKeyValue(value string) string {
	var parsed any
	if err := json.Unmarshal([]byte(value), &parsed); err != nil {
		return strconv.Quote(value)
	}
	var b strings.Builder
	renderJSONTree(&b, parsed, 0)
	return strings.TrimRight(b.String(), "\n")
}

// renderJSONTree writes one node of a parsed JSON document as an indented
// tree, object keys sorted for stable output.
func renderJSONTree(b *strings.Builder, node any, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v := node.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child := v[k]
			if isJSONScalar(child) {
				fmt.Fprintf(b, "%s%s: %s\n", indent, k, jsonScalar(child))
				continue
			}
			fmt.Fprintf(b, "%s%s:\n", indent, k)
			renderJSONTree(b, child, depth+1)
		}
	case []any:
		for i, item := range v {
			if isJSONScalar(item) {
				fmt.Fprintf(b, "%s[%d]: %s\n", indent, i, jsonScalar(item))
				continue
			}
			fmt.Fprintf(b, "%s[%d]:\n", indent, i)
			renderJSONTree(b, item, depth+1)
		}
	default:
		fmt.Fprintf(b, "%s%s\n", indent, jsonScalar(v))
	}
}

func isJSONScalar(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return false
	default:
		return true
	}
}

func jsonScalar(v any) string {
	switch s := v.(type) {
	case string:
		return strconv.Quote(s)
	case nil:
		return "null"
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", v)
	}
}
