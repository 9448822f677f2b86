package model

import (
	"fmt"
)

// Hierarchy level names. A level is one row of sibling segments.
const (
	LevelOverview          = "overview"
	LevelRowGroups         = "rowgroups"
	LevelColumnChunks      = "columnchunks"
	LevelPages             = "pages"
	LevelMetadataStructure = "metadatastructure"
	LevelSchemaElements    = "schemaelements"
	LevelRowGroupMeta      = "rowgroupmeta"
	LevelColumnChunkMeta   = "columnchunkmeta"
	LevelIndexElements     = "indexelements"
	LevelKeyValueEntries   = "keyvalueentries"
)

// SegmentKind classifies a segment. It is assigned once at construction by
// the hierarchy builder; nothing re-derives it from which fields happen to
// be set.
type SegmentKind int

const (
	KindGeneric SegmentKind = iota
	KindMagic
	KindRowGroupRegion
	KindMetadataRegion
	KindFooter
	KindRowGroup
	KindColumnChunk
	KindPage
	KindSchemaBlock
	KindRowGroupMetaBlock
	KindColumnIndexBlock
	KindKeyValueBlock
	KindSchemaElement
	KindRowGroupMetaElement
	KindColumnChunkMetaElement
	KindIndexElement
	KindKeyValueEntry
)

// String returns a short display name for the kind.
func (k SegmentKind) String() string {
	switch k {
	case KindMagic:
		return "magic"
	case KindRowGroupRegion:
		return "rowgroup-region"
	case KindMetadataRegion:
		return "metadata-region"
	case KindFooter:
		return "footer"
	case KindRowGroup:
		return "rowgroup"
	case KindColumnChunk:
		return "columnchunk"
	case KindPage:
		return "page"
	case KindSchemaBlock:
		return "schema-block"
	case KindRowGroupMetaBlock:
		return "rowgroupmeta-block"
	case KindColumnIndexBlock:
		return "columnindex-block"
	case KindKeyValueBlock:
		return "keyvalue-block"
	case KindSchemaElement:
		return "schema-element"
	case KindRowGroupMetaElement:
		return "rowgroupmeta-element"
	case KindColumnChunkMetaElement:
		return "columnchunkmeta-element"
	case KindIndexElement:
		return "index-element"
	case KindKeyValueEntry:
		return "keyvalue-entry"
	default:
		return "generic"
	}
}

// Segment is one labeled byte range of the analyzed file, the atomic visual
// and navigational unit. Segments are immutable after construction.
type Segment struct {
	ID   string
	Name string
	Kind SegmentKind

	// [Start, End) byte bounds; 0 <= Start <= End always holds for built
	// segments.
	Start int64
	End   int64

	// Structural links; -1 / "" when not applicable.
	RowGroupIndex int
	ChunkIndex    int
	PageIndex     int
	ColumnPath    string

	// Kind-specific payloads from the source JSON. Physical/Logical are
	// paired only for column-chunk segments.
	Physical   *ColumnChunkData
	Logical    *ColumnMeta
	Page       *PageData
	SchemaNode *SchemaNode
	RowGroup   *RowGroupMeta
	KeyValue   *KeyValueEntry
}

// Size returns the byte length of the segment.
func (s *Segment) Size() int64 {
	return s.End - s.Start
}

// ChildLevel returns the hierarchy level a drill-down into this segment
// reveals, or ok=false when the segment is a leaf. The mapping is total over
// every kind the builder produces.
func (s *Segment) ChildLevel() (string, bool) {
	switch s.Kind {
	case KindRowGroupRegion:
		return LevelRowGroups, true
	case KindMetadataRegion:
		return LevelMetadataStructure, true
	case KindRowGroup:
		return LevelColumnChunks, true
	case KindColumnChunk:
		return LevelPages, true
	case KindSchemaBlock:
		return LevelSchemaElements, true
	case KindSchemaElement:
		if s.SchemaNode.IsGroup() && len(s.SchemaNode.Children) > 0 {
			return LevelSchemaElements, true
		}
		return "", false
	case KindRowGroupMetaBlock:
		return LevelRowGroupMeta, true
	case KindRowGroupMetaElement:
		return LevelColumnChunkMeta, true
	case KindColumnIndexBlock:
		return LevelIndexElements, true
	case KindKeyValueBlock:
		return LevelKeyValueEntries, true
	default:
		return "", false
	}
}

// Description returns a longer human-readable label derived from the
// segment's own fields. Every kind maps to something; unknown kinds fall
// back to the byte range.
func (s *Segment) Description() string {
	switch s.Kind {
	case KindMagic:
		return "PAR1 magic marker"
	case KindRowGroupRegion:
		return fmt.Sprintf("Row group data, %s", FormatBytes(s.Size()))
	case KindMetadataRegion:
		return fmt.Sprintf("File metadata, %s", FormatBytes(s.Size()))
	case KindFooter:
		return "Footer length field"
	case KindRowGroup:
		if s.RowGroup != nil {
			return fmt.Sprintf("Row group %d, %s rows, %s",
				s.RowGroupIndex, FormatCount(s.RowGroup.RowCount), FormatBytes(s.Size()))
		}
		return fmt.Sprintf("Row group %d, %s", s.RowGroupIndex, FormatBytes(s.Size()))
	case KindColumnChunk:
		if s.Physical != nil {
			return fmt.Sprintf("Column chunk %s, %s values, %s codec",
				s.ColumnPath, FormatCount(s.Physical.NumValues), CodecName(s.Physical.Codec))
		}
		return fmt.Sprintf("Column chunk %s", s.ColumnPath)
	case KindPage:
		if s.Page != nil {
			return fmt.Sprintf("%s, %s encoding, %s",
				PageTypeName(s.Page.PageType), EncodingName(s.Page.Encoding), FormatBytes(s.Size()))
		}
		return fmt.Sprintf("Page %d", s.PageIndex)
	case KindSchemaBlock:
		return fmt.Sprintf("Schema tree, %s", FormatBytes(s.Size()))
	case KindRowGroupMetaBlock:
		return fmt.Sprintf("Row group metadata, %s", FormatBytes(s.Size()))
	case KindColumnIndexBlock:
		return fmt.Sprintf("Column and offset indices, %s (estimated)", FormatBytes(s.Size()))
	case KindKeyValueBlock:
		return fmt.Sprintf("Key/value metadata, %s", FormatBytes(s.Size()))
	case KindSchemaElement:
		if s.SchemaNode.IsGroup() {
			return fmt.Sprintf("Group %s, %d children", s.Name, len(s.SchemaNode.Children))
		}
		if s.SchemaNode != nil {
			return fmt.Sprintf("Column %s, %s %s",
				s.Name, RepetitionName(s.SchemaNode.Repetition), PhysicalTypeName(s.SchemaNode.Type))
		}
		return fmt.Sprintf("Schema element %s", s.Name)
	case KindRowGroupMetaElement:
		return fmt.Sprintf("Metadata for row group %d", s.RowGroupIndex)
	case KindColumnChunkMetaElement:
		return fmt.Sprintf("Column metadata for %s", s.ColumnPath)
	case KindIndexElement:
		return fmt.Sprintf("%s, %s", s.Name, FormatBytes(s.Size()))
	case KindKeyValueEntry:
		if s.KeyValue != nil {
			return fmt.Sprintf("Key %q, %s", s.KeyValue.Key, FormatBytes(s.Size()))
		}
		return "Key/value entry"
	default:
		return fmt.Sprintf("Bytes [%d, %d)", s.Start, s.End)
	}
}
