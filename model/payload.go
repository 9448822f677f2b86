package model

import (
	"encoding/json"
	"fmt"
)

// FileData is the JSON payload produced by the upstream analysis tool. It
// describes the physical byte layout of one Parquet file; no file bytes are
// ever read here.
type FileData struct {
	Source       string            `json:"source"`
	FileSize     int64             `json:"filesize"`
	ColumnChunks []ColumnChunkData `json:"column_chunks"`
	Metadata     *FileMetadata     `json:"metadata"`
}

// ColumnChunkData is the physical record of one column chunk.
type ColumnChunkData struct {
	PathInSchema      string    `json:"path_in_schema"`
	StartOffset       int64     `json:"start_offset"`
	TotalByteSize     int64     `json:"total_byte_size"`
	NumValues         int64     `json:"num_values"`
	Codec             int32     `json:"codec"`
	ColumnIndexLength int64     `json:"column_index_length,omitempty"`
	DictionaryPage    *PageData `json:"dictionary_page,omitempty"`
	DataPages         []PageData `json:"data_pages,omitempty"`
	IndexPages        []PageData `json:"index_pages,omitempty"`
}

// PageData is the record of one page inside a column chunk.
type PageData struct {
	StartOffset          int64           `json:"start_offset"`
	HeaderSize           int64           `json:"header_size"`
	CompressedPageSize   int64           `json:"compressed_page_size"`
	UncompressedPageSize int64           `json:"uncompressed_page_size"`
	Encoding             int32           `json:"encoding"`
	PageType             int32           `json:"page_type"`
	NumValues            int64           `json:"num_values,omitempty"`
	NumRows              int64           `json:"num_rows,omitempty"`
	Statistics           json.RawMessage `json:"statistics,omitempty"`
}

// FileMetadata mirrors the footer-derived portion of the payload.
type FileMetadata struct {
	SchemaRoot       *SchemaNode     `json:"schema_root"`
	RowGroups        []RowGroupMeta  `json:"row_groups,omitempty"`
	KeyValueMetadata []KeyValueEntry `json:"key_value_metadata,omitempty"`
	CompressionStats json.RawMessage `json:"compression_stats,omitempty"`
	Version          int32           `json:"version,omitempty"`
	CreatedBy        string          `json:"created_by,omitempty"`
	ColumnCount      int             `json:"column_count,omitempty"`
	RowCount         int64           `json:"row_count,omitempty"`
	RowGroupCount    int             `json:"row_group_count,omitempty"`
	TotalByteSize    int64           `json:"total_byte_size,omitempty"`
}

// SchemaNode is one node of the schema tree: a group with children, or a
// leaf column with type information.
type SchemaNode struct {
	ElementType   string                 `json:"element_type"`
	Children      map[string]*SchemaNode `json:"children,omitempty"`
	Type          int32                  `json:"type,omitempty"`
	LogicalType   string                 `json:"logical_type,omitempty"`
	ConvertedType string                 `json:"converted_type,omitempty"`
	Repetition    int32                  `json:"repetition,omitempty"`
	FieldID       int32                  `json:"field_id,omitempty"`
	ByteLength    int64                  `json:"byte_length,omitempty"`
}

// IsGroup reports whether this node is a group (inner) node.
func (n *SchemaNode) IsGroup() bool {
	return n != nil && n.ElementType == "group"
}

// RowGroupMeta is the logical (footer) record of one row group.
type RowGroupMeta struct {
	RowCount     int64                  `json:"row_count"`
	ByteLength   int64                  `json:"byte_length,omitempty"`
	ColumnChunks map[string]*ColumnMeta `json:"column_chunks,omitempty"`
}

// ColumnMeta is the logical (footer) record of one column chunk, keyed by
// column path within its row group.
type ColumnMeta struct {
	NumValues             int64           `json:"num_values,omitempty"`
	TotalCompressedSize   int64           `json:"total_compressed_size,omitempty"`
	TotalUncompressedSize int64           `json:"total_uncompressed_size,omitempty"`
	Codec                 int32           `json:"codec,omitempty"`
	Encodings             []int32         `json:"encodings,omitempty"`
	ByteLength            int64           `json:"byte_length,omitempty"`
	Statistics            json.RawMessage `json:"statistics,omitempty"`
}

// KeyValueEntry is one application key/value metadata record.
type KeyValueEntry struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	ByteLength  int64  `json:"byte_length,omitempty"`
	StartOffset int64  `json:"start_offset,omitempty"`
}

// ParseFileData decodes and validates the upstream JSON payload. Missing
// required fields fail hard; everything optional degrades downstream.
func ParseFileData(data []byte) (*FileData, error) {
	var fd FileData
	if err := json.Unmarshal(data, &fd); err != nil {
		return nil, fmt.Errorf("failed to parse layout payload: %w", err)
	}
	if err := fd.Validate(); err != nil {
		return nil, err
	}
	return &fd, nil
}

// Validate presence-checks the required top-level fields.
func (fd *FileData) Validate() error {
	if fd.Source == "" {
		return fmt.Errorf("%w: source", ErrMissingField)
	}
	if fd.FileSize <= 0 {
		return fmt.Errorf("%w: filesize", ErrMissingField)
	}
	if fd.ColumnChunks == nil {
		return fmt.Errorf("%w: column_chunks", ErrMissingField)
	}
	if fd.Metadata == nil {
		return fmt.Errorf("%w: metadata", ErrMissingField)
	}
	if fd.Metadata.SchemaRoot == nil {
		return fmt.Errorf("%w: metadata.schema_root", ErrMissingField)
	}
	return nil
}
