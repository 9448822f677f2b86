package model

import (
	"fmt"
	"sort"
)

// Fixed sizes of the Parquet file frame: 4-byte magic at both ends, 4-byte
// footer length field in front of the trailing magic.
const (
	magicSize  = 4
	footerSize = 8
)

// Estimates used when the source JSON does not record a byte length.
// The offset-index size in particular is a visual approximation, not an
// exact read; see DESIGN.md.
const (
	rowGroupMetaEstimate   = 100
	offsetIndexMinEstimate = 50
	offsetIndexRatio       = 0.3
)

// Hierarchy is the fully built, read-only segment cache for one loaded
// file. Child buckets are keyed by the parent segment's id so one retrieval
// function serves every level. The cache is safe for concurrent reads.
type Hierarchy struct {
	fd *FileData

	overview      []*Segment
	rowGroups     []*Segment
	metaStructure []*Segment

	columnChunks    map[string][]*Segment
	pages           map[string][]*Segment
	schemaElements  map[string][]*Segment
	rowGroupMeta    map[string][]*Segment
	columnChunkMeta map[string][]*Segment
	indexElements   map[string][]*Segment
	keyValues       map[string][]*Segment
}

// BuildHierarchy constructs every level of the segment tree from the
// payload. Construction is all-or-nothing: a validation failure builds
// nothing, and missing optional structure yields empty levels rather than
// errors.
func BuildHierarchy(fd *FileData) (*Hierarchy, error) {
	if fd == nil {
		return nil, fmt.Errorf("%w: file data", ErrMissingField)
	}
	if err := fd.Validate(); err != nil {
		return nil, err
	}

	h := &Hierarchy{
		fd:              fd,
		columnChunks:    map[string][]*Segment{},
		pages:           map[string][]*Segment{},
		schemaElements:  map[string][]*Segment{},
		rowGroupMeta:    map[string][]*Segment{},
		columnChunkMeta: map[string][]*Segment{},
		indexElements:   map[string][]*Segment{},
		keyValues:       map[string][]*Segment{},
	}

	h.overview = buildOverviewSegments(fd)
	h.rowGroups = buildRowGroupSegments(fd)
	for _, rg := range h.rowGroups {
		chunks := buildColumnChunkSegments(fd, rg.RowGroupIndex)
		h.columnChunks[rg.ID] = chunks
		for _, chunk := range chunks {
			h.pages[chunk.ID] = buildPageSegments(chunk)
		}
	}
	h.metaStructure = buildMetadataStructureSegments(fd)
	for _, block := range h.metaStructure {
		switch block.Kind {
		case KindSchemaBlock:
			buildSchemaElementSegments(fd.Metadata.SchemaRoot, block.ID, block.Start, "", h.schemaElements)
		case KindRowGroupMetaBlock:
			buildRowGroupMetaSegments(fd, block, h.rowGroupMeta, h.columnChunkMeta)
		case KindColumnIndexBlock:
			h.indexElements[block.ID] = buildIndexElementSegments(fd, block.Start)
		case KindKeyValueBlock:
			h.keyValues[block.ID] = buildKeyValueSegments(fd, block.Start)
		}
	}

	return h, nil
}

// FileData returns the payload the hierarchy was built from.
func (h *Hierarchy) FileData() *FileData {
	return h.fd
}

// SegmentsFor returns the ordered segments of one level under the given
// parent segment id. Root-attached levels (overview) ignore the parent.
// Unknown levels and unknown parents return empty results.
func (h *Hierarchy) SegmentsFor(level, parentID string) []*Segment {
	switch level {
	case LevelOverview:
		return h.overview
	case LevelRowGroups:
		return h.rowGroups
	case LevelMetadataStructure:
		return h.metaStructure
	case LevelColumnChunks:
		return h.columnChunks[parentID]
	case LevelPages:
		return h.pages[parentID]
	case LevelSchemaElements:
		return h.schemaElements[parentID]
	case LevelRowGroupMeta:
		return h.rowGroupMeta[parentID]
	case LevelColumnChunkMeta:
		return h.columnChunkMeta[parentID]
	case LevelIndexElements:
		return h.indexElements[parentID]
	case LevelKeyValueEntries:
		return h.keyValues[parentID]
	default:
		return nil
	}
}

// FindSegment locates a segment by id. Ids are unique across the cache by
// construction, so the scan order below only affects lookup cost.
func (h *Hierarchy) FindSegment(id string) (*Segment, error) {
	if s := findIn(h.overview, id); s != nil {
		return s, nil
	}
	if s := findIn(h.metaStructure, id); s != nil {
		return s, nil
	}
	for _, buckets := range []map[string][]*Segment{
		h.schemaElements, h.rowGroupMeta, h.columnChunkMeta,
		h.indexElements, h.keyValues,
	} {
		for _, segs := range buckets {
			if s := findIn(segs, id); s != nil {
				return s, nil
			}
		}
	}
	if s := findIn(h.rowGroups, id); s != nil {
		return s, nil
	}
	for _, segs := range h.columnChunks {
		if s := findIn(segs, id); s != nil {
			return s, nil
		}
	}
	for _, segs := range h.pages {
		if s := findIn(segs, id); s != nil {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSegmentNotFound, id)
}

func findIn(segs []*Segment, id string) *Segment {
	for _, s := range segs {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// HasChildren reports whether a drill-down into the segment yields a
// non-empty level.
func (h *Hierarchy) HasChildren(s *Segment) bool {
	level, ok := s.ChildLevel()
	if !ok {
		return false
	}
	return len(h.SegmentsFor(level, s.ID)) > 0
}

// FileInfo is the file-level summary surfaced by the service and the TUI
// header.
type FileInfo struct {
	Source    string `json:"source"`
	FileSize  int64  `json:"fileSize"`
	Version   int32  `json:"version"`
	RowGroups int    `json:"rowGroups"`
	Rows      int64  `json:"rows"`
	Columns   int    `json:"columns"`
	CreatedBy string `json:"createdBy,omitempty"`
}

// FileInfo extracts the file-level summary from the payload.
func (h *Hierarchy) FileInfo() FileInfo {
	md := h.fd.Metadata
	info := FileInfo{
		Source:   h.fd.Source,
		FileSize: h.fd.FileSize,
	}
	if md != nil {
		info.Version = md.Version
		info.Rows = md.RowCount
		info.Columns = md.ColumnCount
		info.CreatedBy = md.CreatedBy
		info.RowGroups = len(md.RowGroups)
		if info.RowGroups == 0 {
			info.RowGroups = md.RowGroupCount
		}
	}
	return info
}

// --- overview ---

// buildOverviewSegments derives the five fixed top-level segments. Row-group
// region bounds come from the chunk records when present, otherwise from the
// file frame arithmetic.
func buildOverviewSegments(fd *FileData) []*Segment {
	fs := fd.FileSize

	rgStart, rgEnd, ok := chunkSpan(fd.ColumnChunks)
	if !ok {
		rgStart = magicSize
		rgEnd = fs - metadataSize(fd) - footerSize
	}
	if rgStart < magicSize {
		rgStart = magicSize
	}
	if rgEnd < rgStart {
		rgEnd = rgStart
	}

	metaEnd := fs - footerSize
	if metaEnd < rgEnd {
		metaEnd = rgEnd
	}

	return []*Segment{
		newSegment("overview-magic", "Magic", KindMagic, 0, magicSize),
		newSegment("overview-rowgroups", "Row Groups", KindRowGroupRegion, rgStart, rgEnd),
		newSegment("overview-metadata", "Metadata", KindMetadataRegion, rgEnd, metaEnd),
		newSegment("overview-footer", "Footer", KindFooter, fs-footerSize, fs-magicSize),
		newSegment("overview-magic-tail", "Magic", KindMagic, fs-magicSize, fs),
	}
}

// chunkSpan returns the min start / max end across all chunk records.
func chunkSpan(chunks []ColumnChunkData) (int64, int64, bool) {
	if len(chunks) == 0 {
		return 0, 0, false
	}
	minStart := chunks[0].StartOffset
	maxEnd := chunks[0].StartOffset + chunks[0].TotalByteSize
	for _, c := range chunks[1:] {
		if c.StartOffset < minStart {
			minStart = c.StartOffset
		}
		if end := c.StartOffset + c.TotalByteSize; end > maxEnd {
			maxEnd = end
		}
	}
	return minStart, maxEnd, true
}

// metadataSize returns the recorded metadata byte length, falling back to
// the sum of the computed metadata block sizes.
func metadataSize(fd *FileData) int64 {
	md := fd.Metadata
	if md == nil {
		return 0
	}
	if md.TotalByteSize > 0 {
		return md.TotalByteSize
	}
	return schemaTreeSize(md.SchemaRoot) +
		rowGroupMetaBlockSize(md) +
		indexBlockSize(fd) +
		keyValueBlockSize(md)
}

// --- row groups ---

// buildRowGroupSegments infers row-group byte ranges. The source JSON does
// not tag chunks with a row-group index, so the flat chunk list is split
// into ceil(chunks/rowGroups) contiguous blocks in file order and each
// group's bounds are the min/max over its block.
func buildRowGroupSegments(fd *FileData) []*Segment {
	blocks := chunkBlocks(fd)
	var segs []*Segment
	for i, block := range blocks {
		if len(block) == 0 {
			continue
		}
		start, end, _ := chunkSpan(block)
		seg := newSegment(fmt.Sprintf("rowgroup-%d", i), fmt.Sprintf("Row Group %d", i), KindRowGroup, start, end)
		seg.RowGroupIndex = i
		if md := fd.Metadata; md != nil && i < len(md.RowGroups) {
			seg.RowGroup = &md.RowGroups[i]
		}
		segs = append(segs, seg)
	}
	return segs
}

// chunkBlocks partitions the flat chunk list into one contiguous block per
// row group index.
func chunkBlocks(fd *FileData) [][]ColumnChunkData {
	n := len(fd.ColumnChunks)
	if n == 0 {
		return nil
	}
	groups := rowGroupCount(fd)
	if groups <= 0 {
		groups = 1
	}
	per := (n + groups - 1) / groups
	blocks := make([][]ColumnChunkData, 0, groups)
	for i := 0; i < groups; i++ {
		lo := i * per
		if lo >= n {
			blocks = append(blocks, nil)
			continue
		}
		hi := lo + per
		if hi > n {
			hi = n
		}
		blocks = append(blocks, fd.ColumnChunks[lo:hi])
	}
	return blocks
}

func rowGroupCount(fd *FileData) int {
	md := fd.Metadata
	if md == nil {
		return 0
	}
	if len(md.RowGroups) > 0 {
		return len(md.RowGroups)
	}
	return md.RowGroupCount
}

// --- column chunks ---

// buildColumnChunkSegments builds the chunk segments of one row group,
// pairing each physical record with the footer record matched by column
// path. Segments are re-sorted by start offset since physical file order
// may differ from schema order.
func buildColumnChunkSegments(fd *FileData, rgIndex int) []*Segment {
	blocks := chunkBlocks(fd)
	if rgIndex < 0 || rgIndex >= len(blocks) {
		return nil
	}
	block := blocks[rgIndex]

	var logical map[string]*ColumnMeta
	if md := fd.Metadata; md != nil && rgIndex < len(md.RowGroups) {
		logical = md.RowGroups[rgIndex].ColumnChunks
	}

	segs := make([]*Segment, 0, len(block))
	for i := range block {
		chunk := &block[i]
		seg := &Segment{
			Name:          chunk.PathInSchema,
			Kind:          KindColumnChunk,
			Start:         chunk.StartOffset,
			End:           chunk.StartOffset + chunk.TotalByteSize,
			RowGroupIndex: rgIndex,
			ChunkIndex:    -1,
			PageIndex:     -1,
			ColumnPath:    chunk.PathInSchema,
			Physical:      chunk,
			Logical:       logical[chunk.PathInSchema],
		}
		segs = append(segs, seg)
	}

	sort.SliceStable(segs, func(i, j int) bool { return segs[i].Start < segs[j].Start })
	for i, seg := range segs {
		seg.ChunkIndex = i
		seg.ID = fmt.Sprintf("chunk-%d-%d", rgIndex, i)
	}
	return segs
}

// --- pages ---

// buildPageSegments builds the page segments of one chunk: dictionary page
// first if present, then data pages, then index pages. A page's extent is
// header size plus compressed size.
func buildPageSegments(chunk *Segment) []*Segment {
	if chunk == nil || chunk.Physical == nil {
		return nil
	}
	cc := chunk.Physical

	var segs []*Segment
	add := func(page *PageData, name string) {
		idx := len(segs)
		seg := newSegment(
			fmt.Sprintf("page-%d-%d-%d", chunk.RowGroupIndex, chunk.ChunkIndex, idx),
			name, KindPage,
			page.StartOffset, page.StartOffset+page.HeaderSize+page.CompressedPageSize)
		seg.RowGroupIndex = chunk.RowGroupIndex
		seg.ChunkIndex = chunk.ChunkIndex
		seg.PageIndex = idx
		seg.ColumnPath = chunk.ColumnPath
		seg.Page = page
		segs = append(segs, seg)
	}

	if cc.DictionaryPage != nil {
		add(cc.DictionaryPage, "Dictionary Page")
	}
	for i := range cc.DataPages {
		add(&cc.DataPages[i], fmt.Sprintf("Data Page %d", i))
	}
	for i := range cc.IndexPages {
		add(&cc.IndexPages[i], fmt.Sprintf("Index Page %d", i))
	}
	return segs
}

// --- metadata structure ---

// schemaTreeSize sums the byte length of a schema node and all descendants.
// Group nodes carry no own length but are as large as their subtree.
func schemaTreeSize(n *SchemaNode) int64 {
	if n == nil {
		return 0
	}
	size := n.ByteLength
	for _, c := range n.Children {
		size += schemaTreeSize(c)
	}
	return size
}

func rowGroupMetaBlockSize(md *FileMetadata) int64 {
	var total int64
	for _, rg := range md.RowGroups {
		total += rowGroupMetaSize(&rg)
	}
	return total
}

func rowGroupMetaSize(rg *RowGroupMeta) int64 {
	if rg.ByteLength > 0 {
		return rg.ByteLength
	}
	return rowGroupMetaEstimate
}

// offsetIndexEstimate derives the offset-index size from the column-index
// length. Approximation only; the upstream tool does not record it.
func offsetIndexEstimate(columnIndexLength int64) int64 {
	est := int64(offsetIndexRatio * float64(columnIndexLength))
	if est < offsetIndexMinEstimate {
		return offsetIndexMinEstimate
	}
	return est
}

func indexBlockSize(fd *FileData) int64 {
	var total int64
	for _, c := range fd.ColumnChunks {
		if c.ColumnIndexLength > 0 {
			total += c.ColumnIndexLength + offsetIndexEstimate(c.ColumnIndexLength)
		}
	}
	return total
}

func keyValueBlockSize(md *FileMetadata) int64 {
	var total int64
	for _, kv := range md.KeyValueMetadata {
		total += kv.ByteLength
	}
	return total
}

// buildMetadataStructureSegments lays the metadata blocks out sequentially
// from the metadata region's start: schema tree, row-group metadata, column
// indices, key/value metadata. Each block is present only when its data
// exists.
func buildMetadataStructureSegments(fd *FileData) []*Segment {
	md := fd.Metadata
	if md == nil {
		return nil
	}

	overview := buildOverviewSegments(fd)
	cursor := overview[2].Start // metadata region

	var segs []*Segment
	add := func(id, name string, kind SegmentKind, size int64) *Segment {
		seg := newSegment(id, name, kind, cursor, cursor+size)
		cursor += size
		segs = append(segs, seg)
		return seg
	}

	if md.SchemaRoot != nil {
		add("meta-schema", "Schema", KindSchemaBlock, schemaTreeSize(md.SchemaRoot))
	}
	if len(md.RowGroups) > 0 {
		add("meta-rowgroups", "Row Group Metadata", KindRowGroupMetaBlock, rowGroupMetaBlockSize(md))
	}
	if size := indexBlockSize(fd); size > 0 {
		add("meta-colindex", "Column Indices", KindColumnIndexBlock, size)
	}
	if len(md.KeyValueMetadata) > 0 {
		add("meta-keyvalue", "Key/Value Metadata", KindKeyValueBlock, keyValueBlockSize(md))
	}
	return segs
}

// buildSchemaElementSegments walks the schema tree, bucketing each node's
// children under its segment id. Children are ordered by name; the source
// JSON carries them as a map, so original declaration order is not
// recoverable.
func buildSchemaElementSegments(node *SchemaNode, parentID string, start int64, path string, out map[string][]*Segment) {
	if node == nil || len(node.Children) == 0 {
		return
	}
	names := make([]string, 0, len(node.Children))
	for name := range node.Children {
		names = append(names, name)
	}
	sort.Strings(names)

	cursor := start
	for _, name := range names {
		child := node.Children[name]
		childPath := name
		if path != "" {
			childPath = path + "." + name
		}
		size := schemaTreeSize(child)
		seg := newSegment("schema-"+childPath, name, KindSchemaElement, cursor, cursor+size)
		seg.ColumnPath = childPath
		seg.SchemaNode = child
		out[parentID] = append(out[parentID], seg)
		buildSchemaElementSegments(child, seg.ID, cursor, childPath, out)
		cursor += size
	}
}

// buildRowGroupMetaSegments builds one element per row group inside the
// row-group metadata block, and beneath each the per-column metadata
// elements.
func buildRowGroupMetaSegments(fd *FileData, block *Segment, rgOut, ccOut map[string][]*Segment) {
	md := fd.Metadata
	if md == nil {
		return
	}
	cursor := block.Start
	for i := range md.RowGroups {
		rg := &md.RowGroups[i]
		size := rowGroupMetaSize(rg)
		seg := newSegment(fmt.Sprintf("rgmeta-%d", i), fmt.Sprintf("Row Group %d", i), KindRowGroupMetaElement, cursor, cursor+size)
		seg.RowGroupIndex = i
		seg.RowGroup = rg
		rgOut[block.ID] = append(rgOut[block.ID], seg)
		ccOut[seg.ID] = buildColumnChunkMetaSegments(rg, seg, i)
		cursor += size
	}
}

// buildColumnChunkMetaSegments builds the per-column metadata elements of
// one row group's footer record. Unrecorded element lengths split the
// parent evenly.
func buildColumnChunkMetaSegments(rg *RowGroupMeta, parent *Segment, rgIndex int) []*Segment {
	if len(rg.ColumnChunks) == 0 {
		return nil
	}
	paths := make([]string, 0, len(rg.ColumnChunks))
	for path := range rg.ColumnChunks {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	even := parent.Size() / int64(len(paths))
	cursor := parent.Start
	segs := make([]*Segment, 0, len(paths))
	for i, path := range paths {
		cm := rg.ColumnChunks[path]
		size := cm.ByteLength
		if size <= 0 {
			size = even
		}
		seg := newSegment(fmt.Sprintf("ccmeta-%d-%d", rgIndex, i), path, KindColumnChunkMetaElement, cursor, cursor+size)
		seg.RowGroupIndex = rgIndex
		seg.ChunkIndex = i
		seg.ColumnPath = path
		seg.Logical = cm
		segs = append(segs, seg)
		cursor += size
	}
	return segs
}

// buildIndexElementSegments builds a column-index and an estimated
// offset-index element per chunk that records a column index length.
func buildIndexElementSegments(fd *FileData, start int64) []*Segment {
	blocks := chunkBlocks(fd)
	cursor := start
	var segs []*Segment
	for rgIndex, block := range blocks {
		for j := range block {
			c := &block[j]
			if c.ColumnIndexLength <= 0 {
				continue
			}
			col := newSegment(
				fmt.Sprintf("index-%d-%d-column", rgIndex, j),
				fmt.Sprintf("Column Index %s", c.PathInSchema),
				KindIndexElement, cursor, cursor+c.ColumnIndexLength)
			col.RowGroupIndex = rgIndex
			col.ChunkIndex = j
			col.ColumnPath = c.PathInSchema
			cursor = col.End

			est := offsetIndexEstimate(c.ColumnIndexLength)
			off := newSegment(
				fmt.Sprintf("index-%d-%d-offset", rgIndex, j),
				fmt.Sprintf("Offset Index %s", c.PathInSchema),
				KindIndexElement, cursor, cursor+est)
			off.RowGroupIndex = rgIndex
			off.ChunkIndex = j
			off.ColumnPath = c.PathInSchema
			cursor = off.End

			segs = append(segs, col, off)
		}
	}
	return segs
}

// buildKeyValueSegments builds one element per key/value entry. Entries
// without a recorded start offset are packed sequentially.
func buildKeyValueSegments(fd *FileData, start int64) []*Segment {
	md := fd.Metadata
	if md == nil {
		return nil
	}
	cursor := start
	segs := make([]*Segment, 0, len(md.KeyValueMetadata))
	for i := range md.KeyValueMetadata {
		kv := &md.KeyValueMetadata[i]
		segStart := kv.StartOffset
		if segStart <= 0 {
			segStart = cursor
		}
		seg := newSegment(fmt.Sprintf("kv-%d", i), kv.Key, KindKeyValueEntry, segStart, segStart+kv.ByteLength)
		seg.KeyValue = kv
		segs = append(segs, seg)
		cursor = seg.End
	}
	return segs
}

func newSegment(id, name string, kind SegmentKind, start, end int64) *Segment {
	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}
	return &Segment{
		ID:            id,
		Name:          name,
		Kind:          kind,
		Start:         start,
		End:           end,
		RowGroupIndex: -1,
		ChunkIndex:    -1,
		PageIndex:     -1,
	}
}
