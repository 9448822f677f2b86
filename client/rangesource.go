package client

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/hangxie/parquet-atlas/model"
)

const (
	// DefaultChunkSize is the granularity of remote range reads.
	DefaultChunkSize = 256 * 1024
	// DefaultMaxChunks caps the number of cached chunks.
	DefaultMaxChunks = 32
)

// RangeSource reads a remote file over HTTP range requests. Reads are
// served in fixed-size chunks kept in a small LRU cache so repeated
// scans over nearby offsets do not refetch. It implements
// model.ByteRangeSource.
type RangeSource struct {
	uri       string
	client    *http.Client
	size      int64
	position  int64
	chunkSize int64
	maxChunks int
	chunks    map[int64]*chunkEntry
	lruHead   *chunkEntry
	lruTail   *chunkEntry
}

type chunkEntry struct {
	index int64
	data  []byte
	prev  *chunkEntry
	next  *chunkEntry
}

// NewRangeSource probes the remote file size and returns a chunked
// range reader. A nil httpClient uses http.DefaultClient.
func NewRangeSource(uri string, httpClient *http.Client) (*RangeSource, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	size, err := probeSize(uri, httpClient)
	if err != nil {
		return nil, err
	}
	return &RangeSource{
		uri:       uri,
		client:    httpClient,
		size:      size,
		chunkSize: DefaultChunkSize,
		maxChunks: DefaultMaxChunks,
		chunks:    map[int64]*chunkEntry{},
	}, nil
}

func probeSize(uri string, client *http.Client) (int64, error) {
	resp, err := client.Head(uri)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %s", model.ErrRangeRead, uri, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: %s: HTTP %d", model.ErrRangeRead, uri, resp.StatusCode)
	}
	if resp.ContentLength < 0 {
		return 0, fmt.Errorf("%w: %s: unknown content length", model.ErrRangeRead, uri)
	}
	return resp.ContentLength, nil
}

// Size returns the total length of the remote file.
func (r *RangeSource) Size() int64 {
	return r.size
}

// Tell returns the current read position.
func (r *RangeSource) Tell() int64 {
	return r.position
}

// Seek moves the read position, clamping the result to [0, size].
func (r *RangeSource) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = r.position + offset
	case io.SeekEnd:
		target = r.size + offset
	default:
		return r.position, fmt.Errorf("%w: invalid whence %d", model.ErrRangeRead, whence)
	}
	if target < 0 {
		target = 0
	}
	if target > r.size {
		target = r.size
	}
	r.position = target
	return target, nil
}

// Read fills p from the current position, fetching chunks as needed.
func (r *RangeSource) Read(p []byte) (int, error) {
	if r.position >= r.size {
		return 0, io.EOF
	}
	total := 0
	for total < len(p) && r.position < r.size {
		chunkIndex := r.position / r.chunkSize
		chunk, err := r.chunk(chunkIndex)
		if err != nil {
			return total, err
		}
		within := int(r.position - chunkIndex*r.chunkSize)
		n := copy(p[total:], chunk[within:])
		total += n
		r.position += int64(n)
	}
	return total, nil
}

func (r *RangeSource) chunk(index int64) ([]byte, error) {
	if entry, ok := r.chunks[index]; ok {
		r.touch(entry)
		return entry.data, nil
	}
	data, err := r.fetch(index)
	if err != nil {
		return nil, err
	}
	r.insert(index, data)
	return data, nil
}

func (r *RangeSource) fetch(index int64) ([]byte, error) {
	start := index * r.chunkSize
	end := start + r.chunkSize
	if end > r.size {
		end = r.size
	}
	req, err := http.NewRequest(http.MethodGet, r.uri, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrRangeRead, err)
	}
	req.Header.Set("Range", "bytes="+strconv.FormatInt(start, 10)+"-"+strconv.FormatInt(end-1, 10))
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrRangeRead, err)
	}
	defer func() { _ = resp.Body.Close() }()
	switch resp.StatusCode {
	case http.StatusPartialContent:
		data, err := io.ReadAll(io.LimitReader(resp.Body, end-start))
		if err != nil {
			return nil, fmt.Errorf("%w: %s", model.ErrRangeRead, err)
		}
		if int64(len(data)) != end-start {
			return nil, fmt.Errorf("%w: short read, want %d got %d", model.ErrRangeRead, end-start, len(data))
		}
		return data, nil
	case http.StatusOK:
		// The server ignored the Range header and sent the whole file, so
		// the requested span sits at [start, end) of the body
		body, err := io.ReadAll(io.LimitReader(resp.Body, end))
		if err != nil {
			return nil, fmt.Errorf("%w: %s", model.ErrRangeRead, err)
		}
		if int64(len(body)) < end {
			return nil, fmt.Errorf("%w: full response shorter than range end, want %d got %d", model.ErrRangeRead, end, len(body))
		}
		return body[start:end], nil
	default:
		return nil, fmt.Errorf("%w: %s: HTTP %d", model.ErrRangeRead, r.uri, resp.StatusCode)
	}
}

// insert adds a chunk at the front of the LRU list, evicting the
// least recently used chunk when over capacity.
func (r *RangeSource) insert(index int64, data []byte) {
	entry := &chunkEntry{index: index, data: data}
	r.chunks[index] = entry
	r.pushFront(entry)
	for len(r.chunks) > r.maxChunks {
		victim := r.lruTail
		r.unlink(victim)
		delete(r.chunks, victim.index)
	}
}

func (r *RangeSource) touch(entry *chunkEntry) {
	if r.lruHead == entry {
		return
	}
	r.unlink(entry)
	r.pushFront(entry)
}

func (r *RangeSource) pushFront(entry *chunkEntry) {
	entry.prev = nil
	entry.next = r.lruHead
	if r.lruHead != nil {
		r.lruHead.prev = entry
	}
	r.lruHead = entry
	if r.lruTail == nil {
		r.lruTail = entry
	}
}

func (r *RangeSource) unlink(entry *chunkEntry) {
	if entry.prev != nil {
		entry.prev.next = entry.next
	} else {
		r.lruHead = entry.next
	}
	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		r.lruTail = entry.prev
	}
	entry.prev = nil
	entry.next = nil
}
