package client

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func testLayoutServer() *httptest.Server {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, body string) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
	mux.HandleFunc("/info", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{
			"source": "testdata/example.json",
			"fileSize": 1000,
			"version": 2,
			"rowGroups": 1,
			"rows": 220,
			"columns": 2,
			"createdBy": "test-writer"
		}`)
	})
	mux.HandleFunc("/levels/overview", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[
			{"id": "overview-magic", "name": "Magic", "kind": "magic",
			 "description": "PAR1 magic marker", "start": 0, "end": 4,
			 "size": 4, "sizeFormatted": "4 B", "hasChildren": false},
			{"id": "overview-rowgroups", "name": "Row Groups", "kind": "rowgroup-region",
			 "description": "Row group data", "start": 4, "end": 800,
			 "size": 796, "sizeFormatted": "796 B",
			 "childLevel": "rowgroups", "hasChildren": true}
		]`)
	})
	mux.HandleFunc("/levels/columnchunks", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("parent") != "rowgroup-0" {
			writeJSON(w, `[]`)
			return
		}
		writeJSON(w, `[
			{"id": "chunk-0-0", "name": "a", "kind": "columnchunk",
			 "start": 4, "end": 204, "size": 200, "sizeFormatted": "200 B",
			 "columnPath": "a", "childLevel": "pages", "hasChildren": true}
		]`)
	})
	mux.HandleFunc("/segments/chunk-0-0", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"id": "chunk-0-0", "name": "a", "kind": "columnchunk",
			"start": 4, "end": 204, "size": 200, "sizeFormatted": "200 B",
			"columnPath": "a", "childLevel": "pages", "hasChildren": true}`)
	})
	mux.HandleFunc("/segments/chunk-0-0/panel", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[
			{"title": "Segment", "entries": [
				{"key": "Offset", "value": "0x4 (4)"},
				{"key": "Size", "value": "200 B"}
			]},
			{"title": "Physical", "entries": [
				{"key": "Codec", "value": "SNAPPY"}
			]}
		]`)
	})
	mux.HandleFunc("/layout/overview", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{
			"level": "overview", "width": 500, "y": 0, "height": 80,
			"totalSize": 1000, "minStart": 0, "maxEnd": 1000,
			"boxes": [
				{"segmentId": "overview-magic", "x": 0, "y": 0,
				 "width": 40, "height": 80, "isExpanded": true},
				{"segmentId": "overview-rowgroups", "x": 40, "y": 0,
				 "width": 460, "height": 80, "isExpanded": false}
			]
		}`)
	})
	mux.HandleFunc("/segments/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "segment not found: missing"}`))
	})
	return httptest.NewServer(mux)
}

func Test_LayoutClient_GetFileInfo(t *testing.T) {
	server := testLayoutServer()
	defer server.Close()

	c := NewLayoutClient(server.URL)
	info, err := c.GetFileInfo()
	require.NoError(t, err)
	require.Equal(t, int64(1000), info.FileSize)
	require.Equal(t, "test-writer", info.CreatedBy)
	require.Equal(t, int64(220), info.Rows)
	require.Equal(t, 2, info.Columns)
}

func Test_LayoutClient_GetLevel(t *testing.T) {
	server := testLayoutServer()
	defer server.Close()

	c := NewLayoutClient(server.URL)
	views, err := c.GetLevel("overview", "")
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.Equal(t, "overview-magic", views[0].ID)
	require.Equal(t, "magic", views[0].Kind)
	require.False(t, views[0].HasChildren)
	require.Equal(t, "rowgroups", views[1].ChildLevel)
}

func Test_LayoutClient_GetLevel_WithParent(t *testing.T) {
	server := testLayoutServer()
	defer server.Close()

	c := NewLayoutClient(server.URL)
	views, err := c.GetLevel("columnchunks", "rowgroup-0")
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, "chunk-0-0", views[0].ID)
	require.Equal(t, "a", views[0].ColumnPath)

	views, err = c.GetLevel("columnchunks", "rowgroup-9")
	require.NoError(t, err)
	require.Empty(t, views)
}

func Test_LayoutClient_GetSegment(t *testing.T) {
	server := testLayoutServer()
	defer server.Close()

	c := NewLayoutClient(server.URL)
	view, err := c.GetSegment("chunk-0-0")
	require.NoError(t, err)
	require.Equal(t, int64(4), view.Start)
	require.Equal(t, int64(204), view.End)
	require.Equal(t, "pages", view.ChildLevel)
}

func Test_LayoutClient_GetSegmentPanel(t *testing.T) {
	server := testLayoutServer()
	defer server.Close()

	c := NewLayoutClient(server.URL)
	groups, err := c.GetSegmentPanel("chunk-0-0")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.Equal(t, "Segment", groups[0].Title)
	require.Equal(t, "Offset", groups[0].Entries[0].Key)
	require.Equal(t, "SNAPPY", groups[1].Entries[0].Value)
}

func Test_LayoutClient_GetLayout(t *testing.T) {
	server := testLayoutServer()
	defer server.Close()

	c := NewLayoutClient(server.URL)
	view, err := c.GetLayout("overview", "", 500)
	require.NoError(t, err)
	require.Equal(t, "overview", view.Level)
	require.Equal(t, float64(500), view.Width)
	require.Len(t, view.Boxes, 2)
	require.True(t, view.Boxes[0].IsExpanded)
	require.Equal(t, float64(40), view.Boxes[1].X)
}

func Test_LayoutClient_ErrorResponse(t *testing.T) {
	server := testLayoutServer()
	defer server.Close()

	c := NewLayoutClient(server.URL)
	_, err := c.GetSegment("missing")
	require.Error(t, err)
	require.Contains(t, err.Error(), "HTTP 404")
	require.Contains(t, err.Error(), "missing")
}

func Test_LayoutClient_ConnectionFailure(t *testing.T) {
	c := NewLayoutClient("http://127.0.0.1:1")
	_, err := c.GetFileInfo()
	require.Error(t, err)
	require.Contains(t, err.Error(), "HTTP request failed")
}

func Test_LevelPath(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		parentID string
		width    float64
		expected string
	}{
		{"Level only", "overview", "", 0, "/levels/overview"},
		{"With parent", "rowgroups", "overview-rowgroups", 0, "/levels/rowgroups?parent=overview-rowgroups"},
		{"With width", "overview", "", 500, "/levels/overview?width=500"},
		{"Parent and width", "pages", "chunk-0-0", 1024, "/levels/pages?parent=chunk-0-0&width=1024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, levelPath("/levels/", tt.level, tt.parentID, tt.width))
		})
	}
}
