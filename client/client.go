package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hangxie/parquet-atlas/model"
)

// SegmentView mirrors the service's JSON projection of a segment.
type SegmentView struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Kind          string `json:"kind"`
	Description   string `json:"description"`
	Start         int64  `json:"start"`
	End           int64  `json:"end"`
	Size          int64  `json:"size"`
	SizeFormatted string `json:"sizeFormatted"`
	ColumnPath    string `json:"columnPath,omitempty"`
	ChildLevel    string `json:"childLevel,omitempty"`
	HasChildren   bool   `json:"hasChildren"`
}

// BoxView mirrors the service's JSON projection of a laid-out box.
type BoxView struct {
	SegmentID  string  `json:"segmentId"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	IsExpanded bool    `json:"isExpanded"`
}

// LayoutView mirrors the service's JSON projection of a level layout.
type LayoutView struct {
	Level     string    `json:"level"`
	ParentID  string    `json:"parentId,omitempty"`
	Width     float64   `json:"width"`
	Y         float64   `json:"y"`
	Height    float64   `json:"height"`
	TotalSize int64     `json:"totalSize"`
	MinStart  int64     `json:"minStart"`
	MaxEnd    int64     `json:"maxEnd"`
	Boxes     []BoxView `json:"boxes"`
}

// LayoutClient is an HTTP client for the layout API
type LayoutClient struct {
	baseURL string
	client  *http.Client
}

// NewLayoutClient creates a new HTTP client
func NewLayoutClient(baseURL string) *LayoutClient {
	return &LayoutClient{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// GetFileInfo retrieves file-level metadata
func (c *LayoutClient) GetFileInfo() (model.FileInfo, error) {
	var info model.FileInfo
	err := c.get("/info", &info)
	return info, err
}

// GetLevel retrieves the segments of one level under an optional parent
func (c *LayoutClient) GetLevel(level, parentID string) ([]SegmentView, error) {
	var views []SegmentView
	err := c.get(levelPath("/levels/", level, parentID, 0), &views)
	return views, err
}

// GetSegment retrieves one segment by id
func (c *LayoutClient) GetSegment(id string) (SegmentView, error) {
	var view SegmentView
	err := c.get("/segments/"+id, &view)
	return view, err
}

// GetSegmentPanel retrieves the detail panel for one segment
func (c *LayoutClient) GetSegmentPanel(id string) ([]model.InfoGroup, error) {
	var groups []model.InfoGroup
	err := c.get("/segments/"+id+"/panel", &groups)
	return groups, err
}

// GetLayout retrieves the pixel geometry of one level at a given width
func (c *LayoutClient) GetLayout(level, parentID string, width float64) (LayoutView, error) {
	var view LayoutView
	err := c.get(levelPath("/layout/", level, parentID, width), &view)
	return view, err
}

func levelPath(prefix, level, parentID string, width float64) string {
	path := prefix + level
	sep := "?"
	if parentID != "" {
		path += sep + "parent=" + parentID
		sep = "&"
	}
	if width > 0 {
		path += fmt.Sprintf("%swidth=%g", sep, width)
	}
	return path
}

// Helper method to make GET requests and decode JSON
func (c *LayoutClient) get(path string, result interface{}) error {
	url := c.baseURL + path

	resp, err := c.client.Get(url)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		// Try to read error message from response
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
