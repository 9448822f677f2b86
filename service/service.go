package service

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/hangxie/parquet-atlas/client"
	"github.com/hangxie/parquet-atlas/model"
)

// LayoutService owns one loaded layout payload and serves it over HTTP
type LayoutService struct {
	hierarchy *model.Hierarchy
	uri       string
	logger    *slog.Logger
}

// NewLayoutService loads the JSON layout payload from a local path or an
// http(s) URL and builds the segment hierarchy. Any load failure aborts the
// whole attempt; no partial hierarchy is served.
func NewLayoutService(uri string) (*LayoutService, error) {
	data, err := loadPayload(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to load layout payload: %w", err)
	}

	fd, err := model.ParseFileData(data)
	if err != nil {
		return nil, err
	}

	hierarchy, err := model.BuildHierarchy(fd)
	if err != nil {
		return nil, err
	}

	return &LayoutService{
		hierarchy: hierarchy,
		uri:       uri,
		logger:    slog.Default(),
	}, nil
}

// NewLayoutServiceFromHierarchy wraps an already-built hierarchy; used by
// embedded servers and tests.
func NewLayoutServiceFromHierarchy(h *model.Hierarchy, uri string) *LayoutService {
	return &LayoutService{hierarchy: h, uri: uri, logger: slog.Default()}
}

// loadPayload reads the payload bytes. Remote URIs go through the chunked
// range source so load failures surface the same way partial range reads do.
func loadPayload(uri string) ([]byte, error) {
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		src, err := client.NewRangeSource(uri, nil)
		if err != nil {
			return nil, err
		}
		return io.ReadAll(src)
	}
	return os.ReadFile(uri)
}

// Hierarchy exposes the loaded hierarchy for embedded consumers.
func (s *LayoutService) Hierarchy() *model.Hierarchy {
	return s.hierarchy
}

// CreateRouter creates a new router with all routes configured
// If quiet is true, disables logging middleware (useful for embedded servers)
func CreateRouter(s *LayoutService, quiet bool) *mux.Router {
	r := mux.NewRouter()
	s.SetupRoutes(r)
	r.Use(CORSMiddleware)
	if !quiet {
		r.Use(LoggingMiddleware(s.logger))
	}
	return r
}

// SetupRoutes configures all HTTP routes
func (s *LayoutService) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/info", s.handleFileInfo).Methods("GET")
	r.HandleFunc("/levels/{level}", s.handleLevel).Methods("GET")
	r.HandleFunc("/segments/{id}", s.handleSegment).Methods("GET")
	r.HandleFunc("/segments/{id}/panel", s.handleSegmentPanel).Methods("GET")
	r.HandleFunc("/layout/{level}", s.handleLayout).Methods("GET")
}

// SegmentView is the JSON projection of a segment.
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

func (s *LayoutService) segmentView(seg *model.Segment) SegmentView {
	view := SegmentView{
		ID:            seg.ID,
		Name:          seg.Name,
		Kind:          seg.Kind.String(),
		Description:   seg.Description(),
		Start:         seg.Start,
		End:           seg.End,
		Size:          seg.Size(),
		SizeFormatted: model.FormatBytes(seg.Size()),
		ColumnPath:    seg.ColumnPath,
		HasChildren:   s.hierarchy.HasChildren(seg),
	}
	if level, ok := seg.ChildLevel(); ok {
		view.ChildLevel = level
	}
	return view
}

// BoxView is the JSON projection of one laid-out segment box.
type BoxView struct {
	SegmentID  string  `json:"segmentId"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	IsExpanded bool    `json:"isExpanded"`
}

// LayoutView is the JSON projection of a level layout.
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

// handleFileInfo returns file-level metadata
func (s *LayoutService) handleFileInfo(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.hierarchy.FileInfo())
}

// handleLevel returns the segments of one level under an optional parent
func (s *LayoutService) handleLevel(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	level := vars["level"]
	parent := r.URL.Query().Get("parent")

	segments := s.hierarchy.SegmentsFor(level, parent)
	views := make([]SegmentView, len(segments))
	for i, seg := range segments {
		views[i] = s.segmentView(seg)
	}
	WriteJSON(w, http.StatusOK, views)
}

// handleSegment returns one segment by id
func (s *LayoutService) handleSegment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	seg, err := s.hierarchy.FindSegment(vars["id"])
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, s.segmentView(seg))
}

// handleSegmentPanel returns the detail panel groups for one segment
func (s *LayoutService) handleSegmentPanel(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	seg, err := s.hierarchy.FindSegment(vars["id"])
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, model.BuildInfoPanel(seg))
}

// handleLayout computes pixel geometry for one level at a given width
func (s *LayoutService) handleLayout(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	level := vars["level"]
	parent := r.URL.Query().Get("parent")

	width := 1024.0
	if ws := r.URL.Query().Get("width"); ws != "" {
		parsed, err := strconv.ParseFloat(ws, 64)
		if err != nil || parsed <= 0 {
			WriteError(w, http.StatusBadRequest, "Invalid width")
			return
		}
		width = parsed
	}

	segments := s.hierarchy.SegmentsFor(level, parent)
	cfg := model.ResponsiveLayoutConfig(width)
	layout := model.ComputeLevelLayout(level, parent, segments, 0, width, cfg)

	view := LayoutView{
		Level:     layout.Level,
		ParentID:  layout.ParentID,
		Width:     width,
		Y:         layout.Y,
		Height:    layout.Height,
		TotalSize: layout.TotalSize,
		MinStart:  layout.MinStart,
		MaxEnd:    layout.MaxEnd,
		Boxes:     make([]BoxView, len(layout.Boxes)),
	}
	for i, box := range layout.Boxes {
		view.Boxes[i] = BoxView{
			SegmentID:  box.Segment.ID,
			X:          box.X,
			Y:          box.Y,
			Width:      box.Width,
			Height:     box.Height,
			IsExpanded: box.IsExpanded,
		}
	}
	WriteJSON(w, http.StatusOK, view)
}

// StartServer starts the HTTP server
func StartServer(s *LayoutService, addr string) error {
	r := CreateRouter(s, false)

	s.logger.Info("starting layout API server", "addr", addr, "source", s.uri)
	return http.ListenAndServe(addr, r)
}
