package model

import "github.com/mattn/go-runewidth"

// Canvas is the abstract paint surface the explorer draws into. Coordinates
// are pixels with the origin at the top left; drivers decide what a pixel
// is (a terminal cell, a real pixel).
type Canvas interface {
	Size() (width, height float64)
	FillRect(x, y, width, height float64, style Style)
	DrawText(x, y float64, text string, style Style)
	MeasureText(text string) float64
}

// Style is the resolved paint style for one draw call.
type Style struct {
	Foreground string
	Background string
	Bold       bool
	Selected   bool
}

// Theme maps segment kinds to colors. It is resolved once per paint pass
// and handed in explicitly; no global style state is consulted.
type Theme struct {
	Text       string
	Selection  string
	Connector  string
	KindColors map[SegmentKind]string
	Fallback   string
}

// DefaultTheme returns the built-in color assignment.
func DefaultTheme() Theme {
	return Theme{
		Text:      "white",
		Selection: "yellow",
		Connector: "gray",
		Fallback:  "slate",
		KindColors: map[SegmentKind]string{
			KindMagic:                  "purple",
			KindRowGroupRegion:         "blue",
			KindMetadataRegion:         "green",
			KindFooter:                 "purple",
			KindRowGroup:               "teal",
			KindColumnChunk:            "aqua",
			KindPage:                   "navy",
			KindSchemaBlock:            "olive",
			KindRowGroupMetaBlock:      "lime",
			KindColumnIndexBlock:       "maroon",
			KindKeyValueBlock:          "fuchsia",
			KindSchemaElement:          "olive",
			KindRowGroupMetaElement:    "lime",
			KindColumnChunkMetaElement: "lime",
			KindIndexElement:           "maroon",
			KindKeyValueEntry:          "fuchsia",
		},
	}
}

// Color resolves the fill color for a segment kind.
func (t Theme) Color(kind SegmentKind) string {
	if c, ok := t.KindColors[kind]; ok {
		return c
	}
	return t.Fallback
}

// Paint draws the current level stack onto a canvas: one filled rect per
// segment with its name when it fits, selection highlighted.
func (e *Explorer) Paint(c Canvas, theme Theme) {
	for i, lvl := range e.levels {
		selected, _ := e.SelectedAt(i)
		for _, box := range lvl.Layout.Boxes {
			style := Style{
				Foreground: theme.Text,
				Background: theme.Color(box.Segment.Kind),
				Selected:   box.Segment.ID == selected,
			}
			if style.Selected {
				style.Background = theme.Selection
				style.Bold = true
			}
			c.FillRect(box.X, box.Y, box.Width, box.Height, style)
			if c.MeasureText(box.Segment.Name) <= box.Width {
				c.DrawText(box.X+1, box.Y, box.Segment.Name, style)
			}
		}
	}
}

// RecordedOp is one draw call captured by RecordingCanvas.
type RecordedOp struct {
	Op    string
	X, Y  float64
	W, H  float64
	Text  string
	Style Style
}

// RecordingCanvas captures draw calls for tests and headless rendering.
type RecordingCanvas struct {
	W, H float64
	Ops  []RecordedOp
}

func (r *RecordingCanvas) Size() (float64, float64) { return r.W, r.H }

func (r *RecordingCanvas) FillRect(x, y, w, h float64, style Style) {
	r.Ops = append(r.Ops, RecordedOp{Op: "rect", X: x, Y: y, W: w, H: h, Style: style})
}

func (r *RecordingCanvas) DrawText(x, y float64, text string, style Style) {
	r.Ops = append(r.Ops, RecordedOp{Op: "text", X: x, Y: y, Text: text, Style: style})
}

func (r *RecordingCanvas) MeasureText(text string) float64 {
	return float64(runewidth.StringWidth(text))
}
