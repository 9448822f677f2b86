package model

import (
	"math"
)

// LayoutConfig carries the tunables of the proportional layout. Resolve one
// per render; nothing here is global state.
type LayoutConfig struct {
	// StartingBaseline is the preferred minimum pixel width of a segment
	// before container pressure shrinks it.
	StartingBaseline float64
	// MinimumBaseline is the absolute floor under which log scaling is
	// abandoned for a uniform split.
	MinimumBaseline float64
	// MaximumFloor caps the log-scaled minimum width of the largest
	// segments.
	MaximumFloor float64
	// ScaleFactor shapes the log curve; floors grow as norm^(1/ScaleFactor),
	// favoring larger segments.
	ScaleFactor float64

	LevelHeight  float64
	LevelSpacing float64
	HitTolerance float64
}

// DefaultLayoutConfig returns the desktop configuration.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		StartingBaseline: 40,
		MinimumBaseline:  4,
		MaximumFloor:     120,
		ScaleFactor:      2.5,
		LevelHeight:      56,
		LevelSpacing:     24,
		HitTolerance:     2,
	}
}

// Responsive breakpoints.
const (
	mobileMaxWidth = 768
	tabletMaxWidth = 1200
)

// ResponsiveLayoutConfig adjusts the layout constants for the container
// width: mobile, tablet, desktop.
func ResponsiveLayoutConfig(containerWidth float64) LayoutConfig {
	cfg := DefaultLayoutConfig()
	switch {
	case containerWidth < mobileMaxWidth:
		cfg.StartingBaseline = 24
		cfg.MaximumFloor = 64
		cfg.LevelHeight = 40
		cfg.LevelSpacing = 14
	case containerWidth < tabletMaxWidth:
		cfg.StartingBaseline = 32
		cfg.MaximumFloor = 90
		cfg.LevelHeight = 48
		cfg.LevelSpacing = 18
	}
	return cfg
}

// SegmentBox is the pixel geometry assigned to one segment.
type SegmentBox struct {
	Segment    *Segment
	X          float64
	Y          float64
	Width      float64
	Height     float64
	IsExpanded bool
}

// LevelLayout is the computed geometry of one displayed level.
type LevelLayout struct {
	Level    string
	ParentID string
	Index    int
	Y        float64
	Height   float64

	// TotalSize is the byte span maxEnd-minStart, not the sum of segment
	// sizes; gaps and overlaps between siblings are real.
	TotalSize int64
	MinStart  int64
	MaxEnd    int64

	Boxes []SegmentBox
}

// ComputeLevelLayout assigns pixel geometry to an ordered segment list. The
// widths of a non-empty level always sum to exactly containerWidth: natural
// proportional widths are floored by a logarithmic minimum per segment, and
// the space consumed by floored segments is ceded proportionally by the
// rest.
func ComputeLevelLayout(level, parentID string, segments []*Segment, levelIndex int, containerWidth float64, cfg LayoutConfig) LevelLayout {
	out := LevelLayout{
		Level:    level,
		ParentID: parentID,
		Index:    levelIndex,
		Y:        levelY(levelIndex, cfg),
		Height:   cfg.LevelHeight,
	}
	if len(segments) == 0 || containerWidth <= 0 {
		return out
	}

	out.MinStart = segments[0].Start
	out.MaxEnd = segments[0].End
	for _, s := range segments[1:] {
		if s.Start < out.MinStart {
			out.MinStart = s.Start
		}
		if s.End > out.MaxEnd {
			out.MaxEnd = s.End
		}
	}
	out.TotalSize = out.MaxEnd - out.MinStart

	out.Boxes = make([]SegmentBox, len(segments))
	for i, s := range segments {
		out.Boxes[i] = SegmentBox{Segment: s, Y: out.Y, Height: cfg.LevelHeight}
	}

	// Single segment always fills the container.
	if len(segments) == 1 {
		out.Boxes[0].Width = containerWidth
		return out
	}

	span := float64(out.TotalSize)
	if span <= 0 {
		span = 1
	}
	natural := make([]float64, len(segments))
	for i, s := range segments {
		natural[i] = float64(s.Size()) / span * containerWidth
	}

	floors := minWidthFloors(segments, containerWidth, cfg)

	// Mark expanded segments and tally what the rest must cede.
	var floorSum, naturalSum float64
	for i := range segments {
		if natural[i] < floors[i] {
			out.Boxes[i].IsExpanded = true
			floorSum += floors[i]
		} else {
			naturalSum += natural[i]
		}
	}

	remaining := containerWidth - floorSum
	for i := range segments {
		if out.Boxes[i].IsExpanded {
			out.Boxes[i].Width = floors[i]
		} else {
			out.Boxes[i].Width = natural[i] / naturalSum * remaining
		}
	}

	// All-expanded degenerate case: stretch the floors so the sum invariant
	// still holds.
	if naturalSum == 0 && floorSum > 0 {
		scale := containerWidth / floorSum
		for i := range out.Boxes {
			out.Boxes[i].Width *= scale
		}
	}

	x := 0.0
	for i := range out.Boxes {
		out.Boxes[i].X = x
		x += out.Boxes[i].Width
	}
	return out
}

// minWidthFloors computes the per-segment minimum width on a log10 scale
// between the smallest and largest byte size. When the container is too
// tight for log scaling to mean anything, every floor degrades to an even
// split.
func minWidthFloors(segments []*Segment, containerWidth float64, cfg LayoutConfig) []float64 {
	n := len(segments)
	floors := make([]float64, n)

	baseline := math.Min(cfg.StartingBaseline, containerWidth/float64(n))
	if baseline < cfg.MinimumBaseline {
		for i := range floors {
			floors[i] = containerWidth / float64(n)
		}
		return floors
	}

	minSize, maxSize := segments[0].Size(), segments[0].Size()
	for _, s := range segments[1:] {
		if s.Size() < minSize {
			minSize = s.Size()
		}
		if s.Size() > maxSize {
			maxSize = s.Size()
		}
	}

	// Clamp before taking a log; zero-size segments are legal input.
	logMin := math.Log10(math.Max(float64(minSize), 1))
	logMax := math.Log10(math.Max(float64(maxSize), 1))

	maxFloor := math.Max(cfg.MaximumFloor, baseline)
	for i, s := range segments {
		if logMax == logMin {
			floors[i] = baseline
			continue
		}
		norm := (math.Log10(math.Max(float64(s.Size()), 1)) - logMin) / (logMax - logMin)
		t := math.Pow(norm, 1/cfg.ScaleFactor)
		floors[i] = baseline + t*(maxFloor-baseline)
	}

	var sum float64
	for _, f := range floors {
		sum += f
	}
	if sum > containerWidth {
		scale := containerWidth / sum
		for i := range floors {
			floors[i] *= scale
		}
	}
	return floors
}

func levelY(levelIndex int, cfg LayoutConfig) float64 {
	return float64(levelIndex) * (cfg.LevelHeight + cfg.LevelSpacing)
}

// CanvasHeight returns the total canvas height for a level count.
func CanvasHeight(levelCount int, cfg LayoutConfig) float64 {
	if levelCount <= 0 {
		return 0
	}
	return float64(levelCount)*cfg.LevelHeight + float64(levelCount-1)*cfg.LevelSpacing
}

// HitTest maps a point to the first matching (level, box) pair, scanning
// levels top to bottom and boxes in placement order. The tolerance pads
// every box on all sides.
func HitTest(levels []LevelLayout, x, y, tolerance float64) (*LevelLayout, *SegmentBox) {
	for i := range levels {
		lvl := &levels[i]
		if y < lvl.Y-tolerance || y > lvl.Y+lvl.Height+tolerance {
			continue
		}
		for j := range lvl.Boxes {
			box := &lvl.Boxes[j]
			if x >= box.X-tolerance && x <= box.X+box.Width+tolerance {
				return lvl, box
			}
		}
	}
	return nil, nil
}
