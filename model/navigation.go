package model

import (
	"fmt"
	"time"
)

// Animation timing. Transitions are cosmetic; drivers that cannot animate
// (the TUI) apply them instantly.
const (
	TransitionDuration = 300 * time.Millisecond
	RemovalStagger     = 50 * time.Millisecond
)

// Level is one displayed row of sibling segments plus its computed layout.
type Level struct {
	Name     string
	ParentID string
	Segments []*Segment
	Layout   LevelLayout
}

// TransitionKind classifies what a navigation transition does to the level
// stack.
type TransitionKind int

const (
	// TransitionNone changes selection only.
	TransitionNone TransitionKind = iota
	// TransitionAdd appends one child level.
	TransitionAdd
	// TransitionSwitch swaps the single level below the clicked one for a
	// sibling's children; no net height change.
	TransitionSwitch
	// TransitionMultiSwitch removes several deeper levels while adding one.
	TransitionMultiSwitch
	// TransitionRemove tears down all levels below the clicked one.
	TransitionRemove
	// TransitionReset collapses to the root level.
	TransitionReset
	// TransitionBack removes the deepest level only.
	TransitionBack
)

// LevelChange is one level addition or removal within a transition.
// Removals carry a start delay so deeper levels begin sliding out slightly
// before shallower ones.
type LevelChange struct {
	Index int
	Level *Level
	Delay time.Duration
}

// Transition describes the minimal set of level operations one navigation
// step performs, with the timing a renderer needs to animate it. The
// generation token identifies the state the transition was computed
// against; completions arriving after a newer transition must be discarded.
type Transition struct {
	Kind       TransitionKind
	Generation uint64

	// Removed lists torn-down levels deepest first.
	Removed []LevelChange
	Added   *LevelChange

	Duration     time.Duration
	HeightBefore float64
	HeightAfter  float64
}

// Explorer owns the displayed level stack, the selection map, and the
// selection path. It has exactly one logical writer: mutate it only from
// the UI event path.
type Explorer struct {
	hierarchy *Hierarchy
	cfg       LayoutConfig
	width     float64

	levels     []*Level
	selections map[int]string
	path       []*Segment
	generation uint64
}

// NewExplorer creates an explorer showing the root overview level.
func NewExplorer(h *Hierarchy, containerWidth float64) *Explorer {
	e := &Explorer{
		hierarchy:  h,
		cfg:        ResponsiveLayoutConfig(containerWidth),
		width:      containerWidth,
		selections: map[int]string{},
	}
	e.levels = []*Level{e.buildLevel(LevelOverview, "", 0)}
	return e
}

// Levels returns the displayed level stack, root first.
func (e *Explorer) Levels() []*Level {
	return e.levels
}

// SelectionPath returns the selected segments from root to deepest.
func (e *Explorer) SelectionPath() []*Segment {
	return e.path
}

// SelectedAt returns the selected segment id at a level, if any.
func (e *Explorer) SelectedAt(levelIndex int) (string, bool) {
	id, ok := e.selections[levelIndex]
	return id, ok
}

// Config returns the active layout configuration.
func (e *Explorer) Config() LayoutConfig {
	return e.cfg
}

// Height returns the current canvas height.
func (e *Explorer) Height() float64 {
	return CanvasHeight(len(e.levels), e.cfg)
}

// Stale reports whether a transition was superseded by a later one. Frame
// callbacks use this to drop completions from abandoned animations.
func (e *Explorer) Stale(t Transition) bool {
	return t.Generation != e.generation
}

// Resize recomputes every displayed layout for a new container width.
func (e *Explorer) Resize(containerWidth float64) {
	e.width = containerWidth
	e.cfg = ResponsiveLayoutConfig(containerWidth)
	for i, lvl := range e.levels {
		lvl.Layout = ComputeLevelLayout(lvl.Name, lvl.ParentID, lvl.Segments, i, containerWidth, e.cfg)
	}
}

// HitTest maps canvas coordinates to a displayed segment.
func (e *Explorer) HitTest(x, y float64) (levelIndex int, seg *Segment, ok bool) {
	layouts := make([]LevelLayout, len(e.levels))
	for i, lvl := range e.levels {
		layouts[i] = lvl.Layout
	}
	lvl, box := HitTest(layouts, x, y, e.cfg.HitTolerance)
	if box == nil {
		return 0, nil, false
	}
	return lvl.Index, box.Segment, true
}

// Click handles a segment click at a displayed level and returns the
// resulting transition.
func (e *Explorer) Click(levelIndex int, segmentID string) (Transition, error) {
	if levelIndex < 0 || levelIndex >= len(e.levels) {
		return Transition{}, fmt.Errorf("%w: %d", ErrInvalidLevelIndex, levelIndex)
	}
	seg := findIn(e.levels[levelIndex].Segments, segmentID)
	if seg == nil {
		return Transition{}, fmt.Errorf("%w: %s at level %d", ErrSegmentNotFound, segmentID, levelIndex)
	}

	heightBefore := e.Height()
	e.generation++

	// Re-click deselects and collapses everything beneath.
	if e.selections[levelIndex] == segmentID {
		e.clearSelectionsFrom(levelIndex)
		removed := e.removeLevelsAfter(levelIndex)
		t := Transition{
			Kind:         TransitionRemove,
			Generation:   e.generation,
			Removed:      removed,
			Duration:     removalDuration(len(removed)),
			HeightBefore: heightBefore,
			HeightAfter:  e.Height(),
		}
		if len(removed) == 0 {
			t.Kind = TransitionNone
			t.Duration = 0
		}
		return t, nil
	}

	e.clearSelectionsFrom(levelIndex)
	e.selections[levelIndex] = segmentID
	e.path = append(e.path[:min(levelIndex, len(e.path))], seg)

	childLevel, ok := seg.ChildLevel()
	var children []*Segment
	if ok {
		children = e.hierarchy.SegmentsFor(childLevel, seg.ID)
	}

	if len(children) == 0 {
		// Leaf selection: tear down anything deeper.
		removed := e.removeLevelsAfter(levelIndex)
		kind := TransitionNone
		if len(removed) > 0 {
			kind = TransitionRemove
		}
		return Transition{
			Kind:         kind,
			Generation:   e.generation,
			Removed:      removed,
			Duration:     removalDuration(len(removed)),
			HeightBefore: heightBefore,
			HeightAfter:  e.Height(),
		}, nil
	}

	removed := e.removeLevelsAfter(levelIndex)
	newLevel := e.buildLevel(childLevel, seg.ID, levelIndex+1)
	e.levels = append(e.levels, newLevel)

	t := Transition{
		Generation:   e.generation,
		Removed:      removed,
		Added:        &LevelChange{Index: levelIndex + 1, Level: newLevel},
		Duration:     TransitionDuration,
		HeightBefore: heightBefore,
		HeightAfter:  e.Height(),
	}
	switch len(removed) {
	case 0:
		t.Kind = TransitionAdd
	case 1:
		// Same-level switch: old and new level animate concurrently in the
		// same slot.
		t.Kind = TransitionSwitch
	default:
		t.Kind = TransitionMultiSwitch
		t.Duration = removalDuration(len(removed))
	}
	return t, nil
}

// Escape clears all selections and collapses to the root level.
func (e *Explorer) Escape() Transition {
	heightBefore := e.Height()
	e.generation++
	e.selections = map[int]string{}
	e.path = nil
	removed := e.removeLevelsAfter(0)
	return Transition{
		Kind:         TransitionReset,
		Generation:   e.generation,
		Removed:      removed,
		Duration:     removalDuration(len(removed)),
		HeightBefore: heightBefore,
		HeightAfter:  e.Height(),
	}
}

// Back removes the deepest level and the selection that spawned it.
// Selections at shallower levels are untouched.
func (e *Explorer) Back() Transition {
	heightBefore := e.Height()
	e.generation++
	if len(e.levels) <= 1 {
		return Transition{Kind: TransitionNone, Generation: e.generation, HeightBefore: heightBefore, HeightAfter: heightBefore}
	}
	deepest := len(e.levels) - 1
	e.clearSelectionsFrom(deepest - 1)
	removed := e.removeLevelsAfter(deepest - 1)
	return Transition{
		Kind:         TransitionBack,
		Generation:   e.generation,
		Removed:      removed,
		Duration:     TransitionDuration,
		HeightBefore: heightBefore,
		HeightAfter:  e.Height(),
	}
}

// buildLevel fetches the segments of one level and computes its layout.
func (e *Explorer) buildLevel(name, parentID string, index int) *Level {
	segs := e.hierarchy.SegmentsFor(name, parentID)
	return &Level{
		Name:     name,
		ParentID: parentID,
		Segments: segs,
		Layout:   ComputeLevelLayout(name, parentID, segs, index, e.width, e.cfg),
	}
}

// removeLevelsAfter truncates the stack below the given level, returning
// the removed levels deepest first with staggered start delays.
func (e *Explorer) removeLevelsAfter(levelIndex int) []LevelChange {
	var removed []LevelChange
	for i := len(e.levels) - 1; i > levelIndex; i-- {
		removed = append(removed, LevelChange{
			Index: i,
			Level: e.levels[i],
			Delay: time.Duration(len(removed)) * RemovalStagger,
		})
	}
	e.levels = e.levels[:levelIndex+1]
	return removed
}

// clearSelectionsFrom drops selections at the given level and deeper and
// truncates the path to match.
func (e *Explorer) clearSelectionsFrom(levelIndex int) {
	for idx := range e.selections {
		if idx >= levelIndex {
			delete(e.selections, idx)
		}
	}
	if levelIndex < len(e.path) {
		e.path = e.path[:levelIndex]
	}
}

// removalDuration scales the height animation by how many levels go away.
func removalDuration(removedLevels int) time.Duration {
	if removedLevels == 0 {
		return 0
	}
	return TransitionDuration + time.Duration(removedLevels-1)*RemovalStagger
}
