package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/hangxie/parquet-atlas/model"
)

// AtlasApp represents the TUI application for exploring a file's byte layout
type AtlasApp struct {
	tviewApp   *tview.Application
	pages      *tview.Pages
	mainLayout *tview.Flex
	bodyFlex   *tview.Flex
	headerView *tview.TextView
	mapView    *layoutMapView
	infoView   *tview.TextView
	statusLine *tview.TextView

	currentFile string
	hierarchy   *model.Hierarchy
	explorer    *model.Explorer
	theme       model.Theme

	// Cursor position within the displayed level stack
	cursorLevel int
	cursorIndex int
	infoVisible bool
}

// NewAtlasApp creates a new AtlasApp instance
func NewAtlasApp() *AtlasApp {
	return &AtlasApp{
		tviewApp: tview.NewApplication(),
		pages:    tview.NewPages(),
		theme:    model.DefaultTheme(),
	}
}

func (app *AtlasApp) showMainView() {
	app.explorer = model.NewExplorer(app.hierarchy, 1024)
	app.cursorLevel = 0
	app.cursorIndex = 0

	app.mainLayout = tview.NewFlex().SetDirection(tview.FlexRow)

	app.createHeaderView()
	app.mapView = newLayoutMapView(app)
	app.createInfoView()
	app.createStatusLine()

	app.bodyFlex = tview.NewFlex().SetDirection(tview.FlexColumn)
	app.rebuildBody()

	headerHeight := app.getHeaderHeight()
	app.mainLayout.
		AddItem(app.headerView, headerHeight, 0, false).
		AddItem(app.bodyFlex, 0, 1, true).
		AddItem(app.statusLine, 1, 0, false)

	app.mainLayout.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			// ESC collapses back to the root overview first, then quits
			if len(app.explorer.Levels()) > 1 {
				app.explorer.Escape()
				app.cursorLevel = 0
				app.clampCursor()
				app.updateInfoPanel()
				return nil
			}
			app.tviewApp.Stop()
			return nil
		}
		return event
	})

	app.tviewApp.EnableMouse(true)
}

func (app *AtlasApp) createHeaderView() {
	app.headerView = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	app.headerView.SetBorder(true).
		SetTitle(" File Info ").
		SetTitleAlign(tview.AlignLeft)

	info := app.hierarchy.FileInfo()

	var header strings.Builder
	header.WriteString(fmt.Sprintf("[yellow]File:[-] %s  ", filepath.Base(app.currentFile)))
	header.WriteString(fmt.Sprintf("[yellow]Size:[-] %s", model.FormatBytes(info.FileSize)))

	header.WriteString("\n")
	header.WriteString(fmt.Sprintf("[yellow]Version:[-] %d  ", info.Version))
	header.WriteString(fmt.Sprintf("[yellow]Row Groups:[-] %d  ", info.RowGroups))
	header.WriteString(fmt.Sprintf("[yellow]Rows:[-] %s  ", model.FormatCount(info.Rows)))
	header.WriteString(fmt.Sprintf("[yellow]Columns:[-] %d", info.Columns))

	if info.CreatedBy != "" {
		header.WriteString(fmt.Sprintf("\n[yellow]Created By:[-] %s", info.CreatedBy))
	}

	app.headerView.SetText(header.String())
}

func (app *AtlasApp) getHeaderHeight() int {
	if app.headerView == nil {
		return 3
	}
	text := app.headerView.GetText(false)
	lines := strings.Count(text, "\n") + 1
	return lines + 2 // +2 for borders
}

func (app *AtlasApp) createInfoView() {
	app.infoView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true).
		SetWordWrap(true)

	app.infoView.SetBorder(true).
		SetTitle(" Segment Info ").
		SetTitleAlign(tview.AlignLeft)
}

func (app *AtlasApp) createStatusLine() {
	app.statusLine = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)

	app.setStatus("")
}

func (app *AtlasApp) setStatus(message string) {
	status := " [yellow]Keys:[-] ESC=up/quit, ↑↓←→=move, Enter=drill in, Backspace=back, i=info, y=copy"
	if message != "" {
		status += "  [green]" + message + "[-]"
	}
	app.statusLine.SetText(status)
}

// rebuildBody lays the map view out alone or beside the info panel
func (app *AtlasApp) rebuildBody() {
	app.bodyFlex.Clear()
	app.bodyFlex.AddItem(app.mapView, 0, 3, true)
	if app.infoVisible {
		app.bodyFlex.AddItem(app.infoView, 0, 1, false)
	}
}

// cursorBox returns the box the cursor currently sits on, nil when the
// stack is empty
func (app *AtlasApp) cursorBox() *model.SegmentBox {
	levels := app.explorer.Levels()
	if app.cursorLevel < 0 || app.cursorLevel >= len(levels) {
		return nil
	}
	boxes := levels[app.cursorLevel].Layout.Boxes
	if app.cursorIndex < 0 || app.cursorIndex >= len(boxes) {
		return nil
	}
	return &boxes[app.cursorIndex]
}

func (app *AtlasApp) clampCursor() {
	levels := app.explorer.Levels()
	if len(levels) == 0 {
		app.cursorLevel, app.cursorIndex = 0, 0
		return
	}
	if app.cursorLevel >= len(levels) {
		app.cursorLevel = len(levels) - 1
	}
	if app.cursorLevel < 0 {
		app.cursorLevel = 0
	}
	boxes := levels[app.cursorLevel].Layout.Boxes
	if app.cursorIndex >= len(boxes) {
		app.cursorIndex = len(boxes) - 1
	}
	if app.cursorIndex < 0 {
		app.cursorIndex = 0
	}
}

func (app *AtlasApp) moveCursor(dLevel, dIndex int) {
	app.cursorLevel += dLevel
	app.cursorIndex += dIndex
	app.clampCursor()
	app.updateInfoPanel()
}

// activateCursor drills into the segment under the cursor
func (app *AtlasApp) activateCursor() {
	box := app.cursorBox()
	if box == nil {
		return
	}
	app.clickSegment(app.cursorLevel, box.Segment.ID)
}

// clickSegment applies a selection at a displayed level and repositions
// the cursor onto whatever the transition revealed
func (app *AtlasApp) clickSegment(levelIndex int, segmentID string) {
	t, err := app.explorer.Click(levelIndex, segmentID)
	if err != nil {
		app.setStatus(fmt.Sprintf("[red]%v[-]", err))
		return
	}

	switch t.Kind {
	case model.TransitionAdd, model.TransitionSwitch, model.TransitionMultiSwitch:
		// Move the cursor into the newly revealed level
		app.cursorLevel = len(app.explorer.Levels()) - 1
		app.cursorIndex = 0
	default:
		app.cursorLevel = levelIndex
	}
	app.clampCursor()
	app.updateInfoPanel()
	app.setStatus("")
}

func (app *AtlasApp) navigateBack() {
	app.explorer.Back()
	app.cursorLevel = len(app.explorer.Levels()) - 1
	app.clampCursor()
	app.updateInfoPanel()
}

func (app *AtlasApp) toggleInfoPanel() {
	app.infoVisible = !app.infoVisible
	app.rebuildBody()
	app.updateInfoPanel()
}

// updateInfoPanel renders the detail panel for the segment under the cursor
func (app *AtlasApp) updateInfoPanel() {
	if !app.infoVisible {
		return
	}
	box := app.cursorBox()
	if box == nil {
		app.infoView.SetText("")
		return
	}

	groups := model.BuildInfoPanel(box.Segment)

	var text strings.Builder
	for i, group := range groups {
		if i > 0 {
			text.WriteString("\n")
		}
		text.WriteString(fmt.Sprintf("[yellow::b]%s[-:-:-]\n", group.Title))
		for _, entry := range group.Entries {
			text.WriteString(fmt.Sprintf("  [yellow]%s:[-] %s\n", entry.Key, tview.Escape(entry.Value)))
		}
	}
	app.infoView.SetText(text.String())
	app.infoView.ScrollToBeginning()
}

// copyCursorSegment puts the cursor segment's summary on the system clipboard
func (app *AtlasApp) copyCursorSegment() {
	box := app.cursorBox()
	if box == nil {
		app.setStatus(fmt.Sprintf("[red]%v[-]", ErrNoSelection))
		return
	}
	seg := box.Segment
	summary := fmt.Sprintf("%s [0x%X, 0x%X) %s", seg.Description(), seg.Start, seg.End, model.FormatBytes(seg.Size()))
	if err := clipboard.WriteAll(summary); err != nil {
		app.setStatus(fmt.Sprintf("[red]copy failed: %v[-]", err))
		return
	}
	app.setStatus(fmt.Sprintf("Copied %s", seg.Name))
}
