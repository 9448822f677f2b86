package cmd

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/tview"

	"github.com/hangxie/parquet-atlas/model"
)

// screenCanvas adapts a tcell screen region to the model's paint surface.
// Layout geometry is computed in pixels; one terminal row stands in for
// rowScale vertical pixels, one cell for one horizontal pixel.
type screenCanvas struct {
	screen   tcell.Screen
	x, y     int
	width    int
	height   int
	rowScale float64
}

func (c *screenCanvas) Size() (float64, float64) {
	return float64(c.width), float64(c.height) * c.rowScale
}

func (c *screenCanvas) FillRect(x, y, w, h float64, style model.Style) {
	left := c.x + int(x)
	right := c.x + int(x+w)
	if right <= left {
		right = left + 1
	}
	top := c.y + int(y/c.rowScale)
	rows := int(h / c.rowScale)
	if rows < 1 {
		rows = 1
	}
	st := cellStyle(style)
	for row := top; row < top+rows; row++ {
		if row < c.y || row >= c.y+c.height {
			continue
		}
		for col := left; col < right; col++ {
			if col < c.x || col >= c.x+c.width {
				continue
			}
			c.screen.SetContent(col, row, ' ', nil, st)
		}
	}
}

func (c *screenCanvas) DrawText(x, y float64, text string, style model.Style) {
	col := c.x + int(x)
	row := c.y + int(y/c.rowScale)
	if row < c.y || row >= c.y+c.height {
		return
	}
	st := cellStyle(style)
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if col+w > c.x+c.width {
			break
		}
		if col >= c.x {
			c.screen.SetContent(col, row, r, nil, st)
		}
		col += w
	}
}

func (c *screenCanvas) MeasureText(text string) float64 {
	return float64(runewidth.StringWidth(text))
}

// cellStyle maps a model paint style to a tcell style
func cellStyle(s model.Style) tcell.Style {
	st := tcell.StyleDefault.
		Foreground(namedColor(s.Foreground)).
		Background(namedColor(s.Background))
	if s.Bold {
		st = st.Bold(true)
	}
	return st
}

// namedColor resolves a theme color name, falling back to gray for names
// tcell does not know
func namedColor(name string) tcell.Color {
	if c, ok := tcell.ColorNames[name]; ok {
		return c
	}
	return tcell.ColorGray
}

// layoutMapView renders the explorer's level stack as nested byte-range
// bars and routes keyboard and mouse input to it.
type layoutMapView struct {
	*tview.Box
	app *AtlasApp
}

func newLayoutMapView(app *AtlasApp) *layoutMapView {
	v := &layoutMapView{
		Box: tview.NewBox(),
		app: app,
	}
	v.SetBorder(true).
		SetTitle(" Byte Layout (↑↓←→ move, Enter=drill in, Backspace=up, i=info, y=copy) ").
		SetTitleAlign(tview.AlignLeft)
	return v
}

// rowScale converts between layout pixels and terminal rows so one level
// band occupies about four rows.
func (v *layoutMapView) rowScale() float64 {
	cfg := v.app.explorer.Config()
	return (cfg.LevelHeight + cfg.LevelSpacing) / 4.0
}

func (v *layoutMapView) Draw(screen tcell.Screen) {
	v.Box.DrawForSubclass(screen, v)
	x, y, w, h := v.GetInnerRect()
	if w <= 0 || h <= 0 {
		return
	}

	// Keep the layout in sync with the terminal width
	v.app.explorer.Resize(float64(w))

	canvas := &screenCanvas{
		screen:   screen,
		x:        x,
		y:        y,
		width:    w,
		height:   h,
		rowScale: v.rowScale(),
	}
	v.app.explorer.Paint(canvas, v.app.theme)

	// Overlay the cursor so it stands out from the selection highlight
	if box := v.app.cursorBox(); box != nil {
		style := model.Style{
			Foreground: "black",
			Background: "white",
			Bold:       true,
		}
		canvas.FillRect(box.X, box.Y, box.Width, box.Height, style)
		if canvas.MeasureText(box.Segment.Name) <= box.Width {
			canvas.DrawText(box.X+1, box.Y, box.Segment.Name, style)
		}
	}
}

// MouseHandler translates clicks into hit tests against the level stack
func (v *layoutMapView) MouseHandler() func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (bool, tview.Primitive) {
	return v.WrapMouseHandler(func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (bool, tview.Primitive) {
		if action != tview.MouseLeftClick {
			return false, nil
		}
		mx, my := event.Position()
		if !v.InRect(mx, my) {
			return false, nil
		}
		x, y, _, _ := v.GetInnerRect()
		px := float64(mx - x)
		py := float64(my-y) * v.rowScale()

		levelIndex, seg, ok := v.app.explorer.HitTest(px, py)
		if !ok {
			return true, nil
		}
		v.app.clickSegment(levelIndex, seg.ID)
		setFocus(v)
		return true, nil
	})
}

// InputHandler drives cursor movement and drill-down from the keyboard
func (v *layoutMapView) InputHandler() func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
	return v.WrapInputHandler(func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
		switch event.Key() {
		case tcell.KeyLeft:
			v.app.moveCursor(0, -1)
		case tcell.KeyRight:
			v.app.moveCursor(0, 1)
		case tcell.KeyUp:
			v.app.moveCursor(-1, 0)
		case tcell.KeyDown:
			v.app.moveCursor(1, 0)
		case tcell.KeyEnter:
			v.app.activateCursor()
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			v.app.navigateBack()
		case tcell.KeyRune:
			switch event.Rune() {
			case 'i':
				v.app.toggleInfoPanel()
			case 'y':
				v.app.copyCursorSegment()
			}
		}
	})
}
