package cmd

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/hangxie/parquet-atlas/service"
)

// BrowseCmd is a kong command for browse
type BrowseCmd struct {
	URI string `arg:"" predictor:"file" help:"URI of the layout description JSON (local path or http(s) URL)."`
}

// Run does actual browse job
func (b BrowseCmd) Run() error {
	app := NewAtlasApp()

	// Create a loading modal with cancellation instructions
	modal := tview.NewModal().
		SetText(fmt.Sprintf("Opening layout...\n%s\n\nPlease wait...\n\nPress ESC or Ctrl+C to cancel", b.URI)).
		SetTextColor(tcell.ColorYellow)

	// Context for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Track if loading was cancelled
	cancelled := false

	modal.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape || event.Key() == tcell.KeyCtrlC {
			cancelled = true
			cancel()
			app.tviewApp.Stop()
			return nil
		}
		return event
	})

	app.pages.AddPage("loading", modal, true, true)
	app.tviewApp.SetRoot(app.pages, true)

	// Channel to receive the result of payload loading
	type result struct {
		svc *service.LayoutService
		err error
	}
	resultChan := make(chan result, 1)

	// Start loading in background
	go func() {
		svc, err := service.NewLayoutService(b.URI)
		select {
		case <-ctx.Done():
			return
		case resultChan <- result{svc: svc, err: err}:
		}
	}()

	// Start the app and wait for loading to complete
	go func() {
		select {
		case <-ctx.Done():
			return
		case res := <-resultChan:
			app.tviewApp.QueueUpdateDraw(func() {
				if res.err != nil {
					errorModal := tview.NewModal().
						SetText(fmt.Sprintf("Error opening layout:\n%v\n\nPress ESC to exit", res.err)).
						SetTextColor(tcell.ColorRed).
						AddButtons([]string{"Exit"}).
						SetDoneFunc(func(buttonIndex int, buttonLabel string) {
							app.tviewApp.Stop()
						})
					app.pages.AddPage("error", errorModal, true, true)
					app.pages.SwitchToPage("error")
					return
				}

				app.currentFile = b.URI
				app.hierarchy = res.svc.Hierarchy()

				// Remove loading modal and show main view
				app.pages.RemovePage("loading")
				app.showMainView()
				app.pages.AddPage("main", app.mainLayout, true, true)
				app.pages.SwitchToPage("main")
				app.tviewApp.SetFocus(app.mapView)
			})
		}
	}()

	err := app.tviewApp.Run()

	// If cancelled, return nil (successful cancellation)
	if cancelled {
		return nil
	}

	return err
}
