package cmd

import (
	"fmt"

	"github.com/hangxie/parquet-atlas/service"
)

// ServeCmd is a kong command for serving the layout HTTP API
type ServeCmd struct {
	URI  string `arg:"" predictor:"file" help:"URI of the layout description JSON (local path or http(s) URL)."`
	Addr string `short:"a" default:":8080" help:"Address to listen on (default :8080)."`
}

// Run starts the HTTP API server
func (s ServeCmd) Run() error {
	svc, err := service.NewLayoutService(s.URI)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	return service.StartServer(svc, s.Addr)
}
