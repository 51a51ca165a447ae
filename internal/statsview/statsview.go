// Package statsview serves live Go runtime charts for the running
// interpreter.
package statsview

import (
	"log/slog"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

const (
	DefaultAddress = "localhost:12600"
	path           = "/debug/statsview"
)

// Launch starts the stats server in a new goroutine and returns a function
// that stops it.
func Launch(addr string) (stop func()) {
	if addr == "" {
		addr = DefaultAddress
	}

	viewer.SetConfiguration(viewer.WithAddr(addr))
	mgr := statsview.New()

	go func() {
		if err := mgr.Start(); err != nil {
			slog.Debug("statsview: server stopped", "err", err)
		}
	}()

	slog.Info("statsview: stats server available", "url", "http://"+addr+path)
	return mgr.Stop
}
