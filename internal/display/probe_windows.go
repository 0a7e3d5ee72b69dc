//go:build windows

package display

import (
	"github.com/screenrec/screenrec/internal/errdefs"
	"github.com/screenrec/screenrec/internal/geometry"
)

// probeScales returns nothing on windows: the display list already reports
// device pixels for DPI-aware processes.
func probeScales(int) []float64 {
	return nil
}

func listWindows() ([]geometry.Window, error) {
	return nil, errdefs.New(errdefs.CodeUnsupported, "window capture is not supported on windows").
		WithHint("record a screen instead, e.g. \"screenrec record --screen 0\"")
}
