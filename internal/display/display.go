// Package display enumerates attached screens and on-screen windows.
//
// Screen bounds come from the platform display list; per-display scale
// factors and window lists come from native tooling probed per OS. All
// results are point-in-time snapshots, queried fresh on every call.
package display

import (
	"fmt"

	"github.com/kbinani/screenshot"

	"github.com/screenrec/screenrec/internal/errdefs"
	"github.com/screenrec/screenrec/internal/geometry"
)

// Service lists displays and windows. Implements geometry.Enumerator.
type Service struct {
	// scaleOverride, when positive, replaces the probed scale factor on
	// every display. Useful when the platform probe misreports density.
	scaleOverride float64
}

// NewService creates a display service. scaleOverride <= 0 means probe.
func NewService(scaleOverride float64) *Service {
	return &Service{scaleOverride: scaleOverride}
}

// Screens returns all attached displays, index 0 first. The first display
// is treated as primary.
func (s *Service) Screens() ([]geometry.Screen, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, errdefs.New(errdefs.CodeScreenNotFound, "no active displays detected").
			WithHint("check that a display server or desktop session is running")
	}

	scales := probeScales(n)
	screens := make([]geometry.Screen, 0, n)
	for i := 0; i < n; i++ {
		b := screenshot.GetDisplayBounds(i)
		scale := s.scaleOverride
		if scale <= 0 && i < len(scales) {
			scale = scales[i]
		}
		if scale <= 0 {
			scale = 1.0
		}
		screens = append(screens, geometry.Screen{
			Index: i,
			ID:    fmt.Sprintf("display-%d", i),
			LogicalFrame: geometry.Rect{
				X: float64(b.Min.X),
				Y: float64(b.Min.Y),
				W: float64(b.Dx()),
				H: float64(b.Dy()),
			},
			Scale:   scale,
			Primary: i == 0,
		})
	}
	return screens, nil
}

// Windows returns the currently visible windows via the platform probe.
func (s *Service) Windows() ([]geometry.Window, error) {
	return listWindows()
}
