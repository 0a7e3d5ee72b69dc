package geometry

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/screenrec/screenrec/internal/errdefs"
)

// Resolution is the output of one resolve: the capture geometry, the matched
// target, and any non-fatal warnings for the caller to surface.
type Resolution struct {
	Target   Target
	Geometry Recording
	Warnings []string
}

// Resolver turns a target selector plus area spec into capture geometry.
// Enumeration happens fresh on every resolve.
type Resolver struct {
	enum Enumerator
}

// NewResolver creates a resolver over the given enumerator.
func NewResolver(enum Enumerator) *Resolver {
	return &Resolver{enum: enum}
}

// ResolveScreen resolves an area on the screen with the given index.
func (r *Resolver) ResolveScreen(index int, area AreaSpec) (Resolution, error) {
	screens, err := r.enum.Screens()
	if err != nil {
		return Resolution{}, errdefs.Wrap(err, errdefs.CodeScreenNotFound, "screen enumeration failed")
	}

	screen, ok := findScreen(screens, index)
	if !ok {
		return Resolution{}, errdefs.Newf(errdefs.CodeScreenNotFound,
			"screen %d not found (%d attached)", index, len(screens)).
			WithMetadata("screen", strconv.Itoa(index)).
			WithHint("run \"screenrec screens\" to list attached displays")
	}

	geo, err := resolveArea(screen, area)
	if err != nil {
		return Resolution{}, err
	}

	res := Resolution{
		Target:   Target{Kind: TargetScreen, Screen: screen},
		Geometry: geo,
	}
	if area.Mode != AreaFullScreen {
		res.Warnings = areaWarnings(screen, geo)
	}
	return res, nil
}

// ResolveApp resolves the best window of the application matching query.
// Matching prefers an exact application id, then a case-insensitive
// substring of the application name. Area specs do not apply in this mode
// and no bounds validation is performed: any resolvable window is accepted.
func (r *Resolver) ResolveApp(query string) (Resolution, error) {
	windows, err := r.enum.Windows()
	if err != nil {
		return Resolution{}, errdefs.Wrap(err, errdefs.CodeAppNotFound, "window enumeration failed")
	}

	matched, err := matchApplication(windows, query)
	if err != nil {
		return Resolution{}, err
	}

	win, ok := bestWindow(matched)
	if !ok {
		return Resolution{}, errdefs.Newf(errdefs.CodeNoWindows,
			"application %q has no usable on-screen windows", query).
			WithHint("bring a window of the application on screen and retry")
	}

	screens, err := r.enum.Screens()
	if err != nil {
		return Resolution{}, errdefs.Wrap(err, errdefs.CodeScreenNotFound, "screen enumeration failed")
	}
	scale := scaleForWindow(screens, win)

	geo := Recording{
		PixelSize: PixelSize{
			W: int(math.Round(win.Frame.W * scale)),
			H: int(math.Round(win.Frame.H * scale)),
		},
		LogicalSource: win.Frame,
	}

	return Resolution{
		Target:   Target{Kind: TargetWindow, Window: win},
		Geometry: geo,
	}, nil
}

func findScreen(screens []Screen, index int) (Screen, bool) {
	for _, s := range screens {
		if s.Index == index {
			return s, true
		}
	}
	return Screen{}, false
}

func resolveArea(screen Screen, area AreaSpec) (Recording, error) {
	bounds := screen.PixelBounds()

	switch area.Mode {
	case AreaFullScreen:
		return Recording{
			PixelSize:     bounds,
			LogicalSource: screen.LogicalFrame,
		}, nil

	case AreaCentered:
		rect := PixelRect{
			X: (bounds.W - area.W) / 2,
			Y: (bounds.H - area.H) / 2,
			W: area.W,
			H: area.H,
		}
		return customRect(screen, rect)

	default:
		return customRect(screen, PixelRect{X: area.X, Y: area.Y, W: area.W, H: area.H})
	}
}

// customRect validates a pixel rect against the screen bounds and derives
// the logical source by dividing through the scale factor. Offsets are
// screen-local.
func customRect(screen Screen, rect PixelRect) (Recording, error) {
	bounds := screen.PixelBounds()
	if rect.W < 1 || rect.H < 1 || rect.X < 0 || rect.Y < 0 ||
		rect.X+rect.W > bounds.W || rect.Y+rect.H > bounds.H {
		return Recording{}, errdefs.Newf(errdefs.CodeAreaOutOfBounds,
			"area %d:%d:%d:%d exceeds screen %d pixel bounds %s",
			rect.X, rect.Y, rect.W, rect.H, screen.Index, bounds).
			WithMetadata("bounds", bounds.String())
	}

	scale := screen.Scale
	return Recording{
		PixelSize: PixelSize{W: rect.W, H: rect.H},
		LogicalSource: Rect{
			X: float64(rect.X) / scale,
			Y: float64(rect.Y) / scale,
			W: float64(rect.W) / scale,
			H: float64(rect.H) / scale,
		},
	}, nil
}

func areaWarnings(screen Screen, geo Recording) []string {
	var warns []string
	if geo.PixelSize.W < MinComfortableDim || geo.PixelSize.H < MinComfortableDim {
		warns = append(warns, fmt.Sprintf(
			"capture area %s is very small; content may be unreadable", geo.PixelSize))
	}
	if total := screen.PixelBounds().Area(); total > 0 {
		if share := float64(geo.PixelSize.Area()) / float64(total); share > MaxScreenShare {
			warns = append(warns, fmt.Sprintf(
				"capture area covers %.0f%% of the screen; consider recording full screen", share*100))
		}
	}
	return warns
}

// matchApplication filters windows to one application. An exact id match
// wins outright; otherwise a case-insensitive substring of the application
// name is accepted, but only when it matches a single application.
func matchApplication(windows []Window, query string) ([]Window, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, errdefs.New(errdefs.CodeAppNotFound, "empty application name")
	}

	var exact, fuzzy []Window
	apps := make(map[string]bool)
	for _, w := range windows {
		app := strings.ToLower(w.App)
		switch {
		case app == q:
			exact = append(exact, w)
		case strings.Contains(app, q):
			fuzzy = append(fuzzy, w)
			apps[w.App] = true
		}
	}

	if len(exact) > 0 {
		return exact, nil
	}
	switch len(apps) {
	case 0:
		return nil, errdefs.Newf(errdefs.CodeAppNotFound, "no running application matches %q", query).
			WithHint("run \"screenrec windows\" to list capturable windows")
	case 1:
		return fuzzy, nil
	default:
		names := make([]string, 0, len(apps))
		for app := range apps {
			names = append(names, app)
		}
		sort.Strings(names)
		return nil, errdefs.Newf(errdefs.CodeAppAmbiguous,
			"%q matches multiple applications: %s", query, strings.Join(names, ", ")).
			WithHint("use the exact application name")
	}
}

// bestWindow picks the window to record: on-screen with a real size,
// preferring non-empty titles, then larger area.
func bestWindow(windows []Window) (Window, bool) {
	usable := windows[:0:0]
	for _, w := range windows {
		if w.OnScreen && w.Frame.W >= 1 && w.Frame.H >= 1 {
			usable = append(usable, w)
		}
	}
	if len(usable) == 0 {
		return Window{}, false
	}

	sort.SliceStable(usable, func(i, j int) bool {
		ti, tj := usable[i].Title != "", usable[j].Title != ""
		if ti != tj {
			return ti
		}
		return usable[i].Area() > usable[j].Area()
	})
	return usable[0], true
}

// scaleForWindow finds the scale of the display containing the window's
// center. Window frames are logical, so containment is evaluated in logical
// space. Falls back to the primary display's scale, then 1.0.
func scaleForWindow(screens []Screen, win Window) float64 {
	center := win.Frame.Center()
	for _, s := range screens {
		if s.LogicalFrame.Contains(center) {
			return s.Scale
		}
	}
	for _, s := range screens {
		if s.Primary {
			return s.Scale
		}
	}
	return 1.0
}
