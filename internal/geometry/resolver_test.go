package geometry

import (
	"errors"
	"strings"
	"testing"

	"github.com/screenrec/screenrec/internal/errdefs"
)

type fakeEnumerator struct {
	screens    []Screen
	windows    []Window
	screensErr error
	windowsErr error
}

func (f *fakeEnumerator) Screens() ([]Screen, error) { return f.screens, f.screensErr }
func (f *fakeEnumerator) Windows() ([]Window, error) { return f.windows, f.windowsErr }

func testScreens() []Screen {
	return []Screen{
		{
			Index:        0,
			ID:           "display-0",
			LogicalFrame: Rect{X: 0, Y: 0, W: 1512, H: 982},
			Scale:        2.0,
			Primary:      true,
		},
		{
			Index:        1,
			ID:           "display-1",
			LogicalFrame: Rect{X: 1512, Y: 0, W: 1920, H: 1080},
			Scale:        1.0,
		},
	}
}

func TestResolveScreenFullScreen(t *testing.T) {
	r := NewResolver(&fakeEnumerator{screens: testScreens()})

	res, err := r.ResolveScreen(0, AreaSpec{Mode: AreaFullScreen})
	if err != nil {
		t.Fatalf("ResolveScreen() error = %v", err)
	}

	if got, want := res.Geometry.PixelSize, (PixelSize{W: 3024, H: 1964}); got != want {
		t.Errorf("PixelSize = %v, want %v", got, want)
	}
	if got, want := res.Geometry.LogicalSource, (Rect{X: 0, Y: 0, W: 1512, H: 982}); got != want {
		t.Errorf("LogicalSource = %v, want %v", got, want)
	}
	if res.Target.Kind != TargetScreen {
		t.Errorf("Target.Kind = %v, want %v", res.Target.Kind, TargetScreen)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none for full screen", res.Warnings)
	}
}

func TestResolveScreenCentered(t *testing.T) {
	r := NewResolver(&fakeEnumerator{screens: testScreens()})

	res, err := r.ResolveScreen(1, AreaSpec{Mode: AreaCentered, W: 800, H: 600})
	if err != nil {
		t.Fatalf("ResolveScreen() error = %v", err)
	}

	// 1920x1080 at scale 1.0: origin (560, 240).
	if got, want := res.Geometry.PixelSize, (PixelSize{W: 800, H: 600}); got != want {
		t.Errorf("PixelSize = %v, want %v", got, want)
	}
	if got, want := res.Geometry.LogicalSource, (Rect{X: 560, Y: 240, W: 800, H: 600}); got != want {
		t.Errorf("LogicalSource = %v, want %v", got, want)
	}
}

func TestResolveScreenCustomScaled(t *testing.T) {
	r := NewResolver(&fakeEnumerator{screens: testScreens()})

	res, err := r.ResolveScreen(0, AreaSpec{Mode: AreaCustom, X: 200, Y: 100, W: 1024, H: 768})
	if err != nil {
		t.Fatalf("ResolveScreen() error = %v", err)
	}

	if got, want := res.Geometry.PixelSize, (PixelSize{W: 1024, H: 768}); got != want {
		t.Errorf("PixelSize = %v, want %v", got, want)
	}
	// Scale 2.0 halves every pixel coordinate.
	if got, want := res.Geometry.LogicalSource, (Rect{X: 100, Y: 50, W: 512, H: 384}); got != want {
		t.Errorf("LogicalSource = %v, want %v", got, want)
	}
}

func TestResolveScreenErrors(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		area     AreaSpec
		wantCode errdefs.Code
	}{
		{
			name:     "unknown screen",
			index:    7,
			area:     AreaSpec{Mode: AreaFullScreen},
			wantCode: errdefs.CodeScreenNotFound,
		},
		{
			name:     "rect exceeds bounds",
			index:    1,
			area:     AreaSpec{Mode: AreaCustom, X: 0, Y: 0, W: 5000, H: 5000},
			wantCode: errdefs.CodeAreaOutOfBounds,
		},
		{
			name:     "negative origin",
			index:    1,
			area:     AreaSpec{Mode: AreaCustom, X: -10, Y: 0, W: 640, H: 480},
			wantCode: errdefs.CodeAreaOutOfBounds,
		},
		{
			name:     "zero width",
			index:    1,
			area:     AreaSpec{Mode: AreaCustom, X: 0, Y: 0, W: 0, H: 480},
			wantCode: errdefs.CodeAreaOutOfBounds,
		},
		{
			name:     "rect crosses right edge",
			index:    1,
			area:     AreaSpec{Mode: AreaCustom, X: 1800, Y: 0, W: 200, H: 200},
			wantCode: errdefs.CodeAreaOutOfBounds,
		},
		{
			name:     "centered larger than screen",
			index:    1,
			area:     AreaSpec{Mode: AreaCentered, W: 4000, H: 600},
			wantCode: errdefs.CodeAreaOutOfBounds,
		},
	}

	r := NewResolver(&fakeEnumerator{screens: testScreens()})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.ResolveScreen(tt.index, tt.area)
			if err == nil {
				t.Fatal("ResolveScreen() error = nil, want error")
			}
			if !errdefs.IsCode(err, tt.wantCode) {
				t.Errorf("code = %v, want %v", errdefs.CodeOf(err), tt.wantCode)
			}
		})
	}
}

func TestResolveScreenEnumerationFailure(t *testing.T) {
	r := NewResolver(&fakeEnumerator{screensErr: errors.New("no display server")})

	_, err := r.ResolveScreen(0, AreaSpec{Mode: AreaFullScreen})
	if !errdefs.IsCode(err, errdefs.CodeScreenNotFound) {
		t.Errorf("code = %v, want %v", errdefs.CodeOf(err), errdefs.CodeScreenNotFound)
	}
}

func TestResolveScreenWarnings(t *testing.T) {
	tests := []struct {
		name     string
		area     AreaSpec
		wantWarn string
	}{
		{
			name:     "tiny area",
			area:     AreaSpec{Mode: AreaCustom, X: 0, Y: 0, W: 50, H: 50},
			wantWarn: "very small",
		},
		{
			name:     "near full coverage",
			area:     AreaSpec{Mode: AreaCustom, X: 0, Y: 0, W: 1900, H: 1060},
			wantWarn: "consider recording full screen",
		},
	}

	r := NewResolver(&fakeEnumerator{screens: testScreens()})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.ResolveScreen(1, tt.area)
			if err != nil {
				t.Fatalf("ResolveScreen() error = %v", err)
			}
			found := false
			for _, w := range res.Warnings {
				if strings.Contains(w, tt.wantWarn) {
					found = true
				}
			}
			if !found {
				t.Errorf("Warnings = %v, want one containing %q", res.Warnings, tt.wantWarn)
			}
		})
	}
}

func testWindows() []Window {
	return []Window{
		{ID: "w1", Title: "", App: "notepad", OnScreen: true, Frame: Rect{X: 10, Y: 10, W: 900, H: 700}},
		{ID: "w2", Title: "draft", App: "notepad", OnScreen: true, Frame: Rect{X: 40, Y: 40, W: 800, H: 500}},
		{ID: "w3", Title: "hidden", App: "notepad", OnScreen: false, Frame: Rect{X: 0, Y: 0, W: 1000, H: 1000}},
		{ID: "w4", Title: "player", App: "noteplayer", OnScreen: true, Frame: Rect{X: 1600, Y: 100, W: 640, H: 480}},
	}
}

func TestResolveAppExactMatch(t *testing.T) {
	r := NewResolver(&fakeEnumerator{screens: testScreens(), windows: testWindows()})

	res, err := r.ResolveApp("notepad")
	if err != nil {
		t.Fatalf("ResolveApp() error = %v", err)
	}

	// Titled window wins over the larger untitled one.
	if got := res.Target.Window.ID; got != "w2" {
		t.Errorf("Window.ID = %q, want %q", got, "w2")
	}
	// Center (440, 290) lands on the primary retina display.
	if got, want := res.Geometry.PixelSize, (PixelSize{W: 1600, H: 1000}); got != want {
		t.Errorf("PixelSize = %v, want %v", got, want)
	}
	if got, want := res.Geometry.LogicalSource, (Rect{X: 40, Y: 40, W: 800, H: 500}); got != want {
		t.Errorf("LogicalSource = %v, want %v", got, want)
	}
	if res.Target.Kind != TargetWindow {
		t.Errorf("Target.Kind = %v, want %v", res.Target.Kind, TargetWindow)
	}
}

func TestResolveAppSubstringMatch(t *testing.T) {
	r := NewResolver(&fakeEnumerator{screens: testScreens(), windows: testWindows()})

	res, err := r.ResolveApp("PLAYER")
	if err != nil {
		t.Fatalf("ResolveApp() error = %v", err)
	}
	if got := res.Target.Window.ID; got != "w4" {
		t.Errorf("Window.ID = %q, want %q", got, "w4")
	}
	// Center (1920, 340) lands on the secondary 1x display.
	if got, want := res.Geometry.PixelSize, (PixelSize{W: 640, H: 480}); got != want {
		t.Errorf("PixelSize = %v, want %v", got, want)
	}
}

func TestResolveAppErrors(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		windows  []Window
		wantCode errdefs.Code
	}{
		{
			name:     "no match",
			query:    "browser",
			windows:  testWindows(),
			wantCode: errdefs.CodeAppNotFound,
		},
		{
			name:     "empty query",
			query:    "  ",
			windows:  testWindows(),
			wantCode: errdefs.CodeAppNotFound,
		},
		{
			name:     "ambiguous substring",
			query:    "note",
			windows:  testWindows(),
			wantCode: errdefs.CodeAppAmbiguous,
		},
		{
			name:  "only off-screen windows",
			query: "ghost",
			windows: []Window{
				{ID: "g1", App: "ghost", OnScreen: false, Frame: Rect{W: 800, H: 600}},
				{ID: "g2", App: "ghost", OnScreen: true, Frame: Rect{W: 0, H: 0}},
			},
			wantCode: errdefs.CodeNoWindows,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(&fakeEnumerator{screens: testScreens(), windows: tt.windows})
			_, err := r.ResolveApp(tt.query)
			if err == nil {
				t.Fatal("ResolveApp() error = nil, want error")
			}
			if !errdefs.IsCode(err, tt.wantCode) {
				t.Errorf("code = %v, want %v", errdefs.CodeOf(err), tt.wantCode)
			}
		})
	}
}

func TestResolveAppPrimaryScaleFallback(t *testing.T) {
	// Window center outside every display frame: primary scale applies.
	windows := []Window{
		{ID: "far", Title: "far", App: "editor", OnScreen: true, Frame: Rect{X: 9000, Y: 9000, W: 400, H: 300}},
	}
	r := NewResolver(&fakeEnumerator{screens: testScreens(), windows: windows})

	res, err := r.ResolveApp("editor")
	if err != nil {
		t.Fatalf("ResolveApp() error = %v", err)
	}
	if got, want := res.Geometry.PixelSize, (PixelSize{W: 800, H: 600}); got != want {
		t.Errorf("PixelSize = %v, want %v", got, want)
	}
}
