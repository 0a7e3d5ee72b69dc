package geometry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/screenrec/screenrec/internal/errdefs"
)

// AreaMode selects how the capture rectangle is derived from the target.
type AreaMode int

const (
	// AreaFullScreen captures the entire target.
	AreaFullScreen AreaMode = iota
	// AreaCustom captures an explicit pixel rectangle relative to the
	// screen origin.
	AreaCustom
	// AreaCentered captures a pixel rectangle centered on the screen.
	AreaCentered
)

// AreaSpec is a parsed area description. Coordinates are device pixels;
// conversion to logical units happens once, during resolution.
type AreaSpec struct {
	Mode       AreaMode
	X, Y, W, H int
}

// ParseArea parses a raw area string. Accepted forms: "full" (or empty)
// captures the whole target, "center:W:H" centers a WxH pixel rect,
// "X:Y:W:H" is an explicit pixel rect relative to the screen origin.
func ParseArea(raw string) (AreaSpec, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || s == "full" {
		return AreaSpec{Mode: AreaFullScreen}, nil
	}

	parts := strings.Split(s, ":")
	switch {
	case parts[0] == "center" && len(parts) == 3:
		w, errW := strconv.Atoi(parts[1])
		h, errH := strconv.Atoi(parts[2])
		if errW != nil || errH != nil {
			return AreaSpec{}, errdefs.Newf(errdefs.CodeAreaInvalid,
				"area %q: center dimensions must be integers", raw)
		}
		return AreaSpec{Mode: AreaCentered, W: w, H: h}, nil

	case len(parts) == 4:
		vals := make([]int, 4)
		for i, p := range parts {
			v, err := strconv.Atoi(p)
			if err != nil {
				return AreaSpec{}, errdefs.Newf(errdefs.CodeAreaInvalid,
					"area %q: coordinates must be integers", raw)
			}
			vals[i] = v
		}
		return AreaSpec{Mode: AreaCustom, X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}, nil

	default:
		return AreaSpec{}, errdefs.Newf(errdefs.CodeAreaInvalid,
			"area %q: expected \"full\", \"center:W:H\" or \"X:Y:W:H\"", raw)
	}
}

// String renders the area back in its parseable form.
func (a AreaSpec) String() string {
	switch a.Mode {
	case AreaCentered:
		return fmt.Sprintf("center:%d:%d", a.W, a.H)
	case AreaCustom:
		return fmt.Sprintf("%d:%d:%d:%d", a.X, a.Y, a.W, a.H)
	default:
		return "full"
	}
}
