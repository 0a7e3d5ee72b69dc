//go:build darwin

package display

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/screenrec/screenrec/internal/errdefs"
	"github.com/screenrec/screenrec/internal/geometry"
)

// probeScales derives per-display scale factors from system_profiler by
// dividing framebuffer pixels by the logical resolution. Profiler order
// usually matches the display list; when it does not, the scale override
// config takes precedence anyway.
func probeScales(n int) []float64 {
	out, err := exec.Command("system_profiler", "SPDisplaysDataType", "-json").Output()
	if err != nil {
		slog.Debug("display scale probe failed", "error", err)
		return nil
	}
	scales := parseProfilerScales(out)
	if len(scales) != n {
		slog.Debug("display scale probe count mismatch", "probed", len(scales), "displays", n)
	}
	return scales
}

type profilerReport struct {
	Displays []struct {
		Panels []struct {
			Pixels     string `json:"_spdisplays_pixels"`
			Resolution string `json:"_spdisplays_resolution"`
		} `json:"spdisplays_ndrvs"`
	} `json:"SPDisplaysDataType"`
}

func parseProfilerScales(data []byte) []float64 {
	var report profilerReport
	if err := json.Unmarshal(data, &report); err != nil {
		slog.Debug("display scale probe returned malformed json", "error", err)
		return nil
	}

	var scales []float64
	for _, gpu := range report.Displays {
		for _, panel := range gpu.Panels {
			pixW, _, okP := parseExtent(panel.Pixels)
			logW, _, okL := parseExtent(panel.Resolution)
			if !okP || !okL || logW == 0 {
				continue
			}
			scales = append(scales, pixW/logW)
		}
	}
	return scales
}

// parseExtent reads the leading "W x H" out of strings like "3024 x 1964"
// or "1512 x 982 @ 120.00Hz".
func parseExtent(s string) (w, h float64, ok bool) {
	fields := strings.Fields(s)
	if len(fields) < 3 || fields[1] != "x" {
		return 0, 0, false
	}
	w, errW := strconv.ParseFloat(fields[0], 64)
	h, errH := strconv.ParseFloat(fields[2], 64)
	if errW != nil || errH != nil {
		return 0, 0, false
	}
	return w, h, true
}

// windowListScript prints one tab-separated row per window of every
// visible process: app, title, x, y, width, height.
const windowListScript = `set _out to ""
tell application "System Events"
	repeat with _p in (every application process whose visible is true)
		set _app to name of _p
		repeat with _w in (every window of _p)
			try
				set _t to ""
				try
					set _t to name of _w
				end try
				set {_x, _y} to position of _w
				set {_wd, _ht} to size of _w
				set _out to _out & _app & tab & _t & tab & _x & tab & _y & tab & _wd & tab & _ht & linefeed
			end try
		end repeat
	end repeat
end tell
return _out`

func listWindows() ([]geometry.Window, error) {
	out, err := exec.Command("osascript", "-e", windowListScript).Output()
	if err != nil {
		return nil, errdefs.Wrap(err, errdefs.CodeNoWindows, "window enumeration failed").
			WithHint("grant accessibility permission to your terminal in System Settings > Privacy & Security")
	}
	return parseWindowRows(string(out)), nil
}

func parseWindowRows(out string) []geometry.Window {
	var wins []geometry.Window
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) != 6 {
			continue
		}
		nums := make([]float64, 4)
		valid := true
		for i, f := range fields[2:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				valid = false
				break
			}
			nums[i] = v
		}
		if !valid {
			continue
		}
		wins = append(wins, geometry.Window{
			ID:       fmt.Sprintf("win-%d", len(wins)),
			App:      strings.TrimSpace(fields[0]),
			Title:    strings.TrimSpace(fields[1]),
			Frame:    geometry.Rect{X: nums[0], Y: nums[1], W: nums[2], H: nums[3]},
			OnScreen: true,
		})
	}
	return wins
}
