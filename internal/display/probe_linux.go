//go:build linux

package display

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/screenrec/screenrec/internal/errdefs"
	"github.com/screenrec/screenrec/internal/geometry"
)

// probeScales returns nothing on linux: X11 display bounds are already
// device pixels, so logical and pixel coordinates coincide (scale 1.0).
func probeScales(int) []float64 {
	return nil
}

func listWindows() ([]geometry.Window, error) {
	if _, err := exec.LookPath("wmctrl"); err != nil {
		return nil, errdefs.New(errdefs.CodeNoWindows, "wmctrl not found").
			WithHint("install wmctrl to enable window enumeration")
	}
	out, err := exec.Command("wmctrl", "-lpG").Output()
	if err != nil {
		return nil, errdefs.Wrap(err, errdefs.CodeNoWindows, "window enumeration failed")
	}
	return parseWindowTable(string(out), commandName), nil
}

// parseWindowTable reads wmctrl -lpG output. Columns: window id, desktop,
// pid, x, y, width, height, host, then the title. Desktop -1 marks docks
// and panels, which are skipped.
func parseWindowTable(out string, appOf func(pid string) string) []geometry.Window {
	var wins []geometry.Window
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 8 || fields[1] == "-1" {
			continue
		}
		nums := make([]float64, 4)
		valid := true
		for i, f := range fields[3:7] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				valid = false
				break
			}
			nums[i] = v
		}
		if !valid {
			continue
		}
		title := ""
		if len(fields) > 8 {
			title = strings.Join(fields[8:], " ")
		}
		wins = append(wins, geometry.Window{
			ID:       fields[0],
			App:      appOf(fields[2]),
			Title:    title,
			Frame:    geometry.Rect{X: nums[0], Y: nums[1], W: nums[2], H: nums[3]},
			OnScreen: true,
		})
	}
	return wins
}

func commandName(pid string) string {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%s/comm", pid))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
