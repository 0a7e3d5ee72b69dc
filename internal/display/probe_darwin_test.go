//go:build darwin

package display

import (
	"math"
	"testing"
)

const sampleProfilerJSON = `{
  "SPDisplaysDataType": [
    {
      "spdisplays_ndrvs": [
        {
          "_name": "Color LCD",
          "_spdisplays_pixels": "3024 x 1964",
          "_spdisplays_resolution": "1512 x 982 @ 120.00Hz",
          "spdisplays_main": "spdisplays_yes"
        },
        {
          "_name": "DELL U2720Q",
          "_spdisplays_pixels": "1920 x 1080",
          "_spdisplays_resolution": "1920 x 1080 @ 60.00Hz"
        }
      ]
    }
  ]
}`

func TestParseProfilerScales(t *testing.T) {
	scales := parseProfilerScales([]byte(sampleProfilerJSON))
	want := []float64{2.0, 1.0}

	if len(scales) != len(want) {
		t.Fatalf("parseProfilerScales() returned %d scales, want %d", len(scales), len(want))
	}
	for i := range want {
		if math.Abs(scales[i]-want[i]) > 0.001 {
			t.Errorf("scales[%d] = %v, want %v", i, scales[i], want[i])
		}
	}
}

func TestParseProfilerScalesMalformed(t *testing.T) {
	if scales := parseProfilerScales([]byte("not json")); scales != nil {
		t.Errorf("parseProfilerScales(garbage) = %v, want nil", scales)
	}
	if scales := parseProfilerScales([]byte(`{"SPDisplaysDataType": []}`)); scales != nil {
		t.Errorf("parseProfilerScales(empty report) = %v, want nil", scales)
	}
}

func TestParseExtent(t *testing.T) {
	tests := []struct {
		in     string
		w, h   float64
		wantOK bool
	}{
		{"3024 x 1964", 3024, 1964, true},
		{"1512 x 982 @ 120.00Hz", 1512, 982, true},
		{"", 0, 0, false},
		{"3024x1964", 0, 0, false},
		{"wide x tall", 0, 0, false},
	}

	for _, tt := range tests {
		w, h, ok := parseExtent(tt.in)
		if ok != tt.wantOK || w != tt.w || h != tt.h {
			t.Errorf("parseExtent(%q) = (%v, %v, %v), want (%v, %v, %v)",
				tt.in, w, h, ok, tt.w, tt.h, tt.wantOK)
		}
	}
}

func TestParseWindowRows(t *testing.T) {
	out := "Safari\tApple\t0\t25\t1200\t800\n" +
		"Terminal\t\t100\t50\t640\t480\n" +
		"truncated row\n" +
		"Notes\tideas\tNaNish\t0\t100\t100x\n"

	wins := parseWindowRows(out)
	if len(wins) != 2 {
		t.Fatalf("parseWindowRows() returned %d windows, want 2", len(wins))
	}

	if wins[0].App != "Safari" || wins[0].Title != "Apple" {
		t.Errorf("wins[0] = %q/%q, want Safari/Apple", wins[0].App, wins[0].Title)
	}
	if wins[0].Frame.W != 1200 || wins[0].Frame.H != 800 {
		t.Errorf("wins[0].Frame = %+v, want 1200x800", wins[0].Frame)
	}
	if wins[1].Title != "" {
		t.Errorf("wins[1].Title = %q, want empty", wins[1].Title)
	}
	if !wins[1].OnScreen {
		t.Error("parsed windows should be marked on-screen")
	}
}
