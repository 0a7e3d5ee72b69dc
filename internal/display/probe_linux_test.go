//go:build linux

package display

import "testing"

func TestParseWindowTable(t *testing.T) {
	out := "0x03800003  0 1412   10   28  1200  800  host Mozilla Firefox\n" +
		"0x04a00007  1 1780  340  120   640  480  host\n" +
		"0x00c00002 -1  980    0    0  1920   32  host Top Panel\n" +
		"malformed line\n"

	appOf := func(pid string) string {
		return map[string]string{"1412": "firefox", "1780": "mpv"}[pid]
	}

	wins := parseWindowTable(out, appOf)
	if len(wins) != 2 {
		t.Fatalf("parseWindowTable() returned %d windows, want 2", len(wins))
	}

	first := wins[0]
	if first.ID != "0x03800003" || first.App != "firefox" || first.Title != "Mozilla Firefox" {
		t.Errorf("wins[0] = %+v, want firefox window", first)
	}
	if first.Frame.X != 10 || first.Frame.Y != 28 || first.Frame.W != 1200 || first.Frame.H != 800 {
		t.Errorf("wins[0].Frame = %+v, want {10 28 1200 800}", first.Frame)
	}

	second := wins[1]
	if second.App != "mpv" || second.Title != "" {
		t.Errorf("wins[1] = %+v, want untitled mpv window", second)
	}
}

func TestParseWindowTableSkipsDocks(t *testing.T) {
	out := "0x00c00002 -1 980 0 0 1920 32 host Panel\n"
	if wins := parseWindowTable(out, func(string) string { return "panel" }); len(wins) != 0 {
		t.Errorf("parseWindowTable() = %v, want docks skipped", wins)
	}
}
