package arbor

import (
	"strings"
	"testing"
)

func TestHUDRefresh(t *testing.T) {
	h, err := NewHUD(12)
	if err != nil {
		t.Fatalf("NewHUD: %v", err)
	}
	h.Lines = func() []string { return []string{"mode: wireframe"} }

	h.refresh(ParameterSet{ParamTime: 1.25})

	lines := strings.Split(h.Text(), "\n")
	if len(lines) != 3 {
		t.Fatalf("HUD text = %q, want 3 lines", h.Text())
	}
	if !strings.HasPrefix(lines[0], "FPS: ") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "time: 1.25s" {
		t.Errorf("line 1 = %q", lines[1])
	}
	if lines[2] != "mode: wireframe" {
		t.Errorf("line 2 = %q", lines[2])
	}
}

func TestHUDRefreshWithoutTime(t *testing.T) {
	h, err := NewHUD(12)
	if err != nil {
		t.Fatal(err)
	}
	h.refresh(nil)
	if strings.Contains(h.Text(), "time:") {
		t.Errorf("unexpected time line in %q", h.Text())
	}
}
