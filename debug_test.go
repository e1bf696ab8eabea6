package arbor

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// captureLogs routes the package logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })
	return &buf
}

func TestDumpTree(t *testing.T) {
	root := NewNode("root")
	root.SetParam(ParamLight, mgl32.Vec3{0, 1, 0})
	root.SetParam(ParamColor, ColorWhite)
	arm := NewRotationControlNode("arm", ebiten.KeyA, ebiten.KeyD, mgl32.Vec3{0, 1, 0})
	root.Add(arm, DrawFunc(func(_, _, _ mgl32.Mat4, _ *Shader, _ ParameterSet) {}))
	arm.Add(Pyramid())

	got := DumpTree(root)
	want := []TreeInfo{
		{Depth: 0, Name: "root", Kind: "Node", Params: []string{"Color", "Light"}, Children: 2},
		{Depth: 1, Name: "arm", Kind: "RotationControlNode", Children: 1},
		{Depth: 2, Name: "pyramid", Kind: "Mesh"},
		{Depth: 1, Kind: "DrawFunc"},
	}
	if len(got) != len(want) {
		t.Fatalf("DumpTree returned %d entries, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.Depth != w.Depth || g.Name != w.Name || g.Kind != w.Kind || g.Children != w.Children {
			t.Errorf("entry %d = %+v, want %+v", i, g, w)
		}
		if strings.Join(g.Params, ",") != strings.Join(w.Params, ",") {
			t.Errorf("entry %d params = %v, want %v", i, g.Params, w.Params)
		}
	}
}

func TestDumpTreeSharedChildListedPerParent(t *testing.T) {
	shared := Cube()
	a, b := NewNode("a"), NewNode("b")
	a.Add(shared)
	b.Add(shared)
	root := NewNode("root")
	root.Add(a, b)

	meshes := 0
	for _, info := range DumpTree(root) {
		if info.Kind == "Mesh" {
			meshes++
		}
	}
	if meshes != 2 {
		t.Errorf("shared mesh listed %d times, want 2", meshes)
	}
}

func TestLogTree(t *testing.T) {
	buf := captureLogs(t)
	root := NewNode("root")
	root.Add(NewNode("child"))

	LogTree(root)

	out := buf.String()
	if strings.Count(out, "scene node") != 2 {
		t.Errorf("expected two scene node records, got:\n%s", out)
	}
	if !strings.Contains(out, "name=child") {
		t.Errorf("child missing from log:\n%s", out)
	}
}

func TestDebugChildCountWarning(t *testing.T) {
	buf := captureLogs(t)
	SetDebug(true)
	defer SetDebug(false)

	n := NewNode("crowded")
	leaf := &recorder{}
	for i := 0; i <= debugMaxChildCount; i++ {
		n.Add(leaf)
	}
	if !strings.Contains(buf.String(), "node has many children") {
		t.Error("expected a child count warning")
	}
}

func TestFrameStatsOnlyInDebug(t *testing.T) {
	frameStats.reset()
	frameStats.countDraw(10, 1)
	if frameStats.drawCallCount != 0 {
		t.Error("stats counted with debug off")
	}

	SetDebug(true)
	defer SetDebug(false)
	frameStats.countDraw(10, 1)
	frameStats.countDraw(5, 0)
	if frameStats.drawCallCount != 2 || frameStats.triangleCount != 15 || frameStats.culledCount != 1 {
		t.Errorf("stats = %+v", frameStats)
	}
	frameStats.reset()
}

func TestDebugLog(t *testing.T) {
	buf := captureLogs(t)
	SetDebug(true)
	defer SetDebug(false)

	debugLog(7, debugStats{drawCallCount: 3, triangleCount: 42})
	if !strings.Contains(buf.String(), "triangles=42") {
		t.Errorf("unexpected log output:\n%s", buf.String())
	}
}

func TestDebugDump(t *testing.T) {
	out := debugDump(DefaultRunConfig())
	if !strings.Contains(out, "Title") || !strings.Contains(out, "arbor") {
		t.Errorf("dump missing fields:\n%s", out)
	}
}

func TestSetLoggerNilRestoresSilence(t *testing.T) {
	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should be disabled")
	}
}
