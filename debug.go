package arbor

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
)

// globalDebug enables the extra tree checks and per-frame stats. Set it with
// SetDebug or RunConfig.Debug.
var globalDebug bool

// SetDebug turns debug checks and frame stats on or off.
func SetDebug(on bool) {
	globalDebug = on
}

// debugStats holds per-frame timing and draw-call metrics.
// Only populated when debug mode is on.
type debugStats struct {
	drawTime      time.Duration
	drawCallCount int
	triangleCount int
	culledCount   int
}

// frameStats collects the stats of the frame being drawn. Meshes add to it
// from Draw; the viewer resets and reports it once per frame.
var frameStats debugStats

func (s *debugStats) reset() {
	*s = debugStats{}
}

// countDraw records one submitted mesh with its triangle and culled counts.
func (s *debugStats) countDraw(triangles, culled int) {
	if !globalDebug {
		return
	}
	s.drawCallCount++
	s.triangleCount += triangles
	s.culledCount += culled
}

// debugLog reports the stats of a finished frame through the package logger.
func debugLog(frame int, stats debugStats) {
	if !globalDebug {
		return
	}
	logger.Debug("frame stats",
		"frame", frame,
		"draw", stats.drawTime,
		"draw_calls", stats.drawCallCount,
		"triangles", stats.triangleCount,
		"culled", stats.culledCount)
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		logger.Warn("node has many children",
			"node", n.Name, "children", len(n.children), "threshold", debugMaxChildCount)
	}
}

// debugMaxTreeDepth is the depth past which DumpTree warns.
const debugMaxTreeDepth = 32

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
	MaxDepth:                3,
}

// debugDump renders v for debug logs.
func debugDump(v any) string {
	return dumpConfig.Sdump(v)
}

// TreeInfo is one line of DumpTree output.
type TreeInfo struct {
	Depth    int
	Name     string
	Kind     string
	Params   []string
	Children int
}

// DumpTree walks the subtree rooted at root and returns one TreeInfo per
// node, depth first. Leaves that are not nodes are reported by type only.
func DumpTree(root Drawable) []TreeInfo {
	var out []TreeInfo
	var walk func(d Drawable, depth int)
	walk = func(d Drawable, depth int) {
		info := TreeInfo{Depth: depth, Kind: kindOf(d)}
		if sn, ok := d.(sceneNoder); ok {
			n := sn.sceneNode()
			info.Name = n.Name
			info.Children = len(n.children)
			for k := range n.Params {
				info.Params = append(info.Params, k)
			}
			sort.Strings(info.Params)
			if depth == debugMaxTreeDepth+1 {
				logger.Warn("scene tree is deep", "node", n.Name, "depth", depth, "threshold", debugMaxTreeDepth)
			}
			out = append(out, info)
			for _, c := range n.children {
				walk(c, depth+1)
			}
			return
		}
		if m, ok := d.(*Mesh); ok {
			info.Name = m.Name
		}
		out = append(out, info)
	}
	walk(root, 0)
	return out
}

// LogTree writes the DumpTree output of root to the package logger at debug
// level.
func LogTree(root Drawable) {
	for _, info := range DumpTree(root) {
		logger.Debug("scene node",
			"depth", info.Depth, "name", info.Name, "kind", info.Kind,
			"params", info.Params, "children", info.Children)
	}
}

func kindOf(d Drawable) string {
	return strings.TrimPrefix(strings.TrimPrefix(fmt.Sprintf("%T", d), "*"), "arbor.")
}
