package engine

import (
	"log/slog"

	"github.com/inamate/annotator/internal/annotation"
	"github.com/inamate/annotator/internal/geom"
	"github.com/inamate/annotator/internal/picking"
	"github.com/inamate/annotator/internal/shape"
)

// Tool selects how pointer input is interpreted.
type Tool string

const (
	ToolPan      Tool = "pan"
	ToolAnnotate Tool = "annotate"
	ToolEdit     Tool = "edit"
)

func ParseTool(s string) (Tool, bool) {
	switch t := Tool(s); t {
	case ToolPan, ToolAnnotate, ToolEdit:
		return t, true
	default:
		return "", false
	}
}

// tool handles pointer events in canvas coordinates.
type tool interface {
	down(s geom.Point)
	move(s geom.Point)
	up(s geom.Point)
	dbl(s geom.Point)
	cancel()
}

func pt(x, y float64) geom.Point { return geom.Pt(x, y) }

// SetTool switches the active tool. A polygon still being drawn is finished.
func (e *Engine) SetTool(t Tool) bool {
	if _, ok := e.tools[t]; !ok {
		return false
	}
	if t == e.tool {
		return true
	}

	e.tools[e.tool].cancel()
	e.store.EndShape()

	slog.Debug("tool changed", "session", e.session, "from", e.tool, "to", t)
	e.tool = t
	e.changed()
	return true
}

func (e *Engine) Tool() Tool { return e.tool }

// PointerDown, PointerMove, PointerUp and DoubleClick take canvas-relative
// device coordinates.
func (e *Engine) PointerDown(x, y float64) { e.tools[e.tool].down(pt(x, y)) }

func (e *Engine) PointerMove(x, y float64) { e.tools[e.tool].move(pt(x, y)) }

func (e *Engine) PointerUp(x, y float64) { e.tools[e.tool].up(pt(x, y)) }

func (e *Engine) DoubleClick(x, y float64) { e.tools[e.tool].dbl(pt(x, y)) }

func (e *Engine) toImage(s geom.Point) geom.Point { return e.vp.ScreenToImage(s) }

// pickable is every feature's shapes, or the scratch list when no features
// are loaded.
func (e *Engine) pickable() []*annotation.Feature {
	if feats := e.store.Features(); len(feats) > 0 {
		return feats
	}
	return []*annotation.Feature{{Shapes: e.store.Shapes()}}
}

// --- Pan ---

type panTool struct {
	e      *Engine
	active bool
	last   geom.Point
}

func (t *panTool) down(s geom.Point) {
	if t.active {
		return
	}
	t.last = s
	t.active = true
}

func (t *panTool) move(s geom.Point) {
	if !t.active {
		return
	}
	t.e.vp.Pan(s.X-t.last.X, s.Y-t.last.Y)
	t.last = s
}

func (t *panTool) up(geom.Point) { t.active = false }

func (t *panTool) dbl(geom.Point) {}

func (t *panTool) cancel() { t.active = false }

// --- Annotate ---

// annotateTool draws new shapes. Press starts a shape, each release commits a
// point, and a double-click finishes a polygon. Rects finish on the first
// release.
type annotateTool struct {
	e      *Engine
	active bool
}

func (t *annotateTool) down(s geom.Point) {
	if t.active {
		return
	}
	t.e.store.StartShape(t.e.toImage(s))
	t.active = true
}

func (t *annotateTool) move(s geom.Point) {
	if !t.active {
		return
	}
	t.e.store.ShowPoint(t.e.toImage(s))
}

func (t *annotateTool) up(s geom.Point) {
	if !t.active {
		return
	}
	t.active = t.e.store.NextPoint(t.e.toImage(s))
}

func (t *annotateTool) dbl(geom.Point) {
	if !t.active {
		return
	}
	t.active = false
	t.e.store.EndShape()
}

func (t *annotateTool) cancel() { t.active = false }

// --- Edit ---

// editTool drags existing points. Pressing away from any point but near a
// polygon edge inserts a point there and drags it; double-clicking a polygon
// point removes it.
type editTool struct {
	e      *Engine
	target *shape.Shape
	index  int
}

// radius is the pick distance in image space.
func (t *editTool) radius() float64 {
	return t.e.cfg.PickRadius / t.e.vp.Scale()
}

func (t *editTool) down(s geom.Point) {
	p := t.e.toImage(s)
	r := t.radius()
	feats := t.e.pickable()

	if pick := picking.NearestPoint(feats, p); pick.Found() && pick.Distance <= r {
		t.target, t.index = pick.Shape, pick.Index
		return
	}

	edge := picking.NearestEdge(insertable(feats), p)
	if !edge.Found() || edge.Distance > r {
		return
	}
	if t.e.store.InsertPoint(edge.Shape, edge.I0, edge.Point) {
		t.target, t.index = edge.Shape, edge.I0+1
	}
}

func (t *editTool) move(s geom.Point) {
	if t.target == nil {
		return
	}
	t.e.store.MovePoint(t.target, t.index, t.e.toImage(s))
}

func (t *editTool) up(geom.Point) { t.target = nil }

func (t *editTool) dbl(s geom.Point) {
	t.target = nil

	pick := picking.NearestPoint(t.e.pickable(), t.e.toImage(s))
	if !pick.Found() || pick.Distance > t.radius() || !pick.Shape.CanInsertPoint() {
		return
	}
	t.e.store.RemovePoint(pick.Shape, pick.Index)
}

func (t *editTool) cancel() { t.target = nil }

// insertable narrows feats to the shapes that accept new points.
func insertable(feats []*annotation.Feature) []*annotation.Feature {
	out := make([]*annotation.Feature, 0, len(feats))
	for _, f := range feats {
		view := &annotation.Feature{Name: f.Name}
		for _, sh := range f.Shapes {
			if sh.CanInsertPoint() {
				view.Shapes = append(view.Shapes, sh)
			}
		}
		out = append(out, view)
	}
	return out
}
