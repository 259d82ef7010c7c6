package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/inamate/annotator/internal/annotation"
	"github.com/inamate/annotator/internal/config"
	"github.com/inamate/annotator/internal/document"
	"github.com/inamate/annotator/internal/render"
	"github.com/inamate/annotator/internal/shape"
	"github.com/inamate/annotator/internal/typeid"
	"github.com/inamate/annotator/internal/viewport"
)

// Engine owns the annotation store, the viewport and the active input tool.
// It processes commands from the frontend and returns query results.
type Engine struct {
	cfg     *config.Config
	session string

	store *annotation.Store
	vp    *viewport.Viewport
	src   string

	tool  Tool
	tools map[Tool]tool

	kindLocked bool

	// OnChange, if set, runs after any change that needs a redraw and a
	// refresh of the controls.
	OnChange func()
}

// New creates an engine with no features loaded.
func New(cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}

	e := &Engine{
		cfg:     cfg,
		session: typeid.NewSessionID(),
		store:   annotation.NewStore(),
		vp:      viewport.New(cfg),
		tool:    ToolAnnotate,
	}
	e.tools = map[Tool]tool{
		ToolPan:      &panTool{e: e},
		ToolAnnotate: &annotateTool{e: e},
		ToolEdit:     &editTool{e: e},
	}

	e.store.Subscribe(e.handleEvent)
	e.vp.Changed = e.changed

	return e
}

func (e *Engine) handleEvent(ev annotation.Event) {
	switch ev.Type {
	case annotation.EventShapeKindLocked:
		e.kindLocked = ev.Locked
	case annotation.EventSelectionChanged:
		e.changed()
	}
}

func (e *Engine) changed() {
	if e.OnChange != nil {
		e.OnChange()
	}
}

// SessionID identifies this engine instance in logs.
func (e *Engine) SessionID() string { return e.session }

// --- Commands (frontend → backend) ---

// Load replaces the whole session: canvas size, image source, features and
// annotations. The image stays unbound until BindImage reports its size.
func (e *Engine) Load(in document.Input) {
	w, h := in.Width, in.Height
	if w <= 0 || h <= 0 {
		w, h = document.DefaultWidth, document.DefaultHeight
	}

	e.src = in.Src
	e.vp.UnbindImage()
	e.vp.Reset(float64(w), float64(h))

	for _, t := range e.tools {
		t.cancel()
	}

	e.store.Reset()
	e.kindLocked = false
	e.store.ImportFeatures(in.Features)
	if in.Annotations != nil {
		e.store.ImportAnnotations(in.Annotations)
	}

	slog.Info("annotation session loaded",
		"session", e.session,
		"src", in.Src,
		"features", len(in.Features),
		"annotations", len(in.Annotations),
	)
	e.changed()
}

// LoadJSON parses and validates a plugin input record, then loads it.
func (e *Engine) LoadJSON(data string) error {
	in, err := document.ParseInput([]byte(data))
	if err != nil {
		return fmt.Errorf("load input: %w", err)
	}
	e.Load(*in)
	return nil
}

// LoadSample loads the built-in sample session.
func (e *Engine) LoadSample(src string) {
	e.Load(*document.NewSampleInput(src))
}

// ImportAnnotations replaces the shapes of the loaded features.
func (e *Engine) ImportAnnotations(anns document.Annotations) {
	e.store.ImportAnnotations(anns)
}

// ImportAnnotationsJSON decodes an annotations mapping and imports it.
func (e *Engine) ImportAnnotationsJSON(data string) error {
	var anns document.Annotations
	if err := json.Unmarshal([]byte(data), &anns); err != nil {
		return fmt.Errorf("decode annotations: %w", err)
	}
	e.ImportAnnotations(anns)
	return nil
}

// BindImage records the natural size of the loaded image and refits the view.
func (e *Engine) BindImage(width, height int) {
	e.vp.BindImage(width, height)
}

// BindImageData reads the size of the encoded image in r and binds it like
// BindImage. A failed read keeps the current binding.
func (e *Engine) BindImageData(r io.Reader) (viewport.ImageInfo, error) {
	info, err := e.vp.BindImageData(r)
	if err != nil {
		return viewport.ImageInfo{}, fmt.Errorf("bind image: %w", err)
	}
	slog.Info("image bound", "session", e.session, "format", info.Format, "width", info.Width, "height", info.Height)
	return info, nil
}

// Resize changes the canvas size and resets pan and zoom.
func (e *Engine) Resize(width, height int) {
	e.vp.Reset(float64(width), float64(height))
	e.changed()
}

func (e *Engine) ZoomIn() { e.vp.Zoom(e.cfg.ZoomInFactor) }

func (e *Engine) ZoomOut() { e.vp.Zoom(e.cfg.ZoomOutFactor) }

// Zoom scales the view by an arbitrary factor, e.g. from a wheel event.
func (e *Engine) Zoom(factor float64) { e.vp.Zoom(factor) }

func (e *Engine) Pan(dx, dy float64) { e.vp.Pan(dx, dy) }

func (e *Engine) NextFeature() { e.store.SelectNextFeature() }

func (e *Engine) PrevFeature() { e.store.SelectPrevFeature() }

func (e *Engine) NextShape() { e.store.SelectNextShape() }

func (e *Engine) PrevShape() { e.store.SelectPrevShape() }

// SetKind chooses the kind for new shapes. It is refused while the current
// feature dictates the kind.
func (e *Engine) SetKind(kind shape.Kind) bool {
	if e.kindLocked {
		return false
	}
	if _, ok := shape.ParseKind(document.ShapeType(kind)); !ok {
		return false
	}
	e.store.SetCurrentKind(kind)
	e.changed()
	return true
}

// DeleteCurrent deletes the selected shape unless the controls forbid it.
func (e *Engine) DeleteCurrent() bool {
	if !e.Controls().CanDelete {
		return false
	}
	for _, t := range e.tools {
		t.cancel()
	}
	e.store.DeleteCurrent()
	return true
}

// --- Queries (frontend ← backend) ---

// Render compiles the current frame and returns draw commands as JSON.
func (e *Engine) Render() string {
	result, err := render.ToJSON(e.RenderCommands())
	if err != nil {
		slog.Error("render", "session", e.session, "error", err)
	}
	return result
}

// RenderCommands returns the draw commands for the current frame.
func (e *Engine) RenderCommands() []render.DrawCommand {
	return render.Compile(e.store, e.vp, e.src)
}

// Export returns the valid shapes of every feature.
func (e *Engine) Export() document.Annotations {
	return e.store.ExportAnnotations()
}

// ExportJSON returns Export as JSON.
func (e *Engine) ExportJSON() string {
	data, err := json.Marshal(e.Export())
	if err != nil {
		slog.Error("export", "session", e.session, "error", err)
		return "{}"
	}
	return string(data)
}

// FeatureSummary describes one loaded feature.
type FeatureSummary struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Required bool               `json:"required"`
	Shape    document.ShapeType `json:"shape"`
	Shapes   int                `json:"shapes"` // valid shapes only
}

// Features lists the loaded features in order.
func (e *Engine) Features() []FeatureSummary {
	feats := e.store.Features()
	out := make([]FeatureSummary, len(feats))
	for i, f := range feats {
		n := 0
		for _, sh := range f.Shapes {
			if sh.IsValid() {
				n++
			}
		}
		out[i] = FeatureSummary{
			ID:       f.ID,
			Name:     f.Name,
			Required: f.Required,
			Shape:    f.ShapeKind,
			Shapes:   n,
		}
	}
	return out
}

// FeaturesJSON returns Features as JSON.
func (e *Engine) FeaturesJSON() string {
	data, _ := json.Marshal(e.Features())
	return string(data)
}

// ScreenToImage converts a canvas position to image space.
func (e *Engine) ScreenToImage(x, y float64) (float64, float64) {
	p := e.vp.ScreenToImage(pt(x, y))
	return p.X, p.Y
}

// Store exposes the annotation store for read-only inspection.
func (e *Engine) Store() *annotation.Store { return e.store }

// Viewport exposes the viewport for read-only inspection.
func (e *Engine) Viewport() *viewport.Viewport { return e.vp }
