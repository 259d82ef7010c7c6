//go:build js && wasm

package main

import (
	"bytes"
	"log/slog"
	"os"
	"syscall/js"

	"github.com/google/uuid"

	"github.com/inamate/annotator/internal/config"
	"github.com/inamate/annotator/internal/engine"
	"github.com/inamate/annotator/internal/shape"
)

var eng *engine.Engine

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		cfg = config.Default()
	}

	clientID := uuid.New().String()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()})).
		With("client", clientID))

	eng = engine.New(cfg)
	slog.Info("annotator engine started", "session", eng.SessionID())

	// Create the engine API object
	annotatorEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	annotatorEngine.Set("load", js.FuncOf(load))
	annotatorEngine.Set("loadSample", js.FuncOf(loadSample))
	annotatorEngine.Set("importAnnotations", js.FuncOf(importAnnotations))
	annotatorEngine.Set("bindImage", js.FuncOf(bindImage))
	annotatorEngine.Set("bindImageData", js.FuncOf(bindImageData))
	annotatorEngine.Set("resize", js.FuncOf(resize))
	annotatorEngine.Set("onChange", js.FuncOf(onChange))
	annotatorEngine.Set("setTool", js.FuncOf(setTool))
	annotatorEngine.Set("setKind", js.FuncOf(setKind))
	annotatorEngine.Set("pointerDown", js.FuncOf(pointer(eng.PointerDown)))
	annotatorEngine.Set("pointerMove", js.FuncOf(pointer(eng.PointerMove)))
	annotatorEngine.Set("pointerUp", js.FuncOf(pointer(eng.PointerUp)))
	annotatorEngine.Set("doubleClick", js.FuncOf(pointer(eng.DoubleClick)))
	annotatorEngine.Set("zoomIn", js.FuncOf(action(eng.ZoomIn)))
	annotatorEngine.Set("zoomOut", js.FuncOf(action(eng.ZoomOut)))
	annotatorEngine.Set("nextFeature", js.FuncOf(action(eng.NextFeature)))
	annotatorEngine.Set("prevFeature", js.FuncOf(action(eng.PrevFeature)))
	annotatorEngine.Set("nextShape", js.FuncOf(action(eng.NextShape)))
	annotatorEngine.Set("prevShape", js.FuncOf(action(eng.PrevShape)))
	annotatorEngine.Set("deleteCurrent", js.FuncOf(deleteCurrent))

	// --- Queries (frontend ← backend) ---
	annotatorEngine.Set("render", js.FuncOf(render))
	annotatorEngine.Set("getControls", js.FuncOf(getControls))
	annotatorEngine.Set("getExport", js.FuncOf(getExport))
	annotatorEngine.Set("getFeatures", js.FuncOf(getFeatures))

	// Register on global scope
	js.Global().Set("annotatorEngine", annotatorEngine)

	// Signal that WASM is ready
	js.Global().Set("annotatorWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errResult(err error) any {
	return js.ValueOf(map[string]any{"error": err.Error()})
}

func okResult() any {
	return js.ValueOf(map[string]any{"ok": true})
}

func pointer(fn func(x, y float64)) func(js.Value, []js.Value) any {
	return func(this js.Value, args []js.Value) any {
		if len(args) < 2 {
			return nil
		}
		fn(args[0].Float(), args[1].Float())
		return nil
	}
}

func action(fn func()) func(js.Value, []js.Value) any {
	return func(this js.Value, args []js.Value) any {
		fn()
		return nil
	}
}

// --- Command Handlers ---

func load(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing input JSON"})
	}
	if err := eng.LoadJSON(args[0].String()); err != nil {
		slog.Warn("load input", "error", err)
		return errResult(err)
	}
	return okResult()
}

func loadSample(this js.Value, args []js.Value) any {
	src := ""
	if len(args) > 0 && args[0].Type() == js.TypeString {
		src = args[0].String()
	}
	eng.LoadSample(src)
	return okResult()
}

func importAnnotations(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing annotations JSON"})
	}
	if err := eng.ImportAnnotationsJSON(args[0].String()); err != nil {
		return errResult(err)
	}
	return okResult()
}

func bindImage(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return nil
	}
	eng.BindImage(args[0].Int(), args[1].Int())
	return nil
}

// bindImageData takes the encoded image bytes as a Uint8Array and binds the
// image size read from its header.
func bindImageData(this js.Value, args []js.Value) any {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		return js.ValueOf(map[string]any{"error": "missing image bytes"})
	}
	buf := make([]byte, args[0].Get("length").Int())
	js.CopyBytesToGo(buf, args[0])

	info, err := eng.BindImageData(bytes.NewReader(buf))
	if err != nil {
		slog.Warn("bind image data", "error", err)
		return errResult(err)
	}
	return js.ValueOf(map[string]any{
		"ok":     true,
		"format": info.Format,
		"width":  info.Width,
		"height": info.Height,
	})
}

func resize(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return nil
	}
	eng.Resize(args[0].Int(), args[1].Int())
	return nil
}

// onChange registers a JS callback run after every change that needs a redraw.
func onChange(this js.Value, args []js.Value) any {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		eng.OnChange = nil
		return nil
	}
	cb := args[0]
	eng.OnChange = func() { cb.Invoke() }
	return nil
}

func setTool(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	t, ok := engine.ParseTool(args[0].String())
	if !ok {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.SetTool(t))
}

func setKind(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.SetKind(shape.Kind(args[0].String())))
}

func deleteCurrent(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.DeleteCurrent())
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.Render())
}

func getControls(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.ControlsJSON())
}

func getExport(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.ExportJSON())
}

func getFeatures(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.FeaturesJSON())
}
