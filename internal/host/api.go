package host

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/pixelbus/pixelbus/internal/wire"
)

// apiEnv builds the predeclared environment the guest script sees. Every
// builtin closes over the host; drawing calls append to the frame's command
// accumulator, queries read the snapshot taken at the last frame wake.
func (h *Host) apiEnv() starlark.StringDict {
	env := starlark.StringDict{}
	add := func(name string, fn builtinFunc) {
		env[name] = starlark.NewBuiltin(name, fn)
	}

	add("on_frame", h.biOnFrame)

	// Surface state.
	add("clear", h.emitNoArgs(wire.Clear))
	add("set_stroke_color", h.biStrokeColor)
	add("set_fill_color", h.biFillColor)
	add("set_line_width", h.biLineWidth)
	add("set_font", h.biFont)
	add("set_size", h.biSetSize)

	// Shapes.
	add("stroke_rect", h.emitQuad("x", "y", "w", "h", wire.StrokeRect))
	add("fill_rect", h.emitQuad("x", "y", "w", "h", wire.FillRect))
	add("stroke_circle", h.emitTriple("x", "y", "r", wire.StrokeCircle))
	add("fill_circle", h.emitTriple("x", "y", "r", wire.FillCircle))
	add("line", h.emitQuad("x1", "y1", "x2", "y2", wire.Line))
	add("text", h.biText)
	add("image", h.biImage)

	// Paths.
	add("begin_path", h.emitNoArgs(wire.BeginPath))
	add("close_path", h.emitNoArgs(wire.ClosePath))
	add("move_to", h.emitPair("x", "y", wire.MoveTo))
	add("line_to", h.emitPair("x", "y", wire.LineTo))
	add("arc", h.biArc)
	add("bezier_to", h.biBezierTo)
	add("quadratic_to", h.emitQuad("cx", "cy", "x", "y", wire.QuadraticTo))
	add("ellipse", h.biEllipse)
	add("round_rect", h.biRoundRect)
	add("clip", h.emitNoArgs(wire.Clip))
	add("fill_path", h.emitNoArgs(wire.FillPath))
	add("stroke_path", h.emitNoArgs(wire.StrokePath))

	// Transform stack.
	add("translate", h.emitPair("dx", "dy", wire.Translate))
	add("rotate", h.emitSingle("angle", wire.Rotate))
	add("scale_by", h.emitPair("sx", "sy", wire.Scale))
	add("set_transform", h.biSetTransform)
	add("save", h.emitNoArgs(wire.Save))
	add("restore", h.emitNoArgs(wire.Restore))

	// Timing queries.
	add("delta_time", h.biDeltaTime)
	add("total_time", h.biTotalTime)
	add("frame", h.biFrame)

	// Input queries.
	add("key_down", h.keyQuery(func(s *wire.InputState, k string) bool { return s.KeyDown(k) }))
	add("key_pressed", h.keyQuery(func(s *wire.InputState, k string) bool { return s.KeyPressed(k) }))
	add("mouse_x", h.biMouseX)
	add("mouse_y", h.biMouseY)
	add("mouse_down", h.mouseQuery(func(s *wire.InputState, b int) bool { return s.MouseButtonDown(b) }))
	add("mouse_pressed", h.mouseQuery(func(s *wire.InputState, b int) bool { return s.MouseButtonPressed(b) }))
	add("gamepad_connected", h.biGamepadConnected)
	add("gamepad_id", h.biGamepadID)
	add("gamepad_button", h.biGamepadButton)
	add("gamepad_pressed", h.biGamepadPressed)
	add("gamepad_axis", h.biGamepadAxis)

	// Canvas queries.
	add("width", h.biWidth)
	add("height", h.biHeight)

	// Assets.
	add("register_image", h.biRegisterImage)
	add("image_width", h.biImageWidth)
	add("image_height", h.biImageHeight)

	return env
}

type builtinFunc func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error)

func (h *Host) emit(cmd wire.DrawCommand) {
	h.commands = append(h.commands, cmd)
}

// Shape helpers for the many builtins that differ only in arity.

func (h *Host) emitNoArgs(make func() wire.DrawCommand) builtinFunc {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
			return nil, err
		}
		h.emit(make())
		return starlark.None, nil
	}
}

func (h *Host) emitSingle(name string, make func(float64) wire.DrawCommand) builtinFunc {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var v float64
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, name, &v); err != nil {
			return nil, err
		}
		h.emit(make(v))
		return starlark.None, nil
	}
}

func (h *Host) emitPair(n1, n2 string, make func(a, b float64) wire.DrawCommand) builtinFunc {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var x, y float64
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, n1, &x, n2, &y); err != nil {
			return nil, err
		}
		h.emit(make(x, y))
		return starlark.None, nil
	}
}

func (h *Host) emitTriple(n1, n2, n3 string, make func(a, b, c float64) wire.DrawCommand) builtinFunc {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var x, y, r float64
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, n1, &x, n2, &y, n3, &r); err != nil {
			return nil, err
		}
		h.emit(make(x, y, r))
		return starlark.None, nil
	}
}

func (h *Host) emitQuad(n1, n2, n3, n4 string, make func(a, b, c, d float64) wire.DrawCommand) builtinFunc {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var a, bb, c, d float64
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, n1, &a, n2, &bb, n3, &c, n4, &d); err != nil {
			return nil, err
		}
		h.emit(make(a, bb, c, d))
		return starlark.None, nil
	}
}

func (h *Host) biOnFrame(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var fn starlark.Value
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "callback", &fn); err != nil {
		return nil, err
	}
	callable, ok := fn.(starlark.Callable)
	if !ok {
		return nil, fmt.Errorf("on_frame: want a function, got %s", fn.Type())
	}
	h.mu.Lock()
	h.callback = callable
	h.entry = callable.Name()
	h.mu.Unlock()
	return starlark.None, nil
}

func (h *Host) biStrokeColor(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	r, g, bl, a := 0.0, 0.0, 0.0, 255.0
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "r", &r, "g", &g, "b", &bl, "a?", &a); err != nil {
		return nil, err
	}
	h.emit(wire.StrokeColor(r, g, bl, a))
	return starlark.None, nil
}

func (h *Host) biFillColor(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	r, g, bl, a := 0.0, 0.0, 0.0, 255.0
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "r", &r, "g", &g, "b", &bl, "a?", &a); err != nil {
		return nil, err
	}
	h.emit(wire.FillColor(r, g, bl, a))
	return starlark.None, nil
}

func (h *Host) biLineWidth(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var w float64
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "width", &w); err != nil {
		return nil, err
	}
	h.emit(wire.LineWidth(w))
	return starlark.None, nil
}

func (h *Host) biFont(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var spec string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "font", &spec); err != nil {
		return nil, err
	}
	h.emit(wire.Font(spec))
	return starlark.None, nil
}

func (h *Host) biSetSize(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var w, ht float64
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "width", &w, "height", &ht); err != nil {
		return nil, err
	}
	h.emit(wire.CanvasResize(w, ht))
	return starlark.None, nil
}

func (h *Host) biText(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var s string
	var x, y float64
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "text", &s, "x", &x, "y", &y); err != nil {
		return nil, err
	}
	h.emit(wire.Text(s, x, y))
	return starlark.None, nil
}

func (h *Host) biImage(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var x, y float64
	scale := 1.0
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "x", &x, "y", &y, "scale?", &scale); err != nil {
		return nil, err
	}
	if _, ok := h.assets.Lookup(name); !ok {
		return nil, fmt.Errorf("image asset %q is not registered", name)
	}
	h.emit(wire.Image(name, x, y, scale))
	return starlark.None, nil
}

func (h *Host) biArc(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var x, y, r, start, end float64
	ccw := false
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"x", &x, "y", &y, "r", &r, "start", &start, "end", &end, "ccw?", &ccw); err != nil {
		return nil, err
	}
	h.emit(wire.Arc(x, y, r, start, end, boolArg(ccw)))
	return starlark.None, nil
}

func (h *Host) biBezierTo(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var c1x, c1y, c2x, c2y, x, y float64
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"c1x", &c1x, "c1y", &c1y, "c2x", &c2x, "c2y", &c2y, "x", &x, "y", &y); err != nil {
		return nil, err
	}
	h.emit(wire.BezierTo(c1x, c1y, c2x, c2y, x, y))
	return starlark.None, nil
}

func (h *Host) biEllipse(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var x, y, rx, ry, rotation, start, end float64
	ccw := false
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"x", &x, "y", &y, "rx", &rx, "ry", &ry,
		"rotation?", &rotation, "start?", &start, "end?", &end, "ccw?", &ccw); err != nil {
		return nil, err
	}
	h.emit(wire.Ellipse(x, y, rx, ry, rotation, start, end, boolArg(ccw)))
	return starlark.None, nil
}

func (h *Host) biRoundRect(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var x, y, w, ht, radius float64
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"x", &x, "y", &y, "w", &w, "h", &ht, "radius", &radius); err != nil {
		return nil, err
	}
	h.emit(wire.RoundRect(x, y, w, ht, radius))
	return starlark.None, nil
}

func (h *Host) biSetTransform(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var a, bb, c, d, e, f float64
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"a", &a, "b", &bb, "c", &c, "d", &d, "e", &e, "f", &f); err != nil {
		return nil, err
	}
	h.emit(wire.SetTransform(a, bb, c, d, e, f))
	return starlark.None, nil
}

func (h *Host) biDeltaTime(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.Float(h.frameTime.Delta), nil
}

func (h *Host) biTotalTime(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.Float(h.frameTime.Total), nil
}

func (h *Host) biFrame(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.MakeInt(int(h.frameTime.Frame)), nil
}

func (h *Host) keyQuery(query func(*wire.InputState, string) bool) builtinFunc {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var key string
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "key", &key); err != nil {
			return nil, err
		}
		return starlark.Bool(query(&h.frameInput, key)), nil
	}
}

func (h *Host) mouseQuery(query func(*wire.InputState, int) bool) builtinFunc {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		button := 0
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "button?", &button); err != nil {
			return nil, err
		}
		return starlark.Bool(query(&h.frameInput, button)), nil
	}
}

func (h *Host) biMouseX(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.MakeInt(int(h.frameInput.MouseX)), nil
}

func (h *Host) biMouseY(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.MakeInt(int(h.frameInput.MouseY)), nil
}

func (h *Host) gamepadAt(pad int) (*wire.Gamepad, error) {
	if pad < 0 || pad >= wire.MaxGamepads {
		return nil, fmt.Errorf("gamepad index %d out of range [0, %d)", pad, wire.MaxGamepads)
	}
	return &h.frameInput.Gamepads[pad], nil
}

func (h *Host) biGamepadConnected(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	pad := 0
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pad?", &pad); err != nil {
		return nil, err
	}
	g, err := h.gamepadAt(pad)
	if err != nil {
		return nil, err
	}
	return starlark.Bool(g.Connected), nil
}

func (h *Host) biGamepadID(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	pad := 0
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pad?", &pad); err != nil {
		return nil, err
	}
	g, err := h.gamepadAt(pad)
	if err != nil {
		return nil, err
	}
	return starlark.String(g.ID), nil
}

func (h *Host) biGamepadButton(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var pad, button int
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pad", &pad, "button", &button); err != nil {
		return nil, err
	}
	g, err := h.gamepadAt(pad)
	if err != nil {
		return nil, err
	}
	if button < 0 || button >= wire.GamepadButtons {
		return nil, fmt.Errorf("gamepad button %d out of range [0, %d)", button, wire.GamepadButtons)
	}
	return starlark.Float(g.Buttons[button]), nil
}

func (h *Host) biGamepadPressed(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var pad, button int
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pad", &pad, "button", &button); err != nil {
		return nil, err
	}
	g, err := h.gamepadAt(pad)
	if err != nil {
		return nil, err
	}
	return starlark.Bool(g.ButtonPressed(button)), nil
}

func (h *Host) biGamepadAxis(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var pad, axis int
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pad", &pad, "axis", &axis); err != nil {
		return nil, err
	}
	g, err := h.gamepadAt(pad)
	if err != nil {
		return nil, err
	}
	if axis < 0 || axis >= wire.GamepadAxes {
		return nil, fmt.Errorf("gamepad axis %d out of range [0, %d)", axis, wire.GamepadAxes)
	}
	return starlark.Float(g.Axes[axis]), nil
}

func (h *Host) biWidth(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.MakeInt(int(h.frameSize.Width)), nil
}

func (h *Host) biHeight(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.MakeInt(int(h.frameSize.Height)), nil
}

func (h *Host) biRegisterImage(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name, path string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "path", &path); err != nil {
		return nil, err
	}
	kind, err := ClassifyAsset(path)
	if err != nil {
		return nil, err
	}
	if kind != AssetImage {
		return nil, fmt.Errorf("register_image: %q is a %s asset, not an image", path, kind)
	}
	if err := h.assets.Register(name, path); err != nil {
		return nil, err
	}
	return starlark.None, nil
}

func (h *Host) biImageWidth(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	w, _, err := h.imageDims(b, args, kwargs)
	if err != nil {
		return nil, err
	}
	return starlark.MakeInt(w), nil
}

func (h *Host) biImageHeight(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	_, ht, err := h.imageDims(b, args, kwargs)
	if err != nil {
		return nil, err
	}
	return starlark.MakeInt(ht), nil
}

// imageDims resolves the recorded size for a registered image; a registered
// asset whose pixels have not been decoded yet reads as 0×0.
func (h *Host) imageDims(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (int, int, error) {
	var name string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name); err != nil {
		return 0, 0, err
	}
	if _, ok := h.assets.Lookup(name); !ok {
		return 0, 0, fmt.Errorf("image asset %q is not registered", name)
	}
	w, ht, _ := h.assets.Dimensions(name)
	return w, ht, nil
}

func boolArg(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
