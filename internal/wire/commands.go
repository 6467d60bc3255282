// Package wire defines the data shapes exchanged between the main thread and
// the background script thread: draw commands, input snapshots, timing, and
// the binary codec used by the shared-memory transport.
package wire

// Op identifies a single drawing operation. The set is closed on the
// producing side; consumers skip ops they do not recognize so a newer
// producer can talk to an older renderer.
type Op uint8

const (
	OpInvalid Op = iota
	OpClear
	OpStrokeColor
	OpFillColor
	OpLineWidth
	OpFont
	OpCanvasSize
	OpStrokeRect
	OpFillRect
	OpStrokeCircle
	OpFillCircle
	OpLine
	OpText
	OpImage
	OpBeginPath
	OpClosePath
	OpMoveTo
	OpLineTo
	OpArc
	OpBezierTo
	OpQuadraticTo
	OpEllipse
	OpRoundRect
	OpClip
	OpFillPath
	OpStrokePath
	OpTranslate
	OpRotate
	OpScale
	OpSetTransform
	OpSave
	OpRestore

	// opSentinel marks the end of the known op range. Decoded values at or
	// beyond it are preserved so consumers can apply their own skip policy.
	opSentinel
)

var opNames = map[Op]string{
	OpInvalid:      "invalid",
	OpClear:        "clear",
	OpStrokeColor:  "strokeColor",
	OpFillColor:    "fillColor",
	OpLineWidth:    "lineWidth",
	OpFont:         "font",
	OpCanvasSize:   "canvasSize",
	OpStrokeRect:   "strokeRect",
	OpFillRect:     "fillRect",
	OpStrokeCircle: "strokeCircle",
	OpFillCircle:   "fillCircle",
	OpLine:         "line",
	OpText:         "text",
	OpImage:        "image",
	OpBeginPath:    "beginPath",
	OpClosePath:    "closePath",
	OpMoveTo:       "moveTo",
	OpLineTo:       "lineTo",
	OpArc:          "arc",
	OpBezierTo:     "bezierTo",
	OpQuadraticTo:  "quadraticTo",
	OpEllipse:      "ellipse",
	OpRoundRect:    "roundRect",
	OpClip:         "clip",
	OpFillPath:     "fillPath",
	OpStrokePath:   "strokePath",
	OpTranslate:    "translate",
	OpRotate:       "rotate",
	OpScale:        "scale",
	OpSetTransform: "setTransform",
	OpSave:         "save",
	OpRestore:      "restore",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "unknown"
}

// Known reports whether the op is one this build understands.
func (o Op) Known() bool {
	return o > OpInvalid && o < opSentinel
}

// DrawCommand is one serializable rendering instruction. Commands are value
// records: produced once by the script host, carried by a channel, executed
// once by the renderer, then discarded. Args holds the numeric operands in
// the order the op defines them; Text carries the string operand for ops
// that have one (text content, font spec, image name).
type DrawCommand struct {
	Op   Op
	Args []float64
	Text string
}

// Constructors for the commands the host emits. Keeping them here pins the
// operand order in one place for producer, codec, and renderer alike.

func Clear() DrawCommand { return DrawCommand{Op: OpClear} }

func StrokeColor(r, g, b, a float64) DrawCommand {
	return DrawCommand{Op: OpStrokeColor, Args: []float64{r, g, b, a}}
}

func FillColor(r, g, b, a float64) DrawCommand {
	return DrawCommand{Op: OpFillColor, Args: []float64{r, g, b, a}}
}

func LineWidth(w float64) DrawCommand {
	return DrawCommand{Op: OpLineWidth, Args: []float64{w}}
}

func Font(spec string) DrawCommand { return DrawCommand{Op: OpFont, Text: spec} }

func CanvasResize(w, h float64) DrawCommand {
	return DrawCommand{Op: OpCanvasSize, Args: []float64{w, h}}
}

func StrokeRect(x, y, w, h float64) DrawCommand {
	return DrawCommand{Op: OpStrokeRect, Args: []float64{x, y, w, h}}
}

func FillRect(x, y, w, h float64) DrawCommand {
	return DrawCommand{Op: OpFillRect, Args: []float64{x, y, w, h}}
}

func StrokeCircle(x, y, r float64) DrawCommand {
	return DrawCommand{Op: OpStrokeCircle, Args: []float64{x, y, r}}
}

func FillCircle(x, y, r float64) DrawCommand {
	return DrawCommand{Op: OpFillCircle, Args: []float64{x, y, r}}
}

func Line(x1, y1, x2, y2 float64) DrawCommand {
	return DrawCommand{Op: OpLine, Args: []float64{x1, y1, x2, y2}}
}

func Text(s string, x, y float64) DrawCommand {
	return DrawCommand{Op: OpText, Args: []float64{x, y}, Text: s}
}

func Image(name string, x, y, scale float64) DrawCommand {
	return DrawCommand{Op: OpImage, Args: []float64{x, y, scale}, Text: name}
}

func BeginPath() DrawCommand { return DrawCommand{Op: OpBeginPath} }
func ClosePath() DrawCommand { return DrawCommand{Op: OpClosePath} }

func MoveTo(x, y float64) DrawCommand {
	return DrawCommand{Op: OpMoveTo, Args: []float64{x, y}}
}

func LineTo(x, y float64) DrawCommand {
	return DrawCommand{Op: OpLineTo, Args: []float64{x, y}}
}

// Arc takes the center, radius, start and end angles in radians, and a
// direction flag (non-zero = counterclockwise).
func Arc(x, y, r, start, end, ccw float64) DrawCommand {
	return DrawCommand{Op: OpArc, Args: []float64{x, y, r, start, end, ccw}}
}

func BezierTo(c1x, c1y, c2x, c2y, x, y float64) DrawCommand {
	return DrawCommand{Op: OpBezierTo, Args: []float64{c1x, c1y, c2x, c2y, x, y}}
}

func QuadraticTo(cx, cy, x, y float64) DrawCommand {
	return DrawCommand{Op: OpQuadraticTo, Args: []float64{cx, cy, x, y}}
}

func Ellipse(x, y, rx, ry, rotation, start, end, ccw float64) DrawCommand {
	return DrawCommand{Op: OpEllipse, Args: []float64{x, y, rx, ry, rotation, start, end, ccw}}
}

func RoundRect(x, y, w, h, radius float64) DrawCommand {
	return DrawCommand{Op: OpRoundRect, Args: []float64{x, y, w, h, radius}}
}

func Clip() DrawCommand       { return DrawCommand{Op: OpClip} }
func FillPath() DrawCommand   { return DrawCommand{Op: OpFillPath} }
func StrokePath() DrawCommand { return DrawCommand{Op: OpStrokePath} }

func Translate(dx, dy float64) DrawCommand {
	return DrawCommand{Op: OpTranslate, Args: []float64{dx, dy}}
}

func Rotate(angle float64) DrawCommand {
	return DrawCommand{Op: OpRotate, Args: []float64{angle}}
}

func Scale(sx, sy float64) DrawCommand {
	return DrawCommand{Op: OpScale, Args: []float64{sx, sy}}
}

func SetTransform(a, b, c, d, e, f float64) DrawCommand {
	return DrawCommand{Op: OpSetTransform, Args: []float64{a, b, c, d, e, f}}
}

func Save() DrawCommand    { return DrawCommand{Op: OpSave} }
func Restore() DrawCommand { return DrawCommand{Op: OpRestore} }
