package channel

import (
	"math"
	"sync/atomic"

	"github.com/pixelbus/pixelbus/internal/wire"
)

// Region is the one fixed-size block of memory both threads touch. Every
// scalar field is an independent atomic word, so neither side can observe a
// torn value; there is deliberately no cross-field transaction and no lock.
// The trailing payload area holds the serialized draw-command stream, whose
// byte length and command count travel through the atomic header fields.
//
// Byte layout (all little-endian words):
//
//	0     u32    frame-ready flag (the synchronization primitive)
//	4     u32    draw-command count
//	8     u32    draw-command payload length
//	12    u32    reserved padding (keeps the timing words 8-aligned)
//	16    f64    delta time, seconds
//	24    f64    total time, seconds
//	32    u32    frame counter
//	36    i32    mouse x
//	40    i32    mouse y
//	44    u32    mouse buttons held, one bit per button
//	48    u32    mouse buttons pressed this frame
//	52    32×16B key slots, held keys (UTF-8, null-padded)
//	564   32×16B key slots, pressed-this-frame keys
//	1076  u32    canvas width
//	1080  u32    canvas height
//	1084  4×192B gamepad blocks (connected, 32B id, 17×f32 buttons,
//	             pressed count, 17×u32 pressed indexes, 4×f32 axes)
//	1852  ...    draw-command payload, 63684 bytes
const (
	// RegionSize is the total shared block size.
	RegionSize = 64 * 1024

	offFrameReady   = 0
	offCommandCount = 4
	offPayloadLen   = 8
	offDeltaTime    = 16
	offTotalTime    = 24
	offFrameCounter = 32
	offMouseX       = 36
	offMouseY       = 40
	offMouseDown    = 44
	offMousePressed = 48
	offKeysDown     = 52
	offKeysPressed  = offKeysDown + wire.MaxKeySlots*wire.KeySlotBytes
	offCanvasWidth  = offKeysPressed + wire.MaxKeySlots*wire.KeySlotBytes
	offCanvasHeight = offCanvasWidth + 4
	offGamepads     = offCanvasHeight + 4
	offPayload      = offGamepads + wire.MaxGamepads*gamepadBlockBytes

	gamepadBlockBytes = 4 + wire.GamepadIDBytes + 4*wire.GamepadButtons + 4 +
		4*wire.GamepadButtons + 4*wire.GamepadAxes

	// PayloadCapacity is the room left for the serialized command stream.
	PayloadCapacity = RegionSize - offPayload

	keySlotWords   = wire.KeySlotBytes / 4
	gamepadIDWords = wire.GamepadIDBytes / 4
)

// keySlot is one fixed key-name cell, written and read a word at a time.
type keySlot [keySlotWords]atomic.Uint32

type gamepadBlock struct {
	connected    atomic.Uint32
	id           [gamepadIDWords]atomic.Uint32
	buttons      [wire.GamepadButtons]atomic.Uint32 // Float32bits
	pressedCount atomic.Uint32
	pressed      [wire.GamepadButtons]atomic.Uint32
	axes         [wire.GamepadAxes]atomic.Uint32 // Float32bits
}

// Region field order mirrors the documented byte layout exactly; a layout
// test pins every offset so the struct cannot drift from the wire contract.
type Region struct {
	frameReady   atomic.Uint32
	commandCount atomic.Uint32
	payloadLen   atomic.Uint32
	_            [4]byte
	delta        atomic.Uint64
	total        atomic.Uint64
	frame        atomic.Uint32
	mouseX       atomic.Int32
	mouseY       atomic.Int32
	mouseDown    atomic.Uint32
	mousePressed atomic.Uint32
	keysDown     [wire.MaxKeySlots]keySlot
	keysPressed  [wire.MaxKeySlots]keySlot
	canvasW      atomic.Uint32
	canvasH      atomic.Uint32
	pads         [wire.MaxGamepads]gamepadBlock
	payload      [PayloadCapacity]byte
}

// NewRegion allocates a zeroed shared block. The returned pointer is the
// handle handed to the background end at construction time.
func NewRegion() *Region {
	return &Region{}
}

func (r *Region) setTiming(t wire.TimingInfo) {
	r.delta.Store(math.Float64bits(t.Delta))
	r.total.Store(math.Float64bits(t.Total))
	r.frame.Store(t.Frame)
}

func (r *Region) timing() wire.TimingInfo {
	return wire.TimingInfo{
		Delta: math.Float64frombits(r.delta.Load()),
		Total: math.Float64frombits(r.total.Load()),
		Frame: r.frame.Load(),
	}
}

func (r *Region) setCanvas(sz wire.CanvasSize) {
	r.canvasW.Store(uint32(sz.Width))
	r.canvasH.Store(uint32(sz.Height))
}

func (r *Region) canvas() wire.CanvasSize {
	return wire.CanvasSize{
		Width:  int32(r.canvasW.Load()),
		Height: int32(r.canvasH.Load()),
	}
}

func (r *Region) setInput(s wire.InputState) {
	r.mouseX.Store(s.MouseX)
	r.mouseY.Store(s.MouseY)
	r.mouseDown.Store(s.MouseDown)
	r.mousePressed.Store(s.MousePressed)
	storeKeySlots(&r.keysDown, s.KeysDown)
	storeKeySlots(&r.keysPressed, s.KeysPressed)
	for i := range r.pads {
		r.pads[i].store(&s.Gamepads[i])
	}
}

func (r *Region) input() wire.InputState {
	s := wire.InputState{
		MouseX:       r.mouseX.Load(),
		MouseY:       r.mouseY.Load(),
		MouseDown:    r.mouseDown.Load(),
		MousePressed: r.mousePressed.Load(),
		KeysDown:     loadKeySlots(&r.keysDown),
		KeysPressed:  loadKeySlots(&r.keysPressed),
	}
	for i := range r.pads {
		r.pads[i].load(&s.Gamepads[i])
	}
	return s
}

// storeKeySlots packs names into the fixed slot array. Names beyond the slot
// count, and bytes beyond the slot width, are dropped. Unused slots are
// zeroed so the reader sees an empty cell, not a stale one.
func storeKeySlots(slots *[wire.MaxKeySlots]keySlot, names []string) {
	for i := range slots {
		var cell [wire.KeySlotBytes]byte
		if i < len(names) {
			copy(cell[:], names[i])
		}
		storeWords(slots[i][:], cell[:])
	}
}

func loadKeySlots(slots *[wire.MaxKeySlots]keySlot) []string {
	var names []string
	for i := range slots {
		var cell [wire.KeySlotBytes]byte
		loadWords(slots[i][:], cell[:])
		if name := cutNull(cell[:]); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func (p *gamepadBlock) store(g *wire.Gamepad) {
	if g.Connected {
		p.connected.Store(1)
	} else {
		p.connected.Store(0)
	}
	var id [wire.GamepadIDBytes]byte
	copy(id[:], g.ID)
	storeWords(p.id[:], id[:])
	for i := range p.buttons {
		p.buttons[i].Store(math.Float32bits(float32(g.Buttons[i])))
	}
	n := len(g.Pressed)
	if n > wire.GamepadButtons {
		n = wire.GamepadButtons
	}
	for i := 0; i < n; i++ {
		p.pressed[i].Store(uint32(g.Pressed[i]))
	}
	p.pressedCount.Store(uint32(n))
	for i := range p.axes {
		p.axes[i].Store(math.Float32bits(float32(g.Axes[i])))
	}
}

func (p *gamepadBlock) load(g *wire.Gamepad) {
	g.Connected = p.connected.Load() != 0
	var id [wire.GamepadIDBytes]byte
	loadWords(p.id[:], id[:])
	g.ID = cutNull(id[:])
	for i := range p.buttons {
		g.Buttons[i] = float64(math.Float32frombits(p.buttons[i].Load()))
	}
	n := int(p.pressedCount.Load())
	if n > wire.GamepadButtons {
		n = wire.GamepadButtons
	}
	g.Pressed = nil
	for i := 0; i < n; i++ {
		g.Pressed = append(g.Pressed, int(p.pressed[i].Load()))
	}
	for i := range p.axes {
		g.Axes[i] = float64(math.Float32frombits(p.axes[i].Load()))
	}
}

func storeWords(words []atomic.Uint32, b []byte) {
	for i := range words {
		o := i * 4
		words[i].Store(uint32(b[o]) | uint32(b[o+1])<<8 | uint32(b[o+2])<<16 | uint32(b[o+3])<<24)
	}
}

func loadWords(words []atomic.Uint32, b []byte) {
	for i := range words {
		w := words[i].Load()
		o := i * 4
		b[o] = byte(w)
		b[o+1] = byte(w >> 8)
		b[o+2] = byte(w >> 16)
		b[o+3] = byte(w >> 24)
	}
}

// cutNull returns the text up to the first null byte or the cell boundary.
func cutNull(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
