package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Binary draw-command stream, little-endian. Each command is:
//
//	offset 0  u8   op
//	offset 1  u8   argument count
//	offset 2  u16  text length in bytes
//	offset 4  f64  × argument count
//	...       text bytes (UTF-8, unpadded)
//
// The stream itself carries no count or length; both travel out of band as
// separate atomic header fields on the shared region.
const (
	cmdHeaderBytes = 4
	maxCmdArgs     = 255
	maxCmdText     = math.MaxUint16
)

// EncodedSize returns the number of bytes the command occupies on the wire.
func EncodedSize(cmd DrawCommand) int {
	return cmdHeaderBytes + 8*len(cmd.Args) + len(cmd.Text)
}

// EncodeCommands serializes cmds into dst front to back and returns the byte
// length written and how many commands fit. A command whose encoding would
// overrun dst ends the stream there: the remainder is dropped, never
// partially written. Callers compare count against len(cmds) to detect
// truncation. Commands with oversized operand lists are skipped outright
// since they cannot be represented in the header.
func EncodeCommands(dst []byte, cmds []DrawCommand) (n, count int) {
	for _, cmd := range cmds {
		if len(cmd.Args) > maxCmdArgs || len(cmd.Text) > maxCmdText {
			continue
		}
		size := EncodedSize(cmd)
		if n+size > len(dst) {
			break
		}
		dst[n] = byte(cmd.Op)
		dst[n+1] = byte(len(cmd.Args))
		binary.LittleEndian.PutUint16(dst[n+2:], uint16(len(cmd.Text)))
		p := n + cmdHeaderBytes
		for _, a := range cmd.Args {
			binary.LittleEndian.PutUint64(dst[p:], math.Float64bits(a))
			p += 8
		}
		copy(dst[p:], cmd.Text)
		n += size
		count++
	}
	return n, count
}

// DecodeCommands parses count commands out of src. Any bounds violation
// aborts with an error describing where the stream went bad; callers treat a
// decode failure as "no commands this frame" rather than letting it escape
// the channel boundary. Unknown ops decode fine and are left for the
// consumer to skip.
func DecodeCommands(src []byte, count int) ([]DrawCommand, error) {
	if count < 0 {
		return nil, fmt.Errorf("negative command count %d", count)
	}
	// The count word arrives out of band; cap the preallocation by what the
	// payload could actually hold so a corrupt count cannot force a huge
	// allocation before the bounds checks reject it.
	cmds := make([]DrawCommand, 0, min(count, len(src)/cmdHeaderBytes))
	off := 0
	for i := 0; i < count; i++ {
		if off+cmdHeaderBytes > len(src) {
			return nil, fmt.Errorf("command %d: header overruns payload at offset %d", i, off)
		}
		op := Op(src[off])
		argc := int(src[off+1])
		textLen := int(binary.LittleEndian.Uint16(src[off+2:]))
		body := cmdHeaderBytes + 8*argc + textLen
		if off+body > len(src) {
			return nil, fmt.Errorf("command %d: body overruns payload at offset %d", i, off)
		}
		cmd := DrawCommand{Op: op}
		p := off + cmdHeaderBytes
		if argc > 0 {
			cmd.Args = make([]float64, argc)
			for j := 0; j < argc; j++ {
				cmd.Args[j] = math.Float64frombits(binary.LittleEndian.Uint64(src[p:]))
				p += 8
			}
		}
		if textLen > 0 {
			cmd.Text = string(src[p : p+textLen])
		}
		cmds = append(cmds, cmd)
		off += body
	}
	return cmds, nil
}
