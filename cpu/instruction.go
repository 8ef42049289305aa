package cpu

import (
	"fmt"
)

// Instruction is a decoded instruction. The concrete types are the
// operand layouts; each carries only the fields its layout encodes.
//
// The set of types is closed, one per operand layout: Implied,
// Background, SpriteSize, Flip, Generator, Imm, Branch, RegImm, Reg,
// RegReg, RegRegReg, RegRegImm and Shift.
type Instruction interface {
	// Op returns the opcode byte.
	Op() Opcode
	// Word returns the canonical 32-bit encoding.
	Word() uint32
	// String returns the instruction in assembler syntax.
	String() string

	layout() Layout
}

// word packs the four instruction bytes, big-endian.
func word(op Opcode, b1, b2, b3 uint8) uint32 {
	return (uint32(op) << 24) | (uint32(b1) << 16) | (uint32(b2) << 8) | uint32(b3)
}

// wordImm packs an opcode, the second byte and a 16-bit immediate.
func wordImm(op Opcode, b1 uint8, imm uint16) uint32 {
	return word(op, b1, uint8(imm>>8), uint8(imm))
}

// yx packs two register indexes into one byte, y in the high nibble.
func yx(y, x Register) uint8 {
	return (uint8(y&0xf) << 4) | uint8(x&0xf)
}

// Implied has no operands.
type Implied struct {
	Opcode Opcode
}

func (in Implied) Op() Opcode     { return in.Opcode }
func (in Implied) Word() uint32   { return word(in.Opcode, 0, 0, 0) }
func (in Implied) String() string { return in.Opcode.Mnemonic() }
func (Implied) layout() Layout    { return LAYOUT_IMPLIED }

// Background selects the background palette index (BGC).
type Background struct {
	Index uint8 // 0..15
}

func (in Background) Op() Opcode   { return OP_BGC }
func (in Background) Word() uint32 { return word(OP_BGC, 0, in.Index&0xf, 0) }
func (in Background) String() string {
	return fmt.Sprintf("bgc %d", in.Index&0xf)
}
func (Background) layout() Layout { return LAYOUT_BACKGROUND }

// SpriteSize sets the sprite geometry (SPR). Width is in bytes, two
// pixels per byte.
type SpriteSize struct {
	Width  uint8
	Height uint8
}

func (in SpriteSize) Op() Opcode   { return OP_SPR }
func (in SpriteSize) Word() uint32 { return word(OP_SPR, 0, in.Width, in.Height) }
func (in SpriteSize) String() string {
	return fmt.Sprintf("spr %d %d", in.Width, in.Height)
}
func (SpriteSize) layout() Layout { return LAYOUT_SPRITE_SIZE }

// Flip sets the sprite flip mode (FLIP0..FLIP3).
type Flip struct {
	Horizontal bool
	Vertical   bool
}

func (in Flip) Op() Opcode { return OP_FLIP }
func (in Flip) Word() uint32 {
	var bits uint8
	if in.Horizontal {
		bits |= 0b10
	}
	if in.Vertical {
		bits |= 0b01
	}
	return word(OP_FLIP, 0, 0, bits)
}
func (in Flip) String() string {
	return fmt.Sprintf("flip %d %d", b2i(in.Horizontal), b2i(in.Vertical))
}
func (Flip) layout() Layout { return LAYOUT_FLIP }

// Generator sets the tone envelope (SNG).
type Generator struct {
	Envelope Envelope
}

func (in Generator) Op() Opcode { return OP_SNG }
func (in Generator) Word() uint32 {
	env := in.Envelope
	return word(OP_SNG,
		((env.Attack&0xf)<<4)|(env.Decay&0xf),
		((env.Sustain&0xf)<<4)|(env.Release&0xf),
		((env.Volume&0xf)<<4)|(uint8(env.Waveform)&0xf))
}
func (in Generator) String() string {
	env := in.Envelope
	return fmt.Sprintf("sng %d %d %d %d %d %d",
		env.Attack&0xf, env.Decay&0xf, env.Sustain&0xf, env.Release&0xf,
		env.Volume&0xf, uint8(env.Waveform)&0xf)
}
func (Generator) layout() Layout { return LAYOUT_GENERATOR }

// Imm takes a single 16-bit immediate or address.
type Imm struct {
	Opcode Opcode
	Value  uint16
}

func (in Imm) Op() Opcode   { return in.Opcode }
func (in Imm) Word() uint32 { return wordImm(in.Opcode, 0, in.Value) }
func (in Imm) String() string {
	return fmt.Sprintf("%v 0x%04x", in.Opcode.Mnemonic(), in.Value)
}
func (Imm) layout() Layout { return LAYOUT_IMM }

// Branch is a conditional jump or call (JX, CX).
type Branch struct {
	Opcode Opcode
	Cond   Condition
	Target uint16
}

func (in Branch) Op() Opcode   { return in.Opcode }
func (in Branch) Word() uint32 { return wordImm(in.Opcode, uint8(in.Cond&0xf), in.Target) }
func (in Branch) String() string {
	return fmt.Sprintf("%v%v 0x%04x", in.Opcode.Mnemonic(), in.Cond, in.Target)
}
func (Branch) layout() Layout { return LAYOUT_BRANCH }

// RegImm takes a register and a 16-bit immediate or address.
type RegImm struct {
	Opcode Opcode
	X      Register
	Value  uint16
}

func (in RegImm) Op() Opcode   { return in.Opcode }
func (in RegImm) Word() uint32 { return wordImm(in.Opcode, uint8(in.X&0xf), in.Value) }
func (in RegImm) String() string {
	return fmt.Sprintf("%v %v 0x%04x", in.Opcode.Mnemonic(), in.X&0xf, in.Value)
}
func (RegImm) layout() Layout { return LAYOUT_REG_IMM }

// Reg takes a single register.
type Reg struct {
	Opcode Opcode
	X      Register
}

func (in Reg) Op() Opcode   { return in.Opcode }
func (in Reg) Word() uint32 { return word(in.Opcode, uint8(in.X&0xf), 0, 0) }
func (in Reg) String() string {
	return fmt.Sprintf("%v %v", in.Opcode.Mnemonic(), in.X&0xf)
}
func (Reg) layout() Layout { return LAYOUT_REG }

// RegReg takes two registers.
type RegReg struct {
	Opcode Opcode
	X      Register
	Y      Register
}

func (in RegReg) Op() Opcode   { return in.Opcode }
func (in RegReg) Word() uint32 { return word(in.Opcode, yx(in.Y, in.X), 0, 0) }
func (in RegReg) String() string {
	return fmt.Sprintf("%v %v %v", in.Opcode.Mnemonic(), in.X&0xf, in.Y&0xf)
}
func (RegReg) layout() Layout { return LAYOUT_REG_REG }

// RegRegReg takes two source registers and a third register, the
// destination for ALU operations.
type RegRegReg struct {
	Opcode Opcode
	X      Register
	Y      Register
	Z      Register
}

func (in RegRegReg) Op() Opcode { return in.Opcode }
func (in RegRegReg) Word() uint32 {
	return word(in.Opcode, yx(in.Y, in.X), uint8(in.Z&0xf), 0)
}
func (in RegRegReg) String() string {
	return fmt.Sprintf("%v %v %v %v", in.Opcode.Mnemonic(), in.X&0xf, in.Y&0xf, in.Z&0xf)
}
func (RegRegReg) layout() Layout { return LAYOUT_REG_REG_REG }

// RegRegImm takes two registers and a 16-bit immediate or address.
type RegRegImm struct {
	Opcode Opcode
	X      Register
	Y      Register
	Value  uint16
}

func (in RegRegImm) Op() Opcode   { return in.Opcode }
func (in RegRegImm) Word() uint32 { return wordImm(in.Opcode, yx(in.Y, in.X), in.Value) }
func (in RegRegImm) String() string {
	return fmt.Sprintf("%v %v %v 0x%04x", in.Opcode.Mnemonic(), in.X&0xf, in.Y&0xf, in.Value)
}
func (RegRegImm) layout() Layout { return LAYOUT_REG_REG_IMM }

// Shift takes a register and a 4-bit shift count.
type Shift struct {
	Opcode Opcode
	X      Register
	N      uint8
}

func (in Shift) Op() Opcode   { return in.Opcode }
func (in Shift) Word() uint32 { return word(in.Opcode, uint8(in.X&0xf), in.N&0xf, 0) }
func (in Shift) String() string {
	return fmt.Sprintf("%v %v %d", in.Opcode.Mnemonic(), in.X&0xf, in.N&0xf)
}
func (Shift) layout() Layout { return LAYOUT_SHIFT }

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
