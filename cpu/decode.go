package cpu

// Decode converts a 32-bit instruction word into an Instruction.
//
// The opcode is the top byte of the word; the operand fields of the
// remaining 24 bits are extracted per the opcode's layout. Reserved
// operand bits are ignored, so any word with an assigned opcode decodes.
func Decode(word uint32) (in Instruction, err error) {
	op := Opcode((word >> 24) & 0xff)
	b1 := uint8((word >> 16) & 0xff)
	b2 := uint8((word >> 8) & 0xff)
	b3 := uint8((word >> 0) & 0xff)

	x := Register(b1 & 0xf)
	y := Register((b1 >> 4) & 0xf)
	z := Register(b2 & 0xf)
	imm := uint16(word & 0xffff)

	switch op.Layout() {
	case LAYOUT_IMPLIED:
		in = Implied{Opcode: op}
	case LAYOUT_BACKGROUND:
		in = Background{Index: b2 & 0xf}
	case LAYOUT_SPRITE_SIZE:
		in = SpriteSize{Width: b2, Height: b3}
	case LAYOUT_FLIP:
		in = Flip{Horizontal: (b3 & 0b10) != 0, Vertical: (b3 & 0b01) != 0}
	case LAYOUT_GENERATOR:
		in = Generator{Envelope: Envelope{
			Attack:   (b1 >> 4) & 0xf,
			Decay:    b1 & 0xf,
			Sustain:  (b2 >> 4) & 0xf,
			Release:  b2 & 0xf,
			Volume:   (b3 >> 4) & 0xf,
			Waveform: Waveform(b3 & 0xf),
		}}
	case LAYOUT_IMM:
		in = Imm{Opcode: op, Value: imm}
	case LAYOUT_BRANCH:
		in = Branch{Opcode: op, Cond: Condition(b1 & 0xf), Target: imm}
	case LAYOUT_REG_IMM:
		in = RegImm{Opcode: op, X: x, Value: imm}
	case LAYOUT_REG:
		in = Reg{Opcode: op, X: x}
	case LAYOUT_REG_REG:
		in = RegReg{Opcode: op, X: x, Y: y}
	case LAYOUT_REG_REG_REG:
		in = RegRegReg{Opcode: op, X: x, Y: y, Z: z}
	case LAYOUT_REG_REG_IMM:
		in = RegRegImm{Opcode: op, X: x, Y: y, Value: imm}
	case LAYOUT_SHIFT:
		in = Shift{Opcode: op, X: x, N: b2 & 0xf}
	default:
		err = ErrOpcodeUnknown(op)
	}

	return
}
