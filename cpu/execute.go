package cpu

import (
	"errors"
	"log"
)

// aluFunc computes a result and flags from the prior flags and two
// operands.
type aluFunc func(flags Flags, a, b uint16) (result uint16, out Flags, err error)

type aluEntry struct {
	fn    aluFunc
	store bool // Write the result back; false for CMP and TST.
}

func aluPure(fn func(Flags, uint16, uint16) (uint16, Flags)) aluFunc {
	return func(flags Flags, a, b uint16) (result uint16, out Flags, err error) {
		result, out = fn(flags, a, b)
		return
	}
}

func aluFlags(fn func(Flags, uint16, uint16) Flags) aluFunc {
	return func(flags Flags, a, b uint16) (result uint16, out Flags, err error) {
		out = fn(flags, a, b)
		return
	}
}

// aluTable maps the two-operand ALU opcodes to their operation.
var aluTable = map[Opcode]aluEntry{
	OP_ADDI: {aluPure(Flags.Add), true},
	OP_ADD0: {aluPure(Flags.Add), true},
	OP_ADD1: {aluPure(Flags.Add), true},
	OP_SUBI: {aluPure(Flags.Sub), true},
	OP_SUB0: {aluPure(Flags.Sub), true},
	OP_SUB1: {aluPure(Flags.Sub), true},
	OP_CMPI: {aluFlags(Flags.Cmp), false},
	OP_CMP:  {aluFlags(Flags.Cmp), false},
	OP_ANDI: {aluPure(Flags.And), true},
	OP_AND0: {aluPure(Flags.And), true},
	OP_AND1: {aluPure(Flags.And), true},
	OP_TSTI: {aluFlags(Flags.Tst), false},
	OP_TST:  {aluFlags(Flags.Tst), false},
	OP_ORI:  {aluPure(Flags.Or), true},
	OP_OR0:  {aluPure(Flags.Or), true},
	OP_OR1:  {aluPure(Flags.Or), true},
	OP_XORI: {aluPure(Flags.Xor), true},
	OP_XOR0: {aluPure(Flags.Xor), true},
	OP_XOR1: {aluPure(Flags.Xor), true},
	OP_MULI: {aluPure(Flags.Mul), true},
	OP_MUL0: {aluPure(Flags.Mul), true},
	OP_MUL1: {aluPure(Flags.Mul), true},
	OP_DIVI: {Flags.Div, true},
	OP_DIV0: {Flags.Div, true},
	OP_DIV1: {Flags.Div, true},
	OP_MODI: {Flags.Mod, true},
	OP_MOD0: {Flags.Mod, true},
	OP_MOD1: {Flags.Mod, true},
	OP_REMI: {Flags.Rem, true},
	OP_REM0: {Flags.Rem, true},
	OP_REM1: {Flags.Rem, true},
	OP_SHL0: {aluPure(Flags.Shl), true},
	OP_SHR0: {aluPure(Flags.Shr), true},
	OP_SAR0: {aluPure(Flags.Sar), true},
	OP_SHL1: {aluPure(Flags.Shl), true},
	OP_SHR1: {aluPure(Flags.Shr), true},
	OP_SAR1: {aluPure(Flags.Sar), true},
}

// alu applies an ALU opcode to a and b. The result is stored to dst
// unless the opcode only sets flags. Nothing changes on error.
func (cpu *Cpu) alu(op Opcode, dst Register, a, b uint16) (err error) {
	entry, ok := aluTable[op]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	result, flags, err := entry.fn(cpu.flags, a, b)
	if err != nil {
		err = errors.Join(ErrArithmetic, err)
		return
	}

	if entry.store {
		cpu.register[dst&0xf] = result
	}
	cpu.flags = flags

	return
}

// execute runs a single decoded instruction at pc.
//
// The instruction either completes, or fails leaving registers, flags,
// memory and pc untouched.
func (cpu *Cpu) execute(in Instruction) (vblank bool, err error) {
	if cpu.Verbose {
		log.Printf("%04x: %v", cpu.pc, in)
	}

	if in.layout() != in.Op().Layout() {
		err = ErrInstructionInvalid
		return
	}

	next_pc := cpu.pc + INSTRUCTION_SIZE

	switch in := in.(type) {
	case Implied:
		next_pc, vblank, err = cpu.execImplied(in.Opcode, next_pc)
	case Background:
		cpu.background = in.Index & 0xf
		cpu.peripheral.SetBackground(cpu.background)
	case SpriteSize:
		cpu.spriteW = in.Width
		cpu.spriteH = in.Height
	case Flip:
		cpu.hflip = in.Horizontal
		cpu.vflip = in.Vertical
	case Generator:
		env := in.Envelope
		cpu.envelope = Envelope{
			Attack:   env.Attack & 0xf,
			Decay:    env.Decay & 0xf,
			Sustain:  env.Sustain & 0xf,
			Release:  env.Release & 0xf,
			Volume:   env.Volume & 0xf,
			Waveform: env.Waveform & 0xf,
		}
	case Imm:
		next_pc, err = cpu.execImm(in, next_pc)
	case Branch:
		switch in.Opcode {
		case OP_JX:
			if in.Cond.Test(cpu.flags) {
				next_pc = in.Target
			}
		case OP_CX:
			if in.Cond.Test(cpu.flags) {
				next_pc, err = cpu.call(in.Target, next_pc)
			}
		default:
			err = ErrInstructionInvalid
		}
	case RegImm:
		err = cpu.execRegImm(in)
	case Reg:
		next_pc, err = cpu.execReg(in, next_pc)
	case RegReg:
		err = cpu.execRegReg(in)
	case RegRegReg:
		x := cpu.register[in.X&0xf]
		y := cpu.register[in.Y&0xf]
		z := cpu.register[in.Z&0xf]
		switch in.Opcode {
		case OP_DRW1:
			err = cpu.draw(x, y, z)
		default:
			err = cpu.alu(in.Opcode, in.Z, x, y)
		}
	case RegRegImm:
		x := cpu.register[in.X&0xf]
		y := cpu.register[in.Y&0xf]
		switch in.Opcode {
		case OP_DRW0:
			err = cpu.draw(x, y, in.Value)
		case OP_JME:
			if x == y {
				next_pc = in.Value
			}
		default:
			err = ErrInstructionInvalid
		}
	case Shift:
		err = cpu.alu(in.Opcode, in.X, cpu.register[in.X&0xf], uint16(in.N&0xf))
	default:
		err = ErrInstructionInvalid
	}

	if err != nil {
		vblank = false
		return
	}

	cpu.pc = next_pc
	cpu.ticks++

	return
}

func (cpu *Cpu) execImplied(op Opcode, next_pc uint16) (pc uint16, vblank bool, err error) {
	pc = next_pc

	switch op {
	case OP_NOP:
	case OP_CLS:
		cpu.background = 0
		cpu.peripheral.ClearScreen()
	case OP_VBLNK:
		cpu.peripheral.WaitVblank()
		vblank = true
	case OP_SND0:
		cpu.peripheral.PlayTone(Tone{Channel: TONE_CHANNEL_STOP})
	case OP_RET:
		var values []uint16
		values, err = cpu.stack.Pop(1)
		if err != nil {
			return
		}
		pc = values[0]
	case OP_PUSHALL:
		err = cpu.stack.Push(cpu.register[:]...)
	case OP_POPALL:
		var values []uint16
		values, err = cpu.stack.Pop(REGISTER_COUNT)
		if err != nil {
			return
		}
		for n, value := range values {
			cpu.register[REGISTER_COUNT-1-n] = value
		}
	case OP_PUSHF:
		err = cpu.stack.Push(uint16(cpu.flags))
	case OP_POPF:
		var values []uint16
		values, err = cpu.stack.Pop(1)
		if err != nil {
			return
		}
		cpu.flags = Flags(values[0]) & FLAG_MASK
	default:
		err = ErrInstructionInvalid
	}

	return
}

func (cpu *Cpu) execImm(in Imm, next_pc uint16) (pc uint16, err error) {
	pc = next_pc

	switch in.Opcode {
	case OP_JMP0:
		pc = in.Value
	case OP_JMC:
		if cpu.flags.Carry() {
			pc = in.Value
		}
	case OP_CALL0:
		pc, err = cpu.call(in.Value, next_pc)
	case OP_SND1, OP_SND2, OP_SND3:
		channel := uint8(in.Opcode-OP_SND1) + TONE_CHANNEL_500HZ
		cpu.peripheral.PlayTone(Tone{
			Channel:   channel,
			Frequency: 500 * uint16(channel),
			Duration:  in.Value,
		})
	case OP_PAL0:
		err = cpu.palette(in.Value)
	default:
		err = ErrInstructionInvalid
	}

	return
}

func (cpu *Cpu) execRegImm(in RegImm) (err error) {
	x := in.X & 0xf

	switch in.Opcode {
	case OP_RND:
		cpu.register[x] = cpu.random(in.Value)
	case OP_LDI0:
		cpu.register[x] = in.Value
	case OP_LDI1:
		cpu.register[x], cpu.flags = cpu.flags.Load(in.Value)
	case OP_LDM0:
		var value uint16
		value, err = cpu.readU16(in.Value)
		if err != nil {
			return
		}
		cpu.register[x] = value
	case OP_STM0:
		err = cpu.writeU16(in.Value, cpu.register[x])
	case OP_SNP:
		var frequency uint16
		frequency, err = cpu.readU16(cpu.register[x])
		if err != nil {
			return
		}
		cpu.peripheral.PlayTone(Tone{
			Channel:   TONE_CHANNEL_PROGRAMMED,
			Frequency: frequency,
			Duration:  in.Value,
			Envelope:  cpu.envelope,
		})
	case OP_NOTI:
		cpu.register[x], cpu.flags = cpu.flags.Not(in.Value)
	case OP_NEGI:
		cpu.register[x], cpu.flags = cpu.flags.Neg(in.Value)
	default:
		err = cpu.alu(in.Opcode, x, cpu.register[x], in.Value)
	}

	return
}

func (cpu *Cpu) execReg(in Reg, next_pc uint16) (pc uint16, err error) {
	pc = next_pc
	x := in.X & 0xf

	switch in.Opcode {
	case OP_JMP1:
		pc = cpu.register[x]
	case OP_CALL1:
		pc, err = cpu.call(cpu.register[x], next_pc)
	case OP_PUSH:
		err = cpu.stack.Push(cpu.register[x])
	case OP_POP:
		var values []uint16
		values, err = cpu.stack.Pop(1)
		if err != nil {
			return
		}
		cpu.register[x] = values[0]
	case OP_PAL1:
		err = cpu.palette(cpu.register[x])
	case OP_NOT0:
		cpu.register[x], cpu.flags = cpu.flags.Not(cpu.register[x])
	case OP_NEG0:
		cpu.register[x], cpu.flags = cpu.flags.Neg(cpu.register[x])
	default:
		err = ErrInstructionInvalid
	}

	return
}

func (cpu *Cpu) execRegReg(in RegReg) (err error) {
	x := in.X & 0xf
	y := in.Y & 0xf

	switch in.Opcode {
	case OP_LDM1:
		var value uint16
		value, err = cpu.readU16(cpu.register[y])
		if err != nil {
			return
		}
		cpu.register[x] = value
	case OP_MOV:
		cpu.register[x] = cpu.register[y]
	case OP_STM1:
		err = cpu.writeU16(cpu.register[y], cpu.register[x])
	case OP_NOT1:
		cpu.register[x], cpu.flags = cpu.flags.Not(cpu.register[y])
	case OP_NEG1:
		cpu.register[x], cpu.flags = cpu.flags.Neg(cpu.register[y])
	default:
		err = cpu.alu(in.Opcode, x, cpu.register[x], cpu.register[y])
	}

	return
}

// call pushes the return address and returns the target as the next pc.
func (cpu *Cpu) call(target uint16, next_pc uint16) (pc uint16, err error) {
	pc = next_pc

	err = cpu.stack.Push(next_pc)
	if err != nil {
		return
	}

	pc = target
	return
}

// random returns a value in [0, bound] from the peripheral. A zero bound
// always yields zero.
func (cpu *Cpu) random(bound uint16) (value uint16) {
	if bound == 0 {
		return
	}

	value = cpu.peripheral.Random(bound)
	if bound != 0xffff && value > bound {
		value %= bound + 1
	}
	return
}

// draw fetches the sprite at addr with the current geometry and flip
// mode, and draws it at (x, y). Carry reports a collision.
func (cpu *Cpu) draw(x, y, addr uint16) (err error) {
	size := int(cpu.spriteW) * int(cpu.spriteH)
	data, err := cpu.memory.Slice(addr, size)
	if err != nil {
		err = errors.Join(ErrMemory, err)
		return
	}

	hit := cpu.peripheral.DrawSprite(Sprite{
		Address: addr,
		X:       int16(x),
		Y:       int16(y),
		Width:   cpu.spriteW,
		Height:  cpu.spriteH,
		HFlip:   cpu.hflip,
		VFlip:   cpu.vflip,
		Data:    data,
	})
	cpu.flags = cpu.flags.With(FLAG_CARRY, hit)

	return
}

// palette loads the 16 palette colors stored as RGB triples at addr.
func (cpu *Cpu) palette(addr uint16) (err error) {
	data, err := cpu.memory.Slice(addr, PALETTE_SIZE)
	if err != nil {
		err = errors.Join(ErrMemory, err)
		return
	}

	for slot := range PALETTE_SIZE / 3 {
		rgb := data[slot*3 : slot*3+3]
		cpu.peripheral.SetPalette(uint8(slot), RGB{R: rgb[0], G: rgb[1], B: rgb[2]})
	}

	return
}

func (cpu *Cpu) readU16(addr uint16) (value uint16, err error) {
	value, err = cpu.memory.ReadU16(addr)
	if err != nil {
		err = errors.Join(ErrMemory, err)
	}
	return
}

func (cpu *Cpu) writeU16(addr uint16, value uint16) (err error) {
	err = cpu.memory.WriteU16(addr, value)
	if err != nil {
		err = errors.Join(ErrMemory, err)
	}
	return
}
