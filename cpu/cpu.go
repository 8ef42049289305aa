package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/chip16/memory"
)

const (
	INSTRUCTION_SIZE = 4 // Bytes per instruction word.
)

var _cpu_defines = map[string]string{
	"ARENA_LOAD":       fmt.Sprintf("0x%04x", ARENA_LOAD),
	"ARENA_STACK_TOP":  fmt.Sprintf("0x%04x", ARENA_STACK_TOP),
	"ARENA_STACK_SIZE": fmt.Sprintf("0x%04x", ARENA_STACK_SIZE),
	"ARENA_IO":         fmt.Sprintf("0x%04x", ARENA_IO),
	"PALETTE_SIZE":     fmt.Sprintf("%d", PALETTE_SIZE),
}

// Cpu is the simulation context of one chip16 processor. Each Cpu is
// independent; a host running several must serialize calls per Cpu.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	memory   *memory.Memory
	register [REGISTER_COUNT]uint16
	pc       uint16
	stack    Stack
	flags    Flags

	background uint8
	spriteW    uint8
	spriteH    uint8
	hflip      bool
	vflip      bool
	envelope   Envelope

	ticks int

	peripheral Peripheral
	idle       *idlePeripheral
}

// NewCpu creates a new CPU with a memory of size bytes, clamped to the
// 16-bit address space.
func NewCpu(size uint) (cpu *Cpu) {
	mem := memory.New(size)
	top, limit := stackBounds(mem.Size())

	cpu = &Cpu{
		memory: mem,
		stack: Stack{
			Memory: mem,
			Top:    top,
			Limit:  limit,
		},
		idle: newIdlePeripheral(0),
	}
	cpu.peripheral = cpu.idle

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// SetPeripheral attaches the host devices. A nil peripheral restores
// the idle peripheral.
func (cpu *Cpu) SetPeripheral(peripheral Peripheral) {
	if peripheral == nil {
		peripheral = cpu.idle
	}
	cpu.peripheral = peripheral
}

// Reset the CPU state.
// - Clears the registers, flags and peripheral registers.
// - Empties the stack.
// - Sets pc to ARENA_LOAD.
// Memory is not cleared.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.register[:])
	cpu.pc = ARENA_LOAD
	cpu.flags = 0
	cpu.stack.Reset()

	cpu.background = 0
	cpu.spriteW = 0
	cpu.spriteH = 0
	cpu.hflip = false
	cpu.vflip = false
	cpu.envelope = Envelope{}

	cpu.ticks = 0
	cpu.idle.Reset()
}

// Load copies a program image into memory at addr.
func (cpu *Cpu) Load(addr uint16, data []byte) (err error) {
	err = cpu.memory.Load(addr, data)
	if err != nil {
		err = errors.Join(ErrMemory, err)
	}
	return
}

// ClearMemory zeroes all of memory.
func (cpu *Cpu) ClearMemory() {
	cpu.memory.Reset()
}

// MemorySize returns the size of the memory in bytes.
func (cpu *Cpu) MemorySize() int {
	return cpu.memory.Size()
}

// ReadMemory returns a copy of n bytes of memory at addr.
func (cpu *Cpu) ReadMemory(addr uint16, n int) (data []byte, err error) {
	return cpu.memory.Slice(addr, n)
}

// Register returns the value of a general purpose register.
func (cpu *Cpu) Register(reg Register) uint16 {
	return cpu.register[reg&0xf]
}

// SetRegister sets the value of a general purpose register.
func (cpu *Cpu) SetRegister(reg Register, value uint16) {
	cpu.register[reg&0xf] = value
}

// SetPc moves the program counter, as for a ROM entry point.
func (cpu *Cpu) SetPc(pc uint16) {
	cpu.pc = pc
}

func (cpu *Cpu) Flags() Flags             { return cpu.flags }
func (cpu *Cpu) Pc() uint16               { return cpu.pc }
func (cpu *Cpu) Sp() uint16               { return cpu.stack.Pointer }
func (cpu *Cpu) Background() uint8        { return cpu.background }
func (cpu *Cpu) SpriteSize() (w, h uint8) { return cpu.spriteW, cpu.spriteH }
func (cpu *Cpu) Flip() (h, v bool)        { return cpu.hflip, cpu.vflip }
func (cpu *Cpu) Envelope() Envelope       { return cpu.envelope }

// Ticks returns the number of instructions executed since reset.
func (cpu *Cpu) Ticks() int { return cpu.ticks }

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %04X\n", "pc", cpu.pc)
	text += fmt.Sprintf("% 5s: %04X\n", "sp", cpu.stack.Pointer)
	text += fmt.Sprintf("% 5s: %v\n", "flags", cpu.flags)
	for n, value := range cpu.register {
		text += fmt.Sprintf("% 5s: %04X\n", Register(n), value)
	}

	top := "----"
	value, ok := cpu.stack.Peek()
	if ok {
		top = fmt.Sprintf("%04X", value)
	}
	text += fmt.Sprintf("% 5s: %v\n", "stack", top)
	text += fmt.Sprintf("% 5s: %d\n", "bg", cpu.background)
	text += fmt.Sprintf("% 5s: %dx%d h:%v v:%v\n", "spr", cpu.spriteW, cpu.spriteH, cpu.hflip, cpu.vflip)

	return
}

// Fetch reads the instruction word at pc.
func (cpu *Cpu) Fetch() (word uint32, err error) {
	word, err = cpu.memory.ReadU32(cpu.pc)
	if err != nil {
		err = errors.Join(ErrMemory, err)
	}
	return
}

// Step fetches, decodes and executes one instruction.
//
// vblank is true when the instruction was VBLNK: the program is waiting
// for vertical blank and the host should resume it with the next Step
// once the frame is done.
//
// On error the CPU state is unchanged and err is an *ErrFault.
func (cpu *Cpu) Step() (vblank bool, err error) {
	pc := cpu.pc

	word, err := cpu.Fetch()
	if err != nil {
		err = &ErrFault{Pc: pc, Err: err}
		return
	}

	in, err := Decode(word)
	if err != nil {
		err = &ErrFault{Pc: pc, Word: word, Err: errors.Join(ErrDecode, err)}
		return
	}

	vblank, err = cpu.execute(in)
	if err != nil {
		err = &ErrFault{Pc: pc, Word: word, Err: err}
		return
	}

	return
}
