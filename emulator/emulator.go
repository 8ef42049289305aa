// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"maps"

	"github.com/ezrec/chip16/cpu"
	"github.com/ezrec/chip16/internal"
	"github.com/ezrec/chip16/io"
)

const (
	CPU_HZ      = 1000000           // Instructions per second.
	FRAME_HZ    = 60                // Frames per second.
	FRAME_TICKS = CPU_HZ / FRAME_HZ // Instructions per frame.
	MEMORY_SIZE = 0x10000           // Bytes of memory.
)

var _emulator_defines = map[string]string{
	"FRAME_TICKS": fmt.Sprintf("%d", FRAME_TICKS),
	"MEMORY_SIZE": fmt.Sprintf("0x%x", MEMORY_SIZE),
}

// Emulator state. CPU + video, audio and random devices.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.
	Rom      *io.Rom      // If set, loaded instead of the Program.

	Video  *io.Video  // Video surface.
	Audio  io.Audio   // Tone recorder.
	Random cpu.Random // Random number source.

	err error // First device error since the last Tick.
}

// console routes the CPU device requests to the emulator devices.
type console struct {
	emu *Emulator
}

var _ cpu.Peripheral = (*console)(nil)

func (con *console) ClearScreen() {
	con.emu.Video.Clear()
	con.emu.Video.Background = 0
}

func (con *console) SetBackground(index uint8) {
	con.emu.Video.Background = index
}

func (con *console) SetPalette(slot uint8, color cpu.RGB) {
	con.emu.Video.SetPalette(slot, color)
}

func (con *console) DrawSprite(sprite cpu.Sprite) bool {
	return con.emu.Video.Draw(sprite)
}

func (con *console) PlayTone(tone cpu.Tone) {
	err := con.emu.Audio.Play(con.emu.Video.Frames, tone)
	if err != nil && con.emu.err == nil {
		con.emu.err = err
	}
}

func (con *console) WaitVblank() {
	con.emu.Video.Vblank()
}

func (con *console) Random(bound uint16) uint16 {
	return con.emu.Random.Next(bound)
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(MEMORY_SIZE),
		Program: &cpu.Program{},
		Video:   io.NewVideo(),
	}

	emu.Cpu.SetPeripheral(&console{emu: emu})

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		emu.Video.Defines(),
	)
}

// Reset the console, and load the ROM or the program image.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.Cpu.ClearMemory()

	emu.Video.Reset()
	emu.Audio.Reset()
	emu.Random.Reset()
	emu.err = nil

	if emu.Rom != nil {
		err = emu.Cpu.Load(0, emu.Rom.Data)
		if err != nil {
			return
		}
		emu.Cpu.SetPc(emu.Rom.Start)
		return
	}

	err = emu.Cpu.Load(cpu.ARENA_LOAD, emu.Program.Binary())

	return
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	if emu.Rom != nil {
		return 0
	}

	dbg := emu.Program.Debug(emu.Cpu.Pc())
	if dbg.Statement == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single instruction of the emulator.
func (emu *Emulator) Tick() (vblank bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	pc := emu.Cpu.Pc()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Pc: pc, Err: err}
		}
	}()

	vblank, err = emu.Cpu.Step()
	if err != nil {
		return
	}

	err = emu.err
	emu.err = nil

	return
}

// Frame runs until the program waits for vertical blank, or until a
// frame's worth of instructions have run. It returns the number of
// instructions executed.
func (emu *Emulator) Frame() (ticks int, err error) {
	for ticks < FRAME_TICKS {
		var vblank bool
		vblank, err = emu.Tick()
		if err != nil {
			return
		}
		ticks++
		if vblank {
			return
		}
	}

	emu.Video.Vblank()

	return
}

// Run executes count frames.
func (emu *Emulator) Run(count int) (err error) {
	for range count {
		_, err = emu.Frame()
		if err != nil {
			return
		}
	}

	return
}

// Snapshot captures the console state.
func (emu *Emulator) Snapshot() (snap *io.Snapshot) {
	memory, _ := emu.Cpu.ReadMemory(0, emu.Cpu.MemorySize())

	snap = &io.Snapshot{
		State:  fmt.Sprintf("%vframe: %d\nticks: %d\n", emu.Cpu, emu.Video.Frames, emu.Cpu.Ticks()),
		Memory: memory,
		Screen: emu.Video.Image(),
		Cues:   emu.Audio.Cues,
	}

	return
}
