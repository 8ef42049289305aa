// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/ezrec/chip16/cpu"
	"github.com/ezrec/chip16/emulator"
	chipio "github.com/ezrec/chip16/io"
)

func main() {
	var compile string
	var input string
	var output string
	var listing bool
	var frames int
	var seed uint64
	var snapshot string
	var pngFile string
	var scale int
	var caption bool
	var tones bool
	var show bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".s file to assemble")
	flag.StringVar(&input, "i", "", ".c16 or raw image to run")
	flag.StringVar(&output, "o", "", "Save the assembled image as .c16, do not execute")
	flag.BoolVar(&listing, "l", false, "Print the program listing, do not execute")
	flag.IntVar(&frames, "frames", 60, "Frames to run")
	flag.Uint64Var(&seed, "seed", 0, "Random number seed")
	flag.StringVar(&snapshot, "dump", "", "Directory to dump the final state into")
	flag.StringVar(&pngFile, "png", "", "PNG file for the final screen")
	flag.IntVar(&scale, "scale", 2, "PNG scale factor")
	flag.BoolVar(&caption, "caption", false, "Stamp the frame number on the PNG")
	flag.BoolVar(&tones, "tones", false, "Print tones as they play")
	flag.BoolVar(&show, "show", false, "Show the final screen on the terminal")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if (len(compile) == 0) == (len(input) == 0) {
		log.Fatalf("%v: exactly one of -c or -i is required", os.Args[0])
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Random.Seed = seed

	// Compile a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		emu.Program, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	}

	// Load a ROM image.
	if len(input) != 0 {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()

		emu.Rom, err = chipio.LoadRom(inf)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		emu.Program = cpu.Disassemble(emu.Rom.Data)
	}

	if listing {
		err := emu.Program.Listing(os.Stdout)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	if len(output) != 0 {
		rom := emu.Rom
		if rom == nil {
			rom = &chipio.Rom{Start: cpu.ARENA_LOAD, Data: emu.Program.Binary()}
		}
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		err = rom.Marshal(ouf)
		if err == nil {
			err = ouf.Close()
		}
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		return
	}

	if tones {
		emu.Audio.Output = os.Stdout
	}

	err := emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	err = emu.Run(frames)
	if err != nil {
		log.Print(emu.Cpu.String())
		log.Fatal(err)
	}

	if len(pngFile) != 0 {
		label := ""
		if caption {
			label = fmt.Sprintf("frame %d", emu.Video.Frames)
		}
		ouf, err := os.Create(pngFile)
		if err != nil {
			log.Fatalf("%v: %v", pngFile, err)
		}
		err = writePNG(ouf, emu.Video.Image(), scale, label)
		if err == nil {
			err = ouf.Close()
		}
		if err != nil {
			log.Fatalf("%v: %v", pngFile, err)
		}
	}

	if len(snapshot) != 0 {
		err = os.MkdirAll(snapshot, 0755)
		if err != nil {
			log.Fatal(err)
		}
		sub, err := chipio.SubOrMkdir(chipio.DirFS(snapshot), fmt.Sprintf("frame-%06d", emu.Video.Frames))
		if err != nil {
			log.Fatal(err)
		}
		err = emu.Snapshot().Marshal(sub)
		if err != nil {
			log.Fatalf("%v: %v", snapshot, err)
		}
	}

	if show {
		fd := int(os.Stdout.Fd())
		if !term.IsTerminal(fd) {
			log.Fatalf("%v: -show needs a terminal", os.Args[0])
		}
		cols, rows, err := term.GetSize(fd)
		if err != nil {
			log.Fatal(err)
		}
		err = renderTerminal(os.Stdout, emu.Video.Image(), cols, rows-1)
		if err != nil {
			log.Fatal(err)
		}
	}
}
