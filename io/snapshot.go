package io

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
)

const (
	SNAPSHOT_STATE  = "state.txt"  // Register dump.
	SNAPSHOT_MEMORY = "memory.bin" // Memory image.
	SNAPSHOT_SCREEN = "screen.png" // Rendered surface.
	SNAPSHOT_TONES  = "tones.txt"  // Tone cues, one per line.
)

// Snapshot is the dumped state of a console at one instant.
type Snapshot struct {
	State  string
	Memory []byte
	Screen *image.Paletted
	Cues   []Cue
}

func writeFile(filesys CreateFS, name string, fn func(w io.Writer) error) (err error) {
	file, err := filesys.Create(name)
	if err != nil {
		return
	}

	err = fn(file)
	err = errors.Join(err, file.Close())

	return
}

// Marshal writes the snapshot files. Missing parts are skipped.
func (snap *Snapshot) Marshal(filesys CreateFS) (err error) {
	err = writeFile(filesys, SNAPSHOT_STATE, func(w io.Writer) (err error) {
		_, err = io.WriteString(w, snap.State)
		return
	})
	if err != nil {
		return
	}

	if snap.Memory != nil {
		err = writeFile(filesys, SNAPSHOT_MEMORY, func(w io.Writer) (err error) {
			_, err = w.Write(snap.Memory)
			return
		})
		if err != nil {
			return
		}
	}

	if snap.Screen != nil {
		err = writeFile(filesys, SNAPSHOT_SCREEN, func(w io.Writer) error {
			return png.Encode(w, snap.Screen)
		})
		if err != nil {
			return
		}
	}

	if len(snap.Cues) != 0 {
		err = writeFile(filesys, SNAPSHOT_TONES, func(w io.Writer) (err error) {
			for _, cue := range snap.Cues {
				_, err = fmt.Fprintln(w, cue)
				if err != nil {
					return
				}
			}
			return
		})
	}

	return
}

// Unmarshal reads the state, memory and screen back. Tone cues are not
// restored.
func (snap *Snapshot) Unmarshal(filesys fs.FS) (err error) {
	state, err := fs.ReadFile(filesys, SNAPSHOT_STATE)
	if err != nil {
		return
	}
	snap.State = string(state)

	snap.Memory, err = fs.ReadFile(filesys, SNAPSHOT_MEMORY)
	if errors.Is(err, fs.ErrNotExist) {
		snap.Memory = nil
		err = nil
	}
	if err != nil {
		return
	}

	snap.Screen = nil
	file, err := filesys.Open(SNAPSHOT_SCREEN)
	if errors.Is(err, fs.ErrNotExist) {
		err = nil
		return
	}
	if err != nil {
		return
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		err = errors.Join(ErrSnapshotScreen, err)
		return
	}

	screen, ok := img.(*image.Paletted)
	if !ok {
		err = ErrSnapshotScreen
		return
	}
	snap.Screen = screen

	return
}
