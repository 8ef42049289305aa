package io

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/ezrec/chip16/memory"
)

const (
	ROM_MAGIC       = "CH16" // Header magic.
	ROM_HEADER_SIZE = 16     // Header bytes before the image.
	ROM_VERSION     = 0x11   // Format version written by Marshal, as 0xMN for M.N.
)

// romHeader is the little-endian .c16 header.
type romHeader struct {
	Magic    [4]byte
	Reserved uint8
	Version  uint8
	Size     uint32
	Start    uint16
	Checksum uint32
}

// Rom is a program image.
type Rom struct {
	Version uint8  // Header version, zero for a raw image.
	Start   uint16 // Initial pc.
	Data    []byte // Image loaded at address 0.
}

// LoadRom reads a .c16 image. Input without the header magic is taken as
// a raw image starting at address 0.
func LoadRom(r io.Reader) (rom *Rom, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}

	if !bytes.HasPrefix(data, []byte(ROM_MAGIC)) {
		if len(data) > memory.SIZE_MAX {
			err = ErrRomTooLarge
			return
		}
		rom = &Rom{Data: data}
		return
	}

	var header romHeader
	if len(data) < ROM_HEADER_SIZE {
		err = ErrRomShort
		return
	}
	err = binary.Read(bytes.NewReader(data), binary.LittleEndian, &header)
	if err != nil {
		return
	}

	image := data[ROM_HEADER_SIZE:]
	switch {
	case header.Size > memory.SIZE_MAX:
		err = ErrRomTooLarge
	case uint32(len(image)) < header.Size:
		err = ErrRomShort
	}
	if err != nil {
		return
	}
	image = image[:header.Size]

	if crc32.ChecksumIEEE(image) != header.Checksum {
		err = ErrRomChecksum
		return
	}

	rom = &Rom{
		Version: header.Version,
		Start:   header.Start,
		Data:    image,
	}

	return
}

// Marshal writes the image with a .c16 header.
func (rom *Rom) Marshal(w io.Writer) (err error) {
	if len(rom.Data) > memory.SIZE_MAX {
		err = ErrRomTooLarge
		return
	}

	version := rom.Version
	if version == 0 {
		version = ROM_VERSION
	}

	header := romHeader{
		Version:  version,
		Size:     uint32(len(rom.Data)),
		Start:    rom.Start,
		Checksum: crc32.ChecksumIEEE(rom.Data),
	}
	copy(header.Magic[:], ROM_MAGIC)

	err = binary.Write(w, binary.LittleEndian, &header)
	if err != nil {
		return
	}

	_, err = w.Write(rom.Data)

	return
}
