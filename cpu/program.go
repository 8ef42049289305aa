package cpu

import (
	"encoding/binary"
	"fmt"
	"io"
	"iter"
	"strings"
)

// Statement is a single assembled item: one instruction, or a run of
// data bytes.
type Statement struct {
	LineNo      int         // Source line number.
	Address     uint16      // Load address.
	Words       []string    // Source words.
	Instruction Instruction // Assembled instruction, nil for data.
	Data        []byte      // Data bytes, when Instruction is nil.
	LinkLabel   string      // Label patched into the immediate at link time.
}

// Size returns the number of bytes the statement occupies.
func (st *Statement) Size() int {
	if st.Instruction != nil {
		return INSTRUCTION_SIZE
	}
	return len(st.Data)
}

// Bytes returns the statement's memory image.
func (st *Statement) Bytes() (data []byte) {
	if st.Instruction != nil {
		data = binary.BigEndian.AppendUint32(nil, st.Instruction.Word())
		return
	}
	data = st.Data
	return
}

// Program is an assembled program: statements in ascending address
// order.
type Program struct {
	Statements []Statement
}

type Debug struct {
	*Statement
	Offset int // Byte offset of the address within the statement.
}

// Debug finds the statement covering addr. The Statement is nil when no
// statement covers it.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, st := range prog.Statements {
		if int(addr) >= int(st.Address) && int(addr) < int(st.Address)+st.Size() {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Offset:    int(addr) - int(st.Address),
			}
			break
		}
	}

	return
}

// Binary returns the memory image of the program, starting at
// ARENA_LOAD. Gaps left by .org are zero filled.
func (prog *Program) Binary() (bin []byte) {
	for _, st := range prog.Statements {
		end := int(st.Address) + st.Size()
		if end > len(bin) {
			bin = append(bin, make([]byte, end-len(bin))...)
		}
		copy(bin[st.Address:], st.Bytes())
	}

	return
}

// Instructions iterates the program's instructions by address.
func (prog *Program) Instructions() iter.Seq2[uint16, Instruction] {
	return func(yield func(addr uint16, in Instruction) bool) {
		for _, st := range prog.Statements {
			if st.Instruction == nil {
				continue
			}
			if !yield(st.Address, st.Instruction) {
				return
			}
		}
	}
}

// Disassemble converts a memory image loaded at ARENA_LOAD into a
// program. Words that do not decode, and any trailing partial word,
// become data statements.
func Disassemble(image []byte) (prog *Program) {
	prog = &Program{}

	for addr := 0; addr < len(image); addr += INSTRUCTION_SIZE {
		chunk := image[addr:min(addr+INSTRUCTION_SIZE, len(image))]
		st := Statement{Address: uint16(addr)}

		if len(chunk) == INSTRUCTION_SIZE {
			in, err := Decode(binary.BigEndian.Uint32(chunk))
			if err == nil {
				st.Instruction = in
			}
		}
		if st.Instruction == nil {
			st.Data = chunk
		}
		prog.Statements = append(prog.Statements, st)
	}

	return
}

// Listing writes the program as assembler source, one statement per
// line, annotated with its address.
func (prog *Program) Listing(w io.Writer) (err error) {
	next := ARENA_LOAD
	for _, st := range prog.Statements {
		if int(st.Address) != next {
			_, err = fmt.Fprintf(w, "%-24s; %04x\n", fmt.Sprintf(".org 0x%04x", st.Address), st.Address)
			if err != nil {
				return
			}
		}
		next = int(st.Address) + st.Size()

		var text string
		if st.Instruction != nil {
			text = st.Instruction.String()
		} else {
			values := make([]string, len(st.Data))
			for n, b := range st.Data {
				values[n] = fmt.Sprintf("0x%02x", b)
			}
			text = ".db " + strings.Join(values, " ")
		}

		_, err = fmt.Fprintf(w, "%-24s; %04x\n", text, st.Address)
		if err != nil {
			return
		}
	}

	return
}
