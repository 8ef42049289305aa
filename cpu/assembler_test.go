package cpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Statements))
	assert.Equal(0, len(prog.Binary()))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal(fmt.Sprintf("0x%04x", ARENA_STACK_TOP), asm.Equate["ARENA_STACK_TOP"])
	assert.Equal(fmt.Sprintf("0x%04x", ARENA_LOAD), asm.Equate["ARENA_LOAD"])
	assert.Equal(fmt.Sprintf("%d", PALETTE_SIZE), asm.Equate["PALETTE_SIZE"])
}

func assemble(t *testing.T, program ...string) (prog *Program) {
	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}
	return
}

func wordBytes(words ...uint32) (data []byte) {
	for _, word := range words {
		data = binary.BigEndian.AppendUint32(data, word)
	}
	return
}

func TestAssemblerForms(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		source string
		word   uint32
	}{
		{"nop", 0x00000000},
		{"cls", 0x01000000},
		{"vblnk", 0x02000000},
		{"bgc 5", 0x03000500},
		{"spr 4 8", 0x04000408},
		{"spr 0x0804", 0x04000408},
		{"drw r1 r2 0x1234", 0x05211234},
		{"drw r1 r2 r3", 0x06210300},
		{"rnd r4 100", 0x07040064},
		{"flip 1 0", 0x08000002},
		{"flip 0 1", 0x08000001},
		{"snd0", 0x09000000},
		{"snd1 100", 0x0A000064},
		{"snd3 0x10", 0x0C000010},
		{"snp r2 50", 0x0D020032},
		{"sng 1 2 3 4 5 1", 0x0E123451},
		{"jmp 0x0100", 0x10000100},
		{"jmc 0x0100", 0x11000100},
		{"jz 0x0100", 0x12000100},
		{"jnz 0x0100", 0x12010100},
		{"je 0x0100", 0x12000100},
		{"jc 0x0100", 0x12090100},
		{"jal 0x0100", 0x120F0100},
		{"jme r1 r2 0x0200", 0x13210200},
		{"call 0x0300", 0x14000300},
		{"ret", 0x15000000},
		{"jmp r5", 0x16050000},
		{"cnz 0x0300", 0x17010300},
		{"call r6", 0x18060000},
		{"ldi r0 0xffff", 0x2000FFFF},
		{"ldi r0 -1", 0x2000FFFF},
		{"ldif r1 5", 0x21010005},
		{"ldm r1 0x0400", 0x22010400},
		{"ldm r1 r2", 0x23210000},
		{"mov ra r1", 0x241A0000},
		{"stm r3 0x0500", 0x30030500},
		{"stm r3 r4", 0x31430000},
		{"addi r1 1", 0x40010001},
		{"add r1 r2", 0x41210000},
		{"add r1 r2 r3", 0x42210300},
		{"ADD r1, r2", 0x41210000},
		{"subi r1 2", 0x50010002},
		{"cmpi r0 9", 0x53000009},
		{"cmp r0 r1", 0x54100000},
		{"tst r15 r14", 0x64EF0000},
		{"xor r1 r2 r3", 0x82210300},
		{"muli r2 3", 0x90020003},
		{"div r1 r2", 0xA1210000},
		{"remi r1 7", 0xA6010007},
		{"shl r1 3", 0xB0010300},
		{"sal r1 3", 0xB0010300},
		{"sar r2 r3", 0xB5320000},
		{"push r0", 0xC0000000},
		{"pop rf", 0xC10F0000},
		{"pushall", 0xC2000000},
		{"popall", 0xC3000000},
		{"pushf", 0xC4000000},
		{"popf", 0xC5000000},
		{"pal 0x0600", 0xD0000600},
		{"pal r1", 0xD1010000},
		{"noti r0 0x00ff", 0xE00000FF},
		{"not r0", 0xE1000000},
		{"neg r0 r1", 0xE5100000},
	}

	for _, entry := range table {
		prog := assemble(t, entry.source)
		if !assert.Equal(1, len(prog.Statements), entry.source) {
			continue
		}
		st := prog.Statements[0]
		assert.Equal(entry.word, st.Instruction.Word(), entry.source)
		assert.Equal(wordBytes(entry.word), prog.Binary(), entry.source)
	}
}

func TestAssemblerRoundTrip(t *testing.T) {
	assert := assert.New(t)

	for _, op := range Opcodes() {
		in, err := Decode(uint32(op)<<24 | 0x123456)
		if !assert.NoError(err, op) {
			continue
		}

		prog := assemble(t, in.String())
		if assert.Equal(1, len(prog.Statements), in.String()) {
			assert.Equal(in, prog.Statements[0].Instruction, in.String())
		}
	}

	for cond := range Condition(16) {
		for _, op := range []Opcode{OP_JX, OP_CX} {
			in := Branch{Opcode: op, Cond: cond, Target: 0xabcd}
			prog := assemble(t, in.String())
			if assert.Equal(1, len(prog.Statements), in.String()) {
				assert.Equal(Instruction(in), prog.Statements[0].Instruction, in.String())
			}
		}
	}
}

func TestAssemblerScenario(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"ldi r0 3",
		"ldif r1 5",
		"add r0 r1",
	)

	assert.Equal(wordBytes(0x20000003, 0x21010005, 0x41100000), prog.Binary())
}

func TestAssemblerEqu(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		".equ TEN 10",
		"ldi r0 TEN",
		"ldi r1 $(TEN * 2)",
		".equ THIRTY $(3 * TEN)",
		"ldi r2 THIRTY",
		"ldi r3 $(LINENO * 8)",
		"ldi r4 'A'",
		"ldi r5 ' '",
		".equ COUNTER r7",
		"addi COUNTER 1",
	)

	assert.Equal(wordBytes(
		0x2000000A,
		0x20010014,
		0x2002001E,
		0x20030030,
		0x20040041,
		0x20050020,
		0x40070001,
	), prog.Binary())
}

func TestAssemblerMacro(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		".macro SETADD rn a b",
		"ldi rn a",
		"addi rn b",
		".endm",
		"SETADD r0 8 8",
		"SETADD r1 0x10 $(0x10 * 2)",
	)

	assert.Equal(wordBytes(0x20000008, 0x40000008, 0x20010010, 0x40010020), prog.Binary())

	lines := []int{}
	for _, st := range prog.Statements {
		lines = append(lines, st.LineNo)
	}
	assert.Equal([]int{2, 3, 2, 3}, lines)
}

func TestAssemblerMacroLocalLabel(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		".macro COUNTDOWN n",
		"ldi r0 n",
		"@loop: subi r0 1",
		"jnz @loop",
		".endm",
		"COUNTDOWN 3",
		"COUNTDOWN 4",
	)

	assert.Equal(wordBytes(
		0x20000003,
		0x50000001,
		0x12010004,
		0x20000004,
		0x50000001,
		0x12010010,
	), prog.Binary())
}

func TestAssemblerLabel(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"start: ldi r0 0",
		"loop: addi r0 1",
		"cmpi r0 10",
		"jnz loop",
		"jmp end",
		".dw start loop",
		"end:",
		"",
		"ret",
	)

	assert.Equal(8, len(prog.Statements))
	assert.Equal(append(wordBytes(
		0x20000000,
		0x40000001,
		0x5300000A,
		0x12010004,
		0x10000018,
	), 0x00, 0x00, 0x00, 0x04, 0x15, 0x00, 0x00, 0x00), prog.Binary())
}

func TestAssemblerCall(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"call func",
		"cz func",
		"vblnk",
		"func: ret",
	)

	assert.Equal(wordBytes(0x1400000C, 0x1700000C, 0x02000000, 0x15000000), prog.Binary())
	assert.Equal("func", prog.Statements[0].LinkLabel)
}

func TestAssemblerData(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		".db 1 2 0xff -1",
		".org 0x10",
		"nop",
		".dw 0x1234",
	)

	expected := make([]byte, 0x16)
	copy(expected, []byte{1, 2, 0xff, 0xff})
	expected[0x14] = 0x12
	expected[0x15] = 0x34

	assert.Equal(expected, prog.Binary())
	assert.Equal(uint16(0x10), prog.Statements[1].Address)
	assert.Equal(uint16(0x14), prog.Statements[2].Address)
}

func TestAssemblerErrSyntax(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// Various syntax errors
	table := [](struct {
		prog string
		line int
		err  error
	}){
		{"DUP:\nDUP:\n", 2, ErrLabelDuplicate},
		{"ldi r0 nothing", 1, ErrLabelMissing("nothing")},
		{"nop\njmp nowhere", 2, ErrLabelMissing("nowhere")},
		{"ldi r0 $(\"aaa\")", 1, ErrParseExpression("\"aaa\"")},
		{"ldi r0 $(more(\"aaa\"))", 1, nil},
		{"ldi r0 0x10000", 1, ErrValueRange},
		{"ldi r16 1", 1, ErrRegisterInvalid},
		{"add r0", 1, ErrOpcodeValueMissing},
		{"add r0 r1 r2 r3", 1, ErrOpcodeExtraArgs},
		{"nop bad", 1, ErrOpcodeExtraArgs},
		{"zap r0", 1, ErrOpcodeInvalid},
		{"jz", 1, ErrOpcodeValueMissing},
		{"jz 1 2", 1, ErrOpcodeExtraArgs},
		{"bgc 16", 1, ErrValueRange},
		{"flip 2 0", 1, ErrValueRange},
		{"shl r0 16", 1, ErrValueRange},
		{"sng 1 2 3 4 5 16", 1, ErrValueRange},
		{".equ", 1, ErrEquateSyntax},
		{".equ A", 1, ErrEquateSyntax},
		{".equ A 1\n.equ A 2\n", 2, ErrEquateDuplicate},
		{".macro A B C\n.endm\nA 1\n", 3, ErrMacroSyntax},
		{".macro A B\n.macro C\n.endm\n.endm", 2, ErrMacroNesting},
		{".macro A B\n.endm\n.macro A\n.endm\n", 3, ErrMacroDuplicate},
		{".macro A B\n.endm\n.endm\n", 3, ErrMacroLonelyEndm},
		{".macro A\nnop\n", 2, ErrMacroLonely},
		{".macro A B\nB\n.endm\nA nop\nA zap\n", 5, ErrOpcodeInvalid},
		{".org 0x10\n.org 0x08", 2, ErrOrgBackwards},
		{".org", 1, ErrOrgSyntax},
		{".db 256", 1, ErrDataRange},
		{".dw 0x10000", 1, ErrDataRange},
		{".db", 1, ErrOpcodeValueMissing},
		{".bogus 1", 1, ErrOpcodeInvalid},
		{".org 0xfffc\nnop\nnop", 3, ErrProgramTooLarge},
	}

	for _, entry := range table {
		_, err := asm.Parse(strings.NewReader(entry.prog))
		var se *ErrSyntax
		assert.NotNil(err, entry.prog)
		if err != nil {
			assert.True(errors.As(err, &se), entry.prog)
			assert.Equal(entry.line, se.LineNo, entry.prog)
			if entry.err != nil {
				assert.ErrorIs(err, entry.err, entry.prog)
			}
		}
	}
}
