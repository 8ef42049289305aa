package cpu

import (
	"fmt"
)

// Opcode is the 8-bit operation selector in the top byte of an
// instruction word.
type Opcode uint8

const (
	OP_NOP   = Opcode(0x00) // nop
	OP_CLS   = Opcode(0x01) // cls
	OP_VBLNK = Opcode(0x02) // vblnk
	OP_BGC   = Opcode(0x03) // bgc
	OP_SPR   = Opcode(0x04) // spr
	OP_DRW0  = Opcode(0x05) // drw rx ry imm
	OP_DRW1  = Opcode(0x06) // drw rx ry rz
	OP_RND   = Opcode(0x07) // rnd
	OP_FLIP  = Opcode(0x08) // flip
	OP_SND0  = Opcode(0x09) // snd0
	OP_SND1  = Opcode(0x0A) // snd1
	OP_SND2  = Opcode(0x0B) // snd2
	OP_SND3  = Opcode(0x0C) // snd3
	OP_SNP   = Opcode(0x0D) // snp
	OP_SNG   = Opcode(0x0E) // sng

	OP_JMP0  = Opcode(0x10) // jmp imm
	OP_JMC   = Opcode(0x11) // jmc
	OP_JX    = Opcode(0x12) // jx
	OP_JME   = Opcode(0x13) // jme
	OP_CALL0 = Opcode(0x14) // call imm
	OP_RET   = Opcode(0x15) // ret
	OP_JMP1  = Opcode(0x16) // jmp rx
	OP_CX    = Opcode(0x17) // cx
	OP_CALL1 = Opcode(0x18) // call rx

	OP_LDI0 = Opcode(0x20) // ldi
	OP_LDI1 = Opcode(0x21) // ldif
	OP_LDM0 = Opcode(0x22) // ldm rx imm
	OP_LDM1 = Opcode(0x23) // ldm rx ry
	OP_MOV  = Opcode(0x24) // mov

	OP_STM0 = Opcode(0x30) // stm rx imm
	OP_STM1 = Opcode(0x31) // stm rx ry

	OP_ADDI = Opcode(0x40) // addi
	OP_ADD0 = Opcode(0x41) // add rx ry
	OP_ADD1 = Opcode(0x42) // add rx ry rz

	OP_SUBI = Opcode(0x50) // subi
	OP_SUB0 = Opcode(0x51) // sub rx ry
	OP_SUB1 = Opcode(0x52) // sub rx ry rz
	OP_CMPI = Opcode(0x53) // cmpi
	OP_CMP  = Opcode(0x54) // cmp

	OP_ANDI = Opcode(0x60) // andi
	OP_AND0 = Opcode(0x61) // and rx ry
	OP_AND1 = Opcode(0x62) // and rx ry rz
	OP_TSTI = Opcode(0x63) // tsti
	OP_TST  = Opcode(0x64) // tst

	OP_ORI = Opcode(0x70) // ori
	OP_OR0 = Opcode(0x71) // or rx ry
	OP_OR1 = Opcode(0x72) // or rx ry rz

	OP_XORI = Opcode(0x80) // xori
	OP_XOR0 = Opcode(0x81) // xor rx ry
	OP_XOR1 = Opcode(0x82) // xor rx ry rz

	OP_MULI = Opcode(0x90) // muli
	OP_MUL0 = Opcode(0x91) // mul rx ry
	OP_MUL1 = Opcode(0x92) // mul rx ry rz

	OP_DIVI = Opcode(0xA0) // divi
	OP_DIV0 = Opcode(0xA1) // div rx ry
	OP_DIV1 = Opcode(0xA2) // div rx ry rz
	OP_MODI = Opcode(0xA3) // modi
	OP_MOD0 = Opcode(0xA4) // mod rx ry
	OP_MOD1 = Opcode(0xA5) // mod rx ry rz
	OP_REMI = Opcode(0xA6) // remi
	OP_REM0 = Opcode(0xA7) // rem rx ry
	OP_REM1 = Opcode(0xA8) // rem rx ry rz

	OP_SHL0 = Opcode(0xB0) // shl rx n
	OP_SHR0 = Opcode(0xB1) // shr rx n
	OP_SAR0 = Opcode(0xB2) // sar rx n
	OP_SHL1 = Opcode(0xB3) // shl rx ry
	OP_SHR1 = Opcode(0xB4) // shr rx ry
	OP_SAR1 = Opcode(0xB5) // sar rx ry

	OP_PUSH    = Opcode(0xC0) // push
	OP_POP     = Opcode(0xC1) // pop
	OP_PUSHALL = Opcode(0xC2) // pushall
	OP_POPALL  = Opcode(0xC3) // popall
	OP_PUSHF   = Opcode(0xC4) // pushf
	OP_POPF    = Opcode(0xC5) // popf

	OP_PAL0 = Opcode(0xD0) // pal imm
	OP_PAL1 = Opcode(0xD1) // pal rx

	OP_NOTI = Opcode(0xE0) // noti
	OP_NOT0 = Opcode(0xE1) // not rx
	OP_NOT1 = Opcode(0xE2) // not rx ry
	OP_NEGI = Opcode(0xE3) // negi
	OP_NEG0 = Opcode(0xE4) // neg rx
	OP_NEG1 = Opcode(0xE5) // neg rx ry
)

// Layout is the operand bit layout of an opcode class.
type Layout int

const (
	LAYOUT_INVALID     = Layout(iota) // invalid
	LAYOUT_IMPLIED                    // op 00 00 00
	LAYOUT_BACKGROUND                 // op 00 0N 00
	LAYOUT_SPRITE_SIZE                // op 00 WW HH
	LAYOUT_FLIP                       // op 00 00 0F
	LAYOUT_GENERATOR                  // op AD SR VT
	LAYOUT_IMM                        // op 00 HH LL
	LAYOUT_BRANCH                     // op 0C HH LL
	LAYOUT_REG_IMM                    // op 0X HH LL
	LAYOUT_REG                        // op 0X 00 00
	LAYOUT_REG_REG                    // op YX 00 00
	LAYOUT_REG_REG_REG                // op YX 0Z 00
	LAYOUT_REG_REG_IMM                // op YX HH LL
	LAYOUT_SHIFT                      // op 0X 0N 00
)

type opcodeInfo struct {
	Name   string
	Layout Layout
}

// opcodeTable is indexed by opcode byte. Unassigned bytes have
// LAYOUT_INVALID.
var opcodeTable = [256]opcodeInfo{
	OP_NOP:   {"nop", LAYOUT_IMPLIED},
	OP_CLS:   {"cls", LAYOUT_IMPLIED},
	OP_VBLNK: {"vblnk", LAYOUT_IMPLIED},
	OP_BGC:   {"bgc", LAYOUT_BACKGROUND},
	OP_SPR:   {"spr", LAYOUT_SPRITE_SIZE},
	OP_DRW0:  {"drw", LAYOUT_REG_REG_IMM},
	OP_DRW1:  {"drw", LAYOUT_REG_REG_REG},
	OP_RND:   {"rnd", LAYOUT_REG_IMM},
	OP_FLIP:  {"flip", LAYOUT_FLIP},
	OP_SND0:  {"snd0", LAYOUT_IMPLIED},
	OP_SND1:  {"snd1", LAYOUT_IMM},
	OP_SND2:  {"snd2", LAYOUT_IMM},
	OP_SND3:  {"snd3", LAYOUT_IMM},
	OP_SNP:   {"snp", LAYOUT_REG_IMM},
	OP_SNG:   {"sng", LAYOUT_GENERATOR},

	OP_JMP0:  {"jmp", LAYOUT_IMM},
	OP_JMC:   {"jmc", LAYOUT_IMM},
	OP_JX:    {"j", LAYOUT_BRANCH},
	OP_JME:   {"jme", LAYOUT_REG_REG_IMM},
	OP_CALL0: {"call", LAYOUT_IMM},
	OP_RET:   {"ret", LAYOUT_IMPLIED},
	OP_JMP1:  {"jmp", LAYOUT_REG},
	OP_CX:    {"c", LAYOUT_BRANCH},
	OP_CALL1: {"call", LAYOUT_REG},

	OP_LDI0: {"ldi", LAYOUT_REG_IMM},
	OP_LDI1: {"ldif", LAYOUT_REG_IMM},
	OP_LDM0: {"ldm", LAYOUT_REG_IMM},
	OP_LDM1: {"ldm", LAYOUT_REG_REG},
	OP_MOV:  {"mov", LAYOUT_REG_REG},

	OP_STM0: {"stm", LAYOUT_REG_IMM},
	OP_STM1: {"stm", LAYOUT_REG_REG},

	OP_ADDI: {"addi", LAYOUT_REG_IMM},
	OP_ADD0: {"add", LAYOUT_REG_REG},
	OP_ADD1: {"add", LAYOUT_REG_REG_REG},

	OP_SUBI: {"subi", LAYOUT_REG_IMM},
	OP_SUB0: {"sub", LAYOUT_REG_REG},
	OP_SUB1: {"sub", LAYOUT_REG_REG_REG},
	OP_CMPI: {"cmpi", LAYOUT_REG_IMM},
	OP_CMP:  {"cmp", LAYOUT_REG_REG},

	OP_ANDI: {"andi", LAYOUT_REG_IMM},
	OP_AND0: {"and", LAYOUT_REG_REG},
	OP_AND1: {"and", LAYOUT_REG_REG_REG},
	OP_TSTI: {"tsti", LAYOUT_REG_IMM},
	OP_TST:  {"tst", LAYOUT_REG_REG},

	OP_ORI: {"ori", LAYOUT_REG_IMM},
	OP_OR0: {"or", LAYOUT_REG_REG},
	OP_OR1: {"or", LAYOUT_REG_REG_REG},

	OP_XORI: {"xori", LAYOUT_REG_IMM},
	OP_XOR0: {"xor", LAYOUT_REG_REG},
	OP_XOR1: {"xor", LAYOUT_REG_REG_REG},

	OP_MULI: {"muli", LAYOUT_REG_IMM},
	OP_MUL0: {"mul", LAYOUT_REG_REG},
	OP_MUL1: {"mul", LAYOUT_REG_REG_REG},

	OP_DIVI: {"divi", LAYOUT_REG_IMM},
	OP_DIV0: {"div", LAYOUT_REG_REG},
	OP_DIV1: {"div", LAYOUT_REG_REG_REG},
	OP_MODI: {"modi", LAYOUT_REG_IMM},
	OP_MOD0: {"mod", LAYOUT_REG_REG},
	OP_MOD1: {"mod", LAYOUT_REG_REG_REG},
	OP_REMI: {"remi", LAYOUT_REG_IMM},
	OP_REM0: {"rem", LAYOUT_REG_REG},
	OP_REM1: {"rem", LAYOUT_REG_REG_REG},

	OP_SHL0: {"shl", LAYOUT_SHIFT},
	OP_SHR0: {"shr", LAYOUT_SHIFT},
	OP_SAR0: {"sar", LAYOUT_SHIFT},
	OP_SHL1: {"shl", LAYOUT_REG_REG},
	OP_SHR1: {"shr", LAYOUT_REG_REG},
	OP_SAR1: {"sar", LAYOUT_REG_REG},

	OP_PUSH:    {"push", LAYOUT_REG},
	OP_POP:     {"pop", LAYOUT_REG},
	OP_PUSHALL: {"pushall", LAYOUT_IMPLIED},
	OP_POPALL:  {"popall", LAYOUT_IMPLIED},
	OP_PUSHF:   {"pushf", LAYOUT_IMPLIED},
	OP_POPF:    {"popf", LAYOUT_IMPLIED},

	OP_PAL0: {"pal", LAYOUT_IMM},
	OP_PAL1: {"pal", LAYOUT_REG},

	OP_NOTI: {"noti", LAYOUT_REG_IMM},
	OP_NOT0: {"not", LAYOUT_REG},
	OP_NOT1: {"not", LAYOUT_REG_REG},
	OP_NEGI: {"negi", LAYOUT_REG_IMM},
	OP_NEG0: {"neg", LAYOUT_REG},
	OP_NEG1: {"neg", LAYOUT_REG_REG},
}

// Valid returns true if the opcode byte is assigned.
func (op Opcode) Valid() bool {
	return opcodeTable[op].Layout != LAYOUT_INVALID
}

// Layout returns the operand layout of the opcode.
func (op Opcode) Layout() Layout {
	return opcodeTable[op].Layout
}

// Mnemonic returns the assembler mnemonic of the opcode.
// Opcodes that share a mnemonic are told apart by their operands.
func (op Opcode) Mnemonic() string {
	return opcodeTable[op].Name
}

// String returns the mnemonic, or the hex byte for unassigned opcodes.
func (op Opcode) String() string {
	if !op.Valid() {
		return fmt.Sprintf("op(0x%02x)", uint8(op))
	}
	return opcodeTable[op].Name
}

// Opcodes returns all assigned opcodes in ascending order.
func Opcodes() (ops []Opcode) {
	for n := range len(opcodeTable) {
		op := Opcode(n)
		if op.Valid() {
			ops = append(ops, op)
		}
	}
	return
}

// Register is a general purpose register index, r0 through r15.
type Register uint8

const (
	REGISTER_COUNT = 16 // Number of general purpose registers.
)

func (reg Register) String() string {
	return fmt.Sprintf("r%d", uint8(reg))
}

// Condition is a branch condition code, tested against the flags.
type Condition uint8

//go:generate go tool stringer -linecomment -type=Condition
const (
	COND_Z      = Condition(0x0) // z
	COND_NZ     = Condition(0x1) // nz
	COND_N      = Condition(0x2) // n
	COND_NN     = Condition(0x3) // nn
	COND_P      = Condition(0x4) // p
	COND_O      = Condition(0x5) // o
	COND_NO     = Condition(0x6) // no
	COND_A      = Condition(0x7) // a
	COND_AE     = Condition(0x8) // ae
	COND_B      = Condition(0x9) // b
	COND_BE     = Condition(0xA) // be
	COND_G      = Condition(0xB) // g
	COND_GE     = Condition(0xC) // ge
	COND_L      = Condition(0xD) // l
	COND_LE     = Condition(0xE) // le
	COND_ALWAYS = Condition(0xF) // al
)

// conditionAlias maps assembler suffixes to condition codes.
var conditionAlias = map[string]Condition{
	"e":  COND_Z,
	"ne": COND_NZ,
	"c":  COND_B,
	"nc": COND_AE,
}

// Test returns true if the condition holds for the flags.
func (cond Condition) Test(flags Flags) (ok bool) {
	c := flags.Carry()
	z := flags.Zero()
	o := flags.Overflow()
	n := flags.Negative()

	switch cond & 0xf {
	case COND_Z:
		ok = z
	case COND_NZ:
		ok = !z
	case COND_N:
		ok = n
	case COND_NN:
		ok = !n
	case COND_P:
		ok = !n && !z
	case COND_O:
		ok = o
	case COND_NO:
		ok = !o
	case COND_A:
		ok = !c && !z
	case COND_AE:
		ok = !c
	case COND_B:
		ok = c
	case COND_BE:
		ok = c || z
	case COND_G:
		ok = o == n && !z
	case COND_GE:
		ok = o == n
	case COND_L:
		ok = o != n
	case COND_LE:
		ok = o != n || z
	case COND_ALWAYS:
		ok = true
	}

	return
}

// parseCondition looks up a condition code by name or alias.
func parseCondition(name string) (cond Condition, ok bool) {
	for cond = range COND_ALWAYS + 1 {
		if cond.String() == name {
			return cond, true
		}
	}
	cond, ok = conditionAlias[name]
	return
}
