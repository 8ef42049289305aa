// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"github.com/ezrec/chip16/memory"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass macro assembler for the chip16 system.
type Assembler struct {
	Verbose    bool        // If set, verbosely logs the assembler actions.
	Statements []Statement // List of assembled statements.

	predefine map[string]string   // Predefines
	Label     map[string]uint16   // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	address    int // Address of the next statement.
	expansions int // Number of macro expansions, for local labels.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

var (
	reRegister = regexp.MustCompile(`^[rR]([0-9]|1[0-5]|[a-fA-F])$`)
	reLabel    = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)
	reIdent    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reChar     = regexp.MustCompile(`'\\?[^']'`)
	reParen    = regexp.MustCompile(`\$\([^\$]*\)`)
)

// isRegister returns true if the word names a register.
func isRegister(word string) bool {
	return reRegister.MatchString(word)
}

// registerOf returns the register named by the word.
func registerOf(word string) (reg Register, err error) {
	match := reRegister.FindStringSubmatch(word)
	if match == nil {
		err = ErrRegisterInvalid
		return
	}

	base := 16
	if len(match[1]) == 2 {
		base = 10
	}
	value, err := strconv.ParseUint(match[1], base, 8)
	if err != nil {
		err = ErrRegisterInvalid
		return
	}

	reg = Register(value)
	return
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint32, err error) {
	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}
	if len(word) == 0 {
		err = ErrParseNumber("~")
		return
	}
	if word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(strings.Trim(word, "'"))
		return
	}
	v64, err := strconv.ParseInt(word, 0, 33)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 <= 0xffffffff && v64 >= -int64(0x80000000) {
		if v64 < 0 {
			value = uint32(0xffffffff + (v64 + 1))
		} else {
			value = uint32(v64)
		}
	}

	if invert {
		value = ^value
	}

	return
}

// immediate returns a 16-bit value. Negative values down to -0x8000 are
// accepted in two's complement.
func (asm *Assembler) immediate(word string) (value uint16, err error) {
	v32, err := asm.valueOf(word)
	if err != nil {
		return
	}

	switch {
	case v32 <= 0xffff:
		value = uint16(v32)
	case v32 >= 0xffff8000:
		value = uint16(v32 & 0xffff)
	default:
		err = ErrValueRange
	}

	return
}

// immediateOrLabel returns a 16-bit value, or the label to link in its
// place.
func (asm *Assembler) immediateOrLabel(word string) (value uint16, label string, err error) {
	value, err = asm.immediate(word)
	if err == nil {
		return
	}

	_, is_number := err.(ErrParseNumber)
	if is_number && reLabel.MatchString(word) {
		label = word
		err = nil
	}

	return
}

// small returns a value no larger than limit.
func (asm *Assembler) small(word string, limit uint32) (value uint8, err error) {
	v32, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if v32 > limit {
		err = ErrValueRange
		return
	}

	value = uint8(v32)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, addr := range asm.Label {
		if !reIdent.MatchString(key) {
			continue
		}
		pred[key] = starlark.MakeInt(int(addr))
	}
	for key, str := range asm.Equate {
		if !reIdent.MatchString(key) {
			continue
		}
		var value32 uint32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt(int(value32))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

// parseLine parses a single line into words, handling equates, labels
// and macro expansion.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reChar.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			case "0":
				str = "\000"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	// Operands may be separated by commas.
	words = strings.Fields(strings.ReplaceAll(line, ",", " "))

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]uint16, 16)
		}
		asm.Label[label] = uint16(asm.address)
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		// '@' makes labels local to this expansion.
		asm.expansions++
		local := fmt.Sprintf("%v_%v_", name, asm.expansions)

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Statements = asm.Statements[:0]
	asm.address = ARENA_LOAD
	asm.expansions = 0
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	maps.Copy(asm.Equate, _cpu_defines)
	maps.Copy(asm.Equate, asm.predefine)

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Statements {
		st := &asm.Statements[n]

		if len(st.LinkLabel) == 0 {
			continue
		}
		label := st.LinkLabel
		addr, ok := asm.Label[label]
		if !ok {
			lineno = st.LineNo
			line = strings.Join(st.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		if st.Instruction == nil {
			if len(st.Data) != 2 {
				log.Fatalf("Unable to link label '%s' to line %d: %v", label, st.LineNo, st.Words)
			}
			st.Data = []byte{uint8(addr >> 8), uint8(addr)}
			continue
		}
		linked, ok := withImmediate(st.Instruction, addr)
		if !ok {
			log.Fatalf("Missing immediate for link label '%s' at line %d: %v", label, st.LineNo, st.Words)
		}
		st.Instruction = linked
	}

	prog = &Program{
		Statements: append([]Statement(nil), asm.Statements...),
	}

	return
}

// withImmediate returns the instruction with its 16-bit immediate
// replaced.
func withImmediate(in Instruction, value uint16) (out Instruction, ok bool) {
	ok = true
	switch in := in.(type) {
	case Imm:
		in.Value = value
		out = in
	case Branch:
		in.Target = value
		out = in
	case RegImm:
		in.Value = value
		out = in
	case RegRegImm:
		in.Value = value
		out = in
	default:
		ok = false
	}
	return
}

// layoutOperands lists the operand kinds of each layout: 'r' for a
// register, 'i' for a value.
var layoutOperands = map[Layout]string{
	LAYOUT_IMPLIED:     "",
	LAYOUT_BACKGROUND:  "i",
	LAYOUT_SPRITE_SIZE: "ii",
	LAYOUT_FLIP:        "ii",
	LAYOUT_GENERATOR:   "iiiiii",
	LAYOUT_IMM:         "i",
	LAYOUT_REG_IMM:     "ri",
	LAYOUT_REG:         "r",
	LAYOUT_REG_REG:     "rr",
	LAYOUT_REG_REG_REG: "rrr",
	LAYOUT_REG_REG_IMM: "rri",
	LAYOUT_SHIFT:       "ri",
}

// mnemonicMap maps a mnemonic and its operand kinds to an opcode.
var mnemonicMap = func() map[string]Opcode {
	mnemonics := make(map[string]Opcode)
	for _, op := range Opcodes() {
		if op.Layout() == LAYOUT_BRANCH {
			continue
		}
		mnemonics[op.Mnemonic()+" "+layoutOperands[op.Layout()]] = op
	}
	return mnemonics
}()

// mnemonicAlias maps alternate mnemonics.
var mnemonicAlias = map[string]string{
	"sal": "shl",
}

// addStatement appends a statement at the current address.
func (asm *Assembler) addStatement(st Statement) (err error) {
	st.Address = uint16(asm.address)
	end := asm.address + st.Size()
	if end > memory.SIZE_MAX {
		err = ErrProgramTooLarge
		return
	}
	asm.address = end
	asm.Statements = append(asm.Statements, st)

	return
}

// parseDirective handles the data and origin directives.
func (asm *Assembler) parseDirective(words []string, lineno int) (err error) {
	switch words[0] {
	case ".org":
		if len(words) != 2 {
			err = ErrOrgSyntax
			return
		}
		var v32 uint32
		v32, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		if v32 >= memory.SIZE_MAX {
			err = ErrValueRange
			return
		}
		if int(v32) < asm.address {
			err = ErrOrgBackwards
			return
		}
		asm.address = int(v32)
	case ".db":
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		data := make([]byte, 0, len(words)-1)
		for _, word := range words[1:] {
			var v32 uint32
			v32, err = asm.valueOf(word)
			if err != nil {
				return
			}
			if v32 > 0xff && v32 < 0xffffff80 {
				err = ErrDataRange
				return
			}
			data = append(data, uint8(v32))
		}
		err = asm.addStatement(Statement{LineNo: lineno, Words: words, Data: data})
	case ".dw":
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		// One statement per word, so each may link a label.
		for _, word := range words[1:] {
			var value uint16
			var label string
			value, label, err = asm.immediateOrLabel(word)
			if err != nil {
				if err == ErrValueRange {
					err = ErrDataRange
				}
				return
			}
			err = asm.addStatement(Statement{
				LineNo:    lineno,
				Words:     words,
				Data:      []byte{uint8(value >> 8), uint8(value)},
				LinkLabel: label,
			})
			if err != nil {
				return
			}
		}
	default:
		err = ErrOpcodeInvalid
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	if strings.HasPrefix(words[0], ".") {
		err = asm.parseDirective(words, lineno)
		return
	}

	name := strings.ToLower(words[0])
	alias, ok := mnemonicAlias[name]
	if ok {
		name = alias
	}
	args := words[1:]

	var kinds strings.Builder
	for _, arg := range args {
		if isRegister(arg) {
			kinds.WriteByte('r')
		} else {
			kinds.WriteByte('i')
		}
	}

	op, ok := mnemonicMap[name+" "+kinds.String()]
	if !ok {
		// spr HHWW packs both sizes into one value.
		if name == "spr" && kinds.String() == "i" {
			var value uint16
			value, err = asm.immediate(args[0])
			if err != nil {
				return
			}
			err = asm.addStatement(Statement{
				LineNo:      lineno,
				Words:       words,
				Instruction: SpriteSize{Width: uint8(value), Height: uint8(value >> 8)},
			})
			return
		}

		// jCC and cCC conditional branches.
		if len(name) > 1 && (name[0] == 'j' || name[0] == 'c') {
			cond, is_cond := parseCondition(name[1:])
			if is_cond {
				err = asm.parseBranch(name[0], cond, words, lineno)
				return
			}
		}

		err = asm.operandError(name, kinds.String())
		return
	}

	in, label, err := asm.build(op, args)
	if err != nil {
		return
	}

	err = asm.addStatement(Statement{
		LineNo:      lineno,
		Words:       words,
		Instruction: in,
		LinkLabel:   label,
	})

	return
}

// operandError picks the error for a mnemonic whose operands did not
// match any opcode.
func (asm *Assembler) operandError(name string, kinds string) (err error) {
	known := false
	longest := 0
	for key := range mnemonicMap {
		mnemonic, operands, _ := strings.Cut(key, " ")
		if mnemonic != name {
			continue
		}
		known = true
		longest = max(longest, len(operands))
	}

	switch {
	case !known:
		err = ErrOpcodeInvalid
	case len(kinds) > longest:
		err = ErrOpcodeExtraArgs
	case len(kinds) < longest && !strings.Contains(kinds, "i"):
		err = ErrOpcodeValueMissing
	default:
		err = ErrRegisterInvalid
	}

	return
}

// parseBranch assembles jCC and cCC.
func (asm *Assembler) parseBranch(kind byte, cond Condition, words []string, lineno int) (err error) {
	if len(words) < 2 {
		err = ErrOpcodeValueMissing
		return
	}
	if len(words) > 2 {
		err = ErrOpcodeExtraArgs
		return
	}

	target, label, err := asm.immediateOrLabel(words[1])
	if err != nil {
		return
	}

	op := OP_JX
	if kind == 'c' {
		op = OP_CX
	}

	err = asm.addStatement(Statement{
		LineNo:      lineno,
		Words:       words,
		Instruction: Branch{Opcode: op, Cond: cond, Target: target},
		LinkLabel:   label,
	})

	return
}

// build assembles an opcode from operands already matched to its
// layout.
func (asm *Assembler) build(op Opcode, args []string) (in Instruction, label string, err error) {
	regs := make([]Register, 0, 3)
	for _, arg := range args {
		if isRegister(arg) {
			var reg Register
			reg, err = registerOf(arg)
			if err != nil {
				return
			}
			regs = append(regs, reg)
		}
	}
	last := ""
	if len(args) > 0 {
		last = args[len(args)-1]
	}

	switch op.Layout() {
	case LAYOUT_IMPLIED:
		in = Implied{Opcode: op}
	case LAYOUT_BACKGROUND:
		var index uint8
		index, err = asm.small(args[0], 0xf)
		in = Background{Index: index}
	case LAYOUT_SPRITE_SIZE:
		var width, height uint8
		width, err = asm.small(args[0], 0xff)
		if err != nil {
			return
		}
		height, err = asm.small(args[1], 0xff)
		in = SpriteSize{Width: width, Height: height}
	case LAYOUT_FLIP:
		var h, v uint8
		h, err = asm.small(args[0], 1)
		if err != nil {
			return
		}
		v, err = asm.small(args[1], 1)
		in = Flip{Horizontal: h != 0, Vertical: v != 0}
	case LAYOUT_GENERATOR:
		var nibbles [6]uint8
		for n, arg := range args {
			nibbles[n], err = asm.small(arg, 0xf)
			if err != nil {
				return
			}
		}
		in = Generator{Envelope: Envelope{
			Attack:   nibbles[0],
			Decay:    nibbles[1],
			Sustain:  nibbles[2],
			Release:  nibbles[3],
			Volume:   nibbles[4],
			Waveform: Waveform(nibbles[5]),
		}}
	case LAYOUT_IMM:
		var value uint16
		value, label, err = asm.immediateOrLabel(last)
		in = Imm{Opcode: op, Value: value}
	case LAYOUT_REG_IMM:
		var value uint16
		value, label, err = asm.immediateOrLabel(last)
		in = RegImm{Opcode: op, X: regs[0], Value: value}
	case LAYOUT_REG:
		in = Reg{Opcode: op, X: regs[0]}
	case LAYOUT_REG_REG:
		in = RegReg{Opcode: op, X: regs[0], Y: regs[1]}
	case LAYOUT_REG_REG_REG:
		in = RegRegReg{Opcode: op, X: regs[0], Y: regs[1], Z: regs[2]}
	case LAYOUT_REG_REG_IMM:
		var value uint16
		value, label, err = asm.immediateOrLabel(last)
		in = RegRegImm{Opcode: op, X: regs[0], Y: regs[1], Value: value}
	case LAYOUT_SHIFT:
		var n uint8
		n, err = asm.small(last, 0xf)
		in = Shift{Opcode: op, X: regs[0], N: n}
	default:
		err = ErrOpcodeInvalid
	}

	if err != nil {
		in = nil
		label = ""
	}

	return
}
