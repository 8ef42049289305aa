package cpu

import (
	"errors"

	"github.com/ezrec/chip16/translate"
)

var f = translate.From

var (
	// Fault categories
	ErrDecode     = errors.New(f("decode"))
	ErrMemory     = errors.New(f("memory"))
	ErrArithmetic = errors.New(f("arithmetic"))
	ErrStack      = errors.New(f("stack"))

	// Execution faults
	ErrDivisionByZero     = errors.New(f("division by zero"))
	ErrStackOverflow      = errors.New(f("stack overflow"))
	ErrStackUnderflow     = errors.New(f("stack underflow"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrOrgSyntax          = errors.New(f(".org syntax"))
	ErrOrgBackwards       = errors.New(f(".org moves backwards"))
	ErrDataRange          = errors.New(f("data value out of range"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeMissing      = errors.New(f("opcode missing"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrConditionInvalid   = errors.New(f("condition invalid"))
	ErrValueRange         = errors.New(f("value out of range"))
	ErrProgramTooLarge    = errors.New(f("program too large"))
)

// ErrOpcodeUnknown is the decode fault for an unassigned opcode byte.
type ErrOpcodeUnknown uint8

func (eo ErrOpcodeUnknown) Error() string {
	return f("unknown opcode 0x%02x", uint8(eo))
}

// Is matches any ErrOpcodeUnknown.
func (eo ErrOpcodeUnknown) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcodeUnknown)
	return
}

// ErrFault is returned by Cpu.Step for any fault, locating it by the
// address and word of the faulting instruction.
type ErrFault struct {
	Pc   uint16
	Word uint32
	Err  error
}

func (err *ErrFault) Error() string {
	return f("fault at 0x%04x [%08x] %v", err.Pc, err.Word, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
