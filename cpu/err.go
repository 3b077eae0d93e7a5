package cpu

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Execution errors
	ErrUnsupportedOperation = errors.New(f("unsupported operation"))
	ErrDivisionByZero       = errors.New(f("division by zero"))
	ErrRegisterInvalid      = errors.New(f("register invalid"))
	ErrHalted               = errors.New(f("halted"))

	// Instruction decode errors
	ErrOpcodeAlu  = errors.New(f("alu"))
	ErrOpcodeArg1 = errors.New(f("arg1"))
	ErrOpcodeArg2 = errors.New(f("arg2"))

	// Loader errors
	ErrMalformedInstruction = errors.New(f("malformed instruction"))
	ErrProgramSize          = errors.New(f("program exceeds memory"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelSyntax        = errors.New(f("label syntax"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
	ErrValueRange         = errors.New(f("value out of range"))
)

// opArgError tags an error with the operand position it came from.
func opArgError(n int, err error) error {
	if n == 0 {
		return errors.Join(ErrOpcodeArg1, err)
	}
	return errors.Join(ErrOpcodeArg2, err)
}

// ErrStep identifies the instruction that a failed step was executing.
type ErrStep struct {
	Pc      int   // Address of the failing instruction.
	Code    uint8 // Opcode byte, if Fetched.
	Fetched bool  // Set if the opcode byte could be read.
	Err     error
}

func (err *ErrStep) Error() string {
	if !err.Fetched {
		return f("pc 0x%02x: %v", err.Pc, err.Err)
	}
	return f("pc 0x%02x opcode 0x%02x: %v", err.Pc, err.Code, err.Err)
}

func (err *ErrStep) Unwrap() error {
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

type ErrParseBinary string

func (err ErrParseBinary) Error() string {
	return f("'%v' is not an 8-bit binary literal", string(err))
}

type ErrParseValue string

func (err ErrParseValue) Error() string {
	return f("'%v' is not a value or register", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
