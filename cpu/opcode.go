package cpu

import (
	"fmt"
	"slices"
	"strings"
)

// Opcode is the leading byte of an LS-8 instruction.
type Opcode uint8

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_HLT = Opcode(0b00000001) // HLT
	OP_PRN = Opcode(0b01000111) // PRN
	OP_JMP = Opcode(0b01010100) // JMP
	OP_JEQ = Opcode(0b01010101) // JEQ
	OP_JNE = Opcode(0b01010110) // JNE
	OP_INC = Opcode(0b01100101) // INC
	OP_DEC = Opcode(0b01100110) // DEC
	OP_NOT = Opcode(0b01101001) // NOT
	OP_LDI = Opcode(0b10000010) // LDI
	OP_ADD = Opcode(0b10100000) // ADD
	OP_SUB = Opcode(0b10100001) // SUB
	OP_MUL = Opcode(0b10100010) // MUL
	OP_DIV = Opcode(0b10100011) // DIV
	OP_MOD = Opcode(0b10100100) // MOD
	OP_CMP = Opcode(0b10100111) // CMP
	OP_AND = Opcode(0b10101000) // AND
	OP_OR  = Opcode(0b10101010) // OR
	OP_XOR = Opcode(0b10101011) // XOR
	OP_SHL = Opcode(0b10101100) // SHL
	OP_SHR = Opcode(0b10101101) // SHR
)

// opcodeTable lists every opcode the engine executes.
var opcodeTable = []Opcode{
	OP_HLT, OP_PRN, OP_JMP, OP_JEQ, OP_JNE,
	OP_INC, OP_DEC, OP_NOT, OP_LDI,
	OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_MOD, OP_CMP,
	OP_AND, OP_OR, OP_XOR, OP_SHL, OP_SHR,
}

// opcodeByName maps mnemonics to opcodes.
var opcodeByName = func() (names map[string]Opcode) {
	names = make(map[string]Opcode, len(opcodeTable))
	for _, op := range opcodeTable {
		names[op.String()] = op
	}
	return
}()

// Opcodes returns all of the supported opcodes, in ascending order.
func Opcodes() []Opcode {
	return slices.Clone(opcodeTable)
}

// ParseOpcode returns the opcode for a mnemonic, ignoring case.
func ParseOpcode(name string) (op Opcode, ok bool) {
	op, ok = opcodeByName[strings.ToUpper(name)]
	return
}

// Valid returns true if the opcode is supported by the engine.
func (op Opcode) Valid() bool {
	return slices.Contains(opcodeTable, op)
}

// Operands returns the number of operand bytes that follow the opcode.
func (op Opcode) Operands() int {
	return int(op >> 6)
}

// Size returns the encoded length of the instruction, in bytes.
func (op Opcode) Size() int {
	return 1 + op.Operands()
}

// IsAlu returns true if the opcode is an ALU operation.
func (op Opcode) IsAlu() bool {
	return (op & 0b00100000) != 0
}

// SetsPc returns true if the opcode may redirect the PC.
func (op Opcode) SetsPc() bool {
	return (op & 0b00010000) != 0
}

// OperandIsRegister returns true if operand n names a register.
// Only the second operand of LDI is an immediate.
func (op Opcode) OperandIsRegister(n int) bool {
	return !(op == OP_LDI && n == 1)
}

// CodeClass is the semantic category of an opcode.
type CodeClass int

//go:generate go tool stringer -linecomment -type=CodeClass
const (
	CLASS_INVALID = CodeClass(0) // invalid
	CLASS_HALT    = CodeClass(1) // halt
	CLASS_MOVE    = CodeClass(2) // move
	CLASS_ARITH   = CodeClass(3) // arith
	CLASS_BITWISE = CodeClass(4) // bitwise
	CLASS_COMPARE = CodeClass(5) // compare
	CLASS_FLOW    = CodeClass(6) // flow
)

// Class returns the semantic category of the opcode.
func (op Opcode) Class() (class CodeClass) {
	switch op {
	case OP_HLT:
		class = CLASS_HALT
	case OP_LDI, OP_PRN:
		class = CLASS_MOVE
	case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_MOD, OP_INC, OP_DEC:
		class = CLASS_ARITH
	case OP_AND, OP_OR, OP_XOR, OP_NOT, OP_SHL, OP_SHR:
		class = CLASS_BITWISE
	case OP_CMP:
		class = CLASS_COMPARE
	case OP_JMP, OP_JEQ, OP_JNE:
		class = CLASS_FLOW
	default:
		class = CLASS_INVALID
	}
	return
}

// Instruction is a decoded LS-8 instruction.
type Instruction struct {
	Pc      int      // Address of the opcode byte.
	Opcode  Opcode   // Operation.
	Operand [2]uint8 // Operand bytes; only the first Opcode.Operands() are meaningful.
}

// Size returns the encoded length of the instruction, in bytes.
func (inst Instruction) Size() int {
	return inst.Opcode.Size()
}

// Bytes returns the encoded instruction.
func (inst Instruction) Bytes() (code []uint8) {
	code = append(code, uint8(inst.Opcode))
	code = append(code, inst.Operand[:inst.Opcode.Operands()]...)
	return
}

// String returns the assembly language representation of the instruction.
func (inst Instruction) String() string {
	op := inst.Opcode
	var args []string
	for n := range op.Operands() {
		if op.OperandIsRegister(n) {
			args = append(args, fmt.Sprintf("R%d", inst.Operand[n]))
		} else {
			args = append(args, fmt.Sprintf("%d", inst.Operand[n]))
		}
	}

	if len(args) == 0 {
		return op.String()
	}

	return op.String() + " " + strings.Join(args, ", ")
}

// Decode decodes the instruction at pc.
//
// The opcode must be supported, every operand byte must be readable, and
// every register operand must name one of the REGISTER_COUNT registers.
func Decode(mem Memory, pc int) (inst Instruction, err error) {
	inst.Pc = pc

	code, err := mem.Read(pc)
	if err != nil {
		return
	}

	inst.Opcode = Opcode(code)
	if !inst.Opcode.Valid() {
		err = ErrUnsupportedOperation
		return
	}

	for n := range inst.Opcode.Operands() {
		inst.Operand[n], err = mem.Read(pc + 1 + n)
		if err != nil {
			err = opArgError(n, err)
			return
		}
		if inst.Opcode.OperandIsRegister(n) && inst.Operand[n] >= REGISTER_COUNT {
			err = opArgError(n, ErrRegisterInvalid)
			return
		}
	}

	return
}
