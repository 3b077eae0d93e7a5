package cpu

// AluTarget is the piece of machine state an ALU result replaces.
type AluTarget int

const (
	ALU_TARGET_NONE     = AluTarget(0) // No change; conditional jump not taken.
	ALU_TARGET_REGISTER = AluTarget(1) // Value replaces the first operand register.
	ALU_TARGET_PC       = AluTarget(2) // Value replaces the PC.
	ALU_TARGET_EQUAL    = AluTarget(3) // Equal replaces the equal flag.
)

// AluResult is the single state change produced by an ALU operation.
type AluResult struct {
	Target AluTarget
	Value  uint8
	Equal  bool
}

// Alu computes the result of op applied to the values of its operand
// registers, a and b, and the current equal flag.
//
// All arithmetic wraps modulo 256. Division is integer division,
// truncating toward zero. Shifts are logical, and a shift by 8 or more
// yields 0.
//
// Compare only ever sets the equal flag: a mismatch leaves it as it was.
func Alu(op Opcode, a, b uint8, equal bool) (result AluResult, err error) {
	result.Target = ALU_TARGET_REGISTER

	switch op {
	case OP_ADD:
		result.Value = a + b
	case OP_SUB:
		result.Value = a - b
	case OP_MUL:
		result.Value = a * b
	case OP_DIV:
		if b == 0 {
			err = ErrDivisionByZero
			break
		}
		result.Value = a / b
	case OP_MOD:
		if b == 0 {
			err = ErrDivisionByZero
			break
		}
		result.Value = a % b
	case OP_INC:
		result.Value = a + 1
	case OP_DEC:
		result.Value = a - 1
	case OP_AND:
		result.Value = a & b
	case OP_OR:
		result.Value = a | b
	case OP_XOR:
		result.Value = a ^ b
	case OP_NOT:
		result.Value = ^a
	case OP_SHL:
		result.Value = a << b
	case OP_SHR:
		result.Value = a >> b
	case OP_CMP:
		result.Target = ALU_TARGET_EQUAL
		result.Equal = equal || a == b
	case OP_JMP:
		result.Target = ALU_TARGET_PC
		result.Value = a
	case OP_JEQ:
		result.Target = ALU_TARGET_NONE
		if equal {
			result.Target = ALU_TARGET_PC
			result.Value = a
		}
	case OP_JNE:
		result.Target = ALU_TARGET_NONE
		if !equal {
			result.Target = ALU_TARGET_PC
			result.Value = a
		}
	default:
		err = ErrOpcodeAlu
	}

	if err != nil {
		result = AluResult{}
	}

	return
}
