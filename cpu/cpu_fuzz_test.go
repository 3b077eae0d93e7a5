package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ls8/memory"
)

func FuzzStep(f *testing.F) {
	for _, op := range Opcodes() {
		f.Add(uint8(op), uint8(0), uint8(1), uint8(0x20), uint8(0), false)
		f.Add(uint8(op), uint8(7), uint8(7), uint8(0xff), uint8(0xff), true)
	}
	f.Add(uint8(0xff), uint8(0), uint8(0), uint8(0), uint8(0), false)

	f.Fuzz(func(t *testing.T, code uint8, arg1 uint8, arg2 uint8, val_a uint8, val_b uint8, equal bool) {
		assert := assert.New(t)

		const pc = 0x10

		mem := memory.NewMemory()
		assert.NoError(mem.Write(pc, code))
		assert.NoError(mem.Write(pc+1, arg1))
		assert.NoError(mem.Write(pc+2, arg2))

		state := State{Pc: pc, Equal: equal}
		for n := range state.Register {
			state.Register[n] = uint8(n) * 0x11
		}
		reg_a := arg1 & 7
		reg_b := arg2 & 7
		state.Register[reg_a] = val_a
		state.Register[reg_b] = val_b
		pre := state

		next, event, err := Step(mem, state)
		assert.Equal(pre, state)

		op := Opcode(code)
		if !op.Valid() {
			assert.ErrorIs(err, ErrUnsupportedOperation)
			assert.Equal(state, next)
			return
		}

		if err != nil {
			assert.Equal(state, next)
			var step *ErrStep
			assert.True(errors.As(err, &step))
			assert.Equal(pc, step.Pc)
			assert.Equal(code, step.Code)
			switch {
			case errors.Is(err, ErrRegisterInvalid):
				assert.True(arg1 >= REGISTER_COUNT || (op.OperandIsRegister(1) && op.Operands() > 1 && arg2 >= REGISTER_COUNT))
			case errors.Is(err, ErrDivisionByZero):
				assert.True(op == OP_DIV || op == OP_MOD)
				assert.Equal(uint8(0), state.Register[arg2])
			default:
				t.Fatalf("unexpected error %v", err)
			}
			return
		}

		assert.Equal(op, event.Instruction.Opcode)
		assert.True(next.Equal || !state.Equal, "equal flag cleared")

		switch {
		case op == OP_HLT:
			assert.True(next.Halted)
			assert.Equal(pc, next.Pc)
		case event.Jumped:
			assert.True(op.SetsPc())
			assert.Equal(int(state.Register[arg1]), next.Pc)
		default:
			assert.Equal(pc+op.Size(), next.Pc)
		}

		changed := 0
		for n := range next.Register {
			if next.Register[n] != state.Register[n] {
				changed++
				assert.Equal(int(arg1), n, "only the first operand register is written")
			}
		}
		assert.LessOrEqual(changed, 1)
	})
}
