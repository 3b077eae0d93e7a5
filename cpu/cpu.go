package cpu

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ls8/memory"
)

const (
	REGISTER_COUNT = 8 // Number of general-purpose registers.
)

var _cpu_defines = map[string]string{
	"REGISTER_COUNT": fmt.Sprintf("%v", REGISTER_COUNT),
}

// Memory is the store the engine fetches instructions from.
type Memory interface {
	Read(addr int) (value uint8, err error)
	Write(addr int, value uint8) (err error)
}

var _ Memory = (*memory.Memory)(nil)

// State is the complete execution context of the LS-8, apart from memory.
type State struct {
	Pc       int                   // Program counter.
	Register [REGISTER_COUNT]uint8 // Register file.
	Equal    bool                  // Equal flag, latched by CMP.
	Halted   bool                  // Set once HLT has executed.
}

// Event describes what a single step did.
type Event struct {
	Instruction Instruction // The instruction executed.
	Print       bool        // Set if the instruction printed Value.
	Value       uint8       // Value printed.
	Jumped      bool        // Set if the instruction redirected the PC.
}

// Step fetches, decodes and executes the instruction at state.Pc, and
// returns the state that follows it. The input state is not modified.
//
// On error, next is the unmodified input state.
func Step(mem Memory, state State) (next State, event Event, err error) {
	next = state

	if state.Halted {
		err = ErrHalted
		return
	}

	defer func() {
		if err != nil {
			next = state
			step := &ErrStep{Pc: state.Pc, Err: err}
			code, rerr := mem.Read(state.Pc)
			if rerr == nil {
				step.Code = code
				step.Fetched = true
			}
			err = step
		}
	}()

	inst, err := Decode(mem, state.Pc)
	if err != nil {
		return
	}

	event.Instruction = inst

	op := inst.Opcode
	reg_a := inst.Operand[0]
	reg_b := inst.Operand[1]

	switch op.Class() {
	case CLASS_HALT:
		next.Halted = true
		return
	case CLASS_MOVE:
		switch op {
		case OP_LDI:
			next.Register[reg_a] = inst.Operand[1]
		case OP_PRN:
			event.Print = true
			event.Value = state.Register[reg_a]
		default:
			err = ErrUnsupportedOperation
			return
		}
	case CLASS_ARITH, CLASS_BITWISE, CLASS_COMPARE, CLASS_FLOW:
		var b uint8
		if op.Operands() > 1 {
			b = state.Register[reg_b]
		}
		var result AluResult
		result, err = Alu(op, state.Register[reg_a], b, state.Equal)
		if err != nil {
			err = errors.Join(ErrOpcodeAlu, err)
			return
		}
		switch result.Target {
		case ALU_TARGET_REGISTER:
			next.Register[reg_a] = result.Value
		case ALU_TARGET_EQUAL:
			next.Equal = result.Equal
		case ALU_TARGET_PC:
			next.Pc = int(result.Value)
			event.Jumped = true
			return
		case ALU_TARGET_NONE:
			// Fall through to the next instruction.
		}
	case CLASS_INVALID:
		err = ErrUnsupportedOperation
		return
	}

	next.Pc = state.Pc + op.Size()
	if next.Pc >= memory.SIZE {
		err = &memory.ErrAddress{Addr: next.Pc, Err: memory.ErrAddressOutOfRange}
		return
	}

	return
}

// Cpu is the simulation context for the LS-8 execution engine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	State // Current execution context.

	Memory Memory    // Store for code and data.
	Output io.Writer // Destination of PRN output.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a new CPU attached to a memory and an output.
func NewCpu(mem Memory, output io.Writer) (cpu *Cpu) {
	cpu = &Cpu{
		Memory: mem,
		Output: output,
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears the registers and the equal flag.
// - Sets the PC to 0.
// - Zeros the tick counter.
//
// Memory is left untouched.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.State = State{}
	cpu.Ticks = 0
}

// Tick executes a single instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Verbose {
		log.Print(cpu.Trace())
	}

	next, event, err := Step(cpu.Memory, cpu.State)
	if err != nil {
		return
	}

	cpu.State = next
	cpu.Ticks++

	if cpu.Verbose {
		log.Printf("%02x: %v", event.Instruction.Pc, event.Instruction)
	}

	if event.Print && cpu.Output != nil {
		_, err = fmt.Fprintf(cpu.Output, "%d\n", event.Value)
	}

	return
}

// peek returns the byte at addr in hex, or '--' if it cannot be read.
func (cpu *Cpu) peek(addr int) string {
	value, err := cpu.Memory.Read(addr)
	if err != nil {
		return "--"
	}
	return fmt.Sprintf("%02X", value)
}

// Trace returns a single line summary of the CPU state: the PC, the three
// bytes starting at the PC, and the register file.
func (cpu *Cpu) Trace() (text string) {
	text = fmt.Sprintf("TRACE: %02X | %v %v %v |",
		cpu.Pc, cpu.peek(cpu.Pc), cpu.peek(cpu.Pc+1), cpu.peek(cpu.Pc+2))

	for _, reg := range cpu.Register {
		text += fmt.Sprintf(" %02X", reg)
	}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"pc",
		"equal",
		"halted",
		"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%02X", cpu.Pc)
		case "equal":
			strval = fmt.Sprintf("%v", cpu.Equal)
		case "halted":
			strval = fmt.Sprintf("%v", cpu.Halted)
		default:
			val := cpu.Register[reg[1]-'0']
			strval = fmt.Sprintf("%02X %3d %08b", val, val, val)
		}
		text += fmt.Sprintf("% 6s: %v\n", reg, strval)
	}

	return
}
