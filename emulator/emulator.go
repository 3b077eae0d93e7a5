// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator ties the LS-8 execution engine to its memory, the loaded
// program, and the print output.
package emulator

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/internal"
	"github.com/ezrec/ls8/memory"
)

const (
	PROGRAM_START = 0 // Load address of the program image.
)

var _emulator_defines = map[string]string{
	"PROGRAM_START": fmt.Sprintf("%v", PROGRAM_START),
}

// Emulator state. CPU + memory + program listing.
type Emulator struct {
	Verbose  bool           // If set, enables verbose logging.
	*cpu.Cpu                // Reference to the CPU simulation.
	Memory   *memory.Memory // Main store.
	Program  *cpu.Program   // Reference to the currently loaded program listing.

	MaxSteps int // If non-zero, Run fails after this many instructions.
}

// NewEmulator creates a new emulator, printing to output.
func NewEmulator(output io.Writer) (emu *Emulator) {
	mem := memory.NewMemory()

	emu = &Emulator{
		Cpu:     cpu.NewCpu(mem, output),
		Memory:  mem,
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines, in name order.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Sorted(internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		emu.Memory.Defines(),
	))
}

// Assembler returns an assembler with the emulator's defines predefined.
func (emu *Emulator) Assembler() (asm *cpu.Assembler) {
	asm = &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	return
}

// Load reads a program from input. If assemble is set, the input is
// assembly source, otherwise it is the .ls8 binary text format.
func (emu *Emulator) Load(input io.Reader, assemble bool) (err error) {
	var prog *cpu.Program
	if assemble {
		prog, err = emu.Assembler().Parse(input)
	} else {
		prog, err = cpu.ParseProgram(input)
	}
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// LoadFile reads a program from a file. Files ending in '.asm' are
// assembled; all others are read as the .ls8 binary text format.
func (emu *Emulator) LoadFile(path string) (err error) {
	inf, err := os.Open(path)
	if err != nil {
		err = &ErrProgram{Path: path, Err: errors.Join(ErrProgramNotFound, err)}
		return
	}
	defer inf.Close()

	assemble := strings.EqualFold(filepath.Ext(path), ".asm")

	err = emu.Load(inf, assemble)
	if err != nil {
		err = &ErrProgram{Path: path, Err: err}
		return
	}

	if emu.Verbose {
		log.Printf("emulator: loaded %v (%d bytes)", path, emu.Program.Size())
	}

	return
}

// Reset the emulator state.
// - Clears memory, and loads the program image.
// - Resets the CPU.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Memory.Reset()

	err = emu.Program.Load(emu.Memory)
	if err != nil {
		return
	}

	emu.Cpu.Reset()

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() int {
	return emu.Cpu.Pc
}

// Instruction returns the decoded instruction at the program counter.
func (emu *Emulator) Instruction() (inst cpu.Instruction, err error) {
	return cpu.Decode(emu.Memory, emu.Cpu.Pc)
}

// LineNo returns the source line number of the instruction at the
// program counter, or 0 if it was not loaded from the program.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Line == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.Cpu.Halted {
		done = true
		return
	}

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	done = emu.Cpu.Halted

	return
}

// Run ticks the emulator until the program halts, fails, or exceeds
// MaxSteps.
func (emu *Emulator) Run() (err error) {
	for done := false; !done; {
		if emu.MaxSteps > 0 && emu.Ticks() >= emu.MaxSteps {
			err = &ErrRuntime{LineNo: emu.LineNo(), Err: ErrStepLimit}
			return
		}
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	if emu.Verbose {
		log.Printf("emulator: halted after %d ticks", emu.Ticks())
	}

	return
}
