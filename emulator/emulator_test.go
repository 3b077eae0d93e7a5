package emulator

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/memory"
)

const testMaxSteps = 1000

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.NotNil(emu.Memory)
	assert.Equal(0, emu.Program.Size())
	assert.Equal(0, emu.MaxSteps)

	var keys []string
	defines := map[string]string{}
	for key, value := range emu.Defines() {
		keys = append(keys, key)
		defines[key] = value
	}
	assert.Equal([]string{"MEMORY_LAST", "MEMORY_SIZE", "PROGRAM_START", "REGISTER_COUNT"}, keys)
	assert.Equal("256", defines["MEMORY_SIZE"])
	assert.Equal("8", defines["REGISTER_COUNT"])
	assert.Equal("0", defines["PROGRAM_START"])
}

func doRun(emu *Emulator, program []string, assemble bool, t *testing.T) (output string, err error) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	emu.Cpu.Output = out
	emu.MaxSteps = testMaxSteps

	err = emu.Load(strings.NewReader(strings.Join(program, "\n")), assemble)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	err = emu.Reset()
	assert.NoError(err)

	err = emu.Run()

	output = out.String()
	return
}

func TestEmulator_ScenarioA(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)
	program := []string{
		"10000010 # LDI R0,8",
		"00000000",
		"00001000",
		"10000010 # LDI R1,9",
		"00000001",
		"00001001",
		"10100000 # ADD R0,R1",
		"00000000",
		"00000001",
		"01000111 # PRN R0",
		"00000000",
		"00000001 # HLT",
	}

	output, err := doRun(emu, program, false, t)
	assert.NoError(err)
	assert.Equal("17\n", output)
	assert.True(emu.Halted)
	assert.Equal(5, emu.Ticks())
}

func TestEmulator_ScenarioB(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)
	program := []string{
		"10000010 # LDI R0,5",
		"00000000",
		"00000101",
		"01101001 # NOT R0",
		"00000000",
		"01000111 # PRN R0",
		"00000000",
		"00000001 # HLT",
	}

	output, err := doRun(emu, program, false, t)
	assert.NoError(err)
	assert.Equal("250\n", output)
	assert.Equal(uint8(0b11111010), emu.Register[0])
}

func TestEmulator_ScenarioC(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)
	program := []string{
		"LDI R0, 0",
		"LDI R0, 1",
		"LDI R1, 3",
		"SHL R0, R1",
		"PRN R0",
		"HLT",
	}

	output, err := doRun(emu, program, true, t)
	assert.NoError(err)
	assert.Equal("8\n", output)
}

func TestEmulator_ScenarioD(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)
	program := []string{
		"LDI R0, 10",
		"LDI R1, 0",
		"PRN R0",
		"DIV R0, R1",
		"PRN R0",
		"HLT",
	}

	output, err := doRun(emu, program, true, t)
	assert.ErrorIs(err, cpu.ErrDivisionByZero)
	assert.Equal("10\n", output)
	assert.False(emu.Halted)
	assert.Equal(8, emu.Pc())

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(4, runtime.LineNo)
	}

	var step *cpu.ErrStep
	if assert.True(errors.As(err, &step)) {
		assert.Equal(8, step.Pc)
		assert.Equal(uint8(cpu.OP_DIV), step.Code)
	}
}

func TestEmulator_ScenarioE(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)
	program := []string{
		"10000010 # LDI R0,8",
		"00000000",
		"00001000",
		"11111110 # not an opcode",
		"00000001 # HLT",
	}

	output, err := doRun(emu, program, false, t)
	assert.ErrorIs(err, cpu.ErrUnsupportedOperation)
	assert.Empty(output)

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(4, runtime.LineNo)
	}

	var step *cpu.ErrStep
	if assert.True(errors.As(err, &step)) {
		assert.Equal(3, step.Pc)
		assert.Equal(uint8(0xfe), step.Code)
	}
}

func TestEmulator_StepLimit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)
	program := []string{
		"Loop: LDI R0, Loop",
		"      JMP R0",
	}

	_, err := doRun(emu, program, true, t)
	assert.ErrorIs(err, ErrStepLimit)
	assert.Equal(testMaxSteps, emu.Ticks())
}

func TestEmulator_Tick(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)
	assert.NoError(emu.Load(strings.NewReader("LDI R0, 1\nHLT\n"), true))
	assert.NoError(emu.Reset())

	assert.Equal(1, emu.LineNo())
	inst, err := emu.Instruction()
	assert.NoError(err)
	assert.Equal("LDI R0, 1", inst.String())

	done, err := emu.Tick()
	assert.NoError(err)
	assert.False(done)
	assert.Equal(2, emu.LineNo())

	done, err = emu.Tick()
	assert.NoError(err)
	assert.True(done)

	// Halted is terminal.
	done, err = emu.Tick()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(2, emu.Ticks())
}

func TestEmulator_Reset(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)
	program := []string{
		"LDI R0, 3",
		"LDI R1, MEMORY_LAST",
		"CMP R0, R0",
		"PRN R1",
		"HLT",
	}

	output, err := doRun(emu, program, true, t)
	assert.NoError(err)
	assert.Equal("255\n", output)
	assert.True(emu.Equal)

	emu.Register[0] = 9
	assert.NoError(emu.Memory.Write(0x80, 1))

	assert.NoError(emu.Reset())
	assert.False(emu.Equal)
	assert.False(emu.Halted)
	assert.Equal(uint8(0), emu.Register[0])
	assert.False(emu.Memory.IsSet(0x80))
	assert.Equal(0, emu.Ticks())

	assert.NoError(emu.Run())
	assert.True(emu.Halted)
}

func TestEmulator_RunOffEnd(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)
	program := []string{
		"LDI R0, 1",
	}

	_, err := doRun(emu, program, true, t)
	assert.ErrorIs(err, memory.ErrUninitializedMemoryRead)

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(0, runtime.LineNo)
	}

	// The last instruction ends exactly at the top of memory.
	emu = NewEmulator(nil)
	program = []string{
		"      LDI R1, Tail",
		"      JMP R1",
		"      DB " + strings.Repeat("0, ", 247) + "0",
		"Tail: LDI R0, 7",
	}

	_, err = doRun(emu, program, true, t)
	assert.ErrorIs(err, memory.ErrAddressOutOfRange)
	assert.Equal(0xfd, emu.Pc())
	assert.False(emu.Halted)
	assert.Equal(uint8(0), emu.Register[0])

	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(4, runtime.LineNo)
	}
}

func TestEmulator_LoadFile(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()

	ls8 := filepath.Join(dir, "print8.ls8")
	err := os.WriteFile(ls8, []byte("10000010\n00000000\n00001000\n01000111\n00000000\n00000001\n"), 0o644)
	assert.NoError(err)

	asm := filepath.Join(dir, "print8.asm")
	err = os.WriteFile(asm, []byte("LDI R0, 8\nPRN R0\nHLT\n"), 0o644)
	assert.NoError(err)

	for _, path := range []string{ls8, asm} {
		output := &bytes.Buffer{}
		emu := NewEmulator(output)
		emu.MaxSteps = testMaxSteps
		assert.NoError(emu.LoadFile(path), path)
		assert.NoError(emu.Reset(), path)
		assert.NoError(emu.Run(), path)
		assert.Equal("8\n", output.String(), path)
	}
}

func TestEmulator_LoadFile_Errors(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()

	emu := NewEmulator(nil)
	err := emu.LoadFile(filepath.Join(dir, "missing.ls8"))
	assert.ErrorIs(err, ErrProgramNotFound)
	assert.ErrorIs(err, os.ErrNotExist)

	var prog *ErrProgram
	if assert.True(errors.As(err, &prog)) {
		assert.Equal(filepath.Join(dir, "missing.ls8"), prog.Path)
	}

	bad := filepath.Join(dir, "bad.ls8")
	assert.NoError(os.WriteFile(bad, []byte("10000010\n2\n"), 0o644))
	err = emu.LoadFile(bad)
	assert.ErrorIs(err, cpu.ErrMalformedInstruction)
	assert.NotErrorIs(err, ErrProgramNotFound)
}
