package emulator

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	ErrProgramNotFound = errors.New(f("program not found"))
	ErrStepLimit       = errors.New(f("step limit exceeded"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrProgram indicates the program file that failed to load.
type ErrProgram struct {
	Path string
	Err  error
}

func (err *ErrProgram) Error() string {
	return f("%v: %v", err.Path, err.Err)
}

func (err *ErrProgram) Unwrap() error {
	return err.Err
}
