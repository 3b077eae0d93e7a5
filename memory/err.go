package memory

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	ErrAddressOutOfRange       = errors.New(f("address out of range"))
	ErrUninitializedMemoryRead = errors.New(f("uninitialized memory read"))
)

// ErrAddress identifies the address of a failed memory access.
type ErrAddress struct {
	Addr int
	Err  error
}

func (err *ErrAddress) Error() string {
	return f("address 0x%02x: %v", err.Addr, err.Err)
}

func (err *ErrAddress) Unwrap() error {
	return err.Err
}
