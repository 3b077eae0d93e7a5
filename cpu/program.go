package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/ezrec/ls8/memory"
)

// Line is a line of program source with the bytes it generated.
type Line struct {
	LineNo int     // Source line number, starting at 1.
	Addr   int     // Memory address of the first byte.
	Text   string  // Source text, without comments.
	Bytes  []uint8 // Generated bytes.
}

// Program is a memory image, annotated with its source.
type Program struct {
	Lines []Line
}

type Debug struct {
	*Line
	Index int
}

// ParseProgram reads the .ls8 text format.
//
// Each line holds an optional binary literal, followed by an optional '#'
// comment. Lines that are blank once the comment is removed are skipped.
// Each literal is stored at the next address, starting from 0.
func ParseProgram(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	prog = &Program{}

	for scanner.Scan() {
		lineno++
		text := scanner.Text()

		line, _, _ = strings.Cut(text, "#")
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		if prog.Size() >= memory.SIZE {
			err = errors.Join(ErrProgramSize, &memory.ErrAddress{Addr: prog.Size(), Err: memory.ErrAddressOutOfRange})
			return
		}

		var value uint64
		value, err = strconv.ParseUint(line, 2, 8)
		if err != nil {
			err = errors.Join(ErrMalformedInstruction, ErrParseBinary(line))
			return
		}

		prog.Lines = append(prog.Lines, Line{
			LineNo: lineno,
			Addr:   prog.Size(),
			Text:   line,
			Bytes:  []uint8{uint8(value)},
		})
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	return
}

// Size returns the number of bytes in the program image.
func (prog *Program) Size() int {
	if len(prog.Lines) == 0 {
		return 0
	}

	last := prog.Lines[len(prog.Lines)-1]

	return last.Addr + len(last.Bytes)
}

// Debug returns the source line that generated the byte at addr.
func (prog *Program) Debug(addr int) (dbg Debug) {
	for n, line := range prog.Lines {
		if addr >= line.Addr && addr < line.Addr+len(line.Bytes) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: addr - line.Addr,
			}
			break
		}
	}

	return
}

// Bytes iterates over the program image, by address.
func (prog *Program) Bytes() iter.Seq2[int, uint8] {
	return func(yield func(addr int, value uint8) bool) {
		for _, line := range prog.Lines {
			for n, value := range line.Bytes {
				if !yield(line.Addr+n, value) {
					return
				}
			}
		}
	}
}

// Binary returns the program image.
func (prog *Program) Binary() (bins []uint8) {
	for _, value := range prog.Bytes() {
		bins = append(bins, value)
	}

	return
}

// Load writes the program image into memory.
func (prog *Program) Load(mem Memory) (err error) {
	for addr, value := range prog.Bytes() {
		err = mem.Write(addr, value)
		if err != nil {
			return
		}
	}

	return
}

// WriteTo writes the program in the .ls8 text format, one byte per line.
// The first byte of each source line carries the source text as a comment.
func (prog *Program) WriteTo(w io.Writer) (n int64, err error) {
	bw := bufio.NewWriter(w)

	for _, line := range prog.Lines {
		for index, value := range line.Bytes {
			var count int
			if index == 0 && line.Text != "" {
				count, err = fmt.Fprintf(bw, "%08b # %02X: %v\n", value, line.Addr, line.Text)
			} else {
				count, err = fmt.Fprintf(bw, "%08b\n", value)
			}
			n += int64(count)
			if err != nil {
				return
			}
		}
	}

	err = bw.Flush()

	return
}
