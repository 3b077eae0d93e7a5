// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"io"
	"log"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/ls8/memory"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass assembler for the LS-8 instruction set.
//
// Source lines have the form:
//
//	[LABEL:]... [MNEMONIC [ARG[, ARG]]] [; comment]
//
// Directives are '.equ NAME VALUE' and 'DB VALUE...'. Values may be
// numbers in any Go integer syntax, equates, labels, or $(EXPR), which
// is evaluated at assembly time against the equates and the labels
// defined so far.
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Lines   []Line // List of generated lines.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.

	links []link // Forward references to resolve after the pass.
}

// link is a byte to be patched with the address of a label.
type link struct {
	line  int // Index into Lines.
	index int // Byte index within the line.
	label string
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regMap is a map of register names to register indexes.
var regMap = map[string]uint8{
	"r0": 0,
	"r1": 1,
	"r2": 2,
	"r3": 3,
	"r4": 4,
	"r5": 5,
	"r6": 6,
	"r7": 7,
}

// isIdent returns true if word can name a label or equate.
func isIdent(word string) bool {
	if len(word) == 0 {
		return false
	}
	for n, r := range word {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if n > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// stripComment removes a trailing ';' or '#' comment.
func stripComment(text string) string {
	if n := strings.IndexAny(text, ";#"); n >= 0 {
		text = text[:n]
	}
	return text
}

// valueOf returns the value of a simple number. A leading '~' takes the
// 8-bit complement.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	invert := false
	if strings.HasPrefix(word, "~") {
		invert = true
		word = word[1:]
	}
	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if invert {
		value = ^value & 0xff
	}

	return
}

// byteOf range checks a value for storage in a single byte.
// Negative values down to -128 are stored in two's complement.
func byteOf(value int64) (b uint8, err error) {
	if value < -128 || value > 255 {
		err = errors.Join(ErrValueRange, ErrParseNumber(strconv.FormatInt(value, 10)))
		return
	}
	b = uint8(value)
	return
}

// equate follows equates until word is no longer one.
func (asm *Assembler) equate(word string) string {
	for range 16 {
		value, ok := asm.Equate[word]
		if !ok {
			break
		}
		word = value
	}
	return word
}

// resolve returns the value of word. If word names a label that is not yet
// defined, label is set and the value must be linked later.
func (asm *Assembler) resolve(word string) (value int64, label string, err error) {
	word = asm.equate(word)

	addr, ok := asm.Label[word]
	if ok {
		value = int64(addr)
		return
	}

	value, err = asm.valueOf(word)
	if err == nil {
		return
	}

	if isIdent(word) {
		err = nil
		label = word
		return
	}

	err = ErrParseValue(word)
	return
}

// register returns the register index named by word.
func (asm *Assembler) register(word string) (reg uint8, err error) {
	word = asm.equate(word)

	reg, ok := regMap[strings.ToLower(word)]
	if !ok {
		err = errors.Join(ErrRegisterInvalid, ErrParseValue(word))
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v int64
		v, err = asm.valueOf(asm.equate(str))
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v)
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(addr)
	}
	err = nil

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// expand replaces every $(...) in line with its decimal value.
func (asm *Assembler) expand(line string) (out string, err error) {
	for {
		start := strings.Index(line, "$(")
		if start < 0 {
			break
		}
		depth := 0
		end := -1
		for n := start + 1; n < len(line); n++ {
			switch line[n] {
			case '(':
				depth++
			case ')':
				depth--
			}
			if depth == 0 {
				end = n
				break
			}
		}
		if end < 0 {
			err = ErrParseExpression(line[start+2:])
			return
		}
		var value int64
		value, err = asm.parenEval(line[start+2 : end])
		if err != nil {
			return
		}
		line = line[:start] + strconv.FormatInt(value, 10) + line[end+1:]
	}

	out = line
	return
}

// currentAddr returns the address of the next generated byte.
func (asm *Assembler) currentAddr() int {
	if len(asm.Lines) == 0 {
		return 0
	}

	last := asm.Lines[len(asm.Lines)-1]

	return last.Addr + len(last.Bytes)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Lines = asm.Lines[:0]
	asm.links = asm.links[:0]
	asm.Label = make(map[string]int)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		asm.Equate["LINENO"] = strconv.Itoa(lineno)

		line = strings.TrimSpace(stripComment(text))

		err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for _, lk := range asm.links {
		src := &asm.Lines[lk.line]
		addr, ok := asm.Label[lk.label]
		if !ok {
			lineno = src.LineNo
			line = src.Text
			err = ErrLabelMissing(lk.label)
			return
		}
		var value uint8
		value, err = byteOf(int64(addr))
		if err != nil {
			lineno = src.LineNo
			line = src.Text
			return
		}
		if asm.Verbose {
			log.Printf("link %v: %02x[%d] = %02x", lk.label, src.Addr, lk.index, value)
		}
		src.Bytes[lk.index] = value
	}

	prog = &Program{
		Lines: slices.Clone(asm.Lines),
	}

	return
}

// parseLine assembles a single line of source, without its comment.
func (asm *Assembler) parseLine(line string, lineno int) (err error) {
	if len(line) == 0 {
		return
	}

	expanded, err := asm.expand(line)
	if err != nil {
		return
	}

	words := strings.FieldsFunc(expanded, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := strings.TrimSuffix(words[0], ":")
		if !isIdent(label) {
			err = ErrLabelSyntax
			return
		}
		if _, ok := asm.Label[label]; ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = asm.currentAddr()
		words = words[1:]
	}

	if len(words) == 0 {
		return
	}

	index := len(asm.Lines)
	var code []uint8

	// value appends a non-register argument to code.
	value := func(word string) (err error) {
		v, label, err := asm.resolve(word)
		if err != nil {
			return
		}
		if len(label) != 0 {
			asm.links = append(asm.links, link{line: index, index: len(code), label: label})
			code = append(code, 0)
			return
		}
		b, err := byteOf(v)
		if err != nil {
			return
		}
		code = append(code, b)
		return
	}

	switch strings.ToLower(words[0]) {
	case ".equ":
		if len(words) != 3 || !isIdent(words[1]) {
			err = ErrEquateSyntax
			return
		}
		if _, ok := asm.Equate[words[1]]; ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		return
	case "db", ".db":
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, word := range words[1:] {
			err = value(word)
			if err != nil {
				return
			}
		}
	default:
		op, ok := ParseOpcode(words[0])
		if !ok {
			err = ErrOpcodeInvalid
			return
		}
		args := words[1:]
		if len(args) < op.Operands() {
			err = ErrOpcodeValueMissing
			return
		}
		if len(args) > op.Operands() {
			err = ErrOpcodeExtraArgs
			return
		}
		code = append(code, uint8(op))
		for n, arg := range args {
			if op.OperandIsRegister(n) {
				var reg uint8
				reg, err = asm.register(arg)
				if err != nil {
					err = opArgError(n, err)
					return
				}
				code = append(code, reg)
			} else {
				err = value(arg)
				if err != nil {
					err = opArgError(n, err)
					return
				}
			}
		}
	}

	addr := asm.currentAddr()
	if addr+len(code) > memory.SIZE {
		err = errors.Join(ErrProgramSize, &memory.ErrAddress{Addr: memory.SIZE, Err: memory.ErrAddressOutOfRange})
		return
	}

	asm.Lines = append(asm.Lines, Line{
		LineNo: lineno,
		Addr:   addr,
		Text:   line,
		Bytes:  code,
	})

	return
}
