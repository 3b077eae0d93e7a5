// Package cpu implements the execution engine, loader and assembler for the
// LS-8 system.
//
// The LS-8 is an 8-bit stored-program machine: a 256 byte memory, eight
// 8-bit general-purpose registers (r0-r7), a program counter (PC), and a
// single equal flag. Instructions are one to three bytes long. The opcode
// byte is laid out as AABCDDDD, where AA is the number of operand bytes
// that follow, B marks an ALU operation, C marks an operation that sets
// the PC, and DDDD identifies the instruction.
//
// Execution is modelled as a pure function, Step, from a State and a
// memory to the next State. The Cpu type wraps Step with the output sink
// and tracing.
//
// The loader reads the .ls8 text format (one binary literal per line,
// '#' comments). The assembler provides a small mnemonic language for
// the same instruction set, with labels, equates, and compile-time
// expression evaluation.
package cpu
