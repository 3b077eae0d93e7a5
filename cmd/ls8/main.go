// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Command ls8 runs LS-8 programs.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/ls8/emulator"
)

func main() {
	log.SetPrefix("ls8: ")
	log.SetFlags(0)

	var output string
	var steps int
	var verbose bool
	var watch bool
	var debug bool

	flag.StringVar(&output, "o", "", "Write the program as .ls8 to file ('-' for stdout), do not execute")
	flag.IntVar(&steps, "n", 0, "Maximum instructions to execute, 0 for no limit")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&watch, "watch", false, "Re-run the program each time it is saved")
	flag.BoolVar(&debug, "debug", false, "Interactive single-step debugger")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <program.ls8 | program.asm>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
	}

	path := flag.Arg(0)

	emu := emulator.NewEmulator(os.Stdout)
	emu.Verbose = verbose
	emu.MaxSteps = steps

	var err error
	switch {
	case debug:
		err = debugMode(emu, path)
	case watch:
		err = watchMode(emu, path)
	case len(output) != 0:
		err = assemble(emu, path, output)
	default:
		err = run(emu, path)
	}

	if err != nil {
		log.Print(err)
		if errors.Is(err, emulator.ErrProgramNotFound) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// run loads the program at path, and runs it until it halts.
func run(emu *emulator.Emulator, path string) (err error) {
	err = emu.LoadFile(path)
	if err != nil {
		return
	}

	err = emu.Reset()
	if err != nil {
		return
	}

	err = emu.Run()
	return
}

// assemble loads the program at path, and writes it out in the .ls8 format.
func assemble(emu *emulator.Emulator, path string, output string) (err error) {
	err = emu.LoadFile(path)
	if err != nil {
		return
	}

	ouf := os.Stdout
	if output != "-" {
		ouf, err = os.Create(output)
		if err != nil {
			return
		}
		defer ouf.Close()
	}

	_, err = emu.Program.WriteTo(ouf)
	return
}
