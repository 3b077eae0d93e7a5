package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/ezrec/ls8/emulator"
)

// debugRunLimit bounds a single 'run' command, so that a program that
// never halts does not lock up the debugger.
const debugRunLimit = 100000

type debugger struct {
	emu *emulator.Emulator

	state  *tview.TextView
	source *tview.TextView
	memory *tview.TextView
	output *tview.TextView
	log    *tview.TextView
	status *tview.TextView
	app    *tview.Application

	err error
}

func newDebugger(emu *emulator.Emulator) *debugger {
	d := &debugger{
		emu: emu,
		state: tview.NewTextView().
			SetWrap(false),
		source: tview.NewTextView().
			SetWrap(false),
		memory: tview.NewTextView().
			SetWrap(false),
		output: tview.NewTextView().
			SetMaxLines(1000),
		log: tview.NewTextView().
			SetMaxLines(1000),
		status: tview.NewTextView().
			SetWrap(false),
		app: tview.NewApplication(),
	}

	d.state.SetBorder(true).SetTitle("cpu")
	d.source.SetBorder(true).SetTitle("program")
	d.memory.SetBorder(true).SetTitle("memory")
	d.output.SetBorder(true).SetTitle("output")
	d.log.SetBorder(true).SetTitle("log")
	d.status.SetBackgroundColor(tcell.ColorDarkGray)

	emu.Cpu.Output = d.output

	left := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(d.state, 13, 0, false).
		AddItem(d.source, 0, 1, false)
	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(d.memory, 18, 0, false).
		AddItem(d.output, 0, 1, false).
		AddItem(d.log, 0, 1, false)
	cols := tview.NewFlex().
		AddItem(left, 0, 1, false).
		AddItem(right, 0, 2, false)
	rows := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(cols, 0, 1, false).
		AddItem(d.status, 1, 0, false)

	d.app.SetRoot(rows, true)

	d.app.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Rune() == 'q':
			d.app.Stop()
		case ev.Key() == tcell.KeyEnter, ev.Rune() == 's':
			d.step()
		case ev.Rune() == 'r':
			d.run()
		case ev.Rune() == 'R':
			d.reset()
		default:
			return ev
		}
		d.refresh()
		return nil
	})

	return d
}

// step executes a single instruction.
func (d *debugger) step() (done bool) {
	if d.err != nil {
		return true
	}

	done, d.err = d.emu.Tick()
	if d.err != nil {
		log.Printf("debug: %v", d.err)
		done = true
	}

	return
}

// run executes until halt, error, or debugRunLimit instructions.
func (d *debugger) run() {
	for range debugRunLimit {
		if d.step() {
			return
		}
	}

	log.Printf("debug: paused after %d instructions", debugRunLimit)
}

// reset reloads the program and clears the output.
func (d *debugger) reset() {
	d.output.Clear()
	d.err = d.emu.Reset()
	if d.err != nil {
		log.Printf("debug: %v", d.err)
		return
	}
	log.Printf("debug: reset")
}

// refresh redraws the machine state.
func (d *debugger) refresh() {
	emu := d.emu

	d.state.SetText(emu.String())
	d.memory.SetText(emu.Memory.Dump())

	lineno := emu.LineNo()
	var sb strings.Builder
	for _, line := range emu.Program.Lines {
		marker := "  "
		if line.LineNo == lineno {
			marker = "> "
		}
		fmt.Fprintf(&sb, "%s%02X %4d  %v\n", marker, line.Addr, line.LineNo, line.Text)
	}
	d.source.SetText(sb.String())

	var status string
	switch {
	case d.err != nil:
		status = "error"
	case emu.Halted:
		status = "halted"
	default:
		status = "ready"
	}
	d.status.SetText(fmt.Sprintf(" %-6s %v | s:step r:run R:reset q:quit", status, emu.Trace()))
}

// debugMode runs the program at path under the interactive debugger.
func debugMode(emu *emulator.Emulator, path string) (err error) {
	err = emu.LoadFile(path)
	if err != nil {
		return
	}

	d := newDebugger(emu)

	log.SetOutput(d.log)
	defer log.SetOutput(os.Stderr)

	d.reset()
	d.refresh()

	err = d.app.Run()
	return
}
