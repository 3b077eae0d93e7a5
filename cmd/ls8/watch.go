package main

import (
	"log"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"

	"github.com/ezrec/ls8/emulator"
)

// watchMode runs the program at path, and runs it again each time it is
// written. It only returns if the watch cannot be set up.
func watchMode(emu *emulator.Emulator, path string) (err error) {
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return
	}
	defer watcher.Close()

	err = watcher.Watch(filepath.Dir(path))
	if err != nil {
		return
	}

	rerun := time.After(1 * time.Millisecond)
	for {
		select {
		case <-rerun:
			log.Printf("watch: run %s", filepath.Base(path))
			if err := run(emu, path); err != nil {
				log.Printf("watch: %v", err)
				break
			}
			log.Printf("watch: halted after %d ticks", emu.Ticks())
		case ev := <-watcher.Event:
			if filepath.Clean(ev.Name) == path && !ev.IsAttrib() {
				rerun = time.After(100 * time.Millisecond)
			}
		case err := <-watcher.Error:
			log.Printf("watch: watcher: %v", err)
		}
	}
}
