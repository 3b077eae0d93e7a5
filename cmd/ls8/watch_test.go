package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ls8/emulator"
)

func TestWatchMode_Errors(t *testing.T) {
	assert := assert.New(t)

	emu := emulator.NewEmulator(nil)
	path := filepath.Join(t.TempDir(), "missing", "print8.ls8")
	assert.Error(watchMode(emu, path))
}
