package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jcorbin/gotape/internal/machine"
)

func Test_vmDumper(t *testing.T) {
	prog := machine.Load([]byte("+[>+<-]"))
	tape := make([]byte, 20)
	tape[0] = 1
	tape[9] = 'A'

	var out strings.Builder
	vmDumper{out: &out, prog: prog, rowWidth: 4}.dump(machine.State{
		PC:      3,
		Pointer: 1,
		Tape:    tape,
		Loops:   []int{1},
		Steps:   7,
		Status:  machine.Continue,
	})
	assert.Equal(t, lines(
		`# VM State`,
		`  status: continue`,
		`  steps: 7`,
		`  pc: 3/7 '+' increment`,
		`  ptr: 1`,
		`  loops: [1]`,
		`# Program @0`,
		`  +[>+<-]`,
		`     ^`,
		`# Tape @0 of 20`,
		`  @ 0  01>00 00 00`,
		`  @ 4  00 00 00 00`,
		`  @ 8  00 41 00 00`,
		`  cell: 0 <NUL> ^@`,
	), out.String())
}

func Test_vmDumper_window(t *testing.T) {
	prog := machine.Load([]byte(strings.Repeat("+", 40) + "."))
	var out strings.Builder
	vmDumper{out: &out, prog: prog, progWidth: 8}.dump(machine.State{
		PC:     40,
		Tape:   []byte{40},
		Steps:  40,
		Status: machine.Continue,
	})
	assert.Contains(t, out.String(), lines(
		`# Program @36`,
		`  ++++.`,
		`      ^`,
	))
}

func Test_vmDumper_cell(t *testing.T) {
	prog := machine.Load(nil)
	for _, tc := range []struct {
		cell byte
		want string
	}{
		{'A', "  cell: 65 A\n"},
		{0x1b, "  cell: 27 <ESC> ^[\n"},
		{0x7f, "  cell: 127 <DEL> ^?\n"},
		{0xff, "  cell: 255 \\xff\n"},
	} {
		var out strings.Builder
		vmDumper{out: &out, prog: prog}.dump(machine.State{
			Tape:   []byte{tc.cell},
			Status: machine.Halted,
		})
		assert.True(t, strings.HasSuffix(out.String(), tc.want), "expected dump of %q to end with %q, got:\n%s", tc.cell, tc.want, out.String())
	}
}
