package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jcorbin/gotape/internal/byteio"
	"github.com/jcorbin/gotape/internal/machine"
)

type vmDumper struct {
	prog machine.Program
	out  io.Writer

	progWidth int // program bytes shown around pc, default 32
	rowWidth  int // tape cells per row, default 8
}

func (dump vmDumper) dump(st machine.State) {
	fmt.Fprintf(dump.out, "# VM State\n")
	fmt.Fprintf(dump.out, "  status: %v\n", st.Status)
	if st.Fault != nil {
		fmt.Fprintf(dump.out, "  fault: %v\n", st.Fault)
	}
	fmt.Fprintf(dump.out, "  steps: %v\n", st.Steps)
	if st.PC < dump.prog.Len() {
		in := dump.prog.At(st.PC)
		fmt.Fprintf(dump.out, "  pc: %v/%v %q %v\n", st.PC, dump.prog.Len(), byte(in), in)
	} else {
		fmt.Fprintf(dump.out, "  pc: %v/%v\n", st.PC, dump.prog.Len())
	}
	fmt.Fprintf(dump.out, "  ptr: %v\n", st.Pointer)
	fmt.Fprintf(dump.out, "  loops: %v\n", st.Loops)

	dump.dumpProg(st.PC)
	dump.dumpTape(st)
}

func (dump vmDumper) dumpProg(pc int) {
	n := dump.prog.Len()
	if n == 0 {
		return
	}

	width := dump.progWidth
	if width <= 0 {
		width = 32
	}
	start := 0
	if pc > width/2 {
		start = pc - width/2
	}
	end := start + width
	if end > n {
		end = n
	}

	var buf strings.Builder
	fmt.Fprintf(&buf, "# Program @%v\n  ", start)
	for i := start; i < end; i++ {
		if c := byte(dump.prog.At(i)); c > 0x20 && c < 0x7f {
			buf.WriteByte(c)
		} else {
			buf.WriteByte(' ')
		}
	}
	buf.WriteString("\n  ")
	buf.WriteString(strings.Repeat(" ", pc-start))
	buf.WriteString("^\n")
	io.WriteString(dump.out, buf.String())
}

func (dump vmDumper) dumpTape(st machine.State) {
	rowWidth := dump.rowWidth
	if rowWidth <= 0 {
		rowWidth = 8
	}

	// show every cell up to the last non-zero one, or the pointer
	end := st.Pointer + 1
	for i := len(st.Tape) - 1; i >= end; i-- {
		if st.Tape[i] != 0 {
			end = i + 1
			break
		}
	}
	end = (end + rowWidth - 1) / rowWidth * rowWidth
	if end > len(st.Tape) {
		end = len(st.Tape)
	}

	addrWidth := len(strconv.Itoa(len(st.Tape)))
	var buf strings.Builder
	fmt.Fprintf(&buf, "# Tape @0 of %v\n", len(st.Tape))
	for row := 0; row < end; row += rowWidth {
		fmt.Fprintf(&buf, "  @%*v ", addrWidth, row)
		for i := row; i < row+rowWidth && i < end; i++ {
			if i == st.Pointer {
				buf.WriteByte('>')
			} else {
				buf.WriteByte(' ')
			}
			fmt.Fprintf(&buf, "%02x", st.Tape[i])
		}
		buf.WriteByte('\n')
	}
	if st.Pointer < len(st.Tape) {
		cell := st.Tape[st.Pointer]
		fmt.Fprintf(&buf, "  cell: %v %v", cell, byteio.Mnemonic(cell))
		if caret := byteio.CaretForm(cell); caret != "" {
			fmt.Fprintf(&buf, " %v", caret)
		}
		buf.WriteByte('\n')
	}
	io.WriteString(dump.out, buf.String())
}
