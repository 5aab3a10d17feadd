package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/jcorbin/gotape/internal/fileinput"
	"github.com/jcorbin/gotape/internal/flushio"
	"github.com/jcorbin/gotape/internal/machine"
)

// VM drives a single machine: it owns the side-channels, paces and traces
// execution, and serializes every access to the machine behind one lock.
type VM struct {
	mu sync.Mutex
	logging
	ioCore

	prog machine.Program
	mach *machine.Machine

	tapeSize uint
	eof      machine.EOFPolicy
	strict   bool
	limiter  *rate.Limiter
	watchers []func(machine.State)
}

func (vm *VM) load(program []byte) error {
	vm.prog = machine.Load(program)
	if vm.strict {
		if err := vm.prog.Validate(); err != nil {
			return fmt.Errorf("invalid program: %w", err)
		}
	}
	mach, err := machine.New(vm.prog,
		machine.TapeSize(vm.tapeSize),
		machine.Input(promptingInput{&vm.ioCore}),
		machine.Output(vm.out),
		machine.OnEOF(vm.eof),
	)
	if err != nil {
		return err
	}
	vm.mach = mach
	vm.logf("#", "loaded %v program bytes, %v tape cells, eof:%v", vm.prog.Len(), mach.TapeSize(), vm.eof)
	return nil
}

// Close flushes any buffered output, and closes any inputs.
func (vm *VM) Close() error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.ioCore.Close()
}

type ioCore struct {
	in      fileinput.Input
	out     flushio.WriteFlusher
	closers []io.Closer
}

func (ioc *ioCore) Close() (err error) {
	if ioc.out != nil {
		err = ioc.out.Flush()
	}
	if cerr := ioc.in.Close(); err == nil {
		err = cerr
	}
	for i := len(ioc.closers) - 1; i >= 0; i-- {
		if cerr := ioc.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	ioc.closers = nil
	return err
}

type logging struct {
	logfn func(mess string, args ...interface{})

	markWidth int
}

func (log *logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		for _, r := range mark {
			mark = strings.Repeat(string(r), n) + mark
			break
		}
	} else if n < 0 {
		log.markWidth = len(mark)
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
