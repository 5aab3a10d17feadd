package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jcorbin/gotape/internal/byteio"
	"github.com/jcorbin/gotape/internal/machine"
	"github.com/jcorbin/gotape/internal/panicerr"
)

// New loads program and builds a VM ready to Step or Run it.
func New(program []byte, opts ...VMOption) (*VM, error) {
	var vm VM
	vm.apply(opts...)
	if err := vm.load(program); err != nil {
		vm.Close()
		return nil, err
	}
	return &vm, nil
}

// Run steps the VM until its program halts, faults, or ctx is done.
// Returns nil after a normal halt, the *machine.Fault after a fault, or any
// context or pacing error. A blocking input read is never interrupted.
func (vm *VM) Run(ctx context.Context) error {
	return panicerr.Recover("VM", func() error {
		return vm.run(ctx)
	})
}

// Step executes exactly one instruction, serialized with any other Step, Run,
// or State call.
func (vm *VM) Step() (machine.Status, error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.step()
}

// State returns a consistent snapshot of the machine.
func (vm *VM) State() machine.State {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.mach.Snapshot()
}

// Program returns the loaded program.
func (vm *VM) Program() machine.Program { return vm.prog }

// Dump writes a human readable rendering of the current state to w.
func (vm *VM) Dump(w io.Writer) {
	vmDumper{out: w, prog: vm.prog}.dump(vm.State())
}

// NamedReader attaches a name to an input, used when reporting input errors.
func NamedReader(name string, r io.Reader) io.Reader { return byteio.NamedReader(name, r) }

// ParseEOF parses an end of input policy name: keep, zero, or max.
func ParseEOF(s string) (machine.EOFPolicy, error) {
	pol, ok := machine.ParseEOFPolicy(s)
	if !ok {
		return 0, fmt.Errorf("invalid eof policy %q, expected keep, zero, or max", s)
	}
	return pol, nil
}

func WithInput(r io.Reader) VMOption               { return withInput(r) }
func WithOutput(w io.Writer) VMOption              { return withOutput(w) }
func WithTee(w io.Writer) VMOption                 { return withTee(w) }
func WithTapeSize(size uint) VMOption              { return withTapeSize(size) }
func WithRate(ops float64) VMOption                { return withRate(ops) }
func WithEOF(pol machine.EOFPolicy) VMOption       { return withEOF(pol) }
func WithStrict(strict bool) VMOption              { return withStrict(strict) }
func WithWatch(watch func(machine.State)) VMOption { return withWatcher(watch) }

func WithLogf(logfn func(mess string, args ...interface{})) VMOption { return withLogfn(logfn) }
