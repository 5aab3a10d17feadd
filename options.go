package main

import (
	"io"
	"io/ioutil"

	"golang.org/x/time/rate"

	"github.com/jcorbin/gotape/internal/flushio"
	"github.com/jcorbin/gotape/internal/machine"
)

// VMOption configures a VM under construction.
type VMOption interface{ apply(vm *VM) }

var defaults = []VMOption{
	withOutput(ioutil.Discard),
	withTapeSize(machine.DefaultTapeSize),
}

// VMOptions combines any number of options into one, which applies them in order.
func VMOptions(opts ...VMOption) VMOption {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, impl)
		}
	}
	if len(res) == 1 {
		return res[0]
	}
	return res
}

type options []VMOption

func (opts options) apply(vm *VM) {
	for _, opt := range opts {
		opt.apply(vm)
	}
}

func (vm *VM) apply(opts ...VMOption) {
	for _, opt := range defaults {
		opt.apply(vm)
	}
	VMOptions(opts...).apply(vm)
}

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(vm *VM) {
	vm.logfn = logfn
}

type withWatcher func(st machine.State)

func (watch withWatcher) apply(vm *VM) {
	vm.watchers = append(vm.watchers, watch)
}

type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type tapeSizeOption uint
type rateOption float64
type eofOption machine.EOFPolicy
type strictOption bool

func withInput(r io.Reader) inputOption       { return inputOption{r} }
func withOutput(w io.Writer) outputOption     { return outputOption{w} }
func withTee(w io.Writer) teeOption           { return teeOption{w} }
func withTapeSize(size uint) tapeSizeOption   { return tapeSizeOption(size) }
func withRate(ops float64) rateOption         { return rateOption(ops) }
func withEOF(pol machine.EOFPolicy) eofOption { return eofOption(pol) }
func withStrict(strict bool) strictOption     { return strictOption(strict) }

func (i inputOption) apply(vm *VM) {
	vm.in.Queue = append(vm.in.Queue, i.Reader)
}

func (o outputOption) apply(vm *VM) {
	if vm.out != nil {
		vm.out.Flush()
	}
	vm.out = flushio.NewWriteFlusher(o.Writer)
}

func (o teeOption) apply(vm *VM) {
	vm.out = flushio.WriteFlushers(vm.out, flushio.NewWriteFlusher(o.Writer))
}

func (size tapeSizeOption) apply(vm *VM) {
	vm.tapeSize = uint(size)
}

func (ops rateOption) apply(vm *VM) {
	if ops <= 0 {
		vm.limiter = nil
		return
	}
	vm.limiter = rate.NewLimiter(rate.Limit(ops), 1)
}

func (pol eofOption) apply(vm *VM) {
	vm.eof = machine.EOFPolicy(pol)
}

func (strict strictOption) apply(vm *VM) {
	vm.strict = bool(strict)
}
