package main

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jcorbin/gotape/internal/machine"
)

func (vm *VM) run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)

	var states chan machine.State
	if len(vm.watchers) > 0 {
		states = make(chan machine.State)
		eg.Go(func() error {
			for st := range states {
				for _, watch := range vm.watchers {
					watch(st)
				}
			}
			return nil
		})
	}

	eg.Go(func() error {
		if states != nil {
			defer close(states)
		}
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			if vm.limiter != nil {
				if err := vm.limiter.Wait(ctx); err != nil {
					return fmt.Errorf("pacing: %w", err)
				}
			}

			st, snap, err := vm.stepObserved(states != nil)
			if states != nil {
				select {
				case states <- snap:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			if st != machine.Continue || err != nil {
				return err
			}
		}
	})

	return eg.Wait()
}

// stepObserved runs one step for Run; when watched or paced, output is
// flushed after every step so that it keeps up with what watchers show.
func (vm *VM) stepObserved(observe bool) (st machine.Status, snap machine.State, err error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	st, err = vm.step()
	if st == machine.Continue && (observe || vm.limiter != nil) {
		err = vm.out.Flush()
	}
	if observe {
		snap = vm.mach.Snapshot()
	}
	return st, snap, err
}

func (vm *VM) step() (machine.Status, error) {
	at := vm.mach.PC()
	if vm.logfn != nil && at < vm.prog.Len() {
		in := vm.prog.At(at)
		cell, _ := vm.mach.Cell(vm.mach.Pointer())
		vm.logf(">", "@%v %q %v -- ptr:%v cell:%v loops:%v",
			at, byte(in), in, vm.mach.Pointer(), cell, vm.mach.Loops())
	}

	st, err := vm.mach.Step()
	switch st {
	case machine.Halted:
		if ferr := vm.out.Flush(); err == nil && ferr != nil {
			err = ferr
			vm.logf("#", "halt flush error: %v", ferr)
		} else {
			vm.logf("#", "halt after %v steps", vm.mach.Steps())
		}
	case machine.Faulted:
		vm.out.Flush()
		vm.logf("#", "fault: %v", err)
	}
	return st, err
}
