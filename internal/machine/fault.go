package machine

import (
	"errors"
	"fmt"
)

// FaultKind names why a machine stopped abnormally.
type FaultKind int

// Fault kinds.
const (
	PointerOutOfBounds FaultKind = iota + 1 // data pointer moved below 0 or to the tape size
	UnmatchedBracket                        // loop bracket with no partner
	IOFailure                               // input or output side-channel error, other than end of input
)

var (
	ErrPointerOutOfBounds = errors.New("pointer out of bounds")
	ErrUnmatchedBracket   = errors.New("unmatched bracket")
	ErrIO                 = errors.New("i/o failure")
)

func (kind FaultKind) err() error {
	switch kind {
	case PointerOutOfBounds:
		return ErrPointerOutOfBounds
	case UnmatchedBracket:
		return ErrUnmatchedBracket
	case IOFailure:
		return ErrIO
	}
	return nil
}

func (kind FaultKind) String() string {
	if err := kind.err(); err != nil {
		return err.Error()
	}
	return fmt.Sprintf("FaultKind(%d)", int(kind))
}

// Fault is a terminal machine error; once returned, the machine refuses
// to step any further.
type Fault struct {
	Kind        FaultKind
	PC          int
	Pointer     int
	Instruction Instruction
	Err         error // underlying side-channel error, for IOFailure
}

func (f *Fault) Error() string {
	switch f.Kind {
	case PointerOutOfBounds:
		return fmt.Sprintf("%v: %q @%v moving from cell %v", f.Kind, byte(f.Instruction), f.PC, f.Pointer)
	case IOFailure:
		return fmt.Sprintf("%v: %q @%v: %v", f.Kind, byte(f.Instruction), f.PC, f.Err)
	default:
		return fmt.Sprintf("%v: %q @%v", f.Kind, byte(f.Instruction), f.PC)
	}
}

// Is matches the fault against its kind sentinel, e.g. ErrUnmatchedBracket.
func (f *Fault) Is(target error) bool {
	return target != nil && target == f.Kind.err()
}

func (f *Fault) Unwrap() error { return f.Err }
