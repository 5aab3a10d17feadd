package machine

import (
	"errors"
	"io"

	"github.com/jcorbin/gotape/internal/mem"
)

// Status reports what a Step or Run left the machine doing.
type Status int

// Machine statuses.
const (
	Continue Status = iota // more instructions remain
	Halted                 // the program counter reached the end of the program
	Faulted                // a Fault stopped the machine for good
)

func (st Status) String() string {
	switch st {
	case Continue:
		return "continue"
	case Halted:
		return "halted"
	case Faulted:
		return "faulted"
	}
	return "unknown"
}

// ErrTapeSize is wrapped by the error New returns for a tape size below 1.
var ErrTapeSize = errors.New("tape size must be at least 1")

// Machine executes one loaded Program against its own tape.
//
// A Machine is not safe for concurrent use; callers that step it from more
// than one goroutine must serialize every call, including the observation
// methods.
type Machine struct {
	prog Program
	tape *mem.Bytes
	ptr  int // data pointer, always in [0, tape size)
	pc   int // program counter, in [0, prog.Len()]

	// loops holds the positions of entered and still open loop brackets,
	// innermost last.
	loops []int

	in  io.ByteReader
	out io.ByteWriter
	eof EOFPolicy

	steps uint64
	fault *Fault
}

// New builds a machine for prog with a zeroed tape.
func New(prog Program, opts ...Option) (*Machine, error) {
	cfg := defaults
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&cfg)
		}
	}
	tape, err := mem.NewBytes(cfg.tapeSize)
	if err != nil {
		return nil, &configError{ErrTapeSize, err}
	}
	return &Machine{
		prog: prog,
		tape: tape,
		in:   cfg.in,
		out:  cfg.out,
		eof:  cfg.eof,
	}, nil
}

type configError struct {
	kind error
	err  error
}

func (ce *configError) Error() string        { return ce.err.Error() }
func (ce *configError) Is(target error) bool { return target == ce.kind }
func (ce *configError) Unwrap() error        { return ce.err }

// Run steps until the machine halts or faults.
func (m *Machine) Run() (Status, error) {
	for {
		if st, err := m.Step(); st != Continue {
			return st, err
		}
	}
}

// Step executes exactly one instruction.
//
// Stepping a machine whose program counter is at the end of the program
// returns Halted with no side effect. Stepping a faulted machine returns its
// fault again. Otherwise at most one byte is read or written, and, absent a
// fault, the program counter advances by one.
//
// Brackets are paired at Load, but an unpaired bracket is only a fault once
// it is reached: a "[" with no partner faults when its cell is 0 and there
// is nowhere to jump, a "]" faults whenever it does not close the innermost
// open loop. Use Program.Validate to reject such programs before running.
func (m *Machine) Step() (Status, error) {
	if m.fault != nil {
		return Faulted, m.fault
	}
	if m.pc >= m.prog.Len() {
		return Halted, nil
	}

	// m.ptr is always a valid cell, so the tape errors below cannot happen.
	in := m.prog.At(m.pc)
	switch in {
	case Advance:
		if m.ptr+1 >= int(m.tape.Size()) {
			return m.halt(PointerOutOfBounds, in, nil)
		}
		m.ptr++

	case Retreat:
		if m.ptr == 0 {
			return m.halt(PointerOutOfBounds, in, nil)
		}
		m.ptr--

	case Increment:
		m.tape.Add(uint(m.ptr), 1)

	case Decrement:
		m.tape.Add(uint(m.ptr), 0xff)

	case LoopOpen:
		if m.cell() != 0 {
			m.loops = append(m.loops, m.pc)
			break
		}
		end, ok := m.prog.Match(m.pc)
		if !ok {
			return m.halt(UnmatchedBracket, in, nil)
		}
		m.pc = end

	case LoopClose:
		i := len(m.loops) - 1
		if i < 0 {
			return m.halt(UnmatchedBracket, in, nil)
		}
		if open, ok := m.prog.Match(m.pc); !ok || open != m.loops[i] {
			return m.halt(UnmatchedBracket, in, nil)
		}
		if m.cell() != 0 {
			// resume just after the open bracket, which stays on the stack
			m.pc = m.loops[i]
		} else {
			m.loops = m.loops[:i]
		}

	case InputByte:
		b, err := m.in.ReadByte()
		if err == io.EOF {
			switch m.eof {
			case EOFZero:
				m.tape.Stor(uint(m.ptr), 0)
			case EOFMax:
				m.tape.Stor(uint(m.ptr), 0xff)
			}
		} else if err != nil {
			return m.halt(IOFailure, in, err)
		} else {
			m.tape.Stor(uint(m.ptr), b)
		}

	case OutputByte:
		if err := m.out.WriteByte(m.cell()); err != nil {
			return m.halt(IOFailure, in, err)
		}
	}

	m.pc++
	m.steps++
	if m.pc >= m.prog.Len() {
		return Halted, nil
	}
	return Continue, nil
}

func (m *Machine) halt(kind FaultKind, in Instruction, err error) (Status, error) {
	m.fault = &Fault{
		Kind:        kind,
		PC:          m.pc,
		Pointer:     m.ptr,
		Instruction: in,
		Err:         err,
	}
	return Faulted, m.fault
}

func (m *Machine) cell() byte {
	b, _ := m.tape.Load(uint(m.ptr))
	return b
}
