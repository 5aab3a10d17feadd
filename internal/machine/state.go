package machine

// State is a point-in-time copy of everything a display needs to render a
// machine; it shares no memory with the machine it came from.
type State struct {
	PC      int
	Pointer int
	Tape    []byte
	Loops   []int
	Steps   uint64
	Status  Status
	Fault   *Fault
}

// PC returns the program counter.
func (m *Machine) PC() int { return m.pc }

// Pointer returns the data pointer.
func (m *Machine) Pointer() int { return m.ptr }

// TapeSize returns the number of tape cells.
func (m *Machine) TapeSize() int { return int(m.tape.Size()) }

// Cell returns the value of tape cell i, or false if i is out of range.
func (m *Machine) Cell(i int) (byte, bool) {
	if i < 0 {
		return 0, false
	}
	b, err := m.tape.Load(uint(i))
	return b, err == nil
}

// Window copies tape cells starting at i into buf, clipped to the tape;
// it returns the number of cells copied.
func (m *Machine) Window(i int, buf []byte) int {
	size := m.TapeSize()
	if i < 0 || i >= size {
		return 0
	}
	if n := size - i; len(buf) > n {
		buf = buf[:n]
	}
	if err := m.tape.LoadInto(uint(i), buf); err != nil {
		return 0
	}
	return len(buf)
}

// Loops returns a copy of the loop-control stack, innermost last.
func (m *Machine) Loops() []int { return append([]int(nil), m.loops...) }

// Steps returns how many instructions have completed.
func (m *Machine) Steps() uint64 { return m.steps }

// Program returns the loaded program.
func (m *Machine) Program() Program { return m.prog }

// Status reports whether the machine can continue, has halted, or faulted.
func (m *Machine) Status() Status {
	if m.fault != nil {
		return Faulted
	}
	if m.pc >= m.prog.Len() {
		return Halted
	}
	return Continue
}

// Err returns the machine's fault, if any.
func (m *Machine) Err() error {
	if m.fault != nil {
		return m.fault
	}
	return nil
}

// Snapshot copies the whole machine state.
func (m *Machine) Snapshot() State {
	return State{
		PC:      m.pc,
		Pointer: m.ptr,
		Tape:    m.tape.Snapshot(),
		Loops:   m.Loops(),
		Steps:   m.steps,
		Status:  m.Status(),
		Fault:   m.fault,
	}
}
