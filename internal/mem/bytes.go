package mem

import "fmt"

// DefaultBytesSize provides a default length for NewBytes callers that have
// no better idea.
const DefaultBytesSize = 30000

// Bytes implements a fixed-length byte-oriented memory.
// Its length is set at construction and never changes; every cell starts at 0.
type Bytes struct {
	cells []byte
}

// LimitError indicates that a memory operation, like load or store, addressed
// a cell at or past the end of memory.
type LimitError struct {
	Addr uint
	Size uint
	Op   string
}

func (lim LimitError) Error() string {
	return fmt.Sprintf("memory limit exceeded by %v @%v (size %v)", lim.Op, lim.Addr, lim.Size)
}

// SizeError indicates an unusable memory size.
type SizeError uint

func (size SizeError) Error() string {
	return fmt.Sprintf("invalid memory size %v, must be at least 1", uint(size))
}

// NewBytes allocates size zeroed cells; size must be at least 1.
func NewBytes(size uint) (*Bytes, error) {
	if size < 1 {
		return nil, SizeError(size)
	}
	return &Bytes{cells: make([]byte, size)}, nil
}

// Size returns the number of cells.
func (m *Bytes) Size() uint { return uint(len(m.cells)) }

// Load returns a single value from the given address.
func (m *Bytes) Load(addr uint) (byte, error) {
	if err := m.checkLimit(addr, "load"); err != nil {
		return 0, err
	}
	return m.cells[addr], nil
}

// LoadInto reads len(buf) bytes from memory starting at addr.
// Returns an error if the end of memory would be exceeded; no partial load is done.
func (m *Bytes) LoadInto(addr uint, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	if err := m.checkLimit(addr+uint(len(buf))-1, "load"); err != nil {
		return err
	}
	copy(buf, m.cells[addr:])
	return nil
}

// Stor stores any values at addr.
// Returns an error if the end of memory would be exceeded; no partial store is done.
func (m *Bytes) Stor(addr uint, values ...byte) error {
	if len(values) == 0 {
		return nil
	}
	if err := m.checkLimit(addr+uint(len(values))-1, "stor"); err != nil {
		return err
	}
	copy(m.cells[addr:], values)
	return nil
}

// Add adds delta to the cell at addr, wrapping modulo 256, and returns the
// new value.
func (m *Bytes) Add(addr uint, delta byte) (byte, error) {
	if err := m.checkLimit(addr, "add"); err != nil {
		return 0, err
	}
	m.cells[addr] += delta
	return m.cells[addr], nil
}

// Snapshot returns a copy of all cells.
func (m *Bytes) Snapshot() []byte {
	return append([]byte(nil), m.cells...)
}

func (m *Bytes) checkLimit(addr uint, op string) error {
	if size := uint(len(m.cells)); addr >= size {
		return LimitError{addr, size, op}
	}
	return nil
}
