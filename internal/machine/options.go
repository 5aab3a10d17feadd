package machine

import (
	"bytes"
	"io"

	"github.com/jcorbin/gotape/internal/mem"
)

// DefaultTapeSize is the tape length used when no TapeSize option is given.
const DefaultTapeSize = mem.DefaultBytesSize

// EOFPolicy decides what an input instruction does once input is exhausted.
// End of input is never a fault.
type EOFPolicy int

// EOF policies.
const (
	EOFKeep EOFPolicy = iota // leave the cell unchanged
	EOFZero                  // store 0
	EOFMax                   // store 255
)

var eofPolicyNames = [...]string{"keep", "zero", "max"}

func (pol EOFPolicy) String() string {
	if int(pol) < len(eofPolicyNames) {
		return eofPolicyNames[pol]
	}
	return "unknown"
}

// ParseEOFPolicy parses one of "keep", "zero", or "max".
func ParseEOFPolicy(s string) (EOFPolicy, bool) {
	for i, name := range eofPolicyNames {
		if s == name {
			return EOFPolicy(i), true
		}
	}
	return 0, false
}

// Option configures a Machine at construction time.
type Option interface{ apply(m *config) }

type config struct {
	tapeSize uint
	in       io.ByteReader
	out      io.ByteWriter
	eof      EOFPolicy
}

var defaults = config{
	tapeSize: DefaultTapeSize,
	in:       bytes.NewReader(nil),
	out:      discard{},
}

type tapeSizeOption uint
type inputOption struct{ io.ByteReader }
type outputOption struct{ io.ByteWriter }
type eofOption EOFPolicy

// TapeSize sets the number of tape cells, which must be at least 1.
func TapeSize(n uint) Option { return tapeSizeOption(n) }

// Input sets the byte source read by the input instruction.
// ReadByte is expected to block until a byte, or end of input, is available.
func Input(r io.ByteReader) Option { return inputOption{r} }

// Output sets the byte sink written by the output instruction.
func Output(w io.ByteWriter) Option { return outputOption{w} }

// OnEOF sets the end of input policy.
func OnEOF(pol EOFPolicy) Option { return eofOption(pol) }

func (n tapeSizeOption) apply(cfg *config) { cfg.tapeSize = uint(n) }
func (i inputOption) apply(cfg *config)    { cfg.in = i.ByteReader }
func (o outputOption) apply(cfg *config)   { cfg.out = o.ByteWriter }
func (pol eofOption) apply(cfg *config)    { cfg.eof = EOFPolicy(pol) }

type discard struct{}

func (discard) WriteByte(byte) error { return nil }
