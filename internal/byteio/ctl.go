package byteio

import "strconv"

// ControlByte represents a named control byte.
type ControlByte struct {
	N string
	B byte
}

// C0Ctls contains the classic ASCII control characters.
var C0Ctls = [32]ControlByte{
	{"<NUL>", 0x00},
	{"<SOH>", 0x01},
	{"<STX>", 0x02},
	{"<ETX>", 0x03},
	{"<EOT>", 0x04},
	{"<ENQ>", 0x05},
	{"<ACK>", 0x06},
	{"<BEL>", 0x07},
	{"<BS>", 0x08},
	{"<HT>", 0x09},
	{"<NL>", 0x0A},
	{"<VT>", 0x0B},
	{"<NP>", 0x0C},
	{"<CR>", 0x0D},
	{"<SO>", 0x0E},
	{"<SI>", 0x0F},
	{"<DLE>", 0x10},
	{"<DC1>", 0x11},
	{"<DC2>", 0x12},
	{"<DC3>", 0x13},
	{"<DC4>", 0x14},
	{"<NAK>", 0x15},
	{"<SYN>", 0x16},
	{"<ETB>", 0x17},
	{"<CAN>", 0x18},
	{"<EM>", 0x19},
	{"<SUB>", 0x1A},
	{"<ESC>", 0x1B},
	{"<FS>", 0x1C},
	{"<GS>", 0x1D},
	{"<RS>", 0x1E},
	{"<US>", 0x1F},
}

// PseudoCtls provides the typical mneumonics for space and delete.
var PseudoCtls = [2]ControlByte{
	{"<SP>", 0x20},
	{"<DEL>", 0x7F},
}

// CaretForm computes the ^-escaped printable form of a C0 control byte, or
// "" for any other byte.
func CaretForm(b byte) string {
	if b < 0x20 || b == 0x7f {
		return "^" + string(rune(b^0x40))
	}
	return ""
}

// Mnemonic returns a short printable label for a tape cell value: the
// control name for C0 controls, space, and delete; the character itself for
// other printable ASCII; and a hex escape otherwise.
func Mnemonic(b byte) string {
	switch {
	case b < 0x20:
		return C0Ctls[b].N
	case b == 0x20:
		return PseudoCtls[0].N
	case b == 0x7f:
		return PseudoCtls[1].N
	case b < 0x7f:
		return string(rune(b))
	}
	return `\x` + strconv.FormatUint(uint64(b)|0x100, 16)[1:]
}
