package machine

// Instruction is a single program byte; only eight values mean anything.
type Instruction byte

// The recognized instructions; every other byte is a no-op.
const (
	Advance    Instruction = '>' // move the data pointer right
	Retreat    Instruction = '<' // move the data pointer left
	Increment  Instruction = '+' // add 1 to the current cell, wrapping
	Decrement  Instruction = '-' // subtract 1 from the current cell, wrapping
	LoopOpen   Instruction = '[' // enter a loop, or skip it if the cell is 0
	LoopClose  Instruction = ']' // repeat a loop while the cell is not 0
	InputByte  Instruction = ',' // read one byte into the current cell
	OutputByte Instruction = '.' // write the current cell as one byte
)

var instructionNames = map[Instruction]string{
	Advance:    "advance",
	Retreat:    "retreat",
	Increment:  "increment",
	Decrement:  "decrement",
	LoopOpen:   "loop",
	LoopClose:  "until",
	InputByte:  "input",
	OutputByte: "output",
}

func (in Instruction) String() string {
	if name, ok := instructionNames[in]; ok {
		return name
	}
	return "nop"
}

// Program is an immutable, loaded sequence of instruction bytes.
//
// Loading also pairs up brackets, so that loop jumps never need to scan;
// brackets without a partner are left unpaired, and only fault once
// execution reaches them.
type Program struct {
	code  []byte
	match []int // partner position for paired brackets, -1 otherwise
}

// Load copies b into a new Program; it never fails.
func Load(b []byte) Program {
	prog := Program{
		code:  append([]byte(nil), b...),
		match: make([]int, len(b)),
	}
	var opens []int
	for i, c := range prog.code {
		prog.match[i] = -1
		switch Instruction(c) {
		case LoopOpen:
			opens = append(opens, i)
		case LoopClose:
			if j := len(opens) - 1; j >= 0 {
				open := opens[j]
				opens = opens[:j]
				prog.match[open] = i
				prog.match[i] = open
			}
		}
	}
	return prog
}

// Len returns the number of program bytes.
func (prog Program) Len() int { return len(prog.code) }

// At returns the instruction at pc; pc must be less than Len.
func (prog Program) At(pc int) Instruction { return Instruction(prog.code[pc]) }

// Match returns the position of the bracket paired with the one at pc.
func (prog Program) Match(pc int) (int, bool) {
	if pc < 0 || pc >= len(prog.match) {
		return 0, false
	}
	if to := prog.match[pc]; to >= 0 {
		return to, true
	}
	return 0, false
}

// Bytes returns a copy of the program source.
func (prog Program) Bytes() []byte { return append([]byte(nil), prog.code...) }

// Validate returns a *Fault for the first unpaired bracket, if any.
func (prog Program) Validate() error {
	for pc, c := range prog.code {
		switch in := Instruction(c); in {
		case LoopOpen, LoopClose:
			if prog.match[pc] < 0 {
				return &Fault{Kind: UnmatchedBracket, PC: pc, Instruction: in}
			}
		}
	}
	return nil
}
