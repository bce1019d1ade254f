package avr

// execFunc is the handler signature for a single AVR instruction. opcode
// is the raw fetched word; handlers re-extract their own operand fields
// from it and reach flash through m when they need a second instruction
// word (LDS/STS) or a program-memory byte (LPM).
type execFunc func(m *Memory, opcode uint16)

// Instruction pairs a (code, mask) match pattern with its semantics. An
// opcode matches when opcode&Mask == Code.
type Instruction struct {
	Name string
	Code uint16
	Mask uint16
	Exec execFunc
}

// instructionTable is tried in order; entries earlier in the slice are
// more specific and must shadow more general ones later in the slice.
// BREQ/BRNE/BRLT/BRGE (mask fc07) are specializations of BRBS/BRBC
// (mask fc00) and so come first; SBIW (mask ff00) is matched before the
// 9x00 ST/LD family (mask fe0f) for the same reason.
var instructionTable = buildInstructionTable()

func buildInstructionTable() []Instruction {
	var t []Instruction
	t = append(t, branchSpecializations...)
	t = append(t, sbiwFamily...)
	t = append(t, moveInstructions...)
	t = append(t, arithInstructions...)
	t = append(t, branchInstructions...)
	return t
}

// Decode looks up the instruction matching opcode in priority order.
// Returns (nil, false) if no instruction matches (e.g. Decode(0xffff)).
func Decode(opcode uint16) (*Instruction, bool) {
	for i := range instructionTable {
		ins := &instructionTable[i]
		if opcode&ins.Mask == ins.Code {
			return ins, true
		}
	}
	return nil, false
}

// signExtend sign-extends the low nbits bits of value to a full int16.
func signExtend(value uint16, nbits uint) int16 {
	shift := uint16(1) << (nbits - 1)
	return int16((value ^ shift) - shift)
}
