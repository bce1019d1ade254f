package avr

// sregFlagByNumber maps the B*-family 3-bit flag selector to the SREG
// flag it names.
var sregFlagByNumber = [8]Flag{FlagC, FlagZ, FlagN, FlagV, FlagS, FlagH, FlagT, FlagI}

// branchSpecializations must be tried before branchInstructions' BRBS/BRBC
// entries, since BREQ/BRNE/BRLT/BRGE (mask fc07) are specializations of
// the general BRBS/BRBC pattern (mask fc00) sharing the same opcode range.
var branchSpecializations = []Instruction{
	{Name: "BREQ", Code: 0xf001, Mask: 0xfc07, Exec: makeBranchOnFlag(FlagZ, true)},
	{Name: "BRNE", Code: 0xf401, Mask: 0xfc07, Exec: makeBranchOnFlag(FlagZ, false)},
	{Name: "BRLT", Code: 0xf004, Mask: 0xfc07, Exec: execBRLT},
	{Name: "BRGE", Code: 0xf404, Mask: 0xfc07, Exec: execBRGE},
}

var branchInstructions = []Instruction{
	{Name: "RJMP", Code: 0xc000, Mask: 0xf000, Exec: execRJMP},
	{Name: "RCALL", Code: 0xd000, Mask: 0xf000, Exec: execRCALL},
	{Name: "RET", Code: 0x9508, Mask: 0xffff, Exec: execRET},
	{Name: "RETI", Code: 0x9518, Mask: 0xffff, Exec: execRETI},
	{Name: "BSET", Code: 0x9408, Mask: 0xff8f, Exec: execBSET},
	{Name: "BCLR", Code: 0x9488, Mask: 0xff8f, Exec: execBCLR},
	{Name: "BRBS", Code: 0xf000, Mask: 0xfc00, Exec: execBRBS},
	{Name: "BRBC", Code: 0xf400, Mask: 0xfc00, Exec: execBRBC},
}

func branchDisplacement(opcode uint16) int16 {
	return signExtend((opcode>>3)&0x7f, 7)
}

func execRJMP(m *Memory, opcode uint16) {
	k := signExtend(opcode&0xfff, 12)
	m.SetPC(uint16(int32(m.PC()) + 1 + int32(k)))
}

func execRCALL(m *Memory, opcode uint16) {
	k := signExtend(opcode&0xfff, 12)
	ret := m.PC() + 1
	sp := m.SP()
	m.SetStack(sp-1, uint8(ret>>8))
	m.SetStack(sp, uint8(ret))
	m.SetSP(sp - 2)
	m.SetPC(uint16(int32(m.PC()) + 1 + int32(k)))
}

func popReturnAddress(m *Memory) uint16 {
	sp := m.SP() + 2
	m.SetSP(sp)
	hi := m.GetStack(sp - 1)
	lo := m.GetStack(sp)
	return uint16(hi)<<8 | uint16(lo)
}

func execRET(m *Memory, opcode uint16) {
	m.SetPC(popReturnAddress(m))
}

func execRETI(m *Memory, opcode uint16) {
	m.SetPC(popReturnAddress(m))
	m.SetSREGBit(FlagI)
}

func execBSET(m *Memory, opcode uint16) {
	s := (opcode >> 4) & 7
	m.SetSREGBit(sregFlagByNumber[s])
	m.SetPC(m.PC() + 1)
}

func execBCLR(m *Memory, opcode uint16) {
	s := (opcode >> 4) & 7
	m.ClearSREGBit(sregFlagByNumber[s])
	m.SetPC(m.PC() + 1)
}

func execBRBS(m *Memory, opcode uint16) {
	s := opcode & 7
	k := branchDisplacement(opcode)
	m.SetPC(m.PC() + 1)
	if m.SREGBit(sregFlagByNumber[s]) {
		m.SetPC(uint16(int32(m.PC()) + int32(k)))
	}
}

func execBRBC(m *Memory, opcode uint16) {
	s := opcode & 7
	k := branchDisplacement(opcode)
	m.SetPC(m.PC() + 1)
	if !m.SREGBit(sregFlagByNumber[s]) {
		m.SetPC(uint16(int32(m.PC()) + int32(k)))
	}
}

func makeBranchOnFlag(flag Flag, wantSet bool) execFunc {
	return func(m *Memory, opcode uint16) {
		k := branchDisplacement(opcode)
		m.SetPC(m.PC() + 1)
		if m.SREGBit(flag) == wantSet {
			m.SetPC(uint16(int32(m.PC()) + int32(k)))
		}
	}
}

func execBRLT(m *Memory, opcode uint16) {
	k := branchDisplacement(opcode)
	m.SetPC(m.PC() + 1)
	if m.SREGBit(FlagN) != m.SREGBit(FlagV) {
		m.SetPC(uint16(int32(m.PC()) + int32(k)))
	}
}

func execBRGE(m *Memory, opcode uint16) {
	k := branchDisplacement(opcode)
	m.SetPC(m.PC() + 1)
	if m.SREGBit(FlagN) == m.SREGBit(FlagV) {
		m.SetPC(uint16(int32(m.PC()) + int32(k)))
	}
}
