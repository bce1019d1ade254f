package avr

// arithInstructions covers the 8-bit ALU operations that update SREG.
var arithInstructions = []Instruction{
	{Name: "ADD", Code: 0x0c00, Mask: 0xfc00, Exec: execADD},
	{Name: "ADC", Code: 0x1c00, Mask: 0xfc00, Exec: execADC},
	{Name: "SUB", Code: 0x1800, Mask: 0xfc00, Exec: execSUB},
	{Name: "SUBI", Code: 0x5000, Mask: 0xf000, Exec: execSUBI},
	{Name: "SBC", Code: 0x0800, Mask: 0xfc00, Exec: execSBC},
	{Name: "SBCI", Code: 0x4000, Mask: 0xf000, Exec: execSBCI},
	{Name: "CP", Code: 0x1400, Mask: 0xfc00, Exec: execCP},
	{Name: "CPC", Code: 0x0400, Mask: 0xfc00, Exec: execCPC},
	{Name: "CPI", Code: 0x3000, Mask: 0xf000, Exec: execCPI},
	{Name: "ANDI", Code: 0x7000, Mask: 0xf000, Exec: execANDI},
	{Name: "SBR", Code: 0x6000, Mask: 0xf000, Exec: execSBR},
	{Name: "EOR", Code: 0x2400, Mask: 0xfc00, Exec: execEOR},
}

// sbiwFamily is matched before moveInstructions' 9x00 ST/LD family, since
// its mask (ff00) is a specialization of theirs (fe0f) over the same
// opcode range.
var sbiwFamily = []Instruction{
	{Name: "SBIW", Code: 0x9700, Mask: 0xff00, Exec: execSBIW},
}

func ddrrFields(opcode uint16) (d, r uint8) {
	d = uint8((opcode >> 4) & 0x1f)
	r = uint8((opcode>>9)&1)<<4 | uint8(opcode&0xf)
	return
}

func execADD(m *Memory, opcode uint16) {
	d, r := ddrrFields(opcode)
	lhs, rhs := m.GetRegister(d), m.GetRegister(r)
	res := lhs + rhs
	m.SetRegister(d, res)
	UpdateSREG(m, lhs, rhs, res)
	m.SetPC(m.PC() + 1)
}

func execADC(m *Memory, opcode uint16) {
	d, r := ddrrFields(opcode)
	lhs, rhs := m.GetRegister(d), m.GetRegister(r)
	carry := uint8(0)
	if m.SREGBit(FlagC) {
		carry = 1
	}
	res := lhs + rhs + carry
	m.SetRegister(d, res)
	UpdateSREG(m, lhs, rhs, res)
	m.SetPC(m.PC() + 1)
}

func execSUB(m *Memory, opcode uint16) {
	d, r := ddrrFields(opcode)
	lhs, rhs := m.GetRegister(d), m.GetRegister(r)
	res := lhs - rhs
	m.SetRegister(d, res)
	UpdateSREG(m, lhs, rhs, res)
	m.SetPC(m.PC() + 1)
}

func execSUBI(m *Memory, opcode uint16) {
	d := 16 + uint8((opcode>>4)&0xf)
	k := uint8((opcode>>8)&0xf)<<4 | uint8(opcode&0xf)
	lhs := m.GetRegister(d)
	res := lhs - k
	m.SetRegister(d, res)
	UpdateSREG(m, lhs, k, res)
	m.SetPC(m.PC() + 1)
}

func execSBC(m *Memory, opcode uint16) {
	d, r := ddrrFields(opcode)
	lhs, rhs := m.GetRegister(d), m.GetRegister(r)
	carry := uint8(0)
	if m.SREGBit(FlagC) {
		carry = 1
	}
	res := lhs - rhs - carry
	m.SetRegister(d, res)
	UpdateSREGKeepZIfResultZero(m, lhs, rhs, res)
	m.SetPC(m.PC() + 1)
}

func execSBCI(m *Memory, opcode uint16) {
	d := 16 + uint8((opcode>>4)&0xf)
	k := uint8((opcode>>8)&0xf)<<4 | uint8(opcode&0xf)
	carry := uint8(0)
	if m.SREGBit(FlagC) {
		carry = 1
	}
	lhs := m.GetRegister(d)
	res := lhs - k - carry
	m.SetRegister(d, res)
	UpdateSREGKeepZIfResultZero(m, lhs, k, res)
	m.SetPC(m.PC() + 1)
}

// sbiwPairBase maps SBIW's 2-bit register-pair selector to the low
// register of the pair.
var sbiwPairBase = [4]uint8{24, 26, 28, 30}

func execSBIW(m *Memory, opcode uint16) {
	pair := (opcode >> 4) & 3
	d := sbiwPairBase[pair]
	k := uint16((opcode>>6)&0x3)<<4 | uint16(opcode&0xf)
	lhs := m.Get16(uint16(d))
	res := lhs - k
	m.Set16(uint16(d), res)
	UpdateSREG16(m, lhs, res)
	m.SetPC(m.PC() + 1)
}

func execCP(m *Memory, opcode uint16) {
	d, r := ddrrFields(opcode)
	lhs, rhs := m.GetRegister(d), m.GetRegister(r)
	UpdateSREG(m, lhs, rhs, lhs-rhs)
	m.SetPC(m.PC() + 1)
}

func execCPC(m *Memory, opcode uint16) {
	d, r := ddrrFields(opcode)
	lhs, rhs := m.GetRegister(d), m.GetRegister(r)
	carry := uint8(0)
	if m.SREGBit(FlagC) {
		carry = 1
	}
	UpdateSREGKeepZIfResultZero(m, lhs, rhs, lhs-rhs-carry)
	m.SetPC(m.PC() + 1)
}

func execCPI(m *Memory, opcode uint16) {
	d := 16 + uint8((opcode>>4)&0xf)
	k := uint8((opcode>>8)&0xf)<<4 | uint8(opcode&0xf)
	lhs := m.GetRegister(d)
	UpdateSREG(m, lhs, k, lhs-k)
	m.SetPC(m.PC() + 1)
}

func execANDI(m *Memory, opcode uint16) {
	d := 16 + uint8((opcode>>4)&0xf)
	k := uint8((opcode>>8)&0xf)<<4 | uint8(opcode&0xf)
	res := m.GetRegister(d) & k
	m.SetRegister(d, res)

	n := bit8(res, 7)
	m.ClearSREGBit(FlagV)
	m.SetSREGBitValue(FlagN, n)
	m.SetSREGBitValue(FlagZ, res == 0)
	m.SetSREGBitValue(FlagS, n) // S = N xor V, V==0
	m.SetPC(m.PC() + 1)
}

func execSBR(m *Memory, opcode uint16) {
	d := 16 + uint8((opcode>>4)&0xf)
	k := uint8((opcode>>8)&0xf)<<4 | uint8(opcode&0xf)
	m.SetRegister(d, m.GetRegister(d)|k)
	m.SetPC(m.PC() + 1)
}

func execEOR(m *Memory, opcode uint16) {
	d, r := ddrrFields(opcode)
	m.SetRegister(d, m.GetRegister(d)^m.GetRegister(r))
	m.SetPC(m.PC() + 1)
}
