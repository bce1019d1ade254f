package avr

// moveInstructions covers register moves, immediate loads, I/O access,
// the SRAM/flash load-store family, and the stack PUSH/POP pair. These
// are the "no flag effect" instructions: none of these touch SREG.
var moveInstructions = []Instruction{
	{Name: "NOP", Code: 0x0000, Mask: 0xffff, Exec: execNOP},
	{Name: "MOV", Code: 0x2c00, Mask: 0xfc00, Exec: execMOV},
	{Name: "MOVW", Code: 0x0100, Mask: 0xff00, Exec: execMOVW},
	{Name: "LDI", Code: 0xe000, Mask: 0xf000, Exec: execLDI},
	{Name: "IN", Code: 0xb000, Mask: 0xf800, Exec: execIN},
	{Name: "OUT", Code: 0xb800, Mask: 0xf800, Exec: execOUT},
	{Name: "STS", Code: 0x9200, Mask: 0xfe0f, Exec: execSTS},
	{Name: "LDS", Code: 0x9000, Mask: 0xfe0f, Exec: execLDS},
	{Name: "ST Z", Code: 0x8200, Mask: 0xfe0f, Exec: execSTZ},
	{Name: "ST Z+", Code: 0x9201, Mask: 0xfe0f, Exec: execSTZPlus},
	{Name: "ST X+", Code: 0x920d, Mask: 0xfe0f, Exec: execSTXPlus},
	{Name: "ST Y+", Code: 0x9209, Mask: 0xfe0f, Exec: execSTYPlus},
	{Name: "STD Y+q", Code: 0x8208, Mask: 0xd208, Exec: execSTDYq},
	{Name: "LDD Y+q", Code: 0x8008, Mask: 0xd208, Exec: execLDDYq},
	{Name: "LD Z", Code: 0x8000, Mask: 0xfe0f, Exec: execLDZ},
	{Name: "LPM Rd,Z+", Code: 0x9005, Mask: 0xfe0f, Exec: execLPMZPlus},
	{Name: "PUSH", Code: 0x920f, Mask: 0xfe0f, Exec: execPUSH},
	{Name: "POP", Code: 0x900f, Mask: 0xfe0f, Exec: execPOP},
}

func execNOP(m *Memory, opcode uint16) {
	m.SetPC(m.PC() + 1)
}

func execMOV(m *Memory, opcode uint16) {
	d := uint8((opcode >> 4) & 0x1f)
	r := uint8(((opcode>>9)&1)<<4 | opcode&0xf)
	m.SetRegister(d, m.GetRegister(r))
	m.SetPC(m.PC() + 1)
}

func execMOVW(m *Memory, opcode uint16) {
	d := uint8((opcode>>4)&0xf) * 2
	r := uint8(opcode&0xf) * 2
	m.SetRegister(d, m.GetRegister(r))
	m.SetRegister(d+1, m.GetRegister(r+1))
	m.SetPC(m.PC() + 1)
}

func execLDI(m *Memory, opcode uint16) {
	d := 16 + uint8((opcode>>4)&0xf)
	k := uint8((opcode>>8)&0xf)<<4 | uint8(opcode&0xf)
	m.SetRegister(d, k)
	m.SetPC(m.PC() + 1)
}

func ioAddrField(opcode uint16) uint8 {
	return uint8((opcode>>9)&3)<<4 | uint8(opcode&0xf)
}

func execIN(m *Memory, opcode uint16) {
	d := uint8((opcode >> 4) & 0x1f)
	a := ioAddrField(opcode)
	m.SetRegister(d, m.GetIO(a))
	m.SetPC(m.PC() + 1)
}

func execOUT(m *Memory, opcode uint16) {
	r := uint8((opcode >> 4) & 0x1f)
	a := ioAddrField(opcode)
	m.SetIO(a, m.GetRegister(r))
	m.SetPC(m.PC() + 1)
}

// nextFlashWord reads the 16-bit immediate word following the opcode at
// pc (LDS/STS's second instruction word), little-endian.
func nextFlashWord(m *Memory, pc uint16) uint16 {
	off := (pc + 1) * 2
	return uint16(m.GetFlash(off)) | uint16(m.GetFlash(off+1))<<8
}

func execSTS(m *Memory, opcode uint16) {
	r := uint8((opcode >> 4) & 0x1f)
	k := nextFlashWord(m, m.PC())
	m.SetSRAM(k, m.GetRegister(r))
	m.SetPC(m.PC() + 2)
}

func execLDS(m *Memory, opcode uint16) {
	d := uint8((opcode >> 4) & 0x1f)
	k := nextFlashWord(m, m.PC())
	m.SetRegister(d, m.GetSRAM(k))
	m.SetPC(m.PC() + 2)
}

func execSTZ(m *Memory, opcode uint16) {
	r := uint8((opcode >> 4) & 0x1f)
	m.SetSRAM(m.Z(), m.GetRegister(r))
	m.SetPC(m.PC() + 1)
}

func execSTZPlus(m *Memory, opcode uint16) {
	r := uint8((opcode >> 4) & 0x1f)
	z := m.Z()
	m.SetSRAM(z, m.GetRegister(r))
	m.SetZ(z + 1)
	m.SetPC(m.PC() + 1)
}

func execSTXPlus(m *Memory, opcode uint16) {
	r := uint8((opcode >> 4) & 0x1f)
	x := m.X()
	m.SetSRAM(x, m.GetRegister(r))
	m.SetX(x + 1)
	m.SetPC(m.PC() + 1)
}

func execSTYPlus(m *Memory, opcode uint16) {
	r := uint8((opcode >> 4) & 0x1f)
	y := m.Y()
	m.SetSRAM(y, m.GetRegister(r))
	m.SetY(y + 1)
	m.SetPC(m.PC() + 1)
}

// qField assembles STD/LDD's 6-bit Y-displacement from bit 13, bits
// 11:10, and bits 2:0 of the opcode.
func qField(opcode uint16) uint16 {
	return (opcode>>13&1)<<5 | (opcode>>10&3)<<3 | opcode&7
}

func execSTDYq(m *Memory, opcode uint16) {
	r := uint8((opcode >> 4) & 0x1f)
	q := qField(opcode)
	m.SetSRAM(m.Y()+q, m.GetRegister(r))
	m.SetPC(m.PC() + 1)
}

func execLDDYq(m *Memory, opcode uint16) {
	d := uint8((opcode >> 4) & 0x1f)
	q := qField(opcode)
	m.SetRegister(d, m.GetSRAM(m.Y()+q))
	m.SetPC(m.PC() + 1)
}

func execLDZ(m *Memory, opcode uint16) {
	d := uint8((opcode >> 4) & 0x1f)
	m.SetRegister(d, m.GetSRAM(m.Z()))
	m.SetPC(m.PC() + 1)
}

func execLPMZPlus(m *Memory, opcode uint16) {
	d := uint8((opcode >> 4) & 0x1f)
	z := m.Z()
	m.SetRegister(d, m.GetFlash(z))
	m.SetZ(z + 1)
	m.SetPC(m.PC() + 1)
}

func execPUSH(m *Memory, opcode uint16) {
	r := uint8((opcode >> 4) & 0x1f)
	sp := m.SP()
	m.SetStack(sp, m.GetRegister(r))
	m.SetSP(sp - 1)
	m.SetPC(m.PC() + 1)
}

func execPOP(m *Memory, opcode uint16) {
	d := uint8((opcode >> 4) & 0x1f)
	sp := m.SP() + 1
	m.SetSP(sp)
	m.SetRegister(d, m.GetStack(sp))
	m.SetPC(m.PC() + 1)
}
