// Package avr implements the core of a cycle-driven AVR (ATmega8)
// instruction-set emulator: the unified memory model, the ~40-opcode
// instruction set, the fetch/decode/execute loop, the Timer/Counter 0
// peripheral, the interrupt handler, and the clock/subscriber fabric
// that paces them.
package avr

import (
	"errors"
	"sync"
)

// Address-space layout. I/O index a maps to address ioBase+a; SRAM/stack
// starts at sramBase.
const (
	registerCount = 32
	ioBase        = 32
	ioCount       = 64
	sramBase      = ioBase + ioCount // 96

	// Significant I/O register indices.
	ioTCNT0 = 50
	ioTCCR0 = 51
	ioTIFR  = 56
	ioTIMSK = 57
	ioSPL   = 61
	ioSPH   = 62
	ioSREG  = 63
)

// TOV0 is bit 0 of TIFR/TIMSK.
const tov0Bit = 0

// Flag identifies a single SREG bit.
type Flag uint8

// SREG bit positions.
const (
	FlagC Flag = 0
	FlagZ Flag = 1
	FlagN Flag = 2
	FlagV Flag = 3
	FlagS Flag = 4
	FlagH Flag = 5
	FlagT Flag = 6
	FlagI Flag = 7
)

// Memory is the unified AVR address space: general registers, I/O
// registers (including SREG), SRAM, and the stack all live in the same
// backing array, exactly as on real hardware. Flash is held in a
// separate slice since it is read-only; Memory never copies or mutates it.
//
// Memory is shared across the executor, timer, and interrupt handler
// goroutines; mu is the single coarse lock serializing their access. A
// caller holds it for the duration of one Run() (a single instruction,
// a single counter bump, a single vector dispatch).
type Memory struct {
	mu sync.Mutex

	data  []byte
	flash []byte
	pc    uint16
}

// Lock acquires Memory's mutex. Callers release it with Unlock.
func (m *Memory) Lock() { m.mu.Lock() }

// Unlock releases Memory's mutex.
func (m *Memory) Unlock() { m.mu.Unlock() }

// NewMemory allocates a zero-filled memory image of size bytes. size must
// be at least sramBase+1 so there is room for one stack byte; otherwise
// construction fails. flash is the immutable program image for the
// session (may be nil for tests that never execute LPM); it is never
// copied or mutated by Memory.
func NewMemory(size int, flash []byte) (*Memory, error) {
	if size < sramBase+1 {
		return nil, errors.New("avr: memory size must be at least 97 bytes")
	}
	return &Memory{data: make([]byte, size), flash: flash}, nil
}

// GetFlash reads one byte of the read-only program image at byte address
// addr. Out-of-range addr is fatal.
func (m *Memory) GetFlash(addr uint16) uint8 {
	if int(addr) >= len(m.flash) {
		panic("avr: flash address out of range")
	}
	return m.flash[addr]
}

// GetRegister reads general-purpose register i (0-31). Out-of-range i is
// a programmer error and panics rather than returning a zero value.
func (m *Memory) GetRegister(i uint8) uint8 {
	if i >= registerCount {
		panic("avr: register index out of range")
	}
	return m.data[i]
}

// SetRegister writes general-purpose register i (0-31).
func (m *Memory) SetRegister(i uint8, v uint8) {
	if i >= registerCount {
		panic("avr: register index out of range")
	}
	m.data[i] = v
}

// GetIO reads I/O register a (0-63), forwarding to SRAM index ioBase+a.
func (m *Memory) GetIO(a uint8) uint8 {
	if int(a) >= ioCount {
		panic("avr: io index out of range")
	}
	return m.data[ioBase+int(a)]
}

// SetIO writes I/O register a (0-63).
func (m *Memory) SetIO(a uint8, v uint8) {
	if int(a) >= ioCount {
		panic("avr: io index out of range")
	}
	m.data[ioBase+int(a)] = v
}

// GetSRAM reads a raw byte anywhere in the backing array.
func (m *Memory) GetSRAM(addr uint16) uint8 {
	if int(addr) >= len(m.data) {
		panic("avr: sram address out of range")
	}
	return m.data[addr]
}

// SetSRAM writes a raw byte anywhere in the backing array.
func (m *Memory) SetSRAM(addr uint16, v uint8) {
	if int(addr) >= len(m.data) {
		panic("avr: sram address out of range")
	}
	m.data[addr] = v
}

// GetStack reads the byte at stack offset off (added to sramBase).
func (m *Memory) GetStack(off uint16) uint8 {
	return m.GetSRAM(sramBase + off)
}

// SetStack writes the byte at stack offset off (added to sramBase).
func (m *Memory) SetStack(off uint16, v uint8) {
	m.SetSRAM(sramBase+off, v)
}

// Get16 reads a little-endian 16-bit word: low byte at addr, high byte at
// addr+1.
func (m *Memory) Get16(addr uint16) uint16 {
	return uint16(m.GetSRAM(addr)) | uint16(m.GetSRAM(addr+1))<<8
}

// Set16 writes a little-endian 16-bit word.
func (m *Memory) Set16(addr uint16, v uint16) {
	m.SetSRAM(addr, uint8(v))
	m.SetSRAM(addr+1, uint8(v>>8))
}

// SP-coordinate addresses for the 16-bit named accessors, expressed in
// SRAM coordinates (not I/O coordinates).
const (
	addrSP = ioBase + ioSPL // SPL at I/O 61 == SRAM address 93
	addrX  = 26
	addrY  = 28
	addrZ  = 30
)

// SP returns the AVR stack pointer.
func (m *Memory) SP() uint16 { return m.Get16(addrSP) }

// SetSP sets the AVR stack pointer.
func (m *Memory) SetSP(v uint16) { m.Set16(addrSP, v) }

// X returns the X pointer register pair (R26:R27).
func (m *Memory) X() uint16 { return m.Get16(addrX) }

// SetX sets the X pointer register pair.
func (m *Memory) SetX(v uint16) { m.Set16(addrX, v) }

// Y returns the Y pointer register pair (R28:R29).
func (m *Memory) Y() uint16 { return m.Get16(addrY) }

// SetY sets the Y pointer register pair.
func (m *Memory) SetY(v uint16) { m.Set16(addrY, v) }

// Z returns the Z pointer register pair (R30:R31).
func (m *Memory) Z() uint16 { return m.Get16(addrZ) }

// SetZ sets the Z pointer register pair.
func (m *Memory) SetZ(v uint16) { m.Set16(addrZ, v) }

// PC returns the program counter (a 16-bit word address). PC is not
// SRAM-backed: real AVR silicon keeps it in a dedicated register, not in
// the memory map.
func (m *Memory) PC() uint16 { return m.pc }

// SetPC sets the program counter.
func (m *Memory) SetPC(v uint16) { m.pc = v }

// SREGBit reads a single SREG flag.
func (m *Memory) SREGBit(flag Flag) bool {
	return m.GetIO(ioSREG)&(1<<uint(flag)) != 0
}

// SetSREGBit sets a single SREG flag, leaving every other bit untouched.
func (m *Memory) SetSREGBit(flag Flag) {
	m.SetIO(ioSREG, m.GetIO(ioSREG)|(1<<uint(flag)))
}

// ClearSREGBit clears a single SREG flag, leaving every other bit
// untouched.
func (m *Memory) ClearSREGBit(flag Flag) {
	m.SetIO(ioSREG, m.GetIO(ioSREG)&^(1<<uint(flag)))
}

// SetSREGBitValue sets or clears flag according to v.
func (m *Memory) SetSREGBitValue(flag Flag, v bool) {
	if v {
		m.SetSREGBit(flag)
	} else {
		m.ClearSREGBit(flag)
	}
}

func bit8(v uint8, n uint) bool   { return v&(1<<n) != 0 }
func bit16(v uint16, n uint) bool { return v&(1<<n) != 0 }

// UpdateSREG applies the full H/V/N/Z/C/S flag update for an 8-bit
// arithmetic result = lhs OP rhs (ADC folds the carry into result before
// calling this; the subtract-with-borrow variants use
// UpdateSREGKeepZIfResultZero instead).
func UpdateSREG(m *Memory, lhs, rhs, result uint8) {
	l3, r3, res3 := bit8(lhs, 3), bit8(rhs, 3), bit8(result, 3)
	l7, r7, res7 := bit8(lhs, 7), bit8(rhs, 7), bit8(result, 7)

	h := (!l3 && r3) || (r3 && res3) || (res3 && !l3)
	v := (l7 && !r7) || (!l7 && r7 && res7)
	n := res7
	z := result == 0
	c := (!l7 && r7) || (r7 && res7) || (res7 && !l7)

	m.SetSREGBitValue(FlagH, h)
	m.SetSREGBitValue(FlagV, v)
	m.SetSREGBitValue(FlagN, n)
	m.SetSREGBitValue(FlagZ, z)
	m.SetSREGBitValue(FlagC, c)
	m.SetSREGBitValue(FlagS, n != v)
}

// UpdateSREGKeepZIfResultZero applies the same H/V/N/C/S update as
// UpdateSREG, but Z follows SBC/SBCI/CPC's "sticky zero" rule: Z stays
// set only if it was already set AND result is zero; otherwise Z is
// cleared. This lets a 16-bit subtract-with-borrow chain (e.g. a 16-bit
// compare built from two 8-bit CPC) see a true zero only when every byte
// compared equal.
func UpdateSREGKeepZIfResultZero(m *Memory, lhs, rhs, result uint8) {
	l3, r3, res3 := bit8(lhs, 3), bit8(rhs, 3), bit8(result, 3)
	l7, r7, res7 := bit8(lhs, 7), bit8(rhs, 7), bit8(result, 7)

	h := (!l3 && r3) || (r3 && res3) || (res3 && !l3)
	v := (l7 && !r7) || (!l7 && r7 && res7)
	n := res7
	c := (!l7 && r7) || (r7 && res7) || (res7 && !l7)

	wasZ := m.SREGBit(FlagZ)
	z := wasZ && result == 0

	m.SetSREGBitValue(FlagH, h)
	m.SetSREGBitValue(FlagV, v)
	m.SetSREGBitValue(FlagN, n)
	m.SetSREGBitValue(FlagZ, z)
	m.SetSREGBitValue(FlagC, c)
	m.SetSREGBitValue(FlagS, n != v)
}

// UpdateSREG16 applies SBIW's 16-bit flag update: V/N/Z/C/S only (no H),
// computed from the pre-subtract lhs and the post-subtract result.
func UpdateSREG16(m *Memory, lhs, result uint16) {
	l15, res15 := bit16(lhs, 15), bit16(result, 15)

	v := res15 && !l15
	n := res15
	z := result == 0
	c := res15 && !l15

	m.SetSREGBitValue(FlagV, v)
	m.SetSREGBitValue(FlagN, n)
	m.SetSREGBitValue(FlagZ, z)
	m.SetSREGBitValue(FlagC, c)
	m.SetSREGBitValue(FlagS, n != v)
}
