package avr

import (
	"fmt"
	"sync/atomic"
)

// ErrUnknownOpcode is returned (wrapped with the faulting opcode and PC)
// when the Executor fetches a word that matches no instruction pattern.
// This is fatal: there is no recovery path once it happens.
type ErrUnknownOpcode struct {
	PC     uint16
	Opcode uint16
}

func (e *ErrUnknownOpcode) Error() string {
	return fmt.Sprintf("avr: unknown opcode %#04x at PC=%#04x", e.Opcode, e.PC)
}

// Executor fetches, decodes, and executes one instruction per tick. It is
// otherwise stateless: PC lives in Memory.
type Executor struct {
	mem     *Memory
	pending atomic.Bool

	halted atomic.Bool
	err    atomic.Pointer[ErrUnknownOpcode]
}

// NewExecutor creates an Executor bound to mem. Flash is read through mem.
func NewExecutor(mem *Memory) *Executor {
	return &Executor{mem: mem}
}

// NotifyRisingEdge latches the pending flag.
func (e *Executor) NotifyRisingEdge() { e.pending.Store(true) }

// NotifyFallingEdge is a no-op; the Executor only acts on the rising edge.
func (e *Executor) NotifyFallingEdge() {}

// Halted reports whether the executor has stopped after an unknown
// opcode.
func (e *Executor) Halted() bool { return e.halted.Load() }

// Err returns the fatal error that halted the executor, or nil.
func (e *Executor) Err() error {
	if p := e.err.Load(); p != nil {
		return p
	}
	return nil
}

// Run performs one fetch/decode/execute step if pending is set, then
// clears pending. If the executor is already halted, Run does nothing.
func (e *Executor) Run() {
	if !e.pending.CompareAndSwap(true, false) {
		return
	}
	if e.halted.Load() {
		return
	}

	e.mem.Lock()
	defer e.mem.Unlock()

	pc := e.mem.PC()
	offset := pc * 2
	opcode := uint16(e.mem.GetFlash(offset)) | uint16(e.mem.GetFlash(offset+1))<<8

	ins, ok := Decode(opcode)
	if !ok {
		e.err.Store(&ErrUnknownOpcode{PC: pc, Opcode: opcode})
		e.halted.Store(true)
		return
	}

	ins.Exec(e.mem, opcode)
}
