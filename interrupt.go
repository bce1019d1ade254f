package avr

import (
	"log/slog"
	"sync/atomic"
)

// interruptSource describes one entry in the fixed, ordered interrupt
// source list. enabled and occurred read the source's mask/flag bits;
// clear acknowledges it once dispatched.
type interruptSource struct {
	name     string
	vector   uint16
	enabled  func(m *Memory) bool
	occurred func(m *Memory) bool
	clear    func(m *Memory)
}

// interruptSources is scanned in order; the first source that is both
// enabled and pending is dispatched. Timer0 overflow is the only source
// this core implements; the other ATmega8 vectors are reserved
// positions, not modeled.
var interruptSources = []interruptSource{
	{
		name:     "Timer0Ovf",
		vector:   0x0009,
		enabled:  func(m *Memory) bool { return m.GetIO(ioTIMSK)&(1<<tov0Bit) != 0 },
		occurred: func(m *Memory) bool { return m.GetIO(ioTIFR)&(1<<tov0Bit) != 0 },
		clear:    func(m *Memory) { m.SetIO(ioTIFR, m.GetIO(ioTIFR)&^(1<<tov0Bit)) },
	},
}

// InterruptHandler scans interruptSources on each tick and dispatches at
// most one: it clears SREG.I, clears the source's pending flag, pushes
// PC, and redirects PC to the source's vector.
type InterruptHandler struct {
	mem     *Memory
	pending atomic.Bool
}

// NewInterruptHandler creates an InterruptHandler bound to mem.
func NewInterruptHandler(mem *Memory) *InterruptHandler {
	return &InterruptHandler{mem: mem}
}

// NotifyRisingEdge latches the pending flag.
func (h *InterruptHandler) NotifyRisingEdge() {
	if h.pending.Load() {
		slog.Warn("interrupt handler did not finish handling previous rising edge")
	}
	h.pending.Store(true)
}

// NotifyFallingEdge is a no-op; the InterruptHandler only acts on the
// rising edge.
func (h *InterruptHandler) NotifyFallingEdge() {}

// Run consumes the pending flag if set. With SREG.I clear it does
// nothing. Otherwise it scans interruptSources in order and dispatches
// the first source that is both enabled and pending; if none qualify,
// it does nothing.
func (h *InterruptHandler) Run() {
	if !h.pending.CompareAndSwap(true, false) {
		return
	}

	h.mem.Lock()
	defer h.mem.Unlock()

	if !h.mem.SREGBit(FlagI) {
		return
	}

	for _, src := range interruptSources {
		if src.enabled(h.mem) && src.occurred(h.mem) {
			h.dispatch(src)
			return
		}
	}
}

// dispatch pushes PC (high byte at SP-1, low byte at SP, matching
// RCALL's push order), clears SREG.I, clears the source's pending
// flag, and sets PC to the vector.
func (h *InterruptHandler) dispatch(src interruptSource) {
	h.mem.ClearSREGBit(FlagI)
	src.clear(h.mem)

	pc := h.mem.PC()
	sp := h.mem.SP()
	h.mem.SetStack(sp-1, uint8(pc>>8))
	h.mem.SetStack(sp, uint8(pc))
	h.mem.SetSP(sp - 2)

	h.mem.SetPC(src.vector)
}
