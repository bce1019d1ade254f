package avr

import (
	"log/slog"
	"sync/atomic"
)

// prescalerDivisors maps a TCCR0 value to its Timer/Counter 0 divisor.
// Index 0 and any value above 5 disable the timer.
var prescalerDivisors = [8]uint32{0: 0, 1: 1, 2: 8, 3: 64, 4: 256, 5: 1024, 6: 0, 7: 0}

// Timer models Timer/Counter 0: TCCR0 selects a prescaler, TCNT0 counts
// system clocks divided by that prescaler, and overflow sets TOV0 in
// TIFR bit 0. Timer never writes SREG.
type Timer struct {
	mem     *Memory
	pending atomic.Bool

	cycleCounter uint32
}

// NewTimer creates a Timer bound to mem.
func NewTimer(mem *Memory) *Timer {
	return &Timer{mem: mem}
}

// NotifyRisingEdge latches the pending flag. A rising edge that arrives
// before the previous one was consumed indicates the timer fell behind
// the clock; it is logged but otherwise harmless since pending merely
// stays set.
func (t *Timer) NotifyRisingEdge() {
	if t.pending.Load() {
		slog.Warn("timer did not finish handling previous rising edge")
	}
	t.pending.Store(true)
}

// NotifyFallingEdge is a no-op; the Timer only acts on the rising edge.
func (t *Timer) NotifyFallingEdge() {}

func (t *Timer) prescaler() uint32 {
	return prescalerDivisors[t.mem.GetIO(ioTCCR0)&7]
}

func (t *Timer) incrementTCNT0() {
	if t.mem.GetIO(ioTCNT0) == 255 {
		t.mem.SetIO(ioTCNT0, 0)
		t.mem.SetIO(ioTIFR, t.mem.GetIO(ioTIFR)|(1<<tov0Bit))
		return
	}
	t.mem.SetIO(ioTCNT0, t.mem.GetIO(ioTCNT0)+1)
}

// Run consumes the pending flag if set. With the prescaler off it clears
// pending and returns. Otherwise it advances cycleCounter and, once it
// reaches (or has overshot, guarding against a prescaler changed mid
// count) the prescaler value, resets the counter and performs one count
// step on TCNT0.
func (t *Timer) Run() {
	if !t.pending.CompareAndSwap(true, false) {
		return
	}

	t.mem.Lock()
	defer t.mem.Unlock()

	prescaler := t.prescaler()
	if prescaler == 0 {
		return
	}

	t.cycleCounter++
	if t.cycleCounter%prescaler == 0 || t.cycleCounter > prescaler {
		t.cycleCounter = 0
		t.incrementTCNT0()
	}
}
