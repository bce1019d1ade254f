package avr

import "testing"

func tickTimer(timer *Timer, n int) {
	for i := 0; i < n; i++ {
		timer.NotifyRisingEdge()
		timer.Run()
	}
}

func TestTimerPrescalerTable(t *testing.T) {
	m, err := NewMemory(200, nil)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	timer := NewTimer(m)

	want := map[uint8]uint32{0: 0, 1: 1, 2: 8, 3: 64, 4: 256, 5: 1024, 6: 0, 7: 0}
	for tccr0, divisor := range want {
		m.SetIO(ioTCCR0, tccr0)
		if got := timer.prescaler(); got != divisor {
			t.Errorf("TCCR0=%d: prescaler() = %d, want %d", tccr0, got, divisor)
		}
	}
}

func TestTimerOffPrescalerDoesNotCount(t *testing.T) {
	m, err := NewMemory(200, nil)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	timer := NewTimer(m)

	tickTimer(timer, 10)

	if got := m.GetIO(ioTCNT0); got != 0 {
		t.Errorf("TCNT0 = %d, want 0", got)
	}
	if got := m.GetIO(ioTIFR); got != 0 {
		t.Errorf("TIFR = %d, want 0", got)
	}
}

// Scenario E / invariant 8: prescaler=1, TCNT0=0; after 256 ticks TCNT0
// wraps to 0 and TOV0 (TIFR bit 0) is set.
func TestTimerOverflowAtPrescalerOne(t *testing.T) {
	m, err := NewMemory(200, nil)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	m.SetIO(ioTCCR0, 1)
	timer := NewTimer(m)

	tickTimer(timer, 255)
	if got := m.GetIO(ioTCNT0); got != 255 {
		t.Fatalf("after 255 ticks: TCNT0 = %d, want 255", got)
	}
	if got := m.GetIO(ioTIFR); got != 0 {
		t.Fatalf("after 255 ticks: TIFR = %d, want 0", got)
	}

	tickTimer(timer, 1)
	if got := m.GetIO(ioTCNT0); got != 0 {
		t.Errorf("after 256 ticks: TCNT0 = %d, want 0", got)
	}
	if got := m.GetIO(ioTIFR) & 1; got != 1 {
		t.Errorf("after 256 ticks: TIFR bit 0 = %d, want 1", got)
	}
}

func TestTimerOverflowAtPrescalerEight(t *testing.T) {
	m, err := NewMemory(200, nil)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	m.SetIO(ioTCCR0, 2)
	timer := NewTimer(m)

	tickTimer(timer, 255*8)

	if got := m.GetIO(ioTCNT0); got != 255 {
		t.Errorf("TCNT0 = %d, want 255", got)
	}
	if got := m.GetIO(ioTIFR); got != 0 {
		t.Errorf("TIFR = %d, want 0", got)
	}
}

func TestTimerFallingEdgeIsNoOp(t *testing.T) {
	m, err := NewMemory(200, nil)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	m.SetIO(ioTCCR0, 1)
	timer := NewTimer(m)

	for i := 0; i < 10; i++ {
		timer.NotifyFallingEdge()
		timer.Run()
	}

	if got := m.GetIO(ioTCNT0); got != 0 {
		t.Errorf("TCNT0 = %d, want 0", got)
	}
}
