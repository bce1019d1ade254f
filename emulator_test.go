package avr

import (
	"context"
	"testing"
	"time"
)

func TestNewRejectsUndersizedMemory(t *testing.T) {
	if _, err := New(nil, 10, 1_000_000); err == nil {
		t.Fatalf("expected error for undersized memory")
	}
}

func TestRunStopsOnUnknownOpcode(t *testing.T) {
	flash := []byte{0xff, 0xff}
	emu, err := New(flash, 200, 5_000_000)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err = emu.Run(ctx)
	if err == nil {
		t.Fatalf("expected ErrUnknownOpcode, got nil")
	}
	if _, ok := err.(*ErrUnknownOpcode); !ok {
		t.Fatalf("Run() error = %T, want *ErrUnknownOpcode", err)
	}
}

func TestRunStopsOnExplicitStop(t *testing.T) {
	flash := []byte{0x00, 0x00, 0xfe, 0xcf} // NOP loop, never halts on its own
	emu, err := New(flash, 200, 5_000_000)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	done := make(chan error, 1)
	go func() { done <- emu.Run(ctx) }()

	time.Sleep(5 * time.Millisecond)
	emu.Stop()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil after explicit Stop", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after Stop")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	flash := []byte{0x00, 0x00, 0xfe, 0xcf}
	emu, err := New(flash, 200, 5_000_000)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- emu.Run(ctx) }()

	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after context cancel")
	}
}

func TestMemoryExposesInspectionHook(t *testing.T) {
	emu, err := New(nil, 200, 1_000_000)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	emu.Memory().SetRegister(5, 42)
	if got := emu.Memory().GetRegister(5); got != 42 {
		t.Errorf("Memory().GetRegister(5) = %d, want 42", got)
	}
}
