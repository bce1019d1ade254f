package avr

import (
	"context"
	"sync"
	"sync/atomic"
)

// Emulator assembles a Memory, its flash image, and the three
// clock-paced subsystems (Executor, Timer, InterruptHandler) into a
// running session. Subscribers register with the Clock in the order
// Executor, Timer, InterruptHandler.
type Emulator struct {
	mem   *Memory
	flash []byte

	frequencyHz float64
	clock       *Clock
	executor    *Executor
	timer       *Timer
	interrupts  *InterruptHandler

	stop atomic.Bool
}

// New builds an Emulator over a flash image of memorySize bytes of
// unified address space, ticking at frequencyHz.
func New(flash []byte, memorySize int, frequencyHz float64) (*Emulator, error) {
	mem, err := NewMemory(memorySize, flash)
	if err != nil {
		return nil, err
	}

	e := &Emulator{
		mem:         mem,
		flash:       flash,
		frequencyHz: frequencyHz,
		clock:       NewClock(frequencyHz),
		executor:    NewExecutor(mem),
		timer:       NewTimer(mem),
		interrupts:  NewInterruptHandler(mem),
	}

	e.clock.Subscribe(e.executor)
	e.clock.Subscribe(e.timer)
	e.clock.Subscribe(e.interrupts)

	return e, nil
}

// Memory exposes the emulator's address space for inspection by tests
// and the CLI driver. Concurrent reads while Run is active are not
// synchronized against the running subscribers; callers that need a
// consistent snapshot should Stop first.
func (e *Emulator) Memory() *Memory { return e.mem }

// Stop requests that Run's goroutines exit after their current
// iteration. Safe to call from any goroutine, any number of times.
func (e *Emulator) Stop() { e.stop.Store(true) }

// Run spawns one goroutine per Subscriber plus the clock goroutine and
// blocks until ctx is cancelled, Stop is called, or the executor halts
// on an unknown opcode. Each goroutine polls the stop flag (and, for
// the clock goroutine, ctx.Done) once per loop iteration, one goroutine
// per subscriber plus a clock goroutine.
func (e *Emulator) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		for !e.stop.Load() {
			e.executor.Run()
			if e.executor.Halted() {
				e.Stop()
				return
			}
		}
	}()

	go func() {
		defer wg.Done()
		for !e.stop.Load() {
			e.timer.Run()
		}
	}()

	go func() {
		defer wg.Done()
		for !e.stop.Load() {
			e.interrupts.Run()
		}
	}()

	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				e.Stop()
				return
			default:
			}
			if e.stop.Load() {
				return
			}
			e.clock.RunOneCycle()
		}
	}()

	wg.Wait()

	if err := e.executor.Err(); err != nil {
		return err
	}
	return ctx.Err()
}
