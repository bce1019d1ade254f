package avr

import "time"

// Subscriber is a clock-paced component: it latches a pending flag on the
// clock's rising edge, ignores the falling edge, and performs one unit of
// work when Run is called.
type Subscriber interface {
	NotifyRisingEdge()
	NotifyFallingEdge()
	Run()
}

// Clock emits rising/falling edges at a fixed half-cycle period and fans
// them out to every registered Subscriber in registration order.
type Clock struct {
	halfCycle   time.Duration
	subscribers []Subscriber
}

// NewClock creates a Clock ticking at frequencyHz. Half-cycle period is
// 1/(2*frequencyHz).
func NewClock(frequencyHz float64) *Clock {
	period := time.Duration(float64(time.Second) / frequencyHz / 2)
	return &Clock{halfCycle: period}
}

// Subscribe registers s to receive edge notifications. Subscribers fire in
// registration order on each edge.
func (c *Clock) Subscribe(s Subscriber) {
	c.subscribers = append(c.subscribers, s)
}

// RunOneCycle sleeps a half-cycle, broadcasts the rising edge, sleeps a
// half-cycle, then broadcasts the falling edge (informational only in
// this design — no subscriber acts on it).
func (c *Clock) RunOneCycle() {
	time.Sleep(c.halfCycle)
	for _, s := range c.subscribers {
		s.NotifyRisingEdge()
	}

	time.Sleep(c.halfCycle)
	for _, s := range c.subscribers {
		s.NotifyFallingEdge()
	}
}
