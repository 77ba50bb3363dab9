// Package event defines the game event vocabulary and the tick-drained queue
// that carries it.
package event

import "sync"

// GameEvent is an immutable tagged value. Payload holds the struct documented
// for Type.
type GameEvent struct {
	Type    Type
	Payload any
	Seq     uint64
}

// Emitter accepts events from producers.
type Emitter interface {
	Emit(ev GameEvent)
}

// Bus is a FIFO of events. It knows nothing about event meaning and never
// invokes consumers.
type Bus struct {
	mu    sync.Mutex
	queue []GameEvent
	seq   uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Emit appends ev to the queue and stamps its sequence number.
func (b *Bus) Emit(ev GameEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	ev.Seq = b.seq
	b.queue = append(b.queue, ev)
}

// Drain removes and returns every queued event in emission order.
func (b *Bus) Drain() []GameEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queue) == 0 {
		return nil
	}
	out := b.queue
	b.queue = nil
	return out
}

// Len returns the number of queued events.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// New builds an event of type t with payload p.
func New(t Type, p any) GameEvent {
	return GameEvent{Type: t, Payload: p}
}
