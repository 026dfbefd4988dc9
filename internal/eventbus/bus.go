package eventbus

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const (
	TypeOpened = "hours.opened"
	TypeClosed = "hours.closed"
)

// Event is an in-memory signal, e.g. an opening-hours transition.
//
// Contract:
//   - Publish never blocks.
//   - Subscribers get buffered channels.
//   - Slow subscribers drop events.
type Event struct {
	ID   string
	Type string
	Time time.Time
	Data any
}

// Transition is the Data of TypeOpened and TypeClosed events.
type Transition struct {
	Open bool
	At   time.Time
	// Next is the following transition, zero when none was found.
	Next time.Time
}

type Bus interface {
	Publish(e Event)
	Subscribe(buffer int) (ch <-chan Event, unsubscribe func())
}

// New returns an in-memory fanout bus. It owns no goroutines.
func New() Bus {
	return &memBus{subs: map[uint64]chan Event{}}
}

type memBus struct {
	mu   sync.RWMutex
	subs map[uint64]chan Event
	seq  atomic.Uint64
}

// Publish fills in a missing ID and Time, then offers e to every subscriber.
func (b *memBus) Publish(e Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	b.mu.RLock()
	chs := make([]chan Event, 0, len(b.subs))
	for _, ch := range b.subs {
		chs = append(chs, ch)
	}
	b.mu.RUnlock()

	for _, ch := range chs {
		// A concurrent unsubscribe may close ch.
		func() {
			defer func() { _ = recover() }()
			select {
			case ch <- e:
			default:
			}
		}()
	}
}

func (b *memBus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 8
	}
	ch := make(chan Event, buffer)
	id := b.seq.Add(1)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, unsub
}
