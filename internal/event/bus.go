package event

import (
	"reflect"
	"sync"
)

// Handler consumes one lifecycle event.
type Handler func(Event)

// Bus is a synchronous publish/subscribe channel for one zone. Handlers for
// a single type fire in subscription order; no ordering is promised across
// types beyond emission order.
type Bus struct {
	mu      sync.Mutex
	nextID  int
	entries map[Type][]entry
}

type entry struct {
	id    int
	fn    Handler
	fnPtr uintptr
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{entries: make(map[Type][]entry)}
}

// On subscribes a handler to one event type and returns its unsubscribe
// function. The returned function is idempotent.
func (b *Bus) On(t Type, fn Handler) func() {
	if fn == nil {
		return func() {}
	}
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.entries[t] = append(b.entries[t], entry{
		id:    id,
		fn:    fn,
		fnPtr: reflect.ValueOf(fn).Pointer(),
	})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.removeID(t, id) })
	}
}

// Off removes every subscription of fn for the type. Identity is the
// function pointer, so the same named function or stored closure passed to
// On can be passed to Off.
func (b *Bus) Off(t Type, fn Handler) {
	if fn == nil {
		return
	}
	ptr := reflect.ValueOf(fn).Pointer()
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.entries[t][:0]
	for _, e := range b.entries[t] {
		if e.fnPtr != ptr {
			kept = append(kept, e)
		}
	}
	b.entries[t] = kept
}

// Emit delivers the event to every handler subscribed to its type. The
// handler list is snapshotted first, so a handler that subscribes or
// unsubscribes others during emission cannot corrupt iteration; handlers
// removed mid-emission still receive the current event.
func (b *Bus) Emit(evt Event) {
	b.mu.Lock()
	snapshot := make([]Handler, 0, len(b.entries[evt.Type]))
	for _, e := range b.entries[evt.Type] {
		snapshot = append(snapshot, e.fn)
	}
	b.mu.Unlock()

	for _, fn := range snapshot {
		fn(evt)
	}
}

// HandlerCount returns the number of live subscriptions for the type.
func (b *Bus) HandlerCount(t Type) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries[t])
}

// Clear removes every subscription. Used when a zone is destroyed.
func (b *Bus) Clear() {
	b.mu.Lock()
	b.entries = make(map[Type][]entry)
	b.mu.Unlock()
}

func (b *Bus) removeID(t Type, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.entries[t][:0]
	for _, e := range b.entries[t] {
		if e.id != id {
			kept = append(kept, e)
		}
	}
	b.entries[t] = kept
}
