package store

import "sync"

// dispatcher runs the notifications of one panel one at a time, in the order
// they were emitted. A notification emitted while another is being delivered
// is queued; the goroutine that started delivering drains the queue before it
// returns.
type dispatcher struct {
	mu       sync.Mutex
	queue    []func()
	draining bool
}

// dispatch queues fns back to back, so notifications of one operation are
// never split by those of another.
func (d *dispatcher) dispatch(fns ...func()) {
	d.mu.Lock()
	d.queue = append(d.queue, fns...)
	if d.draining {
		d.mu.Unlock()
		return
	}
	d.draining = true

	for len(d.queue) > 0 {
		next := d.queue[0]
		d.queue[0] = nil
		d.queue = d.queue[1:]
		d.mu.Unlock()
		next()
		d.mu.Lock()
	}
	d.queue = nil
	d.draining = false
	d.mu.Unlock()
}

type listener[T any] struct {
	id uint64
	fn func(T)
}

// broadcaster delivers values to its listeners in subscription order. Each
// delivery works on a snapshot taken when it starts, so listeners added or
// removed while it runs only see the next one.
type broadcaster[T any] struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []listener[T]
	closed    bool

	// queue orders deliveries with the other broadcasters of the panel; nil
	// delivers on the emitting call.
	queue *dispatcher
	// clone, when set, gives every listener its own copy of the value.
	clone func(T) T
}

func newBroadcaster[T any](queue *dispatcher) *broadcaster[T] {
	return &broadcaster[T]{queue: queue}
}

// add registers fn and returns an idempotent unsubscribe.
func (b *broadcaster[T]) add(fn func(T)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return func() {}
	}
	id := b.nextID
	b.nextID++
	b.listeners = append(b.listeners, listener[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *broadcaster[T]) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, l := range b.listeners {
		if l.id == id {
			b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
			return
		}
	}
}

func (b *broadcaster[T]) emit(v T) {
	if b.queue == nil {
		b.deliver(v)
		return
	}
	b.queue.dispatch(b.delivery(v))
}

// delivery returns the delivery of v, for dispatching with other broadcasts.
func (b *broadcaster[T]) delivery(v T) func() {
	return func() { b.deliver(v) }
}

func (b *broadcaster[T]) deliver(v T) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	snapshot := make([]listener[T], len(b.listeners))
	copy(snapshot, b.listeners)
	b.mu.Unlock()

	for _, l := range snapshot {
		// A listener may unregister the panel; stop delivering once it has.
		if b.isClosed() {
			return
		}
		if b.clone != nil {
			l.fn(b.clone(v))
			continue
		}
		l.fn(v)
	}
}

func (b *broadcaster[T]) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func (b *broadcaster[T]) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}

// close drops every listener; later adds and emits are no-ops.
func (b *broadcaster[T]) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.listeners = nil
}
