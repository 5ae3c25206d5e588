// Package observable provides a value cell that pushes its current state to
// subscribers: a new subscriber immediately receives the latest value, then
// every subsequent Set in the order the Sets happened.
package observable

import "sync"

// Value holds the latest published T.
//
// Subscriber callbacks run synchronously on the goroutine calling Set (or
// Subscribe, for the initial replay) and are serialized, so no two
// notifications interleave. A callback must not call Set on the same Value.
type Value[T any] struct {
	pub sync.Mutex // serializes notifications

	mu     sync.RWMutex
	cur    T
	nextID int
	subs   map[int]func(T)
}

// New returns a Value holding initial.
func New[T any](initial T) *Value[T] {
	return &Value[T]{cur: initial, subs: make(map[int]func(T))}
}

// Get returns the latest value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cur
}

// Set publishes x to every subscriber.
func (v *Value[T]) Set(x T) {
	v.pub.Lock()
	defer v.pub.Unlock()

	v.mu.Lock()
	v.cur = x
	fns := make([]func(T), 0, len(v.subs))
	for id := 0; id < v.nextID; id++ {
		if fn, ok := v.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn(x)
	}
}

// Subscribe registers fn, replays the current value to it and returns a
// function that removes the subscription.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	v.pub.Lock()
	defer v.pub.Unlock()

	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.subs[id] = fn
	cur := v.cur
	v.mu.Unlock()

	fn(cur)

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
		})
	}
}
