package generic

import "sync"

// Hub fans values out to subscribers. Listeners run synchronously on the
// publishing goroutine, so a slow listener should hand off to its own
// goroutine or channel.
type Hub[T any] struct {
	mu        sync.RWMutex
	listeners map[int]func(T)
	next      int
}

// Subscribe registers fn and returns a function that removes it.
func (h *Hub[T]) Subscribe(fn func(T)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listeners == nil {
		h.listeners = make(map[int]func(T))
	}
	id := h.next
	h.next++
	h.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.listeners, id)
		})
	}
}

// Publish delivers values in order to every current listener.
func (h *Hub[T]) Publish(values ...T) {
	if len(values) == 0 {
		return
	}
	h.mu.RLock()
	fns := make([]func(T), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	for _, v := range values {
		for _, fn := range fns {
			fn(v)
		}
	}
}

// Len returns the number of listeners.
func (h *Hub[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}
