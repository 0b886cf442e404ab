package retained

import "sync"

// ListenerID identifies a listener registered on a ClickEvent.
type ListenerID uint64

type clickListener struct {
	id ListenerID
	fn func()
}

// ClickEvent is an ordered list of no-argument listeners. The zero value is
// ready to use.
type ClickEvent struct {
	mu        sync.RWMutex
	nextID    ListenerID
	listeners []clickListener
}

// AddListener appends fn and returns a handle for RemoveListener.
// Adding the same function twice registers it twice.
func (e *ClickEvent) AddListener(fn func()) ListenerID {
	if fn == nil {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	e.listeners = append(e.listeners, clickListener{id: e.nextID, fn: fn})
	return e.nextID
}

// RemoveListener removes the listener with the given id. It reports whether
// a listener was removed.
func (e *ClickEvent) RemoveListener(id ListenerID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAllListeners clears the list.
func (e *ClickEvent) RemoveAllListeners() {
	e.mu.Lock()
	e.listeners = nil
	e.mu.Unlock()
}

// Len returns the number of registered listeners.
func (e *ClickEvent) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners)
}

// Invoke calls every listener in registration order on the caller's
// goroutine. Listeners added or removed during Invoke take effect on the next
// call. A panicking listener aborts the remaining calls and the panic
// propagates to the caller.
func (e *ClickEvent) Invoke() {
	// Copy under lock, call outside it so listeners may edit the list
	e.mu.RLock()
	snapshot := make([]func(), len(e.listeners))
	for i, l := range e.listeners {
		snapshot[i] = l.fn
	}
	e.mu.RUnlock()

	for _, fn := range snapshot {
		fn()
	}
}
