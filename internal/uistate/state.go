// Package uistate holds the Loading | Success | Error result shown by screens.
package uistate

import "sync"

// State is one of Loading, Success or Error. Match it with a type switch.
type State interface {
	state()
}

type Loading struct{}

type Success struct {
	Message        string
	IsRegistration bool
}

type Error struct {
	Message string
}

func (Loading) state() {}
func (Success) state() {}
func (Error) state()   {}

// Kind names the variant, for logs and JSON.
func Kind(s State) string {
	switch s.(type) {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	}
	return "unknown"
}

// Message returns the text carried by Success or Error.
func Message(s State) string {
	switch v := s.(type) {
	case Success:
		return v.Message
	case Error:
		return v.Message
	}
	return ""
}

// IsTerminal reports whether s ends an operation.
func IsTerminal(s State) bool {
	switch s.(type) {
	case Success, Error:
		return true
	}
	return false
}

// Holder is the observable current state. Writers race; the last Set wins.
type Holder struct {
	mu      sync.RWMutex
	current State
	subs    map[int]chan State
	nextID  int
}

func NewHolder() *Holder {
	return &Holder{current: Loading{}, subs: make(map[int]chan State)}
}

func (h *Holder) Current() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Set publishes s to every subscriber. Slow subscribers miss updates
// rather than block the writer.
func (h *Holder) Set(s State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = s
	for _, ch := range h.subs {
		select {
		case ch <- s:
		default:
		}
	}
}

// Subscribe returns a channel of future states and a function that
// unsubscribes and closes it.
func (h *Holder) Subscribe(buffer int) (<-chan State, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan State, buffer)
	h.subs[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
}
