package tracking

import "sync"

// Visibility is the foreground state of a task as reported by the client.
type Visibility int

const (
	Visible Visibility = iota
	Hidden
)

func (v Visibility) String() string {
	if v == Hidden {
		return "hidden"
	}
	return "visible"
}

// Unsubscribe stops delivery to a subscriber. Calling it more than once is safe.
type Unsubscribe func()

// VisibilitySource delivers visibility changes to subscribers.
type VisibilitySource interface {
	Subscribe(fn func(Visibility)) (Unsubscribe, error)
}

// VisibilityHub is an in-process VisibilitySource fed by Publish. The HTTP
// layer keeps one hub per task session.
type VisibilityHub struct {
	mu          sync.RWMutex
	nextID      int
	subscribers map[int]func(Visibility)
}

func NewVisibilityHub() *VisibilityHub {
	return &VisibilityHub{subscribers: make(map[int]func(Visibility))}
}

func (h *VisibilityHub) Subscribe(fn func(Visibility)) (Unsubscribe, error) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subscribers[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers, id)
			h.mu.Unlock()
		})
	}, nil
}

// Publish delivers v to every current subscriber.
func (h *VisibilityHub) Publish(v Visibility) {
	h.mu.RLock()
	fns := make([]func(Visibility), 0, len(h.subscribers))
	for _, fn := range h.subscribers {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Subscribers returns the number of live subscriptions.
func (h *VisibilityHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
