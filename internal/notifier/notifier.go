// Package notifier broadcasts project reload events to live subscribers.
package notifier

import "sync"

// Event announces that a new project snapshot is current.
type Event struct {
	ProjectID string `json:"project_id"`
}

// Notifier fans reload events out to all subscribed listeners. Each listener
// holds at most one pending event; a newer event replaces an unread one, so a
// slow listener only ever sees the latest snapshot.
type Notifier struct {
	mu        sync.Mutex
	listeners map[chan Event]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan Event]struct{}),
	}
}

// Subscribe returns a channel that receives reload events.
// The caller must call Unsubscribe when done to prevent goroutine leaks.
func (n *Notifier) Subscribe() <-chan Event {
	ch := make(chan Event, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it. Unknown or already
// removed channels are ignored.
func (n *Notifier) Unsubscribe(sub <-chan Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for ch := range n.listeners {
		if (<-chan Event)(ch) == sub {
			delete(n.listeners, ch)
			close(ch)
			return
		}
	}
}

// Broadcast delivers ev to every listener without blocking.
func (n *Notifier) Broadcast(ev Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for ch := range n.listeners {
		select {
		case ch <- ev:
			continue
		default:
		}
		// drop the stale event and retry; the mutex keeps other senders out
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- ev:
		default:
		}
	}
}

// Len returns the number of subscribed listeners.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners)
}
