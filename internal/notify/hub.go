package notify

import (
	"sync"

	"portfolio/internal/domain"

	"github.com/sirupsen/logrus"
)

// Sink receives notifications from the hub.
type Sink interface {
	Notify(n domain.Notification)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(n domain.Notification)

func (f SinkFunc) Notify(n domain.Notification) { f(n) }

// Hub fans notifications out to registered sinks. Sinks are registered and
// removed explicitly; a hub with no sinks drops notifications.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	sinks  map[int]Sink
}

func NewHub() *Hub {
	return &Hub{sinks: map[int]Sink{}}
}

// Register adds s and returns the function that removes it again.
func (h *Hub) Register(s Sink) (unregister func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.sinks[id] = s
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.sinks, id)
			h.mu.Unlock()
		})
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sinks)
}

func (h *Hub) Notify(n domain.Notification) {
	h.mu.RLock()
	sinks := make([]Sink, 0, len(h.sinks))
	for _, s := range h.sinks {
		sinks = append(sinks, s)
	}
	h.mu.RUnlock()

	for _, s := range sinks {
		s.Notify(n)
	}
}

// LogSink writes notifications to the log.
type LogSink struct {
	Log logrus.FieldLogger
}

func (s LogSink) Notify(n domain.Notification) {
	entry := s.Log.WithFields(logrus.Fields{"title": n.Title, "severity": n.Severity})
	if n.Severity == domain.SeverityDestructive {
		entry.Warn(n.Description)
		return
	}
	entry.Info(n.Description)
}
