// Package notify delivers configuration change events to registered
// subscribers. Delivery is synchronous and in subscription order on the
// mutating goroutine: one event per mutation, no batching, no
// coalescing. Subscribers must stay cheap.
package notify

import (
	"sync"

	"github.com/google/uuid"

	"github.com/joss/agentconf/internal/domain"
	"github.com/joss/agentconf/internal/ident"
	"github.com/joss/agentconf/internal/scope"
)

// Type identifies what changed.
type Type string

const (
	SettingsChanged     Type = "settings.changed"
	ArtifactCreated     Type = "artifact.created"
	ArtifactUpdated     Type = "artifact.updated"
	ArtifactDeleted     Type = "artifact.deleted"
	InstructionsChanged Type = "instructions.changed"
)

// Event describes one completed mutation. Settings carries the affected
// scope's document as loaded after the mutation; Kind and Name are set
// for artifact events. Handle is a fresh per-delivery id, never
// persisted; it only identifies one notification cycle.
type Event struct {
	Handle   string
	Type     Type
	Scope    scope.Scope
	Kind     domain.Kind
	Name     string
	Settings *domain.Settings
}

// Handler receives events.
type Handler func(Event)

// Broker fans one event out to every subscriber. Subscribing returns an
// unsubscribe function; the broker holds no other lifecycle awareness of
// its subscribers.
type Broker struct {
	mu    sync.Mutex
	order []string
	subs  map[string]Handler
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[string]Handler)}
}

// Subscribe registers a handler and returns its unsubscribe function.
// Calling the returned function more than once is harmless.
func (b *Broker) Subscribe(fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := uuid.NewString()
	b.order = append(b.order, id)
	b.subs[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[id]; !ok {
			return
		}
		delete(b.subs, id)
		for i, got := range b.order {
			if got == id {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
	}
}

// Publish invokes every subscriber with the event, in subscription
// order, before returning. Handlers run outside the broker lock so they
// may subscribe or unsubscribe; such changes take effect for the next
// event.
func (b *Broker) Publish(e Event) {
	if e.Handle == "" {
		e.Handle = ident.NewHandle()
	}
	b.mu.Lock()
	handlers := make([]Handler, 0, len(b.order))
	for _, id := range b.order {
		if fn, ok := b.subs[id]; ok {
			handlers = append(handlers, fn)
		}
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(e)
	}
}

// Len reports the number of active subscribers.
func (b *Broker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
