package events

import (
	"sync"

	"github.com/google/uuid"

	"github.com/hoyle1974/timeslider/misc"
)

// Hub fans events out to subscribers, keyed by uuid.  Delivery follows
// subscription order.  The lock is never held during a callback, so a
// handler may subscribe, unsubscribe or publish from inside a delivery.
type Hub struct {
	lock sync.Mutex
	subs []subscriber
}

type subscriber struct {
	id uuid.UUID
	fn func(Event)
}

func NewHub() *Hub {
	return &Hub{}
}

// Subscribe registers fn and returns its handle.  A nil fn is not
// registered and gets the zero uuid back.
func (h *Hub) Subscribe(fn func(Event)) uuid.UUID {
	if fn == nil {
		return uuid.Nil
	}
	id := uuid.New()
	h.lock.Lock()
	defer h.lock.Unlock()
	h.subs = append(h.subs, subscriber{id: id, fn: fn})
	return id
}

// Unsubscribe removes the handler for id.  Unknown ids are ignored.
func (h *Hub) Unsubscribe(id uuid.UUID) {
	h.lock.Lock()
	defer h.lock.Unlock()
	for i, s := range h.subs {
		if s.id == id {
			h.subs = append(h.subs[:i], h.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers e to every subscriber registered at the time of the
// call.  Handlers added during delivery only see later events.
func (h *Hub) Publish(e Event) {
	h.lock.Lock()
	subs := misc.DeepCopyArray(h.subs)
	h.lock.Unlock()

	for _, s := range subs {
		s.fn(e)
	}
}
