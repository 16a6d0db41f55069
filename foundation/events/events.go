// Package events lets any number of subscribers receive a copy of every
// log-worthy string the node produces, without the producer needing to know
// who, if anyone, is listening.
package events

import (
	"fmt"
	"sync"
)

// messageBuffer bounds how far behind a slow subscriber can fall before
// Send starts dropping messages to it rather than blocking the producer.
const messageBuffer = 100

// Events fans a stream of strings out to any number of subscriber channels,
// keyed by an id the subscriber chooses (typically a websocket connection
// id).
type Events struct {
	mu          sync.RWMutex
	subscribers map[string]chan string
}

// New constructs an empty fan-out.
func New() *Events {
	return &Events{
		subscribers: make(map[string]chan string),
	}
}

// Subscribe registers id and returns the channel it will receive messages
// on. Calling Subscribe again with the same id returns the existing
// channel rather than creating a second one.
func (e *Events) Subscribe(id string) chan string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ch, exists := e.subscribers[id]; exists {
		return ch
	}

	ch := make(chan string, messageBuffer)
	e.subscribers[id] = ch
	return ch
}

// Unsubscribe closes and removes id's channel. It returns an error if id
// is not subscribed.
func (e *Events) Unsubscribe(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch, exists := e.subscribers[id]
	if !exists {
		return fmt.Errorf("events: subscriber %q does not exist", id)
	}

	delete(e.subscribers, id)
	close(ch)
	return nil
}

// Send delivers s to every current subscriber without blocking: a
// subscriber whose buffer is full simply misses the message.
func (e *Events) Send(s string) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, ch := range e.subscribers {
		select {
		case ch <- s:
		default:
		}
	}
}

// Shutdown closes and removes every subscriber channel.
func (e *Events) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for id, ch := range e.subscribers {
		delete(e.subscribers, id)
		close(ch)
	}
}
