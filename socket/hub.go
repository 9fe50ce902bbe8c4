// Package socket pushes entity-change events to connected dashboards so they
// can invalidate their caches the moment an admin mutates content, instead of
// waiting for a staleness window to lapse.
package socket

import (
	"encoding/json"
	"sync"

	"talentbridge/pkg/logger"
)

const (
	EventCreated = "CREATED"
	EventUpdated = "UPDATED"
	EventDeleted = "DELETED"

	// TopicAll subscribes a client to every collection.
	TopicAll = "*"
)

// Event describes one mutation of one entity.
type Event struct {
	Type       string          `json:"type"`
	Collection string          `json:"collection"`
	ID         string          `json:"id"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// Publisher is what mutation handlers need from the hub.
type Publisher interface {
	Publish(e Event)
}

// Hub fans events out to subscribed clients. All bookkeeping happens on the
// Run goroutine's channels; the mutex only guards the topic maps.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan Event

	mu     sync.Mutex
	topics map[string]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan Event, 16),
		topics:     make(map[string]map[*Client]bool),
	}
}

// Publish hands an event to the broadcast loop.
func (h *Hub) Publish(e Event) {
	h.Broadcast <- e
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			for _, topic := range client.Topics {
				if h.topics[topic] == nil {
					h.topics[topic] = make(map[*Client]bool)
				}
				h.topics[topic][client] = true
			}
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.drop(client)

		case event := <-h.Broadcast:
			payload, err := json.Marshal(event)
			if err != nil {
				logger.Sugar.Errorf("Error marshalling broadcast event: %v", err)
				continue
			}

			// Collect recipients under the lock, write outside it.
			h.mu.Lock()
			seen := make(map[*Client]bool)
			var recipients []*Client
			for _, topic := range []string{event.Collection, TopicAll} {
				for client := range h.topics[topic] {
					if !seen[client] {
						seen[client] = true
						recipients = append(recipients, client)
					}
				}
			}
			h.mu.Unlock()

			for _, client := range recipients {
				select {
				case client.Send <- payload:
				default:
					// A full send buffer means the client is lagging;
					// drop it rather than block the hub. Done inline: the
					// Unregister channel is serviced by this same loop.
					logger.Sugar.Warnf("Dropping lagging feed client %s", client.RemoteAddr)
					h.drop(client)
				}
			}
		}
	}
}

// drop removes the client from every topic and closes its send channel once.
func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	removed := false
	for _, topic := range client.Topics {
		if h.topics[topic][client] {
			delete(h.topics[topic], client)
			removed = true
			if len(h.topics[topic]) == 0 {
				delete(h.topics, topic)
			}
		}
	}
	h.mu.Unlock()
	if removed {
		close(client.Send)
	}
}
