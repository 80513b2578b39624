package websockets

import (
	"sync"
	"time"
)

const (
	STATUS_UNAUTHENTICATED = iota
	STATUS_AUTHENTICATED
)

type Hub struct {
	register   chan *Client
	unregister chan *Client
	clients    map[string]*Client
	mutex      sync.RWMutex
}

func (h *Hub) run(m *Manager) {
	for {
		select {
		case client := <-h.register:
			m.registerClient(client)

		case client := <-h.unregister:
			m.unregisterClient(client)
		}
	}
}

func (m *Manager) registerClient(client *Client) {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	m.hub.clients[client.ID] = client
	m.log.Function("registerClient").Debug("Client registered", "clientID", client.ID)
}

// unregisterClient is safe to call more than once per client; both pumps
// unregister on exit.
func (m *Manager) unregisterClient(client *Client) {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	if _, ok := m.hub.clients[client.ID]; !ok {
		return
	}
	delete(m.hub.clients, client.ID)
	close(client.send)

	m.log.Function("unregisterClient").Info("Client unregistered",
		"clientID", client.ID,
		"userID", client.Actor.ID,
	)
}

// sendWhere queues message for every client accepted by match. A client whose
// buffer stays full for five seconds is dropped.
func (h *Hub) sendWhere(m *Manager, message Message, match func(*Client) bool) int {
	log := m.log.Function("sendWhere")

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	sent := 0
	for _, client := range h.clients {
		if !match(client) {
			continue
		}

		select {
		case client.send <- message:
			sent++
		default:
			go func(c *Client, msg Message) {
				defer func() {
					// send was closed by an unregister in the meantime
					_ = recover()
				}()
				select {
				case c.send <- msg:
				case <-time.After(5 * time.Second):
					log.Warn("Client too slow, disconnecting", "clientID", c.ID)
					m.hub.unregister <- c
				}
			}(client, message)
		}
	}

	log.Debug("Message queued", "messageID", message.ID, "action", message.Action, "sentTo", sent)
	return sent
}
