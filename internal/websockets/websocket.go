package websockets

import (
	"time"

	"petshop/config"
	"petshop/internal/database"
	"petshop/internal/events"
	"petshop/internal/models"
	"petshop/internal/repositories"
	"petshop/internal/types"
	"petshop/pkg/logger"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MESSAGE_TYPE_EVENT         = "event"
	MESSAGE_TYPE_ERROR         = "error"
	MESSAGE_TYPE_AUTH_REQUEST  = "auth_request"
	MESSAGE_TYPE_AUTH_RESPONSE = "auth_response"
	MESSAGE_TYPE_AUTH_SUCCESS  = "auth_success"
	MESSAGE_TYPE_AUTH_FAILURE  = "auth_failure"

	PING_INTERVAL     = 30 * time.Second
	PONG_TIMEOUT      = 60 * time.Second
	WRITE_TIMEOUT     = 10 * time.Second
	MAX_MESSAGE_SIZE  = 64 * 1024
	SEND_CHANNEL_SIZE = 64
)

type Message struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	Action    string         `json:"action,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Subscriber is the part of the event bus the feed listens on.
type Subscriber interface {
	Subscribe(channel events.Channel, handler events.EventHandler) error
}

type TokenVerifier interface {
	Verify(token string) (types.TokenInfo, error)
}

type Client struct {
	ID         string
	Actor      models.Actor
	Connection *websocket.Conn
	Manager    *Manager
	Status     int
	send       chan Message
}

type Manager struct {
	hub      *Hub
	config   config.Config
	log      logger.Logger
	eventBus Subscriber
	tokens   TokenVerifier
	userRepo repositories.UserRepository
	db       *gorm.DB
}

func New(
	db database.DB,
	eventBus Subscriber,
	config config.Config,
	tokens TokenVerifier,
	userRepo repositories.UserRepository,
) (*Manager, error) {
	log := logger.New("websockets")

	manager := newManager(eventBus, config, tokens, userRepo)
	manager.db = db.SQL

	log.Function("New").Info("Starting websocket hub")
	go manager.hub.run(manager)

	for _, channel := range []events.Channel{events.JOBS_CHANNEL, events.BROADCAST_CHANNEL} {
		if err := eventBus.Subscribe(channel, manager.deliver); err != nil {
			return nil, log.Err("failed to subscribe to channel", err, "channel", channel)
		}
	}

	return manager, nil
}

func newManager(
	eventBus Subscriber,
	config config.Config,
	tokens TokenVerifier,
	userRepo repositories.UserRepository,
) *Manager {
	return &Manager{
		hub: &Hub{
			register:   make(chan *Client),
			unregister: make(chan *Client),
			clients:    make(map[string]*Client),
		},
		config:   config,
		log:      logger.New("websockets"),
		eventBus: eventBus,
		tokens:   tokens,
		userRepo: userRepo,
	}
}

func newMessage(messageType, channel, action string, data map[string]any) Message {
	return Message{
		ID:        uuid.New().String(),
		Type:      messageType,
		Channel:   channel,
		Action:    action,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// HandleWebSocket owns the connection until the client goes away. Nothing but
// the auth handshake is accepted before the client proves who it is.
func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	client := &Client{
		ID:         uuid.New().String(),
		Connection: c,
		Manager:    m,
		Status:     STATUS_UNAUTHENTICATED,
		send:       make(chan Message, SEND_CHANNEL_SIZE),
	}

	if err := client.sendAuthRequest(); err != nil {
		if err := c.Close(); err != nil {
			log.Er("failed to close connection", err)
		}
		return
	}

	m.hub.register <- client
	defer func() {
		log.Debug("Client disconnected", "clientID", client.ID)
		m.hub.unregister <- client
		_ = c.Close()
	}()

	client.startAuthTimeout()
	go client.readPump()
	client.writePump()
}

// deliver fans an event out to the clients allowed to see it.
func (m *Manager) deliver(event events.Event) error {
	message := newMessage(MESSAGE_TYPE_EVENT, event.Channel.String(), string(event.Type), event.Data)
	m.hub.sendWhere(m, message, func(client *Client) bool {
		return client.canReceive(event)
	})
	return nil
}

// queue drops message when the buffer is full or the client has already
// been unregistered.
func (c *Client) queue(message Message) {
	defer func() {
		_ = recover()
	}()
	select {
	case c.send <- message:
	default:
	}
}

// canReceive lets staff see every event. Customers only hear about jobs for
// their own pets.
func (c *Client) canReceive(event events.Event) bool {
	if c.Status != STATUS_AUTHENTICATED {
		return false
	}
	if c.Actor.IsWorker() {
		return true
	}
	if event.Channel != events.JOBS_CHANNEL || event.CustomerID == nil {
		return false
	}
	return *event.CustomerID == c.Actor.ID
}

func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")
	defer func() {
		c.Manager.hub.unregister <- c
		_ = c.Connection.Close()
	}()

	c.Connection.SetReadLimit(MAX_MESSAGE_SIZE)
	if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
		log.Er("failed to set read deadline", err, "clientID", c.ID)
	}
	c.Connection.SetPongHandler(func(string) error {
		return c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
	})

	for {
		var message Message
		if err := c.Connection.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				log.Er("Unexpected close error", err, "clientID", c.ID)
			}
			return
		}

		c.routeMessage(message)
	}
}

func (c *Client) routeMessage(message Message) {
	log := c.Manager.log.Function("routeMessage")

	if message.Type == MESSAGE_TYPE_AUTH_RESPONSE {
		c.handleAuthResponse(message)
		return
	}

	if c.Status != STATUS_AUTHENTICATED {
		c.handleUnauthenticatedMessage(message)
		return
	}

	// The feed is push only.
	log.Debug("Ignoring client message", "clientID", c.ID, "type", message.Type)
}

func (c *Client) writePump() {
	log := c.Manager.log.Function("writePump")

	ticker := time.NewTicker(PING_INTERVAL)
	defer func() {
		ticker.Stop()
		_ = c.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline", err, "clientID", c.ID)
			}
			if !ok {
				_ = c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Connection.WriteJSON(message); err != nil {
				log.Er("WebSocket write error", err, "clientID", c.ID, "messageID", message.ID)
				return
			}

		case <-ticker.C:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline for ping", err, "clientID", c.ID)
			}
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
