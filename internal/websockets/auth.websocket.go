package websockets

import (
	"context"
	"time"

	"petshop/internal/models"
)

const AUTH_HANDSHAKE_TIMEOUT = 10 * time.Second

// authenticate resolves a bearer token to the actor it belongs to.
func (m *Manager) authenticate(ctx context.Context, token string) (models.Actor, error) {
	info, err := m.tokens.Verify(token)
	if err != nil {
		return models.Actor{}, err
	}

	user, err := m.userRepo.GetByID(ctx, m.db, info.UserID)
	if err != nil {
		return models.Actor{}, err
	}

	return user.Actor(), nil
}

func (c *Client) startAuthTimeout() {
	log := c.Manager.log.Function("startAuthTimeout")

	time.AfterFunc(AUTH_HANDSHAKE_TIMEOUT, func() {
		c.Manager.hub.mutex.RLock()
		authenticated := c.Status == STATUS_AUTHENTICATED
		c.Manager.hub.mutex.RUnlock()
		if authenticated {
			return
		}

		log.Warn("Client failed to authenticate within timeout", "clientID", c.ID)
		if err := c.Connection.Close(); err != nil {
			log.Er("failed to close connection after auth timeout", err, "clientID", c.ID)
		}
	})
}

func (c *Client) handleAuthResponse(message Message) {
	log := c.Manager.log.Function("handleAuthResponse")

	if c.Status == STATUS_AUTHENTICATED {
		log.Warn("Auth response from already authenticated client", "clientID", c.ID)
		return
	}

	token, ok := message.Data["token"].(string)
	if !ok || token == "" {
		c.sendAuthFailure("Invalid token format")
		return
	}

	actor, err := c.Manager.authenticate(context.Background(), token)
	if err != nil {
		log.Info("WebSocket authentication failed", "clientID", c.ID, "error", err.Error())
		c.sendAuthFailure("Authentication failed")
		return
	}

	c.Manager.hub.mutex.Lock()
	c.Actor = actor
	c.Status = STATUS_AUTHENTICATED
	c.Manager.hub.mutex.Unlock()

	log.Info("WebSocket client authenticated", "clientID", c.ID, "userID", actor.ID, "role", actor.Role)

	c.queue(newMessage(MESSAGE_TYPE_AUTH_SUCCESS, "system", "authenticated", map[string]any{
		"userId": actor.ID,
		"role":   actor.Role,
	}))
}

func (c *Client) sendAuthFailure(reason string) {
	c.queue(newMessage(MESSAGE_TYPE_AUTH_FAILURE, "system", "authentication_failed", map[string]any{
		"reason": reason,
	}))

	time.AfterFunc(100*time.Millisecond, func() {
		_ = c.Connection.Close()
	})
}

func (c *Client) sendAuthRequest() error {
	log := c.Manager.log.Function("sendAuthRequest")

	request := newMessage(MESSAGE_TYPE_AUTH_REQUEST, "system", "authenticate", nil)
	if err := c.Connection.WriteJSON(request); err != nil {
		return log.Err("failed to send auth request", err, "clientID", c.ID)
	}
	return nil
}

func (c *Client) handleUnauthenticatedMessage(message Message) {
	c.Manager.log.Function("handleUnauthenticatedMessage").
		Warn("Blocking message from unauthenticated client", "clientID", c.ID, "type", message.Type)

	c.queue(newMessage(MESSAGE_TYPE_AUTH_FAILURE, "system", "authentication_required", map[string]any{
		"reason": "Authentication required",
	}))
}
