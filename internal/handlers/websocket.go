package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"wager-program-backend/internal/middleware"
	"wager-program-backend/internal/models"
	"wager-program-backend/internal/wager"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	clientSendSize = 32
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub    *WebSocketHub
	logger *zap.Logger
}

type WebSocketHub struct {
	clients     map[*Client]bool
	sessions    map[string]map[*Client]bool
	register    chan *Client
	unregister  chan *Client
	subscribe   chan subscription
	unsubscribe chan subscription
	broadcast   chan *Message
	logger      *zap.Logger
}

type Client struct {
	Player models.Address
	Conn   *websocket.Conn
	send   chan *Message
}

type subscription struct {
	client    *Client
	sessionID string
}

type Message struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	Data      interface{} `json:"data"`
}

func NewWebSocketHandler(logger *zap.Logger) *WebSocketHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	hub := &WebSocketHub{
		clients:     make(map[*Client]bool),
		sessions:    make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan subscription),
		unsubscribe: make(chan subscription),
		broadcast:   make(chan *Message, 100),
		logger:      logger,
	}

	go hub.run()

	return &WebSocketHandler{
		hub:    hub,
		logger: logger,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade to websocket", zap.Error(err))
		return
	}

	client := &Client{
		Player: middleware.Player(c),
		Conn:   conn,
		send:   make(chan *Message, clientSendSize),
	}

	h.hub.register <- client
	go client.writePump()

	defer func() {
		h.hub.unregister <- client
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		err := conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket error", zap.Error(err))
			}
			break
		}

		h.handleMessage(client, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(client *Client, msg *Message) {
	switch msg.Type {
	case "PING":
		client.enqueue(&Message{
			Type: "PONG",
			Data: gin.H{"timestamp": time.Now().Unix()},
		})
	case "SUBSCRIBE_SESSION":
		if err := wager.ValidateSessionID(msg.SessionID); err != nil {
			client.enqueue(errorMessage(msg.SessionID, err))
			return
		}
		h.hub.subscribe <- subscription{client: client, sessionID: msg.SessionID}
	case "UNSUBSCRIBE_SESSION":
		h.hub.unsubscribe <- subscription{client: client, sessionID: msg.SessionID}
	}
}

func errorMessage(sessionID string, err error) *Message {
	data := gin.H{"details": err.Error()}
	if kind, ok := wager.KindOf(err); ok {
		data["error"] = string(kind)
		data["code"] = kind.Code()
	}
	return &Message{Type: "ERROR", SessionID: sessionID, Data: data}
}

// enqueue drops the message when the client is not keeping up.
func (c *Client) enqueue(msg *Message) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (hub *WebSocketHub) run() {
	for {
		select {
		case client := <-hub.register:
			hub.clients[client] = true
			hub.logger.Debug("client registered", zap.Stringer("player", client.Player))

		case client := <-hub.unregister:
			if _, ok := hub.clients[client]; ok {
				delete(hub.clients, client)
				for id, subs := range hub.sessions {
					delete(subs, client)
					if len(subs) == 0 {
						delete(hub.sessions, id)
					}
				}
				close(client.send)
				hub.logger.Debug("client unregistered", zap.Stringer("player", client.Player))
			}

		case sub := <-hub.subscribe:
			if !hub.clients[sub.client] {
				continue
			}
			subs, ok := hub.sessions[sub.sessionID]
			if !ok {
				subs = make(map[*Client]bool)
				hub.sessions[sub.sessionID] = subs
			}
			subs[sub.client] = true
			sub.client.enqueue(&Message{Type: "SUBSCRIBED", SessionID: sub.sessionID})

		case sub := <-hub.unsubscribe:
			if subs, ok := hub.sessions[sub.sessionID]; ok {
				delete(subs, sub.client)
				if len(subs) == 0 {
					delete(hub.sessions, sub.sessionID)
				}
			}

		case message := <-hub.broadcast:
			hub.broadcastMessage(message)
		}
	}
}

func (hub *WebSocketHub) broadcastMessage(message *Message) {
	for client := range hub.sessions[message.SessionID] {
		if !client.enqueue(message) {
			hub.logger.Warn("dropping message for slow client",
				zap.String("session_id", message.SessionID),
				zap.Stringer("player", client.Player))
		}
	}
}

func (h *WebSocketHandler) BroadcastSessionUpdate(session *models.GameSession) {
	h.hub.broadcast <- &Message{
		Type:      "SESSION_UPDATE",
		SessionID: session.ID,
		Data:      session,
	}
}

func (h *WebSocketHandler) BroadcastKill(event *models.KillEvent) {
	h.hub.broadcast <- &Message{
		Type:      "KILL",
		SessionID: event.SessionID,
		Data:      event,
	}
}
