package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"profitpredict/form"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMessage = 4096
)

// LiveMessage is what a browser sends on the live channel.
type LiveMessage struct {
	Type    string            `json:"type"` // render, ping
	Inputs  map[string]string `json:"inputs"`
	Predict bool              `json:"predict"`
}

// LiveReply is what the server answers with.
type LiveReply struct {
	Type  string     `json:"type"` // render, pong, error
	View  *form.View `json:"view,omitempty"`
	Error string     `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func RegisterLiveHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/form", handleLiveForm)
}

// liveClient owns one connection. Replies go through send so that only
// writePump writes to the socket.
type liveClient struct {
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	requestID string
	opened    time.Time
}

func handleLiveForm(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &liveClient{
		conn:      conn,
		send:      make(chan []byte, 16),
		done:      make(chan struct{}),
		requestID: GetRequestID(r.Context()),
		opened:    GetStartTime(r.Context()),
	}
	go client.writePump()
	client.readPump()
}

func (c *liveClient) readPump() {
	defer func() {
		close(c.send)
		fields := []zap.Field{zap.String("request_id", c.requestID)}
		if !c.opened.IsZero() {
			fields = append(fields, zap.Duration("connected", time.Since(c.opened)))
		}
		zap.L().Debug("live channel closed", fields...)
	}()

	c.conn.SetReadLimit(maxMessage)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Warn("live channel read", zap.String("request_id", c.requestID), zap.Error(err))
			}
			return
		}

		reply := handleLiveMessage(data)
		payload, err := json.Marshal(reply)
		if err != nil {
			zap.L().Error("encode live reply", zap.Error(err))
			continue
		}
		select {
		case c.send <- payload:
		case <-c.done:
			return
		}
	}
}

func (c *liveClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.done)
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				zap.L().Warn("live channel write", zap.String("request_id", c.requestID), zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleLiveMessage re-runs the form for one message.
func handleLiveMessage(data []byte) LiveReply {
	var msg LiveMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return LiveReply{Type: "error", Error: "invalid message"}
	}

	switch msg.Type {
	case "render":
		view := render(form.Parse(form.Raw(msg.Inputs)), msg.Predict)
		return LiveReply{Type: "render", View: &view}
	case "ping":
		return LiveReply{Type: "pong"}
	default:
		return LiveReply{Type: "error", Error: "unknown message type " + msg.Type}
	}
}
