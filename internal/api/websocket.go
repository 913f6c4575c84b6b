// websocket.go - Frame streaming socket for viewer sessions
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/plant-visualizer/backend/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// WSMessage is the JSON envelope for control traffic. Frames themselves
// go out as binary msgpack messages, not through this envelope.
type WSMessage struct {
	Type      string `json:"type"`
	Message   string `json:"message,omitempty"`
	Code      string `json:"code,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// wsConn serializes writes; the frame pump and the command reader both
// send on the same connection.
type wsConn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *wsConn) writeBinary(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.BinaryMessage, data)
}

func (c *wsConn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(v)
}

func (c *wsConn) writeControl(messageType int, data []byte) error {
	return c.ws.WriteControl(messageType, data, time.Now().Add(writeWait))
}

// ViewSocketHandler streams engine frames to connected clients and
// accepts commands back over the same connection.
type ViewSocketHandler struct {
	views          ViewManager
	upgrader       websocket.Upgrader
	maxMessageSize int64
}

// NewViewSocketHandler creates a new frame socket handler
func NewViewSocketHandler(views ViewManager, maxMessageSize int64) *ViewSocketHandler {
	if maxMessageSize <= 0 {
		maxMessageSize = 64 * 1024
	}
	return &ViewSocketHandler{
		views: views,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Allow connections from dev server
				return true
			},
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
		},
		maxMessageSize: maxMessageSize,
	}
}

// HandleViewSocket upgrades the connection and runs the frame/command
// protocol until either side closes. Outgoing: one binary msgpack
// message per engine frame. Incoming: JSON ViewCommand objects.
func (vsh *ViewSocketHandler) HandleViewSocket(c echo.Context) error {
	id := c.Param("viewId")
	if _, ok := vsh.views.GetView(id); !ok {
		return NewNotFoundError("view", id)
	}

	ws, err := vsh.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	conn := &wsConn{ws: ws}

	frames, cancel, ok := vsh.views.Subscribe(id)
	if !ok {
		vsh.sendError(conn, "view not found: "+id, "VIEW_NOT_FOUND")
		return nil
	}
	defer cancel()

	fmt.Printf("[ViewSocket %s] Client connected\n", shortViewID(id))

	vsh.sendMessage(conn, WSMessage{
		Type:      "connected",
		Timestamp: time.Now().UnixMilli(),
	})

	done := make(chan struct{})

	// Writer: pump frames and pings until the reader exits or the
	// subscription closes.
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case frame, open := <-frames:
				if !open {
					conn.writeControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "view disposed"))
					return
				}
				data, err := msgpack.Marshal(frame)
				if err != nil {
					continue
				}
				if err := conn.writeBinary(data); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.writeControl(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	ws.SetReadLimit(vsh.maxMessageSize)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Reader: client commands drive the engine.
	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				fmt.Printf("[ViewSocket %s] Connection error: %v\n", shortViewID(id), err)
			}
			break
		}

		var cmd models.ViewCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			vsh.sendError(conn, "invalid command: "+err.Error(), "INVALID_COMMAND")
			continue
		}
		if err := vsh.views.Command(id, cmd); err != nil {
			vsh.sendError(conn, err.Error(), "COMMAND_REJECTED")
		}
	}

	close(done)
	fmt.Printf("[ViewSocket %s] Client disconnected\n", shortViewID(id))
	return nil
}

// Helper methods

func (vsh *ViewSocketHandler) sendMessage(conn *wsConn, msg WSMessage) {
	if err := conn.writeJSON(msg); err != nil {
		fmt.Printf("[ViewSocket] Failed to send message: %v\n", err)
	}
}

func (vsh *ViewSocketHandler) sendError(conn *wsConn, message, code string) {
	vsh.sendMessage(conn, WSMessage{
		Type:      "error",
		Message:   message,
		Code:      code,
		Timestamp: time.Now().UnixMilli(),
	})
}
