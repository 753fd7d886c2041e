package handler

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/HarshithPancheru/PSG-Hackathon/errors"
	sessiondto "github.com/HarshithPancheru/PSG-Hackathon/internal/adapter/dto/session"
	"github.com/HarshithPancheru/PSG-Hackathon/internal/usecase/session"
	pkgvalidator "github.com/HarshithPancheru/PSG-Hackathon/pkg/validator"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024 * 1024
	sendBuffer     = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WS is the websocket gateway: it upgrades connections, decodes the event
// envelope, validates payloads at the boundary and dispatches to the session
// router. Validation failures answer the originator with bad_request and
// never reach the router.
type WS struct {
	hub      *Hub
	sessions session.Service
	validate *pkgvalidator.CustomValidator
	logger   *zap.Logger
}

// NewWS creates the websocket gateway.
func NewWS(hub *Hub, sessions session.Service, validate *pkgvalidator.CustomValidator, logger *zap.Logger) *WS {
	return &WS{
		hub:      hub,
		sessions: sessions,
		validate: validate,
		logger:   logger,
	}
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

// enqueue hands a message to the write pump. A client whose buffer is full
// is dropped: closing the underlying connection ends its read pump, which
// triggers the usual disconnect cleanup.
func (c *client) enqueue(h *Hub, msg []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- msg:
	default:
		h.logger.Warn("slow consumer, dropping connection", zap.String("conn_id", c.id))
		c.conn.Close()
	}
}

// close marks the client dead and releases the write pump. Safe to call once
// only; the hub guarantees that.
func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	close(c.send)
}

// Serve handles GET /ws: upgrade, register, start the pumps.
func (g *WS) Serve(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", zap.Error(err))
		return nil
	}

	cl := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	g.hub.register(cl)

	go cl.writePump()
	go g.readPump(cl)
	return nil
}

func (g *WS) readPump(c *client) {
	defer func() {
		g.sessions.Disconnect(c.id)
		g.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				g.logger.Warn("websocket read error", zap.String("conn_id", c.id), zap.Error(err))
			}
			break
		}
		g.dispatch(c, message)
	}
}

// dispatch routes one inbound envelope to the session router.
func (g *WS) dispatch(c *client, message []byte) {
	var env sessiondto.Envelope
	if err := json.Unmarshal(message, &env); err != nil {
		g.reject(c, apperrors.ErrBadRequest("malformed event envelope"))
		return
	}

	switch env.Event {
	case "join-room":
		var req sessiondto.JoinRoomRequest
		if !g.bind(c, env.Data, &req) {
			return
		}
		g.sessions.Join(c.id, req)

	case "leave-room":
		// incomplete payloads are ignored, not rejected
		var req sessiondto.LeaveRoomRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			return
		}
		g.sessions.Leave(c.id, req)

	case "signal":
		var req sessiondto.SignalRequest
		if !g.bind(c, env.Data, &req) {
			return
		}
		g.sessions.Signal(c.id, req)

	case "transcript":
		var req sessiondto.TranscriptRequest
		if !g.bind(c, env.Data, &req) {
			return
		}
		g.sessions.IngestTranscript(req)

	case "request_mom":
		var req sessiondto.RequestMOMRequest
		if !g.bind(c, env.Data, &req) {
			return
		}
		g.sessions.RequestMOM(req.Room)

	case "stats_update":
		// incomplete payloads are dropped silently
		var req sessiondto.StatsUpdateRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			return
		}
		g.sessions.UpdateMetrics(req)

	default:
		g.logger.Debug("unknown event ignored",
			zap.String("conn_id", c.id),
			zap.String("event", env.Event),
		)
	}
}

// bind decodes and validates an event payload; on failure it rejects the
// event back to the originator and reports false. No state is mutated for a
// payload that fails here.
func (g *WS) bind(c *client, data json.RawMessage, out interface{}) bool {
	if err := json.Unmarshal(data, out); err != nil {
		g.reject(c, apperrors.ErrBadRequest("malformed event payload"))
		return false
	}
	if err := g.validate.Validate(out); err != nil {
		g.reject(c, apperrors.ErrBadRequest(err.Error()))
		return false
	}
	return true
}

func (g *WS) reject(c *client, appErr apperrors.AppError) {
	g.hub.ToConn(c.id, sessiondto.EventError, sessiondto.ErrorResponse{
		Code:    appErr.Code.String(),
		Message: appErr.Message,
	})
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
