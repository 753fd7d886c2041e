package handler

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/HarshithPancheru/PSG-Hackathon/internal/adapter/repository"
)

// Hub tracks live websocket connections and implements session.Notifier.
// Room membership is not duplicated here: fan-out resolves each room's
// participants through the room store, so delivery always follows the
// store's current view.
type Hub struct {
	store  *repository.RoomStore
	logger *zap.Logger

	mu      sync.RWMutex
	clients map[string]*client
}

// NewHub creates a hub backed by the given store.
func NewHub(store *repository.RoomStore, logger *zap.Logger) *Hub {
	return &Hub{
		store:   store,
		logger:  logger,
		clients: make(map[string]*client),
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	h.logger.Info("socket connected", zap.String("conn_id", c.id))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if current, ok := h.clients[c.id]; ok && current == c {
		delete(h.clients, c.id)
		current.close()
	}
	h.mu.Unlock()
	h.logger.Info("socket disconnected", zap.String("conn_id", c.id))
}

// ToConn delivers one event to a single connection. Unknown connections are
// dropped silently: the client may have disconnected between lookup and
// delivery.
func (h *Hub) ToConn(connID, event string, payload interface{}) {
	h.mu.RLock()
	c := h.clients[connID]
	h.mu.RUnlock()
	if c == nil {
		h.logger.Debug("delivery to unknown connection dropped",
			zap.String("conn_id", connID),
			zap.String("event", event),
		)
		return
	}
	h.deliver(c, event, payload)
}

// ToRoom delivers one event to every connection currently in the room.
func (h *Hub) ToRoom(room, event string, payload interface{}) {
	h.fanOut(room, "", event, payload)
}

// ToRoomExcept delivers to every connection in the room except one.
func (h *Hub) ToRoomExcept(room, exceptConn, event string, payload interface{}) {
	h.fanOut(room, exceptConn, event, payload)
}

func (h *Hub) fanOut(room, exceptConn, event string, payload interface{}) {
	msg, err := marshalEnvelope(event, payload)
	if err != nil {
		h.logger.Error("failed to encode event", zap.String("event", event), zap.Error(err))
		return
	}

	for _, p := range h.store.GetParticipants(room) {
		if p.ConnectionID == exceptConn {
			continue
		}
		h.mu.RLock()
		c := h.clients[p.ConnectionID]
		h.mu.RUnlock()
		if c == nil {
			continue
		}
		c.enqueue(h, msg)
	}
}

func (h *Hub) deliver(c *client, event string, payload interface{}) {
	msg, err := marshalEnvelope(event, payload)
	if err != nil {
		h.logger.Error("failed to encode event", zap.String("event", event), zap.Error(err))
		return
	}
	c.enqueue(h, msg)
}

func marshalEnvelope(event string, payload interface{}) ([]byte, error) {
	return json.Marshal(struct {
		Event string      `json:"event"`
		Data  interface{} `json:"data"`
	}{Event: event, Data: payload})
}
