package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/HarshithPancheru/PSG-Hackathon/errors"
	sessiondto "github.com/HarshithPancheru/PSG-Hackathon/internal/adapter/dto/session"
	"github.com/HarshithPancheru/PSG-Hackathon/internal/adapter/repository"
	"github.com/HarshithPancheru/PSG-Hackathon/internal/usecase/session"
)

// Rooms handles room-related HTTP requests. Reads go straight to the store;
// mutations go through the session router so they broadcast exactly like
// socket-originated events.
type Rooms struct {
	store    *repository.RoomStore
	sessions session.Service
	logger   *zap.Logger
}

// NewRoomsHandler creates a new rooms handler
func NewRoomsHandler(store *repository.RoomStore, sessions session.Service, logger *zap.Logger) *Rooms {
	return &Rooms{
		store:    store,
		sessions: sessions,
		logger:   logger,
	}
}

// ListRooms handles GET /rooms
func (h *Rooms) ListRooms(c echo.Context) error {
	return c.JSON(http.StatusOK, sessiondto.RoomListResponse{
		Rooms: h.store.ListRooms(),
	})
}

// GetMOM handles GET /rooms/:room/mom
func (h *Rooms) GetMOM(c echo.Context) error {
	room := c.Param("room")
	mom, ok := h.store.GetMOM(room)
	if !ok {
		return apperrors.ErrNoMOM(room)
	}
	return c.JSON(http.StatusOK, sessiondto.MOMResponse{Room: room, LastMOM: mom})
}

// RequestMOM handles POST /rooms/:room/request-mom
func (h *Rooms) RequestMOM(c echo.Context) error {
	room := c.Param("room")
	mom := h.sessions.GenerateMOM(c.Request().Context(), room)
	return c.JSON(http.StatusOK, sessiondto.RequestMOMResponse{
		Status:  "ok",
		Message: "MOM generation triggered",
		MOM:     mom,
	})
}

// MockTranscript handles POST /mock-transcript. It exists so clients can be
// exercised without a live speech-recognition feed.
func (h *Rooms) MockTranscript(c echo.Context) error {
	var req sessiondto.TranscriptRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrBadRequest(err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.ErrBadRequest("room,userId,text required")
	}

	entry := h.sessions.IngestTranscript(req)
	return c.JSON(http.StatusCreated, sessiondto.TranscriptAcceptedResponse{
		Status:  "ok",
		Message: "transcript added",
		Entry:   entry,
	})
}

// Health handles GET /health
func (h *Rooms) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UnixMilli(),
	})
}
