package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/HarshithPancheru/PSG-Hackathon/errors"
	"github.com/HarshithPancheru/PSG-Hackathon/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg   *config.Config
	rooms *Rooms
	ws    *WS
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, rooms *Rooms, ws *WS) *Router {
	return &Router{
		cfg:   cfg,
		rooms: rooms,
		ws:    ws,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.HTTPErrorHandler = errorHandler(rt.rooms.logger)

	e.GET("/health", rt.rooms.Health)
	e.GET("/ws", rt.ws.Serve)

	e.GET("/rooms", rt.rooms.ListRooms)
	e.GET("/rooms/:room/mom", rt.rooms.GetMOM)
	e.POST("/rooms/:room/request-mom", rt.rooms.RequestMOM)
	e.POST("/mock-transcript", rt.rooms.MockTranscript)
}

// errorHandler maps AppError returns to their HTTP status and wire shape.
// Echo's own routing errors pass through with their status; anything else is
// logged and answered as internal without leaking the cause.
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		switch e := err.(type) {
		case apperrors.AppError:
			c.JSON(e.HTTPCode, map[string]interface{}{
				"error":   e.Code.String(),
				"message": e.Message,
			})
		case *echo.HTTPError:
			c.JSON(e.Code, map[string]interface{}{
				"message": fmt.Sprintf("%v", e.Message),
			})
		default:
			logger.Error("unhandled error", zap.Error(err))
			appErr := apperrors.ErrInternal(err)
			c.JSON(appErr.HTTPCode, map[string]interface{}{
				"error":   appErr.Code.String(),
				"message": appErr.Message,
			})
		}
	}
}
