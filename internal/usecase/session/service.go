package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/HarshithPancheru/PSG-Hackathon/errors"
	sessiondto "github.com/HarshithPancheru/PSG-Hackathon/internal/adapter/dto/session"
	"github.com/HarshithPancheru/PSG-Hackathon/internal/adapter/repository"
	"github.com/HarshithPancheru/PSG-Hackathon/internal/domain/entities"
	"github.com/HarshithPancheru/PSG-Hackathon/internal/usecase/summarizer"
)

// Service is the session event router: one method per inbound transport
// event. Inputs arrive already validated at the boundary; every method
// applies its state transition to the room store and then emits the
// resulting broadcast through the notifier, in that order.
type Service interface {
	Join(connID string, req sessiondto.JoinRoomRequest)
	Leave(connID string, req sessiondto.LeaveRoomRequest)
	Signal(connID string, req sessiondto.SignalRequest)
	IngestTranscript(req sessiondto.TranscriptRequest) entities.TranscriptEntry
	RequestMOM(room string)
	GenerateMOM(ctx context.Context, room string) entities.MOM
	UpdateMetrics(req sessiondto.StatsUpdateRequest)
	Disconnect(connID string)
}

type sessionService struct {
	store      *repository.RoomStore
	summarizer *summarizer.Service
	notifier   Notifier
	logger     *zap.Logger
}

// NewService constructs the session event router.
func NewService(store *repository.RoomStore, sum *summarizer.Service, notifier Notifier, logger *zap.Logger) Service {
	return &sessionService{
		store:      store,
		summarizer: sum,
		notifier:   notifier,
		logger:     logger,
	}
}

// Join upserts the participant and broadcasts the fresh participant list to
// the room.
func (s *sessionService) Join(connID string, req sessiondto.JoinRoomRequest) {
	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.UserID
	}

	s.store.AddParticipant(req.Room, entities.Participant{
		UserID:       req.UserID,
		DisplayName:  displayName,
		ConnectionID: connID,
		JoinedAt:     time.Now().UnixMilli(),
	})

	s.broadcastParticipants(req.Room)
	s.logger.Info("participant joined",
		zap.String("room", req.Room),
		zap.String("user_id", req.UserID),
	)
}

// Leave removes the participant and broadcasts the updated list. An
// incomplete payload is ignored without an error, matching the transport
// contract for this event.
func (s *sessionService) Leave(connID string, req sessiondto.LeaveRoomRequest) {
	if req.Room == "" || req.UserID == "" {
		return
	}
	s.store.RemoveParticipant(req.Room, req.UserID)
	s.broadcastParticipants(req.Room)
	s.logger.Info("participant left",
		zap.String("room", req.Room),
		zap.String("user_id", req.UserID),
	)
}

// Signal relays a negotiation payload. With a target it is delivered to that
// participant's connection only; an unknown target is answered to the sender
// with invalid_target and nothing is broadcast. Without a target the payload
// goes to every connection in the room except the sender.
func (s *sessionService) Signal(connID string, req sessiondto.SignalRequest) {
	if req.To == "" {
		s.notifier.ToRoomExcept(req.Room, connID, sessiondto.EventSignal, req)
		return
	}

	target, ok := s.store.FindParticipantByUserID(req.Room, req.To)
	if !ok {
		appErr := apperrors.ErrInvalidTarget(req.To, req.Room)
		s.notifier.ToConn(connID, sessiondto.EventError, sessiondto.ErrorResponse{
			Code:    appErr.Code.String(),
			Message: appErr.Message,
		})
		s.logger.Warn("signal to unknown target",
			zap.String("room", req.Room),
			zap.String("from", req.From),
			zap.String("to", req.To),
		)
		return
	}
	s.notifier.ToConn(target.ConnectionID, sessiondto.EventSignal, req)
}

// IngestTranscript appends the entry and broadcasts it to the room. The
// stored entry is returned so HTTP callers can echo it back.
func (s *sessionService) IngestTranscript(req sessiondto.TranscriptRequest) entities.TranscriptEntry {
	entry := entities.TranscriptEntry{
		UserID:      req.UserID,
		DisplayName: req.DisplayName,
		Text:        req.Text,
		TS:          req.TS,
	}
	if entry.DisplayName == "" {
		entry.DisplayName = req.UserID
	}
	if entry.TS == 0 {
		entry.TS = time.Now().UnixMilli()
	}

	s.store.AddTranscript(req.Room, entry)
	s.notifier.ToRoom(req.Room, sessiondto.EventTranscriptBroadcast, sessiondto.TranscriptBroadcast{
		Room:  req.Room,
		Entry: entry,
	})
	return entry
}

// RequestMOM triggers regeneration without blocking the caller. The
// summarization runs as its own unit of work; its result is applied to the
// store and broadcast when it completes.
func (s *sessionService) RequestMOM(room string) {
	go s.GenerateMOM(context.Background(), room)
}

// GenerateMOM summarizes the room's transcripts, stores the result and
// broadcasts it. The store applies the result only when it is not staler
// than the MOM already held, so the generation timestamp never moves
// backwards even under concurrent generations.
func (s *sessionService) GenerateMOM(ctx context.Context, room string) entities.MOM {
	transcripts := s.store.GetTranscripts(room)
	mom := s.summarizer.Summarize(ctx, transcripts, room)

	stored, applied := s.store.SetMOMIfNewer(room, mom)
	if !applied {
		s.logger.Debug("dropping stale MOM result",
			zap.String("room", room),
			zap.Int64("stale", mom.GeneratedAt),
			zap.Int64("current", stored.GeneratedAt),
		)
		return stored
	}

	s.notifier.ToRoom(room, sessiondto.EventMOMUpdate, stored)
	s.logger.Info("generated MOM",
		zap.String("room", room),
		zap.Int("transcripts", len(transcripts)),
		zap.Float64("confidence", stored.Confidence),
	)
	return stored
}

// UpdateMetrics replaces the user's metrics payload and broadcasts the
// room's metrics mapping. Missing room or user makes it a silent no-op.
func (s *sessionService) UpdateMetrics(req sessiondto.StatsUpdateRequest) {
	if req.Room == "" || req.UserID == "" {
		return
	}
	stats := req.Stats
	if stats == nil {
		stats = map[string]interface{}{}
	}
	s.store.SetParticipantMetrics(req.Room, req.UserID, stats)
	s.notifier.ToRoom(req.Room, sessiondto.EventParticipantsMetrics, sessiondto.ParticipantsMetrics{
		Room:    req.Room,
		Metrics: s.store.GetMetrics(req.Room),
	})
}

// Disconnect removes every participant bound to the connection and notifies
// each affected room.
func (s *sessionService) Disconnect(connID string) {
	affected := s.store.RemoveParticipantByConnectionID(connID)
	for _, room := range affected {
		s.broadcastParticipants(room)
	}
	if len(affected) > 0 {
		s.logger.Info("connection cleaned up",
			zap.String("conn_id", connID),
			zap.Strings("rooms", affected),
		)
	}
}

func (s *sessionService) broadcastParticipants(room string) {
	s.notifier.ToRoom(room, sessiondto.EventParticipantsUpdate, sessiondto.ParticipantsUpdate{
		Room:         room,
		Participants: s.store.GetParticipants(room),
	})
}
