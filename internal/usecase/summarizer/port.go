package summarizer

import (
	"context"

	"go.uber.org/zap"

	"github.com/HarshithPancheru/PSG-Hackathon/internal/domain/entities"
)

// Port turns a room's transcript sequence into minutes of meeting. It must
// be pure with respect to system state: it reads only its arguments. A Port
// may fail; callers go through Service, which absorbs failures.
type Port interface {
	Summarize(ctx context.Context, transcripts []entities.TranscriptEntry, room string) (entities.MOM, error)
}

// Service wraps the configured Port with the built-in rule-based fallback.
// Any port failure is recovered by the fallback generator and never surfaced
// to clients.
type Service struct {
	port   Port
	logger *zap.Logger
}

// NewService constructs a summarizer service. A nil port means the built-in
// fallback generator is used for every request.
func NewService(port Port, logger *zap.Logger) *Service {
	return &Service{port: port, logger: logger}
}

// Summarize generates a MOM for the room. It never fails.
func (s *Service) Summarize(ctx context.Context, transcripts []entities.TranscriptEntry, room string) entities.MOM {
	if s.port != nil {
		mom, err := s.port.Summarize(ctx, transcripts, room)
		if err == nil {
			return mom
		}
		if s.logger != nil {
			s.logger.Warn("summarizer port failed, using fallback",
				zap.String("room", room),
				zap.Error(err),
			)
		}
	}
	return Fallback(transcripts, room)
}
