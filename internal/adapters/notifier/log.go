package notifier

import (
	"context"

	"github.com/okian/eventreg/internal/domain/model"
	"github.com/okian/eventreg/pkg/logger"
)

// Log writes notices to the structured logger. It is used when no Discord
// channel is configured.
type Log struct {
	logger logger.Logger
}

// NewLog returns a notifier that logs through l, or the global
// "notifier" logger when l is nil.
func NewLog(l logger.Logger) *Log {
	if l == nil {
		l = logger.Get().Named("notifier")
	}
	return &Log{logger: l}
}

// Notify logs the notice at info level.
func (l *Log) Notify(ctx context.Context, n model.Notice) error { //nolint:gocritic // hugeParam: notices are small value types
	l.logger.Info(ctx, "participant "+string(n.Kind),
		logger.String("participantID", n.Participant.ID),
		logger.String("name", n.Participant.Name),
		logger.String("eventName", n.Participant.EventName),
	)
	return nil
}
