package events

import (
	"context"

	"github.com/wichananm65/user-directory/internal/domain/event"
	"github.com/wichananm65/user-directory/internal/infrastructure/logger"
)

// LogPublisher writes events to the log instead of a broker. It is used
// when no AMQP_URL is configured.
type LogPublisher struct {
	log logger.Logger
}

var _ event.Publisher = (*LogPublisher)(nil)

func NewLogPublisher(log logger.Logger) *LogPublisher {
	return &LogPublisher{log: log.Action("event")}
}

func (p *LogPublisher) Publish(_ context.Context, e event.UserEvent) error {
	p.log.Info(string(e.Type), "userId", e.UserID, "email", e.Email, "isActive", e.IsActive)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
