package event

import (
	"context"
	"time"

	"github.com/wichananm65/user-directory/internal/domain/entity"
)

// Type names a user lifecycle change. It doubles as the routing key.
type Type string

const (
	UserCreated     Type = "user.created"
	UserUpdated     Type = "user.updated"
	UserDeleted     Type = "user.deleted"
	UserActivated   Type = "user.activated"
	UserDeactivated Type = "user.deactivated"
)

// UserEvent is emitted after a mutation has been persisted.
type UserEvent struct {
	Type       Type      `json:"type"`
	UserID     string    `json:"userId"`
	Email      string    `json:"email"`
	IsActive   bool      `json:"isActive"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewUserEvent(t Type, user *entity.User) UserEvent {
	return UserEvent{
		Type:       t,
		UserID:     user.ID,
		Email:      user.Email,
		IsActive:   user.IsActive,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers user events to interested parties.
type Publisher interface {
	Publish(ctx context.Context, e UserEvent) error
	Close() error
}
