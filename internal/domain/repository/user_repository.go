package repository

import (
	"context"
	"time"

	"github.com/wichananm65/user-directory/internal/domain/entity"
)

// Sort fields accepted by List. Names follow the API field names.
const (
	SortByCreatedAt = "createdAt"
	SortByUpdatedAt = "updatedAt"
	SortByFirstName = "firstName"
	SortByLastName  = "lastName"
	SortByEmail     = "email"
	SortByAge       = "age"
	SortByIsActive  = "isActive"
)

// SortFields lists every sortable field.
var SortFields = []string{
	SortByCreatedAt,
	SortByUpdatedAt,
	SortByFirstName,
	SortByLastName,
	SortByEmail,
	SortByAge,
	SortByIsActive,
}

// ListQuery is an already validated page request.
type ListQuery struct {
	Page     int
	Limit    int
	Search   string
	SortBy   string
	SortDesc bool
}

// Skip is the number of matching records before the page window.
func (q ListQuery) Skip() int {
	return (q.Page - 1) * q.Limit
}

// UserPatch carries the fields an update sets. Nil fields are left untouched;
// UpdatedAt is always written.
type UserPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Age       *int
	Gender    *string
	Bio       *string
	IsActive  *bool
	UpdatedAt time.Time
}

// UserRepository defines persistence behavior for the User entity.
//
// Implementations return entity.ErrUserNotFound when the target record is
// absent and entity.ErrEmailExists when a write would duplicate an email.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, query ListQuery) ([]*entity.User, int64, error)
	Update(ctx context.Context, id string, patch UserPatch) (*entity.User, error)
	SetActive(ctx context.Context, id string, active bool, at time.Time) (*entity.User, error)
	Delete(ctx context.Context, id string) (*entity.User, error)
	Ping(ctx context.Context) error
}

// ApplyTo copies the set fields of p onto u.
func (p UserPatch) ApplyTo(u *entity.User) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Phone != nil {
		u.Phone = cloneString(p.Phone)
	}
	if p.Age != nil {
		u.Age = *p.Age
	}
	if p.Gender != nil {
		u.Gender = cloneString(p.Gender)
	}
	if p.Bio != nil {
		u.Bio = cloneString(p.Bio)
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	u.UpdatedAt = p.UpdatedAt
}

func cloneString(s *string) *string {
	v := *s
	return &v
}
