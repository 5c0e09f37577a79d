package usecase

import (
	"context"

	"github.com/wichananm65/user-directory/internal/domain/entity"
)

//go:generate mockgen -destination=mocks/mock_user_usecase.go -package=mocks github.com/wichananm65/user-directory/internal/usecase UserUsecase

// UserUsecase exposes application-level operations for User.
type UserUsecase interface {
	Create(ctx context.Context, input CreateUserInput) (*entity.User, error)
	List(ctx context.Context, input ListUsersInput) (*UserPage, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail returns (nil, nil) when no user has the email.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*entity.User, error)
	Delete(ctx context.Context, id string) (*entity.User, error)
	Activate(ctx context.Context, id string) (*entity.User, error)
	Deactivate(ctx context.Context, id string) (*entity.User, error)
}

// CreateUserInput carries data required to create a user.
type CreateUserInput struct {
	FirstName string  `json:"firstName" validate:"required,max=100"`
	LastName  string  `json:"lastName" validate:"required,max=100"`
	Email     string  `json:"email" validate:"required,useremail"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=15"`
	Age       int     `json:"age" validate:"min=1,max=150"`
	Gender    *string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Bio       *string `json:"bio,omitempty" validate:"omitempty,max=500"`
}

// UpdateUserInput carries a partial update. Nil fields are not changed.
type UpdateUserInput struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitnil,min=1,max=100"`
	LastName  *string `json:"lastName,omitempty" validate:"omitnil,min=1,max=100"`
	Email     *string `json:"email,omitempty" validate:"omitnil,useremail"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=15"`
	Age       *int    `json:"age,omitempty" validate:"omitnil,min=1,max=150"`
	Gender    *string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Bio       *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// ListUsersInput is a page request. Nil or empty fields take their defaults.
type ListUsersInput struct {
	Page      *int   `json:"page,omitempty" validate:"omitnil,min=1"`
	Limit     *int   `json:"limit,omitempty" validate:"omitnil,min=1,max=100"`
	Search    string `json:"search,omitempty"`
	SortBy    string `json:"sortBy,omitempty" validate:"omitempty,oneof=createdAt updatedAt firstName lastName email age isActive"`
	SortOrder string `json:"sortOrder,omitempty" validate:"omitempty,oneof=asc desc"`
}

// UserPage is one page window of a List call.
type UserPage struct {
	Users      []*entity.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

const (
	DefaultPage      = 1
	DefaultLimit     = 10
	MaxLimit         = 100
	DefaultSortBy    = "createdAt"
	DefaultSortOrder = "desc"
)
