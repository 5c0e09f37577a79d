package presenter

import (
	"time"

	"github.com/wichananm65/user-directory/internal/domain/entity"
	"github.com/wichananm65/user-directory/internal/usecase"
)

// UserPresenter shapes domain entities for delivery layer responses.
type UserPresenter struct{}

func NewUserPresenter() *UserPresenter {
	return &UserPresenter{}
}

type UserResponse struct {
	ID        string  `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	Age       int     `json:"age"`
	Gender    *string `json:"gender"`
	Bio       *string `json:"bio"`
	IsActive  bool    `json:"isActive"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

type PaginatedUsersResponse struct {
	Users      []*UserResponse `json:"users"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"totalPages"`
}

// FormatTime renders timestamps the way every API surface exposes them.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func (p *UserPresenter) ToResponse(user *entity.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Phone:     user.Phone,
		Age:       user.Age,
		Gender:    user.Gender,
		Bio:       user.Bio,
		IsActive:  user.IsActive,
		CreatedAt: FormatTime(user.CreatedAt),
		UpdatedAt: FormatTime(user.UpdatedAt),
	}
}

func (p *UserPresenter) ToList(users []*entity.User) []*UserResponse {
	result := make([]*UserResponse, 0, len(users))
	for _, user := range users {
		result = append(result, p.ToResponse(user))
	}
	return result
}

func (p *UserPresenter) ToPage(page *usecase.UserPage) *PaginatedUsersResponse {
	return &PaginatedUsersResponse{
		Users:      p.ToList(page.Users),
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}
}
