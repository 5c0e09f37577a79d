package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wichananm65/user-directory/internal/domain/entity"
	"github.com/wichananm65/user-directory/internal/domain/repository"
)

// UserRepository is an in-memory implementation of UserRepository.
// The email index plays the role of the store's unique constraint.
type UserRepository struct {
	mu      sync.RWMutex
	store   map[string]*entity.User
	byEmail map[string]string
}

var _ repository.UserRepository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{
		store:   make(map[string]*entity.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return nil, entity.ErrEmailExists
	}

	userCopy := cloneUser(user)
	if userCopy.ID == "" {
		userCopy.ID = entity.NewID()
	}
	r.store[userCopy.ID] = userCopy
	r.byEmail[userCopy.Email] = userCopy.ID

	return cloneUser(userCopy), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.store[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	return cloneUser(r.store[id]), nil
}

func (r *UserRepository) List(ctx context.Context, query repository.ListQuery) ([]*entity.User, int64, error) {
	r.mu.RLock()
	matched := make([]*entity.User, 0, len(r.store))
	for _, user := range r.store {
		if matchesSearch(user, query.Search) {
			matched = append(matched, cloneUser(user))
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		c := compareBy(matched[i], matched[j], query.SortBy)
		if c == 0 {
			c = strings.Compare(matched[i].ID, matched[j].ID)
		}
		if query.SortDesc {
			return c > 0
		}
		return c < 0
	})

	total := int64(len(matched))
	start := query.Skip()
	if start >= len(matched) {
		return []*entity.User{}, total, nil
	}
	end := start + query.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, patch repository.UserPatch) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.store[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	if patch.Email != nil && *patch.Email != current.Email {
		if _, taken := r.byEmail[*patch.Email]; taken {
			return nil, entity.ErrEmailExists
		}
	}

	updated := cloneUser(current)
	patch.ApplyTo(updated)
	if updated.Email != current.Email {
		delete(r.byEmail, current.Email)
		r.byEmail[updated.Email] = id
	}
	r.store[id] = updated

	return cloneUser(updated), nil
}

func (r *UserRepository) SetActive(ctx context.Context, id string, active bool, at time.Time) (*entity.User, error) {
	return r.Update(ctx, id, repository.UserPatch{IsActive: &active, UpdatedAt: at})
}

func (r *UserRepository) Delete(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.store[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	delete(r.store, id)
	delete(r.byEmail, user.Email)
	return cloneUser(user), nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return nil
}

func matchesSearch(user *entity.User, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(user.FirstName), needle) ||
		strings.Contains(strings.ToLower(user.LastName), needle) ||
		strings.Contains(strings.ToLower(user.Email), needle)
}

func compareBy(a, b *entity.User, field string) int {
	switch field {
	case repository.SortByFirstName:
		return strings.Compare(a.FirstName, b.FirstName)
	case repository.SortByLastName:
		return strings.Compare(a.LastName, b.LastName)
	case repository.SortByEmail:
		return strings.Compare(a.Email, b.Email)
	case repository.SortByAge:
		return a.Age - b.Age
	case repository.SortByIsActive:
		switch {
		case a.IsActive == b.IsActive:
			return 0
		case a.IsActive:
			return 1
		default:
			return -1
		}
	case repository.SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.Phone = cloneOptional(u.Phone)
	c.Gender = cloneOptional(u.Gender)
	c.Bio = cloneOptional(u.Bio)
	return &c
}

func cloneOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
