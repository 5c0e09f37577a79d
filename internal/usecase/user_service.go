package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wichananm65/user-directory/internal/domain/entity"
	"github.com/wichananm65/user-directory/internal/domain/event"
	"github.com/wichananm65/user-directory/internal/domain/repository"
	"github.com/wichananm65/user-directory/internal/infrastructure/logger"
)

// UserService implements UserUsecase with repository dependency.
type UserService struct {
	repo      repository.UserRepository
	publisher event.Publisher
	validate  *validator.Validate
	log       logger.Logger
}

var _ UserUsecase = (*UserService)(nil)

func NewUserService(repo repository.UserRepository, publisher event.Publisher, log logger.Logger) *UserService {
	return &UserService{
		repo:      repo,
		publisher: publisher,
		validate:  NewValidator(),
		log:       log,
	}
}

func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*entity.User, error) {
	log := s.log.Action("Create")

	input.normalize()
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	now := entity.Now()
	user := &entity.User{
		ID:        entity.NewID(),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
		Age:       input.Age,
		Gender:    input.Gender,
		Bio:       input.Bio,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, entity.ErrEmailExists) {
			log.Warn("email already registered", "email", user.Email)
			return nil, entity.ConflictError(err)
		}
		log.Error("failed to save user", err)
		return nil, err
	}

	log.Info("user created", "userId", created.ID)
	s.publish(ctx, event.UserCreated, created)
	return created, nil
}

func (s *UserService) List(ctx context.Context, input ListUsersInput) (*UserPage, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	query := repository.ListQuery{
		Page:     DefaultPage,
		Limit:    DefaultLimit,
		Search:   strings.TrimSpace(input.Search),
		SortBy:   DefaultSortBy,
		SortDesc: true,
	}
	if input.Page != nil {
		query.Page = *input.Page
	}
	if input.Limit != nil {
		query.Limit = *input.Limit
	}
	if input.SortBy != "" {
		query.SortBy = input.SortBy
	}
	if input.SortOrder != "" {
		query.SortDesc = input.SortOrder == "desc"
	}

	users, total, err := s.repo.List(ctx, query)
	if err != nil {
		s.log.Action("List").Error("failed to list users", err)
		return nil, err
	}

	return &UserPage{
		Users:      users,
		Total:      total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages(total, query.Limit),
	}, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !entity.IsValidID(id) {
		return nil, entity.InvalidIDError()
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("GetByID", id, err)
	}
	return user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, entity.ValidationError("email is required")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, nil
		}
		s.log.Action("GetByEmail").Error("failed to load user", err)
		return nil, err
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id string, input UpdateUserInput) (*entity.User, error) {
	if !entity.IsValidID(id) {
		return nil, entity.InvalidIDError()
	}

	input.normalize()
	if input.isEmpty() {
		return nil, entity.ValidationError("at least one field must be provided")
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	updated, err := s.repo.Update(ctx, id, input.toPatch())
	if err != nil {
		return nil, s.mapRepoError("Update", id, err)
	}

	s.publish(ctx, event.UserUpdated, updated)
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id string) (*entity.User, error) {
	if !entity.IsValidID(id) {
		return nil, entity.InvalidIDError()
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("Delete", id, err)
	}

	s.log.Action("Delete").Info("user deleted", "userId", id)
	s.publish(ctx, event.UserDeleted, deleted)
	return deleted, nil
}

func (s *UserService) Activate(ctx context.Context, id string) (*entity.User, error) {
	return s.setActive(ctx, "Activate", id, true)
}

func (s *UserService) Deactivate(ctx context.Context, id string) (*entity.User, error) {
	return s.setActive(ctx, "Deactivate", id, false)
}

func (s *UserService) setActive(ctx context.Context, action, id string, active bool) (*entity.User, error) {
	if !entity.IsValidID(id) {
		return nil, entity.InvalidIDError()
	}

	user, err := s.repo.SetActive(ctx, id, active, entity.Now())
	if err != nil {
		return nil, s.mapRepoError(action, id, err)
	}

	t := event.UserDeactivated
	if active {
		t = event.UserActivated
	}
	s.publish(ctx, t, user)
	return user, nil
}

func (s *UserService) mapRepoError(action, id string, err error) error {
	log := s.log.Action(action)
	switch {
	case errors.Is(err, entity.ErrUserNotFound):
		log.Debug("user not found", "userId", id)
		return entity.NotFoundError(id)
	case errors.Is(err, entity.ErrEmailExists):
		log.Warn("email already registered", "userId", id)
		return entity.ConflictError(err)
	}
	log.Error("repository failure", err, "userId", id)
	return err
}

// publish never fails the request; the mutation is already persisted.
func (s *UserService) publish(ctx context.Context, t event.Type, user *entity.User) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event.NewUserEvent(t, user)); err != nil {
		s.log.Action("publish").Error("failed to publish user event", err, "type", string(t), "userId", user.ID)
	}
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (in *CreateUserInput) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = normalizeEmail(in.Email)
	in.Gender = lowerOptional(in.Gender)
	if in.Phone != nil && strings.TrimSpace(*in.Phone) == "" {
		in.Phone = nil
	}
	if in.Gender != nil && *in.Gender == "" {
		in.Gender = nil
	}
	if in.Bio != nil && strings.TrimSpace(*in.Bio) == "" {
		in.Bio = nil
	}
}

func (in *UpdateUserInput) normalize() {
	in.FirstName = trimOptional(in.FirstName)
	in.LastName = trimOptional(in.LastName)
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		in.Email = &email
	}
	in.Gender = lowerOptional(in.Gender)
}

func (in UpdateUserInput) isEmpty() bool {
	return in.FirstName == nil && in.LastName == nil && in.Email == nil &&
		in.Phone == nil && in.Age == nil && in.Gender == nil &&
		in.Bio == nil && in.IsActive == nil
}

func (in UpdateUserInput) toPatch() repository.UserPatch {
	return repository.UserPatch{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Age:       in.Age,
		Gender:    in.Gender,
		Bio:       in.Bio,
		IsActive:  in.IsActive,
		UpdatedAt: entity.Now(),
	}
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func lowerOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToLower(strings.TrimSpace(*s))
	return &v
}
