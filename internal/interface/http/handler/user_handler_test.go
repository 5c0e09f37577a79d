package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/wichananm65/user-directory/internal/domain/entity"
	"github.com/wichananm65/user-directory/internal/infrastructure/logger"
	"github.com/wichananm65/user-directory/internal/interface/presenter"
	"github.com/wichananm65/user-directory/internal/usecase"
	"github.com/wichananm65/user-directory/internal/usecase/mocks"
)

func newTestApp(t *testing.T) (*fiber.App, *mocks.MockUserUsecase) {
	t.Helper()
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockUserUsecase(ctrl)

	app := fiber.New()
	NewUserHandler(uc, presenter.NewUserPresenter(), logger.Discard()).RegisterRoutes(app)
	return app, uc
}

func sampleUser() *entity.User {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &entity.User{
		ID:        "665f1c2e8b3e4a0012345678",
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Age:       32,
		IsActive:  true,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := app.Test(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var out map[string]any
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return res.StatusCode, out
}

func TestCreateUser(t *testing.T) {
	app, uc := newTestApp(t)

	uc.EXPECT().
		Create(gomock.Any(), usecase.CreateUserInput{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Age: 32}).
		Return(sampleUser(), nil)

	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/users",
		`{"firstName":"Jane","lastName":"Doe","email":"jane@example.com","age":32}`)
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "665f1c2e8b3e4a0012345678", body["id"])
	assert.Equal(t, true, body["isActive"])
	assert.Equal(t, "2024-05-01T12:00:00Z", body["createdAt"])
	assert.Nil(t, body["phone"])
}

func TestCreateUserRejectsUnknownFields(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/users",
		`{"firstName":"Jane","lastName":"Doe","email":"jane@example.com","age":32,"role":"admin"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestCreateUserConflict(t *testing.T) {
	app, uc := newTestApp(t)

	uc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, entity.ConflictError(entity.ErrEmailExists))

	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/users",
		`{"firstName":"Jane","lastName":"Doe","email":"jane@example.com","age":32}`)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "Email already exists", body["message"])
	assert.EqualValues(t, 409, body["statusCode"])
}

func TestListUsers(t *testing.T) {
	app, uc := newTestApp(t)

	uc.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, input usecase.ListUsersInput) (*usecase.UserPage, error) {
			require.NotNil(t, input.Page)
			assert.Equal(t, 2, *input.Page)
			assert.Nil(t, input.Limit)
			assert.Equal(t, "smith", input.Search)
			assert.Equal(t, "asc", input.SortOrder)
			return &usecase.UserPage{Users: []*entity.User{sampleUser()}, Total: 11, Page: 2, Limit: 10, TotalPages: 2}, nil
		})

	status, body := doJSON(t, app, fiber.MethodGet, "/api/v1/users?page=2&search=smith&sortOrder=asc", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 11, body["total"])
	assert.EqualValues(t, 2, body["totalPages"])
	assert.Len(t, body["users"], 1)
}

func TestListUsersBadPage(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, fiber.MethodGet, "/api/v1/users?page=two", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "page must be an integer", body["message"])
}

func TestGetUserNotFound(t *testing.T) {
	app, uc := newTestApp(t)
	id := "665f1c2e8b3e4a0012345679"

	uc.EXPECT().GetByID(gomock.Any(), id).Return(nil, entity.NotFoundError(id))

	status, body := doJSON(t, app, fiber.MethodGet, "/api/v1/users/"+id, "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "User with ID "+id+" not found", body["message"])
}

func TestGetUserByEmail(t *testing.T) {
	app, uc := newTestApp(t)

	uc.EXPECT().GetByEmail(gomock.Any(), "jane@example.com").Return(sampleUser(), nil)
	uc.EXPECT().GetByEmail(gomock.Any(), "nobody@example.com").Return(nil, nil)

	status, body := doJSON(t, app, fiber.MethodGet, "/api/v1/users/email/jane@example.com", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Jane", body["firstName"])

	status, _ = doJSON(t, app, fiber.MethodGet, "/api/v1/users/email/nobody@example.com", "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestUpdateUser(t *testing.T) {
	app, uc := newTestApp(t)
	updated := sampleUser()
	updated.FirstName = "Janet"

	uc.EXPECT().
		Update(gomock.Any(), updated.ID, gomock.Any()).
		DoAndReturn(func(_ any, _ string, input usecase.UpdateUserInput) (*entity.User, error) {
			require.NotNil(t, input.FirstName)
			assert.Equal(t, "Janet", *input.FirstName)
			assert.Nil(t, input.Email)
			return updated, nil
		})

	status, body := doJSON(t, app, fiber.MethodPatch, "/api/v1/users/"+updated.ID, `{"firstName":"Janet"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Janet", body["firstName"])
}

func TestUpdateUserEmptyBody(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := doJSON(t, app, fiber.MethodPatch, "/api/v1/users/665f1c2e8b3e4a0012345678", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestDeleteAndToggle(t *testing.T) {
	app, uc := newTestApp(t)
	user := sampleUser()
	inactive := sampleUser()
	inactive.IsActive = false

	uc.EXPECT().Delete(gomock.Any(), user.ID).Return(user, nil)
	uc.EXPECT().Deactivate(gomock.Any(), user.ID).Return(inactive, nil)
	uc.EXPECT().Activate(gomock.Any(), "bad").Return(nil, entity.InvalidIDError())

	status, body := doJSON(t, app, fiber.MethodDelete, "/api/v1/users/"+user.ID, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, user.Email, body["email"])

	status, body = doJSON(t, app, fiber.MethodPost, "/api/v1/users/"+user.ID+"/deactivate", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, body["isActive"])

	status, body = doJSON(t, app, fiber.MethodPost, "/api/v1/users/bad/activate", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid ID format", body["message"])
}

func TestInternalErrorIsHidden(t *testing.T) {
	app, uc := newTestApp(t)

	uc.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))

	status, body := doJSON(t, app, fiber.MethodGet, "/api/v1/users/665f1c2e8b3e4a0012345678", "")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", body["code"])
	assert.Equal(t, "Internal server error", body["message"])
}
