package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/user-directory/internal/domain/entity"
	"github.com/wichananm65/user-directory/internal/infrastructure/logger"
	"github.com/wichananm65/user-directory/internal/interface/presenter"
	"github.com/wichananm65/user-directory/internal/usecase"
)

// UserHandler adapts HTTP requests to use case calls.
type UserHandler struct {
	usecase   usecase.UserUsecase
	presenter *presenter.UserPresenter
	log       logger.Logger
}

func NewUserHandler(usecase usecase.UserUsecase, presenter *presenter.UserPresenter, log logger.Logger) *UserHandler {
	return &UserHandler{usecase: usecase, presenter: presenter, log: log.Action("rest")}
}

func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	users := router.Group("/api/v1/users")
	users.Get("/", h.list)
	users.Post("/", h.create)
	users.Get("/email/:email", h.getByEmail)
	users.Get("/:id", h.get)
	users.Patch("/:id", h.update)
	users.Delete("/:id", h.remove)
	users.Post("/:id/activate", h.activate)
	users.Post("/:id/deactivate", h.deactivate)
}

func (h *UserHandler) list(c *fiber.Ctx) error {
	input := usecase.ListUsersInput{
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	var err error
	if input.Page, err = queryInt(c, "page"); err != nil {
		return h.fail(c, err)
	}
	if input.Limit, err = queryInt(c, "limit"); err != nil {
		return h.fail(c, err)
	}

	page, err := h.usecase.List(c.UserContext(), input)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(h.presenter.ToPage(page))
}

func (h *UserHandler) create(c *fiber.Ctx) error {
	var input usecase.CreateUserInput
	if err := decodeStrict(c, &input); err != nil {
		return h.fail(c, err)
	}
	user, err := h.usecase.Create(c.UserContext(), input)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.presenter.ToResponse(user))
}

func (h *UserHandler) get(c *fiber.Ctx) error {
	user, err := h.usecase.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(h.presenter.ToResponse(user))
}

func (h *UserHandler) getByEmail(c *fiber.Ctx) error {
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil {
		return h.fail(c, entity.ValidationError("email must be an email"))
	}
	user, err := h.usecase.GetByEmail(c.UserContext(), email)
	if err != nil {
		return h.fail(c, err)
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).JSON(errorBody(fiber.StatusNotFound, entity.KindNotFound, "User with email "+email+" not found"))
	}
	return c.JSON(h.presenter.ToResponse(user))
}

func (h *UserHandler) update(c *fiber.Ctx) error {
	var input usecase.UpdateUserInput
	if err := decodeStrict(c, &input); err != nil {
		return h.fail(c, err)
	}
	user, err := h.usecase.Update(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(h.presenter.ToResponse(user))
}

func (h *UserHandler) remove(c *fiber.Ctx) error {
	user, err := h.usecase.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(h.presenter.ToResponse(user))
}

func (h *UserHandler) activate(c *fiber.Ctx) error {
	user, err := h.usecase.Activate(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(h.presenter.ToResponse(user))
}

func (h *UserHandler) deactivate(c *fiber.Ctx) error {
	user, err := h.usecase.Deactivate(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(h.presenter.ToResponse(user))
}

func (h *UserHandler) fail(c *fiber.Ctx, err error) error {
	kind, status, message := presenter.ErrorOf(err)
	if kind == presenter.KindInternal {
		h.log.Error("request failed", err, "method", c.Method(), "path", c.Path())
	}
	return c.Status(status).JSON(errorBody(status, kind, message))
}

func errorBody(status int, kind entity.Kind, message string) fiber.Map {
	return fiber.Map{"statusCode": status, "code": kind, "message": message}
}

// decodeStrict rejects bodies with fields the input type does not declare.
func decodeStrict(c *fiber.Ctx, v any) error {
	body := c.Body()
	if len(body) == 0 {
		return entity.ValidationError("request body is required")
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return entity.ValidationError("%s has an invalid type", typeErr.Field)
		}
		return entity.ValidationError("invalid json body: %s", err.Error())
	}
	return nil
}

func queryInt(c *fiber.Ctx, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, entity.ValidationError("%s must be an integer", key)
	}
	return &n, nil
}
