package router

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/wichananm65/user-directory/internal/interface/graphql"
	"github.com/wichananm65/user-directory/internal/interface/http/handler"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	StoreName      string
	Store          Pinger
	RequestTimeout time.Duration
	Playground     bool
	AccessLog      bool
}

// New builds the fiber app with middleware, health, REST and GraphQL routes.
func New(userHandler *handler.UserHandler, gqlHandler *graphql.Handler, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "user-directory",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	if opts.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format:     `{"timestamp":"${time}","requestId":"${locals:requestid}","status":${status},"latency":"${latency}","method":"${method}","path":"${path}"}` + "\n",
			TimeFormat: time.RFC3339,
		}))
	}
	setupCORS(app)
	if opts.RequestTimeout > 0 {
		app.Use(requestTimeout(opts.RequestTimeout))
	}

	app.Get("/health", health(opts))
	userHandler.RegisterRoutes(app)
	gqlHandler.RegisterRoutes(app, opts.Playground)

	return app
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
}

// requestTimeout bounds the context handed to the usecase layer.
func requestTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func health(opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if opts.Store != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := opts.Store.Ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "unavailable",
					"store":  opts.StoreName,
					"error":  err.Error(),
				})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "store": opts.StoreName})
	}
}
