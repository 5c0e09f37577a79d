package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wichananm65/user-directory/internal/domain/event"
	"github.com/wichananm65/user-directory/internal/domain/repository"
	"github.com/wichananm65/user-directory/internal/infrastructure/config"
	"github.com/wichananm65/user-directory/internal/infrastructure/database/inmemory"
	"github.com/wichananm65/user-directory/internal/infrastructure/database/mongodb"
	"github.com/wichananm65/user-directory/internal/infrastructure/database/postgres"
	"github.com/wichananm65/user-directory/internal/infrastructure/events"
	"github.com/wichananm65/user-directory/internal/infrastructure/logger"
	"github.com/wichananm65/user-directory/internal/interface/graphql"
	httpHandler "github.com/wichananm65/user-directory/internal/interface/http/handler"
	"github.com/wichananm65/user-directory/internal/interface/http/router"
	"github.com/wichananm65/user-directory/internal/interface/presenter"
	"github.com/wichananm65/user-directory/internal/usecase"
)

// main wires dependencies (dependency injection) and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log logger.Logger) error {
	repo, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	publisher, err := openPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer publisher.Close()

	userUsecase := usecase.NewUserService(repo, publisher, log)
	userHandler := httpHandler.NewUserHandler(userUsecase, presenter.NewUserPresenter(), log)

	schema, err := graphql.NewSchema(userUsecase, log)
	if err != nil {
		return fmt.Errorf("graphql schema: %w", err)
	}

	app := router.New(userHandler, graphql.NewHandler(schema, log), router.Options{
		StoreName:      cfg.StoreDriver,
		Store:          repo,
		RequestTimeout: cfg.RequestTimeout,
		Playground:     cfg.Playground,
		AccessLog:      true,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", cfg.Addr, "store", cfg.StoreDriver)
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	return app.ShutdownWithTimeout(10 * time.Second)
}

func openStore(ctx context.Context, cfg config.Config, log logger.Logger) (repository.UserRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		db, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, nil, err
		}
		repo := mongodb.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			disconnect(db.Client(), log)
			return nil, nil, fmt.Errorf("mongodb: ensure indexes: %w", err)
		}
		return repo, func() { disconnect(db.Client(), log) }, nil

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			closeDB(db, log)
			return nil, nil, err
		}
		return postgres.NewUserRepository(db), func() { closeDB(db, log) }, nil
	}

	log.Warn("using in-memory store; data is lost on restart")
	return inmemory.NewUserRepository(), func() {}, nil
}

func openPublisher(cfg config.Config, log logger.Logger) (event.Publisher, error) {
	if cfg.AMQP.URL == "" {
		return events.NewLogPublisher(log), nil
	}
	return events.NewRabbitMQPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, log)
}

func disconnect(client *mongo.Client, log logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Error("mongodb disconnect", err)
	}
}

func closeDB(db *sql.DB, log logger.Logger) {
	if err := db.Close(); err != nil {
		log.Error("postgres close", err)
	}
}
