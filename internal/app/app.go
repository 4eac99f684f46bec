package app

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/uptrace/bun"

	"github.com/taskboardhq/taskboard/internal/commands"
	bunrepo "github.com/taskboardhq/taskboard/internal/storage/bun"
	"github.com/taskboardhq/taskboard/internal/storage/memory"
	"github.com/taskboardhq/taskboard/pkg/config"
	"github.com/taskboardhq/taskboard/pkg/dispatcher"
	"github.com/taskboardhq/taskboard/pkg/interfaces/broadcaster"
	"github.com/taskboardhq/taskboard/pkg/interfaces/logger"
	"github.com/taskboardhq/taskboard/pkg/interfaces/store"
	"github.com/taskboardhq/taskboard/pkg/notifications"
	"github.com/taskboardhq/taskboard/pkg/projects"
	"github.com/taskboardhq/taskboard/pkg/realtime"
	"github.com/taskboardhq/taskboard/pkg/sink"
	"github.com/taskboardhq/taskboard/pkg/tasks"
	"github.com/taskboardhq/taskboard/pkg/users"
)

// Options configure the application container.
type Options struct {
	Config  config.Config
	Storage store.Provider
	Logger  logger.Logger
	Sink    sink.Sink

	// Mirrors are extra live transports that receive every frame the hub
	// delivers, for bridging the stream or observing it in tests.
	Mirrors []broadcaster.Broadcaster
}

// App wires storage, services, the connection hub, and the HTTP surface.
type App struct {
	fiber *fiber.App
	cfg   config.Config
	lgr   logger.Logger

	db  *bun.DB
	hub *realtime.Hub

	Projects      *projects.Service
	Tasks         *tasks.Service
	Users         *users.Service
	Notifications *notifications.Service
	Dispatcher    *dispatcher.Service
	Commands      *commands.Catalog
}

// New constructs the application. The hub loop starts immediately; callers
// own Listen and Shutdown.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lgr := opts.Logger
	if lgr == nil {
		lgr = &logger.Nop{}
	}

	a := &App{cfg: cfg, lgr: lgr}

	provider := opts.Storage
	if provider == nil {
		db, err := bunrepo.Connect(cfg.Persistence.DSN)
		if err != nil {
			return nil, err
		}
		if err := bunrepo.EnsureSchema(context.Background(), db); err != nil {
			db.Close()
			return nil, err
		}
		a.db = db
		provider = bunrepo.NewProvider(db)
	}

	a.hub = realtime.NewHub(lgr.With(logger.Field{Key: "component", Value: "hub"}))
	go a.hub.Run()

	var registry broadcaster.Broadcaster = a.hub
	if len(opts.Mirrors) > 0 {
		members := append([]broadcaster.Broadcaster{a.hub}, opts.Mirrors...)
		registry = broadcaster.NewFanout(members...)
	}

	out := opts.Sink
	if out == nil {
		if cfg.Sink.URL != "" {
			out = sink.NewWebhook(lgr.With(logger.Field{Key: "component", Value: "sink"}), sink.WithConfig(sink.Config{
				URL:     cfg.Sink.URL,
				Timeout: cfg.Sink.Timeout,
			}))
		} else {
			out = &sink.Nop{}
		}
	}

	translator, err := newTranslator(cfg.Dispatcher.Locale)
	if err != nil {
		return nil, err
	}

	noteSvc, err := notifications.NewService(notifications.Dependencies{
		Repository: provider.Notifications(),
		Logger:     lgr,
	})
	if err != nil {
		return nil, err
	}
	a.Notifications = noteSvc

	dispatchSvc, err := dispatcher.New(dispatcher.Dependencies{
		Registry:      registry,
		Notifications: noteSvc,
		Sink:          out,
		Translator:    translator,
		Logger:        lgr.With(logger.Field{Key: "component", Value: "dispatcher"}),
		Config: dispatcher.Config{
			Locale:       cfg.Dispatcher.Locale,
			StoreTimeout: cfg.Dispatcher.StoreTimeout,
			SinkTimeout:  cfg.Dispatcher.SinkTimeout,
		},
	})
	if err != nil {
		return nil, err
	}
	a.Dispatcher = dispatchSvc

	projectSvc, err := projects.New(projects.Dependencies{
		Repository: provider.Projects(),
		Tasks:      provider.Tasks(),
		Dispatcher: dispatchSvc,
		Logger:     lgr,
	})
	if err != nil {
		return nil, err
	}
	a.Projects = projectSvc

	taskSvc, err := tasks.New(tasks.Dependencies{
		Repository: provider.Tasks(),
		Projects:   provider.Projects(),
		Dispatcher: dispatchSvc,
		Logger:     lgr,
	})
	if err != nil {
		return nil, err
	}
	a.Tasks = taskSvc

	userSvc, err := users.New(users.Dependencies{
		Repository: provider.Users(),
		Logger:     lgr,
	})
	if err != nil {
		return nil, err
	}
	a.Users = userSvc

	catalog, err := commands.NewCatalog(commands.Dependencies{
		Projects:      projectSvc,
		Tasks:         taskSvc,
		Notifications: noteSvc,
		Logger:        lgr,
	})
	if err != nil {
		return nil, err
	}
	a.Commands = catalog

	a.fiber = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(lgr),
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})
	a.fiber.Use(recover.New())
	a.fiber.Use(cors.New())
	a.registerRoutes()

	if cfg.Features.Seed {
		if err := a.seed(context.Background()); err != nil {
			lgr.Warn("seed failed", logger.Field{Key: "error", Value: err})
		}
	}

	return a, nil
}

// NewInMemory builds an app backed by in-memory repositories, used by tests.
func NewInMemory(cfg config.Config, lgr logger.Logger, out sink.Sink, mirrors ...broadcaster.Broadcaster) (*App, error) {
	return New(Options{
		Config:  cfg,
		Storage: memory.NewProvider(),
		Logger:  lgr,
		Sink:    out,
		Mirrors: mirrors,
	})
}

// Router exposes the fiber application for tests.
func (a *App) Router() *fiber.App { return a.fiber }

// Hub exposes the connection registry.
func (a *App) Hub() *realtime.Hub { return a.hub }

// Listen blocks serving HTTP until Shutdown is called.
func (a *App) Listen() error {
	addr := a.cfg.Server.Host + ":" + a.cfg.Server.Port
	a.lgr.Info("server listening", logger.Field{Key: "addr", Value: addr})
	return a.fiber.Listen(addr)
}

// Shutdown stops the HTTP server, drains the dispatcher, disconnects clients,
// and closes the database.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.fiber.ShutdownWithContext(ctx); err != nil {
		errs = append(errs, err)
	}
	a.Dispatcher.Close()
	a.hub.Close()
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func errorHandler(lgr logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, store.ErrNotFound):
			code = fiber.StatusNotFound
		case errors.Is(err, store.ErrValidation):
			code = fiber.StatusBadRequest
		case errors.Is(err, store.ErrDuplicate):
			code = fiber.StatusConflict
		default:
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
			}
		}

		if code == fiber.StatusInternalServerError {
			lgr.Error("request failed",
				logger.Field{Key: "path", Value: c.Path()},
				logger.Field{Key: "error", Value: err},
			)
		}
		return c.Status(code).JSON(fiber.Map{"error": err.Error()})
	}
}
