package dispatcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/taskboardhq/taskboard/pkg/domain"
	"github.com/taskboardhq/taskboard/pkg/events"
	"github.com/taskboardhq/taskboard/pkg/interfaces/broadcaster"
	"github.com/taskboardhq/taskboard/pkg/interfaces/logger"
	"github.com/taskboardhq/taskboard/pkg/notifications"
	"github.com/taskboardhq/taskboard/pkg/realtime"
	"github.com/taskboardhq/taskboard/pkg/sink"
)

// Config bounds the dispatcher's detached work.
type Config struct {
	// Locale picks the notification copy language.
	Locale string
	// StoreTimeout bounds the durable notification write.
	StoreTimeout time.Duration
	// SinkTimeout bounds the outbound call to the secondary service.
	SinkTimeout time.Duration
}

type notificationCreator interface {
	Create(ctx context.Context, input notifications.CreateInput) (*domain.Notification, error)
}

// Dependencies wires the fan-out collaborators into the dispatcher.
type Dependencies struct {
	Registry      broadcaster.Broadcaster
	Notifications notificationCreator
	Sink          sink.Sink
	Translator    events.Translator
	Logger        logger.Logger
	Config        Config
}

// Service is the single entry point for committed domain events. It pushes
// to live connections synchronously, then persists a durable record and
// forwards to the secondary sink for targeted events. Each lane is its own
// failure domain and never blocks or reverts the live push.
type Service struct {
	registry      broadcaster.Broadcaster
	notifications notificationCreator
	sink          sink.Sink
	translator    events.Translator
	logger        logger.Logger
	cfg           Config

	wg sync.WaitGroup
}

var (
	ErrMissingRegistry      = errors.New("dispatcher: connection registry is required")
	ErrMissingNotifications = errors.New("dispatcher: notification service is required")
)

// New builds the dispatcher service.
func New(deps Dependencies) (*Service, error) {
	if deps.Registry == nil {
		return nil, ErrMissingRegistry
	}
	if deps.Notifications == nil {
		return nil, ErrMissingNotifications
	}
	if deps.Sink == nil {
		deps.Sink = &sink.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	if deps.Config.Locale == "" {
		deps.Config.Locale = "es"
	}
	if deps.Config.StoreTimeout <= 0 {
		deps.Config.StoreTimeout = 5 * time.Second
	}
	if deps.Config.SinkTimeout <= 0 {
		deps.Config.SinkTimeout = 5 * time.Second
	}
	return &Service{
		registry:      deps.Registry,
		notifications: deps.Notifications,
		sink:          deps.Sink,
		translator:    deps.Translator,
		logger:        deps.Logger,
		cfg:           deps.Config,
	}, nil
}

// Dispatch fans out one committed write. Callers invoke it exactly once per
// event; it is not idempotent. Only event validation errors surface: every
// delivery failure is logged and swallowed because the triggering write has
// already committed.
func (s *Service) Dispatch(ctx context.Context, event events.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	note := events.Render(event, s.translator, s.cfg.Locale)
	live := broadcaster.Event{
		Topic:   event.Topic(),
		Payload: event.WirePayload(note),
	}
	if event.Audience.Targeted() {
		live.Room = realtime.RoomKey(event.Audience.UserID())
	}

	// Live push first; its failure never gates the durable path.
	if err := s.registry.Broadcast(ctx, live); err != nil {
		s.logger.Warn("live push failed",
			logger.Field{Key: "topic", Value: live.Topic},
			logger.Field{Key: "error", Value: err},
		)
	}

	if !event.Audience.Targeted() {
		return nil
	}

	recipient := event.Audience.UserID()
	base := context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		writeCtx, cancel := context.WithTimeout(base, s.cfg.StoreTimeout)
		defer cancel()
		_, err := s.notifications.Create(writeCtx, notifications.CreateInput{
			Title:    note.Title,
			Message:  note.Message,
			Severity: note.Severity,
			UserID:   recipient,
		})
		if err != nil {
			s.logger.Error("durable notification write failed",
				logger.Field{Key: "topic", Value: live.Topic},
				logger.Field{Key: "user_id", Value: recipient},
				logger.Field{Key: "error", Value: err},
			)
		}
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		sinkCtx, cancel := context.WithTimeout(base, s.cfg.SinkTimeout)
		defer cancel()
		err := s.sink.Send(sinkCtx, sink.Notice{
			Title:    note.Title,
			Message:  note.Message,
			Severity: note.Severity,
			UserID:   recipient,
		})
		if err != nil {
			s.logger.Warn("secondary delivery failed",
				logger.Field{Key: "topic", Value: live.Topic},
				logger.Field{Key: "user_id", Value: recipient},
				logger.Field{Key: "error", Value: err},
			)
		}
	}()

	return nil
}

// Close waits for in-flight durable writes and sink calls. Dispatch callers
// never wait; this exists for shutdown and tests.
func (s *Service) Close() {
	s.wg.Wait()
}
