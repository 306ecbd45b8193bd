package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/parentchild/account-service/internal/config"
	"github.com/parentchild/account-service/internal/domain"
	"github.com/parentchild/account-service/internal/events"
	"github.com/parentchild/account-service/internal/notify"
	"github.com/parentchild/account-service/internal/scheduler"
)

// Email subjects.
const (
	SubjectActivate   = "Activate your account"
	SubjectChildAdded = "Child added"
)

// Scheduled job names.
const (
	JobActivationEmail = "activation_email"
	JobAdminChildAdded = "admin_child_added"
)

// JobScheduler defers work. *scheduler.Scheduler satisfies it.
type JobScheduler interface {
	Schedule(delay time.Duration, name string, action scheduler.Action) string
}

// AdminDirectory resolves notification recipients.
type AdminDirectory interface {
	ListActiveAdmins(ctx context.Context) ([]domain.User, error)
}

// NotificationService turns domain events into emails delivered off the request path.
type NotificationService struct {
	dispatcher events.Dispatcher
	jobs       JobScheduler
	sender     notify.Sender
	admins     AdminDirectory
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(
	dispatcher events.Dispatcher,
	jobs JobScheduler,
	sender notify.Sender,
	admins AdminDirectory,
	logger *zap.Logger,
	cfg config.NotificationConfig,
) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		jobs:       jobs,
		sender:     sender,
		admins:     admins,
		logger:     logger.Named("notification"),
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventParentRegistered, n.handleActivation)
	n.dispatcher.Subscribe(events.EventActivationRequested, n.handleActivation)
	n.dispatcher.Subscribe(events.EventChildAdded, n.handleChildAdded)
}

func (n *NotificationService) handleActivation(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ActivationPayload)
	if !ok {
		return fmt.Errorf("%s: unexpected payload %T", event.Type, event.Payload)
	}
	body, err := notify.Render(notify.TemplateActivate, notify.ActivateData{
		FirstName: payload.FirstName,
		Token:     payload.Token,
	})
	if err != nil {
		return err
	}

	msg := notify.Message{To: payload.Email, Subject: SubjectActivate, HTML: body}
	id := n.jobs.Schedule(0, JobActivationEmail, func(ctx context.Context) error {
		return n.sender.Send(ctx, msg)
	})
	n.logger.Info("activation email scheduled",
		zap.String("job_id", id),
		zap.Int64("user_id", event.UserID),
		zap.String("event_type", string(event.Type)))
	return nil
}

func (n *NotificationService) handleChildAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ChildAddedPayload)
	if !ok {
		return fmt.Errorf("%s: unexpected payload %T", event.Type, event.Payload)
	}

	admins, err := n.admins.ListActiveAdmins(ctx)
	if err != nil {
		return fmt.Errorf("resolve admins: %w", err)
	}
	if len(admins) == 0 {
		n.logger.Debug("no active admins to notify", zap.Int64("child_id", payload.ChildID))
		return nil
	}
	recipients := make([]string, 0, len(admins))
	for _, admin := range admins {
		recipients = append(recipients, admin.Email)
	}

	body, err := notify.Render(notify.TemplateChildAdded, notify.ChildAddedData{
		Name:       payload.ChildName,
		ParentName: payload.ParentName,
	})
	if err != nil {
		return err
	}

	id := n.jobs.Schedule(n.cfg.AdminDelay, JobAdminChildAdded, func(ctx context.Context) error {
		var errs []error
		for _, to := range recipients {
			if err := n.sender.Send(ctx, notify.Message{To: to, Subject: SubjectChildAdded, HTML: body}); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
	n.logger.Info("admin notification scheduled",
		zap.String("job_id", id),
		zap.Int64("child_id", payload.ChildID),
		zap.Int("recipients", len(recipients)),
		zap.Duration("delay", n.cfg.AdminDelay))
	return nil
}
