package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/parentchild/account-service/internal/domain"
	"github.com/parentchild/account-service/internal/events"
	"github.com/parentchild/account-service/internal/repository"
	apperrors "github.com/parentchild/account-service/pkg/util/errorutil"
)

// AddChildInput is the payload for creating a child.
type AddChildInput struct {
	Name           string
	Age            int
	AdditionalInfo string
}

// ChildService manages a parent's children.
type ChildService struct {
	children   repository.ChildRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewChildService constructs the service.
func NewChildService(children repository.ChildRepository, dispatcher events.Dispatcher, logger *zap.Logger) *ChildService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChildService{children: children, dispatcher: dispatcher, logger: logger.Named("child")}
}

func requireParent(actor *domain.User) error {
	if actor == nil || !actor.IsParent {
		return apperrors.NewForbidden("parent account required")
	}
	return nil
}

// List returns the parent's live children matching filter.
func (s *ChildService) List(ctx context.Context, parent *domain.User, filter domain.ChildFilter) ([]domain.Child, error) {
	if err := requireParent(parent); err != nil {
		return nil, err
	}
	children, err := s.children.ListByParent(ctx, parent.ID, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return children, nil
}

// Add stores a child and announces it so administrators get notified.
func (s *ChildService) Add(ctx context.Context, parent *domain.User, in AddChildInput) (*domain.Child, error) {
	if err := requireParent(parent); err != nil {
		return nil, err
	}
	child := &domain.Child{
		ParentID:       parent.ID,
		Name:           strings.TrimSpace(in.Name),
		Age:            in.Age,
		AdditionalInfo: in.AdditionalInfo,
	}
	if err := s.children.Create(ctx, child); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:   events.EventChildAdded,
			UserID: parent.ID,
			Payload: events.ChildAddedPayload{
				ChildID:    child.ID,
				ChildName:  child.Name,
				ParentName: parent.FirstName,
			},
		})
	}
	return child, nil
}

// Update applies update to one of the parent's live children.
func (s *ChildService) Update(ctx context.Context, parent *domain.User, childID int64, update domain.ChildUpdate) (*domain.Child, error) {
	if err := requireParent(parent); err != nil {
		return nil, err
	}
	child, err := s.children.ApplyUpdate(ctx, parent.ID, childID, update)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("child", map[string]any{"child_id": childID})
		}
		return nil, apperrors.MapError(err)
	}
	return child, nil
}
