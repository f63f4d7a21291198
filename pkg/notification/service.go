package notification

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/SaribMalek/relay/pkg/logger"
)

// DefaultBacklogLimit bounds how much history Backlog returns.
const DefaultBacklogLimit = 50

// PublishInput is a normalized publish request from either a programmatic
// caller or a connected client.
type PublishInput struct {
	UserID  *int64         `json:"userId" validate:"omitempty,gt=0"`
	Title   string         `json:"title" validate:"required"`
	Message string         `json:"message" validate:"required"`
	Meta    map[string]any `json:"meta" validate:"-"`
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger for the Service.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithBacklogLimit overrides the default backlog size.
func WithBacklogLimit(limit int) ServiceOption {
	return func(s *Service) {
		if limit > 0 {
			s.backlogLimit = limit
		}
	}
}

// Service drives the publish flow: validate, persist, fan out. It also
// serves the read side (backlog, unread count, mark-read).
type Service struct {
	storage      Storage
	deliverer    Deliverer
	validate     *validator.Validate
	logger       *slog.Logger
	backlogLimit int
}

// NewService creates a notification service. A nil deliverer disables
// real-time delivery; persistence still happens.
func NewService(storage Storage, deliverer Deliverer, opts ...ServiceOption) *Service {
	if deliverer == nil {
		deliverer = NoOpDeliverer{}
	}

	s := &Service{
		storage:      storage,
		deliverer:    deliverer,
		validate:     validator.New(),
		logger:       slog.Default(),
		backlogLimit: DefaultBacklogLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish validates the request, persists it, then attempts real-time
// delivery. A store failure aborts the flow before any delivery attempt; a
// delivery failure after a successful write is logged and swallowed, because
// the notification is durable and retrievable through the backlog.
func (s *Service) Publish(ctx context.Context, in PublishInput) (*Notification, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, errors.Join(ErrValidation, err)
	}

	n := Notification{
		UserID:  in.UserID,
		Title:   in.Title,
		Message: in.Message,
		Meta:    in.Meta,
	}

	if err := s.storage.Create(ctx, &n); err != nil {
		return nil, errors.Join(ErrStore, err)
	}

	if err := s.deliverer.Deliver(ctx, n); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "notification stored but not delivered",
			logger.NotificationID(n.ID),
			logger.UserID(n.UserID),
			logger.Error(err),
		)
	}

	return &n, nil
}

// MarkRead flags a notification as read. Idempotent; an unknown id is not
// an error.
func (s *Service) MarkRead(ctx context.Context, id int64) error {
	if err := s.storage.MarkRead(ctx, id); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

// Backlog returns recent history for the recipient, newest first, so a
// client can reconstruct state before live events arrive. A nil userID
// yields broadcasts only.
func (s *Service) Backlog(ctx context.Context, userID *int64) ([]Notification, error) {
	list, err := s.storage.ListRecent(ctx, userID, s.backlogLimit)
	if err != nil {
		return nil, errors.Join(ErrStore, err)
	}
	return list, nil
}

// CountUnread returns the number of unread notifications visible to the
// recipient.
func (s *Service) CountUnread(ctx context.Context, userID *int64) (int, error) {
	count, err := s.storage.CountUnread(ctx, userID)
	if err != nil {
		return 0, errors.Join(ErrStore, err)
	}
	return count, nil
}
