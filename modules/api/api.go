package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/SaribMalek/relay/pkg/binder"
	"github.com/SaribMalek/relay/pkg/chat"
	"github.com/SaribMalek/relay/pkg/logger"
	"github.com/SaribMalek/relay/pkg/notification"
)

// Service exposes the notification and chat services over HTTP.
type Service struct {
	notifications *notification.Service
	chat          *chat.Service
	logger        *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger for the Service.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New creates the HTTP API around the given services.
func New(notifications *notification.Service, chatSvc *chat.Service, opts ...Option) *Service {
	s := &Service{
		notifications: notifications,
		chat:          chatSvc,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("api"))
	return s
}

// Handle returns the module router, ready to be mounted.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.backlog)
	r.Get("/messages", s.history)
	r.Post("/api/notify", s.notify)
	r.Post("/api/mark-read", s.markRead)

	return r
}

type notifyRequest struct {
	UserID  *int64         `json:"userId"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta"`
}

func (s *Service) notify(w http.ResponseWriter, r *http.Request) {
	var in notifyRequest
	if err := binder.JSON()(r, &in); err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}

	n, err := s.notifications.Publish(r.Context(), notification.PublishInput{
		UserID:  in.UserID,
		Title:   in.Title,
		Message: in.Message,
		Meta:    in.Meta,
	})
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}

	s.respond(w, http.StatusOK, map[string]any{
		"ok":      true,
		"id":      n.ID,
		"payload": n,
	})
}

type markReadRequest struct {
	ID int64 `json:"id"`
}

func (s *Service) markRead(w http.ResponseWriter, r *http.Request) {
	var in markReadRequest
	if err := binder.JSON()(r, &in); err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	if in.ID <= 0 {
		s.fail(w, r, http.StatusBadRequest, errors.New("id must be a positive integer"))
		return
	}

	if err := s.notifications.MarkRead(r.Context(), in.ID); err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}

	s.respond(w, http.StatusOK, map[string]any{"ok": true})
}

type backlogQuery struct {
	UserID *int64 `query:"userId"`
}

func (s *Service) backlog(w http.ResponseWriter, r *http.Request) {
	var q backlogQuery
	if err := binder.Query()(r, &q); err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}

	list, err := s.notifications.Backlog(r.Context(), q.UserID)
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}
	unread, err := s.notifications.CountUnread(r.Context(), q.UserID)
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}

	s.respond(w, http.StatusOK, map[string]any{
		"ok":            true,
		"userId":        q.UserID,
		"unread":        unread,
		"notifications": list,
	})
}

type historyQuery struct {
	Room string `query:"room"`
}

func (s *Service) history(w http.ResponseWriter, r *http.Request) {
	var q historyQuery
	if err := binder.Query()(r, &q); err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}

	list, err := s.chat.History(r.Context(), q.Room)
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}

	s.respond(w, http.StatusOK, list)
}

func (s *Service) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encoding failed", logger.Error(err))
	}
}

func (s *Service) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			logger.Error(err),
		)
	}
	s.respond(w, status, map[string]any{
		"ok":    false,
		"error": err.Error(),
	})
}

// statusFor maps service errors to HTTP status codes. Validation problems
// are the caller's fault, everything else is ours.
func statusFor(err error) int {
	switch {
	case errors.Is(err, notification.ErrValidation), errors.Is(err, chat.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, notification.ErrStore), errors.Is(err, chat.ErrStore):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
