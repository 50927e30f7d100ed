// Package live runs registration forms over WebSocket connections: the browser sends
// field changes and submit requests, the server answers with full state snapshots.
package live

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Dosada05/coforge-registration/controllers"
	"github.com/Dosada05/coforge-registration/models"
	"github.com/Dosada05/coforge-registration/services"
)

const (
	EventChange = "change"
	EventSubmit = "submit"

	FrameState = "state"
	FrameError = "error"
)

// Event - входящее сообщение от браузера.
type Event struct {
	Type  string       `json:"type"`
	Field models.Field `json:"field,omitempty"`
	Value string       `json:"value,omitempty"`
}

type StateFrame struct {
	Type      string           `json:"type"`
	Form      models.FormState `json:"form"`
	ShowOther bool             `json:"show_other"`
	Busy      bool             `json:"busy"`
	Ready     bool             `json:"ready"`
	Outcome   models.Outcome   `json:"outcome"`
}

type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Session owns one FormController. Run is its only goroutine touching the controller.
type Session struct {
	ID      uuid.UUID
	ctrl    *controllers.FormController
	svc     services.RegistrationService
	logger  *slog.Logger
	results chan error
}

func NewSession(svc services.RegistrationService, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.New()
	return &Session{
		ID:      id,
		ctrl:    controllers.NewFormController(svc, logger),
		svc:     svc,
		logger:  logger.With(slog.String("session_id", id.String())),
		results: make(chan error, 1),
	}
}

// Run processes events until ctx is done or events is closed. The initial
// snapshot is emitted before the first event is read.
func (s *Session) Run(ctx context.Context, events <-chan Event, emit func(frame any)) {
	emit(s.snapshot())
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.handle(ctx, ev, emit)
		case err := <-s.results:
			s.ctrl.CompleteSubmit(err)
			emit(s.snapshot())
		}
	}
}

func (s *Session) handle(ctx context.Context, ev Event, emit func(frame any)) {
	switch ev.Type {
	case EventChange:
		if err := s.ctrl.UpdateField(ev.Field, ev.Value); err != nil {
			emit(ErrorFrame{Type: FrameError, Message: err.Error()})
			return
		}
		emit(s.snapshot())

	case EventSubmit:
		rec, err := s.ctrl.BeginSubmit()
		if errors.Is(err, controllers.ErrSubmissionInFlight) {
			emit(ErrorFrame{Type: FrameError, Message: err.Error()})
			return
		}
		emit(s.snapshot())
		if err != nil {
			return
		}
		// Отправленный запрос не отменяется, даже если соединение закрылось.
		go s.persist(context.WithoutCancel(ctx), rec)

	default:
		emit(ErrorFrame{Type: FrameError, Message: "unknown event type " + ev.Type})
	}
}

// persist sends exactly one result; results has room for it, so this never blocks
// even after Run has returned.
func (s *Session) persist(ctx context.Context, rec *models.Registration) {
	err := s.svc.Persist(ctx, rec)
	if err != nil {
		s.logger.WarnContext(ctx, "live submission failed", slog.Any("error", err))
	}
	s.results <- err
}

func (s *Session) snapshot() StateFrame {
	return StateFrame{
		Type:      FrameState,
		Form:      s.ctrl.State(),
		ShowOther: s.ctrl.ShowOther(),
		Busy:      s.ctrl.Busy(),
		Ready:     s.ctrl.Ready(),
		Outcome:   s.ctrl.Outcome(),
	}
}
