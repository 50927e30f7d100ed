package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Dosada05/coforge-registration/models"
	"github.com/Dosada05/coforge-registration/repositories"
)

type RegistrationService interface {
	// Ready reports whether the underlying store can be used.
	Ready() bool
	// Persist writes an already validated record.
	Persist(ctx context.Context, rec *models.Registration) error
	// Register checks readiness, validates, maps and persists in one call.
	Register(ctx context.Context, form models.FormState) (*models.Registration, error)
}

type registrationService struct {
	store  repositories.DataStore
	logger *slog.Logger
}

func NewRegistrationService(store repositories.DataStore, logger *slog.Logger) RegistrationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &registrationService{store: store, logger: logger}
}

func (s *registrationService) Ready() bool {
	return s.store != nil && s.store.Ready()
}

func (s *registrationService) Persist(ctx context.Context, rec *models.Registration) error {
	if !s.Ready() {
		return ErrStoreNotConfigured
	}

	err := s.store.Insert(ctx, models.RegistrationsTable, rec)
	if err != nil {
		if errors.Is(err, repositories.ErrStoreNotReady) {
			return ErrStoreNotConfigured
		}
		s.logger.ErrorContext(ctx, "registration insert failed",
			slog.String("table", models.RegistrationsTable),
			slog.String("community", rec.Community),
			slog.Any("error", err))
		return &PersistenceError{Err: err}
	}

	s.logger.InfoContext(ctx, "registration saved",
		slog.String("table", models.RegistrationsTable),
		slog.String("community", rec.Community),
		slog.String("source", rec.Source))
	return nil
}

func (s *registrationService) Register(ctx context.Context, form models.FormState) (*models.Registration, error) {
	// Порядок важен: без готового хранилища валидация не выполняется.
	if !s.Ready() {
		return nil, ErrStoreNotConfigured
	}
	if !Validate(form) {
		return nil, ErrValidationFailed
	}

	rec := BuildRegistration(form)
	if err := s.Persist(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Validate reports whether form can be submitted.
func Validate(form models.FormState) bool {
	required := []string{
		form.Leader.Name, form.Leader.College, form.Leader.Phone, form.Leader.Email,
		form.CoLeader.Name, form.CoLeader.College, form.CoLeader.Phone, form.CoLeader.Email,
		form.Community, form.Source,
	}
	ok := true
	for _, v := range required {
		if isBlank(v) {
			ok = false
		}
	}

	if form.Community == models.CommunityOther && isBlank(form.CommunityOther) {
		ok = false
	}
	if !form.EligibilityConfirmed {
		ok = false
	}

	// select в форме не даст других значений, но JSON API может.
	if !isBlank(form.Community) && !models.IsCommunity(form.Community) {
		ok = false
	}
	if !isBlank(form.Source) && !models.IsSource(form.Source) {
		ok = false
	}
	return ok
}

// BuildRegistration maps a form to the persisted record. community_other is nil
// unless the "other" community was chosen, whatever the field holds.
func BuildRegistration(form models.FormState) *models.Registration {
	rec := &models.Registration{
		LeaderName:           form.Leader.Name,
		LeaderCollege:        form.Leader.College,
		LeaderPhone:          form.Leader.Phone,
		LeaderEmail:          form.Leader.Email,
		CoLeaderName:         form.CoLeader.Name,
		CoLeaderCollege:      form.CoLeader.College,
		CoLeaderPhone:        form.CoLeader.Phone,
		CoLeaderEmail:        form.CoLeader.Email,
		Community:            form.Community,
		Source:               form.Source,
		EligibilityConfirmed: form.EligibilityConfirmed,
	}
	if form.Community == models.CommunityOther {
		other := form.CommunityOther
		rec.CommunityOther = &other
	}
	return rec
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
