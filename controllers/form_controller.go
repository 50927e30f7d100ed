package controllers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Dosada05/coforge-registration/models"
	"github.com/Dosada05/coforge-registration/services"
)

const (
	SuccessMessage           = "Registration successful! Check your email for your Team ID and next steps."
	ConfigErrorMessage       = "Configuration Error: the registration store is not configured. Please check SUPABASE_URL and SUPABASE_ANON_KEY."
	ValidationErrorMessage   = "Please fill all required fields and confirm eligibility."
	PersistenceFailurePrefix = "Registration failed: "
	PersistenceFallback      = "Check your Supabase configuration and RLS policies."
)

var (
	ErrUnknownField       = errors.New("unknown form field")
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
)

// FormController держит состояние одной формы регистрации.
// Не потокобезопасен: все вызовы должны идти из одной горутины.
type FormController struct {
	svc       services.RegistrationService
	logger    *slog.Logger
	state     models.FormState
	showOther bool
	busy      bool
	outcome   models.Outcome
}

func NewFormController(svc services.RegistrationService, logger *slog.Logger) *FormController {
	if logger == nil {
		logger = slog.Default()
	}
	return &FormController{svc: svc, logger: logger}
}

// State returns a copy of the current field values.
func (c *FormController) State() models.FormState { return c.state }

// ShowOther - видно ли поле community_other.
func (c *FormController) ShowOther() bool { return c.showOther }

// Busy is true between BeginSubmit and CompleteSubmit.
func (c *FormController) Busy() bool { return c.busy }

// Outcome - баннер последней отправки, пустой до первой.
func (c *FormController) Outcome() models.Outcome { return c.outcome }

// Ready reports whether the data store can take a submit.
func (c *FormController) Ready() bool { return c.svc != nil && c.svc.Ready() }

// UpdateField applies one input event. Checkbox values are parsed from raw.
// community_other is ignored unless the "other" community is selected.
func (c *FormController) UpdateField(field models.Field, raw string) error {
	if field == models.FieldEligibilityConfirmed {
		c.SetEligibilityConfirmed(parseCheckbox(raw))
		return nil
	}

	ptr := c.state.Text(field)
	if ptr == nil {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	// Скрытое поле не хранит текст.
	if field == models.FieldCommunityOther && !c.showOther {
		c.state.CommunityOther = ""
		return nil
	}
	*ptr = raw

	if field == models.FieldCommunity {
		c.showOther = raw == models.CommunityOther
		if !c.showOther {
			c.state.CommunityOther = ""
		}
	}
	return nil
}

// SetEligibilityConfirmed sets the checkbox directly, without parsing.
func (c *FormController) SetEligibilityConfirmed(v bool) {
	c.state.EligibilityConfirmed = v
}

// Validate проверяет текущее состояние, ничего не меняя.
func (c *FormController) Validate() bool {
	return services.Validate(c.state)
}

// Submit runs the whole submit flow synchronously and returns the resulting outcome.
func (c *FormController) Submit(ctx context.Context) models.Outcome {
	rec, err := c.BeginSubmit()
	if err != nil {
		return c.outcome
	}
	return c.CompleteSubmit(c.svc.Persist(ctx, rec))
}

// BeginSubmit checks the preconditions and, when they hold, marks the controller
// busy and returns the payload to persist. Failures set the outcome themselves.
func (c *FormController) BeginSubmit() (*models.Registration, error) {
	if c.busy {
		return nil, ErrSubmissionInFlight
	}
	c.outcome = models.Outcome{}

	if !c.Ready() {
		c.outcome = models.Outcome{Kind: models.OutcomeError, Message: ConfigErrorMessage}
		return nil, services.ErrStoreNotConfigured
	}
	if !c.Validate() {
		c.outcome = models.Outcome{Kind: models.OutcomeError, Message: ValidationErrorMessage}
		return nil, services.ErrValidationFailed
	}

	c.busy = true
	return services.BuildRegistration(c.state), nil
}

// CompleteSubmit applies the result of the store call started by BeginSubmit.
func (c *FormController) CompleteSubmit(err error) models.Outcome {
	defer func() { c.busy = false }()

	if err != nil {
		c.outcome = models.Outcome{Kind: models.OutcomeError, Message: FailureMessage(err)}
		return c.outcome
	}

	c.outcome = models.Outcome{Kind: models.OutcomeSuccess, Message: SuccessMessage}
	c.state = models.FormState{}
	c.showOther = false
	return c.outcome
}

// FailureMessage maps a registration error to the banner text shown to the user.
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrStoreNotConfigured):
		return ConfigErrorMessage
	case errors.Is(err, services.ErrValidationFailed):
		return ValidationErrorMessage
	}

	detail := ""
	var perr *services.PersistenceError
	if errors.As(err, &perr) {
		detail = perr.Detail()
	} else {
		detail = strings.TrimSpace(err.Error())
	}
	if detail == "" {
		detail = PersistenceFallback
	}
	return PersistenceFailurePrefix + detail
}

func parseCheckbox(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "yes":
		return true
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && v
}
