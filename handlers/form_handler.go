package handlers

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/Dosada05/coforge-registration/controllers"
	"github.com/Dosada05/coforge-registration/models"
	"github.com/Dosada05/coforge-registration/services"
	"github.com/Dosada05/coforge-registration/web"
)

const (
	PageTitle = "Co-Forge Challenge 1.0 Registration"

	// BusyMessage is shown when the same page is posted again before the first insert finished.
	BusyMessage = "Your registration is already being submitted. Please wait."

	inflightTTL     = 5 * time.Minute
	inflightCleanup = 10 * time.Minute
)

// PageOptions - то, что страница берет из конфигурации.
type PageOptions struct {
	LogoURL         string
	LogoFallbackURL string
}

type pageData struct {
	Title           string
	LogoURL         string
	LogoFallbackURL string
	FormToken       string
	Form            models.FormState
	ShowOther       bool
	Ready           bool
	Outcome         models.Outcome
	Communities     []string
	Sources         []string
	OtherCommunity  string
}

// FormHandler serves the server-rendered registration page.
// Each request builds its own FormController; in-flight submits are tracked by form token.
type FormHandler struct {
	svc      services.RegistrationService
	tmpl     *template.Template
	opts     PageOptions
	inflight *cache.Cache
	logger   *slog.Logger
}

func NewFormHandler(svc services.RegistrationService, opts PageOptions, logger *slog.Logger) (*FormHandler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tmpl, err := template.ParseFS(web.Templates(), "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	return &FormHandler{
		svc:      svc,
		tmpl:     tmpl,
		opts:     opts,
		inflight: cache.New(inflightTTL, inflightCleanup),
		logger:   logger,
	}, nil
}

// ShowForm renders an empty form.
func (h *FormHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	ctrl := controllers.NewFormController(h.svc, h.logger)
	h.render(w, r, http.StatusOK, h.page(ctrl, uuid.NewString()))
}

// SubmitForm applies the posted fields to a fresh controller and submits it.
func (h *FormHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	ctrl := controllers.NewFormController(h.svc, h.logger)
	applyPostedFields(ctrl, r)

	token := r.PostForm.Get("form_token")
	if _, err := uuid.Parse(token); err != nil {
		token = uuid.NewString()
	}

	if err := h.inflight.Add(token, struct{}{}, cache.DefaultExpiration); err != nil {
		h.logger.WarnContext(r.Context(), "duplicate form submission rejected", slog.String("form_token", token))
		page := h.page(ctrl, token)
		page.Outcome = models.Outcome{Kind: models.OutcomeError, Message: BusyMessage}
		h.render(w, r, http.StatusConflict, page)
		return
	}

	// Вставку не прерываем, даже если браузер ушел.
	outcome := ctrl.Submit(context.WithoutCancel(r.Context()))
	h.inflight.Delete(token)

	if outcome.Kind == models.OutcomeSuccess {
		token = uuid.NewString()
	}
	h.render(w, r, http.StatusOK, h.page(ctrl, token))
}

// applyPostedFields sets every known field from the form body in display order:
// community comes before community_other, so the text is kept only for the "other" choice.
func applyPostedFields(ctrl *controllers.FormController, r *http.Request) {
	for _, f := range models.TextFields {
		_ = ctrl.UpdateField(f, r.PostForm.Get(string(f)))
	}
	_ = ctrl.UpdateField(models.FieldEligibilityConfirmed, r.PostForm.Get(string(models.FieldEligibilityConfirmed)))
}

func (h *FormHandler) page(ctrl *controllers.FormController, token string) pageData {
	return pageData{
		Title:           PageTitle,
		LogoURL:         h.opts.LogoURL,
		LogoFallbackURL: h.opts.LogoFallbackURL,
		FormToken:       token,
		Form:            ctrl.State(),
		ShowOther:       ctrl.ShowOther(),
		Ready:           ctrl.Ready(),
		Outcome:         ctrl.Outcome(),
		Communities:     models.Communities,
		Sources:         models.Sources,
		OtherCommunity:  models.CommunityOther,
	}
}

func (h *FormHandler) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "register", data); err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.DebugContext(r.Context(), "failed to write page", slog.Any("error", err))
	}
}
