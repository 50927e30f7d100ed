package handlers

import (
	"context"
	"net/http"

	"github.com/Dosada05/coforge-registration/controllers"
	"github.com/Dosada05/coforge-registration/models"
	"github.com/Dosada05/coforge-registration/services"
)

// SessionCounter reports how many live form sessions are connected.
type SessionCounter interface {
	Count() int
}

type RegistrationHandler struct {
	svc      services.RegistrationService
	sessions SessionCounter
}

func NewRegistrationHandler(svc services.RegistrationService, sessions SessionCounter) *RegistrationHandler {
	return &RegistrationHandler{svc: svc, sessions: sessions}
}

// CreateRegistration godoc
// @Summary Зарегистрировать команду
// @Tags registrations
// @Description Проверяет форму и вставляет одну строку в таблицу registrations.
// @Accept json
// @Produce json
// @Param input body models.FormState true "Данные формы"
// @Success 201 {object} map[string]interface{} "Регистрация сохранена"
// @Failure 400 {object} map[string]string "Некорректный JSON"
// @Failure 422 {object} map[string]string "Не заполнены обязательные поля"
// @Failure 502 {object} map[string]string "Хранилище отклонило запись"
// @Failure 503 {object} map[string]string "Хранилище не настроено"
// @Router /api/registrations [post]
func (h *RegistrationHandler) CreateRegistration(w http.ResponseWriter, r *http.Request) {
	var form models.FormState
	if err := readJSON(w, r, &form); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rec, err := h.svc.Register(context.WithoutCancel(r.Context()), form)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"message":      controllers.SuccessMessage,
		"registration": rec,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Options godoc
// @Summary Допустимые значения community и source
// @Tags registrations
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/options [get]
func (h *RegistrationHandler) Options(w http.ResponseWriter, r *http.Request) {
	response := jsonResponse{
		"communities":     models.Communities,
		"sources":         models.Sources,
		"community_other": models.CommunityOther,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Health godoc
// @Summary Состояние сервиса
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /healthz [get]
func (h *RegistrationHandler) Health(w http.ResponseWriter, r *http.Request) {
	live := 0
	if h.sessions != nil {
		live = h.sessions.Count()
	}
	response := jsonResponse{
		"status":        "ok",
		"store_ready":   h.svc.Ready(),
		"live_sessions": live,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
