package services

import (
	"errors"
	"fmt"

	"github.com/Dosada05/coforge-registration/repositories"
)

// Ошибки регистрации, используемые контроллером формы и маппингом HTTP.
var (
	ErrStoreNotConfigured = errors.New("registration store is not configured")
	ErrValidationFailed   = errors.New("required fields are missing or eligibility is not confirmed")
)

// PersistenceError wraps a failure reported by the data store during insert.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist registration: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Detail - текст ошибки хранилища для пользователя, "" если хранилище ничего не сообщило.
func (e *PersistenceError) Detail() string {
	return repositories.ErrorDetail(e.Err)
}
