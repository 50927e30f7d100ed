package models

type OutcomeKind string

const (
	OutcomeNone    OutcomeKind = ""
	OutcomeSuccess OutcomeKind = "success"
	OutcomeError   OutcomeKind = "error"
)

// Outcome - результат последней попытки отправки, показывается баннером.
type Outcome struct {
	Kind    OutcomeKind `json:"kind"`
	Message string      `json:"message"`
}

func (o Outcome) IsZero() bool { return o.Kind == OutcomeNone && o.Message == "" }
