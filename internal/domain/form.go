package domain

import (
	"strings"
	"time"
)

// QuestionKind is the answer type of a question.
type QuestionKind string

const (
	QuestionRating         QuestionKind = "rating"
	QuestionText           QuestionKind = "text"
	QuestionMultipleChoice QuestionKind = "multiple_choice"
)

// Question is a reusable form question.
type Question struct {
	ID        string       `json:"id"`
	Text      string       `json:"text"`
	Kind      QuestionKind `json:"kind"`
	Options   []string     `json:"options,omitempty"`
	Active    bool         `json:"active"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Key returns the identity used by the resource cache.
func (q Question) Key() string { return q.ID }

// NewQuestion is the body for creating a question.
type NewQuestion struct {
	Text    string       `json:"text"`
	Kind    QuestionKind `json:"kind"`
	Options []string     `json:"options,omitempty"`
}

// Validate checks the mandatory fields before any request is sent.
// Multiple choice questions are read back but cannot be created.
func (n NewQuestion) Validate() error {
	if strings.TrimSpace(n.Text) == "" {
		return &ErrValidation{Message: "O texto da pergunta é obrigatório."}
	}
	switch n.Kind {
	case QuestionRating, QuestionText:
		return nil
	case QuestionMultipleChoice:
		return &ErrValidation{Field: "kind", Message: "multiple choice questions are not supported"}
	default:
		return &ErrValidation{Field: "kind", Message: "kind must be rating or text"}
	}
}

// Form groups questions sent to customers by a campaign. Questions are
// resolved by the backend.
type Form struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Active      bool       `json:"active"`
	Questions   []Question `json:"questions"`
}

// Key returns the identity used by the resource cache.
func (f Form) Key() string { return f.ID }

// QuestionIDs returns the identifiers of the embedded questions in order.
func (f Form) QuestionIDs() []string {
	ids := make([]string, 0, len(f.Questions))
	for _, q := range f.Questions {
		ids = append(ids, q.ID)
	}
	return ids
}

// FormInput is the flat payload for creating or updating a form.
type FormInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	QuestionIDs []string `json:"questionIds"`
	Active      *bool    `json:"active,omitempty"`
}

// Validate checks the mandatory fields before any request is sent.
func (in FormInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" || len(in.QuestionIDs) == 0 {
		return &ErrValidation{Message: "Título e pelo menos uma pergunta são necessários."}
	}
	return nil
}
