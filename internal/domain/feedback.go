package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ============================================================
// Feedback submission (as stored by the backend)
// ============================================================

// Answer is one question/value pair of a submission. Value is a number,
// string or enum token depending on the question.
type Answer struct {
	QuestionID string `json:"questionId"`
	Value      any    `json:"value"`
}

// Feedback is one form fill-out by a customer.
type Feedback struct {
	ID           string     `json:"id"`
	FormID       string     `json:"formId,omitempty"`
	SubmissionID string     `json:"submissionId"`
	Answers      []Answer   `json:"answers"`
	CreatedAt    time.Time  `json:"createdAt"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
}

// Key returns the identity used by the resource cache.
func (f Feedback) Key() string { return f.ID }

// Envelope decodes the well-known answers of the submission.
func (f Feedback) Envelope() FeedbackEnvelope {
	env := EnvelopeFromAnswers(f.Answers)
	env.FormID = f.FormID
	env.SubmissionID = f.SubmissionID
	return env
}

// ============================================================
// Categories
// ============================================================

// FeedbackCategory classifies what a feedback is about.
type FeedbackCategory string

const (
	CategoryService FeedbackCategory = "SERVICE"
	CategoryProduct FeedbackCategory = "PRODUCT"
	CategoryCompany FeedbackCategory = "COMPANY"
)

var categoryLabels = map[FeedbackCategory]string{
	CategoryService: "Atendimento",
	CategoryProduct: "Produto",
	CategoryCompany: "Empresa",
}

// Categories lists every category in display order.
func Categories() []FeedbackCategory {
	return []FeedbackCategory{CategoryService, CategoryProduct, CategoryCompany}
}

// Label returns the name shown on the dashboard.
func (c FeedbackCategory) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// ParseFeedbackCategory accepts either the code or the dashboard label.
func ParseFeedbackCategory(s string) (FeedbackCategory, bool) {
	s = strings.TrimSpace(s)
	for c, label := range categoryLabels {
		if strings.EqualFold(s, string(c)) || strings.EqualFold(s, label) {
			return c, true
		}
	}
	return "", false
}

// ============================================================
// Typed envelope
// ============================================================

// Well-known answer keys carrying business fields.
const (
	AnswerCustomerID   = "customerId"
	AnswerProductID    = "productId"
	AnswerRating       = "rating"
	AnswerComment      = "comment"
	AnswerEmployeeName = "employeeName"
	AnswerFeedbackType = "feedbackType"
)

// FeedbackEnvelope carries the business fields of a submission as typed
// values. Extra holds form-specific answers keyed by question id.
type FeedbackEnvelope struct {
	FormID       string           `json:"formId,omitempty"`
	SubmissionID string           `json:"submissionId,omitempty"`
	CustomerID   string           `json:"customerId"`
	ProductID    string           `json:"productId"`
	Rating       int              `json:"rating"`
	Comment      string           `json:"comment"`
	EmployeeName string           `json:"employeeName"`
	Category     FeedbackCategory `json:"category"`
	Extra        map[string]any   `json:"extra,omitempty"`
}

// Validate checks the mandatory fields before any request is sent.
func (e FeedbackEnvelope) Validate() error {
	if strings.TrimSpace(e.CustomerID) == "" || strings.TrimSpace(e.ProductID) == "" {
		return &ErrValidation{Message: "Selecione um cliente e um produto."}
	}
	if strings.TrimSpace(e.Comment) == "" || strings.TrimSpace(e.EmployeeName) == "" {
		return &ErrValidation{Message: "Preencha os campos de atendente e comentário."}
	}
	if e.Rating < 1 || e.Rating > 5 {
		return &ErrValidation{Field: "rating", Message: "rating must be between 1 and 5"}
	}
	if e.Category != "" {
		if _, ok := categoryLabels[e.Category]; !ok {
			return &ErrValidation{Field: "category", Message: "unknown feedback category"}
		}
	}
	return nil
}

// EnvelopeFromAnswers reads the well-known keys out of an answer list.
// Unknown keys end up in Extra.
func EnvelopeFromAnswers(answers []Answer) FeedbackEnvelope {
	var env FeedbackEnvelope
	for _, a := range answers {
		switch a.QuestionID {
		case AnswerCustomerID:
			env.CustomerID = answerString(a.Value)
		case AnswerProductID:
			env.ProductID = answerString(a.Value)
		case AnswerRating:
			env.Rating = answerInt(a.Value)
		case AnswerComment:
			env.Comment = answerString(a.Value)
		case AnswerEmployeeName:
			env.EmployeeName = answerString(a.Value)
		case AnswerFeedbackType:
			if c, ok := ParseFeedbackCategory(answerString(a.Value)); ok {
				env.Category = c
			}
		default:
			if env.Extra == nil {
				env.Extra = make(map[string]any)
			}
			env.Extra[a.QuestionID] = a.Value
		}
	}
	return env
}

// Answers encodes the envelope as the answer list stored by the backend.
// Known keys come first in a fixed order, then extras sorted by key.
func (e FeedbackEnvelope) Answers() []Answer {
	answers := make([]Answer, 0, 6+len(e.Extra))
	add := func(key string, v any, present bool) {
		if present {
			answers = append(answers, Answer{QuestionID: key, Value: v})
		}
	}
	add(AnswerCustomerID, e.CustomerID, e.CustomerID != "")
	add(AnswerProductID, e.ProductID, e.ProductID != "")
	add(AnswerRating, e.Rating, e.Rating != 0)
	add(AnswerComment, e.Comment, e.Comment != "")
	add(AnswerEmployeeName, e.EmployeeName, e.EmployeeName != "")
	add(AnswerFeedbackType, e.Category.Label(), e.Category != "")

	keys := make([]string, 0, len(e.Extra))
	for k := range e.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		answers = append(answers, Answer{QuestionID: k, Value: e.Extra[k]})
	}
	return answers
}

func answerString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func answerInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(math.Round(t))
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return int(math.Round(f))
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return i
		}
	}
	return 0
}

// ============================================================
// Display view and filtering
// ============================================================

// NotAvailable is shown when a feedback field is empty.
const NotAvailable = "N/A"

// FeedbackEntry is a feedback resolved for display: references are
// replaced by names and the category carries its label.
type FeedbackEntry struct {
	ID            string           `json:"id"`
	SubmissionID  string           `json:"submissionId"`
	FormID        string           `json:"formId,omitempty"`
	CustomerID    string           `json:"customerId"`
	CustomerName  string           `json:"customerName"`
	ProductID     string           `json:"productId"`
	ProductName   string           `json:"productName"`
	Rating        int              `json:"rating"`
	Comment       string           `json:"comment"`
	EmployeeName  string           `json:"employeeName"`
	Category      FeedbackCategory `json:"category"`
	CategoryLabel string           `json:"categoryLabel"`
	Date          string           `json:"date"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// FeedbackFilter narrows the feedback list. Zero values disable a criterion.
type FeedbackFilter struct {
	Search   string
	Category FeedbackCategory
	Rating   int
	From     *time.Time
	To       *time.Time
}

// Matches reports whether the entry satisfies every active criterion.
// Dates compare at day granularity and both bounds are inclusive.
func (f FeedbackFilter) Matches(e FeedbackEntry) bool {
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		hit := false
		for _, field := range []string{e.CustomerName, e.ProductName, e.EmployeeName, e.Comment} {
			if strings.Contains(strings.ToLower(field), term) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.Rating > 0 && e.Rating != f.Rating {
		return false
	}
	day := truncateDay(e.CreatedAt)
	if f.From != nil && day.Before(truncateDay(*f.From)) {
		return false
	}
	if f.To != nil && day.After(truncateDay(*f.To)) {
		return false
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
