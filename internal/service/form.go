package service

import (
	"context"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/observability"
	"github.com/equipe-feedtrack/feedtrack/internal/port"
	"github.com/equipe-feedtrack/feedtrack/internal/resource"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var formTracer = otel.Tracer("service/form")

// FormService owns the form and question collections. Forms embed
// questions resolved by the backend, so every form write reloads the list.
type FormService struct {
	backend   port.FormBackend
	forms     *resource.Collection[domain.Form]
	questions *resource.Collection[domain.Question]
	logger    *zap.Logger
}

// NewFormService creates the form service.
func NewFormService(backend port.FormBackend, notifier port.Notifier, metrics *observability.Metrics, logger *zap.Logger) *FormService {
	return &FormService{
		backend: backend,
		forms: resource.New("forms", backend.ListForms,
			resource.WithPolicy(resource.PolicyReload),
			resource.WithMessages(resource.Messages{
				LoadFailed:   "Não foi possível carregar os formulários.",
				Created:      "Formulário criado com sucesso!",
				CreateFailed: "Não foi possível criar o formulário.",
				Updated:      "Formulário atualizado.",
				UpdateFailed: "Não foi possível atualizar o formulário.",
				Deleted:      "Formulário excluído.",
				DeleteFailed: "Não foi possível excluir o formulário.",
			}),
			resource.WithNotifier(notifier),
			resource.WithMetrics(metrics),
			resource.WithLogger(logger),
		),
		questions: resource.New("questions", backend.ListQuestions,
			resource.WithPolicy(resource.PolicyPatch),
			resource.WithMessages(resource.Messages{
				LoadFailed:   "Não foi possível carregar as perguntas.",
				Created:      "Pergunta criada.",
				CreateFailed: "Não foi possível criar a pergunta.",
			}),
			resource.WithNotifier(notifier),
			resource.WithMetrics(metrics),
			resource.WithLogger(logger),
		),
		logger: logger,
	}
}

// Forms exposes the form cache for status reporting.
func (s *FormService) Forms() *resource.Collection[domain.Form] { return s.forms }

// Questions exposes the question cache for status reporting.
func (s *FormService) Questions() *resource.Collection[domain.Question] { return s.questions }

// Warm loads forms and questions in parallel.
func (s *FormService) Warm(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.forms.Load(gctx) })
	g.Go(func() error { return s.questions.Load(gctx) })
	return g.Wait()
}

// ListForms returns every cached form.
func (s *FormService) ListForms() []domain.Form { return s.forms.List() }

// HasForms reports whether at least one form exists.
func (s *FormService) HasForms() bool { return s.forms.Len() > 0 }

// GetForm returns one cached form.
func (s *FormService) GetForm(id string) (*domain.Form, error) {
	f, ok := s.forms.Get(id)
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "form", ID: id}
	}
	return &f, nil
}

// FormTitle resolves a form id to its title.
func (s *FormService) FormTitle(id string) (string, bool) {
	f, ok := s.forms.Get(id)
	if !ok {
		return "", false
	}
	return f.Title, true
}

// CreateForm creates a form from question ids.
func (s *FormService) CreateForm(ctx context.Context, in domain.FormInput) (*domain.Form, error) {
	ctx, span := formTracer.Start(ctx, "FormService.CreateForm")
	defer span.End()

	if err := in.Validate(); err != nil {
		return nil, err
	}
	byTitle := func(f domain.Form) bool { return f.Title == in.Title }
	return s.forms.CreateMatching(ctx, byTitle, func(ctx context.Context) (*domain.Form, error) {
		return s.backend.CreateForm(ctx, in)
	})
}

// UpdateForm replaces the title, description and question list of a form.
func (s *FormService) UpdateForm(ctx context.Context, id string, in domain.FormInput) (*domain.Form, error) {
	ctx, span := formTracer.Start(ctx, "FormService.UpdateForm")
	defer span.End()
	span.SetAttributes(attribute.String("form.id", id))

	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.forms.Update(ctx, id, func(ctx context.Context) (*domain.Form, error) {
		return s.backend.UpdateForm(ctx, id, in)
	})
}

// DeleteForm hard-deletes a form.
func (s *FormService) DeleteForm(ctx context.Context, id string) error {
	ctx, span := formTracer.Start(ctx, "FormService.DeleteForm")
	defer span.End()
	span.SetAttributes(attribute.String("form.id", id))

	return s.forms.Remove(ctx, id, func(ctx context.Context) error {
		return s.backend.DeleteForm(ctx, id)
	})
}

// ListQuestions returns every cached question.
func (s *FormService) ListQuestions() []domain.Question { return s.questions.List() }

// CreateQuestion appends a question to the bank.
func (s *FormService) CreateQuestion(ctx context.Context, in domain.NewQuestion) (*domain.Question, error) {
	ctx, span := formTracer.Start(ctx, "FormService.CreateQuestion")
	defer span.End()

	if err := in.Validate(); err != nil {
		return nil, err
	}
	byText := func(q domain.Question) bool { return q.Text == in.Text }
	return s.questions.CreateMatching(ctx, byText, func(ctx context.Context) (*domain.Question, error) {
		return s.backend.CreateQuestion(ctx, in)
	})
}
