package service

import (
	"context"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/observability"
	"github.com/equipe-feedtrack/feedtrack/internal/port"
	"github.com/equipe-feedtrack/feedtrack/internal/resource"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var feedbackTracer = otel.Tracer("service/feedback")

// DefaultFeedbackPageSize is the number of entries per feedback page.
const DefaultFeedbackPageSize = 5

// displayDate is the dashboard date format.
const displayDate = "02/01/2006"

// NameResolver maps an id to a display name.
type NameResolver interface {
	Name(id string) (string, bool)
}

// FeedbackService owns the feedback collection and its filtered view.
type FeedbackService struct {
	backend   port.FeedbackBackend
	feedbacks *resource.Collection[domain.Feedback]
	customers NameResolver
	products  NameResolver
	pageSize  int
	logger    *zap.Logger
}

// NewFeedbackService creates the feedback service. Names in entries are
// resolved through customers and products.
func NewFeedbackService(backend port.FeedbackBackend, customers, products NameResolver, pageSize int, notifier port.Notifier, metrics *observability.Metrics, logger *zap.Logger) *FeedbackService {
	if pageSize < 1 {
		pageSize = DefaultFeedbackPageSize
	}
	return &FeedbackService{
		backend: backend,
		feedbacks: resource.New("feedbacks", backend.ListFeedbacks,
			resource.WithPolicy(resource.PolicyPrepend),
			resource.WithMessages(resource.Messages{
				LoadFailed:   "Não foi possível carregar os feedbacks.",
				Created:      "Feedback adicionado com sucesso!",
				CreateFailed: "Não foi possível enviar o feedback.",
				Deleted:      "Feedback excluído.",
				DeleteFailed: "Não foi possível excluir o feedback.",
			}),
			resource.WithNotifier(notifier),
			resource.WithMetrics(metrics),
			resource.WithLogger(logger),
		),
		customers: customers,
		products:  products,
		pageSize:  pageSize,
		logger:    logger,
	}
}

// Collection exposes the cache for status reporting.
func (s *FeedbackService) Collection() *resource.Collection[domain.Feedback] { return s.feedbacks }

// Warm loads the collection once.
func (s *FeedbackService) Warm(ctx context.Context) error { return s.feedbacks.Load(ctx) }

// PageSize returns the configured page size.
func (s *FeedbackService) PageSize() int { return s.pageSize }

// Submit validates an envelope and stores it as a new submission.
func (s *FeedbackService) Submit(ctx context.Context, env domain.FeedbackEnvelope) (*domain.Feedback, error) {
	ctx, span := feedbackTracer.Start(ctx, "FeedbackService.Submit")
	defer span.End()

	if err := env.Validate(); err != nil {
		return nil, err
	}
	if env.SubmissionID == "" {
		env.SubmissionID = uuid.NewString()
	}
	span.SetAttributes(attribute.String("submission.id", env.SubmissionID))

	f := domain.Feedback{
		FormID:       env.FormID,
		SubmissionID: env.SubmissionID,
		Answers:      env.Answers(),
	}
	bySubmission := func(fb domain.Feedback) bool { return fb.SubmissionID == env.SubmissionID }
	return s.feedbacks.CreateMatching(ctx, bySubmission, func(ctx context.Context) (*domain.Feedback, error) {
		return s.backend.CreateFeedback(ctx, f)
	})
}

// GetBySubmission fetches one submission from the backend. It returns
// nil, nil when nothing matches.
func (s *FeedbackService) GetBySubmission(ctx context.Context, submissionID string) (*domain.Feedback, error) {
	ctx, span := feedbackTracer.Start(ctx, "FeedbackService.GetBySubmission")
	defer span.End()
	span.SetAttributes(attribute.String("submission.id", submissionID))

	return s.backend.GetFeedbackBySubmission(ctx, submissionID)
}

// Delete hard-deletes a feedback.
func (s *FeedbackService) Delete(ctx context.Context, id string) error {
	ctx, span := feedbackTracer.Start(ctx, "FeedbackService.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("feedback.id", id))

	return s.feedbacks.Remove(ctx, id, func(ctx context.Context) error {
		return s.backend.DeleteFeedback(ctx, id)
	})
}

// Entries resolves every cached feedback for display, in collection
// order: backend order, with submissions made here placed first.
func (s *FeedbackService) Entries() []domain.FeedbackEntry {
	items := s.feedbacks.List()
	out := make([]domain.FeedbackEntry, 0, len(items))
	for _, f := range items {
		out = append(out, s.entry(f))
	}
	return out
}

// Filter returns the entries matching filter, in collection order.
func (s *FeedbackService) Filter(filter domain.FeedbackFilter) []domain.FeedbackEntry {
	all := s.Entries()
	out := make([]domain.FeedbackEntry, 0, len(all))
	for _, e := range all {
		if filter.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// Query filters the entries and returns one page of the result.
func (s *FeedbackService) Query(filter domain.FeedbackFilter, page int) domain.Page[domain.FeedbackEntry] {
	return resource.Paginate(s.Filter(filter), page, s.pageSize)
}

func (s *FeedbackService) entry(f domain.Feedback) domain.FeedbackEntry {
	env := f.Envelope()
	e := domain.FeedbackEntry{
		ID:           f.ID,
		SubmissionID: f.SubmissionID,
		FormID:       f.FormID,
		CustomerID:   env.CustomerID,
		CustomerName: resolveName(s.customers, env.CustomerID),
		ProductID:    env.ProductID,
		ProductName:  resolveName(s.products, env.ProductID),
		Rating:       env.Rating,
		Comment:      env.Comment,
		EmployeeName: orNotAvailable(env.EmployeeName),
		Category:     env.Category,
		CreatedAt:    f.CreatedAt,
	}
	if env.Category != "" {
		e.CategoryLabel = env.Category.Label()
	} else {
		e.CategoryLabel = domain.NotAvailable
	}
	if !f.CreatedAt.IsZero() {
		e.Date = f.CreatedAt.Format(displayDate)
	} else {
		e.Date = domain.NotAvailable
	}
	return e
}

func resolveName(r NameResolver, id string) string {
	if id == "" {
		return domain.NotAvailable
	}
	if r != nil {
		if name, ok := r.Name(id); ok && name != "" {
			return name
		}
	}
	return id
}

func orNotAvailable(s string) string {
	if s == "" {
		return domain.NotAvailable
	}
	return s
}
