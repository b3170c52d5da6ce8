// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from the FeedTrack backend and the notification channel.
package port

import (
	"context"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
)

// Writes that return a nil entity with a nil error mean the backend
// accepted the change without echoing it; callers resync.

// CustomerBackend is the remote customer collection.
type CustomerBackend interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	CreateCustomer(ctx context.Context, in domain.NewCustomer) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id string, in domain.CustomerUpdate) (*domain.Customer, error)
	ChangeCustomerProducts(ctx context.Context, id string, action domain.AssociationAction) error
}

// ProductBackend is the remote product collection.
type ProductBackend interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error)
}

// FormBackend is the remote form and question collections.
type FormBackend interface {
	ListForms(ctx context.Context) ([]domain.Form, error)
	CreateForm(ctx context.Context, in domain.FormInput) (*domain.Form, error)
	UpdateForm(ctx context.Context, id string, in domain.FormInput) (*domain.Form, error)
	DeleteForm(ctx context.Context, id string) error
	ListQuestions(ctx context.Context) ([]domain.Question, error)
	CreateQuestion(ctx context.Context, in domain.NewQuestion) (*domain.Question, error)
}

// CampaignBackend is the remote campaign collection.
type CampaignBackend interface {
	ListCampaigns(ctx context.Context) ([]domain.Campaign, error)
	CreateCampaign(ctx context.Context, in domain.NewCampaign) (*domain.Campaign, error)
	UpdateCampaign(ctx context.Context, id string, in domain.CampaignUpdate) (*domain.Campaign, error)
	DeleteCampaign(ctx context.Context, id string) error
}

// FeedbackBackend is the remote feedback collection.
type FeedbackBackend interface {
	ListFeedbacks(ctx context.Context) ([]domain.Feedback, error)
	// GetFeedbackBySubmission returns nil, nil when no submission matches.
	GetFeedbackBySubmission(ctx context.Context, submissionID string) (*domain.Feedback, error)
	CreateFeedback(ctx context.Context, f domain.Feedback) (*domain.Feedback, error)
	DeleteFeedback(ctx context.Context, id string) error
}

// Backend is the full FeedTrack REST contract.
type Backend interface {
	CustomerBackend
	ProductBackend
	FormBackend
	CampaignBackend
	FeedbackBackend
}

// Notifier receives user-visible notifications.
type Notifier interface {
	Notify(n domain.Notification)
}

// Cache is a keyed TTL store.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
