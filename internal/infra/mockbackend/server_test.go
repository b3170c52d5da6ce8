package mockbackend_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/feedtrackapi"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/mockbackend"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/resilience"
	"github.com/equipe-feedtrack/feedtrack/internal/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var _ port.Backend = (*mockbackend.Store)(nil)

func newBackend(t *testing.T) (*feedtrackapi.Client, *mockbackend.Store) {
	t.Helper()
	store := mockbackend.Seeded()
	srv := httptest.NewServer(mockbackend.NewServer(store, zap.NewNop()))
	t.Cleanup(srv.Close)
	cfg := resilience.Config{MaxRetries: 0, InitialBackoff: time.Millisecond, MaxConcurrency: 4}
	client := feedtrackapi.NewClient(srv.Client(), srv.URL+mockbackend.BasePath, "", resilience.NewCircuitBreaker(t.Name()), cfg, nil, zap.NewNop())
	return client, store
}

func TestSeed_ListsCatalogue(t *testing.T) {
	client, _ := newBackend(t)
	ctx := context.Background()

	customers, err := client.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, customers, 9)

	products, err := client.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Smartphone X", products[0].Name)
	assert.Equal(t, "2999.90", products[0].Price.String())

	forms, err := client.ListForms(ctx)
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, []string{"q-001", "q-002", "q-003"}, forms[0].QuestionIDs())

	campaigns, err := client.ListCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, campaigns, 1)
	assert.Equal(t, domain.CampaignPostPurchase, campaigns[0].CampaignType)

	feedbacks, err := client.ListFeedbacks(ctx)
	require.NoError(t, err)
	require.Len(t, feedbacks, 7)
	env := feedbacks[0].Envelope()
	assert.Equal(t, "cus-101", env.CustomerID)
	assert.Equal(t, 5, env.Rating)
	assert.Equal(t, domain.CategoryService, env.Category)
}

func TestCustomerAssociationActions(t *testing.T) {
	client, _ := newBackend(t)
	ctx := context.Background()

	require.NoError(t, client.ChangeCustomerProducts(ctx, "cus-002", domain.AssociationAction{
		Action: domain.AssociationAdd, ProductIDs: []string{"prod-001", "prod-003"},
	}))
	require.NoError(t, client.ChangeCustomerProducts(ctx, "cus-002", domain.AssociationAction{
		Action: domain.AssociationReplace, ProductID: "prod-003", NewProductID: "prod-002",
	}))
	require.NoError(t, client.ChangeCustomerProducts(ctx, "cus-002", domain.AssociationAction{
		Action: domain.AssociationRemove, ProductID: "prod-001",
	}))

	customers, err := client.ListCustomers(ctx)
	require.NoError(t, err)
	for _, c := range customers {
		if c.ID == "cus-002" {
			require.Len(t, c.Products, 1)
			assert.Equal(t, "prod-002", c.Products[0].ID)
			return
		}
	}
	t.Fatal("cus-002 not listed")
}

func TestCreateCustomer_UnknownProductRejected(t *testing.T) {
	client, _ := newBackend(t)

	_, err := client.CreateCustomer(context.Background(), domain.NewCustomer{
		Person:     domain.Person{Name: "Novo", Email: "novo@x.com"},
		ProductIDs: []string{"prod-999"},
	})
	var v *domain.ErrValidation
	require.True(t, errors.As(err, &v))
	assert.Contains(t, v.Message, "prod-999")
}

func TestCampaign_DeleteIsLogical(t *testing.T) {
	client, _ := newBackend(t)
	ctx := context.Background()

	require.NoError(t, client.DeleteCampaign(ctx, "camp-001"))
	campaigns, err := client.ListCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, campaigns, 1)
	assert.False(t, campaigns[0].Active)
}

func TestForm_HardDelete(t *testing.T) {
	client, _ := newBackend(t)
	ctx := context.Background()

	require.NoError(t, client.DeleteForm(ctx, "form-001"))
	forms, err := client.ListForms(ctx)
	require.NoError(t, err)
	assert.Empty(t, forms)

	var nf *domain.ErrNotFound
	assert.True(t, errors.As(client.DeleteForm(ctx, "form-001"), &nf))
}

func TestFeedback_CreateLookupDelete(t *testing.T) {
	client, _ := newBackend(t)
	ctx := context.Background()

	env := domain.FeedbackEnvelope{
		CustomerID: "cus-001", ProductID: "prod-001", Rating: 4,
		Comment: "Bom", EmployeeName: "Rita", Category: domain.CategoryProduct,
	}
	created, err := client.CreateFeedback(ctx, domain.Feedback{FormID: "form-001", SubmissionID: "sub-x", Answers: env.Answers()})
	require.NoError(t, err)
	require.NotNil(t, created)

	got, err := client.GetFeedbackBySubmission(ctx, "sub-x")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Rita", got.Envelope().EmployeeName)

	require.NoError(t, client.DeleteFeedback(ctx, created.ID))
	got, err = client.GetFeedbackBySubmission(ctx, "sub-x")
	require.NoError(t, err)
	assert.Nil(t, got)
}
