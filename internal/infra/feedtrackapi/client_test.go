package feedtrackapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/feedtrackapi"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/observability"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/resilience"
	"github.com/equipe-feedtrack/feedtrack/internal/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var _ port.Backend = (*feedtrackapi.Client)(nil)

func newClient(t *testing.T, h http.Handler) *feedtrackapi.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := resilience.Config{MaxRetries: 2, InitialBackoff: time.Millisecond, MaxConcurrency: 4}
	return feedtrackapi.NewClient(srv.Client(), srv.URL+"/", "tok", resilience.NewCircuitBreaker(t.Name()), cfg, observability.NewMetrics(), zap.NewNop())
}

func TestListCustomers_MapsWireFields(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/clientes", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"id":"c1","pessoa":{"nome":"Ana","email":"ana@x.com"},"cidade":"Recife","status":"INATIVO","produtos":[{"id":"p1","nome":"X","preco":10.5,"ativo":true}]}]`))
	}))

	got, err := client.ListCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, "Ana", got[0].Person.Name)
	assert.Equal(t, domain.CustomerInactive, got[0].Status)
}

func TestCreateCustomer_EmptyBodyReturnsNil(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/cliente", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
	}))

	got, err := client.CreateCustomer(context.Background(), domain.NewCustomer{
		Person:     domain.Person{Name: "Ana", Email: "ana@x.com"},
		ProductIDs: []string{"p1"},
	})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestChangeCustomerProducts_SendsActionBody(t *testing.T) {
	var body map[string]any
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cliente/c%201/produtos", r.URL.EscapedPath())
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusNoContent)
	}))

	err := client.ChangeCustomerProducts(context.Background(), "c 1", domain.AssociationAction{
		Action: domain.AssociationReplace, ProductID: "p1", NewProductID: "p2",
	})
	require.NoError(t, err)
	assert.Equal(t, "replace", body["action"])
	assert.Equal(t, "p1", body["produtoId"])
	assert.Equal(t, "p2", body["novoProdutoId"])
}

func TestGet_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))

	got, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, int32(3), calls.Load())
}

func TestWrite_NotRetried(t *testing.T) {
	var calls atomic.Int32
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.CreateProduct(context.Background(), domain.ProductInput{Name: "X", Price: domain.NewMoney(1, 0)})
	var ext *domain.ErrExternalService
	require.True(t, errors.As(err, &ext))
	assert.Equal(t, http.StatusInternalServerError, ext.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{"bad request", http.StatusBadRequest, `{"message":"Email inválido"}`, func(t *testing.T, err error) {
			var v *domain.ErrValidation
			require.True(t, errors.As(err, &v))
			assert.Equal(t, "Email inválido", v.Message)
		}},
		{"not found", http.StatusNotFound, ``, func(t *testing.T, err error) {
			var nf *domain.ErrNotFound
			require.True(t, errors.As(err, &nf))
		}},
		{"conflict", http.StatusConflict, `{"error":"duplicado"}`, func(t *testing.T, err error) {
			var c *domain.ErrConflict
			require.True(t, errors.As(err, &c))
			assert.Equal(t, "duplicado", c.Message)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			_, err := client.UpdateCampaign(context.Background(), "k1", domain.CampaignUpdate{Title: "T"})
			tt.check(t, err)
		})
	}
}

func TestGetFeedbackBySubmission_NotFoundIsNil(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/feedback/env-1", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}))

	got, err := client.GetFeedbackBySubmission(context.Background(), "env-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreateFeedback_RoundTripsAnswers(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "f1", in["formularioId"])
		_, _ = w.Write([]byte(`{"id":"fb1","formularioId":"f1","envioId":"e1","respostas":[{"perguntaId":"rating","resposta":4}],"dataCriacao":"2025-07-20T10:00:00Z"}`))
	}))

	got, err := client.CreateFeedback(context.Background(), domain.Feedback{
		FormID:       "f1",
		SubmissionID: "e1",
		Answers:      []domain.Answer{{QuestionID: "rating", Value: 4}},
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "fb1", got.ID)
	require.Len(t, got.Answers, 1)
	assert.EqualValues(t, 4, got.Answers[0].Value)
}

func TestCircuitOpens(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	var err error
	for i := 0; i < 10; i++ {
		_, err = client.ListCampaigns(context.Background())
	}
	var open *domain.ErrCircuitOpen
	assert.True(t, errors.As(err, &open))
	assert.Equal(t, "open", client.BreakerState())
}
