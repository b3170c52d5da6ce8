package feedtrackapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/feedtrackapi/wire"
)

const (
	resourceForms     = "forms"
	resourceQuestions = "questions"
)

// ListForms fetches GET /formularios with questions resolved by the backend.
func (c *Client) ListForms(ctx context.Context) ([]domain.Form, error) {
	var rows []wire.Formulario
	if _, err := c.do(ctx, resourceForms, http.MethodGet, "/formularios", nil, &rows); err != nil {
		return nil, err
	}
	out := make([]domain.Form, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToDomain())
	}
	return out, nil
}

// CreateForm posts POST /formulario.
func (c *Client) CreateForm(ctx context.Context, in domain.FormInput) (*domain.Form, error) {
	return c.writeForm(ctx, http.MethodPost, "/formulario", in)
}

// UpdateForm puts PUT /update-formulario/{id}.
func (c *Client) UpdateForm(ctx context.Context, id string, in domain.FormInput) (*domain.Form, error) {
	return c.writeForm(ctx, http.MethodPut, "/update-formulario/"+url.PathEscape(id), in)
}

func (c *Client) writeForm(ctx context.Context, method, path string, in domain.FormInput) (*domain.Form, error) {
	var row wire.Formulario
	ok, err := c.do(ctx, resourceForms, method, path, wire.FormularioInputFrom(in), &row)
	if err != nil {
		return nil, err
	}
	if !ok || row.ID == "" {
		return nil, nil
	}
	form := row.ToDomain()
	return &form, nil
}

// DeleteForm hard-deletes via DELETE /delete-formulario/{id}.
func (c *Client) DeleteForm(ctx context.Context, id string) error {
	_, err := c.do(ctx, resourceForms, http.MethodDelete, "/delete-formulario/"+url.PathEscape(id), nil, nil)
	return err
}

// ListQuestions fetches GET /perguntas.
func (c *Client) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	var rows []wire.Pergunta
	if _, err := c.do(ctx, resourceQuestions, http.MethodGet, "/perguntas", nil, &rows); err != nil {
		return nil, err
	}
	out := make([]domain.Question, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToDomain())
	}
	return out, nil
}

// CreateQuestion posts POST /pergunta.
func (c *Client) CreateQuestion(ctx context.Context, in domain.NewQuestion) (*domain.Question, error) {
	var row wire.Pergunta
	ok, err := c.do(ctx, resourceQuestions, http.MethodPost, "/pergunta", wire.NovaPerguntaFrom(in), &row)
	if err != nil {
		return nil, err
	}
	if !ok || row.ID == "" {
		return nil, nil
	}
	q := row.ToDomain()
	return &q, nil
}
