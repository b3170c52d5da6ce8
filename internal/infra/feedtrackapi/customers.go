package feedtrackapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/feedtrackapi/wire"
)

const resourceCustomers = "customers"

// ListCustomers fetches GET /clientes.
func (c *Client) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	var rows []wire.Cliente
	if _, err := c.do(ctx, resourceCustomers, http.MethodGet, "/clientes", nil, &rows); err != nil {
		return nil, err
	}
	out := make([]domain.Customer, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToDomain())
	}
	return out, nil
}

// CreateCustomer posts POST /cliente.
func (c *Client) CreateCustomer(ctx context.Context, in domain.NewCustomer) (*domain.Customer, error) {
	var row wire.Cliente
	ok, err := c.do(ctx, resourceCustomers, http.MethodPost, "/cliente", wire.NovoClienteFrom(in), &row)
	if err != nil {
		return nil, err
	}
	if !ok || row.ID == "" {
		return nil, nil
	}
	customer := row.ToDomain()
	return &customer, nil
}

// UpdateCustomer puts PUT /atualizar-cliente/{id}.
func (c *Client) UpdateCustomer(ctx context.Context, id string, in domain.CustomerUpdate) (*domain.Customer, error) {
	var row wire.Cliente
	ok, err := c.do(ctx, resourceCustomers, http.MethodPut, "/atualizar-cliente/"+url.PathEscape(id), wire.AtualizarClienteFrom(in), &row)
	if err != nil {
		return nil, err
	}
	if !ok || row.ID == "" {
		return nil, nil
	}
	customer := row.ToDomain()
	return &customer, nil
}

// ChangeCustomerProducts posts an association action to
// POST /cliente/{id}/produtos.
func (c *Client) ChangeCustomerProducts(ctx context.Context, id string, action domain.AssociationAction) error {
	_, err := c.do(ctx, resourceCustomers, http.MethodPost, "/cliente/"+url.PathEscape(id)+"/produtos", wire.AcaoProdutosFrom(action), nil)
	return err
}
