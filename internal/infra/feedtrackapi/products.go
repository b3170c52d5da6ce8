package feedtrackapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/feedtrackapi/wire"
)

const resourceProducts = "products"

// ListProducts fetches GET /produtos.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var rows []wire.Produto
	if _, err := c.do(ctx, resourceProducts, http.MethodGet, "/produtos", nil, &rows); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToDomain())
	}
	return out, nil
}

// CreateProduct posts POST /produto.
func (c *Client) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	return c.writeProduct(ctx, http.MethodPost, "/produto", in)
}

// UpdateProduct puts PUT /atualizar-produto/{id}.
func (c *Client) UpdateProduct(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	return c.writeProduct(ctx, http.MethodPut, "/atualizar-produto/"+url.PathEscape(id), in)
}

func (c *Client) writeProduct(ctx context.Context, method, path string, in domain.ProductInput) (*domain.Product, error) {
	var row wire.Produto
	ok, err := c.do(ctx, resourceProducts, method, path, wire.ProdutoInputFrom(in), &row)
	if err != nil {
		return nil, err
	}
	if !ok || row.ID == "" {
		return nil, nil
	}
	product := row.ToDomain()
	return &product, nil
}
