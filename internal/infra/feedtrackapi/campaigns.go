package feedtrackapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/feedtrackapi/wire"
)

const resourceCampaigns = "campaigns"

// ListCampaigns fetches GET /campanhas.
func (c *Client) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	var rows []wire.Campanha
	if _, err := c.do(ctx, resourceCampaigns, http.MethodGet, "/campanhas", nil, &rows); err != nil {
		return nil, err
	}
	out := make([]domain.Campaign, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToDomain())
	}
	return out, nil
}

// CreateCampaign posts POST /campanha.
func (c *Client) CreateCampaign(ctx context.Context, in domain.NewCampaign) (*domain.Campaign, error) {
	return c.writeCampaign(ctx, http.MethodPost, "/campanha", wire.NovaCampanhaFrom(in))
}

// UpdateCampaign puts PUT /atualizar-campanha/{id}.
func (c *Client) UpdateCampaign(ctx context.Context, id string, in domain.CampaignUpdate) (*domain.Campaign, error) {
	return c.writeCampaign(ctx, http.MethodPut, "/atualizar-campanha/"+url.PathEscape(id), wire.AtualizarCampanhaFrom(in))
}

func (c *Client) writeCampaign(ctx context.Context, method, path string, payload wire.CampanhaInput) (*domain.Campaign, error) {
	var row wire.Campanha
	ok, err := c.do(ctx, resourceCampaigns, method, path, payload, &row)
	if err != nil {
		return nil, err
	}
	if !ok || row.ID == "" {
		return nil, nil
	}
	campaign := row.ToDomain()
	return &campaign, nil
}

// DeleteCampaign calls DELETE /deletar-campanha/{id}. The backend keeps the
// record and marks it inactive.
func (c *Client) DeleteCampaign(ctx context.Context, id string) error {
	_, err := c.do(ctx, resourceCampaigns, http.MethodDelete, "/deletar-campanha/"+url.PathEscape(id), nil, nil)
	return err
}
