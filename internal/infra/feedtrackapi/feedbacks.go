package feedtrackapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/feedtrackapi/wire"
)

const resourceFeedbacks = "feedbacks"

// ListFeedbacks fetches GET /feedbacks.
func (c *Client) ListFeedbacks(ctx context.Context) ([]domain.Feedback, error) {
	var rows []wire.Feedback
	if _, err := c.do(ctx, resourceFeedbacks, http.MethodGet, "/feedbacks", nil, &rows); err != nil {
		return nil, err
	}
	out := make([]domain.Feedback, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToDomain())
	}
	return out, nil
}

// GetFeedbackBySubmission fetches GET /feedback/{envioId}. A missing
// submission yields nil, nil.
func (c *Client) GetFeedbackBySubmission(ctx context.Context, submissionID string) (*domain.Feedback, error) {
	var row wire.Feedback
	ok, err := c.do(ctx, resourceFeedbacks, http.MethodGet, "/feedback/"+url.PathEscape(submissionID), nil, &row)
	if err != nil {
		var nf *domain.ErrNotFound
		if errors.As(err, &nf) {
			return nil, nil
		}
		return nil, err
	}
	if !ok || row.ID == "" {
		return nil, nil
	}
	f := row.ToDomain()
	return &f, nil
}

// CreateFeedback posts POST /feedback.
func (c *Client) CreateFeedback(ctx context.Context, f domain.Feedback) (*domain.Feedback, error) {
	var row wire.Feedback
	ok, err := c.do(ctx, resourceFeedbacks, http.MethodPost, "/feedback", wire.FeedbackInputFrom(f), &row)
	if err != nil {
		return nil, err
	}
	if !ok || row.ID == "" {
		return nil, nil
	}
	created := row.ToDomain()
	return &created, nil
}

// DeleteFeedback hard-deletes via DELETE /feedback/{id}.
func (c *Client) DeleteFeedback(ctx context.Context, id string) error {
	_, err := c.do(ctx, resourceFeedbacks, http.MethodDelete, "/feedback/"+url.PathEscape(id), nil, nil)
	return err
}

// Resources lists the resource labels used in metrics.
func Resources() []string {
	return []string{resourceCustomers, resourceProducts, resourceForms, resourceQuestions, resourceCampaigns, resourceFeedbacks}
}
