package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/observability"
	"github.com/equipe-feedtrack/feedtrack/internal/port"
	"github.com/equipe-feedtrack/feedtrack/internal/resource"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var campaignTracer = otel.Tracer("service/campaign")

// FormIndex is the part of the form service the campaign gate needs.
type FormIndex interface {
	HasForms() bool
}

// CampaignService owns the campaign collection.
type CampaignService struct {
	backend   port.CampaignBackend
	forms     FormIndex
	campaigns *resource.Collection[domain.Campaign]
	logger    *zap.Logger
}

// NewCampaignService creates the campaign service.
func NewCampaignService(backend port.CampaignBackend, forms FormIndex, notifier port.Notifier, metrics *observability.Metrics, logger *zap.Logger) *CampaignService {
	return &CampaignService{
		backend: backend,
		forms:   forms,
		campaigns: resource.New("campaigns", backend.ListCampaigns,
			resource.WithPolicy(resource.PolicyPatch),
			resource.WithMessages(resource.Messages{
				LoadFailed:   "Não foi possível carregar as campanhas.",
				Created:      "Campanha criada com sucesso!",
				CreateFailed: "Não foi possível criar a campanha.",
				Updated:      "Campanha atualizada.",
				UpdateFailed: "Não foi possível atualizar a campanha.",
				Deactivated:  "Campanha desativada.",
			}),
			resource.WithNotifier(notifier),
			resource.WithMetrics(metrics),
			resource.WithLogger(logger),
		),
		logger: logger,
	}
}

// Collection exposes the cache for status reporting.
func (s *CampaignService) Collection() *resource.Collection[domain.Campaign] { return s.campaigns }

// Warm loads the collection once.
func (s *CampaignService) Warm(ctx context.Context) error { return s.campaigns.Load(ctx) }

// List returns every cached campaign.
func (s *CampaignService) List() []domain.Campaign { return s.campaigns.List() }

// ListActive returns the running campaigns.
func (s *CampaignService) ListActive() []domain.Campaign {
	return s.campaigns.Filter(func(c domain.Campaign) bool { return c.Active })
}

// Get returns one cached campaign.
func (s *CampaignService) Get(id string) (*domain.Campaign, error) {
	c, ok := s.campaigns.Get(id)
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "campaign", ID: id}
	}
	return &c, nil
}

// Create registers a campaign. It is blocked until a form exists and is
// left paused unless in.Activate is set.
func (s *CampaignService) Create(ctx context.Context, in domain.NewCampaign) (*domain.Campaign, error) {
	ctx, span := campaignTracer.Start(ctx, "CampaignService.Create")
	defer span.End()

	if s.forms != nil && !s.forms.HasForms() {
		return nil, &domain.ErrPrecondition{
			Redirect: "/form-builder",
			Message:  "É necessário criar um formulário antes de criar uma campanha.",
		}
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in = in.WithDefaults()

	sameCampaign := func(c domain.Campaign) bool { return c.Title == in.Title && c.FormID == in.FormID }
	return s.campaigns.CreateMatching(ctx, sameCampaign, func(ctx context.Context) (*domain.Campaign, error) {
		created, err := s.backend.CreateCampaign(ctx, in)
		if err != nil || created == nil || in.Activate || !created.Active {
			return created, err
		}
		paused := *created
		paused.Active = false
		out, err := s.backend.UpdateCampaign(ctx, created.ID, paused.UpdatePayload())
		if err != nil {
			s.logger.Warn("campaign created but could not be paused",
				zap.String("campaign_id", created.ID), zap.Error(err))
			return created, nil
		}
		if out == nil {
			return &paused, nil
		}
		return out, nil
	})
}

// Update merges patch onto the cached campaign and sends the full record.
// Unknown ids fail without contacting the backend.
func (s *CampaignService) Update(ctx context.Context, id string, patch domain.CampaignPatch) (*domain.Campaign, error) {
	ctx, span := campaignTracer.Start(ctx, "CampaignService.Update")
	defer span.End()
	span.SetAttributes(attribute.String("campaign.id", id))

	current, ok := s.campaigns.Get(id)
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "campaign", ID: id}
	}
	payload := patch.Apply(current).UpdatePayload()
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return s.campaigns.Update(ctx, id, func(ctx context.Context) (*domain.Campaign, error) {
		return s.backend.UpdateCampaign(ctx, id, payload)
	})
}

// SetActive starts or pauses a campaign.
func (s *CampaignService) SetActive(ctx context.Context, id string, active bool) (*domain.Campaign, error) {
	ctx, span := campaignTracer.Start(ctx, "CampaignService.SetActive")
	defer span.End()
	span.SetAttributes(attribute.String("campaign.id", id), attribute.Bool("active", active))

	current, ok := s.campaigns.Get(id)
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "campaign", ID: id}
	}
	current.Active = active
	return s.campaigns.Update(ctx, id, func(ctx context.Context) (*domain.Campaign, error) {
		return s.backend.UpdateCampaign(ctx, id, current.UpdatePayload())
	})
}

// Toggle flips the active flag.
func (s *CampaignService) Toggle(ctx context.Context, id string) (*domain.Campaign, error) {
	current, ok := s.campaigns.Get(id)
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "campaign", ID: id}
	}
	return s.SetActive(ctx, id, !current.Active)
}

// Deactivate runs the backend logical delete and marks the cached campaign
// inactive. Unknown ids are ignored.
func (s *CampaignService) Deactivate(ctx context.Context, id string) (*domain.Campaign, error) {
	ctx, span := campaignTracer.Start(ctx, "CampaignService.Deactivate")
	defer span.End()

	return s.campaigns.Deactivate(ctx, id,
		func(c domain.Campaign) domain.Campaign {
			c.Active = false
			return c
		},
		func(ctx context.Context, next domain.Campaign) (*domain.Campaign, error) {
			if err := s.backend.DeleteCampaign(ctx, id); err != nil {
				return nil, err
			}
			return &next, nil
		},
	)
}

// ExpireFinished deactivates active campaigns whose end date has passed and
// returns how many were stopped.
func (s *CampaignService) ExpireFinished(ctx context.Context, now time.Time) (int, error) {
	ctx, span := campaignTracer.Start(ctx, "CampaignService.ExpireFinished")
	defer span.End()

	expired := s.campaigns.Filter(func(c domain.Campaign) bool { return c.Active && c.Ended(now) })
	stopped := 0
	var firstErr error
	for _, c := range expired {
		if _, err := s.Deactivate(ctx, c.ID); err != nil {
			s.logger.Warn("campaign expiry failed", zap.String("campaign_id", c.ID), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		stopped++
	}
	if stopped > 0 {
		s.logger.Info("expired finished campaigns", zap.Int("count", stopped))
	}
	return stopped, firstErr
}

// Preview renders the message template of a cached campaign.
func (s *CampaignService) Preview(id string, vars map[string]string) (string, error) {
	c, ok := s.campaigns.Get(id)
	if !ok {
		return "", &domain.ErrNotFound{Resource: "campaign", ID: id}
	}
	return RenderMessage(c.MessageTemplate, vars), nil
}

var placeholder = regexp.MustCompile(`\{\{\s*([\p{L}\w]+)\s*\}\}`)

// RenderMessage substitutes {{name}} tokens in tmpl. Tokens without a value
// are left untouched.
func RenderMessage(tmpl string, vars map[string]string) string {
	return placeholder.ReplaceAllStringFunc(tmpl, func(tok string) string {
		key := strings.TrimSpace(placeholder.FindStringSubmatch(tok)[1])
		if v, ok := vars[key]; ok {
			return v
		}
		return tok
	})
}
