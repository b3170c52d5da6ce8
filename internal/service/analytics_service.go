package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"

	"go.opentelemetry.io/otel"
)

var analyticsTracer = otel.Tracer("service/analytics")

// AnalyticsService computes reports from the cached collections. It never
// calls the backend.
type AnalyticsService struct {
	feedbacks *FeedbackService
	customers *CustomerService
	products  *ProductService
	campaigns *CampaignService
	forms     *FormService
}

// NewAnalyticsService creates the report service.
func NewAnalyticsService(feedbacks *FeedbackService, customers *CustomerService, products *ProductService, campaigns *CampaignService, forms *FormService) *AnalyticsService {
	return &AnalyticsService{
		feedbacks: feedbacks,
		customers: customers,
		products:  products,
		campaigns: campaigns,
		forms:     forms,
	}
}

// ============================================================
// Overview
// ============================================================

func (s *AnalyticsService) Overview(ctx context.Context) *domain.ReportOverview {
	_, span := analyticsTracer.Start(ctx, "AnalyticsService.Overview")
	defer span.End()

	entries := s.feedbacks.Entries()
	activeCustomers := s.customers.ListActive()

	out := &domain.ReportOverview{
		TotalFeedbacks:  len(entries),
		AverageRating:   averageRating(entries),
		ActiveCustomers: len(activeCustomers),
		ActiveProducts:  len(s.products.ListActive()),
		ActiveCampaigns: len(s.campaigns.ListActive()),
		Sentiment:       sentiment(entries),
	}

	if len(activeCustomers) > 0 {
		active := make(map[string]bool, len(activeCustomers))
		for _, c := range activeCustomers {
			active[c.ID] = true
		}
		responded := make(map[string]bool)
		for _, e := range entries {
			if active[e.CustomerID] {
				responded[e.CustomerID] = true
			}
		}
		out.ResponseRate = percent(len(responded), len(activeCustomers))
	}
	return out
}

func sentiment(entries []domain.FeedbackEntry) domain.Sentiment {
	var s domain.Sentiment
	for _, e := range entries {
		switch {
		case e.Rating >= 4:
			s.Positive++
		case e.Rating == 3:
			s.Neutral++
		case e.Rating >= 1:
			s.Negative++
		}
	}
	total := s.Positive + s.Neutral + s.Negative
	s.PositivePercent = percent(s.Positive, total)
	s.NeutralPercent = percent(s.Neutral, total)
	s.NegativePercent = percent(s.Negative, total)
	return s
}

// ============================================================
// Charts
// ============================================================

// Distribution counts feedbacks per rating, 1 to 5.
func (s *AnalyticsService) Distribution(ctx context.Context) []domain.RatingBucket {
	_, span := analyticsTracer.Start(ctx, "AnalyticsService.Distribution")
	defer span.End()

	buckets := make([]domain.RatingBucket, 5)
	for i := range buckets {
		buckets[i].Rating = i + 1
	}
	for _, e := range s.feedbacks.Entries() {
		if e.Rating >= 1 && e.Rating <= 5 {
			buckets[e.Rating-1].Count++
		}
	}
	return buckets
}

// Categories counts feedbacks per category in display order.
func (s *AnalyticsService) Categories(ctx context.Context) []domain.CategoryCount {
	_, span := analyticsTracer.Start(ctx, "AnalyticsService.Categories")
	defer span.End()

	counts := make(map[domain.FeedbackCategory]int)
	for _, e := range s.feedbacks.Entries() {
		counts[e.Category]++
	}
	out := make([]domain.CategoryCount, 0, 3)
	for _, c := range domain.Categories() {
		out = append(out, domain.CategoryCount{Category: c, Label: c.Label(), Count: counts[c]})
	}
	return out
}

// Trend aggregates feedbacks per calendar month, oldest first.
func (s *AnalyticsService) Trend(ctx context.Context) []domain.TrendPoint {
	_, span := analyticsTracer.Start(ctx, "AnalyticsService.Trend")
	defer span.End()

	type acc struct{ count, sum int }
	months := make(map[string]*acc)
	for _, e := range s.feedbacks.Entries() {
		if e.CreatedAt.IsZero() {
			continue
		}
		key := e.CreatedAt.UTC().Format("2006-01")
		a, ok := months[key]
		if !ok {
			a = &acc{}
			months[key] = a
		}
		a.count++
		a.sum += e.Rating
	}

	out := make([]domain.TrendPoint, 0, len(months))
	for month, a := range months {
		out = append(out, domain.TrendPoint{
			Month:         month,
			Count:         a.count,
			AverageRating: round2(float64(a.sum) / float64(a.count)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// TopProducts ranks products by average rating, then by feedback count.
// A limit below 1 returns every product with feedback.
func (s *AnalyticsService) TopProducts(ctx context.Context, limit int) []domain.ProductScore {
	_, span := analyticsTracer.Start(ctx, "AnalyticsService.TopProducts")
	defer span.End()

	type acc struct {
		name       string
		count, sum int
	}
	byProduct := make(map[string]*acc)
	for _, e := range s.feedbacks.Entries() {
		if e.ProductID == "" {
			continue
		}
		a, ok := byProduct[e.ProductID]
		if !ok {
			a = &acc{name: e.ProductName}
			byProduct[e.ProductID] = a
		}
		a.count++
		a.sum += e.Rating
	}

	out := make([]domain.ProductScore, 0, len(byProduct))
	for id, a := range byProduct {
		out = append(out, domain.ProductScore{
			ProductID:     id,
			ProductName:   a.name,
			AverageRating: round2(float64(a.sum) / float64(a.count)),
			Count:         a.count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AverageRating != out[j].AverageRating {
			return out[i].AverageRating > out[j].AverageRating
		}
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ProductName < out[j].ProductName
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FormResponses counts submissions per form. Every known form is listed,
// followed by form ids that only appear in feedback.
func (s *AnalyticsService) FormResponses(ctx context.Context) []domain.FormResponses {
	_, span := analyticsTracer.Start(ctx, "AnalyticsService.FormResponses")
	defer span.End()

	counts := make(map[string]int)
	for _, e := range s.feedbacks.Entries() {
		if e.FormID != "" {
			counts[e.FormID]++
		}
	}

	forms := s.forms.ListForms()
	out := make([]domain.FormResponses, 0, len(forms))
	seen := make(map[string]bool, len(forms))
	for _, f := range forms {
		seen[f.ID] = true
		out = append(out, domain.FormResponses{FormID: f.ID, FormTitle: f.Title, Responses: counts[f.ID]})
	}
	orphans := make([]string, 0)
	for id := range counts {
		if !seen[id] {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	for _, id := range orphans {
		out = append(out, domain.FormResponses{FormID: id, FormTitle: id, Responses: counts[id]})
	}
	return out
}

// ============================================================
// Export
// ============================================================

var csvHeader = []string{"Data", "Cliente", "Produto", "Nota", "Categoria", "Atendente", "Comentário"}

// ExportCSV writes the feedbacks matching filter, newest first.
func (s *AnalyticsService) ExportCSV(ctx context.Context, w io.Writer, filter domain.FeedbackFilter) error {
	_, span := analyticsTracer.Start(ctx, "AnalyticsService.ExportCSV")
	defer span.End()

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range s.feedbacks.Filter(filter) {
		row := []string{
			e.Date,
			e.CustomerName,
			e.ProductName,
			strconv.Itoa(e.Rating),
			e.CategoryLabel,
			e.EmployeeName,
			e.Comment,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ============================================================
// helpers
// ============================================================

func averageRating(entries []domain.FeedbackEntry) float64 {
	sum, n := 0, 0
	for _, e := range entries {
		if e.Rating > 0 {
			sum += e.Rating
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return round2(float64(sum) / float64(n))
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) * 100 / float64(total))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
