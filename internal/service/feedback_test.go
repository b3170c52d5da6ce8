package service_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
)

func fixtures(t *testing.T) (*mockBackend, *recordingNotifier, context.Context) {
	t.Helper()
	return newMockBackend(), &recordingNotifier{}, context.Background()
}

// --- Tests ---

func entryIDs(entries []domain.FeedbackEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestFeedbackQuery_PagesInCollectionOrder(t *testing.T) {
	backend, notes, ctx := fixtures(t)
	cat := newCatalog(backend, notes)
	if err := cat.WarmAll(ctx); err != nil {
		t.Fatalf("warm: %v", err)
	}

	page := cat.Feedbacks.Query(domain.FeedbackFilter{}, 1)
	if page.Total != 7 || page.TotalPages != 2 || len(page.Items) != 5 || !page.HasMore {
		t.Fatalf("unexpected first page: %+v", page)
	}
	if got, want := entryIDs(page.Items), []string{"fb-1", "fb-2", "fb-3", "fb-4", "fb-5"}; !slices.Equal(got, want) {
		t.Errorf("page 1: got %v, want %v", got, want)
	}

	page = cat.Feedbacks.Query(domain.FeedbackFilter{}, 2)
	if got, want := entryIDs(page.Items), []string{"fb-6", "fb-7"}; !slices.Equal(got, want) || page.HasMore {
		t.Errorf("page 2: got %v (hasMore=%v), want %v", got, page.HasMore, want)
	}
	if page = cat.Feedbacks.Query(domain.FeedbackFilter{}, 9); len(page.Items) != 0 {
		t.Errorf("out of range page must be empty, got %d", len(page.Items))
	}
}

func TestFeedbackQuery_SubmissionComesFirst(t *testing.T) {
	backend, notes, ctx := fixtures(t)
	cat := newCatalog(backend, notes)
	_ = cat.WarmAll(ctx)

	created, err := cat.Feedbacks.Submit(ctx, domain.FeedbackEnvelope{
		CustomerID:   "cus-002",
		ProductID:    "prod-003",
		Rating:       5,
		Comment:      "Carregou rápido.",
		EmployeeName: "Rita",
		Category:     domain.CategoryProduct,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	page := cat.Feedbacks.Query(domain.FeedbackFilter{}, 1)
	if got, want := entryIDs(page.Items), []string{created.ID, "fb-1", "fb-2", "fb-3", "fb-4"}; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFeedbackEntries_ResolveNames(t *testing.T) {
	backend, notes, ctx := fixtures(t)
	cat := newCatalog(backend, notes)
	_ = cat.WarmAll(ctx)

	byID := map[string]domain.FeedbackEntry{}
	for _, e := range cat.Feedbacks.Entries() {
		byID[e.ID] = e
	}
	first := byID["fb-1"]
	if first.CustomerName != "Ana Silva" || first.ProductName != "Smartphone X" {
		t.Errorf("names not resolved: %+v", first)
	}
	if first.CategoryLabel != "Atendimento" || first.Date != "20/07/2025" {
		t.Errorf("unexpected display fields: %+v", first)
	}
	third := byID["fb-3"]
	if third.ProductName != domain.NotAvailable || third.EmployeeName != domain.NotAvailable {
		t.Errorf("expected N/A fallbacks, got %+v", third)
	}
}

func TestFeedbackFilter(t *testing.T) {
	backend, notes, ctx := fixtures(t)
	cat := newCatalog(backend, notes)
	_ = cat.WarmAll(ctx)

	day := func(d int) *time.Time {
		v := time.Date(2025, 7, d, 0, 0, 0, 0, time.UTC)
		return &v
	}

	tests := []struct {
		name   string
		filter domain.FeedbackFilter
		want   []string
	}{
		{"no filter", domain.FeedbackFilter{}, []string{"fb-1", "fb-2", "fb-3", "fb-4", "fb-5", "fb-6", "fb-7"}},
		{"search employee", domain.FeedbackFilter{Search: "SOFIA"}, []string{"fb-5"}},
		{"search product", domain.FeedbackFilter{Search: "cadeira"}, []string{"fb-6"}},
		{"category", domain.FeedbackFilter{Category: domain.CategoryProduct}, []string{"fb-2", "fb-4", "fb-6"}},
		{"rating 5", domain.FeedbackFilter{Rating: 5}, []string{"fb-1", "fb-5"}},
		{"rating 2", domain.FeedbackFilter{Rating: 2}, []string{"fb-3"}},
		{"inclusive range", domain.FeedbackFilter{From: day(22), To: day(24)}, []string{"fb-3", "fb-4", "fb-5"}},
		{"range from the 20th to the 22nd", domain.FeedbackFilter{From: day(20), To: day(22)}, []string{"fb-1", "fb-2", "fb-3"}},
		{"combined", domain.FeedbackFilter{Category: domain.CategoryProduct, Rating: 3}, []string{"fb-4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := entryIDs(cat.Feedbacks.Filter(tt.filter)); !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFeedbackSubmit(t *testing.T) {
	backend, notes, ctx := fixtures(t)
	cat := newCatalog(backend, notes)
	_ = cat.WarmAll(ctx)

	created, err := cat.Feedbacks.Submit(ctx, domain.FeedbackEnvelope{
		FormID:       "form-001",
		CustomerID:   "cus-001",
		ProductID:    "prod-002",
		Rating:       4,
		Comment:      "Som excelente.",
		EmployeeName: "Rita",
		Category:     domain.CategoryProduct,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if created.SubmissionID == "" {
		t.Error("expected generated submission id")
	}
	if list := cat.Feedbacks.Collection().List(); list[0].ID != created.ID {
		t.Error("expected new feedback prepended")
	}
	if msg := notes.last().Message; msg != "Feedback adicionado com sucesso!" {
		t.Errorf("unexpected notification %q", msg)
	}

	got, err := cat.Feedbacks.GetBySubmission(ctx, created.SubmissionID)
	if err != nil || got == nil || got.Envelope().EmployeeName != "Rita" {
		t.Errorf("lookup by submission failed: %+v, %v", got, err)
	}
}

func TestFeedbackSubmit_Validation(t *testing.T) {
	backend, notes, ctx := fixtures(t)
	cat := newCatalog(backend, notes)

	tests := []struct {
		name string
		env  domain.FeedbackEnvelope
	}{
		{"missing customer", domain.FeedbackEnvelope{ProductID: "prod-001", Rating: 3, Comment: "x", EmployeeName: "y"}},
		{"missing comment", domain.FeedbackEnvelope{CustomerID: "cus-001", ProductID: "prod-001", Rating: 3, EmployeeName: "y"}},
		{"rating out of range", domain.FeedbackEnvelope{CustomerID: "cus-001", ProductID: "prod-001", Rating: 6, Comment: "x", EmployeeName: "y"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cat.Feedbacks.Submit(ctx, tt.env)
			var v *domain.ErrValidation
			if !errors.As(err, &v) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
	if backend.count("CreateFeedback") != 0 {
		t.Error("invalid feedback reached the backend")
	}
}

func TestFeedbackDelete_HardDelete(t *testing.T) {
	backend, notes, ctx := fixtures(t)
	cat := newCatalog(backend, notes)
	_ = cat.WarmAll(ctx)

	if err := cat.Feedbacks.Delete(ctx, "fb-3"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := cat.Feedbacks.Collection().Get("fb-3"); ok {
		t.Error("deleted feedback still cached")
	}
	got, err := cat.Feedbacks.GetBySubmission(ctx, "env-003")
	if err != nil || got != nil {
		t.Errorf("expected nil, nil after delete; got %v, %v", got, err)
	}
}
