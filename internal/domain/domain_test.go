package domain_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
)

func TestMoney_JSONRoundTrip(t *testing.T) {
	var p domain.Product
	if err := json.Unmarshal([]byte(`{"name":"Smartphone X","price":2999.90}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Price.Cents() != 299990 {
		t.Fatalf("expected 299990 cents, got %d", p.Price.Cents())
	}

	out, err := json.Marshal(p.Price)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "2999.90" {
		t.Errorf("expected 2999.90, got %s", out)
	}
}

func TestParseMoney(t *testing.T) {
	cases := map[string]int64{
		"399":     39900,
		"120.5":   12050,
		"0.99":    99,
		"10.005":  1001,
		"-1.25":   -125,
		"2999.90": 299990,
	}
	for in, want := range cases {
		got, err := domain.ParseMoney(in)
		if err != nil {
			t.Errorf("ParseMoney(%q): %v", in, err)
			continue
		}
		if got.Cents() != want {
			t.Errorf("ParseMoney(%q) = %d, want %d", in, got.Cents(), want)
		}
	}
	if _, err := domain.ParseMoney("abc"); err == nil {
		t.Error("expected error for non-numeric amount")
	}
}

func TestNewCustomer_Validate(t *testing.T) {
	valid := domain.NewCustomer{
		Person:     domain.Person{Name: "Maria Silva", Email: "maria@email.com"},
		ProductIDs: []string{"prod-1"},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid customer, got %v", err)
	}

	missing := []domain.NewCustomer{
		{Person: domain.Person{Email: "maria@email.com"}, ProductIDs: []string{"prod-1"}},
		{Person: domain.Person{Name: "Maria"}, ProductIDs: []string{"prod-1"}},
		{Person: domain.Person{Name: "Maria", Email: "maria@email.com"}},
	}
	for i, c := range missing {
		err := c.Validate()
		var v *domain.ErrValidation
		if !errors.As(err, &v) {
			t.Fatalf("case %d: expected ErrValidation, got %v", i, err)
		}
		if v.Error() != "Nome, email e um produto inicial são obrigatórios." {
			t.Errorf("case %d: unexpected message %q", i, v.Error())
		}
	}
}

func TestAssociationAction_Validate(t *testing.T) {
	ok := []domain.AssociationAction{
		{Action: domain.AssociationAdd, ProductIDs: []string{"p1"}},
		{Action: domain.AssociationRemove, ProductID: "p1"},
		{Action: domain.AssociationReplace, ProductID: "p1", NewProductID: "p2"},
	}
	for _, a := range ok {
		if err := a.Validate(); err != nil {
			t.Errorf("%s: unexpected error %v", a.Action, err)
		}
	}

	bad := []domain.AssociationAction{
		{Action: domain.AssociationAdd},
		{Action: domain.AssociationRemove},
		{Action: domain.AssociationReplace, ProductID: "p1", NewProductID: "p1"},
		{Action: "merge"},
	}
	for _, a := range bad {
		if err := a.Validate(); err == nil {
			t.Errorf("%q: expected validation error", a.Action)
		}
	}
}

func TestNewQuestion_RejectsMultipleChoice(t *testing.T) {
	q := domain.NewQuestion{Text: "Qual canal?", Kind: domain.QuestionMultipleChoice, Options: []string{"a", "b"}}
	if err := q.Validate(); err == nil {
		t.Fatal("expected multiple choice to be rejected")
	}
	q.Kind = domain.QuestionRating
	if err := q.Validate(); err != nil {
		t.Fatalf("expected rating question to be valid, got %v", err)
	}
}

func TestFeedbackEnvelope_AnswersRoundTrip(t *testing.T) {
	env := domain.FeedbackEnvelope{
		CustomerID:   "cus-101",
		ProductID:    "prod-1",
		Rating:       5,
		Comment:      "Atendimento excelente do João.",
		EmployeeName: "João Martins",
		Category:     domain.CategoryService,
		Extra:        map[string]any{"q-nps": "10", "q-canal": "loja"},
	}

	answers := env.Answers()
	if answers[0].QuestionID != domain.AnswerCustomerID {
		t.Errorf("expected customerId first, got %s", answers[0].QuestionID)
	}
	if answers[5].Value != "Atendimento" {
		t.Errorf("expected category label on the wire, got %v", answers[5].Value)
	}
	if answers[6].QuestionID != "q-canal" {
		t.Errorf("expected extras sorted by key, got %s", answers[6].QuestionID)
	}

	back := domain.EnvelopeFromAnswers(answers)
	if !reflect.DeepEqual(env, back) {
		t.Errorf("round trip mismatch:\nwant %+v\ngot  %+v", env, back)
	}
}

func TestEnvelopeFromAnswers_DecodedJSON(t *testing.T) {
	raw := `[{"questionId":"rating","value":4},{"questionId":"feedbackType","value":"PRODUCT"},{"questionId":"comment","value":"ok"}]`
	var answers []domain.Answer
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	env := domain.EnvelopeFromAnswers(answers)
	if env.Rating != 4 {
		t.Errorf("expected rating 4, got %d", env.Rating)
	}
	if env.Category != domain.CategoryProduct {
		t.Errorf("expected PRODUCT, got %s", env.Category)
	}
	if env.Extra != nil {
		t.Errorf("expected no extras, got %v", env.Extra)
	}
}

func TestFeedbackEnvelope_Validate(t *testing.T) {
	env := domain.FeedbackEnvelope{CustomerID: "c", ProductID: "p", Rating: 3, Comment: "ok", EmployeeName: "Sofia"}
	if err := env.Validate(); err != nil {
		t.Fatalf("expected valid envelope, got %v", err)
	}
	env.Rating = 6
	if err := env.Validate(); err == nil {
		t.Error("expected out-of-range rating to fail")
	}
	env.Rating = 3
	env.ProductID = ""
	if err := env.Validate(); err == nil || err.Error() != "Selecione um cliente e um produto." {
		t.Errorf("unexpected error %v", err)
	}
}

func TestFeedbackFilter_DateRangeInclusive(t *testing.T) {
	day := func(s string) time.Time {
		d, _ := time.Parse("2006-01-02", s)
		return d
	}
	from, to := day("2025-07-20"), day("2025-07-22")
	f := domain.FeedbackFilter{From: &from, To: &to}

	inside := domain.FeedbackEntry{CreatedAt: day("2025-07-22").Add(23 * time.Hour)}
	outside := domain.FeedbackEntry{CreatedAt: day("2025-07-23")}
	if !f.Matches(inside) {
		t.Error("expected last day of range to match")
	}
	if f.Matches(outside) {
		t.Error("expected day after range not to match")
	}
}

func TestCampaign_Ended(t *testing.T) {
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	c := domain.Campaign{EndDate: "2025-08-01"}
	if c.Ended(now) {
		t.Error("date-only end covers the whole day")
	}
	c.EndDate = "2025-07-31"
	if !c.Ended(now) {
		t.Error("expected campaign ending yesterday to be over")
	}
	c.EndDate = ""
	if c.Ended(now) {
		t.Error("campaign without end date never ends")
	}
}

func TestParseFeedbackCategory(t *testing.T) {
	for in, want := range map[string]domain.FeedbackCategory{
		"Atendimento": domain.CategoryService,
		"produto":     domain.CategoryProduct,
		"COMPANY":     domain.CategoryCompany,
	} {
		got, ok := domain.ParseFeedbackCategory(in)
		if !ok || got != want {
			t.Errorf("ParseFeedbackCategory(%q) = %s, %v", in, got, ok)
		}
	}
	if _, ok := domain.ParseFeedbackCategory("all"); ok {
		t.Error("'all' is not a category")
	}
}
