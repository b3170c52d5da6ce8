// Package mockbackend is an in-memory FeedTrack backend used for local
// development and tests. Store implements port.Backend directly; Server
// exposes it over the REST contract the real backend speaks.
package mockbackend

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"

	"github.com/google/uuid"
)

type customerRow struct {
	customer   domain.Customer
	productIDs []string
}

type formRow struct {
	form        domain.Form
	questionIDs []string
}

// Store holds every collection behind one mutex.
type Store struct {
	mu sync.RWMutex

	customers []customerRow
	products  []domain.Product
	questions []domain.Question
	forms     []formRow
	campaigns []domain.Campaign
	feedbacks []domain.Feedback

	now   func() time.Time
	newID func(prefix string) string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		now: func() time.Time { return time.Now().UTC() },
		newID: func(prefix string) string {
			return prefix + "-" + uuid.NewString()[:8]
		},
	}
}

// ============================================================
// Customers
// ============================================================

func (s *Store) ListCustomers(_ context.Context) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Customer, 0, len(s.customers))
	for _, row := range s.customers {
		out = append(out, s.resolveCustomer(row))
	}
	return out, nil
}

func (s *Store) CreateCustomer(_ context.Context, in domain.NewCustomer) (*domain.Customer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkProducts(in.ProductIDs); err != nil {
		return nil, err
	}
	now := s.now()
	row := customerRow{
		customer: domain.Customer{
			ID:                  s.newID("cus"),
			Person:              in.Person,
			City:                in.City,
			AssignedSalesperson: in.AssignedSalesperson,
			Status:              domain.CustomerActive,
			CreatedAt:           now,
			UpdatedAt:           now,
		},
		productIDs: dedupe(in.ProductIDs),
	}
	s.customers = append(s.customers, row)
	c := s.resolveCustomer(row)
	return &c, nil
}

func (s *Store) UpdateCustomer(_ context.Context, id string, in domain.CustomerUpdate) (*domain.Customer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.customerIndex(id)
	if i < 0 {
		return nil, &domain.ErrNotFound{Resource: "cliente", ID: id}
	}
	row := &s.customers[i]
	row.customer.Person = in.Person
	row.customer.City = in.City
	row.customer.AssignedSalesperson = in.AssignedSalesperson
	if in.Status != "" {
		row.customer.Status = in.Status
	}
	row.customer.DeletedAt = in.DeletedAt
	row.customer.UpdatedAt = s.now()
	c := s.resolveCustomer(*row)
	return &c, nil
}

func (s *Store) ChangeCustomerProducts(_ context.Context, id string, action domain.AssociationAction) error {
	if err := action.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.customerIndex(id)
	if i < 0 {
		return &domain.ErrNotFound{Resource: "cliente", ID: id}
	}
	row := &s.customers[i]
	switch action.Action {
	case domain.AssociationAdd:
		if err := s.checkProducts(action.ProductIDs); err != nil {
			return err
		}
		row.productIDs = dedupe(append(row.productIDs, action.ProductIDs...))
	case domain.AssociationRemove:
		row.productIDs = slices.DeleteFunc(row.productIDs, func(p string) bool { return p == action.ProductID })
	case domain.AssociationReplace:
		if err := s.checkProducts([]string{action.NewProductID}); err != nil {
			return err
		}
		j := slices.Index(row.productIDs, action.ProductID)
		if j < 0 {
			return &domain.ErrNotFound{Resource: "produto do cliente", ID: action.ProductID}
		}
		row.productIDs[j] = action.NewProductID
		row.productIDs = dedupe(row.productIDs)
	}
	row.customer.UpdatedAt = s.now()
	return nil
}

func (s *Store) customerIndex(id string) int {
	return slices.IndexFunc(s.customers, func(r customerRow) bool { return r.customer.ID == id })
}

func (s *Store) resolveCustomer(row customerRow) domain.Customer {
	c := row.customer
	c.Products = make([]domain.Product, 0, len(row.productIDs))
	for _, pid := range row.productIDs {
		if j := s.productIndex(pid); j >= 0 {
			c.Products = append(c.Products, s.products[j])
		}
	}
	return c
}

func (s *Store) checkProducts(ids []string) error {
	for _, id := range ids {
		if s.productIndex(id) < 0 {
			return &domain.ErrValidation{Field: "idsProdutos", Message: fmt.Sprintf("Produto %s não encontrado.", id)}
		}
	}
	return nil
}

// ============================================================
// Products
// ============================================================

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.products), nil
}

func (s *Store) CreateProduct(_ context.Context, in domain.ProductInput) (*domain.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	p := domain.Product{
		ID:          s.newID("prod"),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.products = append(s.products, p)
	return &p, nil
}

func (s *Store) UpdateProduct(_ context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.productIndex(id)
	if i < 0 {
		return nil, &domain.ErrNotFound{Resource: "produto", ID: id}
	}
	p := &s.products[i]
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Active = in.Active
	p.DeletedAt = in.DeletedAt
	p.UpdatedAt = s.now()
	out := *p
	return &out, nil
}

func (s *Store) productIndex(id string) int {
	return slices.IndexFunc(s.products, func(p domain.Product) bool { return p.ID == id })
}

// ============================================================
// Forms and questions
// ============================================================

func (s *Store) ListForms(_ context.Context) ([]domain.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Form, 0, len(s.forms))
	for _, row := range s.forms {
		out = append(out, s.resolveForm(row))
	}
	return out, nil
}

func (s *Store) CreateForm(_ context.Context, in domain.FormInput) (*domain.Form, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkQuestions(in.QuestionIDs); err != nil {
		return nil, err
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	row := formRow{
		form:        domain.Form{ID: s.newID("form"), Title: in.Title, Description: in.Description, Active: active},
		questionIDs: slices.Clone(in.QuestionIDs),
	}
	s.forms = append(s.forms, row)
	f := s.resolveForm(row)
	return &f, nil
}

func (s *Store) UpdateForm(_ context.Context, id string, in domain.FormInput) (*domain.Form, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.formIndex(id)
	if i < 0 {
		return nil, &domain.ErrNotFound{Resource: "formulario", ID: id}
	}
	if err := s.checkQuestions(in.QuestionIDs); err != nil {
		return nil, err
	}
	row := &s.forms[i]
	row.form.Title = in.Title
	row.form.Description = in.Description
	if in.Active != nil {
		row.form.Active = *in.Active
	}
	row.questionIDs = slices.Clone(in.QuestionIDs)
	f := s.resolveForm(*row)
	return &f, nil
}

func (s *Store) DeleteForm(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.formIndex(id)
	if i < 0 {
		return &domain.ErrNotFound{Resource: "formulario", ID: id}
	}
	s.forms = slices.Delete(s.forms, i, i+1)
	return nil
}

func (s *Store) ListQuestions(_ context.Context) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.questions), nil
}

func (s *Store) CreateQuestion(_ context.Context, in domain.NewQuestion) (*domain.Question, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, &domain.ErrValidation{Message: "O texto da pergunta é obrigatório."}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	q := domain.Question{
		ID:        s.newID("q"),
		Text:      in.Text,
		Kind:      in.Kind,
		Options:   slices.Clone(in.Options),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.questions = append(s.questions, q)
	return &q, nil
}

func (s *Store) formIndex(id string) int {
	return slices.IndexFunc(s.forms, func(r formRow) bool { return r.form.ID == id })
}

func (s *Store) questionIndex(id string) int {
	return slices.IndexFunc(s.questions, func(q domain.Question) bool { return q.ID == id })
}

func (s *Store) resolveForm(row formRow) domain.Form {
	f := row.form
	f.Questions = make([]domain.Question, 0, len(row.questionIDs))
	for _, qid := range row.questionIDs {
		if j := s.questionIndex(qid); j >= 0 {
			f.Questions = append(f.Questions, s.questions[j])
		}
	}
	return f
}

func (s *Store) checkQuestions(ids []string) error {
	for _, id := range ids {
		if s.questionIndex(id) < 0 {
			return &domain.ErrValidation{Field: "idsPerguntas", Message: fmt.Sprintf("Pergunta %s não encontrada.", id)}
		}
	}
	return nil
}

// ============================================================
// Campaigns
// ============================================================

func (s *Store) ListCampaigns(_ context.Context) ([]domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.campaigns), nil
}

func (s *Store) CreateCampaign(_ context.Context, in domain.NewCampaign) (*domain.Campaign, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in = in.WithDefaults()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.formIndex(in.FormID) < 0 {
		return nil, &domain.ErrValidation{Field: "formularioId", Message: "Formulário não encontrado."}
	}
	c := domain.Campaign{
		ID:              s.newID("camp"),
		Title:           in.Title,
		Description:     in.Description,
		CampaignType:    in.CampaignType,
		TargetSegment:   in.TargetSegment,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		MessageTemplate: in.MessageTemplate,
		FormID:          in.FormID,
		Active:          true,
	}
	s.campaigns = append(s.campaigns, c)
	return &c, nil
}

func (s *Store) UpdateCampaign(_ context.Context, id string, in domain.CampaignUpdate) (*domain.Campaign, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.campaignIndex(id)
	if i < 0 {
		return nil, &domain.ErrNotFound{Resource: "campanha", ID: id}
	}
	c := &s.campaigns[i]
	c.Title = in.Title
	c.Description = in.Description
	c.CampaignType = in.CampaignType
	c.TargetSegment = in.TargetSegment
	c.StartDate = in.StartDate
	c.EndDate = in.EndDate
	c.MessageTemplate = in.MessageTemplate
	c.FormID = in.FormID
	c.Active = in.Active
	out := *c
	return &out, nil
}

// DeleteCampaign is a logical delete: the campaign stays listed, inactive.
func (s *Store) DeleteCampaign(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.campaignIndex(id)
	if i < 0 {
		return &domain.ErrNotFound{Resource: "campanha", ID: id}
	}
	s.campaigns[i].Active = false
	return nil
}

// campaignActive reports the stored flag; unknown campaigns count as active.
func (s *Store) campaignActive(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.campaignIndex(id); i >= 0 {
		return s.campaigns[i].Active
	}
	return true
}

func (s *Store) campaignIndex(id string) int {
	return slices.IndexFunc(s.campaigns, func(c domain.Campaign) bool { return c.ID == id })
}

// ============================================================
// Feedbacks
// ============================================================

func (s *Store) ListFeedbacks(_ context.Context) ([]domain.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.feedbacks), nil
}

func (s *Store) GetFeedbackBySubmission(_ context.Context, submissionID string) (*domain.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.feedbacks {
		if f.SubmissionID == submissionID {
			out := f
			return &out, nil
		}
	}
	return nil, nil
}

func (s *Store) CreateFeedback(_ context.Context, f domain.Feedback) (*domain.Feedback, error) {
	if len(f.Answers) == 0 {
		return nil, &domain.ErrValidation{Field: "respostas", Message: "Nenhuma resposta enviada."}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f.ID = s.newID("fb")
	if f.SubmissionID == "" {
		f.SubmissionID = uuid.NewString()
	}
	for _, existing := range s.feedbacks {
		if existing.SubmissionID == f.SubmissionID {
			return nil, &domain.ErrConflict{Message: "Envio já registrado."}
		}
	}
	f.CreatedAt = s.now()
	f.DeletedAt = nil
	s.feedbacks = append(s.feedbacks, f)
	out := f
	return &out, nil
}

func (s *Store) DeleteFeedback(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.feedbacks, func(f domain.Feedback) bool { return f.ID == id })
	if i < 0 {
		return &domain.ErrNotFound{Resource: "feedback", ID: id}
	}
	s.feedbacks = slices.Delete(s.feedbacks, i, i+1)
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
