package mockbackend

import (
	"strconv"
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
)

// Seeded returns a store holding the demo catalogue the dashboard ships with.
func Seeded() *Store {
	s := NewStore()
	s.seed(time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC))
	return s
}

func (s *Store) seed(base time.Time) {
	product := func(id, name, desc string, units, cents int64) domain.Product {
		return domain.Product{ID: id, Name: name, Description: desc, Price: domain.NewMoney(units, cents), Active: true, CreatedAt: base, UpdatedAt: base}
	}
	s.products = []domain.Product{
		product("prod-001", "Smartphone X", "Smartphone com câmera tripla", 2999, 90),
		product("prod-002", "Fone de Ouvido Y", "Fone sem fio com cancelamento de ruído", 399, 0),
		product("prod-003", "Carregador Z", "Carregador rápido 30W", 120, 0),
		product("prod-004", "Aplicativo da Loja", "Assinatura do aplicativo de compras", 9, 90),
		product("prod-005", "Software de Gestão", "Licença anual", 1499, 0),
		product("prod-006", "Cadeira Gamer Z", "Cadeira ergonômica", 1299, 0),
	}

	customer := func(id, name, email, phone, city string, products ...string) customerRow {
		return customerRow{
			customer: domain.Customer{
				ID:        id,
				Person:    domain.Person{Name: name, Email: email, Phone: phone},
				City:      city,
				Status:    domain.CustomerActive,
				CreatedAt: base,
				UpdatedAt: base,
			},
			productIDs: products,
		}
	}
	s.customers = []customerRow{
		customer("cus-001", "Maria Silva", "maria.silva@email.com", "(11) 99999-1111", "São Paulo", "prod-001", "prod-002"),
		customer("cus-002", "João Santos", "joao.santos@email.com", "(21) 98888-2222", "Rio de Janeiro", "prod-003"),
		customer("cus-003", "Ana Costa", "ana.costa@email.com", "(31) 97777-3333", "Belo Horizonte", "prod-002"),
		customer("cus-101", "Ana Silva", "ana.silva@email.com", "", "São Paulo", "prod-001", "prod-004"),
		customer("cus-102", "Carlos Pereira", "carlos.pereira@email.com", "", "Curitiba", "prod-002"),
		customer("cus-103", "Beatriz Costa", "beatriz.costa@email.com", "", "Recife", "prod-003"),
		customer("cus-104", "Daniel Mendes", "daniel.mendes@email.com", "", "Porto Alegre", "prod-005"),
		customer("cus-105", "Eduarda Rocha", "eduarda.rocha@email.com", "", "Salvador", "prod-006"),
		customer("cus-106", "Fábio Almeida", "fabio.almeida@email.com", "", "Fortaleza", "prod-001"),
	}

	s.questions = []domain.Question{
		{ID: "q-001", Text: "Como você avalia sua experiência?", Kind: domain.QuestionRating, Active: true, CreatedAt: base, UpdatedAt: base},
		{ID: "q-002", Text: "Deixe um comentário", Kind: domain.QuestionText, Active: true, CreatedAt: base, UpdatedAt: base},
		{ID: "q-003", Text: "Quem realizou seu atendimento?", Kind: domain.QuestionText, Active: true, CreatedAt: base, UpdatedAt: base},
	}
	s.forms = []formRow{{
		form:        domain.Form{ID: "form-001", Title: "Pesquisa de Satisfação", Description: "Avaliação pós-compra", Active: true},
		questionIDs: []string{"q-001", "q-002", "q-003"},
	}}

	s.campaigns = []domain.Campaign{{
		ID:              "camp-001",
		Title:           "Pesquisa Pós-Compra",
		Description:     "Enviada após cada venda",
		CampaignType:    domain.CampaignPostPurchase,
		TargetSegment:   domain.SegmentAllCustomers,
		StartDate:       "2025-07-01",
		EndDate:         "2026-12-31",
		MessageTemplate: "Olá {{nome}}, conte para nós como foi sua compra de {{produto}}!",
		FormID:          "form-001",
		Active:          true,
	}}

	type seedFeedback struct {
		customer, product, employee, comment string
		rating                               int
		category                             domain.FeedbackCategory
		day                                  int
	}
	rows := []seedFeedback{
		{"cus-101", "prod-001", "João Martins", "Atendimento excelente do João.", 5, domain.CategoryService, 20},
		{"cus-102", "prod-002", "", "Produto muito bom, mas a entrega atrasou.", 4, domain.CategoryProduct, 21},
		{"cus-103", "", "", "A loja estava desorganizada.", 2, domain.CategoryCompany, 22},
		{"cus-101", "prod-004", "", "O aplicativo da loja é um pouco lento.", 3, domain.CategoryProduct, 23},
		{"cus-104", "prod-005", "Sofia Lima", "Suporte técnico resolveu meu problema rapidamente.", 5, domain.CategoryService, 24},
		{"cus-105", "prod-006", "", "Produto veio com defeito.", 1, domain.CategoryProduct, 25},
		{"cus-106", "", "", "O ambiente da empresa é muito agradável.", 4, domain.CategoryCompany, 26},
	}
	for i, r := range rows {
		env := domain.FeedbackEnvelope{
			CustomerID:   r.customer,
			ProductID:    r.product,
			Rating:       r.rating,
			Comment:      r.comment,
			EmployeeName: r.employee,
			Category:     r.category,
		}
		s.feedbacks = append(s.feedbacks, domain.Feedback{
			ID:           "fb-" + strconv.Itoa(i+1),
			FormID:       "form-001",
			SubmissionID: "env-00" + strconv.Itoa(i+1),
			Answers:      env.Answers(),
			CreatedAt:    time.Date(2025, 7, r.day, 10, 0, 0, 0, time.UTC),
		})
	}
}
