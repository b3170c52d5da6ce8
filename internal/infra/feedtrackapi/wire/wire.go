// Package wire holds the JSON shapes of the FeedTrack REST backend and
// their mapping to domain types. Field names follow the backend contract.
package wire

import (
	"strings"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
)

// ============================================================
// Enumerations
// ============================================================

const (
	StatusAtivo   = "ATIVO"
	StatusInativo = "INATIVO"
)

// CustomerStatus maps a backend status to the domain value.
func CustomerStatus(s string) domain.CustomerStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case StatusInativo, string(domain.CustomerInactive):
		return domain.CustomerInactive
	default:
		return domain.CustomerActive
	}
}

// Status maps a domain status to the backend value.
func Status(s domain.CustomerStatus) string {
	if s == domain.CustomerInactive {
		return StatusInativo
	}
	return StatusAtivo
}

var questionKinds = map[string]domain.QuestionKind{
	"nota":             domain.QuestionRating,
	"texto":            domain.QuestionText,
	"multipla_escolha": domain.QuestionMultipleChoice,
}

// QuestionKind maps a backend question type; unknown values pass through.
func QuestionKind(tipo string) domain.QuestionKind {
	if k, ok := questionKinds[strings.ToLower(tipo)]; ok {
		return k
	}
	return domain.QuestionKind(tipo)
}

// Tipo maps a domain question kind to the backend value.
func Tipo(k domain.QuestionKind) string {
	for tipo, kind := range questionKinds {
		if kind == k {
			return tipo
		}
	}
	return string(k)
}

var enumAliases = map[string]string{
	"POS_COMPRA":     domain.CampaignPostPurchase,
	"TODOS_CLIENTES": domain.SegmentAllCustomers,
}

// CampaignEnum maps a backend campaign type or segment to the dashboard
// value. Unknown values are kept verbatim.
func CampaignEnum(v string) string {
	if d, ok := enumAliases[v]; ok {
		return d
	}
	return v
}

// BackendEnum is the inverse of CampaignEnum.
func BackendEnum(v string) string {
	for b, d := range enumAliases {
		if d == v {
			return b
		}
	}
	return v
}

// ============================================================
// Cliente
// ============================================================

type Pessoa struct {
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Telefone string `json:"telefone,omitempty"`
}

func (p Pessoa) ToDomain() domain.Person {
	return domain.Person{Name: p.Nome, Email: p.Email, Phone: p.Telefone}
}

func PessoaFrom(p domain.Person) Pessoa {
	return Pessoa{Nome: p.Name, Email: p.Email, Telefone: p.Phone}
}

type Cliente struct {
	ID                  string    `json:"id"`
	Pessoa              Pessoa    `json:"pessoa"`
	Cidade              string    `json:"cidade,omitempty"`
	VendedorResponsavel string    `json:"vendedorResponsavel,omitempty"`
	Status              string    `json:"status"`
	Produtos            []Produto `json:"produtos"`
	DataCriacao         Time      `json:"dataCriacao"`
	DataAtualizacao     Time      `json:"dataAtualizacao"`
	DataExclusao        *Time     `json:"dataExclusao,omitempty"`
}

func (c Cliente) ToDomain() domain.Customer {
	products := make([]domain.Product, 0, len(c.Produtos))
	for _, p := range c.Produtos {
		products = append(products, p.ToDomain())
	}
	return domain.Customer{
		ID:                  c.ID,
		Person:              c.Pessoa.ToDomain(),
		City:                c.Cidade,
		AssignedSalesperson: c.VendedorResponsavel,
		Status:              CustomerStatus(c.Status),
		Products:            products,
		CreatedAt:           c.DataCriacao.Time,
		UpdatedAt:           c.DataAtualizacao.Time,
		DeletedAt:           c.DataExclusao.Std(),
	}
}

func ClienteFrom(c domain.Customer) Cliente {
	produtos := make([]Produto, 0, len(c.Products))
	for _, p := range c.Products {
		produtos = append(produtos, ProdutoFrom(p))
	}
	return Cliente{
		ID:                  c.ID,
		Pessoa:              PessoaFrom(c.Person),
		Cidade:              c.City,
		VendedorResponsavel: c.AssignedSalesperson,
		Status:              Status(c.Status),
		Produtos:            produtos,
		DataCriacao:         At(c.CreatedAt),
		DataAtualizacao:     At(c.UpdatedAt),
		DataExclusao:        Ptr(c.DeletedAt),
	}
}

type NovoCliente struct {
	Pessoa              Pessoa   `json:"pessoa"`
	Cidade              string   `json:"cidade,omitempty"`
	VendedorResponsavel string   `json:"vendedorResponsavel,omitempty"`
	IdsProdutos         []string `json:"idsProdutos"`
}

func NovoClienteFrom(n domain.NewCustomer) NovoCliente {
	return NovoCliente{
		Pessoa:              PessoaFrom(n.Person),
		Cidade:              n.City,
		VendedorResponsavel: n.AssignedSalesperson,
		IdsProdutos:         n.ProductIDs,
	}
}

func (n NovoCliente) ToDomain() domain.NewCustomer {
	return domain.NewCustomer{
		Person:              n.Pessoa.ToDomain(),
		City:                n.Cidade,
		AssignedSalesperson: n.VendedorResponsavel,
		ProductIDs:          n.IdsProdutos,
	}
}

type AtualizarCliente struct {
	Pessoa              Pessoa `json:"pessoa"`
	Cidade              string `json:"cidade,omitempty"`
	VendedorResponsavel string `json:"vendedorResponsavel,omitempty"`
	Status              string `json:"status"`
	DataExclusao        *Time  `json:"dataExclusao"`
}

func AtualizarClienteFrom(u domain.CustomerUpdate) AtualizarCliente {
	return AtualizarCliente{
		Pessoa:              PessoaFrom(u.Person),
		Cidade:              u.City,
		VendedorResponsavel: u.AssignedSalesperson,
		Status:              Status(u.Status),
		DataExclusao:        Ptr(u.DeletedAt),
	}
}

func (a AtualizarCliente) ToDomain() domain.CustomerUpdate {
	return domain.CustomerUpdate{
		Person:              a.Pessoa.ToDomain(),
		City:                a.Cidade,
		AssignedSalesperson: a.VendedorResponsavel,
		Status:              CustomerStatus(a.Status),
		DeletedAt:           a.DataExclusao.Std(),
	}
}

type AcaoProdutos struct {
	Action        string   `json:"action"`
	IdsProdutos   []string `json:"idsProdutos,omitempty"`
	ProdutoID     string   `json:"produtoId,omitempty"`
	NovoProdutoID string   `json:"novoProdutoId,omitempty"`
}

func AcaoProdutosFrom(a domain.AssociationAction) AcaoProdutos {
	return AcaoProdutos{
		Action:        string(a.Action),
		IdsProdutos:   a.ProductIDs,
		ProdutoID:     a.ProductID,
		NovoProdutoID: a.NewProductID,
	}
}

func (a AcaoProdutos) ToDomain() domain.AssociationAction {
	return domain.AssociationAction{
		Action:       domain.AssociationKind(a.Action),
		ProductIDs:   a.IdsProdutos,
		ProductID:    a.ProdutoID,
		NewProductID: a.NovoProdutoID,
	}
}

// ============================================================
// Produto
// ============================================================

type Produto struct {
	ID              string       `json:"id"`
	Nome            string       `json:"nome"`
	Descricao       string       `json:"descricao,omitempty"`
	Preco           domain.Money `json:"preco"`
	Ativo           bool         `json:"ativo"`
	DataCriacao     Time         `json:"dataCriacao"`
	DataAtualizacao Time         `json:"dataAtualizacao"`
	DataExclusao    *Time        `json:"dataExclusao,omitempty"`
}

func (p Produto) ToDomain() domain.Product {
	return domain.Product{
		ID:          p.ID,
		Name:        p.Nome,
		Description: p.Descricao,
		Price:       p.Preco,
		Active:      p.Ativo,
		CreatedAt:   p.DataCriacao.Time,
		UpdatedAt:   p.DataAtualizacao.Time,
		DeletedAt:   p.DataExclusao.Std(),
	}
}

func ProdutoFrom(p domain.Product) Produto {
	return Produto{
		ID:              p.ID,
		Nome:            p.Name,
		Descricao:       p.Description,
		Preco:           p.Price,
		Ativo:           p.Active,
		DataCriacao:     At(p.CreatedAt),
		DataAtualizacao: At(p.UpdatedAt),
		DataExclusao:    Ptr(p.DeletedAt),
	}
}

type ProdutoInput struct {
	Nome         string       `json:"nome"`
	Descricao    string       `json:"descricao,omitempty"`
	Preco        domain.Money `json:"preco"`
	Ativo        bool         `json:"ativo"`
	DataExclusao *Time        `json:"dataExclusao"`
}

func ProdutoInputFrom(in domain.ProductInput) ProdutoInput {
	return ProdutoInput{
		Nome:         in.Name,
		Descricao:    in.Description,
		Preco:        in.Price,
		Ativo:        in.Active,
		DataExclusao: Ptr(in.DeletedAt),
	}
}

func (p ProdutoInput) ToDomain() domain.ProductInput {
	return domain.ProductInput{
		Name:        p.Nome,
		Description: p.Descricao,
		Price:       p.Preco,
		Active:      p.Ativo,
		DeletedAt:   p.DataExclusao.Std(),
	}
}

// ============================================================
// Formulario / Pergunta
// ============================================================

type Pergunta struct {
	ID              string   `json:"id"`
	Texto           string   `json:"texto"`
	Tipo            string   `json:"tipo"`
	Opcoes          []string `json:"opcoes,omitempty"`
	Ativo           bool     `json:"ativo"`
	DataCriacao     Time     `json:"dataCriacao"`
	DataAtualizacao Time     `json:"dataAtualizacao"`
}

func (p Pergunta) ToDomain() domain.Question {
	return domain.Question{
		ID:        p.ID,
		Text:      p.Texto,
		Kind:      QuestionKind(p.Tipo),
		Options:   p.Opcoes,
		Active:    p.Ativo,
		CreatedAt: p.DataCriacao.Time,
		UpdatedAt: p.DataAtualizacao.Time,
	}
}

func PerguntaFrom(q domain.Question) Pergunta {
	return Pergunta{
		ID:              q.ID,
		Texto:           q.Text,
		Tipo:            Tipo(q.Kind),
		Opcoes:          q.Options,
		Ativo:           q.Active,
		DataCriacao:     At(q.CreatedAt),
		DataAtualizacao: At(q.UpdatedAt),
	}
}

type NovaPergunta struct {
	Texto  string   `json:"texto"`
	Tipo   string   `json:"tipo"`
	Opcoes []string `json:"opcoes,omitempty"`
}

func NovaPerguntaFrom(n domain.NewQuestion) NovaPergunta {
	return NovaPergunta{Texto: n.Text, Tipo: Tipo(n.Kind), Opcoes: n.Options}
}

func (n NovaPergunta) ToDomain() domain.NewQuestion {
	return domain.NewQuestion{Text: n.Texto, Kind: QuestionKind(n.Tipo), Options: n.Opcoes}
}

type Formulario struct {
	ID        string     `json:"id"`
	Titulo    string     `json:"titulo"`
	Descricao string     `json:"descricao,omitempty"`
	Ativo     bool       `json:"ativo"`
	Perguntas []Pergunta `json:"perguntas"`
}

func (f Formulario) ToDomain() domain.Form {
	questions := make([]domain.Question, 0, len(f.Perguntas))
	for _, p := range f.Perguntas {
		questions = append(questions, p.ToDomain())
	}
	return domain.Form{
		ID:          f.ID,
		Title:       f.Titulo,
		Description: f.Descricao,
		Active:      f.Ativo,
		Questions:   questions,
	}
}

func FormularioFrom(f domain.Form) Formulario {
	perguntas := make([]Pergunta, 0, len(f.Questions))
	for _, q := range f.Questions {
		perguntas = append(perguntas, PerguntaFrom(q))
	}
	return Formulario{
		ID:        f.ID,
		Titulo:    f.Title,
		Descricao: f.Description,
		Ativo:     f.Active,
		Perguntas: perguntas,
	}
}

type FormularioInput struct {
	Titulo       string   `json:"titulo"`
	Descricao    string   `json:"descricao,omitempty"`
	IdsPerguntas []string `json:"idsPerguntas"`
	Ativo        *bool    `json:"ativo,omitempty"`
}

func FormularioInputFrom(in domain.FormInput) FormularioInput {
	return FormularioInput{
		Titulo:       in.Title,
		Descricao:    in.Description,
		IdsPerguntas: in.QuestionIDs,
		Ativo:        in.Active,
	}
}

func (f FormularioInput) ToDomain() domain.FormInput {
	return domain.FormInput{
		Title:       f.Titulo,
		Description: f.Descricao,
		QuestionIDs: f.IdsPerguntas,
		Active:      f.Ativo,
	}
}

// ============================================================
// Campanha
// ============================================================

type Campanha struct {
	ID               string `json:"id"`
	Titulo           string `json:"titulo"`
	Descricao        string `json:"descricao,omitempty"`
	TipoCampanha     string `json:"tipoCampanha"`
	SegmentoAlvo     string `json:"segmentoAlvo"`
	DataInicio       string `json:"dataInicio,omitempty"`
	DataFim          string `json:"dataFim,omitempty"`
	TemplateMensagem string `json:"templateMensagem"`
	FormularioID     string `json:"formularioId"`
	Ativo            bool   `json:"ativo"`
}

func (c Campanha) ToDomain() domain.Campaign {
	return domain.Campaign{
		ID:              c.ID,
		Title:           c.Titulo,
		Description:     c.Descricao,
		CampaignType:    CampaignEnum(c.TipoCampanha),
		TargetSegment:   CampaignEnum(c.SegmentoAlvo),
		StartDate:       c.DataInicio,
		EndDate:         c.DataFim,
		MessageTemplate: c.TemplateMensagem,
		FormID:          c.FormularioID,
		Active:          c.Ativo,
	}
}

func CampanhaFrom(c domain.Campaign) Campanha {
	return Campanha{
		ID:               c.ID,
		Titulo:           c.Title,
		Descricao:        c.Description,
		TipoCampanha:     BackendEnum(c.CampaignType),
		SegmentoAlvo:     BackendEnum(c.TargetSegment),
		DataInicio:       c.StartDate,
		DataFim:          c.EndDate,
		TemplateMensagem: c.MessageTemplate,
		FormularioID:     c.FormID,
		Ativo:            c.Active,
	}
}

type CampanhaInput struct {
	Titulo           string `json:"titulo"`
	Descricao        string `json:"descricao,omitempty"`
	TipoCampanha     string `json:"tipoCampanha"`
	SegmentoAlvo     string `json:"segmentoAlvo"`
	DataInicio       string `json:"dataInicio,omitempty"`
	DataFim          string `json:"dataFim,omitempty"`
	TemplateMensagem string `json:"templateMensagem"`
	FormularioID     string `json:"formularioId"`
	Ativo            *bool  `json:"ativo,omitempty"`
}

func NovaCampanhaFrom(n domain.NewCampaign) CampanhaInput {
	return CampanhaInput{
		Titulo:           n.Title,
		Descricao:        n.Description,
		TipoCampanha:     BackendEnum(n.CampaignType),
		SegmentoAlvo:     BackendEnum(n.TargetSegment),
		DataInicio:       n.StartDate,
		DataFim:          n.EndDate,
		TemplateMensagem: n.MessageTemplate,
		FormularioID:     n.FormID,
	}
}

func AtualizarCampanhaFrom(u domain.CampaignUpdate) CampanhaInput {
	active := u.Active
	return CampanhaInput{
		Titulo:           u.Title,
		Descricao:        u.Description,
		TipoCampanha:     BackendEnum(u.CampaignType),
		SegmentoAlvo:     BackendEnum(u.TargetSegment),
		DataInicio:       u.StartDate,
		DataFim:          u.EndDate,
		TemplateMensagem: u.MessageTemplate,
		FormularioID:     u.FormID,
		Ativo:            &active,
	}
}

func (c CampanhaInput) ToCampaign(id string, fallbackActive bool) domain.Campaign {
	active := fallbackActive
	if c.Ativo != nil {
		active = *c.Ativo
	}
	return Campanha{
		ID:               id,
		Titulo:           c.Titulo,
		Descricao:        c.Descricao,
		TipoCampanha:     c.TipoCampanha,
		SegmentoAlvo:     c.SegmentoAlvo,
		DataInicio:       c.DataInicio,
		DataFim:          c.DataFim,
		TemplateMensagem: c.TemplateMensagem,
		FormularioID:     c.FormularioID,
		Ativo:            active,
	}.ToDomain()
}

// ============================================================
// Feedback
// ============================================================

type Resposta struct {
	PerguntaID string `json:"perguntaId"`
	Resposta   any    `json:"resposta"`
}

type Feedback struct {
	ID           string     `json:"id"`
	FormularioID string     `json:"formularioId"`
	EnvioID      string     `json:"envioId"`
	Respostas    []Resposta `json:"respostas"`
	DataCriacao  Time       `json:"dataCriacao"`
	DataExclusao *Time      `json:"dataExclusao,omitempty"`
}

func (f Feedback) ToDomain() domain.Feedback {
	answers := make([]domain.Answer, 0, len(f.Respostas))
	for _, r := range f.Respostas {
		answers = append(answers, domain.Answer{QuestionID: r.PerguntaID, Value: r.Resposta})
	}
	return domain.Feedback{
		ID:           f.ID,
		FormID:       f.FormularioID,
		SubmissionID: f.EnvioID,
		Answers:      answers,
		CreatedAt:    f.DataCriacao.Time,
		DeletedAt:    f.DataExclusao.Std(),
	}
}

func FeedbackFrom(f domain.Feedback) Feedback {
	return Feedback{
		ID:           f.ID,
		FormularioID: f.FormID,
		EnvioID:      f.SubmissionID,
		Respostas:    respostas(f.Answers),
		DataCriacao:  At(f.CreatedAt),
		DataExclusao: Ptr(f.DeletedAt),
	}
}

type FeedbackInput struct {
	FormularioID string     `json:"formularioId"`
	EnvioID      string     `json:"envioId"`
	Respostas    []Resposta `json:"respostas"`
}

func FeedbackInputFrom(f domain.Feedback) FeedbackInput {
	return FeedbackInput{
		FormularioID: f.FormID,
		EnvioID:      f.SubmissionID,
		Respostas:    respostas(f.Answers),
	}
}

func (f FeedbackInput) ToDomain() domain.Feedback {
	return Feedback{
		FormularioID: f.FormularioID,
		EnvioID:      f.EnvioID,
		Respostas:    f.Respostas,
	}.ToDomain()
}

func respostas(answers []domain.Answer) []Resposta {
	out := make([]Resposta, 0, len(answers))
	for _, a := range answers {
		out = append(out, Resposta{PerguntaID: a.QuestionID, Resposta: a.Value})
	}
	return out
}
