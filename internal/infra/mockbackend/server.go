package mockbackend

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/feedtrackapi/wire"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BasePath is where the REST routes are mounted.
const BasePath = "/api/v1"

// NewServer exposes the store over the backend REST contract.
func NewServer(store *Store, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route(BasePath, func(r chi.Router) {
		// Clientes
		r.Get("/clientes", listClientes(store))
		r.Post("/cliente", createCliente(store, logger))
		r.Put("/atualizar-cliente/{id}", updateCliente(store, logger))
		r.Post("/cliente/{id}/produtos", changeProdutos(store, logger))

		// Produtos
		r.Get("/produtos", listProdutos(store))
		r.Post("/produto", createProduto(store, logger))
		r.Put("/atualizar-produto/{id}", updateProduto(store, logger))

		// Formulários e perguntas
		r.Get("/formularios", listFormularios(store))
		r.Post("/formulario", createFormulario(store, logger))
		r.Put("/update-formulario/{id}", updateFormulario(store, logger))
		r.Delete("/delete-formulario/{id}", deleteFormulario(store, logger))
		r.Get("/perguntas", listPerguntas(store))
		r.Post("/pergunta", createPergunta(store, logger))

		// Campanhas
		r.Get("/campanhas", listCampanhas(store))
		r.Post("/campanha", createCampanha(store, logger))
		r.Put("/atualizar-campanha/{id}", updateCampanha(store, logger))
		r.Delete("/deletar-campanha/{id}", deleteCampanha(store, logger))

		// Feedbacks
		r.Get("/feedbacks", listFeedbacks(store))
		r.Get("/feedback/{envioId}", getFeedback(store, logger))
		r.Post("/feedback", createFeedback(store, logger))
		r.Delete("/feedback/{id}", deleteFeedback(store, logger))
	})
	return r
}

// ============================================================
// Clientes
// ============================================================

func listClientes(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, _ := store.ListCustomers(r.Context())
		out := make([]wire.Cliente, 0, len(rows))
		for _, c := range rows {
			out = append(out, wire.ClienteFrom(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createCliente(store *Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in wire.NovoCliente
		if !decode(w, r, &in) {
			return
		}
		c, err := store.CreateCustomer(r.Context(), in.ToDomain())
		if err != nil {
			writeStoreError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, wire.ClienteFrom(*c))
	}
}

func updateCliente(store *Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in wire.AtualizarCliente
		if !decode(w, r, &in) {
			return
		}
		c, err := store.UpdateCustomer(r.Context(), chi.URLParam(r, "id"), in.ToDomain())
		if err != nil {
			writeStoreError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, wire.ClienteFrom(*c))
	}
}

func changeProdutos(store *Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in wire.AcaoProdutos
		if !decode(w, r, &in) {
			return
		}
		if err := store.ChangeCustomerProducts(r.Context(), chi.URLParam(r, "id"), in.ToDomain()); err != nil {
			writeStoreError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Produtos
// ============================================================

func listProdutos(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, _ := store.ListProducts(r.Context())
		out := make([]wire.Produto, 0, len(rows))
		for _, p := range rows {
			out = append(out, wire.ProdutoFrom(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createProduto(store *Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in wire.ProdutoInput
		if !decode(w, r, &in) {
			return
		}
		p, err := store.CreateProduct(r.Context(), in.ToDomain())
		if err != nil {
			writeStoreError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, wire.ProdutoFrom(*p))
	}
}

func updateProduto(store *Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in wire.ProdutoInput
		if !decode(w, r, &in) {
			return
		}
		p, err := store.UpdateProduct(r.Context(), chi.URLParam(r, "id"), in.ToDomain())
		if err != nil {
			writeStoreError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, wire.ProdutoFrom(*p))
	}
}

// ============================================================
// Formulários / Perguntas
// ============================================================

func listFormularios(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, _ := store.ListForms(r.Context())
		out := make([]wire.Formulario, 0, len(rows))
		for _, f := range rows {
			out = append(out, wire.FormularioFrom(f))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createFormulario(store *Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in wire.FormularioInput
		if !decode(w, r, &in) {
			return
		}
		f, err := store.CreateForm(r.Context(), in.ToDomain())
		if err != nil {
			writeStoreError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, wire.FormularioFrom(*f))
	}
}

func updateFormulario(store *Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in wire.FormularioInput
		if !decode(w, r, &in) {
			return
		}
		f, err := store.UpdateForm(r.Context(), chi.URLParam(r, "id"), in.ToDomain())
		if err != nil {
			writeStoreError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, wire.FormularioFrom(*f))
	}
}

func deleteFormulario(store *Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteForm(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeStoreError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listPerguntas(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, _ := store.ListQuestions(r.Context())
		out := make([]wire.Pergunta, 0, len(rows))
		for _, q := range rows {
			out = append(out, wire.PerguntaFrom(q))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createPergunta(store *Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in wire.NovaPergunta
		if !decode(w, r, &in) {
			return
		}
		q, err := store.CreateQuestion(r.Context(), in.ToDomain())
		if err != nil {
			writeStoreError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, wire.PerguntaFrom(*q))
	}
}

// ============================================================
// Campanhas
// ============================================================

func listCampanhas(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, _ := store.ListCampaigns(r.Context())
		out := make([]wire.Campanha, 0, len(rows))
		for _, c := range rows {
			out = append(out, wire.CampanhaFrom(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createCampanha(store *Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in wire.CampanhaInput
		if !decode(w, r, &in) {
			return
		}
		draft := in.ToCampaign("", true)
		c, err := store.CreateCampaign(r.Context(), domain.NewCampaign{
			Title:           draft.Title,
			Description:     draft.Description,
			CampaignType:    draft.CampaignType,
			TargetSegment:   draft.TargetSegment,
			StartDate:       draft.StartDate,
			EndDate:         draft.EndDate,
			MessageTemplate: draft.MessageTemplate,
			FormID:          draft.FormID,
		})
		if err != nil {
			writeStoreError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, wire.CampanhaFrom(*c))
	}
}

func updateCampanha(store *Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in wire.CampanhaInput
		if !decode(w, r, &in) {
			return
		}
		id := chi.URLParam(r, "id")
		c, err := store.UpdateCampaign(r.Context(), id, in.ToCampaign(id, store.campaignActive(id)).UpdatePayload())
		if err != nil {
			writeStoreError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, wire.CampanhaFrom(*c))
	}
}

func deleteCampanha(store *Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteCampaign(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeStoreError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Feedbacks
// ============================================================

func listFeedbacks(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, _ := store.ListFeedbacks(r.Context())
		out := make([]wire.Feedback, 0, len(rows))
		for _, f := range rows {
			out = append(out, wire.FeedbackFrom(f))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getFeedback(store *Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		envioID := chi.URLParam(r, "envioId")
		f, err := store.GetFeedbackBySubmission(r.Context(), envioID)
		if err != nil {
			writeStoreError(w, err, logger)
			return
		}
		if f == nil {
			writeStoreError(w, &domain.ErrNotFound{Resource: "feedback", ID: envioID}, logger)
			return
		}
		writeJSON(w, http.StatusOK, wire.FeedbackFrom(*f))
	}
}

func createFeedback(store *Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in wire.FeedbackInput
		if !decode(w, r, &in) {
			return
		}
		f, err := store.CreateFeedback(r.Context(), in.ToDomain())
		if err != nil {
			writeStoreError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, wire.FeedbackFrom(*f))
	}
}

func deleteFeedback(store *Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteFeedback(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeStoreError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Helpers
// ============================================================

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "JSON inválido"})
		return false
	}
	return true
}

func writeStoreError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var notFound *domain.ErrNotFound
	var validation *domain.ErrValidation
	var conflict *domain.ErrConflict

	switch {
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, messageResponse{Message: err.Error()})
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: validation.Message})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, messageResponse{Message: conflict.Message})
	default:
		logger.Error("mock backend error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "erro interno"})
	}
}
