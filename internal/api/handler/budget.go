package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/fdesign/nexus-sales-api/internal/domain"
	"github.com/fdesign/nexus-sales-api/internal/usecases/selling"
	"github.com/fdesign/nexus-sales-api/pkg/apiErrors"
)

// CreateBudget registra um novo orçamento
func CreateBudget(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CreateBudget")

		var req domain.BudgetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		budget, err := service.CreateBudget(&req, sessionClaims(r))
		if err != nil {
			handleSellingError(w, err, "Erro ao registrar orçamento")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(budget); err != nil {
			logrus.Error(err)
		}
	}
}

// ListBudgets lista os orçamentos com os indicadores derivados, aceitando
// filtros opcionais por query string.
func ListBudgets(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		filtros := &domain.BudgetFilters{
			Status:   query.Get("status"),
			Cliente:  query.Get("cliente"),
			Vendedor: query.Get("vendedor"),
		}

		budgets, err := service.ListBudgets(filtros)
		if err != nil {
			handleSellingError(w, err, "Erro ao listar orçamentos")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(budgets); err != nil {
			logrus.Error(err)
		}
	}
}

// RegisterBudgetContact incrementa os contadores de contato do orçamento
func RegisterBudgetContact(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do orçamento não fornecido", nil)
			return
		}

		var req ContactAttemptRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		total, err := service.RegisterBudgetContact(id, req.Tipo, sessionClaims(r))
		if err != nil {
			handleSellingError(w, err, "Erro ao registrar contato")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(map[string]any{
			"success":       true,
			"id":            id,
			"totalContatos": total,
		})
		if err != nil {
			logrus.Error(err)
		}
	}
}

type BudgetResponseRequest struct {
	Positiva bool `json:"positiva"`
}

// RegisterBudgetResponse registra a resposta do cliente ao orçamento
func RegisterBudgetResponse(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do orçamento não fornecido", nil)
			return
		}

		var req BudgetResponseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if err := service.RegisterBudgetResponse(id, req.Positiva, sessionClaims(r)); err != nil {
			handleSellingError(w, err, "Erro ao registrar resposta")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"id":      id,
		})
		if err != nil {
			logrus.Error(err)
		}
	}
}

// ConvertBudget converte o orçamento em uma nova venda
func ConvertBudget(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ConvertBudget")

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do orçamento não fornecido", nil)
			return
		}

		sale, err := service.ConvertBudgetToSale(id, sessionClaims(r))
		if err != nil {
			handleSellingError(w, err, "Erro ao converter orçamento")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(sale); err != nil {
			logrus.Error(err)
		}
	}
}
