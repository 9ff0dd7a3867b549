package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/fdesign/nexus-sales-api/infrastructure/repository"
	"github.com/fdesign/nexus-sales-api/internal/domain"
	"github.com/fdesign/nexus-sales-api/internal/usecases/selling"
	"github.com/fdesign/nexus-sales-api/pkg/apiErrors"
	"github.com/fdesign/nexus-sales-api/pkg/middleware"
)

type ContactAttemptRequest struct {
	Tipo string `json:"tipo"`
}

type PaymentRequest struct {
	Valor  float64 `json:"valor"`
	Metodo string  `json:"metodo"`
}

func sessionClaims(r *http.Request) *domain.Claims {
	claims, _ := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
	return claims
}

// RegisterSale registra uma nova venda na planilha
func RegisterSale(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RegisterSale")

		var req domain.SaleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		sale, err := service.RegisterSale(&req, sessionClaims(r))
		if err != nil {
			handleSellingError(w, err, "Erro ao registrar venda")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(sale); err != nil {
			logrus.Error(err)
		}
	}
}

// ListSales lista as vendas registradas, aceitando filtros opcionais por
// query string.
func ListSales(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		filtros := &domain.SaleFilters{
			Cliente:  query.Get("cliente"),
			Tipo:     query.Get("tipo"),
			Vendedor: query.Get("vendedor"),
		}

		sales, err := service.ListSales(filtros)
		if err != nil {
			handleSellingError(w, err, "Erro ao listar vendas")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(sales); err != nil {
			logrus.Error(err)
		}
	}
}

// GetSale retorna uma venda pelo ID
func GetSale(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da venda não fornecido", nil)
			return
		}

		sale, err := service.GetSale(id)
		if err != nil {
			handleSellingError(w, err, "Erro ao buscar venda")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(sale); err != nil {
			logrus.Error(err)
		}
	}
}

// UpdateSale atualiza os dados de uma venda existente
func UpdateSale(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpdateSale")

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da venda não fornecido", nil)
			return
		}

		var sale domain.Sale
		if err := json.NewDecoder(r.Body).Decode(&sale); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		sale.ID = id

		if err := service.UpdateSale(&sale, sessionClaims(r)); err != nil {
			handleSellingError(w, err, "Erro ao atualizar venda")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
	}
}

// DeleteSale remove a venda da planilha
func DeleteSale(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da venda não fornecido", nil)
			return
		}

		if err := service.DeleteSale(id, sessionClaims(r)); err != nil {
			handleSellingError(w, err, "Erro ao excluir venda")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// RegisterSaleContact registra uma tentativa de contato na venda
func RegisterSaleContact(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da venda não fornecido", nil)
			return
		}

		var req ContactAttemptRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if err := service.RegisterContactAttempt(id, req.Tipo, sessionClaims(r)); err != nil {
			handleSellingError(w, err, "Erro ao registrar tentativa de contato")
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

// RegisterSalePayment registra um pagamento parcial ou total da venda
func RegisterSalePayment(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RegisterSalePayment")

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da venda não fornecido", nil)
			return
		}

		var req PaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		totalPago, err := service.RegisterPayment(id, req.Valor, req.Metodo, sessionClaims(r))
		if err != nil {
			handleSellingError(w, err, "Erro ao registrar pagamento")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(map[string]any{
			"success":   true,
			"id":        id,
			"totalPago": totalPago,
		})
		if err != nil {
			logrus.Error(err)
		}
	}
}

// NormalizeSales corrige as linhas da planilha de vendas com células
// obrigatórias em branco
func NormalizeSales(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - NormalizeSales")

		corrigidas, err := service.NormalizeSales(sessionClaims(r))
		if err != nil {
			handleSellingError(w, err, "Erro ao normalizar a planilha de vendas")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(map[string]any{
			"success":          true,
			"linhasCorrigidas": corrigidas,
		})
		if err != nil {
			logrus.Error(err)
		}
	}
}

// handleSellingError mapeia os erros do ciclo de vendas para a resposta padronizada
func handleSellingError(w http.ResponseWriter, err error, fallback string) {
	logrus.Error(err)

	switch {
	case errors.Is(err, repository.ErrSaleNotFound), errors.Is(err, repository.ErrBudgetNotFound):
		apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, err.Error(), nil)

	case errors.Is(err, selling.ErrMissingRequiredData):
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, err.Error(), nil)

	case errors.Is(err, selling.ErrInvalidAmount):
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)

	default:
		apiErrors.WriteError(w, apiErrors.ErrSheetOperation, fallback, nil)
	}
}
