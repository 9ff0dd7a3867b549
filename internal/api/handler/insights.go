package handler

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fdesign/nexus-sales-api/internal/usecases/analytics"
	"github.com/fdesign/nexus-sales-api/pkg/apiErrors"
	"github.com/fdesign/nexus-sales-api/pkg/utils"
)

// GetAdminSnapshot retorna o snapshot consolidado com usuários, orçamentos,
// vendas, métricas e relatórios.
func GetAdminSnapshot(service analytics.Insighter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetAdminSnapshot")

		snapshot, err := service.GetAdminSnapshot()
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrSnapshotGeneration, "Erro ao consolidar dados", nil)
			return
		}

		if logrus.IsLevelEnabled(logrus.DebugLevel) {
			logrus.Debugf("KPIs do snapshot: %s", utils.PrettyJson(snapshot.Reports.KPIs))
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snapshot); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// GetDashboard retorna o painel pessoal do usuário autenticado
func GetDashboard(service analytics.Insighter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := sessionClaims(r)
		if claims == nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		dashboard, err := service.GetDashboard(claims)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrSnapshotGeneration, "Erro ao montar o painel", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(dashboard); err != nil {
			logrus.Error(err)
		}
	}
}

// SearchRecords faz a busca unificada sobre vendas e orçamentos
func SearchRecords(service analytics.Insighter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))

		resultados, err := service.Search(query)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrSheetOperation, "Erro ao realizar busca", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(map[string]any{
			"query":      query,
			"resultados": resultados,
		})
		if err != nil {
			logrus.Error(err)
		}
	}
}
