package middleware

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/fdesign/nexus-sales-api/internal/domain"
	"github.com/fdesign/nexus-sales-api/pkg/apiErrors"
)

// RoleMiddleware restringe o acesso pela hierarquia de tipos de usuário:
// tipoMinimo é o menor tipo que ainda tem acesso à rota.
func RoleMiddleware(tipoMinimo string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userClaims, ok := r.Context().Value(ContextKeyUser).(*domain.Claims)

			if !ok {
				logrus.Warning("Tentativa de acesso sem autenticação")
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
				return
			}

			if !domain.ClaimsHavePermission(userClaims, tipoMinimo) {
				logrus.Warningf("Acesso negado para usuário ID=%s, Tipo=%s", userClaims.UserID, userClaims.UserTipo)
				apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Você não tem permissão para acessar este recurso", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly permite acesso apenas para administradores
func AdminOnly() func(http.Handler) http.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}

// AdminOrSupervisor permite acesso para administradores e supervisores
func AdminOrSupervisor() func(http.Handler) http.Handler {
	return RoleMiddleware(domain.RoleSupervisor)
}

// AllRoles exige apenas autenticação, qualquer tipo de usuário
func AllRoles() func(http.Handler) http.Handler {
	return RoleMiddleware(domain.RoleFuncionario)
}
