package domain

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin       = "Admin"
	RoleSupervisor  = "Supervisor"
	RoleVendedor    = "Vendedor"
	RoleVendas      = "Vendas"
	RoleFuncionario = "Funcionario"
	RoleAfiliado    = "Afiliado"
)

type User struct {
	ID       string  `json:"id"`
	Nome     string  `json:"nome"`
	Tipo     string  `json:"tipo"`
	Email    string  `json:"email"`
	Telefone string  `json:"telefone"`
	PIN      string  `json:"-"`
	Comissao float64 `json:"comissao"`
	Ativo    bool    `json:"ativo"`
}

type UpdateUserRequest struct {
	ID       string   `json:"id"`
	Nome     *string  `json:"nome"`
	Tipo     *string  `json:"tipo"`
	Email    *string  `json:"email"`
	Telefone *string  `json:"telefone"`
	PIN      *string  `json:"pin"`
	Comissao *float64 `json:"comissao"`
	Ativo    *bool    `json:"ativo"`
}

type Claims struct {
	UserID   string
	UserNome string
	UserTipo string
	jwt.RegisteredClaims
}

// roleLevel reproduz a hierarquia dos painéis: Admin > Supervisor >
// Vendedor/Vendas > Funcionario/Afiliado. Tipos desconhecidos ficam no nível
// mais baixo.
func roleLevel(tipo string) int {
	switch strings.ToUpper(strings.TrimSpace(tipo)) {
	case "ADMIN":
		return 3
	case "SUPERVISOR":
		return 2
	case "VENDEDOR", "VENDAS":
		return 1
	default:
		return 0
	}
}

// HasPermission indica se o tipo do usuário alcança o nível exigido.
func (u *User) HasPermission(tipoRequerido string) bool {
	return roleLevel(u.Tipo) >= roleLevel(tipoRequerido)
}

// ClaimsHavePermission aplica a mesma hierarquia sobre o token decodificado.
func ClaimsHavePermission(claims *Claims, tipoRequerido string) bool {
	if claims == nil {
		return false
	}
	return roleLevel(claims.UserTipo) >= roleLevel(tipoRequerido)
}
