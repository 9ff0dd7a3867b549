package authenticating

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/fdesign/nexus-sales-api/infrastructure/repository"
	"github.com/fdesign/nexus-sales-api/internal/config"
	"github.com/fdesign/nexus-sales-api/internal/domain"
	"github.com/fdesign/nexus-sales-api/pkg/apiErrors"
	"github.com/fdesign/nexus-sales-api/pkg/utils"
)

// sessionTTL é a validade do token; a renovação em atividade emite um novo.
const sessionTTL = time.Hour

type Authenticator interface {
	LoginUser(identificador, pin string) (string, *domain.User, error)
	RenewToken(claims *domain.Claims) (string, error)
	ValidateToken(tokenString string) (*domain.Claims, error)
	CreateUser(user *domain.User) (*domain.User, error)
	UpdateUser(req *domain.UpdateUserRequest) error
	ListUsers() ([]*domain.User, error)
	GetUserProfile(id string) (*domain.User, error)
	DeactivateUser(id string) error
	DeleteUser(id string) error
}

type Service struct {
	userRepo  repository.UserRepository
	auditRepo repository.AuditRepository
	cfg       *config.Config
}

func NewService(userRepo repository.UserRepository, auditRepo repository.AuditRepository, cfg *config.Config) Authenticator {
	return &Service{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		cfg:       cfg,
	}
}

// LoginUser autentica pelo email ou pelo ID do usuário, comparando o PIN.
// PINs gravados com hash bcrypt são comparados pelo hash; PINs legados em
// texto puro são comparados diretamente.
func (s *Service) LoginUser(identificador, pin string) (string, *domain.User, error) {
	if identificador == "" || pin == "" {
		return "", nil, NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Identificador e PIN são obrigatórios")
	}

	identificador = handleIdentifier(identificador)

	user, err := s.findUser(identificador)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, NewAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, "Usuário não encontrado")
		}
		return "", nil, NewAuthError(err, apiErrors.ErrSheetOperation, "Erro ao consultar usuários na planilha")
	}

	if !user.Ativo {
		return "", nil, NewUserAuthError(ErrUserDisabled, apiErrors.ErrUserDisabled, user.ID, "Conta desativada")
	}

	if !checkPIN(user.PIN, pin) {
		return "", nil, NewUserAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, user.ID, "PIN incorreto")
	}

	token, err := generateJWT(user, s.cfg.Auth.Secret)
	if err != nil {
		return "", nil, NewAuthError(err, apiErrors.ErrInternalServer, "Erro ao gerar token de autenticação")
	}

	s.auditRepo.Register(user.Nome, "LOGIN", fmt.Sprintf("Login de %s (%s)", user.Nome, user.Tipo))

	return token, user, nil
}

func (s *Service) findUser(identificador string) (*domain.User, error) {
	if strings.Contains(identificador, "@") {
		return s.userRepo.GetUserByEmail(identificador)
	}

	user, err := s.userRepo.GetUserByID(identificador)
	if errors.Is(err, repository.ErrUserNotFound) {
		// Identificador sem arroba ainda pode ser um email parcial da planilha
		return s.userRepo.GetUserByEmail(identificador)
	}
	return user, err
}

// checkPIN aceita hashes bcrypt e PINs legados em texto puro.
func checkPIN(armazenado, informado string) bool {
	if strings.HasPrefix(armazenado, "$2a$") || strings.HasPrefix(armazenado, "$2b$") {
		return bcrypt.CompareHashAndPassword([]byte(armazenado), []byte(informado)) == nil
	}
	return armazenado != "" && armazenado == informado
}

func handleIdentifier(s string) string {
	identificador := strings.ToLower(s)
	identificador = strings.TrimSpace(identificador)
	identificador = strings.ReplaceAll(identificador, " ", "")
	return identificador
}

// RenewToken emite um novo token para a sessão ativa, estendendo a validade.
func (s *Service) RenewToken(claims *domain.Claims) (string, error) {
	if claims == nil {
		return "", NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "Sessão inexistente")
	}

	user, err := s.userRepo.GetUserByID(claims.UserID)
	if err != nil {
		return "", NewAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, "Usuário da sessão não encontrado")
	}

	if !user.Ativo {
		return "", NewUserAuthError(ErrUserDisabled, apiErrors.ErrUserDisabled, user.ID, "Conta desativada")
	}

	return generateJWT(user, s.cfg.Auth.Secret)
}

func generateJWT(user *domain.User, secret string) (string, error) {
	claims := domain.Claims{
		UserID:   user.ID,
		UserNome: user.Nome,
		UserTipo: user.Tipo,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Auth.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, NewAuthError(ErrExpiredToken, apiErrors.ErrExpiredToken, "Sessão expirada")
		}
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "Token inválido")
	}

	return claims, nil
}

func (s *Service) CreateUser(user *domain.User) (*domain.User, error) {
	if user.Nome == "" || user.Email == "" || user.PIN == "" {
		return nil, NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Nome, email e PIN são obrigatórios")
	}

	user.Email = handleIdentifier(user.Email)

	if existente, err := s.userRepo.GetUserByEmail(user.Email); err == nil && existente != nil {
		return nil, NewAuthError(ErrUserAlreadyExists, apiErrors.ErrUserAlreadyExists, "Email já cadastrado")
	}

	hashedPIN, err := bcrypt.GenerateFromPassword([]byte(user.PIN), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.PIN = string(hashedPIN)

	if user.ID == "" {
		user.ID = utils.GenerateUniqueID("USR")
	}
	if user.Tipo == "" {
		user.Tipo = domain.RoleVendedor
	}
	user.Comissao = normalizeCommission(user.Comissao)

	user, err = s.userRepo.CreateUser(user)
	if err != nil {
		return nil, NewAuthError(err, apiErrors.ErrSheetOperation, "Erro ao criar usuário")
	}

	s.auditRepo.Register("Sistema", "CRIAR_USUARIO", fmt.Sprintf("Usuário %s (%s) criado", user.Nome, user.ID))

	return user, nil
}

func (s *Service) UpdateUser(req *domain.UpdateUserRequest) error {
	if req.ID == "" {
		return NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "ID é obrigatório")
	}

	if _, err := s.userRepo.GetUserByID(req.ID); err != nil {
		return NewAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, fmt.Sprintf("Usuário não encontrado: %s", req.ID))
	}

	if req.PIN != nil && *req.PIN != "" {
		hashedPIN, err := bcrypt.GenerateFromPassword([]byte(*req.PIN), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		hash := string(hashedPIN)
		req.PIN = &hash
	}

	if req.Comissao != nil {
		normalizada := normalizeCommission(*req.Comissao)
		req.Comissao = &normalizada
	}

	if err := s.userRepo.UpdateUser(req); err != nil {
		return NewAuthError(err, apiErrors.ErrSheetOperation, "Erro ao atualizar usuário")
	}

	s.auditRepo.Register("Sistema", "ATUALIZAR_USUARIO", fmt.Sprintf("Usuário %s atualizado", req.ID))
	return nil
}

// normalizeCommission guarda a comissão sempre como fração. Valores
// informados como percentual (>= 1) são divididos por 100.
func normalizeCommission(valor float64) float64 {
	if valor >= 1 {
		return valor / 100
	}
	return valor
}

func (s *Service) ListUsers() ([]*domain.User, error) {
	users, err := s.userRepo.ListUsers()
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		user.PIN = ""
	}
	return users, nil
}

func (s *Service) GetUserProfile(id string) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		logrus.Error(err)
		return nil, err
	}

	user.PIN = ""
	return user, nil
}

func (s *Service) DeactivateUser(id string) error {
	if err := s.userRepo.DeactivateUser(id); err != nil {
		return err
	}
	s.auditRepo.Register("Sistema", "INATIVAR_USUARIO", fmt.Sprintf("Usuário %s inativado", id))
	return nil
}

func (s *Service) DeleteUser(id string) error {
	if err := s.userRepo.DeleteUser(id); err != nil {
		return err
	}
	s.auditRepo.Register("Sistema", "EXCLUIR_USUARIO", fmt.Sprintf("Usuário %s excluído", id))
	return nil
}
