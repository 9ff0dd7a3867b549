package authenticating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/fdesign/nexus-sales-api/infrastructure/repository"
	"github.com/fdesign/nexus-sales-api/infrastructure/repository/mocks"
	"github.com/fdesign/nexus-sales-api/internal/config"
	"github.com/fdesign/nexus-sales-api/internal/domain"
)

func newTestService(ctrl *gomock.Controller) (*Service, *mocks.MockUserRepository, *mocks.MockAuditRepository) {
	userRepo := mocks.NewMockUserRepository(ctrl)
	auditRepo := mocks.NewMockAuditRepository(ctrl)

	cfg := &config.Config{}
	cfg.Auth.Secret = "segredo-de-teste"

	service := &Service{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		cfg:       cfg,
	}

	return service, userRepo, auditRepo
}

func TestLoginUserComPINLegado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, userRepo, auditRepo := newTestService(ctrl)

	userRepo.EXPECT().GetUserByID("usr-1").Return(&domain.User{
		ID:    "USR-1",
		Nome:  "Ana Souza",
		Tipo:  domain.RoleAdmin,
		PIN:   "1234",
		Ativo: true,
	}, nil)
	auditRepo.EXPECT().Register("Ana Souza", "LOGIN", gomock.Any())

	token, user, err := service.LoginUser("USR-1", "1234")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "USR-1", user.ID)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "USR-1", claims.UserID)
	assert.Equal(t, "Ana Souza", claims.UserNome)
	assert.Equal(t, domain.RoleAdmin, claims.UserTipo)
}

func TestLoginUserComPINBcrypt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, userRepo, auditRepo := newTestService(ctrl)

	hash, err := bcrypt.GenerateFromPassword([]byte("4321"), bcrypt.MinCost)
	assert.NoError(t, err)

	userRepo.EXPECT().GetUserByEmail("ana@fdesign.com").Return(&domain.User{
		ID:    "USR-1",
		Nome:  "Ana Souza",
		PIN:   string(hash),
		Ativo: true,
	}, nil)
	auditRepo.EXPECT().Register(gomock.Any(), "LOGIN", gomock.Any())

	token, _, err := service.LoginUser("Ana@FDesign.com", "4321")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLoginUserPINIncorreto(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, userRepo, _ := newTestService(ctrl)

	userRepo.EXPECT().GetUserByID("usr-1").Return(&domain.User{
		ID:    "USR-1",
		PIN:   "1234",
		Ativo: true,
	}, nil)

	_, _, err := service.LoginUser("USR-1", "9999")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUserInativo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, userRepo, _ := newTestService(ctrl)

	userRepo.EXPECT().GetUserByID("usr-1").Return(&domain.User{
		ID:    "USR-1",
		PIN:   "1234",
		Ativo: false,
	}, nil)

	_, _, err := service.LoginUser("USR-1", "1234")

	assert.ErrorIs(t, err, ErrUserDisabled)
}

func TestLoginUserNaoEncontrado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, userRepo, _ := newTestService(ctrl)

	userRepo.EXPECT().GetUserByID("usr-9").Return(nil, repository.ErrUserNotFound)
	userRepo.EXPECT().GetUserByEmail("usr-9").Return(nil, repository.ErrUserNotFound)

	_, _, err := service.LoginUser("USR-9", "1234")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLoginUserSemPIN(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, _, _ := newTestService(ctrl)

	_, _, err := service.LoginUser("USR-1", "")

	assert.ErrorIs(t, err, ErrMissingRequiredData)
}

func TestValidateTokenComSegredoErrado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, userRepo, auditRepo := newTestService(ctrl)

	userRepo.EXPECT().GetUserByID("usr-1").Return(&domain.User{
		ID:    "USR-1",
		Nome:  "Ana Souza",
		PIN:   "1234",
		Ativo: true,
	}, nil)
	auditRepo.EXPECT().Register(gomock.Any(), "LOGIN", gomock.Any())

	token, _, err := service.LoginUser("USR-1", "1234")
	assert.NoError(t, err)

	outro, _, _ := newTestService(ctrl)
	outro.cfg.Auth.Secret = "outro-segredo"

	_, err = outro.ValidateToken(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRenewTokenUsuarioInativo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, userRepo, _ := newTestService(ctrl)

	userRepo.EXPECT().GetUserByID("USR-1").Return(&domain.User{
		ID:    "USR-1",
		Ativo: false,
	}, nil)

	_, err := service.RenewToken(&domain.Claims{UserID: "USR-1"})

	assert.ErrorIs(t, err, ErrUserDisabled)
}

func TestCreateUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, userRepo, auditRepo := newTestService(ctrl)

	userRepo.EXPECT().GetUserByEmail("ana@fdesign.com").Return(nil, repository.ErrUserNotFound)

	var criado *domain.User
	userRepo.EXPECT().CreateUser(gomock.Any()).DoAndReturn(func(user *domain.User) (*domain.User, error) {
		criado = user
		return user, nil
	})
	auditRepo.EXPECT().Register("Sistema", "CRIAR_USUARIO", gomock.Any())

	user, err := service.CreateUser(&domain.User{
		Nome:  "Ana Souza",
		Email: "Ana@FDesign.com",
		PIN:   "1234",
	})

	assert.NoError(t, err)
	assert.Equal(t, criado, user)
	assert.Equal(t, "ana@fdesign.com", user.Email)
	assert.Equal(t, domain.RoleVendedor, user.Tipo)
	assert.NotEmpty(t, user.ID)

	// O PIN nunca é gravado em texto puro
	assert.NotEqual(t, "1234", user.PIN)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PIN), []byte("1234")))
}

func TestCreateUserNormalizaComissao(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, userRepo, auditRepo := newTestService(ctrl)

	userRepo.EXPECT().GetUserByEmail(gomock.Any()).Return(nil, repository.ErrUserNotFound).Times(2)
	auditRepo.EXPECT().Register("Sistema", "CRIAR_USUARIO", gomock.Any()).Times(2)

	var criado *domain.User
	userRepo.EXPECT().CreateUser(gomock.Any()).DoAndReturn(func(user *domain.User) (*domain.User, error) {
		criado = user
		return user, nil
	}).Times(2)

	// Comissão informada como percentual é gravada como fração
	_, err := service.CreateUser(&domain.User{
		Nome:     "Ana Souza",
		Email:    "ana@fdesign.com",
		PIN:      "1234",
		Comissao: 10,
	})
	assert.NoError(t, err)
	assert.Equal(t, 0.1, criado.Comissao)

	// Fração já normalizada permanece intacta
	_, err = service.CreateUser(&domain.User{
		Nome:     "Bruno Lima",
		Email:    "bruno@fdesign.com",
		PIN:      "4321",
		Comissao: 0.05,
	})
	assert.NoError(t, err)
	assert.Equal(t, 0.05, criado.Comissao)
}

func TestUpdateUserNormalizaComissao(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, userRepo, auditRepo := newTestService(ctrl)

	userRepo.EXPECT().GetUserByID("USR-1").Return(&domain.User{ID: "USR-1"}, nil)
	auditRepo.EXPECT().Register("Sistema", "ATUALIZAR_USUARIO", gomock.Any())

	var atualizado *domain.UpdateUserRequest
	userRepo.EXPECT().UpdateUser(gomock.Any()).DoAndReturn(func(req *domain.UpdateUserRequest) error {
		atualizado = req
		return nil
	})

	comissao := 15.0
	err := service.UpdateUser(&domain.UpdateUserRequest{
		ID:       "USR-1",
		Comissao: &comissao,
	})

	assert.NoError(t, err)
	assert.Equal(t, 0.15, *atualizado.Comissao)
}

func TestCreateUserEmailDuplicado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, userRepo, _ := newTestService(ctrl)

	userRepo.EXPECT().GetUserByEmail("ana@fdesign.com").Return(&domain.User{ID: "USR-1"}, nil)

	_, err := service.CreateUser(&domain.User{
		Nome:  "Ana Souza",
		Email: "ana@fdesign.com",
		PIN:   "1234",
	})

	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestListUsersOcultaPIN(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, userRepo, _ := newTestService(ctrl)

	userRepo.EXPECT().ListUsers().Return([]*domain.User{
		{ID: "USR-1", PIN: "1234"},
		{ID: "USR-2", PIN: "$2a$10$abc"},
	}, nil)

	users, err := service.ListUsers()

	assert.NoError(t, err)
	for _, user := range users {
		assert.Empty(t, user.PIN)
	}
}
