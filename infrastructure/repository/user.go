package repository

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/fdesign/nexus-sales-api/infrastructure/spreadsheet"
	"github.com/fdesign/nexus-sales-api/internal/config"
	"github.com/fdesign/nexus-sales-api/internal/domain"
	"github.com/fdesign/nexus-sales-api/internal/schema"
	"github.com/fdesign/nexus-sales-api/internal/tabular"
	"github.com/fdesign/nexus-sales-api/pkg/utils"
)

var ErrUserNotFound = errors.New("usuário não encontrado")

type UserRepository interface {
	ListUsers() ([]*domain.User, error)
	GetUserByID(id string) (*domain.User, error)
	GetUserByEmail(email string) (*domain.User, error)
	CreateUser(user *domain.User) (*domain.User, error)
	UpdateUser(req *domain.UpdateUserRequest) error
	DeactivateUser(id string) error
	DeleteUser(id string) error
}

type userRepository struct {
	store spreadsheet.Store
	sheet string
}

func NewUserRepository(store spreadsheet.Store, cfg config.Workbook) UserRepository {
	return &userRepository{
		store: store,
		sheet: cfg.UsersSheet,
	}
}

func (r *userRepository) ListUsers() ([]*domain.User, error) {
	linhas, err := r.store.ReadSheet(r.sheet)
	if err != nil {
		return nil, err
	}

	registros := tabular.ReadRecords(linhas, schema.UserDateFields)

	usuarios := make([]*domain.User, 0, len(registros))
	for _, registro := range registros {
		if registro.Get("id") == "" {
			continue
		}
		usuarios = append(usuarios, recordToUser(registro))
	}

	return usuarios, nil
}

func recordToUser(registro tabular.Record) *domain.User {
	status := registro.Get("status")
	if status == "" {
		status = "Inativo"
	}

	return &domain.User{
		ID:       registro.Get("id"),
		Nome:     registro.Get("nome"),
		Tipo:     registro.Get("tipo"),
		Email:    registro.Get("email"),
		Telefone: registro.Get("telefone"),
		PIN:      registro.Get("pin"),
		Comissao: utils.NormalizeNumeric(registro.Get("comissao")),
		Ativo:    strings.EqualFold(status, "Ativo"),
	}
}

func (r *userRepository) GetUserByID(id string) (*domain.User, error) {
	usuarios, err := r.ListUsers()
	if err != nil {
		return nil, err
	}

	for _, usuario := range usuarios {
		if strings.EqualFold(usuario.ID, id) {
			return usuario, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *userRepository) GetUserByEmail(email string) (*domain.User, error) {
	usuarios, err := r.ListUsers()
	if err != nil {
		return nil, err
	}

	for _, usuario := range usuarios {
		if strings.EqualFold(usuario.Email, email) {
			return usuario, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *userRepository) CreateUser(user *domain.User) (*domain.User, error) {
	status := "Inativo"
	if user.Ativo {
		status = "Ativo"
	}

	err := r.store.AppendRow(r.sheet, []interface{}{
		user.ID, user.Nome, user.Tipo, user.Email,
		user.Telefone, user.PIN, user.Comissao, status,
	})
	if err != nil {
		return nil, errors.Wrap(err, "gravando usuário")
	}

	return user, nil
}

// findRow localiza a linha (1-indexada) do usuário pelo ID na primeira
// coluna.
func (r *userRepository) findRow(id string) (int, []string, error) {
	linhas, err := r.store.ReadSheet(r.sheet)
	if err != nil {
		return 0, nil, err
	}

	for i, linha := range linhas {
		if i == 0 {
			continue
		}
		if len(linha) > 0 && strings.EqualFold(strings.TrimSpace(linha[0]), id) {
			return i + 1, linha, nil
		}
	}
	return 0, nil, ErrUserNotFound
}

func (r *userRepository) UpdateUser(req *domain.UpdateUserRequest) error {
	linha, atual, err := r.findRow(req.ID)
	if err != nil {
		return err
	}

	valores := make([]interface{}, 8)
	for i := 0; i < 8; i++ {
		if i < len(atual) {
			valores[i] = atual[i]
		} else {
			valores[i] = ""
		}
	}

	if req.Nome != nil {
		valores[1] = *req.Nome
	}
	if req.Tipo != nil {
		valores[2] = *req.Tipo
	}
	if req.Email != nil {
		valores[3] = *req.Email
	}
	if req.Telefone != nil {
		valores[4] = *req.Telefone
	}
	if req.PIN != nil {
		valores[5] = *req.PIN
	}
	if req.Comissao != nil {
		valores[6] = *req.Comissao
	}
	if req.Ativo != nil {
		if *req.Ativo {
			valores[7] = "Ativo"
		} else {
			valores[7] = "Inativo"
		}
	}

	return r.store.SetRow(r.sheet, linha, valores)
}

func (r *userRepository) DeactivateUser(id string) error {
	inativo := false
	return r.UpdateUser(&domain.UpdateUserRequest{ID: id, Ativo: &inativo})
}

func (r *userRepository) DeleteUser(id string) error {
	linha, _, err := r.findRow(id)
	if err != nil {
		return err
	}
	return r.store.DeleteRow(r.sheet, linha)
}
