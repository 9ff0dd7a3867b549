package repository

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/fdesign/nexus-sales-api/infrastructure/spreadsheet"
	"github.com/fdesign/nexus-sales-api/internal/config"
	"github.com/fdesign/nexus-sales-api/internal/domain"
	"github.com/fdesign/nexus-sales-api/internal/schema"
	"github.com/fdesign/nexus-sales-api/internal/tabular"
	"github.com/fdesign/nexus-sales-api/pkg/utils"
)

var ErrBudgetNotFound = errors.New("orçamento não encontrado")

// Colunas da aba de orçamentos (1-indexadas)
const (
	budgetColID = iota + 1
	budgetColDataCriacao
	budgetColOrigem
	budgetColCriadoPor
	budgetColCliente
	budgetColEmail
	budgetColTelefone
	budgetColDescricao
	budgetColValor
	budgetColStatus
	budgetColDataEnvio
	budgetColUltimoContato
	budgetColMensagens
	budgetColLigacoes
	budgetColRespPos
	budgetColRespNeg
	budgetColMotivoPerda
	budgetColObservacoes
)

type BudgetRepository interface {
	ListBudgets() ([]*domain.Budget, error)
	GetBudgetByID(id string) (*domain.Budget, error)
	CreateBudget(budget *domain.Budget) error
	UpdateStatus(id, status string) error
	RegisterContactAttempt(id, tipo string) (int, error)
	RegisterResponse(id string, positiva bool) error
}

type budgetRepository struct {
	store    spreadsheet.Store
	sheet    string
	fallback string
}

func NewBudgetRepository(store spreadsheet.Store, cfg config.Workbook) BudgetRepository {
	return &budgetRepository{
		store:    store,
		sheet:    cfg.BudgetsSheet,
		fallback: cfg.BudgetsSheetFallback,
	}
}

func (r *budgetRepository) resolveSheet() (string, error) {
	return r.store.ResolveSheet(r.sheet, r.fallback)
}

func (r *budgetRepository) ListBudgets() ([]*domain.Budget, error) {
	aba, err := r.resolveSheet()
	if err != nil {
		return nil, err
	}

	linhas, err := r.store.ReadSheet(aba)
	if err != nil {
		return nil, err
	}

	registros := tabular.ReadRecords(linhas, schema.BudgetDateFields)

	orcamentos := make([]*domain.Budget, 0, len(registros))
	for _, registro := range registros {
		if registro.Get("id") == "" {
			continue
		}
		orcamentos = append(orcamentos, recordToBudget(registro))
	}

	return orcamentos, nil
}

func recordToBudget(registro tabular.Record) *domain.Budget {
	vendedorID := registro.Get("criadoPor")

	return &domain.Budget{
		ID:               registro.Get("id"),
		DataCriacao:      registro.Get("dataCriacao"),
		DataCriacaoISO:   registro.Get("dataCriacaoISO"),
		Origem:           registro.Get("origem"),
		CriadoPor:        vendedorID,
		Cliente:          registro.Get("cliente"),
		Email:            registro.Get("email"),
		Telefone:         registro.Get("telefone"),
		Descricao:        registro.Get("descricao"),
		Valor:            utils.RoundWithTwoDecimalPlace(utils.NormalizeNumeric(registro.Get("valor"))),
		Status:           registro.Get("status"),
		DataEnvio:        registro.Get("dataEnvio"),
		DataEnvioISO:     registro.Get("dataEnvioISO"),
		UltimoContato:    registro.Get("ultimoContato"),
		UltimoContatoISO: registro.Get("ultimoContatoISO"),
		Mensagens:        parseCount(registro.Get("msgEnviadas")),
		Ligacoes:         parseCount(registro.Get("ligacoesFeitas")),
		RespPos:          parseCount(registro.Get("respPos")),
		RespNeg:          parseCount(registro.Get("respNeg")),
		MotivoPerda:      registro.Get("motivoPerda"),
		Observacoes:      registro.Get("observacoes"),
		VendedorID:       vendedorID,
	}
}

// parseCount coage contadores gravados como texto, arredondando valores
// fracionários e tratando lixo como zero.
func parseCount(valor string) int {
	numero := utils.NormalizeNumeric(valor)
	return int(numero + 0.5)
}

func (r *budgetRepository) GetBudgetByID(id string) (*domain.Budget, error) {
	orcamentos, err := r.ListBudgets()
	if err != nil {
		return nil, err
	}

	for _, orcamento := range orcamentos {
		if strings.EqualFold(orcamento.ID, id) {
			return orcamento, nil
		}
	}
	return nil, ErrBudgetNotFound
}

func (r *budgetRepository) CreateBudget(budget *domain.Budget) error {
	aba, err := r.resolveSheet()
	if err != nil {
		return err
	}

	return r.store.AppendRow(aba, []interface{}{
		budget.ID,
		budget.DataCriacao,
		budget.Origem,
		budget.CriadoPor,
		budget.Cliente,
		budget.Email,
		budget.Telefone,
		budget.Descricao,
		fmt.Sprintf("%.2f", budget.Valor),
		budget.Status,
		budget.DataEnvio,
		budget.UltimoContato,
		budget.Mensagens,
		budget.Ligacoes,
		budget.RespPos,
		budget.RespNeg,
		budget.MotivoPerda,
		budget.Observacoes,
	})
}

func (r *budgetRepository) findRow(id string) (string, int, []string, error) {
	aba, err := r.resolveSheet()
	if err != nil {
		return "", 0, nil, err
	}

	linhas, err := r.store.ReadSheet(aba)
	if err != nil {
		return "", 0, nil, err
	}

	for i, linha := range linhas {
		if i == 0 {
			continue
		}
		if len(linha) > 0 && strings.EqualFold(strings.TrimSpace(linha[0]), id) {
			return aba, i + 1, linha, nil
		}
	}
	return "", 0, nil, ErrBudgetNotFound
}

func (r *budgetRepository) UpdateStatus(id, status string) error {
	aba, linha, _, err := r.findRow(id)
	if err != nil {
		return err
	}
	return r.store.SetCell(aba, budgetColStatus, linha, status)
}

// RegisterContactAttempt incrementa o contador do tipo de contato e atualiza
// a data do último contato. Devolve o total de tentativas acumulado.
func (r *budgetRepository) RegisterContactAttempt(id, tipo string) (int, error) {
	aba, linha, valores, err := r.findRow(id)
	if err != nil {
		return 0, err
	}

	coluna := budgetColMensagens
	if strings.EqualFold(tipo, "ligacao") || strings.EqualFold(tipo, "call") {
		coluna = budgetColLigacoes
	}

	atual := parseCount(cellAt(valores, coluna))
	if err := r.store.SetCell(aba, coluna, linha, strconv.Itoa(atual+1)); err != nil {
		return 0, err
	}

	hoje := time.Now().Format(utils.DisplayDateLayout)
	if err := r.store.SetCell(aba, budgetColUltimoContato, linha, hoje); err != nil {
		return 0, err
	}

	mensagens := parseCount(cellAt(valores, budgetColMensagens))
	ligacoes := parseCount(cellAt(valores, budgetColLigacoes))
	return mensagens + ligacoes + 1, nil
}

func (r *budgetRepository) RegisterResponse(id string, positiva bool) error {
	aba, linha, valores, err := r.findRow(id)
	if err != nil {
		return err
	}

	coluna := budgetColRespNeg
	if positiva {
		coluna = budgetColRespPos
	}

	atual := parseCount(cellAt(valores, coluna))
	return r.store.SetCell(aba, coluna, linha, strconv.Itoa(atual+1))
}
