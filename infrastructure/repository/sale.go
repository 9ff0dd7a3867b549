package repository

import (
	"fmt"
	"math"
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

var ErrSaleNotFound = errors.New("venda não encontrada")

// Colunas da aba Client_List (1-indexadas)
const (
	saleColID = iota + 1
	saleColData
	saleColTipo
	saleColStatus
	saleColComissao
	saleColCliente
	saleColEmpresa
	saleColInvoice
	saleColProduto
	saleColValor
	saleColSaldoDevedor
	saleColValorPago
	saleColMetodoPagamento
	saleColNotas
	saleColComissaoPercentual
	saleColVendedorID
	saleColCriadoPor
)

type SaleRepository interface {
	ListSales() ([]*domain.Sale, error)
	GetSaleByID(id string) (*domain.Sale, error)
	CreateSale(sale *domain.Sale) error
	UpdateSale(sale *domain.Sale) error
	DeleteSale(id string) error
	RegisterContactAttempt(id, tipo, vendedor string) error
	RegisterPayment(id string, valor float64, metodo, vendedor string) (float64, error)
	NormalizeSheet() (int, error)
}

type saleRepository struct {
	store spreadsheet.Store
	sheet string
}

func NewSaleRepository(store spreadsheet.Store, cfg config.Workbook) SaleRepository {
	return &saleRepository{
		store: store,
		sheet: cfg.SalesSheet,
	}
}

func (r *saleRepository) ListSales() ([]*domain.Sale, error) {
	linhas, err := r.store.ReadSheet(r.sheet)
	if err != nil {
		return nil, err
	}

	registros := tabular.ReadRecords(linhas, schema.SaleDateFields)

	vendas := make([]*domain.Sale, 0, len(registros))
	for i, registro := range registros {
		vendas = append(vendas, recordToSale(registro, i))
	}

	return vendas, nil
}

func recordToSale(registro tabular.Record, indice int) *domain.Sale {
	id := registro.Get("salesId")
	if id == "" {
		id = fmt.Sprintf("SALE-AUTO-%d", indice+2)
	}

	tipo := registro.Get("tipo")
	if tipo == "" {
		tipo = "N/D"
	}
	status := registro.Get("status")
	if status == "" {
		status = "N/D"
	}

	comissaoInformada := utils.NormalizeNumeric(registro.Get("comissao"))
	valorBruto := utils.NormalizeNumeric(registro.Get("valor"))
	percentual := utils.NormalizeNumeric(strings.ReplaceAll(registro.Get("comissaoPercentual"), "%", ""))

	// Cálculo híbrido: comissão informada tem precedência sobre o percentual
	comissaoFinal := 0.0
	if comissaoInformada > 0 {
		comissaoFinal = comissaoInformada
	} else if valorBruto > 0 && percentual > 0 {
		comissaoFinal = valorBruto * (percentual / 100)
	}

	vendedorID := registro.Get("vendedorId")
	criadoPor := registro.Get("criadoPor")
	vendedorFinal := vendedorID
	if vendedorFinal == "" {
		vendedorFinal = criadoPor
	}
	if vendedorFinal == "" {
		vendedorFinal = "Sistema"
	}
	if criadoPor == "" {
		criadoPor = "Sistema"
	}

	metodoPagamento := registro.Get("metodoPagamento")
	if metodoPagamento == "" {
		metodoPagamento = "-"
	}

	return &domain.Sale{
		ID:                 id,
		Data:               registro.Get("data"),
		DataISO:            registro.Get("dataISO"),
		Tipo:               tipo,
		Status:             status,
		Cliente:            registro.Get("cliente"),
		Empresa:            registro.Get("empresa"),
		Invoice:            registro.Get("invoice"),
		Produto:            registro.Get("produto"),
		Valor:              utils.RoundWithTwoDecimalPlace(valorBruto),
		SaldoDevedor:       utils.RoundWithTwoDecimalPlace(utils.NormalizeNumeric(registro.Get("saldoDevedor"))),
		ValorPago:          utils.RoundWithTwoDecimalPlace(utils.NormalizeNumeric(registro.Get("valorPago"))),
		MetodoPagamento:    metodoPagamento,
		Notas:              registro.Get("observacoes"),
		Comissao:           utils.RoundWithTwoDecimalPlace(comissaoFinal),
		ComissaoPercentual: utils.RoundWithTwoDecimalPlace(percentual),
		VendedorID:         vendedorFinal,
		CriadoPor:          criadoPor,
	}
}

func (r *saleRepository) GetSaleByID(id string) (*domain.Sale, error) {
	vendas, err := r.ListSales()
	if err != nil {
		return nil, err
	}

	for _, venda := range vendas {
		if strings.EqualFold(venda.ID, id) {
			return venda, nil
		}
	}
	return nil, ErrSaleNotFound
}

func (r *saleRepository) CreateSale(sale *domain.Sale) error {
	return r.store.AppendRow(r.sheet, saleToRow(sale))
}

func saleToRow(sale *domain.Sale) []interface{} {
	return []interface{}{
		sale.ID,
		sale.Data,
		sale.Tipo,
		sale.Status,
		fmt.Sprintf("%.2f", sale.Comissao),
		sale.Cliente,
		sale.Empresa,
		sale.Invoice,
		sale.Produto,
		fmt.Sprintf("%.2f", sale.Valor),
		fmt.Sprintf("%.2f", sale.SaldoDevedor),
		fmt.Sprintf("%.2f", sale.ValorPago),
		sale.MetodoPagamento,
		sale.Notas,
		fmt.Sprintf("%.0f%%", sale.ComissaoPercentual),
		sale.VendedorID,
		sale.CriadoPor,
	}
}

func (r *saleRepository) findRow(id string) (int, []string, error) {
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
	return 0, nil, ErrSaleNotFound
}

func (r *saleRepository) UpdateSale(sale *domain.Sale) error {
	linha, _, err := r.findRow(sale.ID)
	if err != nil {
		return err
	}
	return r.store.SetRow(r.sheet, linha, saleToRow(sale))
}

func (r *saleRepository) DeleteSale(id string) error {
	linha, _, err := r.findRow(id)
	if err != nil {
		return err
	}
	return r.store.DeleteRow(r.sheet, linha)
}

// RegisterContactAttempt anexa o registro da tentativa às notas da venda.
func (r *saleRepository) RegisterContactAttempt(id, tipo, vendedor string) error {
	linha, valores, err := r.findRow(id)
	if err != nil {
		return err
	}

	registro := fmt.Sprintf("Contact attempt (%s) by %s — %s", tipo, vendedor,
		time.Now().Format("02/01/2006 15:04"))

	notas := cellAt(valores, saleColNotas)
	if notas != "" {
		registro = notas + " | " + registro
	}

	return r.store.SetCell(r.sheet, saleColNotas, linha, registro)
}

// RegisterPayment abate o pagamento parcial do saldo devedor e devolve o
// total pago acumulado.
func (r *saleRepository) RegisterPayment(id string, valor float64, metodo, vendedor string) (float64, error) {
	linha, valores, err := r.findRow(id)
	if err != nil {
		return 0, err
	}

	pago := utils.NormalizeNumeric(cellAt(valores, saleColValorPago))
	total := utils.NormalizeNumeric(cellAt(valores, saleColValor))

	novoPago := utils.RoundWithTwoDecimalPlace(pago + valor)
	novoSaldo := utils.RoundWithTwoDecimalPlace(math.Max(0, total-novoPago))

	if err := r.store.SetCell(r.sheet, saleColValorPago, linha, fmt.Sprintf("%.2f", novoPago)); err != nil {
		return 0, err
	}
	if err := r.store.SetCell(r.sheet, saleColSaldoDevedor, linha, fmt.Sprintf("%.2f", novoSaldo)); err != nil {
		return 0, err
	}
	if metodo != "" {
		if err := r.store.SetCell(r.sheet, saleColMetodoPagamento, linha, metodo); err != nil {
			return 0, err
		}
	}

	registro := fmt.Sprintf("Payment of $%.2f via %s — %s — %s", valor, metodo, vendedor,
		time.Now().Format("02/01/2006 15:04"))
	notas := cellAt(valores, saleColNotas)
	if notas != "" {
		registro = notas + " | " + registro
	}
	if err := r.store.SetCell(r.sheet, saleColNotas, linha, registro); err != nil {
		return 0, err
	}

	return novoPago, nil
}

// NormalizeSheet percorre a aba de vendas preenchendo IDs ausentes e as
// células padrão, devolvendo o número de linhas corrigidas.
func (r *saleRepository) NormalizeSheet() (int, error) {
	linhas, err := r.store.ReadSheet(r.sheet)
	if err != nil {
		return 0, err
	}

	padroes := []struct {
		coluna int
		valor  string
	}{
		{saleColTipo, "N/D"},
		{saleColStatus, "N/D"},
		{saleColMetodoPagamento, "-"},
	}

	corrigidas := 0
	for i, linha := range linhas {
		if i == 0 || linhaVazia(linha) {
			continue
		}

		numero := i + 1
		alterada := false

		if cellAt(linha, saleColID) == "" {
			if err := r.store.SetCell(r.sheet, saleColID, numero, fmt.Sprintf("SALE-AUTO-%d", numero)); err != nil {
				return corrigidas, err
			}
			alterada = true
		}

		for _, padrao := range padroes {
			if cellAt(linha, padrao.coluna) != "" {
				continue
			}
			if err := r.store.SetCell(r.sheet, padrao.coluna, numero, padrao.valor); err != nil {
				return corrigidas, err
			}
			alterada = true
		}

		if alterada {
			corrigidas++
		}
	}

	return corrigidas, nil
}

func linhaVazia(linha []string) bool {
	for _, celula := range linha {
		if strings.TrimSpace(celula) != "" {
			return false
		}
	}
	return true
}

// cellAt devolve a célula 1-indexada da linha, tolerando linhas curtas.
func cellAt(linha []string, coluna int) string {
	if coluna-1 < len(linha) {
		return strings.TrimSpace(linha[coluna-1])
	}
	return ""
}
