package selling

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/fdesign/nexus-sales-api/infrastructure/repository"
	"github.com/fdesign/nexus-sales-api/internal/domain"
	"github.com/fdesign/nexus-sales-api/internal/usecases/analytics"
	"github.com/fdesign/nexus-sales-api/pkg/utils"
)

var (
	ErrMissingRequiredData = errors.New("dados obrigatórios ausentes")
	ErrInvalidAmount       = errors.New("valor inválido")
)

// Seller cobre o ciclo de vendas e orçamentos: registro, acompanhamento de
// contatos e pagamentos e a conversão de orçamento em venda.
type Seller interface {
	RegisterSale(req *domain.SaleRequest, claims *domain.Claims) (*domain.Sale, error)
	ListSales(filtros *domain.SaleFilters) ([]*domain.Sale, error)
	GetSale(id string) (*domain.Sale, error)
	UpdateSale(sale *domain.Sale, claims *domain.Claims) error
	DeleteSale(id string, claims *domain.Claims) error
	RegisterContactAttempt(saleID, tipo string, claims *domain.Claims) error
	RegisterPayment(saleID string, valor float64, metodo string, claims *domain.Claims) (float64, error)
	CreateBudget(req *domain.BudgetRequest, claims *domain.Claims) (*domain.Budget, error)
	ListBudgets(filtros *domain.BudgetFilters) ([]domain.BudgetInsights, error)
	ConvertBudgetToSale(budgetID string, claims *domain.Claims) (*domain.Sale, error)
	RegisterBudgetContact(budgetID, tipo string, claims *domain.Claims) (int, error)
	RegisterBudgetResponse(budgetID string, positiva bool, claims *domain.Claims) error
	NormalizeSales(claims *domain.Claims) (int, error)
}

type Service struct {
	saleRepo     repository.SaleRepository
	budgetRepo   repository.BudgetRepository
	settingsRepo repository.SettingsRepository
	auditRepo    repository.AuditRepository
}

func NewService(
	saleRepo repository.SaleRepository,
	budgetRepo repository.BudgetRepository,
	settingsRepo repository.SettingsRepository,
	auditRepo repository.AuditRepository,
) Seller {
	return &Service{
		saleRepo:     saleRepo,
		budgetRepo:   budgetRepo,
		settingsRepo: settingsRepo,
		auditRepo:    auditRepo,
	}
}

// RegisterSale grava uma nova venda. A comissão segue o cálculo híbrido: o
// percentual da tabela por tipo tem precedência; sem tipo reconhecido vale o
// percentual explícito informado; senão zero.
func (s *Service) RegisterSale(req *domain.SaleRequest, claims *domain.Claims) (*domain.Sale, error) {
	if req.Cliente == "" {
		return nil, errors.Wrap(ErrMissingRequiredData, "cliente é obrigatório")
	}
	if req.Valor < 0 {
		return nil, ErrInvalidAmount
	}

	vendedor := sessionUser(claims)
	tipo := strings.ToUpper(strings.TrimSpace(req.Tipo))

	percentual := req.ComissaoPercentual
	if rate := analytics.CommissionRateByType(tipo); rate != nil {
		percentual = *rate * 100
	}

	comissao := req.Comissao
	if comissao <= 0 && percentual <= 0 {
		// Sem tipo reconhecido e sem comissão explícita vale o percentual
		// padrão da aba CONFIG, quando configurado.
		percentual = utils.NormalizeNumeric(s.settingsRepo.GetValue("COMISSAO_PADRAO", ""))
	}
	if comissao <= 0 && percentual > 0 {
		comissao = req.Valor * (percentual / 100)
	}

	sale := &domain.Sale{
		ID:                 utils.GenerateUniqueID("VEN"),
		Data:               time.Now().Format(utils.DisplayDateLayout),
		DataISO:            utils.ToISO(time.Now()),
		Tipo:               tipo,
		Status:             saleStatus(req),
		Cliente:            req.Cliente,
		Empresa:            req.Empresa,
		Invoice:            req.Invoice,
		Produto:            req.Produto,
		Valor:              utils.RoundWithTwoDecimalPlace(req.Valor),
		SaldoDevedor:       utils.RoundWithTwoDecimalPlace(req.SaldoDevedor),
		ValorPago:          utils.RoundWithTwoDecimalPlace(req.ValorPago),
		MetodoPagamento:    req.MetodoPagamento,
		Notas:              req.Notas,
		Comissao:           utils.RoundWithTwoDecimalPlace(comissao),
		ComissaoPercentual: utils.RoundWithTwoDecimalPlace(percentual),
		VendedorID:         vendedor,
		CriadoPor:          vendedor,
	}

	if err := s.saleRepo.CreateSale(sale); err != nil {
		return nil, errors.Wrap(err, "registrando venda")
	}

	s.auditRepo.Register(vendedor, "REGISTRAR_VENDA",
		fmt.Sprintf("Venda %s registrada para %s no valor de %.2f", sale.ID, sale.Cliente, sale.Valor))

	return sale, nil
}

func saleStatus(req *domain.SaleRequest) string {
	switch {
	case req.ValorPago >= req.Valor && req.Valor > 0:
		return "Paid"
	case req.ValorPago > 0:
		return "Half Payment"
	default:
		return "Pending"
	}
}

func sessionUser(claims *domain.Claims) string {
	if claims == nil {
		return "Sistema"
	}
	if claims.UserNome != "" {
		return claims.UserNome
	}
	if claims.UserID != "" {
		return claims.UserID
	}
	return "Sistema"
}

func (s *Service) GetSale(id string) (*domain.Sale, error) {
	return s.saleRepo.GetSaleByID(id)
}

// ListSales devolve as vendas, com filtros opcionais por cliente, tipo e
// vendedor.
func (s *Service) ListSales(filtros *domain.SaleFilters) ([]*domain.Sale, error) {
	sales, err := s.saleRepo.ListSales()
	if err != nil {
		return nil, err
	}

	if filtros == nil {
		return sales, nil
	}

	resultado := make([]*domain.Sale, 0, len(sales))
	for _, sale := range sales {
		if filtros.Cliente != "" && !strings.Contains(strings.ToLower(sale.Cliente), strings.ToLower(filtros.Cliente)) {
			continue
		}
		if filtros.Tipo != "" && !strings.EqualFold(sale.Tipo, filtros.Tipo) {
			continue
		}
		if filtros.Vendedor != "" && !strings.EqualFold(sale.VendedorID, filtros.Vendedor) && !strings.EqualFold(sale.CriadoPor, filtros.Vendedor) {
			continue
		}
		resultado = append(resultado, sale)
	}

	return resultado, nil
}

func (s *Service) UpdateSale(sale *domain.Sale, claims *domain.Claims) error {
	if sale.ID == "" {
		return errors.Wrap(ErrMissingRequiredData, "ID é obrigatório")
	}

	if err := s.saleRepo.UpdateSale(sale); err != nil {
		return err
	}

	s.auditRepo.Register(sessionUser(claims), "ATUALIZAR_VENDA", fmt.Sprintf("Venda %s atualizada", sale.ID))
	return nil
}

func (s *Service) DeleteSale(id string, claims *domain.Claims) error {
	if err := s.saleRepo.DeleteSale(id); err != nil {
		return err
	}

	s.auditRepo.Register(sessionUser(claims), "EXCLUIR_VENDA", fmt.Sprintf("Venda %s excluída", id))
	return nil
}

func (s *Service) RegisterContactAttempt(saleID, tipo string, claims *domain.Claims) error {
	return s.saleRepo.RegisterContactAttempt(saleID, tipo, sessionUser(claims))
}

func (s *Service) RegisterPayment(saleID string, valor float64, metodo string, claims *domain.Claims) (float64, error) {
	if valor <= 0 {
		return 0, ErrInvalidAmount
	}

	total, err := s.saleRepo.RegisterPayment(saleID, valor, metodo, sessionUser(claims))
	if err != nil {
		return 0, err
	}

	s.auditRepo.Register(sessionUser(claims), "REGISTRAR_PAGAMENTO",
		fmt.Sprintf("Pagamento de %.2f via %s na venda %s", valor, metodo, saleID))

	return total, nil
}

func (s *Service) CreateBudget(req *domain.BudgetRequest, claims *domain.Claims) (*domain.Budget, error) {
	if req.Cliente == "" {
		return nil, errors.Wrap(ErrMissingRequiredData, "cliente é obrigatório")
	}

	vendedor := sessionUser(claims)
	status := req.Status
	if status == "" {
		status = domain.BudgetStatusAberto
	}

	budget := &domain.Budget{
		ID:          utils.GenerateUniqueID("ORC"),
		DataCriacao: time.Now().Format(utils.DisplayDateLayout),
		Origem:      req.Origem,
		CriadoPor:   vendedor,
		Cliente:     req.Cliente,
		Email:       req.Email,
		Telefone:    req.Telefone,
		Descricao:   req.Descricao,
		Valor:       utils.RoundWithTwoDecimalPlace(req.Valor),
		Status:      status,
		Observacoes: req.Observacoes,
		VendedorID:  vendedor,
	}

	if err := s.budgetRepo.CreateBudget(budget); err != nil {
		return nil, errors.Wrap(err, "registrando orçamento")
	}

	s.auditRepo.Register(vendedor, "REGISTRAR_ORCAMENTO",
		fmt.Sprintf("Orçamento %s registrado para %s", budget.ID, budget.Cliente))

	return budget, nil
}

// ListBudgets devolve os orçamentos enriquecidos, com filtros opcionais por
// status, cliente e responsável.
func (s *Service) ListBudgets(filtros *domain.BudgetFilters) ([]domain.BudgetInsights, error) {
	budgets, err := s.budgetRepo.ListBudgets()
	if err != nil {
		return nil, err
	}

	resultado := make([]domain.BudgetInsights, 0, len(budgets))
	for _, budget := range budgets {
		if filtros != nil {
			if filtros.Status != "" && !strings.EqualFold(budget.Status, filtros.Status) {
				continue
			}
			if filtros.Cliente != "" && !strings.Contains(strings.ToLower(budget.Cliente), strings.ToLower(filtros.Cliente)) {
				continue
			}
			if filtros.Vendedor != "" && !strings.EqualFold(budget.VendedorID, filtros.Vendedor) {
				continue
			}
		}
		resultado = append(resultado, analytics.EnrichBudget(budget))
	}

	return resultado, nil
}

// RegisterBudgetContact incrementa o contador de mensagens ou ligações do
// orçamento e atualiza a data do último contato. Devolve o total de contatos.
func (s *Service) RegisterBudgetContact(budgetID, tipo string, claims *domain.Claims) (int, error) {
	total, err := s.budgetRepo.RegisterContactAttempt(budgetID, tipo)
	if err != nil {
		return 0, err
	}

	s.auditRepo.Register(sessionUser(claims), "CONTATO_ORCAMENTO",
		fmt.Sprintf("Contato (%s) no orçamento %s, total %d", tipo, budgetID, total))

	return total, nil
}

// RegisterBudgetResponse registra uma resposta positiva ou negativa do cliente
func (s *Service) RegisterBudgetResponse(budgetID string, positiva bool, claims *domain.Claims) error {
	if err := s.budgetRepo.RegisterResponse(budgetID, positiva); err != nil {
		return err
	}

	rotulo := "negativa"
	if positiva {
		rotulo = "positiva"
	}
	s.auditRepo.Register(sessionUser(claims), "RESPOSTA_ORCAMENTO",
		fmt.Sprintf("Resposta %s no orçamento %s", rotulo, budgetID))

	return nil
}

// NormalizeSales corrige as linhas da aba de vendas com células obrigatórias
// em branco, devolvendo quantas linhas foram ajustadas.
func (s *Service) NormalizeSales(claims *domain.Claims) (int, error) {
	corrigidas, err := s.saleRepo.NormalizeSheet()
	if err != nil {
		return 0, errors.Wrap(err, "normalizando a aba de vendas")
	}

	if corrigidas > 0 {
		s.auditRepo.Register(sessionUser(claims), "NORMALIZAR_VENDAS",
			fmt.Sprintf("%d linhas corrigidas na aba de vendas", corrigidas))
	}

	return corrigidas, nil
}

// ConvertBudgetToSale cria a venda a partir do orçamento e marca o orçamento
// como convertido.
func (s *Service) ConvertBudgetToSale(budgetID string, claims *domain.Claims) (*domain.Sale, error) {
	budget, err := s.budgetRepo.GetBudgetByID(budgetID)
	if err != nil {
		return nil, err
	}

	vendedor := sessionUser(claims)

	sale := &domain.Sale{
		ID:              utils.GenerateUniqueID("VEN"),
		Data:            time.Now().Format(utils.DisplayDateLayout),
		DataISO:         utils.ToISO(time.Now()),
		Tipo:            "N/D",
		Status:          "Pending",
		Cliente:         budget.Cliente,
		Produto:         budget.Descricao,
		Valor:           budget.Valor,
		SaldoDevedor:    budget.Valor,
		MetodoPagamento: "-",
		Notas:           fmt.Sprintf("Convertida do orçamento %s por %s", budgetID, vendedor),
		VendedorID:      vendedor,
		CriadoPor:       vendedor,
	}

	if err := s.saleRepo.CreateSale(sale); err != nil {
		return nil, errors.Wrap(err, "registrando venda convertida")
	}

	if err := s.budgetRepo.UpdateStatus(budgetID, domain.BudgetStatusConvertido); err != nil {
		return nil, errors.Wrap(err, "atualizando status do orçamento")
	}

	s.auditRepo.Register(vendedor, "CONVERTER_ORCAMENTO",
		fmt.Sprintf("Orçamento %s convertido na venda %s", budgetID, sale.ID))

	return sale, nil
}
