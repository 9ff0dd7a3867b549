package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/fdesign/nexus-sales-api/infrastructure/repository"
	"github.com/fdesign/nexus-sales-api/internal/domain"
	"github.com/fdesign/nexus-sales-api/pkg/utils"
)

const maxSearchResults = 50

// Insighter consolida os dados das planilhas em snapshots analíticos,
// painéis pessoais e busca unificada.
type Insighter interface {
	GetAdminSnapshot() (*domain.Snapshot, error)
	GetDashboard(claims *domain.Claims) (*domain.Dashboard, error)
	Search(query string) ([]*domain.SearchResult, error)
}

type Service struct {
	userRepo     repository.UserRepository
	saleRepo     repository.SaleRepository
	budgetRepo   repository.BudgetRepository
	settingsRepo repository.SettingsRepository
}

func NewService(
	userRepo repository.UserRepository,
	saleRepo repository.SaleRepository,
	budgetRepo repository.BudgetRepository,
	settingsRepo repository.SettingsRepository,
) Insighter {
	return &Service{
		userRepo:     userRepo,
		saleRepo:     saleRepo,
		budgetRepo:   budgetRepo,
		settingsRepo: settingsRepo,
	}
}

// GetAdminSnapshot reconstrói o snapshot completo a partir das abas: busca
// em bloco, normaliza, resolve responsáveis, calcula métricas por usuário e
// agrega os relatórios.
func (s *Service) GetAdminSnapshot() (*domain.Snapshot, error) {
	users, err := s.userRepo.ListUsers()
	if err != nil {
		return nil, errors.Wrap(err, "carregando usuários")
	}

	budgets, err := s.budgetRepo.ListBudgets()
	if err != nil {
		return nil, errors.Wrap(err, "carregando orçamentos")
	}

	sales, err := s.saleRepo.ListSales()
	if err != nil {
		return nil, errors.Wrap(err, "carregando vendas")
	}

	idx := newUserIndex(users)

	for _, budget := range budgets {
		ref := budget.VendedorID
		if ref == "" {
			ref = budget.CriadoPor
		}
		budget.ResponsavelNome = idx.resolveName(ref)
		if budget.ResponsavelNome == "" {
			budget.ResponsavelNome = "-"
		}
	}

	for _, sale := range sales {
		sale.VendedorNome = idx.resolveName(sale.VendedorID)
		if sale.VendedorNome == "" {
			sale.VendedorNome = "-"
		}
	}

	usersWithMetrics := make([]domain.UserWithMetrics, 0, len(users))
	for _, user := range users {
		status := "Inativo"
		if user.Ativo {
			status = "Ativo"
		}

		usersWithMetrics = append(usersWithMetrics, domain.UserWithMetrics{
			ID:       user.ID,
			Nome:     user.Nome,
			Tipo:     user.Tipo,
			Email:    user.Email,
			Telefone: user.Telefone,
			Comissao: user.Comissao,
			Status:   status,
			Metrics:  CalculateUserMetrics(user.ID, idx, budgets, sales),
		})
	}

	budgetInsights := make([]domain.BudgetInsights, 0, len(budgets))
	for _, budget := range budgets {
		budgetInsights = append(budgetInsights, EnrichBudget(budget))
	}

	saleInsights := make([]domain.SaleInsights, 0, len(sales))
	for _, sale := range sales {
		saleInsights = append(saleInsights, EnrichSale(sale, budgetInsights))
	}

	settings, err := s.settingsRepo.GetSettings()
	if err != nil {
		logrus.WithError(err).Warn("Erro ao carregar configurações — seguindo sem elas")
		settings = map[string]string{}
	}

	snapshot := &domain.Snapshot{
		Success:  true,
		Users:    usersWithMetrics,
		Budgets:  budgetInsights,
		Sales:    saleInsights,
		Reports:  buildReports(usersWithMetrics, budgetInsights, saleInsights),
		Settings: settings,
	}

	logrus.Infof("Dados administrativos consolidados: %d usuários, %d orçamentos, %d vendas",
		len(usersWithMetrics), len(budgetInsights), len(saleInsights))

	return snapshot, nil
}

func buildReports(users []domain.UserWithMetrics, budgets []domain.BudgetInsights, sales []domain.SaleInsights) domain.Reports {
	totalVendas := 0.0
	totalComissoes := 0.0
	vendasPorTipo := map[string]float64{}
	for _, sale := range sales {
		totalVendas += sale.Valor
		totalComissoes += sale.Comissao

		tipo := sale.Tipo
		if strings.TrimSpace(tipo) == "" {
			tipo = "Sem Tipo"
		}
		vendasPorTipo[tipo] += sale.Valor
	}

	orcamentosAbertos := 0
	orcamentosPorStatus := map[string]int{}
	for _, budget := range budgets {
		status := strings.ToLower(strings.TrimSpace(budget.Status))
		if status == "aberto" || status == "proposta enviada" {
			orcamentosAbertos++
		}

		rotulo := strings.TrimSpace(budget.Status)
		if rotulo == "" {
			rotulo = "Sem Status"
		}
		orcamentosPorStatus[rotulo]++
	}

	vendedoresAtivos := 0
	for _, user := range users {
		if strings.EqualFold(user.Status, "Ativo") {
			vendedoresAtivos++
		}
	}

	taxaConversao := 0.0
	if len(budgets) > 0 {
		taxaConversao = float64(len(sales)) / float64(len(budgets)) * 100
	}

	return domain.Reports{
		KPIs: domain.KPIs{
			TotalVendas:       utils.RoundWithTwoDecimalPlace(totalVendas),
			TotalComissoes:    utils.RoundWithTwoDecimalPlace(totalComissoes),
			OrcamentosAbertos: orcamentosAbertos,
			VendedoresAtivos:  vendedoresAtivos,
			TaxaConversao:     utils.RoundWithOneDecimalPlace(taxaConversao),
		},
		GrafVendasPorTipo: chartFromFloatMap("Tipo", "Valor", vendasPorTipo),
		GrafOrcPorStatus:  chartFromIntMap("Status", "Quantidade", orcamentosPorStatus),
	}
}

func chartFromFloatMap(rotuloChave, rotuloValor string, dados map[string]float64) domain.ChartSeries {
	serie := domain.ChartSeries{{rotuloChave, rotuloValor}}
	if len(dados) == 0 {
		return append(serie, []interface{}{"Sem Dados", 0})
	}

	chaves := make([]string, 0, len(dados))
	for chave := range dados {
		chaves = append(chaves, chave)
	}
	sort.Strings(chaves)

	for _, chave := range chaves {
		serie = append(serie, []interface{}{chave, utils.RoundWithTwoDecimalPlace(dados[chave])})
	}
	return serie
}

func chartFromIntMap(rotuloChave, rotuloValor string, dados map[string]int) domain.ChartSeries {
	serie := domain.ChartSeries{{rotuloChave, rotuloValor}}
	if len(dados) == 0 {
		return append(serie, []interface{}{"Sem Dados", 0})
	}

	chaves := make([]string, 0, len(dados))
	for chave := range dados {
		chaves = append(chaves, chave)
	}
	sort.Strings(chaves)

	for _, chave := range chaves {
		serie = append(serie, []interface{}{chave, dados[chave]})
	}
	return serie
}

// GetDashboard monta o painel pessoal: administradores veem o consolidado,
// demais usuários apenas o que é deles.
func (s *Service) GetDashboard(claims *domain.Claims) (*domain.Dashboard, error) {
	if claims == nil {
		return nil, errors.New("sessão inexistente")
	}

	sales, err := s.saleRepo.ListSales()
	if err != nil {
		return nil, errors.Wrap(err, "carregando vendas")
	}

	budgets, err := s.budgetRepo.ListBudgets()
	if err != nil {
		return nil, errors.Wrap(err, "carregando orçamentos")
	}

	users, err := s.userRepo.ListUsers()
	if err != nil {
		return nil, errors.Wrap(err, "carregando usuários")
	}
	idx := newUserIndex(users)

	isAdmin := strings.EqualFold(claims.UserTipo, domain.RoleAdmin)

	totalVendas := 0.0
	totalComissao := 0.0
	historico := make([]domain.SaleHistoryEntry, 0, 5)
	mensal := map[string]float64{}

	for _, sale := range sales {
		if !isAdmin && !idx.belongsToUser(claims.UserID, sale.VendedorID, sale.CriadoPor) {
			continue
		}

		totalVendas += sale.Valor
		totalComissao += sale.Comissao

		if len(historico) < 5 {
			historico = append(historico, domain.SaleHistoryEntry{
				Data:     sale.Data,
				Valor:    fmt.Sprintf("%.2f", sale.Valor),
				Vendedor: sale.VendedorID,
			})
		}

		if data, err := time.Parse(utils.DisplayDateLayout, sale.Data); err == nil {
			mensal[data.Format("2006-01")] += sale.Valor
		}
	}

	graficoVendas := domain.ChartSeries{}
	agora := time.Now()
	for m := 5; m >= 0; m-- {
		mes := time.Date(agora.Year(), agora.Month(), 1, 0, 0, 0, 0, time.Local).AddDate(0, -m, 0)
		graficoVendas = append(graficoVendas, []interface{}{
			mes.Format("Jan/06"),
			utils.RoundWithTwoDecimalPlace(mensal[mes.Format("2006-01")]),
		})
	}

	statusCounts := map[string]int{
		domain.BudgetStatusAberto:          0,
		domain.BudgetStatusPropostaEnviada: 0,
		domain.BudgetStatusFechadoVenda:    0,
		domain.BudgetStatusPerdido:         0,
	}

	for _, budget := range budgets {
		if !isAdmin && !idx.belongsToUser(claims.UserID, budget.VendedorID, budget.CriadoPor, budget.ResponsavelNome) {
			continue
		}

		status := budget.Status
		if status == "" {
			status = domain.BudgetStatusAberto
		}
		if _, ok := statusCounts[status]; ok {
			statusCounts[status]++
		}
	}

	graficoOrcamentos := domain.ChartSeries{}
	for _, status := range []string{
		domain.BudgetStatusAberto,
		domain.BudgetStatusPropostaEnviada,
		domain.BudgetStatusFechadoVenda,
		domain.BudgetStatusPerdido,
	} {
		graficoOrcamentos = append(graficoOrcamentos, []interface{}{status, statusCounts[status]})
	}

	return &domain.Dashboard{
		Nome:              claims.UserNome,
		TotalVendas:       utils.RoundWithTwoDecimalPlace(totalVendas),
		TotalComissao:     utils.RoundWithTwoDecimalPlace(totalComissao),
		TotalOrcamentos:   statusCounts[domain.BudgetStatusAberto] + statusCounts[domain.BudgetStatusPropostaEnviada],
		Historico:         historico,
		GraficoVendas:     graficoVendas,
		GraficoOrcamentos: graficoOrcamentos,
	}, nil
}

// Search faz a busca unificada por cliente, telefone, email ou produto em
// vendas e orçamentos, limitada aos primeiros 50 resultados.
func (s *Service) Search(query string) ([]*domain.SearchResult, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []*domain.SearchResult{}, nil
	}

	sales, err := s.saleRepo.ListSales()
	if err != nil {
		return nil, errors.Wrap(err, "carregando vendas")
	}

	budgets, err := s.budgetRepo.ListBudgets()
	if err != nil {
		return nil, errors.Wrap(err, "carregando orçamentos")
	}

	resultados := []*domain.SearchResult{}

	for _, sale := range sales {
		if matchesQuery(query, sale.Cliente, sale.Empresa, sale.Produto) {
			resultados = append(resultados, &domain.SearchResult{
				ID:          sale.ID,
				NomeCliente: sale.Cliente,
				Produto:     sale.Produto,
				Tipo:        "Venda",
			})
		}
	}

	for _, budget := range budgets {
		if matchesQuery(query, budget.Cliente, budget.Telefone, budget.Email, budget.Descricao) {
			resultados = append(resultados, &domain.SearchResult{
				ID:          budget.ID,
				NomeCliente: budget.Cliente,
				Telefone:    budget.Telefone,
				Email:       budget.Email,
				Produto:     budget.Descricao,
				Tipo:        "Orçamento",
			})
		}
	}

	sort.Slice(resultados, func(i, j int) bool {
		return resultados[i].NomeCliente < resultados[j].NomeCliente
	})

	if len(resultados) > maxSearchResults {
		resultados = resultados[:maxSearchResults]
	}
	return resultados, nil
}

func matchesQuery(query string, campos ...string) bool {
	for _, campo := range campos {
		if strings.Contains(strings.ToLower(campo), query) {
			return true
		}
	}
	return false
}
