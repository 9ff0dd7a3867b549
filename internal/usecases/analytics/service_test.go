package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/fdesign/nexus-sales-api/infrastructure/repository/mocks"
	"github.com/fdesign/nexus-sales-api/internal/domain"
	"github.com/fdesign/nexus-sales-api/pkg/utils"
)

func newTestService(ctrl *gomock.Controller) (*Service, *mocks.MockUserRepository, *mocks.MockSaleRepository, *mocks.MockBudgetRepository, *mocks.MockSettingsRepository) {
	userRepo := mocks.NewMockUserRepository(ctrl)
	saleRepo := mocks.NewMockSaleRepository(ctrl)
	budgetRepo := mocks.NewMockBudgetRepository(ctrl)
	settingsRepo := mocks.NewMockSettingsRepository(ctrl)

	service := &Service{
		userRepo:     userRepo,
		saleRepo:     saleRepo,
		budgetRepo:   budgetRepo,
		settingsRepo: settingsRepo,
	}

	return service, userRepo, saleRepo, budgetRepo, settingsRepo
}

func TestGetAdminSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, userRepo, saleRepo, budgetRepo, settingsRepo := newTestService(ctrl)

	userRepo.EXPECT().ListUsers().Return([]*domain.User{
		{ID: "USR-1", Nome: "Ana Souza", Tipo: domain.RoleAdmin, Ativo: true},
		{ID: "USR-2", Nome: "Bruno Lima", Tipo: domain.RoleVendedor, Ativo: false},
	}, nil)

	budgetRepo.EXPECT().ListBudgets().Return([]*domain.Budget{
		{ID: "ORC-1", Cliente: "Loja Azul", Status: domain.BudgetStatusAberto, VendedorID: "USR-1"},
		{ID: "ORC-2", Cliente: "Loja Verde", Status: domain.BudgetStatusPropostaEnviada, CriadoPor: "usr-2"},
	}, nil)

	saleRepo.EXPECT().ListSales().Return([]*domain.Sale{
		{ID: "VEN-1", Cliente: "Loja Azul", Tipo: "NEW", Valor: 1000, Comissao: 100, VendedorID: "USR-1"},
		{ID: "VEN-2", Cliente: "Loja Verde", Tipo: "WALK_IN", Valor: 500, Comissao: 25, VendedorID: "desconhecido"},
	}, nil)

	settingsRepo.EXPECT().GetSettings().Return(map[string]string{"EMPRESA": "FDesign"}, nil)

	snapshot, err := service.GetAdminSnapshot()

	assert.NoError(t, err)
	assert.True(t, snapshot.Success)
	assert.Len(t, snapshot.Users, 2)
	assert.Len(t, snapshot.Budgets, 2)
	assert.Len(t, snapshot.Sales, 2)

	// Resolução de nomes: referência por ID e por ID em minúsculas
	assert.Equal(t, "Ana Souza", snapshot.Budgets[0].ResponsavelNome)
	assert.Equal(t, "Bruno Lima", snapshot.Budgets[1].ResponsavelNome)
	assert.Equal(t, "Ana Souza", snapshot.Sales[0].VendedorNome)
	assert.Equal(t, "desconhecido", snapshot.Sales[1].VendedorNome)

	assert.Equal(t, 1500.0, snapshot.Reports.KPIs.TotalVendas)
	assert.Equal(t, 125.0, snapshot.Reports.KPIs.TotalComissoes)
	assert.Equal(t, 2, snapshot.Reports.KPIs.OrcamentosAbertos)
	assert.Equal(t, 1, snapshot.Reports.KPIs.VendedoresAtivos)
	assert.Equal(t, 100.0, snapshot.Reports.KPIs.TaxaConversao)

	assert.Equal(t, map[string]string{"EMPRESA": "FDesign"}, snapshot.Settings)

	// Gráfico de vendas por tipo com cabeçalho e tipos ordenados
	assert.Equal(t, []interface{}{"Tipo", "Valor"}, snapshot.Reports.GrafVendasPorTipo[0])
	assert.Equal(t, []interface{}{"NEW", 1000.0}, snapshot.Reports.GrafVendasPorTipo[1])
	assert.Equal(t, []interface{}{"WALK_IN", 500.0}, snapshot.Reports.GrafVendasPorTipo[2])
}

func TestGetAdminSnapshotSemDados(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, userRepo, saleRepo, budgetRepo, settingsRepo := newTestService(ctrl)

	userRepo.EXPECT().ListUsers().Return([]*domain.User{}, nil)
	budgetRepo.EXPECT().ListBudgets().Return([]*domain.Budget{}, nil)
	saleRepo.EXPECT().ListSales().Return([]*domain.Sale{}, nil)
	settingsRepo.EXPECT().GetSettings().Return(map[string]string{}, nil)

	snapshot, err := service.GetAdminSnapshot()

	assert.NoError(t, err)
	assert.Equal(t, 0.0, snapshot.Reports.KPIs.TotalVendas)
	assert.Equal(t, 0.0, snapshot.Reports.KPIs.TaxaConversao)

	// Gráficos vazios carregam o marcador "Sem Dados"
	assert.Equal(t, []interface{}{"Sem Dados", 0}, snapshot.Reports.GrafVendasPorTipo[1])
	assert.Equal(t, []interface{}{"Sem Dados", 0}, snapshot.Reports.GrafOrcPorStatus[1])
}

func TestGetDashboardFiltraPorUsuario(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, userRepo, saleRepo, budgetRepo, _ := newTestService(ctrl)

	hoje := time.Now().Format(utils.DisplayDateLayout)

	saleRepo.EXPECT().ListSales().Return([]*domain.Sale{
		{ID: "VEN-1", Data: hoje, Valor: 100, Comissao: 10, VendedorID: "USR-1"},
		{ID: "VEN-2", Data: hoje, Valor: 900, Comissao: 90, VendedorID: "USR-2"},
	}, nil)

	budgetRepo.EXPECT().ListBudgets().Return([]*domain.Budget{
		{ID: "ORC-1", VendedorID: "USR-1", Status: ""},
		{ID: "ORC-2", VendedorID: "USR-1", Status: domain.BudgetStatusPropostaEnviada},
		{ID: "ORC-3", VendedorID: "USR-1", Status: domain.BudgetStatusPerdido},
		{ID: "ORC-4", VendedorID: "USR-2", Status: domain.BudgetStatusAberto},
	}, nil)

	userRepo.EXPECT().ListUsers().Return([]*domain.User{
		{ID: "USR-1", Nome: "Ana Souza"},
		{ID: "USR-2", Nome: "Bruno Lima"},
	}, nil)

	claims := &domain.Claims{UserID: "USR-1", UserNome: "Ana Souza", UserTipo: domain.RoleVendedor}

	dashboard, err := service.GetDashboard(claims)

	assert.NoError(t, err)
	assert.Equal(t, "Ana Souza", dashboard.Nome)
	assert.Equal(t, 100.0, dashboard.TotalVendas)
	assert.Equal(t, 10.0, dashboard.TotalComissao)
	// Aberto (status vazio) + Proposta Enviada
	assert.Equal(t, 2, dashboard.TotalOrcamentos)
	assert.Len(t, dashboard.Historico, 1)
	assert.Len(t, dashboard.GraficoVendas, 6)
	assert.Len(t, dashboard.GraficoOrcamentos, 4)

	// O mês corrente é o último ponto da série
	ultimo := dashboard.GraficoVendas[5]
	assert.Equal(t, time.Now().Format("Jan/06"), ultimo[0])
	assert.Equal(t, 100.0, ultimo[1])
}

func TestGetDashboardAdminVeTudo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, userRepo, saleRepo, budgetRepo, _ := newTestService(ctrl)

	hoje := time.Now().Format(utils.DisplayDateLayout)

	saleRepo.EXPECT().ListSales().Return([]*domain.Sale{
		{ID: "VEN-1", Data: hoje, Valor: 100, Comissao: 10, VendedorID: "USR-1"},
		{ID: "VEN-2", Data: hoje, Valor: 900, Comissao: 90, VendedorID: "USR-2"},
	}, nil)

	budgetRepo.EXPECT().ListBudgets().Return([]*domain.Budget{
		{ID: "ORC-1", VendedorID: "USR-2", Status: domain.BudgetStatusAberto},
	}, nil)

	userRepo.EXPECT().ListUsers().Return([]*domain.User{
		{ID: "USR-1", Nome: "Ana Souza"},
	}, nil)

	claims := &domain.Claims{UserID: "USR-1", UserNome: "Ana Souza", UserTipo: domain.RoleAdmin}

	dashboard, err := service.GetDashboard(claims)

	assert.NoError(t, err)
	assert.Equal(t, 1000.0, dashboard.TotalVendas)
	assert.Equal(t, 100.0, dashboard.TotalComissao)
	assert.Equal(t, 1, dashboard.TotalOrcamentos)
	assert.Len(t, dashboard.Historico, 2)
}

func TestSearch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, _, saleRepo, budgetRepo, _ := newTestService(ctrl)

	saleRepo.EXPECT().ListSales().Return([]*domain.Sale{
		{ID: "VEN-1", Cliente: "Zuleica Prado", Produto: "Banner"},
		{ID: "VEN-2", Cliente: "Carlos Dias", Produto: "Cartão de visita"},
	}, nil)

	budgetRepo.EXPECT().ListBudgets().Return([]*domain.Budget{
		{ID: "ORC-1", Cliente: "Amanda Reis", Email: "amanda@prado.com", Descricao: "Logo"},
		{ID: "ORC-2", Cliente: "Beto Nunes", Telefone: "11999990000", Descricao: "Site"},
	}, nil)

	resultados, err := service.Search("PRADO")

	assert.NoError(t, err)
	assert.Len(t, resultados, 2)

	// Ordenados por nome do cliente
	assert.Equal(t, "Amanda Reis", resultados[0].NomeCliente)
	assert.Equal(t, "Orçamento", resultados[0].Tipo)
	assert.Equal(t, "Zuleica Prado", resultados[1].NomeCliente)
	assert.Equal(t, "Venda", resultados[1].Tipo)
}

func TestSearchQueryVazia(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, _, _, _, _ := newTestService(ctrl)

	resultados, err := service.Search("   ")

	assert.NoError(t, err)
	assert.Empty(t, resultados)
}
