package selling

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/fdesign/nexus-sales-api/infrastructure/repository/mocks"
	"github.com/fdesign/nexus-sales-api/internal/domain"
)

func newTestService(ctrl *gomock.Controller) (*Service, *mocks.MockSaleRepository, *mocks.MockBudgetRepository, *mocks.MockAuditRepository) {
	saleRepo := mocks.NewMockSaleRepository(ctrl)
	budgetRepo := mocks.NewMockBudgetRepository(ctrl)
	auditRepo := mocks.NewMockAuditRepository(ctrl)

	settingsRepo := mocks.NewMockSettingsRepository(ctrl)
	settingsRepo.EXPECT().GetValue(gomock.Any(), gomock.Any()).Return("").AnyTimes()

	service := &Service{
		saleRepo:     saleRepo,
		budgetRepo:   budgetRepo,
		settingsRepo: settingsRepo,
		auditRepo:    auditRepo,
	}

	return service, saleRepo, budgetRepo, auditRepo
}

func claimsDeTeste() *domain.Claims {
	return &domain.Claims{UserID: "USR-1", UserNome: "Ana Souza", UserTipo: domain.RoleVendedor}
}

func TestRegisterSale(t *testing.T) {
	tests := []struct {
		name     string
		req      *domain.SaleRequest
		validate func(t *testing.T, sale *domain.Sale)
	}{
		{
			name: "Tipo reconhecido usa o percentual da tabela",
			req: &domain.SaleRequest{
				Cliente: "Loja Azul",
				Tipo:    "new",
				Valor:   1000,
			},
			validate: func(t *testing.T, sale *domain.Sale) {
				assert.Equal(t, "NEW", sale.Tipo)
				assert.Equal(t, 10.0, sale.ComissaoPercentual)
				assert.Equal(t, 100.0, sale.Comissao)
				assert.Equal(t, "Pending", sale.Status)
			},
		},
		{
			name: "Percentual da tabela prevalece sobre o informado",
			req: &domain.SaleRequest{
				Cliente:            "Loja Azul",
				Tipo:               "WALK_IN",
				Valor:              2000,
				ComissaoPercentual: 50,
			},
			validate: func(t *testing.T, sale *domain.Sale) {
				assert.Equal(t, 5.0, sale.ComissaoPercentual)
				assert.Equal(t, 100.0, sale.Comissao)
			},
		},
		{
			name: "Tipo desconhecido mantém a comissão explícita",
			req: &domain.SaleRequest{
				Cliente:  "Loja Azul",
				Tipo:     "ESPECIAL",
				Valor:    1000,
				Comissao: 80,
			},
			validate: func(t *testing.T, sale *domain.Sale) {
				assert.Equal(t, 0.0, sale.ComissaoPercentual)
				assert.Equal(t, 80.0, sale.Comissao)
			},
		},
		{
			name: "Pagamento integral marca a venda como paga",
			req: &domain.SaleRequest{
				Cliente:   "Loja Azul",
				Valor:     500,
				ValorPago: 500,
			},
			validate: func(t *testing.T, sale *domain.Sale) {
				assert.Equal(t, "Paid", sale.Status)
			},
		},
		{
			name: "Pagamento parcial marca meia entrada",
			req: &domain.SaleRequest{
				Cliente:   "Loja Azul",
				Valor:     500,
				ValorPago: 100,
			},
			validate: func(t *testing.T, sale *domain.Sale) {
				assert.Equal(t, "Half Payment", sale.Status)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service, saleRepo, _, auditRepo := newTestService(ctrl)

			var criada *domain.Sale
			saleRepo.EXPECT().CreateSale(gomock.Any()).DoAndReturn(func(sale *domain.Sale) error {
				criada = sale
				return nil
			})
			auditRepo.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

			sale, err := service.RegisterSale(tt.req, claimsDeTeste())

			assert.NoError(t, err)
			assert.Equal(t, criada, sale)
			assert.True(t, strings.HasPrefix(sale.ID, "VEN-"))
			assert.Equal(t, "Ana Souza", sale.VendedorID)
			assert.Equal(t, "Ana Souza", sale.CriadoPor)
			tt.validate(t, sale)
		})
	}
}

func TestRegisterSaleComPercentualPadrao(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	saleRepo := mocks.NewMockSaleRepository(ctrl)
	auditRepo := mocks.NewMockAuditRepository(ctrl)

	settingsRepo := mocks.NewMockSettingsRepository(ctrl)
	settingsRepo.EXPECT().GetValue("COMISSAO_PADRAO", "").Return("8")

	service := &Service{
		saleRepo:     saleRepo,
		settingsRepo: settingsRepo,
		auditRepo:    auditRepo,
	}

	var criada *domain.Sale
	saleRepo.EXPECT().CreateSale(gomock.Any()).DoAndReturn(func(sale *domain.Sale) error {
		criada = sale
		return nil
	})
	auditRepo.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any())

	sale, err := service.RegisterSale(&domain.SaleRequest{
		Cliente: "Loja Azul",
		Tipo:    "ESPECIAL",
		Valor:   1000,
	}, claimsDeTeste())

	assert.NoError(t, err)
	assert.Equal(t, criada, sale)
	assert.Equal(t, 8.0, sale.ComissaoPercentual)
	assert.Equal(t, 80.0, sale.Comissao)
}

func TestListSalesComFiltros(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, saleRepo, _, _ := newTestService(ctrl)

	saleRepo.EXPECT().ListSales().Return([]*domain.Sale{
		{ID: "VEN-1", Cliente: "Loja Azul", Tipo: "NEW", VendedorID: "Ana Souza"},
		{ID: "VEN-2", Cliente: "Loja Azul", Tipo: "WALK_IN", VendedorID: "Ana Souza"},
		{ID: "VEN-3", Cliente: "Loja Verde", Tipo: "NEW", VendedorID: "Bruno Lima"},
	}, nil)

	resultado, err := service.ListSales(&domain.SaleFilters{
		Cliente:  "azul",
		Tipo:     "new",
		Vendedor: "ana souza",
	})

	assert.NoError(t, err)
	assert.Len(t, resultado, 1)
	assert.Equal(t, "VEN-1", resultado[0].ID)
}

func TestNormalizeSales(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, saleRepo, _, auditRepo := newTestService(ctrl)

	saleRepo.EXPECT().NormalizeSheet().Return(3, nil)
	auditRepo.EXPECT().Register("Ana Souza", "NORMALIZAR_VENDAS", gomock.Any())

	corrigidas, err := service.NormalizeSales(claimsDeTeste())

	assert.NoError(t, err)
	assert.Equal(t, 3, corrigidas)
}

func TestNormalizeSalesSemCorrecoes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, saleRepo, _, _ := newTestService(ctrl)

	saleRepo.EXPECT().NormalizeSheet().Return(0, nil)

	corrigidas, err := service.NormalizeSales(claimsDeTeste())

	assert.NoError(t, err)
	assert.Equal(t, 0, corrigidas)
}

func TestRegisterSaleSemCliente(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, _, _, _ := newTestService(ctrl)

	_, err := service.RegisterSale(&domain.SaleRequest{Valor: 100}, claimsDeTeste())

	assert.ErrorIs(t, err, ErrMissingRequiredData)
}

func TestRegisterSaleValorNegativo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, _, _, _ := newTestService(ctrl)

	_, err := service.RegisterSale(&domain.SaleRequest{Cliente: "Loja Azul", Valor: -1}, claimsDeTeste())

	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRegisterPaymentValorInvalido(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, _, _, _ := newTestService(ctrl)

	_, err := service.RegisterPayment("VEN-1", 0, "Pix", claimsDeTeste())

	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRegisterPayment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, saleRepo, _, auditRepo := newTestService(ctrl)

	saleRepo.EXPECT().RegisterPayment("VEN-1", 150.0, "Pix", "Ana Souza").Return(350.0, nil)
	auditRepo.EXPECT().Register("Ana Souza", "REGISTRAR_PAGAMENTO", gomock.Any())

	total, err := service.RegisterPayment("VEN-1", 150, "Pix", claimsDeTeste())

	assert.NoError(t, err)
	assert.Equal(t, 350.0, total)
}

func TestCreateBudget(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, _, budgetRepo, auditRepo := newTestService(ctrl)

	var criado *domain.Budget
	budgetRepo.EXPECT().CreateBudget(gomock.Any()).DoAndReturn(func(budget *domain.Budget) error {
		criado = budget
		return nil
	})
	auditRepo.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	budget, err := service.CreateBudget(&domain.BudgetRequest{
		Cliente:   "Loja Azul",
		Descricao: "Identidade visual",
		Valor:     1200,
	}, claimsDeTeste())

	assert.NoError(t, err)
	assert.Equal(t, criado, budget)
	assert.True(t, strings.HasPrefix(budget.ID, "ORC-"))
	assert.Equal(t, domain.BudgetStatusAberto, budget.Status)
	assert.Equal(t, "Ana Souza", budget.CriadoPor)
}

func TestListBudgetsComFiltros(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, _, budgetRepo, _ := newTestService(ctrl)

	budgetRepo.EXPECT().ListBudgets().Return([]*domain.Budget{
		{ID: "ORC-1", Cliente: "Loja Azul", Status: domain.BudgetStatusAberto, VendedorID: "Ana Souza"},
		{ID: "ORC-2", Cliente: "Loja Verde", Status: domain.BudgetStatusAberto, VendedorID: "Ana Souza"},
		{ID: "ORC-3", Cliente: "Loja Azul", Status: domain.BudgetStatusPerdido, VendedorID: "Ana Souza"},
	}, nil)

	resultado, err := service.ListBudgets(&domain.BudgetFilters{
		Status:  "aberto",
		Cliente: "azul",
	})

	assert.NoError(t, err)
	assert.Len(t, resultado, 1)
	assert.Equal(t, "ORC-1", resultado[0].ID)
	assert.NotZero(t, resultado[0].ProbabilidadeConversao)
}

func TestRegisterBudgetContact(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, _, budgetRepo, auditRepo := newTestService(ctrl)

	budgetRepo.EXPECT().RegisterContactAttempt("ORC-1", "ligacao").Return(4, nil)
	auditRepo.EXPECT().Register("Ana Souza", "CONTATO_ORCAMENTO", gomock.Any())

	total, err := service.RegisterBudgetContact("ORC-1", "ligacao", claimsDeTeste())

	assert.NoError(t, err)
	assert.Equal(t, 4, total)
}

func TestRegisterBudgetResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, _, budgetRepo, auditRepo := newTestService(ctrl)

	budgetRepo.EXPECT().RegisterResponse("ORC-1", true).Return(nil)
	auditRepo.EXPECT().Register("Ana Souza", "RESPOSTA_ORCAMENTO", gomock.Any())

	err := service.RegisterBudgetResponse("ORC-1", true, claimsDeTeste())

	assert.NoError(t, err)
}

func TestConvertBudgetToSale(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, saleRepo, budgetRepo, auditRepo := newTestService(ctrl)

	budgetRepo.EXPECT().GetBudgetByID("ORC-1").Return(&domain.Budget{
		ID:        "ORC-1",
		Cliente:   "Loja Azul",
		Descricao: "Identidade visual",
		Valor:     1200,
		Status:    domain.BudgetStatusAberto,
	}, nil)

	var criada *domain.Sale
	saleRepo.EXPECT().CreateSale(gomock.Any()).DoAndReturn(func(sale *domain.Sale) error {
		criada = sale
		return nil
	})
	budgetRepo.EXPECT().UpdateStatus("ORC-1", domain.BudgetStatusConvertido).Return(nil)
	auditRepo.EXPECT().Register(gomock.Any(), "CONVERTER_ORCAMENTO", gomock.Any())

	sale, err := service.ConvertBudgetToSale("ORC-1", claimsDeTeste())

	assert.NoError(t, err)
	assert.Equal(t, criada, sale)
	assert.Equal(t, "Loja Azul", sale.Cliente)
	assert.Equal(t, "Identidade visual", sale.Produto)
	assert.Equal(t, 1200.0, sale.Valor)
	assert.Equal(t, 1200.0, sale.SaldoDevedor)
	assert.Equal(t, "Pending", sale.Status)
	assert.Contains(t, sale.Notas, "ORC-1")
}
