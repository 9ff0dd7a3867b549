package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fdesign/nexus-sales-api/internal/domain"
	"github.com/fdesign/nexus-sales-api/pkg/utils"
)

func TestCalculateUserMetrics(t *testing.T) {
	users := []*domain.User{
		{ID: "USR-1", Nome: "Ana Souza", Email: "ana@fdesign.com", Ativo: true},
		{ID: "USR-2", Nome: "Bruno Lima", Email: "bruno@fdesign.com", Ativo: true},
	}
	idx := newUserIndex(users)

	budgets := []*domain.Budget{
		{ID: "ORC-1", CriadoPor: "USR-1", Status: domain.BudgetStatusFechado, Mensagens: 3, Ligacoes: 2, RespPos: 1, RespNeg: 1},
		{ID: "ORC-2", CriadoPor: "Ana Souza", Status: domain.BudgetStatusAberto, Mensagens: 1, Ligacoes: 0, RespPos: 0, RespNeg: 2},
		{ID: "ORC-3", CriadoPor: "USR-2", Status: domain.BudgetStatusAberto, Mensagens: 7, Ligacoes: 7},
	}

	sales := []*domain.Sale{
		{ID: "VEN-1", VendedorID: "USR-1", Valor: 1000, Comissao: 100},
		{ID: "VEN-2", VendedorID: "ana@fdesign.com", Valor: 500, Comissao: 50},
		{ID: "VEN-3", VendedorID: "USR-2", Valor: 9999, Comissao: 999},
	}

	metrics := CalculateUserMetrics("USR-1", idx, budgets, sales)

	assert.Equal(t, 4, metrics.Communication.Messages)
	assert.Equal(t, 2, metrics.Communication.Calls)
	assert.Equal(t, 6, metrics.Communication.Total)

	assert.Equal(t, 1, metrics.Effectiveness.RespPos)
	assert.Equal(t, 3, metrics.Effectiveness.RespNeg)
	assert.Equal(t, 25.0, metrics.Effectiveness.PRR)

	assert.Equal(t, 2, metrics.Conversion.TotalBudgets)
	assert.Equal(t, 1, metrics.Conversion.Converted)
	assert.Equal(t, 50.0, metrics.Conversion.Rate)

	assert.Equal(t, 750.0, metrics.Financial.AvgSaleValue)
	assert.Equal(t, 1500.0, metrics.Financial.TotalRevenue)
	assert.Equal(t, 150.0, metrics.Financial.TotalCommission)
	assert.Equal(t, 8.44, metrics.Financial.ProfitabilityPerHour)

	assert.Equal(t, 3.0, metrics.Derived.OEI)
	assert.Equal(t, 50.0, metrics.Derived.CE)
	assert.Equal(t, 8.44, metrics.Derived.HP)
	assert.Equal(t, 25.0, metrics.Derived.PRR)
	assert.Equal(t, 1350.0, metrics.Derived.NEP)
}

func TestCalculateUserMetricsSemDados(t *testing.T) {
	idx := newUserIndex([]*domain.User{{ID: "USR-1", Nome: "Ana"}})

	metrics := CalculateUserMetrics("USR-1", idx, nil, nil)

	assert.Equal(t, domain.EmptyUserMetrics(), metrics)
}

func TestConversionScore(t *testing.T) {
	hoje := time.Now().Format(utils.DisplayDateLayout)
	antigo := time.Now().AddDate(0, 0, -40).Format(utils.DisplayDateLayout)
	medio := time.Now().AddDate(0, 0, -20).Format(utils.DisplayDateLayout)

	tests := []struct {
		name     string
		budget   *domain.Budget
		esperado int
	}{
		{
			name:     "Orçamento recém criado sem contatos mantém a base",
			budget:   &domain.Budget{DataCriacao: hoje},
			esperado: 50,
		},
		{
			name: "Muitos contatos, resposta positiva e valor alto",
			budget: &domain.Budget{
				DataCriacao: hoje,
				Mensagens:   4,
				Ligacoes:    3,
				RespPos:     2,
				Valor:       7500,
			},
			esperado: 95,
		},
		{
			name: "Poucos contatos somam menos",
			budget: &domain.Budget{
				DataCriacao: hoje,
				Mensagens:   3,
			},
			esperado: 60,
		},
		{
			name:     "Orçamento com mais de 30 dias perde pontos",
			budget:   &domain.Budget{DataCriacao: antigo},
			esperado: 30,
		},
		{
			name:     "Orçamento entre 15 e 30 dias perde menos",
			budget:   &domain.Budget{DataCriacao: medio},
			esperado: 40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.esperado, ConversionScore(tt.budget))
		})
	}
}

func TestCommissionRateByType(t *testing.T) {
	tests := []struct {
		name     string
		tipo     string
		esperado *float64
	}{
		{"Venda nova em inglês", "NEW", floatPtr(0.10)},
		{"Venda nova em minúsculas", "nova", floatPtr(0.10)},
		{"Walk-in com hífen", "Walk-in", floatPtr(0.05)},
		{"Recorrente", "RECORRENTE", floatPtr(0.05)},
		{"Cliente antigo", "OLD", floatPtr(0.05)},
		{"Tipo vazio", "", nil},
		{"Tipo desconhecido", "ESPECIAL", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate := CommissionRateByType(tt.tipo)
			if tt.esperado == nil {
				assert.Nil(t, rate)
				return
			}
			if assert.NotNil(t, rate) {
				assert.Equal(t, *tt.esperado, *rate)
			}
		})
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestIsClosedStatus(t *testing.T) {
	assert.True(t, isClosedStatus(domain.BudgetStatusFechado))
	assert.True(t, isClosedStatus(domain.BudgetStatusFechadoVenda))
	assert.True(t, isClosedStatus(domain.BudgetStatusConvertido))
	assert.False(t, isClosedStatus(domain.BudgetStatusAberto))
	assert.False(t, isClosedStatus(domain.BudgetStatusPerdido))
	assert.False(t, isClosedStatus(""))
}

func TestEnrichSale(t *testing.T) {
	budgets := []domain.BudgetInsights{
		{Budget: domain.Budget{ID: "ORC-1", Cliente: "Loja Azul", Status: domain.BudgetStatusFechadoVenda, Mensagens: 3, Ligacoes: 1}},
		{Budget: domain.Budget{ID: "ORC-2", Cliente: "Loja Verde", Status: domain.BudgetStatusAberto, Mensagens: 9}},
	}

	sale := &domain.Sale{ID: "VEN-1", Cliente: "Loja Azul", Valor: 800}
	insights := EnrichSale(sale, budgets)

	assert.Equal(t, "ORC-1", insights.RelatedBudgetID)
	assert.Equal(t, 4, insights.TentativasContato)
	assert.Equal(t, 200.0, insights.ValorPorHora)

	semRelacao := EnrichSale(&domain.Sale{ID: "VEN-2", Cliente: "Loja Verde"}, budgets)
	assert.Empty(t, semRelacao.RelatedBudgetID)
	assert.Zero(t, semRelacao.TentativasContato)
}

func TestUserIndexResolve(t *testing.T) {
	idx := newUserIndex([]*domain.User{
		{ID: "USR-1", Nome: "Ana Souza", Email: "ana@fdesign.com"},
	})

	assert.Equal(t, "Ana Souza", idx.resolveName("usr-1"))
	assert.Equal(t, "Ana Souza", idx.resolveName("ANA@FDESIGN.COM"))
	assert.Equal(t, "Ana Souza", idx.resolveName("ana souza"))
	assert.Equal(t, "desconhecido", idx.resolveName(" desconhecido "))

	assert.True(t, idx.belongsToUser("USR-1", "", "ana@fdesign.com"))
	assert.False(t, idx.belongsToUser("USR-1", "bruno@fdesign.com"))
}
