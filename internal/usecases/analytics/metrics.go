package analytics

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fdesign/nexus-sales-api/internal/domain"
	"github.com/fdesign/nexus-sales-api/internal/schema"
	"github.com/fdesign/nexus-sales-api/pkg/utils"
)

// hoursPerMonth é a carga fixa usada na rentabilidade por hora.
const hoursPerMonth = 160.0

// userIndex resolve referências tolerantes (id, email ou nome, sem distinção
// de caixa) para o usuário correspondente.
type userIndex struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
	byName  map[string]*domain.User
}

func newUserIndex(users []*domain.User) *userIndex {
	idx := &userIndex{
		byID:    make(map[string]*domain.User, len(users)),
		byEmail: make(map[string]*domain.User, len(users)),
		byName:  make(map[string]*domain.User, len(users)),
	}

	for _, user := range users {
		if id := normalizeRef(user.ID); id != "" {
			idx.byID[id] = user
		}
		if email := normalizeRef(user.Email); email != "" {
			idx.byEmail[email] = user
		}
		if nome := normalizeRef(user.Nome); nome != "" {
			idx.byName[nome] = user
		}
	}

	return idx
}

func normalizeRef(ref string) string {
	return strings.ToLower(strings.TrimSpace(ref))
}

// resolve devolve o usuário referenciado por id, email ou nome, ou nil.
func (idx *userIndex) resolve(ref string) *domain.User {
	chave := normalizeRef(ref)
	if chave == "" {
		return nil
	}

	if user, ok := idx.byID[chave]; ok {
		return user
	}
	if user, ok := idx.byEmail[chave]; ok {
		return user
	}
	if user, ok := idx.byName[chave]; ok {
		return user
	}
	return nil
}

// resolveName devolve o nome do usuário referenciado; referência não
// resolvida volta como veio.
func (idx *userIndex) resolveName(ref string) string {
	if user := idx.resolve(ref); user != nil {
		return user.Nome
	}
	return strings.TrimSpace(ref)
}

// belongsToUser verifica se alguma das referências aponta para o usuário,
// por id direto ou resolvida pelo índice.
func (idx *userIndex) belongsToUser(userID string, refs ...string) bool {
	alvo := normalizeRef(userID)
	for _, ref := range refs {
		chave := normalizeRef(ref)
		if chave == "" {
			continue
		}
		if chave == alvo {
			return true
		}
		if user := idx.resolve(chave); user != nil && normalizeRef(user.ID) == alvo {
			return true
		}
	}
	return false
}

// CalculateUserMetrics agrega os indicadores analíticos de um usuário sobre
// seus orçamentos e vendas. Qualquer pânico interno é capturado e resulta na
// estrutura zerada: métricas nunca bloqueiam a renderização dos painéis.
func CalculateUserMetrics(userID string, idx *userIndex, budgets []*domain.Budget, sales []*domain.Sale) (metrics domain.UserMetrics) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("Erro ao calcular métricas do usuário %s: %v", userID, r)
			metrics = domain.EmptyUserMetrics()
		}
	}()

	var userBudgets []*domain.Budget
	for _, budget := range budgets {
		if idx.belongsToUser(userID, budget.CriadoPor, budget.VendedorID) {
			userBudgets = append(userBudgets, budget)
		}
	}

	var userSales []*domain.Sale
	for _, sale := range sales {
		if idx.belongsToUser(userID, sale.VendedorID, sale.CriadoPor, sale.VendedorNome) {
			userSales = append(userSales, sale)
		}
	}

	totalMensagens := 0
	totalLigacoes := 0
	totalRespPos := 0
	totalRespNeg := 0
	orcamentosFechados := 0

	for _, budget := range userBudgets {
		totalMensagens += budget.Mensagens
		totalLigacoes += budget.Ligacoes
		totalRespPos += budget.RespPos
		totalRespNeg += budget.RespNeg

		if isClosedStatus(budget.Status) {
			orcamentosFechados++
		}
	}

	totalOrcamentos := len(userBudgets)
	taxaConversao := 0.0
	if totalOrcamentos > 0 {
		taxaConversao = float64(orcamentosFechados) / float64(totalOrcamentos) * 100
	}

	totalVendas := 0.0
	totalComissao := 0.0
	for _, sale := range userSales {
		totalVendas += sale.Valor
		totalComissao += sale.Comissao
	}

	valorMedioVenda := 0.0
	if len(userSales) > 0 {
		valorMedioVenda = totalVendas / float64(len(userSales))
	}

	totalRespostas := totalRespPos + totalRespNeg
	prr := 0.0
	if totalRespostas > 0 {
		prr = float64(totalRespPos) / float64(totalRespostas) * 100
	}

	hp := (totalVendas - totalComissao) / hoursPerMonth
	nep := totalVendas - totalComissao

	oei := 0.0
	if totalOrcamentos > 0 {
		oei = float64(totalMensagens+totalLigacoes) / float64(totalOrcamentos)
	}

	return domain.UserMetrics{
		Communication: domain.CommunicationMetrics{
			Messages: totalMensagens,
			Calls:    totalLigacoes,
			Total:    totalMensagens + totalLigacoes,
		},
		Effectiveness: domain.EffectivenessMetrics{
			RespPos: totalRespPos,
			RespNeg: totalRespNeg,
			PRR:     utils.RoundWithOneDecimalPlace(prr),
		},
		Conversion: domain.ConversionMetrics{
			TotalBudgets: totalOrcamentos,
			Converted:    orcamentosFechados,
			Rate:         utils.RoundWithOneDecimalPlace(taxaConversao),
		},
		Financial: domain.FinancialMetrics{
			AvgSaleValue:         utils.RoundWithTwoDecimalPlace(valorMedioVenda),
			TotalRevenue:         utils.RoundWithTwoDecimalPlace(totalVendas),
			TotalCommission:      utils.RoundWithTwoDecimalPlace(totalComissao),
			ProfitabilityPerHour: utils.RoundWithTwoDecimalPlace(hp),
		},
		Derived: domain.DerivedMetrics{
			OEI: utils.RoundWithTwoDecimalPlace(oei),
			CE:  utils.RoundWithOneDecimalPlace(taxaConversao),
			HP:  utils.RoundWithTwoDecimalPlace(hp),
			PRR: utils.RoundWithOneDecimalPlace(prr),
			NEP: utils.RoundWithTwoDecimalPlace(nep),
		},
	}
}

// isClosedStatus considera fechado qualquer status contendo "fechado" ou
// "convertido", sem distinção de caixa.
func isClosedStatus(status string) bool {
	st := strings.ToLower(status)
	return strings.Contains(st, "fechado") || strings.Contains(st, "convertido")
}

// ConversionScore estima a probabilidade de conversão de um orçamento a
// partir do histórico de contatos, respostas, idade e valor. Resultado em
// [0, 100].
func ConversionScore(budget *domain.Budget) int {
	score := 50

	contatos := budget.Mensagens + budget.Ligacoes
	if contatos > 5 {
		score += 15
	} else if contatos > 2 {
		score += 10
	}

	if budget.RespPos > 0 {
		score += 20
	}

	if dias := utils.DaysSince(budget.DataCriacao); dias != nil {
		if *dias > 30 {
			score -= 20
		} else if *dias > 15 {
			score -= 10
		}
	}

	if budget.Valor > 5000 {
		score += 10
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// CommissionRateByType devolve o percentual de comissão do tipo de venda,
// tolerante a caixa, acentos e hífens. Tipos desconhecidos devolvem nil e o
// chamador recorre à comissão explícita ou zero.
func CommissionRateByType(tipo string) *float64 {
	if strings.TrimSpace(tipo) == "" {
		return nil
	}

	rate := func(v float64) *float64 { return &v }

	switch schema.NormalizeHeader(tipo) {
	case "NEW", "NOVA", "NOVO":
		return rate(0.10)
	case "WALK_IN", "WALKIN":
		return rate(0.05)
	case "RECURRING", "RECORRENTE", "OLD":
		return rate(0.05)
	}

	return nil
}

// EnrichBudget anexa os indicadores derivados exibidos nos painéis.
func EnrichBudget(budget *domain.Budget) domain.BudgetInsights {
	dias := utils.DaysSince(budget.DataCriacao)
	return domain.BudgetInsights{
		Budget:                 *budget,
		DiasDecorridos:         dias,
		CorStatus:              utils.ColorForDays(dias),
		ProbabilidadeConversao: ConversionScore(budget),
	}
}

// EnrichSale correlaciona a venda ao orçamento fechado do mesmo cliente e
// deriva tentativas de contato e valor por tentativa.
func EnrichSale(sale *domain.Sale, budgets []domain.BudgetInsights) domain.SaleInsights {
	insights := domain.SaleInsights{Sale: *sale}

	for i := range budgets {
		budget := &budgets[i]
		if budget.Cliente != sale.Cliente {
			continue
		}
		if budget.Status != domain.BudgetStatusFechado && budget.Status != domain.BudgetStatusFechadoVenda {
			continue
		}

		insights.RelatedBudgetID = budget.ID
		insights.TentativasContato = budget.Mensagens + budget.Ligacoes
		break
	}

	if insights.TentativasContato > 0 {
		insights.ValorPorHora = utils.RoundWithTwoDecimalPlace(sale.Valor / float64(insights.TentativasContato))
	}

	return insights
}
