package domain

// UserMetrics agrupa os indicadores analíticos de um usuário. Os campos
// derivados repetem os blocos principais sob as siglas exibidas nos painéis:
// OEI (índice de engajamento), CE (conversão), HP (rentabilidade por hora),
// PRR (taxa de resposta positiva) e NEP (desempenho econômico líquido).
type UserMetrics struct {
	Communication CommunicationMetrics `json:"communication"`
	Effectiveness EffectivenessMetrics `json:"effectiveness"`
	Conversion    ConversionMetrics    `json:"conversion"`
	Financial     FinancialMetrics     `json:"financial"`
	Derived       DerivedMetrics       `json:"derived"`
}

type CommunicationMetrics struct {
	Messages int `json:"messages"`
	Calls    int `json:"calls"`
	Total    int `json:"total"`
}

type EffectivenessMetrics struct {
	RespPos int     `json:"respPos"`
	RespNeg int     `json:"respNeg"`
	PRR     float64 `json:"prr"`
}

type ConversionMetrics struct {
	TotalBudgets int     `json:"totalBudgets"`
	Converted    int     `json:"converted"`
	Rate         float64 `json:"rate"`
}

type FinancialMetrics struct {
	AvgSaleValue         float64 `json:"avgSaleValue"`
	TotalRevenue         float64 `json:"totalRevenue"`
	TotalCommission      float64 `json:"totalCommission"`
	ProfitabilityPerHour float64 `json:"profitabilityPerHour"`
}

type DerivedMetrics struct {
	OEI float64 `json:"oei"`
	CE  float64 `json:"ce"`
	HP  float64 `json:"hp"`
	PRR float64 `json:"prr"`
	NEP float64 `json:"nep"`
}

// EmptyUserMetrics devolve a estrutura zerada usada quando o cálculo falha:
// métricas nunca bloqueiam a renderização dos painéis.
func EmptyUserMetrics() UserMetrics {
	return UserMetrics{}
}
