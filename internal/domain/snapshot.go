package domain

// UserWithMetrics é a projeção de usuário que o painel administrativo
// consome, sem o PIN.
type UserWithMetrics struct {
	ID       string      `json:"id"`
	Nome     string      `json:"nome"`
	Tipo     string      `json:"tipo"`
	Email    string      `json:"email"`
	Telefone string      `json:"telefone"`
	Comissao float64     `json:"comissao"`
	Status   string      `json:"status"`
	Metrics  UserMetrics `json:"metrics"`
}

type KPIs struct {
	TotalVendas       float64 `json:"totalVendas"`
	TotalComissoes    float64 `json:"totalComissoes"`
	OrcamentosAbertos int     `json:"orcamentosAbertos"`
	VendedoresAtivos  int     `json:"vendedoresAtivos"`
	TaxaConversao     float64 `json:"taxaConversao"`
}

// ChartSeries é a matriz rótulo/valor consumida pelos gráficos dos painéis;
// a primeira linha é o cabeçalho.
type ChartSeries [][]interface{}

type Reports struct {
	KPIs              KPIs        `json:"kpis"`
	GrafVendasPorTipo ChartSeries `json:"grafVendasPorTipo"`
	GrafOrcPorStatus  ChartSeries `json:"grafOrcPorStatus"`
}

// Snapshot é o resultado completo da consolidação administrativa: usuários
// com métricas, orçamentos e vendas enriquecidos, relatórios agregados e a
// tabela de configuração.
type Snapshot struct {
	Success  bool              `json:"success"`
	Users    []UserWithMetrics `json:"users"`
	Budgets  []BudgetInsights  `json:"budgets"`
	Sales    []SaleInsights    `json:"sales"`
	Reports  Reports           `json:"reports"`
	Settings map[string]string `json:"settings"`
}
