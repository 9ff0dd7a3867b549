package domain

// SaleHistoryEntry é um item do histórico recente do painel pessoal.
type SaleHistoryEntry struct {
	Data     string `json:"data"`
	Valor    string `json:"valor"`
	Vendedor string `json:"vendedor"`
}

// Dashboard é o painel pessoal do vendedor; administradores veem o
// consolidado de todos.
type Dashboard struct {
	Nome              string             `json:"nome"`
	TotalVendas       float64            `json:"totalVendas"`
	TotalComissao     float64            `json:"totalComissao"`
	TotalOrcamentos   int                `json:"totalOrcamentos"`
	Historico         []SaleHistoryEntry `json:"historico"`
	GraficoVendas     ChartSeries        `json:"graficoVendas"`
	GraficoOrcamentos ChartSeries        `json:"graficoOrcamentos"`
}

// SearchResult é um item da busca unificada sobre vendas e orçamentos.
type SearchResult struct {
	ID          string `json:"id"`
	NomeCliente string `json:"nomeCliente"`
	Telefone    string `json:"telefone"`
	Email       string `json:"email"`
	Produto     string `json:"produto"`
	Tipo        string `json:"tipo"`
}
