package domain

// Sale representa uma linha da aba Client_List já normalizada. A comissão é
// o valor híbrido final: a informada na planilha quando positiva, senão o
// percentual aplicado sobre o valor bruto.
type Sale struct {
	ID                 string  `json:"id"`
	Data               string  `json:"data"`
	DataISO            string  `json:"dataISO"`
	Tipo               string  `json:"tipo"`
	Status             string  `json:"status"`
	Cliente            string  `json:"cliente"`
	Empresa            string  `json:"empresa"`
	Invoice            string  `json:"invoice"`
	Produto            string  `json:"produto"`
	Valor              float64 `json:"valor"`
	SaldoDevedor       float64 `json:"saldoDevedor"`
	ValorPago          float64 `json:"valorPago"`
	MetodoPagamento    string  `json:"metodoPagamento"`
	Notas              string  `json:"notas"`
	Comissao           float64 `json:"comissao"`
	ComissaoPercentual float64 `json:"comissaoPercentual"`
	VendedorID         string  `json:"vendedorId"`
	VendedorNome       string  `json:"vendedorNome"`
	CriadoPor          string  `json:"criadoPor"`
}

// SaleInsights agrega os indicadores derivados do orçamento relacionado.
type SaleInsights struct {
	Sale
	RelatedBudgetID   string  `json:"relatedBudgetId"`
	TentativasContato int     `json:"tentativasContato"`
	ValorPorHora      float64 `json:"valorPorHora"`
}

type SaleRequest struct {
	Tipo               string  `json:"tipo"`
	Cliente            string  `json:"cliente"`
	Empresa            string  `json:"empresa"`
	Invoice            string  `json:"invoice"`
	Produto            string  `json:"produto"`
	Valor              float64 `json:"valor"`
	SaldoDevedor       float64 `json:"saldoDevedor"`
	ValorPago          float64 `json:"valorPago"`
	MetodoPagamento    string  `json:"metodoPagamento"`
	Notas              string  `json:"notas"`
	Comissao           float64 `json:"comissao"`
	ComissaoPercentual float64 `json:"comissaoPercentual"`
	VendedorID         string  `json:"vendedorId"`
}

type SaleFilters struct {
	Cliente  string `json:"cliente"`
	Tipo     string `json:"tipo"`
	Vendedor string `json:"vendedor"`
}
