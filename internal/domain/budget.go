package domain

const (
	BudgetStatusAberto          = "Aberto"
	BudgetStatusPropostaEnviada = "Proposta Enviada"
	BudgetStatusFechado         = "Fechado"
	BudgetStatusFechadoVenda    = "Fechado (Venda)"
	BudgetStatusPerdido         = "Perdido"
	BudgetStatusConvertido      = "Convertido em Venda"
)

// Budget representa uma linha da aba de orçamentos já normalizada: datas no
// formato de exibição com o par ISO preservado, valores monetários coagidos.
type Budget struct {
	ID               string  `json:"id"`
	DataCriacao      string  `json:"dataCriacao"`
	DataCriacaoISO   string  `json:"dataCriacaoISO"`
	Origem           string  `json:"origem"`
	CriadoPor        string  `json:"criadoPor"`
	Cliente          string  `json:"cliente"`
	Email            string  `json:"email"`
	Telefone         string  `json:"telefone"`
	Descricao        string  `json:"descricao"`
	Valor            float64 `json:"valor"`
	Status           string  `json:"status"`
	DataEnvio        string  `json:"dataEnvio"`
	DataEnvioISO     string  `json:"dataEnvioISO"`
	UltimoContato    string  `json:"ultimoContato"`
	UltimoContatoISO string  `json:"ultimoContatoISO"`
	Mensagens        int     `json:"mensagens"`
	Ligacoes         int     `json:"ligacoes"`
	RespPos          int     `json:"respPos"`
	RespNeg          int     `json:"respNeg"`
	MotivoPerda      string  `json:"motivoPerda"`
	Observacoes      string  `json:"observacoes"`
	VendedorID       string  `json:"vendedorId"`
	ResponsavelNome  string  `json:"responsavelNome"`
}

// BudgetInsights é o orçamento enriquecido para os painéis.
type BudgetInsights struct {
	Budget
	DiasDecorridos         *int   `json:"diasDecorridos"`
	CorStatus              string `json:"corStatus"`
	ProbabilidadeConversao int    `json:"probabilidadeConversao"`
}

type BudgetRequest struct {
	Cliente     string  `json:"cliente"`
	Email       string  `json:"email"`
	Telefone    string  `json:"telefone"`
	Origem      string  `json:"origem"`
	Descricao   string  `json:"descricao"`
	Valor       float64 `json:"valor"`
	Status      string  `json:"status"`
	Observacoes string  `json:"observacoes"`
}

type BudgetFilters struct {
	Status   string `json:"status"`
	Cliente  string `json:"cliente"`
	Vendedor string `json:"vendedor"`
}
