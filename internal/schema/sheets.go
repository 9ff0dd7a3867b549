package schema

// Conjuntos de campos canônicos que carregam datas em cada aba. O leitor
// dinâmico usa esta declaração para formatar a célula como dd/MM/yyyy e
// preservar o original em <campo>ISO, em vez de inspecionar o tipo da célula.
var (
	UserDateFields = map[string]bool{}

	SaleDateFields = map[string]bool{
		"data": true,
	}

	BudgetDateFields = map[string]bool{
		"dataCriacao":   true,
		"dataEnvio":     true,
		"ultimoContato": true,
	}

	AuditDateFields = map[string]bool{
		"timestamp": true,
	}
)
