package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		name     string
		entrada  string
		esperado string
	}{
		{
			name:     "Cabeçalho acentuado",
			entrada:  "Descrição",
			esperado: "DESCRICAO",
		},
		{
			name:     "Espaços e pontuação viram underscore único",
			entrada:  "AMOUNT ($)",
			esperado: "AMOUNT",
		},
		{
			name:     "Múltiplos separadores internos",
			entrada:  "CLIENT  NAME",
			esperado: "CLIENT_NAME",
		},
		{
			name:     "Caixa mista com acento",
			entrada:  "Último Contato",
			esperado: "ULTIMO_CONTATO",
		},
		{
			name:     "Underscore já presente",
			entrada:  "SELLER_ID",
			esperado: "SELLER_ID",
		},
		{
			name:     "Sufixo de pontuação",
			entrada:  "INVOICE #",
			esperado: "INVOICE",
		},
		{
			name:     "String vazia",
			entrada:  "",
			esperado: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.esperado, NormalizeHeader(tt.entrada))
		})
	}
}

func TestNormalizeHeaderIdempotente(t *testing.T) {
	cabecalhos := []string{"Descrição", "AMOUNT ($)", "CLIENT NAME", "seller_id"}

	for _, c := range cabecalhos {
		primeira := NormalizeHeader(c)
		assert.Equal(t, primeira, NormalizeHeader(primeira))
	}
}

func TestCanonicalField(t *testing.T) {
	tests := []struct {
		name        string
		normalizado string
		esperado    string
	}{
		{
			name:        "Sinônimo de cliente",
			normalizado: "CLIENT_NAME",
			esperado:    "cliente",
		},
		{
			name:        "Sinônimo de vendedor",
			normalizado: "SELLER_ID",
			esperado:    "vendedorId",
		},
		{
			name:        "Sinônimo de valor",
			normalizado: "AMOUNT",
			esperado:    "valor",
		},
		{
			name:        "Percentual de comissão da planilha de vendas",
			normalizado: "OF_SALES",
			esperado:    "comissaoPercentual",
		},
		{
			name:        "Desconhecido cai no camelCase",
			normalizado: "CAMPO_EXTRA_NOVO",
			esperado:    "campoExtraNovo",
		},
		{
			name:        "Desconhecido de um segmento",
			normalizado: "REFERENCIA",
			esperado:    "referencia",
		},
		{
			name:        "String vazia",
			normalizado: "",
			esperado:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.esperado, CanonicalField(tt.normalizado))
		})
	}
}
