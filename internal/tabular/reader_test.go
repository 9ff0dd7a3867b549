package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fdesign/nexus-sales-api/internal/schema"
)

func TestReadRecords(t *testing.T) {
	linhas := [][]string{
		{"CLIENT NAME", "AMOUNT ($)", "SELLER_ID"},
		{"Maria Souza", "$1,250.00", "USR-001"},
		{"", "", ""},
		{"João Lima", "980", "USR-002"},
	}

	registros := ReadRecords(linhas, nil)
	require.Len(t, registros, 2)

	primeiro := registros[0]
	assert.Equal(t, "Maria Souza", primeiro.Get("CLIENT NAME"))
	assert.Equal(t, "Maria Souza", primeiro.Get("CLIENT_NAME"))
	assert.Equal(t, "Maria Souza", primeiro.Get("cliente"))
	assert.Equal(t, "$1,250.00", primeiro.Get("valor"))
	assert.Equal(t, "USR-002", registros[1].Get("vendedorId"))
}

func TestReadRecordsAbaVazia(t *testing.T) {
	assert.Empty(t, ReadRecords(nil, nil))
	assert.Empty(t, ReadRecords([][]string{}, nil))
	assert.Empty(t, ReadRecords([][]string{{"ID", "NOME"}}, nil))
}

func TestReadRecordsLinhaCurta(t *testing.T) {
	linhas := [][]string{
		{"ID", "NOME", "EMAIL"},
		{"USR-001", "Ana"},
	}

	registros := ReadRecords(linhas, nil)
	require.Len(t, registros, 1)
	assert.Equal(t, "Ana", registros[0].Get("nome"))
	assert.Equal(t, "", registros[0].Get("email"))
}

func TestReadRecordsCampoDeData(t *testing.T) {
	linhas := [][]string{
		{"ID", "DATA_CRIACAO", "CLIENTE"},
		{"ORC-1", "15/03/2024", "Maria"},
		{"ORC-2", "45292", "João"},
		{"ORC-3", "-", "Pedro"},
	}

	registros := ReadRecords(linhas, schema.BudgetDateFields)
	require.Len(t, registros, 3)

	assert.Equal(t, "15/03/2024", registros[0].Get("dataCriacao"))
	assert.NotEmpty(t, registros[0].Get("dataCriacaoISO"))

	// Serial de planilha formatado como data de exibição
	assert.Equal(t, "01/01/2024", registros[1].Get("dataCriacao"))
	assert.NotEmpty(t, registros[1].Get("dataCriacaoISO"))

	// Marcador de ausência não é coagido
	assert.Equal(t, "-", registros[2].Get("dataCriacao"))
}

func TestReadRecordsColunaDuplicada(t *testing.T) {
	linhas := [][]string{
		{"STATUS", "STATUS"},
		{"Aberto", "Perdido"},
	}

	registros := ReadRecords(linhas, nil)
	require.Len(t, registros, 1)

	// First-write-wins: a primeira coluna prevalece
	assert.Equal(t, "Aberto", registros[0].Get("status"))
}
