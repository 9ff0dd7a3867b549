package tabular

import (
	"strings"

	"github.com/fdesign/nexus-sales-api/internal/schema"
	"github.com/fdesign/nexus-sales-api/pkg/utils"
)

// Record é o mapeamento produzido de uma linha. Cada célula fica acessível
// por três chaves: cabeçalho original, cabeçalho normalizado e campo
// canônico, todas apontando para o mesmo valor coagido.
type Record map[string]string

// Get devolve o valor do registro por qualquer uma das chaves.
func (r Record) Get(chave string) string {
	return r[chave]
}

// column guarda as três chaves resolvidas de uma coluna, calculadas uma única
// vez por aba.
type column struct {
	raw         string
	normalized  string
	canonical   string
	isDateField bool
}

// ReadRecords transforma as linhas brutas de uma aba (primeira linha =
// cabeçalho) em registros ordenados. Linhas totalmente vazias são
// descartadas; aba ausente ou vazia produz uma fatia vazia, nunca erro.
// Campos declarados em dateFields são formatados como dd/MM/yyyy e o valor
// ISO original é preservado em <campo>ISO.
func ReadRecords(linhas [][]string, dateFields map[string]bool) []Record {
	if len(linhas) == 0 {
		return []Record{}
	}

	colunas := resolveColumns(linhas[0], dateFields)
	registros := make([]Record, 0, len(linhas)-1)

	for _, linha := range linhas[1:] {
		if isBlankRow(linha) {
			continue
		}
		registros = append(registros, buildRecord(colunas, linha))
	}

	return registros
}

func resolveColumns(cabecalho []string, dateFields map[string]bool) []column {
	colunas := make([]column, 0, len(cabecalho))
	for _, bruto := range cabecalho {
		normalizado := schema.NormalizeHeader(bruto)
		canonico := schema.CanonicalField(normalizado)
		colunas = append(colunas, column{
			raw:         strings.TrimSpace(bruto),
			normalized:  normalizado,
			canonical:   canonico,
			isDateField: dateFields != nil && dateFields[canonico],
		})
	}
	return colunas
}

func buildRecord(colunas []column, linha []string) Record {
	registro := make(Record, len(colunas)*3)

	for i, col := range colunas {
		if col.canonical == "" {
			continue
		}

		valor := ""
		if i < len(linha) {
			valor = strings.TrimSpace(linha[i])
		}

		if col.isDateField && valor != "" {
			setIfAbsent(registro, col.canonical+"ISO", isoValue(valor))
			valor = utils.FormatDate(valor)
		}

		setIfAbsent(registro, col.raw, valor)
		setIfAbsent(registro, col.normalized, valor)
		setIfAbsent(registro, col.canonical, valor)
	}

	return registro
}

// setIfAbsent aplica first-write-wins: colunas duplicadas não sobrescrevem o
// valor já registrado.
func setIfAbsent(registro Record, chave, valor string) {
	if chave == "" {
		return
	}
	if _, existe := registro[chave]; existe {
		return
	}
	registro[chave] = valor
}

func isoValue(valor string) string {
	data, ok := utils.CoerceDate(valor)
	if !ok {
		return ""
	}
	return utils.ToISO(data)
}

func isBlankRow(linha []string) bool {
	for _, celula := range linha {
		if strings.TrimSpace(celula) != "" {
			return false
		}
	}
	return true
}
