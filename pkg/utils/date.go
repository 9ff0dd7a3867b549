package utils

import (
	"strconv"
	"strings"
	"time"
)

const (
	// DisplayDateLayout é o formato de exibição usado em todos os painéis.
	DisplayDateLayout = "02/01/2006"

	// serialEpochOffset é a diferença em dias entre a época das planilhas
	// (30/12/1899) e a época Unix.
	serialEpochOffset = 25569

	millisPerDay = 86400000
)

// CoerceDate interpreta as codificações de data encontradas nas planilhas:
// time.Time nativo, serial de planilha (> 1000), timestamp em milissegundos
// (> 1e11) e strings delimitadas por "/" ou "-". Retorna false quando o valor
// não representa uma data.
func CoerceDate(valor interface{}) (time.Time, bool) {
	switch v := valor.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v, true

	case float64:
		return coerceNumericDate(v)

	case int:
		return coerceNumericDate(float64(v))

	case int64:
		return coerceNumericDate(float64(v))

	case string:
		texto := strings.TrimSpace(v)
		if texto == "" || texto == "-" {
			return time.Time{}, false
		}

		// Serial ou timestamp gravado como texto. Números abaixo de
		// cinco dígitos são anos soltos ("2024"), não seriais.
		if numero, err := strconv.ParseFloat(texto, 64); err == nil {
			if numero >= 10000 {
				return coerceNumericDate(numero)
			}
			return time.Time{}, false
		}

		return parseDelimitedDate(texto)
	}

	return time.Time{}, false
}

func coerceNumericDate(valor float64) (time.Time, bool) {
	if valor > 1e11 {
		return time.UnixMilli(int64(valor)).UTC(), true
	}
	if valor > 1000 {
		millis := int64((valor-serialEpochOffset)*millisPerDay + 0.5)
		return time.UnixMilli(millis).UTC(), true
	}
	return time.Time{}, false
}

// parseDelimitedDate interpreta strings "dd/mm/yyyy", "mm/dd/yyyy" ou
// variantes com "-", desambiguando pelo componente maior que 12. Anos de
// dois dígitos são promovidos somando 2000.
func parseDelimitedDate(texto string) (time.Time, bool) {
	apenasData := strings.Fields(texto)[0]
	partes := strings.FieldsFunc(apenasData, func(r rune) bool {
		return r == '/' || r == '-'
	})

	if len(partes) < 3 {
		return time.Time{}, false
	}

	p1, err1 := strconv.Atoi(partes[0])
	p2, err2 := strconv.Atoi(partes[1])
	p3, err3 := strconv.Atoi(partes[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}

	if p3 < 100 {
		p3 += 2000
	}

	// Tenta dd/mm/yyyy primeiro, depois mm/dd/yyyy
	if p1 <= 31 && p2 <= 12 {
		return time.Date(p3, time.Month(p2), p1, 0, 0, 0, 0, time.Local), true
	}
	if p2 <= 31 && p1 <= 12 {
		return time.Date(p3, time.Month(p1), p2, 0, 0, 0, 0, time.Local), true
	}

	return time.Time{}, false
}

// FormatDate formata qualquer codificação de data aceita por CoerceDate como
// dd/MM/yyyy. Valores não interpretáveis resultam no marcador "-", nunca em
// erro.
func FormatDate(valor interface{}) string {
	data, ok := CoerceDate(valor)
	if !ok {
		return "-"
	}
	return data.Format(DisplayDateLayout)
}

// ToISO converte a data para ISO-8601 (UTC). Data zero resulta em "".
func ToISO(data time.Time) string {
	if data.IsZero() {
		return ""
	}
	return data.UTC().Format("2006-01-02T15:04:05.000Z")
}

// DaysSince calcula dias inteiros decorridos desde uma data no formato de
// exibição dd/MM/yyyy. Retorna nil quando a string não tem três componentes.
func DaysSince(dataStr string) *int {
	if dataStr == "" || dataStr == "-" {
		return nil
	}

	partes := strings.Split(dataStr, "/")
	if len(partes) != 3 {
		return nil
	}

	dia, err1 := strconv.Atoi(partes[0])
	mes, err2 := strconv.Atoi(partes[1])
	ano, err3 := strconv.Atoi(partes[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return nil
	}

	passada := time.Date(ano, time.Month(mes), dia, 0, 0, 0, 0, time.Local)
	dias := int(time.Since(passada).Hours() / 24)
	return &dias
}

// ColorForDays devolve a cor de status dos painéis conforme o tempo
// decorrido desde o último evento do orçamento.
func ColorForDays(dias *int) string {
	if dias == nil {
		return "gray"
	}
	if *dias <= 7 {
		return "green"
	}
	if *dias <= 15 {
		return "yellow"
	}
	return "burgundy"
}
