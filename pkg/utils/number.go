package utils

import (
	"math"
	"strings"
)

// NormalizeNumeric converte valores monetários heterogêneos ("$1,234.56",
// "1.234,56", "R$ 500") para float64. Regra de separador de milhar: uma
// vírgula seguida de exatamente três dígitos sem outro dígito ou vírgula na
// sequência é removida; a primeira vírgula restante vira ponto decimal.
// Entrada inválida resulta em 0, nunca em erro.
func NormalizeNumeric(valor string) float64 {
	limpo := stripNonNumeric(valor)
	limpo = removeThousandsCommas(limpo)
	limpo = strings.Replace(limpo, ",", ".", 1)

	numero := parseFloatPrefix(limpo)
	if math.IsNaN(numero) || math.IsInf(numero, 0) {
		return 0
	}
	return numero
}

// stripNonNumeric mantém apenas dígitos, vírgula, ponto e sinal negativo.
func stripNonNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// removeThousandsCommas remove vírgulas seguidas de exatamente três dígitos
// quando o caractere seguinte não é dígito nem vírgula.
func removeThousandsCommas(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] != ',' {
			b.WriteRune(runes[i])
			continue
		}

		digitos := 0
		j := i + 1
		for j < len(runes) && runes[j] >= '0' && runes[j] <= '9' {
			digitos++
			j++
		}

		seguinteSeparadorOuDigito := j < len(runes) && (runes[j] == ',' || (runes[j] >= '0' && runes[j] <= '9'))
		if digitos == 3 && !seguinteSeparadorOuDigito {
			continue
		}
		// Mais de três dígitos após a vírgula: apenas os três primeiros
		// contam para a regra de milhar, então dígito em seguida invalida.
		b.WriteRune(runes[i])
	}
	return b.String()
}

// parseFloatPrefix interpreta o maior prefixo numérico válido da string, no
// mesmo espírito do parseFloat de planilhas: "1.234.56" resulta em 1.234.
// Sem prefixo válido resulta NaN.
func parseFloatPrefix(s string) float64 {
	i := 0
	n := len(s)
	sinal := 1.0

	if i < n && (s[i] == '-' || s[i] == '+') {
		if s[i] == '-' {
			sinal = -1.0
		}
		i++
	}

	inteiro := 0.0
	temDigito := false
	for i < n && s[i] >= '0' && s[i] <= '9' {
		inteiro = inteiro*10 + float64(s[i]-'0')
		temDigito = true
		i++
	}

	fracao := 0.0
	if i < n && s[i] == '.' {
		i++
		divisor := 10.0
		for i < n && s[i] >= '0' && s[i] <= '9' {
			fracao += float64(s[i]-'0') / divisor
			divisor *= 10
			temDigito = true
			i++
		}
	}

	if !temDigito {
		return math.NaN()
	}
	return sinal * (inteiro + fracao)
}

// RoundWithTwoDecimalPlace arredonda valores monetários para duas casas.
func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}
	return math.Round(f*100) / 100
}

// RoundWithOneDecimalPlace arredonda percentuais para uma casa.
func RoundWithOneDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}
	return math.Round(f*10) / 10
}
