package schema

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// synonymTable resolve cabeçalhos normalizados para o nome canônico usado nos
// registros. Cobre as variantes conhecidas das planilhas de usuários, vendas,
// orçamentos e configuração; cabeçalhos fora da tabela caem no gerador
// camelCase.
var synonymTable = map[string]string{
	// USUARIOS
	"USER_ID":    "id",
	"ID":         "id",
	"NOME":       "nome",
	"NAME":       "nome",
	"TIPO":       "tipo",
	"TYPE":       "tipo",
	"EMAIL":      "email",
	"E_MAIL":     "email",
	"TELEFONE":   "telefone",
	"PHONE":      "telefone",
	"PIN":        "pin",
	"COMISSAO":   "comissao",
	"COMMISSION": "comissao",
	"STATUS":     "status",

	// Client_List
	"SALES_ID":            "salesId",
	"DATE":                "data",
	"DATA":                "data",
	"CLIENT_NAME":         "cliente",
	"CLIENTE":             "cliente",
	"BUSINESS_NAME":       "empresa",
	"COMPANY":             "empresa",
	"EMPRESA":             "empresa",
	"INVOICE":             "invoice",
	"PRODUCT_DESCRIPTION": "produto",
	"PRODUTO":             "produto",
	"AMOUNT":              "valor",
	"VALOR":               "valor",
	"BALANCE_DUE":         "saldoDevedor",
	"SALDO_DEVEDOR":       "saldoDevedor",
	"PAID":                "valorPago",
	"VALOR_PAGO":          "valorPago",
	"PAYMENT_METHOD":      "metodoPagamento",
	"METODO_PAGAMENTO":    "metodoPagamento",
	"NOTES":               "observacoes",
	"OBSERVACOES":         "observacoes",
	"OF_SALES":            "comissaoPercentual",
	"SELLER_ID":           "vendedorId",
	"VENDEDOR_ID":         "vendedorId",
	"CREATED_BY":          "criadoPor",
	"CRIADO_POR":          "criadoPor",

	// ORÇAMENTOS
	"DATA_CRIACAO":    "dataCriacao",
	"ORIGEM":          "origem",
	"DESCRICAO":       "descricao",
	"DATA_ENVIO":      "dataEnvio",
	"ULTIMO_CONTATO":  "ultimoContato",
	"MSG_ENVIADAS":    "msgEnviadas",
	"LIGACOES_FEITAS": "ligacoesFeitas",
	"RESP_POS":        "respPos",
	"RESP_NEG":        "respNeg",
	"MOTIVO_PERDA":    "motivoPerda",

	// CONFIG
	"CHAVE": "chave",
}

var diacriticsRemover = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeHeader reduz um cabeçalho livre ("Última Contato ", "AMOUNT ($)")
// à forma normalizada: sem acentos, blocos não alfanuméricos viram um único
// underscore, maiúsculas. String vazia permanece vazia.
func NormalizeHeader(cabecalho string) string {
	semAcentos, _, err := transform.String(diacriticsRemover, cabecalho)
	if err != nil {
		semAcentos = cabecalho
	}

	var b strings.Builder
	anteriorSeparador := false
	for _, r := range semAcentos {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
			anteriorSeparador = false
			continue
		}
		if !anteriorSeparador && b.Len() > 0 {
			b.WriteByte('_')
			anteriorSeparador = true
		}
	}

	return strings.Trim(b.String(), "_")
}

// CanonicalField resolve o nome canônico de um cabeçalho normalizado.
// Cabeçalhos desconhecidos geram um nome camelCase determinístico, de modo
// que toda coluna produz algum campo.
func CanonicalField(normalizado string) string {
	if normalizado == "" {
		return ""
	}
	if canonico, ok := synonymTable[normalizado]; ok {
		return canonico
	}
	return toCamelCase(normalizado)
}

func toCamelCase(normalizado string) string {
	segmentos := strings.Split(normalizado, "_")
	var b strings.Builder
	for i, seg := range segmentos {
		if seg == "" {
			continue
		}
		minusculo := strings.ToLower(seg)
		if i == 0 {
			b.WriteString(minusculo)
			continue
		}
		b.WriteString(strings.ToUpper(minusculo[:1]))
		b.WriteString(minusculo[1:])
	}
	return b.String()
}
