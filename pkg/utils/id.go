package utils

import (
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateUniqueID gera identificadores de vendas/orçamentos no padrão
// VEN-ddMMyyyyHHmmss / ORC-ddMMyyyyHHmmss.
func GenerateUniqueID(prefixo string) string {
	agora := time.Now()
	return fmt.Sprintf("%s-%s", prefixo, agora.Format("02012006150405"))
}

// GenerateEntryID gera um identificador curto para registros de auditoria.
func GenerateEntryID() (string, error) {
	return gonanoid.Generate(characters, 6)
}
