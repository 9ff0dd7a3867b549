package repository

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fdesign/nexus-sales-api/infrastructure/spreadsheet"
	"github.com/fdesign/nexus-sales-api/internal/config"
	"github.com/fdesign/nexus-sales-api/pkg/utils"
)

// AuditRepository grava a trilha de auditoria na aba AUDITORIA. Falhas de
// gravação são registradas em log e não propagadas: auditoria nunca bloqueia
// a operação auditada.
type AuditRepository interface {
	Register(usuario, acao, detalhes string)
}

type auditRepository struct {
	store spreadsheet.Store
	sheet string
}

func NewAuditRepository(store spreadsheet.Store, cfg config.Workbook) AuditRepository {
	return &auditRepository{
		store: store,
		sheet: cfg.AuditSheet,
	}
}

func (r *auditRepository) Register(usuario, acao, detalhes string) {
	if usuario == "" {
		usuario = "Sistema"
	}

	entryID, err := utils.GenerateEntryID()
	if err != nil {
		logrus.WithError(err).Warn("Erro ao gerar identificador de auditoria")
		entryID = "-"
	}

	err = r.store.AppendRow(r.sheet, []interface{}{
		time.Now().Format("02/01/2006 15:04:05"),
		usuario,
		acao,
		detalhes,
		entryID,
	})
	if err != nil {
		logrus.WithError(err).Warn("Erro ao registrar auditoria")
	}
}
