package repository

import (
	"strings"

	"github.com/fdesign/nexus-sales-api/infrastructure/spreadsheet"
	"github.com/fdesign/nexus-sales-api/internal/config"
)

// SettingsRepository lê a tabela chave/valor da aba CONFIG.
type SettingsRepository interface {
	GetSettings() (map[string]string, error)
	GetValue(chave, padrao string) string
}

type settingsRepository struct {
	store spreadsheet.Store
	sheet string
}

func NewSettingsRepository(store spreadsheet.Store, cfg config.Workbook) SettingsRepository {
	return &settingsRepository{
		store: store,
		sheet: cfg.ConfigSheet,
	}
}

func (r *settingsRepository) GetSettings() (map[string]string, error) {
	linhas, err := r.store.ReadSheet(r.sheet)
	if err != nil {
		return nil, err
	}

	settings := make(map[string]string)
	for i, linha := range linhas {
		if i == 0 || len(linha) == 0 {
			continue
		}
		chave := strings.TrimSpace(linha[0])
		if chave == "" {
			continue
		}
		valor := ""
		if len(linha) > 1 {
			valor = strings.TrimSpace(linha[1])
		}
		settings[chave] = valor
	}

	return settings, nil
}

func (r *settingsRepository) GetValue(chave, padrao string) string {
	settings, err := r.GetSettings()
	if err != nil {
		return padrao
	}
	if valor, ok := settings[chave]; ok {
		return valor
	}
	return padrao
}
