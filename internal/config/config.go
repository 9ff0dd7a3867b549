package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Workbook     Workbook     `mapstructure:",squash"`
	Auth         Auth         `mapstructure:",squash"`
	SnapshotSync SnapshotSync `mapstructure:",squash"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

// Workbook aponta a planilha de trabalho e os nomes das abas consumidas. A
// aba de orçamentos tem um nome legado usado como fallback quando a
// principal não existe.
type Workbook struct {
	Path                 string `mapstructure:"workbook_path"`
	UsersSheet           string `mapstructure:"workbook_users_sheet"`
	SalesSheet           string `mapstructure:"workbook_sales_sheet"`
	BudgetsSheet         string `mapstructure:"workbook_budgets_sheet"`
	BudgetsSheetFallback string `mapstructure:"workbook_budgets_sheet_fallback"`
	ConfigSheet          string `mapstructure:"workbook_config_sheet"`
	AuditSheet           string `mapstructure:"workbook_audit_sheet"`
}

type SnapshotSync struct {
	CronSchedule string `mapstructure:"snapshot_sync_cron"`
	Enabled      bool   `mapstructure:"snapshot_sync_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("WORKBOOK_PATH", "./data/fdesign.xlsx")
	viper.SetDefault("WORKBOOK_USERS_SHEET", "USUARIOS")
	viper.SetDefault("WORKBOOK_SALES_SHEET", "Client_List")
	viper.SetDefault("WORKBOOK_BUDGETS_SHEET", "ORÇAMENTOS")
	viper.SetDefault("WORKBOOK_BUDGETS_SHEET_FALLBACK", "TABLEA DE ORCAMENTOS")
	viper.SetDefault("WORKBOOK_CONFIG_SHEET", "CONFIG")
	viper.SetDefault("WORKBOOK_AUDIT_SHEET", "AUDITORIA")

	viper.SetDefault("AUTH_SECRET", "your_auth_secret")

	// Consolidação agendada do snapshot administrativo
	viper.SetDefault("SNAPSHOT_SYNC_CRON", "0 */2 * * *") // A cada 2 horas
	viper.SetDefault("SNAPSHOT_SYNC_ENABLED", false)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
