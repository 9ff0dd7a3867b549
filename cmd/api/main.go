package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fdesign/nexus-sales-api/infrastructure/repository"
	"github.com/fdesign/nexus-sales-api/infrastructure/spreadsheet"
	"github.com/fdesign/nexus-sales-api/internal/api"
	"github.com/fdesign/nexus-sales-api/internal/config"
	"github.com/fdesign/nexus-sales-api/internal/scheduler"
	"github.com/fdesign/nexus-sales-api/internal/usecases/analytics"
	"github.com/fdesign/nexus-sales-api/internal/usecases/authenticating"
	"github.com/fdesign/nexus-sales-api/internal/usecases/selling"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := workbook(cfg.Workbook)
	defer store.Close()

	userRepo := repository.NewUserRepository(store, cfg.Workbook)
	saleRepo := repository.NewSaleRepository(store, cfg.Workbook)
	budgetRepo := repository.NewBudgetRepository(store, cfg.Workbook)
	settingsRepo := repository.NewSettingsRepository(store, cfg.Workbook)
	auditRepo := repository.NewAuditRepository(store, cfg.Workbook)

	authenticator := authenticating.NewService(userRepo, auditRepo, cfg)
	seller := selling.NewService(saleRepo, budgetRepo, settingsRepo, auditRepo)
	insighter := analytics.NewService(userRepo, saleRepo, budgetRepo, settingsRepo)

	snapshotSyncService := scheduler.NewSnapshotSyncService(insighter, cfg)

	if err := snapshotSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de consolidação do snapshot")
	} else {
		logrus.Info("Agendador de consolidação do snapshot iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		authenticator,
		seller,
		insighter,
		snapshotSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// workbook abre (ou cria) a planilha que serve de armazenamento
func workbook(cfg config.Workbook) *spreadsheet.Workbook {
	store, err := spreadsheet.NewWorkbook(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao abrir a planilha de dados")
	}

	logrus.WithField("path", cfg.Path).Info("Planilha de dados aberta com sucesso")
	return store
}
