package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/fittrack/internal"
	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/config"
	"github.com/2beens/fittrack/internal/exercises"
	"github.com/2beens/fittrack/internal/logging"
	"github.com/2beens/fittrack/internal/misc"
	"github.com/2beens/fittrack/internal/store"
	"github.com/2beens/fittrack/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %s\n", err)
		os.Exit(1)
	}

	closeLogging := logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogsPath,
		LogToStdout:   cfg.LogToStdout,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogFormatJSON,
		Environment:   cfg.Environment,
		SentryEnabled: cfg.SentryEnabled,
		SentryDSN:     cfg.SentryDSN,
	})
	defer closeLogging()

	log.Infof("---->> running in [%s] environment", cfg.Environment)
	log.Debugf("using store file: [%s]", cfg.StorePath)

	if err := run(cfg); err != nil {
		log.Errorf("fittrack: %s", err)
		closeLogging()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("fittrack", "cli", promRegistry)
	defer func() {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile, promRegistry); err != nil {
			log.Errorf("%s", err)
		}
	}()

	fileStore := store.NewFileStore(cfg.StorePath, metricsManager)
	authService := auth.NewService(fileStore, nil, metricsManager)

	exists, err := fileStore.Exists()
	if err != nil {
		return fmt.Errorf("check store file: %w", err)
	}
	if exists {
		if err := authService.Load(ctx); err != nil {
			return fmt.Errorf("load users: %w", err)
		}
		log.Infof("loaded %d users from [%s]", authService.Count(), fileStore.Path())
	} else {
		log.Infof("store file [%s] not found, starting with no users", fileStore.Path())
	}

	quotesManager, err := misc.NewDefaultQuotesManager()
	if err != nil {
		log.Errorf("load quotes: %s", err)
	}

	app, err := internal.NewApp(internal.NewAppParams{
		AuthService:    authService,
		Catalog:        exercises.NewCatalog(),
		QuotesManager:  quotesManager,
		MetricsManager: metricsManager,
		ExportDir:      cfg.ExportDir,
	})
	if err != nil {
		return err
	}

	return newShell(app, os.Stdin, os.Stdout).run(ctx)
}
