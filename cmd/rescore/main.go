// Rescore is an operator tool: it reruns the scoring pipeline over every
// session of one athlete, oldest first, optionally loading sessions and
// athlete settings from a JSON export beforehand.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/config"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/db"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/logging"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/governance"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/repo"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/scorer"
	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/streak"

	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev ]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	userID := flag.String("user", "", "id of the athlete whose sessions are rescored")
	importPath := flag.String("import", "", "optional JSON export with sessions and settings to load first")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	logging.Setup(logging.LoggerSetupParams{
		LogToStdout: true,
		LogLevel:    *logLevel,
	})

	if *userID == "" {
		log.Fatalln("athlete id not specified, use -user")
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}
	secrets, err := config.LoadSecrets()
	if err != nil {
		log.Fatalf("load secrets: %s", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := openStore(ctx, cfg, secrets)
	if err != nil {
		log.Fatalf("open store: %s", err)
	}
	defer store.Close()

	if *importPath != "" {
		f, err := os.Open(*importPath)
		if err != nil {
			log.Fatalf("open import file: %s", err)
		}
		imported, err := importExport(ctx, store, f)
		_ = f.Close()
		if err != nil {
			log.Fatalf("import %s: %s", *importPath, err)
		}
		log.Infof("imported %d sessions from %s", imported, *importPath)
	}

	service := scorer.NewService(
		store,
		streak.NewTracker(store),
		governance.NewEngine(store, cfg.Governance),
		nil,
	)

	summary, err := rescoreAthlete(ctx, store, service, *userID)
	if err != nil {
		log.Fatalf("rescore [%s]: %s", *userID, err)
	}
	log.Infof("rescored %d sessions of [%s], %d flags raised", summary.Sessions, *userID, summary.Flags)
}

func openStore(ctx context.Context, cfg *config.Config, secrets config.Secrets) (repo.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:     cfg.PostgresHost,
			DBPort:     cfg.PostgresPort,
			DBName:     cfg.PostgresDBName,
			DBUser:     cfg.PostgresUser,
			DBPassword: secrets.PostgresPassword,
		})
		if err != nil {
			return nil, err
		}
		return repo.NewPostgres(pool), nil
	case config.StoreDriverSQLite:
		return repo.OpenSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("store driver [%s] cannot be rescored", cfg.StoreDriver)
	}
}
