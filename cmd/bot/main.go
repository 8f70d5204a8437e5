package main

import (
	"fmt"
	"net/http"

	"github.com/dutyrotation/slack-duty-bot/internal/config"
	"github.com/dutyrotation/slack-duty-bot/internal/database"
	"github.com/dutyrotation/slack-duty-bot/internal/domain/service"
	"github.com/dutyrotation/slack-duty-bot/internal/handlers"
	"github.com/dutyrotation/slack-duty-bot/migrator/sqlite"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

func main() {
	logger := zap.Must(zap.NewProduction())
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found")
	}

	cfg := config.Load()

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("running migrations")
	if err := sqlite.Migrate(db.DB()); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	slackClient := slack.New(cfg.SlackBotToken)

	dm := database.NewInstance(db)
	services := service.NewInstance(dm, slackClient, cfg, clockwork.NewRealClock(), logger)

	services.Scheduler.Start()
	defer services.Scheduler.Stop()

	handler := handlers.New(services, cfg.SlackSigningSecret, logger)

	http.HandleFunc("/slack/commands", handler.HandleSlashCommand)
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	})

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, nil); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
