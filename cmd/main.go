package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KotFed0t/stocknity/config"
	"github.com/KotFed0t/stocknity/data"
	"github.com/KotFed0t/stocknity/data/session"
	"github.com/KotFed0t/stocknity/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/KotFed0t/stocknity/internal/externalApi/stocknityApi"
	"github.com/KotFed0t/stocknity/internal/reportGenerator/xslsxGenerator"
	"github.com/KotFed0t/stocknity/internal/scheduler"
	"github.com/KotFed0t/stocknity/internal/service/authService"
	"github.com/KotFed0t/stocknity/internal/service/cacheMonitor"
	"github.com/KotFed0t/stocknity/internal/service/dashboardService"
	"github.com/KotFed0t/stocknity/internal/service/reportService"
	"github.com/KotFed0t/stocknity/internal/tgbot"
	"github.com/KotFed0t/stocknity/internal/transport/telegram"
	"github.com/KotFed0t/stocknity/internal/transport/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient, err := data.NewRedisClient(ctx, cfg)
	if err != nil {
		slog.Error("can't connect session store", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer redisClient.Close()

	redisSession := session.NewRedisSession(redisClient, cfg)

	apiClient := stocknityApi.New(cfg)

	authSrv := authService.New(cfg, apiClient, redisSession)
	dashboardSrv := dashboardService.New(apiClient, redisSession, authSrv)
	monitor := cacheMonitor.New(apiClient)

	sched := scheduler.New()
	sched.NewIntervalJob("poll stocks cache", monitor.PollStocks, cfg.Jobs.StocksCachePollInterval, true)
	sched.NewIntervalJob("poll annual returns cache", monitor.PollAnnualReturns, cfg.Jobs.AnnualReturnsCachePollInterval, true)

	var reportSrv *reportService.ReportService
	if cfg.GoogleDrive.Enabled() {
		drive, err := googleDriveApi.New(ctx, cfg)
		if err != nil {
			slog.Error("google drive unavailable, exports will be served directly", slog.String("err", err.Error()))
			reportSrv = reportService.New(dashboardSrv, xslsxGenerator.New(), nil)
		} else {
			reportSrv = reportService.New(dashboardSrv, xslsxGenerator.New(), drive)
			sched.NewCrontabJob("delete old exports", drive.DeleteOldFiles, cfg.Jobs.DeleteOldExportsCrontab, false)
		}
	} else {
		reportSrv = reportService.New(dashboardSrv, xslsxGenerator.New(), nil)
	}

	sched.Start()
	defer func() {
		if err := sched.Stop(); err != nil {
			slog.Error("scheduler stop failed", slog.String("err", err.Error()))
		}
	}()

	server, err := web.NewServer(cfg, authSrv, dashboardSrv, monitor, reportSrv)
	if err != nil {
		slog.Error("can't create http server", slog.String("err", err.Error()))
		os.Exit(1)
	}
	server.Start()
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stopCancel()
		if err := server.Stop(stopCtx); err != nil {
			slog.Error("http server stop failed", slog.String("err", err.Error()))
		}
	}()

	if cfg.Telegram.Enabled() {
		tgController := telegram.NewController(authSrv, dashboardSrv, monitor, reportSrv)

		tgBot, err := tgbot.New(cfg, tgController, authSrv)
		if err != nil {
			slog.Error("tgbot disabled", slog.String("err", err.Error()))
		} else {
			tgBot.Start()
			defer tgBot.Stop()
		}
	}

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
