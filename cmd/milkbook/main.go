package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/milkbook/milkbook/internal/app"
	"github.com/milkbook/milkbook/internal/balance"
	"github.com/milkbook/milkbook/internal/ledger"
	ledgerhttp "github.com/milkbook/milkbook/internal/ledger/http"
	"github.com/milkbook/milkbook/internal/masterdata"
	"github.com/milkbook/milkbook/internal/observability"
	"github.com/milkbook/milkbook/internal/orders"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	st, closeStore, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("open store", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()

	metrics := observability.NewMetrics()

	masterdataService := masterdata.NewService(st, logger)
	ordersService := orders.NewService(st, logger)
	balanceService := balance.NewService(st, logger, metrics)
	ledgerService := ledger.NewService(st, logger, ledger.Options{StrictRates: cfg.LedgerStrictRates})

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		MasterDataHandler: masterdata.NewHandler(logger, masterdataService),
		OrdersHandler:     orders.NewHandler(logger, ordersService),
		BalanceHandler:    balance.NewHandler(logger, balanceService),
		LedgerHandler:     ledgerhttp.NewHandler(logger, ledgerService, metrics),
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           router,
		ReadTimeout:       cfg.AppReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
