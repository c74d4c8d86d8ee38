package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"golang.org/x/time/rate"

	"github.com/DinosaurDerek/rocketlink/internal/app/port"
	"github.com/DinosaurDerek/rocketlink/internal/app/service"
	"github.com/DinosaurDerek/rocketlink/internal/app/state"
	"github.com/DinosaurDerek/rocketlink/internal/client"
	"github.com/DinosaurDerek/rocketlink/internal/config"
	"github.com/DinosaurDerek/rocketlink/internal/domain/entity"
	"github.com/DinosaurDerek/rocketlink/internal/infrastructure/contract"
	"github.com/DinosaurDerek/rocketlink/internal/infrastructure/network"
	netclient "github.com/DinosaurDerek/rocketlink/internal/infrastructure/network/client"
	"github.com/DinosaurDerek/rocketlink/internal/infrastructure/restapi"
	"github.com/DinosaurDerek/rocketlink/internal/infrastructure/tokenloader"
	"github.com/DinosaurDerek/rocketlink/internal/infrastructure/visibility"
	"github.com/DinosaurDerek/rocketlink/internal/infrastructure/wallet"
	"github.com/DinosaurDerek/rocketlink/internal/pkg/poller"
	"github.com/DinosaurDerek/rocketlink/internal/pkg/utils"
	"github.com/DinosaurDerek/rocketlink/pkg/metrics"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	slogHandler := zapslog.NewHandler(zapLogger.Core())
	slog.SetDefault(slog.New(slogHandler))

	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Warnf("Invalid log level in config: %s. Defaulting to Info.", cfg.Logging.Level)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if cfg.Logging.File != "" {
		file, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			log.SetOutput(file)
		} else {
			log.Infof("Failed to log to file, using default stdout: %v", err)
		}
	}

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	metrics.MustRegisterMetrics()

	tokens, err := tokenloader.LoadTokens(cfg.TokensFile)
	if err != nil {
		zapLogger.Fatal("Failed to load token catalog", zap.Error(err))
	}
	for _, t := range tokens {
		if _, ok := cfg.Contracts[t.ID]; !ok {
			zapLogger.Fatal("Token has no deployed monitor contract configured",
				zap.String("token", t.ID))
		}
	}

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	provider := netclient.NewProvider(
		cfg.Chain.RPCURL,
		time.Duration(cfg.RpcClient.DialTimeoutMs)*time.Millisecond,
		time.Duration(cfg.RpcClient.CallTimeoutMs)*time.Millisecond,
		zapLogger,
	)
	defer provider.Close()

	// The wallet bridge is optional; without it the dashboard is read-only.
	var session port.WalletSession
	if bridge, err := wallet.Dial(rootCtx, cfg.Wallet.BridgeURL, zapLogger); err != nil {
		zapLogger.Warn("Wallet bridge not available, write operations disabled", zap.Error(err))
	} else {
		session = bridge
		defer bridge.Close()
		zapLogger.Info("Wallet bridge connected", zap.String("url", cfg.Wallet.BridgeURL))
	}

	guard := network.NewGuard(session, cfg.Chain.Metadata(), zapLogger)
	registry := contract.NewRegistry(provider, guard, session, cfg.Contracts, zapLogger)

	limiter := rate.NewLimiter(rate.Limit(cfg.RpcClient.RateLimit), cfg.RpcClient.BurstLimit)
	feedSvc := service.NewFeedService(registry, limiter, zapLogger)
	monitorSvc := service.NewMonitorService(registry, zapLogger)
	writeSvc := service.NewWriteService(registry, registry, zapLogger)

	historyClient := client.NewMarketDataClient(
		cfg.History.BaseURL,
		time.Duration(cfg.History.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
	)
	historySvc := service.NewHistoryService(
		historyClient,
		time.Duration(cfg.History.CacheTTLMinutes)*time.Minute,
		zapLogger,
	)

	store := state.NewStore()
	store.ReplaceTokens(tokens)
	defer store.Close()

	tracker := visibility.NewTracker(
		time.Duration(cfg.Polling.VisibilityTTLSeconds)*time.Second,
		*cfg.Polling.StartVisible,
		zapLogger,
	)
	defer tracker.Close()

	go crosscheckFeeds(rootCtx, registry, tokens, zapLogger)

	feedPoller := poller.Start(rootCtx, poller.Options{
		Name:              "feed_prices",
		Interval:          time.Duration(cfg.Polling.FeedIntervalMillis) * time.Millisecond,
		RespectVisibility: true,
		Visibility:        tracker,
		Logger:            zapLogger,
	}, func(ctx context.Context) {
		defer metrics.PollCycles.WithLabelValues("feed_prices").Inc()
		current, _ := store.Tokens()
		updated, err := feedSvc.RefreshAll(ctx, current)
		if err != nil {
			store.SetFeedError("failed to refresh feed prices")
			return
		}
		store.ReplaceTokens(updated)
	})
	defer feedPoller.Stop()

	monitorPoller := poller.Start(rootCtx, poller.Options{
		Name:              "monitor_snapshot",
		Interval:          time.Duration(cfg.Polling.MonitorIntervalMillis) * time.Millisecond,
		RespectVisibility: true,
		Visibility:        tracker,
		Logger:            zapLogger,
	}, func(ctx context.Context) {
		defer metrics.PollCycles.WithLabelValues("monitor_snapshot").Inc()
		tokenID := store.Selection()
		if tokenID == "" {
			return
		}
		snapshot, err := monitorSvc.Snapshot(ctx, tokenID)
		if err != nil {
			store.SetMonitorError(tokenID, "failed to load contract data")
			return
		}
		store.SetSnapshot(tokenID, snapshot)
	})
	defer monitorPoller.Stop()

	handlers := restapi.NewHandlers(store, monitorSvc, writeSvc, historySvc, session, tracker, zapLogger)
	router := restapi.SetupRouter(handlers, zapLogger)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	zapLogger.Info("Prometheus metrics endpoint enabled", zap.String("path", "/metrics"))

	pprofRouter := router.Group("/debug/pprof")
	{
		pprofRouter.GET("/", gin.WrapF(pprof.Index))
		pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
		pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
		pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
		pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")
	rootCancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}

// crosscheckFeeds compares each monitor contract's configured feed with the
// token catalog and logs mismatches. Purely diagnostic; a mismatch means the
// chart and the breach state would track different feeds.
func crosscheckFeeds(ctx context.Context, registry *contract.Registry, tokens []entity.Token, logger *zap.Logger) {
	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, t := range tokens {
		onChain, err := registry.ReadConfiguredFeed(checkCtx, t.ID)
		if err != nil {
			logger.Warn("Could not read monitor's configured feed",
				zap.String("token", t.ID), zap.Error(err))
			continue
		}
		if !strings.EqualFold(onChain, t.FeedAddress) {
			logger.Warn("Monitor contract feed differs from token catalog",
				zap.String("token", t.ID),
				zap.String("catalog_feed", t.FeedAddress),
				zap.String("contract_feed", onChain))
		}
	}
}
