package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/sayaji-jay/anjani-pincode-system/internal/core/config"
	"github.com/sayaji-jay/anjani-pincode-system/internal/core/logger"
	"github.com/sayaji-jay/anjani-pincode-system/internal/core/proxy"
	"github.com/sayaji-jay/anjani-pincode-system/internal/core/server"
	"github.com/sayaji-jay/anjani-pincode-system/internal/core/store"
	dispatchadapter "github.com/sayaji-jay/anjani-pincode-system/internal/features/dispatch/adapters"
	dispatchhandler "github.com/sayaji-jay/anjani-pincode-system/internal/features/dispatch/handler"
	dispatchservice "github.com/sayaji-jay/anjani-pincode-system/internal/features/dispatch/service"
	"github.com/sayaji-jay/anjani-pincode-system/internal/features/export"
	pincodeadapter "github.com/sayaji-jay/anjani-pincode-system/internal/features/pincode/adapters"
	pincodehandler "github.com/sayaji-jay/anjani-pincode-system/internal/features/pincode/handler"
	pincodeservice "github.com/sayaji-jay/anjani-pincode-system/internal/features/pincode/service"
	trackingadapter "github.com/sayaji-jay/anjani-pincode-system/internal/features/tracking/adapters"
	trackinghandler "github.com/sayaji-jay/anjani-pincode-system/internal/features/tracking/handler"
	trackingservice "github.com/sayaji-jay/anjani-pincode-system/internal/features/tracking/service"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	httpTimeout := time.Duration(cfg.Scraper.HTTPTimeoutSeconds) * time.Second

	// Redis backs the outcome ledger and the row store.
	redisStore, err := store.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisStore.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisStore.Ping(pingCtx); err != nil {
		l.Fatal("Redis ping failed", zap.Error(err))
	}
	l.Info("Redis connection verified")

	// Portal session and pincode report pipeline.
	session := pincodeadapter.NewSessionManager(cfg.Portal, proxy.Settings{
		Hostname: cfg.Proxy.Host,
		Port:     cfg.Proxy.Port,
		Username: cfg.Proxy.Username,
		Password: cfg.Proxy.Password,
	})
	reportAdapter := pincodeadapter.NewAnjaniReportAdapter(cfg.Portal.PincodeReportURL, session, httpTimeout)
	ledger := pincodeadapter.NewRedisLedger(redisStore)
	rowStore := pincodeadapter.NewRedisRowStore(redisStore)

	pincodeSvc := pincodeservice.NewPincodeService(
		reportAdapter,
		ledger,
		rowStore,
		cfg.Scraper.PauseEvery,
		time.Duration(cfg.Scraper.PauseSeconds)*time.Second,
		cfg.Scraper.DeliveryZoneThreshold,
	)
	pincodeHdl := pincodehandler.NewPincodeHandler(pincodeSvc, pincodeadapter.LoadPincodeList)

	// Tracking scraper.
	trackingAdapter := trackingadapter.NewAnjaniTrackingAdapter(cfg.Portal.TrackingURL, httpTimeout)
	trackingSvc := trackingservice.NewTrackingService(trackingAdapter, cfg.Scraper.TrackingConcurrency)
	trackingHdl := trackinghandler.NewTrackingHandler(trackingSvc)

	// Order-management sync.
	orderAdapter := dispatchadapter.NewOrderManagementAdapter(cfg.Dispatch.URL, httpTimeout)
	dispatchSvc := dispatchservice.NewDispatchService(orderAdapter, trackingSvc)
	dispatchHdl := dispatchhandler.NewDispatchHandler(dispatchSvc)

	// Workbook export.
	exporter := export.NewExporter(rowStore, ledger, cfg.Scraper.DeliveryZoneThreshold)
	exportHdl := export.NewHandler(exporter, cfg.Scraper.ExportPath)

	srv := server.New(cfg)

	srv.App.Get("/tracking/:number", trackingHdl.GetTracking)
	srv.App.Post("/tracking/batch", trackingHdl.GetTrackingBatch)
	srv.App.Post("/pincodes/batch", pincodeHdl.ProcessBatch)
	srv.App.Get("/pincodes/zones", pincodeHdl.GetDeliveryZones)
	srv.App.Post("/pincodes/export", exportHdl.Export)
	srv.App.Post("/dispatch/run", dispatchHdl.Run)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
