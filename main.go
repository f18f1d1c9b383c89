package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/cache"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/config"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/errs"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/pipeline"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/utils"
)

func main() {
	modePtr := flag.String("mode", "once", "run mode: once or scheduled")
	intervalPtr := flag.Duration("interval", 0, "override for the scheduled run interval")
	verbosePtr := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	cfg := config.GetConfig()
	if *intervalPtr > 0 {
		cfg.RunInterval = *intervalPtr
	}

	logger := utils.NewETLLogger(cfg.EnableDetailedLogging || *verbosePtr)
	logger.Info("Starting ETL runner in mode: %s", *modePtr)

	// One cache manager and one error ledger per process, injected into
	// every run.
	cacheManager := cache.NewManager(cfg.Redis, cfg.CacheTTL, cfg.EnableCaching, logger)
	defer cacheManager.Close()
	ledger := errs.NewLedger()

	p := pipeline.New(cfg, logger, cacheManager, ledger)

	switch *modePtr {
	case "once":
		if err := p.Run(context.Background()); err != nil {
			os.Exit(1)
		}
	case "scheduled":
		runScheduled(p, cfg, logger)
	default:
		log.Println("Unknown mode:", *modePtr)
		log.Println("Available modes: once, scheduled")
		os.Exit(1)
	}

	logger.Info("ETL runner finished")
}

// runScheduled triggers a full run on the configured interval until the
// process receives an interrupt or termination signal.
func runScheduled(p *pipeline.Pipeline, cfg config.ETLConfig, logger *utils.ETLLogger) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-signalCh
		log.Println("Received termination signal, stopping ETL runner...")
		cancel()
	}()

	scheduler := gocron.NewScheduler(time.UTC)
	logger.Info("Starting ETL scheduler with interval %v", cfg.RunInterval)

	_, err := scheduler.Every(cfg.RunInterval).Do(func() {
		logger.Info("Scheduled pipeline run triggered")
		if err := p.Run(ctx); err != nil {
			logger.Error("Scheduled pipeline run failed: %v", err)
		}
	})
	if err != nil {
		logger.Error("Failed to configure scheduler: %v", err)
		return
	}

	scheduler.StartAsync()
	<-ctx.Done()
	scheduler.Stop()
	logger.Info("ETL scheduler stopped")
}
