package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/librus-sync/internal/bootstrap"
	"github.com/noah-isme/librus-sync/internal/models"
	"github.com/noah-isme/librus-sync/internal/service"
	"github.com/noah-isme/librus-sync/pkg/config"
	"github.com/noah-isme/librus-sync/pkg/logger"
)

func main() {
	domainsFlag := flag.String("domains", "", "comma separated domains; defaults to SYNC_DOMAINS")
	month := flag.String("month", "", "events month as YYYY-MM; defaults to the current month")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	names := cfg.Sync.Domains
	if *domainsFlag != "" {
		names = strings.Split(*domainsFlag, ",")
	}
	domains, err := bootstrap.SyncDomains(names)
	if err != nil {
		logr.Fatal("invalid domains", zap.Error(err))
	}

	period := models.PeriodOf(time.Now())
	if *month != "" {
		t, err := time.Parse("2006-01", *month)
		if err != nil {
			logr.Fatal("invalid month", zap.String("month", *month), zap.Error(err))
		}
		period = models.PeriodOf(t)
	}

	store, err := bootstrap.OpenStore(cfg, logr)
	if err != nil {
		logr.Fatal("open snapshot store", zap.Error(err))
	}
	defer store.Close() //nolint:errcheck

	fetcher, err := bootstrap.NewFetcher(cfg, logr)
	if err != nil {
		logr.Fatal("init portal fetcher", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pipeline := service.NewPipelineService(fetcher, store, service.NewMetricsService(), logr)
	run := pipeline.Run(ctx, domains, period)
	for _, result := range run.Domains {
		fmt.Printf("== %s ==\n", result.Domain)
		if result.Error != "" {
			fmt.Printf("error: %s\n\n", result.Error)
			continue
		}
		fmt.Print(result.Display)
	}
	if run.Status == models.SyncStatusFailed {
		os.Exit(1)
	}
}
