package main

import (
	"context"
	"fmt"
	"log"

	httpadapter "statemark/internal/adapter/http"
	metricsinmem "statemark/internal/adapter/metrics/inmemory"
	gormrepo "statemark/internal/adapter/repo/gorm"
	memoryrepo "statemark/internal/adapter/repo/memory"
	redisrepo "statemark/internal/adapter/repo/redis"
	"statemark/internal/app/ports"
	"statemark/internal/config"
	"statemark/internal/logger"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	zl := logger.New(cfg.Log.Level, cfg.Log.Format)

	repo, err := buildBookmarkRepo(context.Background(), cfg)
	if err != nil {
		log.Fatalf("build bookmark store: %v", err)
	}

	kpi := metricsinmem.NewRecorder()
	h := httpadapter.Handler{
		Bookmarks: repo,
		BaseURL:   cfg.BaseURL,
		Metrics:   kpi,
		KPI:       kpi,
	}

	s := server.Default(server.WithHostPorts(cfg.Addr))
	h.RegisterRoutes(s)

	zl.Info().
		Str("addr", cfg.Addr).
		Str("driver", cfg.StoreDriver).
		Msg("statemark bookmark server listening")
	s.Spin()
}

func buildBookmarkRepo(ctx context.Context, cfg config.Config) (ports.BookmarkRepository, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := gormrepo.OpenPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := gormrepo.EnsureSchema(ctx, db); err != nil {
			return nil, err
		}
		return gormrepo.NewBookmarkRepo(db), nil
	case config.DriverRedis:
		client, err := redisrepo.Open(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return redisrepo.NewBookmarkRepo(client, cfg.RedisTTL()), nil
	case config.DriverMemory:
		return memoryrepo.NewBookmarkRepo(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
