package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/Depado/ginprom"
	"github.com/aurowora/compress"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	healthcheck "github.com/tavsec/gin-healthcheck"
	"github.com/tavsec/gin-healthcheck/checks"
	hc_config "github.com/tavsec/gin-healthcheck/config"

	"github.com/rm-hull/nl-fuel-prices/internal"
	"github.com/rm-hull/nl-fuel-prices/internal/history"
	"github.com/rm-hull/nl-fuel-prices/internal/routes"
)

func ApiServer(configFile string, port int, debug bool) error {

	svc, err := bootstrap(configFile)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.hub.Run(ctx)

	locations := svc.config.Locations
	for _, loc := range locations {
		go internal.Refresh(svc.engine, loc)
	}

	scheduler, err := internal.StartCron(svc.engine, locations, svc.config.Schedule, svc.notifier)
	if err != nil {
		return fmt.Errorf("failed to start CRON jobs: %w", err)
	}
	defer scheduler.Stop()

	r := gin.New()

	prometheus := ginprom.New(
		ginprom.Engine(r),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/healthz"),
	)

	r.Use(
		gin.Recovery(),
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		prometheus.Instrument(),
		compress.Compress(),
		cors.Default(),
	)

	if debug {
		log.Println("WARNING: pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	err = healthcheck.New(r, hc_config.DefaultConfig(), []checks.Check{
		history.Check(svc.store),
		svc.engine.Check(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize healthcheck: %v", err)
	}

	v1 := r.Group("/v1/fuel-prices")
	v1.GET("/search", routes.Search(svc.engine, svc.geocoder))
	v1.GET("/locations", routes.Locations(svc.engine, locations))
	v1.GET("/locations/:key", routes.Location(svc.engine, locations))
	v1.POST("/locations/:key/refresh", routes.Refresh(svc.engine, locations))
	v1.DELETE("/locations/:key", routes.Forget(svc.engine, locations))
	v1.GET("/events", gin.WrapH(svc.hub))

	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting HTTP API Server on port %d...", port)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP API Server failed to start on port %d: %v", port, err)
	}

	return nil
}
