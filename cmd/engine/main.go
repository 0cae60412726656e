package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "lintang/nightwalk/docs"
	"lintang/nightwalk/pkg/config"
	"lintang/nightwalk/pkg/engine/planner"
	"lintang/nightwalk/pkg/geocoder"
	"lintang/nightwalk/pkg/graphsource"
	"lintang/nightwalk/pkg/incident"
	"lintang/nightwalk/pkg/kv"
	"lintang/nightwalk/pkg/logger"
	"lintang/nightwalk/pkg/metrics"
	"lintang/nightwalk/pkg/overpass"
	"lintang/nightwalk/pkg/poi"
	"lintang/nightwalk/pkg/server/rest"
	"lintang/nightwalk/pkg/server/rest/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

var (
	configFile = flag.String("config", "config.yaml", "config file")
	listenAddr = flag.String("listenaddr", "", "server listen address, overrides the config")
)

//	@title			nightwalk API
//	@version		1.0
//	@description	safety weighted walking route engine over openstreetmap

//	@contact.name	nightwalk

// @host		localhost:6060
// @BasePath	/api
// @schemes	http
func main() {
	flag.Parse()
	log := logger.Setup()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Error("config", "error", err)
		os.Exit(1)
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	overpassClient := overpass.NewClient(cfg.Overpass.Mirrors, cfg.Overpass.Timeout,
		overpass.WithMetrics(m), overpass.WithLogger(log))
	log.Info("overpass mirrors", "mirrors", overpassClient.Mirrors())

	geocodeOpts := []geocoder.CacheOption{geocoder.WithMetrics(m), geocoder.WithLogger(log)}
	if rc := geocoder.NewRedisClient(cfg.RedisAddr(), cfg.Redis.Pass, cfg.Redis.DB); rc != nil {
		defer rc.Close()
		geocodeOpts = append(geocodeOpts, geocoder.WithRemoteCache(geocoder.NewRedisCache(rc, cfg.Redis.TTL)))
		log.Info("geocode redis tier enabled", "addr", cfg.RedisAddr())
	}
	geocodeCache := geocoder.NewCache(
		geocoder.NewNominatim(cfg.Nominatim.URL, &http.Client{Timeout: cfg.Nominatim.Timeout}),
		geocodeOpts...,
	)

	db, err := kv.OpenBadger(cfg.Graph.CacheDir)
	if err != nil {
		log.Error("graph cache", "error", err)
		os.Exit(1)
	}
	kvDB := kv.NewKVDB(db, kv.WithMetrics(m), kv.WithLogger(log))
	defer kvDB.Close()

	var src graphsource.Source
	switch cfg.Graph.Source {
	case config.GraphSourcePBF:
		src = graphsource.NewExtract(cfg.Graph.PBFPath, log)
	default:
		src = graphsource.NewOverpass(overpassClient, cfg.Overpass.QueryTimeout, log)
	}
	graphs := graphsource.WithFallback(graphsource.NewCached(src, kvDB, log), geocodeCache, log)

	incidents, stats, err := incident.LoadCSV(cfg.Incident.CSV)
	if err != nil {
		log.Error("incident history", "error", err)
		os.Exit(1)
	}
	log.Info("incident history loaded", "path", cfg.Incident.CSV, "loaded", stats.Loaded, "skipped", stats.Skipped)

	routePlanner := planner.NewPlanner(
		graphs,
		geocodeCache,
		poi.NewOverpassSource(overpassClient, cfg.Overpass.QueryTimeout),
		incident.NewStore(incidents),
		planner.WithModel(cfg.CostModel),
		planner.WithWorkers(cfg.Workers),
		planner.WithLogger(log),
	)
	navigatorSvc := service.NewNavigationService(routePlanner, cfg.Incident.HeatmapResolution, m, log)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.AccessMiddleware(log))
	r.Use(middleware.Recoverer)
	r.Use(rest.PromeHttpMiddleware(m)) // prometheus http middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Mount("/debug", middleware.Profiler())

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost%s/swagger/doc.json", cfg.ListenAddr)), //The url pointing to API definition
	))

	rest.NavigatorRouter(r, navigatorSvc, m)

	if err := serve(cfg.ListenAddr, r, log); err != nil {
		log.Error("server", "error", err)
		os.Exit(1)
	}
}

func serve(addr string, h http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		// satu request bisa nunggu beberapa mirror overpass
		WriteTimeout: 15 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info("server started", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
