package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/cockroachdb/pebble"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "net/http/pprof"

	"github.com/DrunkOnJava/CityGame-arm64-sub014/pkg/engine/pathfinder"
	"github.com/DrunkOnJava/CityGame-arm64-sub014/pkg/grid"
	"github.com/DrunkOnJava/CityGame-arm64-sub014/pkg/kv"
	"github.com/DrunkOnJava/CityGame-arm64-sub014/pkg/server/rest"
	"github.com/DrunkOnJava/CityGame-arm64-sub014/pkg/server/rest/service"
)

var (
	listenAddr     = flag.String("listenaddr", ":5000", "server listen address")
	dbPath         = flag.String("db", "citysimDB", "pebble database directory for the persisted navigation grid")
	gridWidth      = flag.Int("width", 256, "navigation grid width, used when no grid is persisted yet")
	gridHeight     = flag.Int("height", 256, "navigation grid height, used when no grid is persisted yet")
	poolSize       = flag.Int("contexts", 8, "number of concurrent search contexts")
	iterationLimit = flag.Uint64("iterlimit", pathfinder.DefaultIterationLimit, "max expand-loop iterations per search")
	maxPathLength  = flag.Int("maxpath", pathfinder.DefaultMaxPathLength, "path output buffer capacity")
)

func main() {
	flag.Parse()

	db, err := pebble.Open(*dbPath, &pebble.Options{})
	if err != nil {
		log.Fatal(err)
	}
	store := kv.NewGridStore(db)
	defer store.Close()

	g, err := store.LoadGrid()
	if errors.Is(err, pebble.ErrNotFound) {
		log.Printf("no persisted grid, building an open %dx%d grid", *gridWidth, *gridHeight)
		g, err = grid.New(int32(*gridWidth), int32(*gridHeight))
		if err != nil {
			log.Fatal(err)
		}
		if err := store.SaveGrid(g); err != nil {
			log.Fatal(err)
		}
	} else if err != nil {
		log.Fatal(err)
	}

	cfg := pathfinder.DefaultConfig()
	cfg.IterationLimit = *iterationLimit
	cfg.MaxPathLength = int32(*maxPathLength)

	pool, err := pathfinder.NewPool(g, cfg, *poolSize)
	if err != nil {
		log.Fatal(err)
	}

	reg := prometheus.NewRegistry()
	m := rest.NewMetrics(reg, pool.Statistics())

	r := chi.NewRouter()

	r.Use(middleware.Logger)

	r.Use(rest.PromeHttpMiddleware(m)) // prometheus http middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Mount("/debug", middleware.Profiler())

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	pathfindingSvc := service.NewPathfindingService(g, pool)
	rest.PathfinderRouter(r, pathfindingSvc, m)

	fmt.Printf("pathfinding engine ready: %dx%d grid, %d search contexts\n", g.Width(), g.Height(), pool.Size())
	fmt.Printf("server started at %s\n", *listenAddr)

	log.Fatal(http.ListenAndServe(*listenAddr, r))
}
