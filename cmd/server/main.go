package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	httpadapter "antforage/internal/adapter/http"
	metricsinmem "antforage/internal/adapter/metrics/inmemory"
	gormrepo "antforage/internal/adapter/repo/gorm"
	"antforage/internal/adapter/repo/memory"
	sqliterepo "antforage/internal/adapter/repo/sqlite"
	"antforage/internal/adapter/stream/ws"
	"antforage/internal/adapter/ticklog"
	"antforage/internal/app/control"
	"antforage/internal/app/food"
	"antforage/internal/app/observe"
	"antforage/internal/app/ports"
	"antforage/internal/app/replay"
	"antforage/internal/app/simulation"
	"antforage/internal/app/status"
	"antforage/internal/config"
	"antforage/internal/domain/world"
	"antforage/migrations"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	store, err := buildEventStore(context.Background(), cfg.Events)
	if err != nil {
		log.Fatalf("open %s event store: %v", cfg.Events.Driver, err)
	}
	defer store.Close()

	kpiRecorder := metricsinmem.NewRecorder()
	sinks := []ports.TickSink{simulation.EventRecorder{
		Events:    store.Events,
		TxManager: store.TxManager,
		Retain:    cfg.Events.Retain,
		Now:       time.Now,
	}}

	if cfg.TickLog.Dir != "" {
		tl := ticklog.NewSink(cfg.TickLog.Dir)
		defer tl.Close()
		sinks = append(sinks, tl)
	}

	var streamSrv *http.Server
	if cfg.Stream.Addr != "" {
		origins := cfg.HTTP.CORSOrigins
		hub := ws.NewHub(log.Default(), ws.WithCheckOrigin(func(r *http.Request) bool {
			return httpadapter.OriginAllowed(origins, r.Header.Get("Origin"))
		}))
		sinks = append(sinks, hub)
		streamSrv = newStreamServer(cfg.Stream.Addr, hub)
		go func() {
			log.Printf("antforage stream listening on %s/stream", cfg.Stream.Addr)
			if err := streamSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("stream server: %v", err)
			}
		}()
	}

	runner := simulation.NewRunner(buildWorld(cfg.World), simulation.Config{
		Interval:  cfg.Tick.Interval(),
		Autostart: cfg.Tick.Autostart,
		Sinks:     sinks,
		Metrics:   kpiRecorder,
		Logger:    log.Default(),
	})
	runCtx, stopRunner := context.WithCancel(context.Background())
	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_ = runner.Run(runCtx)
	}()

	h := httpadapter.Handler{
		ObserveUC: observe.UseCase{Sim: runner},
		FoodUC: food.UseCase{
			Sim:          runner,
			Events:       store.Events,
			Metrics:      kpiRecorder,
			DefaultUnits: uint(cfg.Food.DefaultUnits),
			Now:          time.Now,
		},
		ControlUC: control.UseCase{Sim: runner},
		StatusUC:  status.UseCase{Sim: runner, KPI: kpiRecorder},
		ReplayUC:  replay.UseCase{Events: store.Events},
		KPI:       kpiRecorder,

		CORSOrigins: cfg.HTTP.CORSOrigins,
	}

	s := server.Default(server.WithHostPorts(cfg.HTTP.Addr))
	h.RegisterRoutes(s)

	log.Printf("antforage server listening on %s (%d agents, seed %d, events=%s)",
		cfg.HTTP.Addr, cfg.World.Agents, cfg.World.Seed, cfg.Events.Driver)
	s.Spin()

	stopRunner()
	<-runDone
	if streamSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = streamSrv.Shutdown(ctx)
		cancel()
	}
}

func buildWorld(cfg config.World) *world.World {
	home := world.Position{X: cfg.Home.X, Y: cfg.Home.Y}
	return world.NewWorld(cfg.Agents, world.NewRand(cfg.Seed), world.WithHome(home))
}

func newStreamServer(addr string, hub *ws.Hub) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/stream", hub.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

type eventStore struct {
	Events    ports.TickEventRepository
	TxManager ports.TxManager
	closer    io.Closer
}

func (s eventStore) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func buildEventStore(ctx context.Context, cfg config.Events) (eventStore, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		st := memory.NewStore()
		return eventStore{Events: memory.NewEventRepo(st), TxManager: memory.NewTxManager(st)}, nil
	case config.DriverSQLite:
		db, err := sqliterepo.Open(cfg.SQLitePath)
		if err != nil {
			return eventStore{}, err
		}
		return eventStore{Events: sqliterepo.NewEventRepo(db), TxManager: sqliterepo.NewTxManager(db), closer: db}, nil
	case config.DriverPostgres:
		db, err := gormrepo.OpenPostgres(cfg.DSN)
		if err != nil {
			return eventStore{}, err
		}
		applied, err := gormrepo.ApplyMigrations(ctx, db, migrationsFS(cfg.MigrationsDir))
		if err != nil {
			return eventStore{}, fmt.Errorf("migrate: %w", err)
		}
		for _, v := range applied {
			log.Printf("applied migration %s", v)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return eventStore{}, err
		}
		return eventStore{Events: gormrepo.NewEventRepo(db), TxManager: gormrepo.NewTxManager(db), closer: sqlDB}, nil
	default:
		return eventStore{}, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}

func migrationsFS(dir string) fs.FS {
	if dir == "" {
		return migrations.FS
	}
	return os.DirFS(dir)
}
