package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/xtding233/bust-run/internal/api"
	"github.com/xtding233/bust-run/internal/camp"
	"github.com/xtding233/bust-run/internal/config"
	"github.com/xtding233/bust-run/internal/progress"
	"github.com/xtding233/bust-run/internal/rng"
	"github.com/xtding233/bust-run/internal/session"
	"github.com/xtding233/bust-run/internal/storage"
)

// sources returns the generator and engine RNGs. A zero seed means crypto.
func sources(seed uint64) (rng.RandomSource, rng.RandomSource) {
	if seed == 0 {
		return rng.DefaultRNG(), rng.DefaultRNG()
	}
	return rng.NewSeededRNG(seed), rng.NewSeededRNG(seed + 1)
}

// buildController loads the balance for cfg and wires a fresh controller.
func buildController(loader *config.Loader, cfg config.ServerConfig) (*progress.Controller, error) {
	bal, err := loader.Load(cfg.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("load balance: %w", err)
	}
	reg, err := bal.Registry()
	if err != nil {
		return nil, fmt.Errorf("relic registry: %w", err)
	}
	genSrc, engineSrc := sources(cfg.Seed)
	ctrl := progress.NewController(bal, reg, camp.NewGenerator(bal.Shop, reg, genSrc), engineSrc, nil)
	ctrl.Overrides = cfg.Test
	return ctrl, nil
}

func main() {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		log.Fatal(err)
	}

	store, err := storage.Open(storage.DefaultConfig(cfg.DBPath))
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	loader := config.NewLoader(cfg.ConfigDir)
	ctrl, err := buildController(loader, cfg)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	sess := session.New(ctrl, session.Options{Store: store, AutosaveEvery: cfg.AutosaveEvery})
	if err := sess.LoadProfile(ctx); err != nil {
		log.Printf("load profile: %v (starting fresh)", err)
	}
	if sess.Resume(ctx) {
		log.Println("resumed saved run")
	}

	if cfg.WatchConfig {
		w, err := config.NewFileWatcher(loader.Paths(cfg.Difficulty), func(path string) {
			loader.Invalidate()
			next, err := buildController(loader, cfg)
			if err != nil {
				log.Printf("reload %s: %v (keeping previous balance)", path, err)
				return
			}
			sess.Reconfigure(next)
			log.Printf("balance reloaded from %s", path)
		}, func(err error) {
			log.Printf("config watcher: %v", err)
		})
		if err != nil {
			log.Printf("config watcher disabled: %v", err)
		} else {
			w.Start()
			defer w.Stop()
		}
	}

	srv := api.NewServer(&api.Config{Addr: cfg.HTTPAddr, RequestTimeout: 30 * time.Second}, sess)
	srv.Start()

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("listen on %s: %v", cfg.GRPCAddr, err)
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	go func() {
		log.Printf("health listening on %s", lis.Addr())
		if err := grpcServer.Serve(lis); err != nil {
			log.Printf("grpc server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	healthServer.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("api shutdown: %v", err)
	}
	grpcServer.GracefulStop()
	// unload: keep the run resumable
	sess.Hidden(shutdownCtx)
}
