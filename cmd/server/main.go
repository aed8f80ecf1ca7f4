package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	persistlog "github.com/lebowski36/Voxel-Castle-sub000/internal/persistence/log"
	"github.com/lebowski36/Voxel-Castle-sub000/internal/transport/ws"
	"github.com/lebowski36/Voxel-Castle-sub000/internal/worldgen"
	"github.com/lebowski36/Voxel-Castle-sub000/internal/worldgen/rivers"
	"github.com/lebowski36/Voxel-Castle-sub000/internal/worldgen/seed"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		masterSeed = flag.Int64("seed", 1337, "master world seed")
		configPath = flag.String("config", "./configs/worldgen.yaml", "worldgen config path (missing file falls back to defaults)")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		maxBatch   = flag.Int("max_batch", 65536, "largest accepted query batch (0 = unlimited)")
		disableLog = flag.Bool("disable_query_log", false, "disable the compressed query audit log")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cfg := worldgen.DefaultConfig()
	if _, err := os.Stat(*configPath); err == nil {
		cfg, err = worldgen.Load(*configPath)
		if err != nil {
			logger.Fatalf("load config: %v", err)
		}
		logger.Printf("config loaded from %s digest=%s", *configPath, cfg.Digest()[:12])
	} else {
		logger.Printf("config not found (%s); using defaults", *configPath)
	}

	gen, err := worldgen.New(*masterSeed, cfg)
	if err != nil {
		logger.Fatalf("worldgen: %v", err)
	}
	logger.Printf("world seed=%d mix_version=%d digest=%s", gen.Seed(), seed.MixVersion, gen.Config().Digest()[:12])

	var recorder ws.QueryRecorder
	if !*disableLog {
		ql := persistlog.NewQueryLogger(*dataDir)
		defer ql.Close()
		recorder = ql
	}

	ctx, cancel := signalContext()
	defer cancel()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")

		fmt.Fprintf(rw, "# HELP worldgen_seed Master world seed.\n")
		fmt.Fprintf(rw, "# TYPE worldgen_seed gauge\n")
		fmt.Fprintf(rw, "worldgen_seed %d\n", gen.Seed())

		fmt.Fprintf(rw, "# HELP worldgen_cached_regions River region networks built so far.\n")
		fmt.Fprintf(rw, "# TYPE worldgen_cached_regions gauge\n")
		fmt.Fprintf(rw, "worldgen_cached_regions %d\n", gen.CachedRegions())
	})

	enableAdminHTTP := envBool("WG_ENABLE_ADMIN_HTTP", defaultEnableAdminHTTP())
	enablePprofHTTP := envBool("WG_ENABLE_PPROF_HTTP", false)
	if enableAdminHTTP {
		// Local-only admin endpoints (do not affect generation determinism).
		mux.HandleFunc("/admin/v1/state", func(rw http.ResponseWriter, r *http.Request) {
			if !isLoopbackRemote(r.RemoteAddr) {
				http.Error(rw, "forbidden", http.StatusForbidden)
				return
			}
			rw.Header().Set("Content-Type", "application/json")
			resp := struct {
				Seed          int64  `json:"seed"`
				MixVersion    int    `json:"mix_version"`
				ConfigDigest  string `json:"config_digest"`
				CachedRegions int    `json:"cached_regions"`
			}{
				Seed:          gen.Seed(),
				MixVersion:    seed.MixVersion,
				ConfigDigest:  gen.Config().Digest(),
				CachedRegions: gen.CachedRegions(),
			}
			_ = json.NewEncoder(rw).Encode(resp)
		})
		mux.HandleFunc("/admin/v1/warm", func(rw http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				rw.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			if !isLoopbackRemote(r.RemoteAddr) {
				http.Error(rw, "forbidden", http.StatusForbidden)
				return
			}
			rx, errX := strconv.Atoi(r.URL.Query().Get("rx"))
			rz, errZ := strconv.Atoi(r.URL.Query().Get("rz"))
			rw.Header().Set("Content-Type", "application/json")
			if errX != nil || errZ != nil {
				rw.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(rw).Encode(map[string]any{"ok": false, "error": "rx and rz must be integers"})
				return
			}
			start := time.Now()
			gen.WarmRegion(rivers.Key{X: rx, Z: rz})
			_ = json.NewEncoder(rw).Encode(map[string]any{
				"ok": true, "rx": rx, "rz": rz,
				"elapsed_ms": float64(time.Since(start).Microseconds()) / 1000,
			})
		})
	} else {
		logger.Printf("admin endpoints disabled (WG_ENABLE_ADMIN_HTTP=false)")
	}
	if enablePprofHTTP {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	} else {
		logger.Printf("pprof endpoints disabled (WG_ENABLE_PPROF_HTTP=false)")
	}
	mux.HandleFunc("/v1/ws", ws.NewServer(gen, logger, recorder, *maxBatch).Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func envBool(name string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(name)))
	switch v {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func defaultEnableAdminHTTP() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("DEPLOY_ENV"))) {
	case "staging", "production":
		return false
	default:
		return true
	}
}
