package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	consul "github.com/hashicorp/consul/api"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aiostudio/console/internal/api"
	"github.com/aiostudio/console/internal/config"
	"github.com/aiostudio/console/internal/health"
	"github.com/aiostudio/console/internal/registry"
	"github.com/aiostudio/console/internal/stats"
	"github.com/aiostudio/console/internal/upstream"
)

const consulServiceID = "studio-console"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load("./.env")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	client := upstream.NewClient(cfg.OrchestratorURL, cfg.UpstreamTimeout)
	statsPoller := stats.New(client, logger.Named("stats"), cfg.StatsInterval)
	nodeHealth := health.New(client, logger.Named("health"), cfg.HealthInterval)
	serverRegistry := registry.New(0)

	consoleAPI := api.New(statsPoller, nodeHealth, serverRegistry, logger.Named("api"))

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      consoleAPI.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	statsPoller.Start(ctx)
	nodeHealth.Start(ctx)
	defer statsPoller.Stop()
	defer nodeHealth.Stop()

	if err := registerConsul(cfg); err != nil {
		logger.Warn("failed to register with Consul", zap.Error(err))
	}
	defer deregisterConsul(cfg, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("console API listening",
			zap.String("addr", cfg.ListenAddr),
			zap.String("orchestrator", cfg.OrchestratorURL))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func registerConsul(cfg config.Config) error {
	if cfg.ConsulAddr == "" {
		return nil
	}

	consulCfg := consul.DefaultConfig()
	consulCfg.Address = cfg.ConsulAddr
	client, err := consul.NewClient(consulCfg)
	if err != nil {
		return err
	}

	host, port, err := splitListenAddr(cfg.ListenAddr)
	if err != nil {
		return err
	}

	registration := &consul.AgentServiceRegistration{
		ID:      consulServiceID,
		Name:    consulServiceID,
		Port:    port,
		Address: host,
		Check: &consul.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/healthz", host, port),
			Interval:                       "10s",
			Timeout:                        "5s",
			DeregisterCriticalServiceAfter: "30s",
		},
		Tags: []string{"console", "dashboard", "http"},
	}

	return client.Agent().ServiceRegister(registration)
}

func deregisterConsul(cfg config.Config, logger *zap.Logger) {
	if cfg.ConsulAddr == "" {
		return
	}

	consulCfg := consul.DefaultConfig()
	consulCfg.Address = cfg.ConsulAddr
	client, err := consul.NewClient(consulCfg)
	if err != nil {
		logger.Warn("failed to create consul client for deregistration", zap.Error(err))
		return
	}

	if err := client.Agent().ServiceDeregister(consulServiceID); err != nil {
		logger.Warn("failed to deregister console service", zap.Error(err))
	}
}

func splitListenAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("parse listen address %q: %w", addr, err)
	}
	if host == "" {
		host = getLocalIP()
	}

	var port int
	if _, err := fmt.Sscanf(portStr, "%d", &port); err != nil {
		return "", 0, fmt.Errorf("parse listen port %q: %w", portStr, err)
	}
	return host, port, nil
}

func getLocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "127.0.0.1"
	}

	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String()
			}
		}
	}

	return "127.0.0.1"
}
