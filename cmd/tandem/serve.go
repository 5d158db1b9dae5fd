package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/tandem/internal/config"
	"github.com/ShayCichocki/tandem/internal/orchestrator"
	"github.com/ShayCichocki/tandem/internal/version"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve the orchestration API over HTTP.

Endpoints:
  POST /v1/runs       Submit a task, returns the run id
  GET  /v1/runs       List all runs
  GET  /v1/runs/:id   Get one run's state and answer
  GET  /healthz       Liveness check
  GET  /metrics       Prometheus metrics

Each submitted task runs through the same planning and wave execution
pipeline as 'tandem run'. Config file changes are picked up for new runs
without a restart.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	client, err := buildClient(cfg)
	if err != nil {
		return err
	}

	// Fail fast on bad agent config before accepting any runs.
	if _, err := buildRegistry(cfg, client); err != nil {
		return err
	}

	// The current config is swapped atomically on file changes so new
	// runs pick up edits without a restart.
	var cfgMu sync.RWMutex
	currentCfg := cfg
	if err := config.Watch(func(fresh *config.Config) {
		cfgMu.Lock()
		currentCfg = fresh
		cfgMu.Unlock()
		fmt.Println("Config reloaded")
	}); err != nil {
		// Watching requires the user config file to exist; without it the
		// server still runs with the loaded defaults.
		fmt.Printf("Config watching disabled: %v\n", err)
	}

	pool := orchestrator.NewPool(func() (*orchestrator.Orchestrator, error) {
		cfgMu.RLock()
		snapshot := currentCfg
		cfgMu.RUnlock()
		return buildOrchestrator(snapshot, client, orchestratorOverrides{})
	})

	// Drain aggregated events so slow runs never stall on emission.
	go func() {
		for range pool.Events() {
		}
	}()

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": version.Get(),
			"running": pool.Count(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/v1/runs", func(c *gin.Context) {
		var req struct {
			Task string `json:"task" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id, err := pool.Submit(req.Task)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"id": id})
	})

	router.GET("/v1/runs", func(c *gin.Context) {
		c.JSON(http.StatusOK, pool.List())
	})

	router.GET("/v1/runs/:id", func(c *gin.Context) {
		run, ok := pool.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusOK, run)
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("Listening on %s\n", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		fmt.Println("\nShutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	pool.Stop()
	return nil
}
