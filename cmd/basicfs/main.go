package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sari-harin/BASIC-FUSE/internal/config"
	basicfuse "github.com/sari-harin/BASIC-FUSE/internal/fuse"
	"github.com/sari-harin/BASIC-FUSE/internal/metrics"
	"github.com/sari-harin/BASIC-FUSE/pkg/utils"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	mountPoint := flag.String("mount", "", "Mount point (overrides config)")
	backendRoot := flag.String("backend", "", "Backend data directory (overrides config)")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	flag.Parse()

	cfg := config.NewDefault()
	if *configFile != "" {
		if err := cfg.LoadFromFile(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "config error: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.LoadFromEnv()
	if *mountPoint != "" {
		cfg.Mount.MountPoint = *mountPoint
	}
	if *backendRoot != "" {
		cfg.Mount.BackendRoot = *backendRoot
	}
	if *verbose {
		cfg.Global.LogLevel = "DEBUG"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.SetupLogging(cfg.Global.LogLevel, cfg.Global.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging error: %v\n", err)
		os.Exit(1)
	}

	if info, err := os.Stat(cfg.Mount.BackendRoot); err != nil || !info.IsDir() {
		logger.Error("Backend root is not an accessible directory: %s", cfg.Mount.BackendRoot)
		os.Exit(1)
	}

	collector, err := metrics.NewCollector(&metrics.Config{
		Enabled:   cfg.Metrics.Enabled,
		Port:      cfg.Metrics.Port,
		Path:      cfg.Metrics.Path,
		Namespace: cfg.Metrics.Namespace,
	})
	if err != nil {
		logger.Error("Failed to create metrics collector: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := collector.Start(ctx); err != nil {
		logger.Error("Failed to start metrics server: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := collector.Stop(ctx); err != nil {
			logger.Warn("Metrics server shutdown: %v", err)
		}
	}()

	filesystem := basicfuse.NewPassthrough(cfg.Mount.BackendRoot, collector, logger)
	manager := basicfuse.NewMountManager(filesystem, &basicfuse.MountOptions{
		MountPoint: cfg.Mount.MountPoint,
		FSName:     cfg.Mount.FSName,
		Subtype:    cfg.Mount.Subtype,
		AllowOther: cfg.Mount.AllowOther,
		ReadOnly:   cfg.Mount.ReadOnly,
	}, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("Received %s, unmounting...", sig)
		if err := manager.Unmount(); err != nil {
			logger.Error("Unmount failed: %v", err)
		}
	}()

	logger.Info("Target storage: %s", cfg.Mount.BackendRoot)
	if err := manager.Mount(); err != nil {
		logger.Error("Mount failed: %v", err)
		os.Exit(1)
	}
}
