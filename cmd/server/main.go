// Package main - Entry point for the PC builder configurator server
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"pc-builder/api"
	"pc-builder/core/build"
	"pc-builder/core/catalog"
	"pc-builder/core/compat"
	"pc-builder/core/compat/rules"
	"pc-builder/db"
	"pc-builder/internal/config"
	"pc-builder/internal/logging"
)

const version = "1.0.0"

func main() {
	cfgFile := flag.String("config", "", "config file path")
	addr := flag.String("addr", "", "listen address (overrides config)")
	catalogFile := flag.String("catalog", "", "catalog data file (overrides config)")
	flag.Parse()

	cfg := config.Default()
	if *cfgFile != "" {
		loaded, err := config.Load(*cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
		config.Set(cfg)
	}
	if *addr != "" {
		cfg.Server.Address = *addr
	}
	if *catalogFile != "" {
		cfg.Catalog.DataFile = *catalogFile
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	defer logging.Sync()

	cat, err := catalog.LoadFile(cfg.Catalog.DataFile)
	if err != nil {
		logging.Fatal("loading catalog", zap.Error(err))
	}
	logging.Info("catalog loaded",
		zap.String("file", cfg.Catalog.DataFile),
		zap.Int("items", cat.Len()))

	ctx := context.Background()

	var store build.Store
	if cfg.Database.DSN != "" {
		pg, err := db.OpenPostgres(ctx, cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
		if err != nil {
			logging.Fatal("connecting to build store", zap.Error(err))
		}
		defer pg.Close()
		store = pg
	} else {
		logging.Warn("no database configured, builds are stored in memory")
		store = db.NewMemoryStore()
	}

	var validator compat.Validator
	if cfg.Compatibility.ServiceURL != "" {
		validator = compat.NewServiceValidator(cfg.Compatibility.ServiceURL,
			time.Duration(cfg.Compatibility.TimeoutSeconds)*time.Second)
		logging.Info("using remote compatibility service",
			zap.String("url", cfg.Compatibility.ServiceURL))
	} else {
		validator = rules.NewEngine(cat)
	}

	server := api.NewServer(cat, validator, build.NewService(store, cat), version, cfg.Server.AllowedOrigins)

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	logging.Info("configurator server listening",
		zap.String("addr", cfg.Server.Address),
		zap.String("version", version))
	if err := httpServer.ListenAndServe(); err != nil {
		logging.Fatal("server stopped", zap.Error(err))
	}
}
