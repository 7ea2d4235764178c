// lumen-dhcpc — DHCPv4 client with strict reply validation and lease
// persistence across restarts.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lumen-dhcpc/lumen-dhcpc/internal/client"
	"github.com/lumen-dhcpc/lumen-dhcpc/internal/config"
	"github.com/lumen-dhcpc/lumen-dhcpc/internal/dnscheck"
	"github.com/lumen-dhcpc/lumen-dhcpc/internal/lease"
	"github.com/lumen-dhcpc/lumen-dhcpc/internal/logging"
)

func main() {
	configPath := flag.String("config", "/etc/lumen-dhcpc/config.toml", "path to configuration file")
	releaseOnExit := flag.Bool("release", false, "send DHCPRELEASE on shutdown instead of keeping the lease")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Client.LogLevel, os.Stdout)
	logger.Info("lumen-dhcpc starting",
		"config", *configPath,
		"interface", cfg.Client.Interface,
		"network_id", cfg.Client.NetworkID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store *lease.Store
	if cfg.Client.NetworkID != "" {
		store, err = lease.NewStore(cfg.Client.LeaseDB)
		if err != nil {
			logger.Error("failed to open lease database", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		logger.Info("lease database opened", "path", cfg.Client.LeaseDB, "lease_count", store.Count())
	}

	if cfg.Metrics.Enabled {
		go func() {
			mux := nethttp.NewServeMux()
			mux.Handle("GET /metrics", promhttp.Handler())
			logger.Info("metrics endpoint listening", "addr", cfg.Metrics.Listen)
			if err := nethttp.ListenAndServe(cfg.Metrics.Listen, mux); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	c, err := client.New(cfg, store, logger)
	if err != nil {
		logger.Error("failed to initialize client", "error", err)
		os.Exit(1)
	}
	defer c.Close()

	if cfg.DNSCheck.Enabled {
		checker := dnscheck.New(cfg.GetDNSCheckTimeout(), cfg.DNSCheck.Domain, logger)
		c.OnBound = func(l *lease.Lease) {
			go checker.ProbeAll(ctx, l.DNSServers)
		}
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("shutting down", "signal", sig)
		cancel()
	}()

	err = c.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("client stopped", "error", err)
		os.Exit(1)
	}

	if *releaseOnExit {
		if err := c.Release(); err != nil {
			logger.Warn("failed to release lease", "error", err)
		}
	}
	logger.Info("lumen-dhcpc stopped")
}
