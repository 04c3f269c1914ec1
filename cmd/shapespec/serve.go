package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	mcpserver "github.com/gnana997/shapespec/pkg/mcp"
	"github.com/gnana997/shapespec/pkg/mcplog"
	"github.com/gnana997/shapespec/pkg/tokenwatch"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		watch       bool
		metricsAddr string
		cacheSize   int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve resolution tools over MCP (stdio)",
		Long: `Starts an MCP server on stdin/stdout exposing resolve_shape, resolve_palette,
resolve_token_name, lookup_color, surface_background, list_tokens and
audit_tokens. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var source mcpserver.ContextSource
			if watch {
				if a.settings.TokensPath == "" {
					return errors.New("--watch requires a token export (--tokens or tokens_path)")
				}
				provider, err := tokenwatch.New(tokenwatch.Options{
					TokensPath:     a.settings.TokensPath,
					DimensionsPath: a.settings.DimensionsPath,
					Logger:         a.logger,
				})
				if err != nil {
					return err
				}
				if err := provider.Start(); err != nil {
					return err
				}
				defer provider.Stop()
				source = provider
			} else {
				c, err := a.loadContext()
				if err != nil {
					return err
				}
				source = mcpserver.Static(c)
			}

			callLog, err := mcplog.NewLogger(a.settings.LogFile)
			if err != nil {
				return err
			}
			defer callLog.Close()

			var metrics *mcpserver.Metrics
			if metricsAddr != "" {
				reg := prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				if metrics, err = mcpserver.NewMetrics(reg); err != nil {
					return err
				}
				stop := a.serveMetrics(ctx, metricsAddr, reg)
				defer stop()
			}

			srv, err := mcpserver.NewServer(mcpserver.Config{
				Source:    source,
				CacheSize: cacheSize,
				Metrics:   metrics,
				CallLog:   callLog,
				Logger:    a.logger,
				Version:   version,
			})
			if err != nil {
				return err
			}
			return srv.ServeStdio()
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload the token export and dimension table when they change")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :2112)")
	cmd.Flags().IntVar(&cacheSize, "cache-size", 0, "resolve_shape cache entries (0: default, negative: disabled)")
	cmd.Flags().StringVar(&a.flags.LogFile, "log-file", "", "Append a JSONL record of every tool call to this file")
	return cmd
}

// serveMetrics starts the metrics endpoint and returns a function that
// shuts it down.
func (a *app) serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.logger.Info("metrics server listening", "address", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("metrics server shutdown", "error", err)
		}
	}
}
