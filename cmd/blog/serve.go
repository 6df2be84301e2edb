package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	blog "github.com/goliatone/go-blog"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const defaultShutdownTimeout = 10 * time.Second

func newServeCommand(flags *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API, feeds and sitemap over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := moduleBuilder(flags.options())
			if err != nil {
				return err
			}
			cfg := module.Config
			if addr != "" {
				cfg.HTTP.Addr = addr
			}
			if err := cfg.ValidateServe(); err != nil {
				return err
			}

			warnOpenRevalidate(cfg, module.Logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if cfg.Cache.WarmOnStart {
				if err := module.Module.Warm(ctx); err != nil {
					return fmt.Errorf("warm index: %w", err)
				}
			}

			server := &http.Server{
				Addr:         cfg.HTTP.Addr,
				Handler:      module.Module.Handler(),
				ReadTimeout:  cfg.HTTP.ReadTimeout,
				WriteTimeout: cfg.HTTP.WriteTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				module.Logger.Info("http.listening", "addr", cfg.HTTP.Addr)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			timeout := cfg.HTTP.ShutdownTimeout
			if timeout <= 0 {
				timeout = defaultShutdownTimeout
			}
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
			defer cancel()
			module.Logger.Info("http.shutdown", "timeout", timeout.String())
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown http server: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides http.addr)")
	return cmd
}

// warnOpenRevalidate reports a cache-clear trigger that anyone can call.
func warnOpenRevalidate(cfg blog.Config, logger interfaces.Logger) bool {
	if strings.TrimSpace(cfg.Cache.RevalidateSecret) != "" {
		return false
	}
	logger.Warn("http.revalidate_unprotected",
		"route", "POST /api/revalidate",
		"setting", "cache.revalidate_secret",
		"env", runtimeconfig.EnvRevalidateSecret,
	)
	return true
}
