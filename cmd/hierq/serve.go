package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/toyz/hierq/internal/loader"
	"github.com/toyz/hierq/internal/server"
)

func serveCmd(a *app) *cobra.Command {
	var (
		addr      string
		watch     bool
		debounce  time.Duration
		accessLog bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the model over a read-only HTTP API",
		Long: `Serve the model over HTTP:

  GET /api/health
  GET /api/types
  GET /api/types/{type}
  GET /api/types/{type}/supertypes
  GET /api/types/{type}/methods
  GET /api/types/{type}/fields
  GET /api/types/{type}/inner
  GET /api/annotations?element={selector}
  GET /api/overrides?method={selector}

Query options use the flag names of the matching commands, e.g.
?scope=all&modifiers=public,abstract&limit=10. With --watch the model is
reloaded when documents change; a failed reload keeps the previous model.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.RequireModels(); err != nil {
				return err
			}

			l := loader.New(a.loaderOptions())
			result, err := l.LoadFiles(a.cfg.Models...)
			if err != nil {
				return err
			}
			a.summarize(result)
			store := loader.NewStore(result)

			var watcher *loader.Watcher
			if watch {
				if watcher, err = loader.NewWatcher(l, a.cfg.Models, store, debounce); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			g, gctx := errgroup.WithContext(ctx)

			srv := server.New(store, a.cfg, server.Options{
				Addr:          addr,
				EnableLogger:  accessLog,
				EnableRecover: true,
			})
			g.Go(func() error { return srv.Run(gctx) })
			if watcher != nil {
				g.Go(func() error { return watcher.Run(gctx) })
			}
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: config server.addr)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the model when documents change")
	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "Quiet period before a reload")
	cmd.Flags().BoolVar(&accessLog, "access-log", false, "Log every request")
	return cmd
}
