package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"product_draft_studio/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the JSON HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := server.New(a.svc,
				server.WithLogger(a.log),
				server.WithCORSOrigins(a.cfg.CORSOrigins...),
			)
			if err != nil {
				return err
			}
			hs := &http.Server{
				Addr:              a.cfg.ServerAddr,
				Handler:           srv,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.log.Info("starting web server", "addr", hs.Addr, "rewrite", a.svc.CanRewrite())
				errCh <- hs.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
				a.log.Info("shutting down")
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return hs.Shutdown(ctx)
			}
		},
	}
	cmd.Flags().String("addr", "", "listen address (overrides server_addr)")
	_ = a.v.BindPFlag("server_addr", cmd.Flags().Lookup("addr"))
	return cmd
}
