package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/divVerent/haydnop20/internal/server"
)

func newServeCommand(g *globalFlags) *cobra.Command {
	var addr string
	var origins []string
	var preload bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves the corpus as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, h, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer h.Close()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if preload {
				err := ds.Preload(ctx)
				if err != nil {
					return err
				}
			}
			srv := &http.Server{
				Addr:    addr,
				Handler: server.New(ds, origins),
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				err := srv.Shutdown(shutdownCtx)
				if err != nil {
					log.Printf("shutdown: %v", err)
				}
			}()
			log.Printf("listening on %v", addr)
			err = srv.ListenAndServe()
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	cmd.Flags().StringSliceVar(&origins, "allow-origin", nil, "origins allowed to make cross-origin requests (default all)")
	cmd.Flags().BoolVar(&preload, "preload", false, "parse all tracks before serving")
	return cmd
}
