package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpgo/swr-simulator/internal/api"
	"github.com/rpgo/swr-simulator/internal/dataset"
)

func newServeCmd(a *app) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulator over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := a.settings
			if port > 0 {
				settings.Server.Port = port
			}
			store, err := dataset.Load(settings.Data.Sources())
			if err != nil {
				return err
			}
			a.logger.Infof("loaded %d years of history, forward curves from %s",
				len(store.Historic.Years), store.UpdateDate().Format("2006-01-02"))

			srv := api.NewServer(settings.Server, a.engine, store, a.logger)
			errc := make(chan error, 1)
			go func() { errc <- srv.Start() }()

			select {
			case err := <-errc:
				return err
			case <-cmd.Context().Done():
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port; overrides the config file")
	return cmd
}
