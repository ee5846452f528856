package main

import (
	"context"
	"time"

	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/cards"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/postgres"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/query"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/stats"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/timer"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/ygoprodeck"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	var f filters

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import all matching cards into the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer timer.TimeTrack(time.Now(), "import")

			r, err := f.request(cmd)
			if err != nil {
				return err
			}

			return withConnection(cmd.Context(), func(conn *postgres.DBConnection) error {
				var dataset cards.Dataset[query.Request] = ygoprodeck.NewImporter(
					newYgoprodeckClient(), cards.NewCardService(cards.NewCardDao(conn)))

				report, err := dataset.Import(cmd.Context(), r)
				if err != nil {
					return err
				}

				log.Info().Msgf("Report %#v", report)
				stats.LogMemUsage()

				return nil
			})
		},
	}
	f.register(cmd)

	return cmd
}

// withConnection connects to the configured database and closes the connection after f returns.
func withConnection(ctx context.Context, f func(conn *postgres.DBConnection) error) error {
	conn, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func(toCloseFn func() error) {
		cErr := toCloseFn()
		if cErr != nil {
			log.Error().Err(cErr).Msgf("Failed to close database connection")
		}
	}(conn.Close)

	return f(conn)
}
