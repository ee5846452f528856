package main

import (
	"time"

	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/cards"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/postgres"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/stats"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/storage"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/timer"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/ygoprodeck"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newImagesCmd() *cobra.Command {
	var f filters

	cmd := &cobra.Command{
		Use:   "images",
		Short: "Import all matching cards together with their images",
		Long: `Images imports the matching cards into the database and downloads all card images
that are not stored yet into the configured storage location.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer timer.TimeTrack(time.Now(), "images")

			r, err := f.request(cmd)
			if err != nil {
				return err
			}

			store, err := storage.NewLocalStorage(cfg.Storage)
			if err != nil {
				return err
			}

			client := newYgoprodeckClient()
			cc, err := client.Search(cmd.Context(), r)
			if err != nil {
				return err
			}

			return withConnection(cmd.Context(), func(conn *postgres.DBConnection) error {
				cardDao := cards.NewCardDao(conn)

				// images reference their card, so the cards are imported first
				cardReport, err := ygoprodeck.NewImporter(client, cards.NewCardService(cardDao)).
					ImportCards(cmd.Context(), cc)
				if err != nil {
					return err
				}
				log.Info().Msgf("Card report %#v", cardReport)

				importer := cards.NewImageImporter(cardDao, store, client, cfg.Images.WorkersOrDefault())
				report, err := importer.Import(cmd.Context(), cards.Dedupe(cc))
				if err != nil {
					return err
				}

				log.Info().Msgf("Image report %#v", report)
				stats.LogMemUsage()

				return nil
			})
		},
	}
	f.register(cmd)

	return cmd
}
