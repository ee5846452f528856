package main

import (
	"errors"
	"io/fs"
	"net/http"
	"runtime"

	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/config"
	logger "github.com/konstantinfoerster/ygoprodeck-importer-go/internal/log"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/web"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/ygoprodeck"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "./configs/application.yaml"

var configPath string
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ygo",
	Short: "Search and import Yu-Gi-Oh! cards from YGOPRODeck",
	Long: `ygo searches the YGOPRODeck card database and imports the matching cards
and their images into a PostgreSQL catalog.

Examples:
  ygo search --name Trent --name "Pot of Greed"
  ygo search --type "Link Monster" --attribute WIND --linkmarker Top --linkmarker Bottom
  ygo import --cardset "Legend of Blue Eyes White Dragon"
  ygo images --fname Utopia`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetupConsoleLogger()

		c, err := loadConfig(configPath, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		cfg = c

		if err := logger.SetLogLevel(cfg.Logging.LevelOrDefault()); err != nil {
			return err
		}

		log.Debug().Msgf("OS\t\t %s", runtime.GOOS)
		log.Debug().Msgf("ARCH\t\t %s", runtime.GOARCH)
		log.Debug().Msgf("CPUs\t\t %d", runtime.NumCPU())

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to the config file")
	rootCmd.AddCommand(newSearchCmd(), newImportCmd(), newImagesCmd())
}

// loadConfig falls back to the default settings if the default config file does not exist.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	c, err := config.Load(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &config.Config{Ygoprodeck: config.Ygoprodeck{BaseURL: config.DefaultBaseURL}}, nil
		}

		return nil, err
	}

	return c, nil
}

func newYgoprodeckClient() *ygoprodeck.Client {
	wclient := web.NewClient(cfg.Ygoprodeck.Client, &http.Client{})

	return ygoprodeck.NewClient(cfg.Ygoprodeck, wclient)
}
