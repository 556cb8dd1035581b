package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/kerbaras/hadiths/pkg/app"
	"github.com/kerbaras/hadiths/pkg/config"
	"github.com/kerbaras/hadiths/pkg/logger"
)

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "hadiths",
	Short: "Browse hadith collections in your terminal",
	Long:  "Browse books, chapters and hadiths from the hadith API with a TUI, or query them from the command line",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, log := setup()
		defer log.Sync()

		// Launch TUI by default
		a := app.NewApp(cfg, log)
		if err := a.Run(); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ./config/config.yaml or $HOME/.hadiths/config.yaml)")
	flags.String("base-url", "", "hadith API base URL")
	flags.String("api-key", "", "hadith API key (or HADITHS_API_KEY)")
	flags.Int("page-size", config.DefaultPageSize, "hadiths per page")
	flags.String("log-file", "", "log file path")
	flags.String("env", "", "environment (local, production)")

	bind := map[string]string{
		"base_url":  "base-url",
		"api_key":   "api-key",
		"page_size": "page-size",
		"log_file":  "log-file",
		"env":       "env",
	}
	for key, flag := range bind {
		cobra.CheckErr(v.BindPFlag(key, flags.Lookup(flag)))
	}

	rootCmd.AddCommand(booksCmd)
	rootCmd.AddCommand(chaptersCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(exportCmd)
}

// setup loads the configuration with flag overrides and builds the logger.
func setup() (*config.Config, *zap.Logger) {
	cfg, err := config.LoadWith(v, cfgFile)
	cobra.CheckErr(err)

	log, err := logger.New(cfg)
	cobra.CheckErr(err)
	return cfg, log
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
