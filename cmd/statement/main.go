package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aerissecure/statement/config"
)

// app holds what every command shares once flags are parsed.
type app struct {
	cfgPath string
	cfg     *config.Config
	logger  zerolog.Logger
}

func main() {
	// A missing .env is fine; variables may come from the environment.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "statement",
		Short:         "Render financial statements into spreadsheets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.cfgPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(cfg.Level()).
				With().Timestamp().Logger()
			cmd.SetContext(a.logger.WithContext(cmd.Context()))
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "",
		"Path to the config file (default is ./statement.yaml)")

	rootCmd.AddCommand(
		newListCmd(),
		newRenderCmd(a),
		newPreviewCmd(a),
		newInspectCmd(),
		newServeCmd(a),
	)
	return rootCmd
}
