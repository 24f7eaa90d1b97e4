// Package commands implements the tallyconv command line.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/tally-statement-converter/internal/buildinfo"
	"github.com/insightdelivered/tally-statement-converter/internal/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:   "tallyconv",
		Short: "Convert bank statements and GST returns into Tally imports",
		Long: `Converts JK Bank statement exports (CSV or XLSX) into structured
transactions and Tally "Import Data" XML, and extracts invoice rows
from GSTR-2A CSV exports.`,
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	env := &environment{envFile: &envFile}
	rootCmd.AddCommand(
		newServeCommand(env),
		newParseCommand(env),
		newXMLCommand(env),
		newGSTCommand(env),
	)

	return rootCmd
}

// environment loads configuration lazily, after flags are parsed.
type environment struct {
	envFile *string
	cfg     *config.Config
	logger  *slog.Logger
}

func (e *environment) load() (*config.Config, *slog.Logger, error) {
	if e.cfg != nil {
		return e.cfg, e.logger, nil
	}
	cfg, err := config.Load(*e.envFile)
	if err != nil {
		return nil, nil, err
	}
	e.cfg = cfg
	e.logger = cfg.Logging.NewLogger()
	return e.cfg, e.logger, nil
}
