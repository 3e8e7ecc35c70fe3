package main

import (
	"fmt"

	"github.com/rmera/trjstat/internal/config"
	"github.com/rmera/trjstat/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//Version is injected via ldflags during build
var Version = "dev"

//app contains the state shared by all the subcommands, set up before any of them runs.
type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
	log        zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}
	root := &cobra.Command{
		Use:           "trjstat",
		Short:         "Statistical analysis of molecular dynamics trajectories",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "configuration file (default: trjstat.yaml in the current directory, if present)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides the configuration)")
	root.AddCommand(
		newRDFCmd(a),
		newAnglesCmd(a),
		newDensityCmd(a),
		newMSDCmd(a),
		newRotCFCmd(a),
		newHBondsCmd(a),
		newElasticCmd(a),
		newConvertCmd(a),
		newMergeCmd(a),
		newInfoCmd(a),
		newFormatsCmd(),
	)
	return root
}

//setup loads the configuration and creates the logger.
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
		if err := cfg.Logging.Validate(); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
	}
	l, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = l
	//the trajectory readers log through the global logger.
	log.Logger = l
	return nil
}
