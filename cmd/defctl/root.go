package main

import (
	"context"
	"fmt"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	appDefinition "github.com/execution-hub/definition-registry/internal/application/definition"
	"github.com/execution-hub/definition-registry/internal/config"
	"github.com/execution-hub/definition-registry/internal/infrastructure/codegen"
	"github.com/execution-hub/definition-registry/internal/infrastructure/storage"
	"github.com/execution-hub/definition-registry/internal/logging"
)

const configRelPath = "definition-registry/config.yaml"

type globalOptions struct {
	configPath string
	format     string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:          "defctl",
		Short:        "Inspect and maintain the process definition registry",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/"+configRelPath+")")
	cmd.PersistentFlags().StringVarP(&opts.format, "output", "o", "table", "Output format: table or json")

	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newGetCmd(opts))
	cmd.AddCommand(newVersionsCmd(opts))
	cmd.AddCommand(newProjectsCmd(opts))
	cmd.AddCommand(newResourcesCmd(opts))
	cmd.AddCommand(newCountCmd(opts))
	return cmd
}

// loadConfig reads the explicit --config file, or the XDG one when present.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		if found, err := xdg.SearchConfigFile(configRelPath); err == nil {
			path = found
		}
	}
	return config.Load(path)
}

func (o *globalOptions) logger(cmd *cobra.Command, cfg *config.Config) zerolog.Logger {
	return logging.Console(cfg.Log.Level, cmd.ErrOrStderr())
}

// openService connects to the configured store without migrating it.
func (o *globalOptions) openService(cmd *cobra.Command) (*appDefinition.Service, func(), error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := o.logger(cmd, cfg)
	store, err := storage.Open(contextOf(cmd), cfg.Database, false, logger)
	if err != nil {
		return nil, nil, err
	}
	codes, err := codegen.NewGenerator(cfg.Code.NodeID)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return appDefinition.NewService(store.Repo, codes, logger), store.Close, nil
}

func (o *globalOptions) validateFormat() error {
	switch o.format {
	case "table", "json":
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid values: table, json)", o.format)
	}
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
