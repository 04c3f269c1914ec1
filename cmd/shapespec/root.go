package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gnana997/shapespec/pkg/shape"
	"github.com/gnana997/shapespec/pkg/util"
)

// app carries state shared by every command of one invocation.
type app struct {
	configPath string
	flags      flagValues
	settings   settings
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "shapespec",
		Short: "Resolve design tokens into button shape records",
		Long: `shapespec maps a button configuration (surface, hierarchy, input, size, state)
onto a complete style record using a design-token export, a semantic token map
and a size dimension table.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", defaultConfigPath, "Project config file")
	pf.StringVar(&a.flags.Tokens, "tokens", "", "Token export JSON (default: embedded export)")
	pf.StringVar(&a.flags.Dimensions, "dimensions", "", "Dimension table YAML (default: built-in table)")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&a.flags.LogFormat, "log-format", "", "Log format: text, json")

	root.AddCommand(
		newResolveCmd(a),
		newPaletteCmd(a),
		newPreviewCmd(a),
		newMatrixCmd(a),
		newAuditCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadProjectConfig(a.configPath)
	if err != nil {
		return err
	}
	a.settings, err = resolveSettings(a.flags, cfg)
	if err != nil {
		return err
	}

	a.logger = util.NewLogger(util.LoggerConfig{
		Level:  a.settings.LogLevel,
		Format: a.settings.LogFormat,
		Output: cmd.ErrOrStderr(),
	})
	util.SetDefault(a.logger)
	a.logger.Debug("settings resolved",
		"config", a.configPath,
		"tokens", a.settings.TokensPath,
		"dimensions", a.settings.DimensionsPath)
	return nil
}

func (a *app) loadContext() (*shape.Context, error) {
	return shape.LoadContext(a.settings.TokensPath, a.settings.DimensionsPath, nil)
}
