package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vsinha/doorshop/pkg/infrastructure/config"
	"github.com/vsinha/doorshop/pkg/infrastructure/logging"
)

// NewRootCommand builds the doorshop command tree
func NewRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "doorshop",
		Short:         "Door shop backend: cut lists and handing-consistent entry updates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")

	root.AddCommand(
		newServeCommand(&configPath),
		newMigrateCommand(&configPath),
		newCutListCommand(),
	)
	return root
}

// setup loads configuration and builds the logger for a subcommand
func setup(configPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			return NewServeCommand(cfg, logger).Execute(cmd.Context())
		},
	}
}

func newMigrateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the PostgreSQL schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			if err := NewMigrateCommand(cfg, logger).Execute(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema applied")
			return nil
		},
	}
}

func newCutListCommand() *cobra.Command {
	var (
		cfg     CutListConfig
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "cutlist",
		Short: "Compute a door cut list offline from a part catalog CSV",
		Example: `  doorshop cutlist --catalog parts.csv --width 36 --height 84 \
    --hinge-gap 0.0625 --strike-gap 0.125 \
    --top-rail TR-1 --bottom-rail BR-1 --hinge-rail HR-1 --lock-rail LR-1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zap.NewNop()
			if verbose {
				logger = newStderrLogger(cmd.ErrOrStderr())
			}
			return NewCutListCommand(cfg, cmd.OutOrStdout(), logger).Execute(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.CatalogFile, "catalog", "", "Path to part catalog CSV (part_type,part_ly)")
	flags.StringVarP(&cfg.Format, "format", "f", "text", "Output format: text, json, csv")
	flags.StringVar(&cfg.OpeningJSON, "opening", "", "Opening document as JSON")
	flags.StringVar(&cfg.DoorJSON, "door", "", "Door document as JSON")
	flags.StringVar(&cfg.Width, "width", "", "Opening width")
	flags.StringVar(&cfg.Height, "height", "", "Opening height")
	flags.StringVar(&cfg.HingeGap, "hinge-gap", "", "Hinge-side gap")
	flags.StringVar(&cfg.StrikeGap, "strike-gap", "", "Strike-side gap")
	flags.StringVar(&cfg.LockGap, "lock-gap", "", "Lock-side gap, used when strike gap is unset")
	flags.StringVar(&cfg.TopRail, "top-rail", "", "Top rail part type")
	flags.StringVar(&cfg.BottomRail, "bottom-rail", "", "Bottom rail part type")
	flags.StringVar(&cfg.HingeRail, "hinge-rail", "", "Hinge rail part type")
	flags.StringVar(&cfg.LockRail, "lock-rail", "", "Lock rail part type")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	return cmd
}

func newStderrLogger(w io.Writer) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		zap.DebugLevel,
	)
	return zap.New(core)
}
