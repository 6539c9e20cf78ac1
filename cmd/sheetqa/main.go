package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sheetqa/internal/analysis"
	"sheetqa/internal/approval"
	"sheetqa/internal/config"
	"sheetqa/internal/golden"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Logger
	logger *zap.Logger

	// Components, constructed once per process in PersistentPreRunE and
	// injected into command handlers.
	app *components
)

// components wires the engine together: one manager, validator, workflow,
// and assessor per process.
type components struct {
	cfg       *config.Config
	manager   *golden.Manager
	validator *golden.Validator
	workflow  *approval.Workflow
	assessor  *analysis.Assessor
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sheetqa",
	Short: "sheetqa - rule-based worksheet quality assessment and golden reference governance",
	Long: `sheetqa statically analyzes generated worksheet HTML for layout,
typography, and spacing quality, and governs the golden-reference
lifecycle: candidate submission, human review, versioned promotion,
and set-wide validation.

Assessment is heuristic and rule-based - no rendering, no ML. Low
quality is a score, not an error; only persistence-level failures
(disk full, permission denied) surface as errors.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		manager := golden.NewManager(cfg.Golden.Root, logger)
		app = &components{
			cfg:       cfg,
			manager:   manager,
			validator: golden.NewValidator(logger),
			workflow:  approval.NewWorkflow(cfg.Approval.Root, manager, logger),
			assessor:  analysis.NewAssessor(logger),
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// fail prints a structured failure line and returns the error so cobra
// exits non-zero.
func fail(err error) error {
	fmt.Fprintf(os.Stderr, "%s %v\n", failMark(), err)
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "sheetqa.yaml", "path to config file")

	rootCmd.AddCommand(
		createCmd,
		listCmd,
		updateSetCmd,
		validateCmd,
		deleteCmd,
		submitCmd,
		listPendingCmd,
		reviewCmd,
		approveSubmissionCmd,
		approvalStatsCmd,
		cleanupCmd,
		assessCmd,
		historyCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
