package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pthm/strata/internal/cli"
)

var (
	// Global state set during PersistentPreRunE
	cfg        *cli.Config
	configPath string
	logger     = slog.Default()

	// Persistent flags
	cfgFile string
	dbURL   string
	verbose int
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "strata",
	Short: "CRM schema migrations for PostgreSQL",
	Long: `strata - CRM schema migrations for PostgreSQL

Strata applies and reverts the CRM database schema as an ordered stack of
reversible steps, recording each applied step in a log table.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for help/completion/version commands
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, configPath, err = cli.LoadConfig(cfgFile)
		if err != nil {
			return cli.ConfigError("loading configuration", err)
		}

		logger = cli.NewLogger(os.Stderr, cfg.Log, verbose, quiet)
		slog.SetDefault(logger)
		return nil
	},
	SilenceUsage:  true, // Don't show usage on errors
	SilenceErrors: true, // We handle errors ourselves
}

// Command group IDs
const (
	groupSchema  = "schema"
	groupUtility = "utility"
)

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: auto-discover strata.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "database URL (overrides database.url)")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase log verbosity (can be repeated)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")

	rootCmd.AddGroup(
		&cobra.Group{ID: groupSchema, Title: "Schema:"},
		&cobra.Group{ID: groupUtility, Title: "Utility:"},
	)

	// Schema commands
	upCmd.GroupID = groupSchema
	downCmd.GroupID = groupSchema
	statusCmd.GroupID = groupSchema
	planCmd.GroupID = groupSchema
	doctorCmd.GroupID = groupSchema
	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(downCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(doctorCmd)

	// Utility commands
	configCmd.GroupID = groupUtility
	versionCmd.GroupID = groupUtility
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cli.ExitWithError(err)
	}
}

// resolveString returns the first non-empty string from the provided values.
// Used to implement precedence: flag > config > default.
func resolveString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// resolveBool returns the flag value when the flag was set on the command
// line, otherwise the config value.
func resolveBool(cmd *cobra.Command, flag string, flagValue, configValue bool) bool {
	if cmd.Flags().Changed(flag) {
		return flagValue
	}
	return configValue
}
