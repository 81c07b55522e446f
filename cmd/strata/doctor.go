package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pthm/strata/internal/cli"
	"github.com/pthm/strata/internal/doctor"
	"github.com/pthm/strata/internal/migrations"
)

var doctorVerbose bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health checks",
	Long:  `Compare the migration log, the compiled steps and the live schema.`,
	Example: `  # Run health checks
  strata doctor --db postgres://localhost/crm

  # Run with detailed output
  strata doctor --verbose`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDoctor(cmd.Context(), resolveBool(cmd, "verbose", doctorVerbose, cfg.Doctor.Verbose))
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorVerbose, "verbose", false, "show detailed output")
}

func runDoctor(ctx context.Context, verboseFlag bool) error {
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if !quiet {
		fmt.Println(cli.Render(cli.HeaderStyle, "strata doctor - Health Check"))
	}

	d := doctor.New(db, migrations.All(), doctor.WithTable(cfg.Migrate.Table))
	report, err := d.Run(ctx)
	if err != nil {
		return cli.GeneralError("running doctor", err)
	}

	report.PrintStyled(os.Stdout, verboseFlag, cli.StatusSymbol)

	if report.HasErrors() {
		return cli.GeneralError("health checks failed", nil)
	}
	return nil
}
