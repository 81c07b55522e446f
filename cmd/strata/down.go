package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/pthm/strata/internal/cli"
	"github.com/pthm/strata/pkg/migrator"
)

var (
	downTo     string
	downAll    bool
	downYes    bool
	downDryRun bool
	downLock   bool
	downNoLock bool
)

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert applied migration steps",
	Long: `Revert the most recently applied step, or every step applied after --to.

Use --all to revert the whole schema.`,
	Example: `  # Revert the last applied step
  strata down

  # Revert back to a version (the version itself stays applied)
  strata down --to 20240116090000

  # Revert everything without prompting
  strata down --all --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if downAll && downTo != "" {
			return cli.ConfigError("--all and --to are mutually exclusive", nil)
		}
		target := downTo
		if downAll {
			target = migrator.Base
		}
		dryRun := resolveBool(cmd, "dry-run", downDryRun, cfg.Migrate.DryRun)
		lock := resolveBool(cmd, "lock", downLock, cfg.Migrate.Lock) && !downNoLock
		return runDown(cmd.Context(), target, dryRun, lock, downYes)
	},
}

func init() {
	f := downCmd.Flags()
	f.StringVar(&downTo, "to", "", "revert steps applied after this version")
	f.BoolVar(&downAll, "all", false, "revert every applied step")
	f.BoolVarP(&downYes, "yes", "y", false, "do not ask for confirmation")
	f.BoolVar(&downDryRun, "dry-run", false, "output revert SQL without applying")
	f.BoolVar(&downLock, "lock", true, "hold an advisory lock while migrating")
	f.BoolVar(&downNoLock, "no-lock", false, "do not take the advisory lock")
}

func runDown(ctx context.Context, target string, dryRun, lock, yes bool) error {
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	var opts []migrator.Option
	if dryRun {
		opts = append(opts, migrator.WithDryRun(os.Stdout))
		lock = false
	}
	m := newMigrator(db, opts...)

	return withLock(ctx, db, lock, func() error {
		if !dryRun && !yes && cli.IsInteractive() {
			applied, err := m.Applied(ctx)
			if err != nil {
				return cli.GeneralError("reading migration log", err)
			}
			plan, err := migrator.PlanBackward(m.Steps(), applied, target)
			if err != nil {
				return cli.MigrationError("planning revert", err)
			}
			if len(plan) == 0 {
				printResult(&migrator.Result{Direction: migrator.DirectionDown}, "Reverted")
				return nil
			}
			ok, err := confirmRevert(plan)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(os.Stderr, "Revert cancelled.")
				return nil
			}
		}

		res, err := m.DownTo(ctx, target)
		if !dryRun && (err == nil || res != nil && len(res.Steps) > 0) {
			printResult(res, "Reverted")
		}
		if err != nil {
			return cli.MigrationError("revert failed", err)
		}
		return nil
	})
}

func confirmRevert(plan []migrator.Step) (bool, error) {
	desc := ""
	for _, s := range plan {
		desc += fmt.Sprintf("%s %s\n", s.Version, s.Name)
	}

	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Revert %d step(s)?", len(plan))).
				Description(desc).
				Affirmative("Revert").
				Negative("Cancel").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, cli.GeneralError("confirmation prompt", err)
	}
	return ok, nil
}
