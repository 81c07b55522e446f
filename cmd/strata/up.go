package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pthm/strata/internal/cli"
	"github.com/pthm/strata/pkg/migrator"
)

var (
	upTo     string
	upDryRun bool
	upLock   bool
	upNoLock bool
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migration steps",
	Long:  `Apply every pending step in version order, or up to and including --to.`,
	Example: `  # Migrate to the latest version
  strata up --db postgres://localhost/crm

  # Migrate up to a specific version
  strata up --to 20240116090000

  # Preview the SQL without applying
  strata up --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun := resolveBool(cmd, "dry-run", upDryRun, cfg.Migrate.DryRun)
		lock := resolveBool(cmd, "lock", upLock, cfg.Migrate.Lock) && !upNoLock
		return runUp(cmd.Context(), upTo, dryRun, lock)
	},
}

func init() {
	f := upCmd.Flags()
	f.StringVar(&upTo, "to", "", "apply steps up to and including this version")
	f.BoolVar(&upDryRun, "dry-run", false, "output migration SQL without applying")
	f.BoolVar(&upLock, "lock", true, "hold an advisory lock while migrating")
	f.BoolVar(&upNoLock, "no-lock", false, "do not take the advisory lock")
}

func runUp(ctx context.Context, target string, dryRun, lock bool) error {
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
		var res *migrator.Result
		if target == "" {
			res, err = m.Up(ctx)
		} else {
			res, err = m.UpTo(ctx, target)
		}
		if !dryRun && (err == nil || res != nil && len(res.Steps) > 0) {
			printResult(res, "Applied")
		}
		if err != nil {
			return cli.MigrationError("migration failed", err)
		}
		return nil
	})
}

// printResult lists the steps a run completed.
func printResult(res *migrator.Result, verb string) {
	if quiet || res == nil {
		return
	}
	if len(res.Steps) == 0 {
		if res.Direction == migrator.DirectionUp {
			fmt.Println("Schema is up to date.")
		} else {
			fmt.Println("Nothing to revert.")
		}
		return
	}
	for _, s := range res.Steps {
		fmt.Printf("  %s %s %s\n", cli.Render(cli.PassStyle, "✓"), s.Version, s.Name)
	}
	fmt.Printf("%s %d step(s).\n", verb, len(res.Steps))
}
