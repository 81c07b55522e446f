package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pthm/strata/internal/cli"
	"github.com/pthm/strata/pkg/migrator"
)

var (
	planTo  string
	planSQL bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the steps up would apply",
	Example: `  # List pending steps
  strata plan

  # Print the SQL up would run
  strata plan --sql`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlan(cmd.Context(), planTo, planSQL)
	},
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&planTo, "to", "", "plan up to and including this version")
	f.BoolVar(&planSQL, "sql", false, "print the SQL instead of a step list")
}

func runPlan(ctx context.Context, target string, withSQL bool) error {
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	var out io.Writer = io.Discard
	if withSQL {
		out = os.Stdout
	}
	m := newMigrator(db, migrator.WithDryRun(out))

	var res *migrator.Result
	if target == "" {
		res, err = m.Up(ctx)
	} else {
		res, err = m.UpTo(ctx, target)
	}
	if err != nil {
		return cli.MigrationError("planning", err)
	}
	if withSQL {
		return nil
	}

	if len(res.Steps) == 0 {
		fmt.Println("Schema is up to date.")
		return nil
	}
	for _, s := range res.Steps {
		mode := "transactional"
		if !s.Transactional(migrator.DirectionUp) {
			mode = cli.Render(cli.WarnStyle, "non-transactional")
		}
		fmt.Printf("  %s %s (%s)\n", s.Version, s.Name, mode)
	}
	fmt.Printf("%d step(s) pending.\n", len(res.Steps))
	return nil
}
