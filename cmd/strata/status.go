package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/pthm/strata/internal/cli"
	"github.com/pthm/strata/pkg/migrator"
)

var statusOutput string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending steps",
	Long:  `Show every migration step with its applied state, including log rows with no matching step.`,
	Example: `  # Show status
  strata status --db postgres://localhost/crm

  # Machine-readable output
  strata status --output yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch statusOutput {
		case "text", "yaml":
		default:
			return cli.ConfigError(fmt.Sprintf("unknown output format %q (want text or yaml)", statusOutput), nil)
		}
		return runStatus(cmd.Context(), statusOutput)
	},
}

func init() {
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", "text", "output format: text or yaml")
}

// stepState is the YAML shape of one status row.
type stepState struct {
	Version   string     `json:"version"`
	Name      string     `json:"name"`
	State     string     `json:"state"`
	AppliedAt *time.Time `json:"applied_at,omitempty"`
	Checksum  string     `json:"checksum,omitempty"`
	Drifted   bool       `json:"drifted,omitempty"`
}

func stateOf(s migrator.StepStatus) string {
	switch {
	case s.Orphaned:
		return "orphaned"
	case s.Stranded:
		return "stranded"
	case s.Applied:
		return "applied"
	default:
		return "pending"
	}
}

func runStatus(ctx context.Context, output string) error {
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	status, err := newMigrator(db).Status(ctx)
	if err != nil {
		return cli.MigrationError("reading status", err)
	}

	if output == "yaml" {
		return writeStatusYAML(os.Stdout, status)
	}
	writeStatusText(os.Stdout, status)
	return nil
}

func writeStatusYAML(w io.Writer, status []migrator.StepStatus) error {
	rows := make([]stepState, 0, len(status))
	for _, s := range status {
		row := stepState{
			Version:  s.Version,
			Name:     s.Name,
			State:    stateOf(s),
			Checksum: s.Checksum,
			Drifted:  s.Drifted(),
		}
		if s.Applied {
			at := s.AppliedAt.UTC()
			row.AppliedAt = &at
		}
		rows = append(rows, row)
	}
	out, err := yaml.Marshal(map[string]any{"steps": rows})
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func writeStatusText(w io.Writer, status []migrator.StepStatus) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "VERSION\tNAME\tSTATE\tAPPLIED AT")

	var applied, pending int
	for _, s := range status {
		state := stateOf(s)
		at := "-"
		if s.Applied {
			applied++
			at = s.AppliedAt.Local().Format(time.DateTime)
		} else {
			pending++
		}
		if s.Drifted() {
			state += " (changed)"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Version, s.Name, state, at)
	}
	_ = tw.Flush()

	_, _ = fmt.Fprintf(w, "\n%d applied, %d pending\n", applied, pending)
}
