// Package doctor provides health checks for a strata-managed CRM database.
//
// The doctor command compares the migration log, the compiled migration
// sequence and the live catalog, and reports anything that would make the
// next up or down misbehave.
//
// Example usage:
//
//	d := doctor.New(db, migrations.All())
//	report, err := d.Run(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	report.Print(os.Stdout, true) // verbose=true
package doctor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pthm/strata/internal/inspect"
	"github.com/pthm/strata/internal/migrations"
	"github.com/pthm/strata/pkg/migrator"
)

// Status represents the result of a health check.
type Status int

const (
	// StatusPass indicates the check passed.
	StatusPass Status = iota
	// StatusWarn indicates a non-critical issue.
	StatusWarn
	// StatusFail indicates a critical issue that will cause failures.
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Symbol returns a status indicator symbol for terminal output.
func (s Status) Symbol() string {
	switch s {
	case StatusPass:
		return "✓"
	case StatusWarn:
		return "⚠"
	case StatusFail:
		return "✗"
	default:
		return "?"
	}
}

// CheckResult represents the outcome of a single health check.
type CheckResult struct {
	// Category groups related checks (e.g., "Connection", "Sequence").
	Category string

	// Name is a short identifier for the check.
	Name string

	// Status is the check outcome.
	Status Status

	// Message is a human-readable description of the result.
	Message string

	// Details provides additional information for verbose output.
	Details string

	// FixHint suggests how to resolve issues.
	FixHint string
}

// Report contains all health check results.
type Report struct {
	Checks []CheckResult

	// Summary counts.
	Passed   int
	Warnings int
	Errors   int
}

// AddCheck adds a check result and updates summary counts.
func (r *Report) AddCheck(check CheckResult) {
	r.Checks = append(r.Checks, check)
	switch check.Status {
	case StatusPass:
		r.Passed++
	case StatusWarn:
		r.Warnings++
	case StatusFail:
		r.Errors++
	}
}

// Print writes the report to the given writer.
func (r *Report) Print(w io.Writer, verbose bool) {
	r.PrintStyled(w, verbose, func(s Status) string { return s.Symbol() })
}

// PrintStyled writes the report using symbol to render each status marker.
func (r *Report) PrintStyled(w io.Writer, verbose bool, symbol func(Status) string) {
	// Group checks by category
	categories := make(map[string][]CheckResult)
	var categoryOrder []string
	for _, check := range r.Checks {
		if _, exists := categories[check.Category]; !exists {
			categoryOrder = append(categoryOrder, check.Category)
		}
		categories[check.Category] = append(categories[check.Category], check)
	}

	for _, cat := range categoryOrder {
		_, _ = fmt.Fprintf(w, "\n%s\n", cat)
		for _, check := range categories[cat] {
			_, _ = fmt.Fprintf(w, "  %s %s\n", symbol(check.Status), check.Message)
			if verbose && check.Details != "" {
				for _, line := range strings.Split(check.Details, "\n") {
					_, _ = fmt.Fprintf(w, "      %s\n", line)
				}
			}
			if check.Status != StatusPass && check.FixHint != "" {
				_, _ = fmt.Fprintf(w, "      Fix: %s\n", check.FixHint)
			}
		}
	}

	_, _ = fmt.Fprintf(w, "\nSummary: %d passed, %d warnings, %d errors\n",
		r.Passed, r.Warnings, r.Errors)
}

// HasErrors returns true if any check failed.
func (r *Report) HasErrors() bool {
	return r.Errors > 0
}

// Doctor performs health checks on a database managed by strata.
type Doctor struct {
	db    *sql.DB
	steps []migrator.Step
	table string

	// Cached data from checks (populated during Run)
	logExists bool
	applied   []migrator.AppliedStep
	status    []migrator.StepStatus
	snapshot  *inspect.Snapshot
}

// Option configures a Doctor.
type Option func(*Doctor)

// WithTable sets the migration log table to inspect.
func WithTable(name string) Option {
	return func(d *Doctor) {
		if name != "" {
			d.table = name
		}
	}
}

// New creates a new Doctor instance.
func New(db *sql.DB, steps []migrator.Step, opts ...Option) *Doctor {
	d := &Doctor{
		db:    db,
		steps: steps,
		table: migrator.DefaultTable,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run executes all health checks and returns a report.
func (d *Doctor) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	// Nothing else can run without a connection.
	if !d.checkConnection(ctx, report) {
		return report, nil
	}
	if err := d.checkMigrationLog(ctx, report); err != nil {
		return nil, fmt.Errorf("checking migration log: %w", err)
	}
	d.checkSequence(report)
	d.checkChecksums(report)

	snap, err := inspect.Inspect(ctx, d.db, d.table)
	if err != nil {
		return nil, fmt.Errorf("inspecting schema: %w", err)
	}
	d.snapshot = snap

	if err := d.checkReferentialPolicy(ctx, report); err != nil {
		return nil, fmt.Errorf("checking referential policy: %w", err)
	}
	d.checkLegacyArtifacts(report)

	return report, nil
}

func (d *Doctor) checkConnection(ctx context.Context, report *Report) bool {
	if err := d.db.PingContext(ctx); err != nil {
		report.AddCheck(CheckResult{
			Category: "Connection",
			Name:     "ping",
			Status:   StatusFail,
			Message:  "Cannot reach database",
			Details:  err.Error(),
			FixHint:  "Check database.url or the STRATA_DATABASE_* environment variables",
		})
		return false
	}

	var version string
	if err := d.db.QueryRowContext(ctx, "SHOW server_version").Scan(&version); err != nil {
		report.AddCheck(CheckResult{
			Category: "Connection",
			Name:     "ping",
			Status:   StatusWarn,
			Message:  "Connected, but server_version is unavailable",
			Details:  err.Error(),
		})
		return true
	}
	report.AddCheck(CheckResult{
		Category: "Connection",
		Name:     "ping",
		Status:   StatusPass,
		Message:  fmt.Sprintf("Connected (PostgreSQL %s)", version),
	})
	return true
}

func (d *Doctor) checkMigrationLog(ctx context.Context, report *Report) error {
	exists, err := migrator.TableExists(d.table).Check(ctx, d.db)
	if err != nil {
		return err
	}
	d.logExists = exists
	if !exists {
		report.AddCheck(CheckResult{
			Category: "Migration Log",
			Name:     "log_table",
			Status:   StatusWarn,
			Message:  fmt.Sprintf("%s table does not exist", d.table),
			FixHint:  "Run 'strata up' to create the schema",
		})
		return nil
	}

	m := migrator.NewMigrator(d.db, d.steps, migrator.WithTable(d.table))
	d.applied, err = m.Applied(ctx)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("%s table exists (%d applied)", d.table, len(d.applied))
	if n := len(d.applied); n > 0 {
		last := d.applied[n-1]
		msg = fmt.Sprintf("%s table exists (%d applied, head %s %s)", d.table, n, last.Version, last.Name)
	}
	report.AddCheck(CheckResult{
		Category: "Migration Log",
		Name:     "log_table",
		Status:   StatusPass,
		Message:  msg,
	})
	return nil
}

func (d *Doctor) checkSequence(report *Report) {
	if err := migrator.Validate(d.steps); err != nil {
		check := CheckResult{
			Category: "Sequence",
			Name:     "validate",
			Status:   StatusFail,
			Message:  "Migration sequence is invalid",
			Details:  err.Error(),
			FixHint:  "Give every step a unique, non-empty version",
		}
		var dup *migrator.DuplicateVersionError
		if errors.As(err, &dup) {
			check.Message = fmt.Sprintf("Version %s is used by %d steps", dup.Version, len(dup.Names))
		}
		report.AddCheck(check)
		return
	}
	report.AddCheck(CheckResult{
		Category: "Sequence",
		Name:     "validate",
		Status:   StatusPass,
		Message:  fmt.Sprintf("%d steps with unique versions", len(d.steps)),
	})

	d.status = migrator.BuildStatus(d.steps, d.applied)

	var pending, orphaned, stranded []string
	for _, st := range d.status {
		label := st.Version + " " + st.Name
		switch {
		case st.Orphaned:
			orphaned = append(orphaned, label)
		case st.Stranded:
			stranded = append(stranded, label)
		case !st.Applied:
			pending = append(pending, label)
		}
	}

	if len(pending) == 0 {
		report.AddCheck(CheckResult{
			Category: "Sequence",
			Name:     "pending",
			Status:   StatusPass,
			Message:  "Schema is up to date",
		})
	} else {
		report.AddCheck(CheckResult{
			Category: "Sequence",
			Name:     "pending",
			Status:   StatusWarn,
			Message:  fmt.Sprintf("%d pending step(s)", len(pending)),
			Details:  strings.Join(pending, "\n"),
			FixHint:  "Run 'strata up' to apply them",
		})
	}

	if len(orphaned) > 0 {
		report.AddCheck(CheckResult{
			Category: "Sequence",
			Name:     "orphaned",
			Status:   StatusFail,
			Message:  fmt.Sprintf("%d applied version(s) have no step in this build", len(orphaned)),
			Details:  strings.Join(orphaned, "\n"),
			FixHint:  "Run a build that contains these steps, or remove the log rows once the schema is reconciled",
		})
	}
	if len(stranded) > 0 {
		report.AddCheck(CheckResult{
			Category: "Sequence",
			Name:     "stranded",
			Status:   StatusWarn,
			Message:  fmt.Sprintf("%d step(s) are older than the applied head and will never run", len(stranded)),
			Details:  strings.Join(stranded, "\n"),
			FixHint:  "Give the step a version newer than the head",
		})
	}
}

func (d *Doctor) checkChecksums(report *Report) {
	if len(d.applied) == 0 {
		return
	}
	var drifted []string
	for _, st := range d.status {
		if st.Drifted() {
			drifted = append(drifted, fmt.Sprintf("%s %s (applied %s, now %s)",
				st.Version, st.Name, short(st.AppliedChecksum), short(st.Checksum)))
		}
	}
	if len(drifted) == 0 {
		report.AddCheck(CheckResult{
			Category: "Checksums",
			Name:     "drift",
			Status:   StatusPass,
			Message:  "Applied steps match their recorded checksums",
		})
		return
	}
	report.AddCheck(CheckResult{
		Category: "Checksums",
		Name:     "drift",
		Status:   StatusWarn,
		Message:  fmt.Sprintf("%d applied step(s) changed since they ran", len(drifted)),
		Details:  strings.Join(drifted, "\n"),
		FixHint:  "Write a new step instead of editing an applied one",
	})
}

func (d *Doctor) checkReferentialPolicy(ctx context.Context, report *Report) error {
	fks, err := inspect.ForeignKeys(ctx, d.db)
	if err != nil {
		return err
	}
	byColumn := make(map[string]inspect.ForeignKey, len(fks))
	for _, fk := range fks {
		byColumn[fk.Table+"."+fk.Column] = fk
	}

	var checked int
	var problems []string
	for _, p := range migrations.Policies() {
		// Policies for columns a later step adds are not due yet.
		if !d.snapshot.HasColumn(p.Table, p.Column) {
			continue
		}
		checked++
		fk, ok := byColumn[p.Table+"."+p.Column]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("%s: foreign key missing", p))
		case fk.RefTable != p.RefTable || fk.RefColumn != p.RefColumn || fk.OnDelete != p.OnDelete:
			problems = append(problems, fmt.Sprintf("%s: found %s", p, fk))
		}
	}

	if len(problems) > 0 {
		report.AddCheck(CheckResult{
			Category: "Referential Policy",
			Name:     "foreign_keys",
			Status:   StatusFail,
			Message:  fmt.Sprintf("%d of %d foreign key(s) differ from the delete policy", len(problems), checked),
			Details:  strings.Join(problems, "\n"),
			FixHint:  "Restore the constraint with the expected ON DELETE rule",
		})
		return nil
	}
	report.AddCheck(CheckResult{
		Category: "Referential Policy",
		Name:     "foreign_keys",
		Status:   StatusPass,
		Message:  fmt.Sprintf("%d foreign key(s) match the delete policy", checked),
	})
	return nil
}

func (d *Doctor) checkLegacyArtifacts(report *Report) {
	if !d.snapshot.HasTable("users") {
		report.AddCheck(CheckResult{
			Category: "Legacy Artifacts",
			Name:     "user_role",
			Status:   StatusPass,
			Message:  "users table not created yet",
		})
		return
	}

	logged := false
	for _, a := range d.applied {
		if a.Version == migrations.RoleNormalizationVersion {
			logged = true
			break
		}
	}

	s := d.snapshot
	var problems []string
	expect := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}
	if logged {
		expect(!s.HasColumn("users", "role"), "users.role still exists")
		expect(!s.HasEnum("user_role"), "type user_role still exists")
		expect(s.HasColumn("users", "role_id"), "users.role_id is missing")
		expect(s.HasTable("roles"), "table roles is missing")
	} else {
		expect(s.HasColumn("users", "role"), "users.role is missing")
		expect(s.HasEnum("user_role"), "type user_role is missing")
		expect(!s.HasColumn("users", "role_id"), "users.role_id exists but the step is not logged")
	}

	state := "legacy role column in place"
	if logged {
		state = "roles normalized"
	}
	if len(problems) > 0 {
		report.AddCheck(CheckResult{
			Category: "Legacy Artifacts",
			Name:     "user_role",
			Status:   StatusFail,
			Message:  fmt.Sprintf("Role columns disagree with the log (%s expected)", state),
			Details:  strings.Join(problems, "\n"),
			FixHint:  fmt.Sprintf("Step %s appears partially applied, resolve manually", migrations.RoleNormalizationVersion),
		})
		return
	}
	report.AddCheck(CheckResult{
		Category: "Legacy Artifacts",
		Name:     "user_role",
		Status:   StatusPass,
		Message:  "Role columns match the log (" + state + ")",
	})
}

func short(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}
