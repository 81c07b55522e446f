package migrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/pthm/strata/pkg/ddl"
)

// Migrator applies and reverts an ordered sequence of steps against
// PostgreSQL, recording progress in a log table in the same database.
//
// Steps run strictly one at a time. Each step runs in its own transaction
// when the Execer can begin one and every op in the step is transactional;
// the log row is written in that same transaction. Otherwise ops run one by
// one and a failure part-way through is reported as PartialApplyInconsistency.
//
// The Migrator does not lock. Callers running migrations from more than one
// process must serialise them externally, e.g. with an advisory lock.
//
// # Usage
//
//	m := migrator.NewMigrator(db, steps, migrator.WithLogger(logger))
//	res, err := m.Up(ctx)
type Migrator struct {
	db     Execer
	steps  []Step
	table  string
	logger *slog.Logger
	dryRun io.Writer
	now    func() time.Time
}

// Option configures a Migrator.
type Option func(*Migrator)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Migrator) { m.logger = l }
}

// WithTable overrides the migration log table name.
func WithTable(name string) Option {
	return func(m *Migrator) { m.table = name }
}

// WithDryRun makes Up and Down write the planned SQL to w instead of
// executing it.
func WithDryRun(w io.Writer) Option {
	return func(m *Migrator) { m.dryRun = w }
}

// WithClock sets the time source for applied_at.
func WithClock(now func() time.Time) Option {
	return func(m *Migrator) { m.now = now }
}

// NewMigrator creates a migrator for steps.
// The Execer is typically *sql.DB but can be *sql.Conn or *sql.Tx.
func NewMigrator(db Execer, steps []Step, opts ...Option) *Migrator {
	m := &Migrator{
		db:     db,
		steps:  steps,
		table:  DefaultTable,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Steps returns the source steps in version order.
func (m *Migrator) Steps() []Step {
	return Sorted(m.steps)
}

// Table returns the migration log table name.
func (m *Migrator) Table() string {
	return m.table
}

// Result describes a run of Up or Down.
type Result struct {
	Direction Direction
	// Steps lists the steps executed, in execution order. For a dry run it
	// lists the planned steps.
	Steps  []Step
	DryRun bool
}

// Versions returns the versions of the executed steps.
func (r *Result) Versions() []string {
	out := make([]string, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = s.Version
	}
	return out
}

// Applied returns the migration log in ascending version order.
func (m *Migrator) Applied(ctx context.Context) ([]AppliedStep, error) {
	return m.readLog(ctx, m.db)
}

// Pending returns the steps Up would apply.
func (m *Migrator) Pending(ctx context.Context) ([]Step, error) {
	applied, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}
	return PlanForward(m.steps, applied)
}

// Up applies every pending step.
func (m *Migrator) Up(ctx context.Context) (*Result, error) {
	return m.UpTo(ctx, "")
}

// UpTo applies pending steps up to and including target.
// An empty target means the latest step.
func (m *Migrator) UpTo(ctx context.Context, target string) (*Result, error) {
	applied, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}
	var plan []Step
	if target == "" {
		plan, err = PlanForward(m.steps, applied)
	} else {
		plan, err = PlanForwardTo(m.steps, applied, target)
	}
	if err != nil {
		return nil, err
	}
	return m.execute(ctx, DirectionUp, plan)
}

// Down reverts the most recently applied step.
func (m *Migrator) Down(ctx context.Context) (*Result, error) {
	return m.DownTo(ctx, "")
}

// DownTo reverts applied steps, most recent first, until target is the head
// of the log. Base reverts everything; an empty target reverts one step.
func (m *Migrator) DownTo(ctx context.Context, target string) (*Result, error) {
	applied, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}
	plan, err := PlanBackward(m.steps, applied, target)
	if err != nil {
		return nil, err
	}
	return m.execute(ctx, DirectionDown, plan)
}

// Reset reverts every applied step.
func (m *Migrator) Reset(ctx context.Context) (*Result, error) {
	return m.DownTo(ctx, Base)
}

func (m *Migrator) execute(ctx context.Context, dir Direction, plan []Step) (*Result, error) {
	res := &Result{Direction: dir}
	m.logger.Info("migration plan", "direction", dir.String(), "steps", len(plan))

	if m.dryRun != nil {
		res.DryRun = true
		res.Steps = plan
		m.outputDryRun(m.dryRun, dir, plan)
		return res, nil
	}

	for _, step := range plan {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		var err error
		if dir == DirectionUp {
			err = m.ApplyStep(ctx, step)
		} else {
			err = m.RevertStep(ctx, step)
		}
		if err != nil {
			return res, err
		}
		res.Steps = append(res.Steps, step)
	}
	return res, nil
}

// ApplyStep applies a single step and records it in the log. The step must
// be newer than every applied step.
func (m *Migrator) ApplyStep(ctx context.Context, step Step) error {
	if err := m.ensureLog(ctx, m.db); err != nil {
		return &MigrationApplyError{Version: step.Version, Name: step.Name, Err: err}
	}
	applied, err := m.Applied(ctx)
	if err != nil {
		return &MigrationApplyError{Version: step.Version, Name: step.Name, Err: err}
	}
	for _, a := range applied {
		if a.Version == step.Version {
			return &MigrationApplyError{Version: step.Version, Name: step.Name, Err: ErrAlreadyApplied}
		}
	}
	if h := head(applied); h != "" && CompareVersions(step.Version, h) <= 0 {
		return &MigrationApplyError{Version: step.Version, Name: step.Name, Err: fmt.Errorf("%w (head is %s)", ErrOutOfOrder, h)}
	}
	return m.run(ctx, step, DirectionUp)
}

// RevertStep reverts a single step and removes it from the log. The step
// must be the most recently applied one.
func (m *Migrator) RevertStep(ctx context.Context, step Step) error {
	applied, err := m.Applied(ctx)
	if err != nil {
		return &MigrationRevertError{Version: step.Version, Name: step.Name, Err: err}
	}
	found := false
	for _, a := range applied {
		if a.Version == step.Version {
			found = true
			break
		}
	}
	if !found {
		return &MigrationRevertError{Version: step.Version, Name: step.Name, Err: ErrNotApplied}
	}
	if h := head(applied); h != step.Version {
		return &MigrationRevertError{Version: step.Version, Name: step.Name, Err: fmt.Errorf("%w (head is %s)", ErrNotTopOfStack, h)}
	}
	return m.run(ctx, step, DirectionDown)
}

// run executes one direction of step together with its log update.
func (m *Migrator) run(ctx context.Context, step Step, dir Direction) error {
	start := m.now()
	log := m.logger.With("version", step.Version, "name", step.Name, "direction", dir.String())

	var err error
	if txer, ok := m.db.(txBeginner); ok && step.Transactional(dir) {
		log.Info("running migration", "transactional", true)
		err = m.runTx(ctx, txer, step, dir)
	} else {
		log.Info("running migration", "transactional", false)
		err = m.runDirect(ctx, step, dir)
	}
	if err != nil {
		log.Error("migration failed", "error", err)
		return err
	}
	log.Info("migration complete", "duration", m.now().Sub(start))
	return nil
}

func (m *Migrator) runTx(ctx context.Context, txer txBeginner, step Step, dir Direction) error {
	tx, err := txer.BeginTx(ctx, nil)
	if err != nil {
		return stepError(step, dir, "", fmt.Errorf("starting transaction: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	rec := &recorder{Execer: tx}
	for _, op := range step.Ops(dir) {
		if err := op.Run(ctx, rec); err != nil {
			return stepError(step, dir, rec.last, err)
		}
	}
	if err := m.record(ctx, tx, step, dir); err != nil {
		return stepError(step, dir, "", err)
	}
	if err := tx.Commit(); err != nil {
		return stepError(step, dir, "", fmt.Errorf("committing: %w", err))
	}
	return nil
}

// runDirect executes ops without a surrounding transaction (for *sql.Tx
// callers and steps containing non-transactional statements). When m.db
// cannot begin a transaction it is one owned by the caller, and only
// non-transactional statements survive a failure.
func (m *Migrator) runDirect(ctx context.Context, step Step, dir Direction) error {
	_, autocommit := m.db.(txBeginner)
	rec := &recorder{Execer: m.db, autocommit: autocommit}
	for _, op := range step.Ops(dir) {
		rec.nonTx = !op.Transactional()
		if err := op.Run(ctx, rec); err != nil {
			return directFailure(step, dir, rec, rec.last, err)
		}
	}
	if err := m.record(ctx, m.db, step, dir); err != nil {
		return directFailure(step, dir, rec, "", err)
	}
	return nil
}

func (m *Migrator) record(ctx context.Context, db Execer, step Step, dir Direction) error {
	if dir == DirectionDown {
		return m.removeLog(ctx, db, step)
	}
	return m.appendLog(ctx, db, step)
}

func directFailure(step Step, dir Direction, rec *recorder, stmt string, err error) error {
	if len(rec.persisted) == 0 {
		return stepError(step, dir, stmt, err)
	}
	return &PartialApplyInconsistency{
		Version:   step.Version,
		Name:      step.Name,
		Direction: dir,
		Completed: rec.persisted,
		Statement: stmt,
		Err:       err,
	}
}

func stepError(step Step, dir Direction, stmt string, err error) error {
	if dir == DirectionDown {
		return &MigrationRevertError{Version: step.Version, Name: step.Name, Statement: stmt, Err: err}
	}
	return &MigrationApplyError{Version: step.Version, Name: step.Name, Statement: stmt, Err: err}
}

// StepStatus is the state of one version, either in the source, the log,
// or both.
type StepStatus struct {
	Version         string
	Name            string
	Applied         bool
	AppliedAt       time.Time
	Checksum        string
	AppliedChecksum string

	// Orphaned is set for logged versions with no step in the source.
	Orphaned bool

	// Stranded is set for unapplied steps older than the head of the log.
	// Planning never picks them up.
	Stranded bool
}

// Drifted reports whether the step changed since it was applied.
func (s StepStatus) Drifted() bool {
	return s.Applied && !s.Orphaned && s.AppliedChecksum != s.Checksum
}

// Status reports every known version in ascending order.
func (m *Migrator) Status(ctx context.Context) ([]StepStatus, error) {
	if err := Validate(m.steps); err != nil {
		return nil, err
	}
	applied, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}
	return BuildStatus(m.steps, applied), nil
}

// BuildStatus merges source steps and log rows into per-version status.
func BuildStatus(steps []Step, applied []AppliedStep) []StepStatus {
	h := head(applied)
	byVersion := make(map[string]AppliedStep, len(applied))
	for _, a := range applied {
		byVersion[a.Version] = a
	}
	known := make(map[string]bool, len(steps))

	var out []StepStatus
	for _, s := range Sorted(steps) {
		known[s.Version] = true
		st := StepStatus{Version: s.Version, Name: s.Name, Checksum: s.Checksum()}
		if a, ok := byVersion[s.Version]; ok {
			st.Applied = true
			st.AppliedAt = a.AppliedAt
			st.AppliedChecksum = a.Checksum
		} else if h != "" && CompareVersions(s.Version, h) < 0 {
			st.Stranded = true
		}
		out = append(out, st)
	}
	for _, a := range applied {
		if known[a.Version] {
			continue
		}
		out = append(out, StepStatus{
			Version:         a.Version,
			Name:            a.Name,
			Applied:         true,
			AppliedAt:       a.AppliedAt,
			AppliedChecksum: a.Checksum,
			Orphaned:        true,
		})
	}
	sortStatus(out)
	return out
}

func sortStatus(s []StepStatus) {
	sort.SliceStable(s, func(i, j int) bool {
		return CompareVersions(s[i].Version, s[j].Version) < 0
	})
}

// outputDryRun writes the planned SQL to w.
func (m *Migrator) outputDryRun(w io.Writer, dir Direction, plan []Step) {
	_, _ = fmt.Fprintf(w, "-- Strata Migration (dry-run)\n")
	_, _ = fmt.Fprintf(w, "-- Direction: %s\n", dir)
	_, _ = fmt.Fprintf(w, "-- Steps: %d\n", len(plan))
	_, _ = fmt.Fprintf(w, "\n")

	if dir == DirectionUp && len(plan) > 0 {
		_, _ = fmt.Fprintf(w, "-- ============================================================\n")
		_, _ = fmt.Fprintf(w, "-- DDL: Migration Log Table\n")
		_, _ = fmt.Fprintf(w, "-- ============================================================\n\n")
		_, _ = fmt.Fprintf(w, "%s;\n\n", logDDL(m.table))
	}

	for _, step := range plan {
		mode := "transactional"
		if !step.Transactional(dir) {
			mode = "non-transactional"
		}
		_, _ = fmt.Fprintf(w, "-- ============================================================\n")
		_, _ = fmt.Fprintf(w, "-- %s %s (%s, %s)\n", step.Version, step.Name, dir, mode)
		_, _ = fmt.Fprintf(w, "-- ============================================================\n\n")
		for _, op := range step.Ops(dir) {
			_, _ = fmt.Fprintf(w, "%s;\n\n", op)
		}
		if dir == DirectionUp {
			_, _ = fmt.Fprintf(w, "INSERT INTO %s (version, name, checksum) VALUES (%s, %s, %s);\n\n",
				ddl.Ident(m.table), ddl.Literal(step.Version), ddl.Literal(step.Name), ddl.Literal(step.Checksum()))
		} else {
			_, _ = fmt.Fprintf(w, "DELETE FROM %s WHERE version = %s;\n\n", ddl.Ident(m.table), ddl.Literal(step.Version))
		}
	}
}
