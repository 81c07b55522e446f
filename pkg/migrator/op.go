package migrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/pthm/strata/pkg/ddl"
)

// Op is one unit of work inside a step.
type Op interface {
	// Run executes the op. Statements must go through db so the engine can
	// track them.
	Run(ctx context.Context, db Execer) error

	// String renders the op as SQL, or as a SQL comment describing it when
	// there is no static SQL. It feeds dry-run output and step checksums.
	String() string

	// Transactional reports whether the op may run inside a transaction.
	Transactional() bool
}

type sqlOp struct {
	stmt ddl.Statement
}

// SQL wraps a declarative statement as an op.
func SQL(stmt ddl.Statement) Op {
	return sqlOp{stmt: stmt}
}

// Statements wraps each statement as an op, preserving order.
func Statements(stmts ...ddl.Statement) []Op {
	ops := make([]Op, len(stmts))
	for i, s := range stmts {
		ops[i] = SQL(s)
	}
	return ops
}

func (o sqlOp) Run(ctx context.Context, db Execer) error {
	_, err := db.ExecContext(ctx, o.stmt.SQL())
	return err
}

func (o sqlOp) String() string      { return o.stmt.SQL() }
func (o sqlOp) Transactional() bool { return o.stmt.Transactional() }

type funcOp struct {
	desc string
	fn   func(ctx context.Context, db Execer) error
}

// Func wraps engine-specific logic that has no static SQL form.
// The description is used in dry-run output and the step checksum.
func Func(desc string, fn func(ctx context.Context, db Execer) error) Op {
	return funcOp{desc: desc, fn: fn}
}

func (o funcOp) Run(ctx context.Context, db Execer) error { return o.fn(ctx, db) }
func (o funcOp) String() string                           { return "-- " + o.desc }
func (o funcOp) Transactional() bool                      { return true }

type guardOp struct {
	probe Probe
	// skipIf is the probe result that causes the nested ops to be skipped.
	skipIf bool
	ops    []Op
}

// Unless runs ops only when probe does not hold. It is the idempotent guard
// for steps that may find their work already done.
func Unless(probe Probe, ops ...Op) Op {
	return guardOp{probe: probe, skipIf: true, ops: ops}
}

// When runs ops only when probe holds.
func When(probe Probe, ops ...Op) Op {
	return guardOp{probe: probe, skipIf: false, ops: ops}
}

func (o guardOp) Run(ctx context.Context, db Execer) error {
	ok, err := o.probe.Check(ctx, db)
	if err != nil {
		return fmt.Errorf("checking %s: %w", o.probe, err)
	}
	if ok == o.skipIf {
		return nil
	}
	for _, op := range o.ops {
		if err := op.Run(ctx, db); err != nil {
			return err
		}
	}
	return nil
}

func (o guardOp) String() string {
	verb := "when"
	if o.skipIf {
		verb = "unless"
	}
	parts := make([]string, len(o.ops))
	for i, op := range o.ops {
		parts[i] = op.String()
	}
	return fmt.Sprintf("-- %s %s:\n%s", verb, o.probe, strings.Join(parts, ";\n"))
}

func (o guardOp) Transactional() bool {
	for _, op := range o.ops {
		if !op.Transactional() {
			return false
		}
	}
	return true
}
