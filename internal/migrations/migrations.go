// Package migrations holds the CRM schema sequence.
//
// Each step lives in its own file named after its version token and
// registers itself from init. All returns the canonical sequence in version
// order; Superseded returns definitions that were replaced and must never be
// planned alongside it.
package migrations

import (
	"github.com/pthm/strata/pkg/ddl"
	"github.com/pthm/strata/pkg/migrator"
)

var (
	canonical  []migrator.Step
	superseded []migrator.Step
)

func register(s migrator.Step) {
	canonical = append(canonical, s)
}

func registerSuperseded(s migrator.Step) {
	superseded = append(superseded, s)
}

// All returns the canonical sequence in ascending version order.
func All() []migrator.Step {
	return migrator.Sorted(canonical)
}

// Superseded returns replaced definitions. Each shares its version token
// with a canonical step, so planning them together fails with
// DuplicateVersionError.
func Superseded() []migrator.Step {
	return migrator.Sorted(superseded)
}

// Latest returns the version of the newest canonical step.
func Latest() string {
	all := All()
	if len(all) == 0 {
		return ""
	}
	return all[len(all)-1].Version
}

// Find returns the canonical step with the given version or name.
func Find(key string) (migrator.Step, bool) {
	for _, s := range canonical {
		if s.Version == key || s.Name == key {
			return s, true
		}
	}
	return migrator.Step{}, false
}

// createStep builds a step whose down direction is the exact inverse of its
// declarative up statements.
func createStep(version, name string, up ...ddl.Statement) migrator.Step {
	down, err := ddl.Reverse(up)
	if err != nil {
		panic("migrations: " + name + ": " + err.Error())
	}
	return migrator.Step{
		Version: version,
		Name:    name,
		Up:      migrator.Statements(up...),
		Down:    migrator.Statements(down...),
	}
}

// Column helpers shared by the table definitions.

func id() ddl.Column {
	return ddl.Column{Name: "id", Type: "BIGSERIAL", PrimaryKey: true}
}

func timestamps() []ddl.Column {
	return []ddl.Column{
		{Name: "created_at", Type: "TIMESTAMPTZ", NotNull: true, Default: "now()"},
		{Name: "updated_at", Type: "TIMESTAMPTZ", NotNull: true, Default: "now()"},
	}
}

func createdAt() ddl.Column {
	return ddl.Column{Name: "created_at", Type: "TIMESTAMPTZ", NotNull: true, Default: "now()"}
}

func text(name string) ddl.Column {
	return ddl.Column{Name: name, Type: "TEXT"}
}

func requiredText(name string) ddl.Column {
	return ddl.Column{Name: name, Type: "TEXT", NotNull: true}
}

// ref is a nullable BIGINT column referencing table.id.
func ref(name, table string, onDelete ddl.Action) ddl.Column {
	return ddl.Column{Name: name, Type: "BIGINT", References: &ddl.Reference{Table: table, OnDelete: onDelete}}
}

// requiredRef is ref with NOT NULL.
func requiredRef(name, table string, onDelete ddl.Action) ddl.Column {
	c := ref(name, table, onDelete)
	c.NotNull = true
	return c
}

func columns(groups ...[]ddl.Column) []ddl.Column {
	var out []ddl.Column
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
