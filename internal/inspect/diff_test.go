package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func snapshot() *Snapshot {
	s := &Snapshot{Tables: map[string]*Table{}, Enums: map[string][]string{"user_role": {"admin", "employee"}}}
	users := s.table("users")
	users.Columns["id"] = Column{Name: "id", Type: "bigint", NotNull: true}
	users.Columns["role"] = Column{Name: "role", Type: "user_role", NotNull: true, Default: "'employee'::user_role"}
	users.Constraints["users_pkey"] = Constraint{Name: "users_pkey", Type: "p", Definition: "PRIMARY KEY (id)"}
	users.Indexes["users_pkey"] = "CREATE UNIQUE INDEX users_pkey ON public.users USING btree (id)"
	return s
}

func TestDiff_Identical(t *testing.T) {
	assert.Empty(t, Diff(snapshot(), snapshot()))
}

func TestDiff_Changes(t *testing.T) {
	before := snapshot()
	after := snapshot()

	delete(after.Tables["users"].Columns, "role")
	after.Tables["users"].Columns["role_id"] = Column{Name: "role_id", Type: "bigint", NotNull: true}
	after.Tables["users"].Columns["id"] = Column{Name: "id", Type: "integer", NotNull: true}
	after.Tables["users"].Constraints["users_role_id_fkey"] = Constraint{Name: "users_role_id_fkey", Type: "f"}
	delete(after.Enums, "user_role")
	after.table("roles")

	assert.Equal(t, []string{
		"column users.id changed: bigint NOT NULL -> integer NOT NULL",
		"column users.role removed",
		"column users.role_id added",
		"constraint users_role_id_fkey on users added",
		"table roles added",
		"type user_role removed",
	}, Diff(before, after))
}

func TestDiff_EnumLabels(t *testing.T) {
	before := snapshot()
	after := snapshot()
	after.Enums["user_role"] = []string{"admin", "employee", "teacher"}

	assert.Equal(t, []string{"type user_role labels changed: admin,employee -> admin,employee,teacher"}, Diff(before, after))
}

func TestSnapshot_Has(t *testing.T) {
	s := snapshot()
	assert.True(t, s.HasTable("users"))
	assert.False(t, s.HasTable("roles"))
	assert.True(t, s.HasColumn("users", "role"))
	assert.False(t, s.HasColumn("users", "role_id"))
	assert.False(t, s.HasColumn("roles", "id"))
	assert.True(t, s.HasEnum("user_role"))
	assert.Equal(t, []string{"users"}, s.TableNames())
}
