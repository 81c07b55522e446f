package migrations

import (
	"github.com/pthm/strata/pkg/ddl"
	"github.com/pthm/strata/pkg/migrator"
)

// Seeded role names. They match the labels of the legacy user_role type so
// every existing user resolves during the backfill.
var roleNames = []string{"admin", "employee"}

const roleIDFKey = "users_role_id_fkey"

// RoleNormalizationVersion is the step that moves users from the role enum
// to the roles table.
const RoleNormalizationVersion = "20240220120000"

// Replaces the inline users.role enum with a users.role_id reference to a
// roles lookup table:
//
//	LegacyColumnOnly -> ColumnsCoexist (role_id nullable) -> NormalizedOnly
//
// The foreign key is added before the backfill so every backfilled row is
// validated as it is written. The forward work is skipped when role_id
// already exists.
func init() {
	seed := make([][]any, len(roleNames))
	for i, n := range roleNames {
		seed[i] = []any{n}
	}

	up := migrator.Unless(migrator.ColumnExists("users", "role_id"), migrator.Statements(
		ddl.CreateTable{
			Name:        "roles",
			IfNotExists: true,
			Columns: columns(
				[]ddl.Column{id(), {Name: "name", Type: "TEXT", NotNull: true, Unique: true}},
				timestamps(),
			),
		},
		ddl.Insert{Table: "roles", Columns: []string{"name"}, Rows: seed, OnConflict: []string{"name"}},
		ddl.AddColumn{Table: "users", Column: ddl.Column{Name: "role_id", Type: "BIGINT"}},
		ddl.AddConstraint{Table: "users", Constraint: ddl.ForeignKey{
			Name:     roleIDFKey,
			Columns:  []string{"role_id"},
			RefTable: "roles",
			OnDelete: ddl.Restrict,
		}},
		ddl.Raw{Query: ddl.Sqlf(`
			UPDATE users
			SET role_id = r.id
			FROM roles r
			WHERE r.name = users.role::text`)},
		ddl.SetNotNull{Table: "users", Column: "role_id"},
		ddl.DropColumn{Table: "users", Column: "role"},
		ddl.DropEnum{Name: "user_role"},
	)...)

	// Only correct while no roles row referenced by a user was renamed or
	// deleted after the forward run.
	down := migrator.When(migrator.ColumnExists("users", "role_id"), migrator.Statements(
		ddl.CreateEnum{Name: "user_role", Values: roleNames},
		ddl.AddColumn{Table: "users", Column: ddl.Column{Name: "role", Type: "user_role"}},
		ddl.Raw{Query: ddl.Sqlf(`
			UPDATE users
			SET role = r.name::user_role
			FROM roles r
			WHERE r.id = users.role_id`)},
		ddl.SetNotNull{Table: "users", Column: "role"},
		ddl.SetDefault{Table: "users", Column: "role", Expr: "'employee'"},
		ddl.DropConstraint{Table: "users", Name: roleIDFKey},
		ddl.DropColumn{Table: "users", Column: "role_id"},
		ddl.DropTable{Name: "roles"},
	)...)

	register(migrator.Step{
		Version: RoleNormalizationVersion,
		Name:    "CreateRolesAndAlterUsersRoleId",
		Up:      []migrator.Op{up},
		Down:    []migrator.Op{down},
	})
}
