package ddl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatement_SQL(t *testing.T) {
	tests := []struct {
		name string
		stmt Statement
		want string
	}{
		{
			name: "create table with inline reference",
			stmt: CreateTable{
				Name:        "employee_profiles",
				IfNotExists: true,
				Columns: []Column{
					{Name: "id", Type: "BIGSERIAL", PrimaryKey: true, NotNull: true},
					{Name: "user_id", Type: "BIGINT", NotNull: true, Unique: true, References: &Reference{Table: "users", OnDelete: Cascade}},
					{Name: "department_id", Type: "BIGINT", References: &Reference{Table: "departments", OnDelete: SetNull}},
				},
			},
			want: "CREATE TABLE IF NOT EXISTS employee_profiles (\n" +
				"    id BIGSERIAL PRIMARY KEY,\n" +
				"    user_id BIGINT NOT NULL UNIQUE REFERENCES users (id) ON DELETE CASCADE,\n" +
				"    department_id BIGINT REFERENCES departments (id) ON DELETE SET NULL\n" +
				")",
		},
		{
			name: "create table with table constraints",
			stmt: CreateTable{
				Name: "t",
				Columns: []Column{
					{Name: "a", Type: "INT"},
					{Name: "b", Type: "INT", Default: "0"},
				},
				Constraints: []Constraint{
					UniqueKey{Name: "t_a_b_key", Columns: []string{"a", "b"}},
					Check{Expr: "b >= 0"},
				},
			},
			want: "CREATE TABLE t (\n" +
				"    a INT,\n" +
				"    b INT DEFAULT 0,\n" +
				"    CONSTRAINT t_a_b_key UNIQUE (a, b),\n" +
				"    CHECK (b >= 0)\n" +
				")",
		},
		{
			name: "drop table",
			stmt: DropTable{Name: "roles", IfExists: true},
			want: "DROP TABLE IF EXISTS roles",
		},
		{
			name: "drop table cascade",
			stmt: DropTable{Name: "roles", Cascade: true},
			want: "DROP TABLE roles CASCADE",
		},
		{
			name: "reserved identifier is quoted",
			stmt: DropTable{Name: "user"},
			want: `DROP TABLE "user"`,
		},
		{
			name: "mixed case identifier is quoted",
			stmt: DropColumn{Table: "Users", Column: "role"},
			want: `ALTER TABLE "Users" DROP COLUMN role`,
		},
		{
			name: "add column",
			stmt: AddColumn{Table: "users", Column: Column{Name: "role_id", Type: "BIGINT"}},
			want: "ALTER TABLE users ADD COLUMN role_id BIGINT",
		},
		{
			name: "add column if not exists",
			stmt: AddColumn{Table: "users", IfNotExists: true, Column: Column{Name: "role", Type: "user_role"}},
			want: "ALTER TABLE users ADD COLUMN IF NOT EXISTS role user_role",
		},
		{
			name: "set not null",
			stmt: SetNotNull{Table: "users", Column: "role_id"},
			want: "ALTER TABLE users ALTER COLUMN role_id SET NOT NULL",
		},
		{
			name: "drop not null",
			stmt: DropNotNull{Table: "users", Column: "role_id"},
			want: "ALTER TABLE users ALTER COLUMN role_id DROP NOT NULL",
		},
		{
			name: "set default",
			stmt: SetDefault{Table: "users", Column: "role", Expr: "'employee'"},
			want: "ALTER TABLE users ALTER COLUMN role SET DEFAULT 'employee'",
		},
		{
			name: "drop default",
			stmt: DropDefault{Table: "users", Column: "role"},
			want: "ALTER TABLE users ALTER COLUMN role DROP DEFAULT",
		},
		{
			name: "add foreign key",
			stmt: AddConstraint{Table: "users", Constraint: ForeignKey{
				Name: "users_role_id_fkey", Columns: []string{"role_id"}, RefTable: "roles", OnDelete: Restrict,
			}},
			want: "ALTER TABLE users ADD CONSTRAINT users_role_id_fkey FOREIGN KEY (role_id) REFERENCES roles (id) ON DELETE RESTRICT",
		},
		{
			name: "drop constraint",
			stmt: DropConstraint{Table: "users", Name: "users_role_id_fkey", IfExists: true},
			want: "ALTER TABLE users DROP CONSTRAINT IF EXISTS users_role_id_fkey",
		},
		{
			name: "unique index",
			stmt: CreateIndex{Name: "users_email_key", Table: "users", Columns: []string{"email"}, Unique: true},
			want: "CREATE UNIQUE INDEX users_email_key ON users (email)",
		},
		{
			name: "partial concurrent index",
			stmt: CreateIndex{Name: "tasks_open_idx", Table: "tasks", Columns: []string{"due_date"}, Concurrently: true, IfNotExists: true, Where: "status <> 'done'"},
			want: "CREATE INDEX CONCURRENTLY IF NOT EXISTS tasks_open_idx ON tasks (due_date) WHERE status <> 'done'",
		},
		{
			name: "drop index",
			stmt: DropIndex{Name: "users_email_key", IfExists: true},
			want: "DROP INDEX IF EXISTS users_email_key",
		},
		{
			name: "create enum",
			stmt: CreateEnum{Name: "user_role", Values: []string{"admin", "employee"}},
			want: "CREATE TYPE user_role AS ENUM ('admin', 'employee')",
		},
		{
			name: "drop enum",
			stmt: DropEnum{Name: "user_role", IfExists: true},
			want: "DROP TYPE IF EXISTS user_role",
		},
		{
			name: "add enum value",
			stmt: AddEnumValue{Type: "task_status", Value: "blocked", IfNotExists: true},
			want: "ALTER TYPE task_status ADD VALUE IF NOT EXISTS 'blocked'",
		},
		{
			name: "seed insert",
			stmt: Insert{
				Table:      "roles",
				Columns:    []string{"name"},
				Rows:       [][]any{{"admin"}, {"employee"}},
				OnConflict: []string{"name"},
			},
			want: "INSERT INTO roles (name)\nVALUES ('admin'), ('employee')\nON CONFLICT (name) DO NOTHING",
		},
		{
			name: "insert literals",
			stmt: Insert{
				Table:   "t",
				Columns: []string{"a", "b", "c", "d"},
				Rows:    [][]any{{nil, true, 42, Expr("now()")}},
			},
			want: "INSERT INTO t (a, b, c, d)\nVALUES (NULL, TRUE, 42, now())",
		},
		{
			name: "delete",
			stmt: Delete{Table: "roles", Where: "name IN ('admin', 'employee')"},
			want: "DELETE FROM roles WHERE name IN ('admin', 'employee')",
		},
		{
			name: "raw trims whitespace",
			stmt: Raw{Query: "\n  UPDATE users SET role_id = 1\n"},
			want: "UPDATE users SET role_id = 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stmt.SQL(); got != tt.want {
				t.Errorf("%T.SQL() =\n%s\nwant\n%s", tt.stmt, got, tt.want)
			}
		})
	}
}

func TestStatement_Transactional(t *testing.T) {
	assert.True(t, CreateTable{Name: "t"}.Transactional())
	assert.True(t, CreateEnum{Name: "e"}.Transactional())
	assert.True(t, CreateIndex{Name: "i"}.Transactional())
	assert.False(t, CreateIndex{Name: "i", Concurrently: true}.Transactional())
	assert.False(t, DropIndex{Name: "i", Concurrently: true}.Transactional())
	assert.False(t, AddEnumValue{Type: "e", Value: "v"}.Transactional())
	assert.True(t, Raw{Query: "SELECT 1"}.Transactional())
	assert.False(t, Raw{Query: "VACUUM", NonTransactional: true}.Transactional())
}

func TestLiteral(t *testing.T) {
	assert.Equal(t, "'it''s'", Literal("it's"))
	assert.Equal(t, "NULL", Literal(nil))
	assert.Equal(t, "FALSE", Literal(false))
	assert.Equal(t, "7", Literal(int64(7)))
	assert.Equal(t, "1.5", Literal(1.5))
	assert.Equal(t, "now()", Literal(Expr("now()")))
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		in   string
		want Action
	}{
		{"a", NoAction},
		{"r", Restrict},
		{"c", Cascade},
		{"n", SetNull},
		{"d", ActionSetDefault},
		{"SET NULL", SetNull},
		{"restrict", Restrict},
		{" NO ACTION ", NoAction},
	}
	for _, tt := range tests {
		got, err := ParseAction(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseAction("x")
	assert.Error(t, err)
}

func TestActionString_RoundTrip(t *testing.T) {
	for _, a := range []Action{NoAction, Restrict, Cascade, SetNull, ActionSetDefault} {
		got, err := ParseAction(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	assert.Equal(t, "Action(42)", Action(42).String())
}

func TestSqlf(t *testing.T) {
	got := Sqlf(`
		SELECT 1
		  FROM t

		WHERE %s`, "x")
	assert.Equal(t, "SELECT 1\n  FROM t\nWHERE x", got)
	assert.Equal(t, "", Optf(false, "WHERE %s", "x"))
	assert.Equal(t, "WHERE x", Optf(true, "WHERE %s", "x"))
}
