package ddl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvert(t *testing.T) {
	tests := []struct {
		name string
		in   Statement
		want Statement
	}{
		{
			name: "create table",
			in:   CreateTable{Name: "roles", IfNotExists: true},
			want: DropTable{Name: "roles", IfExists: true},
		},
		{
			name: "create index",
			in:   CreateIndex{Name: "users_email_key", Table: "users", Columns: []string{"email"}, Unique: true},
			want: DropIndex{Name: "users_email_key"},
		},
		{
			name: "create enum",
			in:   CreateEnum{Name: "user_role", Values: []string{"admin"}},
			want: DropEnum{Name: "user_role"},
		},
		{
			name: "add column",
			in:   AddColumn{Table: "users", Column: Column{Name: "role_id", Type: "BIGINT"}},
			want: DropColumn{Table: "users", Column: "role_id"},
		},
		{
			name: "add named constraint",
			in:   AddConstraint{Table: "users", Constraint: ForeignKey{Name: "users_role_id_fkey", Columns: []string{"role_id"}, RefTable: "roles"}},
			want: DropConstraint{Table: "users", Name: "users_role_id_fkey"},
		},
		{
			name: "keyed seed rows",
			in: Insert{
				Table: "roles", Columns: []string{"name"},
				Rows: [][]any{{"admin"}, {"employee"}}, OnConflict: []string{"name"},
			},
			want: Delete{Table: "roles", Where: "name IN ('admin', 'employee')"},
		},
		{
			name: "seed rows with composite key",
			in: Insert{
				Table: "grants", Columns: []string{"role", "scope", "note"},
				Rows: [][]any{{"admin", 1, "x"}, {"employee", 2, "y"}}, OnConflict: []string{"role", "scope"},
			},
			want: Delete{Table: "grants", Where: "(role, scope) IN (('admin', 1), ('employee', 2))"},
		},
		{
			name: "set not null",
			in:   SetNotNull{Table: "users", Column: "role_id"},
			want: DropNotNull{Table: "users", Column: "role_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Invert(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInvert_NotInvertible(t *testing.T) {
	for _, stmt := range []Statement{
		DropTable{Name: "t"},
		DropColumn{Table: "t", Column: "c"},
		Raw{Query: "UPDATE t SET c = 1"},
		Insert{Table: "t", Columns: []string{"c"}, Rows: [][]any{{1}}},
		Insert{Table: "t", Columns: []string{"c"}, Rows: [][]any{{1}}, OnConflict: []string{"missing"}},
		AddConstraint{Table: "t", Constraint: Check{Expr: "c > 0"}},
	} {
		_, ok := Invert(stmt)
		assert.False(t, ok, "%T should not be invertible", stmt)
	}
}

func TestReverse(t *testing.T) {
	up := []Statement{
		CreateTable{Name: "departments"},
		CreateIndex{Name: "departments_name_idx", Table: "departments", Columns: []string{"name"}},
	}
	down, err := Reverse(up)
	require.NoError(t, err)
	assert.Equal(t, []Statement{
		DropIndex{Name: "departments_name_idx"},
		DropTable{Name: "departments"},
	}, down)

	_, err = Reverse([]Statement{CreateTable{Name: "t"}, Raw{Query: "SELECT 1"}})
	assert.ErrorContains(t, err, "cannot invert")
}
