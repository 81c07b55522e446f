package migrations

import "github.com/pthm/strata/pkg/ddl"

func init() {
	register(createStep("20240108093000", "CreateUsersTable",
		ddl.CreateEnum{Name: "user_role", Values: []string{"admin", "employee"}},
		ddl.CreateTable{
			Name: "users",
			Columns: columns(
				[]ddl.Column{
					id(),
					requiredText("name"),
					requiredText("email"),
					requiredText("password_hash"),
					{Name: "role", Type: "user_role", NotNull: true, Default: "'employee'"},
				},
				timestamps(),
			),
		},
		ddl.CreateIndex{Name: "users_email_key", Table: "users", Columns: []string{"email"}, Unique: true},
	))
}
