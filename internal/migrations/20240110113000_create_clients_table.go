package migrations

import "github.com/pthm/strata/pkg/ddl"

func init() {
	register(createStep("20240110113000", "CreateClientsTable",
		ddl.CreateTable{
			Name: "clients",
			Columns: columns(
				[]ddl.Column{
					id(),
					requiredText("name"),
					{Name: "email", Type: "TEXT", NotNull: true, Unique: true},
					text("phone"),
					text("company"),
					text("address"),
				},
				timestamps(),
			),
		},
	))
}
