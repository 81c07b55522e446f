package migrations

import "github.com/pthm/strata/pkg/ddl"

func init() {
	register(createStep("20240108094500", "CreateDepartmentsTable",
		ddl.CreateTable{
			Name: "departments",
			Columns: columns(
				[]ddl.Column{id(), requiredText("name"), text("description")},
				timestamps(),
			),
		},
	))
}
