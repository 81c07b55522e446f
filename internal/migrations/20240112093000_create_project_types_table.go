package migrations

import "github.com/pthm/strata/pkg/ddl"

func init() {
	register(createStep("20240112093000", "CreateProjectTypesTable",
		ddl.CreateTable{
			Name: "project_types",
			Columns: columns(
				[]ddl.Column{
					id(),
					requiredText("name"),
					requiredRef("department_id", "departments", ddl.Cascade),
				},
				timestamps(),
			),
		},
	))
}
