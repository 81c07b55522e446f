package migrations

import "github.com/pthm/strata/pkg/ddl"

func init() {
	register(createStep("20240115140000", "CreateTaskTypesTable",
		ddl.CreateTable{
			Name: "task_types",
			Columns: columns(
				[]ddl.Column{
					id(),
					requiredText("name"),
					ref("department_id", "departments", ddl.NoAction),
				},
				timestamps(),
			),
		},
	))
}
