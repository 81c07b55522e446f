package migrations

import "github.com/pthm/strata/pkg/ddl"

func init() {
	register(createStep("20240116100000", "CreateTaskFilesTable",
		ddl.CreateTable{
			Name: "task_files",
			Columns: []ddl.Column{
				id(),
				requiredRef("task_id", "tasks", ddl.Cascade),
				requiredText("file_name"),
				requiredText("file_url"),
				ref("uploaded_by", "employee_profiles", ddl.SetNull),
				createdAt(),
			},
		},
	))
}
