package migrations

import "github.com/pthm/strata/pkg/ddl"

func init() {
	register(createStep("20240116094500", "CreateTaskChecklistTable",
		ddl.CreateTable{
			Name: "task_checklist",
			Columns: []ddl.Column{
				id(),
				requiredRef("task_id", "tasks", ddl.Cascade),
				requiredText("title"),
				{Name: "is_completed", Type: "BOOLEAN", NotNull: true, Default: "false"},
				ref("completed_by", "employee_profiles", ddl.SetNull),
				{Name: "completed_at", Type: "TIMESTAMPTZ"},
				createdAt(),
			},
		},
	))
}
