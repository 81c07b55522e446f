package migrations

import "github.com/pthm/strata/pkg/ddl"

func init() {
	register(createStep("20240116093000", "CreateTaskActivityTable",
		ddl.CreateTable{
			Name: "task_activity",
			Columns: []ddl.Column{
				id(),
				requiredRef("task_id", "tasks", ddl.Cascade),
				ref("actor_id", "employee_profiles", ddl.SetNull),
				requiredText("action"),
				text("details"),
				createdAt(),
			},
		},
		ddl.CreateIndex{Name: "task_activity_task_id_idx", Table: "task_activity", Columns: []string{"task_id"}},
	))
}
