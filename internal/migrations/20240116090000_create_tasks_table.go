package migrations

import "github.com/pthm/strata/pkg/ddl"

func init() {
	register(createStep("20240116090000", "CreateTasksTable",
		ddl.CreateEnum{Name: "task_status", Values: []string{"todo", "in_progress", "review", "done"}},
		ddl.CreateTable{
			Name: "tasks",
			Columns: columns(
				[]ddl.Column{
					id(),
					requiredText("title"),
					text("description"),
					{Name: "status", Type: "task_status", NotNull: true, Default: "'todo'"},
					{Name: "priority", Type: "TEXT", NotNull: true, Default: "'medium'"},
					ref("assignee_id", "employee_profiles", ddl.SetNull),
					ref("assigner_id", "employee_profiles", ddl.SetNull),
					{Name: "due_date", Type: "DATE"},
				},
				timestamps(),
			),
		},
		ddl.CreateIndex{Name: "tasks_assignee_id_idx", Table: "tasks", Columns: []string{"assignee_id"}},
		ddl.CreateIndex{Name: "tasks_open_due_date_idx", Table: "tasks", Columns: []string{"due_date"}, Where: "status <> 'done'"},
	))
}
