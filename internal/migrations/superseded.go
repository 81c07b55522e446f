package migrations

import "github.com/pthm/strata/pkg/ddl"

// Two definitions were replaced before the sequence shipped. They are kept
// so planning can prove they collide with the canonical steps, and they are
// never returned by All.
func init() {
	// Projects owned by a client user (client_id -> users) with documents
	// keyed the same way. Replaced by the client_name lineage in
	// CreateProjectsTable.
	registerSuperseded(createStep("20240112090000", "CreateProjectsWithClientTable",
		ddl.CreateTable{
			Name: "projects",
			Columns: columns(
				[]ddl.Column{
					id(),
					{Name: "project_code", Type: "TEXT", NotNull: true, Unique: true},
					requiredText("name"),
					requiredRef("client_id", "users", ddl.Cascade),
					{Name: "budget", Type: "NUMERIC(12,2)"},
				},
				timestamps(),
			),
		},
		ddl.CreateTable{
			Name: "project_documents",
			Columns: []ddl.Column{
				id(),
				requiredRef("project_id", "projects", ddl.Cascade),
				requiredText("title"),
				requiredText("path"),
				ref("client_id", "users", ddl.SetNull),
				createdAt(),
			},
		},
	))

	// Task types with billing metadata. Shares its version with the minimal
	// CreateTaskTypesTable.
	registerSuperseded(createStep("20240115140000", "CreateTaskTypesTableWithBilling",
		ddl.CreateEnum{Name: "task_type_status", Values: []string{"active", "archived"}},
		ddl.CreateTable{
			Name: "task_types",
			Columns: columns(
				[]ddl.Column{
					id(),
					requiredText("name"),
					ref("department_id", "departments", ddl.NoAction),
					{Name: "billable", Type: "BOOLEAN", NotNull: true, Default: "false"},
					{Name: "sla_hours", Type: "INTEGER"},
					{Name: "status", Type: "task_type_status", NotNull: true, Default: "'active'"},
				},
				timestamps(),
			),
		},
	))
}
