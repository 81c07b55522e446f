package migrations

import "github.com/pthm/strata/pkg/ddl"

// Projects record their client as a free-form name. Ownership is split
// across a managing user, a lead employee and the creating admin, none of
// which may be deleted while the project exists.
func init() {
	register(createStep("20240112090000", "CreateProjectsTable",
		ddl.CreateTable{
			Name: "projects",
			Columns: columns(
				[]ddl.Column{
					id(),
					{Name: "project_code", Type: "TEXT", NotNull: true, Unique: true},
					requiredText("name"),
					text("description"),
					text("client_name"),
					ref("manager_id", "users", ddl.Restrict),
					ref("lead_id", "employee_profiles", ddl.Restrict),
					ref("created_by", "admin_profiles", ddl.Restrict),
					{Name: "status", Type: "TEXT", NotNull: true, Default: "'active'"},
					{Name: "start_date", Type: "DATE"},
					{Name: "end_date", Type: "DATE"},
				},
				timestamps(),
			),
			Constraints: []ddl.Constraint{
				ddl.Check{Name: "projects_dates_check", Expr: "end_date IS NULL OR start_date IS NULL OR end_date >= start_date"},
			},
		},
	))
}
