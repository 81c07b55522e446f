package migrations

import "github.com/pthm/strata/pkg/ddl"

// profileOwner is the one-to-one link from a profile to its user.
func profileOwner() ddl.Column {
	c := requiredRef("user_id", "users", ddl.Cascade)
	c.Unique = true
	return c
}

func init() {
	register(createStep("20240109101500", "CreateProfileTables",
		ddl.CreateTable{
			Name: "admin_profiles",
			Columns: columns(
				[]ddl.Column{id(), profileOwner(), text("phone")},
				timestamps(),
			),
		},
		ddl.CreateTable{
			Name: "teacher_profiles",
			Columns: columns(
				[]ddl.Column{id(), profileOwner(), text("subject"), text("phone")},
				timestamps(),
			),
		},
		ddl.CreateTable{
			Name: "employee_profiles",
			Columns: columns(
				[]ddl.Column{
					id(),
					profileOwner(),
					ref("department_id", "departments", ddl.SetNull),
					text("job_title"),
					text("phone"),
					{Name: "hire_date", Type: "DATE"},
				},
				timestamps(),
			),
		},
		ddl.CreateIndex{Name: "employee_profiles_department_id_idx", Table: "employee_profiles", Columns: []string{"department_id"}},
	))
}
