package migrations

import "github.com/pthm/strata/pkg/ddl"

// Policy is the expected delete behaviour of one foreign key.
type Policy struct {
	Table     string
	Column    string
	RefTable  string
	RefColumn string
	OnDelete  ddl.Action
}

func (p Policy) String() string {
	return p.Table + "." + p.Column + " -> " + p.RefTable + "." + p.RefColumn + " ON DELETE " + p.OnDelete.String()
}

// Policies returns the referential delete policy of the fully migrated
// schema. RESTRICT guards rows whose deletion would orphan business records,
// CASCADE removes rows meaningless without their parent, and SET NULL keeps
// rows that stay meaningful once unassigned.
func Policies() []Policy {
	return []Policy{
		{"users", "role_id", "roles", "id", ddl.Restrict},
		{"admin_profiles", "user_id", "users", "id", ddl.Cascade},
		{"teacher_profiles", "user_id", "users", "id", ddl.Cascade},
		{"employee_profiles", "user_id", "users", "id", ddl.Cascade},
		{"employee_profiles", "department_id", "departments", "id", ddl.SetNull},
		{"projects", "manager_id", "users", "id", ddl.Restrict},
		{"projects", "lead_id", "employee_profiles", "id", ddl.Restrict},
		{"projects", "created_by", "admin_profiles", "id", ddl.Restrict},
		{"project_types", "department_id", "departments", "id", ddl.Cascade},
		{"task_types", "department_id", "departments", "id", ddl.NoAction},
		{"tasks", "assignee_id", "employee_profiles", "id", ddl.SetNull},
		{"tasks", "assigner_id", "employee_profiles", "id", ddl.SetNull},
		{"task_activity", "task_id", "tasks", "id", ddl.Cascade},
		{"task_activity", "actor_id", "employee_profiles", "id", ddl.SetNull},
		{"task_checklist", "task_id", "tasks", "id", ddl.Cascade},
		{"task_checklist", "completed_by", "employee_profiles", "id", ddl.SetNull},
		{"task_files", "task_id", "tasks", "id", ddl.Cascade},
		{"task_files", "uploaded_by", "employee_profiles", "id", ddl.SetNull},
		{"project_documents", "project_id", "projects", "id", ddl.Cascade},
		{"project_documents", "uploaded_by", "employee_profiles", "id", ddl.SetNull},
	}
}
