package testutil

import (
	"context"
	"database/sql"
	"fmt"
)

// Fixtures provides factory functions for CRM rows.
// Each helper inserts one row and returns its id. Nullable references take
// an `any` so callers can pass nil.
type Fixtures struct {
	db  *sql.DB
	ctx context.Context
}

// NewFixtures creates a new Fixtures instance.
func NewFixtures(ctx context.Context, db *sql.DB) *Fixtures {
	return &Fixtures{db: db, ctx: ctx}
}

func (f *Fixtures) insert(query string, args ...any) (int64, error) {
	var id int64
	err := f.db.QueryRowContext(f.ctx, query+" RETURNING id", args...).Scan(&id)
	return id, err
}

// CreateUser inserts a user in the legacy shape (inline role column).
func (f *Fixtures) CreateUser(name, role string) (int64, error) {
	return f.insert(
		`INSERT INTO users (name, email, password_hash, role) VALUES ($1, $2, 'x', $3::user_role)`,
		name, name+"@example.com", role)
}

// CreateUserWithRole inserts a user in the normalized shape (role_id).
func (f *Fixtures) CreateUserWithRole(name string, roleID int64) (int64, error) {
	return f.insert(
		`INSERT INTO users (name, email, password_hash, role_id) VALUES ($1, $2, 'x', $3)`,
		name, name+"@example.com", roleID)
}

// RoleID returns the id of the role called name.
func (f *Fixtures) RoleID(name string) (int64, error) {
	var id int64
	err := f.db.QueryRowContext(f.ctx, `SELECT id FROM roles WHERE name = $1`, name).Scan(&id)
	return id, err
}

// CreateDepartment inserts a department.
func (f *Fixtures) CreateDepartment(name string) (int64, error) {
	return f.insert(`INSERT INTO departments (name) VALUES ($1)`, name)
}

// CreateEmployee inserts an employee profile. departmentID may be nil.
func (f *Fixtures) CreateEmployee(userID int64, departmentID any) (int64, error) {
	return f.insert(`INSERT INTO employee_profiles (user_id, department_id) VALUES ($1, $2)`, userID, departmentID)
}

// CreateTask inserts a task. assigneeID may be nil.
func (f *Fixtures) CreateTask(title string, assigneeID any) (int64, error) {
	return f.insert(`INSERT INTO tasks (title, assignee_id) VALUES ($1, $2)`, title, assigneeID)
}

// AddChecklistItem inserts a checklist row for taskID.
func (f *Fixtures) AddChecklistItem(taskID int64, title string) (int64, error) {
	return f.insert(`INSERT INTO task_checklist (task_id, title) VALUES ($1, $2)`, taskID, title)
}

// AttachFile inserts a task_files row for taskID.
func (f *Fixtures) AttachFile(taskID int64, fileURL string, uploadedBy any) (int64, error) {
	return f.insert(
		`INSERT INTO task_files (task_id, file_name, file_url, uploaded_by) VALUES ($1, $2, $3, $4)`,
		taskID, fileURL, fileURL, uploadedBy)
}

// LogActivity inserts a task_activity row for taskID.
func (f *Fixtures) LogActivity(taskID int64, actorID any, action string) (int64, error) {
	return f.insert(`INSERT INTO task_activity (task_id, actor_id, action) VALUES ($1, $2, $3)`, taskID, actorID, action)
}

// Count returns the number of rows in table.
func (f *Fixtures) Count(table string) (int, error) {
	var n int
	err := f.db.QueryRowContext(f.ctx, fmt.Sprintf("SELECT count(*) FROM %s", table)).Scan(&n)
	return n, err
}

// CountWhere returns the number of rows in table matching where.
func (f *Fixtures) CountWhere(table, where string, args ...any) (int, error) {
	var n int
	err := f.db.QueryRowContext(f.ctx, fmt.Sprintf("SELECT count(*) FROM %s WHERE %s", table, where), args...).Scan(&n)
	return n, err
}
