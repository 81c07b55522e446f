// Package ddl models PostgreSQL schema statements as values.
//
// # Overview
//
// Migration steps describe the schema they create or alter with typed
// statements rather than hand-written SQL strings. Each statement renders
// itself through SQL() and reports whether it may run inside a transaction.
// The migration engine never inspects statement content; it only executes the
// rendered SQL in order.
//
// # Statement Types
//
// Tables and columns:
//
//	CreateTable{Name: "roles", Columns: []Column{...}}  // CREATE TABLE roles (...)
//	DropTable{Name: "roles", IfExists: true}             // DROP TABLE IF EXISTS roles
//	AddColumn{Table: "users", Column: col}              // ALTER TABLE users ADD COLUMN ...
//	DropColumn{Table: "users", Column: "role"}          // ALTER TABLE users DROP COLUMN role
//	SetNotNull{Table: "users", Column: "role_id"}       // ALTER TABLE users ALTER COLUMN role_id SET NOT NULL
//
// Constraints and indexes:
//
//	AddConstraint{Table: "users", Constraint: ForeignKey{...}}
//	DropConstraint{Table: "users", Name: "users_role_id_fkey"}
//	CreateIndex{Name: "users_email_key", Table: "users", Columns: []string{"email"}, Unique: true}
//
// Enumerated types:
//
//	CreateEnum{Name: "user_role", Values: []string{"admin", "employee"}}
//	DropEnum{Name: "user_role"}
//	AddEnumValue{Type: "user_role", Value: "teacher"} // not transactional
//
// Data:
//
//	Insert{Table: "roles", Columns: []string{"name"}, Rows: [][]any{{"admin"}}, OnConflict: []string{"name"}}
//	Raw{Query: "UPDATE ..."} // escape hatch for engine-specific statements
//
// # Delete Policies
//
// Foreign keys carry an Action (NoAction, Restrict, Cascade, SetNull,
// ActionSetDefault) rendered as the ON DELETE clause. ParseAction maps the
// pg_constraint.confdeltype code back to an Action so inspection can compare
// the live schema against the declared policy.
//
// # Inversion
//
// Create-style statements have an obvious inverse. Invert returns it, and
// Reverse inverts a whole statement list in reverse order:
//
//	down, err := ddl.Reverse(up)
package ddl
