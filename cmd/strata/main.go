// Package main provides the strata CLI, which evolves the CRM database
// schema through a fixed, ordered sequence of reversible migration steps.
//
// Usage:
//
//	strata [flags] <command>
//
// Every command except version and config reads the database from --db,
// database.url in strata.yaml, or STRATA_DATABASE_URL.
package main

func main() {
	Execute()
}
