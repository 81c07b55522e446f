package migrations

import "github.com/pthm/strata/pkg/ddl"

// File storage lives outside the database; only the URL is recorded.
func init() {
	register(createStep("20240112100000", "CreateProjectDocumentsTable",
		ddl.CreateTable{
			Name: "project_documents",
			Columns: []ddl.Column{
				id(),
				requiredRef("project_id", "projects", ddl.Cascade),
				requiredText("name"),
				requiredText("url"),
				ref("uploaded_by", "employee_profiles", ddl.SetNull),
				createdAt(),
			},
		},
		ddl.CreateIndex{Name: "project_documents_project_id_idx", Table: "project_documents", Columns: []string{"project_id"}},
	))
}
