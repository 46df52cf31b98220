package schema

// LibraryPatronTable represents the 'library.patron' table.
// Patrons are the catalog's users; "user" is reserved in PostgreSQL.
type LibraryPatronTable struct {
	Table      string
	Name       string
	ID         string
	PatronName string
	Email      string
}

// LibraryPatron is the schema definition for library.patron
var LibraryPatron = LibraryPatronTable{
	Table:      "library.patron",
	Name:       "patron",
	ID:         "id",
	PatronName: "name",
	Email:      "email",
}

func (t LibraryPatronTable) Columns() []string {
	return []string{t.ID, t.PatronName, t.Email}
}
