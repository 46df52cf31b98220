package schema

// LibraryAuthorTable represents the 'library.author' table
type LibraryAuthorTable struct {
	Table      string
	Name       string
	ID         string
	AuthorName string
	Biography  string
}

// LibraryAuthor is the schema definition for library.author
var LibraryAuthor = LibraryAuthorTable{
	Table:      "library.author",
	Name:       "author",
	ID:         "id",
	AuthorName: "name",
	Biography:  "biography",
}

func (t LibraryAuthorTable) Columns() []string {
	return []string{t.ID, t.AuthorName, t.Biography}
}
