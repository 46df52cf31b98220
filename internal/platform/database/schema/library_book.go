package schema

// LibraryBookTable represents the 'library.book' table
type LibraryBookTable struct {
	Table         string
	Name          string
	ID            string
	Title         string
	Genre         string
	PublishedYear string
	AuthorID      string
	HolderID      string
}

// LibraryBook is the schema definition for library.book
var LibraryBook = LibraryBookTable{
	Table:         "library.book",
	Name:          "book",
	ID:            "id",
	Title:         "title",
	Genre:         "genre",
	PublishedYear: "publishedyear",
	AuthorID:      "authorid",
	HolderID:      "holderid",
}

func (t LibraryBookTable) Columns() []string {
	return []string{t.ID, t.Title, t.Genre, t.PublishedYear, t.AuthorID, t.HolderID}
}
