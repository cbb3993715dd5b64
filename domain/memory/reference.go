package memory

// Prompt is a read-only writing prompt used to pre-seed a new memory's
// title.
type Prompt struct {
	ID       string
	Question string
	Category string
}

// Category is reference data for the category picker. It is not enforced as
// a foreign key: memories store the category name as free text.
type Category struct {
	ID          string
	Name        string
	Description string
}

// Profile is the public face of a user.
type Profile struct {
	ID            string
	DisplayName   string
	Email         string
	AvatarLocator string
}
